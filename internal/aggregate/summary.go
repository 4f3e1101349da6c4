package aggregate

import (
	"github.com/samber/lo"
	"github.com/tinytelemetry/chatstats/internal/model"
)

// Summarize computes total, max and average per minute.
// The average divides by every bucket, silent minutes included.
// Callers gate on a non-empty series; empty input yields the zero Summary.
func Summarize(stats []model.MinuteStat) model.Summary {
	if len(stats) == 0 {
		return model.Summary{}
	}
	counts := lo.Map(stats, func(s model.MinuteStat, _ int) int { return s.Count })
	total := lo.Sum(counts)
	return model.Summary{
		Total: total,
		Max:   lo.Max(counts),
		Avg:   float64(total) / float64(len(stats)),
	}
}
