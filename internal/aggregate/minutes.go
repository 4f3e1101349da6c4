// Package aggregate buckets parsed chat messages into a dense per-minute
// series and derives summary statistics from it.
package aggregate

import (
	"time"

	"github.com/samber/lo"
	"github.com/tinytelemetry/chatstats/internal/chatparse"
	"github.com/tinytelemetry/chatstats/internal/model"
)

// Result is the outcome of one aggregation pass.
type Result struct {
	Stats   []model.MinuteStat
	Parsed  int // lines that produced a message
	Skipped int // lines that did not match
}

// Empty reports whether no line parsed.
func (r Result) Empty() bool { return len(r.Stats) == 0 }

// Aggregator counts messages per minute.
type Aggregator struct {
	parser *chatparse.Parser
}

// New creates an Aggregator using parser. A nil parser uses chatparse defaults.
func New(parser *chatparse.Parser) *Aggregator {
	if parser == nil {
		parser = chatparse.New(nil)
	}
	return &Aggregator{parser: parser}
}

// Run parses lines and returns the gap-filled series with line counts.
// Line order does not affect the result.
func (a *Aggregator) Run(lines []string) Result {
	counts := make(map[int64]int)
	var res Result
	for _, line := range lines {
		msg, ok := a.parser.Parse(line)
		if !ok {
			res.Skipped++
			continue
		}
		res.Parsed++
		counts[MinuteEpoch(msg.Timestamp)]++
	}
	res.Stats = Densify(counts)
	return res
}

// Minutes is Run with the default parser, returning only the series.
func Minutes(lines []string) []model.MinuteStat {
	return New(nil).Run(lines).Stats
}

// MinuteEpoch truncates t to the start of its minute in ms since the epoch.
// Instants before 1970 are floored too.
func MinuteEpoch(t time.Time) int64 {
	ms := t.UnixMilli()
	q := ms / model.MinuteMillis
	if ms%model.MinuteMillis < 0 {
		q--
	}
	return q * model.MinuteMillis
}

// Densify expands sparse minute counts into one entry per minute from the
// earliest to the latest key inclusive, filling absent minutes with zero.
// An empty map yields an empty series.
func Densify(counts map[int64]int) []model.MinuteStat {
	if len(counts) == 0 {
		return []model.MinuteStat{}
	}

	keys := lo.Keys(counts)
	minKey, maxKey := lo.Min(keys), lo.Max(keys)

	stats := make([]model.MinuteStat, 0, (maxKey-minKey)/model.MinuteMillis+1)
	for ts := minKey; ts <= maxKey; ts += model.MinuteMillis {
		stats = append(stats, model.MinuteStat{
			MinuteStartTs: ts,
			Label:         Label(ts),
			Count:         counts[ts],
		})
	}
	return stats
}

// Label renders a minute epoch as "YYYY-MM-DD HH:MM" in UTC.
func Label(minuteEpoch int64) string {
	return time.UnixMilli(minuteEpoch).UTC().Format(model.LabelLayout)
}
