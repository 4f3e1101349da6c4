package histogram

import (
	"errors"
	"io"

	"github.com/tinytelemetry/chatstats/internal/model"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("histogram: no buckets to render")

var (
	pngAccent = drawing.Color{R: 124, G: 92, B: 255, A: 255}
	pngFaint  = drawing.Color{R: 124, G: 92, B: 255, A: 31}
)

// WritePNG renders stats as a static PNG bar chart sized to g.
func WritePNG(w io.Writer, stats []model.MinuteStat, g Geometry) error {
	if len(stats) == 0 {
		return ErrNoData
	}

	step := TickStep(len(stats))
	bars := make([]chart.Value, 0, len(stats))
	for i, s := range stats {
		label := ""
		if i%step == 0 {
			label = ShortLabel(s.Label)
		}
		fill := pngAccent
		if s.Count == 0 {
			fill = pngFaint
		}
		bars = append(bars, chart.Value{
			Label: label,
			Value: float64(s.Count),
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 0},
		})
	}

	bc := chart.BarChart{
		Width:    int(g.Width),
		Height:   int(g.Height),
		BarWidth: int(BarWidth(g.InnerWidth(), len(stats))),
		Background: chart.Style{
			Padding: chart.Box{
				Top:    int(g.Padding.Top),
				Left:   int(g.Padding.Left),
				Right:  int(g.Padding.Right),
				Bottom: int(g.Padding.Bottom),
			},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(ScaleMax(stats))},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}
