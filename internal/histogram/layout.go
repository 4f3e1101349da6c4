// Package histogram lays out a minute series as a bar chart on a nominal
// coordinate surface and renders it as SVG or PNG.
package histogram

import (
	"fmt"
	"math"

	"github.com/tinytelemetry/chatstats/internal/model"
)

const (
	// MaxTicks caps how many x-axis labels appear regardless of bucket count.
	MaxTicks = 12

	// MinBarWidth keeps bars visible when there are many buckets.
	MinBarWidth = 4.0

	barInset     = 2.0
	barGap       = 4.0
	barRadius    = 4.0
	zeroOpacity  = 0.12
	labelX       = 8.0
	tickBaseline = 6.0
)

// GridFractions are the gridline positions as fractions of the max count.
var GridFractions = []float64{0, 0.25, 0.5, 0.75, 1}

// Padding reserves room around the plotting region for axis labels.
type Padding struct {
	Left, Right, Top, Bottom float64
}

// Geometry is the nominal chart surface. It is independent of pixels;
// renderers scale it.
type Geometry struct {
	Width, Height float64
	Padding       Padding
}

// DefaultGeometry is an 800x280 surface.
var DefaultGeometry = Geometry{
	Width:   model.DefaultChartWidth,
	Height:  model.DefaultChartHeight,
	Padding: Padding{Left: 40, Right: 16, Top: 16, Bottom: 40},
}

// InnerWidth is the width of the plotting region.
func (g Geometry) InnerWidth() float64 { return g.Width - g.Padding.Left - g.Padding.Right }

// InnerHeight is the height of the plotting region.
func (g Geometry) InnerHeight() float64 { return g.Height - g.Padding.Top - g.Padding.Bottom }

// Bar is one bucket's rectangle.
type Bar struct {
	Index   int
	X, Y    float64
	Width   float64
	Height  float64
	Radius  float64
	Opacity float64
	Label   string
	Count   int
	Tooltip string
}

// Gridline is a horizontal guide labelled with the count at its height.
type Gridline struct {
	Fraction float64
	Value    int
	Y        float64
	X1, X2   float64
	LabelX   float64
}

// Tick is an x-axis label under a bar.
type Tick struct {
	Index int
	X, Y  float64
	Text  string
}

// Chart is the complete layout of a histogram.
type Chart struct {
	Geometry  Geometry
	Max       int // scale maximum, at least 1
	Bars      []Bar
	Gridlines []Gridline
	Ticks     []Tick
}

// Build lays out stats on g.
func Build(stats []model.MinuteStat, g Geometry) Chart {
	innerW, innerH := g.InnerWidth(), g.InnerHeight()
	maxCount := ScaleMax(stats)
	n := len(stats)

	c := Chart{
		Geometry:  g,
		Max:       maxCount,
		Bars:      make([]Bar, 0, n),
		Gridlines: make([]Gridline, 0, len(GridFractions)),
	}

	for _, t := range GridFractions {
		c.Gridlines = append(c.Gridlines, Gridline{
			Fraction: t,
			Value:    int(math.Round(float64(maxCount) * t)),
			Y:        g.Padding.Top + innerH - innerH*t,
			X1:       g.Padding.Left,
			X2:       g.Width - g.Padding.Right,
			LabelX:   labelX,
		})
	}

	barW := BarWidth(innerW, n)
	step := TickStep(n)
	for i, s := range stats {
		x := g.Padding.Left + float64(i)*innerW/float64(n) + barInset
		h := float64(s.Count) / float64(maxCount) * innerH
		opacity := 1.0
		if s.Count == 0 {
			opacity = zeroOpacity
		}
		c.Bars = append(c.Bars, Bar{
			Index:   i,
			X:       x,
			Y:       g.Padding.Top + innerH - h,
			Width:   barW,
			Height:  h,
			Radius:  barRadius,
			Opacity: opacity,
			Label:   s.Label,
			Count:   s.Count,
			Tooltip: TooltipText(s.Label, s.Count),
		})
		if i%step == 0 {
			c.Ticks = append(c.Ticks, Tick{
				Index: i,
				X:     x + barW/2,
				Y:     g.Height - tickBaseline,
				Text:  ShortLabel(s.Label),
			})
		}
	}
	return c
}

// ScaleMax is the largest count in stats, floored at 1 so an all-zero
// series still divides cleanly.
func ScaleMax(stats []model.MinuteStat) int {
	m := 1
	for _, s := range stats {
		m = max(m, s.Count)
	}
	return m
}

// BarWidth fits n bars into innerW with a minimum width.
func BarWidth(innerW float64, n int) float64 {
	return math.Max(MinBarWidth, innerW/float64(max(1, n))-barGap)
}

// TickStep returns N such that labelling every Nth bucket shows at most
// MaxTicks labels.
func TickStep(n int) int {
	return int(math.Ceil(math.Max(1, float64(n)/MaxTicks)))
}

// ShortLabel keeps the HH:MM part of a "YYYY-MM-DD HH:MM" label.
func ShortLabel(label string) string {
	if len(label) <= 11 {
		return label
	}
	return label[11:]
}

// TooltipText is the hover text for a bucket.
func TooltipText(label string, count int) string {
	suffix := "s"
	if count == 1 {
		suffix = ""
	}
	return fmt.Sprintf("%s — %d msg%s", label, count, suffix)
}
