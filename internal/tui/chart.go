package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/chatstats/internal/histogram"
	"github.com/tinytelemetry/chatstats/internal/model"
)

const (
	yGutter      = 7 // "%5d ┤"
	barCellWidth = 1
	barCellGap   = 1
	barStride    = barCellWidth + barCellGap
	headerLines  = 3 // title, summary, blank
	footerLines  = 5 // baseline, ticks, tooltip, status, help
	minChartRows = 4
)

// chartLayout is where the bars sit on screen for a given terminal size.
type chartLayout struct {
	left     int // column of the first bar
	top      int // row of the top of the bar area
	rows     int // bar area height
	capacity int // bars that fit side by side
}

func layoutFor(width, height int) chartLayout {
	rows := max(minChartRows, height-headerLines-footerLines)
	capacity := max(1, (width-yGutter-1)/barStride)
	return chartLayout{left: yGutter, top: headerLines, rows: rows, capacity: capacity}
}

// barAt maps a screen cell to a slot among the visible bars. The baseline
// row under the bars counts as part of the bar.
func (l chartLayout) barAt(x, y, visible int) (int, bool) {
	if y < l.top || y > l.top+l.rows {
		return 0, false
	}
	if x < l.left {
		return 0, false
	}
	slot := (x - l.left) / barStride
	if slot >= visible {
		return 0, false
	}
	return slot, true
}

// clampOffset keeps the scroll window inside the series.
func clampOffset(offset, n, capacity int) int {
	return max(0, min(offset, n-capacity))
}

// visibleWindow returns the stats shown starting at offset.
func visibleWindow(stats []model.MinuteStat, offset, capacity int) []model.MinuteStat {
	if offset >= len(stats) {
		return nil
	}
	return stats[offset:min(len(stats), offset+capacity)]
}

// renderChart draws the bars of window against scaleMax, the largest count
// in the whole series, so bar heights stay comparable while scrolling. It
// adds a faint baseline for empty minutes and HH:MM ticks. hover is the slot
// under the pointer or -1. total and offset place the window in the whole
// series so ticks stay on the same minutes when scrolling.
func renderChart(window []model.MinuteStat, offset, total, scaleMax int, l chartLayout, hover int) string {
	visMax := 0
	for _, s := range window {
		visMax = max(visMax, s.Count)
	}
	scaleMax = max(scaleMax, visMax)

	bars := make([]string, l.rows)
	if visMax > 0 {
		// ntcharts scales to its tallest bar, so the chart is only as tall
		// as the window's share of scaleMax and sits on the bottom rows.
		h := max(1, int(math.Round(float64(l.rows)*float64(visMax)/float64(scaleMax))))
		bc := barchart.New(len(window)*barStride, h,
			barchart.WithBarGap(barCellGap),
			barchart.WithBarWidth(barCellWidth),
			barchart.WithNoAxis(),
		)
		for i, s := range window {
			style := barStyle
			if i == hover {
				style = hoverBarStyle
			}
			bc.Push(barchart.BarData{
				Label:  "",
				Values: []barchart.BarValue{{Name: s.Label, Value: float64(s.Count), Style: style}},
			})
		}
		bc.Draw()
		copy(bars[l.rows-h:], strings.Split(bc.View(), "\n"))
	}

	gutter := yAxisLabels(scaleMax, l.rows)
	lines := make([]string, 0, l.rows+2)
	for r := 0; r < l.rows; r++ {
		lines = append(lines, axisStyle.Render(gutter[r])+bars[r])
	}
	lines = append(lines, strings.Repeat(" ", l.left)+baseline(window, hover))
	lines = append(lines, strings.Repeat(" ", l.left)+axisStyle.Render(tickRow(window, offset, total)))
	return strings.Join(lines, "\n")
}

// tooltipLine indents tip to start under the hovered bar, pulled left when
// it would run past width.
func tooltipLine(tip string, l chartLayout, hover, width int) string {
	col := l.left + hover*barStride
	col = max(0, min(col, width-lipgloss.Width(tip)))
	return strings.Repeat(" ", col) + tip
}

// yAxisLabels returns one gutter cell per bar row, labelled at the
// gridline fractions of scaleMax.
func yAxisLabels(scaleMax, rows int) []string {
	gutter := make([]string, rows)
	for r := range gutter {
		gutter[r] = strings.Repeat(" ", yGutter-1) + "│"
	}
	for _, f := range histogram.GridFractions {
		r := rows - 1 - int(math.Round(f*float64(rows-1)))
		gutter[r] = fmt.Sprintf("%5d ┤", int(math.Round(float64(scaleMax)*f)))
	}
	return gutter
}

// baseline marks every minute under its bar. Empty minutes get a faint
// marker so gaps in the conversation stay visible.
func baseline(window []model.MinuteStat, hover int) string {
	var b strings.Builder
	for i, s := range window {
		var cell string
		switch {
		case i == hover:
			cell = hoverMarkStyle.Render("▲")
		case s.Count == 0:
			cell = ghostStyle.Render("·")
		default:
			cell = axisStyle.Render("─")
		}
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", barCellGap))
	}
	return b.String()
}

// tickRow places HH:MM labels under every TickStep-th minute of the whole
// series, skipping any that would overlap the previous label.
func tickRow(window []model.MinuteStat, offset, total int) string {
	if len(window) == 0 {
		return ""
	}
	row := []rune(strings.Repeat(" ", len(window)*barStride))
	step := histogram.TickStep(total)
	next := 0
	for i, s := range window {
		if (offset+i)%step != 0 {
			continue
		}
		col := i * barStride
		if col < next {
			continue
		}
		label := []rune(histogram.ShortLabel(s.Label))
		if col+len(label) > len(row) {
			break
		}
		copy(row[col:], label)
		next = col + len(label) + 1
	}
	return strings.TrimRight(string(row), " ")
}
