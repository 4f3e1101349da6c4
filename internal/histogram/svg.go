package histogram

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
)

// SVGOptions controls colours and document framing.
type SVGOptions struct {
	Accent string // bar fill
	Muted  string // label fill
	Grid   string // gridline stroke
	Class  string // class attribute on the root element

	// Standalone adds the XML namespace and a <title> per bar so the file
	// shows native tooltips when opened on its own.
	Standalone bool
}

// DefaultSVGOptions matches the web UI palette.
var DefaultSVGOptions = SVGOptions{
	Accent: "#7c5cff",
	Muted:  "#8b8fa3",
	Grid:   "rgba(255,255,255,0.06)",
	Class:  "histogram",
}

// WriteSVG renders c as a scalable SVG element. Each bar carries its tooltip
// text in a data-tip attribute for pointer hit-testing by the host page.
func WriteSVG(w io.Writer, c Chart, opts SVGOptions) error {
	bw := bufio.NewWriter(w)
	g := c.Geometry

	ns := ""
	if opts.Standalone {
		ns = ` xmlns="http://www.w3.org/2000/svg"`
	}
	fmt.Fprintf(bw, `<svg%s viewBox="0 0 %s %s" class="%s" preserveAspectRatio="xMidYMid meet" role="img">`+"\n",
		ns, num(g.Width), num(g.Height), esc(opts.Class))

	for _, gl := range c.Gridlines {
		fmt.Fprintf(bw, `  <g class="grid"><line x1="%s" x2="%s" y1="%s" y2="%s" stroke="%s"/>`,
			num(gl.X1), num(gl.X2), num(gl.Y), num(gl.Y), esc(opts.Grid))
		fmt.Fprintf(bw, `<text x="%s" y="%s" font-size="10" fill="%s">%d</text></g>`+"\n",
			num(gl.LabelX), num(gl.Y+4), esc(opts.Muted), gl.Value)
	}

	ticks := make(map[int]Tick, len(c.Ticks))
	for _, t := range c.Ticks {
		ticks[t.Index] = t
	}

	for _, b := range c.Bars {
		fmt.Fprintf(bw, `  <g class="bar"><rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s" opacity="%s" data-tip="%s">`,
			num(b.X), num(b.Y), num(b.Width), num(b.Height), num(b.Radius), esc(opts.Accent), num(b.Opacity), esc(b.Tooltip))
		if opts.Standalone {
			fmt.Fprintf(bw, `<title>%s</title>`, esc(b.Tooltip))
		}
		bw.WriteString(`</rect>`)
		if t, ok := ticks[b.Index]; ok {
			fmt.Fprintf(bw, `<text x="%s" y="%s" font-size="10" fill="%s" text-anchor="middle">%s</text>`,
				num(t.X), num(t.Y), esc(opts.Muted), esc(t.Text))
		}
		bw.WriteString("</g>\n")
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

// num formats a coordinate with at most two decimals.
func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

func esc(s string) string { return html.EscapeString(s) }
