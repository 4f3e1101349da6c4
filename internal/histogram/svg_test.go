package histogram

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteSVG(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := Build(series(2, 0, 1), DefaultGeometry)
	if err := WriteSVG(&buf, c, DefaultSVGOptions); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<svg") {
		t.Errorf("output should start with <svg, got %q", out[:min(20, len(out))])
	}
	if !strings.Contains(out, `viewBox="0 0 800 280"`) {
		t.Error("missing nominal viewBox")
	}
	if got := strings.Count(out, "<rect"); got != 3 {
		t.Errorf("rect count = %d, want 3", got)
	}
	if got := strings.Count(out, "<line"); got != 5 {
		t.Errorf("gridline count = %d, want 5", got)
	}
	if !strings.Contains(out, `data-tip="2025-10-20 00:01 — 0 msgs"`) {
		t.Error("missing tooltip for the silent minute")
	}
	if !strings.Contains(out, `opacity="0.12"`) {
		t.Error("zero bucket should be faint")
	}
	if strings.Contains(out, "xmlns") || strings.Contains(out, "<title>") {
		t.Error("inline SVG should not carry namespace or titles")
	}
}

func TestWriteSVG_Standalone(t *testing.T) {
	t.Parallel()

	opts := DefaultSVGOptions
	opts.Standalone = true

	var buf bytes.Buffer
	if err := WriteSVG(&buf, Build(series(1), DefaultGeometry), opts); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("standalone SVG needs the namespace")
	}
	if !strings.Contains(out, "<title>2025-10-20 00:00 — 1 msg</title>") {
		t.Error("standalone SVG needs a title per bar")
	}
}

func TestWriteSVG_EscapesText(t *testing.T) {
	t.Parallel()

	c := Build(series(1), DefaultGeometry)
	c.Bars[0].Tooltip = `<b>"x" & y</b>`

	var buf bytes.Buffer
	if err := WriteSVG(&buf, c, DefaultSVGOptions); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	if strings.Contains(buf.String(), "<b>") {
		t.Error("tooltip markup was not escaped")
	}
}

func TestNum(t *testing.T) {
	t.Parallel()

	tests := map[float64]string{2: "2", 2.5: "2.5", 1.0 / 3.0: "0.33", 274: "274"}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}
