package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/chatstats/internal/appshell"
	"github.com/tinytelemetry/chatstats/internal/histogram"
	"github.com/tinytelemetry/chatstats/internal/model"
)

// HistogramPageID is the page ID of the histogram screen.
const HistogramPageID = "histogram"

// Loader is the app shell contract the histogram page drives.
type Loader interface {
	Current() appshell.State
	Reset()
	Apply(st appshell.State)
	EvaluateFile(ctx context.Context, path string) appshell.State
}

// Options configures the histogram page.
type Options struct {
	InitialPath        string // loaded on Init when set
	StartDir           string // where the file picker opens
	ReverseScrollWheel bool
}

// fileLoadedMsg carries the state a load produced. seq identifies the
// load so results that arrive after a newer load or a clear are dropped.
type fileLoadedMsg struct {
	seq   uint64
	state appshell.State
}

// HistogramPage shows the messages-per-minute chart for the current state.
type HistogramPage struct {
	shell   Loader
	ctx     context.Context
	keys    KeyMap
	help    help.Model
	picker  filepicker.Model
	picking bool

	seq        uint64
	loading    bool
	loadSource string

	offset int
	hover  int

	reverseScrollWheel bool
	startDir           string
	initialPath        string

	width  int
	height int
}

// NewHistogramPage creates the histogram page backed by shell. ctx bounds
// every file load.
func NewHistogramPage(ctx context.Context, shell Loader, opts Options) *HistogramPage {
	if ctx == nil {
		ctx = context.Background()
	}
	startDir := opts.StartDir
	if startDir == "" {
		if wd, err := os.Getwd(); err == nil {
			startDir = wd
		}
	}
	return &HistogramPage{
		shell:              shell,
		ctx:                ctx,
		keys:               DefaultKeyMap(),
		help:               help.New(),
		hover:              -1,
		reverseScrollWheel: opts.ReverseScrollWheel,
		startDir:           startDir,
		initialPath:        opts.InitialPath,
	}
}

func (p *HistogramPage) ID() string { return HistogramPageID }

func (p *HistogramPage) Init() tea.Cmd {
	if p.initialPath == "" {
		return nil
	}
	path := p.initialPath
	p.initialPath = ""
	return p.startLoad(path)
}

func (p *HistogramPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.help.Width = msg.Width
		p.offset = clampOffset(p.offset, len(p.stats()), p.layout().capacity)
		if p.picking {
			var cmd tea.Cmd
			p.picker, cmd = p.picker.Update(p.pickerSize())
			return cmd, nil
		}
		return nil, nil

	case fileLoadedMsg:
		if msg.seq != p.seq {
			return nil, nil
		}
		p.loading = false
		p.shell.Apply(msg.state)
		p.offset = 0
		p.hover = -1
		return nil, nil

	case SpinnerTickMsg:
		if p.loading {
			return spinnerTick(), nil
		}
		return nil, nil

	case tea.KeyMsg:
		return p.handleKey(msg), nil

	case tea.MouseMsg:
		if p.picking {
			break
		}
		p.handleMouse(msg)
		return nil, nil
	}

	if p.picking {
		return p.updatePicker(msg), nil
	}
	return nil, nil
}

func (p *HistogramPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, p.keys.ForceQuit) {
		return tea.Quit
	}

	if p.picking {
		switch {
		case key.Matches(msg, p.keys.Escape):
			p.picking = false
			return nil
		case key.Matches(msg, p.keys.Quit):
			return tea.Quit
		}
		return p.updatePicker(msg)
	}

	switch {
	case key.Matches(msg, p.keys.Quit):
		return tea.Quit
	case key.Matches(msg, p.keys.Open):
		return p.openPicker()
	case key.Matches(msg, p.keys.Clear):
		p.seq++
		p.loading = false
		p.shell.Reset()
		p.offset = 0
		p.hover = -1
	case key.Matches(msg, p.keys.Left):
		p.scroll(-1)
	case key.Matches(msg, p.keys.Right):
		p.scroll(1)
	case key.Matches(msg, p.keys.Home):
		p.offset = 0
	case key.Matches(msg, p.keys.End):
		p.offset = clampOffset(len(p.stats()), len(p.stats()), p.layout().capacity)
	}
	return nil
}

func (p *HistogramPage) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionMotion:
		p.hover = -1
		if slot, ok := p.layout().barAt(msg.X, msg.Y, len(p.window())); ok {
			p.hover = slot
		}
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if p.reverseScrollWheel {
				p.scroll(-1)
			} else {
				p.scroll(1)
			}
		case tea.MouseButtonWheelDown:
			if p.reverseScrollWheel {
				p.scroll(1)
			} else {
				p.scroll(-1)
			}
		}
	}
}

func (p *HistogramPage) scroll(delta int) {
	p.offset = clampOffset(p.offset+delta, len(p.stats()), p.layout().capacity)
	p.hover = -1
}

func (p *HistogramPage) openPicker() tea.Cmd {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".txt", ".log"}
	fp.CurrentDirectory = p.startDir
	p.picker = fp
	p.picking = true

	initCmd := p.picker.Init()
	var sizeCmd tea.Cmd
	p.picker, sizeCmd = p.picker.Update(p.pickerSize())
	return tea.Batch(initCmd, sizeCmd)
}

func (p *HistogramPage) pickerSize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: p.width, Height: max(1, p.height-headerLines)}
}

func (p *HistogramPage) updatePicker(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.picker, cmd = p.picker.Update(msg)
	if ok, path := p.picker.DidSelectFile(msg); ok {
		p.picking = false
		p.startDir = filepath.Dir(path)
		return tea.Batch(cmd, p.startLoad(path))
	}
	return cmd
}

// startLoad evaluates path off the UI goroutine. Only the result of the
// most recent load is applied.
func (p *HistogramPage) startLoad(path string) tea.Cmd {
	p.seq++
	seq := p.seq
	p.loading = true
	p.loadSource = path

	shell, ctx := p.shell, p.ctx
	load := func() tea.Msg {
		return fileLoadedMsg{seq: seq, state: shell.EvaluateFile(ctx, path)}
	}
	return tea.Batch(load, spinnerTick())
}

func (p *HistogramPage) layout() chartLayout {
	return layoutFor(p.width, p.height)
}

func (p *HistogramPage) stats() []model.MinuteStat {
	if r, ok := p.shell.Current().(appshell.Results); ok {
		return r.Dataset.Stats
	}
	return nil
}

func (p *HistogramPage) window() []model.MinuteStat {
	return visibleWindow(p.stats(), p.offset, p.layout().capacity)
}

func (p *HistogramPage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Loading..."
	}

	title := titleStyle.Render("Chat messages per minute")
	if p.picking {
		hint := helpStyle.Render("enter select · esc cancel")
		return lipgloss.JoinVertical(lipgloss.Left, title, hint, "", p.picker.View())
	}

	var body string
	switch st := p.shell.Current().(type) {
	case appshell.Results:
		body = p.renderResults(st.Dataset)
	case appshell.Failed:
		msg := errorStyle.Render(st.Message)
		if st.Source != "" {
			msg += helpStyle.Render(" (" + shortenPath(st.Source) + ")")
		}
		body = lipgloss.JoinVertical(lipgloss.Left, msg, "", p.statusLine(""))
	default:
		prompt := helpStyle.Render("Press o to open a chat log with lines like [2025-10-20 02:57:56 UTC] alice: hello")
		body = lipgloss.JoinVertical(lipgloss.Left, prompt, "", p.statusLine(""))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, p.help.View(p.keys))
}

func (p *HistogramPage) renderResults(d model.Dataset) string {
	summary := strings.Join([]string{
		summaryKeyStyle.Render("Total messages ") + summaryValueStyle.Render(fmt.Sprint(d.Summary.Total)),
		summaryKeyStyle.Render("Max per minute ") + summaryValueStyle.Render(fmt.Sprint(d.Summary.Max)),
		summaryKeyStyle.Render("Average ") + summaryValueStyle.Render(fmt.Sprintf("%.2f", d.Summary.Avg)),
	}, "   ")

	l := p.layout()
	window := visibleWindow(d.Stats, p.offset, l.capacity)
	chart := renderChart(window, p.offset, len(d.Stats), histogram.ScaleMax(d.Stats), l, p.hover)

	tooltip := ""
	if p.hover >= 0 && p.hover < len(window) {
		s := window[p.hover]
		tooltip = tooltipLine(tooltipStyle.Render(histogram.TooltipText(s.Label, s.Count)), l, p.hover, p.width)
	}

	status := fmt.Sprintf("%s · minutes %d-%d of %d · %d parsed · %d skipped",
		shortenPath(d.Source), p.offset+1, p.offset+len(window), len(d.Stats), d.Parsed, d.Skipped)

	return lipgloss.JoinVertical(lipgloss.Left, summary, "", chart, tooltip, p.statusLine(status))
}

func (p *HistogramPage) statusLine(text string) string {
	if p.loading {
		return renderLoading(shortenPath(p.loadSource))
	}
	return helpStyle.Render(text)
}

// shortenPath replaces the home directory prefix with ~.
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if rel, ok := strings.CutPrefix(path, home); ok && (rel == "" || strings.HasPrefix(rel, string(filepath.Separator))) {
		return "~" + rel
	}
	return path
}
