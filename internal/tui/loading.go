package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 120 * time.Millisecond

// SpinnerTickMsg triggers a re-render while a load is in flight.
type SpinnerTickMsg struct{}

// renderLoading renders an animated loading indicator for source.
// The frame is selected from the current time so it animates on re-render.
func renderLoading(source string) string {
	frame := spinnerFrames[time.Now().UnixMilli()/spinnerInterval.Milliseconds()%int64(len(spinnerFrames))]
	return helpStyle.Italic(true).Render(frame + " Loading " + source + "...")
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(_ time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}
