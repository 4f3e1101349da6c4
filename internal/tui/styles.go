package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorAccent = lipgloss.Color("#7C5CFF")
	ColorHover  = lipgloss.Color("#B4A2FF")
	ColorGray   = lipgloss.Color("#8B8FA3")
	ColorFaint  = lipgloss.Color("238")
	ColorError  = lipgloss.Color("#FF6666")
	ColorText   = lipgloss.Color("7")
)

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	summaryKeyStyle   = lipgloss.NewStyle().Foreground(ColorGray)
	summaryValueStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	errorStyle        = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	helpStyle         = lipgloss.NewStyle().Foreground(ColorGray)
	axisStyle         = lipgloss.NewStyle().Foreground(ColorGray)
	barStyle          = lipgloss.NewStyle().Foreground(ColorAccent).Background(ColorAccent)
	hoverBarStyle     = lipgloss.NewStyle().Foreground(ColorHover).Background(ColorHover)
	hoverMarkStyle    = lipgloss.NewStyle().Foreground(ColorHover)
	ghostStyle        = lipgloss.NewStyle().Faint(true).Foreground(ColorFaint)
	tooltipStyle      = lipgloss.NewStyle().Foreground(ColorText).Background(lipgloss.Color("236")).Padding(0, 1)
)
