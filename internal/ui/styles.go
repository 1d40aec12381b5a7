package ui

import "github.com/charmbracelet/lipgloss"

// Palette (ANSI 256 codes).
const (
	ColorAccent  lipgloss.Color = "45"
	ColorBorder  lipgloss.Color = "60"
	ColorMuted   lipgloss.Color = "244"
	ColorLabel   lipgloss.Color = "81"
	ColorError   lipgloss.Color = "203"
	ColorSuccess lipgloss.Color = "114"

	gaugeCPUFill = "#5fafff"
	gaugeRAMFill = "#87d787"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorLabel)
	subtleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	activeTab   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(ColorAccent)
	inactiveTab = lipgloss.NewStyle().Foreground(ColorMuted)
	noticeInfo  = lipgloss.NewStyle().Foreground(ColorSuccess)
	noticeError = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	selectedRow = lipgloss.NewStyle().Reverse(true).Bold(true)
	tableHeader = lipgloss.NewStyle().Bold(true).Foreground(ColorLabel).Padding(0, 1)
	tableCell   = lipgloss.NewStyle().Padding(0, 1)
	placeholder = subtleStyle.Italic(true)
)
