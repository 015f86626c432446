package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorPeach    lipgloss.Color = "#fab387"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorRed      lipgloss.Color = "#f38ba8"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface1).Padding(0, 1)
	focusPane     = paneStyle.BorderForeground(colorLavender)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	cursorStyle   = lipgloss.NewStyle().Foreground(colorLavender).Bold(true)
	dragStyle     = lipgloss.NewStyle().Foreground(colorPeach).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorOverlay0)
	usedStyle     = lipgloss.NewStyle().Foreground(colorTeal)
	statusOK      = lipgloss.NewStyle().Foreground(colorGreen)
	statusErr     = lipgloss.NewStyle().Foreground(colorRed)
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(colorPink).Padding(0, 1)
	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorPink)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorOverlay0)
)
