package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#34C759")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)
)

// categoryColors maps the registry's color tokens to terminal colors.
var categoryColors = map[string]lipgloss.Color{
	"orange": "#FF9500",
	"blue":   "#007AFF",
	"purple": "#AF52DE",
	"green":  "#34C759",
	"red":    "#FF3B30",
	"yellow": "#FFCC00",
	"indigo": "#5856D6",
	"gray":   "#8E8E93",
	"grey":   "#8E8E93",
}

// CategoryColor resolves a color token. Hex values and ANSI codes pass
// through; unknown names fall back to SubtleColor.
func CategoryColor(token string) lipgloss.Color {
	token = strings.ToLower(strings.TrimSpace(token))
	if c, ok := categoryColors[token]; ok {
		return c
	}
	if strings.HasPrefix(token, "#") || isDigits(token) {
		return lipgloss.Color(token)
	}
	return SubtleColor
}

// CategoryStyle renders text in the category's color.
func CategoryStyle(token string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CategoryColor(token))
}

// Bar renders a horizontal bar of width cells scaled by percent (0-100).
func Bar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent/100*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
