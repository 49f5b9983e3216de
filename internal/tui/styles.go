package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/aeterna/internal/models"
)

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	hudStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	hintStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#B48EAD")).
			Foreground(lipgloss.Color("#E5C7F0")).
			Italic(true).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)

	healthColor    = lipgloss.Color("#E06C75")
	stabilityColor = lipgloss.Color("#61AFEF")
)

var actionColors = map[models.ActionType]lipgloss.Color{
	models.ActionCombat:      lipgloss.Color("#E06C75"),
	models.ActionExploration: lipgloss.Color("#56B6C2"),
	models.ActionDiplomacy:   lipgloss.Color("#98C379"),
	models.ActionNeutral:     lipgloss.Color("#ABB2BF"),
}

func actionStyle(t models.ActionType) lipgloss.Style {
	c, ok := actionColors[t]
	if !ok {
		c = actionColors[models.ActionNeutral]
	}
	return lipgloss.NewStyle().Foreground(c)
}

// renderBar draws a fixed-width gauge for value out of limit.
func renderBar(value, limit, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if limit > 0 {
		filled = min(width, max(0, value)*width/limit)
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}
