package play

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"daily-quiz-service/internal/quiz"
)

var (
	colorTitle   = lipgloss.Color("135")
	colorCorrect = lipgloss.Color("42")
	colorWrong   = lipgloss.Color("196")
	colorPicked  = lipgloss.Color("39")
	colorMuted   = lipgloss.Color("244")
)

// View renders the quiz card.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		m.renderProgress(),
		"",
		stylize(m.session.Question().Prompt, m.noColor, lipgloss.Color("255")),
		"",
		m.renderOptions(),
		"",
		m.renderResult(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	line := "Daily Brain Teaser | Next reset: " + m.clock.Countdown().Display
	return stylize(line, m.noColor, colorTitle)
}

func (m Model) renderProgress() string {
	pct := m.session.ProgressPercent()
	return m.progress.ViewAs(float64(pct)/100) + " " + strconv.Itoa(pct) + "%"
}

func (m Model) renderOptions() string {
	q := m.session.Question()
	selected, hasSelection := m.session.Selection()
	revealed := m.session.Phase() == quiz.PhaseRevealed

	lines := make([]string, 0, len(q.Options))
	for i, option := range q.Options {
		pointer := "  "
		if i == m.cursor && !revealed {
			pointer = "> "
		}
		mark := "[ ]"
		color := lipgloss.Color("252")
		switch {
		case revealed && i == q.CorrectIndex:
			mark, color = "[✓]", colorCorrect
		case revealed && hasSelection && i == selected:
			mark, color = "[✗]", colorWrong
		case hasSelection && i == selected:
			mark, color = "[•]", colorPicked
		}
		line := pointer + mark + " " + strconv.Itoa(i+1) + ". " + option
		lines = append(lines, stylize(line, m.noColor, color))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderResult() string {
	correct, err := m.session.IsCorrect()
	if err != nil {
		return ""
	}
	points, _ := m.session.AwardedPoints()
	headline := "Incorrect  +" + strconv.Itoa(points) + " XP"
	color := colorWrong
	if correct {
		headline = "Correct!  +" + strconv.Itoa(points) + " XP"
		color = colorCorrect
	}
	out := stylize(headline, m.noColor, color)
	if explanation := m.session.Question().Explanation; explanation != "" {
		out += "\n" + stylize(explanation, m.noColor, colorMuted)
	}
	return out + "\n"
}

func (m Model) renderFooter() string {
	help := make([]string, 0, len(m.keys.help()))
	for _, b := range m.keys.help() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	footer := stylize(strings.Join(help, " • "), m.noColor, colorMuted)
	if m.status != "" {
		footer = stylize(m.status, m.noColor, colorPicked) + "\n" + footer
	}
	return footer
}

// stylize applies a foreground color unless color output is disabled.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
