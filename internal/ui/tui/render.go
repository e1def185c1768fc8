package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pavelanni/mocktest/internal/model"
)

type styles struct {
	title   lipgloss.Style
	correct lipgloss.Style
	wrong   lipgloss.Style
	muted   lipgloss.Style
	failure lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{title: plain, correct: plain, wrong: plain, muted: plain, failure: plain}
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		correct: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		wrong:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// View renders the session.
func (m Model) View() string {
	parts := []string{m.styles.title.Render(m.tr.T("AppTitle")), ""}
	switch {
	case m.failure != nil:
		parts = append(parts, m.styles.failure.Render(m.tr.Td("LoadFailed", map[string]any{"Error": m.failure.Error()})))
	case m.empty:
		parts = append(parts, m.tr.T("EmptyPool"))
	case m.loading || m.question == nil:
		parts = append(parts, m.spinner.View()+" "+m.tr.T("Loading"))
	default:
		parts = append(parts, m.renderQuestion()...)
	}
	if m.notice != "" {
		parts = append(parts, "", m.styles.muted.Render(m.notice))
	}
	parts = append(parts, "", m.styles.muted.Render(m.tr.T("Help")))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderQuestion() []string {
	q := m.question
	text := q.Question
	if m.width > 0 {
		text = lipgloss.NewStyle().Width(m.width).Render(text)
	}
	lines := []string{text, ""}
	for _, c := range model.Choices {
		lines = append(lines, m.renderOption(c, q.Options.Get(c)))
	}
	lines = append(lines, "", m.renderStatus(*q))
	if m.eval != nil {
		lines = append(lines, "", m.renderVerdict(), m.styles.muted.Render(m.tr.T("PressToContinue")))
	}
	return lines
}

func (m Model) renderOption(c model.Choice, text string) string {
	line := fmt.Sprintf("%s. %s", c, text)
	switch {
	case m.eval == nil:
		return "  " + line
	case c == m.eval.Correct:
		return m.styles.correct.Render("✓ " + line)
	case c == m.eval.Chosen:
		return m.styles.wrong.Render("✗ " + line)
	}
	return "  " + line
}

// renderStatus renders the source line and, when tracked, the accuracy line.
func (m Model) renderStatus(q model.Question) string {
	src := m.tr.Td("SourceLine", map[string]any{"Source": q.Source, "Number": q.Number})
	if label := q.Label(); label != "" {
		src += " " + label
	}
	lines := []string{src}
	if m.stats != nil {
		lines = append(lines, m.tr.Td("StatsLine", map[string]any{
			"Correct":  m.stats.Correct,
			"Total":    m.stats.Total,
			"Accuracy": fmt.Sprintf("%.1f", m.stats.Accuracy),
		}))
	}
	return m.styles.muted.Render(strings.Join(lines, "\n"))
}

func (m Model) renderVerdict() string {
	if m.eval.IsCorrect {
		return m.styles.correct.Render(m.tr.T("Correct"))
	}
	return m.styles.wrong.Render(m.tr.Td("Wrong", map[string]any{"Answer": string(m.eval.Correct)}))
}
