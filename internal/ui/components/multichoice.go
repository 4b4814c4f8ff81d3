package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/readquiz/internal/ui/theme"
)

// MultiChoice renders one quiz question with its options. It holds no
// answer state of its own; the caller fills it from the quiz engine.
type MultiChoice struct {
	Number   int
	Question string
	Options  []string

	// Cursor is the highlighted option, or -1 when the question is not
	// focused.
	Cursor int

	// Chosen is the recorded selection, "" when unanswered.
	Chosen string

	// Revealed marks the correct option and the learner's mistake.
	Revealed bool
	Answer   string
}

// View renders the question and its options wrapped to width.
func (m MultiChoice) View(width int) string {
	var b strings.Builder

	head := fmt.Sprintf("Q%d: %s", m.Number, m.Question)
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(head))
	b.WriteString("\n")

	for i, opt := range m.Options {
		prefix := "   "
		if i == m.Cursor {
			prefix = " ▸ "
		}
		mark := "( )"
		if opt == m.Chosen {
			mark = "(•)"
		}
		line := fmt.Sprintf("%s%s %d) %s", prefix, mark, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Revealed && opt == m.Answer:
			style = theme.Correct
			line += " ✓"
		case m.Revealed && opt == m.Chosen:
			style = theme.Incorrect
			line += " ✗"
		case m.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// IsCorrect reports whether the chosen option is the answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Chosen != "" && m.Chosen == m.Answer
}
