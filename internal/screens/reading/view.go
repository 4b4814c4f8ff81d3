package reading

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/readquiz/internal/generation"
	"github.com/abhisek/readquiz/internal/quiz"
	"github.com/abhisek/readquiz/internal/ui/components"
	"github.com/abhisek/readquiz/internal/ui/layout"
	"github.com/abhisek/readquiz/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *ReadingScreen) View(width, height int) string {
	s.height = height
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	b.WriteString(s.renderInfo(inner))
	b.WriteString("\n\n")

	if errMsg := s.orch.Err(); errMsg != "" {
		b.WriteString(theme.ErrorText.Width(inner).Render(errMsg))
		b.WriteString("\n\n")
	}

	switch s.orch.State() {
	case generation.StateGeneratingText:
		b.WriteString(s.renderLoading("Generating text..."))
		b.WriteString("\n")
	default:
		if p, ok := s.orch.Passage(); ok {
			b.WriteString(theme.Title.Render("Generated Text"))
			b.WriteString("\n")
			b.WriteString(theme.Body.Width(inner).Render(p.Text))
			b.WriteString("\n\n")
		}
	}

	b.WriteString(s.renderActions())
	b.WriteString("\n")
	if s.notice != "" {
		b.WriteString(theme.Notice.Width(inner).Render(s.notice))
		b.WriteString("\n")
	}

	if s.orch.State() == generation.StateGeneratingQuestions {
		b.WriteString("\n")
		b.WriteString(s.renderLoading("Generating questions..."))
		b.WriteString("\n")
	}

	if s.quiz != nil {
		b.WriteString("\n")
		b.WriteString(s.renderQuiz(inner))
	}

	if s.lastResult != nil {
		b.WriteString("\n")
		b.WriteString(renderResult(*s.lastResult))
		b.WriteString("\n")
	}

	content, off := layout.Window(b.String(), s.offset, height)
	s.offset = off
	return lipgloss.NewStyle().Padding(0, 2).Render(content)
}

func (s *ReadingScreen) renderInfo(width int) string {
	c := s.cfg
	info := fmt.Sprintf("Topic: %s · Language: %s · Difficulty: %s · Style: %s",
		c.Topic, c.Language, c.Level, c.Style)
	return theme.Hint.Width(width).Render(info)
}

func (s *ReadingScreen) renderLoading(label string) string {
	frame := spinnerFrames[s.frame%len(spinnerFrames)]
	c := s.cfg

	provider, model := c.TextProvider, c.TextModel
	if s.orch.State() == generation.StateGeneratingQuestions {
		provider, model = c.QuestionProvider, c.QuestionModel
	}
	if model == "" {
		model = "default"
	}

	lines := []string{
		lipgloss.NewStyle().Foreground(theme.Accent).Render(frame + " " + label),
		theme.Hint.Render("Language:   " + c.Language),
		theme.Hint.Render("Difficulty: " + string(c.Level)),
		theme.Hint.Render("Style:      " + c.Style),
		theme.Hint.Render("Using:      " + provider + " / " + model),
	}
	return strings.Join(lines, "\n")
}

func (s *ReadingScreen) renderActions() string {
	canAsk := s.orch.CanSubmitQuestions() && !s.orch.Busy()

	buttons := []components.Button{
		components.NewButton("n", "Generate Questions", canAsk),
		components.NewButton("g", "New Passage", true),
	}
	if s.quiz != nil {
		submitted := s.quiz.State() == quiz.StateSubmitted
		buttons = append(buttons,
			components.NewButton("s", "Submit", !submitted && len(s.quiz.Missing()) == 0),
			components.NewButton("r", "Retry", submitted),
		)
	}
	return components.Row(buttons...)
}

func (s *ReadingScreen) renderQuiz(width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Generated Questions"))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("Answered", s.quiz.Answered(), s.quiz.Len(), min(width, 50)).View())
	b.WriteString("\n\n")

	revealed := s.quiz.State() == quiz.StateSubmitted
	for i := range s.quiz.Len() {
		q, _ := s.quiz.Question(i)
		chosen, _ := s.quiz.Selection(i)
		cursor := -1
		if i == s.question {
			cursor = s.choice
		}
		mc := components.MultiChoice{
			Number:   i + 1,
			Question: q.Prompt,
			Options:  q.Choices,
			Cursor:   cursor,
			Chosen:   chosen,
			Revealed: revealed,
			Answer:   q.Answer,
		}
		b.WriteString(mc.View(width))
		b.WriteString("\n")
	}
	return b.String()
}

func renderResult(r quiz.Result) string {
	line := "Last quiz result: " + r.String()
	if r.Perfect() {
		return theme.Correct.Render(line + " · perfect score!")
	}
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(line)
}
