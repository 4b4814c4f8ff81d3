// Package form implements the screen where a reading passage is configured.
package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/readquiz/internal/catalog"
	"github.com/abhisek/readquiz/internal/generation"
	"github.com/abhisek/readquiz/internal/quiz"
	"github.com/abhisek/readquiz/internal/router"
	"github.com/abhisek/readquiz/internal/screen"
	"github.com/abhisek/readquiz/internal/screens/reading"
	"github.com/abhisek/readquiz/internal/ui/components"
	"github.com/abhisek/readquiz/internal/ui/layout"
	"github.com/abhisek/readquiz/internal/ui/theme"
)

const catalogTimeout = 15 * time.Second

// FormScreen collects a generation.Config and launches the reading screen.
type FormScreen struct {
	backend  generation.Backend
	lister   catalog.Lister
	resolver *catalog.Resolver

	inputs map[field]*components.TextInput
	level  generation.Level
	focus  field

	loadingCatalog bool
	catalogErr     string
	errMsg         string

	lastResult *quiz.Result
}

var _ screen.Screen = (*FormScreen)(nil)
var _ screen.KeyHintProvider = (*FormScreen)(nil)

// New creates a FormScreen prefilled from defaults. lister may be nil, in
// which case no catalog is fetched.
func New(backend generation.Backend, lister catalog.Lister, defaults generation.Config) *FormScreen {
	input := func(placeholder, value string, numeric bool, limit int) *components.TextInput {
		ti := components.NewTextInput(placeholder, value, numeric, limit)
		return &ti
	}
	s := &FormScreen{
		backend: backend,
		lister:  lister,
		resolver: catalog.NewResolver(catalog.Selection{
			TextProvider:     defaults.TextProvider,
			TextModel:        defaults.TextModel,
			QuestionProvider: defaults.QuestionProvider,
			QuestionModel:    defaults.QuestionModel,
		}),
		inputs: map[field]*components.TextInput{
			fieldTopic:     input("e.g., The history of the internet", defaults.Topic, false, 200),
			fieldLanguage:  input("English", defaults.Language, false, 40),
			fieldStyle:     input("e.g., Formal, Casual, Academic", defaults.Style, false, 40),
			fieldQuestions: input("5", strconv.Itoa(defaults.NumQuestions), true, 2),
			fieldChoices:   input("4", strconv.Itoa(defaults.ChoicesPerQuestion), true, 1),
		},
		level: defaults.Level,
	}
	if !s.level.Valid() {
		s.level = generation.LevelBasic
	}
	return s
}

func (s *FormScreen) Init() tea.Cmd {
	return tea.Batch(s.setFocus(fieldTopic), s.loadCatalog())
}

func (s *FormScreen) Title() string {
	return "New Passage"
}

func (s *FormScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Field"},
	}
	if s.focus.isCycle() {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Change"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Generate"},
		layout.KeyHint{Key: "Ctrl+R", Description: "Reload models"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

// Config returns the snapshot the form currently describes.
func (s *FormScreen) Config() generation.Config {
	sel := s.resolver.Selection()
	nq, _ := s.inputs[fieldQuestions].NumericValue()
	nc, _ := s.inputs[fieldChoices].NumericValue()
	return generation.Config{
		Topic:              strings.TrimSpace(s.inputs[fieldTopic].Value()),
		Language:           strings.TrimSpace(s.inputs[fieldLanguage].Value()),
		Level:              s.level,
		Style:              strings.TrimSpace(s.inputs[fieldStyle].Value()),
		TextProvider:       sel.TextProvider,
		TextModel:          sel.TextModel,
		QuestionProvider:   sel.QuestionProvider,
		QuestionModel:      sel.QuestionModel,
		NumQuestions:       nq,
		ChoicesPerQuestion: nc,
	}
}

func (s *FormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		s.loadingCatalog = false
		if msg.Err != nil {
			s.catalogErr = "Could not load models: " + msg.Err.Error()
			return s, nil
		}
		s.catalogErr = ""
		s.resolver.SetCatalog(msg.Catalog)
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.focus.isText() {
		var cmd tea.Cmd
		*s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *FormScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
	case "enter":
		return s.submit()
	case "ctrl+r":
		return s, s.loadCatalog()
	}

	if s.focus.isCycle() {
		switch msg.String() {
		case "right", "l", "space":
			s.cycleField(1)
		case "left", "h":
			s.cycleField(-1)
		}
		return s, nil
	}

	if s.focus.isText() {
		var cmd tea.Cmd
		*s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		s.errMsg = ""
		return s, cmd
	}
	return s, nil
}

func (s *FormScreen) setFocus(f field) tea.Cmd {
	if in, ok := s.inputs[s.focus]; ok {
		in.Blur()
	}
	s.focus = f
	if in, ok := s.inputs[f]; ok {
		return in.Focus()
	}
	return nil
}

func (s *FormScreen) providers() []string {
	if p := s.resolver.Providers(); len(p) > 0 {
		return p
	}
	return fallbackProviders
}

func (s *FormScreen) modelIDs(provider string) []string {
	models := s.resolver.Models(provider)
	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}
	return ids
}

func (s *FormScreen) cycleField(delta int) {
	sel := s.resolver.Selection()
	switch s.focus {
	case fieldLevel:
		s.level = generation.Level(cycle(levelNames(), string(s.level), delta))
	case fieldTextProvider:
		s.resolver.SetTextProvider(cycle(s.providers(), sel.TextProvider, delta))
	case fieldQuestionProvider:
		s.resolver.SetQuestionProvider(cycle(s.providers(), sel.QuestionProvider, delta))
	case fieldTextModel:
		s.resolver.SetTextModel(cycle(s.modelIDs(sel.TextProvider), sel.TextModel, delta))
	case fieldQuestionModel:
		s.resolver.SetQuestionModel(cycle(s.modelIDs(sel.QuestionProvider), sel.QuestionModel, delta))
	}
}

func (s *FormScreen) submit() (screen.Screen, tea.Cmd) {
	for _, f := range []field{fieldQuestions, fieldChoices} {
		if _, err := s.inputs[f].NumericValue(); err != nil {
			s.inputs[f].Invalid = true
		}
	}

	cfg := s.Config()
	if err := cfg.Validate(); err != nil {
		var pe *generation.PreconditionError
		if errors.As(err, &pe) {
			s.errMsg = pe.Reason
		} else {
			s.errMsg = err.Error()
		}
		return s, nil
	}
	s.errMsg = ""

	next := reading.New(s.backend, cfg, s.recordResult)
	return s, func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (s *FormScreen) recordResult(r quiz.Result) {
	s.lastResult = &r
}

func (s *FormScreen) loadCatalog() tea.Cmd {
	if s.lister == nil {
		return nil
	}
	s.loadingCatalog = true
	lister := s.lister
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
		defer cancel()
		cat, err := catalog.Load(ctx, lister)
		return catalogLoadedMsg{Catalog: cat, Err: err}
	}
}

func (s *FormScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("  Generate New Text"))
	b.WriteString("\n\n")

	sel := s.resolver.Selection()
	for f := fieldTopic; f < fieldSubmit; f++ {
		var value string
		switch f {
		case fieldLevel:
			value = cycleValue(string(s.level), f == s.focus)
		case fieldTextProvider:
			value = cycleValue(sel.TextProvider, f == s.focus)
		case fieldTextModel:
			value = cycleValue(s.modelLabel(sel.TextModel), f == s.focus)
		case fieldQuestionProvider:
			value = cycleValue(sel.QuestionProvider, f == s.focus)
		case fieldQuestionModel:
			value = cycleValue(s.modelLabel(sel.QuestionModel), f == s.focus)
		default:
			value = s.inputs[f].View()
		}

		prefix := "    "
		label := theme.Label.Render(fieldLabels[f])
		if f == s.focus {
			prefix = "  ▸ "
			label = theme.Selected.Width(20).Render(fieldLabels[f])
		}
		b.WriteString(prefix + label + value + "\n")
	}

	b.WriteString("\n")
	b.WriteString("    " + components.NewButton("Enter", "Generate Text", s.focus == fieldSubmit).View())
	b.WriteString("\n")

	if s.errMsg != "" {
		b.WriteString("\n    " + theme.ErrorText.Render(s.errMsg) + "\n")
	}
	if s.catalogErr != "" {
		b.WriteString("\n    " + theme.Notice.Render(s.catalogErr) + "\n")
	}
	if s.lastResult != nil {
		b.WriteString("\n    " + theme.Hint.Render("Last quiz result: "+s.lastResult.String()) + "\n")
	}

	content, _ := layout.Window(b.String(), 0, height)
	return lipgloss.NewStyle().Width(width).Render(content)
}

func (s *FormScreen) modelLabel(id string) string {
	switch {
	case id != "":
		return id
	case s.loadingCatalog:
		return "loading models…"
	default:
		return "(provider default)"
	}
}

func cycleValue(v string, focused bool) string {
	if focused {
		return theme.Selected.Render(fmt.Sprintf("‹ %s ›", v))
	}
	return theme.Body.Render(v)
}
