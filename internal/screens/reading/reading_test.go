package reading

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/readquiz/internal/generation"
	"github.com/abhisek/readquiz/internal/quiz"
)

type fakeBackend struct {
	passage   generation.Passage
	questions generation.QuestionSet
	textErr   error
	qErr      error
}

func (f *fakeBackend) GenerateText(_ context.Context, _ generation.Config) (generation.Passage, error) {
	return f.passage, f.textErr
}

func (f *fakeBackend) GenerateQuestions(_ context.Context, _ generation.Passage, _ generation.Config) (generation.QuestionSet, error) {
	return f.questions, f.qErr
}

func testConfig() generation.Config {
	cfg := generation.DefaultConfig()
	cfg.Topic = "Volcanoes"
	cfg.NumQuestions = 2
	cfg.ChoicesPerQuestion = 2
	return cfg
}

func testBackend() *fakeBackend {
	return &fakeBackend{
		passage: generation.Passage{Text: "Volcanoes erupt lava."},
		questions: generation.QuestionSet{
			{Prompt: "What erupts?", Choices: []string{"Lava", "Ice"}, Answer: "Lava"},
			{Prompt: "What are volcanoes?", Choices: []string{"Rivers", "Mountains"}, Answer: "Mountains"},
		},
	}
}

// drain runs cmd and feeds every resulting message back into the screen.
func drain(t *testing.T, s *ReadingScreen, cmd tea.Cmd) {
	t.Helper()
	for _, msg := range collect(cmd) {
		_, next := s.Update(msg)
		if _, ok := msg.(completionMsg); ok && next != nil {
			t.Fatalf("unexpected follow-up command for %T", msg)
		}
	}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func press(s *ReadingScreen, key string) tea.Cmd {
	var msg tea.KeyPressMsg
	switch key {
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	case "right":
		msg = tea.KeyPressMsg{Code: tea.KeyRight}
	case "down":
		msg = tea.KeyPressMsg{Code: tea.KeyDown}
	default:
		r := []rune(key)[0]
		msg = tea.KeyPressMsg{Code: r, Text: key}
	}
	_, cmd := s.Update(msg)
	return cmd
}

func readyScreen(t *testing.T, report quiz.Reporter) *ReadingScreen {
	t.Helper()
	s := New(testBackend(), testConfig(), report)
	drain(t, s, s.Init())
	if s.Orchestrator().State() != generation.StateTextReady {
		t.Fatalf("state = %v, want text-ready", s.Orchestrator().State())
	}
	drain(t, s, press(s, "n"))
	if s.Quiz() == nil {
		t.Fatal("expected quiz after questions arrive")
	}
	return s
}

func TestReadingScreen_TextThenQuestions(t *testing.T) {
	s := readyScreen(t, nil)

	if s.Quiz().Len() != 2 {
		t.Errorf("quiz length = %d, want 2", s.Quiz().Len())
	}
	view := s.View(100, 200)
	for _, want := range []string{"Volcanoes erupt lava.", "Q1: What erupts?", "Q2: What are volcanoes?"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestReadingScreen_PerfectScore(t *testing.T) {
	var reported []quiz.Result
	s := readyScreen(t, func(r quiz.Result) { reported = append(reported, r) })

	press(s, "1")     // Lava
	press(s, "right") // question 2
	press(s, "down")
	press(s, "enter") // Mountains
	press(s, "s")

	res, ok := s.LastResult()
	if !ok {
		t.Fatal("expected a scored result")
	}
	if res.String() != "2/2" || !res.Perfect() {
		t.Errorf("result = %s, want perfect 2/2", res)
	}
	if len(reported) != 1 {
		t.Fatalf("reported %d results, want 1", len(reported))
	}
	if !strings.Contains(s.View(100, 200), "perfect score!") {
		t.Error("expected perfect score message")
	}
}

func TestReadingScreen_SubmitIncomplete(t *testing.T) {
	s := readyScreen(t, nil)

	press(s, "2")
	press(s, "s")

	if _, ok := s.LastResult(); ok {
		t.Error("incomplete quiz should not be scored")
	}
	if !strings.Contains(s.Notice(), "unanswered questions: 2") {
		t.Errorf("notice = %q", s.Notice())
	}
	if s.Quiz().State() != quiz.StateAnswering {
		t.Errorf("quiz state = %v, want answering", s.Quiz().State())
	}
}

func TestReadingScreen_RetryClearsLastScore(t *testing.T) {
	s := readyScreen(t, nil)

	press(s, "2") // Ice, wrong
	press(s, "right")
	press(s, "2") // Mountains
	press(s, "s")

	res, _ := s.LastResult()
	if res.String() != "1/2" {
		t.Fatalf("result = %s, want 1/2", res)
	}

	press(s, "r")
	if s.Quiz().Answered() != 0 {
		t.Errorf("answered = %d after retry, want 0", s.Quiz().Answered())
	}
	res, ok := s.LastResult()
	if !ok || res.Scored() {
		t.Fatalf("last result = %s after retry, want unscored", res)
	}
	if res.String() != "-/2" {
		t.Errorf("last result = %s after retry, want -/2", res)
	}
	if !strings.Contains(s.View(100, 200), "Last quiz result: -/2") {
		t.Error("expected unscored result line after retry")
	}
}

func TestReadingScreen_BlankPassageDisablesQuestions(t *testing.T) {
	b := testBackend()
	b.passage = generation.Passage{Text: "  "}
	s := New(b, testConfig(), nil)
	drain(t, s, s.Init())

	if s.Orchestrator().State() != generation.StateTextReady {
		t.Fatalf("state = %v, want text-ready", s.Orchestrator().State())
	}
	if cmd := press(s, "n"); cmd != nil {
		t.Error("expected no request for a blank passage")
	}
	if !strings.Contains(s.Notice(), "no passage has been generated yet") {
		t.Errorf("notice = %q", s.Notice())
	}
	if s.Orchestrator().State() != generation.StateTextReady {
		t.Errorf("state = %v after rejected submit, want text-ready", s.Orchestrator().State())
	}
}

func TestReadingScreen_QuestionsNeedPassage(t *testing.T) {
	b := testBackend()
	b.textErr = &generation.ServerError{Status: 500, Message: "Failed to generate text: boom"}
	s := New(b, testConfig(), nil)
	drain(t, s, s.Init())

	if s.Orchestrator().State() != generation.StateFailed {
		t.Fatalf("state = %v, want failed", s.Orchestrator().State())
	}
	if cmd := press(s, "n"); cmd != nil {
		t.Error("expected no request without a passage")
	}
	if !strings.Contains(s.Notice(), "no passage has been generated yet") {
		t.Errorf("notice = %q", s.Notice())
	}
	if !strings.Contains(s.View(100, 50), "Failed to generate text: boom") {
		t.Error("expected error in view")
	}
}

func TestReadingScreen_QuestionFailureKeepsPassage(t *testing.T) {
	b := testBackend()
	b.qErr = errors.New("Failed to generate questions: 500 Internal Server Error")
	s := New(b, testConfig(), nil)
	drain(t, s, s.Init())
	drain(t, s, press(s, "n"))

	if s.Orchestrator().FailedStage() != generation.StageQuestions {
		t.Fatalf("failed stage = %v, want questions", s.Orchestrator().FailedStage())
	}
	if s.Quiz() != nil {
		t.Error("expected no quiz after failure")
	}
	if _, ok := s.Orchestrator().Passage(); !ok {
		t.Error("expected passage to survive question failure")
	}
}

func TestReadingScreen_CloseCancelsContext(t *testing.T) {
	s := New(testBackend(), testConfig(), nil)
	s.Close()
	if s.ctx.Err() == nil {
		t.Error("expected context to be cancelled")
	}
}
