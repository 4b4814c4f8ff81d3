package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/readquiz/internal/generation"
	"github.com/abhisek/readquiz/internal/router"
)

type nopBackend struct{}

func (nopBackend) GenerateText(context.Context, generation.Config) (generation.Passage, error) {
	return generation.Passage{Text: "text"}, nil
}

func (nopBackend) GenerateQuestions(context.Context, generation.Passage, generation.Config) (generation.QuestionSet, error) {
	return nil, nil
}

func TestAppStartsOnForm(t *testing.T) {
	m := newAppModel(Options{Backend: nopBackend{}, Defaults: generation.DefaultConfig()})
	if got := m.router.Active().Title(); got != "New Passage" {
		t.Errorf("active screen = %q, want New Passage", got)
	}
}

func TestAppCtrlCQuits(t *testing.T) {
	m := newAppModel(Options{Backend: nopBackend{}, Defaults: generation.DefaultConfig()})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestAppEscAtRootStays(t *testing.T) {
	m := newAppModel(Options{Backend: nopBackend{}, Defaults: generation.DefaultConfig()})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		if _, ok := cmd().(router.PopScreenMsg); ok {
			t.Error("esc on the root screen should not pop")
		}
	}
}

func TestAppViewRendersHeader(t *testing.T) {
	m := newAppModel(Options{Backend: nopBackend{}, Defaults: generation.DefaultConfig(), Status: "127.0.0.1:8000"})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	v := updated.(AppModel).View()
	if !v.AltScreen {
		t.Error("expected alt screen")
	}
}
