package components

import (
	"github.com/abhisek/readquiz/internal/ui/theme"
)

// Button is a keyboard-triggered action label.
type Button struct {
	Key    string
	Label  string
	Active bool
}

// NewButton creates a new button.
func NewButton(key, label string, active bool) Button {
	return Button{Key: key, Label: label, Active: active}
}

// View renders the button. Inactive buttons are dimmed.
func (b Button) View() string {
	label := "[" + b.Key + "] " + b.Label
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}

// Row renders buttons side by side.
func Row(buttons ...Button) string {
	s := ""
	for i, b := range buttons {
		if i > 0 {
			s += " "
		}
		s += b.View()
	}
	return s
}
