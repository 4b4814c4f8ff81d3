package reading

import (
	"time"

	"github.com/abhisek/readquiz/internal/generation"
)

// completionMsg carries a finished request back to the update loop.
type completionMsg struct {
	generation.Completion
}

// spinnerTickMsg is sent at short intervals to animate the loading spinner.
type spinnerTickMsg time.Time
