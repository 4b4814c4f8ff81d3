package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/readquiz/internal/api"
	"github.com/abhisek/readquiz/internal/app"
	"github.com/abhisek/readquiz/internal/generation"
)

// runApp builds the backend client and launches the TUI.
func runApp(cmd *cobra.Command) error {
	client := api.New(resolveAPIConfig(cmd))

	return app.Run(app.Options{
		Backend:  client,
		Lister:   client,
		Defaults: generation.DefaultConfig(),
		Status:   strings.TrimPrefix(strings.TrimPrefix(client.BaseURL(), "http://"), "https://"),
	})
}
