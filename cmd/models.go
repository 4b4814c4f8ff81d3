package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/readquiz/internal/api"
	"github.com/abhisek/readquiz/internal/catalog"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models the backend offers, grouped by provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := api.New(resolveAPIConfig(cmd))

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		cat, err := catalog.Load(ctx, client)
		if err != nil {
			return fmt.Errorf("load models: %w", err)
		}
		printCatalog(cmd.OutOrStdout(), cat)
		return nil
	},
}

// printCatalog writes cat grouped by provider, marking each provider's
// default model.
func printCatalog(out io.Writer, cat catalog.Catalog) {
	if len(cat) == 0 {
		fmt.Fprintln(out, "No models available.")
		return
	}

	for _, provider := range cat.Providers() {
		fmt.Fprintln(out, provider)
		fmt.Fprintln(out, strings.Repeat("─", 40))
		for i, m := range cat.Models(provider) {
			marker := " "
			if i == 0 {
				marker = "*"
			}
			fmt.Fprintf(out, " %s %s\n", marker, m.ID)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, "* default model for the provider")
}
