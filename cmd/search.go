package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <provider> [isbn|date|help] <text>",
		Short: "Run a slash command locally and print the JSON reply",
		Long: `Runs one slash command against a provider without going through the
webhook and prints the reply that would be sent to the chat platform.

Useful for checking provider credentials and response formatting.`,
		Example: `  # Title search
  bibliobot search bibliocloud dune

  # ISBN lookup
  bibliobot search consonance isbn 978-0-123456-47-2

  # Books publishing today
  bibliobot search consonance date today`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcher, _, err := loadDispatcher(cmd, false)
			if err != nil {
				return err
			}

			reply := dispatcher.Run(cmd.Context(), args[0], strings.Join(args[1:], " "))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(reply)
		},
	}

	return cmd
}
