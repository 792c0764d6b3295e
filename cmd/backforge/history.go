package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCommand(env *appEnv) *cobra.Command {
	limit := 20
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently generated projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("-n must be positive, got %d", limit)
			}
			lines, total := env.book.Tail(limit)
			out := cmd.OutOrStdout()
			if total == 0 {
				fmt.Fprintln(out, "No projects generated yet.")
				return nil
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			if total > len(lines) {
				fmt.Fprintf(out, "(%d of %d entries, see %s)\n", len(lines), total, env.book.Path())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "lines", "n", limit, "Number of entries to show")
	return cmd
}
