package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kingrea/backforge/internal/deps"
)

func newVersionsCommand(env *appEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "versions [package...]",
		Short: "Show the pinned version range for packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := deps.Versions()
			names := args
			if len(names) == 0 {
				names = deps.PackageNames()
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range names {
				rng, ok := table[name]
				if !ok {
					return fmt.Errorf("no pinned version for %q", name)
				}
				fmt.Fprintf(tw, "%s\t%s\n", name, rng)
			}
			env.log.Debug("listed versions")
			return tw.Flush()
		},
	}
}
