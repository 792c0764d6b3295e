package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kingrea/backforge/internal/deps"
)

func newFeaturesCommand(env *appEnv) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "features",
		Short: "List the optional features that can be added to a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
			for _, f := range env.features.Features() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", f.ID, f.Label, f.Hint)
				if verbose {
					for _, line := range packageLines(f) {
						fmt.Fprintf(tw, "\t  %s\t\n", line)
					}
				}
			}
			env.log.Debug("listed features")
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Also show the packages each feature adds")
	return cmd
}

func packageLines(f deps.Feature) []string {
	var lines []string
	for _, name := range deps.SortedKeys(f.Dependencies) {
		lines = append(lines, name+"@"+f.Dependencies[name])
	}
	for _, name := range deps.SortedKeys(f.DevDependencies) {
		lines = append(lines, name+"@"+f.DevDependencies[name]+" (dev)")
	}
	for _, name := range deps.SortedKeys(f.Scripts) {
		lines = append(lines, "script "+name+": "+strings.TrimSpace(f.Scripts[name]))
	}
	return lines
}
