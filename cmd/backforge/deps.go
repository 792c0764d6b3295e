package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/backforge/internal/deps"
	"github.com/kingrea/backforge/internal/stack"
)

// resolution is the full answer for one selection plus feature set.
type resolution struct {
	Selection stack.Selection `json:"selection" yaml:"selection"`
	Features  []string        `json:"features,omitempty" yaml:"features,omitempty"`
	Manifest  deps.Manifest   `json:"manifest" yaml:"manifest"`
	Conflicts []deps.Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Unknown   []string        `json:"unknownFeatures,omitempty" yaml:"unknownFeatures,omitempty"`
}

func resolve(env *appEnv, sel stack.Selection, featureIDs []string) resolution {
	set := deps.NewFeatureSet(featureIDs...)
	fr := env.features.Resolve(set, sel.Language)
	merged, mergeConflicts := deps.Merge(deps.ResolveDeps(sel), fr)
	res := resolution{
		Selection: sel,
		Features:  set.Sorted(),
		Manifest:  merged,
		Conflicts: append(append([]deps.Conflict{}, fr.Conflicts...), mergeConflicts...),
		Unknown:   fr.Unknown,
	}
	env.log.Info("resolved stack",
		zap.Stringer("selection", sel),
		zap.Strings("features", res.Features),
		zap.Int("dependencies", len(merged.Dependencies)),
		zap.Int("devDependencies", len(merged.DevDependencies)),
		zap.Int("conflicts", len(res.Conflicts)),
	)
	for _, c := range res.Conflicts {
		env.log.Warn("version conflict", zap.String("package", c.Package), zap.String("detail", c.String()))
	}
	if len(res.Unknown) > 0 {
		env.log.Warn("ignoring unknown features", zap.Strings("features", res.Unknown))
	}
	return res
}

func newDepsCommand(env *appEnv) *cobra.Command {
	var flags stackFlags
	output := "json"

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Print the resolved dependencies and scripts for a stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := flags.selection(env.cfg)
			if err != nil {
				return err
			}
			res := resolve(env, sel, flags.featureIDs(cmd, env.cfg))
			return writeResolution(cmd.OutOrStdout(), output, res)
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", output, "Output format: json|yaml")
	cmd.Example = `  # Manifest for the configured defaults
  backforge deps

  # TypeScript + Fastify + Prisma on Bun, with OAuth, as YAML
  backforge deps --runtime bun --language ts --framework fastify --orm prisma --feature oauth -o yaml`
	return cmd
}

func writeResolution(w io.Writer, format string, res resolution) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (expected json or yaml)", format)
	}
}
