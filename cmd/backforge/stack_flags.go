package main

import (
	"github.com/spf13/cobra"

	"github.com/kingrea/backforge/internal/config"
	"github.com/kingrea/backforge/internal/stack"
)

// stackFlags are the stack choices shared by `new` and `deps`. Unset flags
// fall back to the config defaults.
type stackFlags struct {
	runtime   string
	language  string
	orm       string
	framework string
	features  []string
}

func (f *stackFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.runtime, "runtime", "", "Runtime: nodejs|bun")
	cmd.Flags().StringVar(&f.language, "language", "", "Language: ts|js")
	cmd.Flags().StringVar(&f.orm, "orm", "", "ORM: mongoose|prisma")
	cmd.Flags().StringVar(&f.framework, "framework", "", "Framework: express|fastify")
	cmd.Flags().StringSliceVar(&f.features, "feature", nil, "Feature to add (repeatable, see `backforge features`)")
}

// anyChoiceSet reports whether the user answered any question via flags.
func (f *stackFlags) anyChoiceSet(cmd *cobra.Command) bool {
	for _, name := range []string{"runtime", "language", "orm", "framework", "feature"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func (f *stackFlags) selection(cfg *config.Config) (stack.Selection, error) {
	sel := cfg.DefaultSelection()
	var err error
	if f.runtime != "" {
		if sel.Runtime, err = stack.ParseRuntime(f.runtime); err != nil {
			return stack.Selection{}, err
		}
	}
	if f.language != "" {
		if sel.Language, err = stack.ParseLanguage(f.language); err != nil {
			return stack.Selection{}, err
		}
	}
	if f.orm != "" {
		if sel.ORM, err = stack.ParseORM(f.orm); err != nil {
			return stack.Selection{}, err
		}
	}
	if f.framework != "" {
		if sel.Framework, err = stack.ParseFramework(f.framework); err != nil {
			return stack.Selection{}, err
		}
	}
	return sel.Normalize()
}

func (f *stackFlags) featureIDs(cmd *cobra.Command, cfg *config.Config) []string {
	if cmd.Flags().Changed("feature") {
		return append([]string{}, f.features...)
	}
	return cfg.DefaultFeatures()
}
