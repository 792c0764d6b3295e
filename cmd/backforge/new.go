package main

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/backforge/internal/logbook"
	"github.com/kingrea/backforge/internal/scaffold"
	"github.com/kingrea/backforge/internal/stack"
	"github.com/kingrea/backforge/internal/tui"
)

func newNewCommand(env *appEnv) *cobra.Command {
	var (
		flags        stackFlags
		yes          bool
		dir          string
		force        bool
		dryRun       bool
		saveDefaults bool
	)

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new backend project",
		Long: `Create a new backend project.

Without flags an interactive wizard asks for the language, ORM, framework,
project name and optional features. Passing any stack flag (--runtime,
--language, --orm, --framework, --feature) or --yes skips the wizard and
fills the remaining answers from the configured defaults. --dry-run and
--save-defaults cannot be combined.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := flags.selection(env.cfg)
			if err != nil {
				return err
			}
			name := stack.DefaultProjectName
			if len(args) == 1 {
				name = strings.TrimSpace(args[0])
			}
			features := flags.featureIDs(cmd, env.cfg)

			if !yes && !flags.anyChoiceSet(cmd) {
				defaults := stack.Answers{
					Language:    sel.Language,
					ORM:         sel.ORM,
					Framework:   sel.Framework,
					ProjectName: name,
					Features:    features,
				}
				ans, err := tui.Run(defaults, env.features.Features(),
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(cmd.OutOrStdout()),
				)
				if err != nil {
					env.log.Warn("wizard ended without answers", zap.Error(err))
					return err
				}
				sel = ans.Selection(sel.Runtime)
				name = ans.ProjectName
				features = ans.Features
			}
			if err := stack.ValidateProjectName(name); err != nil {
				return err
			}

			res := resolve(env, sel, features)
			reportProblems(cmd, env, res)
			answers := stack.Answers{
				Language:    sel.Language,
				ORM:         sel.ORM,
				Framework:   sel.Framework,
				ProjectName: name,
				Features:    res.Features,
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, tui.Summary(answers, env.features))

			if dryRun {
				body, err := scaffold.PackageJSON(name, sel, res.Manifest)
				if err != nil {
					return err
				}
				_, err = out.Write(body)
				return err
			}

			parent := dir
			if parent == "" {
				parent = env.cfg.OutputDir()
			}
			target := filepath.Join(parent, name)
			result, err := scaffold.Generate(scaffold.Options{
				Dir:            target,
				Name:           name,
				Selection:      sel,
				Features:       res.Features,
				Manifest:       res.Manifest,
				PackageManager: env.cfg.PackageManager(),
				Force:          force,
				Catalog:        env.features,
			})
			if err != nil {
				env.log.Error("generation failed", zap.String("project", name), zap.Error(err))
				env.book.Record(logbook.Entry{Project: name, Dir: target, Stack: sel.String(), Features: res.Features, Err: err})
				return err
			}
			env.log.Info("project generated",
				zap.String("project", name),
				zap.String("dir", result.Dir),
				zap.Int("files", len(result.Files)),
				zap.Int("packages", res.Manifest.PackageCount()),
			)
			env.book.Record(logbook.Entry{
				Project:   name,
				Dir:       result.Dir,
				Stack:     sel.String(),
				Features:  res.Features,
				Conflicts: len(res.Conflicts),
			})

			if saveDefaults {
				if err := env.cfg.SetDefaults(sel, res.Features); err != nil {
					return err
				}
				fmt.Fprintf(out, "Saved defaults to %s\n", env.cfg.Path())
			}

			fmt.Fprintf(out, "\nCreated %s with %d files.\n\nNext steps:\n", result.Dir, len(result.Files))
			for _, step := range scaffold.NextSteps(env.cfg.PackageManager(), name, sel) {
				fmt.Fprintf(out, "  %s\n", step)
			}
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the wizard and use defaults for unanswered questions")
	cmd.Flags().StringVar(&dir, "dir", "", "Parent directory for the project (default from config output_dir)")
	cmd.Flags().BoolVar(&force, "force", false, "Write into a non-empty project directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print package.json instead of writing files")
	cmd.Flags().BoolVar(&saveDefaults, "save-defaults", false, "Remember this stack and feature set as the new defaults")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "save-defaults")
	cmd.Example = `  # Interactive wizard
  backforge new

  # Non-interactive
  backforge new orders-api --language ts --framework fastify --orm prisma --feature oauth --feature email`
	return cmd
}

// reportProblems surfaces conflicts and unknown features on stderr. They
// never stop generation.
func reportProblems(cmd *cobra.Command, env *appEnv, res resolution) {
	errOut := cmd.ErrOrStderr()
	for _, c := range res.Conflicts {
		fmt.Fprintf(errOut, "warning: %s\n", c)
	}
	if len(res.Unknown) > 0 {
		fmt.Fprintf(errOut, "warning: ignoring unknown features: %s (known: %s)\n",
			strings.Join(res.Unknown, ", "), strings.Join(env.features.IDs(), ", "))
	}
}
