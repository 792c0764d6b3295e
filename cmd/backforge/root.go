package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/backforge/internal/config"
	"github.com/kingrea/backforge/internal/deps"
	"github.com/kingrea/backforge/internal/logbook"
	"github.com/kingrea/backforge/internal/logging"
	"github.com/kingrea/backforge/plugins"
)

// appEnv is what every subcommand needs once flags are parsed.
type appEnv struct {
	cfg      *config.Config
	log      *logging.Logger
	book     *logbook.Logbook
	features *deps.FeatureRegistry
}

func (e *appEnv) Close() {
	if e == nil {
		return
	}
	_ = e.log.Close()
}

func newRootCommand() *cobra.Command {
	var home string
	env := &appEnv{log: logging.Nop()}

	cmd := &cobra.Command{
		Use:           "backforge",
		Short:         "Scaffold a backend project with a resolved dependency manifest",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadEnv(home)
			if err != nil {
				return err
			}
			*env = *loaded
			env.log.Printf("running %s", cmd.CommandPath())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			env.Close()
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVar(&home, "home", "", "Configuration directory (default $"+config.HomeEnv+" or ~/.config/backforge)")

	cmd.AddCommand(
		newNewCommand(env),
		newDepsCommand(env),
		newFeaturesCommand(env),
		newHistoryCommand(env),
		newVersionsCommand(env),
	)
	return cmd
}

func loadEnv(home string) (*appEnv, error) {
	home = strings.TrimSpace(home)
	if home == "" {
		var err error
		home, err = config.DefaultHome()
		if err != nil {
			return nil, err
		}
	}
	if err := config.InitHome(home); err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	cfg, err := config.Load(home, cwd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogsDir(), cfg.LogLevel())
	if err != nil {
		return nil, err
	}
	book, err := logbook.New(cfg.HistoryPath())
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("opening history: %w", err)
	}
	features, err := loadFeatures(cfg, logger)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	return &appEnv{cfg: cfg, log: logger, book: book, features: features}, nil
}

// loadFeatures returns the built-in catalog followed by any bundles found
// in the features directory.
func loadFeatures(cfg *config.Config, logger *logging.Logger) (*deps.FeatureRegistry, error) {
	reg := deps.NewCatalog()
	files, err := plugins.LoadFeatureDir(cfg.FeaturesDir())
	if err != nil {
		return nil, err
	}
	if err := plugins.Install(reg, files); err != nil {
		return nil, err
	}
	for _, file := range files {
		logger.Debug("loaded feature plugin", zap.String("id", file.Feature.ID), zap.String("path", file.Path))
	}
	return reg, nil
}
