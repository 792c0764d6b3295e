// internal/config/config.go
//
// This package handles backforge's user configuration. Settings live in
// $BACKFORGE_HOME (default ~/.config/backforge) next to the logs and the
// generation history.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/backforge/internal/stack"
)

const (
	// HomeEnv overrides the configuration directory.
	HomeEnv = "BACKFORGE_HOME"
	// LogLevelEnv overrides log_level from the config file.
	LogLevelEnv = "BACKFORGE_LOG_LEVEL"
	// RuntimeEnv overrides defaults.runtime from the config file.
	RuntimeEnv = "BACKFORGE_RUNTIME"

	configFileName = "config.yaml"
)

const defaultConfigYAML = `# backforge configuration
version: 1

# Answers used when a flag is not given and the wizard is skipped.
# runtime is never asked interactively.
defaults:
  runtime: nodejs
  language: ts
  orm: mongoose
  framework: express
  # features:
  #   - oauth

# Parent directory new projects are created in (relative paths resolve
# against the directory backforge runs from).
output_dir: .

# debug | info | warn | error
log_level: info

# npm | pnpm | yarn | bun
package_manager: npm
`

// Defaults holds the answers used when the user does not provide one.
type Defaults struct {
	Runtime   string   `yaml:"runtime"`
	Language  string   `yaml:"language"`
	ORM       string   `yaml:"orm"`
	Framework string   `yaml:"framework"`
	Features  []string `yaml:"features,omitempty"`
}

// FileConfig models config.yaml.
type FileConfig struct {
	Version        int      `yaml:"version"`
	Defaults       Defaults `yaml:"defaults"`
	OutputDir      string   `yaml:"output_dir"`
	LogLevel       string   `yaml:"log_level"`
	PackageManager string   `yaml:"package_manager"`
}

// Config holds the runtime configuration for backforge.
type Config struct {
	// HomeDir is where config.yaml, logs/ and history.log live.
	HomeDir string

	// WorkDir is the directory backforge was started from.
	WorkDir string

	File FileConfig
}

// DefaultHome returns $BACKFORGE_HOME or ~/.config/backforge.
func DefaultHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv(HomeEnv)); home != "" {
		return filepath.Clean(home), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate user config dir: %w", err)
	}
	return filepath.Join(base, "backforge"), nil
}

// InitHome creates the configuration directory layout and writes a default
// config.yaml if none exists.
//
// Structure created:
// <home>/
// ├── config.yaml
// ├── features/
// └── logs/
func InitHome(homeDir string) error {
	for _, dir := range []string{"logs", "features"} {
		if err := os.MkdirAll(filepath.Join(homeDir, dir), 0o755); err != nil {
			return fmt.Errorf("config: ensure home: %w", err)
		}
	}
	return ensureConfigFile(filepath.Join(homeDir, configFileName))
}

// Load reads .env from workDir (if present), then config.yaml from homeDir,
// then applies environment overrides.
func Load(homeDir, workDir string) (*Config, error) {
	envPath := filepath.Join(workDir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", envPath, err)
		}
	}

	cfg := &Config{
		HomeDir: homeDir,
		WorkDir: workDir,
		File:    defaultFileConfig(),
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.File.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Path returns the on-disk location of config.yaml.
func (c *Config) Path() string {
	return filepath.Join(c.HomeDir, configFileName)
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.HomeDir, "logs")
}

// FeaturesDir holds user-defined feature bundles (*.yaml).
func (c *Config) FeaturesDir() string {
	return filepath.Join(c.HomeDir, "features")
}

// HistoryPath returns the generation history file.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.HomeDir, "history.log")
}

// OutputDir returns the absolute parent directory for new projects.
func (c *Config) OutputDir() string {
	return resolvePath(c.WorkDir, c.File.OutputDir)
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() string {
	return c.File.LogLevel
}

// PackageManager returns the package manager named in next-step hints.
func (c *Config) PackageManager() string {
	return c.File.PackageManager
}

// DefaultSelection returns the configured default stack. The values were
// validated on load, so parsing cannot fail here.
func (c *Config) DefaultSelection() stack.Selection {
	d := c.File.Defaults
	return stack.Selection{
		Runtime:   stack.Runtime(d.Runtime),
		Language:  stack.Language(d.Language),
		ORM:       stack.ORM(d.ORM),
		Framework: stack.Framework(d.Framework),
	}
}

// DefaultFeatures returns the configured default feature IDs.
func (c *Config) DefaultFeatures() []string {
	return append([]string{}, c.File.Defaults.Features...)
}

// SetDefaults records sel and features as the new defaults and persists
// them back to config.yaml.
func (c *Config) SetDefaults(sel stack.Selection, features []string) error {
	if err := sel.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.File.Defaults = Defaults{
		Runtime:   string(sel.Runtime),
		Language:  string(sel.Language),
		ORM:       string(sel.ORM),
		Framework: string(sel.Framework),
		Features:  append([]string{}, features...),
	}
	return c.save()
}

func (c *Config) loadFile() error {
	path := c.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed FileConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.File = parsed
	return nil
}

func (c *Config) applyEnv() {
	if level := strings.TrimSpace(os.Getenv(LogLevelEnv)); level != "" {
		c.File.LogLevel = strings.ToLower(level)
	}
	if rt := strings.TrimSpace(os.Getenv(RuntimeEnv)); rt != "" {
		c.File.Defaults.Runtime = strings.ToLower(rt)
	}
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version: 1,
		Defaults: Defaults{
			Runtime:   string(stack.RuntimeNode),
			Language:  string(stack.LanguageTS),
			ORM:       string(stack.ORMMongoose),
			Framework: string(stack.FrameworkExpress),
		},
		OutputDir:      ".",
		LogLevel:       "info",
		PackageManager: "npm",
	}
}

func (fc *FileConfig) applyDefaults() {
	def := defaultFileConfig()
	if fc.Version == 0 {
		fc.Version = def.Version
	}
	if strings.TrimSpace(fc.Defaults.Runtime) == "" {
		fc.Defaults.Runtime = def.Defaults.Runtime
	}
	if strings.TrimSpace(fc.Defaults.Language) == "" {
		fc.Defaults.Language = def.Defaults.Language
	}
	if strings.TrimSpace(fc.Defaults.ORM) == "" {
		fc.Defaults.ORM = def.Defaults.ORM
	}
	if strings.TrimSpace(fc.Defaults.Framework) == "" {
		fc.Defaults.Framework = def.Defaults.Framework
	}
	if strings.TrimSpace(fc.OutputDir) == "" {
		fc.OutputDir = def.OutputDir
	}
	if strings.TrimSpace(fc.LogLevel) == "" {
		fc.LogLevel = def.LogLevel
	}
	if strings.TrimSpace(fc.PackageManager) == "" {
		fc.PackageManager = def.PackageManager
	}
}

func (fc *FileConfig) normalize() {
	fc.Defaults.Runtime = normalizeValue(fc.Defaults.Runtime)
	fc.Defaults.Language = normalizeValue(fc.Defaults.Language)
	fc.Defaults.ORM = normalizeValue(fc.Defaults.ORM)
	fc.Defaults.Framework = normalizeValue(fc.Defaults.Framework)
	fc.LogLevel = normalizeValue(fc.LogLevel)
	fc.PackageManager = normalizeValue(fc.PackageManager)
	fc.OutputDir = strings.TrimSpace(fc.OutputDir)
	features := fc.Defaults.Features[:0]
	for _, id := range fc.Defaults.Features {
		if id = strings.TrimSpace(id); id != "" && !contains(features, id) {
			features = append(features, id)
		}
	}
	fc.Defaults.Features = features
}

func (fc *FileConfig) validate() error {
	if fc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	d := fc.Defaults
	sel := stack.Selection{
		Runtime:   stack.Runtime(d.Runtime),
		Language:  stack.Language(d.Language),
		ORM:       stack.ORM(d.ORM),
		Framework: stack.Framework(d.Framework),
	}
	if err := sel.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	switch fc.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}
	switch fc.PackageManager {
	case "npm", "pnpm", "yarn", "bun":
	default:
		return fmt.Errorf("package_manager must be one of npm, pnpm, yarn, bun")
	}
	return nil
}

func normalizeValue(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func (c *Config) save() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.File.applyDefaults()
	c.File.normalize()
	if err := c.File.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.HomeDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure home: %w", err)
	}
	data, err := yaml.Marshal(c.File)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.Path(), data, 0o644); err != nil {
		return fmt.Errorf("config: write config: %w", err)
	}
	return nil
}
