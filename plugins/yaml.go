package plugins

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/backforge/internal/deps"
	"github.com/kingrea/backforge/internal/semver"
)

// FeatureFile pairs a parsed feature bundle with its on-disk source.
type FeatureFile struct {
	Feature deps.Feature
	Path    string
}

// ParseFeatureYAML decodes and validates a single feature bundle.
func ParseFeatureYAML(data []byte) (deps.Feature, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return deps.Feature{}, fmt.Errorf("plugin: feature payload is empty")
	}
	var f deps.Feature
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return deps.Feature{}, fmt.Errorf("plugin: decode feature: %w", err)
	}
	f = normalized(f)
	if err := f.Validate(); err != nil {
		return deps.Feature{}, err
	}
	if err := validateRanges(f.ID, "dependencies", f.Dependencies); err != nil {
		return deps.Feature{}, err
	}
	if err := validateRanges(f.ID, "devDependencies", f.DevDependencies); err != nil {
		return deps.Feature{}, err
	}
	return f, nil
}

// LoadFeatureFile reads a YAML file from disk and returns the parsed feature.
func LoadFeatureFile(path string) (FeatureFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FeatureFile{}, fmt.Errorf("plugin: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return FeatureFile{}, fmt.Errorf("plugin: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return FeatureFile{}, fmt.Errorf("plugin: read %s: %w", path, err)
	}
	f, err := ParseFeatureYAML(data)
	if err != nil {
		return FeatureFile{}, fmt.Errorf("plugin: %s: %w", path, err)
	}
	return FeatureFile{Feature: f, Path: filepath.Clean(path)}, nil
}

// LoadFeatureDir scans a directory for *.yaml features, sorted by path.
// A missing directory means no plugins.
func LoadFeatureDir(dir string) ([]FeatureFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("plugin: read %s: %w", trimmed, err)
	}
	var files []FeatureFile
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		file, err := LoadFeatureFile(filepath.Join(trimmed, entry.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Install registers every loaded feature after the ones already in reg.
// An ID that clashes with a built-in or another file is an error.
func Install(reg *deps.FeatureRegistry, files []FeatureFile) error {
	for _, file := range files {
		if err := reg.Register(file.Feature); err != nil {
			return fmt.Errorf("plugin: register %s from %s: %w", file.Feature.ID, file.Path, err)
		}
	}
	return nil
}

func normalized(f deps.Feature) deps.Feature {
	return deps.Feature{
		ID:              strings.TrimSpace(f.ID),
		Label:           strings.TrimSpace(f.Label),
		Hint:            strings.TrimSpace(f.Hint),
		Dependencies:    trimKeys(f.Dependencies),
		DevDependencies: trimKeys(f.DevDependencies),
		Scripts:         trimKeys(f.Scripts),
	}
}

func trimKeys(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(v)
	}
	return out
}

func validateRanges(id, section string, pkgs map[string]string) error {
	for _, name := range deps.SortedKeys(pkgs) {
		if _, err := semver.ParseRange(pkgs[name]); err != nil {
			return fmt.Errorf("plugin: feature %s: %s.%s: %w", id, section, name, err)
		}
	}
	return nil
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
