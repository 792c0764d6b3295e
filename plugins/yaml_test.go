package plugins

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/backforge/internal/deps"
	"github.com/kingrea/backforge/internal/stack"
)

const sampleFeature = `id: sentry
label: Sentry
hint: Error tracking
dependencies:
  "@sentry/node": ^8.7.0
scripts:
  " sentry:sourcemaps ": sentry-cli sourcemaps upload dist
`

func TestParseFeatureYAML(t *testing.T) {
	f, err := ParseFeatureYAML([]byte(sampleFeature))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.ID != "sentry" || f.Dependencies["@sentry/node"] != "^8.7.0" {
		t.Fatalf("unexpected feature: %+v", f)
	}
	if f.Scripts["sentry:sourcemaps"] == "" {
		t.Fatalf("script keys should be trimmed: %v", f.Scripts)
	}
}

func TestParseFeatureYAMLErrors(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"no id":         "label: X\ndependencies:\n  a: ^1.0.0\n",
		"no packages":   "id: x\nlabel: X\n",
		"bad range":     "id: x\nlabel: X\ndependencies:\n  a: whenever\n",
		"unknown field": "id: x\nlabel: X\npeers:\n  a: ^1.0.0\n",
	}
	for name, payload := range cases {
		if _, err := ParseFeatureYAML([]byte(payload)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadFeatureDir(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "sentry.yaml")
	if err := os.WriteFile(path, []byte(sampleFeature), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}
	files, err := LoadFeatureDir(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(files))
	}
	if files[0].Path != path {
		t.Fatalf("expected path %s, got %s", path, files[0].Path)
	}
}

func TestLoadFeatureDirMissing(t *testing.T) {
	files, err := LoadFeatureDir(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no features, got %d", len(files))
	}
}

func TestInstallAppendsAfterBuiltins(t *testing.T) {
	f, err := ParseFeatureYAML([]byte(sampleFeature))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	reg := deps.NewCatalog()
	if err := Install(reg, []FeatureFile{{Feature: f, Path: "sentry.yaml"}}); err != nil {
		t.Fatalf("install: %v", err)
	}
	all := reg.Features()
	if all[len(all)-1].ID != "sentry" {
		t.Fatalf("plugin feature should come last, got %s", all[len(all)-1].ID)
	}
	res := reg.Resolve(deps.NewFeatureSet("sentry"), stack.LanguageTS)
	if res.Dependencies["@sentry/node"] != "^8.7.0" || len(res.Unknown) != 0 {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if deps.DefaultFeatures.Features()[len(all)-2].ID != all[len(all)-2].ID {
		t.Fatalf("built-in order changed")
	}
	if _, ok := deps.DefaultFeatures.Lookup("sentry"); ok {
		t.Fatalf("installing into a fresh catalog must not touch the default one")
	}
}

func TestInstallRejectsBuiltinClash(t *testing.T) {
	reg := deps.NewCatalog()
	clash := deps.Feature{ID: "oauth", Label: "Mine", Dependencies: map[string]string{"x": "^1.0.0"}}
	err := Install(reg, []FeatureFile{{Feature: clash, Path: "oauth.yaml"}})
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}
