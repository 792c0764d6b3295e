// Package scaffold writes a resolved manifest and the starter files for a
// stack selection into a new project directory.
package scaffold

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/kingrea/backforge/internal/deps"
	"github.com/kingrea/backforge/internal/stack"
)

// ErrTargetNotEmpty is returned when the project directory already has
// entries and Force is not set.
var ErrTargetNotEmpty = errors.New("scaffold: target directory is not empty")

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Options describes one project to generate.
type Options struct {
	// Dir is the project directory itself, not its parent.
	Dir            string
	Name           string
	Selection      stack.Selection
	Features       []string
	Manifest       deps.Manifest
	PackageManager string
	Force          bool
	// Catalog supplies feature labels for the README. Nil means the
	// built-in catalog.
	Catalog *deps.FeatureRegistry
}

// Result lists what Generate wrote, relative to Dir, in sorted order.
type Result struct {
	Dir   string
	Files []string
}

type templateData struct {
	Name      string
	TS        bool
	Express   bool
	Prisma    bool
	Ext       string
	Runtime   stack.Runtime
	Language  string
	ORM       string
	Framework string
	Features  []string
	NextSteps []string
}

// Generate creates the project directory and writes every file for the
// selection. Files are written through a temp file + rename so a failed
// run never leaves a half-written package.json behind.
func Generate(opts Options) (Result, error) {
	if err := stack.ValidateProjectName(opts.Name); err != nil {
		return Result{}, err
	}
	if err := opts.Selection.Validate(); err != nil {
		return Result{}, err
	}
	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return Result{}, fmt.Errorf("scaffold: resolve %s: %w", opts.Dir, err)
	}
	if err := ensureTarget(dir, opts.Force); err != nil {
		return Result{}, err
	}

	files, err := Render(opts)
	if err != nil {
		return Result{}, err
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return Result{}, fmt.Errorf("scaffold: ensure dir for %s: %w", name, err)
		}
		if err := writeFileAtomic(path, files[name], 0o644); err != nil {
			return Result{}, fmt.Errorf("scaffold: write %s: %w", name, err)
		}
	}
	return Result{Dir: dir, Files: names}, nil
}

// Render produces the project files in memory, keyed by slash-separated
// relative path.
func Render(opts Options) (map[string][]byte, error) {
	sel := opts.Selection
	data := templateData{
		Name:      strings.TrimSpace(opts.Name),
		TS:        sel.Language == stack.LanguageTS,
		Express:   sel.Framework == stack.FrameworkExpress,
		Prisma:    sel.ORM == stack.ORMPrisma,
		Ext:       "js",
		Runtime:   sel.Runtime,
		Language:  stack.Label(stack.LanguageOptions, string(sel.Language)),
		ORM:       stack.Label(stack.ORMOptions, string(sel.ORM)),
		Framework: stack.Label(stack.FrameworkOptions, string(sel.Framework)),
		Features:  featureLabels(opts.Catalog, opts.Features),
		NextSteps: NextSteps(opts.PackageManager, strings.TrimSpace(opts.Name), sel),
	}
	if data.TS {
		data.Ext = "ts"
	}

	files := map[string][]byte{}
	pkg, err := PackageJSON(data.Name, sel, opts.Manifest)
	if err != nil {
		return nil, err
	}
	files["package.json"] = pkg

	plan := []struct {
		path, tmpl string
		when       bool
	}{
		{path: "src/server." + data.Ext, tmpl: "server.tmpl", when: true},
		{path: ".gitignore", tmpl: "gitignore.tmpl", when: true},
		{path: ".env.example", tmpl: "env.tmpl", when: true},
		{path: "README.md", tmpl: "readme.tmpl", when: true},
		{path: "eslint.config.mjs", tmpl: "eslint.tmpl", when: true},
		{path: "tsconfig.json", tmpl: "tsconfig.tmpl", when: data.TS},
		{path: "jest.config.js", tmpl: "jest.tmpl", when: data.TS && data.Express},
		{path: "tests/setup.ts", tmpl: "jestsetup.tmpl", when: data.TS && data.Express},
		{path: "prisma/schema.prisma", tmpl: "prisma.tmpl", when: data.Prisma},
	}
	for _, item := range plan {
		if !item.when {
			continue
		}
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, item.tmpl, data); err != nil {
			return nil, fmt.Errorf("scaffold: render %s: %w", item.path, err)
		}
		files[item.path] = buf.Bytes()
	}
	return files, nil
}

type packageJSON struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Private          bool              `json:"private"`
	Main             string            `json:"main"`
	Scripts          map[string]string `json:"scripts"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies,omitempty"`
}

// PackageJSON renders the package manifest. Map keys come out sorted, so
// identical input always produces identical bytes.
func PackageJSON(name string, sel stack.Selection, m deps.Manifest) ([]byte, error) {
	main := "src/server.js"
	if sel.Language == stack.LanguageTS {
		main = "dist/server.js"
	}
	doc := packageJSON{
		Name:             strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-")),
		Version:          "1.0.0",
		Private:          true,
		Main:             main,
		Scripts:          nonNil(m.Scripts),
		Dependencies:     nonNil(m.Dependencies),
		DevDependencies:  nonNil(m.DevDependencies),
		PeerDependencies: m.PeerDependencies,
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("scaffold: encode package.json: %w", err)
	}
	return buf.Bytes(), nil
}

// NextSteps lists the shell commands to run after generation.
func NextSteps(pm, name string, sel stack.Selection) []string {
	if pm == "" {
		pm = "npm"
	}
	run := pm + " run"
	if pm == "yarn" || pm == "bun" {
		run = pm
	}
	steps := []string{
		"cd " + name,
		pm + " install",
		"cp .env.example .env",
	}
	if sel.ORM == stack.ORMPrisma {
		steps = append(steps, "npx prisma migrate dev --name init")
	}
	return append(steps, run+" dev")
}

func featureLabels(catalog *deps.FeatureRegistry, ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	if catalog == nil {
		catalog = deps.DefaultFeatures
	}
	out := make([]string, 0, len(ids))
	for _, id := range deps.NewFeatureSet(ids...).Sorted() {
		if f, ok := catalog.Lookup(id); ok {
			out = append(out, f.Label)
		}
	}
	return out
}

func nonNil(in map[string]string) map[string]string {
	if in == nil {
		return map[string]string{}
	}
	return in
}

func ensureTarget(dir string, force bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("scaffold: create %s: %w", dir, err)
			}
			return nil
		}
		return fmt.Errorf("scaffold: read %s: %w", dir, err)
	}
	if len(entries) > 0 && !force {
		return fmt.Errorf("%w: %s", ErrTargetNotEmpty, dir)
	}
	return nil
}
