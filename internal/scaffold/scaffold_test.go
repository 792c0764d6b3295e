package scaffold

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kingrea/backforge/internal/deps"
	"github.com/kingrea/backforge/internal/stack"
)

func newOptions(t *testing.T, sel stack.Selection, features ...string) Options {
	t.Helper()
	merged, _ := deps.Merge(deps.ResolveDeps(sel), deps.ResolveFeatureDeps(deps.NewFeatureSet(features...), sel.Language))
	return Options{
		Dir:            filepath.Join(t.TempDir(), "my-app"),
		Name:           "my-app",
		Selection:      sel,
		Features:       features,
		Manifest:       merged,
		PackageManager: "npm",
	}
}

func TestGenerateTypeScriptExpressPrisma(t *testing.T) {
	sel := stack.Selection{Runtime: stack.RuntimeNode, Language: stack.LanguageTS, ORM: stack.ORMPrisma, Framework: stack.FrameworkExpress}
	opts := newOptions(t, sel, "oauth")
	res, err := Generate(opts)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []string{
		".env.example",
		".gitignore",
		"README.md",
		"eslint.config.mjs",
		"jest.config.js",
		"package.json",
		"prisma/schema.prisma",
		"src/server.ts",
		"tests/setup.ts",
		"tsconfig.json",
	}
	if diff := cmp.Diff(want, res.Files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}

	raw, err := os.ReadFile(filepath.Join(res.Dir, "package.json"))
	if err != nil {
		t.Fatalf("read package.json: %v", err)
	}
	var pkg packageJSON
	if err := json.Unmarshal(raw, &pkg); err != nil {
		t.Fatalf("decode package.json: %v", err)
	}
	if pkg.Name != "my-app" || pkg.Main != "dist/server.js" {
		t.Fatalf("unexpected header: %+v", pkg)
	}
	if pkg.Scripts["build"] != "rimraf dist && tsc" {
		t.Fatalf("build script = %q", pkg.Scripts["build"])
	}
	if !strings.Contains(string(raw), `"rimraf dist && tsc"`) {
		t.Fatalf("package.json must not HTML-escape scripts")
	}
	if pkg.Scripts["postinstall"] != "prisma generate" {
		t.Fatalf("postinstall = %q", pkg.Scripts["postinstall"])
	}
	if pkg.Dependencies["passport"] != "^0.7.0" {
		t.Fatalf("feature dependency missing")
	}
	if pkg.PeerDependencies != nil {
		t.Fatalf("empty peer dependencies should be omitted")
	}

	server, err := os.ReadFile(filepath.Join(res.Dir, "src", "server.ts"))
	if err != nil {
		t.Fatalf("read server: %v", err)
	}
	for _, needle := range []string{"import express from 'express';", "PrismaClient", "export { createApp };"} {
		if !strings.Contains(string(server), needle) {
			t.Fatalf("server.ts missing %q", needle)
		}
	}
	readme, err := os.ReadFile(filepath.Join(res.Dir, "README.md"))
	if err != nil {
		t.Fatalf("read readme: %v", err)
	}
	if !strings.Contains(string(readme), "OAuth 2.0 (Google, GitHub)") {
		t.Fatalf("README missing feature label")
	}
	if !strings.Contains(string(readme), "npx prisma migrate dev --name init") {
		t.Fatalf("README missing prisma step")
	}
}

func TestGenerateJavaScriptFastifyMongoose(t *testing.T) {
	sel := stack.Selection{Runtime: stack.RuntimeBun, Language: stack.LanguageJS, ORM: stack.ORMMongoose, Framework: stack.FrameworkFastify}
	res, err := Generate(newOptions(t, sel))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, name := range res.Files {
		switch name {
		case "tsconfig.json", "jest.config.js", "tests/setup.ts", "prisma/schema.prisma":
			t.Fatalf("unexpected file %s for js/mongoose/fastify", name)
		}
	}
	server, err := os.ReadFile(filepath.Join(res.Dir, "src", "server.js"))
	if err != nil {
		t.Fatalf("read server: %v", err)
	}
	for _, needle := range []string{"require('fastify')", "require('mongoose')", "module.exports = { createApp };"} {
		if !strings.Contains(string(server), needle) {
			t.Fatalf("server.js missing %q", needle)
		}
	}
	env, err := os.ReadFile(filepath.Join(res.Dir, ".env.example"))
	if err != nil {
		t.Fatalf("read env: %v", err)
	}
	if !strings.Contains(string(env), "MONGODB_URI=mongodb://localhost:27017/my-app") {
		t.Fatalf("env missing mongo uri: %s", env)
	}
}

func TestGenerateRefusesNonEmptyDir(t *testing.T) {
	sel := stack.Selection{Runtime: stack.RuntimeNode, Language: stack.LanguageJS, ORM: stack.ORMMongoose, Framework: stack.FrameworkExpress}
	opts := newOptions(t, sel)
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(opts.Dir, "keep.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Generate(opts); !errors.Is(err, ErrTargetNotEmpty) {
		t.Fatalf("expected ErrTargetNotEmpty, got %v", err)
	}
	opts.Force = true
	if _, err := Generate(opts); err != nil {
		t.Fatalf("generate with force: %v", err)
	}
	if _, err := os.Stat(filepath.Join(opts.Dir, "keep.txt")); err != nil {
		t.Fatalf("existing file should be left alone: %v", err)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	sel := stack.Selection{Runtime: stack.RuntimeNode, Language: stack.LanguageJS, ORM: stack.ORMMongoose, Framework: stack.FrameworkExpress}
	opts := newOptions(t, sel)
	opts.Name = "  "
	if _, err := Generate(opts); err == nil {
		t.Fatalf("expected error for empty name")
	}
	opts = newOptions(t, sel)
	opts.Selection.Framework = "hapi"
	if _, err := Generate(opts); err == nil {
		t.Fatalf("expected error for invalid selection")
	}
	opts = newOptions(t, sel)
	opts.Selection = stack.Selection{Runtime: "Bun", Language: "TS", ORM: "Prisma", Framework: "Express"}
	if _, err := Generate(opts); !errors.Is(err, stack.ErrInvalidChoice) {
		t.Fatalf("expected mixed-case selection to be rejected, got %v", err)
	}
	if _, err := os.Stat(opts.Dir); !os.IsNotExist(err) {
		t.Fatalf("rejected selection must not create the project dir: %v", err)
	}
}

func TestPackageJSONIsDeterministic(t *testing.T) {
	for _, sel := range stack.All() {
		m := deps.ResolveDeps(sel)
		a, err := PackageJSON("api", sel, m)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		b, err := PackageJSON("api", sel, deps.ResolveDeps(sel))
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if string(a) != string(b) {
			t.Fatalf("%s: package.json differs between runs", sel)
		}
	}
}

func TestNextStepsPerPackageManager(t *testing.T) {
	sel := stack.Selection{Runtime: stack.RuntimeNode, Language: stack.LanguageTS, ORM: stack.ORMMongoose, Framework: stack.FrameworkExpress}
	cases := map[string]string{
		"":     "npm run dev",
		"npm":  "npm run dev",
		"pnpm": "pnpm run dev",
		"yarn": "yarn dev",
		"bun":  "bun dev",
	}
	for pm, want := range cases {
		steps := NextSteps(pm, "api", sel)
		if got := steps[len(steps)-1]; got != want {
			t.Fatalf("pm %q: last step = %q, want %q", pm, got, want)
		}
		if steps[0] != "cd api" {
			t.Fatalf("first step = %q", steps[0])
		}
	}
}

func TestWriteFileAtomicReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	if err := writeFileAtomic(path, []byte("one"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := writeFileAtomic(path, []byte("two"), 0o644); err != nil {
		t.Fatalf("second write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "two" {
		t.Fatalf("content = %q", data)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}
