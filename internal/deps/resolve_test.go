package deps

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kingrea/backforge/internal/semver"
	"github.com/kingrea/backforge/internal/stack"
)

func TestResolveDepsIncludesBaselineForEverySelection(t *testing.T) {
	for _, sel := range stack.All() {
		m := ResolveDeps(sel)
		for _, name := range BaselinePackages {
			if m.Dependencies[name] == "" {
				t.Fatalf("%s: missing baseline package %s", sel, name)
			}
		}
		if len(m.PeerDependencies) != 0 {
			t.Fatalf("%s: expected no peer dependencies, got %v", sel, m.PeerDependencies)
		}
	}
}

func TestResolveDepsFrameworkPackagesAreExclusive(t *testing.T) {
	exclusive := func(own, other stack.Framework) []string {
		shared := map[string]bool{}
		for _, name := range FrameworkPackages[own] {
			shared[name] = true
		}
		var out []string
		for _, name := range FrameworkPackages[other] {
			if !shared[name] {
				out = append(out, name)
			}
		}
		return out
	}
	for _, sel := range stack.All() {
		m := ResolveDeps(sel)
		other := stack.FrameworkFastify
		if sel.Framework == stack.FrameworkFastify {
			other = stack.FrameworkExpress
		}
		for _, name := range FrameworkPackages[sel.Framework] {
			if _, ok := m.Dependencies[name]; !ok {
				t.Fatalf("%s: missing framework package %s", sel, name)
			}
		}
		for _, name := range exclusive(sel.Framework, other) {
			if _, ok := m.Dependencies[name]; ok {
				t.Fatalf("%s: leaked %s-only package %s", sel, other, name)
			}
		}
	}
}

func TestResolveDepsPostinstallOnlyForPrisma(t *testing.T) {
	for _, sel := range stack.All() {
		m := ResolveDeps(sel)
		got, ok := m.Scripts["postinstall"]
		switch sel.ORM {
		case stack.ORMPrisma:
			if got != "prisma generate" {
				t.Fatalf("%s: postinstall = %q", sel, got)
			}
			if m.DevDependencies["prisma"] == "" || m.Dependencies["@prisma/client"] == "" {
				t.Fatalf("%s: prisma packages missing", sel)
			}
		case stack.ORMMongoose:
			if ok {
				t.Fatalf("%s: unexpected postinstall %q", sel, got)
			}
			if m.Dependencies["mongoose"] == "" {
				t.Fatalf("%s: mongoose missing", sel)
			}
		}
	}
}

func TestResolveDepsBuildAndTestScriptsOnlyForTypeScript(t *testing.T) {
	for _, sel := range stack.All() {
		m := ResolveDeps(sel)
		for _, name := range []string{"build", "test", "test:watch", "test:coverage"} {
			got, ok := m.Scripts[name]
			if sel.Language == stack.LanguageTS && got == "" {
				t.Fatalf("%s: script %s missing", sel, name)
			}
			if sel.Language == stack.LanguageJS && ok {
				t.Fatalf("%s: script %s should be omitted, got %q", sel, name, got)
			}
		}
	}
}

func TestResolveDepsTypeScriptTestStackOnlyWithExpress(t *testing.T) {
	ts := ResolveDeps(stack.Selection{Runtime: stack.RuntimeNode, Language: stack.LanguageTS, ORM: stack.ORMMongoose, Framework: stack.FrameworkExpress})
	for _, name := range []string{"jest", "ts-jest", "mongodb-memory-server", "supertest", "@types/bcrypt"} {
		if ts.DevDependencies[name] == "" {
			t.Fatalf("express+ts missing %s", name)
		}
	}
	fastify := ResolveDeps(stack.Selection{Runtime: stack.RuntimeNode, Language: stack.LanguageTS, ORM: stack.ORMMongoose, Framework: stack.FrameworkFastify})
	if _, ok := fastify.DevDependencies["jest"]; ok {
		t.Fatalf("fastify+ts should not pull in jest")
	}
	if fastify.DevDependencies["typescript"] == "" {
		t.Fatalf("fastify+ts missing typescript")
	}
}

func TestResolveDepsDevAndStartDependOnRuntimeAndLanguage(t *testing.T) {
	want := map[stack.Runtime]map[stack.Language][2]string{
		stack.RuntimeNode: {
			stack.LanguageTS: {"tsx watch src/server.ts", "node dist/server.js"},
			stack.LanguageJS: {"nodemon src/server.js", "node src/server.js"},
		},
		stack.RuntimeBun: {
			stack.LanguageTS: {"bun run --watch src/server.ts", "bun run src/server.ts"},
			stack.LanguageJS: {"bun run --watch src/server.js", "bun run src/server.js"},
		},
	}
	for _, sel := range stack.All() {
		m := ResolveDeps(sel)
		exp := want[sel.Runtime][sel.Language]
		if m.Scripts["dev"] != exp[0] || m.Scripts["start"] != exp[1] {
			t.Fatalf("%s: dev/start = %q/%q, want %q/%q", sel, m.Scripts["dev"], m.Scripts["start"], exp[0], exp[1])
		}
	}
}

func TestLanguagePatchOverridesFrameworkScripts(t *testing.T) {
	sel := stack.Selection{Runtime: stack.RuntimeNode, Language: stack.LanguageJS, ORM: stack.ORMMongoose, Framework: stack.FrameworkExpress}
	frameworkOnly := apply(sel, []Patch{{Name: "framework", Apply: applyFramework}})
	if frameworkOnly.Scripts["dev"] != `nodemon --watch src --exec "node src/server.js"` {
		t.Fatalf("framework dev = %q", frameworkOnly.Scripts["dev"])
	}
	full := ResolveDeps(sel)
	if full.Scripts["dev"] == frameworkOnly.Scripts["dev"] {
		t.Fatalf("framework dev script survived the language patch")
	}
	if full.Scripts["dev"] != "nodemon src/server.js" {
		t.Fatalf("dev = %q, want language value", full.Scripts["dev"])
	}
}

func TestStackPatchOrder(t *testing.T) {
	var names []string
	for _, p := range StackPatches {
		names = append(names, p.Name)
	}
	want := []string{"baseline", "framework", "orm", "language", "runtime"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("patch order mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveDepsBundlerOnlyOnNode(t *testing.T) {
	for _, sel := range stack.All() {
		_, ok := ResolveDeps(sel).DevDependencies["esbuild"]
		if ok != (sel.Runtime == stack.RuntimeNode) {
			t.Fatalf("%s: esbuild present = %v", sel, ok)
		}
	}
}

func TestResolveDepsIsIdempotent(t *testing.T) {
	for _, sel := range stack.All() {
		a, err := json.Marshal(ResolveDeps(sel))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		b, err := json.Marshal(ResolveDeps(sel))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(a) != string(b) {
			t.Fatalf("%s: output differs between calls", sel)
		}
	}
}

func TestResolveDepsVersionsComeFromTable(t *testing.T) {
	m := ResolveDeps(stack.Selection{Runtime: stack.RuntimeNode, Language: stack.LanguageTS, ORM: stack.ORMPrisma, Framework: stack.FrameworkExpress})
	for _, section := range []map[string]string{m.Dependencies, m.DevDependencies} {
		for name, got := range section {
			want, ok := Version(name)
			if !ok {
				t.Fatalf("%s not in version table", name)
			}
			if got != want {
				t.Fatalf("%s = %s, want %s", name, got, want)
			}
		}
	}
}

func TestVersionTableRangesParse(t *testing.T) {
	for _, name := range PackageNames() {
		v, _ := Version(name)
		if _, err := semver.ParseRange(v); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestVersionsReturnsCopy(t *testing.T) {
	table := Versions()
	table["express"] = "0.0.0"
	if v, _ := Version("express"); v == "0.0.0" {
		t.Fatalf("Versions() must not expose the shared table")
	}
}
