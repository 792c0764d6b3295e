package deps

import "github.com/kingrea/backforge/internal/stack"

// Patch is one step of stack resolution. Patches write into a shared
// accumulator; a later patch overwrites keys set by an earlier one.
type Patch struct {
	Name  string
	Apply func(sel stack.Selection, m *Manifest)
}

// StackPatches is the resolution order. The order is part of the contract:
// the language patch runs after the framework patch and always rewrites the
// dev and start scripts, so those two depend only on runtime and language.
var StackPatches = []Patch{
	{Name: "baseline", Apply: applyBaseline},
	{Name: "framework", Apply: applyFramework},
	{Name: "orm", Apply: applyORM},
	{Name: "language", Apply: applyLanguage},
	{Name: "runtime", Apply: applyRuntime},
}

// ResolveDeps maps a stack selection to its manifest. It is total over the
// valid selections and does no I/O. Fields are compared exactly, so
// callers holding user input pass it through Selection.Normalize first.
func ResolveDeps(sel stack.Selection) Manifest {
	return apply(sel, StackPatches)
}

func apply(sel stack.Selection, patches []Patch) Manifest {
	m := NewManifest()
	for _, p := range patches {
		p.Apply(sel, &m)
	}
	return m
}

// BaselinePackages are emitted for every selection.
var BaselinePackages = []string{
	"dotenv",
	"prom-client",
	"uuid",
	"winston",
	"winston-daily-rotate-file",
	"bcrypt",
	"jsonwebtoken",
	"swagger-jsdoc",
	"swagger-ui-express",
}

func applyBaseline(_ stack.Selection, m *Manifest) {
	for _, name := range BaselinePackages {
		m.dep(name)
	}
}

// FrameworkPackages lists the runtime dependencies each framework adds.
var FrameworkPackages = map[stack.Framework][]string{
	stack.FrameworkExpress: {
		"express",
		"compression",
		"cors",
		"express-rate-limit",
		"helmet",
		"hpp",
		"joi",
		"morgan",
	},
	stack.FrameworkFastify: {
		"fastify",
		"@fastify/helmet",
		"@fastify/compress",
		"@fastify/rate-limit",
		"@fastify/cors",
		"fastify-plugin",
		"joi",
		"pino",
		"pino-pretty",
	},
}

func applyFramework(sel stack.Selection, m *Manifest) {
	for _, name := range FrameworkPackages[sel.Framework] {
		m.dep(name)
	}
	if sel.Runtime == stack.RuntimeBun {
		m.Scripts["start"] = "bun run src/server.js"
		m.Scripts["dev"] = "bun run src/server.js"
		return
	}
	m.Scripts["start"] = "node src/server.js"
	m.Scripts["dev"] = `nodemon --watch src --exec "node src/server.js"`
}

func applyORM(sel stack.Selection, m *Manifest) {
	switch sel.ORM {
	case stack.ORMMongoose:
		m.dep("mongoose")
	case stack.ORMPrisma:
		m.dep("@prisma/client")
		m.dev("prisma")
		m.Scripts["postinstall"] = "prisma generate"
	}
}

var typescriptToolchain = []string{
	"typescript",
	"tsx",
	"rimraf",
	"prettier",
	"eslint-config-prettier",
	"typescript-eslint",
	"globals",
	"@eslint/js",
	"tslib",
	"@types/node",
	"eslint",
}

// Only the express template ships a jest suite.
var typescriptExpressTestStack = []string{
	"@types/express",
	"@types/cors",
	"@types/hpp",
	"@types/compression",
	"@types/morgan",
	"jest",
	"ts-jest",
	"mongodb-memory-server",
	"supertest",
	"@types/bcrypt",
	"@types/jsonwebtoken",
	"@types/supertest",
}

var javascriptToolchain = []string{
	"nodemon",
	"eslint",
	"prettier",
	"eslint-config-prettier",
	"globals",
	"@eslint/js",
}

func applyLanguage(sel stack.Selection, m *Manifest) {
	if sel.Language == stack.LanguageTS {
		applyTypeScript(sel, m)
		return
	}
	for _, name := range javascriptToolchain {
		m.dev(name)
	}
	m.Scripts["format"] = `prettier --write "src/**/*.js"`
	m.Scripts["lint"] = `eslint "src/**/*.js" --fix`
	if sel.Runtime == stack.RuntimeBun {
		m.Scripts["dev"] = "bun run --watch src/server.js"
		m.Scripts["start"] = "bun run src/server.js"
		return
	}
	m.Scripts["dev"] = "nodemon src/server.js"
	m.Scripts["start"] = "node src/server.js"
}

func applyTypeScript(sel stack.Selection, m *Manifest) {
	for _, name := range typescriptToolchain {
		m.dev(name)
	}
	if sel.Framework == stack.FrameworkExpress {
		for _, name := range typescriptExpressTestStack {
			m.dev(name)
		}
	}
	m.Scripts["build"] = "rimraf dist && tsc"
	m.Scripts["format"] = `prettier --write "src/**/*.ts"`
	m.Scripts["lint"] = `eslint "src/**/*.ts" --fix`
	m.Scripts["test"] = "jest"
	m.Scripts["test:watch"] = "jest --watch"
	m.Scripts["test:coverage"] = "jest --coverage"
	if sel.Runtime == stack.RuntimeBun {
		m.Scripts["dev"] = "bun run --watch src/server.ts"
		m.Scripts["start"] = "bun run src/server.ts"
		return
	}
	m.Scripts["dev"] = "tsx watch src/server.ts"
	m.Scripts["start"] = "node dist/server.js"
}

func applyRuntime(sel stack.Selection, m *Manifest) {
	if sel.Runtime == stack.RuntimeNode {
		m.dev("esbuild")
	}
}
