package deps

import "sort"

// versions is the pinned range for every package the stack resolver can
// emit. Built once at init and only read afterwards.
var versions = map[string]string{
	"express":                   "^5.1.0",
	"fastify":                   "^5.6.2",
	"fastify-plugin":            "^5.1.0",
	"@fastify/helmet":           "^13.0.2",
	"@fastify/compress":         "^8.3.0",
	"@fastify/rate-limit":       "^10.3.0",
	"@fastify/cors":             "^11.1.0",
	"compression":               "^1.8.1",
	"cors":                      "^2.8.5",
	"express-async-errors":      "^3.1.1",
	"express-rate-limit":        "^8.2.1",
	"helmet":                    "^8.1.0",
	"hpp":                       "^0.2.3",
	"joi":                       "^18.0.1",
	"mongoose":                  "^8.19.4",
	"prisma":                    "^6.19.0",
	"@prisma/client":            "^6.19.0",
	"dotenv":                    "^16.4.5",
	"prom-client":               "^15.1.3",
	"uuid":                      "^13.0.0",
	"winston":                   "^3.18.3",
	"winston-daily-rotate-file": "^5.0.0",
	"morgan":                    "^1.10.1",
	"nodemon":                   "^3.1.11",
	"eslint":                    "^9.39.1",
	"typescript":                "^5.9.3",
	"ts-node":                   "^10.9.0",
	"tslib":                     "^2.6.0",
	"@types/node":               "^20.11.0",
	"@types/express":            "^4.17.21",
	"@types/cors":               "^2.8.17",
	"@types/hpp":                "^0.2.5",
	"@types/compression":        "^1.7.5",
	"@types/morgan":             "^1.9.9",
	"@types/mongoose":           "^5.11.97",
	"@types/joi":                "^17.2.3",
	"esbuild":                   "^0.25.12",
	"pino":                      "^9.2.0",
	"pino-pretty":               "^10.3.0",
	"tsx":                       "^4.19.0",
	"rimraf":                    "^6.0.1",
	"prettier":                  "^3.3.3",
	"eslint-config-prettier":    "^9.1.0",
	"typescript-eslint":         "^8.0.0",
	"globals":                   "^15.14.0",
	"@eslint/js":                "^9.0.0",
	"bcrypt":                    "^5.1.0",
	"jsonwebtoken":              "^9.0.0",
	"swagger-jsdoc":             "^6.2.0",
	"swagger-ui-express":        "^5.0.0",
	"jest":                      "^29.0.0",
	"ts-jest":                   "^29.0.0",
	"mongodb-memory-server":     "^10.0.0",
	"supertest":                 "^7.0.0",
	"@types/bcrypt":             "^5.0.0",
	"@types/jsonwebtoken":       "^9.0.0",
	"@types/supertest":          "^6.0.0",
}

// Version returns the pinned range for a package.
func Version(name string) (string, bool) {
	v, ok := versions[name]
	return v, ok
}

// mustVersion is used by the stack patches, which only name packages that
// are in the table. A missing entry is a programming error.
func mustVersion(name string) string {
	v, ok := versions[name]
	if !ok {
		panic("deps: no pinned version for " + name)
	}
	return v
}

// Versions returns a copy of the version table.
func Versions() map[string]string {
	out := make(map[string]string, len(versions))
	for name, v := range versions {
		out[name] = v
	}
	return out
}

// PackageNames lists the table's package names in sorted order.
func PackageNames() []string {
	names := make([]string, 0, len(versions))
	for name := range versions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
