// internal/stack/stack.go
//
// The enumerated stack choices a generated project is built from. Every
// other package speaks in these types; raw strings only appear at the
// CLI/config/prompt boundary and are parsed here.

package stack

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidChoice is returned when a raw value does not name a known option.
var ErrInvalidChoice = errors.New("stack: invalid choice")

// Runtime selects the JavaScript runtime the project is started with.
type Runtime string

const (
	RuntimeNode Runtime = "nodejs"
	RuntimeBun  Runtime = "bun"
)

// Language selects typed (TypeScript) or untyped (JavaScript) sources.
type Language string

const (
	LanguageTS Language = "ts"
	LanguageJS Language = "js"
)

// ORM selects the persistence client.
type ORM string

const (
	ORMMongoose ORM = "mongoose"
	ORMPrisma   ORM = "prisma"
)

// Framework selects the HTTP framework.
type Framework string

const (
	FrameworkExpress Framework = "express"
	FrameworkFastify Framework = "fastify"
)

// Option pairs a raw value with the label shown in prompts.
type Option struct {
	Value string
	Label string
}

// Prompt order matches what the wizard asks.
var (
	RuntimeOptions = []Option{
		{Value: string(RuntimeNode), Label: "Node.js"},
		{Value: string(RuntimeBun), Label: "Bun"},
	}
	LanguageOptions = []Option{
		{Value: string(LanguageTS), Label: "TypeScript"},
		{Value: string(LanguageJS), Label: "JavaScript"},
	}
	ORMOptions = []Option{
		{Value: string(ORMMongoose), Label: "Mongoose"},
		{Value: string(ORMPrisma), Label: "Prisma"},
	}
	FrameworkOptions = []Option{
		{Value: string(FrameworkExpress), Label: "Express"},
		{Value: string(FrameworkFastify), Label: "Fastify"},
	}
)

// ParseRuntime normalizes and validates a runtime value.
func ParseRuntime(raw string) (Runtime, error) {
	v, err := parse("runtime", raw, RuntimeOptions)
	return Runtime(v), err
}

// ParseLanguage normalizes and validates a language value.
func ParseLanguage(raw string) (Language, error) {
	v, err := parse("language", raw, LanguageOptions)
	return Language(v), err
}

// ParseORM normalizes and validates an ORM value.
func ParseORM(raw string) (ORM, error) {
	v, err := parse("orm", raw, ORMOptions)
	return ORM(v), err
}

// ParseFramework normalizes and validates a framework value.
func ParseFramework(raw string) (Framework, error) {
	v, err := parse("framework", raw, FrameworkOptions)
	return Framework(v), err
}

func parse(field, raw string, options []Option) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	for _, opt := range options {
		if opt.Value == value {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: %s %q (expected %s)", ErrInvalidChoice, field, raw, joinValues(options))
}

func joinValues(options []Option) string {
	values := make([]string, 0, len(options))
	for _, opt := range options {
		values = append(values, opt.Value)
	}
	return strings.Join(values, "|")
}

// Label returns the display label for a raw value, or the value itself.
func Label(options []Option, value string) string {
	for _, opt := range options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}
