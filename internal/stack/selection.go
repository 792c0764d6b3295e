package stack

import (
	"fmt"
	"strings"
)

// DefaultProjectName is offered when the user does not type a name.
const DefaultProjectName = "my-app"

// Selection is the full set of stack choices for one scaffold run. It is a
// plain value: copy it, never mutate a shared one.
type Selection struct {
	Runtime   Runtime   `json:"runtime" yaml:"runtime"`
	Language  Language  `json:"language" yaml:"language"`
	ORM       ORM       `json:"orm" yaml:"orm"`
	Framework Framework `json:"framework" yaml:"framework"`
}

// Validate ensures every field holds a known option in its canonical
// lower-case form. The resolver compares values exactly, so "Bun" or "TS"
// are rejected here rather than silently matching nothing.
func (s Selection) Validate() error {
	canonical, err := s.Normalize()
	if err != nil {
		return err
	}
	if s != canonical {
		return fmt.Errorf("%w: selection %s is not in canonical form (want %s)", ErrInvalidChoice, s, canonical)
	}
	return nil
}

// Normalize returns the canonical form of s, or an error if any field is
// not a known option.
func (s Selection) Normalize() (Selection, error) {
	var (
		out Selection
		err error
	)
	if out.Runtime, err = ParseRuntime(string(s.Runtime)); err != nil {
		return Selection{}, err
	}
	if out.Language, err = ParseLanguage(string(s.Language)); err != nil {
		return Selection{}, err
	}
	if out.ORM, err = ParseORM(string(s.ORM)); err != nil {
		return Selection{}, err
	}
	if out.Framework, err = ParseFramework(string(s.Framework)); err != nil {
		return Selection{}, err
	}
	return out, nil
}

// String renders the selection as runtime/language/orm/framework.
func (s Selection) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", s.Runtime, s.Language, s.ORM, s.Framework)
}

// All enumerates every valid selection in a stable order.
func All() []Selection {
	var out []Selection
	for _, rt := range RuntimeOptions {
		for _, lang := range LanguageOptions {
			for _, orm := range ORMOptions {
				for _, fw := range FrameworkOptions {
					out = append(out, Selection{
						Runtime:   Runtime(rt.Value),
						Language:  Language(lang.Value),
						ORM:       ORM(orm.Value),
						Framework: Framework(fw.Value),
					})
				}
			}
		}
	}
	return out
}

// Answers is what the prompt layer (or the equivalent CLI flags) hands over.
// Runtime is not asked interactively; it comes from config or a flag.
type Answers struct {
	Language    Language
	ORM         ORM
	Framework   Framework
	ProjectName string
	Features    []string
}

// Selection combines the answers with the runtime chosen elsewhere.
func (a Answers) Selection(rt Runtime) Selection {
	return Selection{
		Runtime:   rt,
		Language:  a.Language,
		ORM:       a.ORM,
		Framework: a.Framework,
	}
}

// ValidateProjectName rejects names that cannot become a directory and a
// package.json name.
func ValidateProjectName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("stack: project name cannot be empty")
	}
	if trimmed == "." || trimmed == ".." {
		return fmt.Errorf("stack: project name %q is reserved", trimmed)
	}
	if strings.ContainsAny(trimmed, `/\:*?"<>|`) {
		return fmt.Errorf("stack: project name %q contains invalid characters", trimmed)
	}
	return nil
}
