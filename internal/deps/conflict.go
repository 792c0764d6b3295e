package deps

import (
	"fmt"

	"github.com/kingrea/backforge/internal/semver"
)

// Conflict records a package that two sources pinned to different ranges
// and the range that was kept.
type Conflict struct {
	Package        string `json:"package" yaml:"package"`
	Section        string `json:"section" yaml:"section"`
	Existing       string `json:"existing" yaml:"existing"`
	ExistingSource string `json:"existingSource" yaml:"existingSource"`
	Incoming       string `json:"incoming" yaml:"incoming"`
	IncomingSource string `json:"incomingSource" yaml:"incomingSource"`
	Chosen         string `json:"chosen" yaml:"chosen"`
}

func (c Conflict) String() string {
	if c.Section == SectionScripts {
		return fmt.Sprintf("script %s: %s runs %q, %s runs %q; using %q",
			c.Package, c.ExistingSource, c.Existing, c.IncomingSource, c.Incoming, c.Chosen)
	}
	return fmt.Sprintf("%s: %s wants %s, %s wants %s; using %s",
		c.Package, c.ExistingSource, c.Existing, c.IncomingSource, c.Incoming, c.Chosen)
}

// Manifest section names, as they appear in package.json and in
// Conflict.Section.
const (
	SectionDependencies    = "dependencies"
	SectionDevDependencies = "devDependencies"
	SectionScripts         = "scripts"
)

// ledger writes into the sections of a manifest and remembers who wrote
// each key, per section.
type ledger struct {
	deps    map[string]string
	dev     map[string]string
	scripts map[string]string
	sources map[string]map[string]string
}

func newLedger(deps, dev, scripts map[string]string) *ledger {
	return &ledger{
		deps:    deps,
		dev:     dev,
		scripts: scripts,
		sources: map[string]map[string]string{
			SectionDependencies:    {},
			SectionDevDependencies: {},
			SectionScripts:         {},
		},
	}
}

// own marks every key already present as written by source.
func (l *ledger) own(source string) {
	for name := range l.deps {
		l.sources[SectionDependencies][name] = source
	}
	for name := range l.dev {
		l.sources[SectionDevDependencies][name] = source
	}
	for name := range l.scripts {
		l.sources[SectionScripts][name] = source
	}
}

// claimPackage writes name=rng. A package lives in one section only: if it
// is already listed in either section it stays there and the ranges are
// reconciled in place. Identical ranges collapse silently. Differing
// ranges keep the one with the higher floor; if either range does not
// parse, the incoming write wins. Differing ranges are always reported.
func (l *ledger) claimPackage(section, name, rng, source string) *Conflict {
	if _, ok := l.deps[name]; ok {
		section = SectionDependencies
	} else if _, ok := l.dev[name]; ok {
		section = SectionDevDependencies
	}
	target := l.deps
	if section == SectionDevDependencies {
		target = l.dev
	}
	sources := l.sources[section]
	existing, ok := target[name]
	if !ok {
		target[name] = rng
		sources[name] = source
		return nil
	}
	if existing == rng {
		return nil
	}
	c := &Conflict{
		Package:        name,
		Section:        section,
		Existing:       existing,
		ExistingSource: sources[name],
		Incoming:       rng,
		IncomingSource: source,
		Chosen:         pickRange(existing, rng),
	}
	target[name] = c.Chosen
	if c.Chosen == rng {
		sources[name] = source
	}
	return c
}

// claimScript writes a script unless one with that name exists. The first
// writer keeps it; a different command is reported.
func (l *ledger) claimScript(name, cmd, source string) *Conflict {
	existing, ok := l.scripts[name]
	if !ok {
		l.scripts[name] = cmd
		l.sources[SectionScripts][name] = source
		return nil
	}
	if existing == cmd {
		return nil
	}
	return &Conflict{
		Package:        name,
		Section:        SectionScripts,
		Existing:       existing,
		ExistingSource: l.sources[SectionScripts][name],
		Incoming:       cmd,
		IncomingSource: source,
		Chosen:         existing,
	}
}

// claimAll claims every package and script of one contributor in a fixed
// order: dependencies, devDependencies, then scripts, each by sorted key.
func (l *ledger) claimAll(deps, dev, scripts map[string]string, sourceOf func(section, name string) string) []Conflict {
	var conflicts []Conflict
	for _, name := range SortedKeys(deps) {
		if c := l.claimPackage(SectionDependencies, name, deps[name], sourceOf(SectionDependencies, name)); c != nil {
			conflicts = append(conflicts, *c)
		}
	}
	for _, name := range SortedKeys(dev) {
		if c := l.claimPackage(SectionDevDependencies, name, dev[name], sourceOf(SectionDevDependencies, name)); c != nil {
			conflicts = append(conflicts, *c)
		}
	}
	for _, name := range SortedKeys(scripts) {
		if c := l.claimScript(name, scripts[name], sourceOf(SectionScripts, name)); c != nil {
			conflicts = append(conflicts, *c)
		}
	}
	return conflicts
}

func pickRange(existing, incoming string) string {
	a, errA := semver.ParseRange(existing)
	b, errB := semver.ParseRange(incoming)
	if errA != nil || errB != nil {
		return incoming
	}
	if semver.CompareRanges(b, a) > 0 {
		return incoming
	}
	return existing
}

// Merge layers a feature result over a stack manifest. The stack's own
// entries are claimed first under the source "stack": a feature pinning an
// older range of a stack package loses, a feature listing a stack package
// in the other section is folded into the stack's section, and stack
// scripts are never replaced. Every clash is reported.
func Merge(base Manifest, features FeatureResult) (Manifest, []Conflict) {
	out := base.Clone()
	l := newLedger(out.Dependencies, out.DevDependencies, out.Scripts)
	l.own("stack")
	conflicts := l.claimAll(features.Dependencies, features.DevDependencies, features.Scripts, features.source)
	return out, conflicts
}

func (r FeatureResult) source(section, name string) string {
	if src, ok := r.sources[section][name]; ok {
		return src
	}
	return "features"
}
