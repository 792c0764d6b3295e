package deps

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kingrea/backforge/internal/stack"
)

// Feature is an optional bundle of packages and scripts a user can add on
// top of the stack.
type Feature struct {
	ID              string            `json:"id" yaml:"id"`
	Label           string            `json:"label" yaml:"label"`
	Hint            string            `json:"hint,omitempty" yaml:"hint,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty" yaml:"devDependencies,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty" yaml:"scripts,omitempty"`
}

// Validate ensures the feature is well-formed.
func (f Feature) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("deps: feature id is required")
	}
	if strings.TrimSpace(f.Label) == "" {
		return fmt.Errorf("deps: feature label is required for %s", f.ID)
	}
	if len(f.Dependencies)+len(f.DevDependencies)+len(f.Scripts) == 0 {
		return fmt.Errorf("deps: feature %s contributes nothing", f.ID)
	}
	return nil
}

// FeatureRegistry maintains the known features in registration order.
type FeatureRegistry struct {
	mu       sync.RWMutex
	features map[string]Feature
	order    []string
}

// NewFeatureRegistry returns an empty registry.
func NewFeatureRegistry() *FeatureRegistry {
	return &FeatureRegistry{features: map[string]Feature{}}
}

// Register installs a feature. Returns an error if the ID already exists.
func (r *FeatureRegistry) Register(f Feature) error {
	if err := f.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.features[f.ID]; exists {
		return fmt.Errorf("deps: feature %s already registered", f.ID)
	}
	r.features[f.ID] = f
	r.order = append(r.order, f.ID)
	return nil
}

// MustRegister panics if registration fails.
func (r *FeatureRegistry) MustRegister(f Feature) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// Lookup returns the feature registered under id.
func (r *FeatureRegistry) Lookup(id string) (Feature, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.features[id]
	return f, ok
}

// Features returns every feature in registration order.
func (r *FeatureRegistry) Features() []Feature {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Feature, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.features[id])
	}
	return out
}

// IDs returns a sorted list of registered feature identifiers.
func (r *FeatureRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := append([]string{}, r.order...)
	sort.Strings(ids)
	return ids
}

// FeatureSet is an unordered set of feature identifiers.
type FeatureSet map[string]struct{}

// NewFeatureSet builds a set, trimming blanks and collapsing duplicates.
func NewFeatureSet(ids ...string) FeatureSet {
	set := make(FeatureSet, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is in the set.
func (s FeatureSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in sorted order.
func (s FeatureSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// FeatureResult is the partial manifest contributed by a feature set.
type FeatureResult struct {
	Dependencies    map[string]string `json:"dependencies" yaml:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies" yaml:"devDependencies"`
	Scripts         map[string]string `json:"scripts" yaml:"scripts"`
	// Conflicts lists packages two features pinned differently.
	Conflicts []Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	// Unknown lists requested IDs that matched no feature. They are otherwise
	// ignored.
	Unknown []string `json:"unknown,omitempty" yaml:"unknown,omitempty"`

	sources map[string]map[string]string
}

// Resolve collects the bundles of every requested feature, walking the
// registry in registration order. Package and script clashes between
// features follow the same rules as Merge, with the earlier feature in
// the role of the stack. The language is accepted for callers
// that will need it; no bundle varies by language today.
func (r *FeatureRegistry) Resolve(features FeatureSet, _ stack.Language) FeatureResult {
	res := FeatureResult{
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
		Scripts:         map[string]string{},
	}
	l := newLedger(res.Dependencies, res.DevDependencies, res.Scripts)
	for _, f := range r.Features() {
		if !features.Has(f.ID) {
			continue
		}
		id := f.ID
		res.Conflicts = append(res.Conflicts,
			l.claimAll(f.Dependencies, f.DevDependencies, f.Scripts, func(string, string) string { return id })...)
	}
	res.sources = l.sources
	for _, id := range features.Sorted() {
		if _, ok := r.Lookup(id); !ok {
			res.Unknown = append(res.Unknown, id)
		}
	}
	return res
}

// ResolveFeatureDeps resolves features against the built-in catalog.
func ResolveFeatureDeps(features FeatureSet, lang stack.Language) FeatureResult {
	return DefaultFeatures.Resolve(features, lang)
}
