package deps

import "sort"

// Manifest is the dependency and script description merged into a
// generated package.json.
type Manifest struct {
	Dependencies     map[string]string `json:"dependencies" yaml:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies" yaml:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies" yaml:"peerDependencies"`
	Scripts          map[string]string `json:"scripts" yaml:"scripts"`
}

// NewManifest returns a manifest with every mapping allocated.
func NewManifest() Manifest {
	return Manifest{
		Dependencies:     map[string]string{},
		DevDependencies:  map[string]string{},
		PeerDependencies: map[string]string{},
		Scripts:          map[string]string{},
	}
}

// Clone returns a deep copy.
func (m Manifest) Clone() Manifest {
	return Manifest{
		Dependencies:     cloneStringMap(m.Dependencies),
		DevDependencies:  cloneStringMap(m.DevDependencies),
		PeerDependencies: cloneStringMap(m.PeerDependencies),
		Scripts:          cloneStringMap(m.Scripts),
	}
}

// PackageCount is the number of runtime plus dev dependencies.
func (m Manifest) PackageCount() int {
	return len(m.Dependencies) + len(m.DevDependencies)
}

func (m *Manifest) dep(name string) {
	m.Dependencies[name] = mustVersion(name)
}

func (m *Manifest) dev(name string) {
	m.DevDependencies[name] = mustVersion(name)
}

func cloneStringMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// SortedKeys returns the keys of a mapping in sorted order.
func SortedKeys(in map[string]string) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
