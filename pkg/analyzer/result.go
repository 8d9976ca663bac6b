package analyzer

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Update kinds, compatible with config.GetSeverityForUpdate
const (
	KindMajor   = "major"
	KindMinor   = "minor"
	KindPatch   = "patch"
	KindUnknown = "unknown"
)

// DependencyUpdate is one outdated dependency. Key and Value are already
// wrapped in backticks for chat rendering.
type DependencyUpdate struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Name is the dependency identity without delimiters, e.g. junit:junit.
func (u DependencyUpdate) Name() string {
	return unwrap(u.Key)
}

// Current is the version in use.
func (u DependencyUpdate) Current() string {
	current, _, _ := strings.Cut(unwrap(u.Value), ArrowMarker)
	return strings.TrimSpace(current)
}

// Available is the newer version the plugin reported.
func (u DependencyUpdate) Available() string {
	_, available, found := strings.Cut(unwrap(u.Value), ArrowMarker)
	if !found {
		return ""
	}
	return strings.TrimSpace(available)
}

// Kind classifies the update as major, minor or patch when both versions
// parse as semver, and unknown otherwise.
func (u DependencyUpdate) Kind() string {
	current, err := semver.NewVersion(u.Current())
	if err != nil {
		return KindUnknown
	}
	available, err := semver.NewVersion(u.Available())
	if err != nil {
		return KindUnknown
	}

	switch {
	case !current.LessThan(available):
		return KindUnknown
	case current.Major() < available.Major():
		return KindMajor
	case current.Minor() < available.Minor():
		return KindMinor
	case current.Patch() < available.Patch():
		return KindPatch
	default:
		// only the prerelease part moved
		return KindPatch
	}
}

// ScanResult maps dependency identity to its update, in the order the
// identities first appeared. A repeated identity keeps its position and
// takes the later value.
type ScanResult struct {
	keys   []string
	values map[string]DependencyUpdate
}

// NewScanResult returns an empty result.
func NewScanResult() *ScanResult {
	return &ScanResult{values: make(map[string]DependencyUpdate)}
}

func (r *ScanResult) put(u DependencyUpdate) {
	if _, ok := r.values[u.Key]; !ok {
		r.keys = append(r.keys, u.Key)
	}
	r.values[u.Key] = u
}

// Len returns the number of distinct dependencies.
func (r *ScanResult) Len() int {
	return len(r.keys)
}

// Keys returns the wrapped identities in order.
func (r *ScanResult) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Get looks up an update by its wrapped identity.
func (r *ScanResult) Get(key string) (DependencyUpdate, bool) {
	u, ok := r.values[key]
	return u, ok
}

// Updates returns the updates in order.
func (r *ScanResult) Updates() []DependencyUpdate {
	out := make([]DependencyUpdate, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.values[k])
	}
	return out
}

// Without returns a copy of the result minus the dependencies for which
// skip returns true.
func (r *ScanResult) Without(skip func(DependencyUpdate) bool) *ScanResult {
	filtered := NewScanResult()
	for _, u := range r.Updates() {
		if !skip(u) {
			filtered.put(u)
		}
	}
	return filtered
}
