// Package condition defines the test conditions evaluated against the
// state left by a checkout. The rest of the system treats a condition as
// an opaque capability; only this package knows what a spec means.
package condition

import (
	gocontext "context"
	"fmt"
	"sort"
	"sync"
)

// Condition classifies the current state as pass or fail.
type Condition interface {
	// Describe returns a short human-readable label for logs and reports.
	Describe() string

	// Evaluate reports whether the condition currently holds. It must be
	// safe to call repeatedly against the same checked-out state. A
	// returned error means the condition could not be decided at all.
	Evaluate(ctx gocontext.Context) (passed bool, detail string, err error)
}

// ProbeFunc checks a single named feature.
type ProbeFunc func(ctx gocontext.Context) (passed bool, detail string, err error)

var (
	probesMu sync.RWMutex
	probes   = map[string]ProbeFunc{}
)

// RegisterProbe adds a named feature probe. Later registrations replace
// earlier ones.
func RegisterProbe(name string, fn ProbeFunc) {
	probesMu.Lock()
	defer probesMu.Unlock()
	probes[name] = fn
}

// ProbeNames returns the registered probe names, sorted.
func ProbeNames() []string {
	probesMu.RLock()
	defer probesMu.RUnlock()

	names := make([]string, 0, len(probes))
	for name := range probes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FeatureCheck evaluates a named feature probe from the registry.
type FeatureCheck struct {
	Name string
}

// NewFeatureCheck creates a condition for a named feature.
func NewFeatureCheck(name string) *FeatureCheck {
	return &FeatureCheck{Name: name}
}

// Describe implements Condition.
func (f *FeatureCheck) Describe() string {
	return fmt.Sprintf("feature %q", f.Name)
}

// Evaluate implements Condition.
func (f *FeatureCheck) Evaluate(ctx gocontext.Context) (bool, string, error) {
	probesMu.RLock()
	fn := probes[f.Name]
	probesMu.RUnlock()

	if fn == nil {
		return false, "", fmt.Errorf("unknown feature probe: %q (known: %v)", f.Name, ProbeNames())
	}
	return fn(ctx)
}
