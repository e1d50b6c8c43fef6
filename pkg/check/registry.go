package check

import (
	"sort"
	"sync"
)

// globalRegistry is the single registry of executable check types.
var globalRegistry = &registry{
	checks: make(map[string]Check),
}

type registry struct {
	mu     sync.RWMutex
	checks map[string]Check // keyed by Name()
}

// Register adds a check to the global registry.
// Call this from init() functions in check packages.
func Register(c Check) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.checks[c.Name()] = c
}

// Get returns a check by its type tag.
func Get(name string) (Check, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	c, ok := globalRegistry.checks[name]
	return c, ok
}

// All returns every registered check, sorted by name for stable listings.
func All() []Check {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	checks := make([]Check, 0, len(globalRegistry.checks))
	for _, c := range globalRegistry.checks {
		checks = append(checks, c)
	}
	sort.Slice(checks, func(i, j int) bool {
		return checks[i].Name() < checks[j].Name()
	})
	return checks
}

// CategoryOf returns the registered category for a check type, or
// "custom" for types the registry does not know.
func CategoryOf(name string) string {
	if c, ok := Get(name); ok {
		return c.Category()
	}
	return "custom"
}

// Count returns the number of registered checks.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.checks)
}
