// Package pairing implements the strategies that turn queued match
// requests into pairings. Strategies register themselves by name; the
// scheduler looks its configured strategy up at startup.
package pairing

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor builds a strategy from shared options.
type Constructor func(opts Options) Pairer

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Constructor)
)

// Register makes a strategy constructor available under name.
// It panics on a duplicate name, which is a programming error.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("pairing: strategy %q registered twice", name))
	}
	registry[name] = ctor
}

// New builds the named strategy or errors if it is unknown.
func New(name string, opts Options) (Pairer, error) {
	registryMu.RLock()
	ctor, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("pairing: unknown strategy %q (have %v)", name, Strategies())
	}
	return ctor(opts), nil
}

// Strategies lists the registered strategy names, sorted.
func Strategies() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
