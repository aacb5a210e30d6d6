// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package hibernate

import (
	"fmt"
	"sort"
	"sync"
)

// StoreConfig carries the settings a StoreFactory may need.
type StoreConfig struct {
	// Dir is the spool directory for stores that write files.
	Dir string
}

// StoreFactory creates a Store from configuration.
type StoreFactory func(cfg StoreConfig) (Store, error)

// Registry maps store names to factories.
//
// The built-in stores register themselves as "memory" and "disk":
//
//	store, err := hibernate.Open("disk", hibernate.StoreConfig{Dir: spool})
type Registry struct {
	mu      sync.RWMutex
	entries map[string]StoreFactory
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and Open.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]StoreFactory)}
}

var globalRegistry = NewRegistry()

func init() {
	Register("memory", func(StoreConfig) (Store, error) {
		return NewMemoryStore(), nil
	})
	Register("disk", func(cfg StoreConfig) (Store, error) {
		if cfg.Dir == "" {
			return nil, fmt.Errorf("hibernate: disk store needs a directory")
		}
		return NewDiskStore(cfg.Dir)
	})
}

// Register adds a store to the global registry. Registering a name that
// already exists replaces the previous entry.
func Register(name string, f StoreFactory) {
	globalRegistry.Register(name, f)
}

// Open creates a store from the global registry.
func Open(name string, cfg StoreConfig) (Store, error) {
	return globalRegistry.Open(name, cfg)
}

// Names returns the registered store names in sorted order.
func Names() []string {
	return globalRegistry.Names()
}

// Register adds a store to this registry.
func (r *Registry) Register(name string, f StoreFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[string]StoreFactory)
	}
	r.entries[name] = f
}

// Open creates a store by name.
func (r *Registry) Open(name string, cfg StoreConfig) (Store, error) {
	r.mu.RLock()
	f, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("hibernate: unknown store %q (have %v)", name, r.Names())
	}
	return f(cfg)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
