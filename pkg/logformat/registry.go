package logformat

import (
	"fmt"
	"sort"
	"sync"
)

// registry holds the named formats available to a run.
type registry struct {
	mu      sync.RWMutex
	formats map[string]*Format
}

var defaultRegistry = &registry{formats: make(map[string]*Format)}

// Register compiles a format and adds it to the registry, replacing any
// format with the same name. Built-ins register themselves at init time.
func Register(f *Format) error {
	if err := f.Compile(); err != nil {
		return err
	}
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.formats[f.Name] = f
	return nil
}

func mustRegister(f *Format) {
	if err := Register(f); err != nil {
		panic("logformat: built-in format " + f.Name + ": " + err.Error())
	}
}

// Get returns the named format.
func Get(name string) (*Format, error) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	f, ok := defaultRegistry.formats[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	return f, nil
}

// Names returns the registered format names in lexical order.
func Names() []string {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	names := make([]string, 0, len(defaultRegistry.formats))
	for name := range defaultRegistry.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
