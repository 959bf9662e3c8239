package scraper

import (
	"slices"
	"strings"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = map[string]Scraper{}
)

// Register makes s available under its lower-cased name.
func Register(s Scraper) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(s.Name())] = s
}

// Get returns the scraper registered under name.
func Get(name string) (Scraper, bool) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := registry[strings.ToLower(name)]
	return s, ok
}

// Names returns the registered scraper names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
