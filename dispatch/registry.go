package dispatch

import (
	"fmt"
	"log/slog"
)

var (
	algorithms     = make(map[string]*Dispatchable)
	algorithmOrder []string
)

// addToRegistry stores a compiled wrapper under its canonical name. The
// registry has no deletion; it lives for the process lifetime.
func addToRegistry(d *Dispatchable) error {
	if _, exists := algorithms[d.name]; exists {
		return &RegistrationError{Algorithm: d.name, Err: fmt.Errorf("algorithm already exists in dispatch registry")}
	}
	slog.Debug("Registering dispatchable algorithm.", "name", d.name)
	algorithms[d.name] = d
	algorithmOrder = append(algorithmOrder, d.name)
	return nil
}

// Lookup returns the dispatch wrapper registered under name.
func Lookup(name string) (*Dispatchable, bool) {
	d, ok := algorithms[name]
	return d, ok
}

// Names returns all registered algorithm names in registration order.
func Names() []string {
	out := make([]string, len(algorithmOrder))
	copy(out, algorithmOrder)
	return out
}
