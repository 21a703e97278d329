package backend

import (
	"errors"
	"fmt"
	"log/slog"
)

// UnavailableError reports that a requested backend cannot be loaded.
type UnavailableError struct {
	Backend string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("unable to load backend %q: %v", e.Backend, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Loader defers construction of a backend until a call first needs it.
type Loader func() (Backend, error)

var (
	loaders = make(map[string]Loader)
	order   []string
	loaded  = make(map[string]Backend)
)

// Register records a backend loader under name. It is the registration
// entry point every backend calls at startup, usually from init. A
// duplicate name is a programmer error and panics. The loader itself is
// not invoked here; loading stays lazy.
func Register(name string, loader Loader) {
	if _, exists := loaders[name]; exists {
		panic(fmt.Sprintf("backend with name %q already registered", name))
	}
	slog.Debug("Registering backend loader.", "name", name)
	loaders[name] = loader
	order = append(order, name)
}

// Registered reports whether a backend name is known to the registry.
func Registered(name string) bool {
	_, ok := loaders[name]
	return ok
}

// Names returns all registered backend names in registration order.
func Names() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Load resolves a backend name to its backend object, invoking the loader
// on first use and caching the result for the process lifetime. Unknown
// names and loader failures surface as an UnavailableError.
func Load(name string) (Backend, error) {
	if b, ok := loaded[name]; ok {
		return b, nil
	}
	loader, ok := loaders[name]
	if !ok {
		return nil, &UnavailableError{Backend: name, Err: errors.New("no such backend registered")}
	}
	b, err := loader()
	if err != nil {
		return nil, &UnavailableError{Backend: name, Err: err}
	}
	slog.Debug("Backend loaded.", "name", name)
	loaded[name] = b
	return b, nil
}
