package config

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// ErrUnknownKey reports a read, write, or delete of a key the store does
// not know about.
var ErrUnknownKey = errors.New("unknown config key")

// ValidationError reports an invalid config key or value.
type ValidationError struct {
	Key string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: key %q: %v", e.Key, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validator checks a proposed value and returns the sanitized value to
// store, or an error rejecting the write.
type Validator func(v cty.Value) (cty.Value, error)

// Field declares one entry of a Strict store's schema.
type Field struct {
	Name     string
	Type     cty.Type
	Default  cty.Value
	Validate Validator
}

// Store is the shared contract of the Strict and Open config flavors.
type Store interface {
	// Get returns the stored value for key. Strict stores fail with a
	// ValidationError wrapping ErrUnknownKey for undeclared keys; Open
	// stores return their fallback value instead.
	Get(key string) (cty.Value, error)
	// Set validates v and stores it under key.
	Set(key string, v cty.Value) error
	// Delete removes key. Strict stores always reject deletion.
	Delete(key string) error
	// Has reports whether key is present.
	Has(key string) bool
	// Keys returns all keys in declaration (Strict) or insertion (Open) order.
	Keys() []string
	// Export returns a copy of the current contents as a plain map.
	Export() map[string]cty.Value
	// Equal reports structural equality: same store flavor, same contents.
	Equal(other Store) bool
}

// state is a full snapshot of a store's contents, used by scoped overrides.
type state struct {
	keys   []string
	values map[string]cty.Value
}

// scoped is the store side of the override machinery. Both flavors
// implement it; the snapshot stack is owned by the store instance.
type scoped interface {
	Store
	checkSet(key string, v cty.Value) (cty.Value, error)
	applyChecked(key string, v cty.Value)
	captureState() state
	restoreState(st state)
	pushState(st state)
	popState() (state, bool)
}

func cloneValues(values map[string]cty.Value) map[string]cty.Value {
	out := make(map[string]cty.Value, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

func exportEqual(a, b map[string]cty.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !av.RawEquals(bv) {
			return false
		}
	}
	return true
}
