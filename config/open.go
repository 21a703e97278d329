package config

import (
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// OpenOptions tunes an Open store. All fields are optional.
type OpenOptions struct {
	// Fallback is returned by Get for keys that are not present.
	Fallback cty.Value
	// Validate runs on every write, before the value is stored.
	Validate func(key string, v cty.Value) (cty.Value, error)
	// OnDelete runs before a key is removed and may veto the deletion.
	OnDelete func(key string) error
}

// Open is a config store with a free schema: keys may be added and removed
// at any time. Get of an absent key returns the fallback value rather than
// an error.
type Open struct {
	opts   OpenOptions
	keys   []string
	values map[string]cty.Value
	scopes []state
}

// NewOpen builds an empty Open store.
func NewOpen(opts OpenOptions) *Open {
	return &Open{
		opts:   opts,
		values: make(map[string]cty.Value),
	}
}

func (o *Open) Get(key string) (cty.Value, error) {
	if v, ok := o.values[key]; ok {
		return v, nil
	}
	return o.opts.Fallback, nil
}

func (o *Open) Set(key string, v cty.Value) error {
	checked, err := o.checkSet(key, v)
	if err != nil {
		return err
	}
	o.applyChecked(key, checked)
	return nil
}

func (o *Open) Delete(key string) error {
	if _, ok := o.values[key]; !ok {
		return &ValidationError{Key: key, Err: ErrUnknownKey}
	}
	if o.opts.OnDelete != nil {
		if err := o.opts.OnDelete(key); err != nil {
			return &ValidationError{Key: key, Err: err}
		}
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return nil
}

func (o *Open) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

func (o *Open) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

func (o *Open) Export() map[string]cty.Value {
	return cloneValues(o.values)
}

func (o *Open) Equal(other Store) bool {
	oo, ok := other.(*Open)
	if !ok {
		return false
	}
	return exportEqual(o.values, oo.values)
}

// Reconstruct builds a new store with the same hooks, populated from an
// exported value map. Keys are inserted in sorted order so the result is
// deterministic.
func (o *Open) Reconstruct(values map[string]cty.Value) (*Open, error) {
	n := NewOpen(o.opts)
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := n.Set(key, values[key]); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (o *Open) checkSet(key string, v cty.Value) (cty.Value, error) {
	if o.opts.Validate != nil {
		checked, err := o.opts.Validate(key, v)
		if err != nil {
			return cty.NilVal, &ValidationError{Key: key, Err: err}
		}
		return checked, nil
	}
	return v, nil
}

func (o *Open) applyChecked(key string, v cty.Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *Open) captureState() state {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return state{keys: keys, values: cloneValues(o.values)}
}

func (o *Open) restoreState(st state) {
	o.keys = make([]string, len(st.keys))
	copy(o.keys, st.keys)
	o.values = cloneValues(st.values)
}

func (o *Open) pushState(st state) {
	o.scopes = append(o.scopes, st)
}

func (o *Open) popState() (state, bool) {
	if len(o.scopes) == 0 {
		return state{}, false
	}
	st := o.scopes[len(o.scopes)-1]
	o.scopes = o.scopes[:len(o.scopes)-1]
	return st, true
}
