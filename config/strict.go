package config

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Strict is a config store with a fixed schema. Every key must be declared
// as a Field up front; reads, writes, and deletes of undeclared keys fail.
type Strict struct {
	fields []Field
	index  map[string]int
	values map[string]cty.Value
	scopes []state
}

// NewStrict builds a Strict store from the declared fields, populating each
// key with its default value. Defaults are converted to the field type but
// deliberately bypass the field validator, so a schema may declare an
// "unset" default (such as an empty string) that the validator would reject.
func NewStrict(fields ...Field) (*Strict, error) {
	if len(fields) == 0 {
		return nil, errors.New("config: strict store needs at least one field")
	}
	s := &Strict{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
		values: make(map[string]cty.Value, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.New("config: field with empty name")
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("config: field %q declared twice", f.Name)
		}
		def, err := convert.Convert(f.Default, f.Type)
		if err != nil {
			return nil, &ValidationError{Key: f.Name, Err: fmt.Errorf("default: %w", err)}
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
		s.values[f.Name] = def
	}
	return s, nil
}

// MustStrict is like NewStrict but panics on a bad schema. Intended for
// package-level store declarations.
func MustStrict(fields ...Field) *Strict {
	s, err := NewStrict(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Strict) Get(key string) (cty.Value, error) {
	if _, ok := s.index[key]; !ok {
		return cty.NilVal, &ValidationError{Key: key, Err: ErrUnknownKey}
	}
	return s.values[key], nil
}

func (s *Strict) Set(key string, v cty.Value) error {
	checked, err := s.checkSet(key, v)
	if err != nil {
		return err
	}
	s.values[key] = checked
	return nil
}

func (s *Strict) Delete(key string) error {
	return &ValidationError{Key: key, Err: errors.New("strict config keys can't be deleted")}
}

func (s *Strict) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

func (s *Strict) Keys() []string {
	keys := make([]string, len(s.fields))
	for i, f := range s.fields {
		keys[i] = f.Name
	}
	return keys
}

func (s *Strict) Export() map[string]cty.Value {
	return cloneValues(s.values)
}

func (s *Strict) Equal(other Store) bool {
	o, ok := other.(*Strict)
	if !ok {
		return false
	}
	return exportEqual(s.values, o.values)
}

// Reconstruct builds a new store with the same schema, populated from an
// exported value map. Reconstruct(s.Export()) equals s.
func (s *Strict) Reconstruct(values map[string]cty.Value) (*Strict, error) {
	n, err := NewStrict(s.fields...)
	if err != nil {
		return nil, err
	}
	for key, v := range values {
		if err := n.Set(key, v); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (s *Strict) checkSet(key string, v cty.Value) (cty.Value, error) {
	i, ok := s.index[key]
	if !ok {
		return cty.NilVal, &ValidationError{Key: key, Err: ErrUnknownKey}
	}
	f := s.fields[i]
	converted, err := convert.Convert(v, f.Type)
	if err != nil {
		return cty.NilVal, &ValidationError{Key: key, Err: err}
	}
	if f.Validate != nil {
		converted, err = f.Validate(converted)
		if err != nil {
			return cty.NilVal, &ValidationError{Key: key, Err: err}
		}
	}
	return converted, nil
}

func (s *Strict) applyChecked(key string, v cty.Value) {
	s.values[key] = v
}

func (s *Strict) captureState() state {
	return state{values: cloneValues(s.values)}
}

func (s *Strict) restoreState(st state) {
	s.values = cloneValues(st.values)
}

func (s *Strict) pushState(st state) {
	s.scopes = append(s.scopes, st)
}

func (s *Strict) popState() (state, bool) {
	if len(s.scopes) == 0 {
		return state{}, false
	}
	st := s.scopes[len(s.scopes)-1]
	s.scopes = s.scopes[:len(s.scopes)-1]
	return st, true
}
