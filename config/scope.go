package config

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Scope is a handle to one active scoped override. End restores the store
// to the exact state captured when the override was applied.
type Scope struct {
	store scoped
	ended bool
}

// Override applies a set of changes to the store as a scoped override.
// All changes are validated before any is applied; on success the store's
// entire prior state is snapshotted and pushed on the store's scope stack.
// The returned Scope must be ended, typically with defer, to roll the
// store back. Nested overrides restore in last-in-first-out order.
func Override(s Store, changes map[string]cty.Value) (*Scope, error) {
	sc, ok := s.(scoped)
	if !ok {
		return nil, fmt.Errorf("config: store %T does not support scoped overrides", s)
	}
	keys := make([]string, 0, len(changes))
	for key := range changes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	checked := make(map[string]cty.Value, len(changes))
	for _, key := range keys {
		v, err := sc.checkSet(key, changes[key])
		if err != nil {
			return nil, err
		}
		checked[key] = v
	}

	sc.pushState(sc.captureState())
	for _, key := range keys {
		sc.applyChecked(key, checked[key])
	}
	return &Scope{store: sc}, nil
}

// End pops the snapshot taken by Override and reapplies it verbatim.
// Ending a scope twice, or a scope whose store has nothing on its stack,
// is a no-op. End runs on error paths too when deferred, so a panic inside
// the overridden region still restores the store.
func (sc *Scope) End() {
	if sc == nil || sc.ended {
		return
	}
	sc.ended = true
	st, ok := sc.store.popState()
	if !ok {
		return
	}
	sc.store.restoreState(st)
}
