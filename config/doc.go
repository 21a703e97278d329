// Package config implements the typed key/value stores that control the
// dispatch layer.
//
// Two store flavors share one interface: Strict has a fixed, cty-typed
// schema declared at construction and rejects unknown keys, while Open
// accepts arbitrary keys. Both support validator hooks on write, ordered
// key iteration, deterministic export/reconstruction, and rollback-safe
// scoped overrides via Override and Scope.End.
//
// Stores are not safe for concurrent mutation. Populate them during
// initialization; concurrent reads are fine once no writer is active.
package config
