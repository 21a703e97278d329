package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/polygraph/config"
)

// Settings keys. All live in one strict store returned by Settings.
const (
	// SettingBackend forces every dispatched call through the named
	// backend's conversion contract. Empty means no forcing.
	SettingBackend = "backend"
	// SettingBackendPriority is the ordered list of backends tried when a
	// call carries no backend tag and no explicit request.
	SettingBackendPriority = "backend_priority"
	// SettingCacheConvertedGraphs controls whether converted graphs are
	// cached on the input object.
	SettingCacheConvertedGraphs = "cache_converted_graphs"
	// SettingWarnings is the set of enabled warning categories.
	SettingWarnings = "warnings"
)

// knownWarnings are the valid members of the warnings setting.
var knownWarnings = map[string]bool{"cache": true}

var (
	settingsOnce sync.Once
	settings     *config.Strict
	settingsErr  error
)

// Settings returns the process-wide dispatch settings store. On first use
// it is built with its defaults and then overlaid with the POLYGRAPH_*
// environment variables; an invalid environment value is logged and
// skipped so library callers keep working, and recorded for
// BootstrapError.
//
// Like the backend registry, the store has no internal locking: mutate it
// (directly or through config.Override) only from one goroutine at a time.
func Settings() *config.Strict {
	settingsOnce.Do(func() {
		settings = newSettingsStore()
		settingsErr = applyEnvironment(settings)
	})
	return settings
}

// BootstrapError returns the environment errors skipped while building the
// settings store, or nil. Entry points that want bad POLYGRAPH_* values to
// fail the process instead of being silently ignored check it once at
// startup.
func BootstrapError() error {
	Settings()
	return settingsErr
}

func newSettingsStore() *config.Strict {
	return config.MustStrict(
		config.Field{
			Name:     SettingBackend,
			Type:     cty.String,
			Default:  cty.StringVal(""),
			Validate: validateBackendName,
		},
		config.Field{
			Name:     SettingBackendPriority,
			Type:     cty.List(cty.String),
			Default:  cty.ListValEmpty(cty.String),
			Validate: validateBackendList,
		},
		config.Field{
			Name:    SettingCacheConvertedGraphs,
			Type:    cty.Bool,
			Default: cty.True,
		},
		config.Field{
			Name:     SettingWarnings,
			Type:     cty.Set(cty.String),
			Default:  cty.SetVal([]cty.Value{cty.StringVal("cache")}),
			Validate: validateWarnings,
		},
	)
}

func validateBackendName(v cty.Value) (cty.Value, error) {
	name := v.AsString()
	if name != "" && !Registered(name) {
		return cty.NilVal, fmt.Errorf("unknown backend %q", name)
	}
	return v, nil
}

func validateBackendList(v cty.Value) (cty.Value, error) {
	for _, ev := range v.AsValueSlice() {
		if !Registered(ev.AsString()) {
			return cty.NilVal, fmt.Errorf("unknown backend %q", ev.AsString())
		}
	}
	return v, nil
}

func validateWarnings(v cty.Value) (cty.Value, error) {
	for _, ev := range v.AsValueSlice() {
		if !knownWarnings[ev.AsString()] {
			return cty.NilVal, fmt.Errorf("unknown warning category %q", ev.AsString())
		}
	}
	return v, nil
}

func applyEnvironment(store *config.Strict) error {
	var errs []error
	setFromEnv := func(env, key string, parse func(string) (cty.Value, error)) {
		raw, ok := os.LookupEnv(env)
		if !ok || raw == "" {
			return
		}
		val, err := parse(raw)
		if err == nil {
			err = store.Set(key, val)
		}
		if err != nil {
			slog.Warn("Ignoring invalid environment setting.", "var", env, "value", raw, "error", err)
			errs = append(errs, fmt.Errorf("%s=%q: %w", env, raw, err))
			return
		}
		slog.Debug("Setting applied from environment.", "var", env, "key", key)
	}

	setFromEnv("POLYGRAPH_BACKEND", SettingBackend, func(raw string) (cty.Value, error) {
		return cty.StringVal(raw), nil
	})
	setFromEnv("POLYGRAPH_BACKEND_PRIORITY", SettingBackendPriority, func(raw string) (cty.Value, error) {
		var vals []cty.Value
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				vals = append(vals, cty.StringVal(name))
			}
		}
		if len(vals) == 0 {
			return cty.ListValEmpty(cty.String), nil
		}
		return cty.ListVal(vals), nil
	})
	setFromEnv("POLYGRAPH_CACHE_CONVERTED_GRAPHS", SettingCacheConvertedGraphs, func(raw string) (cty.Value, error) {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return cty.NilVal, err
		}
		return cty.BoolVal(b), nil
	})
	setFromEnv("POLYGRAPH_WARNINGS", SettingWarnings, func(raw string) (cty.Value, error) {
		var vals []cty.Value
		for _, cat := range strings.Split(raw, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				vals = append(vals, cty.StringVal(cat))
			}
		}
		if len(vals) == 0 {
			return cty.SetValEmpty(cty.String), nil
		}
		return cty.SetVal(vals), nil
	})
	return errors.Join(errs...)
}

// ForcedBackend returns the backend every call must be converted through,
// or "" when dispatch runs normally.
func ForcedBackend() string {
	v, _ := Settings().Get(SettingBackend)
	return v.AsString()
}

// Priority returns the configured backend priority list.
func Priority() []string {
	v, _ := Settings().Get(SettingBackendPriority)
	slice := v.AsValueSlice()
	out := make([]string, len(slice))
	for i, ev := range slice {
		out[i] = ev.AsString()
	}
	return out
}

// CacheConvertedGraphs reports whether converted graphs should be cached
// on their input object.
func CacheConvertedGraphs() bool {
	v, _ := Settings().Get(SettingCacheConvertedGraphs)
	return v.True()
}

// WarningEnabled reports whether a warning category is enabled.
func WarningEnabled(category string) bool {
	v, _ := Settings().Get(SettingWarnings)
	for _, ev := range v.AsValueSlice() {
		if ev.AsString() == category {
			return true
		}
	}
	return false
}
