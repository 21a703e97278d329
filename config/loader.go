package config

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/polygraph/internal/ctxlog"
)

var settingsFileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "settings"}},
}

// LoadFile parses an HCL settings file and applies every attribute of its
// `settings` blocks to the store, in source order. Values must be literal
// expressions; the store's own validation decides whether they are
// acceptable.
func LoadFile(ctx context.Context, store Store, path string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading settings file.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse settings file %s: %w", path, diags)
	}

	content, diags := file.Body.Content(settingsFileSchema)
	if diags.HasErrors() {
		return fmt.Errorf("invalid settings file %s: %w", path, diags)
	}

	for _, block := range content.Blocks {
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return fmt.Errorf("invalid settings block in %s: %w", path, diags)
		}
		names := make([]string, 0, len(attrs))
		for name := range attrs {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			return attrs[names[i]].Range.Start.Byte < attrs[names[j]].Range.Start.Byte
		})
		for _, name := range names {
			val, diags := attrs[name].Expr.Value(nil)
			if diags.HasErrors() {
				return fmt.Errorf("invalid value for setting %q in %s: %w", name, path, diags)
			}
			if err := store.Set(name, val); err != nil {
				return err
			}
			logger.Debug("Applied setting from file.", "key", name)
		}
	}
	return nil
}

// LoadFileIfExists is LoadFile, except a missing file is not an error.
// Used by the CLI so a settings file stays optional.
func LoadFileIfExists(ctx context.Context, store Store, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		ctxlog.FromContext(ctx).Debug("No settings file found, keeping defaults.", "path", path)
		return nil
	}
	return LoadFile(ctx, store, path)
}
