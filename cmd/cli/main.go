package main

import (
	"context"
	"fmt"
	"io"
	"os"

	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/vk/polygraph/backend"
	"github.com/vk/polygraph/config"
	"github.com/vk/polygraph/dispatch"
	"github.com/vk/polygraph/internal/cli"
	"github.com/vk/polygraph/internal/ctxlog"

	// Register the built-in algorithms and the reference backend.
	_ "github.com/vk/polygraph/algorithms"
	_ "github.com/vk/polygraph/backends/loopback"
)

// main is the entrypoint for the polygraph inspection tool.
func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := cli.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	settings := backend.Settings()
	if err := backend.BootstrapError(); err != nil {
		return fmt.Errorf("invalid environment settings: %w", err)
	}
	if err := config.LoadFileIfExists(ctx, settings, cfg.SettingsPath); err != nil {
		return err
	}

	fmt.Fprintln(outW, "Algorithms:")
	for _, name := range dispatch.Names() {
		fmt.Fprintf(outW, "  %s\n", name)
	}

	fmt.Fprintln(outW, "Backends:")
	for _, name := range backend.Names() {
		fmt.Fprintf(outW, "  %s\n", name)
	}

	fmt.Fprintln(outW, "Settings:")
	for _, key := range settings.Keys() {
		val, err := settings.Get(key)
		if err != nil {
			return err
		}
		rendered, err := ctyjson.Marshal(val, val.Type())
		if err != nil {
			return fmt.Errorf("cannot render setting %q: %w", key, err)
		}
		fmt.Fprintf(outW, "  %s = %s\n", key, rendered)
	}
	return nil
}
