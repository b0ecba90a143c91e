package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	md2wechat "github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/hints"
)

// runStyle manages the saved stylesheet: show, set, reset, path, list.
func runStyle(args []string, env *Environment) error {
	flags, positional, err := parseStyleFlags(args, env.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(positional) == 0 {
		printStyleUsage(env.Stderr)
		return fmt.Errorf("%w: style needs a subcommand", ErrUsage)
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)

	settingsPath := flags.settings
	if settingsPath == "" {
		settingsPath = os.Getenv("MD2WECHAT_SETTINGS")
	}
	if settingsPath == "" && flags.common.config != "" {
		cfg, err := loadConfig(flags.common.config)
		if err != nil {
			return err
		}
		settingsPath = cfg.Settings.Path
	}

	sub, rest := positional[0], positional[1:]
	if sub == "list" {
		for _, name := range md2wechat.Styles() {
			fmt.Fprintln(env.Stdout, name)
		}
		return nil
	}

	store, err := newSettingsStore(settingsPath)
	if err != nil {
		return err
	}
	logger.Debug("settings", "path", store.Path())

	switch sub {
	case "show":
		settings, err := store.Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w%s", err, hints.ForSettingsFile(store.Path()))
		}
		fmt.Fprint(env.Stdout, settings.CustomCSS)
		return nil

	case "set":
		if len(rest) != 1 {
			return fmt.Errorf("%w: style set needs a CSS file or - for stdin", ErrUsage)
		}
		css, err := readStylesheet(rest[0], env.Stdin)
		if err != nil {
			return err
		}
		settings, err := store.Load()
		if err != nil {
			return fmt.Errorf("loading settings: %w%s", err, hints.ForSettingsFile(store.Path()))
		}
		settings.CustomCSS = css
		if err := store.Save(settings); err != nil {
			return err
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Saved stylesheet (%d bytes) to %s\n", len(css), store.Path())
		}
		return nil

	case "reset":
		if _, err := store.Reset(); err != nil {
			return err
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Restored built-in stylesheet in %s\n", store.Path())
		}
		return nil

	case "path":
		fmt.Fprintln(env.Stdout, store.Path())
		return nil

	default:
		printStyleUsage(env.Stderr)
		return fmt.Errorf("%w: unknown style subcommand %q", ErrUsage, sub)
	}
}

// readStylesheet reads CSS from a file, or stdin for "-".
func readStylesheet(path string, stdin io.Reader) (string, error) {
	if path == stdinArg {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("%w: stdin: %v", ErrReadCSS, err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(data), nil
}
