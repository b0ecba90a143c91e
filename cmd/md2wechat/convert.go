package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	md2wechat "github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/config"
	"github.com/alnah/go-md2wechat/internal/fileutil"
	"github.com/alnah/go-md2wechat/internal/hints"
)

// ErrInvalidTimeout indicates a malformed or non-positive --timeout.
var ErrInvalidTimeout = errors.New("invalid timeout")

// stdinArg reads the document from standard input.
const stdinArg = "-"

// stdinPreviewPath is where a preview of a stdin document is written.
const stdinPreviewPath = "md2wechat-preview.png"

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(logger)

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	timeout, err := resolveTimeoutWithEnv(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	cfg, err := loadConfig(configName)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if flags.out.stdout && flags.out.output != "" {
		return fmt.Errorf("%w: --stdout and --output cannot be combined", ErrUsage)
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}

	opts, err := buildOptions(cfg, logger, timeout, env)
	if err != nil {
		return err
	}

	extraCSS, err := readExtraCSS(cfg.CSS)
	if err != nil {
		return err
	}

	params := &conversionParams{
		css:      extraCSS,
		sanitize: cfg.Sanitize,
		preview:  cfg.Preview.Enabled,
	}

	toFiles, err := writesFiles(inputPath, flags.out)
	if err != nil {
		return err
	}
	if !toFiles {
		return convertSingle(ctx, inputPath, flags, params, opts, env)
	}

	outputDir := flags.out.output
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}
	return convertFiles(ctx, inputPath, outputDir, workers, flags, params, opts, env, logger)
}

// writesFiles reports whether the run writes .html files rather than
// copying or printing one document. Directories always go to files.
func writesFiles(inputPath string, out outputFlags) (bool, error) {
	if inputPath == stdinArg {
		if out.output != "" {
			return false, fmt.Errorf("%w: --output needs a file or directory input, not stdin", ErrUsage)
		}
		return false, nil
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		if out.stdout {
			return false, fmt.Errorf("%w: --stdout needs a single file, %s is a directory", ErrUsage, inputPath)
		}
		return true, nil
	}
	return out.output != "", nil
}

// convertSingle converts one document to the clipboard or to stdout.
func convertSingle(ctx context.Context, inputPath string, flags *convertFlags, params *conversionParams, opts []md2wechat.Option, env *Environment) error {
	markdown, err := readMarkdown(inputPath, env.Stdin)
	if err != nil {
		return err
	}

	conv, err := md2wechat.NewConverter(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	input := md2wechat.Input{
		Markdown: markdown,
		CSS:      params.css,
		Sanitize: params.sanitize,
		Preview:  params.preview,
	}
	name := "stdin"
	previewPath := stdinPreviewPath
	if inputPath != stdinArg {
		input.SourcePath = inputPath
		name = inputPath
		previewPath = previewOutputPath(inputPath)
	}

	var res *md2wechat.ConvertResult
	if flags.out.stdout {
		res, err = conv.Convert(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, res.HTML)
	} else {
		res, err = conv.ConvertAndCopy(ctx, input)
		if err != nil {
			return err
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Copied %s to clipboard (%d bytes of HTML)\n", name, len(res.HTML))
		}
	}

	if params.preview && len(res.PreviewPNG) > 0 {
		if err := fileutil.WriteFileAtomic(previewPath, res.PreviewPNG); err != nil {
			return fmt.Errorf("%w: %v", ErrWritePreview, err)
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stderr, "Created %s\n", previewPath)
		}
	}
	return nil
}

// convertFiles writes one .html file per discovered markdown file.
func convertFiles(ctx context.Context, inputPath, outputDir string, workers int, flags *convertFlags, params *conversionParams, opts []md2wechat.Option, env *Environment, logger *log.Logger) error {
	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	poolSize := md2wechat.ResolvePoolSize(workers)
	if poolSize > len(files) {
		poolSize = len(files)
	}
	logger.Debug("converting", "files", len(files), "workers", poolSize)

	pool := md2wechat.NewConverterPool(poolSize, opts...)
	defer func() { _ = pool.Close() }()

	results := convertBatch(ctx, &poolAdapter{pool: pool}, files, params)

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		// A single failure keeps its cause so the exit code reflects it.
		if len(results) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}
	return nil
}

// loadConfig loads the named config, or the defaults when name is empty.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.style.style != "" {
		cfg.Style = flags.style.style
	}
	if flags.style.css != "" {
		cfg.CSS = flags.style.css
	}
	if flags.style.assetPath != "" {
		cfg.Assets.BasePath = flags.style.assetPath
	}
	if flags.style.highlight != "" {
		cfg.Highlight.Style = flags.style.highlight
	}
	if flags.vault != "" {
		cfg.Vault.Root = flags.vault
	}
	if flags.settings != "" {
		cfg.Settings.Path = flags.settings
	}
	if flags.sanitize {
		cfg.Sanitize = true
	}
	if flags.out.preview {
		cfg.Preview.Enabled = true
	}
}

// buildOptions translates the merged config into converter options.
// Without an explicit style the saved stylesheet is used.
func buildOptions(cfg *config.Config, logger *log.Logger, timeout time.Duration, env *Environment) ([]md2wechat.Option, error) {
	opts := []md2wechat.Option{md2wechat.WithLogger(logger)}

	if timeout > 0 {
		opts = append(opts, md2wechat.WithTimeout(timeout))
	}

	if cfg.Style != "" {
		opts = append(opts, md2wechat.WithStyle(cfg.Style))
	} else {
		css, err := loadSavedStylesheet(cfg.Settings.Path, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, md2wechat.WithStylesheet(css))
	}

	if cfg.Assets.BasePath != "" {
		opts = append(opts, md2wechat.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Vault.Root != "" {
		opts = append(opts, md2wechat.WithVaultRoot(cfg.Vault.Root))
	}
	if cfg.Highlight.Style != "" {
		opts = append(opts, md2wechat.WithHighlightStyle(cfg.Highlight.Style))
	}
	if cfg.Images.Concurrency > 0 {
		opts = append(opts, md2wechat.WithImageConcurrency(cfg.Images.Concurrency))
	}
	if cfg.Preview.Width > 0 {
		opts = append(opts, md2wechat.WithPreviewWidth(cfg.Preview.Width))
	}
	if env.Clipboard != nil {
		opts = append(opts, md2wechat.WithClipboard(env.Clipboard))
	}

	return opts, nil
}

// loadSavedStylesheet returns the stylesheet kept in the settings file.
// Without a usable user config directory the built-in stylesheet is used.
func loadSavedStylesheet(path string, logger *log.Logger) (string, error) {
	store, err := newSettingsStore(path)
	if err != nil {
		logger.Debug("no settings file, using built-in stylesheet", "err", err)
		return md2wechat.DefaultCSS(), nil
	}

	settings, err := store.Load()
	if err != nil {
		return "", fmt.Errorf("loading settings: %w%s", err, hints.ForSettingsFile(store.Path()))
	}
	logger.Debug("using saved stylesheet", "settings", store.Path(), "bytes", len(settings.CustomCSS))
	return settings.CustomCSS, nil
}

// newSettingsStore opens the settings store at path, or at the default
// location when path is empty.
func newSettingsStore(path string) (*config.Store, error) {
	if path == "" {
		var err error
		path, err = config.DefaultSettingsPath()
		if err != nil {
			return nil, err
		}
	}
	return config.NewStore(path, config.Settings{CustomCSS: md2wechat.DefaultCSS()}), nil
}

// resolveTimeoutWithEnv returns the preview timeout.
// Priority: flag > env var. Zero means the library default.
func resolveTimeoutWithEnv(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidTimeout, flagValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w %q: must be positive", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(args))
	}
	if len(args) == 1 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// readMarkdown reads a markdown file, or stdin for "-".
func readMarkdown(path string, stdin io.Reader) (string, error) {
	if path == stdinArg {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("%w: stdin: %v", ErrReadMarkdown, err)
		}
		return string(data), nil
	}

	if err := validateMarkdownExtension(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}
	return string(data), nil
}

// readExtraCSS reads the CSS file appended after the style.
func readExtraCSS(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(data), nil
}
