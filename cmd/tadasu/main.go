// Package main is the Tadasu CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/tadasu/internal/config"
	"github.com/hyperjump/tadasu/internal/report"
	"github.com/hyperjump/tadasu/internal/rules"
	"github.com/hyperjump/tadasu/internal/server"
	"github.com/hyperjump/tadasu/internal/spellcheck"
	"github.com/hyperjump/tadasu/internal/storage"
	"github.com/hyperjump/tadasu/internal/validator"
	"github.com/hyperjump/tadasu/internal/watcher"
	"github.com/hyperjump/tadasu/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/tadasu/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// loadConfigOrDefault is loadConfig, except a missing default config file
// yields a default config instead of an error. Commands that can run purely
// from flags (check with -root) use this.
func loadConfigOrDefault(path string) (*config.Config, string, error) {
	cfg, resolved, err := loadConfig(path)
	if err != nil && path == defaultConfigPath && errors.Is(err, os.ErrNotExist) {
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
		return cfg, "", nil
	}
	return cfg, resolved, err
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "check":
		runCheck()
	case "serve":
		runServe()
	case "runs":
		runRuns()
	case "export":
		runExport()
	case "version", "--version", "-v":
		fmt.Printf("tadasu version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// newEngine builds the validation engine from config: logger wiring plus the
// remote spell-check factory when a key is configured. Folders that enable
// spell check without a configured key fail their run with a clear message.
func newEngine(cfg *config.Config, logger *zap.Logger, debugMode bool) *validator.Engine {
	opts := []validator.Option{}
	if debugMode {
		opts = append(opts, validator.WithLogger(logger))
	}
	if key := cfg.SpellCheck.ResolveAPIKey(); key != "" {
		opts = append(opts, validator.WithSpellCheckFactory(
			spellcheck.NewFactory(key, cfg.SpellCheck.Endpoint)))
	}
	return validator.New(opts...)
}

func runCheck() {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	root := fs.String("root", "", "content root to validate (defaults to content.root from config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	store := fs.Bool("store", false, "record the run in the run-history database")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfigOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	contentRoot := *root
	if contentRoot == "" {
		contentRoot = cfg.Content.Root
	}
	if contentRoot == "" {
		fmt.Fprintln(os.Stderr, "No content root: pass -root or set content.root in config")
		os.Exit(1)
	}

	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	format, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	engine := newEngine(cfg, logger, debugMode)
	run := engine.Run(context.Background(), contentRoot)

	if *store {
		st, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open run history: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()
		if err := st.CreateRun(context.Background(), run); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to store run: %v\n", err)
			os.Exit(1)
		}
	}

	if err := report.WriteRun(os.Stdout, run, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	if run.Failed() {
		os.Exit(1)
	}
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	watch := fs.Bool("watch", false, "re-validate governed folders when their files change")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	engine := newEngine(cfg, logger, debugMode)
	st, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open run history", zap.Error(err))
	}
	defer st.Close()

	var watchCancel context.CancelFunc
	if *watch {
		if cfg.Content.Root == "" {
			logger.Fatal("Watch mode needs content.root in config")
		}
		folders, err := rules.Discover(cfg.Content.Root)
		if err != nil {
			logger.Fatal("Failed to discover governed folders", zap.Error(err))
		}
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		w := watcher.New(folders, func(folder string) {
			rec := report.NewRecorder(logger)
			if err := engine.CheckFolder(context.Background(), folder, rec); err != nil {
				logger.Warn("folder validation failed", zap.String("folder", folder), zap.Error(err))
				return
			}
			logger.Info("folder validated", zap.String("folder", folder))
		}, watchOpts...)
		var watchCtx context.Context
		watchCtx, watchCancel = context.WithCancel(context.Background())
		defer watchCancel()
		if err := w.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		logger.Info("watching governed folders", zap.Int("folders", len(folders)))
	}

	srv := server.NewServer(engine, st, &cfg.Server, cfg.Content.Root, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watchCancel != nil {
		watchCancel()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runRuns() {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 20, "number of runs to list")
	offset := fs.Int("offset", 0, "number of runs to skip")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfigOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	st, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open run history: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), *offset, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list runs: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}
	for _, r := range runs {
		fmt.Printf("%s  %-6s  %s  %s\n",
			r.StartedAt.Format(time.RFC3339), r.Status, r.ID, r.Root)
	}
}

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	runID := fs.String("run", "", "run ID to export (defaults to the most recent run)")
	out := fs.String("o", "findings.xlsx", "output .xlsx path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfigOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	st, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open run history: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx := context.Background()
	id := *runID
	if id == "" {
		latest, err := st.ListRuns(ctx, 0, 1)
		if err != nil || len(latest) == 0 {
			fmt.Fprintln(os.Stderr, "No runs recorded; run \"tadasu check -store\" first")
			os.Exit(1)
		}
		id = latest[0].ID
	}
	run, err := st.GetRun(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load run %s: %v\n", id, err)
		os.Exit(1)
	}
	if err := report.ExportExcel(*out, run); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported run %s (%d findings) to %s\n", run.ID, len(run.Findings), *out)
}

func parseOutputFormat(s string) (report.OutputFormat, error) {
	switch s {
	case "text":
		return report.OutputText, nil
	case "json":
		return report.OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

func printUsage() {
	fmt.Println(`Tadasu - localized content validation

Usage:
  tadasu <command> [flags]

Commands:
  check    Validate a content tree against its per-folder rule sets
  serve    Start the HTTP API (optionally with -watch for live re-validation)
  runs     List recorded validation runs
  export   Export a run's findings to an .xlsx workbook
  version  Show version
  help     Show this help

Examples:
  tadasu check -root ./content
  tadasu check -root ./content -output json -store
  tadasu serve -config config.yaml -watch
  tadasu runs -limit 10
  tadasu export -run <id> -o findings.xlsx`)
}
