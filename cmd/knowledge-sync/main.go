package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alexjbarnes/knowledge-sync/internal/config"
	"github.com/alexjbarnes/knowledge-sync/internal/logging"
	"github.com/alexjbarnes/knowledge-sync/openwebui"
	"golang.org/x/sync/errgroup"
)

var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	baseDir := flag.String("base-dir", "", "base directory containing knowledge collection folders (required)")
	configPath := flag.String("config", "config.json", "path to config file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	watch := flag.Bool("watch", false, "keep running and resync when local files change")
	flag.Parse()

	if *baseDir == "" {
		flag.Usage()
		return fmt.Errorf("--base-dir is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.NewLogger(cfg.Environment, *verbose)
	logger.Info("knowledge-sync starting",
		slog.String("version", Version),
		slog.String("base_url", cfg.BaseURL),
		slog.Bool("watch", *watch),
	)

	info, err := os.Stat(*baseDir)
	if err != nil {
		return fmt.Errorf("base directory %s: %w", *baseDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("base directory %s is not a directory", *baseDir)
	}
	absDir, err := filepath.Abs(*baseDir)
	if err != nil {
		return fmt.Errorf("resolving base directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := openwebui.NewClient(openwebui.ClientConfig{
		BaseURL:        cfg.BaseURL,
		JWTToken:       cfg.JWTToken,
		APIKey:         cfg.APIKey,
		CFClientID:     cfg.CFClientID,
		CFClientSecret: cfg.CFClientSecret,
	}, logger)
	reconciler := openwebui.NewReconciler(client, logger)

	syncOnce := func(ctx context.Context) error {
		local, err := openwebui.ScanLocal(absDir, logger)
		if err != nil {
			return fmt.Errorf("scanning local files: %w", err)
		}
		// Per-item sync failures are logged inside Run and do not fail
		// the process; only an unreadable base directory does.
		if _, err := reconciler.Run(ctx, absDir, local); err != nil {
			return fmt.Errorf("reconciling: %w", err)
		}
		return nil
	}

	if err := syncOnce(ctx); err != nil {
		return err
	}

	if !*watch {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	watcher := openwebui.NewWatcher(absDir, syncOnce, logger)
	g.Go(func() error {
		err := watcher.Watch(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	return g.Wait()
}
