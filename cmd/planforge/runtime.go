package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/planforge/planforge/internal/config"
	"github.com/planforge/planforge/internal/draft"
	"github.com/planforge/planforge/internal/logger"
	inats "github.com/planforge/planforge/internal/nats"
	"github.com/planforge/planforge/internal/store"
)

// runtime bundles everything a wizard session needs: configuration, the
// embedded NATS-backed store, and a draft saver sharing the store's bucket.
type runtime struct {
	cfg     *config.Config
	kv      *store.KV
	saver   *draft.Saver
	cleanup func()
}

// openRuntime loads config, applies log settings, starts the embedded NATS
// server, opens the KV store, and seeds the catalog on first run. Callers
// must invoke cleanup when done.
func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	applyLogConfig(cfg)

	ns, err := inats.StartEmbeddedNATS(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("starting embedded NATS: %w", err)
	}

	nc, err := inats.ConnectInProcess(ns)
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("connecting to embedded NATS: %w", err)
	}

	cleanup := func() {
		if err := inats.Shutdown(nc, ns); err != nil {
			logger.Warn("NATS shutdown: %v", err)
		}
	}

	js, err := inats.CreateJetStream(nc)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("creating JetStream context: %w", err)
	}

	kv, err := store.OpenKV(ctx, js)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("opening plan store: %w", err)
	}

	if err := store.SeedCatalog(ctx, kv); err != nil {
		cleanup()
		return nil, fmt.Errorf("seeding catalog: %w", err)
	}

	saver, err := draft.NewSaver(kv)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("creating draft saver: %w", err)
	}

	return &runtime{cfg: cfg, kv: kv, saver: saver, cleanup: cleanup}, nil
}

// applyLogConfig pushes config file log settings into the default logger.
// Environment variables already took effect at init and win on conflict.
func applyLogConfig(cfg *config.Config) {
	if os.Getenv("PLANFORGE_LOG_LEVEL") == "" && cfg.LogLevel != "" {
		if level, err := logger.ParseLevel(cfg.LogLevel); err == nil {
			logger.Default.SetLevel(level)
		}
	}
	if os.Getenv("PLANFORGE_LOG_FILE") == "" && cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			logger.Default.SetOutput(io.Writer(f))
		}
	}
}
