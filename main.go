// asked - an educational chat client for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/jeranaias/asked/internal/cli"
	"github.com/jeranaias/asked/internal/config"
	"github.com/jeranaias/asked/internal/engine"
	"github.com/jeranaias/asked/internal/enrich"
	"github.com/jeranaias/asked/internal/logging"
	"github.com/jeranaias/asked/internal/openrouter"
	"github.com/jeranaias/asked/internal/storage"
	"github.com/jeranaias/asked/internal/store"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "asked:", err)
		os.Exit(1)
	}
}

func run() error {
	// Local .env files are a convenience for development; absence is fine.
	_ = godotenv.Load()

	for _, arg := range os.Args[1:] {
		switch arg {
		case "--version", "-v":
			fmt.Printf("asked %s (%s)\n", Version, GitCommit)
			return nil
		case "--help", "-h":
			printUsage()
			return nil
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel)

	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return fmt.Errorf("cannot create data directory: %w", err)
	}

	kv, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	st := store.New(kv, log)
	settings := store.NewSettings(kv)

	// Seed the display name from the environment on first run.
	if settings.Username() == "" {
		if name := os.Getenv("ASKED_USERNAME"); name != "" {
			if err := settings.SetUsername(name); err != nil {
				log.Warn().Err(err).Msg("could not seed username")
			}
		}
	}

	client := openrouter.NewClient("").
		WithSiteURL(cfg.Cloud.SiteURL).
		WithMaxRetries(cfg.Cloud.MaxRetries)
	client.SetModel(cfg.Model)

	var enricher engine.Enricher
	if cfg.Enrich.Enabled {
		enricher = enrich.NewWikipedia(log)
	}

	eng := engine.New(st, settings, client, enricher, cfg.Cloud.OpenRouterKey, log)

	if path, err := config.Path(); err == nil {
		watcher, werr := config.NewWatcher(path, func(fresh *config.Config) {
			eng.SetDefaultKey(fresh.Cloud.OpenRouterKey)
			client.SetModel(fresh.Model)
		}, log)
		if werr != nil {
			log.Warn().Err(werr).Msg("config watcher unavailable")
		} else if werr := watcher.Watch(); werr != nil {
			log.Warn().Err(werr).Msg("config watcher failed to start")
		} else {
			defer watcher.Close()
		}
	}

	log.Debug().Str("storage", cfg.Storage).Str("model", cfg.Model).Msg("asked starting")
	return cli.New(st, settings, eng, cfg.DataDir, log).Run()
}

// openStorage selects the persistence backend from config.
func openStorage(cfg *config.Config) (storage.KV, error) {
	switch cfg.Storage {
	case "sqlite":
		return storage.NewSQLiteKV(filepath.Join(cfg.DataDir, "asked.db"))
	default:
		return storage.NewFileKV(cfg.DataDir)
	}
}

func printUsage() {
	fmt.Print(`asked - an educational chat client for the terminal

Usage:
  asked              Start the interactive session
  asked --version    Print version
  asked --help       Show this help

Environment:
  ASKED_MODEL            Completion model identifier
  ASKED_OPENROUTER_KEY   Fallback API key (stored keys win)
  ASKED_DATA_DIR         Data directory (default ~/.asked)
  ASKED_STORAGE          Storage backend: file or sqlite
  ASKED_LOG_LEVEL        Log level: debug, info, warn, error
  ASKED_USERNAME         Seed display name on first run

Configuration file: ~/.asked/config.toml
`)
}
