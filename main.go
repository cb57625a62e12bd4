// snapsolve - hotkey-driven screen and audio analysis assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.design/x/hotkey/mainthread"

	"github.com/jeranaias/snapsolve/internal/actions"
	"github.com/jeranaias/snapsolve/internal/clipboard"
	"github.com/jeranaias/snapsolve/internal/cloud"
	"github.com/jeranaias/snapsolve/internal/config"
	"github.com/jeranaias/snapsolve/internal/events"
	"github.com/jeranaias/snapsolve/internal/history"
	"github.com/jeranaias/snapsolve/internal/hotkeys"
	"github.com/jeranaias/snapsolve/internal/llm"
	"github.com/jeranaias/snapsolve/internal/ollama"
	"github.com/jeranaias/snapsolve/internal/processing"
	"github.com/jeranaias/snapsolve/internal/screenshots"
	"github.com/jeranaias/snapsolve/internal/state"
	"github.com/jeranaias/snapsolve/internal/window"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	// The hotkey layer needs the OS main thread on darwin.
	mainthread.Init(run)
}

func run() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "version") {
		fmt.Printf("snapsolve %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := realMain(); err != nil {
		fmt.Fprintf(os.Stderr, "snapsolve: %v\n", err)
		os.Exit(1)
	}
}

func realMain() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	config.SetGlobal(cfg)

	backend, err := buildBackend(cfg)
	if err != nil {
		return err
	}
	client := llm.NewClientWithLimit(backend, cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	log.Printf("snapsolve: analysis backend is %s", backend.Name())

	bus := events.NewBus()
	defer bus.Close()

	store := state.NewStore()
	queue := screenshots.NewQueue(cfg.Queue.MaxPerQueue)
	win := window.NewHeadless()
	win.Show()

	capturer, err := screenshots.NewCapturer("")
	if err != nil {
		return fmt.Errorf("init capture: %w", err)
	}

	var hist *history.Store
	if cfg.History.Enabled {
		path := cfg.History.Path
		if path == "" {
			if path, err = history.DefaultPath(); err != nil {
				return err
			}
		}
		if hist, err = history.Open(path); err != nil {
			// History is supplemental; run without it.
			log.Printf("snapsolve: history disabled: %v", err)
			hist = nil
		} else {
			defer hist.Close()
		}
	}

	orch := processing.New(processing.Deps{
		Model:     client,
		Bus:       bus,
		Store:     store,
		Queue:     queue,
		Windows:   win,
		Clipboard: clipboard.System{},
		Capture:   capturer,
		History:   historyOrNil(hist),
	})

	var registry *hotkeys.Registry
	if cfg.Hotkeys.Enabled {
		registry = hotkeys.NewRegistry()
		router := actions.NewRouter(actions.Deps{
			Processor: orch,
			Bus:       bus,
			Store:     store,
			Queue:     queue,
			Windows:   win,
			Capture:   capturer,
		})
		router.Bind(registry)
		registry.Verify()
		for _, b := range registry.Bindings() {
			if b.Registered {
				log.Printf("snapsolve: %s bound to %s", b.Description, b.Resolved)
			} else {
				log.Printf("snapsolve: %s unbound (all candidates refused)", b.Description)
			}
		}
	} else {
		log.Printf("snapsolve: hotkeys disabled by config")
	}

	// Reload config on file changes; backend swaps need a restart but
	// pacing and queue settings could be picked up by a future pass.
	watcher, err := config.Watch(func(c *config.Config) {
		log.Printf("snapsolve: config reloaded")
	})
	if err != nil {
		log.Printf("snapsolve: config watch disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	// Warm up the local backend so the first hotkey press is not the
	// moment we discover the server is down.
	if cfg.Backend == "local" {
		warmUpOllama(cfg)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	log.Printf("snapsolve %s ready", Version)
	<-sigCh

	log.Printf("snapsolve: shutting down")
	orch.CancelAll()
	if registry != nil {
		registry.Teardown()
	}
	return nil
}

// buildBackend constructs the analysis backend the config selects.
func buildBackend(cfg *config.Config) (llm.Backend, error) {
	switch cfg.Backend {
	case "openrouter":
		client := cloud.NewClient(cfg.Cloud.OpenRouterKey).
			WithModel(cfg.Cloud.Model).
			WithSite("https://github.com/jeranaias/snapsolve", "snapsolve")
		if !client.IsConfigured() {
			return nil, fmt.Errorf("openrouter backend selected but no API key configured")
		}
		return llm.NewCloudBackend(client), nil

	case "local":
		client := ollama.NewClientWithConfig(&ollama.ClientConfig{
			BaseURL:     cfg.Local.OllamaURL,
			TextModel:   cfg.Local.TextModel,
			VisionModel: cfg.Local.VisionModel,
		})
		return llm.NewOllamaBackend(client), nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// warmUpOllama starts the local server if needed; failure degrades to
// on-demand errors rather than blocking startup.
func warmUpOllama(cfg *config.Config) {
	client := ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: cfg.Local.OllamaURL})
	if err := client.EnsureRunning(context.Background()); err != nil {
		log.Printf("snapsolve: ollama not reachable yet: %v", err)
	}
}

// historyOrNil keeps a typed-nil *history.Store out of the Appender
// interface.
func historyOrNil(h *history.Store) processing.Appender {
	if h == nil {
		return nil
	}
	return h
}
