// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors emit for a
// single save.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads the configuration when the config file changes on
// disk and hands the validated result to a callback.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(*Config)
	done     chan struct{}
}

// Watch starts watching the config directory. onReload runs with each
// successfully reloaded configuration; invalid edits are logged and
// skipped, keeping the previous config active.
func Watch(onReload func(*Config)) (*Watcher, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	if err := EnsureConfigDir(); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		debounce: DefaultDebounce,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// loop consumes fsnotify events, debounces them, and reloads.
func (w *Watcher) loop() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(event.Name)
			if name != "config.toml" && name != "config.json" {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config watcher error: %v", err)

		case <-timerC:
			timer = nil
			timerC = nil
			cfg, err := Load()
			if err != nil {
				log.Printf("config reload skipped: %v", err)
				continue
			}
			SetGlobal(cfg)
			if w.onReload != nil {
				w.onReload(cfg)
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
