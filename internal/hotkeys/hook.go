// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package hotkeys

import (
	"log"
	"sync"

	"golang.design/x/hotkey"
)

// =============================================================================
// OS HOOK
// =============================================================================

// claimer abstracts the OS global-hotkey API so the registry can be
// exercised in tests without touching the real shortcut table.
type claimer interface {
	// claim registers the combo and arranges for fire to run on every
	// keydown. It returns a release function that undoes the claim.
	claim(c Combo, fire func()) (release func(), err error)

	// held reports whether this process currently holds the combo.
	held(c Combo) bool
}

// systemClaimer is the production claimer backed by golang.design/x/hotkey.
type systemClaimer struct {
	mu   sync.Mutex
	live map[string]struct{}
}

func newSystemClaimer() *systemClaimer {
	return &systemClaimer{live: make(map[string]struct{})}
}

func (s *systemClaimer) claim(c Combo, fire func()) (func(), error) {
	hk := hotkey.New(c.Modifiers(), c.Key())
	if err := hk.Register(); err != nil {
		return nil, err
	}

	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-hk.Keydown():
				fire()
			}
		}
	}()

	s.mu.Lock()
	s.live[c.String()] = struct{}{}
	s.mu.Unlock()

	release := func() {
		close(stop)
		if err := hk.Unregister(); err != nil {
			log.Printf("hotkeys: unregister %s: %v", c, err)
		}
		s.mu.Lock()
		delete(s.live, c.String())
		s.mu.Unlock()
	}
	return release, nil
}

func (s *systemClaimer) held(c Combo) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.live[c.String()]
	return ok
}
