// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package hotkeys

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClaimer simulates the OS shortcut table. Combos listed in
// preClaimed behave as if another application owns them.
type fakeClaimer struct {
	mu         sync.Mutex
	preClaimed map[string]bool
	live       map[string]func()
	claims     int
	releases   int
}

func newFakeClaimer(preClaimed ...string) *fakeClaimer {
	f := &fakeClaimer{
		preClaimed: make(map[string]bool),
		live:       make(map[string]func()),
	}
	for _, acc := range preClaimed {
		combo, err := ParseAccelerator(acc)
		if err != nil {
			panic(err)
		}
		f.preClaimed[combo.String()] = true
	}
	return f
}

func (f *fakeClaimer) claim(c Combo, fire func()) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.preClaimed[c.String()] {
		return nil, errors.New("hotkey already registered by another client")
	}
	if _, ok := f.live[c.String()]; ok {
		return nil, errors.New("hotkey already registered by this process")
	}

	f.claims++
	f.live[c.String()] = fire
	key := c.String()
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.releases++
		delete(f.live, key)
	}, nil
}

func (f *fakeClaimer) held(c Combo) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.live[c.String()]
	return ok
}

// fire simulates the OS delivering a keydown for the accelerator.
func (f *fakeClaimer) fire(t *testing.T, accelerator string) {
	t.Helper()
	combo, err := ParseAccelerator(accelerator)
	require.NoError(t, err)

	f.mu.Lock()
	fn, ok := f.live[combo.String()]
	f.mu.Unlock()
	require.True(t, ok, "no live claim for %s", accelerator)
	fn()
}

func (f *fakeClaimer) liveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

func noop() error { return nil }

func TestRegisterClaimsAccelerator(t *testing.T) {
	hook := newFakeClaimer()
	reg := newRegistry(hook)

	ok := reg.Register("CommandOrControl+H", noop, "Take Screenshot")
	require.True(t, ok)
	assert.Equal(t, 1, hook.liveCount())

	bindings := reg.Bindings()
	require.Len(t, bindings, 1)
	assert.True(t, bindings[0].Registered)
	assert.Equal(t, "CommandOrControl+H", bindings[0].Resolved)
}

func TestRegisterRefusedReturnsFalseNotPanic(t *testing.T) {
	hook := newFakeClaimer("CommandOrControl+H")
	reg := newRegistry(hook)

	ok := reg.Register("CommandOrControl+H", noop, "Take Screenshot")
	assert.False(t, ok)

	bindings := reg.Bindings()
	require.Len(t, bindings, 1)
	assert.False(t, bindings[0].Registered)
	assert.Empty(t, bindings[0].Resolved)
}

func TestRegisterTwiceSupersedesFirstClaim(t *testing.T) {
	hook := newFakeClaimer()
	reg := newRegistry(hook)

	require.True(t, reg.Register("CommandOrControl+R", noop, "Reset Queues"))
	require.True(t, reg.Register("CommandOrControl+R", noop, "Reset Queues"))

	// The second registration released the first claim: never two live
	// OS bindings for one combo.
	assert.Equal(t, 1, hook.liveCount())
	assert.Equal(t, 2, hook.claims)
	assert.Equal(t, 1, hook.releases)
}

func TestRegisterWithFallbackUsesFirstAvailable(t *testing.T) {
	hook := newFakeClaimer("CommandOrControl+B", "CommandOrControl+Shift+B")
	reg := newRegistry(hook)

	ok, resolved := reg.RegisterWithFallback(
		"CommandOrControl+B",
		[]string{"CommandOrControl+Shift+B", "Alt+Shift+B", "CommandOrControl+T"},
		noop, "Toggle Window")

	require.True(t, ok)
	assert.Equal(t, "Alt+Shift+B", resolved)
}

func TestRegisterWithFallbackAllRefused(t *testing.T) {
	hook := newFakeClaimer("CommandOrControl+R", "CommandOrControl+Shift+R", "Alt+Shift+R")
	reg := newRegistry(hook)

	ok, resolved := reg.RegisterWithFallback(
		"CommandOrControl+R",
		[]string{"CommandOrControl+Shift+R", "Alt+Shift+R"},
		noop, "Reset Queues")

	assert.False(t, ok)
	assert.Empty(t, resolved)
	assert.Equal(t, 0, hook.liveCount())
}

func TestDispatchContainsCallbackFailures(t *testing.T) {
	hook := newFakeClaimer()
	reg := newRegistry(hook)

	fired := make(chan struct{}, 2)
	require.True(t, reg.Register("CommandOrControl+Enter", func() error {
		fired <- struct{}{}
		return errors.New("analysis failed")
	}, "Process Screenshots"))

	// An erroring handler must not take down dispatch; firing twice
	// still reaches the handler twice.
	hook.fire(t, "CommandOrControl+Enter")
	hook.fire(t, "CommandOrControl+Enter")

	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatal("handler did not run")
		}
	}
}

func TestDispatchContainsPanics(t *testing.T) {
	hook := newFakeClaimer()
	reg := newRegistry(hook)

	ran := make(chan struct{}, 1)
	require.True(t, reg.Register("Alt+Shift+L", func() error {
		defer func() { ran <- struct{}{} }()
		panic("handler bug")
	}, "Toggle Chat"))

	hook.fire(t, "Alt+Shift+L")

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not run")
	}
	// Give the recover wrapper a moment; the test passing at all means
	// the panic did not escape to the test goroutine.
	time.Sleep(10 * time.Millisecond)
}

func TestTeardownReleasesEverything(t *testing.T) {
	hook := newFakeClaimer()
	reg := newRegistry(hook)

	reg.Register("CommandOrControl+H", noop, "Take Screenshot")
	reg.RegisterWithFallback("CommandOrControl+B", []string{"Alt+Shift+B"}, noop, "Toggle Window")

	reg.Teardown()
	assert.Equal(t, 0, hook.liveCount())

	// Safe to tear down twice, and the registry refuses reuse.
	reg.Teardown()
	assert.False(t, reg.Register("CommandOrControl+H", noop, "Take Screenshot"))
}

func TestTeardownOnEmptyRegistryIsNoOp(t *testing.T) {
	reg := newRegistry(newFakeClaimer())
	reg.Teardown()
}

func TestVerifyDoesNotRepairDrift(t *testing.T) {
	hook := newFakeClaimer()
	reg := newRegistry(hook)

	require.True(t, reg.Register("CommandOrControl+H", noop, "Take Screenshot"))

	// Simulate external drift: the OS claim vanishes behind our back.
	combo, err := ParseAccelerator("CommandOrControl+H")
	require.NoError(t, err)
	hook.mu.Lock()
	delete(hook.live, combo.String())
	hook.mu.Unlock()

	reg.Verify()

	// Still recorded as registered: verify is diagnostic only.
	bindings := reg.Bindings()
	require.Len(t, bindings, 1)
	assert.True(t, bindings[0].Registered)
}
