// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package window defines the accessor surface the core consumes from
// whatever window system hosts the assistant. Window lifecycle and
// geometry are external collaborators; the core only branches on
// presence and visibility.
package window

import "sync"

// =============================================================================
// ACCESSOR SURFACE
// =============================================================================

// Level is an always-on-top window level.
type Level string

const (
	// LevelNormal is the regular stacking order.
	LevelNormal Level = "normal"

	// LevelFloating stays above normal windows.
	LevelFloating Level = "floating"

	// LevelScreenSaver stays above almost everything; used briefly to
	// force a newly shown window to the foreground.
	LevelScreenSaver Level = "screen-saver"
)

// Window is one assistant window.
type Window interface {
	IsVisible() bool
	IsDestroyed() bool
	Show()
	Hide()
	Center()
	MoveBy(dx, dy int)
	SetAlwaysOnTop(top bool, level Level)
	Focus()
}

// Accessor resolves the current main window. Callers must branch on
// ok: the window may not exist yet or may already be destroyed.
type Accessor interface {
	Get() (Window, bool)
}

// =============================================================================
// HEADLESS IMPLEMENTATION
// =============================================================================

// Headless is an in-process window record with no real surface. It
// backs single-binary runs (where a renderer attaches over the event
// bus) and tests.
type Headless struct {
	mu        sync.Mutex
	visible   bool
	destroyed bool
	x, y      int
	centered  bool
	top       bool
	level     Level
	focused   bool
}

// NewHeadless creates a hidden headless window at the origin.
func NewHeadless() *Headless {
	return &Headless{level: LevelNormal}
}

// Get implements Accessor; a destroyed window reports absent.
func (h *Headless) Get() (Window, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return nil, false
	}
	return h, true
}

func (h *Headless) IsVisible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.visible
}

func (h *Headless) IsDestroyed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.destroyed
}

func (h *Headless) Show() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible = true
}

func (h *Headless) Hide() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible = false
}

func (h *Headless) Center() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.centered = true
	h.x, h.y = 0, 0
}

func (h *Headless) MoveBy(dx, dy int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.centered = false
	h.x += dx
	h.y += dy
}

func (h *Headless) SetAlwaysOnTop(top bool, level Level) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.top = top
	h.level = level
}

func (h *Headless) Focus() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.focused = true
}

// Destroy marks the window gone; Get reports absent afterwards.
func (h *Headless) Destroy() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = true
	h.visible = false
}

// Position returns the current offset from the origin.
func (h *Headless) Position() (x, y int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.x, h.y
}

// Level returns the current always-on-top level.
func (h *Headless) TopLevel() (bool, Level) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.top, h.level
}
