// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package events carries workflow lifecycle notifications from the
// orchestration layer to whatever presentation layer is attached.
package events

import (
	"log"
	"sync"
)

// =============================================================================
// EVENT TYPES
// =============================================================================

// Type identifies a lifecycle event.
type Type string

const (
	// TypeNoScreenshots indicates a processing action found an empty queue.
	TypeNoScreenshots Type = "no-screenshots"

	// TypeInitialStart indicates an extraction workflow has started.
	TypeInitialStart Type = "initial-start"

	// TypeProblemExtracted carries a committed extraction result.
	TypeProblemExtracted Type = "problem-extracted"

	// TypeInitialSolutionError carries an extraction failure message.
	TypeInitialSolutionError Type = "initial-solution-error"

	// TypeDebugStart indicates a debug workflow has started.
	TypeDebugStart Type = "debug-start"

	// TypeDebugSuccess carries a debug pass result.
	TypeDebugSuccess Type = "debug-success"

	// TypeDebugError carries a debug failure message.
	TypeDebugError Type = "debug-error"

	// TypeSolutionSuccess carries the terminal result of the coding workflow.
	TypeSolutionSuccess Type = "solution-success"

	// TypeResetView indicates queues and processing state were reset.
	TypeResetView Type = "reset-view"

	// TypeToggleChat asks the presentation layer to toggle the chat panel.
	TypeToggleChat Type = "toggle-chat"

	// TypeScreenshotTaken carries the path and preview of a new capture.
	TypeScreenshotTaken Type = "screenshot-taken"
)

// String returns the wire name of the event type.
func (t Type) String() string {
	return string(t)
}

// Event is a single lifecycle notification.
type Event struct {
	Type    Type
	Payload any
}

// Screenshot is the payload for TypeScreenshotTaken.
type Screenshot struct {
	Path    string `json:"path"`
	Preview string `json:"preview"`
}

// =============================================================================
// EVENT BUS
// =============================================================================

// Bus fans lifecycle events out to subscribers.
//
// Emit never blocks the emitting workflow: a subscriber that has fallen
// behind its buffer loses the event, and the drop is logged. This keeps
// a stalled presentation layer from wedging an analysis workflow.
type Bus struct {
	mu     sync.Mutex
	subs   []chan Event
	closed bool
}

// DefaultBuffer is the per-subscriber channel buffer used by Subscribe.
const DefaultBuffer = 64

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a new subscriber and returns its receive channel.
// The channel is closed when the bus is closed.
func (b *Bus) Subscribe() <-chan Event {
	return b.SubscribeBuffered(DefaultBuffer)
}

// SubscribeBuffered registers a subscriber with a custom buffer size.
func (b *Bus) SubscribeBuffered(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, ch)
	return ch
}

// Emit delivers an event to every subscriber without blocking.
func (b *Bus) Emit(t Type, payload any) {
	ev := Event{Type: t, Payload: payload}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			log.Printf("events: dropping %s for slow subscriber", t)
		}
	}
}

// Error is a convenience for emitting an error-carrying event.
// The payload is the human-readable message.
func (b *Bus) Error(t Type, message string) {
	b.Emit(t, message)
}

// Close closes all subscriber channels. Emit after Close is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
