// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package events

import "testing"

func TestEmitDeliversToSubscribers(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	a := bus.Subscribe()
	b := bus.Subscribe()

	bus.Emit(TypeInitialStart, nil)

	for _, ch := range []<-chan Event{a, b} {
		ev := <-ch
		if ev.Type != TypeInitialStart {
			t.Errorf("expected %s, got %s", TypeInitialStart, ev.Type)
		}
	}
}

func TestEmitNeverBlocksOnSlowSubscriber(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch := bus.SubscribeBuffered(1)

	// Fill the buffer, then emit more. The extra events must be dropped
	// rather than blocking the emitter.
	bus.Emit(TypeDebugStart, nil)
	bus.Emit(TypeDebugSuccess, "first overflow")
	bus.Emit(TypeDebugError, "second overflow")

	ev := <-ch
	if ev.Type != TypeDebugStart {
		t.Errorf("expected the buffered event, got %s", ev.Type)
	}

	select {
	case ev := <-ch:
		t.Errorf("expected dropped events, got %s", ev.Type)
	default:
	}
}

func TestEmitAfterCloseIsNoOp(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()

	bus.Close()
	bus.Emit(TypeResetView, nil)

	if _, ok := <-ch; ok {
		t.Error("subscriber channel should be closed")
	}

	// Closing twice must not panic.
	bus.Close()
}

func TestErrorPayloadIsMessage(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch := bus.Subscribe()
	bus.Error(TypeInitialSolutionError, "model unavailable")

	ev := <-ch
	msg, ok := ev.Payload.(string)
	if !ok || msg != "model unavailable" {
		t.Errorf("expected message payload, got %#v", ev.Payload)
	}
}
