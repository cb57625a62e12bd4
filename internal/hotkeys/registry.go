// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package hotkeys

import (
	"log"
	"sync"
)

// =============================================================================
// BINDING
// =============================================================================

// Callback is a shortcut handler. It may block on network calls; the
// registry runs it off the dispatch goroutine and logs any error or
// panic instead of letting it reach the OS event loop.
type Callback func() error

// Binding records one registration attempt: the accelerator chain that
// was tried, what it resolved to, and whether the OS accepted it.
type Binding struct {
	// Description is the human-readable action label, e.g. "Take Screenshot".
	Description string

	// Primary is the preferred accelerator.
	Primary string

	// Fallbacks are tried in order when the primary is refused.
	Fallbacks []string

	// Resolved is the accelerator that actually registered, or "" if
	// every candidate was refused.
	Resolved string

	// Registered reports whether any candidate succeeded.
	Registered bool

	combo   Combo
	release func()
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry owns every global shortcut this process claims. All
// register and unregister traffic is serialized through its mutex so
// OS-reported "already registered" state can never race our own
// bookkeeping.
type Registry struct {
	mu       sync.Mutex
	hook     claimer
	bindings map[string]*Binding // keyed by canonical combo
	order    []string
	torn     bool
}

// NewRegistry creates a registry backed by the real OS shortcut table.
func NewRegistry() *Registry {
	return newRegistry(newSystemClaimer())
}

func newRegistry(hook claimer) *Registry {
	return &Registry{
		hook:     hook,
		bindings: make(map[string]*Binding),
	}
}

// Register claims a single accelerator. It is idempotent and
// self-healing: an accelerator already claimed by this registry is
// released and re-claimed. A refused claim returns false and degrades
// the one action; it never panics or propagates.
func (r *Registry) Register(accelerator string, cb Callback, description string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(accelerator, accelerator, nil, cb, description)
}

// RegisterWithFallback tries the primary accelerator, then each
// fallback in order, and returns the first accelerator that the OS
// accepted. When every candidate is refused the action stays unbound
// for this session; callers must treat that as graceful degradation.
func (r *Registry) RegisterWithFallback(primary string, fallbacks []string, cb Callback, description string) (bool, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.registerLocked(primary, primary, fallbacks, cb, description) {
		return true, primary
	}
	for _, fb := range fallbacks {
		if r.registerLocked(fb, primary, fallbacks, cb, description) {
			log.Printf("hotkeys: %s bound to fallback %s (primary %s unavailable)", description, fb, primary)
			return true, fb
		}
	}

	log.Printf("hotkeys: %s left unbound, every candidate refused: %s %v", description, primary, fallbacks)
	return false, ""
}

// registerLocked performs one claim attempt and records the outcome.
// The caller holds r.mu.
func (r *Registry) registerLocked(accelerator, primary string, fallbacks []string, cb Callback, description string) bool {
	if r.torn {
		log.Printf("hotkeys: registry torn down, refusing to register %s", accelerator)
		return false
	}

	combo, err := ParseAccelerator(accelerator)
	if err != nil {
		log.Printf("hotkeys: %s: %v", description, err)
		return false
	}

	binding := &Binding{
		Description: description,
		Primary:     primary,
		Fallbacks:   fallbacks,
		combo:       combo,
	}

	// Supersede any claim this registry already holds for the combo.
	// The second registration always wins; two live OS bindings for one
	// combo must never exist.
	if prev, ok := r.bindings[combo.String()]; ok && prev.release != nil {
		prev.release()
		prev.release = nil
		prev.Registered = false
	}

	release, err := r.hook.claim(combo, r.dispatch(accelerator, cb))
	if err != nil {
		// Claimed elsewhere or reserved by the platform; either way the
		// accelerator is a scarce OS resource we do not get this session.
		log.Printf("hotkeys: could not claim %s for %s (likely held by another application or OS-reserved): %v",
			accelerator, description, err)
		r.record(binding)
		return false
	}

	binding.Resolved = accelerator
	binding.Registered = true
	binding.release = release
	r.record(binding)
	return true
}

// record stores a binding, keeping first-seen table order for reports.
func (r *Registry) record(b *Binding) {
	key := b.combo.String()
	if _, seen := r.bindings[key]; !seen {
		r.order = append(r.order, key)
	}
	r.bindings[key] = b
}

// dispatch wraps a callback with the uniform error boundary. Handlers
// run on their own goroutine: an error is logged, a panic is contained,
// and nothing reaches the OS dispatch layer.
func (r *Registry) dispatch(accelerator string, cb Callback) func() {
	return func() {
		go func() {
			defer func() {
				if p := recover(); p != nil {
					log.Printf("hotkeys: panic in %s handler: %v", accelerator, p)
				}
			}()
			if err := cb(); err != nil {
				log.Printf("hotkeys: %s handler: %v", accelerator, err)
			}
		}()
	}
}

// Bindings returns a snapshot of every recorded registration attempt
// in table order.
func (r *Registry) Bindings() []Binding {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Binding, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, *r.bindings[key])
	}
	return out
}

// Verify compares recorded registration state against the live OS
// state and logs any drift. Diagnostic only: it does not repair
// mismatches and does not affect dispatch.
func (r *Registry) Verify() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range r.order {
		b := r.bindings[key]
		live := r.hook.held(b.combo)
		if live != b.Registered {
			log.Printf("hotkeys: verify mismatch for %s (%s): recorded=%v live=%v",
				key, b.Description, b.Registered, live)
		}
	}
}

// Teardown releases every accelerator this registry claimed. Safe to
// call with nothing registered; after Teardown the registry refuses
// new registrations.
func (r *Registry) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range r.order {
		b := r.bindings[key]
		if b.release != nil {
			b.release()
			b.release = nil
			b.Registered = false
		}
	}
	r.torn = true
}
