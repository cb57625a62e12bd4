// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package screenshots manages captured artifacts: the ordered queues
// the processing workflows read, plus platform capture and previews.
package screenshots

import (
	"log"
	"os"
	"sync"
)

// =============================================================================
// ARTIFACT QUEUES
// =============================================================================

// Target selects which queue an artifact belongs to.
type Target int

const (
	// TargetPrimary is the main extraction queue.
	TargetPrimary Target = iota

	// TargetDebug is the auxiliary queue consumed by the debug workflow.
	TargetDebug
)

// DefaultMaxPerQueue caps each queue; the oldest artifact is evicted
// (and its file removed) when the cap is exceeded.
const DefaultMaxPerQueue = 5

// Queue holds the two ordered artifact queues, oldest first.
type Queue struct {
	mu          sync.Mutex
	primary     []string
	debug       []string
	maxPerQueue int
}

// NewQueue creates an empty queue pair. maxPerQueue <= 0 uses the default.
func NewQueue(maxPerQueue int) *Queue {
	if maxPerQueue <= 0 {
		maxPerQueue = DefaultMaxPerQueue
	}
	return &Queue{maxPerQueue: maxPerQueue}
}

// Push appends an artifact path to the target queue, evicting the
// oldest entry (and deleting its file) if the queue is full.
func (q *Queue) Push(target Target, path string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	list := &q.primary
	if target == TargetDebug {
		list = &q.debug
	}

	if len(*list) >= q.maxPerQueue {
		evicted := (*list)[0]
		*list = (*list)[1:]
		if err := os.Remove(evicted); err != nil && !os.IsNotExist(err) {
			log.Printf("screenshots: evict %s: %v", evicted, err)
		}
	}
	*list = append(*list, path)
}

// Primary returns a copy of the main queue, oldest first.
func (q *Queue) Primary() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.primary...)
}

// Debug returns a copy of the auxiliary queue, oldest first.
func (q *Queue) Debug() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.debug...)
}

// ClearAll empties both queues and removes their files from disk.
func (q *Queue) ClearAll() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, path := range append(append([]string(nil), q.primary...), q.debug...) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("screenshots: remove %s: %v", path, err)
		}
	}
	q.primary = nil
	q.debug = nil
}
