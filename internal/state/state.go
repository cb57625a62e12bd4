// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package state holds the shared problem state produced by analysis
// workflows and read by the presentation layer.
package state

import "sync"

// =============================================================================
// VIEW
// =============================================================================

// View identifies which surface the assistant is currently showing.
type View string

const (
	// ViewQueue shows the pending screenshot queue.
	ViewQueue View = "queue"

	// ViewResults shows the extracted problem and generated solution.
	ViewResults View = "results"

	// ViewDebug shows the debug workflow over auxiliary screenshots.
	ViewDebug View = "debug"
)

// String returns the view name.
func (v View) String() string {
	return string(v)
}

// =============================================================================
// PROBLEM INFO
// =============================================================================

// FormatSpec describes an input or output format descriptor.
type FormatSpec struct {
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Subtype     string `json:"subtype,omitempty"`
}

// TestCase is a single example case attached to an extracted problem.
type TestCase struct {
	Input    any `json:"input"`
	Expected any `json:"expected"`
}

// ProblemInfo is the structured record produced by a successful
// extraction. It is committed whole or not at all: a failed analysis
// never writes a partial record.
type ProblemInfo struct {
	ProblemStatement string     `json:"problem_statement"`
	InputFormat      FormatSpec `json:"input_format"`
	OutputFormat     FormatSpec `json:"output_format"`
	Complexity       string     `json:"complexity,omitempty"`
	TestCases        []TestCase `json:"test_cases"`
	ValidationType   string     `json:"validation_type"`
	Difficulty       string     `json:"difficulty"`
}

// =============================================================================
// STORE
// =============================================================================

// Store is the single shared record of view, committed problem, and
// debug progress. The processing orchestrator is its only writer;
// everything else reads through the accessors.
type Store struct {
	mu          sync.RWMutex
	view        View
	problem     ProblemInfo
	hasProblem  bool
	hasDebugged bool
}

// NewStore creates a store starting on the queue view.
func NewStore() *Store {
	return &Store{view: ViewQueue}
}

// View returns the current view.
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// SetView transitions to the given view.
func (s *Store) SetView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

// Problem returns the committed problem info and whether one exists.
// Callers must branch on ok rather than assume presence.
func (s *Store) Problem() (ProblemInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.problem, s.hasProblem
}

// SetProblem commits an extraction result.
func (s *Store) SetProblem(p ProblemInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.problem = p
	s.hasProblem = true
}

// ClearProblem removes the committed problem info.
func (s *Store) ClearProblem() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.problem = ProblemInfo{}
	s.hasProblem = false
}

// HasDebugged reports whether a debug pass has completed this session.
func (s *Store) HasDebugged() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasDebugged
}

// SetHasDebugged records debug progress.
func (s *Store) SetHasDebugged(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasDebugged = v
}
