// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package processing

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/jeranaias/snapsolve/internal/clipboard"
	"github.com/jeranaias/snapsolve/internal/events"
	"github.com/jeranaias/snapsolve/internal/screenshots"
	"github.com/jeranaias/snapsolve/internal/state"
	"github.com/jeranaias/snapsolve/internal/window"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrSlotBusy indicates a workflow was started while its slot
	// already held an in-flight operation. The new command is rejected;
	// nothing is emitted and no state changes.
	ErrSlotBusy = errors.New("operation slot busy")

	// ErrNoProblemInfo indicates a debug pass was requested before any
	// extraction was committed.
	ErrNoProblemInfo = errors.New("No problem info available")
)

// =============================================================================
// COLLABORATOR SURFACES
// =============================================================================

// LanguageModel is the analysis surface the workflows consume.
// Implemented by llm.Client; tests inject fakes.
type LanguageModel interface {
	AnalyzeAudioFile(ctx context.Context, path string) (string, error)
	AnalyzeAudioBytes(ctx context.Context, audioB64, format string) (string, error)
	AnalyzeImage(ctx context.Context, path string) (string, error)
	AnalyzeImageMCQ(ctx context.Context, path string) (string, error)
	AnalyzeImageCode(ctx context.Context, path string) (string, error)
	GenerateSolution(ctx context.Context, problem state.ProblemInfo) (string, error)
	DebugSolution(ctx context.Context, solution string, imagePaths []string) (string, error)
}

// Capturer takes a fresh screenshot outside the queues. Used by the
// coding workflow only.
type Capturer interface {
	TakeScreenshot(ctx context.Context) (string, error)
}

// Appender records committed extractions. Append failures are logged,
// never surfaced to the workflow.
type Appender interface {
	Append(kind, problemStatement, difficulty string) (string, error)
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Slot indices.
const (
	slotPrimary = iota
	slotSecondary
	slotCount
)

// slot is one in-flight cancellable operation.
type slot struct {
	id     string
	cancel context.CancelFunc
}

// Deps are the collaborators an Orchestrator runs against. History is
// optional; everything else is required.
type Deps struct {
	Model     LanguageModel
	Bus       *events.Bus
	Store     *state.Store
	Queue     *screenshots.Queue
	Windows   window.Accessor
	Clipboard clipboard.Writer
	Capture   Capturer
	History   Appender
}

// Orchestrator runs the analysis workflows and owns the operation
// slots, the committed problem, and the debug-progress flag.
type Orchestrator struct {
	mu    sync.Mutex
	slots [slotCount]*slot

	model   LanguageModel
	bus     *events.Bus
	store   *state.Store
	queue   *screenshots.Queue
	windows window.Accessor
	clip    clipboard.Writer
	capture Capturer
	history Appender
}

// New creates an orchestrator with empty slots.
func New(deps Deps) *Orchestrator {
	return &Orchestrator{
		model:   deps.Model,
		bus:     deps.Bus,
		store:   deps.Store,
		queue:   deps.Queue,
		windows: deps.Windows,
		clip:    deps.Clipboard,
		capture: deps.Capture,
		history: deps.History,
	}
}

// =============================================================================
// SLOT MANAGEMENT
// =============================================================================

// openSlot claims a slot and returns the operation context. Returns
// ErrSlotBusy when the slot already holds an in-flight operation.
func (o *Orchestrator) openSlot(ctx context.Context, idx int) (context.Context, string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.slots[idx] != nil {
		return nil, "", ErrSlotBusy
	}

	opCtx, cancel := context.WithCancel(ctx)
	id := uuid.New().String()
	o.slots[idx] = &slot{id: id, cancel: cancel}
	return opCtx, id, nil
}

// clearSlot releases a slot. The id guard keeps a late cleanup from a
// cancelled operation from clobbering a newer occupant.
func (o *Orchestrator) clearSlot(idx int, id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.slots[idx]
	if s == nil || s.id != id {
		return
	}
	s.cancel()
	o.slots[idx] = nil
}

// SlotActive reports whether the given slot holds an operation.
// Diagnostic surface for tests and status display.
func (o *Orchestrator) SlotActive(idx int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return idx >= 0 && idx < slotCount && o.slots[idx] != nil
}

// CancelAll signals cancellation on any active slot, clears both, and
// resets the debug-progress flag. Idempotent: empty slots are
// untouched and repeated calls are harmless. The orchestrator is
// immediately ready for new work afterwards.
func (o *Orchestrator) CancelAll() {
	o.mu.Lock()
	for i, s := range o.slots {
		if s != nil {
			s.cancel()
			o.slots[i] = nil
		}
	}
	o.mu.Unlock()

	o.store.SetHasDebugged(false)
}

// =============================================================================
// PRIMARY WORKFLOW
// =============================================================================

// ProcessPrimary runs the extraction workflow for the current view:
// the main queue on the queue view, the debug pass on the debug view.
// With no open window it does nothing.
func (o *Orchestrator) ProcessPrimary(ctx context.Context) error {
	if _, ok := o.windows.Get(); !ok {
		return nil
	}

	if o.store.View() == state.ViewDebug {
		return o.processDebug(ctx)
	}
	return o.processQueue(ctx)
}

// processQueue extracts a problem from the newest artifact in the
// main queue.
func (o *Orchestrator) processQueue(ctx context.Context) error {
	shots := o.queue.Primary()
	if len(shots) == 0 {
		o.bus.Emit(events.TypeNoScreenshots, nil)
		return nil
	}

	latest := shots[len(shots)-1]
	if ClassifyArtifact(latest) == KindAudio {
		return o.processAudio(ctx, latest)
	}
	return o.processImage(ctx, latest)
}

// processAudio runs the audio path. It holds no slot: the audio call
// is a single network round trip with no regeneration stage to cancel
// separately.
func (o *Orchestrator) processAudio(ctx context.Context, path string) error {
	o.bus.Emit(events.TypeInitialStart, nil)
	o.store.SetView(state.ViewResults)

	result, err := o.model.AnalyzeAudioFile(ctx, path)
	if err != nil {
		log.Printf("processing: audio analysis failed for %s: %v", path, err)
		o.bus.Error(events.TypeInitialSolutionError, err.Error())
		return err
	}

	info := state.ProblemInfo{
		ProblemStatement: result,
		TestCases:        []state.TestCase{},
	}
	o.commit(info, "audio")
	return nil
}

// processImage runs the image path under the primary slot.
func (o *Orchestrator) processImage(ctx context.Context, path string) error {
	opCtx, id, err := o.openSlot(ctx, slotPrimary)
	if err != nil {
		log.Printf("processing: extraction rejected: %v", err)
		return err
	}
	defer o.clearSlot(slotPrimary, id)

	o.bus.Emit(events.TypeInitialStart, nil)
	o.store.SetView(state.ViewResults)

	result, err := o.model.AnalyzeImage(opCtx, path)
	if err != nil {
		log.Printf("processing: image analysis failed for %s: %v", path, err)
		o.bus.Error(events.TypeInitialSolutionError, err.Error())
		return err
	}

	info := state.ProblemInfo{
		ProblemStatement: result,
		InputFormat:      state.FormatSpec{Description: "Generated from screenshot"},
		OutputFormat:     state.FormatSpec{Description: "Generated from screenshot"},
		TestCases:        []state.TestCase{},
		ValidationType:   "manual",
		Difficulty:       "custom",
	}
	o.commit(info, "image")
	return nil
}

// processDebug runs the debug pass under the secondary slot.
func (o *Orchestrator) processDebug(ctx context.Context) error {
	shots := o.queue.Debug()
	if len(shots) == 0 {
		o.bus.Emit(events.TypeNoScreenshots, nil)
		return nil
	}

	opCtx, id, err := o.openSlot(ctx, slotSecondary)
	if err != nil {
		log.Printf("processing: debug rejected: %v", err)
		return err
	}
	defer o.clearSlot(slotSecondary, id)

	o.bus.Emit(events.TypeDebugStart, nil)

	problem, ok := o.store.Problem()
	if !ok {
		log.Printf("processing: debug requested with no committed problem")
		o.bus.Error(events.TypeDebugError, ErrNoProblemInfo.Error())
		return ErrNoProblemInfo
	}

	solution, err := o.model.GenerateSolution(opCtx, problem)
	if err != nil {
		log.Printf("processing: solution regeneration failed: %v", err)
		o.bus.Error(events.TypeDebugError, err.Error())
		return err
	}

	result, err := o.model.DebugSolution(opCtx, solution, shots)
	if err != nil {
		log.Printf("processing: debug analysis failed: %v", err)
		o.bus.Error(events.TypeDebugError, err.Error())
		return err
	}

	o.store.SetHasDebugged(true)
	o.bus.Emit(events.TypeDebugSuccess, result)
	return nil
}

// =============================================================================
// MCQ WORKFLOW
// =============================================================================

// ProcessMCQ extracts and answers a multiple-choice question from the
// newest artifact in the main queue. Uses the primary slot.
func (o *Orchestrator) ProcessMCQ(ctx context.Context) error {
	if _, ok := o.windows.Get(); !ok {
		return nil
	}

	shots := o.queue.Primary()
	if len(shots) == 0 {
		o.bus.Emit(events.TypeNoScreenshots, nil)
		return nil
	}
	latest := shots[len(shots)-1]

	opCtx, id, err := o.openSlot(ctx, slotPrimary)
	if err != nil {
		log.Printf("processing: mcq rejected: %v", err)
		return err
	}
	defer o.clearSlot(slotPrimary, id)

	o.bus.Emit(events.TypeInitialStart, nil)
	o.store.SetView(state.ViewResults)

	result, err := o.model.AnalyzeImageMCQ(opCtx, latest)
	if err != nil {
		log.Printf("processing: mcq analysis failed for %s: %v", latest, err)
		o.bus.Error(events.TypeInitialSolutionError, err.Error())
		return err
	}

	info := state.ProblemInfo{
		ProblemStatement: result,
		OutputFormat:     state.FormatSpec{Type: "string", Subtype: "text"},
		TestCases:        []state.TestCase{},
		ValidationType:   "manual",
		Difficulty:       "easy",
	}
	o.commit(info, "mcq")
	return nil
}

// =============================================================================
// CODING WORKFLOW
// =============================================================================

// ProcessCoding captures a fresh screenshot, generates a code
// solution, and places the cleaned code on the clipboard. It commits
// no problem info and transitions no view; the terminal notification
// is the SolutionSuccess event.
func (o *Orchestrator) ProcessCoding(ctx context.Context) error {
	path, err := o.capture.TakeScreenshot(ctx)
	if err != nil {
		log.Printf("processing: coding capture failed: %v", err)
		o.bus.Error(events.TypeInitialSolutionError, err.Error())
		return err
	}

	raw, err := o.model.AnalyzeImageCode(ctx, path)
	if err != nil {
		log.Printf("processing: code analysis failed for %s: %v", path, err)
		o.bus.Error(events.TypeInitialSolutionError, err.Error())
		return err
	}

	code := StripCodeFences(raw)
	if err := o.clip.WriteText(code); err != nil {
		log.Printf("processing: clipboard write failed: %v", err)
		o.bus.Error(events.TypeInitialSolutionError, err.Error())
		return err
	}

	o.bus.Emit(events.TypeSolutionSuccess, state.ProblemInfo{
		ProblemStatement: "Solution copied to clipboard!",
		OutputFormat:     state.FormatSpec{Type: "text", Subtype: "text"},
		ValidationType:   "manual",
	})
	return nil
}

// =============================================================================
// COMMIT
// =============================================================================

// commit publishes and stores a successful extraction, then records it
// in history best-effort.
func (o *Orchestrator) commit(info state.ProblemInfo, kind string) {
	o.bus.Emit(events.TypeProblemExtracted, info)
	o.store.SetProblem(info)

	if o.history != nil {
		if _, err := o.history.Append(kind, info.ProblemStatement, info.Difficulty); err != nil {
			log.Printf("processing: history append failed: %v", err)
		}
	}
}
