// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package actions

import (
	"context"
	"time"

	"github.com/jeranaias/snapsolve/internal/events"
	"github.com/jeranaias/snapsolve/internal/hotkeys"
	"github.com/jeranaias/snapsolve/internal/screenshots"
	"github.com/jeranaias/snapsolve/internal/state"
	"github.com/jeranaias/snapsolve/internal/window"
)

// moveStep is the pixel delta for one window-move press.
const moveStep = 50

// defaultRelaxDelay is how long a freshly shown window stays at the
// screen-saver level before relaxing to floating.
const defaultRelaxDelay = 100 * time.Millisecond

// Processor is the orchestration surface the router drives.
type Processor interface {
	ProcessPrimary(ctx context.Context) error
	ProcessMCQ(ctx context.Context) error
	ProcessCoding(ctx context.Context) error
	CancelAll()
}

// Capturer takes a screenshot for the take-screenshot action.
type Capturer interface {
	TakeScreenshot(ctx context.Context) (string, error)
}

// Registrar is the registration surface of hotkeys.Registry.
type Registrar interface {
	Register(accelerator string, cb hotkeys.Callback, description string) bool
	RegisterWithFallback(primary string, fallbacks []string, cb hotkeys.Callback, description string) (bool, string)
}

// Deps are the collaborators the bound actions call into. Preview may
// be nil, in which case screenshots.Preview is used.
type Deps struct {
	Processor Processor
	Bus       *events.Bus
	Store     *state.Store
	Queue     *screenshots.Queue
	Windows   window.Accessor
	Capture   Capturer
	Preview   func(path string) (string, error)
}

// Router installs the accelerator table.
type Router struct {
	deps       Deps
	relaxDelay time.Duration
}

// NewRouter creates a router over the given collaborators.
func NewRouter(deps Deps) *Router {
	if deps.Preview == nil {
		deps.Preview = screenshots.Preview
	}
	return &Router{deps: deps, relaxDelay: defaultRelaxDelay}
}

// Bind registers every action with its primary accelerator and
// fallback chain. Actions whose every candidate is refused stay
// unbound for the session; the registry logs the degradation.
func (rt *Router) Bind(reg Registrar) {
	reg.RegisterWithFallback(
		"CommandOrControl+Shift+Space",
		[]string{"CommandOrControl+Shift+S", "Alt+Shift+Space"},
		rt.showCenterWindow, "Show/Center Window")

	reg.RegisterWithFallback(
		"CommandOrControl+H",
		[]string{"CommandOrControl+Shift+H", "Alt+Shift+H"},
		rt.takeScreenshot, "Take Screenshot")

	reg.RegisterWithFallback(
		"CommandOrControl+Enter",
		[]string{"CommandOrControl+Shift+Enter", "Alt+Shift+Enter"},
		rt.processScreenshots, "Process Screenshots")

	reg.RegisterWithFallback(
		"CommandOrControl+R",
		[]string{"CommandOrControl+Shift+R", "Alt+Shift+R"},
		rt.resetQueues, "Reset Queues")

	reg.Register("Alt+CommandOrControl+Left", rt.moveWindow(-moveStep, 0), "Move Window Left")
	reg.Register("Alt+CommandOrControl+Right", rt.moveWindow(moveStep, 0), "Move Window Right")
	reg.Register("Alt+CommandOrControl+Up", rt.moveWindow(0, -moveStep), "Move Window Up")
	reg.Register("Alt+CommandOrControl+Down", rt.moveWindow(0, moveStep), "Move Window Down")

	reg.Register("CommandOrControl+Shift+M", rt.mcqMode, "MCQ Mode")
	reg.Register("CommandOrControl+Shift+C", rt.codingMode, "Coding Mode")
	reg.Register("Alt+Shift+L", rt.toggleChat, "Toggle Chat")

	reg.RegisterWithFallback(
		"CommandOrControl+B",
		[]string{"CommandOrControl+Shift+B", "Alt+Shift+B", "CommandOrControl+T"},
		rt.toggleWindow, "Toggle Window")
}

// =============================================================================
// ACTIONS
// =============================================================================

func (rt *Router) showCenterWindow() error {
	win, ok := rt.deps.Windows.Get()
	if !ok {
		return nil
	}
	win.Show()
	win.Center()
	return nil
}

// takeScreenshot captures a new artifact into the queue matching the
// current view: the debug view feeds the auxiliary queue, everything
// else feeds the main one.
func (rt *Router) takeScreenshot() error {
	path, err := rt.deps.Capture.TakeScreenshot(context.Background())
	if err != nil {
		return err
	}

	target := screenshots.TargetPrimary
	if rt.deps.Store.View() == state.ViewDebug {
		target = screenshots.TargetDebug
	}
	rt.deps.Queue.Push(target, path)

	preview, err := rt.deps.Preview(path)
	if err != nil {
		// The artifact is queued either way; the preview is cosmetic.
		preview = ""
	}
	rt.deps.Bus.Emit(events.TypeScreenshotTaken, events.Screenshot{Path: path, Preview: preview})
	return nil
}

func (rt *Router) processScreenshots() error {
	return rt.deps.Processor.ProcessPrimary(context.Background())
}

// resetQueues clears both queues, cancels in-flight work, and returns
// to the queue view.
func (rt *Router) resetQueues() error {
	rt.deps.Queue.ClearAll()
	rt.deps.Processor.CancelAll()
	rt.deps.Store.SetView(state.ViewQueue)
	rt.deps.Bus.Emit(events.TypeResetView, nil)
	return nil
}

func (rt *Router) moveWindow(dx, dy int) hotkeys.Callback {
	return func() error {
		if win, ok := rt.deps.Windows.Get(); ok {
			win.MoveBy(dx, dy)
		}
		return nil
	}
}

func (rt *Router) mcqMode() error {
	return rt.deps.Processor.ProcessMCQ(context.Background())
}

func (rt *Router) codingMode() error {
	return rt.deps.Processor.ProcessCoding(context.Background())
}

func (rt *Router) toggleChat() error {
	rt.deps.Bus.Emit(events.TypeToggleChat, nil)
	return nil
}

// toggleWindow hides a visible window. When showing, the window is
// briefly pinned at the screen-saver level to force it over the
// focused application, then relaxed to floating.
func (rt *Router) toggleWindow() error {
	win, ok := rt.deps.Windows.Get()
	if !ok || win.IsDestroyed() {
		return nil
	}

	if win.IsVisible() {
		win.Hide()
		return nil
	}

	win.Show()
	win.SetAlwaysOnTop(true, window.LevelScreenSaver)
	win.Focus()
	time.AfterFunc(rt.relaxDelay, func() {
		if w, ok := rt.deps.Windows.Get(); ok && !w.IsDestroyed() {
			w.SetAlwaysOnTop(true, window.LevelFloating)
		}
	})
	return nil
}
