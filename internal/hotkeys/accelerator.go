// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package hotkeys

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// =============================================================================
// ACCELERATOR PARSING
// =============================================================================

// Accelerators use the conventional cross-platform syntax, e.g.
// "CommandOrControl+Shift+Space": zero or more modifiers followed by
// exactly one key, joined with "+". Parsing is case-insensitive.

// modFlag is a platform-independent modifier bit. The translation to
// OS modifier codes lives in the per-platform keymap files.
type modFlag uint8

const (
	flagCmdOrCtrl modFlag = 1 << iota
	flagCtrl
	flagCmd
	flagAlt
	flagShift
	flagSuper
)

// canonicalOrder fixes the modifier order used in canonical strings so
// that "Shift+Ctrl+S" and "Ctrl+Shift+S" resolve to the same combo.
var canonicalOrder = []struct {
	flag modFlag
	name string
}{
	{flagCmdOrCtrl, "cmdorctrl"},
	{flagCtrl, "ctrl"},
	{flagCmd, "cmd"},
	{flagAlt, "alt"},
	{flagShift, "shift"},
	{flagSuper, "super"},
}

// modNames maps accepted modifier spellings to flags.
var modNames = map[string]modFlag{
	"commandorcontrol": flagCmdOrCtrl,
	"cmdorctrl":        flagCmdOrCtrl,
	"control":          flagCtrl,
	"ctrl":             flagCtrl,
	"command":          flagCmd,
	"cmd":              flagCmd,
	"alt":              flagAlt,
	"option":           flagAlt,
	"shift":            flagShift,
	"super":            flagSuper,
	"meta":             flagSuper,
	"win":              flagSuper,
}

// keyNames maps accepted key spellings to hotkey key codes. The named
// constants exist on every supported platform.
var keyNames = map[string]hotkey.Key{
	"space":  hotkey.KeySpace,
	"enter":  hotkey.KeyReturn,
	"return": hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"esc":    hotkey.KeyEscape,
	"tab":    hotkey.KeyTab,
	"delete": hotkey.KeyDelete,

	"up":    hotkey.KeyUp,
	"down":  hotkey.KeyDown,
	"left":  hotkey.KeyLeft,
	"right": hotkey.KeyRight,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,

	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3,
	"f4": hotkey.KeyF4, "f5": hotkey.KeyF5, "f6": hotkey.KeyF6,
	"f7": hotkey.KeyF7, "f8": hotkey.KeyF8, "f9": hotkey.KeyF9,
	"f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
}

// keyAliases folds alternate key spellings into one canonical name so
// "Ctrl+Return" and "Ctrl+Enter" resolve to the same combo.
var keyAliases = map[string]string{
	"return": "enter",
	"esc":    "escape",
}

// Combo is a parsed accelerator: a modifier set plus one key, with a
// canonical string form usable as a table key.
type Combo struct {
	flags     modFlag
	key       hotkey.Key
	canonical string
}

// String returns the canonical form, e.g. "cmdorctrl+shift+space".
func (c Combo) String() string {
	return c.canonical
}

// Modifiers returns the OS modifier codes for this platform.
func (c Combo) Modifiers() []hotkey.Modifier {
	return platformModifiers(c.flags)
}

// Key returns the OS key code.
func (c Combo) Key() hotkey.Key {
	return c.key
}

// ParseAccelerator parses an accelerator string into a Combo.
func ParseAccelerator(accelerator string) (Combo, error) {
	parts := strings.Split(accelerator, "+")
	if len(parts) == 0 || strings.TrimSpace(accelerator) == "" {
		return Combo{}, fmt.Errorf("empty accelerator")
	}

	var flags modFlag
	var key hotkey.Key
	haveKey := false

	for i, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			return Combo{}, fmt.Errorf("accelerator %q has an empty token", accelerator)
		}

		if flag, ok := modNames[token]; ok {
			if flags&flag != 0 {
				return Combo{}, fmt.Errorf("accelerator %q repeats modifier %q", accelerator, token)
			}
			flags |= flag
			continue
		}

		k, ok := keyNames[token]
		if !ok {
			return Combo{}, fmt.Errorf("accelerator %q has unknown token %q", accelerator, token)
		}
		if haveKey {
			return Combo{}, fmt.Errorf("accelerator %q has more than one key", accelerator)
		}
		if i != len(parts)-1 {
			return Combo{}, fmt.Errorf("accelerator %q must end with its key", accelerator)
		}
		key = k
		haveKey = true
	}

	if !haveKey {
		return Combo{}, fmt.Errorf("accelerator %q has no key", accelerator)
	}

	keyToken := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	if alias, ok := keyAliases[keyToken]; ok {
		keyToken = alias
	}

	return Combo{flags: flags, key: key, canonical: canonicalString(flags, keyToken)}, nil
}

// canonicalString builds the normalized combo name.
func canonicalString(flags modFlag, keyToken string) string {
	var sb strings.Builder
	for _, m := range canonicalOrder {
		if flags&m.flag != 0 {
			sb.WriteString(m.name)
			sb.WriteByte('+')
		}
	}
	sb.WriteString(keyToken)
	return sb.String()
}
