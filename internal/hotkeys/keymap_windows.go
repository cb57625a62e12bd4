// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows

package hotkeys

import "golang.design/x/hotkey"

// platformModifiers translates platform-independent modifier flags to
// Win32 modifier codes. CommandOrControl resolves to Control here.
func platformModifiers(flags modFlag) []hotkey.Modifier {
	var mods []hotkey.Modifier
	if flags&flagCmdOrCtrl != 0 {
		mods = append(mods, hotkey.ModCtrl)
	}
	if flags&flagCtrl != 0 {
		mods = append(mods, hotkey.ModCtrl)
	}
	if flags&flagCmd != 0 {
		mods = append(mods, hotkey.ModWin)
	}
	if flags&flagAlt != 0 {
		mods = append(mods, hotkey.ModAlt)
	}
	if flags&flagShift != 0 {
		mods = append(mods, hotkey.ModShift)
	}
	if flags&flagSuper != 0 {
		mods = append(mods, hotkey.ModWin)
	}
	return mods
}
