// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build darwin

package hotkeys

import "golang.design/x/hotkey"

// platformModifiers translates platform-independent modifier flags to
// macOS modifier codes. CommandOrControl resolves to Command here.
func platformModifiers(flags modFlag) []hotkey.Modifier {
	var mods []hotkey.Modifier
	if flags&flagCmdOrCtrl != 0 {
		mods = append(mods, hotkey.ModCmd)
	}
	if flags&flagCtrl != 0 {
		mods = append(mods, hotkey.ModCtrl)
	}
	if flags&flagCmd != 0 {
		mods = append(mods, hotkey.ModCmd)
	}
	if flags&flagAlt != 0 {
		mods = append(mods, hotkey.ModOption)
	}
	if flags&flagShift != 0 {
		mods = append(mods, hotkey.ModShift)
	}
	if flags&flagSuper != 0 {
		mods = append(mods, hotkey.ModCmd)
	}
	return mods
}
