// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package hotkeys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.design/x/hotkey"
)

func TestParseAcceleratorCanonicalForm(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CommandOrControl+Shift+Space", "cmdorctrl+shift+space"},
		{"Shift+CmdOrCtrl+Space", "cmdorctrl+shift+space"},
		{"CommandOrControl+Enter", "cmdorctrl+enter"},
		{"CommandOrControl+Return", "cmdorctrl+enter"},
		{"Alt+CommandOrControl+Left", "cmdorctrl+alt+left"},
		{"Alt+Shift+L", "alt+shift+l"},
		{"ctrl+shift+m", "ctrl+shift+m"},
		{"Super+F5", "super+f5"},
	}

	for _, tt := range tests {
		combo, err := ParseAccelerator(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, combo.String(), tt.in)
	}
}

func TestParseAcceleratorKeyCodes(t *testing.T) {
	combo, err := ParseAccelerator("CommandOrControl+Shift+Space")
	require.NoError(t, err)
	assert.Equal(t, hotkey.KeySpace, combo.Key())
	assert.Len(t, combo.Modifiers(), 2)

	combo, err = ParseAccelerator("Alt+CmdOrCtrl+Up")
	require.NoError(t, err)
	assert.Equal(t, hotkey.KeyUp, combo.Key())
}

func TestParseAcceleratorRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"Ctrl+",
		"Ctrl+Shift",       // no key
		"Ctrl+Bogus",       // unknown key
		"Ctrl+H+J",         // two keys
		"H+Ctrl",           // key before modifier
		"Ctrl+Ctrl+H",      // repeated modifier
		"Hyper+H",          // unknown modifier
	}

	for _, in := range bad {
		_, err := ParseAccelerator(in)
		assert.Error(t, err, "expected %q to be rejected", in)
	}
}

func TestParseAcceleratorCaseInsensitive(t *testing.T) {
	a, err := ParseAccelerator("COMMANDORCONTROL+SHIFT+S")
	require.NoError(t, err)
	b, err := ParseAccelerator("commandorcontrol+shift+s")
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, a.Key(), b.Key())
}
