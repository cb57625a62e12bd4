// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package processing

import "strings"

// StripCodeFences removes a surrounding markdown code fence from a
// model response, including any language tag on the opening fence,
// and trims surrounding whitespace. Text without fences is returned
// trimmed.
func StripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}

	// Drop the opening fence line ("```" or "```cpp").
	if i := strings.Index(t, "\n"); i >= 0 {
		t = t[i+1:]
	} else {
		// A lone fence with no body.
		return ""
	}

	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}
