// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package processing

import (
	"path/filepath"
	"strings"
)

// ContentKind classifies a captured artifact by how it must be
// analyzed. The set is closed: anything that is not audio is treated
// as an image.
type ContentKind int

const (
	// KindImage routes to the vision analysis path.
	KindImage ContentKind = iota

	// KindAudio routes to the audio analysis path.
	KindAudio
)

// String returns the kind name.
func (k ContentKind) String() string {
	if k == KindAudio {
		return "audio"
	}
	return "image"
}

// audioSuffixes are the artifact extensions routed to audio analysis.
var audioSuffixes = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".ogg":  true,
	".webm": true,
}

// ClassifyArtifact routes an artifact path to its analysis kind based
// on the filename suffix.
func ClassifyArtifact(path string) ContentKind {
	if audioSuffixes[strings.ToLower(filepath.Ext(path))] {
		return KindAudio
	}
	return KindImage
}
