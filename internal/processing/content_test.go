// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package processing

import "testing"

func TestClassifyArtifact(t *testing.T) {
	cases := []struct {
		path string
		want ContentKind
	}{
		{"shot1.png", KindImage},
		{"voice.mp3", KindAudio},
		{"recording.WAV", KindAudio},
		{"memo.m4a", KindAudio},
		{"clip.ogg", KindAudio},
		{"capture.webm", KindAudio},
		{"diagram.jpeg", KindImage},
		{"noextension", KindImage},
		{"/tmp/queue/voice.mp3", KindAudio},
		{"archive.mp3.png", KindImage},
	}
	for _, tc := range cases {
		if got := ClassifyArtifact(tc.path); got != tc.want {
			t.Errorf("ClassifyArtifact(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestContentKindString(t *testing.T) {
	if KindAudio.String() != "audio" || KindImage.String() != "image" {
		t.Error("unexpected kind names")
	}
}
