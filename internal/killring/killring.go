//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package killring implements the editor-wide kill ring: a bounded history
// of killed text that supports both single-yank and yank-then-cycle
// retrieval, and coalesces a run of consecutive kills into one entry the
// way Emacs's kill-append does. The history is capped, so a later yank can
// reach back only so far past the most recent kill.
package killring

const capacity = 60

// Ring is a bounded kill history shared by every buffer in one editor.
type Ring struct {
	entries []string
	// sequence is set by every kill and cleared only by BreakSequence; it
	// controls whether the next Kill call appends to the most recent entry
	// (Kill/KillPrepend) or starts a new one.
	sequence bool
	// cursor indexes the entry most recently handed out by Yank/YankNext,
	// so repeated yank-cycling walks the ring back in time.
	cursor int
}

// New returns an empty kill ring.
func New() *Ring {
	return &Ring{}
}

// Kill appends text to the end of the most recent entry if a kill sequence
// is open, or pushes a new entry otherwise.
func (r *Ring) Kill(text string) {
	if text == "" {
		return
	}
	if r.sequence && len(r.entries) > 0 {
		last := len(r.entries) - 1
		r.entries[last] = r.entries[last] + text
	} else {
		r.push(text)
	}
	r.sequence = true
	r.cursor = len(r.entries) - 1
}

// KillPrepend is Kill's mirror for backward kills (e.g. backward-kill-word):
// text is joined before the open entry instead of after it.
func (r *Ring) KillPrepend(text string) {
	if text == "" {
		return
	}
	if r.sequence && len(r.entries) > 0 {
		last := len(r.entries) - 1
		r.entries[last] = text + r.entries[last]
	} else {
		r.push(text)
	}
	r.sequence = true
	r.cursor = len(r.entries) - 1
}

func (r *Ring) push(text string) {
	r.entries = append(r.entries, text)
	if len(r.entries) > capacity {
		r.entries = r.entries[len(r.entries)-capacity:]
	}
}

// BreakSequence ends the current kill-append run; the next Kill or
// KillPrepend starts a fresh entry even if it immediately follows another
// kill command.
func (r *Ring) BreakSequence() {
	r.sequence = false
}

// Current returns the most recently killed text, or "" if the ring is
// empty.
func (r *Ring) Current() string {
	if len(r.entries) == 0 {
		return ""
	}
	return r.entries[len(r.entries)-1]
}

// Yank returns the most recent entry for a plain yank command and resets
// the cycling cursor to it, so a following YankNext starts one entry back.
func (r *Ring) Yank() (string, bool) {
	if len(r.entries) == 0 {
		return "", false
	}
	r.cursor = len(r.entries) - 1
	return r.entries[r.cursor], true
}

// YankNext walks the cursor one entry further into the past and returns the
// text there, for yank-pop-style cycling immediately after a yank. It wraps
// around to the most recent entry once it passes the oldest.
func (r *Ring) YankNext() (string, bool) {
	if len(r.entries) == 0 {
		return "", false
	}
	r.cursor--
	if r.cursor < 0 {
		r.cursor = len(r.entries) - 1
	}
	return r.entries[r.cursor], true
}

// YankIndex returns the i-th entry counting back from the most recent (0 is
// the newest, matching C-M-y's "yank an older kill by position" semantics).
// ok is false if i is out of range.
func (r *Ring) YankIndex(i int) (string, bool) {
	if i < 0 || i >= len(r.entries) {
		return "", false
	}
	idx := len(r.entries) - 1 - i
	return r.entries[idx], true
}

// Len reports how many entries the ring currently holds.
func (r *Ring) Len() int { return len(r.entries) }
