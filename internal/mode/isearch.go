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

package mode

import (
	"strings"

	"github.com/agott/kernel/internal/types"
)

// IsearchMode implements incremental search as an interactive,
// match-highlighting state machine: every keystroke recomputes the full
// match set and re-centers on the nearest hit.
//
// IsearchMode holds an immutable snapshot of the target buffer's text
// taken when the search session opens. The buffer being searched cannot be
// edited while the search prompt has focus, so the snapshot cannot go
// stale within one session.
type IsearchMode struct {
	BaseMode

	dir            IsearchDirection
	content        string
	originalCursor types.CharPos
	targetBuffer   types.BufferID
	targetWindow   types.WindowID

	term    string
	matches []Match
	current int
}

// NewIsearchMode starts a search session over content (the target buffer's
// full text) anchored at originalCursor.
func NewIsearchMode(dir IsearchDirection, content string, originalCursor types.CharPos, targetBuffer types.BufferID, targetWindow types.WindowID) *IsearchMode {
	m := &IsearchMode{
		dir:            dir,
		content:        content,
		originalCursor: originalCursor,
		targetBuffer:   targetBuffer,
		targetWindow:   targetWindow,
	}
	m.recompute()
	return m
}

func (m *IsearchMode) Name() string {
	if m.dir == SearchForward {
		return "isearch-forward"
	}
	return "isearch-backward"
}

// charToByte converts a character index into content into a byte offset.
func charToByte(content string, p types.CharPos) int {
	if p <= 0 {
		return 0
	}
	runes := []rune(content)
	if int(p) >= len(runes) {
		return len(content)
	}
	return len(string(runes[:p]))
}

// recompute rescans content for every occurrence of term (case-insensitive,
// overlaps allowed) and picks the match nearest originalCursor: forward
// search prefers the first match at-or-after the cursor, wrapping to the
// first match overall; backward search prefers the last match before the
// cursor, wrapping to the last match overall.
func (m *IsearchMode) recompute() {
	m.matches = nil
	if m.term == "" {
		m.current = 0
		return
	}
	lowerContent := strings.ToLower(m.content)
	lowerTerm := strings.ToLower(m.term)
	for i := 0; i+len(lowerTerm) <= len(lowerContent); i++ {
		if lowerContent[i:i+len(lowerTerm)] == lowerTerm {
			m.matches = append(m.matches, Match{Start: i, End: i + len(lowerTerm)})
		}
	}
	if len(m.matches) == 0 {
		m.current = 0
		return
	}
	anchor := charToByte(m.content, m.originalCursor)
	switch m.dir {
	case SearchForward:
		m.current = 0
		for i, mt := range m.matches {
			if mt.Start >= anchor {
				m.current = i
				return
			}
		}
	case SearchBackward:
		m.current = len(m.matches) - 1
		for i := len(m.matches) - 1; i >= 0; i-- {
			if m.matches[i].Start < anchor {
				m.current = i
				return
			}
		}
		m.current = len(m.matches) - 1
	}
}

func (m *IsearchMode) update() Effect {
	return UpdateIsearch(m.targetBuffer, m.targetWindow, m.matches, m.current)
}

// render regenerates the prompt buffer (the typed term, where the cursor
// sits) and reports the new match set upstream in one effect batch.
func (m *IsearchMode) render() []Effect {
	return []Effect{
		ClearText(),
		InsertText(Absolute(0, 0), m.term+"\n"),
		m.update(),
	}
}

// InitialRender is the effect batch a freshly-opened isearch command
// window applies immediately, before any keystroke (an empty term and
// match set).
func (m *IsearchMode) InitialRender() []Effect { return m.render() }

func (m *IsearchMode) nextMatch() {
	if len(m.matches) == 0 {
		return
	}
	m.current = (m.current + 1) % len(m.matches)
}

func (m *IsearchMode) prevMatch() {
	if len(m.matches) == 0 {
		return
	}
	m.current--
	if m.current < 0 {
		m.current = len(m.matches) - 1
	}
}

func (m *IsearchMode) Perform(action Action) ModeResult {
	if action.IsSelfInsert() {
		m.term += string(action.Rune)
		m.recompute()
		return Consume(m.render()...)
	}
	switch action.Command {
	case "delete-backward-char":
		if len(m.term) > 0 {
			r := []rune(m.term)
			m.term = string(r[:len(r)-1])
			m.recompute()
		}
		return Consume(m.render()...)
	case "isearch-forward", "next-line":
		m.nextMatch()
		return Consume(m.update())
	case "isearch-backward", "previous-line":
		m.prevMatch()
		return Consume(m.update())
	case "newline-and-indent":
		return Consume(AcceptIsearch(m.targetBuffer, m.term))
	case "escape", "keyboard-quit":
		return Consume(CancelIsearch(m.targetBuffer, m.targetWindow, m.originalCursor))
	default:
		return Ignore()
	}
}
