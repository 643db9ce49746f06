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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agott/kernel/internal/types"
)

// TestIsearchWrapScenario: in "abc abc abc" with the original cursor at 0,
// a forward search for "abc" finds three matches, C-s three times cycles
// current through 1, 2, 0 (wrapping), and cancel restores the original
// cursor.
func TestIsearchWrapScenario(t *testing.T) {
	m := NewIsearchMode(SearchForward, "abc abc abc", 0, types.BufferID(1), types.WindowID(1))

	for _, r := range "abc" {
		res := m.Perform(Action{Rune: r})
		assert.Equal(t, Consumed, res.Verdict)
	}
	assert.Equal(t, []Match{{0, 3}, {4, 7}, {8, 11}}, m.matches)
	assert.Equal(t, 0, m.current)

	res := m.Perform(Cmd("isearch-forward"))
	assert.Equal(t, Consumed, res.Verdict)
	assert.Equal(t, 1, m.current)

	m.Perform(Cmd("isearch-forward"))
	assert.Equal(t, 2, m.current)

	m.Perform(Cmd("isearch-forward"))
	assert.Equal(t, 0, m.current, "third C-s should wrap back to the first match")

	res = m.Perform(Cmd("escape"))
	assert.Equal(t, Consumed, res.Verdict)
	eff := res.Effects[0]
	assert.Equal(t, EffectCancelIsearch, eff.Kind)
	assert.Equal(t, types.CharPos(0), eff.OriginalCursor)
}

// TestIsearchBackwardPrefersNearestMatchBeforeCursor exercises the
// direction-specific anchor rule: backward search prefers the last match
// strictly before the original cursor, wrapping to the last match overall
// when none qualifies.
func TestIsearchBackwardPrefersNearestMatchBeforeCursor(t *testing.T) {
	m := NewIsearchMode(SearchBackward, "abc abc abc", 6, types.BufferID(1), types.WindowID(1))
	for _, r := range "abc" {
		m.Perform(Action{Rune: r})
	}
	assert.Equal(t, 1, m.current, "(0,3) and (4,7) both start before cursor 6; the later one wins")
}
