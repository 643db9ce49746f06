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
package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleKeyBindingResolves(t *testing.T) {
	b := DefaultBindings()
	var state KeyState

	res := b.Keystroke(&state, Ctrl('k'))
	require.Equal(t, Resolved, res.Kind)
	assert.Equal(t, "kill-line", res.Command)
	assert.False(t, state.Pending())
}

func TestChordPrefixWaitsThenResolves(t *testing.T) {
	b := DefaultBindings()
	var state KeyState

	res := b.Keystroke(&state, Ctrl('x'))
	require.Equal(t, ChordNext, res.Kind)
	assert.Equal(t, "C-x", res.Chord)
	assert.True(t, state.Pending())

	res = b.Keystroke(&state, Ctrl('s'))
	require.Equal(t, Resolved, res.Kind)
	assert.Equal(t, "save-buffer", res.Command)
	assert.Equal(t, "C-x C-s", res.Chord)
	assert.False(t, state.Pending())
}

func TestUnboundChordResetsState(t *testing.T) {
	b := DefaultBindings()
	var state KeyState

	b.Keystroke(&state, Ctrl('x'))
	res := b.Keystroke(&state, Ctrl('q'))
	require.Equal(t, NoBinding, res.Kind)
	assert.Equal(t, "C-x C-q", res.Chord)
	assert.False(t, state.Pending())

	// the failed chord must not poison the next keystroke
	res = b.Keystroke(&state, Ctrl('k'))
	assert.Equal(t, Resolved, res.Kind)
}

func TestPlainRuneIsUnbound(t *testing.T) {
	b := DefaultBindings()
	var state KeyState

	res := b.Keystroke(&state, Rune('a'))
	assert.Equal(t, NoBinding, res.Kind, "self-insert is the editor's fallback, not a binding")
}

func TestLogicalKeyNamesInChordDisplay(t *testing.T) {
	b := NewBindings()
	b.Bind("page-thing", Logical(KeyPageDown))
	var state KeyState

	res := b.Keystroke(&state, Logical(KeyPageDown))
	require.Equal(t, Resolved, res.Kind)
	assert.Equal(t, "<next>", res.Chord)
}

func TestCtrlSpaceEncodesAsSPC(t *testing.T) {
	b := DefaultBindings()
	var state KeyState

	res := b.Keystroke(&state, Ctrl(' '))
	require.Equal(t, Resolved, res.Kind)
	assert.Equal(t, "set-mark", res.Command)
	assert.Equal(t, "C-SPC", res.Chord)
}

func TestRebindReplacesCommand(t *testing.T) {
	b := NewBindings()
	b.Bind("first", Ctrl('t'))
	b.Bind("second", Ctrl('t'))
	var state KeyState

	res := b.Keystroke(&state, Ctrl('t'))
	assert.Equal(t, "second", res.Command)
}
