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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agott/kernel/internal/types"
)

func paletteWith(names ...string) *SelectionMenu {
	entries := make([]MenuEntry, len(names))
	for i, n := range names {
		entries[i] = MenuEntry{Label: n}
	}
	return NewPaletteMode(entries, 10)
}

// renderedContent extracts the menu text a ClearText+InsertText effect pair
// would leave in the command window's buffer.
func renderedContent(t *testing.T, res ModeResult) string {
	t.Helper()
	require.Equal(t, Consumed, res.Verdict)
	require.Len(t, res.Effects, 2)
	require.Equal(t, EffectClearText, res.Effects[0].Kind)
	require.Equal(t, EffectInsertText, res.Effects[1].Kind)
	require.Equal(t, AtAbsolute, res.Effects[1].Position.Kind)
	return res.Effects[1].Text
}

func TestFilterNarrowsAndRerenders(t *testing.T) {
	m := paletteWith("save-buffer", "split-window-right", "quit")

	var res ModeResult
	for _, r := range "spl" {
		res = m.Perform(SelfInsert(r))
	}
	content := renderedContent(t, res)
	assert.Contains(t, content, "split-window-right")
	assert.NotContains(t, content, "quit")
	assert.Contains(t, content, "> split-window-right", "sole match is selected")
}

func TestBackspaceWidensFilter(t *testing.T) {
	m := paletteWith("save-buffer", "quit")
	m.Perform(SelfInsert('q'))
	res := m.Perform(Cmd("delete-backward-char"))
	content := renderedContent(t, res)
	assert.Contains(t, content, "save-buffer")
	assert.Contains(t, content, "quit")
}

func TestArrowsMoveSelectionAndTabWraps(t *testing.T) {
	m := paletteWith("alpha", "beta", "gamma")

	res := m.Perform(Cmd("next-line"))
	assert.Contains(t, renderedContent(t, res), "> beta")

	res = m.Perform(Cmd("previous-line"))
	assert.Contains(t, renderedContent(t, res), "> alpha")

	// Tab cycles forward and wraps past the end
	m.Perform(Cmd("indent-line"))
	m.Perform(Cmd("indent-line"))
	res = m.Perform(Cmd("indent-line"))
	assert.Contains(t, renderedContent(t, res), "> alpha")
}

func TestEnterCommitsSelectedEntry(t *testing.T) {
	m := paletteWith("save-buffer", "quit")
	m.Perform(Cmd("next-line"))

	res := m.Perform(Cmd("newline-and-indent"))
	require.Equal(t, Consumed, res.Verdict)
	require.Len(t, res.Effects, 1)
	assert.Equal(t, EffectExecuteCommand, res.Effects[0].Kind)
	assert.Equal(t, "quit", res.Effects[0].Name)
}

func TestPaletteCommitsUnmatchedFilterAsCommand(t *testing.T) {
	m := paletteWith("save-buffer")
	for _, r := range ":42" {
		m.Perform(SelfInsert(r))
	}
	res := m.Perform(Cmd("newline-and-indent"))
	require.Equal(t, Consumed, res.Verdict)
	require.Len(t, res.Effects, 1)
	assert.Equal(t, EffectExecuteCommand, res.Effects[0].Kind)
	assert.Equal(t, ":42", res.Effects[0].Name)
}

func TestFileSelectorOpensTypedPathWhenNothingMatches(t *testing.T) {
	m := NewFileSelectorMode([]MenuEntry{{Label: "main.go", Path: "main.go"}}, 10)
	for _, r := range "notes.txt" {
		m.Perform(SelfInsert(r))
	}
	res := m.Perform(Cmd("newline-and-indent"))
	require.Equal(t, Consumed, res.Verdict)
	require.Len(t, res.Effects, 1)
	assert.Equal(t, EffectOpenFile, res.Effects[0].Kind)
	assert.Equal(t, "notes.txt", res.Effects[0].Path)
	assert.Equal(t, OpenNew, res.Effects[0].OpenType)
}

func TestBufferSwitchCommitCarriesBufferID(t *testing.T) {
	m := NewBufferSwitchMode([]MenuEntry{
		{Label: "*scratch*", BufferID: types.BufferID(1)},
		{Label: "notes", BufferID: types.BufferID(2)},
	}, 10)
	m.Preselect("notes")

	res := m.Perform(Cmd("newline-and-indent"))
	require.Equal(t, Consumed, res.Verdict)
	assert.Equal(t, EffectSwitchToBuffer, res.Effects[0].Kind)
	assert.Equal(t, types.BufferID(2), res.Effects[0].BufferID)
}

func TestVisibleWindowCentersSelection(t *testing.T) {
	names := make([]string, 30)
	for i := range names {
		names[i] = string(rune('a'+i%26)) + strings.Repeat("x", i/26+1)
	}
	m := NewSelectionMenu("t", func() []MenuEntry {
		es := make([]MenuEntry, len(names))
		for i, n := range names {
			es[i] = MenuEntry{Label: n}
		}
		return es
	}(), 5, func(e MenuEntry) Effect { return ExecuteCommand(e.Label) })

	for i := 0; i < 15; i++ {
		m.Perform(Cmd("next-line"))
	}
	res := m.Perform(Cmd("next-line"))
	content := renderedContent(t, res)
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	assert.Len(t, lines, 6, "the filter line plus the visible window")
	assert.Contains(t, content, "> "+names[16])
}
