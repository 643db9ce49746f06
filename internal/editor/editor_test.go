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
package editor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agott/kernel/internal/keys"
	"github.com/agott/kernel/internal/obs"
	"github.com/agott/kernel/internal/types"
	"github.com/agott/kernel/internal/wintree"
)

func newTestEditor(rows, cols int) *Editor {
	return New(types.Size{Rows: rows, Cols: cols}, nil, obs.Discard())
}

// TestSplitAndDeleteWindowPromotesSibling: split-window-below/right
// commands build the expected tree shape and delete-window promotes the
// surviving sibling.
func TestSplitAndDeleteWindowPromotesSibling(t *testing.T) {
	e := newTestEditor(24, 80)
	a := e.active

	e.ExecuteCommand("split-window-below")
	require.True(t, e.tree.Contains(a))
	require.Len(t, e.tree.Leaves(), 2)

	e.focusWindow(a)
	e.ExecuteCommand("split-window-right")
	require.Len(t, e.tree.Leaves(), 3)

	active := e.active
	e.ExecuteCommand("delete-window")
	require.Len(t, e.tree.Leaves(), 2)
	assert.NotEqual(t, active, e.active, "the deleted window's active status moves to the window that expanded into its place")
}

// TestDeleteLastWindowIsRefused asserts the editor won't let the sole
// window close.
func TestDeleteLastWindowIsRefused(t *testing.T) {
	e := newTestEditor(24, 80)
	e.ExecuteCommand("delete-window")
	assert.Len(t, e.tree.Leaves(), 1)
	assert.Contains(t, e.EchoArea().Current(), "Cannot delete")
}

// TestAutoScrollFollowsCursorDownThenUp: a cursor that advances past the
// visible window pulls the scroll anchor forward, and moving back above
// it snaps the view to the cursor's line.
func TestAutoScrollFollowsCursorDownThenUp(t *testing.T) {
	e := newTestEditor(10, 80) // window height 10 -> content_height 7
	w := e.windows[e.active]
	buf := e.buffers[w.buffer]

	lines := make([]string, 40)
	for i := range lines {
		lines[i] = "line"
	}
	buf.Insert(0, strings.Join(lines, "\n"))

	for i := 0; i < 20; i++ {
		e.HandleKeyEvent(keys.KeyEvent{Logical: keys.KeyArrowDown})
	}
	_, cursorLine := buf.ToColumnLine(w.cursor)
	assert.Equal(t, 20, cursorLine)
	assert.True(t, cursorLine < w.scrollLine+7, "cursor must stay inside the visible window")
	assert.True(t, cursorLine >= w.scrollLine, "cursor must not scroll past the top of the visible window")

	for i := 0; i < 15; i++ {
		e.HandleKeyEvent(keys.KeyEvent{Logical: keys.KeyArrowUp})
	}
	assert.Equal(t, 5, w.scrollLine, "scrolling above the window snaps start_line to the cursor's line")
}

// TestIsearchSessionMovesAndRestoresCursor drives a whole search session
// through the key pipeline: C-s opens the prompt, typing narrows the
// matches and moves the searched window's cursor, C-s advances with wrap
// behavior, and Escape restores the original cursor and highlights.
func TestIsearchSessionMovesAndRestoresCursor(t *testing.T) {
	e := newTestEditor(24, 80)
	target := e.active
	buf := e.buffers[e.windows[target].buffer]
	buf.Insert(0, "abc abc abc")

	e.HandleKeyEvent(keys.Ctrl('s'))
	require.NotEqual(t, target, e.active, "isearch opens a focused command window")

	for _, r := range "abc" {
		e.HandleKeyEvent(keys.Rune(r))
	}
	assert.Equal(t, types.CharPos(3), e.windows[target].cursor, "cursor lands at the current match's end")
	assert.NotEmpty(t, buf.Highlights())

	e.HandleKeyEvent(keys.Ctrl('s'))
	assert.Equal(t, types.CharPos(7), e.windows[target].cursor, "C-s advances to the next match")

	e.HandleKeyEvent(keys.Logical(keys.KeyEsc))
	assert.Equal(t, target, e.active, "cancel returns focus to the searched window")
	assert.Equal(t, types.CharPos(0), e.windows[target].cursor, "cancel restores the original cursor")
	assert.Empty(t, buf.Highlights())
}

// TestCancelClearsMarkBeforeEchoingQuit: C-g's fallback order is close
// command window, then deactivate the mark, then announce the quit.
func TestCancelClearsMarkBeforeEchoingQuit(t *testing.T) {
	e := newTestEditor(24, 80)
	buf := e.buffers[e.windows[e.active].buffer]
	buf.Insert(0, "abc")
	buf.SetMark(1, false)

	e.HandleKeyEvent(keys.Ctrl('g'))
	_, ok := buf.Mark()
	assert.False(t, ok)
	assert.Empty(t, e.EchoArea().Current())

	e.HandleKeyEvent(keys.Ctrl('g'))
	assert.Equal(t, "Quit", e.EchoArea().Current())
}

// TestFailedChordDoesNotSelfInsertTrailingRune: C-x q matches nothing;
// the trailing plain rune must be reported undefined with the chord, not
// inserted into the buffer.
func TestFailedChordDoesNotSelfInsertTrailingRune(t *testing.T) {
	e := newTestEditor(24, 80)
	buf := e.buffers[e.windows[e.active].buffer]

	e.HandleKeyEvent(keys.Ctrl('x'))
	e.HandleKeyEvent(keys.Rune('q'))

	assert.Equal(t, "", buf.Text())
	assert.Contains(t, e.EchoArea().Current(), "undefined")
}

// TestMouseDragResizesAdjacentSplit: pressing on the vertical border
// between two side-by-side windows and dragging adjusts that split's
// ratio by delta*sensitivity, clamped to [0.15, 0.85].
func TestMouseDragResizesAdjacentSplit(t *testing.T) {
	e := newTestEditor(24, 80)
	e.ExecuteCommand("split-window-right")

	layout := wintree.Layout(e.tree, wintree.Rect{W: 80, H: 24})
	var borderX, borderY int
	for _, r := range layout {
		if r.X+r.W < 80 {
			borderX, borderY = r.X+r.W, r.Y
			break
		}
	}
	require.NotZero(t, borderX)

	e.HandleMouseEvent(keys.MouseEvent{Kind: keys.MouseDown, Column: borderX, Row: borderY})
	require.NotNil(t, e.mouseDrag)

	e.HandleMouseEvent(keys.MouseEvent{Kind: keys.MouseDrag, Column: borderX + 10, Row: borderY})
	ratio := e.tree.Ratio
	assert.InDelta(t, 0.55, ratio, 0.01)

	e.HandleMouseEvent(keys.MouseEvent{Kind: keys.MouseUp, Column: borderX + 10, Row: borderY})
	assert.Nil(t, e.mouseDrag)
}
