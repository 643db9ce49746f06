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
package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agott/kernel/internal/types"
)

func TestColumnLineRoundTrip(t *testing.T) {
	b := FromText(1, "t", "", "hello\nworld\nfoo")
	for _, p := range []types.CharPos{0, 3, 5, 6, 11, 12, 15} {
		col, line := b.ToColumnLine(p)
		assert.Equal(t, p, b.ToCharIndex(col, line), "position %d", p)
	}
}

func TestInsertThenDeleteIsIdentity(t *testing.T) {
	b := FromText(1, "t", "", "hello world")
	b.Insert(5, ", there")
	assert.Equal(t, "hello, there world", b.Text())
	b.Delete(5, types.CharPos(5+len(", there")))
	assert.Equal(t, "hello world", b.Text())
}

func TestDeleteCountRefusesEscapingRanges(t *testing.T) {
	b := FromText(1, "t", "", "abc")

	_, ok := b.DeleteCount(0, -1)
	assert.False(t, ok, "deleting before the buffer start must fail")
	_, ok = b.DeleteCount(3, 1)
	assert.False(t, ok, "deleting past the buffer end must fail")
	_, ok = b.DeleteCount(1, 0)
	assert.False(t, ok)
	assert.Equal(t, "abc", b.Text())

	removed, ok := b.DeleteCount(3, -2)
	require.True(t, ok)
	assert.Equal(t, "bc", removed)
	assert.Equal(t, "a", b.Text())
}

func TestDeleteRangeReturnsRemovedText(t *testing.T) {
	b := FromText(1, "t", "", "hello world")
	removed, ok := b.DeleteRange(5, 11)
	require.True(t, ok)
	assert.Equal(t, " world", removed)
	assert.Equal(t, "hello", b.Text())

	_, ok = b.DeleteRange(4, 4)
	assert.False(t, ok)
	_, ok = b.DeleteRange(2, 99)
	assert.False(t, ok)
}

func TestUndoUntilExhaustedIsIdentity(t *testing.T) {
	original := "hello world"
	b := FromText(1, "t", "", original)
	b.Insert(5, "!!!")
	b.Boundary()
	b.Delete(0, 5)
	b.Boundary()
	b.Insert(0, "HELLO")
	b.Boundary()
	require.NotEqual(t, original, b.Text())

	for b.CanUndo() {
		_, ok := b.Undo()
		require.True(t, ok)
	}
	assert.Equal(t, original, b.Text())
	assert.False(t, b.CanUndo())
}

func TestRedoReappliesUndoneEdit(t *testing.T) {
	b := FromText(1, "t", "", "abc")
	b.Insert(3, "def")
	b.Boundary()
	assert.Equal(t, "abcdef", b.Text())

	pos, ok := b.Undo()
	require.True(t, ok)
	assert.Equal(t, "abc", b.Text())
	assert.Equal(t, types.CharPos(3), pos)

	pos, ok = b.Redo()
	require.True(t, ok)
	assert.Equal(t, "abcdef", b.Text())
	assert.Equal(t, types.CharPos(6), pos)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	b := New(1, "t")
	b.Insert(0, "ab")
	b.Insert(2, "cd")
	b.Boundary()
	b.Insert(4, "ef")

	_, ok := b.Undo()
	require.True(t, ok)
	assert.Equal(t, "abcd", b.Text(), "the two pre-boundary inserts undo as one group")

	_, ok = b.Undo()
	require.True(t, ok)
	assert.Equal(t, "", b.Text())

	_, ok = b.Redo()
	require.True(t, ok)
	assert.Equal(t, "abcd", b.Text())

	_, ok = b.Redo()
	require.True(t, ok)
	assert.Equal(t, "abcdef", b.Text())
}

func TestNewEditClearsRedoStack(t *testing.T) {
	b := New(1, "t")
	b.Insert(0, "abc")
	b.Boundary()
	_, ok := b.Undo()
	require.True(t, ok)
	require.True(t, b.CanRedo())

	b.Insert(0, "xyz")
	assert.False(t, b.CanRedo())
}

func TestUndoGroupCollapsesToOneEntry(t *testing.T) {
	b := FromText(1, "t", "", "hello world")
	b.BeginGroup()
	b.Delete(0, 5)
	b.Insert(0, "goodbye")
	b.EndGroup()
	assert.Equal(t, "goodbye world", b.Text())

	_, ok := b.Undo()
	require.True(t, ok)
	assert.Equal(t, "hello world", b.Text())
	assert.False(t, b.CanUndo())
}

func TestMoveWordForwardScenario(t *testing.T) {
	b := FromText(1, "t", "", "hello world  test\n  another line")
	p := types.CharPos(0)
	want := []types.CharPos{6, 13, 20, 28, 32, 32}
	for _, w := range want {
		p = b.MoveWordForward(p)
		assert.Equal(t, w, p)
	}
}

func TestMoveParagraphForwardScenario(t *testing.T) {
	b := FromText(1, "t", "", "A\nB\n\nC\nD\n\n\nE\nF")
	p := types.CharPos(0)
	want := []types.CharPos{4, 10, types.CharPos(b.Len())}
	for _, w := range want {
		p = b.MoveParagraphForward(p)
		assert.Equal(t, w, p)
	}
}

func TestMoveParagraphBackwardScenario(t *testing.T) {
	b := FromText(1, "t", "", "A\nB\n\nC\nD\n\n\nE\nF")
	p := b.Len()
	want := []types.CharPos{10, 4, 0}
	for _, w := range want {
		p = b.MoveParagraphBackward(p)
		assert.Equal(t, w, p)
	}
}

func TestMoveUpDownClampsToShorterLine(t *testing.T) {
	b := FromText(1, "t", "", "hi\nlonger line\nyo")
	p := types.CharPos(10) // column 7 on "longer line"
	up := b.MoveUp(p)
	assert.Equal(t, types.CharPos(2), up) // clamped to end of "hi"

	p2 := types.CharPos(3) // column 0 on "longer line"
	down := b.MoveDown(p2)
	assert.Equal(t, types.CharPos(15), down)
}

func TestRegionKillThenYankScenario(t *testing.T) {
	b := FromText(1, "t", "", "one two three")
	b.SetMark(4, true)
	start, end, ok := b.Region(9)
	require.True(t, ok)
	assert.Equal(t, "two t", b.Slice(start, end))

	killed := b.Slice(start, end)
	b.Delete(start, end)
	assert.Equal(t, "one hree", b.Text())

	b.Insert(start, killed)
	assert.Equal(t, "one two three", b.Text())
}

func TestHighlightStoreOperations(t *testing.T) {
	b := FromText(1, "t", "", "hello world")
	b.AddHighlight(HighlightSpan{Start: 0, End: 5, Face: types.FaceIsearch})
	b.AddHighlight(HighlightSpan{Start: 6, End: 11, Face: types.FaceIsearchActive})

	face, ok := b.FaceAt(2)
	require.True(t, ok)
	assert.Equal(t, types.FaceIsearch, face)
	_, ok = b.FaceAt(5)
	assert.False(t, ok, "spans are half-open")

	assert.Len(t, b.SpansInRange(0, 11), 2)
	assert.Len(t, b.SpansInRange(4, 7), 2, "overlap at either edge counts")
	assert.Len(t, b.SpansInRange(5, 6), 0)

	// clearing a middle range clips the straddling span
	b.ClearHighlightRange(3, 8)
	spans := b.Highlights()
	require.Len(t, spans, 2)
	assert.Equal(t, types.CharPos(3), spans[0].End)
	assert.Equal(t, types.CharPos(8), spans[1].Start)

	b.ClearFace(types.FaceIsearch)
	spans = b.Highlights()
	require.Len(t, spans, 1)
	assert.Equal(t, types.FaceIsearchActive, spans[0].Face)

	b.ClearHighlights()
	assert.Empty(t, b.Highlights())
}

func TestTransientMarkClearsOnlyWhenTransient(t *testing.T) {
	b := FromText(1, "t", "", "abcdef")
	b.SetMark(2, false)
	assert.False(t, b.TransientMark())
	assert.False(t, b.ClearTransientMark(), "a persistent mark survives")
	_, ok := b.Mark()
	assert.True(t, ok)

	b.SetMark(2, true)
	assert.True(t, b.TransientMark())
	assert.True(t, b.ClearTransientMark())
	_, ok = b.Mark()
	assert.False(t, ok)
}

func TestSpansStayDisjointAcrossEdits(t *testing.T) {
	b := FromText(1, "t", "", "func main() {\n\treturn 42\n}\n")
	b.SetMajorMode("go")
	check := func() {
		spans := b.Highlights()
		for i, a := range spans {
			assert.True(t, a.Start >= 0 && a.End <= b.Len())
			for j, o := range spans {
				if i == j {
					continue
				}
				assert.False(t, a.Start < o.End && o.Start < a.End,
					"spans %v and %v overlap", a, o)
			}
		}
	}
	check()
	b.Insert(5, "x")
	check()
	b.Delete(0, 4)
	check()
}

func TestHighlightSpansShiftOnInsert(t *testing.T) {
	b := FromText(1, "t", "", "func main() {}")
	b.SetMajorMode("go")
	spans := b.Highlights()
	require.NotEmpty(t, spans)

	prefix := "// leading comment\n"
	b.Insert(0, prefix)
	after := b.Highlights()
	require.NotEmpty(t, after)
	for _, sp := range after {
		assert.True(t, sp.Start >= 0 && sp.End <= b.Len())
	}
	require.Len(t, after, len(spans))
	shift := types.CharPos(len(prefix))
	for i := range spans {
		assert.Equal(t, spans[i].Start+shift, after[i].Start)
		assert.Equal(t, spans[i].End+shift, after[i].End)
	}
}
