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
package dirty

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agott/kernel/internal/types"
)

func TestFullScreenAbsorbsEverything(t *testing.T) {
	tr := New()
	tr.Mark(Line(1, 3, FullLineSpan()))
	tr.Mark(WindowChrome(2))
	tr.Mark(FullScreen())

	assert.True(t, tr.IsFullScreen())
	assert.True(t, tr.BufferDirty(1))
	assert.True(t, tr.ChromeDirty(7), "full screen implies every window's chrome")
	assert.Empty(t, tr.DirtyLines(1))
}

func TestBufferAbsorbsItsLines(t *testing.T) {
	tr := New()
	tr.Mark(Line(1, 3, FullLineSpan()))
	tr.Mark(Line(1, 9, ColsLineSpan(0, 4)))
	tr.Mark(BufferRegion(1))

	assert.True(t, tr.BufferDirty(1))
	assert.Empty(t, tr.DirtyLines(1))

	// lines marked after the buffer join into it rather than re-appearing
	tr.Mark(Line(1, 5, FullLineSpan()))
	assert.Empty(t, tr.DirtyLines(1))
}

func TestLineJoinPrefersFullSpan(t *testing.T) {
	tr := New()
	tr.Mark(Line(1, 3, ColsLineSpan(2, 5)))
	tr.Mark(Line(1, 3, FullLineSpan()))
	assert.True(t, tr.DirtyLines(1)[3].Full)

	// a narrower span never downgrades a full line
	tr.Mark(Line(1, 3, ColsLineSpan(0, 1)))
	assert.True(t, tr.DirtyLines(1)[3].Full)
}

func TestModelineAllAbsorbsComponents(t *testing.T) {
	tr := New()
	tr.Mark(Modeline(1, types.ModelineCursorPosition))
	tr.Mark(Modeline(1, types.ModelineAll))

	assert.True(t, tr.ModelineDirty(1, types.ModelineAll))
	assert.True(t, tr.ModelineDirty(1, types.ModelineCursorPosition),
		"All covers every specific component")
	assert.False(t, tr.ModelineDirty(2, types.ModelineAll))
}

func TestClearResetsEverything(t *testing.T) {
	tr := New()
	tr.Mark(FullScreen())
	tr.Clear()

	assert.False(t, tr.IsFullScreen())
	assert.False(t, tr.BufferDirty(1))
	assert.False(t, tr.ChromeDirty(1))

	// the tracker is reusable after a Clear
	tr.Mark(Line(2, 0, FullLineSpan()))
	assert.True(t, tr.DirtyLines(2)[0].Full)
}

func TestBuffersAreIndependent(t *testing.T) {
	tr := New()
	tr.Mark(BufferRegion(1))
	tr.Mark(Line(2, 4, FullLineSpan()))

	assert.True(t, tr.BufferDirty(1))
	assert.False(t, tr.BufferDirty(2))
	assert.True(t, tr.DirtyLines(2)[4].Full)
}
