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
package rope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndString(t *testing.T) {
	r := New("hello world")
	require.Equal(t, 11, r.Len())
	assert.Equal(t, "hello world", r.String())
}

func TestInsertDeleteRoundTrip(t *testing.T) {
	r := New("hello world")
	withInsert := r.Insert(5, ", there")
	assert.Equal(t, "hello, there world", withInsert.String())

	back := withInsert.Delete(5, 5+len(", there"))
	assert.Equal(t, r.String(), back.String())
}

func TestSliceAndRuneAt(t *testing.T) {
	r := New("abcdef")
	assert.Equal(t, "bcd", r.Slice(1, 4))
	c, ok := r.RuneAt(0)
	require.True(t, ok)
	assert.Equal(t, 'a', c)
	_, ok = r.RuneAt(100)
	assert.False(t, ok)
}

func TestInsertAtBoundaries(t *testing.T) {
	r := New("bc")
	r = r.Insert(0, "a")
	assert.Equal(t, "abc", r.String())
	r = r.Insert(r.Len(), "d")
	assert.Equal(t, "abcd", r.String())
}

func TestLargeTextSplitsIntoMultipleLeaves(t *testing.T) {
	big := make([]byte, splitThreshold*3)
	for i := range big {
		big[i] = 'x'
	}
	r := New(string(big))
	assert.Equal(t, len(big), r.Len())
	r = r.Insert(splitThreshold+5, "MARK")
	assert.Equal(t, "MARK", r.Slice(splitThreshold+5, splitThreshold+9))
}

func TestIndexRune(t *testing.T) {
	r := New("abc abc abc")
	assert.Equal(t, 0, r.IndexRune("abc", 0))
	assert.Equal(t, 4, r.IndexRune("abc", 1))
	assert.Equal(t, 8, r.IndexRune("abc", 5))
	assert.Equal(t, -1, r.IndexRune("zzz", 0))
}

func TestMultiByteCharacters(t *testing.T) {
	r := New("héllo wörld")
	// character count, not byte count
	assert.Equal(t, 11, r.Len())
	c, ok := r.RuneAt(1)
	require.True(t, ok)
	assert.Equal(t, 'é', c)
}
