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
package killring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKillThenYank(t *testing.T) {
	r := New()
	r.Kill("two t")
	text, ok := r.Yank()
	require.True(t, ok)
	assert.Equal(t, "two t", text)
}

func TestConsecutiveKillsAppend(t *testing.T) {
	r := New()
	r.Kill("hello")
	r.Kill(" world")
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "hello world", r.Current())
}

func TestBreakSequenceStartsNewEntry(t *testing.T) {
	r := New()
	r.Kill("hello")
	r.BreakSequence()
	r.Kill("world")
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, "world", r.Current())
}

func TestKillPrependJoinsBeforeOpenEntry(t *testing.T) {
	r := New()
	r.Kill("world")
	r.KillPrepend("hello ")
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "hello world", r.Current())
}

func TestYankNextCyclesBackThenWraps(t *testing.T) {
	r := New()
	r.Kill("first")
	r.BreakSequence()
	r.Kill("second")
	r.BreakSequence()
	r.Kill("third")

	_, _ = r.Yank() // lands on "third"
	text, ok := r.YankNext()
	require.True(t, ok)
	assert.Equal(t, "second", text)

	text, ok = r.YankNext()
	require.True(t, ok)
	assert.Equal(t, "first", text)

	text, ok = r.YankNext()
	require.True(t, ok)
	assert.Equal(t, "third", text, "cycling past the oldest entry wraps to the newest")
}

func TestRingIsBoundedAtCapacity(t *testing.T) {
	r := New()
	for i := 0; i < capacity+10; i++ {
		r.Kill(fmt.Sprintf("entry-%d", i))
		r.BreakSequence()
	}
	assert.Equal(t, capacity, r.Len())
	assert.Equal(t, fmt.Sprintf("entry-%d", capacity+9), r.Current())
}

func TestEmptyRingYankFails(t *testing.T) {
	r := New()
	_, ok := r.Yank()
	assert.False(t, ok)
	_, ok = r.YankNext()
	assert.False(t, ok)
}
