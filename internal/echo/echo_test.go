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
package echo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowThenCurrent(t *testing.T) {
	a := New()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a.Show(now, "hello")
	assert.Equal(t, "hello", a.Current())
}

func TestExpireAfterThreeSeconds(t *testing.T) {
	a := New()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a.Show(now, "hello")

	cleared := a.ExpireIfStale(now.Add(2 * time.Second))
	assert.False(t, cleared)
	assert.Equal(t, "hello", a.Current())

	cleared = a.ExpireIfStale(now.Add(3 * time.Second))
	assert.True(t, cleared)
	assert.Equal(t, "", a.Current())

	// a second expiry call has nothing left to clear
	assert.False(t, a.ExpireIfStale(now.Add(10*time.Second)))
}

func TestLogSurvivesExpiryAndClear(t *testing.T) {
	a := New()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a.Show(now, "first")
	a.ExpireIfStale(now.Add(time.Minute))
	a.Show(now.Add(time.Minute), "second")
	a.Clear()

	log := a.Log()
	require.Len(t, log, 2)
	assert.Equal(t, "first", log[0].Text)
	assert.Equal(t, "second", log[1].Text)
}

func TestRenderLogFormatsTimestampedLines(t *testing.T) {
	a := New()
	now := time.Date(2024, 6, 1, 9, 5, 7, 0, time.UTC)
	a.Show(now, "saved")
	assert.Equal(t, "[09:05:07] saved\n", a.RenderLog())
}
