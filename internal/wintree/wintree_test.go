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
package wintree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agott/kernel/internal/types"
)

// TestSplitDeletePromotion: deleting a window inside a nested split
// promotes its sibling, which becomes the active window.
func TestSplitDeletePromotion(t *testing.T) {
	a, b, c := types.WindowID(1), types.WindowID(2), types.WindowID(3)

	tree := NewLeaf(a)

	tree, err := Split(tree, a, Horizontal, b)
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.WindowID{a, b}, tree.Leaves())

	tree, err = Split(tree, a, Vertical, c)
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.WindowID{a, c, b}, tree.Leaves())

	newTree, active, err := Delete(tree, a)
	require.NoError(t, err)
	assert.Equal(t, c, active)
	assert.ElementsMatch(t, []types.WindowID{c, b}, newTree.Leaves())
	assert.False(t, newTree.IsLeaf())
	assert.Equal(t, Horizontal, newTree.Dir)
	assert.Equal(t, c, newTree.First.Leaf)
	assert.Equal(t, b, newTree.Rest.Leaf)
}

func TestDeleteLastWindowFails(t *testing.T) {
	a := types.WindowID(1)
	tree := NewLeaf(a)
	_, _, err := Delete(tree, a)
	assert.ErrorIs(t, err, ErrLastWindow)
}

func TestLayoutDeterministicSplit(t *testing.T) {
	a, b := types.WindowID(1), types.WindowID(2)
	tree, err := Split(NewLeaf(a), a, Vertical, b)
	require.NoError(t, err)

	layout := Layout(tree, Rect{X: 0, Y: 0, W: 81, H: 24})
	ra, rb := layout[a], layout[b]
	assert.Equal(t, 40, ra.W) // floor(81*0.5)
	assert.Equal(t, 41, rb.W)
	assert.Equal(t, 24, ra.H)
	assert.Equal(t, ra.W, rb.X-ra.X)
}

func TestRatioClampedOnSplitAndAdjust(t *testing.T) {
	a, b := types.WindowID(1), types.WindowID(2)
	tree, err := Split(NewLeaf(a), a, Vertical, b)
	require.NoError(t, err)

	tree = AdjustRatio(tree, Vertical, a, b, -10)
	assert.Equal(t, minRatio, tree.Ratio)

	tree = AdjustRatio(tree, Vertical, a, b, 10)
	assert.Equal(t, maxRatio, tree.Ratio)
}

func TestSpatialOrder(t *testing.T) {
	a, b, c := types.WindowID(1), types.WindowID(2), types.WindowID(3)
	layout := map[types.WindowID]Rect{
		a: {X: 0, Y: 10, W: 10, H: 10},
		b: {X: 0, Y: 0, W: 10, H: 10},
		c: {X: 10, Y: 0, W: 10, H: 10},
	}
	order := SpatialOrder(layout)
	assert.Equal(t, []types.WindowID{b, c, a}, order)
}
