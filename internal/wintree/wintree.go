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

// Package wintree implements the binary split-window layout algebra: a
// pure recursive tree of Leaf/Split nodes, deterministic rectangle layout,
// spatial ordering, and delete-and-promote.
//
// The tree carries no parent pointers; every layout operation is top-down,
// so every mutation walks down from the root and rebuilds the affected
// subtree, and every split carries a clamped ratio.
package wintree

import (
	"errors"

	"github.com/agott/kernel/internal/types"
)

const (
	minRatio = 0.15
	maxRatio = 0.85
	minDim   = 4
)

// ErrLastWindow is returned by Delete when only one window remains.
var ErrLastWindow = errors.New("wintree: cannot delete the last window")

// ErrNotFound is returned when a window id is not present in the tree.
var ErrNotFound = errors.New("wintree: window not found")

// Direction names a split's axis: Horizontal stacks windows top/bottom
// (dividing height); Vertical places them side by side (dividing width).
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

func clampRatio(r float64) float64 {
	if r < minRatio {
		return minRatio
	}
	if r > maxRatio {
		return maxRatio
	}
	return r
}

// Node is a node of the window tree: either a Leaf naming one window, or a
// Split holding two child subtrees and the ratio the first occupies.
type Node struct {
	Leaf types.WindowID // valid iff IsLeaf

	Dir         Direction
	Ratio       float64
	First, Rest *Node
}

// NewLeaf returns a single-window tree.
func NewLeaf(id types.WindowID) *Node {
	return &Node{Leaf: id, First: nil, Rest: nil}
}

// IsLeaf reports whether n is a leaf (as opposed to a split).
func (n *Node) IsLeaf() bool { return n.First == nil && n.Rest == nil }

func newSplit(dir Direction, ratio float64, first, rest *Node) *Node {
	return &Node{Dir: dir, Ratio: clampRatio(ratio), First: first, Rest: rest}
}

// Leaves returns the window ids of every leaf, in tree (depth-first, first
// before rest) order.
func (n *Node) Leaves() []types.WindowID {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		return []types.WindowID{n.Leaf}
	}
	return append(n.First.Leaves(), n.Rest.Leaves()...)
}

// Contains reports whether id names a leaf anywhere in the tree.
func (n *Node) Contains(id types.WindowID) bool {
	for _, l := range n.Leaves() {
		if l == id {
			return true
		}
	}
	return false
}

// Rect is a screen rectangle in character cells.
type Rect struct {
	X, Y, W, H int
}

// Layout assigns a rectangle to every leaf under n, clamping leaves to a
// minimum of 4x4 cells and splitting dimensions deterministically as
// first = floor(dim*ratio), rest = dim-first. The result maps window
// id -> assigned Rect.
func Layout(n *Node, r Rect) map[types.WindowID]Rect {
	out := map[types.WindowID]Rect{}
	layoutInto(n, r, out)
	return out
}

func layoutInto(n *Node, r Rect, out map[types.WindowID]Rect) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		w, h := r.W, r.H
		if w < minDim {
			w = minDim
		}
		if h < minDim {
			h = minDim
		}
		out[n.Leaf] = Rect{X: r.X, Y: r.Y, W: w, H: h}
		return
	}
	ratio := clampRatio(n.Ratio)
	if n.Dir == Vertical {
		firstW := int(float64(r.W) * ratio)
		restW := r.W - firstW
		layoutInto(n.First, Rect{X: r.X, Y: r.Y, W: firstW, H: r.H}, out)
		layoutInto(n.Rest, Rect{X: r.X + firstW, Y: r.Y, W: restW, H: r.H}, out)
	} else {
		firstH := int(float64(r.H) * ratio)
		restH := r.H - firstH
		layoutInto(n.First, Rect{X: r.X, Y: r.Y, W: r.W, H: firstH}, out)
		layoutInto(n.Rest, Rect{X: r.X, Y: r.Y + firstH, W: r.W, H: restH}, out)
	}
}

// Split replaces the leaf named target with a Split node of the given
// direction (0.5 ratio) containing the original leaf as First and newID as
// Rest. It returns the new tree root, or an error if target is not a leaf
// in n.
func Split(n *Node, target types.WindowID, dir Direction, newID types.WindowID) (*Node, error) {
	if !n.Contains(target) {
		return n, ErrNotFound
	}
	return splitInto(n, target, dir, newID), nil
}

func splitInto(n *Node, target types.WindowID, dir Direction, newID types.WindowID) *Node {
	if n.IsLeaf() {
		if n.Leaf == target {
			return newSplit(dir, 0.5, NewLeaf(target), NewLeaf(newID))
		}
		return n
	}
	return newSplit(n.Dir, n.Ratio,
		splitInto(n.First, target, dir, newID),
		splitInto(n.Rest, target, dir, newID))
}

// firstLeaf returns the first (depth-first, First-before-Rest) leaf id
// under n.
func firstLeaf(n *Node) types.WindowID {
	if n.IsLeaf() {
		return n.Leaf
	}
	return firstLeaf(n.First)
}

// Delete removes the leaf named target, promoting its sibling subtree to
// replace the parent split. It returns the new tree root and the id of the
// leaf that expanded into the deleted window's rectangle (the new active
// window). Fails with ErrLastWindow if n is a single leaf, or ErrNotFound
// if target is absent.
func Delete(n *Node, target types.WindowID) (*Node, types.WindowID, error) {
	if n.IsLeaf() {
		if n.Leaf == target {
			return n, 0, ErrLastWindow
		}
		return n, 0, ErrNotFound
	}
	if !n.Contains(target) {
		return n, 0, ErrNotFound
	}
	newNode, promoted, found := deleteFrom(n, target)
	if !found {
		return n, 0, ErrNotFound
	}
	return newNode, firstLeaf(promoted), nil
}

// deleteFrom returns (possibly-rewritten subtree, promoted-sibling-if-this-
// split-was-the-deletion-site, found). When the deletion site is a split
// whose First or Rest is exactly the target leaf, that split is replaced by
// its surviving child (the "promoted" subtree); otherwise recursion
// continues downward and only the affected branch is rebuilt.
func deleteFrom(n *Node, target types.WindowID) (result *Node, promoted *Node, found bool) {
	if n.IsLeaf() {
		return n, nil, false
	}
	if n.First.IsLeaf() && n.First.Leaf == target {
		return n.Rest, n.Rest, true
	}
	if n.Rest.IsLeaf() && n.Rest.Leaf == target {
		return n.First, n.First, true
	}
	if n.First.Contains(target) {
		newFirst, prom, ok := deleteFrom(n.First, target)
		if !ok {
			return n, nil, false
		}
		return newSplit(n.Dir, n.Ratio, newFirst, n.Rest), prom, true
	}
	if n.Rest.Contains(target) {
		newRest, prom, ok := deleteFrom(n.Rest, target)
		if !ok {
			return n, nil, false
		}
		return newSplit(n.Dir, n.Ratio, n.First, newRest), prom, true
	}
	return n, nil, false
}

// SpatialOrder returns every leaf id ordered primarily by the top-left
// corner's row, secondarily by column, the order other-window cycles in.
func SpatialOrder(layout map[types.WindowID]Rect) []types.WindowID {
	ids := make([]types.WindowID, 0, len(layout))
	for id := range layout {
		ids = append(ids, id)
	}
	// simple insertion sort keeps this deterministic without importing
	// sort for a handful of windows; window counts are always small.
	for i := 1; i < len(ids); i++ {
		j := i
		for j > 0 && less(layout, ids[j], ids[j-1]) {
			ids[j], ids[j-1] = ids[j-1], ids[j]
			j--
		}
	}
	return ids
}

func less(layout map[types.WindowID]Rect, a, b types.WindowID) bool {
	ra, rb := layout[a], layout[b]
	if ra.Y != rb.Y {
		return ra.Y < rb.Y
	}
	if ra.X != rb.X {
		return ra.X < rb.X
	}
	return a < b
}

// FindBorderAt reports whether (x,y) lands on the border between two
// adjacent leaves in layout, for mouse-drag resizing: a
// vertical border runs along the shared edge of two side-by-side leaves,
// a horizontal border along the shared edge of two stacked ones. The one
// column/row straddling the edge (either side of it) counts as a hit.
func FindBorderAt(layout map[types.WindowID]Rect, x, y int) (dir Direction, first, rest types.WindowID, ok bool) {
	for idA, ra := range layout {
		for idB, rb := range layout {
			if idA == idB {
				continue
			}
			if rb.X == ra.X+ra.W && y >= ra.Y && y < ra.Y+ra.H && y >= rb.Y && y < rb.Y+rb.H {
				if x == rb.X || x == rb.X-1 {
					return Vertical, idA, idB, true
				}
			}
			if rb.Y == ra.Y+ra.H && x >= ra.X && x < ra.X+ra.W && x >= rb.X && x < rb.X+rb.W {
				if y == rb.Y || y == rb.Y-1 {
					return Horizontal, idA, idB, true
				}
			}
		}
	}
	return 0, 0, 0, false
}

// AdjustRatio walks to the split whose border runs between firstSide and
// restSide (i.e. the split node whose First subtree contains firstSide and
// whose Rest subtree contains restSide, specifically the lowest such split)
// and adjusts its ratio by delta, clamped to [0.15, 0.85]. It is used by
// mouse-drag resizing: only a split whose direction matches the drag axis
// is a valid target, which the caller enforces by choosing dir.
func AdjustRatio(n *Node, dir Direction, firstSide, restSide types.WindowID, delta float64) *Node {
	if n == nil || n.IsLeaf() {
		return n
	}
	if n.Dir == dir && n.First.Contains(firstSide) && n.Rest.Contains(restSide) {
		return newSplit(n.Dir, n.Ratio+delta, n.First, n.Rest)
	}
	return newSplit(n.Dir, n.Ratio,
		AdjustRatio(n.First, dir, firstSide, restSide, delta),
		AdjustRatio(n.Rest, dir, firstSide, restSide, delta))
}
