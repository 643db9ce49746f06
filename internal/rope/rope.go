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

// Package rope implements a rope-backed character store for buffer text.
// One rope holds the whole buffer, so positions are flat character indices
// across line boundaries rather than row/col pairs.
//
// The tree is a simple binary concatenation rope: leaves hold small []rune
// chunks, internal nodes cache the character count of their left subtree
// (the "weight") so splitting descends a single root-to-leaf path. RuneAt
// and Slice walk the leaves in order from the start, so they are O(n) in
// text length, and the tree is never rebalanced, so its depth grows with
// the number of edits.
package rope

import "strings"

const splitThreshold = 1024

// Rope is an immutable-leaf, persistent-shape character sequence. A Rope
// value is safe to pass by value; mutation methods return a new Rope.
type Rope struct {
	root node
}

type node interface {
	len() int
	forEach(func(r rune) bool) bool
}

type leaf struct {
	text []rune
}

func (l *leaf) len() int { return len(l.text) }

func (l *leaf) forEach(f func(rune) bool) bool {
	for _, r := range l.text {
		if !f(r) {
			return false
		}
	}
	return true
}

type concat struct {
	left, right node
	weight      int // len(left)
	total       int
}

func (c *concat) len() int { return c.total }

func (c *concat) forEach(f func(rune) bool) bool {
	if !c.left.forEach(f) {
		return false
	}
	return c.right.forEach(f)
}

func newConcat(l, r node) node {
	if l.len() == 0 {
		return r
	}
	if r.len() == 0 {
		return l
	}
	return &concat{left: l, right: r, weight: l.len(), total: l.len() + r.len()}
}

// New builds a Rope from a string.
func New(s string) Rope {
	return Rope{root: buildLeaves([]rune(s))}
}

func buildLeaves(runes []rune) node {
	if len(runes) == 0 {
		return &leaf{}
	}
	if len(runes) <= splitThreshold {
		cp := make([]rune, len(runes))
		copy(cp, runes)
		return &leaf{text: cp}
	}
	mid := len(runes) / 2
	return newConcat(buildLeaves(runes[:mid]), buildLeaves(runes[mid:]))
}

// Len returns the number of characters in the rope.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.len()
}

// String renders the whole rope as a Go string.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var b strings.Builder
	b.Grow(r.root.len())
	r.root.forEach(func(rn rune) bool {
		b.WriteRune(rn)
		return true
	})
	return b.String()
}

// Slice returns the characters in [start, end) as a string. It panics if
// the range is out of bounds; callers are expected to validate positions
// against Len first (the buffer package never calls Slice with an invalid
// range).
func (r Rope) Slice(start, end int) string {
	if start < 0 || end > r.Len() || start > end {
		panic("rope: slice out of range")
	}
	if start == end {
		return ""
	}
	var b strings.Builder
	b.Grow(end - start)
	i := 0
	r.root.forEach(func(rn rune) bool {
		if i >= start && i < end {
			b.WriteRune(rn)
		}
		i++
		return i < end
	})
	return b.String()
}

// RuneAt returns the character at position p. The second return is false
// if p is out of range.
func (r Rope) RuneAt(p int) (rune, bool) {
	if p < 0 || p >= r.Len() {
		return 0, false
	}
	var found rune
	var ok bool
	i := 0
	r.root.forEach(func(rn rune) bool {
		if i == p {
			found, ok = rn, true
			return false
		}
		i++
		return true
	})
	return found, ok
}

// Insert returns a new Rope with s inserted at position pos.
func (r Rope) Insert(pos int, s string) Rope {
	if s == "" {
		return r
	}
	left, right := r.split(pos)
	mid := buildLeaves([]rune(s))
	return Rope{root: newConcat(newConcat(left, mid), right)}
}

// Delete returns a new Rope with the characters in [start, end) removed.
func (r Rope) Delete(start, end int) Rope {
	if start >= end {
		return r
	}
	left, _ := r.split(start)
	_, right := r.split(end)
	return Rope{root: newConcat(left, right)}
}

// split divides the rope into [0, at) and [at, len).
func (r Rope) split(at int) (node, node) {
	if r.root == nil {
		return &leaf{}, &leaf{}
	}
	l, rr := splitNode(r.root, at)
	if l == nil {
		l = &leaf{}
	}
	if rr == nil {
		rr = &leaf{}
	}
	return l, rr
}

func splitNode(n node, at int) (node, node) {
	switch v := n.(type) {
	case *leaf:
		if at <= 0 {
			return &leaf{}, v
		}
		if at >= len(v.text) {
			return v, &leaf{}
		}
		left := make([]rune, at)
		copy(left, v.text[:at])
		right := make([]rune, len(v.text)-at)
		copy(right, v.text[at:])
		return &leaf{text: left}, &leaf{text: right}
	case *concat:
		if at <= v.weight {
			l, r := splitNode(v.left, at)
			return l, newConcat(r, v.right)
		}
		l, r := splitNode(v.right, at-v.weight)
		return newConcat(v.left, l), r
	default:
		return &leaf{}, &leaf{}
	}
}

// IndexRune returns the character position of the first occurrence of sub
// at or after start, or -1 if not found. Comparison is a plain,
// case-sensitive rune scan.
func (r Rope) IndexRune(sub string, start int) int {
	if sub == "" {
		return -1
	}
	text := r.String()
	runes := []rune(text)
	target := []rune(sub)
	if start < 0 {
		start = 0
	}
	for i := start; i+len(target) <= len(runes); i++ {
		if runesEqual(runes[i:i+len(target)], target) {
			return i
		}
	}
	return -1
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
