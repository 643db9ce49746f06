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

// Package dirty implements the invalidation side of the renderer contract:
// a monotone-join accumulator of Region values that a Renderer drains once
// per frame. Invalidation is graded — full-screen, window-chrome,
// modeline-component, buffer, line-span — so a renderer can skip redrawing
// windows an edit never touched.
package dirty

import "github.com/agott/kernel/internal/types"

// LineSpan names the portion of a line a Line region invalidates.
type LineSpan struct {
	Full bool
	// Start/End are character columns within the line; meaningful only
	// when Full is false.
	Start, End int
}

// FullLineSpan invalidates an entire line.
func FullLineSpan() LineSpan { return LineSpan{Full: true} }

// ColsLineSpan invalidates only [start, end) within a line.
func ColsLineSpan(start, end int) LineSpan { return LineSpan{Start: start, End: end} }

// RegionKind tags the variant of a Region.
type RegionKind int

const (
	RegionFullScreen RegionKind = iota
	RegionWindowChrome
	RegionModeline
	RegionBuffer
	RegionLine
)

// Region is one invalidation annotation at a declared granularity.
type Region struct {
	Kind RegionKind

	Window types.WindowID // WindowChrome, Modeline
	Buffer types.BufferID // Buffer, Line

	Component types.ModelineComponent // Modeline

	Line int      // Line
	Span LineSpan // Line
}

// FullScreen invalidates the entire display.
func FullScreen() Region { return Region{Kind: RegionFullScreen} }

// WindowChrome invalidates a window's border/frame decoration.
func WindowChrome(w types.WindowID) Region {
	return Region{Kind: RegionWindowChrome, Window: w}
}

// Modeline invalidates one component of a window's modeline.
func Modeline(w types.WindowID, component types.ModelineComponent) Region {
	return Region{Kind: RegionModeline, Window: w, Component: component}
}

// BufferRegion invalidates every visible line of every window showing b.
func BufferRegion(b types.BufferID) Region {
	return Region{Kind: RegionBuffer, Buffer: b}
}

// Line invalidates one line of one buffer.
func Line(b types.BufferID, line int, span LineSpan) Region {
	return Region{Kind: RegionLine, Buffer: b, Line: line, Span: span}
}

// Tracker accumulates Regions between renders under a monotone join:
// FullScreen absorbs everything; a Buffer region absorbs any Line region
// already recorded for that buffer; a Modeline{All} absorbs any more
// specific component already recorded for that window.
type Tracker struct {
	full     bool
	chrome   map[types.WindowID]bool
	modeline map[types.WindowID]map[types.ModelineComponent]bool
	buffers  map[types.BufferID]bool
	lines    map[types.BufferID]map[int]LineSpan
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{
		chrome:   map[types.WindowID]bool{},
		modeline: map[types.WindowID]map[types.ModelineComponent]bool{},
		buffers:  map[types.BufferID]bool{},
		lines:    map[types.BufferID]map[int]LineSpan{},
	}
}

// Mark records r, joining it with whatever has already been recorded this
// frame.
func (t *Tracker) Mark(r Region) {
	if t.full {
		return
	}
	switch r.Kind {
	case RegionFullScreen:
		t.full = true
		t.chrome = map[types.WindowID]bool{}
		t.modeline = map[types.WindowID]map[types.ModelineComponent]bool{}
		t.buffers = map[types.BufferID]bool{}
		t.lines = map[types.BufferID]map[int]LineSpan{}
	case RegionWindowChrome:
		t.chrome[r.Window] = true
	case RegionModeline:
		comps := t.modeline[r.Window]
		if comps == nil {
			comps = map[types.ModelineComponent]bool{}
			t.modeline[r.Window] = comps
		}
		if r.Component == types.ModelineAll {
			for c := range comps {
				delete(comps, c)
			}
		}
		comps[r.Component] = true
	case RegionBuffer:
		t.buffers[r.Buffer] = true
		delete(t.lines, r.Buffer)
	case RegionLine:
		if t.buffers[r.Buffer] {
			return
		}
		lines := t.lines[r.Buffer]
		if lines == nil {
			lines = map[int]LineSpan{}
			t.lines[r.Buffer] = lines
		}
		existing, ok := lines[r.Line]
		if ok && existing.Full {
			return
		}
		if r.Span.Full || !ok {
			lines[r.Line] = r.Span
		}
	}
}

// IsFullScreen reports whether the accumulated state requires a full
// redraw.
func (t *Tracker) IsFullScreen() bool { return t.full }

// ChromeDirty reports whether w's chrome was invalidated this frame.
func (t *Tracker) ChromeDirty(w types.WindowID) bool {
	return t.full || t.chrome[w]
}

// ModelineDirty reports whether the named component of w's modeline was
// invalidated this frame, directly or via a Modeline{All} join.
func (t *Tracker) ModelineDirty(w types.WindowID, c types.ModelineComponent) bool {
	if t.full {
		return true
	}
	comps := t.modeline[w]
	return comps != nil && (comps[c] || comps[types.ModelineAll])
}

// BufferDirty reports whether every visible line of b must be redrawn.
func (t *Tracker) BufferDirty(b types.BufferID) bool {
	return t.full || t.buffers[b]
}

// DirtyLines returns the line->span map of lines invalidated individually
// for b (empty if the whole buffer is already dirty).
func (t *Tracker) DirtyLines(b types.BufferID) map[int]LineSpan {
	return t.lines[b]
}

// Clear resets the tracker to empty, called after a render completes.
func (t *Tracker) Clear() {
	t.full = false
	t.chrome = map[types.WindowID]bool{}
	t.modeline = map[types.WindowID]map[types.ModelineComponent]bool{}
	t.buffers = map[types.BufferID]bool{}
	t.lines = map[types.BufferID]map[int]LineSpan{}
}
