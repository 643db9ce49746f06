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

// Package buffer implements the kernel's text storage: a rope-backed
// character store with a mark, an undo/redo history, and a highlight span
// store, guarded by a single reader/writer lock so a buffer host's mode
// actors can read concurrently but never race a write.
//
// Every exposed position is a flat character index into the whole buffer,
// never a byte offset or a row/col pair; movement and row/column queries
// translate at the edges.
package buffer

import (
	"strings"
	"sync"
	"unicode"

	"github.com/agott/kernel/internal/rope"
	"github.com/agott/kernel/internal/types"
)

// Buffer is one open text buffer: a rope, a mark, an undo history, and a
// highlight span cache. Mutation and any multi-step read go through
// WithRead/WithWrite so a buffer host's concurrent mode actors never
// observe a half-applied edit.
type Buffer struct {
	mu sync.RWMutex

	id    types.BufferID
	title string
	path  string

	text rope.Rope

	mark          *types.CharPos
	transientMark bool

	majorMode  string
	highlights highlightStore
	undo       *undoManager

	showGutter bool
	modified   bool
}

// New creates an empty, untitled buffer.
func New(id types.BufferID, title string) *Buffer {
	return &Buffer{
		id:    id,
		title: title,
		text:  rope.New(""),
		undo:  newUndoManager(),
	}
}

// FromText creates a buffer seeded with initial content, as when a file is
// loaded from disk.
func FromText(id types.BufferID, title, path, content string) *Buffer {
	b := New(id, title)
	b.path = path
	b.text = rope.New(content)
	b.recomputeHighlights()
	return b
}

// WithRead runs f holding the buffer's read lock. Use it for any read that
// must observe a single consistent snapshot across more than one call (a
// single Len() or RuneAt() call, for instance, is already atomic on its own).
func (b *Buffer) WithRead(f func(*Buffer)) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	f(b)
}

// WithWrite runs f holding the buffer's write lock. All mutation goes
// through here, directly or via the convenience methods below.
func (b *Buffer) WithWrite(f func(*Buffer)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f(b)
}

// ID returns the buffer's identity.
func (b *Buffer) ID() types.BufferID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.id
}

// Title returns the buffer's display name.
func (b *Buffer) Title() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.title
}

// SetTitle renames the buffer.
func (b *Buffer) SetTitle(title string) {
	b.WithWrite(func(buf *Buffer) { buf.title = title })
}

// Path returns the backing file path, or "" for an unsaved buffer.
func (b *Buffer) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// SetPath records the backing file path (used after a Save-As).
func (b *Buffer) SetPath(path string) {
	b.WithWrite(func(buf *Buffer) { buf.path = path })
}

// SetMajorMode records the buffer's language mode name, which selects the
// highlighter Insert/Delete keep current.
func (b *Buffer) SetMajorMode(name string) {
	b.WithWrite(func(buf *Buffer) {
		buf.majorMode = name
		buf.recomputeHighlights()
	})
}

// MajorMode returns the buffer's language mode name.
func (b *Buffer) MajorMode() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.majorMode
}

// ShowGutter reports whether windows onto this buffer draw a line-number
// gutter.
func (b *Buffer) ShowGutter() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.showGutter
}

// SetShowGutter toggles the line-number gutter.
func (b *Buffer) SetShowGutter(on bool) {
	b.WithWrite(func(buf *Buffer) { buf.showGutter = on })
}

// Modified reports whether the buffer has unsaved changes.
func (b *Buffer) Modified() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.modified
}

// ClearModified resets the modified flag, called after a successful save.
func (b *Buffer) ClearModified() {
	b.WithWrite(func(buf *Buffer) { buf.modified = false })
}

// Len returns the buffer's length in characters.
func (b *Buffer) Len() types.CharPos {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return types.CharPos(b.text.Len())
}

// Text returns the whole buffer as a string. Expensive on a large buffer;
// callers that only need a range should use Slice.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.String()
}

// Slice returns the characters in [start, end), clamped to the buffer's
// bounds.
func (b *Buffer) Slice(start, end types.CharPos) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sliceLocked(start, end)
}

func (b *Buffer) sliceLocked(start, end types.CharPos) string {
	n := types.CharPos(b.text.Len())
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return ""
	}
	return b.text.Slice(int(start), int(end))
}

// RuneAt returns the character at p.
func (b *Buffer) RuneAt(p types.CharPos) (rune, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text.RuneAt(int(p))
}

func (b *Buffer) clamp(p types.CharPos) types.CharPos {
	n := types.CharPos(b.text.Len())
	if p < 0 {
		return 0
	}
	if p > n {
		return n
	}
	return p
}

// Highlights returns the current highlight span list. The returned slice is
// a private copy safe to read without holding the buffer's lock.
func (b *Buffer) Highlights() []HighlightSpan {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]HighlightSpan, len(b.highlights.spans))
	copy(out, b.highlights.spans)
	return out
}

// AddHighlight registers span, for modes (isearch) that paint highlights
// outside of the language-mode recomputation path.
func (b *Buffer) AddHighlight(span HighlightSpan) {
	b.WithWrite(func(buf *Buffer) { buf.highlights.add(span) })
}

// ClearHighlights drops every highlight span regardless of face, used when
// an isearch session ends.
func (b *Buffer) ClearHighlights() {
	b.WithWrite(func(buf *Buffer) { buf.highlights.clear() })
}

// ClearHighlightRange drops or clips spans overlapping [start, end).
func (b *Buffer) ClearHighlightRange(start, end types.CharPos) {
	b.WithWrite(func(buf *Buffer) { buf.highlights.clearRange(start, end) })
}

// ClearFace drops every highlight span painted with face, leaving every
// other face's spans (e.g. the Go-mode syntax highlighter's) untouched.
func (b *Buffer) ClearFace(face types.Face) {
	b.WithWrite(func(buf *Buffer) { buf.highlights.clearFace(face) })
}

// FaceAt returns the face painted at position p, if any.
func (b *Buffer) FaceAt(p types.CharPos) (types.Face, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.highlights.faceAt(p)
}

// SpansInRange returns every highlight span overlapping [start, end).
func (b *Buffer) SpansInRange(start, end types.CharPos) []HighlightSpan {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.highlights.spansInRange(start, end)
}

// ByteToChar converts a byte offset into the buffer's text into a character
// position. Isearch reports match offsets in bytes and this is the one
// place the byte/char boundary is crossed; everywhere else the kernel
// works in characters directly.
func (b *Buffer) ByteToChar(byteOffset int) types.CharPos {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if byteOffset <= 0 {
		return 0
	}
	text := b.text.String()
	if byteOffset >= len(text) {
		return types.CharPos(b.text.Len())
	}
	return types.CharPos(len([]rune(text[:byteOffset])))
}

// Rehighlight recomputes the language-mode spans from the current text,
// called by the editor when a buffer host reports a text change. Buffers
// with no major mode keep whatever spans were painted by hand (isearch).
func (b *Buffer) Rehighlight() {
	b.WithWrite(func(buf *Buffer) {
		if buf.majorMode != "" {
			buf.recomputeHighlights()
		}
	})
}

func (b *Buffer) recomputeHighlights() {
	if b.majorMode != "go" {
		b.highlights.spans = nil
		return
	}
	b.highlights.spans = highlightGo(b.text.String())
}

// ---- editing ----

// Insert inserts text at pos, recording the edit on the undo stack and
// shifting highlight spans and the mark to follow it.
func (b *Buffer) Insert(pos types.CharPos, text string) {
	if text == "" {
		return
	}
	b.WithWrite(func(buf *Buffer) {
		buf.insertLocked(pos, text)
		buf.undo.recordInsert(pos, text)
	})
}

func (b *Buffer) insertLocked(pos types.CharPos, text string) {
	pos = b.clamp(pos)
	b.text = b.text.Insert(int(pos), text)
	n := len([]rune(text))
	b.highlights.adjustForInsert(pos, n)
	if b.mark != nil && *b.mark >= pos {
		*b.mark += types.CharPos(n)
	}
	b.modified = true
}

// Delete removes [start, end), recording the edit on the undo stack.
func (b *Buffer) Delete(start, end types.CharPos) {
	b.WithWrite(func(buf *Buffer) {
		start, end = buf.clamp(start), buf.clamp(end)
		if start >= end {
			return
		}
		removed := buf.sliceLocked(start, end)
		buf.deleteLocked(start, end)
		buf.undo.recordDelete(start, removed)
	})
}

func (b *Buffer) deleteLocked(start, end types.CharPos) {
	start, end = b.clamp(start), b.clamp(end)
	if start >= end {
		return
	}
	b.text = b.text.Delete(int(start), int(end))
	b.highlights.adjustForDelete(start, end)
	if b.mark != nil {
		switch {
		case *b.mark <= start:
		case *b.mark >= end:
			*b.mark -= end - start
		default:
			*b.mark = start
		}
	}
	b.modified = true
}

// DeleteRange removes [start, end) and returns the deleted text. Unlike
// Delete it is fallible rather than clamping: a range that escapes the
// buffer, or an empty one, is refused with ok=false and no mutation.
func (b *Buffer) DeleteRange(start, end types.CharPos) (string, bool) {
	var out string
	var ok bool
	b.WithWrite(func(buf *Buffer) {
		n := types.CharPos(buf.text.Len())
		if start < 0 || end > n || start >= end {
			return
		}
		out = buf.sliceLocked(start, end)
		buf.deleteLocked(start, end)
		buf.undo.recordDelete(start, out)
		ok = true
	})
	return out, ok
}

// DeleteCount removes count characters at pos; a negative count deletes
// the |count| characters before pos instead. Refused (ok=false) when the
// resulting range escapes the buffer.
func (b *Buffer) DeleteCount(pos types.CharPos, count int) (string, bool) {
	start, end := pos, pos
	if count < 0 {
		start = pos + types.CharPos(count)
	} else {
		end = pos + types.CharPos(count)
	}
	return b.DeleteRange(start, end)
}

// Boundary seals the current auto-group of edits into one undo entry. The
// buffer host calls this once per HandleKey so repeated insert-character
// effects within a single keystroke still undo as a unit, and independent
// keystrokes don't get coalesced together.
func (b *Buffer) Boundary() {
	b.WithWrite(func(buf *Buffer) { buf.undo.boundary() })
}

// BeginGroup/EndGroup let a single logical command (e.g. change-word, which
// deletes then inserts) undo as one step regardless of keystroke boundaries.
func (b *Buffer) BeginGroup() {
	b.WithWrite(func(buf *Buffer) { buf.undo.beginGroup() })
}

func (b *Buffer) EndGroup() {
	b.WithWrite(func(buf *Buffer) { buf.undo.endGroup() })
}

// CanUndo/CanRedo report whether the corresponding stack is non-empty.
func (b *Buffer) CanUndo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.undo.canUndo()
}

func (b *Buffer) CanRedo() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.undo.canRedo()
}

// Undo pops the most recent undo entry, applies its reverse without
// recording a new undo entry, and returns the cursor position the caller
// should move to. The boolean is false if there was nothing to undo.
func (b *Buffer) Undo() (types.CharPos, bool) {
	var pos types.CharPos
	var ok bool
	b.WithWrite(func(buf *Buffer) {
		var op EditOp
		op, ok = buf.undo.popUndo()
		if ok {
			pos = buf.applyReplay(op)
		}
	})
	return pos, ok
}

// Redo pops the most recent redo entry, re-applies it, and returns the
// cursor position the caller should move to.
func (b *Buffer) Redo() (types.CharPos, bool) {
	var pos types.CharPos
	var ok bool
	b.WithWrite(func(buf *Buffer) {
		var op EditOp
		op, ok = buf.undo.popRedo()
		if ok {
			pos = buf.applyReplay(op)
		}
	})
	return pos, ok
}

// applyReplay applies op's rope mutation (and highlight/mark adjustment)
// without touching the undo manager, and returns the cursor target: the
// position after the last insert, or the position of the delete.
func (b *Buffer) applyReplay(op EditOp) types.CharPos {
	switch op.Kind {
	case OpInsert:
		b.insertLocked(op.Pos, op.Text)
		return op.Pos + types.CharPos(len([]rune(op.Text)))
	case OpDelete:
		end := op.Pos + types.CharPos(len([]rune(op.Text)))
		b.deleteLocked(op.Pos, end)
		return op.Pos
	case OpGroup:
		var last types.CharPos
		for _, sub := range op.Ops {
			last = b.applyReplay(sub)
		}
		return last
	default:
		return 0
	}
}

// ---- mark and region ----

// SetMark sets the mark at p. transient marks the region as a transient
// (shift-selection-style) region, which most editing commands clear on the
// next non-extending motion.
func (b *Buffer) SetMark(p types.CharPos, transient bool) {
	b.WithWrite(func(buf *Buffer) {
		mp := buf.clamp(p)
		buf.mark = &mp
		buf.transientMark = transient
	})
}

// ClearMark removes the mark, deactivating the region.
func (b *Buffer) ClearMark() {
	b.WithWrite(func(buf *Buffer) {
		buf.mark = nil
		buf.transientMark = false
	})
}

// ClearTransientMark removes the mark only if it was set transiently,
// reporting whether it did; a persistent C-SPC mark survives.
func (b *Buffer) ClearTransientMark() bool {
	cleared := false
	b.WithWrite(func(buf *Buffer) {
		if buf.mark != nil && buf.transientMark {
			buf.mark = nil
			buf.transientMark = false
			cleared = true
		}
	})
	return cleared
}

// Mark returns the mark position, if one is set.
func (b *Buffer) Mark() (types.CharPos, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.mark == nil {
		return 0, false
	}
	return *b.mark, true
}

// TransientMark reports whether the active mark is a transient region.
func (b *Buffer) TransientMark() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mark != nil && b.transientMark
}

// Region returns the ordered [start, end) region between the mark and
// point. ok is false if there is no mark.
func (b *Buffer) Region(point types.CharPos) (start, end types.CharPos, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.mark == nil {
		return 0, 0, false
	}
	m := *b.mark
	if m <= point {
		return m, point, true
	}
	return point, m, true
}

// ---- movement ----

func isSpace(r rune) bool { return unicode.IsSpace(r) }

// isAlphaNumeric and isNonAlphaNumeric are the classifiers a vi-style
// three-way word split would need; the kernel's own word motions use the
// simpler whitespace/non-whitespace split described below.
func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isNonAlphaNumeric(r rune) bool {
	return !isSpace(r) && !isAlphaNumeric(r)
}

// MoveLeft/MoveRight step one character, saturating at the buffer's bounds.
func (b *Buffer) MoveLeft(p types.CharPos) types.CharPos {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if p <= 0 {
		return 0
	}
	return p - 1
}

func (b *Buffer) MoveRight(p types.CharPos) types.CharPos {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := types.CharPos(b.text.Len())
	if p >= n {
		return n
	}
	return p + 1
}

func (b *Buffer) lineStartLocked(p types.CharPos) types.CharPos {
	p = b.clamp(p)
	i := int(p)
	for i > 0 {
		r, _ := b.text.RuneAt(i - 1)
		if r == '\n' {
			break
		}
		i--
	}
	return types.CharPos(i)
}

// EOLPos returns the position of the newline ending the line containing p,
// or the buffer's length if p is on the last line (which has no trailing
// newline).
func (b *Buffer) EOLPos(p types.CharPos) types.CharPos {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.eolLocked(p)
}

func (b *Buffer) eolLocked(p types.CharPos) types.CharPos {
	n := types.CharPos(b.text.Len())
	p = b.clamp(p)
	i := int(p)
	for i < int(n) {
		r, _ := b.text.RuneAt(i)
		if r == '\n' {
			break
		}
		i++
	}
	return types.CharPos(i)
}

// MoveLineStart/MoveLineEnd move to the bounds of the line containing p.
func (b *Buffer) MoveLineStart(p types.CharPos) types.CharPos {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineStartLocked(p)
}

func (b *Buffer) MoveLineEnd(p types.CharPos) types.CharPos {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.eolLocked(p)
}

// MoveBufferStart and MoveBufferEnd return the buffer's bounds.
func (b *Buffer) MoveBufferStart() types.CharPos { return 0 }

func (b *Buffer) MoveBufferEnd() types.CharPos {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return types.CharPos(b.text.Len())
}

// MoveUp/MoveDown preserve the column within the line, clamping to the
// target line's length when it is shorter than the current column.
func (b *Buffer) MoveUp(p types.CharPos) types.CharPos {
	b.mu.RLock()
	defer b.mu.RUnlock()
	lineStart := b.lineStartLocked(p)
	if lineStart == 0 {
		return p
	}
	col := p - lineStart
	prevLineEnd := lineStart - 1 // the \n terminating the previous line
	prevLineStart := b.lineStartLocked(prevLineEnd)
	prevLen := prevLineEnd - prevLineStart
	if col > prevLen {
		col = prevLen
	}
	return prevLineStart + col
}

func (b *Buffer) MoveDown(p types.CharPos) types.CharPos {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := types.CharPos(b.text.Len())
	lineStart := b.lineStartLocked(p)
	col := p - lineStart
	lineEnd := b.eolLocked(p)
	if lineEnd >= n {
		return p // already on the last line
	}
	nextLineStart := lineEnd + 1
	nextLineEnd := b.eolLocked(nextLineStart)
	nextLen := nextLineEnd - nextLineStart
	if col > nextLen {
		col = nextLen
	}
	return nextLineStart + col
}

// MoveWordForward skips the current word (a maximal non-whitespace run, if
// any) and the whitespace following it, landing at the start of the next
// word or the buffer's end.
func (b *Buffer) MoveWordForward(p types.CharPos) types.CharPos {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := b.text.Len()
	i := int(p)
	at := func(i int) rune {
		r, _ := b.text.RuneAt(i)
		return r
	}
	for i < n && !isSpace(at(i)) {
		i++
	}
	for i < n && isSpace(at(i)) {
		i++
	}
	return types.CharPos(i)
}

// MoveWordBackward steps left one character, skips whitespace, then skips
// the preceding word, landing at its start.
func (b *Buffer) MoveWordBackward(p types.CharPos) types.CharPos {
	b.mu.RLock()
	defer b.mu.RUnlock()
	at := func(i int) rune {
		r, _ := b.text.RuneAt(i)
		return r
	}
	i := int(p)
	if i > 0 {
		i--
	}
	for i > 0 && isSpace(at(i)) {
		i--
	}
	for i > 0 && !isSpace(at(i-1)) {
		i--
	}
	return types.CharPos(i)
}

// ---- paragraph movement ----

type lineTable struct {
	starts []int
	ends   []int // position of the line's own newline, or total length for the last line
	blank  []bool
}

func (b *Buffer) buildLineTable() lineTable {
	text := b.text.String()
	runes := []rune(text)
	var lt lineTable
	lt.starts = []int{0}
	for i, r := range runes {
		if r == '\n' {
			lt.ends = append(lt.ends, i)
			lt.starts = append(lt.starts, i+1)
		}
	}
	lt.ends = append(lt.ends, len(runes))
	lt.blank = make([]bool, len(lt.starts))
	for i := range lt.starts {
		content := string(runes[lt.starts[i]:lt.ends[i]])
		lt.blank[i] = strings.TrimSpace(content) == ""
	}
	return lt
}

func (lt lineTable) lineIndexOf(p int) int {
	for i := 0; i < len(lt.starts); i++ {
		if p >= lt.starts[i] && p <= lt.ends[i] {
			return i
		}
	}
	return len(lt.starts) - 1
}

// MoveParagraphForward skips the current paragraph (a maximal run of
// non-blank lines) and lands on the last blank line of the run that follows
// it, or the buffer's end if no further paragraph exists.
func (b *Buffer) MoveParagraphForward(p types.CharPos) types.CharPos {
	b.mu.RLock()
	defer b.mu.RUnlock()
	lt := b.buildLineTable()
	total := types.CharPos(b.text.Len())
	n := len(lt.starts)
	i0 := lt.lineIndexOf(int(p))
	i := i0 + 1
	for i < n-1 {
		if lt.blank[i] && !lt.blank[i+1] {
			break
		}
		i++
	}
	if i >= n-1 {
		return total
	}
	return types.CharPos(lt.starts[i])
}

// MoveParagraphBackward mirrors MoveParagraphForward: if p is already at a
// paragraph's start landmark, it moves to the previous one; otherwise it
// moves to the current paragraph's start.
func (b *Buffer) MoveParagraphBackward(p types.CharPos) types.CharPos {
	b.mu.RLock()
	defer b.mu.RUnlock()
	lt := b.buildLineTable()
	n := len(lt.starts)

	var starts []int
	for j := 0; j < n; j++ {
		firstNonBlank := !lt.blank[j] && (j == 0 || lt.blank[j-1])
		if !firstNonBlank {
			continue
		}
		if j == 0 {
			starts = append(starts, lt.starts[0])
		} else {
			starts = append(starts, lt.starts[j-1])
		}
	}
	if len(starts) == 0 {
		return 0
	}
	idx := 0
	for k, v := range starts {
		if v <= int(p) {
			idx = k
		} else {
			break
		}
	}
	if starts[idx] == int(p) {
		if idx > 0 {
			return types.CharPos(starts[idx-1])
		}
		return 0
	}
	return types.CharPos(starts[idx])
}

// ---- row/column conversion ----

// ToColumnLine converts a character position into a 0-based (column, line)
// pair.
func (b *Buffer) ToColumnLine(p types.CharPos) (col, line int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p = b.clamp(p)
	lineStart := b.lineStartLocked(p)
	lt := b.buildLineTable()
	line = lt.lineIndexOf(int(p))
	col = int(p - lineStart)
	return col, line
}

// ToCharIndex converts a 0-based (column, line) pair back into a character
// position, clamping the column to the target line's length. It is the
// inverse of ToColumnLine: ToCharIndex(ToColumnLine(p)) == p for any valid p.
func (b *Buffer) ToCharIndex(col, line int) types.CharPos {
	b.mu.RLock()
	defer b.mu.RUnlock()
	lt := b.buildLineTable()
	if line < 0 {
		line = 0
	}
	if line >= len(lt.starts) {
		line = len(lt.starts) - 1
	}
	lineLen := lt.ends[line] - lt.starts[line]
	if col < 0 {
		col = 0
	}
	if col > lineLen {
		col = lineLen
	}
	return types.CharPos(lt.starts[line] + col)
}
