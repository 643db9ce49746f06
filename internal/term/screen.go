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

// Package term is the terminal front end: a render.Renderer backed by
// termbox-go, plus an input loop translating termbox events into
// internal/keys events the editor's HandleKeyEvent consumes. Each render
// walks internal/wintree's layout and draws every leaf window, its
// modeline, and whichever command window (if any) is active.
package term

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"

	"github.com/agott/kernel/internal/dirty"
	"github.com/agott/kernel/internal/editor"
	"github.com/agott/kernel/internal/keys"
	"github.com/agott/kernel/internal/render"
	"github.com/agott/kernel/internal/types"
	"github.com/agott/kernel/internal/wintree"
)

var _ render.Renderer = (*Screen)(nil)

// Screen is the termbox-backed render.Renderer. It tracks no invalidation
// of its own beyond internal/dirty.Tracker: every render pass redraws the
// full frame unconditionally.
type Screen struct {
	size      types.Size
	mouseDown bool
}

// gutterWidth is the cell width of the line-number gutter, numbers plus a
// trailing space.
const gutterWidth = 5

// NewScreen opens the terminal in 256-color output mode. Alt input mode
// makes Meta-prefixed chords (M-x, M-w, ...) arrive as a single event
// with ModAlt set rather than a bare Esc followed by the key, and mouse
// reporting enables border-drag window resizing.
func NewScreen() (*Screen, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("term: init: %w", err)
	}
	termbox.SetOutputMode(termbox.Output256)
	termbox.SetInputMode(termbox.InputAlt | termbox.InputMouse)
	return &Screen{}, nil
}

// Close releases the terminal.
func (s *Screen) Close() { termbox.Close() }

// MarkDirty is a no-op: Screen keeps no invalidation state of its own,
// since every RenderFull/RenderIncremental call already repaints
// everything (see RenderIncremental's doc comment).
func (s *Screen) MarkDirty(dirty.Region) {}

// RenderIncremental coalesces to a full repaint. The interface permits
// this explicitly, and a terminal-sized buffer is cheap enough to redraw
// every keystroke.
func (s *Screen) RenderIncremental(ed any) error { return s.RenderFull(ed) }

// RenderFull repaints every window in the layout tree, the active
// command window if one is open, and the echo area's bottom row.
func (s *Screen) RenderFull(ed any) error {
	e, ok := ed.(*editor.Editor)
	if !ok {
		return fmt.Errorf("term: renderer requires *editor.Editor, got %T", ed)
	}
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

	cols, rows := termbox.Size()
	size := types.Size{Rows: rows, Cols: cols}
	s.size = size
	if editRows := rows - 1; e.Size() != (types.Size{Rows: editRows, Cols: cols}) {
		e.SetSize(types.Size{Rows: editRows, Cols: cols})
	}

	layout := wintree.Layout(e.Tree(), wintree.Rect{X: 0, Y: 0, W: cols, H: rows - 1})
	for id, rect := range layout {
		s.renderWindow(e, id, rect)
	}
	s.renderEchoArea(e, rows-1, cols)

	var cursorRect wintree.Rect
	cursorWindow := e.ActiveWindow()
	if r, ok := layout[cursorWindow]; ok {
		cursorRect = r
	}

	if cwType, pos, ok := e.CommandWindow(); ok {
		cmdRect := s.renderCommandWindow(e, cwType, pos, size)
		cursorRect = cmdRect
	}
	s.positionCursor(e, cursorWindow, cursorRect)

	termbox.Flush()
	return nil
}

// ClearDirty is a no-op alongside MarkDirty; the editor's own
// dirty.Tracker is drained by its caller, Screen tracks nothing extra.
func (s *Screen) ClearDirty() {}

func (s *Screen) renderWindow(e *editor.Editor, id types.WindowID, rect wintree.Rect) {
	buf := e.Buffer(id)
	if buf == nil || rect.H <= 0 {
		return
	}
	textRows := rect.H - 1
	if textRows < 0 {
		textRows = 0
	}
	lines := strings.Split(buf.Text(), "\n")
	scroll := e.ScrollLine(id)

	gutter := 0
	if buf.ShowGutter() && rect.W > gutterWidth+4 {
		gutter = gutterWidth
	}
	var region span
	if start, end, ok := buf.Region(e.Cursor(id)); ok {
		region = span{start: start, end: end, active: true}
	}
	for row := 0; row < textRows; row++ {
		lineIdx := scroll + row
		if lineIdx >= len(lines) {
			continue
		}
		if gutter > 0 {
			num := fmt.Sprintf("%*d ", gutter-1, lineIdx+1)
			for i, ch := range num {
				termbox.SetCell(rect.X+i, rect.Y+row, ch, termbox.ColorBlue, termbox.ColorDefault)
			}
		}
		s.renderLine(buf, lines[lineIdx], lineIdx, rect.X+gutter, rect.Y+row, rect.W-gutter, region)
	}
	if textRows >= 0 {
		s.renderModeline(e, id, rect.X, rect.Y+textRows, rect.W)
	}
}

// span is a half-open character range the renderer paints with the region
// face on top of whatever the span store says.
type span struct {
	start, end types.CharPos
	active     bool
}

func (sp span) contains(p types.CharPos) bool {
	return sp.active && p >= sp.start && p < sp.end
}

func (s *Screen) renderLine(buf interface {
	ToCharIndex(col, line int) types.CharPos
	FaceAt(p types.CharPos) (types.Face, bool)
}, line string, lineIdx, x, y, width int, region span) {
	col := 0
	for _, r := range line {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			w = 1
		}
		if col >= width {
			break
		}
		pos := buf.ToCharIndex(col, lineIdx)
		face, _ := buf.FaceAt(pos)
		if region.contains(pos) {
			face = types.FaceRegion
		}
		fg, bg := faceColors(face)
		termbox.SetCell(x+col, y, r, fg, bg)
		col += w
	}
}

func (s *Screen) renderModeline(e *editor.Editor, id types.WindowID, x, y, width int) {
	b := e.Buffer(id)
	if b == nil {
		return
	}
	cursor := e.Cursor(id)
	col, ln := b.ToColumnLine(cursor)
	modified := " "
	if b.Modified() {
		modified = "*"
	}
	text := fmt.Sprintf(" %s%s  %d:%d ", modified, b.Title(), ln+1, col+1)
	for len(text) < width {
		text += " "
	}
	if len(text) > width {
		text = text[:width]
	}
	for i, ch := range text {
		if i >= width {
			break
		}
		termbox.SetCell(x+i, y, ch, termbox.ColorBlack, termbox.ColorWhite)
	}
}

func (s *Screen) renderEchoArea(e *editor.Editor, y, width int) {
	// a pending chord ("C-x-") takes precedence over any echoed message
	text := e.EchoArea().Current()
	if chord := e.CurrentChord(); chord != "" {
		text = chord + "-"
	}
	if len(text) > width {
		text = text[:width]
	}
	for x := 0; x < width; x++ {
		termbox.SetCell(x, y, ' ', termbox.ColorDefault, termbox.ColorDefault)
	}
	for x, ch := range text {
		if x >= width {
			break
		}
		termbox.SetCell(x, y, ch, termbox.ColorDefault, termbox.ColorDefault)
	}
}

// renderCommandWindow draws a one-line-tall title bar plus the command
// buffer's own rendered content (already laid out by its SelectionMenu
// or IsearchMode, one entry/status per line) in a band pinned to the top
// or bottom of the screen, returning the rect it drew into so the caller
// can position the cursor inside it.
func (s *Screen) renderCommandWindow(e *editor.Editor, cwType types.CommandWindowType, pos types.CommandWindowPosition, size types.Size) wintree.Rect {
	height := 8
	if height > size.Rows-2 {
		height = size.Rows - 2
	}
	if height < 2 {
		height = 2
	}
	y := 1
	if pos == types.CommandWindowBottom {
		y = size.Rows - 1 - height
	}
	rect := wintree.Rect{X: 0, Y: y, W: size.Cols, H: height}

	title := titleFor(cwType)
	for x := 0; x < rect.W; x++ {
		termbox.SetCell(rect.X+x, rect.Y, ' ', termbox.ColorBlack, termbox.ColorCyan)
	}
	for i, ch := range title {
		if i >= rect.W {
			break
		}
		termbox.SetCell(rect.X+i, rect.Y, ch, termbox.ColorBlack, termbox.ColorCyan)
	}

	buf := e.Buffer(e.ActiveWindow())
	if buf == nil {
		return rect
	}
	lines := strings.Split(buf.Text(), "\n")
	for row := 0; row < rect.H-1; row++ {
		if row >= len(lines) {
			break
		}
		s.renderLine(buf, lines[row], row, rect.X, rect.Y+1+row, rect.W, span{})
	}
	return wintree.Rect{X: rect.X, Y: rect.Y + 1, W: rect.W, H: rect.H - 1}
}

func titleFor(cwType types.CommandWindowType) string {
	switch cwType {
	case types.CommandWindowPalette:
		return " M-x "
	case types.CommandWindowBufferSwitch:
		return " switch to buffer "
	case types.CommandWindowBufferKill:
		return " kill buffer "
	case types.CommandWindowFileSelector:
		return " find file "
	case types.CommandWindowIsearchForward:
		return " isearch "
	case types.CommandWindowIsearchBackward:
		return " isearch backward "
	case types.CommandWindowEval:
		return " M-: "
	default:
		return ""
	}
}

func (s *Screen) positionCursor(e *editor.Editor, w types.WindowID, rect wintree.Rect) {
	buf := e.Buffer(w)
	if buf == nil {
		termbox.HideCursor()
		return
	}
	col, ln := buf.ToColumnLine(e.Cursor(w))
	scroll := e.ScrollLine(w)
	row := ln - scroll
	if row < 0 || (rect.H > 0 && row >= rect.H) {
		termbox.HideCursor()
		return
	}
	gutter := 0
	if buf.ShowGutter() && rect.W > gutterWidth+4 {
		gutter = gutterWidth
	}
	termbox.SetCursor(rect.X+gutter+col, rect.Y+row)
}

func faceColors(face types.Face) (termbox.Attribute, termbox.Attribute) {
	switch face {
	case types.FaceKeyword:
		return termbox.ColorYellow, termbox.ColorDefault
	case types.FaceString:
		return termbox.ColorGreen, termbox.ColorDefault
	case types.FaceComment:
		return termbox.ColorBlue, termbox.ColorDefault
	case types.FaceNumber:
		return termbox.ColorMagenta, termbox.ColorDefault
	case types.FacePunctuation:
		return termbox.ColorCyan, termbox.ColorDefault
	case types.FaceRegion:
		return termbox.ColorBlack, termbox.ColorWhite
	case types.FaceIsearch:
		return termbox.ColorBlack, termbox.ColorYellow
	case types.FaceIsearchActive:
		return termbox.ColorBlack, termbox.ColorGreen
	default:
		return termbox.ColorDefault, termbox.ColorDefault
	}
}

// PollKind classifies what PollEvent returned.
type PollKind int

const (
	PollNone PollKind = iota
	PollKey
	PollMouse
	PollResize
)

// PollEvent blocks for the next terminal event, translating it into a key
// event, a mouse event (kind inferred from termbox's press/drag/release
// sequence, since termbox itself doesn't distinguish press from drag), a
// resize, or PollNone for any other event type. Keys termbox reports but
// the kernel has no slot for still arrive as PollKey (see translateKey).
func (s *Screen) PollEvent() (key keys.KeyEvent, mouse keys.MouseEvent, kind PollKind) {
	raw := termbox.PollEvent()
	switch raw.Type {
	case termbox.EventResize:
		return keys.KeyEvent{}, keys.MouseEvent{}, PollResize
	case termbox.EventKey:
		k, ok := translateKey(raw)
		if !ok {
			return keys.KeyEvent{}, keys.MouseEvent{}, PollNone
		}
		return k, keys.MouseEvent{}, PollKey
	case termbox.EventMouse:
		return keys.KeyEvent{}, s.translateMouse(raw), PollMouse
	default:
		return keys.KeyEvent{}, keys.MouseEvent{}, PollNone
	}
}

// translateMouse infers Down/Drag/Up from termbox's event stream: termbox
// reports every cell the pointer moves over while a button is held as a
// repeat of that button's event, and the release as MouseRelease, so
// Screen tracks whether a button is currently down to tell press from
// drag.
func (s *Screen) translateMouse(raw termbox.Event) keys.MouseEvent {
	kind := keys.MouseDrag
	switch raw.Key {
	case termbox.MouseRelease:
		kind = keys.MouseUp
		s.mouseDown = false
	default:
		if !s.mouseDown {
			kind = keys.MouseDown
			s.mouseDown = true
		}
	}
	return keys.MouseEvent{Kind: kind, Column: raw.MouseX, Row: raw.MouseY}
}
