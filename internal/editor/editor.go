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

// Package editor wires every kernel package into the orchestrator a
// front end drives: it owns the buffer/window tables, resolves keys into
// commands through internal/keys, forwards them to the right
// internal/bufferhost actor or internal/registry handler, and interprets
// whatever editor-level actions a reply carries. The editor never mutates
// a buffer directly; it dispatches messages to buffer-host actors and
// interprets their replies, since a buffer may be edited through a mode
// chain running on its own goroutine.
package editor

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agott/kernel/internal/buffer"
	"github.com/agott/kernel/internal/bufferhost"
	"github.com/agott/kernel/internal/dirty"
	"github.com/agott/kernel/internal/echo"
	"github.com/agott/kernel/internal/keys"
	"github.com/agott/kernel/internal/killring"
	"github.com/agott/kernel/internal/mode"
	"github.com/agott/kernel/internal/obs"
	"github.com/agott/kernel/internal/registry"
	"github.com/agott/kernel/internal/script"
	"github.com/agott/kernel/internal/types"
	"github.com/agott/kernel/internal/wintree"
)

const historyCap = 20

// windowState is one entry of the editor's window table: either an
// ordinary view onto a file/scratch buffer, or a transient command
// window hosting a selection menu or an isearch session.
type windowState struct {
	id     types.WindowID
	buffer types.BufferID
	kind   types.WindowKind

	cmdType types.CommandWindowType
	cmdPos  types.CommandWindowPosition
	// target is the normal window a command window acts on: the window
	// whose buffer a buffer-switch/kill replaces, or the window an
	// isearch session is searching.
	target types.WindowID

	cursor     types.CharPos
	scrollLine int
}

// Editor is the kernel's orchestrator: global state plus the key-event
// pipeline and the command-window lifecycle.
type Editor struct {
	log obs.Logger

	buffers map[types.BufferID]*buffer.Buffer
	hosts   map[types.BufferID]*bufferhost.Host
	windows map[types.WindowID]*windowState

	tree       *wintree.Node
	active     types.WindowID
	prevActive types.WindowID

	keyState     keys.KeyState
	bindings     *keys.Bindings
	currentChord string

	kills    *killring.Ring
	registry *registry.Registry

	history []types.BufferID // most-recent-first, cap historyCap

	echoArea *echo.Area
	dirty    *dirty.Tracker

	nextBufferID types.BufferID
	nextWindowID types.WindowID

	messagesBuffer types.BufferID
	hasMessages    bool

	// cmdBufferSet marks the transient buffers backing open command
	// windows (palette, buffer-switch, buffer-kill, file-selector,
	// isearch), so bufferMenuEntries never lists a "*Command:...*"
	// buffer as something the user can switch to or kill.
	cmdBufferSet map[types.BufferID]bool

	scriptHost *script.Host // nil if no scripting bindings were configured

	mouseDrag *mouseDragState

	size types.Size
	quit bool
}

// mouseDragSensitivity converts a drag's cell delta into a split-ratio
// delta.
const mouseDragSensitivity = 0.005

// mouseDragState tracks an in-progress border-resize drag: which split is
// being resized (identified by its direction and the window on each side
// of the border, per wintree.AdjustRatio's addressing scheme) and the last
// cell coordinate observed, so each further Drag event reports a delta
// rather than an absolute position.
type mouseDragState struct {
	dir       wintree.Direction
	firstSide types.WindowID
	restSide  types.WindowID
	lastCoord int
}

// New builds an editor with one scratch buffer filling the whole
// screen, the default key bindings, and the builtin command set
// registered. sh may be nil when no key is scripted.
func New(size types.Size, sh *script.Host, log obs.Logger) *Editor {
	e := &Editor{
		buffers:      map[types.BufferID]*buffer.Buffer{},
		hosts:        map[types.BufferID]*bufferhost.Host{},
		windows:      map[types.WindowID]*windowState{},
		bindings:     keys.DefaultBindings(),
		kills:        killring.New(),
		registry:     registry.New(),
		echoArea:     echo.New(),
		dirty:        dirty.New(),
		cmdBufferSet: map[types.BufferID]bool{},
		nextBufferID: 1,
		nextWindowID: 1,
		scriptHost:   sh,
		size:         size,
	}
	e.log = log
	e.registerCommands()

	bufID := e.newScratchBuffer("*scratch*")
	winID := e.newNormalWindow(bufID)
	e.tree = wintree.NewLeaf(winID)
	e.active = winID
	e.prevActive = winID
	return e
}

// Quit reports whether the quit command has run.
func (e *Editor) Quit() bool { return e.quit }

// ActiveWindow returns the id of the currently focused window.
func (e *Editor) ActiveWindow() types.WindowID { return e.active }

// Buffer returns the buffer backing a window, or nil if w is unknown.
func (e *Editor) Buffer(w types.WindowID) *buffer.Buffer {
	ws, ok := e.windows[w]
	if !ok {
		return nil
	}
	return e.buffers[ws.buffer]
}

// Cursor returns a window's cursor position.
func (e *Editor) Cursor(w types.WindowID) types.CharPos {
	ws, ok := e.windows[w]
	if !ok {
		return 0
	}
	return ws.cursor
}

// Tree exposes the window layout tree for the renderer.
func (e *Editor) Tree() *wintree.Node { return e.tree }

// ScrollLine returns a window's current scroll offset, in lines.
func (e *Editor) ScrollLine(w types.WindowID) int {
	ws, ok := e.windows[w]
	if !ok {
		return 0
	}
	return ws.scrollLine
}

// CommandWindow reports the active command window's flavor and screen
// position; ok is false when the active window is an ordinary one.
func (e *Editor) CommandWindow() (cwType types.CommandWindowType, pos types.CommandWindowPosition, ok bool) {
	w := e.windows[e.active]
	if w == nil || w.kind != types.WindowCommand {
		return 0, 0, false
	}
	return w.cmdType, w.cmdPos, true
}

// Size returns the editor's last-known screen size.
func (e *Editor) Size() types.Size { return e.size }

// SetSize records a new screen size (e.g. after a terminal resize) and
// forces a full repaint.
func (e *Editor) SetSize(size types.Size) {
	e.size = size
	e.dirty.Mark(dirty.FullScreen())
}

// EchoArea exposes the echo/message area for the renderer.
func (e *Editor) EchoArea() *echo.Area { return e.echoArea }

// Dirty exposes the invalidation tracker; the renderer drains and Clears
// it once per frame.
func (e *Editor) Dirty() *dirty.Tracker { return e.dirty }

func (e *Editor) now() time.Time { return time.Now() }

func (e *Editor) newScratchBuffer(title string) types.BufferID {
	id := e.nextBufferID
	e.nextBufferID++
	buf := buffer.New(id, title)
	e.buffers[id] = buf
	e.hosts[id] = bufferhost.New(buf, []mode.Mode{mode.NewScratchMode()}, e.kills, e.log)
	return id
}

func (e *Editor) newNormalWindow(bufID types.BufferID) types.WindowID {
	id := e.nextWindowID
	e.nextWindowID++
	e.windows[id] = &windowState{id: id, buffer: bufID, kind: types.WindowNormal}
	return id
}

// HandleKeyEvent resolves one raw keystroke and routes it: a completed
// chord either names a global/chrome command (run through the registry),
// a motion the editor applies directly to a normal window's cursor, or is
// forwarded to the active window's buffer host.
func (e *Editor) HandleKeyEvent(ev keys.KeyEvent) {
	e.echoArea.ExpireIfStale(e.now())
	result := e.bindings.Keystroke(&e.keyState, ev)
	switch result.Kind {
	case keys.ChordNext:
		e.currentChord = result.Chord
		return
	case keys.NoBinding:
		e.currentChord = ""
		// a bare printable key is self-insert, but only on its own: a
		// failed multi-key chord ("C-x q") is undefined, not an insert of
		// its trailing rune
		singleKey := !strings.Contains(result.Chord, " ")
		if singleKey && ev.Logical == keys.KeyRune && ev.Mods == keys.ModNone {
			e.dispatchToActive(mode.SelfInsert(ev.Rune))
			return
		}
		e.echoArea.Showf(e.now(), "%s is undefined", result.Chord)
		return
	case keys.Resolved:
		e.currentChord = ""
		e.routeCommand(result.Command)
	}
}

// CurrentChord returns the display form of a chord still awaiting its next
// key ("C-x"), or "" when no chord is pending; the renderer shows it in the
// echo area without it entering the message log.
func (e *Editor) CurrentChord() string { return e.currentChord }

// HandleMouseEvent routes a mouse action: a press on a split
// border starts a resize drag that subsequent Drag events adjust and any
// Up event ends; a press anywhere else focuses the window under the
// cursor and forwards the event (window-relative) to its buffer host's
// mode chain for in-buffer handling (e.g. click-to-move, menu selection).
func (e *Editor) HandleMouseEvent(ev keys.MouseEvent) {
	layout := wintree.Layout(e.tree, wintree.Rect{W: e.size.Cols, H: e.size.Rows})

	switch ev.Kind {
	case keys.MouseDown:
		if dir, first, rest, ok := wintree.FindBorderAt(layout, ev.Column, ev.Row); ok {
			coord := ev.Column
			if dir == wintree.Horizontal {
				coord = ev.Row
			}
			e.mouseDrag = &mouseDragState{dir: dir, firstSide: first, restSide: rest, lastCoord: coord}
			return
		}
		e.mouseDrag = nil
		e.forwardMouseAt(layout, ev)
	case keys.MouseDrag:
		if e.mouseDrag != nil {
			e.continueDrag(ev)
			return
		}
		e.forwardMouseAt(layout, ev)
	case keys.MouseUp:
		if e.mouseDrag != nil {
			e.mouseDrag = nil
			return
		}
		e.forwardMouseAt(layout, ev)
	}
}

func (e *Editor) continueDrag(ev keys.MouseEvent) {
	d := e.mouseDrag
	coord := ev.Column
	if d.dir == wintree.Horizontal {
		coord = ev.Row
	}
	delta := float64(coord-d.lastCoord) * mouseDragSensitivity
	if delta == 0 {
		return
	}
	d.lastCoord = coord
	e.tree = wintree.AdjustRatio(e.tree, d.dir, d.firstSide, d.restSide, delta)
	e.dirty.Mark(dirty.FullScreen())
}

// forwardMouseAt finds the normal window under the event's absolute
// coordinate, focuses it (clicks, not drags/ups, move focus), and hands
// the event to its buffer host with coordinates translated to be
// window-relative.
func (e *Editor) forwardMouseAt(layout map[types.WindowID]wintree.Rect, ev keys.MouseEvent) {
	for id, rect := range layout {
		if ev.Column < rect.X || ev.Column >= rect.X+rect.W || ev.Row < rect.Y || ev.Row >= rect.Y+rect.H {
			continue
		}
		w := e.windows[id]
		if w == nil {
			return
		}
		if ev.Kind == keys.MouseDown {
			e.focusWindow(id)
		}
		me := mode.MouseEvent{
			Kind:   translateMouseKind(ev.Kind),
			Column: ev.Column - rect.X,
			Row:    ev.Row - rect.Y,
		}
		host := e.hosts[w.buffer]
		if host == nil {
			return
		}
		rep := host.HandleMouse(me, w.cursor, w.id)
		e.applyReply(w, rep)
		return
	}
}

func translateMouseKind(k keys.MouseEventKind) mode.MouseKind {
	switch k {
	case keys.MouseDown:
		return mode.MouseDown
	case keys.MouseDrag:
		return mode.MouseDrag
	default:
		return mode.MouseUp
	}
}

var globalCommands = map[string]bool{
	"save-buffer":          true,
	"find-file":            true,
	"switch-buffer":        true,
	"kill-buffer":          true,
	"split-window-below":   true,
	"split-window-right":   true,
	"delete-window":        true,
	"delete-other-windows": true,
	"other-window":         true,
	"quit":                 true,
	"execute-command":      true,
	"eval-expression":      true,
}

// motionCommands are cursor movements the editor applies directly
// against a normal window's buffer; EditingMode has no case for any of
// these since a mode only ever sees commands that mutate text, the
// mark, or the kill ring.
var motionCommands = map[string]func(*buffer.Buffer, types.CharPos) types.CharPos{
	"forward-char":           (*buffer.Buffer).MoveRight,
	"backward-char":          (*buffer.Buffer).MoveLeft,
	"next-line":              (*buffer.Buffer).MoveDown,
	"previous-line":          (*buffer.Buffer).MoveUp,
	"move-beginning-of-line": (*buffer.Buffer).MoveLineStart,
	"move-end-of-line":       (*buffer.Buffer).MoveLineEnd,
	"forward-word":           (*buffer.Buffer).MoveWordForward,
	"backward-word":          (*buffer.Buffer).MoveWordBackward,
	"forward-paragraph":      (*buffer.Buffer).MoveParagraphForward,
	"backward-paragraph":     (*buffer.Buffer).MoveParagraphBackward,
}

func (e *Editor) routeCommand(cmd string) {
	w := e.windows[e.active]
	if w == nil {
		// the active window must always have a table entry; a miss means
		// the window tree and the window table have come apart
		e.log.Fatal("active window has no table entry", nil, map[string]any{"window": e.active})
		return
	}

	switch {
	case cmd == "escape":
		e.handleEscape(w)
		return
	case cmd == "keyboard-quit":
		e.handleCancel(w)
		return
	case globalCommands[cmd]:
		e.ExecuteCommand(cmd)
		return
	case w.kind == types.WindowCommand:
		e.dispatchToActive(mode.Cmd(cmd))
		return
	}

	buf := e.buffers[w.buffer]
	if fn, ok := motionCommands[cmd]; ok {
		w.cursor = fn(buf, w.cursor)
		e.afterMotion(w)
		return
	}
	switch cmd {
	case "beginning-of-buffer":
		w.cursor = buf.MoveBufferStart()
		e.afterMotion(w)
	case "end-of-buffer":
		w.cursor = buf.MoveBufferEnd()
		e.afterMotion(w)
	case "scroll-up":
		w.cursor = e.movePage(w, buf, 1)
		e.afterMotion(w)
	case "scroll-down":
		w.cursor = e.movePage(w, buf, -1)
		e.afterMotion(w)
	case "isearch-forward":
		e.startIsearch(w, mode.SearchForward)
	case "isearch-backward":
		e.startIsearch(w, mode.SearchBackward)
	case "undo":
		if pos, ok := buf.Undo(); ok {
			w.cursor = pos
			buf.Rehighlight()
			e.dirty.Mark(dirty.BufferRegion(w.buffer))
			e.dirty.Mark(dirty.Modeline(w.id, types.ModelineCursorPosition))
			e.autoScroll(w)
		} else {
			e.echoArea.Show(e.now(), "No further undo information")
		}
	case "redo":
		if pos, ok := buf.Redo(); ok {
			w.cursor = pos
			buf.Rehighlight()
			e.dirty.Mark(dirty.BufferRegion(w.buffer))
			e.dirty.Mark(dirty.Modeline(w.id, types.ModelineCursorPosition))
			e.autoScroll(w)
		} else {
			e.echoArea.Show(e.now(), "No further redo information")
		}
	default:
		e.dispatchToActive(mode.Cmd(cmd))
	}
}

// afterMotion is the shared tail of every cursor-moving command: mark the
// modeline's position component, repaint the whole buffer when a region is
// active (its highlight tracks the cursor), and keep the cursor in view.
func (e *Editor) afterMotion(w *windowState) {
	e.dirty.Mark(dirty.Modeline(w.id, types.ModelineCursorPosition))
	if buf := e.buffers[w.buffer]; buf != nil {
		if _, ok := buf.Mark(); ok {
			e.dirty.Mark(dirty.BufferRegion(w.buffer))
		}
		// plain motion never extends a shift-style region
		buf.ClearTransientMark()
	}
	e.autoScroll(w)
}

// windowHeight reports window id's laid-out cell height, for paging and
// auto-scroll math; falls back to a reasonable screen-sized default if
// the window isn't part of the current layout (e.g. a command window).
func (e *Editor) windowHeight(id types.WindowID) int {
	layout := wintree.Layout(e.tree, wintree.Rect{W: e.size.Cols, H: e.size.Rows})
	if r, ok := layout[id]; ok && r.H > 0 {
		return r.H
	}
	if e.size.Rows > 4 {
		return e.size.Rows
	}
	return 4
}

// movePage moves w's cursor by one page (PageUp/PageDown): the page size
// is window.height-3, applied as that many lines up or down from the
// cursor's current line, column preserved by clamping the way
// MoveDown/MoveUp already do.
func (e *Editor) movePage(w *windowState, buf *buffer.Buffer, dir int) types.CharPos {
	pageSize := e.windowHeight(w.id) - 3
	if pageSize < 1 {
		pageSize = 1
	}
	cursor := w.cursor
	if dir > 0 {
		for i := 0; i < pageSize; i++ {
			cursor = buf.MoveDown(cursor)
		}
	} else {
		for i := 0; i < pageSize; i++ {
			cursor = buf.MoveUp(cursor)
		}
	}
	return cursor
}

// autoScroll keeps w's cursor visible: with a content height of
// window.height-3, scroll forward if the cursor line has advanced past
// the visible window, scroll back if it's above it.
func (e *Editor) autoScroll(w *windowState) {
	if w.kind != types.WindowNormal {
		return
	}
	buf := e.buffers[w.buffer]
	if buf == nil {
		return
	}
	contentHeight := e.windowHeight(w.id) - 3
	if contentHeight < 1 {
		contentHeight = 1
	}
	_, cursorLine := buf.ToColumnLine(w.cursor)
	changed := false
	if cursorLine >= w.scrollLine+contentHeight {
		w.scrollLine = cursorLine - (contentHeight - 1)
		changed = true
	}
	if cursorLine < w.scrollLine {
		w.scrollLine = cursorLine
		changed = true
	}
	if changed {
		e.dirty.Mark(dirty.BufferRegion(w.buffer))
	}
}

// closeActiveCommandWindow tears down the active command window through
// whichever path fits its mode: isearch handles the key itself (its
// CancelIsearch effect restores the cursor before the window closes),
// while the selection menus have no escape case of their own and are
// closed directly.
func (e *Editor) closeActiveCommandWindow(w *windowState) {
	switch w.cmdType {
	case types.CommandWindowIsearchForward, types.CommandWindowIsearchBackward:
		e.dispatchToActive(mode.Cmd("escape"))
	default:
		e.closeCommandWindow()
	}
}

// handleEscape closes an open command window; with none open the key
// passes through to the active buffer's mode chain.
func (e *Editor) handleEscape(w *windowState) {
	if w.kind == types.WindowCommand {
		e.closeActiveCommandWindow(w)
		return
	}
	e.dispatchToActive(mode.Cmd("escape"))
}

// handleCancel is C-g: close an open command window, else deactivate the
// mark, else just announce the quit.
func (e *Editor) handleCancel(w *windowState) {
	if w.kind == types.WindowCommand {
		e.closeActiveCommandWindow(w)
		return
	}
	buf := e.buffers[w.buffer]
	if _, ok := buf.Mark(); ok {
		buf.ClearMark()
		e.dirty.Mark(dirty.BufferRegion(w.buffer))
		return
	}
	e.echoArea.Show(e.now(), "Quit")
}

// dispatchToActive forwards action to the active window's buffer host
// and applies whatever it replies with.
func (e *Editor) dispatchToActive(action mode.Action) {
	w := e.windows[e.active]
	if w == nil {
		return
	}
	e.dispatchTo(w, action)
}

func (e *Editor) dispatchTo(w *windowState, action mode.Action) {
	host := e.hosts[w.buffer]
	if host == nil {
		return
	}
	rep := host.HandleKey(action, w.cursor, w.id)
	e.applyReply(w, rep)
}

func (e *Editor) applyReply(w *windowState, rep bufferhost.Reply) {
	if rep.Kind == bufferhost.ReplyError {
		if rep.Err != nil {
			e.echoArea.Show(e.now(), rep.Err.Error())
			e.log.Warn("buffer host reply error", rep.Err, map[string]any{"window": w.id})
		}
		return
	}
	if rep.Kind == bufferhost.Saved {
		e.echoArea.Showf(e.now(), "Wrote %s", rep.Path)
	}
	if rep.BufferChanged {
		if buf := e.buffers[w.buffer]; buf != nil {
			buf.Rehighlight()
		}
	}
	if rep.HasCursor {
		w.cursor = rep.Cursor
		e.autoScroll(w)
	}
	for _, d := range rep.Dirty {
		e.dirty.Mark(d)
	}
	if rep.EditorAction != nil {
		e.interpretEditorAction(w, *rep.EditorAction)
	}
}

func (e *Editor) interpretEditorAction(w *windowState, a bufferhost.EditorAction) {
	switch a.Kind {
	case bufferhost.ActionExecuteCommand:
		e.ExecuteCommand(a.Name)
	case bufferhost.ActionSwitchToBuffer:
		e.switchWindowBuffer(w, a.BufferID)
	case bufferhost.ActionKillBuffer:
		e.killBuffer(a.BufferID)
	case bufferhost.ActionOpenFile:
		e.openFileForWindow(w, a.Path, a.OpenType)
	case bufferhost.ActionEvaluateScript:
		e.evaluateScript(w, a.ScriptExpr)
	case bufferhost.ActionUpdateIsearch:
		e.applyIsearchUpdate(a.TargetBuffer, a.TargetWindow, a.Matches, a.CurrentMatch)
	case bufferhost.ActionAcceptIsearch:
		e.acceptIsearch(w, a.TargetBuffer, a.SearchTerm)
	case bufferhost.ActionCancelIsearch:
		e.cancelIsearch(w, a.TargetBuffer, a.TargetWindow, a.OriginalCursor)
	case bufferhost.ActionMoveCursor:
		// mouse rows are window-relative; the scroll anchor translates
		// them into buffer lines
		buf := e.buffers[w.buffer]
		w.cursor = buf.ToCharIndex(a.Col, a.Row+w.scrollLine)
		e.dirty.Mark(dirty.Modeline(w.id, types.ModelineCursorPosition))
		e.autoScroll(w)
	}
}

// ExecuteCommand runs a registered command against the active window
// and applies every resulting chrome action; it is the entry point the
// M-x palette commits through.
func (e *Editor) ExecuteCommand(name string) {
	e.closeCommandWindow()
	w := e.windows[e.active]
	if w == nil {
		return
	}
	if line, ok := parseGotoLineName(name); ok {
		buf := e.buffers[w.buffer]
		w.cursor = buf.ToCharIndex(0, line)
		e.dirty.Mark(dirty.Modeline(w.id, types.ModelineCursorPosition))
		e.autoScroll(w)
		return
	}
	buf := e.buffers[w.buffer]
	col, line := buf.ToColumnLine(w.cursor)
	ctx := registry.CommandContext{
		BufferID:   w.buffer,
		WindowID:   w.id,
		BufferName: buf.Title(),
		Content:    buf.Text(),
		Cursor:     w.cursor,
		Modified:   buf.Modified(),
		Line:       line + 1,
		Column:     col + 1,
	}
	actions, err := e.registry.Execute(name, ctx)
	if err != nil {
		// mode-contributed commands (indent-line, newline-and-indent)
		// live in the buffer's chain, not the registry
		if host := e.hosts[w.buffer]; host != nil {
			for _, c := range host.AvailableCommands() {
				if c.Name == name {
					e.dispatchTo(w, mode.Cmd(name))
					return
				}
			}
		}
		hint := e.registry.Hint(name)
		if hint != "" {
			e.echoArea.Showf(e.now(), "No such command: %s (did you mean: %s?)", name, hint)
		} else {
			e.echoArea.Showf(e.now(), "No such command: %s", name)
		}
		return
	}
	for _, a := range actions {
		e.applyChromeAction(w, a)
	}
}

func (e *Editor) applyChromeAction(w *windowState, a registry.ChromeAction) {
	switch a.Kind {
	case registry.ChromeFindFile:
		e.openFileSelector(w)
	case registry.ChromeCommandMode:
		e.openPalette(w)
	case registry.ChromeSwitchBuffer:
		e.openBufferSwitch(w)
	case registry.ChromeKillBuffer:
		e.openBufferKill(w)
	case registry.ChromeSave:
		host := e.hosts[w.buffer]
		rep := host.Save()
		if rep.Kind == bufferhost.ReplyError {
			if rep.Err != nil {
				e.echoArea.Show(e.now(), rep.Err.Error())
			}
			return
		}
		if rep.BufferChanged {
			e.buffers[w.buffer].Rehighlight()
		}
		for _, d := range rep.Dirty {
			e.dirty.Mark(d)
		}
		e.echoArea.Showf(e.now(), "Wrote %s", rep.Path)
	case registry.ChromeCursorMove:
		buf := e.buffers[w.buffer]
		w.cursor = buf.ToCharIndex(a.Col, a.Row)
		e.dirty.Mark(dirty.Modeline(w.id, types.ModelineCursorPosition))
		e.autoScroll(w)
	case registry.ChromeEcho:
		e.echoArea.Show(e.now(), a.Message)
	case registry.ChromeMarkDirty:
		if region, ok := a.Dirty.(dirty.Region); ok {
			e.dirty.Mark(region)
		}
	case registry.ChromeQuit:
		e.quit = true
	case registry.ChromeSplitHorizontal:
		e.splitWindow(w, wintree.Horizontal)
	case registry.ChromeSplitVertical:
		e.splitWindow(w, wintree.Vertical)
	case registry.ChromeSwitchWindow:
		e.otherWindow()
	case registry.ChromeDeleteWindow:
		e.deleteWindow(w)
	case registry.ChromeDeleteOtherWindows:
		e.deleteOtherWindows(w)
	case registry.ChromeShowMessages:
		e.showMessages()
	case registry.ChromeGotoLine:
		buf := e.buffers[w.buffer]
		w.cursor = buf.ToCharIndex(0, a.Row-1)
		e.dirty.Mark(dirty.Modeline(w.id, types.ModelineCursorPosition))
		e.autoScroll(w)
	case registry.ChromeRepeatLastCommand:
		e.dispatchTo(w, mode.Cmd("repeat-last-command"))
	case registry.ChromeEvalExpression:
		e.openEvalExpression(w)
	}
}

// OpenFile visits path in the active window, the entry point a front end
// uses to honor a file named on its command line.
func (e *Editor) OpenFile(path string) {
	w := e.windows[e.active]
	if w == nil {
		return
	}
	e.openFileForWindow(w, path, mode.OpenVisit)
}

// openFileForWindow loads path into a file buffer (an empty one if the
// file doesn't exist yet) and switches w to show it.
func (e *Editor) openFileForWindow(w *windowState, path string, ot mode.OpenType) {
	if path == "" {
		return
	}
	abs := path
	if p, err := filepath.Abs(path); err == nil {
		abs = p
	}
	for id, buf := range e.buffers {
		if buf.Path() == abs {
			e.switchWindowBuffer(w, id)
			return
		}
	}

	id := e.nextBufferID
	e.nextBufferID++
	title := filepath.Base(abs)
	buf := buffer.FromText(id, title, abs, "")
	e.buffers[id] = buf
	e.hosts[id] = bufferhost.New(buf, []mode.Mode{mode.NewEditingMode()}, e.kills, e.log)

	host := e.hosts[id]
	if ot == mode.OpenVisit {
		if rep := host.Load(abs); rep.Kind == bufferhost.ReplyError {
			if os.IsNotExist(rep.Err) {
				e.echoArea.Showf(e.now(), "(New file)")
			} else {
				e.echoArea.Show(e.now(), rep.Err.Error())
			}
		}
	}
	if filepath.Ext(abs) == ".go" {
		buf.SetMajorMode("go")
	}
	buf.SetShowGutter(true)
	e.switchWindowBuffer(w, id)
}

func (e *Editor) evaluateScript(w *windowState, expr string) {
	// an M-: prompt evaluates against the window it was opened from, not
	// its own transient buffer
	if w.kind == types.WindowCommand {
		target := w.target
		e.closeCommandWindow()
		tw := e.windows[target]
		if tw == nil {
			tw = e.windows[e.active]
		}
		if tw == nil {
			return
		}
		w = tw
	}
	if e.scriptHost == nil {
		e.echoArea.Show(e.now(), "scripting is disabled")
		return
	}
	out, effects, err := e.scriptHost.EvalExpression(expr)
	if err != nil {
		e.echoArea.Show(e.now(), err.Error())
		return
	}
	translated := make([]mode.Effect, 0, len(effects))
	for _, eff := range effects {
		if te, ok := mode.TranslateScriptEffect(eff); ok {
			translated = append(translated, te)
		}
	}
	if len(translated) > 0 {
		host := e.hosts[w.buffer]
		rep := host.ApplyEffects(translated, w.cursor, w.id)
		e.applyReply(w, rep)
	}
	if out != "" {
		e.echoArea.Show(e.now(), out)
	}
}

func (e *Editor) recordHistory(id types.BufferID) {
	filtered := e.history[:0]
	for _, b := range e.history {
		if b != id {
			filtered = append(filtered, b)
		}
	}
	e.history = append([]types.BufferID{id}, filtered...)
	if len(e.history) > historyCap {
		e.history = e.history[:historyCap]
	}
}

// parseGotoLineName recognizes the ":<N>" and "$" goto-line supplements
// typed into the M-x palette when no registered command matches, returning
// a 0-based line number. "$" names the last line; ToCharIndex clamps any
// out-of-range line to the buffer's last one, so a large sentinel works
// without knowing the buffer's length here.
func parseGotoLineName(name string) (int, bool) {
	if name == "$" {
		return 1 << 30, true
	}
	if !strings.HasPrefix(name, ":") {
		return 0, false
	}
	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

func (e *Editor) bufferMenuEntries(exclude types.BufferID) []mode.MenuEntry {
	ids := make([]types.BufferID, 0, len(e.buffers))
	for id := range e.buffers {
		if e.cmdBufferSet[id] {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]mode.MenuEntry, 0, len(ids))
	for _, id := range ids {
		if id == exclude {
			continue
		}
		out = append(out, mode.MenuEntry{Label: e.buffers[id].Title(), BufferID: id})
	}
	return out
}
