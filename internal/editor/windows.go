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

package editor

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/agott/kernel/internal/buffer"
	"github.com/agott/kernel/internal/bufferhost"
	"github.com/agott/kernel/internal/dirty"
	"github.com/agott/kernel/internal/mode"
	"github.com/agott/kernel/internal/types"
	"github.com/agott/kernel/internal/wintree"
)

// menuVisibleRows estimates how many rows a centred command window's
// selection menu can show, capped so a tall screen doesn't turn the
// palette into a full-height list.
func (e *Editor) menuVisibleRows() int {
	rows := e.size.Rows - 4
	if rows > 10 {
		rows = 10
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

func commandWindowTitle(cwType types.CommandWindowType) string {
	switch cwType {
	case types.CommandWindowPalette:
		return "*Command:M-x*"
	case types.CommandWindowBufferSwitch:
		return "*Command:switch-buffer*"
	case types.CommandWindowBufferKill:
		return "*Command:kill-buffer*"
	case types.CommandWindowFileSelector:
		return "*Command:find-file*"
	case types.CommandWindowIsearchForward:
		return "*Command:isearch-forward*"
	case types.CommandWindowIsearchBackward:
		return "*Command:isearch-backward*"
	case types.CommandWindowEval:
		return "*Command:eval-expression*"
	default:
		return "*Command*"
	}
}

// createCommandWindow opens a transient command window of the given
// flavor, running chain over a fresh buffer of its own, and focuses it.
// target names the normal window the command window acts on: the one
// whose buffer a buffer-switch/kill replaces, or the one an isearch
// session searches.
func (e *Editor) createCommandWindow(cwType types.CommandWindowType, pos types.CommandWindowPosition, target types.WindowID, chain []mode.Mode) *windowState {
	bufID := e.nextBufferID
	e.nextBufferID++
	buf := buffer.New(bufID, commandWindowTitle(cwType))
	e.buffers[bufID] = buf
	e.hosts[bufID] = bufferhost.New(buf, chain, e.kills, e.log)
	e.cmdBufferSet[bufID] = true

	winID := e.nextWindowID
	e.nextWindowID++
	ws := &windowState{id: winID, buffer: bufID, kind: types.WindowCommand, cmdType: cwType, cmdPos: pos, target: target}
	e.windows[winID] = ws

	e.prevActive = e.active
	e.active = winID
	e.dirty.Mark(dirty.FullScreen())
	return ws
}

// closeCommandWindow tears down the active command window, if any, and
// returns focus to the normal window it was acting on.
func (e *Editor) closeCommandWindow() {
	w := e.windows[e.active]
	if w == nil || w.kind != types.WindowCommand {
		return
	}
	if host := e.hosts[w.buffer]; host != nil {
		host.Stop()
	}
	delete(e.hosts, w.buffer)
	delete(e.buffers, w.buffer)
	delete(e.cmdBufferSet, w.buffer)
	delete(e.windows, w.id)

	target := w.target
	if _, ok := e.windows[target]; !ok {
		target = e.anyNormalWindow()
	}
	e.active = target
	e.dirty.Mark(dirty.FullScreen())
}

// anyNormalWindow returns some window on the tree, which holds only
// normal windows (command windows are explicitly excluded from it).
func (e *Editor) anyNormalWindow() types.WindowID {
	leaves := e.tree.Leaves()
	if len(leaves) == 0 {
		return 0
	}
	return leaves[0]
}

// renderMenuInitial applies a freshly-opened selection menu's initial
// unfiltered render to the command window's own buffer.
func (e *Editor) renderMenuInitial(cw *windowState, m *mode.SelectionMenu) {
	host := e.hosts[cw.buffer]
	if host == nil {
		return
	}
	rep := host.ApplyEffects(m.InitialRender(), 0, cw.id)
	e.applyReply(cw, rep)
}

func (e *Editor) openPalette(w *windowState) {
	commands := e.registry.All()
	entries := make([]mode.MenuEntry, 0, len(commands))
	seen := map[string]bool{}
	for _, c := range commands {
		entries = append(entries, mode.MenuEntry{Label: c.Name})
		seen[c.Name] = true
	}
	// the active buffer's modes may contribute commands of their own
	if host := e.hosts[w.buffer]; host != nil {
		for _, c := range host.AvailableCommands() {
			if !seen[c.Name] {
				entries = append(entries, mode.MenuEntry{Label: c.Name})
				seen[c.Name] = true
			}
		}
	}
	m := mode.NewPaletteMode(entries, e.menuVisibleRows())
	cw := e.createCommandWindow(types.CommandWindowPalette, types.CommandWindowBottom, w.id, []mode.Mode{m})
	e.renderMenuInitial(cw, m)
}

func (e *Editor) openBufferSwitch(w *windowState) {
	entries := e.bufferMenuEntries(w.buffer)
	m := mode.NewBufferSwitchMode(entries, e.menuVisibleRows())
	if alt, ok := e.alternateBuffer(w.buffer); ok {
		if buf, ok := e.buffers[alt]; ok {
			m.Preselect(buf.Title())
		}
	}
	cw := e.createCommandWindow(types.CommandWindowBufferSwitch, types.CommandWindowBottom, w.id, []mode.Mode{m})
	e.renderMenuInitial(cw, m)
}

func (e *Editor) openBufferKill(w *windowState) {
	entries := e.bufferMenuEntries(0)
	m := mode.NewBufferKillMode(entries, e.menuVisibleRows())
	if buf, ok := e.buffers[w.buffer]; ok {
		m.Preselect(buf.Title())
	}
	cw := e.createCommandWindow(types.CommandWindowBufferKill, types.CommandWindowBottom, w.id, []mode.Mode{m})
	e.renderMenuInitial(cw, m)
}

func (e *Editor) openEvalExpression(w *windowState) {
	m := mode.NewEvalExpressionMode(e.menuVisibleRows())
	cw := e.createCommandWindow(types.CommandWindowEval, types.CommandWindowBottom, w.id, []mode.Mode{m})
	e.renderMenuInitial(cw, m)
}

func (e *Editor) openFileSelector(w *windowState) {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	entries := e.directoryEntries(dir)
	m := mode.NewFileSelectorMode(entries, e.menuVisibleRows())
	cw := e.createCommandWindow(types.CommandWindowFileSelector, types.CommandWindowBottom, w.id, []mode.Mode{m})
	e.renderMenuInitial(cw, m)
}

// directoryEntries lists dir's contents for the file selector, sorted by
// name, directories suffixed with "/" the way a shell completion would
// show them.
func (e *Editor) directoryEntries(dir string) []mode.MenuEntry {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	out := make([]mode.MenuEntry, 0, len(ents))
	for _, de := range ents {
		name := de.Name()
		if de.IsDir() {
			name += "/"
		}
		out = append(out, mode.MenuEntry{Label: name, Path: filepath.Join(dir, de.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// alternateBuffer returns the most recent buffer in history other than
// exclude that still exists, for buffer-switch's default preselection and
// kill-buffer's fallback.
func (e *Editor) alternateBuffer(exclude types.BufferID) (types.BufferID, bool) {
	for _, id := range e.history {
		if id == exclude {
			continue
		}
		if _, ok := e.buffers[id]; ok {
			return id, true
		}
	}
	return 0, false
}

func (e *Editor) ensureScratchBuffer() types.BufferID {
	for id, buf := range e.buffers {
		if !e.cmdBufferSet[id] && buf.Title() == "*scratch*" {
			return id
		}
	}
	return e.newScratchBuffer("*scratch*")
}

// switchWindowBuffer points a normal window at buffer id. w may be the
// command window whose selection menu produced the request (palette,
// buffer-switch, file-selector), in which case w.target names the normal
// window to actually redirect; the command window is closed either way.
func (e *Editor) switchWindowBuffer(w *windowState, id types.BufferID) {
	if _, ok := e.buffers[id]; !ok {
		return
	}
	targetID := w.id
	if w.kind == types.WindowCommand {
		targetID = w.target
	}
	e.closeCommandWindow()
	tw := e.windows[targetID]
	if tw == nil {
		return
	}
	tw.buffer = id
	tw.cursor = 0
	tw.scrollLine = 0
	e.recordHistory(id)
	e.active = tw.id
	e.dirty.Mark(dirty.FullScreen())
}

// killBuffer removes a buffer and its host, closing any command window
// and repointing every window that showed it at an alternate (or a fresh
// scratch buffer if none remains).
func (e *Editor) killBuffer(id types.BufferID) {
	if _, ok := e.buffers[id]; !ok {
		return
	}
	e.closeCommandWindow()

	alt, ok := e.alternateBuffer(id)
	if !ok {
		alt = e.ensureScratchBuffer()
	}
	for _, winID := range e.tree.Leaves() {
		ws := e.windows[winID]
		if ws != nil && ws.buffer == id {
			ws.buffer = alt
			ws.cursor = 0
			ws.scrollLine = 0
		}
	}

	if host := e.hosts[id]; host != nil {
		host.Stop()
	}
	delete(e.hosts, id)
	delete(e.buffers, id)

	filtered := e.history[:0]
	for _, b := range e.history {
		if b != id {
			filtered = append(filtered, b)
		}
	}
	e.history = filtered
	e.dirty.Mark(dirty.FullScreen())
}

const messagesHeader = "*** Messages ***\n\n"

func (e *Editor) ensureMessagesBuffer() types.BufferID {
	text := messagesHeader + e.echoArea.RenderLog()
	if e.hasMessages {
		if buf, ok := e.buffers[e.messagesBuffer]; ok {
			n := buf.Len()
			buf.Delete(0, n)
			buf.Insert(0, text)
			buf.ClearModified()
			return e.messagesBuffer
		}
	}
	id := e.nextBufferID
	e.nextBufferID++
	buf := buffer.New(id, "*Messages*")
	buf.Insert(0, text)
	buf.ClearModified()
	e.buffers[id] = buf
	e.hosts[id] = bufferhost.New(buf, []mode.Mode{mode.NewReadOnlyMode()}, e.kills, e.log)
	e.messagesBuffer = id
	e.hasMessages = true
	return id
}

func (e *Editor) showMessages() {
	w := e.windows[e.active]
	if w == nil || w.kind != types.WindowNormal {
		return
	}
	id := e.ensureMessagesBuffer()
	e.switchWindowBuffer(w, id)
}

func (e *Editor) startIsearch(w *windowState, dir mode.IsearchDirection) {
	buf := e.buffers[w.buffer]
	if buf == nil {
		return
	}
	m := mode.NewIsearchMode(dir, buf.Text(), w.cursor, w.buffer, w.id)
	cwType := types.CommandWindowIsearchForward
	if dir == mode.SearchBackward {
		cwType = types.CommandWindowIsearchBackward
	}
	cw := e.createCommandWindow(cwType, types.CommandWindowBottom, w.id, []mode.Mode{m})
	host := e.hosts[cw.buffer]
	if host == nil {
		return
	}
	rep := host.ApplyEffects(m.InitialRender(), 0, cw.id)
	e.applyReply(cw, rep)
}

// applyIsearchUpdate repaints the target buffer's match highlights:
// every match gets FaceIsearch, the current match FaceIsearchActive, and
// the target window's cursor follows the current match.
func (e *Editor) applyIsearchUpdate(targetBuffer types.BufferID, targetWindow types.WindowID, matches []mode.Match, current int) {
	buf := e.buffers[targetBuffer]
	if buf == nil {
		return
	}
	buf.ClearFace(types.FaceIsearch)
	buf.ClearFace(types.FaceIsearchActive)
	for i, mt := range matches {
		face := types.FaceIsearch
		if i == current {
			face = types.FaceIsearchActive
		}
		buf.AddHighlight(buffer.HighlightSpan{
			Start: buf.ByteToChar(mt.Start),
			End:   buf.ByteToChar(mt.End),
			Face:  face,
		})
	}
	e.dirty.Mark(dirty.BufferRegion(targetBuffer))
	if len(matches) == 0 {
		return
	}
	if tw := e.windows[targetWindow]; tw != nil {
		tw.cursor = buf.ByteToChar(matches[current].End)
		e.dirty.Mark(dirty.Modeline(targetWindow, types.ModelineCursorPosition))
		e.autoScroll(tw)
	}
}

func (e *Editor) acceptIsearch(w *windowState, targetBuffer types.BufferID, term string) {
	if buf := e.buffers[targetBuffer]; buf != nil {
		buf.ClearFace(types.FaceIsearch)
		buf.ClearFace(types.FaceIsearchActive)
		e.dirty.Mark(dirty.BufferRegion(targetBuffer))
	}
	if term != "" {
		e.echoArea.Showf(e.now(), "Search: %s", term)
	}
	e.closeCommandWindow()
}

func (e *Editor) cancelIsearch(w *windowState, targetBuffer types.BufferID, targetWindow types.WindowID, original types.CharPos) {
	if buf := e.buffers[targetBuffer]; buf != nil {
		buf.ClearFace(types.FaceIsearch)
		buf.ClearFace(types.FaceIsearchActive)
		e.dirty.Mark(dirty.BufferRegion(targetBuffer))
	}
	if tw := e.windows[targetWindow]; tw != nil {
		tw.cursor = original
		e.dirty.Mark(dirty.Modeline(targetWindow, types.ModelineCursorPosition))
		e.autoScroll(tw)
	}
	e.closeCommandWindow()
}

func (e *Editor) splitWindow(w *windowState, dir wintree.Direction) {
	if w.kind != types.WindowNormal {
		return
	}
	newID := e.newNormalWindow(w.buffer)
	nw := e.windows[newID]
	nw.cursor = w.cursor
	nw.scrollLine = w.scrollLine

	tree, err := wintree.Split(e.tree, w.id, dir, newID)
	if err != nil {
		delete(e.windows, newID)
		return
	}
	e.tree = tree
	e.prevActive = e.active
	e.active = newID
	e.dirty.Mark(dirty.FullScreen())
}

func (e *Editor) deleteWindow(w *windowState) {
	if w.kind != types.WindowNormal {
		return
	}
	tree, promoted, err := wintree.Delete(e.tree, w.id)
	if err != nil {
		if err == wintree.ErrLastWindow {
			e.echoArea.Show(e.now(), "Cannot delete sole window")
		}
		return
	}
	e.tree = tree
	delete(e.windows, w.id)
	e.prevActive = e.active
	e.active = promoted
	e.dirty.Mark(dirty.FullScreen())
}

func (e *Editor) deleteOtherWindows(w *windowState) {
	if w.kind != types.WindowNormal {
		return
	}
	for _, id := range e.tree.Leaves() {
		if id != w.id {
			delete(e.windows, id)
		}
	}
	e.tree = wintree.NewLeaf(w.id)
	e.prevActive = e.active
	e.active = w.id
	e.dirty.Mark(dirty.FullScreen())
}

// focusWindow moves editor focus to id without otherwise touching the
// window or its buffer.
func (e *Editor) focusWindow(id types.WindowID) {
	w, ok := e.windows[id]
	if !ok {
		return
	}
	e.prevActive = e.active
	e.active = id
	e.recordHistory(w.buffer)
	e.dirty.Mark(dirty.Modeline(id, types.ModelineAll))
}

// otherWindow cycles focus to the next normal window in spatial order
// (top-to-bottom, left-to-right), wrapping past the last.
func (e *Editor) otherWindow() {
	layout := wintree.Layout(e.tree, wintree.Rect{W: e.size.Cols, H: e.size.Rows})
	order := wintree.SpatialOrder(layout)
	if len(order) == 0 {
		return
	}
	cur := e.active
	if w := e.windows[cur]; w == nil || w.kind != types.WindowNormal {
		cur = order[0]
	}
	idx := 0
	for i, id := range order {
		if id == cur {
			idx = i
			break
		}
	}
	e.focusWindow(order[(idx+1)%len(order)])
}
