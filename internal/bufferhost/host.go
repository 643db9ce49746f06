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

// Package bufferhost runs one buffer's mode chain as an actor: a single
// goroutine owns the buffer and serializes every key, mouse, save, and
// load request against it, replying over a one-shot channel per request.
//
// Each mode in the chain is its own actor goroutine with a request
// channel of its own (lifecycle managed by an errgroup the host Waits on
// at shutdown). The host queries them one at a time, awaiting each
// one-shot reply before moving on, so the chain stays serialized per key
// even though every actor is an independent task; a mode that panics
// closes its reply channel for that key and the host simply continues
// with the next mode.
package bufferhost

import (
	"fmt"
	"go/format"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/agott/kernel/internal/buffer"
	"github.com/agott/kernel/internal/dirty"
	"github.com/agott/kernel/internal/killring"
	"github.com/agott/kernel/internal/mode"
	"github.com/agott/kernel/internal/obs"
	"github.com/agott/kernel/internal/types"
)

// ReplyKind tags the outcome of a request.
type ReplyKind int

const (
	ActionsCompleted ReplyKind = iota
	Saved
	Loaded
	NoChange
	ReplyError
)

// EditorActionKind tags an effect the host cannot resolve on its own
// because it names another buffer, window, or the command registry; the
// editor orchestrator interprets these.
type EditorActionKind int

const (
	ActionExecuteCommand EditorActionKind = iota
	ActionSwitchToBuffer
	ActionKillBuffer
	ActionOpenFile
	ActionEvaluateScript
	ActionUpdateIsearch
	ActionAcceptIsearch
	ActionCancelIsearch
	ActionMoveCursor
)

// EditorAction is the pass-through record for an effect the host cannot
// resolve alone. At most one survives per key event; when several
// effects produce one, the last wins.
type EditorAction struct {
	Kind EditorActionKind

	Name string // ExecuteCommand

	BufferID types.BufferID // SwitchToBuffer, KillBuffer

	Path     string // OpenFile
	OpenType mode.OpenType

	ScriptExpr string // EvaluateScript

	Matches        []mode.Match // UpdateIsearch
	CurrentMatch   int
	TargetBuffer   types.BufferID
	TargetWindow   types.WindowID
	SearchTerm     string        // AcceptIsearch
	OriginalCursor types.CharPos // CancelIsearch

	Row, Col int // MoveCursor
}

// Reply is what every request gets back.
type Reply struct {
	Kind ReplyKind

	Dirty []dirty.Region

	Cursor    types.CharPos
	HasCursor bool

	// EditorAction is nil or the single action this key produced; when
	// several modes emit one, the last wins.
	EditorAction *EditorAction

	Path string // Saved, Loaded

	// State is set only on a GetState reply.
	State *State

	// BufferChanged reports that text was mutated, so the editor can
	// refresh language-mode highlighting over the new content.
	BufferChanged bool

	Err error
}

type reqKind int

const (
	reqKey reqKind = iota
	reqMouse
	reqState
	reqSave
	reqLoad
	reqStop
	reqApply
)

// State is the snapshot GetState returns: the buffer facts an outside
// observer (a status bar, a test) can ask for without holding the
// buffer's lock itself.
type State struct {
	Title    string
	Path     string
	Text     string
	Len      types.CharPos
	Modified bool
}

type request struct {
	kind    reqKind
	action  mode.Action
	mouseE  mode.MouseEvent
	cursor  types.CharPos
	window  types.WindowID
	path    string
	effects []mode.Effect
	reply   chan Reply
}

// modeRequest is one query to a mode actor. The reply channel is
// one-shot: the actor sends at most one result, then closes it, so a
// panic inside the mode shows up to the host as a closed channel rather
// than a hang.
type modeRequest struct {
	action mode.Action
	mouse  *mode.MouseEvent
	reply  chan mode.ModeResult
}

// modeActor is one mode running as its own task.
type modeActor struct {
	m     mode.Mode
	reqCh chan modeRequest
	log   obs.Logger
}

func (a *modeActor) run() error {
	for req := range a.reqCh {
		a.serve(req)
	}
	return nil
}

func (a *modeActor) serve(req modeRequest) {
	defer close(req.reply)
	defer func() {
		// a panicking mode is a per-key transient: the host sees the
		// closed reply channel and continues with the next mode
		if r := recover(); r != nil {
			a.log.Warn("mode panicked", fmt.Errorf("%v", r), map[string]any{"mode": a.m.Name()})
		}
	}()
	if req.mouse != nil {
		req.reply <- a.m.HandleMouse(*req.mouse)
		return
	}
	req.reply <- a.m.Perform(req.action)
}

// Host is one buffer's actor.
type Host struct {
	buf    *buffer.Buffer
	chain  []mode.Mode
	actors []*modeActor
	group  *errgroup.Group
	kills  *killring.Ring
	log    obs.Logger

	reqCh chan request

	lastAction mode.Action
	hasLast    bool

	// mutated records whether the current request's effects touched the
	// buffer's text, surfaced as Reply.BufferChanged so the editor can
	// re-run syntax highlighting; only ever read/written on the actor's
	// own goroutine.
	mutated bool
}

// New starts a buffer host's actor goroutine over buf, plus one actor
// goroutine per mode in chain (in order: index 0 gets first refusal),
// sharing kills with every other host in the editor.
func New(buf *buffer.Buffer, chain []mode.Mode, kills *killring.Ring, log obs.Logger) *Host {
	h := &Host{buf: buf, chain: chain, kills: kills, log: log, reqCh: make(chan request), group: &errgroup.Group{}}
	for _, m := range chain {
		a := &modeActor{m: m, reqCh: make(chan modeRequest), log: log}
		h.actors = append(h.actors, a)
		h.group.Go(a.run)
	}
	go h.run()
	return h
}

// Buffer exposes the underlying buffer for read-only queries (rendering,
// snapshotting) that don't need to go through the actor's request queue;
// Buffer.WithRead still serializes against in-flight writes.
func (h *Host) Buffer() *buffer.Buffer { return h.buf }

// AvailableCommands collects every command the chain's modes contribute to
// a command palette, in chain order.
func (h *Host) AvailableCommands() []mode.Command {
	var out []mode.Command
	for _, m := range h.chain {
		out = append(out, m.AvailableCommands()...)
	}
	return out
}

func (h *Host) run() {
	for req := range h.reqCh {
		switch req.kind {
		case reqKey:
			req.reply <- h.handleKey(req.action, req.cursor, req.window)
		case reqMouse:
			req.reply <- h.handleMouse(req.mouseE, req.cursor, req.window)
		case reqState:
			req.reply <- h.handleState()
		case reqSave:
			req.reply <- h.handleSave()
		case reqLoad:
			req.reply <- h.handleLoad(req.path)
		case reqStop:
			// closing a host cancels its mode actors too
			for _, a := range h.actors {
				close(a.reqCh)
			}
			_ = h.group.Wait()
			close(req.reply)
			return
		case reqApply:
			req.reply <- h.handleEffects(req.effects, req.cursor, req.window)
		}
	}
}

// HandleKey feeds a resolved key through the mode chain and applies
// whatever it produces.
func (h *Host) HandleKey(action mode.Action, cursor types.CharPos, window types.WindowID) Reply {
	reply := make(chan Reply, 1)
	h.reqCh <- request{kind: reqKey, action: action, cursor: cursor, window: window, reply: reply}
	return <-reply
}

// HandleMouse feeds a mouse event through the mode chain.
func (h *Host) HandleMouse(ev mode.MouseEvent, cursor types.CharPos, window types.WindowID) Reply {
	reply := make(chan Reply, 1)
	h.reqCh <- request{kind: reqMouse, mouseE: ev, cursor: cursor, window: window, reply: reply}
	return <-reply
}

// GetState returns a snapshot of the buffer, serialized against any
// in-flight effect application the same way every other request is.
func (h *Host) GetState() State {
	reply := make(chan Reply, 1)
	h.reqCh <- request{kind: reqState, reply: reply}
	rep := <-reply
	if rep.State == nil {
		return State{}
	}
	return *rep.State
}

// Save writes the buffer to its backing path.
func (h *Host) Save() Reply {
	reply := make(chan Reply, 1)
	h.reqCh <- request{kind: reqSave, reply: reply}
	return <-reply
}

// Load replaces the buffer's content from path.
func (h *Host) Load(path string) Reply {
	reply := make(chan Reply, 1)
	h.reqCh <- request{kind: reqLoad, path: path, reply: reply}
	return <-reply
}

// ApplyEffects runs a ready-made effect list (from a scripting host's M-:
// evaluation, which already resolved its own primitives into
// mode.Effect values rather than an Action a mode chain would reduce)
// against the buffer directly, bypassing the mode chain.
func (h *Host) ApplyEffects(effects []mode.Effect, cursor types.CharPos, window types.WindowID) Reply {
	reply := make(chan Reply, 1)
	h.reqCh <- request{kind: reqApply, effects: effects, cursor: cursor, window: window, reply: reply}
	return <-reply
}

// Stop terminates the actor goroutine. Pending requests already enqueued
// are processed first since reqCh is unbuffered and Stop itself queues
// behind them.
func (h *Host) Stop() {
	reply := make(chan Reply)
	h.reqCh <- request{kind: reqStop, reply: reply}
	<-reply
}

// runChain walks the mode actors in chain order, awaiting each one's
// one-shot reply before querying the next: Annotated effects accumulate
// and the walk continues, the first Consumed stops it (inclusively), and
// a mode whose reply channel closed without a result (it panicked) is
// skipped.
func (h *Host) runChain(action mode.Action, mouse *mode.MouseEvent) []mode.Effect {
	var effects []mode.Effect
	for _, a := range h.actors {
		reply := make(chan mode.ModeResult, 1)
		a.reqCh <- modeRequest{action: action, mouse: mouse, reply: reply}
		res, ok := <-reply
		if !ok {
			continue
		}
		switch res.Verdict {
		case mode.Ignored:
			continue
		case mode.Annotated:
			effects = append(effects, res.Effects...)
		case mode.Consumed:
			effects = append(effects, res.Effects...)
			return effects
		}
	}
	return effects
}

func (h *Host) handleKey(action mode.Action, cursor types.CharPos, window types.WindowID) Reply {
	if action.Command != "repeat-last-command" {
		h.lastAction = action
		h.hasLast = true
	}

	effects := h.runChain(action, nil)
	if len(effects) == 0 {
		return Reply{Kind: NoChange, Cursor: cursor, HasCursor: true}
	}

	h.mutated = false
	rep := Reply{Kind: ActionsCompleted, Cursor: cursor, HasCursor: true}
	cur := cursor
	for _, e := range effects {
		if e.Kind == mode.EffectRepeatLastCommand {
			if !h.hasLast || h.lastAction.Command == "repeat-last-command" {
				continue
			}
			was := h.mutated
			inner := h.handleKey(h.lastAction, cur, window)
			h.mutated = was || inner.BufferChanged
			rep.Dirty = append(rep.Dirty, inner.Dirty...)
			if inner.EditorAction != nil {
				rep.EditorAction = inner.EditorAction
			}
			if inner.HasCursor {
				cur = inner.Cursor
			}
			continue
		}
		if e.Kind == mode.EffectSave {
			// the host owns serialization; Save ends effect processing
			// for this key and the editor only echoes the result
			if err := h.save(); err != nil {
				return Reply{Kind: ReplyError, Err: err}
			}
			h.buf.Boundary()
			rep.Kind = Saved
			rep.Path = h.buf.Path()
			rep.Cursor = cur
			rep.BufferChanged = h.mutated
			rep.Dirty = append(rep.Dirty, dirty.Modeline(window, types.ModelineBufferName))
			return rep
		}
		newCur, region, chromeAction, err := h.applyEffect(e, cur, window)
		if err != nil {
			return Reply{Kind: ReplyError, Err: err}
		}
		cur = newCur
		rep.Dirty = append(rep.Dirty, region...)
		if chromeAction != nil {
			rep.EditorAction = chromeAction
		}
	}
	h.buf.Boundary()
	rep.Cursor = cur
	rep.BufferChanged = h.mutated
	rep.Dirty = append(rep.Dirty, dirty.Modeline(window, types.ModelineCursorPosition))
	return rep
}

// handleEffects applies a pre-resolved effect list the same way
// handleKey applies a mode chain's output, without running anything
// through the chain first (RepeatLastCommand is not meaningful for a
// scripted evaluation, since there is no single triggering keystroke to
// replay, so it is skipped rather than recursed into).
func (h *Host) handleEffects(effects []mode.Effect, cursor types.CharPos, window types.WindowID) Reply {
	if len(effects) == 0 {
		return Reply{Kind: NoChange, Cursor: cursor, HasCursor: true}
	}
	h.mutated = false
	rep := Reply{Kind: ActionsCompleted, Cursor: cursor, HasCursor: true}
	cur := cursor
	for _, e := range effects {
		if e.Kind == mode.EffectRepeatLastCommand {
			continue
		}
		if e.Kind == mode.EffectSave {
			if err := h.save(); err != nil {
				return Reply{Kind: ReplyError, Err: err}
			}
			h.buf.Boundary()
			rep.Kind = Saved
			rep.Path = h.buf.Path()
			rep.Cursor = cur
			rep.BufferChanged = h.mutated
			return rep
		}
		newCur, region, chromeAction, err := h.applyEffect(e, cur, window)
		if err != nil {
			return Reply{Kind: ReplyError, Err: err}
		}
		cur = newCur
		rep.Dirty = append(rep.Dirty, region...)
		if chromeAction != nil {
			rep.EditorAction = chromeAction
		}
	}
	h.buf.Boundary()
	rep.Cursor = cur
	rep.BufferChanged = h.mutated
	return rep
}

func (h *Host) handleMouse(ev mode.MouseEvent, cursor types.CharPos, window types.WindowID) Reply {
	effects := h.runChain(mode.Action{}, &ev)
	return h.handleEffects(effects, cursor, window)
}

func (h *Host) handleState() Reply {
	st := State{
		Title:    h.buf.Title(),
		Path:     h.buf.Path(),
		Text:     h.buf.Text(),
		Len:      h.buf.Len(),
		Modified: h.buf.Modified(),
	}
	return Reply{Kind: NoChange, State: &st}
}

// resolvePosition turns a mode.ActionPosition into a concrete CharPos.
func (h *Host) resolvePosition(pos mode.ActionPosition, cursor types.CharPos) types.CharPos {
	switch pos.Kind {
	case mode.AtCursor:
		return cursor
	case mode.AtAbsolute:
		return h.buf.ToCharIndex(pos.Col, pos.Row)
	case mode.AtEnd:
		return h.buf.MoveBufferEnd()
	default:
		return cursor
	}
}

func (h *Host) lineDirty(pos types.CharPos, text string) []dirty.Region {
	if strings.Contains(text, "\n") {
		return []dirty.Region{dirty.BufferRegion(h.buf.ID())}
	}
	_, line := h.buf.ToColumnLine(pos)
	return []dirty.Region{dirty.Line(h.buf.ID(), line, dirty.FullLineSpan())}
}

// applyEffect applies one buffer-local effect, or packages an
// editor-level effect for the caller to forward. It returns the new
// cursor position, the dirty regions the mutation touched, and an
// EditorAction when e needs the editor's attention.
func (h *Host) applyEffect(e mode.Effect, cursor types.CharPos, window types.WindowID) (types.CharPos, []dirty.Region, *EditorAction, error) {
	switch e.Kind {
	case mode.EffectInsertText:
		pos := h.resolvePosition(e.Position, cursor)
		h.buf.Insert(pos, e.Text)
		h.kills.BreakSequence()
		h.mutated = true
		region := h.lineDirty(pos, e.Text)
		var newCur types.CharPos
		switch e.Position.Kind {
		case mode.AtAbsolute:
			// command-window input convention: the cursor lands after the
			// first line of whatever content the menu just rendered
			first := e.Text
			if i := strings.IndexByte(first, '\n'); i >= 0 {
				first = first[:i]
			}
			newCur = types.CharPos(len([]rune(first)))
		case mode.AtCursor:
			newCur = pos + types.CharPos(len([]rune(e.Text)))
		default:
			newCur = pos
		}
		return newCur, region, nil, nil

	case mode.EffectDeleteText:
		pos := h.resolvePosition(e.Position, cursor)
		removed, ok := h.buf.DeleteCount(pos, e.Count)
		if !ok {
			// a delete that escapes the buffer is a no-op, not an error
			return cursor, nil, nil, nil
		}
		start := pos
		if e.Count < 0 {
			start = pos + types.CharPos(e.Count)
		}
		h.kills.BreakSequence()
		h.mutated = true
		return start, h.lineDirty(start, removed), nil, nil

	case mode.EffectKillRegion:
		start, end, ok := h.buf.Region(cursor)
		if !ok {
			return cursor, nil, nil, nil
		}
		text := h.buf.Slice(start, end)
		h.kills.Kill(text)
		h.buf.Delete(start, end)
		h.buf.ClearMark()
		h.mutated = true
		return start, append(h.lineDirty(start, text), dirty.BufferRegion(h.buf.ID())), nil, nil

	case mode.EffectCopyRegion:
		start, end, ok := h.buf.Region(cursor)
		if !ok {
			return cursor, nil, nil, nil
		}
		h.kills.Kill(h.buf.Slice(start, end))
		h.buf.ClearMark()
		return cursor, []dirty.Region{dirty.BufferRegion(h.buf.ID())}, nil, nil

	case mode.EffectKillLine:
		eol := h.buf.EOLPos(cursor)
		end := eol
		if eol == cursor {
			end = h.buf.MoveRight(cursor) // also swallow the trailing newline
		}
		text := h.buf.Slice(cursor, end)
		h.kills.Kill(text)
		h.buf.Delete(cursor, end)
		h.mutated = true
		return cursor, h.lineDirty(cursor, text), nil, nil

	case mode.EffectForwardKillWord:
		end := h.buf.MoveWordForward(cursor)
		text := h.buf.Slice(cursor, end)
		h.kills.Kill(text)
		h.buf.Delete(cursor, end)
		h.mutated = true
		return cursor, h.lineDirty(cursor, text), nil, nil

	case mode.EffectBackwardKillWord:
		start := h.buf.MoveWordBackward(cursor)
		text := h.buf.Slice(start, cursor)
		h.kills.KillPrepend(text)
		h.buf.Delete(start, cursor)
		h.mutated = true
		return start, h.lineDirty(start, text), nil, nil

	case mode.EffectYank:
		var text string
		var ok bool
		if e.HasYankIndex {
			text, ok = h.kills.YankIndex(e.YankIndex)
		} else {
			text, ok = h.kills.Yank()
		}
		if !ok {
			return cursor, nil, nil, nil
		}
		h.buf.Insert(cursor, text)
		h.kills.BreakSequence()
		h.mutated = true
		newCur := cursor + types.CharPos(len([]rune(text)))
		return newCur, h.lineDirty(cursor, text), nil, nil

	case mode.EffectSetMark:
		// region highlighting may change, so the whole buffer repaints
		h.buf.SetMark(cursor, false)
		return cursor, []dirty.Region{dirty.BufferRegion(h.buf.ID())}, nil, nil

	case mode.EffectClearMark:
		h.buf.ClearMark()
		return cursor, []dirty.Region{dirty.BufferRegion(h.buf.ID())}, nil, nil

	case mode.EffectClearText:
		n := h.buf.Len()
		h.buf.Delete(0, n)
		h.mutated = true
		return 0, []dirty.Region{dirty.BufferRegion(h.buf.ID())}, nil, nil

	case mode.EffectReverseCaseCharacter:
		r, ok := h.buf.RuneAt(cursor)
		if !ok {
			return cursor, nil, nil, nil
		}
		h.buf.Delete(cursor, cursor+1)
		h.buf.Insert(cursor, string(toggleCase(r)))
		h.kills.BreakSequence()
		h.mutated = true
		return cursor + 1, h.lineDirty(cursor, string(r)), nil, nil

	case mode.EffectExecuteCommand:
		return cursor, nil, &EditorAction{Kind: ActionExecuteCommand, Name: e.Name}, nil

	case mode.EffectSwitchToBuffer:
		return cursor, nil, &EditorAction{Kind: ActionSwitchToBuffer, BufferID: e.BufferID}, nil

	case mode.EffectKillBuffer:
		return cursor, nil, &EditorAction{Kind: ActionKillBuffer, BufferID: e.BufferID}, nil

	case mode.EffectOpenFile:
		return cursor, nil, &EditorAction{Kind: ActionOpenFile, Path: e.Path, OpenType: e.OpenType}, nil

	case mode.EffectMoveCursor:
		return cursor, nil, &EditorAction{Kind: ActionMoveCursor, Row: e.Row, Col: e.Col}, nil

	case mode.EffectEvaluateScriptedExpression:
		return cursor, nil, &EditorAction{Kind: ActionEvaluateScript, ScriptExpr: e.ScriptExpr}, nil

	case mode.EffectUpdateIsearch:
		return cursor, nil, &EditorAction{
			Kind: ActionUpdateIsearch, Matches: e.Matches, CurrentMatch: e.CurrentMatch,
			TargetBuffer: e.TargetBuffer, TargetWindow: e.TargetWindow,
		}, nil

	case mode.EffectAcceptIsearch:
		return cursor, nil, &EditorAction{Kind: ActionAcceptIsearch, TargetBuffer: e.TargetBuffer, SearchTerm: e.SearchTerm}, nil

	case mode.EffectCancelIsearch:
		return cursor, nil, &EditorAction{
			Kind: ActionCancelIsearch, TargetBuffer: e.TargetBuffer, TargetWindow: e.TargetWindow,
			OriginalCursor: e.OriginalCursor,
		}, nil

	default:
		return cursor, nil, nil, nil
	}
}

func toggleCase(r rune) rune {
	upper := strings.ToUpper(string(r))
	if upper != string(r) {
		return []rune(upper)[0]
	}
	lower := strings.ToLower(string(r))
	return []rune(lower)[0]
}

// save writes the buffer to its backing path, formatting .go files first
// via go/format (the library gofmt itself wraps, avoiding a shell-out to
// a binary that may not be on PATH). A file that fails to parse is
// written as-is.
func (h *Host) save() error {
	path := h.buf.Path()
	if path == "" {
		return fmt.Errorf("bufferhost: buffer has no file name")
	}
	text := h.buf.Text()
	out := []byte(text)
	if strings.HasSuffix(path, ".go") {
		if formatted, err := format.Source(out); err == nil {
			out = formatted
			n := h.buf.Len()
			h.buf.Delete(0, n)
			h.buf.Insert(0, string(formatted))
			h.mutated = true
		}
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return err
	}
	h.buf.ClearModified()
	return nil
}

func (h *Host) handleSave() Reply {
	h.mutated = false
	if err := h.save(); err != nil {
		return Reply{Kind: ReplyError, Err: err}
	}
	return Reply{
		Kind: Saved, Path: h.buf.Path(), BufferChanged: h.mutated,
		Dirty: []dirty.Region{dirty.BufferRegion(h.buf.ID())},
	}
}

func (h *Host) handleLoad(path string) Reply {
	content, err := os.ReadFile(path)
	if err != nil {
		return Reply{Kind: ReplyError, Err: err}
	}
	n := h.buf.Len()
	h.buf.Delete(0, n)
	h.buf.Insert(0, string(content))
	h.buf.SetPath(path)
	h.buf.ClearModified()
	return Reply{Kind: Loaded, Path: path, Dirty: []dirty.Region{dirty.BufferRegion(h.buf.ID())}}
}
