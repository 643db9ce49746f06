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

// Package mode implements the polymorphic reducer chain a buffer host runs
// a resolved key (or mouse event) through: editing, read-only, selection
// menus, incremental search, and scripted modes.
//
// A Mode never touches a buffer itself. It only returns a list of Effect
// records plus a verdict telling the buffer host whether to keep walking
// the chain, so every mutation funnels through the host's one write path.
package mode

import "github.com/agott/kernel/internal/types"

// Verdict is a ModeResult's disposition: Consumed, Annotated, or Ignored.
type Verdict int

const (
	// Ignored: no effects, the chain keeps walking.
	Ignored Verdict = iota
	// Annotated: apply these effects, then keep walking (a decorator
	// observing the key without claiming it, e.g. self-insert logging).
	Annotated
	// Consumed: apply these effects and stop; no later mode in the chain
	// runs for this key.
	Consumed
)

// ModeResult is what Perform/HandleMouse returns.
type ModeResult struct {
	Verdict Verdict
	Effects []Effect
}

// Ignore is the zero-effect "I didn't handle this" result.
func Ignore() ModeResult { return ModeResult{Verdict: Ignored} }

// Consume wraps effects in a Consumed result.
func Consume(effects ...Effect) ModeResult {
	return ModeResult{Verdict: Consumed, Effects: effects}
}

// Annotate wraps effects in an Annotated result.
func Annotate(effects ...Effect) ModeResult {
	return ModeResult{Verdict: Annotated, Effects: effects}
}

// Action is the resolved input a buffer host feeds to a mode chain: either
// a self-insert rune (Command == "") or a named command (everything the
// key-chord resolver matched against internal/keys.Bindings, including
// Enter/Tab/Backspace's command aliases "newline-and-indent"/"indent-line"/
// "delete-backward-char" and cursor keys like "next-line"/"previous-line"
// that the editor only forwards here when the active window hosts a
// selection menu or isearch rather than plain text).
type Action struct {
	Command string
	Rune    rune
}

// IsSelfInsert reports whether a is a plain printable character with no
// bound command.
func (a Action) IsSelfInsert() bool { return a.Command == "" }

// SelfInsert builds a self-insert Action.
func SelfInsert(r rune) Action { return Action{Rune: r} }

// Cmd builds a named-command Action.
func Cmd(name string) Action { return Action{Command: name} }

// MouseEvent is the mouse-event shape modes may react to (click-to-select
// in a menu, drag handled upstream by the editor for window resizing).
type MouseEvent struct {
	Kind   MouseKind
	Column int
	Row    int
}

// MouseKind enumerates the mouse actions a mode cares about.
type MouseKind int

const (
	MouseDown MouseKind = iota
	MouseUp
	MouseDrag
)

// PositionKind tags an ActionPosition's variant.
type PositionKind int

const (
	// AtCursor: relative to the window's current cursor.
	AtCursor PositionKind = iota
	// AtAbsolute: a fixed (col, row) pair, the command-window input
	// convention used when a menu regenerates its rendered content.
	AtAbsolute
	// AtEnd: the end of the buffer.
	AtEnd
)

// ActionPosition names where an InsertText effect places its text.
type ActionPosition struct {
	Kind PositionKind
	Col  int
	Row  int
}

// Cursor is the common "insert/delete relative to the window cursor"
// position.
func Cursor() ActionPosition { return ActionPosition{Kind: AtCursor} }

// Absolute is the command-window "replace the whole rendered buffer"
// position.
func Absolute(col, row int) ActionPosition { return ActionPosition{Kind: AtAbsolute, Col: col, Row: row} }

// End is the buffer-end position, used by Messages-buffer appends.
func End() ActionPosition { return ActionPosition{Kind: AtEnd} }

// EffectKind tags the variant of an Effect.
type EffectKind int

const (
	EffectInsertText EffectKind = iota
	EffectDeleteText
	EffectKillRegion
	EffectCopyRegion
	EffectKillLine
	EffectForwardKillWord
	EffectBackwardKillWord
	EffectYank
	EffectSetMark
	EffectClearMark
	EffectSave
	EffectClearText
	EffectExecuteCommand
	EffectSwitchToBuffer
	EffectKillBuffer
	EffectOpenFile
	EffectMoveCursor
	EffectEvaluateScriptedExpression
	EffectUpdateIsearch
	EffectAcceptIsearch
	EffectCancelIsearch
	EffectReverseCaseCharacter
	EffectRepeatLastCommand
)

// OpenType distinguishes opening a brand-new unsaved buffer from visiting
// an existing file.
type OpenType int

const (
	OpenNew OpenType = iota
	OpenVisit
)

// IsearchDirection is the direction an isearch session runs.
type IsearchDirection int

const (
	SearchForward IsearchDirection = iota
	SearchBackward
)

// Match is one isearch hit, reported in byte offsets into the target
// buffer's text; the editor converts to character positions only when it
// moves the cursor or paints a span.
type Match struct {
	Start, End int
}

// Effect is the first-class record a mode hands back describing a mutation
// or editor-level request. Not every field
// is meaningful for every Kind; see the constructor functions below for the
// fields each variant actually uses.
type Effect struct {
	Kind EffectKind

	Position ActionPosition
	Text     string
	Count    int // DeleteText's signed count

	HasYankIndex bool
	YankIndex    int

	Name string // ExecuteCommand

	BufferID types.BufferID // SwitchToBuffer, KillBuffer

	Path     string // OpenFile
	OpenType OpenType

	Row, Col int // MoveCursor

	ScriptExpr string // EvaluateScriptedExpression

	// isearch fields
	Matches        []Match
	CurrentMatch   int
	OriginalCursor types.CharPos
	TargetBuffer   types.BufferID
	TargetWindow   types.WindowID
	SearchTerm     string
}

func InsertText(pos ActionPosition, text string) Effect {
	return Effect{Kind: EffectInsertText, Position: pos, Text: text}
}

func DeleteText(pos ActionPosition, count int) Effect {
	return Effect{Kind: EffectDeleteText, Position: pos, Count: count}
}

func KillRegion() Effect       { return Effect{Kind: EffectKillRegion} }
func CopyRegion() Effect       { return Effect{Kind: EffectCopyRegion} }
func KillLine() Effect         { return Effect{Kind: EffectKillLine} }
func ForwardKillWord() Effect  { return Effect{Kind: EffectForwardKillWord} }
func BackwardKillWord() Effect { return Effect{Kind: EffectBackwardKillWord} }

func Yank() Effect { return Effect{Kind: EffectYank} }

func YankAt(index int) Effect {
	return Effect{Kind: EffectYank, HasYankIndex: true, YankIndex: index}
}

func SetMark() Effect   { return Effect{Kind: EffectSetMark} }
func ClearMark() Effect { return Effect{Kind: EffectClearMark} }
func Save() Effect      { return Effect{Kind: EffectSave} }
func ClearText() Effect { return Effect{Kind: EffectClearText} }

func ExecuteCommand(name string) Effect {
	return Effect{Kind: EffectExecuteCommand, Name: name}
}

func SwitchToBuffer(id types.BufferID) Effect {
	return Effect{Kind: EffectSwitchToBuffer, BufferID: id}
}

func KillBuffer(id types.BufferID) Effect {
	return Effect{Kind: EffectKillBuffer, BufferID: id}
}

func OpenFile(path string, ot OpenType) Effect {
	return Effect{Kind: EffectOpenFile, Path: path, OpenType: ot}
}

func MoveCursor(row, col int) Effect {
	return Effect{Kind: EffectMoveCursor, Row: row, Col: col}
}

func EvaluateScriptedExpression(text string) Effect {
	return Effect{Kind: EffectEvaluateScriptedExpression, ScriptExpr: text}
}

func ReverseCaseCharacter() Effect { return Effect{Kind: EffectReverseCaseCharacter} }
func RepeatLastCommand() Effect    { return Effect{Kind: EffectRepeatLastCommand} }

func UpdateIsearch(target types.BufferID, win types.WindowID, matches []Match, current int) Effect {
	return Effect{
		Kind:         EffectUpdateIsearch,
		TargetBuffer: target,
		TargetWindow: win,
		Matches:      matches,
		CurrentMatch: current,
	}
}

func AcceptIsearch(target types.BufferID, term string) Effect {
	return Effect{Kind: EffectAcceptIsearch, TargetBuffer: target, SearchTerm: term}
}

func CancelIsearch(target types.BufferID, win types.WindowID, original types.CharPos) Effect {
	return Effect{Kind: EffectCancelIsearch, TargetBuffer: target, TargetWindow: win, OriginalCursor: original}
}

// Command describes one command a mode exposes to a command palette
// (AvailableCommands), mirroring registry.Command's display fields without
// importing the registry package (modes must not depend on the editor's
// command table; the editor merges a mode's AvailableCommands into its own
// registry query when building a palette).
type Command struct {
	Name     string
	Category string
	Summary  string
}

// Mode is the capability set every mode variant implements.
type Mode interface {
	// Name identifies the mode for modeline display and mode-name dirty
	// regions.
	Name() string
	// Perform reduces a resolved action into a ModeResult.
	Perform(action Action) ModeResult
	// HandleMouse reduces a mouse event; modes that don't care about the
	// mouse return Ignore().
	HandleMouse(event MouseEvent) ModeResult
	// AvailableCommands lists commands this mode contributes to a palette.
	// Most modes return nil.
	AvailableCommands() []Command
}

// BaseMode gives a zero-value HandleMouse/AvailableCommands so concrete
// modes only need to implement what they actually use.
type BaseMode struct{}

func (BaseMode) HandleMouse(MouseEvent) ModeResult { return Ignore() }
func (BaseMode) AvailableCommands() []Command      { return nil }
