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

// Package keys resolves raw input events into command names through an
// arbitrary-length chord accumulator, so multi-key Emacs bindings such as
// C-x C-s resolve the same way single-key bindings do.
package keys

import "fmt"

// LogicalKey is the closed set of non-printable keys a terminal back end
// reports. Control-letter keys fold into the Mods bitmask rather than
// getting one constant per letter.
type LogicalKey int

const (
	KeyNone LogicalKey = iota
	KeyRune            // Rune holds the printable character
	KeyEnter
	KeyEsc
	KeyTab
	KeyBackspace
	KeyDelete
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeySpace
	KeyInsert
	KeyFunction // Rune holds the function-key number
	KeyCapsLock
	KeyScrollLock
	KeyUnmapped
)

// KeyModifier is a bitmask of held modifiers.
type KeyModifier uint8

const (
	ModNone  KeyModifier = 0
	ModCtrl  KeyModifier = 1 << 0
	ModMeta  KeyModifier = 1 << 1
	ModShift KeyModifier = 1 << 2
)

// KeyEvent is one resolved keystroke: a logical key (or a printable rune)
// plus whatever modifiers were held.
type KeyEvent struct {
	Logical LogicalKey
	Rune    rune
	Mods    KeyModifier
}

// logicalNames renders non-printable keys the way Emacs's echo area does,
// so an encoded chord doubles as its user-visible representation.
var logicalNames = map[LogicalKey]string{
	KeyEnter:      "RET",
	KeyEsc:        "ESC",
	KeyTab:        "TAB",
	KeyBackspace:  "DEL",
	KeyDelete:     "<deletechar>",
	KeyArrowLeft:  "<left>",
	KeyArrowRight: "<right>",
	KeyArrowUp:    "<up>",
	KeyArrowDown:  "<down>",
	KeyHome:       "<home>",
	KeyEnd:        "<end>",
	KeyPageUp:     "<prior>",
	KeyPageDown:   "<next>",
	KeySpace:      "SPC",
	KeyInsert:     "<insert>",
	KeyCapsLock:   "<capslock>",
	KeyScrollLock: "<scrolllock>",
	KeyUnmapped:   "<unmapped>",
}

func (ev KeyEvent) encode() string {
	mod := ""
	if ev.Mods&ModCtrl != 0 {
		mod += "C-"
	}
	if ev.Mods&ModMeta != 0 {
		mod += "M-"
	}
	if ev.Mods&ModShift != 0 {
		mod += "S-"
	}
	if ev.Logical == KeyRune {
		if ev.Rune == ' ' {
			return mod + "SPC"
		}
		return fmt.Sprintf("%s%c", mod, ev.Rune)
	}
	if ev.Logical == KeyFunction {
		return fmt.Sprintf("%s<f%d>", mod, ev.Rune)
	}
	if name, ok := logicalNames[ev.Logical]; ok {
		return mod + name
	}
	return fmt.Sprintf("%s#%d", mod, ev.Logical)
}

// KeyState accumulates the keystrokes of a chord still in progress.
type KeyState struct {
	pending []KeyEvent
}

// Reset discards any pending keystrokes.
func (s *KeyState) Reset() { s.pending = nil }

// Pending reports whether a chord is mid-sequence.
func (s *KeyState) Pending() bool { return len(s.pending) > 0 }

func (s *KeyState) push(ev KeyEvent) { s.pending = append(s.pending, ev) }

func (s *KeyState) encode() string {
	out := ""
	for i, ev := range s.pending {
		if i > 0 {
			out += " "
		}
		out += ev.encode()
	}
	return out
}

// ResolveKind is the outcome of feeding a keystroke to Bindings.Keystroke.
type ResolveKind int

const (
	// NoBinding means the completed chord matches nothing; the state
	// resets and the keystroke should be reported unbound.
	NoBinding ResolveKind = iota
	// ChordNext means the chord so far is a valid prefix of at least one
	// binding; the caller should wait for the next keystroke.
	ChordNext
	// Resolved means the chord matched a binding; Command names it.
	Resolved
)

// ResolveResult is Bindings.Keystroke's outcome. Chord is the display form
// of the full key sequence consumed so far ("C-x C-s"), for the editor's
// pending-chord indicator and its "<chord> is undefined" message.
type ResolveResult struct {
	Kind    ResolveKind
	Command string
	Chord   string
}

// Bindings maps keystroke chords to command names.
type Bindings struct {
	commands map[string]string
	prefixes map[string]bool
}

// NewBindings returns an empty binding table.
func NewBindings() *Bindings {
	return &Bindings{commands: map[string]string{}, prefixes: map[string]bool{}}
}

// Bind registers command under the given chord (one or more keystrokes).
func (b *Bindings) Bind(command string, chord ...KeyEvent) {
	if len(chord) == 0 {
		return
	}
	full := encodeChord(chord)
	b.commands[full] = command
	for i := 1; i < len(chord); i++ {
		b.prefixes[encodeChord(chord[:i])] = true
	}
}

func encodeChord(chord []KeyEvent) string {
	out := ""
	for i, ev := range chord {
		if i > 0 {
			out += " "
		}
		out += ev.encode()
	}
	return out
}

// Keystroke feeds one keystroke into state and reports whether it completed
// a bound chord, extended a valid prefix, or failed to match anything (in
// which case state is reset and the keystroke should be reported as
// unbound).
func (b *Bindings) Keystroke(state *KeyState, ev KeyEvent) ResolveResult {
	state.push(ev)
	key := state.encode()
	if cmd, ok := b.commands[key]; ok {
		state.Reset()
		return ResolveResult{Kind: Resolved, Command: cmd, Chord: key}
	}
	if b.prefixes[key] {
		return ResolveResult{Kind: ChordNext, Chord: key}
	}
	state.Reset()
	return ResolveResult{Kind: NoBinding, Chord: key}
}

// MouseEventKind distinguishes a button transition from drag motion.
type MouseEventKind int

const (
	MouseDown MouseEventKind = iota
	MouseDrag
	MouseUp
)

// MouseEvent is a mouse action at an absolute screen cell.
type MouseEvent struct {
	Kind   MouseEventKind
	Column int
	Row    int
}

// Rune is a convenience constructor for a plain, unmodified printable key.
func Rune(r rune) KeyEvent { return KeyEvent{Logical: KeyRune, Rune: r} }

// Ctrl is a convenience constructor for a control-modified printable key,
// e.g. Ctrl('f') for C-f.
func Ctrl(r rune) KeyEvent { return KeyEvent{Logical: KeyRune, Rune: r, Mods: ModCtrl} }

// Meta is a convenience constructor for a meta/alt-modified printable key,
// e.g. Meta('f') for M-f.
func Meta(r rune) KeyEvent { return KeyEvent{Logical: KeyRune, Rune: r, Mods: ModMeta} }

// Logical is a convenience constructor for an unmodified non-printable key.
func Logical(k LogicalKey) KeyEvent { return KeyEvent{Logical: k} }

// ModLogical is a convenience constructor for a modified non-printable key,
// e.g. ModLogical(KeyBackspace, ModMeta) for M-DEL.
func ModLogical(k LogicalKey, mods KeyModifier) KeyEvent {
	return KeyEvent{Logical: k, Mods: mods}
}

// DefaultBindings returns the minimum set of Emacs-style bindings the
// editing mode requires: cursor motion, killing and yanking, the mark,
// undo, isearch, and the C-x window/file/buffer prefix commands.
func DefaultBindings() *Bindings {
	b := NewBindings()
	b.Bind("forward-char", Ctrl('f'))
	b.Bind("forward-char", Logical(KeyArrowRight))
	b.Bind("backward-char", Ctrl('b'))
	b.Bind("backward-char", Logical(KeyArrowLeft))
	b.Bind("next-line", Ctrl('n'))
	b.Bind("next-line", Logical(KeyArrowDown))
	b.Bind("previous-line", Ctrl('p'))
	b.Bind("previous-line", Logical(KeyArrowUp))
	b.Bind("move-beginning-of-line", Ctrl('a'))
	b.Bind("move-beginning-of-line", Logical(KeyHome))
	b.Bind("move-end-of-line", Ctrl('e'))
	b.Bind("move-end-of-line", Logical(KeyEnd))
	b.Bind("forward-word", Meta('f'))
	b.Bind("backward-word", Meta('b'))
	b.Bind("forward-paragraph", Meta(']'))
	b.Bind("backward-paragraph", Meta('['))
	b.Bind("beginning-of-buffer", Meta('<'))
	b.Bind("end-of-buffer", Meta('>'))
	b.Bind("scroll-up", Ctrl('v'))
	b.Bind("scroll-up", Logical(KeyPageDown))
	b.Bind("scroll-down", Meta('v'))
	b.Bind("scroll-down", Logical(KeyPageUp))

	b.Bind("delete-char", Ctrl('d'))
	b.Bind("delete-char", Logical(KeyDelete))
	b.Bind("delete-backward-char", Logical(KeyBackspace))
	b.Bind("newline-and-indent", Logical(KeyEnter))
	b.Bind("indent-line", Logical(KeyTab))
	b.Bind("kill-line", Ctrl('k'))
	b.Bind("kill-word", Meta('d'))
	b.Bind("backward-kill-word", ModLogical(KeyBackspace, ModMeta))
	b.Bind("kill-region", Ctrl('w'))
	b.Bind("copy-region", Meta('w'))
	b.Bind("yank", Ctrl('y'))
	b.Bind("yank-index", KeyEvent{Logical: KeyRune, Rune: 'y', Mods: ModCtrl | ModMeta})
	b.Bind("set-mark", Ctrl(' '))

	b.Bind("undo", Ctrl('/'))
	b.Bind("undo", Ctrl('_'))
	b.Bind("redo", Ctrl('?'))
	b.Bind("redo", Meta('_'))

	b.Bind("isearch-forward", Ctrl('s'))
	b.Bind("isearch-backward", Ctrl('r'))
	b.Bind("keyboard-quit", Ctrl('g'))
	b.Bind("escape", Logical(KeyEsc))
	b.Bind("reverse-case-character", Meta('~'))
	b.Bind("repeat-last-command", Meta('.'))

	b.Bind("save-buffer", Ctrl('x'), Ctrl('s'))
	b.Bind("find-file", Ctrl('x'), Ctrl('f'))
	b.Bind("switch-buffer", Ctrl('x'), Rune('b'))
	b.Bind("kill-buffer", Ctrl('x'), Rune('k'))
	b.Bind("split-window-below", Ctrl('x'), Rune('2'))
	b.Bind("split-window-right", Ctrl('x'), Rune('3'))
	b.Bind("delete-window", Ctrl('x'), Rune('0'))
	b.Bind("delete-other-windows", Ctrl('x'), Rune('1'))
	b.Bind("other-window", Ctrl('x'), Rune('o'))
	b.Bind("quit", Ctrl('x'), Ctrl('c'))

	b.Bind("execute-command", Meta('x'))
	b.Bind("eval-expression", Meta(':'))
	return b
}
