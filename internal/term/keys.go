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

package term

import (
	"github.com/nsf/termbox-go"

	"github.com/agott/kernel/internal/keys"
)

// ctrlLetters maps every termbox control-key constant that names a plain
// letter to that letter, reported as a rune plus keys.ModCtrl so
// internal/keys' chord resolver never needs to know termbox exists.
// KeyCtrlH/KeyCtrlI/KeyCtrlM are deliberately absent: termbox reports
// those as KeyBackspace/KeyTab/KeyEnter instead, handled below as named
// keys.
var ctrlLetters = map[termbox.Key]rune{
	termbox.KeyCtrlA: 'a',
	termbox.KeyCtrlB: 'b',
	termbox.KeyCtrlC: 'c',
	termbox.KeyCtrlD: 'd',
	termbox.KeyCtrlE: 'e',
	termbox.KeyCtrlF: 'f',
	termbox.KeyCtrlG: 'g',
	termbox.KeyCtrlJ: 'j',
	termbox.KeyCtrlK: 'k',
	termbox.KeyCtrlL: 'l',
	termbox.KeyCtrlN: 'n',
	termbox.KeyCtrlO: 'o',
	termbox.KeyCtrlP: 'p',
	termbox.KeyCtrlQ: 'q',
	termbox.KeyCtrlR: 'r',
	termbox.KeyCtrlS: 's',
	termbox.KeyCtrlT: 't',
	termbox.KeyCtrlU: 'u',
	termbox.KeyCtrlV: 'v',
	termbox.KeyCtrlW: 'w',
	termbox.KeyCtrlX: 'x',
	termbox.KeyCtrlY: 'y',
	termbox.KeyCtrlZ: 'z',
}

var namedKeys = map[termbox.Key]keys.LogicalKey{
	termbox.KeyArrowLeft:  keys.KeyArrowLeft,
	termbox.KeyArrowRight: keys.KeyArrowRight,
	termbox.KeyArrowUp:    keys.KeyArrowUp,
	termbox.KeyArrowDown:  keys.KeyArrowDown,
	termbox.KeyHome:       keys.KeyHome,
	termbox.KeyEnd:        keys.KeyEnd,
	termbox.KeyPgup:       keys.KeyPageUp,
	termbox.KeyPgdn:       keys.KeyPageDown,
	termbox.KeyDelete:     keys.KeyDelete,
	termbox.KeyInsert:     keys.KeyInsert,
}

var functionKeys = map[termbox.Key]rune{
	termbox.KeyF1: 1, termbox.KeyF2: 2, termbox.KeyF3: 3, termbox.KeyF4: 4,
	termbox.KeyF5: 5, termbox.KeyF6: 6, termbox.KeyF7: 7, termbox.KeyF8: 8,
	termbox.KeyF9: 9, termbox.KeyF10: 10, termbox.KeyF11: 11, termbox.KeyF12: 12,
}

// translateKey converts one termbox key event into the keys.KeyEvent the
// kernel's chord resolver consumes. Keys termbox can name but the kernel
// has no logical slot for come back as KeyUnmapped rather than ok=false,
// so the user sees "undefined" instead of a dead key.
func translateKey(ev termbox.Event) (keys.KeyEvent, bool) {
	mods := keys.ModNone
	if ev.Mod&termbox.ModAlt != 0 {
		mods |= keys.ModMeta
	}

	if ev.Ch != 0 {
		return keys.KeyEvent{Logical: keys.KeyRune, Rune: ev.Ch, Mods: mods}, true
	}

	switch ev.Key {
	case termbox.KeyEsc:
		return keys.KeyEvent{Logical: keys.KeyEsc, Mods: mods}, true
	case termbox.KeyEnter:
		return keys.KeyEvent{Logical: keys.KeyEnter, Mods: mods}, true
	case termbox.KeyTab:
		return keys.KeyEvent{Logical: keys.KeyTab, Mods: mods}, true
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		return keys.KeyEvent{Logical: keys.KeyBackspace, Mods: mods}, true
	case termbox.KeySpace:
		return keys.KeyEvent{Logical: keys.KeyRune, Rune: ' ', Mods: mods}, true
	case termbox.KeyCtrlSpace:
		return keys.KeyEvent{Logical: keys.KeyRune, Rune: ' ', Mods: mods | keys.ModCtrl}, true
	case termbox.KeyCtrlUnderscore:
		// termbox assigns Ctrl-7, Ctrl-/, and Ctrl-_ the same code; the
		// terminal can't tell them apart, so report it as the binding
		// table's other undo chord (Ctrl-/) rather than adding a second,
		// unreachable case for the same value.
		return keys.KeyEvent{Logical: keys.KeyRune, Rune: '/', Mods: mods | keys.ModCtrl}, true
	}

	if lk, ok := namedKeys[ev.Key]; ok {
		return keys.KeyEvent{Logical: lk, Mods: mods}, true
	}
	if n, ok := functionKeys[ev.Key]; ok {
		return keys.KeyEvent{Logical: keys.KeyFunction, Rune: n, Mods: mods}, true
	}
	if r, ok := ctrlLetters[ev.Key]; ok {
		return keys.KeyEvent{Logical: keys.KeyRune, Rune: r, Mods: mods | keys.ModCtrl}, true
	}
	// anything else still reaches the resolver, so the editor can report
	// the keystroke as undefined instead of swallowing it
	return keys.KeyEvent{Logical: keys.KeyUnmapped, Mods: mods}, true
}
