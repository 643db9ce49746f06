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

package mode

import (
	"fmt"
	"strings"

	"github.com/agott/kernel/internal/types"
)

// MenuEntry is one item a selection menu filters over: a display label plus
// whatever identity the committing mode needs to build its Effect (a
// registered command name, a buffer id, or a filesystem path). One concrete
// entry shape serves every command-window variant, rather than a type
// parameter per variant, since each variant's items reduce to a label plus
// an identity.
type MenuEntry struct {
	Label    string
	BufferID types.BufferID
	Path     string
}

// SelectionMenu is the shared reducer behind the palette, buffer-switch,
// buffer-kill, file-selector, and eval-expression command windows: a
// filterable, navigable list plus a committed-selection callback. The
// filter string grows by self-insert and shrinks by backspace, narrowing
// the item set as it goes; Enter commits the selected item.
type SelectionMenu struct {
	BaseMode

	name     string
	items    []MenuEntry
	filter   string
	filtered []int // indices into items
	selected int   // index into filtered
	visible  int   // number of rows the centred window shows
	onCommit func(MenuEntry) Effect

	// onCommitEmpty, if set, is tried on Enter when no filtered item is
	// selected (an empty item set, or a filter matching nothing): the
	// file selector uses this to open whatever path is currently typed
	// rather than requiring it to match a directory entry.
	onCommitEmpty func(filter string) (Effect, bool)
}

// NewSelectionMenu builds a menu over items, pre-selecting the first match.
// visible is the number of rows the centred scroll window shows (the
// command window's height minus its chrome).
func NewSelectionMenu(name string, items []MenuEntry, visible int, onCommit func(MenuEntry) Effect) *SelectionMenu {
	m := &SelectionMenu{name: name, items: items, visible: visible, onCommit: onCommit}
	m.recomputeFilter()
	return m
}

func (m *SelectionMenu) Name() string { return m.name }

func (m *SelectionMenu) recomputeFilter() {
	m.filtered = m.filtered[:0]
	needle := strings.ToLower(m.filter)
	for i, it := range m.items {
		if needle == "" || strings.Contains(strings.ToLower(it.Label), needle) {
			m.filtered = append(m.filtered, i)
		}
	}
	if m.selected >= len(m.filtered) {
		m.selected = len(m.filtered) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// Preselect sets the initially-highlighted item by label, used by
// buffer-switch's "smart" default (the most recent non-current buffer).
func (m *SelectionMenu) Preselect(label string) {
	for i, idx := range m.filtered {
		if m.items[idx].Label == label {
			m.selected = i
			return
		}
	}
}

// render regenerates the command window's whole buffer: the typed filter on
// the first line (where the cursor sits, per the command-window input
// convention), the visible slice of matching items below it.
func (m *SelectionMenu) render() Effect {
	var b strings.Builder
	b.WriteString(m.filter)
	b.WriteByte('\n')
	lo, hi := m.visibleRange()
	for i := lo; i < hi; i++ {
		marker := "  "
		if i == m.selected {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%s\n", marker, m.items[m.filtered[i]].Label)
	}
	return InsertText(Absolute(0, 0), b.String())
}

// visibleRange computes the centred window [lo, hi) of filtered indices,
// keeping the selection near the middle of the visible rows once the list
// is longer than the window.
func (m *SelectionMenu) visibleRange() (int, int) {
	n := len(m.filtered)
	if n == 0 {
		return 0, 0
	}
	visible := m.visible
	if visible <= 0 || visible > n {
		visible = n
	}
	lo := m.selected - visible/2
	if lo < 0 {
		lo = 0
	}
	hi := lo + visible
	if hi > n {
		hi = n
		lo = hi - visible
		if lo < 0 {
			lo = 0
		}
	}
	return lo, hi
}

func (m *SelectionMenu) Perform(action Action) ModeResult {
	if action.IsSelfInsert() {
		m.filter += string(action.Rune)
		m.recomputeFilter()
		return Consume(ClearText(), m.render())
	}
	switch action.Command {
	case "delete-backward-char":
		if len(m.filter) > 0 {
			r := []rune(m.filter)
			m.filter = string(r[:len(r)-1])
			m.recomputeFilter()
		}
		return Consume(ClearText(), m.render())
	case "next-line":
		if m.selected < len(m.filtered)-1 {
			m.selected++
		}
		return Consume(ClearText(), m.render())
	case "previous-line":
		if m.selected > 0 {
			m.selected--
		}
		return Consume(ClearText(), m.render())
	case "indent-line": // Tab cycles forward, wrapping
		if len(m.filtered) > 0 {
			m.selected = (m.selected + 1) % len(m.filtered)
		}
		return Consume(ClearText(), m.render())
	case "newline-and-indent": // Enter commits
		if m.selected < 0 || m.selected >= len(m.filtered) {
			if m.onCommitEmpty != nil {
				if e, ok := m.onCommitEmpty(m.filter); ok {
					return Consume(e)
				}
			}
			return Consume()
		}
		entry := m.items[m.filtered[m.selected]]
		return Consume(m.onCommit(entry))
	default:
		return Ignore()
	}
}

// InitialRender returns the ClearText+InsertText effect pair a command
// window should apply immediately after construction, so the menu shows
// its full unfiltered list before the first keystroke.
func (m *SelectionMenu) InitialRender() []Effect {
	return []Effect{ClearText(), m.render()}
}

// NewPaletteMode builds the M-x command palette: committing executes the
// chosen command by name. Typed text that matches no registered command
// (":42", "$") still commits as an ExecuteCommand attempt rather than a
// no-op, so the editor's goto-line supplement can recognize it there
// without this package knowing anything about line numbers.
func NewPaletteMode(commands []MenuEntry, visible int) *SelectionMenu {
	m := NewSelectionMenu("command-palette", commands, visible, func(e MenuEntry) Effect {
		return ExecuteCommand(e.Label)
	})
	m.onCommitEmpty = func(filter string) (Effect, bool) {
		if filter == "" {
			return Effect{}, false
		}
		return ExecuteCommand(filter), true
	}
	return m
}

// NewBufferSwitchMode builds the C-x b buffer switcher.
func NewBufferSwitchMode(buffers []MenuEntry, visible int) *SelectionMenu {
	return NewSelectionMenu("buffer-switch", buffers, visible, func(e MenuEntry) Effect {
		return SwitchToBuffer(e.BufferID)
	})
}

// NewBufferKillMode builds the C-x k buffer killer.
func NewBufferKillMode(buffers []MenuEntry, visible int) *SelectionMenu {
	return NewSelectionMenu("buffer-kill", buffers, visible, func(e MenuEntry) Effect {
		return KillBuffer(e.BufferID)
	})
}

// NewEvalExpressionMode builds the M-: prompt: an itemless menu whose
// typed text commits as a scripted-expression evaluation.
func NewEvalExpressionMode(visible int) *SelectionMenu {
	m := NewSelectionMenu("eval-expression", nil, visible, func(e MenuEntry) Effect {
		return EvaluateScriptedExpression(e.Label)
	})
	m.onCommitEmpty = func(filter string) (Effect, bool) {
		if filter == "" {
			return Effect{}, false
		}
		return EvaluateScriptedExpression(filter), true
	}
	return m
}

// NewFileSelectorMode builds the C-x C-f file selector. Enter visits the
// selected directory entry; when the typed filter matches no entry, Enter
// opens the typed text itself as a new path.
func NewFileSelectorMode(entries []MenuEntry, visible int) *SelectionMenu {
	m := NewSelectionMenu("find-file", entries, visible, func(e MenuEntry) Effect {
		return OpenFile(e.Path, OpenVisit)
	})
	m.onCommitEmpty = func(filter string) (Effect, bool) {
		if filter == "" {
			return Effect{}, false
		}
		return OpenFile(filter, OpenNew), true
	}
	return m
}
