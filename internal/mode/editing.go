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

// EditingMode is the mode bound to ordinary text buffers: scratch buffers
// and file buffers. Every self-insert becomes its own InsertText effect,
// annotated (not consumed) so a decorator mode later in the chain can
// still observe the keystroke.
type EditingMode struct {
	BaseMode
	file bool // true for file-backed buffers; false for *scratch*-style buffers

	yankCursor int // cycles C-M-y through successively older kill-ring entries
}

// NewEditingMode returns the editing mode for a file-backed buffer (its
// save-buffer effect performs a real Save).
func NewEditingMode() *EditingMode { return &EditingMode{file: true} }

// NewScratchMode returns the editing mode for a scratch buffer: identical
// key handling, except save-buffer is ignored (there is no file to write).
func NewScratchMode() *EditingMode { return &EditingMode{file: false} }

func (m *EditingMode) Name() string {
	if m.file {
		return "fundamental"
	}
	return "scratch"
}

// HandleMouse turns a click into a cursor move at the clicked cell
// (window-relative; the editor adds the scroll offset).
func (m *EditingMode) HandleMouse(event MouseEvent) ModeResult {
	if event.Kind == MouseDown {
		return Consume(MoveCursor(event.Row, event.Column))
	}
	return Ignore()
}

// AvailableCommands contributes the editing commands that live in the mode
// rather than the global registry, so a derived mode can override
// indentation without rebinding Enter or Tab.
func (m *EditingMode) AvailableCommands() []Command {
	return []Command{
		{Name: "newline-and-indent", Category: "editing", Summary: "Insert a newline, indenting the new line"},
		{Name: "indent-line", Category: "editing", Summary: "Indent the current line"},
	}
}

func (m *EditingMode) Perform(action Action) ModeResult {
	if action.IsSelfInsert() {
		return Annotate(InsertText(Cursor(), string(action.Rune)))
	}
	switch action.Command {
	case "newline-and-indent":
		return Annotate(InsertText(Cursor(), "\n"))
	case "indent-line":
		return Annotate(InsertText(Cursor(), "\t"))
	case "delete-backward-char":
		return Consume(DeleteText(Cursor(), -1))
	case "delete-char":
		return Consume(DeleteText(Cursor(), 1))
	case "kill-line":
		return Consume(KillLine())
	case "kill-word":
		return Consume(ForwardKillWord())
	case "backward-kill-word":
		return Consume(BackwardKillWord())
	case "kill-region":
		return Consume(KillRegion())
	case "copy-region":
		return Consume(CopyRegion())
	case "yank":
		m.yankCursor = 0
		return Consume(Yank())
	case "yank-index":
		idx := m.yankCursor
		m.yankCursor++
		return Consume(YankAt(idx))
	case "set-mark":
		return Consume(SetMark())
	case "save-buffer":
		if !m.file {
			return Ignore()
		}
		return Consume(Save())
	case "reverse-case-character":
		return Consume(ReverseCaseCharacter())
	case "repeat-last-command":
		return Consume(RepeatLastCommand())
	default:
		return Ignore()
	}
}
