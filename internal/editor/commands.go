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
	"fmt"

	"github.com/agott/kernel/internal/registry"
)

// registerCommands seeds the registry with the minimum command set a
// front end can rely on existing: the key-bound commands (so
// ExecuteCommand has something to look up) plus the palette-only aliases
// and descriptive commands. The ":<N>"/"$" goto-line shorthands are not
// registered here; ExecuteCommand parses those directly.
func (e *Editor) registerCommands() {
	r := e.registry

	r.Register("execute-command", "global", "Run a command by name", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeCommandMode}}, nil
	})
	r.Register("command-mode", "global", "Open the command palette", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeCommandMode}}, nil
	})
	r.Register("find-file", "file", "Visit a file", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeFindFile}}, nil
	})
	r.Register("save-buffer", "file", "Save the current buffer", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeSave}}, nil
	})
	r.Register("switch-buffer", "buffer", "Switch to another buffer", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeSwitchBuffer}}, nil
	})
	r.Register("switch-to-buffer", "buffer", "Switch to another buffer", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeSwitchBuffer}}, nil
	})
	r.Register("kill-buffer", "buffer", "Kill a buffer", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeKillBuffer}}, nil
	})
	r.Register("split-window-below", "window", "Split the window, stacking the new one below", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeSplitHorizontal}}, nil
	})
	r.Register("split-window-horizontally", "window", "Split the window, stacking the new one below", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeSplitHorizontal}}, nil
	})
	r.Register("split-window-right", "window", "Split the window, placing the new one to the right", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeSplitVertical}}, nil
	})
	r.Register("split-window-vertically", "window", "Split the window, placing the new one to the right", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeSplitVertical}}, nil
	})
	r.Register("delete-window", "window", "Delete the active window", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeDeleteWindow}}, nil
	})
	r.Register("delete-other-windows", "window", "Delete every window but the active one", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeDeleteOtherWindows}}, nil
	})
	r.Register("other-window", "window", "Move focus to the next window", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeSwitchWindow}}, nil
	})
	r.Register("quit", "global", "Quit the editor", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeQuit}}, nil
	})
	r.Register("exit", "global", "Quit the editor", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeQuit}}, nil
	})
	r.Register("keyboard-quit", "global", "Cancel the pending operation", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return nil, nil
	})
	r.Register("messages", "buffer", "Show the message log", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeShowMessages}}, nil
	})
	r.Register("show-messages", "buffer", "Show the message log", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeShowMessages}}, nil
	})
	r.Register("describe-buffer", "help", "Echo facts about the current buffer", func(ctx registry.CommandContext) ([]registry.ChromeAction, error) {
		msg := fmt.Sprintf("%s: line %d, column %d, modified=%v", ctx.BufferName, ctx.Line, ctx.Column, ctx.Modified)
		return []registry.ChromeAction{{Kind: registry.ChromeEcho, Message: msg}}, nil
	})
	r.Register("describe-mode", "help", "Echo the buffer name with a fixed fundamental-mode label (the mode chain is not consulted)", func(ctx registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeEcho, Message: fmt.Sprintf("%s: fundamental editing mode", ctx.BufferName)}}, nil
	})
	r.Register("repeat-last-command", "editing", "Repeat the last performed command", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeRepeatLastCommand}}, nil
	})
	r.Register("eval-expression", "scripting", "Evaluate a lisp expression", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeEvalExpression}}, nil
	})
	r.Register("goto-last-line", "motion", "Move the cursor to the last line of the buffer", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeGotoLine, Row: 1<<30 + 1}}, nil
	})
	r.Register("goto-line", "motion", "Move the cursor to a line number", func(registry.CommandContext) ([]registry.ChromeAction, error) {
		return []registry.ChromeAction{{Kind: registry.ChromeEcho, Message: "type :<N> in M-x to jump to a line number"}}, nil
	})
}
