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

// Package registry implements the name->handler command table: prefix
// search for M-x completion, categories for the command palette, and the
// CommandContext snapshot handlers run against. Handlers never reach into
// the editor; they hand back ChromeActions for it to interpret.
package registry

import (
	"errors"
	"sort"
	"strings"

	"github.com/agott/kernel/internal/types"
)

// ErrNotFound is returned by Execute when no command matches name.
var ErrNotFound = errors.New("registry: command not found")

// CommandContext is the snapshot passed to command handlers: enough
// buffer/window/cursor state that a handler never needs to reach back into
// the editor for basic facts.
type CommandContext struct {
	BufferID   types.BufferID
	WindowID   types.WindowID
	BufferName string
	Content    string
	Cursor     types.CharPos
	Modified   bool
	Line       int // 1-based
	Column     int // 1-based
}

// ChromeActionKind tags the variant of a ChromeAction a handler returns.
type ChromeActionKind int

const (
	ChromeFindFile ChromeActionKind = iota
	ChromeCommandMode
	ChromeSwitchBuffer
	ChromeKillBuffer
	ChromeSave
	ChromeCursorMove
	ChromeEcho
	ChromeMarkDirty
	ChromeQuit
	ChromeSplitHorizontal
	ChromeSplitVertical
	ChromeSwitchWindow
	ChromeDeleteWindow
	ChromeDeleteOtherWindows
	ChromeShowMessages
	ChromeGotoLine
	ChromeRepeatLastCommand
	ChromeEvalExpression
)

// ChromeAction is a request a command handler hands back to the editor.
type ChromeAction struct {
	Kind ChromeActionKind

	Path string // FindFile

	BufferID types.BufferID // SwitchBuffer, KillBuffer

	Row, Col int // CursorMove, GotoLine (Row used as line number for GotoLine)

	Message string // Echo

	// Dirty is left untyped here (internal/dirty.Region) to avoid a
	// registry->dirty->types import cycle risk; editor converts.
	Dirty any
}

// Handler is a registered command's implementation.
type Handler func(ctx CommandContext) ([]ChromeAction, error)

// Command describes one registered entry, returned by searches so a
// command-palette mode can render name + category + summary.
type Command struct {
	Name     string
	Category string
	Summary  string
	handler  Handler
}

// Registry is the command name -> handler table.
type Registry struct {
	commands map[string]*Command
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{commands: map[string]*Command{}}
}

// Register adds or replaces the command named name.
func (r *Registry) Register(name, category, summary string, h Handler) {
	r.commands[name] = &Command{Name: name, Category: category, Summary: summary, handler: h}
}

// Lookup returns the registered command, if any.
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Execute runs the named command's handler against ctx.
func (r *Registry) Execute(name string, ctx CommandContext) ([]ChromeAction, error) {
	c, ok := r.commands[name]
	if !ok {
		return nil, ErrNotFound
	}
	return c.handler(ctx)
}

// All returns every registered command, sorted by name.
func (r *Registry) All() []*Command {
	out := make([]*Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Prefix returns every command whose name starts with prefix, sorted, for
// M-x's incremental completion and the "command not found" hint.
func (r *Registry) Prefix(prefix string) []*Command {
	var out []*Command
	for _, c := range r.All() {
		if strings.HasPrefix(c.Name, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// Hint returns a short ", did you mean: a, b, c" suggestion string built
// from the closest prefix matches, or "" if prefix matches nothing.
func (r *Registry) Hint(prefix string) string {
	matches := r.Prefix(prefix)
	if len(matches) == 0 {
		matches = r.All()
	}
	if len(matches) > 5 {
		matches = matches[:5]
	}
	names := make([]string, len(matches))
	for i, c := range matches {
		names[i] = c.Name
	}
	if len(names) == 0 {
		return ""
	}
	return strings.Join(names, ", ")
}
