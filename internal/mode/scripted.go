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

// ScriptedMode fits a scripting runtime into this package's pure-reducer
// contract: a bound key reaches scripted code, but scripted code hands
// back a list of effect directives instead of mutating anything itself,
// and this package never imports the lisp runtime to do it.

// ScriptAction is the dictionary form of an Action handed to a script
// host, standing in for the symbol a lisp primitive would otherwise be
// looked up by.
type ScriptAction struct {
	Command string
	Rune    rune
}

// ScriptEffect is the dictionary form of an effect a script host hands
// back. Only the fields relevant to Kind are meaningful; see
// translateScriptEffect for the recognized kinds.
type ScriptEffect struct {
	Kind     string
	Text     string
	Position string // "cursor" (default) or "end"
	Count    int
	Name     string // ExecuteCommand
	Path     string // OpenFile
}

// ScriptEffector is the seam between this package and whatever scripting
// runtime backs it (internal/script's golisp implementation in this
// repo's case). Eval reports whether a handler was bound for action at
// all; when claimed is false the mode chain keeps walking as though
// ScriptedMode weren't present.
type ScriptEffector interface {
	Eval(action ScriptAction) (claimed bool, effects []ScriptEffect, err error)
}

// ScriptedMode lets a scripting host intercept keys ahead of (or instead
// of) the ordinary editing mode: every action is offered to the effector,
// and whatever it claims becomes Consumed effects.
type ScriptedMode struct {
	BaseMode
	effector ScriptEffector
	lastErr  string
}

// NewScriptedMode wraps effector in a Mode.
func NewScriptedMode(effector ScriptEffector) *ScriptedMode {
	return &ScriptedMode{effector: effector}
}

func (m *ScriptedMode) Name() string { return "scripted" }

// LastError reports the most recent script evaluation error, if any.
// Perform returns Ignore() on an error, so this accessor is the only place
// the error text is kept.
func (m *ScriptedMode) LastError() string { return m.lastErr }

func (m *ScriptedMode) Perform(action Action) ModeResult {
	claimed, raw, err := m.effector.Eval(ScriptAction{Command: action.Command, Rune: action.Rune})
	if err != nil {
		m.lastErr = err.Error()
		return Ignore()
	}
	if !claimed {
		return Ignore()
	}
	effects := make([]Effect, 0, len(raw))
	for _, re := range raw {
		if e, ok := translateScriptEffect(re); ok {
			effects = append(effects, e)
		}
	}
	return Consume(effects...)
}

// TranslateScriptEffect exposes translateScriptEffect for callers
// outside the mode chain (the editor's M-: eval-expression path, which
// applies a script host's effects directly rather than through a mode's
// Perform).
func TranslateScriptEffect(re ScriptEffect) (Effect, bool) { return translateScriptEffect(re) }

func translateScriptEffect(re ScriptEffect) (Effect, bool) {
	pos := Cursor()
	if re.Position == "end" {
		pos = End()
	}
	switch re.Kind {
	case "insert-text":
		return InsertText(pos, re.Text), true
	case "delete-text":
		return DeleteText(pos, re.Count), true
	case "kill-line":
		return KillLine(), true
	case "kill-region":
		return KillRegion(), true
	case "yank":
		return Yank(), true
	case "save-buffer":
		return Save(), true
	case "execute-command":
		return ExecuteCommand(re.Name), true
	case "open-file":
		return OpenFile(re.Path, OpenVisit), true
	case "repeat-last-command":
		return RepeatLastCommand(), true
	default:
		return Effect{}, false
	}
}
