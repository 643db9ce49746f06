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

// Package script implements mode.ScriptEffector over golisp, keeping the
// interpreter out of the kernel's import graph. A bound key evaluates a
// lisp form, but the form calls effect primitives (installPrimitives
// below) that only ever record a mode.ScriptEffect for the caller to
// apply, never touch an editor directly.
package script

import (
	"errors"
	"fmt"
	"os"

	"github.com/steelseries/golisp"

	"github.com/agott/kernel/internal/mode"
)

// Host is a golisp-backed mode.ScriptEffector. golisp's primitive table
// is process-global, so only one Host's form may be evaluating at a
// time; Eval serializes that with a mutex-free single-goroutine
// assumption matching the buffer host's own one-goroutine-per-mode-chain
// model (a given mode chain, and so its scripted mode, only ever runs on
// its own actor's goroutine).
type Host struct {
	bindings map[string]string // resolved command name ("" for self-insert) -> lisp source

	pending     []mode.ScriptEffect
	currentRune rune
}

// active is the Host whose primitives are currently being evaluated;
// golisp's MakePrimitiveFunction closures are registered once at process
// start (via init-time installPrimitives) and read this package variable
// to learn which Host's pending list to append to.
var active *Host

// NewHost builds a scripting host. bindings maps a resolved key-chord
// command name to the lisp form evaluated for it; the empty string key,
// if present, is the form evaluated for a plain self-insert keystroke.
func NewHost(bindings map[string]string) *Host {
	return &Host{bindings: bindings}
}

// LoadFile evaluates a lisp source file, for user init code at startup.
// Definitions it makes stay visible to later Eval/EvalExpression calls;
// any effect primitives it happens to call are discarded, since there is
// no buffer to apply them to yet.
func (h *Host) LoadFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	prev := active
	active = h
	h.pending = nil
	defer func() { active = prev }()

	if _, err := golisp.ParseAndEvalAll(string(src)); err != nil {
		return fmt.Errorf("script load %s: %w", path, err)
	}
	h.pending = nil
	return nil
}

// Eval implements mode.ScriptEffector.
func (h *Host) Eval(action mode.ScriptAction) (bool, []mode.ScriptEffect, error) {
	key := action.Command
	form, ok := h.bindings[key]
	if !ok {
		return false, nil, nil
	}

	prev := active
	active = h
	h.pending = nil
	h.currentRune = action.Rune
	defer func() { active = prev }()

	if _, err := golisp.ParseAndEvalAll(form); err != nil {
		return true, nil, fmt.Errorf("script eval %q: %w", key, err)
	}
	return true, h.pending, nil
}

// EvalExpression runs an arbitrary expression outside of any key
// binding, the M-: eval-expression path: it still has access to the
// effect primitives, and also returns golisp's printed result value.
func (h *Host) EvalExpression(expr string) (string, []mode.ScriptEffect, error) {
	prev := active
	active = h
	h.pending = nil
	defer func() { active = prev }()

	value, err := golisp.ParseAndEvalAll(expr)
	if err != nil {
		return "", nil, fmt.Errorf("eval-expression: %w", err)
	}
	return golisp.String(value), h.pending, nil
}

func record(e mode.ScriptEffect) {
	if active == nil {
		return
	}
	active.pending = append(active.pending, e)
}

func stringArg(args *golisp.Data) (string, error) {
	val := golisp.Car(args)
	if val == nil {
		return "", errors.New("expected a string argument")
	}
	if !golisp.StringP(val) {
		return "", errors.New("expected a string argument")
	}
	return golisp.StringValue(val), nil
}

func intArg(args *golisp.Data, def int) (int, error) {
	val := golisp.Car(args)
	if val == nil {
		return def, nil
	}
	if !golisp.IntegerP(val) {
		return 0, errors.New("expected an integer argument")
	}
	return int(golisp.IntegerValue(val)), nil
}

// installPrimitives registers the effect-recording primitives every Host
// shares. Each primitive validates its arguments and appends one
// ScriptEffect; none of them mutates anything.
func installPrimitives() {
	golisp.MakePrimitiveFunction("insert-text", "1",
		func(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
			s, err := stringArg(args)
			if err != nil {
				return nil, err
			}
			record(mode.ScriptEffect{Kind: "insert-text", Text: s, Position: "cursor"})
			return nil, nil
		})

	golisp.MakePrimitiveFunction("insert-at-end", "1",
		func(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
			s, err := stringArg(args)
			if err != nil {
				return nil, err
			}
			record(mode.ScriptEffect{Kind: "insert-text", Text: s, Position: "end"})
			return nil, nil
		})

	golisp.MakePrimitiveFunction("self-insert-char", "0",
		func(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
			if active != nil && active.currentRune != 0 {
				record(mode.ScriptEffect{Kind: "insert-text", Text: string(active.currentRune), Position: "cursor"})
			}
			return nil, nil
		})

	golisp.MakePrimitiveFunction("delete-text", "0|1",
		func(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
			n, err := intArg(args, 1)
			if err != nil {
				return nil, err
			}
			record(mode.ScriptEffect{Kind: "delete-text", Count: n, Position: "cursor"})
			return nil, nil
		})

	golisp.MakePrimitiveFunction("kill-line", "0",
		func(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
			record(mode.ScriptEffect{Kind: "kill-line"})
			return nil, nil
		})

	golisp.MakePrimitiveFunction("kill-region", "0",
		func(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
			record(mode.ScriptEffect{Kind: "kill-region"})
			return nil, nil
		})

	golisp.MakePrimitiveFunction("yank", "0",
		func(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
			record(mode.ScriptEffect{Kind: "yank"})
			return nil, nil
		})

	golisp.MakePrimitiveFunction("save-buffer", "0",
		func(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
			record(mode.ScriptEffect{Kind: "save-buffer"})
			return nil, nil
		})

	golisp.MakePrimitiveFunction("repeat-last-command", "0",
		func(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
			record(mode.ScriptEffect{Kind: "repeat-last-command"})
			return nil, nil
		})

	golisp.MakePrimitiveFunction("execute-command", "1",
		func(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
			s, err := stringArg(args)
			if err != nil {
				return nil, err
			}
			record(mode.ScriptEffect{Kind: "execute-command", Name: s})
			return nil, nil
		})

	golisp.MakePrimitiveFunction("open-file", "1",
		func(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
			s, err := stringArg(args)
			if err != nil {
				return nil, err
			}
			record(mode.ScriptEffect{Kind: "open-file", Path: s})
			return nil, nil
		})
}

func init() {
	installPrimitives()
}
