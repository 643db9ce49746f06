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
package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteRunsHandlerWithContext(t *testing.T) {
	r := New()
	var got CommandContext
	r.Register("probe", "test", "records its context", func(ctx CommandContext) ([]ChromeAction, error) {
		got = ctx
		return []ChromeAction{{Kind: ChromeEcho, Message: "ran"}}, nil
	})

	actions, err := r.Execute("probe", CommandContext{BufferName: "b", Line: 3, Column: 7})
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "ran", actions[0].Message)
	assert.Equal(t, "b", got.BufferName)
	assert.Equal(t, 3, got.Line)
}

func TestExecuteUnknownCommandFails(t *testing.T) {
	r := New()
	_, err := r.Execute("nope", CommandContext{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrefixSearchIsSortedAndFiltered(t *testing.T) {
	r := New()
	nop := func(CommandContext) ([]ChromeAction, error) { return nil, nil }
	r.Register("split-window-right", "window", "", nop)
	r.Register("split-window-below", "window", "", nop)
	r.Register("save-buffer", "file", "", nop)

	matches := r.Prefix("split-")
	require.Len(t, matches, 2)
	assert.Equal(t, "split-window-below", matches[0].Name)
	assert.Equal(t, "split-window-right", matches[1].Name)
}

func TestHintFallsBackToAllCommands(t *testing.T) {
	r := New()
	nop := func(CommandContext) ([]ChromeAction, error) { return nil, nil }
	r.Register("quit", "global", "", nop)
	r.Register("save-buffer", "file", "", nop)

	assert.Equal(t, "quit, save-buffer", r.Hint("zzz"))
	assert.Equal(t, "save-buffer", r.Hint("save"))
}

func TestRegisterReplacesExistingName(t *testing.T) {
	r := New()
	r.Register("x", "a", "", func(CommandContext) ([]ChromeAction, error) {
		return []ChromeAction{{Kind: ChromeQuit}}, nil
	})
	r.Register("x", "a", "", func(CommandContext) ([]ChromeAction, error) {
		return []ChromeAction{{Kind: ChromeEcho}}, nil
	})

	actions, err := r.Execute("x", CommandContext{})
	require.NoError(t, err)
	assert.Equal(t, ChromeEcho, actions[0].Kind)
}
