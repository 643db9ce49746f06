package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agott/kernel/internal/mode"
)

func TestEvalUnboundActionIsUnclaimed(t *testing.T) {
	h := NewHost(map[string]string{"kill-line": "(kill-line)"})

	claimed, effects, err := h.Eval(mode.ScriptAction{Command: "next-line"})

	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Nil(t, effects)
}

func TestEvalBoundActionRecordsEffect(t *testing.T) {
	h := NewHost(map[string]string{"kill-line": "(kill-line)"})

	claimed, effects, err := h.Eval(mode.ScriptAction{Command: "kill-line"})

	require.NoError(t, err)
	assert.True(t, claimed)
	require.Len(t, effects, 1)
	assert.Equal(t, "kill-line", effects[0].Kind)
}

func TestEvalSelfInsertUsesCurrentRune(t *testing.T) {
	h := NewHost(map[string]string{"": "(self-insert-char)"})

	claimed, effects, err := h.Eval(mode.ScriptAction{Rune: 'q'})

	require.NoError(t, err)
	assert.True(t, claimed)
	require.Len(t, effects, 1)
	assert.Equal(t, "insert-text", effects[0].Kind)
	assert.Equal(t, "q", effects[0].Text)
}

func TestEvalExpressionReturnsPrintedValue(t *testing.T) {
	h := NewHost(nil)

	out, effects, err := h.EvalExpression(`(+ 1 2)`)

	require.NoError(t, err)
	assert.Equal(t, "3", out)
	assert.Empty(t, effects)
}
