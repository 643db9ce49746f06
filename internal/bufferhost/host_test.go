package bufferhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agott/kernel/internal/buffer"
	"github.com/agott/kernel/internal/killring"
	"github.com/agott/kernel/internal/mode"
	"github.com/agott/kernel/internal/obs"
	"github.com/agott/kernel/internal/types"
)

func newTestHost() (*Host, *buffer.Buffer) {
	buf := buffer.New(1, "scratch")
	h := New(buf, []mode.Mode{mode.NewEditingMode()}, killring.New(), obs.Discard())
	return h, buf
}

func TestSelfInsertAppendsAndMovesCursor(t *testing.T) {
	h, buf := newTestHost()
	defer h.Stop()

	rep := h.HandleKey(mode.SelfInsert('a'), 0, 1)

	require.Equal(t, ActionsCompleted, rep.Kind)
	assert.Equal(t, types.CharPos(1), rep.Cursor)
	assert.Equal(t, "a", buf.Text())
}

func TestUnboundCommandIsNoChange(t *testing.T) {
	h, _ := newTestHost()
	defer h.Stop()

	rep := h.HandleKey(mode.Cmd("next-line"), 0, 1)

	assert.Equal(t, NoChange, rep.Kind)
}

func TestKillLineThenYank(t *testing.T) {
	h, buf := newTestHost()
	defer h.Stop()
	buf.Insert(0, "hello world")

	rep := h.HandleKey(mode.Cmd("kill-line"), 0, 1)
	require.Equal(t, ActionsCompleted, rep.Kind)
	assert.Equal(t, "", buf.Text())

	rep = h.HandleKey(mode.Cmd("yank"), 0, 1)
	require.Equal(t, ActionsCompleted, rep.Kind)
	assert.Equal(t, "hello world", buf.Text())
	assert.Equal(t, types.CharPos(len("hello world")), rep.Cursor)
}

func TestRepeatLastCommandReplaysPriorKey(t *testing.T) {
	h, buf := newTestHost()
	defer h.Stop()

	h.HandleKey(mode.SelfInsert('x'), 0, 1)
	rep := h.HandleKey(mode.Cmd("repeat-last-command"), 1, 1)

	require.Equal(t, ActionsCompleted, rep.Kind)
	assert.Equal(t, "xx", buf.Text())
	assert.Equal(t, types.CharPos(2), rep.Cursor)
}

func TestBackwardKillWordPrependsToOpenSequence(t *testing.T) {
	buf := buffer.New(1, "scratch")
	ring := killring.New()
	h := New(buf, []mode.Mode{mode.NewEditingMode()}, ring, obs.Discard())
	defer h.Stop()
	buf.Insert(0, "foo bar")

	rep := h.HandleKey(mode.Cmd("backward-kill-word"), types.CharPos(len("foo bar")), 1)

	require.Equal(t, ActionsCompleted, rep.Kind)
	assert.Equal(t, "foo ", buf.Text())

	rep = h.HandleKey(mode.Cmd("backward-kill-word"), rep.Cursor, 1)
	require.Equal(t, ActionsCompleted, rep.Kind)
	assert.Equal(t, "", buf.Text())
	assert.Equal(t, "foo bar", ring.Current())
	assert.Equal(t, 1, ring.Len())
}

// TestRegionKillThenYankScenario: killing the marked region collapses the
// buffer and pushes the text into the kill ring, and a later yank at the
// buffer's end splices it back.
func TestRegionKillThenYankScenario(t *testing.T) {
	buf := buffer.New(1, "t")
	ring := killring.New()
	h := New(buf, []mode.Mode{mode.NewEditingMode()}, ring, obs.Discard())
	defer h.Stop()
	buf.Insert(0, "Hello\nWorld\nTest")

	h.HandleKey(mode.Cmd("set-mark"), 2, 1)
	rep := h.HandleKey(mode.Cmd("kill-region"), 8, 1)

	require.Equal(t, ActionsCompleted, rep.Kind)
	assert.Equal(t, "Herld\nTest", buf.Text())
	assert.Equal(t, types.CharPos(2), rep.Cursor)
	_, marked := buf.Mark()
	assert.False(t, marked)
	assert.Equal(t, "llo\nWo", ring.Current())

	rep = h.HandleKey(mode.Cmd("yank"), buf.Len(), 1)
	require.Equal(t, ActionsCompleted, rep.Kind)
	assert.Equal(t, "Herld\nTestllo\nWo", buf.Text())
}

func TestDeleteBeforeBufferStartIsNoOp(t *testing.T) {
	h, buf := newTestHost()
	defer h.Stop()
	buf.Insert(0, "abc")

	rep := h.HandleKey(mode.Cmd("delete-backward-char"), 0, 1)

	assert.Equal(t, "abc", buf.Text())
	assert.Equal(t, types.CharPos(0), rep.Cursor, "a backspace at the start must not move the cursor")
}

func TestConsecutiveKillLinesAppendUntilBroken(t *testing.T) {
	buf := buffer.New(1, "t")
	ring := killring.New()
	h := New(buf, []mode.Mode{mode.NewEditingMode()}, ring, obs.Discard())
	defer h.Stop()
	buf.Insert(0, "one\ntwo\nthree")

	h.HandleKey(mode.Cmd("kill-line"), 0, 1) // "one"
	h.HandleKey(mode.Cmd("kill-line"), 0, 1) // "\n"
	h.HandleKey(mode.Cmd("kill-line"), 0, 1) // "two"
	assert.Equal(t, "one\ntwo", ring.Current())

	// any non-kill edit breaks the sequence
	h.HandleKey(mode.SelfInsert('x'), 0, 1)
	h.HandleKey(mode.Cmd("kill-line"), 0, 1)
	assert.Equal(t, 2, ring.Len())
}

func TestGetStateSnapshotsBuffer(t *testing.T) {
	h, buf := newTestHost()
	defer h.Stop()
	buf.Insert(0, "hello")

	st := h.GetState()
	assert.Equal(t, "scratch", st.Title)
	assert.Equal(t, "hello", st.Text)
	assert.Equal(t, types.CharPos(5), st.Len)
	assert.True(t, st.Modified)
}

func TestSaveWithoutPathFails(t *testing.T) {
	h, _ := newTestHost()
	defer h.Stop()

	rep := h.Save()
	require.Equal(t, ReplyError, rep.Kind)
	assert.Contains(t, rep.Err.Error(), "no file name")
}

// stubMode is a canned-result mode for chain-walk tests. Its counters are
// only read after a host round trip completes, so the reply channel's
// happens-before edge makes them safe to inspect from the test goroutine.
type stubMode struct {
	mode.BaseMode
	name    string
	result  mode.ModeResult
	calls   int
	panicky bool
}

func (m *stubMode) Name() string { return m.name }

func (m *stubMode) Perform(mode.Action) mode.ModeResult {
	m.calls++
	if m.panicky {
		panic("stub mode failure")
	}
	return m.result
}

func TestChainStopsAtFirstConsumed(t *testing.T) {
	first := &stubMode{name: "first", result: mode.Consume(mode.InsertText(mode.Cursor(), "a"))}
	second := &stubMode{name: "second", result: mode.Consume(mode.InsertText(mode.Cursor(), "b"))}
	buf := buffer.New(1, "t")
	h := New(buf, []mode.Mode{first, second}, killring.New(), obs.Discard())
	defer h.Stop()

	h.HandleKey(mode.SelfInsert('x'), 0, 1)

	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "a Consumed verdict must stop the chain before later modes run")
	assert.Equal(t, "a", buf.Text())
}

func TestAnnotatedEffectsAccumulateDownTheChain(t *testing.T) {
	decorator := &stubMode{name: "decorator", result: mode.Annotate(mode.InsertText(mode.Cursor(), "a"))}
	consumer := &stubMode{name: "consumer", result: mode.Consume(mode.InsertText(mode.Cursor(), "b"))}
	buf := buffer.New(1, "t")
	h := New(buf, []mode.Mode{decorator, consumer}, killring.New(), obs.Discard())
	defer h.Stop()

	rep := h.HandleKey(mode.SelfInsert('x'), 0, 1)

	require.Equal(t, ActionsCompleted, rep.Kind)
	assert.Equal(t, "ab", buf.Text(), "annotated effects apply before the consumer's, in chain order")
	assert.Equal(t, types.CharPos(2), rep.Cursor)
}

func TestPanickingModeIsSkippedAndChainContinues(t *testing.T) {
	broken := &stubMode{name: "broken", panicky: true}
	buf := buffer.New(1, "t")
	h := New(buf, []mode.Mode{broken, mode.NewEditingMode()}, killring.New(), obs.Discard())
	defer h.Stop()

	rep := h.HandleKey(mode.SelfInsert('a'), 0, 1)

	require.Equal(t, ActionsCompleted, rep.Kind)
	assert.Equal(t, "a", buf.Text(), "the editing mode still handles the key after the broken mode is skipped")

	// the broken mode stays in the chain and stays skippable
	rep = h.HandleKey(mode.SelfInsert('b'), 1, 1)
	require.Equal(t, ActionsCompleted, rep.Kind)
	assert.Equal(t, "ab", buf.Text())
}

func TestLastEditorActionWins(t *testing.T) {
	first := &stubMode{name: "first", result: mode.Annotate(mode.ExecuteCommand("one"))}
	second := &stubMode{name: "second", result: mode.Consume(mode.ExecuteCommand("two"))}
	buf := buffer.New(1, "t")
	h := New(buf, []mode.Mode{first, second}, killring.New(), obs.Discard())
	defer h.Stop()

	rep := h.HandleKey(mode.SelfInsert('x'), 0, 1)

	require.NotNil(t, rep.EditorAction)
	assert.Equal(t, ActionExecuteCommand, rep.EditorAction.Kind)
	assert.Equal(t, "two", rep.EditorAction.Name)
}

func TestSetMarkThenKillRegion(t *testing.T) {
	h, buf := newTestHost()
	defer h.Stop()
	buf.Insert(0, "abcdef")

	h.HandleKey(mode.Cmd("set-mark"), 1, 1)
	rep := h.HandleKey(mode.Cmd("kill-region"), 4, 1)

	require.Equal(t, ActionsCompleted, rep.Kind)
	assert.Equal(t, "aef", buf.Text())
	assert.Equal(t, types.CharPos(1), rep.Cursor)
}
