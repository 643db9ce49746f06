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
package buffer

import "github.com/agott/kernel/internal/types"

// undoManager keeps the undo and redo stacks plus the open auto-group:
// every recorded edit lands in the auto-group, a boundary seals the group
// into one undoable entry, and explicit begin/end groups let a compound
// command undo as a unit regardless of keystroke boundaries.
type undoManager struct {
	undoStack  []EditOp
	redoStack  []EditOp
	current    []EditOp
	groupDepth int
}

func newUndoManager() *undoManager {
	return &undoManager{}
}

// record appends op to the open auto-group, starting one implicitly if none
// is open, and clears the redo stack (any fresh edit invalidates redo
// history).
func (u *undoManager) record(op EditOp) {
	u.current = append(u.current, op)
	u.redoStack = nil
}

func (u *undoManager) recordInsert(pos types.CharPos, text string) {
	if text == "" {
		return
	}
	u.record(insertOp(pos, text))
}

func (u *undoManager) recordDelete(pos types.CharPos, text string) {
	if text == "" {
		return
	}
	u.record(deleteOp(pos, text))
}

// boundary seals the current auto-group into a single undo-stack entry.
// While an explicit group is open (beginGroup/endGroup), boundary is a
// no-op; HandleKey calls it unconditionally at the end of every keystroke so
// auto-groups are per-keystroke by default.
func (u *undoManager) boundary() {
	if u.groupDepth > 0 {
		return
	}
	u.seal()
}

func (u *undoManager) seal() {
	if len(u.current) == 0 {
		return
	}
	if len(u.current) == 1 {
		u.undoStack = append(u.undoStack, u.current[0])
	} else {
		ops := make([]EditOp, len(u.current))
		copy(ops, u.current)
		u.undoStack = append(u.undoStack, EditOp{Kind: OpGroup, Ops: ops})
	}
	u.current = nil
}

// beginGroup/endGroup let a single logical command (e.g. change-word, which
// performs a delete and an insert) nest inside one undo entry regardless of
// keystroke boundaries.
func (u *undoManager) beginGroup() {
	u.groupDepth++
}

func (u *undoManager) endGroup() {
	if u.groupDepth > 0 {
		u.groupDepth--
	}
	if u.groupDepth == 0 {
		u.seal()
	}
}

func (u *undoManager) canUndo() bool { return len(u.undoStack) > 0 || len(u.current) > 0 }
func (u *undoManager) canRedo() bool { return len(u.redoStack) > 0 }

// popUndo returns the op the buffer should apply (the reverse of the most
// recent undo entry) and moves the original entry to the redo stack. An
// auto-group still open at this point is sealed first, so an undo arriving
// mid-keystroke (scripted effects, direct API use) still sees every edit.
func (u *undoManager) popUndo() (EditOp, bool) {
	u.boundary()
	if len(u.undoStack) == 0 {
		return EditOp{}, false
	}
	last := len(u.undoStack) - 1
	entry := u.undoStack[last]
	u.undoStack = u.undoStack[:last]
	u.redoStack = append(u.redoStack, entry)
	return entry.Reverse(), true
}

// popRedo returns the op the buffer should apply (the original forward op)
// and moves it back onto the undo stack.
func (u *undoManager) popRedo() (EditOp, bool) {
	if len(u.redoStack) == 0 {
		return EditOp{}, false
	}
	last := len(u.redoStack) - 1
	entry := u.redoStack[last]
	u.redoStack = u.redoStack[:last]
	u.undoStack = append(u.undoStack, entry)
	return entry, true
}
