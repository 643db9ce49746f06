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

// EditOpKind tags the variant of an EditOp.
type EditOpKind int

const (
	OpInsert EditOpKind = iota
	OpDelete
	OpGroup
)

// EditOp is the undo atom: Insert{pos,text} | Delete{pos,text} |
// Group(ops). Reverse is defined pointwise: the
// reverse of an Insert is a Delete over the same range and vice versa,
// and the reverse of a Group reverses each member and reverses their
// order.
type EditOp struct {
	Kind EditOpKind
	Pos  types.CharPos
	Text string
	Ops  []EditOp
}

// Reverse returns the inverse of op.
func (op EditOp) Reverse() EditOp {
	switch op.Kind {
	case OpInsert:
		return EditOp{Kind: OpDelete, Pos: op.Pos, Text: op.Text}
	case OpDelete:
		return EditOp{Kind: OpInsert, Pos: op.Pos, Text: op.Text}
	case OpGroup:
		rev := make([]EditOp, len(op.Ops))
		for i, sub := range op.Ops {
			rev[len(op.Ops)-1-i] = sub.Reverse()
		}
		return EditOp{Kind: OpGroup, Ops: rev}
	default:
		return EditOp{}
	}
}

func insertOp(pos types.CharPos, text string) EditOp {
	return EditOp{Kind: OpInsert, Pos: pos, Text: text}
}

func deleteOp(pos types.CharPos, text string) EditOp {
	return EditOp{Kind: OpDelete, Pos: pos, Text: text}
}
