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

// ReadOnlyMode backs the Messages buffer and any other buffer the editor
// marks non-editable: every mutating key is ignored, but mark-setting and
// copy-region still work since neither touches the buffer's text.
type ReadOnlyMode struct {
	BaseMode
}

// NewReadOnlyMode returns the read-only reducer.
func NewReadOnlyMode() *ReadOnlyMode { return &ReadOnlyMode{} }

func (m *ReadOnlyMode) Name() string { return "read-only" }

// HandleMouse permits click-to-move; motion never touches the text.
func (m *ReadOnlyMode) HandleMouse(event MouseEvent) ModeResult {
	if event.Kind == MouseDown {
		return Consume(MoveCursor(event.Row, event.Column))
	}
	return Ignore()
}

func (m *ReadOnlyMode) Perform(action Action) ModeResult {
	if action.IsSelfInsert() {
		return Ignore()
	}
	switch action.Command {
	case "set-mark":
		return Consume(SetMark())
	case "copy-region":
		return Consume(CopyRegion())
	default:
		return Ignore()
	}
}
