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

// Package render declares the back-end-agnostic renderer contract the
// kernel depends on, so the core never imports a concrete terminal or GPU
// library.
package render

import "github.com/agott/kernel/internal/dirty"

// Renderer is the capability the kernel drives once per input event: mark
// regions dirty (redundant with the editor's own dirty.Tracker, present so
// a renderer may additionally track back-end-specific invalidation such as
// a damaged GPU texture), then render either incrementally or fully, then
// clear.
type Renderer interface {
	// MarkDirty records an additional invalidation the renderer itself
	// discovered (e.g. a resize).
	MarkDirty(region dirty.Region)

	// RenderIncremental repaints only what has been marked dirty since
	// the last ClearDirty. It must be behaviorally equivalent to
	// RenderFull restricted to the accumulated regions: implementations
	// may coalesce (e.g. treat any Buffer region as a full redraw of
	// that window's visible lines) but must never leave the screen
	// visibly inconsistent with editor state.
	//
	// editor is the kernel's *editor.Editor. The parameter is untyped
	// here (rather than importing internal/editor) because editor holds
	// a Renderer field; a concrete Renderer type-asserts it back.
	RenderIncremental(editor any) error

	// RenderFull repaints the entire frame unconditionally.
	RenderFull(editor any) error

	// ClearDirty resets accumulated invalidation after a render.
	ClearDirty()
}
