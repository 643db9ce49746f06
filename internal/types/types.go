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

// Package types holds the small value types shared by every package in the
// editor kernel: character positions, screen geometry, highlight faces, and
// the closed sets of window and modeline identities the rest of the kernel
// switches on.
package types

// CharPos is a character (Unicode scalar) index into a buffer's rope. It is
// never a byte offset; every exported position in the kernel is measured
// this way so that multi-byte characters never shift a caller's arithmetic.
type CharPos int

// Size describes a rectangular extent in character cells.
type Size struct {
	Rows int
	Cols int
}

// Face names a named highlight style rather than a raw color, so the
// highlight span store and the isearch mode can refer to "Keyword" or
// "IsearchCurrent" without knowing how a given renderer paints it.
type Face string

const (
	FaceDefault       Face = "default"
	FaceKeyword       Face = "keyword"
	FaceString        Face = "string"
	FaceComment       Face = "comment"
	FaceNumber        Face = "number"
	FacePunctuation   Face = "punctuation"
	FaceIsearch       Face = "isearch"
	FaceIsearchActive Face = "isearch-current"
	FaceRegion        Face = "region"
)

// ModelineComponent names a piece of the modeline a DirtyRegion can target.
type ModelineComponent int

const (
	ModelineCursorPosition ModelineComponent = iota
	ModelineBufferName
	ModelineModeName
	ModelineAll
)

// WindowKind distinguishes ordinary editing windows from transient command
// windows (palettes, isearch prompts, buffer selectors).
type WindowKind int

const (
	WindowNormal WindowKind = iota
	WindowCommand
)

// CommandWindowType names the flavor of a command window, used to pick
// which selection-menu/isearch mode backs it.
type CommandWindowType int

const (
	CommandWindowPalette CommandWindowType = iota
	CommandWindowBufferSwitch
	CommandWindowBufferKill
	CommandWindowFileSelector
	CommandWindowIsearchForward
	CommandWindowIsearchBackward
	CommandWindowEval
)

// CommandWindowPosition names where a floating command window docks.
type CommandWindowPosition int

const (
	CommandWindowTop CommandWindowPosition = iota
	CommandWindowBottom
)

// BufferID identifies a buffer. It is never reused within one editor's
// lifetime.
type BufferID int

// WindowID identifies a window, normal or command.
type WindowID int
