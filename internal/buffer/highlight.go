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

import (
	"regexp"
	"strings"

	"github.com/agott/kernel/internal/types"
)

// HighlightSpan tags a half-open character range with a display face. The
// buffer keeps spans current across edits by shifting their offsets rather
// than recomputing from scratch on every keystroke.
type HighlightSpan struct {
	Start types.CharPos
	End   types.CharPos
	Face  types.Face
}

type highlightStore struct {
	spans []HighlightSpan
}

func (s *highlightStore) add(span HighlightSpan) {
	if span.Start >= span.End {
		return
	}
	s.spans = append(s.spans, span)
}

func (s *highlightStore) clear() {
	s.spans = nil
}

// clearFace drops every span painted with face, leaving every other face's
// spans untouched; used to retire isearch highlights without disturbing
// language-mode spans underneath them.
func (s *highlightStore) clearFace(face types.Face) {
	out := s.spans[:0]
	for _, sp := range s.spans {
		if sp.Face != face {
			out = append(out, sp)
		}
	}
	s.spans = out
}

// clearRange drops or clips every span overlapping [start, end), the same
// way a delete does, but without removing any text.
func (s *highlightStore) clearRange(start, end types.CharPos) {
	if start >= end {
		return
	}
	out := s.spans[:0]
	for _, sp := range s.spans {
		switch {
		case sp.End <= start || sp.Start >= end:
			out = append(out, sp)
		case sp.Start < start && sp.End > end:
			out = append(out, HighlightSpan{Start: sp.Start, End: start, Face: sp.Face})
			out = append(out, HighlightSpan{Start: end, End: sp.End, Face: sp.Face})
		case sp.Start < start:
			out = append(out, HighlightSpan{Start: sp.Start, End: start, Face: sp.Face})
		case sp.End > end:
			out = append(out, HighlightSpan{Start: end, End: sp.End, Face: sp.Face})
		}
	}
	s.spans = out
}

func (s *highlightStore) faceAt(p types.CharPos) (types.Face, bool) {
	for _, sp := range s.spans {
		if p >= sp.Start && p < sp.End {
			return sp.Face, true
		}
	}
	return types.FaceDefault, false
}

func (s *highlightStore) spansInRange(start, end types.CharPos) []HighlightSpan {
	var out []HighlightSpan
	for _, sp := range s.spans {
		if sp.End > start && sp.Start < end {
			out = append(out, sp)
		}
	}
	return out
}

func (s *highlightStore) adjustForInsert(pos types.CharPos, n int) {
	if n == 0 {
		return
	}
	d := types.CharPos(n)
	for i := range s.spans {
		sp := &s.spans[i]
		if sp.Start >= pos {
			sp.Start += d
		}
		if sp.End >= pos {
			sp.End += d
		}
	}
}

func (s *highlightStore) adjustForDelete(start, end types.CharPos) {
	if start >= end {
		return
	}
	shift := func(p types.CharPos) types.CharPos {
		switch {
		case p <= start:
			return p
		case p >= end:
			return p - (end - start)
		default:
			return start
		}
	}
	out := s.spans[:0]
	for _, sp := range s.spans {
		sp.Start = shift(sp.Start)
		sp.End = shift(sp.End)
		if sp.Start < sp.End {
			out = append(out, sp)
		}
	}
	s.spans = out
}

// goHighlighter is the regex set behind the built-in Go syntax
// highlighter, scanned per line and emitted as HighlightSpans over the
// whole buffer's character positions.
type goHighlighter struct {
	hex         *regexp.Regexp
	punctuation *regexp.Regexp
	comment     *regexp.Regexp
	quoted      *regexp.Regexp
	keyword     *regexp.Regexp
	number      *regexp.Regexp
}

func newGoHighlighter() *goHighlighter {
	h := &goHighlighter{}
	h.hex = regexp.MustCompile(`0x[0-9a-f][0-9a-f]`)
	h.punctuation = regexp.MustCompile(`\(|\)|,|:|=|\[|\]|\{|\}|\+|-|\*|<|>|;`)
	h.comment = regexp.MustCompile(`//.*$`)
	h.quoted = regexp.MustCompile(`"[^"]*"`)
	h.keyword = regexp.MustCompile(`break|default|func|interface|select|case|defer|go|map|struct|chan|else|goto|package|switch|const|fallthrough|if|range|type|continue|for|import|return|var`)
	h.keyword.Longest()
	h.number = regexp.MustCompile(`([0-9]+(\.[0-9]*)?)|(([0-9]*\.)?[0-9]+)`)
	return h
}

func isAlnumByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
}

// adjacentAlnum reports whether a match is bordered by an identifier
// character on either side; such matches are skipped so "format" doesn't
// light up the "for" inside it.
func adjacentAlnum(line string, start, end int) bool {
	if start > 0 && isAlnumByte(line[start-1]) {
		return true
	}
	if end < len(line) && isAlnumByte(line[end]) {
		return true
	}
	return false
}

// highlightGo scans text line by line and returns HighlightSpans in
// whole-buffer character coordinates. The store's spans must stay
// disjoint, so the passes run in precedence order (comment first) and a
// candidate overlapping an already-accepted span is dropped instead of
// painted over.
func highlightGo(text string) []HighlightSpan {
	h := newGoHighlighter()
	var spans []HighlightSpan
	offset := types.CharPos(0)
	lines := strings.Split(text, "\n")
	for li, line := range lines {
		var accepted []HighlightSpan
		add := func(start, end int, face types.Face) {
			// regexp reports byte offsets; the span store is
			// character-addressed
			cs := types.CharPos(len([]rune(line[:start])))
			ce := types.CharPos(len([]rune(line[:end])))
			for _, sp := range accepted {
				if offset+ce > sp.Start && offset+cs < sp.End {
					return
				}
			}
			accepted = append(accepted, HighlightSpan{
				Start: offset + cs,
				End:   offset + ce,
				Face:  face,
			})
		}
		for _, m := range h.comment.FindAllStringIndex(line, -1) {
			add(m[0], m[1], types.FaceComment)
		}
		for _, m := range h.quoted.FindAllStringIndex(line, -1) {
			add(m[0], m[1], types.FaceString)
		}
		for _, m := range h.punctuation.FindAllStringIndex(line, -1) {
			add(m[0], m[1], types.FacePunctuation)
		}
		for _, m := range h.keyword.FindAllStringIndex(line, -1) {
			if !adjacentAlnum(line, m[0], m[1]) {
				add(m[0], m[1], types.FaceKeyword)
			}
		}
		for _, m := range h.hex.FindAllStringIndex(line, -1) {
			add(m[0], m[1], types.FaceNumber)
		}
		for _, m := range h.number.FindAllStringIndex(line, -1) {
			if !adjacentAlnum(line, m[0], m[1]) {
				add(m[0], m[1], types.FaceNumber)
			}
		}
		spans = append(spans, accepted...)
		offset += types.CharPos(len([]rune(line)))
		if li < len(lines)-1 {
			offset++ // the newline consumed by strings.Split
		}
	}
	return spans
}
