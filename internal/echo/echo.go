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

// Package echo implements the transient one-line message area and the
// append-only Messages log: every message shown expires off the echo line
// after a few seconds but stays in the log forever.
package echo

import (
	"fmt"
	"time"
)

// expiry is how long an echoed message stays on screen before it is
// cleared.
const expiry = 3 * time.Second

// Entry is one logged message, timestamped for the Messages buffer.
type Entry struct {
	Text string
	At   time.Time
}

// Area holds the transient echo-area message and the append-only log of
// every message ever shown.
type Area struct {
	current   string
	shownAt   time.Time
	hasActive bool
	log       []Entry
}

// New returns an empty echo area.
func New() *Area {
	return &Area{}
}

// Show displays msg in the echo area and appends it to the log, both
// timestamped now.
func (a *Area) Show(now time.Time, msg string) {
	a.current = msg
	a.shownAt = now
	a.hasActive = true
	a.log = append(a.log, Entry{Text: msg, At: now})
}

// Showf is a convenience wrapper around Show + fmt.Sprintf.
func (a *Area) Showf(now time.Time, format string, args ...any) {
	a.Show(now, fmt.Sprintf(format, args...))
}

// ExpireIfStale clears the current message if it is older than the expiry
// window, returning whether it was cleared (the caller uses this to decide
// whether a Modeline/echo-area dirty region is needed).
func (a *Area) ExpireIfStale(now time.Time) bool {
	if !a.hasActive {
		return false
	}
	if now.Sub(a.shownAt) < expiry {
		return false
	}
	a.current = ""
	a.hasActive = false
	return true
}

// Current returns the active echo message, or "" if none.
func (a *Area) Current() string {
	if !a.hasActive {
		return ""
	}
	return a.current
}

// Clear removes the active echo message without affecting the log.
func (a *Area) Clear() {
	a.current = ""
	a.hasActive = false
}

// Log returns every message ever shown, oldest first. The returned slice is
// a copy.
func (a *Area) Log() []Entry {
	out := make([]Entry, len(a.log))
	copy(out, a.log)
	return out
}

// RenderLog formats the whole log as the Messages buffer's content: one
// "[HH:MM:SS] text" line per entry.
func (a *Area) RenderLog() string {
	out := ""
	for _, e := range a.log {
		out += fmt.Sprintf("[%s] %s\n", e.At.Format("15:04:05"), e.Text)
	}
	return out
}
