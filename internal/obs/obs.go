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

// Package obs centralizes structured logging: a zerolog logger that every
// long-lived component (buffer hosts, the editor, the renderer) shares,
// writing newline-delimited JSON to one log file.
package obs

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger with the severities the kernel actually
// reaches for: Warn for a recoverable per-key error, Fatal for an
// invariant violation a caller decided is unrecoverable.
type Logger struct {
	z zerolog.Logger
}

// New builds a Logger writing to w as newline-delimited JSON.
func New(w io.Writer) Logger {
	return Logger{z: zerolog.New(w).With().Timestamp().Logger()}
}

// NewFile opens (creating if needed) a log file at path in append mode
// and returns a Logger writing to it plus the file for the caller to
// defer Close.
func NewFile(path string) (Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o666)
	if err != nil {
		return Logger{}, nil, err
	}
	return New(f), f, nil
}

// Discard returns a Logger that drops everything, for tests.
func Discard() Logger { return New(io.Discard) }

// SetVerbose widens or narrows the process-wide log filter: verbose keeps
// Info-level lifecycle events, quiet drops everything below Warn. The
// front end's --debug flag is the only caller.
func SetVerbose(on bool) {
	if on {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// Warn logs a recoverable error with context fields; the editor keeps
// running after one.
func (l Logger) Warn(msg string, err error, fields map[string]any) {
	ev := l.z.Warn()
	if err != nil {
		ev = ev.Err(err)
	}
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Info logs a routine lifecycle event (buffer opened, window split, ...).
func (l Logger) Info(msg string, fields map[string]any) {
	ev := l.z.Info()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Fatal logs an invariant violation and exits the process; reserved for
// programmer-error conditions (a window id with no layout entry, a
// dispatch on a closed buffer host) that mean kernel state is already
// corrupt.
func (l Logger) Fatal(msg string, err error, fields map[string]any) {
	ev := l.z.Fatal()
	if err != nil {
		ev = ev.Err(err)
	}
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}
