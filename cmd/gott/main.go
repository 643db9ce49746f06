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

// Command gott is the terminal front end: it opens the screen, builds an
// editor, visits a file named on the command line if any, and runs the
// poll-dispatch-render loop until the quit command fires.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agott/kernel/internal/editor"
	"github.com/agott/kernel/internal/obs"
	"github.com/agott/kernel/internal/script"
	"github.com/agott/kernel/internal/term"
	"github.com/agott/kernel/internal/types"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logPath string
	var scriptPath string
	var debug bool

	cmd := &cobra.Command{
		Use:   "gott [file]",
		Short: "gott is a small Emacs-flavored terminal text editor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return run(file, logPath, scriptPath, debug)
		},
	}
	home, _ := os.UserHomeDir()
	cmd.Flags().StringVar(&logPath, "log", filepath.Join(home, ".gottlog"), "path to the kernel's log file")
	cmd.Flags().StringVar(&scriptPath, "script", "", "lisp file to evaluate at startup")
	cmd.Flags().BoolVar(&debug, "debug", false, "log lifecycle events, not just warnings")
	return cmd
}

func run(file, logPath, scriptPath string, debug bool) error {
	obs.SetVerbose(debug)
	log, f, err := obs.NewFile(logPath)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	sh := script.NewHost(nil)
	if scriptPath != "" {
		if err := sh.LoadFile(scriptPath); err != nil {
			return fmt.Errorf("load script: %w", err)
		}
	}

	screen, err := term.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer screen.Close()

	e := editor.New(types.Size{Rows: 24, Cols: 80}, sh, log)

	if file != "" {
		e.OpenFile(file)
	}

	for !e.Quit() {
		if err := screen.RenderFull(e); err != nil {
			log.Warn("render failed", err, nil)
		}
		key, mouse, kind := screen.PollEvent()
		switch kind {
		case term.PollKey:
			e.HandleKeyEvent(key)
		case term.PollMouse:
			e.HandleMouseEvent(mouse)
		}
	}
	return nil
}
