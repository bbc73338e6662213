// Package shell implements the interactive line-oriented editor: one image
// in memory, one level of undo, and a command per line.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	imageeditor "github.com/Skryldev/image-editor"
	"github.com/Skryldev/image-editor/core"
	"github.com/Skryldev/image-editor/transform"
)

const prompt = "> "

var (
	errColor  = color.New(color.FgRed)
	infoColor = color.New(color.FgGreen)
	hintColor = color.New(color.FgYellow)
)

// Shell dispatches commands against an Editor.
type Shell struct {
	editor  *imageeditor.Editor
	history History
	out     io.Writer
}

// New creates a Shell writing its output to out.
func New(ed *imageeditor.Editor, out io.Writer) *Shell {
	return &Shell{editor: ed, out: out}
}

// Current returns the working image, or nil.
func (s *Shell) Current() *core.PixelBuffer { return s.history.Current() }

// Run reads commands from in until "exit" or EOF.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "Image editor. Type 'help' for commands, 'exit' to quit.")
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, prompt)
		if !sc.Scan() {
			fmt.Fprintln(s.out)
			return sc.Err()
		}
		if s.Execute(ctx, sc.Text()) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Execute runs one command line and reports whether the shell should exit.
// Command failures are printed; they never end the session.
func (s *Shell) Execute(ctx context.Context, line string) (quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	name, args := parts[0], parts[1:]
	if name == "exit" || name == "quit" {
		return true
	}

	cmd, ok := commandIndex[name]
	if !ok {
		s.errorf("Unknown command: %s", strings.TrimSpace(line))
		return false
	}
	if cmd.NeedsImage && !s.history.Loaded() {
		s.errorf("No image loaded")
		return false
	}
	if len(args) < cmd.MinArgs {
		hintColor.Fprintf(s.out, "Usage: %s\n", cmd.Usage)
		return false
	}
	if err := cmd.Run(ctx, s, args); err != nil {
		s.errorf("Error: %v", err)
	}
	return false
}

// apply runs t on the current image and records the result for undo.  On
// failure the current image is left untouched.
func (s *Shell) apply(ctx context.Context, t transform.Transform) error {
	out, err := s.editor.Apply(ctx, s.history.Current(), t)
	if err != nil {
		return err
	}
	s.history.Push(out)
	s.infof("%s: %dx%d", t, out.Width, out.Height)
	return nil
}

func (s *Shell) infof(format string, args ...interface{}) {
	infoColor.Fprintf(s.out, format+"\n", args...)
}

func (s *Shell) errorf(format string, args ...interface{}) {
	errColor.Fprintf(s.out, format+"\n", args...)
}
