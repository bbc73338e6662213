package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	apperrors "github.com/Skryldev/image-editor/errors"
	"github.com/Skryldev/image-editor/shell"
)

var maxKB int

func init() {
	rootCmd.AddCommand(compressCmd)

	compressCmd.Flags().IntVarP(&maxKB, "max-kb", "m", 0, "maximum output size in kilobytes")
	_ = compressCmd.MarkFlagRequired("max-kb")
}

var compressCmd = &cobra.Command{
	Use:   "compress <input> <output>",
	Short: "Encode an image as the best-quality JPEG under a size budget",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompress,
}

func runCompress(c *cobra.Command, args []string) error {
	if maxKB < 0 {
		return fmt.Errorf("--max-kb must not be negative")
	}
	ed, cleanup, err := newEditor()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := c.Context()
	in, out := shell.ExpandPath(args[0]), shell.ExpandPath(args[1])

	buf, err := ed.Open(ctx, in)
	if err != nil {
		return err
	}
	res, err := ed.SaveWithBudget(ctx, buf, out, maxKB*1024)
	var tts *apperrors.TargetTooSmallError
	if errors.As(err, &tts) {
		color.New(color.FgYellow).Fprintf(os.Stderr,
			"%s needs at least %d more bytes\n", out, tts.Shortfall())
	}
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(c.OutOrStdout(), "%s: %d bytes at quality %d (%d attempts)\n",
		out, res.Size(), res.Quality, res.Attempts)
	return nil
}
