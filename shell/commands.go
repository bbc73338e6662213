package shell

import (
	"context"
	"fmt"

	"github.com/Skryldev/image-editor/transform"
)

// CommandSpec describes one shell command for dispatch and help output.
type CommandSpec struct {
	Name        string
	Usage       string
	Description string
	MinArgs     int
	NeedsImage  bool
	Run         func(ctx context.Context, s *Shell, args []string) error
}

// Commands is the command table, in help order.  It is filled in init to
// allow the help command to refer to it.
var Commands []CommandSpec

var commandIndex map[string]*CommandSpec

func init() {
	Commands = []CommandSpec{
		{Name: "load", Usage: "load <path>", Description: "Load an image (jpeg, png, gif, bmp, tiff, webp).", MinArgs: 1, Run: cmdLoad},
		{Name: "save", Usage: "save <path> [maxKB]", Description: "Save as JPEG; with maxKB, at the best quality that fits.", MinArgs: 1, NeedsImage: true, Run: cmdSave},
		{Name: "compress", Usage: "compress <path> <maxKB>", Description: "Save as JPEG at the best quality under maxKB kilobytes.", MinArgs: 2, NeedsImage: true, Run: cmdCompress},
		{Name: "crop", Usage: "crop <x> <y> <width> <height>", Description: "Keep the given rectangle.", MinArgs: 4, NeedsImage: true, Run: cmdCrop},
		{Name: "flip", Usage: "flip <h|v>", Description: "Mirror horizontally or vertically.", MinArgs: 1, NeedsImage: true, Run: cmdFlip},
		{Name: "rotate", Usage: "rotate <90|180|270>", Description: "Rotate clockwise.", MinArgs: 1, NeedsImage: true, Run: cmdRotate},
		{Name: "fit", Usage: "fit <max_width> <max_height>", Description: "Shrink to fit the box, keeping aspect ratio.", MinArgs: 2, NeedsImage: true, Run: cmdFit},
		{Name: "invert", Usage: "invert", Description: "Invert colors.", NeedsImage: true, Run: simple(transform.Invert())},
		{Name: "grayscale", Usage: "grayscale", Description: "Convert to luma gray.", NeedsImage: true, Run: simple(transform.Grayscale())},
		{Name: "brightness", Usage: "brightness <factor>", Description: "Multiply every channel by factor.", MinArgs: 1, NeedsImage: true, Run: cmdBrightness},
		{Name: "contrast", Usage: "contrast <factor>", Description: "Scale channels around mid-gray.", MinArgs: 1, NeedsImage: true, Run: cmdContrast},
		{Name: "tint", Usage: "tint <hex> <intensity>", Description: "Blend toward a color (intensity 0..1).", MinArgs: 2, NeedsImage: true, Run: cmdTint},
		{Name: "colorize", Usage: "colorize <hex>", Description: "Recolor by luma.", MinArgs: 1, NeedsImage: true, Run: cmdColorize},
		{Name: "blur", Usage: "blur", Description: "Gaussian blur (3x3).", NeedsImage: true, Run: simple(transform.Convolve(transform.GaussianBlur))},
		{Name: "boxblur", Usage: "boxblur", Description: "Box blur (3x3).", NeedsImage: true, Run: simple(transform.Convolve(transform.BoxBlur))},
		{Name: "sharpen", Usage: "sharpen", Description: "Sharpen (3x3).", NeedsImage: true, Run: simple(transform.Convolve(transform.Sharpen))},
		{Name: "edge", Usage: "edge", Description: "Edge detection (3x3).", NeedsImage: true, Run: simple(transform.Convolve(transform.EdgeDetect))},
		{Name: "emboss", Usage: "emboss", Description: "Emboss (3x3).", NeedsImage: true, Run: simple(transform.Convolve(transform.Emboss))},
		{Name: "undo", Usage: "undo", Description: "Revert the last edit (one level).", Run: cmdUndo},
		{Name: "info", Usage: "info", Description: "Show the current image size.", NeedsImage: true, Run: cmdInfo},
		{Name: "help", Usage: "help", Description: "List commands.", Run: cmdHelp},
	}
	commandIndex = make(map[string]*CommandSpec, len(Commands))
	for i := range Commands {
		commandIndex[Commands[i].Name] = &Commands[i]
	}
}

func simple(t transform.Transform) func(context.Context, *Shell, []string) error {
	return func(ctx context.Context, s *Shell, _ []string) error {
		return s.apply(ctx, t)
	}
}

func cmdLoad(ctx context.Context, s *Shell, args []string) error {
	buf, err := s.editor.Open(ctx, ExpandPath(args[0]))
	if err != nil {
		return err
	}
	s.history.Load(buf)
	s.infof("Image loaded: %dx%d", buf.Width, buf.Height)
	return nil
}

func cmdSave(ctx context.Context, s *Shell, args []string) error {
	path := ExpandPath(args[0])
	if len(args) > 1 {
		return s.saveWithBudget(ctx, path, args[1])
	}
	n, err := s.editor.Save(ctx, s.history.Current(), path)
	if err != nil {
		return err
	}
	s.infof("Image saved: %s (%d bytes)", path, n)
	return nil
}

func cmdCompress(ctx context.Context, s *Shell, args []string) error {
	return s.saveWithBudget(ctx, ExpandPath(args[0]), args[1])
}

func (s *Shell) saveWithBudget(ctx context.Context, path, maxKB string) error {
	kb, err := parseCount(maxKB)
	if err != nil {
		return err
	}
	res, err := s.editor.SaveWithBudget(ctx, s.history.Current(), path, kb*1024)
	if err != nil {
		return err
	}
	s.infof("Image saved: %s (%d bytes, quality %d)", path, res.Size(), res.Quality)
	return nil
}

func cmdCrop(ctx context.Context, s *Shell, args []string) error {
	var v [4]int
	for i := range v {
		n, err := parseCount(args[i])
		if err != nil {
			return err
		}
		v[i] = n
	}
	return s.apply(ctx, transform.Crop(v[0], v[1], v[2], v[3]))
}

func cmdFlip(ctx context.Context, s *Shell, args []string) error {
	axis, err := parseAxis(args[0])
	if err != nil {
		return err
	}
	return s.apply(ctx, transform.Flip(axis))
}

func cmdRotate(ctx context.Context, s *Shell, args []string) error {
	angle, err := parseAngle(args[0])
	if err != nil {
		return err
	}
	return s.apply(ctx, transform.Rotate(angle))
}

func cmdFit(ctx context.Context, s *Shell, args []string) error {
	w, err := parseCount(args[0])
	if err != nil {
		return err
	}
	h, err := parseCount(args[1])
	if err != nil {
		return err
	}
	return s.apply(ctx, transform.Fit(w, h))
}

func cmdBrightness(ctx context.Context, s *Shell, args []string) error {
	f, err := parseFactor(args[0])
	if err != nil {
		return err
	}
	return s.apply(ctx, transform.Brightness(f))
}

func cmdContrast(ctx context.Context, s *Shell, args []string) error {
	f, err := parseFactor(args[0])
	if err != nil {
		return err
	}
	return s.apply(ctx, transform.Contrast(f))
}

func cmdTint(ctx context.Context, s *Shell, args []string) error {
	c, err := parseColor(args[0])
	if err != nil {
		return err
	}
	f, err := parseFactor(args[1])
	if err != nil {
		return err
	}
	return s.apply(ctx, transform.Tint(c, f))
}

func cmdColorize(ctx context.Context, s *Shell, args []string) error {
	c, err := parseColor(args[0])
	if err != nil {
		return err
	}
	return s.apply(ctx, transform.Colorize(c))
}

func cmdUndo(_ context.Context, s *Shell, _ []string) error {
	if !s.history.Undo() {
		s.infof("Nothing to undo")
		return nil
	}
	cur := s.history.Current()
	s.infof("Undone: %dx%d", cur.Width, cur.Height)
	return nil
}

func cmdInfo(_ context.Context, s *Shell, _ []string) error {
	cur := s.history.Current()
	undo := "no"
	if s.history.CanUndo() {
		undo = "yes"
	}
	s.infof("Image: %dx%d, undo available: %s", cur.Width, cur.Height, undo)
	return nil
}

func cmdHelp(_ context.Context, s *Shell, _ []string) error {
	for _, c := range Commands {
		fmt.Fprintf(s.out, "  %-32s %s\n", c.Usage, c.Description)
	}
	fmt.Fprintf(s.out, "  %-32s %s\n", "exit", "Quit.")
	return nil
}
