package shell_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fcolor "github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imageeditor "github.com/Skryldev/image-editor"
	"github.com/Skryldev/image-editor/core"
	"github.com/Skryldev/image-editor/shell"
)

func init() { fcolor.NoColor = true }

func setup(t *testing.T) (*shell.Shell, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for i := 0; i < 8; i++ {
		img.SetNRGBA(i%4, i/4, color.NRGBA{R: 255, A: 255})
	}
	var raw bytes.Buffer
	require.NoError(t, png.Encode(&raw, img))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "in.png"), raw.Bytes(), 0o644))

	cfg := imageeditor.DefaultConfig()
	cfg.Local.RootDir = dir
	ed, err := imageeditor.New(cfg)
	require.NoError(t, err)

	var out bytes.Buffer
	return shell.New(ed, &out), &out, dir
}

func run(t *testing.T, s *shell.Shell, out *bytes.Buffer, line string) string {
	t.Helper()
	out.Reset()
	assert.False(t, s.Execute(context.Background(), line))
	return out.String()
}

func TestShell_RequiresImage(t *testing.T) {
	s, out, _ := setup(t)
	assert.Contains(t, run(t, s, out, "invert"), "No image loaded")
	assert.Contains(t, run(t, s, out, "undo"), "Nothing to undo")
	assert.Contains(t, run(t, s, out, "bogus 1 2"), "Unknown command: bogus 1 2")
	assert.Empty(t, run(t, s, out, "   "))
}

func TestShell_EditAndUndo(t *testing.T) {
	s, out, _ := setup(t)

	assert.Contains(t, run(t, s, out, "load in.png"), "Image loaded: 4x2")
	assert.Contains(t, run(t, s, out, "rotate 90"), "2x4")
	assert.Equal(t, 2, s.Current().Width)

	assert.Contains(t, run(t, s, out, "invert"), "2x4")
	assert.Equal(t, core.RGB(0, 255, 255), s.Current().At(0, 0))

	run(t, s, out, "undo")
	assert.Equal(t, core.RGB(255, 0, 0), s.Current().At(0, 0), "undo restores the rotated image")
	assert.Equal(t, 2, s.Current().Width)

	assert.Contains(t, run(t, s, out, "undo"), "Nothing to undo")
	assert.Equal(t, 2, s.Current().Width, "second undo keeps the current image")
}

func TestShell_ArgumentErrors(t *testing.T) {
	s, out, _ := setup(t)
	run(t, s, out, "load in.png")

	assert.Contains(t, run(t, s, out, "crop 1 2"), "Usage: crop <x> <y> <width> <height>")
	assert.Contains(t, run(t, s, out, "crop a 0 1 1"), "invalid number")
	assert.Contains(t, run(t, s, out, "rotate 45"), "invalid angle")
	assert.Contains(t, run(t, s, out, "flip x"), "invalid axis")
	assert.Contains(t, run(t, s, out, "tint nope 0.5"), "invalid color")

	assert.Contains(t, run(t, s, out, "crop 3 0 2 2"), "out of bounds")
	assert.Equal(t, 4, s.Current().Width, "failed edits leave the image untouched")
	assert.Contains(t, run(t, s, out, "undo"), "Nothing to undo")
}

func TestShell_SaveAndCompress(t *testing.T) {
	s, out, dir := setup(t)
	run(t, s, out, "load in.png")
	run(t, s, out, "fit 2 2")

	assert.Contains(t, run(t, s, out, "save plain.jpg"), "Image saved: plain.jpg")
	assert.FileExists(t, filepath.Join(dir, "plain.jpg"))

	msg := run(t, s, out, "compress small.jpg 10")
	assert.Contains(t, msg, "quality 100")
	info, err := os.Stat(filepath.Join(dir, "small.jpg"))
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(10*1024))

	msg = run(t, s, out, "save tiny.jpg 0")
	assert.Contains(t, msg, "Error:")
	assert.Contains(t, msg, "minimum achievable size")
	assert.NoFileExists(t, filepath.Join(dir, "tiny.jpg"))
}

func TestShell_RunLoop(t *testing.T) {
	s, out, _ := setup(t)
	in := strings.NewReader("load in.png\ngrayscale\ninfo\nexit\ninvert\n")
	require.NoError(t, s.Run(context.Background(), in))

	text := out.String()
	assert.Contains(t, text, "Image: 4x2, undo available: yes")
	assert.NotContains(t, text, "invert:", "commands after exit are not run")
}

func TestShell_Help(t *testing.T) {
	s, out, _ := setup(t)
	text := run(t, s, out, "help")
	for _, c := range shell.Commands {
		assert.Contains(t, text, c.Usage)
	}
}

func TestShell_AbsoluteAndHomePaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	var raw bytes.Buffer
	require.NoError(t, png.Encode(&raw, img))
	in := filepath.Join(home, "in.png")
	require.NoError(t, os.WriteFile(in, raw.Bytes(), 0o644))

	ed, err := imageeditor.New(imageeditor.DefaultConfig())
	require.NoError(t, err)
	var out bytes.Buffer
	s := shell.New(ed, &out)

	assert.Contains(t, run(t, s, &out, "load "+in), "Image loaded: 3x3")

	abs := filepath.Join(home, "abs.jpg")
	assert.Contains(t, run(t, s, &out, "save "+abs), "Image saved: "+abs)
	assert.FileExists(t, abs)

	assert.Contains(t, run(t, s, &out, "compress ~/small.jpg 50"), "quality")
	assert.FileExists(t, filepath.Join(home, "small.jpg"))

	assert.Contains(t, run(t, s, &out, "load ~/abs.jpg"), "Image loaded: 3x3")
}
