package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	fcolor "github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/image-editor/config"
)

func init() { fcolor.NoColor = true }

// execute runs rootCmd with args, resetting the flag state that cobra keeps
// between executions of the same command tree.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, logLevel, maxKB = "", "", 0
	if f := compressCmd.Flags().Lookup("max-kb"); f != nil {
		f.Changed = false
	}
	for _, name := range []string{"config", "level"} {
		rootCmd.PersistentFlags().Lookup(name).Changed = false
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < 64; i++ {
		img.SetNRGBA(i%8, i/8, color.NRGBA{R: uint8(i * 4), G: 90, B: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestCompressCommand(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "in.png"), filepath.Join(dir, "out.jpg")
	writePNG(t, in)

	text, err := execute(t, "compress", in, out, "--max-kb", "20", "--level", "debug")
	require.NoError(t, err)
	assert.Contains(t, text, out+":")
	assert.Contains(t, text, "at quality")
	assert.Equal(t, "debug", cfg.LogLevel)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(20*1024))
}

func TestCompressCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in)

	_, err := execute(t, "compress", in, filepath.Join(dir, "a.jpg"))
	assert.ErrorContains(t, err, "max-kb")

	_, err = execute(t, "compress", in)
	assert.Error(t, err)

	_, err = execute(t, "compress", in, filepath.Join(dir, "b.jpg"), "-m=-1")
	assert.ErrorContains(t, err, "must not be negative")

	_, err = execute(t, "compress", in, filepath.Join(dir, "c.jpg"), "-m", "0")
	assert.ErrorContains(t, err, "too small")
	assert.NoFileExists(t, filepath.Join(dir, "c.jpg"))
}

func TestConfigFlags(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in)

	_, err := execute(t, "compress", in, filepath.Join(dir, "a.jpg"), "-m", "20", "-l", "trace")
	assert.ErrorContains(t, err, "unknown log level")

	conf := filepath.Join(dir, "editor.toml")
	require.NoError(t, os.WriteFile(conf, []byte("log_level = \"warn\"\n\n[local]\nroot_dir = \""+filepath.ToSlash(dir)+"/out\"\n"), 0o600))
	_, err = execute(t, "compress", in, "x.jpg", "-c", conf, "-m", "20")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, config.BackendStdlib, cfg.Backend)
	assert.FileExists(t, filepath.Join(dir, "out", "x.jpg"))

	_, err = execute(t, "compress", in, "y.jpg", "-c", filepath.Join(dir, "missing.toml"), "-m", "20")
	assert.ErrorContains(t, err, "error loading configuration")
}
