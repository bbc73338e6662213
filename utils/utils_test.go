package utils_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/image-editor/utils"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0}, "jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n'}, "png"},
		{"gif", []byte("GIF89a......"), "gif"},
		{"bmp", []byte("BM\x00\x00\x00\x00"), "bmp"},
		{"tiff little endian", []byte{'I', 'I', 0x2A, 0x00, 8, 0}, "tiff"},
		{"tiff big endian", []byte{'M', 'M', 0x00, 0x2A, 0, 8}, "tiff"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "webp"},
		{"riff but not webp", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), "unknown"},
		{"too short", []byte{0xFF}, "unknown"},
		{"text", []byte("hello world"), "unknown"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, utils.DetectFormat(tc.data))
		})
	}
}

func TestDrainReader_LimitedReader(t *testing.T) {
	ctx := context.Background()

	buf, err := utils.DrainReader(ctx, &utils.LimitedReader{R: strings.NewReader("12345"), Max: 5}, 2)
	require.NoError(t, err, "exactly Max bytes is allowed")
	assert.Equal(t, "12345", buf.String())
	utils.ReleaseBuffer(buf)

	_, err = utils.DrainReader(ctx, &utils.LimitedReader{R: strings.NewReader("123456"), Max: 5}, 2)
	assert.ErrorIs(t, err, utils.ErrLimitExceeded)

	buf, err = utils.DrainReader(ctx, &utils.LimitedReader{R: strings.NewReader("no limit")}, 0)
	require.NoError(t, err)
	assert.Equal(t, "no limit", buf.String())
}

func TestDrainReader_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := utils.DrainReader(ctx, bytes.NewReader([]byte("x")), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCloneBytes(t *testing.T) {
	src := []byte{1, 2, 3}
	dst := utils.CloneBytes(src)
	src[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, dst)
}
