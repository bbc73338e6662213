package utils

import (
	"bytes"
	"net/http"
)

const (
	formatJPEG    = "jpeg"
	formatPNG     = "png"
	formatGIF     = "gif"
	formatBMP     = "bmp"
	formatTIFF    = "tiff"
	formatWebP    = "webp"
	formatUnknown = "unknown"
)

var (
	magicGIF     = []byte("GIF8")
	magicBMP     = []byte("BM")
	magicTIFFLE  = []byte{'I', 'I', 0x2A, 0x00}
	magicTIFFBE  = []byte{'M', 'M', 0x00, 0x2A}
	magicRIFF    = []byte("RIFF")
	magicWebPTag = []byte("WEBP")
)

// DetectFormat sniffs the leading bytes of data and returns the image format
// name ("jpeg", "png", "gif", "bmp", "tiff", "webp" or "unknown").
func DetectFormat(data []byte) string {
	if len(data) < 4 {
		return formatUnknown
	}
	// JPEG: FF D8 FF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return formatJPEG
	}
	// PNG: 89 50 4E 47
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return formatPNG
	}
	if len(data) >= 12 && bytes.HasPrefix(data, magicRIFF) && bytes.Equal(data[8:12], magicWebPTag) {
		return formatWebP
	}
	switch {
	case bytes.HasPrefix(data, magicGIF):
		return formatGIF
	case bytes.HasPrefix(data, magicTIFFLE), bytes.HasPrefix(data, magicTIFFBE):
		return formatTIFF
	case bytes.HasPrefix(data, magicBMP):
		return formatBMP
	}
	// Fallback to net/http sniffing.
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return formatJPEG
	case "image/png":
		return formatPNG
	case "image/gif":
		return formatGIF
	case "image/bmp":
		return formatBMP
	case "image/webp":
		return formatWebP
	}
	return formatUnknown
}

// CloneBytes returns a copy of b (safe for use after the source buffer is released).
func CloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
