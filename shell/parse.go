package shell

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Skryldev/image-editor/core"
	"github.com/Skryldev/image-editor/transform"
)

var (
	errInvalidNumber = errors.New("invalid number")
	errInvalidAxis   = errors.New("invalid axis: use 'h' (horizontal) or 'v' (vertical)")
	errInvalidAngle  = errors.New("invalid angle: use 90, 180, or 270")
	errInvalidColor  = errors.New("invalid color: use RRGGBB, #RRGGBB or 0xRRGGBB")
)

// ExpandPath replaces a leading "~/" with the user's home directory.
func ExpandPath(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// parseCount parses a non-negative integer.
func parseCount(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, errInvalidNumber
	}
	return int(n), nil
}

// parseFactor parses a finite float.
func parseFactor(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errInvalidNumber
	}
	return float32(f), nil
}

func parseAxis(s string) (transform.Axis, error) {
	switch s {
	case "h":
		return transform.Horizontal, nil
	case "v":
		return transform.Vertical, nil
	}
	return 0, errInvalidAxis
}

func parseAngle(s string) (transform.Angle, error) {
	switch s {
	case "90":
		return transform.Rotate90, nil
	case "180":
		return transform.Rotate180, nil
	case "270":
		return transform.Rotate270, nil
	}
	return 0, errInvalidAngle
}

func parseColor(s string) (core.Color, error) {
	c, err := core.ParseHexColor(s)
	if err != nil {
		return core.Color{}, errInvalidColor
	}
	return c, nil
}
