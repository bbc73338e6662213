package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skryldev/image-editor/core"
)

func TestHistory_OneLevelUndo(t *testing.T) {
	var h History
	assert.False(t, h.Loaded())
	assert.False(t, h.Undo(), "nothing to undo before load")

	a := core.NewPixelBuffer(1, 1)
	b := core.NewPixelBuffer(2, 2)
	c := core.NewPixelBuffer(3, 3)

	h.Load(a)
	assert.Same(t, a, h.Current())
	assert.False(t, h.CanUndo())

	h.Push(b)
	h.Push(c)
	assert.True(t, h.Undo())
	assert.Same(t, b, h.Current(), "only the last edit is reverted")
	assert.False(t, h.Undo(), "second consecutive undo has nothing to restore")
	assert.Same(t, b, h.Current())
}

func TestHistory_LoadClearsUndo(t *testing.T) {
	var h History
	h.Load(core.NewPixelBuffer(1, 1))
	h.Push(core.NewPixelBuffer(2, 2))

	fresh := core.NewPixelBuffer(5, 5)
	h.Load(fresh)
	assert.False(t, h.Undo())
	assert.Same(t, fresh, h.Current())
}

func TestParsers(t *testing.T) {
	n, err := parseCount("42")
	assert.NoError(t, err)
	assert.Equal(t, 42, n)

	for _, bad := range []string{"-1", "abc", "1.5", ""} {
		_, err := parseCount(bad)
		assert.ErrorIs(t, err, errInvalidNumber, bad)
	}

	f, err := parseFactor("0.5")
	assert.NoError(t, err)
	assert.Equal(t, float32(0.5), f)
	for _, bad := range []string{"NaN", "Inf", "-inf", "1e40", "x"} {
		_, err := parseFactor(bad)
		assert.ErrorIs(t, err, errInvalidNumber, bad)
	}

	_, err = parseAngle("45")
	assert.ErrorIs(t, err, errInvalidAngle)
	_, err = parseAxis("x")
	assert.ErrorIs(t, err, errInvalidAxis)

	c, err := parseColor("#ff8000")
	assert.NoError(t, err)
	assert.Equal(t, core.RGB(255, 128, 0), c)
	_, err = parseColor("orange")
	assert.ErrorIs(t, err, errInvalidColor)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/pics/a.png", ExpandPath("~/pics/a.png"))
	assert.Equal(t, "pics/a.png", ExpandPath("pics/a.png"))
	assert.Equal(t, "~user/a.png", ExpandPath("~user/a.png"))
}
