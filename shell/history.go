package shell

import "github.com/Skryldev/image-editor/core"

// History holds the working image and the single state before the last
// edit.  Buffers are never mutated by transforms, so no copies are taken.
type History struct {
	current  *core.PixelBuffer
	previous *core.PixelBuffer
}

// Current returns the working image, or nil when nothing is loaded.
func (h *History) Current() *core.PixelBuffer { return h.current }

// Loaded reports whether an image is loaded.
func (h *History) Loaded() bool { return h.current != nil }

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return h.previous != nil }

// Load replaces the working image and forgets the undo state.
func (h *History) Load(buf *core.PixelBuffer) {
	h.current, h.previous = buf, nil
}

// Push records an edit result; the replaced image becomes the undo state.
func (h *History) Push(buf *core.PixelBuffer) {
	h.previous, h.current = h.current, buf
}

// Undo restores the state before the last edit.  Only one level is kept,
// so a second consecutive Undo returns false.
func (h *History) Undo() bool {
	if h.previous == nil {
		return false
	}
	h.current, h.previous = h.previous, nil
	return true
}
