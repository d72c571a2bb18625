package document

import (
	"image"

	"github.com/google/uuid"

	"flipbook/internal/history"
	"flipbook/internal/shape"
)

// Frame is one canvas of the animation. Its fields are guarded by the
// owning Store's mutex.
type Frame struct {
	ID   uuid.UUID
	Name string

	history *history.History
	// selected is the shape gestures act on; uuid.Nil when none.
	selected uuid.UUID

	image *image.RGBA
	dirty bool
	// revision counts history mutations; imageRevision is the revision the
	// cached image was rendered from.
	revision      uint64
	imageRevision uint64
}

func newFrame(name string) *Frame {
	return &Frame{
		ID:      uuid.New(),
		Name:    name,
		history: history.New(),
		dirty:   true,
	}
}

func (f *Frame) touch() {
	f.dirty = true
	f.revision++
}

func (f *Frame) selectedShape() shape.Shape {
	if f.selected == uuid.Nil {
		return nil
	}
	return f.history.Shape(f.selected)
}

// publish stores a rendered image unless a newer one is already cached.
func (f *Frame) publish(img *image.RGBA, rev uint64) {
	if f.image != nil && rev < f.imageRevision {
		return
	}
	f.image = img
	f.imageRevision = rev
	if rev == f.revision {
		f.dirty = false
	}
}

func (f *Frame) duplicate(name string) *Frame {
	return &Frame{
		ID:            uuid.New(),
		Name:          name,
		history:       f.history.Clone(),
		selected:      f.selected,
		image:         f.image,
		dirty:         f.dirty,
		revision:      f.revision,
		imageRevision: f.imageRevision,
	}
}

// FrameInfo is a read-only view of a frame.
type FrameInfo struct {
	ID     uuid.UUID
	Name   string
	Image  *image.RGBA
	Dirty  bool
	Layers int
	Shapes int
}

func (f *Frame) info() FrameInfo {
	return FrameInfo{
		ID:     f.ID,
		Name:   f.Name,
		Image:  f.image,
		Dirty:  f.dirty,
		Layers: f.history.Len(),
		Shapes: len(f.history.Shapes()),
	}
}
