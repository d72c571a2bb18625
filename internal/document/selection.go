package document

import (
	"github.com/google/uuid"

	"flipbook/internal/geom"
	"flipbook/internal/shape"
	"flipbook/internal/undo"
)

type ShapeInfo struct {
	ID       uuid.UUID
	Kind     shape.Kind
	Rect     geom.Rect
	Scale    float64
	Rotation float64
	Selected bool
}

// Shapes lists the current frame's shapes, oldest first.
func (s *Store) Shapes() []ShapeInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := s.frames[s.current]
	var out []ShapeInfo
	for _, sh := range f.history.Shapes() {
		a := sh.Attrs()
		out = append(out, ShapeInfo{
			ID:       sh.ID(),
			Kind:     sh.Kind(),
			Rect:     sh.Rect(),
			Scale:    a.TotalScale(),
			Rotation: a.TotalRotation(),
			Selected: sh.ID() == f.selected,
		})
	}
	return out
}

// SelectShape makes shape id of the current frame the target of shape
// gestures.
func (s *Store) SelectShape(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frames[s.current]
	if f.selected == id || f.history.Shape(id) == nil {
		return false
	}
	s.resetPreviewLocked(f)
	f.selected = id
	s.notify()
	return true
}

func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frames[s.current]
	if f.selected == uuid.Nil {
		return
	}
	s.resetPreviewLocked(f)
	f.selected = uuid.Nil
	s.notify()
}

func (s *Store) SelectedShape() (uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := s.frames[s.current]
	if f.selectedShape() == nil {
		return uuid.Nil, false
	}
	return f.selected, true
}

// CycleSelection selects the next shape of the current frame in drawing
// order, wrapping around.
func (s *Store) CycleSelection() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frames[s.current]
	shapes := f.history.Shapes()
	if len(shapes) == 0 {
		return false
	}
	next := 0
	for i, sh := range shapes {
		if sh.ID() == f.selected {
			next = (i + 1) % len(shapes)
			break
		}
	}
	s.resetPreviewLocked(f)
	f.selected = shapes[next].ID()
	s.notify()
	return true
}

// PreviewDrag shows the selected shape centered on p without committing.
func (s *Store) PreviewDrag(p geom.Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frames[s.current]
	sh := f.selectedShape()
	if sh == nil {
		return false
	}
	sh.Attrs().DraggingOrigin = &p
	f.touch()
	s.notify()
	return true
}

// PreviewScaleRotation sets the gesture scale and rotation shown on top of
// the selected shape's committed values.
func (s *Store) PreviewScaleRotation(scale, angle float64) bool {
	if scale <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frames[s.current]
	sh := f.selectedShape()
	if sh == nil {
		return false
	}
	a := sh.Attrs()
	a.ScalePreview = scale
	a.RotationPreview = angle
	f.touch()
	s.notify()
	return true
}

// CommitDrag moves the selected shape to where the drag preview left it.
func (s *Store) CommitDrag(clearRedo bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frames[s.current]
	sh := f.selectedShape()
	if sh == nil || sh.Attrs().DraggingOrigin == nil {
		return false
	}
	to := *sh.Attrs().DraggingOrigin
	from, ok := s.moveLocked(f, sh.ID(), to)
	if !ok {
		return false
	}
	s.undo.RegisterUndo(f.ID, clearRedo, undo.Move(f.ID, sh.ID(), from))
	s.notify()
	return true
}

// CommitScaleRotation folds the gesture preview into the selected shape's
// committed scale and rotation.
func (s *Store) CommitScaleRotation(clearRedo bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frames[s.current]
	sh := f.selectedShape()
	if sh == nil {
		return false
	}
	a := sh.Attrs()
	factor, angle := a.ScalePreview, a.RotationPreview
	a.ScalePreview, a.RotationPreview = 1, 0
	if factor == 1 && angle == 0 {
		return false
	}
	s.transformLocked(f, sh.ID(), factor, angle)
	s.undo.RegisterUndo(f.ID, clearRedo, undo.Transform(f.ID, sh.ID(), 1/factor, -angle))
	s.notify()
	return true
}

// CancelPreview discards any drag, scale or rotation preview.
func (s *Store) CancelPreview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resetPreviewLocked(s.frames[s.current]) {
		s.notify()
	}
}

func (s *Store) resetPreviewLocked(f *Frame) bool {
	sh := f.selectedShape()
	if sh == nil {
		return false
	}
	a := sh.Attrs()
	if a.DraggingOrigin == nil && a.ScalePreview == 1 && a.RotationPreview == 0 {
		return false
	}
	a.ResetPreview()
	f.touch()
	return true
}
