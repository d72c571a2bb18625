package document

import (
	"github.com/google/uuid"

	"flipbook/internal/geom"
	"flipbook/internal/history"
	"flipbook/internal/shape"
	"flipbook/internal/undo"
)

type pendingStroke struct {
	kind   history.SegmentKind
	color  geom.Color
	width  float64
	points []geom.Point
}

func (p *pendingStroke) segment() (history.Segment, bool) {
	if p == nil {
		return history.Segment{}, false
	}
	return history.NewSegment(p.kind, p.points, p.color, p.width)
}

// BeginStroke starts collecting points for a stroke on the current frame,
// replacing any unfinished one.
func (s *Store) BeginStroke(kind history.SegmentKind, color geom.Color, lineWidth float64) bool {
	if lineWidth <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stroke = &pendingStroke{kind: kind, color: color, width: lineWidth}
	return true
}

func (s *Store) ExtendStroke(p geom.Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stroke == nil {
		return false
	}
	s.stroke.points = append(s.stroke.points, p)
	s.notify()
	return true
}

// EndStroke turns the collected points into a segment on the current frame.
// A stroke without points is dropped.
func (s *Store) EndStroke() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	seg, ok := s.stroke.segment()
	s.stroke = nil
	if !ok {
		return false
	}
	s.addStrokeLocked(seg, true)
	return true
}

func (s *Store) CancelStroke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stroke != nil {
		s.stroke = nil
		s.notify()
	}
}

// PendingStroke returns the unfinished stroke, if there is one with points.
func (s *Store) PendingStroke() (history.Segment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stroke.segment()
}

// AddStrokeWithUndo appends a finished segment to the current frame.
func (s *Store) AddStrokeWithUndo(seg history.Segment, clearRedo bool) bool {
	if len(seg.Points) == 0 || seg.LineWidth <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addStrokeLocked(seg, clearRedo)
	return true
}

func (s *Store) addStrokeLocked(seg history.Segment, clearRedo bool) {
	f := s.frames[s.current]
	op := history.SegmentOp(seg)
	s.appendLocked(f, op)
	s.undo.RegisterUndo(f.ID, clearRedo, undo.Remove(f.ID, op))
	s.notify()
}

// AddShapeWithUndo appends a shape to the current frame and selects it.
func (s *Store) AddShapeWithUndo(sh shape.Shape) bool {
	if sh == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frames[s.current]
	op := history.ShapeOp(sh)
	s.appendLocked(f, op)
	s.undo.RegisterUndo(f.ID, true, undo.Remove(f.ID, op))
	s.notify()
	return true
}

// MoveShapeWithUndo centers shape id of the current frame on to.
func (s *Store) MoveShapeWithUndo(id uuid.UUID, to geom.Point, clearRedo bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frames[s.current]
	from, ok := s.moveLocked(f, id, to)
	if !ok {
		return false
	}
	s.undo.RegisterUndo(f.ID, clearRedo, undo.Move(f.ID, id, from))
	s.notify()
	return true
}

// ScaleAndRotateShapeWithUndo multiplies the shape's scale by factor and
// turns it by angle radians.
func (s *Store) ScaleAndRotateShapeWithUndo(id uuid.UUID, factor, angle float64, clearRedo bool) bool {
	if factor <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.frames[s.current]
	if !s.transformLocked(f, id, factor, angle) {
		return false
	}
	s.undo.RegisterUndo(f.ID, clearRedo, undo.Transform(f.ID, id, 1/factor, -angle))
	s.notify()
	return true
}

func (s *Store) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stroke = nil
	ok := s.undo.Undo(s.frames[s.current].ID, executor{s})
	if ok {
		s.notify()
	}
	return ok
}

func (s *Store) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stroke = nil
	ok := s.undo.Redo(s.frames[s.current].ID, executor{s})
	if ok {
		s.notify()
	}
	return ok
}

// executor replays undo commands against the store. It runs with the
// store's lock held.
type executor struct {
	s *Store
}

func (x executor) Execute(cmd undo.Command) (undo.Command, bool) {
	f := x.s.frameByID(cmd.FrameID)
	if f == nil {
		return undo.Command{}, false
	}
	switch cmd.Type {
	case undo.AppendOp:
		x.s.appendLocked(f, cmd.Op)
		return undo.Remove(f.ID, cmd.Op), true
	case undo.RemoveOp:
		if !x.s.removeLocked(f, cmd.Op) {
			return undo.Command{}, false
		}
		return undo.Append(f.ID, cmd.Op), true
	case undo.MoveShape:
		from, ok := x.s.moveLocked(f, cmd.ShapeID, cmd.To)
		return undo.Move(f.ID, cmd.ShapeID, from), ok
	case undo.TransformShape:
		if cmd.Scale <= 0 || !x.s.transformLocked(f, cmd.ShapeID, cmd.Scale, cmd.Angle) {
			return undo.Command{}, false
		}
		return undo.Transform(f.ID, cmd.ShapeID, 1/cmd.Scale, -cmd.Angle), true
	}
	return undo.Command{}, false
}

func (s *Store) appendLocked(f *Frame, op history.Op) {
	f.history.Append(op)
	f.touch()
	if op.Kind == history.OpShape {
		f.selected = op.Shape.ID()
		s.eagerRasterLocked(f)
	}
}

func (s *Store) removeLocked(f *Frame, op history.Op) bool {
	if !f.history.RemoveLast(op) {
		return false
	}
	f.touch()
	if op.Kind == history.OpShape {
		if f.selected == op.Shape.ID() {
			f.selected = uuid.Nil
			if last := f.history.LastShape(); last != nil {
				f.selected = last.ID()
			}
		}
		s.eagerRasterLocked(f)
	}
	return true
}

func (s *Store) moveLocked(f *Frame, id uuid.UUID, to geom.Point) (geom.Point, bool) {
	sh := f.history.Shape(id)
	if sh == nil {
		return geom.Point{}, false
	}
	sh.Attrs().DraggingOrigin = nil
	from := sh.Center()
	sh.Move(to)
	f.touch()
	s.eagerRasterLocked(f)
	return from, true
}

func (s *Store) transformLocked(f *Frame, id uuid.UUID, factor, angle float64) bool {
	sh := f.history.Shape(id)
	if sh == nil {
		return false
	}
	sh.ApplyScaleRotation(factor, angle)
	f.touch()
	s.eagerRasterLocked(f)
	return true
}
