package history

import (
	"github.com/google/uuid"

	"flipbook/internal/geom"
)

type SegmentKind int

const (
	Fill SegmentKind = iota
	Erase
)

func (k SegmentKind) String() string {
	if k == Erase {
		return "erase"
	}
	return "fill"
}

// Segment is one finished stroke. A single-point segment is a dot of
// diameter LineWidth; anything longer is a round-capped polyline.
// Segments are never mutated once they are part of a history, so clones of
// a history share them.
type Segment struct {
	ID        uuid.UUID
	Points    []geom.Point
	Color     geom.Color
	LineWidth float64
	Kind      SegmentKind
}

// NewSegment copies points into a new segment. It reports false when there
// are no points or the width is not positive.
func NewSegment(kind SegmentKind, points []geom.Point, color geom.Color, lineWidth float64) (Segment, bool) {
	if len(points) == 0 || lineWidth <= 0 {
		return Segment{}, false
	}
	pts := make([]geom.Point, len(points))
	copy(pts, points)
	return Segment{
		ID:        uuid.New(),
		Points:    pts,
		Color:     color,
		LineWidth: lineWidth,
		Kind:      kind,
	}, true
}

// IsDot reports whether the segment renders as a filled circle.
func (s Segment) IsDot() bool {
	return len(s.Points) == 1
}

// Bounds returns the area the segment can paint, including its width.
func (s Segment) Bounds() geom.Rect {
	if len(s.Points) == 0 {
		return geom.Rect{}
	}
	minX, minY := s.Points[0].X, s.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.Points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	half := s.LineWidth / 2
	return geom.Rect{
		X:      minX - half,
		Y:      minY - half,
		Width:  maxX - minX + s.LineWidth,
		Height: maxY - minY + s.LineWidth,
	}
}
