// Package shape implements the drawable vector shapes a frame can hold.
//
// Every shape is positioned by the top-left corner of its unscaled bounding
// box. Scale and rotation come in two parts: the committed value and a
// transient preview value that an in-progress gesture adjusts. Rendering
// always combines both, so a gesture can be shown live and later either
// committed or discarded.
package shape

import (
	"github.com/fogleman/gg"
	"github.com/google/uuid"

	"flipbook/internal/geom"
)

type Kind int

const (
	KindCircle Kind = iota
	KindRectangle
	KindTriangle
)

var Kinds = []Kind{KindCircle, KindRectangle, KindTriangle}

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindRectangle:
		return "rectangle"
	case KindTriangle:
		return "triangle"
	}
	return "unknown"
}

// DefaultSize is the size a shape of the given kind gets when it is placed
// with a tap.
func (k Kind) DefaultSize() geom.Size {
	if k == KindCircle {
		return geom.Size{Width: 40, Height: 40}
	}
	return geom.Size{Width: 80, Height: 80}
}

const highlightWidth = 2

type Shape interface {
	ID() uuid.UUID
	Kind() Kind
	// Attrs gives access to the attributes every variant shares.
	Attrs() *Base
	Rect() geom.Rect
	Center() geom.Point
	Move(to geom.Point)
	ApplyScaleRotation(factor, angle float64)
	// Draw fills the shape and, when selected, strokes its outline in the
	// accent color.
	Draw(dc *gg.Context, selected bool)
	Clone() Shape
}

// Base carries the attributes shared by all variants.
type Base struct {
	id uuid.UUID

	Origin geom.Point
	Width  float64
	Height float64
	Color  geom.Color

	Scale        float64
	ScalePreview float64
	// Rotation and RotationPreview are in radians.
	Rotation        float64
	RotationPreview float64

	// DraggingOrigin is the target center while a drag is in progress.
	DraggingOrigin *geom.Point
}

func newBase(origin geom.Point, size geom.Size, color geom.Color) Base {
	return Base{
		id:           uuid.New(),
		Origin:       origin,
		Width:        size.Width,
		Height:       size.Height,
		Color:        color,
		Scale:        1,
		ScalePreview: 1,
	}
}

func (b *Base) ID() uuid.UUID { return b.id }

func (b *Base) Attrs() *Base { return b }

// TotalScale is the committed scale combined with the gesture preview.
func (b *Base) TotalScale() float64 {
	return b.Scale * b.ScalePreview
}

// TotalRotation is the committed rotation combined with the gesture preview.
func (b *Base) TotalRotation() float64 {
	return b.Rotation + b.RotationPreview
}

// Rect returns the scaled bounding box. It is centered on the drag target
// while a drag is in progress and on the unscaled box's center otherwise.
func (b *Base) Rect() geom.Rect {
	s := b.TotalScale()
	w := b.Width * s
	h := b.Height * s
	if b.DraggingOrigin != nil {
		return geom.Rect{
			X:      b.DraggingOrigin.X - w/2,
			Y:      b.DraggingOrigin.Y - h/2,
			Width:  w,
			Height: h,
		}
	}
	return geom.Rect{
		X:      b.Origin.X - (w-b.Width)/2,
		Y:      b.Origin.Y - (h-b.Height)/2,
		Width:  w,
		Height: h,
	}
}

func (b *Base) Center() geom.Point {
	return b.Rect().Center()
}

// Move places the shape so that its center is at p and ends any drag.
func (b *Base) Move(p geom.Point) {
	b.Origin = geom.Point{X: p.X - b.Width/2, Y: p.Y - b.Height/2}
	b.DraggingOrigin = nil
}

// ApplyScaleRotation multiplies the committed scale by factor and adds angle
// to the committed rotation. A non-positive factor leaves the scale alone.
func (b *Base) ApplyScaleRotation(factor, angle float64) {
	if factor > 0 {
		b.Scale *= factor
	}
	b.Rotation += angle
}

// ResetPreview drops every transient gesture value.
func (b *Base) ResetPreview() {
	b.ScalePreview = 1
	b.RotationPreview = 0
	b.DraggingOrigin = nil
}

func (b *Base) clone() Base {
	c := *b
	if b.DraggingOrigin != nil {
		p := *b.DraggingOrigin
		c.DraggingOrigin = &p
	}
	return c
}

// draw rotates the context about the shape's center, lets trace build the
// outline path and fills it.
func (b *Base) draw(dc *gg.Context, selected bool, trace func(dc *gg.Context, r geom.Rect)) {
	r := b.Rect()
	c := r.Center()
	dc.Push()
	defer dc.Pop()
	dc.RotateAbout(b.TotalRotation(), c.X, c.Y)
	trace(dc, r)
	dc.SetColor(b.Color)
	if !selected {
		dc.Fill()
		return
	}
	dc.FillPreserve()
	dc.SetColor(geom.Accent)
	dc.SetLineWidth(highlightWidth)
	dc.Stroke()
}

// New builds a shape of the given kind.
func New(kind Kind, origin geom.Point, size geom.Size, color geom.Color) Shape {
	switch kind {
	case KindRectangle:
		return NewRectangle(origin, size, color)
	case KindTriangle:
		return NewTriangle(origin, size, color)
	default:
		return NewCircle(origin, size, color)
	}
}

// NewAt builds a shape of the given kind and default size centered at p.
func NewAt(kind Kind, p geom.Point, color geom.Color) Shape {
	size := kind.DefaultSize()
	return New(kind, geom.Point{X: p.X - size.Width/2, Y: p.Y - size.Height/2}, size, color)
}
