package shape

import (
	"github.com/fogleman/gg"

	"flipbook/internal/geom"
)

// Circle is an ellipse inscribed in the bounding box.
type Circle struct {
	Base
}

func NewCircle(origin geom.Point, size geom.Size, color geom.Color) *Circle {
	return &Circle{Base: newBase(origin, size, color)}
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) Draw(dc *gg.Context, selected bool) {
	c.draw(dc, selected, func(dc *gg.Context, r geom.Rect) {
		center := r.Center()
		dc.DrawEllipse(center.X, center.Y, r.Width/2, r.Height/2)
	})
}

func (c *Circle) Clone() Shape {
	return &Circle{Base: c.clone()}
}

type Rectangle struct {
	Base
}

func NewRectangle(origin geom.Point, size geom.Size, color geom.Color) *Rectangle {
	return &Rectangle{Base: newBase(origin, size, color)}
}

func (r *Rectangle) Kind() Kind { return KindRectangle }

func (r *Rectangle) Draw(dc *gg.Context, selected bool) {
	r.draw(dc, selected, func(dc *gg.Context, b geom.Rect) {
		dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
	})
}

func (r *Rectangle) Clone() Shape {
	return &Rectangle{Base: r.clone()}
}

// Triangle is isosceles: apex at the top middle, base along the bottom edge.
type Triangle struct {
	Base
}

func NewTriangle(origin geom.Point, size geom.Size, color geom.Color) *Triangle {
	return &Triangle{Base: newBase(origin, size, color)}
}

func (t *Triangle) Kind() Kind { return KindTriangle }

func (t *Triangle) Draw(dc *gg.Context, selected bool) {
	t.draw(dc, selected, func(dc *gg.Context, r geom.Rect) {
		dc.MoveTo(r.MidX(), r.MinY())
		dc.LineTo(r.MaxX(), r.MaxY())
		dc.LineTo(r.MinX(), r.MaxY())
		dc.ClosePath()
	})
}

func (t *Triangle) Clone() Shape {
	return &Triangle{Base: t.clone()}
}
