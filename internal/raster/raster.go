// Package raster turns a frame's history into pixels.
//
// Layers are composited oldest first. A layer with an erase mask installs the
// inverse of the erase stroke as a clip before anything older is drawn and
// keeps it for its own shapes and fills; each level restores its parent's
// clip when it returns, so masks only ever reach down the chain.
package raster

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/google/uuid"

	"flipbook/internal/geom"
	"flipbook/internal/history"
)

type Options struct {
	// Background is painted first. The zero value leaves the bitmap
	// transparent, which is what onion skins and film strips want.
	Background geom.Color
	// Selected is the id of the shape drawn with a highlight outline.
	Selected uuid.UUID
	// Pending is an in-progress stroke drawn on top of (fill) or cut out
	// of (erase) the finished history.
	Pending *history.Segment
}

// Render composites h onto a new bitmap of the given size.
func Render(h *history.History, size geom.Size, opts Options) *image.RGBA {
	w, ht := size.Pixels()
	dc := gg.NewContext(w, ht)
	if opts.Background.A > 0 {
		dc.SetColor(opts.Background)
		dc.Clear()
	}

	var base *image.Alpha
	if opts.Pending != nil && opts.Pending.Kind == history.Erase {
		base = inverseMask(*opts.Pending, w, ht, nil)
		dc.SetMask(base)
	}
	r := renderer{dc: dc, w: w, h: ht, selected: opts.Selected}
	if layers := h.Layers(); len(layers) > 0 {
		r.layer(layers, 0, base)
	}
	if opts.Pending != nil && opts.Pending.Kind == history.Fill {
		setClip(dc, nil)
		DrawSegment(dc, *opts.Pending)
	}
	return imageRGBA(dc)
}

type renderer struct {
	dc       *gg.Context
	w, h     int
	selected uuid.UUID
}

func (r *renderer) layer(layers []*history.Node, i int, clip *image.Alpha) {
	node := layers[i]
	own := clip
	if node.EraseMask != nil {
		own = inverseMask(*node.EraseMask, r.w, r.h, clip)
		setClip(r.dc, own)
	}
	if i+1 < len(layers) {
		r.layer(layers, i+1, own)
	}
	for _, s := range node.Shapes {
		s.Draw(r.dc, r.selected != uuid.Nil && s.ID() == r.selected)
	}
	for _, seg := range node.Fills {
		DrawSegment(r.dc, seg)
	}
	setClip(r.dc, clip)
}

func setClip(dc *gg.Context, mask *image.Alpha) {
	if mask == nil {
		dc.ResetClip()
		return
	}
	// Sizes always match, SetMask cannot fail here.
	_ = dc.SetMask(mask)
}

// DrawSegment paints a stroke: a filled circle of diameter LineWidth for a
// single point, a round-capped, round-joined polyline otherwise.
func DrawSegment(dc *gg.Context, s history.Segment) {
	if len(s.Points) == 0 {
		return
	}
	dc.SetColor(s.Color)
	traceSegment(dc, s)
}

func traceSegment(dc *gg.Context, s history.Segment) {
	if s.IsDot() {
		p := s.Points[0]
		dc.DrawCircle(p.X, p.Y, s.LineWidth/2)
		dc.Fill()
		return
	}
	dc.SetLineWidth(s.LineWidth)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.SetDash()
	dc.NewSubPath()
	dc.MoveTo(s.Points[0].X, s.Points[0].Y)
	for _, p := range s.Points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
}

// inverseMask is opaque everywhere except under the stroke, intersected
// with parent when there is one.
func inverseMask(s history.Segment, w, h int, parent *image.Alpha) *image.Alpha {
	mc := gg.NewContext(w, h)
	mc.SetRGBA(0, 0, 0, 1)
	traceSegment(mc, s)
	mask := mc.AsMask()
	for i, a := range mask.Pix {
		inv := 255 - uint32(a)
		if parent != nil {
			inv = inv * uint32(parent.Pix[i]) / 255
		}
		mask.Pix[i] = uint8(inv)
	}
	return mask
}

func imageRGBA(dc *gg.Context) *image.RGBA {
	if img, ok := dc.Image().(*image.RGBA); ok {
		return img
	}
	img := image.NewRGBA(dc.Image().Bounds())
	gg.NewContextForRGBA(img).DrawImage(dc.Image(), 0, 0)
	return img
}
