package shape

import (
	"math"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipbook/internal/geom"
)

func TestRectScalesAroundCenter(t *testing.T) {
	s := NewRectangle(geom.Pt(10, 10), geom.Size{Width: 20, Height: 10}, geom.Black)
	s.Scale = 2
	r := s.Rect()
	assert.Equal(t, geom.Rect{X: 0, Y: 5, Width: 40, Height: 20}, r)
	assert.Equal(t, geom.Pt(20, 15), s.Center())

	s.ScalePreview = 0.5
	assert.Equal(t, geom.Rect{X: 10, Y: 10, Width: 20, Height: 10}, s.Rect())
}

func TestRectFollowsDrag(t *testing.T) {
	s := NewCircle(geom.Pt(0, 0), geom.Size{Width: 40, Height: 40}, geom.Black)
	s.DraggingOrigin = &geom.Point{X: 100, Y: 50}
	assert.Equal(t, geom.Pt(100, 50), s.Center())

	s.Move(geom.Pt(100, 50))
	assert.Nil(t, s.DraggingOrigin)
	assert.Equal(t, geom.Pt(80, 30), s.Origin)
	assert.Equal(t, geom.Pt(100, 50), s.Center())
}

func TestMoveKeepsScaleCentered(t *testing.T) {
	s := NewTriangle(geom.Pt(0, 0), geom.Size{Width: 10, Height: 10}, geom.Black)
	s.Scale = 3
	s.Move(geom.Pt(-50, 500))
	assert.Equal(t, geom.Pt(-50, 500), s.Center())
}

func TestApplyScaleRotation(t *testing.T) {
	s := NewRectangle(geom.Pt(0, 0), geom.Size{Width: 10, Height: 10}, geom.Black)
	s.ApplyScaleRotation(2, math.Pi/4)
	s.ApplyScaleRotation(1.5, math.Pi/4)
	assert.InDelta(t, 3, s.Scale, 1e-12)
	assert.InDelta(t, math.Pi/2, s.Rotation, 1e-12)

	s.ApplyScaleRotation(0, 0)
	assert.InDelta(t, 3, s.Scale, 1e-12)

	s.RotationPreview = 1
	assert.InDelta(t, math.Pi/2+1, s.TotalRotation(), 1e-12)
	s.ResetPreview()
	assert.Zero(t, s.RotationPreview)
}

func TestCloneIsIndependent(t *testing.T) {
	orig := NewCircle(geom.Pt(1, 2), geom.Size{Width: 4, Height: 4}, geom.Black)
	orig.DraggingOrigin = &geom.Point{X: 3, Y: 3}
	c := orig.Clone()
	require.Equal(t, orig.ID(), c.ID())
	require.Equal(t, KindCircle, c.Kind())

	c.Move(geom.Pt(50, 50))
	assert.Equal(t, geom.Pt(1, 2), orig.Origin)
	assert.NotNil(t, orig.DraggingOrigin)
}

func TestDrawFillsShape(t *testing.T) {
	red := geom.RGB(1, 0, 0)
	for _, kind := range Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			dc := gg.NewContext(100, 100)
			s := New(kind, geom.Pt(30, 30), geom.Size{Width: 40, Height: 40}, red)
			s.Draw(dc, false)

			r, g, b, a := dc.Image().At(50, 55).RGBA()
			assert.Equal(t, uint32(0xffff), r)
			assert.Zero(t, g)
			assert.Zero(t, b)
			assert.Equal(t, uint32(0xffff), a)

			_, _, _, a = dc.Image().At(5, 5).RGBA()
			assert.Zero(t, a)
		})
	}
}

func TestDrawSelectedStrokesOutline(t *testing.T) {
	dc := gg.NewContext(100, 100)
	s := NewRectangle(geom.Pt(20, 20), geom.Size{Width: 60, Height: 60}, geom.RGB(0, 0, 1))
	s.Draw(dc, true)

	edge := toNRGBA(dc.Image().At(20, 50))
	assert.Greater(t, edge.R, uint8(200))
	assert.Less(t, edge.B, uint8(100))

	inside := toNRGBA(dc.Image().At(50, 50))
	assert.Equal(t, uint8(255), inside.B)
	assert.Zero(t, inside.R)
}

func TestNewAtCentersDefaultSize(t *testing.T) {
	s := NewAt(KindRectangle, geom.Pt(100, 100), geom.Black)
	assert.Equal(t, geom.Rect{X: 60, Y: 60, Width: 80, Height: 80}, s.Rect())
	assert.Equal(t, "triangle", KindTriangle.String())
}
