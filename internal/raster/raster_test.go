package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipbook/internal/geom"
	"flipbook/internal/history"
	"flipbook/internal/shape"
)

var canvas = geom.Size{Width: 100, Height: 100}

var red = geom.RGB(1, 0, 0)

func segment(t *testing.T, kind history.SegmentKind, width float64, pts ...geom.Point) history.Segment {
	t.Helper()
	s, ok := history.NewSegment(kind, pts, red, width)
	require.True(t, ok)
	return s
}

func alphaAt(img image.Image, x, y int) uint8 {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA).A
}

func painted(t *testing.T, img image.Image, x, y int) {
	t.Helper()
	assert.Equal(t, uint8(255), alphaAt(img, x, y), "expected paint at (%d, %d)", x, y)
}

func blank(t *testing.T, img image.Image, x, y int) {
	t.Helper()
	assert.Zero(t, alphaAt(img, x, y), "expected background at (%d, %d)", x, y)
}

func TestRenderEmptyHistory(t *testing.T) {
	img := Render(history.New(), canvas, Options{})
	assert.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())
	blank(t, img, 50, 50)

	img = Render(history.New(), canvas, Options{Background: geom.White})
	painted(t, img, 0, 0)
}

func TestSinglePointIsDot(t *testing.T) {
	h := history.New()
	h.Append(history.SegmentOp(segment(t, history.Fill, 10, geom.Pt(50, 50))))
	img := Render(h, canvas, Options{})

	painted(t, img, 50, 50)
	painted(t, img, 53, 50)
	painted(t, img, 50, 47)
	blank(t, img, 56, 50)
	blank(t, img, 50, 43)
	blank(t, img, 20, 50)
	blank(t, img, 0, 0)

	got := color.NRGBAModel.Convert(img.At(50, 50)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, got)
}

func TestTwoPointsIsLine(t *testing.T) {
	h := history.New()
	h.Append(history.SegmentOp(segment(t, history.Fill, 10, geom.Pt(20, 50), geom.Pt(80, 50))))
	img := Render(h, canvas, Options{})

	for _, x := range []int{20, 35, 50, 65, 79} {
		painted(t, img, x, 50)
	}
	painted(t, img, 50, 47)
	painted(t, img, 17, 50)
	blank(t, img, 50, 57)
	blank(t, img, 10, 50)
	blank(t, img, 90, 50)
}

func TestEraseCutsOlderContent(t *testing.T) {
	h := history.New()
	h.Append(history.SegmentOp(segment(t, history.Fill, 10, geom.Pt(10, 50), geom.Pt(90, 50))))
	h.Append(history.SegmentOp(segment(t, history.Erase, 20, geom.Pt(50, 50))))
	require.Equal(t, 1, h.Len())

	img := Render(h, canvas, Options{})
	blank(t, img, 50, 50)
	painted(t, img, 20, 50)
	painted(t, img, 80, 50)
}

func TestEraseDoesNotReachNewerContent(t *testing.T) {
	h := history.New()
	h.Append(history.SegmentOp(segment(t, history.Fill, 10, geom.Pt(10, 50), geom.Pt(90, 50))))
	h.Append(history.SegmentOp(segment(t, history.Erase, 20, geom.Pt(50, 50))))
	h.Append(history.SegmentOp(segment(t, history.Fill, 4, geom.Pt(50, 10), geom.Pt(50, 90))))
	require.Equal(t, 2, h.Len())

	img := Render(h, canvas, Options{})
	painted(t, img, 50, 50)
	blank(t, img, 45, 50)
	painted(t, img, 30, 50)
}

func TestNestedErasesIntersect(t *testing.T) {
	h := history.New()
	h.Append(history.SegmentOp(segment(t, history.Fill, 10, geom.Pt(10, 50), geom.Pt(90, 50))))
	h.Append(history.SegmentOp(segment(t, history.Erase, 10, geom.Pt(30, 50))))
	h.Append(history.SegmentOp(segment(t, history.Fill, 10, geom.Pt(50, 10), geom.Pt(50, 90))))
	h.Append(history.SegmentOp(segment(t, history.Erase, 10, geom.Pt(70, 50))))
	h.Append(history.SegmentOp(segment(t, history.Erase, 10, geom.Pt(50, 20))))
	require.Equal(t, 3, h.Len())

	img := Render(h, canvas, Options{})
	blank(t, img, 30, 50)
	blank(t, img, 70, 50)
	painted(t, img, 50, 50)
	painted(t, img, 15, 50)
	painted(t, img, 85, 50)
	painted(t, img, 50, 80)
	painted(t, img, 50, 35)
	blank(t, img, 50, 20)
}

func TestEraseKeepsBackground(t *testing.T) {
	h := history.New()
	h.Append(history.SegmentOp(segment(t, history.Fill, 10, geom.Pt(50, 50))))
	h.Append(history.SegmentOp(segment(t, history.Erase, 30, geom.Pt(50, 50))))
	img := Render(h, canvas, Options{Background: geom.White})

	got := color.NRGBAModel.Convert(img.At(50, 50)).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, got)
}

func TestShapesBeneathFillsInLayer(t *testing.T) {
	h := history.New()
	s := shape.NewAt(shape.KindRectangle, geom.Pt(50, 50), geom.RGB(0, 0, 1))
	h.Append(history.SegmentOp(segment(t, history.Fill, 10, geom.Pt(50, 50))))
	h.Append(history.ShapeOp(s))

	img := Render(h, canvas, Options{})
	got := color.NRGBAModel.Convert(img.At(50, 50)).(color.NRGBA)
	assert.Equal(t, uint8(255), got.R)

	got = color.NRGBAModel.Convert(img.At(30, 30)).(color.NRGBA)
	assert.Equal(t, uint8(255), got.B)
}

func TestPendingStroke(t *testing.T) {
	h := history.New()
	h.Append(history.SegmentOp(segment(t, history.Fill, 10, geom.Pt(10, 50), geom.Pt(90, 50))))

	erase := segment(t, history.Erase, 10, geom.Pt(50, 50))
	img := Render(h, canvas, Options{Pending: &erase})
	blank(t, img, 50, 50)
	painted(t, img, 20, 50)

	fill := segment(t, history.Fill, 10, geom.Pt(50, 20))
	img = Render(h, canvas, Options{Pending: &fill})
	painted(t, img, 50, 20)
	painted(t, img, 50, 50)
}

func TestSelectedShapeIsOutlined(t *testing.T) {
	h := history.New()
	s := shape.NewAt(shape.KindRectangle, geom.Pt(50, 50), geom.RGB(0, 0, 1))
	h.Append(history.ShapeOp(s))

	plain := Render(h, canvas, Options{})
	selected := Render(h, canvas, Options{Selected: s.ID()})
	assert.NotEqual(t, plain.At(10, 50), selected.At(10, 50))
	assert.Equal(t, plain.At(50, 50), selected.At(50, 50))
}
