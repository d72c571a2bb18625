package history

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipbook/internal/geom"
	"flipbook/internal/shape"
)

func seg(t *testing.T, kind SegmentKind, pts ...geom.Point) Segment {
	t.Helper()
	if len(pts) == 0 {
		pts = []geom.Point{{X: 1, Y: 1}}
	}
	s, ok := NewSegment(kind, pts, geom.Black, 4)
	require.True(t, ok)
	return s
}

func rect() shape.Shape {
	return shape.NewAt(shape.KindRectangle, geom.Pt(50, 50), geom.Black)
}

func TestNewSegmentRejectsEmpty(t *testing.T) {
	_, ok := NewSegment(Fill, nil, geom.Black, 4)
	assert.False(t, ok)
	_, ok = NewSegment(Fill, []geom.Point{{X: 1}}, geom.Black, 0)
	assert.False(t, ok)

	pts := []geom.Point{{X: 1}, {X: 2}}
	s, ok := NewSegment(Erase, pts, geom.Black, 2)
	require.True(t, ok)
	pts[0].X = 99
	assert.Equal(t, 1.0, s.Points[0].X)
	assert.False(t, s.IsDot())
	assert.Equal(t, geom.Rect{X: 0, Y: -1, Width: 3, Height: 2}, s.Bounds())
}

func TestAppendTwoFillsShareLayer(t *testing.T) {
	h := New()
	a, b := seg(t, Fill), seg(t, Fill)
	h.Append(SegmentOp(a))
	h.Append(SegmentOp(b))

	require.Equal(t, 1, h.Len())
	layer := h.Layers()[0]
	assert.Nil(t, layer.EraseMask)
	assert.Equal(t, []Segment{a, b}, layer.Fills)
}

func TestFillAfterEraseStartsNewLayer(t *testing.T) {
	h := New()
	e, f := seg(t, Erase), seg(t, Fill)
	h.Append(SegmentOp(e))
	h.Append(SegmentOp(f))

	require.Equal(t, 2, h.Len())
	layers := h.Layers()
	assert.Equal(t, []Segment{f}, layers[0].Fills)
	assert.Nil(t, layers[0].EraseMask)
	require.NotNil(t, layers[1].EraseMask)
	assert.Equal(t, e.ID, layers[1].EraseMask.ID)
}

func TestEraseJoinsFillLayerButNotShapeLayer(t *testing.T) {
	h := New()
	f, e := seg(t, Fill), seg(t, Erase)
	h.Append(SegmentOp(f))
	h.Append(SegmentOp(e))
	require.Equal(t, 1, h.Len())
	assert.Equal(t, e.ID, h.Layers()[0].EraseMask.ID)

	h2 := New()
	h2.Append(ShapeOp(rect()))
	h2.Append(SegmentOp(seg(t, Erase)))
	assert.Equal(t, 2, h2.Len())
}

func TestSecondEraseStartsNewLayer(t *testing.T) {
	h := New()
	h.Append(SegmentOp(seg(t, Erase)))
	h.Append(SegmentOp(seg(t, Erase)))
	h.Append(ShapeOp(rect()))
	assert.Equal(t, 3, h.Len())
}

func TestShapesJoinFillLayer(t *testing.T) {
	h := New()
	s1, s2 := rect(), rect()
	h.Append(SegmentOp(seg(t, Fill)))
	h.Append(ShapeOp(s1))
	h.Append(ShapeOp(s2))
	require.Equal(t, 1, h.Len())
	assert.Len(t, h.Layers()[0].Shapes, 2)
	assert.Equal(t, s2.ID(), h.LastShape().ID())
	assert.Equal(t, s1, h.Shape(s1.ID()))
}

func TestRemoveLastOnlyMatchesNewest(t *testing.T) {
	h := New()
	a, b := seg(t, Fill), seg(t, Fill)
	h.Append(SegmentOp(a))
	h.Append(SegmentOp(b))

	assert.False(t, h.RemoveLast(SegmentOp(a)))
	assert.False(t, h.RemoveLast(SegmentOp(seg(t, Erase))))
	assert.False(t, h.RemoveLast(ShapeOp(rect())))
	assert.True(t, h.RemoveLast(SegmentOp(b)))
	assert.True(t, h.RemoveLast(SegmentOp(a)))
	assert.True(t, h.IsEmpty())
	assert.False(t, h.RemoveLast(SegmentOp(a)))
}

func TestRemoveLastUnlinksEmptyLayer(t *testing.T) {
	h := New()
	f := seg(t, Fill)
	e := seg(t, Erase)
	s := rect()
	h.Append(SegmentOp(f))
	h.Append(SegmentOp(e))
	h.Append(ShapeOp(s))
	require.Equal(t, 2, h.Len())

	require.True(t, h.RemoveLast(ShapeOp(s)))
	assert.Equal(t, 1, h.Len())
	require.True(t, h.RemoveLast(SegmentOp(e)))
	assert.Equal(t, 1, h.Len())
	assert.Nil(t, h.Layers()[0].EraseMask)
	require.True(t, h.RemoveLast(SegmentOp(f)))
	assert.True(t, h.IsEmpty())
}

func TestAppendRemoveRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for run := 0; run < 50; run++ {
		h := New()
		var ops []Op
		var states []string
		for i := 0; i < 1+rng.IntN(30); i++ {
			var op Op
			switch rng.IntN(3) {
			case 0:
				op = SegmentOp(seg(t, Fill))
			case 1:
				op = SegmentOp(seg(t, Erase))
			default:
				op = ShapeOp(rect())
			}
			states = append(states, h.String())
			h.Append(op)
			ops = append(ops, op)
		}
		for i := len(ops) - 1; i >= 0; i-- {
			require.True(t, h.RemoveLast(ops[i]), "op %d (%s)", i, ops[i].Kind)
			require.Equal(t, states[i], h.String())
		}
		require.True(t, h.IsEmpty())
		require.Zero(t, h.Len())
	}
}

func TestCloneCopiesShapesSharesSegments(t *testing.T) {
	h := New()
	f := seg(t, Fill, geom.Pt(1, 1), geom.Pt(2, 2))
	s := rect()
	h.Append(SegmentOp(f))
	h.Append(SegmentOp(seg(t, Erase)))
	h.Append(ShapeOp(s))

	c := h.Clone()
	assert.Equal(t, h.String(), c.String())

	c.Shape(s.ID()).Move(geom.Pt(0, 0))
	assert.Equal(t, geom.Pt(50, 50), s.Center())

	c.Append(SegmentOp(seg(t, Fill)))
	assert.NotEqual(t, h.String(), c.String())
	assert.Equal(t, 2, h.Len())

	cf := c.Layers()[1].Fills[0]
	assert.Equal(t, &f.Points[0], &cf.Points[0])
}

func TestShapesOldestFirst(t *testing.T) {
	h := New()
	a, b := rect(), rect()
	h.Append(ShapeOp(a))
	h.Append(SegmentOp(seg(t, Erase)))
	h.Append(ShapeOp(b))
	shapes := h.Shapes()
	require.Len(t, shapes, 2)
	assert.Equal(t, a.ID(), shapes[0].ID())
	assert.Equal(t, b.ID(), shapes[1].ID())
	assert.Equal(t, b.ID(), h.LastShape().ID())
}
