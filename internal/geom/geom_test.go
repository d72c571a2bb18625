package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, "#ff8000", c.Hex())

	c, err = ParseHex("fff")
	require.NoError(t, err)
	assert.Equal(t, White, c)

	c, err = ParseHex("#00000080")
	require.NoError(t, err)
	assert.Equal(t, uint8(128), c.NRGBA().A)

	_, err = ParseHex("#12345")
	assert.Error(t, err)
	_, err = ParseHex("#zzzzzz")
	assert.Error(t, err)
	_, err = ParseHex("#ffffffzz")
	assert.Error(t, err)
}

func TestSizePixels(t *testing.T) {
	w, h := Size{Width: 99.2, Height: 0}.Pixels()
	assert.Equal(t, 100, w)
	assert.Equal(t, 1, h)
	assert.False(t, Size{Width: 10}.Valid())
}

func TestRectCenter(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 40, Height: 60}
	assert.Equal(t, Pt(30, 50), r.Center())
	assert.Equal(t, 50.0, r.MaxX())
	assert.Equal(t, 30.0, r.MidX())
}

func TestHSB(t *testing.T) {
	assert.Equal(t, RGB(1, 0, 0), HSB(0, 1, 1))
	assert.Equal(t, RGB(0.5, 0.5, 0.5), HSB(0.3, 0, 0.5))

	green := HSB(1.0/3, 1, 1)
	assert.InDelta(t, 0, green.R, 1e-9)
	assert.InDelta(t, 1, green.G, 1e-9)
	assert.InDelta(t, 0, green.B, 1e-9)
	assert.Equal(t, HSB(0.25, 0.8, 0.6), HSB(1.25, 0.8, 0.6), "hue wraps")
	assert.Equal(t, 1.0, HSB(0.7, 0.4, 0.9).A)
	assert.InDelta(t, math.Pi, Radians(180), 1e-12)
	assert.InDelta(t, 90, Degrees(math.Pi/2), 1e-12)
}
