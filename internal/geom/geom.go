// Package geom holds the value types shared by the drawing model: points,
// sizes, rectangles and colors.
package geom

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

type Point struct {
	X, Y float64
}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

type Size struct {
	Width, Height float64
}

// Pixels returns the integer pixel dimensions, at least 1x1.
func (s Size) Pixels() (int, int) {
	w := int(math.Ceil(s.Width))
	h := int(math.Ceil(s.Height))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

func (r Rect) MinX() float64 { return r.X }
func (r Rect) MinY() float64 { return r.Y }
func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }
func (r Rect) MidX() float64 { return r.X + r.Width/2 }

// Color is a straight (non-premultiplied) RGBA color with components in 0..1.
type Color struct {
	R, G, B, A float64
}

var (
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
	Transparent = Color{}
	// Accent is the outline color of a selected shape.
	Accent = Color{R: 1, G: 0.6, B: 0.1, A: 1}
)

func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// NRGBA converts the color to an 8-bit straight-alpha color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: unit8(c.R),
		G: unit8(c.G),
		B: unit8(c.B),
		A: unit8(c.A),
	}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

func (c Color) Hex() string {
	n := c.NRGBA()
	if n.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// ParseHex parses #rgb, #rrggbb or #rrggbbaa.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	alpha := 1.0
	if len(h) == 8 {
		a, err := strconv.ParseUint(h[6:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		alpha = float64(a) / 255
		h = h[:6]
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	c, err := colorful.Hex("#" + h)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return fromColorful(c, alpha), nil
}

// HSB builds an opaque color from hue, saturation and brightness in 0..1.
func HSB(h, s, v float64) Color {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	return fromColorful(colorful.Hsv(h*360, s, v), 1)
}

func fromColorful(c colorful.Color, alpha float64) Color {
	c = c.Clamped()
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}
}

func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func Degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

func unit8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
