package raster

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/transform"
	"github.com/fogleman/gg"

	"flipbook/internal/geom"
)

// Flatten composites img over an opaque background into a new bitmap.
func Flatten(img image.Image, bg geom.Color) *image.RGBA {
	b := img.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetColor(bg)
	dc.Clear()
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	return imageRGBA(dc)
}

// Fade returns a copy of img with every pixel's alpha scaled by opacity.
func Fade(img image.Image, opacity float64) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	a := uint8(max(0, min(1, opacity)) * 255)
	draw.DrawMask(out, out.Bounds(), img, b.Min, image.NewUniform(color.Alpha{A: a}), image.Point{}, draw.Over)
	return out
}

// Overlay alpha-composites fg over bg into a new bitmap.
func Overlay(bg, fg image.Image) *image.RGBA {
	return blend.Normal(bg, fg)
}

// Thumbnail scales img to w x h.
func Thumbnail(img image.Image, w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return transform.Resize(img, w, h, transform.Linear)
}

// FitWithin returns the largest size with the aspect ratio of src that fits
// in maxW x maxH.
func FitWithin(src image.Rectangle, maxW, maxH int) (int, int) {
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	w, h := maxW, sh*maxW/sw
	if h > maxH {
		h = maxH
		w = sw * maxH / sh
	}
	return max(w, 1), max(h, 1)
}
