package raster

import (
	"fmt"
	"image"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"flipbook/internal/geom"
)

const labelPadding = 4

var monoFont = sync.OnceValues(func() (*truetype.Font, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return f, nil
})

// StampLabel writes text into the bottom-left corner of img on a
// translucent plate.
func StampLabel(img *image.RGBA, text string, size float64) error {
	if text == "" {
		return nil
	}
	f, err := monoFont()
	if err != nil {
		return err
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	dc := gg.NewContextForRGBA(img)
	dc.SetFontFace(face)
	tw, th := dc.MeasureString(text)
	h := float64(img.Bounds().Dy())

	dc.SetColor(geom.Color{A: 0.55})
	dc.DrawRectangle(0, h-th-2*labelPadding, tw+2*labelPadding, th+2*labelPadding)
	dc.Fill()
	dc.SetColor(geom.White)
	dc.DrawStringAnchored(text, labelPadding, h-labelPadding, 0, 0)
	return nil
}
