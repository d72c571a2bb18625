package export

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"flipbook/internal/geom"
	"flipbook/internal/logging"
	"flipbook/internal/raster"
)

// GIFEncoder writes looping GIFs. Frames are flattened onto Background and
// dithered to the Plan 9 palette.
type GIFEncoder struct {
	Dir        string
	Background geom.Color
}

func (e *GIFEncoder) Encode(ctx context.Context, frames []Frame, name string) (string, error) {
	if len(frames) == 0 {
		return "", ErrNoFrames
	}
	dir, err := ResolveDir(e.Dir)
	if err != nil {
		return "", err
	}

	anim := &gif.GIF{LoopCount: 0}
	for i, f := range frames {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		anim.Image = append(anim.Image, quantize(raster.Flatten(f.Image, e.Background)))
		anim.Delay = append(anim.Delay, centiseconds(f.Delay))
		logging.L().Debug("gif frame encoded", zap.Int("index", i))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, name+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCacheDir, err)
	}
	defer os.Remove(tmp.Name())
	if err := gif.EncodeAll(tmp, anim); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to encode gif: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write gif: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	out := filepath.Join(dir, name+".gif")
	if err := os.Rename(tmp.Name(), out); err != nil {
		return "", fmt.Errorf("failed to write gif: %w", err)
	}
	return out, nil
}

func quantize(img image.Image) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	return p
}

// centiseconds converts a delay to GIF units, at least one tick.
func centiseconds(d time.Duration) int {
	cs := int(math.Round(float64(d) / float64(10*time.Millisecond)))
	return max(cs, 1)
}
