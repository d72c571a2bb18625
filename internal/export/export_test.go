package export

import (
	"context"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipbook/internal/geom"
)

func solid(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestGIFEncoderWritesLoopingAnimation(t *testing.T) {
	dir := t.TempDir()
	enc := &GIFEncoder{Dir: dir, Background: geom.White}
	frames := []Frame{
		{Image: solid(color.RGBA{R: 255, A: 255}), Delay: 125 * time.Millisecond},
		{Image: solid(color.RGBA{B: 255, A: 255}), Delay: 125 * time.Millisecond},
	}
	path, err := enc.Encode(context.Background(), frames, "anim")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "anim.gif"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, g.Image, 2)
	assert.Equal(t, []int{13, 13}, g.Delay)
	assert.Equal(t, 0, g.LoopCount)
	assert.Equal(t, image.Rect(0, 0, 16, 12), g.Image[0].Bounds())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGIFEncoderCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	enc := &GIFEncoder{Dir: dir}
	_, err := enc.Encode(ctx, []Frame{{Image: solid(color.Black), Delay: time.Second}}, "anim")
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGIFEncoderErrors(t *testing.T) {
	_, err := (&GIFEncoder{Dir: t.TempDir()}).Encode(context.Background(), nil, "x")
	assert.ErrorIs(t, err, ErrNoFrames)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	enc := &GIFEncoder{Dir: filepath.Join(file, "sub")}
	_, err = enc.Encode(context.Background(), []Frame{{Image: solid(color.Black)}}, "x")
	assert.ErrorIs(t, err, ErrNoCacheDir)
}

func TestCentiseconds(t *testing.T) {
	assert.Equal(t, 1, centiseconds(0))
	assert.Equal(t, 4, centiseconds(time.Second/24))
	assert.Equal(t, 100, centiseconds(time.Second))
}

func TestWriteStoryboard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.pdf")
	var panels []Panel
	for i := 0; i < 7; i++ {
		panels = append(panels, Panel{Caption: "Frame", Image: solid(color.RGBA{G: 200, A: 255})})
	}
	require.NoError(t, WriteStoryboard(path, "test", panels))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))

	assert.ErrorIs(t, WriteStoryboard(path, "test", nil), ErrNoFrames)
}
