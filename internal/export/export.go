// Package export turns rendered frames into files: an animated GIF and a
// PDF storyboard.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"
)

var (
	ErrNoCacheDir = errors.New("no writable output directory")
	ErrNoEncoder  = errors.New("no encoder available")
	ErrNoFrames   = errors.New("no rendered frames to export")
)

// Frame is one image of an animation and how long it stays on screen.
type Frame struct {
	Image image.Image
	Delay time.Duration
}

// Encoder writes an animation named name and returns where it went.
// Implementations check ctx between frames and leave nothing behind when it
// is cancelled.
type Encoder interface {
	Encode(ctx context.Context, frames []Frame, name string) (string, error)
}

// ResolveDir returns dir, or the user cache directory when dir is empty,
// making sure it exists.
func ResolveDir(dir string) (string, error) {
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoCacheDir, err)
		}
		dir = filepath.Join(cache, "flipbook")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCacheDir, err)
	}
	return dir, nil
}
