package document

import (
	"context"
	"image"
	"time"

	"go.uber.org/zap"

	"flipbook/internal/geom"
	"flipbook/internal/history"
	"flipbook/internal/logging"
	"flipbook/internal/raster"
)

// renderJob is everything needed to rasterize a frame without the store
// lock.
type renderJob struct {
	frame    *Frame
	snapshot *history.History
	rev      uint64
	size     geom.Size
}

func (j renderJob) render() *image.RGBA {
	return raster.Render(j.snapshot, j.size, raster.Options{})
}

// snapshotLocked captures f for rendering. It reports false when the canvas
// size is unknown or, unless force is set, when the cached image is current.
func (s *Store) snapshotLocked(f *Frame, force bool) (renderJob, bool) {
	if s.canvasSize == nil {
		return renderJob{}, false
	}
	if !force && !f.dirty && f.image != nil {
		return renderJob{}, false
	}
	return renderJob{
		frame:    f,
		snapshot: f.history.Clone(),
		rev:      f.revision,
		size:     *s.canvasSize,
	}, true
}

// requestRasterLocked renders f in the background when its cached image is
// missing or stale, or always when force is set. Nothing happens before the
// canvas size is known.
func (s *Store) requestRasterLocked(f *Frame, force bool) {
	job, ok := s.snapshotLocked(f, force)
	if !ok {
		return
	}
	s.rendering++
	go func() {
		start := time.Now()
		img := job.render()
		s.mu.Lock()
		f.publish(img, job.rev)
		s.rendering--
		if s.rendering == 0 {
			s.idle.Broadcast()
		}
		s.mu.Unlock()
		logging.L().Debug("frame rasterized",
			zap.String("frame", f.ID.String()),
			zap.Uint64("revision", job.rev),
			zap.Duration("took", time.Since(start)))
		s.notify()
	}()
}

// waitIdleLocked blocks until no background render is running. The lock is
// released while waiting.
func (s *Store) waitIdleLocked() {
	for s.rendering > 0 {
		s.idle.Wait()
	}
}

// eagerRasterLocked re-renders f right away while the film strip shows it.
func (s *Store) eagerRasterLocked(f *Frame) {
	if s.filmStrip {
		s.requestRasterLocked(f, false)
	}
}

// renderAll renders jobs on the calling goroutine without the lock and
// publishes the results together. Nothing is published once ctx is done.
func (s *Store) renderAll(ctx context.Context, jobs []renderJob) ([]*image.RGBA, error) {
	imgs := make([]*image.RGBA, len(jobs))
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		imgs[i] = job.render()
	}
	if len(jobs) == 0 {
		return imgs, nil
	}
	s.mu.Lock()
	for i, job := range jobs {
		job.frame.publish(imgs[i], job.rev)
	}
	s.mu.Unlock()
	s.notify()
	return imgs, nil
}

// RasterizeCurrentFrame queues a render of the current frame if its cache is
// stale.
func (s *Store) RasterizeCurrentFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestRasterLocked(s.frames[s.current], false)
}

// SetFilmStripVisible shows or hides the film strip. Showing it renders
// every stale frame.
func (s *Store) SetFilmStripVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filmStrip == visible {
		return
	}
	s.filmStrip = visible
	if visible {
		for _, f := range s.frames {
			s.requestRasterLocked(f, false)
		}
	}
	s.notify()
}

// Preview renders the current frame as it should look while editing: with
// the selected shape outlined and the in-progress stroke applied. It does
// not touch the cache.
func (s *Store) Preview() *image.RGBA {
	s.mu.RLock()
	if s.canvasSize == nil {
		s.mu.RUnlock()
		return nil
	}
	f := s.frames[s.current]
	snapshot := f.history.Clone()
	opts := raster.Options{Background: s.opts.Background, Selected: f.selected}
	if seg, ok := s.stroke.segment(); ok {
		opts.Pending = &seg
	}
	size := *s.canvasSize
	s.mu.RUnlock()
	return raster.Render(snapshot, size, opts)
}

// OnionSkin returns the previous frame's cached image at half opacity, or
// nil on the first frame or when that frame has not been rendered.
func (s *Store) OnionSkin() *image.RGBA {
	s.mu.RLock()
	var img *image.RGBA
	if s.current > 0 {
		img = s.frames[s.current-1].image
	}
	s.mu.RUnlock()
	if img == nil {
		return nil
	}
	return raster.Fade(img, 0.5)
}

// Thumbnail returns frame i's cached image scaled to fit w x h.
func (s *Store) Thumbnail(i, w, h int) *image.RGBA {
	s.mu.RLock()
	var img *image.RGBA
	if i >= 0 && i < len(s.frames) {
		img = s.frames[i].image
	}
	s.mu.RUnlock()
	if img == nil {
		return nil
	}
	tw, th := raster.FitWithin(img.Bounds(), w, h)
	return raster.Thumbnail(img, tw, th)
}

// AnimationImage returns the cached image of the frame playback is showing.
func (s *Store) AnimationImage() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.animIndex >= len(s.frames) {
		return nil
	}
	return s.frames[s.animIndex].image
}
