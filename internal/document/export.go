package document

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/anthonynsimon/bild/clone"
	"go.uber.org/zap"

	"flipbook/internal/export"
	"flipbook/internal/logging"
	"flipbook/internal/raster"
)

const labelSize = 14

type ExportResult struct {
	Path string
	Err  error
	// Canceled is set when a newer export or CancelExport superseded this
	// one. Canceled results are never errors.
	Canceled bool
}

// ExportAnimation encodes every rendered frame into an animation in the
// background, cancelling any export still running. Frames without a cached
// image are left out; the current frame is rendered first, off the lock,
// when stale. Only the newest export publishes its result, and a superseded
// one deletes whatever it wrote. A failure keeps the previous artifact.
func (s *Store) ExportAnimation() <-chan ExportResult {
	done := make(chan ExportResult, 1)

	s.mu.Lock()
	if s.exportCancel != nil {
		s.exportCancel()
		logging.L().Info("export superseded")
	}
	s.exportSeq++
	seq := s.exportSeq
	enc := s.opts.Encoder
	if enc == nil {
		s.exporting = false
		s.exportCancel = nil
		s.exportErr = export.ErrNoEncoder
		s.mu.Unlock()
		s.notify()
		done <- ExportResult{Err: export.ErrNoEncoder}
		close(done)
		return done
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.exportCancel = cancel
	s.exporting = true
	var jobs []renderJob
	if job, ok := s.snapshotLocked(s.frames[s.current], false); ok {
		jobs = append(jobs, job)
	}
	frames := s.frameImagesLocked()
	delay := time.Duration(float64(time.Second) / s.fps)
	stamp := s.opts.StampFrameNames
	s.mu.Unlock()
	s.notify()

	go func() {
		defer close(done)
		defer cancel()
		imgs, err := s.renderAll(ctx, jobs)
		if err != nil {
			done <- s.finishExport(ctx, seq, "", err)
			return
		}
		for i, job := range jobs {
			frames.replace(job.frame, imgs[i])
		}
		name := "flipbook-" + time.Now().Format("20060102-150405")
		out := frames.export(delay, stamp)
		logging.L().Info("export started", zap.Int("frames", len(out)), zap.String("name", name))
		path, err := enc.Encode(ctx, out, name)
		done <- s.finishExport(ctx, seq, path, err)
	}()
	return done
}

// CancelExport stops the running export, if any, without an error.
func (s *Store) CancelExport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exportCancel == nil {
		return
	}
	s.exportCancel()
	s.exportCancel = nil
	s.exportSeq++
	s.exporting = false
	s.notify()
}

func (s *Store) finishExport(ctx context.Context, seq uint64, path string, err error) ExportResult {
	s.mu.Lock()
	if seq != s.exportSeq {
		s.mu.Unlock()
		if err == nil && path != "" {
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				logging.L().Warn("superseded export not removed", zap.String("path", path), zap.Error(rmErr))
			}
		}
		logging.L().Info("export canceled", zap.Uint64("seq", seq))
		return ExportResult{Canceled: true}
	}
	defer s.mu.Unlock()
	s.exporting = false
	s.exportCancel = nil
	s.notify()
	if err != nil && ctx.Err() != nil {
		logging.L().Info("export canceled", zap.Uint64("seq", seq))
		return ExportResult{Canceled: true}
	}
	if err != nil {
		s.exportErr = err
		logging.L().Error("export failed", zap.Error(err))
		return ExportResult{Err: err}
	}
	s.artifact = path
	s.exportErr = nil
	logging.L().Info("export finished", zap.String("path", path))
	return ExportResult{Path: path}
}

// frameImage is a frame's cached image as it was when an export began.
type frameImage struct {
	frame *Frame
	name  string
	image *image.RGBA
}

type frameImages []frameImage

func (s *Store) frameImagesLocked() frameImages {
	out := make(frameImages, len(s.frames))
	for i, f := range s.frames {
		out[i] = frameImage{frame: f, name: f.Name, image: f.image}
	}
	return out
}

func (fs frameImages) replace(f *Frame, img *image.RGBA) {
	for i := range fs {
		if fs[i].frame == f {
			fs[i].image = img
		}
	}
}

// export lists the rendered frames in order with the given delay, skipping
// frames without an image.
func (fs frameImages) export(delay time.Duration, stamp bool) []export.Frame {
	var out []export.Frame
	for _, fi := range fs {
		if fi.image == nil {
			continue
		}
		var img image.Image = fi.image
		if stamp {
			img = stamped(fi.image, fi.name)
		}
		out = append(out, export.Frame{Image: img, Delay: delay})
	}
	return out
}

func stamped(src *image.RGBA, label string) image.Image {
	img := clone.AsRGBA(src)
	if err := raster.StampLabel(img, label, labelSize); err != nil {
		logging.L().Warn("frame label skipped", zap.Error(err))
		return src
	}
	return img
}

// ExportStoryboard renders every frame and writes them to a PDF contact
// sheet in the output directory. Stale frames are rendered without holding
// the store, then cached.
func (s *Store) ExportStoryboard(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.canvasSize == nil {
		s.mu.RUnlock()
		return "", export.ErrNoFrames
	}
	frames := s.frameImagesLocked()
	var jobs []renderJob
	for _, f := range s.frames {
		if job, ok := s.snapshotLocked(f, false); ok {
			jobs = append(jobs, job)
		}
	}
	bg := s.opts.Background
	dir := s.opts.OutputDir
	s.mu.RUnlock()

	imgs, err := s.renderAll(ctx, jobs)
	if err != nil {
		return "", err
	}
	for i, job := range jobs {
		frames.replace(job.frame, imgs[i])
	}
	panels := make([]export.Panel, len(frames))
	for i, fi := range frames {
		panels[i] = export.Panel{Caption: fi.name, Image: raster.Flatten(fi.image, bg)}
	}

	dir, err = export.ResolveDir(dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "flipbook-"+time.Now().Format("20060102-150405")+".pdf")
	if err := export.WriteStoryboard(path, "Flipbook storyboard", panels); err != nil {
		return "", fmt.Errorf("storyboard: %w", err)
	}
	logging.L().Info("storyboard written", zap.String("path", path), zap.Int("frames", len(panels)))
	return path, nil
}
