package document

import (
	"context"
	"time"

	"go.uber.org/zap"

	"flipbook/internal/logging"
)

// StartPlay starts cycling the animation frame at the current rate. It
// needs at least two frames.
func (s *Store) StartPlay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing || len(s.frames) < 2 {
		return false
	}
	s.stroke = nil
	s.requestRasterLocked(s.frames[s.current], false)
	s.playing = true
	s.animIndex = 0
	s.startTickerLocked()
	logging.L().Info("playback started", zap.Int("frames", len(s.frames)), zap.Float64("fps", s.fps))
	s.notify()
	return true
}

func (s *Store) StopPlay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return
	}
	s.stopPlayLocked()
	logging.L().Info("playback stopped")
	s.notify()
}

// SetFramesPerSecond changes the playback and export rate. A running
// playback keeps its position and continues at the new rate.
func (s *Store) SetFramesPerSecond(fps float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fps <= 0 {
		return false
	}
	s.fps = fps
	if s.playing {
		s.stopTicker()
		s.startTickerLocked()
	}
	s.notify()
	return true
}

func (s *Store) stopPlayLocked() {
	if s.stopTicker != nil {
		s.stopTicker()
		s.stopTicker = nil
	}
	s.playing = false
	s.animIndex = 0
}

func (s *Store) startTickerLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopTicker = cancel
	interval := time.Duration(float64(time.Second) / s.fps)
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.tick(ctx)
			}
		}
	}()
}

// tick advances playback by one frame. A frame without a cached image is
// rendered on demand so playback never shows a blank frame for long.
func (s *Store) tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil || !s.playing || len(s.frames) == 0 {
		return
	}
	s.animIndex = (s.animIndex + 1) % len(s.frames)
	if f := s.frames[s.animIndex]; f.image == nil {
		s.requestRasterLocked(f, false)
	}
	s.notify()
}
