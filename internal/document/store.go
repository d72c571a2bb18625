// Package document owns the animation being edited: its frames, the
// per-frame undo history, playback, batch generation and export.
//
// A Store is the single writer of document state. Every exported method
// takes the store's lock, so callers may use it from any goroutine. Slow
// work (rasterizing, generating, encoding) runs on background goroutines
// that only take the lock to publish their results; Changes signals after
// each publication.
package document

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"flipbook/internal/export"
	"flipbook/internal/geom"
	"flipbook/internal/logging"
	"flipbook/internal/undo"
)

const (
	DefaultFramesPerSecond = 8
	DefaultGenerateWorkers = 4
)

type Options struct {
	FramesPerSecond float64
	// Encoder receives animation exports. Without one, exports fail with
	// export.ErrNoEncoder.
	Encoder export.Encoder
	// OutputDir is where storyboards are written; empty means the user
	// cache directory.
	OutputDir string
	// Background is what frames are flattened onto for storyboards.
	Background      geom.Color
	GenerateWorkers int
	StampFrameNames bool
	// Rand drives batch generation. Nil seeds one from the clock.
	Rand *rand.Rand
}

type Store struct {
	mu sync.RWMutex

	frames  []*Frame
	current int
	// named counts the frame names handed out so far.
	named      int
	canvasSize *geom.Size
	filmStrip  bool
	stroke     *pendingStroke

	undo *undo.Engine

	fps        float64
	playing    bool
	animIndex  int
	stopTicker context.CancelFunc

	generating bool

	exporting    bool
	exportSeq    uint64
	exportCancel context.CancelFunc
	artifact     string
	exportErr    error

	opts Options
	rng  *rand.Rand
	// rendering counts background rasterizations in flight; idle is
	// broadcast when it drops to zero.
	rendering int
	idle      *sync.Cond
	changes   chan struct{}
}

func New(opts Options) *Store {
	if opts.FramesPerSecond <= 0 {
		opts.FramesPerSecond = DefaultFramesPerSecond
	}
	if opts.GenerateWorkers <= 0 {
		opts.GenerateWorkers = DefaultGenerateWorkers
	}
	if opts.Background.A == 0 {
		opts.Background = geom.White
	}
	rng := opts.Rand
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>17))
	}
	s := &Store{
		undo:    undo.New(),
		fps:     opts.FramesPerSecond,
		opts:    opts,
		rng:     rng,
		changes: make(chan struct{}, 1),
	}
	s.idle = sync.NewCond(&s.mu)
	s.frames = []*Frame{newFrame(s.nextFrameNameLocked())}
	return s
}

// nextFrameNameLocked names a new frame. Names are never reused, even after
// frames are removed, until the document is reset.
func (s *Store) nextFrameNameLocked() string {
	s.named++
	return fmt.Sprintf("Frame %d", s.named)
}

// Changes is signalled, without blocking and coalesced, whenever observable
// state changes.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

func (s *Store) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Wait blocks until no background rasterization is running. It is safe to
// call while playback keeps queueing renders.
func (s *Store) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waitIdleLocked()
}

// Close stops playback, cancels any export and waits for background work.
func (s *Store) Close() {
	s.mu.Lock()
	s.stopPlayLocked()
	if s.exportCancel != nil {
		s.exportCancel()
	}
	s.waitIdleLocked()
	s.mu.Unlock()
}

// SetCanvasSize records the canvas size. Only the first valid size sticks.
func (s *Store) SetCanvasSize(size geom.Size) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canvasSize != nil || !size.Valid() {
		return false
	}
	s.canvasSize = &size
	logging.L().Debug("canvas size set", zap.Float64("width", size.Width), zap.Float64("height", size.Height))
	s.notify()
	return true
}

func (s *Store) CanvasSize() (geom.Size, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.canvasSize == nil {
		return geom.Size{}, false
	}
	return *s.canvasSize, true
}

func (s *Store) Frames() []FrameInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]FrameInfo, len(s.frames))
	for i, f := range s.frames {
		out[i] = f.info()
	}
	return out
}

func (s *Store) FrameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}

func (s *Store) CurrentFrameIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) CurrentFrame() FrameInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames[s.current].info()
}

func (s *Store) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.undo.CanUndo(s.frames[s.current].ID)
}

func (s *Store) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.undo.CanRedo(s.frames[s.current].ID)
}

func (s *Store) IsPlaying() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playing
}

func (s *Store) AnimationFrameIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.animIndex
}

func (s *Store) FramesPerSecond() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fps
}

func (s *Store) IsGeneratingFrames() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generating
}

func (s *Store) IsExporting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exporting
}

// ExportedArtifact returns the location of the last successful export.
func (s *Store) ExportedArtifact() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.artifact, s.artifact != ""
}

// ExportError returns the failure of the last finished export, if any.
func (s *Store) ExportError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exportErr
}

func (s *Store) FilmStripVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filmStrip
}

// frameByID finds a frame by id. Callers hold the lock.
func (s *Store) frameByID(id uuid.UUID) *Frame {
	for _, f := range s.frames {
		if f.ID == id {
			return f
		}
	}
	return nil
}
