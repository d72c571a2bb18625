package document

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"flipbook/internal/geom"
	"flipbook/internal/history"
	"flipbook/internal/logging"
	"flipbook/internal/raster"
	"flipbook/internal/shape"
)

const (
	maxGeneratedShapes = 10
	minGeneratedSide   = 10.0
	minGeneratedScale  = 0.1
	maxGeneratedScale  = 5.0
)

// GenerateFrames appends count frames of random shapes. Frames are built
// and rendered concurrently, at most GenerateWorkers at a time, and appended
// together in order once all are ready. Cancelling ctx abandons the batch.
// It reports false without starting when a batch is already running, count
// is not positive or the canvas size is unknown.
func (s *Store) GenerateFrames(ctx context.Context, count int) (<-chan error, bool) {
	s.mu.Lock()
	if s.generating || count <= 0 || s.canvasSize == nil {
		s.mu.Unlock()
		return nil, false
	}
	s.generating = true
	size := *s.canvasSize
	seeds := make([][2]uint64, count)
	for i := range seeds {
		seeds[i] = [2]uint64{s.rng.Uint64(), s.rng.Uint64()}
	}
	workers := s.opts.GenerateWorkers
	s.notify()
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer close(done)
		start := time.Now()
		frames := make([]*Frame, count)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i := range frames {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rng := rand.New(rand.NewPCG(seeds[i][0], seeds[i][1]))
				f := newFrame("")
				f.history = randomHistory(rng, size)
				f.publish(raster.Render(f.history, size, raster.Options{}), f.revision)
				frames[i] = f
				return nil
			})
		}
		err := g.Wait()

		s.mu.Lock()
		if err == nil {
			for _, f := range frames {
				f.Name = s.nextFrameNameLocked()
				s.frames = append(s.frames, f)
			}
		}
		s.generating = false
		total := len(s.frames)
		s.mu.Unlock()
		s.notify()

		if err != nil {
			logging.L().Warn("frame generation abandoned", zap.Error(err))
		} else {
			logging.L().Info("frames generated",
				zap.Int("count", count),
				zap.Int("total", total),
				zap.Duration("took", time.Since(start)))
		}
		done <- err
	}()
	return done, true
}

// randomHistory builds 1 to 10 random shapes that fit inside size.
func randomHistory(rng *rand.Rand, size geom.Size) *history.History {
	h := history.New()
	n := 1 + rng.IntN(maxGeneratedShapes)
	maxSide := max(minGeneratedSide, math.Min(size.Width, size.Height)/2)
	for range n {
		kind := shape.Kinds[rng.IntN(len(shape.Kinds))]
		w := minGeneratedSide + rng.Float64()*(maxSide-minGeneratedSide)
		ht := minGeneratedSide + rng.Float64()*(maxSide-minGeneratedSide)
		origin := geom.Point{
			X: rng.Float64() * math.Max(0, size.Width-w),
			Y: rng.Float64() * math.Max(0, size.Height-ht),
		}
		color := geom.HSB(rng.Float64(), rng.Float64(), rng.Float64())
		sh := shape.New(kind, origin, geom.Size{Width: w, Height: ht}, color)
		a := sh.Attrs()
		a.Scale = minGeneratedScale + rng.Float64()*(maxGeneratedScale-minGeneratedScale)
		a.Rotation = geom.Radians(rng.Float64() * 360)
		h.Append(history.ShapeOp(sh))
	}
	return h
}
