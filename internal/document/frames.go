package document

import (
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"flipbook/internal/history"
	"flipbook/internal/logging"
)

// AddFrame moves to the next frame, appending an empty one first when the
// current frame is the last.
func (s *Store) AddFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.frames[s.current]
	if s.current == len(s.frames)-1 {
		s.frames = append(s.frames, newFrame(s.nextFrameNameLocked()))
		logging.L().Debug("frame added", zap.Int("count", len(s.frames)))
	}
	s.leaveFrameLocked(prev, true)
	s.current++
	s.notify()
}

// RemoveCurrentFrame empties the current frame under a new id and drops its
// undo history. Unless it is the first frame, it is then removed and the
// previous frame becomes current, so the document never runs out of frames.
func (s *Store) RemoveCurrentFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stroke = nil
	old := s.frames[s.current]
	s.undo.Clear(old.ID)
	s.frames[s.current] = newFrame(old.Name)
	if s.current > 0 {
		s.current--
		s.frames = slices.Delete(s.frames, s.current+1, s.current+2)
	}
	if len(s.frames) < 2 {
		s.stopPlayLocked()
	}
	s.clampAnimLocked()
	logging.L().Debug("frame removed", zap.Int("count", len(s.frames)), zap.Int("current", s.current))
	s.notify()
}

// RemoveAllFrames resets the document to a single empty frame and forgets
// every undo history.
func (s *Store) RemoveAllFrames() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stroke = nil
	s.stopPlayLocked()
	s.named = 0
	s.frames = []*Frame{newFrame(s.nextFrameNameLocked())}
	s.current = 0
	s.undo.DropAll()
	logging.L().Debug("all frames removed")
	s.notify()
}

// ClearCurrentFrame wipes the current frame's drawing and undo history but
// keeps the frame itself.
func (s *Store) ClearCurrentFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stroke = nil
	f := s.frames[s.current]
	if f.history.IsEmpty() && !s.undo.CanUndo(f.ID) && !s.undo.CanRedo(f.ID) {
		return
	}
	f.history = history.New()
	f.selected = uuid.Nil
	f.touch()
	s.undo.Clear(f.ID)
	s.eagerRasterLocked(f)
	s.notify()
}

// DuplicateCurrentFrame inserts a copy of the current frame after it and
// moves to the copy. The copy starts with no undo history.
func (s *Store) DuplicateCurrentFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stroke = nil
	src := s.frames[s.current]
	dup := src.duplicate(src.Name + " copy")
	s.frames = slices.Insert(s.frames, s.current+1, dup)
	s.current++
	logging.L().Debug("frame duplicated", zap.String("source", src.Name))
	s.notify()
}

// ChangeCurrentFrame switches to frame i, making sure the frame being left
// has an up-to-date cached image.
func (s *Store) ChangeCurrentFrame(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changeFrameLocked(i)
}

func (s *Store) SelectFrame(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.frames {
		if f.ID == id {
			return s.changeFrameLocked(i)
		}
	}
	return false
}

func (s *Store) changeFrameLocked(i int) bool {
	if i < 0 || i >= len(s.frames) || i == s.current {
		return false
	}
	s.stroke = nil
	s.leaveFrameLocked(s.frames[s.current], false)
	s.current = i
	s.notify()
	return true
}

// leaveFrameLocked drops transient gesture state of the frame being left
// and queues its rasterization; force re-renders even a clean frame.
func (s *Store) leaveFrameLocked(f *Frame, force bool) {
	s.resetPreviewLocked(f)
	s.requestRasterLocked(f, force)
}

func (s *Store) clampAnimLocked() {
	if s.animIndex >= len(s.frames) {
		s.animIndex = 0
	}
}
