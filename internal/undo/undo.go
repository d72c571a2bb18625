// Package undo keeps per-frame undo and redo stacks of command values.
//
// A command describes an edit to perform. Undoing pops a command from the
// undo stack and hands it to an Executor, which applies it and returns the
// command that reverses it; that reverse lands on the redo stack. Redo works
// the same way in the other direction, so alternating undo and redo can go
// on forever.
//
// An Engine is not safe for concurrent use; its owner serializes access.
package undo

import (
	"fmt"

	"github.com/google/uuid"

	"flipbook/internal/geom"
	"flipbook/internal/history"
)

type CommandType int

const (
	AppendOp CommandType = iota
	RemoveOp
	MoveShape
	TransformShape
)

func (t CommandType) String() string {
	switch t {
	case AppendOp:
		return "append"
	case RemoveOp:
		return "remove"
	case MoveShape:
		return "move"
	case TransformShape:
		return "transform"
	}
	return "unknown"
}

type Command struct {
	Type    CommandType
	FrameID uuid.UUID

	// AppendOp, RemoveOp
	Op history.Op

	// MoveShape, TransformShape
	ShapeID uuid.UUID
	To      geom.Point
	Scale   float64
	Angle   float64
}

func Append(frameID uuid.UUID, op history.Op) Command {
	return Command{Type: AppendOp, FrameID: frameID, Op: op}
}

func Remove(frameID uuid.UUID, op history.Op) Command {
	return Command{Type: RemoveOp, FrameID: frameID, Op: op}
}

func Move(frameID, shapeID uuid.UUID, to geom.Point) Command {
	return Command{Type: MoveShape, FrameID: frameID, ShapeID: shapeID, To: to}
}

func Transform(frameID, shapeID uuid.UUID, scale, angle float64) Command {
	return Command{Type: TransformShape, FrameID: frameID, ShapeID: shapeID, Scale: scale, Angle: angle}
}

func (c Command) String() string {
	switch c.Type {
	case AppendOp, RemoveOp:
		return fmt.Sprintf("%s %s %s", c.Type, c.Op.Kind, c.Op.ID())
	case MoveShape:
		return fmt.Sprintf("move %s to (%.1f, %.1f)", c.ShapeID, c.To.X, c.To.Y)
	case TransformShape:
		return fmt.Sprintf("transform %s x%.3f %+.3frad", c.ShapeID, c.Scale, c.Angle)
	}
	return c.Type.String()
}

// Executor applies a command and returns the command that reverses it. It
// reports false when the command no longer applies.
type Executor interface {
	Execute(cmd Command) (Command, bool)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(cmd Command) (Command, bool)

func (f ExecutorFunc) Execute(cmd Command) (Command, bool) {
	return f(cmd)
}

type stacks struct {
	undo []Command
	redo []Command
}

type Engine struct {
	frames map[uuid.UUID]*stacks
}

func New() *Engine {
	return &Engine{frames: make(map[uuid.UUID]*stacks)}
}

func (e *Engine) stacks(frameID uuid.UUID) *stacks {
	s, ok := e.frames[frameID]
	if !ok {
		s = &stacks{}
		e.frames[frameID] = s
	}
	return s
}

// RegisterUndo pushes cmd onto the frame's undo stack. clearRedo empties the
// redo stack; pass it for fresh user edits, not for replays.
func (e *Engine) RegisterUndo(frameID uuid.UUID, clearRedo bool, cmd Command) {
	s := e.stacks(frameID)
	s.undo = append(s.undo, cmd)
	if clearRedo {
		s.redo = nil
	}
}

// Undo pops and executes the newest undo command of the frame and pushes
// its reverse onto the redo stack.
func (e *Engine) Undo(frameID uuid.UUID, ex Executor) bool {
	s, ok := e.frames[frameID]
	if !ok || len(s.undo) == 0 {
		return false
	}
	cmd := pop(&s.undo)
	inverse, ok := ex.Execute(cmd)
	if !ok {
		return false
	}
	s.redo = append(s.redo, inverse)
	return true
}

// Redo is the mirror of Undo. It never clears the redo stack.
func (e *Engine) Redo(frameID uuid.UUID, ex Executor) bool {
	s, ok := e.frames[frameID]
	if !ok || len(s.redo) == 0 {
		return false
	}
	cmd := pop(&s.redo)
	inverse, ok := ex.Execute(cmd)
	if !ok {
		return false
	}
	s.undo = append(s.undo, inverse)
	return true
}

func (e *Engine) CanUndo(frameID uuid.UUID) bool {
	s, ok := e.frames[frameID]
	return ok && len(s.undo) > 0
}

func (e *Engine) CanRedo(frameID uuid.UUID) bool {
	s, ok := e.frames[frameID]
	return ok && len(s.redo) > 0
}

// Depth returns the sizes of the frame's undo and redo stacks.
func (e *Engine) Depth(frameID uuid.UUID) (undo, redo int) {
	if s, ok := e.frames[frameID]; ok {
		return len(s.undo), len(s.redo)
	}
	return 0, 0
}

// Clear drops both stacks of one frame.
func (e *Engine) Clear(frameID uuid.UUID) {
	delete(e.frames, frameID)
}

// DropAll drops every frame's stacks.
func (e *Engine) DropAll() {
	e.frames = make(map[uuid.UUID]*stacks)
}

func pop(stack *[]Command) Command {
	last := len(*stack) - 1
	cmd := (*stack)[last]
	(*stack)[last] = Command{}
	*stack = (*stack)[:last]
	return cmd
}
