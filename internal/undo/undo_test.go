package undo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipbook/internal/geom"
)

// counter is a toy document: a single integer moved by Transform commands
// whose Scale is used as an additive delta.
type counter struct {
	value int
	calls []CommandType
}

func (c *counter) Execute(cmd Command) (Command, bool) {
	c.calls = append(c.calls, cmd.Type)
	if cmd.Type != TransformShape {
		return Command{}, false
	}
	c.value += int(cmd.Scale)
	return Transform(cmd.FrameID, cmd.ShapeID, -cmd.Scale, 0), true
}

func TestUndoRedoToggle(t *testing.T) {
	e := New()
	frame := uuid.New()
	c := &counter{}

	c.value = 5
	e.RegisterUndo(frame, true, Transform(frame, uuid.Nil, -5, 0))
	require.True(t, e.CanUndo(frame))
	require.False(t, e.CanRedo(frame))

	for i := 0; i < 4; i++ {
		require.True(t, e.Undo(frame, c))
		assert.Equal(t, 0, c.value)
		assert.False(t, e.CanUndo(frame))
		assert.True(t, e.CanRedo(frame))

		require.True(t, e.Redo(frame, c))
		assert.Equal(t, 5, c.value)
		assert.True(t, e.CanUndo(frame))
		assert.False(t, e.CanRedo(frame))
	}
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	e := New()
	frame := uuid.New()
	c := &counter{}
	assert.False(t, e.Undo(frame, c))
	assert.False(t, e.Redo(frame, c))
	assert.Empty(t, c.calls)
}

func TestRegisterClearsRedoOnlyWhenAsked(t *testing.T) {
	e := New()
	frame := uuid.New()
	c := &counter{}

	e.RegisterUndo(frame, true, Transform(frame, uuid.Nil, 1, 0))
	require.True(t, e.Undo(frame, c))
	require.True(t, e.CanRedo(frame))

	e.RegisterUndo(frame, false, Transform(frame, uuid.Nil, 1, 0))
	assert.True(t, e.CanRedo(frame))

	e.RegisterUndo(frame, true, Transform(frame, uuid.Nil, 1, 0))
	assert.False(t, e.CanRedo(frame))
	u, r := e.Depth(frame)
	assert.Equal(t, 2, u)
	assert.Zero(t, r)
}

func TestStacksArePerFrame(t *testing.T) {
	e := New()
	a, b := uuid.New(), uuid.New()
	e.RegisterUndo(a, true, Transform(a, uuid.Nil, 1, 0))
	assert.True(t, e.CanUndo(a))
	assert.False(t, e.CanUndo(b))

	e.RegisterUndo(b, true, Transform(b, uuid.Nil, 1, 0))
	e.Clear(a)
	assert.False(t, e.CanUndo(a))
	assert.True(t, e.CanUndo(b))

	e.DropAll()
	assert.False(t, e.CanUndo(b))
}

func TestFailedExecutionDropsCommand(t *testing.T) {
	e := New()
	frame := uuid.New()
	c := &counter{}
	e.RegisterUndo(frame, true, Move(frame, uuid.New(), geom.Pt(1, 1)))
	assert.False(t, e.Undo(frame, c))
	assert.False(t, e.CanUndo(frame))
	assert.False(t, e.CanRedo(frame))
	assert.Equal(t, []CommandType{MoveShape}, c.calls)
}

func TestExecutorFunc(t *testing.T) {
	e := New()
	frame := uuid.New()
	var seen []Command
	ex := ExecutorFunc(func(cmd Command) (Command, bool) {
		seen = append(seen, cmd)
		return cmd, true
	})
	e.RegisterUndo(frame, true, Move(frame, uuid.Nil, geom.Pt(3, 4)))
	require.True(t, e.Undo(frame, ex))
	require.Len(t, seen, 1)
	assert.Equal(t, "move 00000000-0000-0000-0000-000000000000 to (3.0, 4.0)", seen[0].String())
}
