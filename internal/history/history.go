// Package history records the drawing operations of one frame as a chain
// of layers, newest first.
//
// A layer accumulates fills and shapes until an erase arrives; the erase
// becomes the layer's mask and any later operation starts a new layer in
// front of it. The mask clips the layer it belongs to and every older
// layer, which is what lets an eraser cut through everything drawn before it
// without touching anything drawn after it.
//
// Layers live in an arena and link to the next-older layer by index.
package history

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"flipbook/internal/shape"
)

// None is the index of a missing layer.
const None = -1

type OpKind int

const (
	OpFill OpKind = iota
	OpErase
	OpShape
)

func (k OpKind) String() string {
	switch k {
	case OpFill:
		return "fill"
	case OpErase:
		return "erase"
	case OpShape:
		return "shape"
	}
	return "unknown"
}

// Op is a single appendable operation. Segment is set for fills and
// erases, Shape for shapes.
type Op struct {
	Kind    OpKind
	Segment Segment
	Shape   shape.Shape
}

// SegmentOp wraps a stroke into the operation matching its kind.
func SegmentOp(s Segment) Op {
	if s.Kind == Erase {
		return Op{Kind: OpErase, Segment: s}
	}
	return Op{Kind: OpFill, Segment: s}
}

func ShapeOp(s shape.Shape) Op {
	return Op{Kind: OpShape, Shape: s}
}

func (o Op) ID() uuid.UUID {
	if o.Kind == OpShape {
		if o.Shape == nil {
			return uuid.Nil
		}
		return o.Shape.ID()
	}
	return o.Segment.ID
}

// Node is one layer.
type Node struct {
	EraseMask *Segment
	Shapes    []shape.Shape
	Fills     []Segment
	Next      int
}

func (n *Node) empty() bool {
	return n.EraseMask == nil && len(n.Shapes) == 0 && len(n.Fills) == 0
}

type History struct {
	nodes []Node
	head  int
}

func New() *History {
	return &History{head: None}
}

func (h *History) IsEmpty() bool {
	return h.head == None
}

// Len returns the number of layers in the chain.
func (h *History) Len() int {
	n := 0
	for i := h.head; i != None; i = h.nodes[i].Next {
		n++
	}
	return n
}

// Layers returns the chain from newest to oldest. The pointers are valid
// until the next mutation.
func (h *History) Layers() []*Node {
	var out []*Node
	for i := h.head; i != None; i = h.nodes[i].Next {
		out = append(out, &h.nodes[i])
	}
	return out
}

// Append records op. Fills and shapes join the newest layer unless it
// already carries a mask; an erase becomes the newest layer's mask unless
// that layer already has a mask or holds shapes. Anything else starts a new
// layer.
func (h *History) Append(op Op) {
	if op.Kind == OpShape && op.Shape == nil {
		return
	}
	if h.head != None {
		head := &h.nodes[h.head]
		switch {
		case op.Kind == OpFill && head.EraseMask == nil:
			head.Fills = append(head.Fills, op.Segment)
			return
		case op.Kind == OpShape && head.EraseMask == nil:
			head.Shapes = append(head.Shapes, op.Shape)
			return
		case op.Kind == OpErase && head.EraseMask == nil && len(head.Shapes) == 0:
			seg := op.Segment
			head.EraseMask = &seg
			return
		}
	}

	node := Node{Next: h.head}
	switch op.Kind {
	case OpFill:
		node.Fills = []Segment{op.Segment}
	case OpShape:
		node.Shapes = []shape.Shape{op.Shape}
	case OpErase:
		seg := op.Segment
		node.EraseMask = &seg
	}
	h.nodes = append(h.nodes, node)
	h.head = len(h.nodes) - 1
}

// RemoveLast undoes the most recent Append of op. It only looks at the
// newest layer and reports false when op is not the last operation of its
// kind there. A layer left empty is unlinked.
func (h *History) RemoveLast(op Op) bool {
	if h.head == None {
		return false
	}
	head := &h.nodes[h.head]
	id := op.ID()
	switch op.Kind {
	case OpFill:
		n := len(head.Fills)
		if n == 0 || head.Fills[n-1].ID != id {
			return false
		}
		head.Fills[n-1] = Segment{}
		head.Fills = head.Fills[:n-1]
	case OpShape:
		n := len(head.Shapes)
		if n == 0 || head.Shapes[n-1].ID() != id {
			return false
		}
		head.Shapes[n-1] = nil
		head.Shapes = head.Shapes[:n-1]
	case OpErase:
		if head.EraseMask == nil || head.EraseMask.ID != id {
			return false
		}
		head.EraseMask = nil
	default:
		return false
	}
	if head.empty() {
		h.unlinkHead()
	}
	return true
}

func (h *History) unlinkHead() {
	next := h.nodes[h.head].Next
	if h.head == len(h.nodes)-1 {
		h.nodes[h.head] = Node{}
		h.nodes = h.nodes[:h.head]
	}
	h.head = next
}

// Clone deep-copies the chain. Segments are shared, shapes are copied.
func (h *History) Clone() *History {
	c := &History{head: None}
	layers := h.Layers()
	for i := len(layers) - 1; i >= 0; i-- {
		src := layers[i]
		node := Node{Next: c.head}
		if src.EraseMask != nil {
			seg := *src.EraseMask
			node.EraseMask = &seg
		}
		if len(src.Fills) > 0 {
			node.Fills = append([]Segment(nil), src.Fills...)
		}
		for _, s := range src.Shapes {
			node.Shapes = append(node.Shapes, s.Clone())
		}
		c.nodes = append(c.nodes, node)
		c.head = len(c.nodes) - 1
	}
	return c
}

// Shape finds a shape by id anywhere in the chain.
func (h *History) Shape(id uuid.UUID) shape.Shape {
	for i := h.head; i != None; i = h.nodes[i].Next {
		for _, s := range h.nodes[i].Shapes {
			if s.ID() == id {
				return s
			}
		}
	}
	return nil
}

// LastShape returns the most recently appended shape of the newest layer
// that has any shapes.
func (h *History) LastShape() shape.Shape {
	for i := h.head; i != None; i = h.nodes[i].Next {
		if n := len(h.nodes[i].Shapes); n > 0 {
			return h.nodes[i].Shapes[n-1]
		}
	}
	return nil
}

// Shapes lists every shape from oldest to newest.
func (h *History) Shapes() []shape.Shape {
	layers := h.Layers()
	var out []shape.Shape
	for i := len(layers) - 1; i >= 0; i-- {
		out = append(out, layers[i].Shapes...)
	}
	return out
}

// String describes the chain newest first, for debugging and tests.
func (h *History) String() string {
	var b strings.Builder
	for i, n := range h.Layers() {
		if i > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString("[")
		if n.EraseMask != nil {
			fmt.Fprintf(&b, "erase:%s ", short(n.EraseMask.ID))
		}
		b.WriteString("shapes:")
		for j, s := range n.Shapes {
			if j > 0 {
				b.WriteString(",")
			}
			b.WriteString(short(s.ID()))
		}
		b.WriteString(" fills:")
		for j, s := range n.Fills {
			if j > 0 {
				b.WriteString(",")
			}
			b.WriteString(short(s.ID))
		}
		b.WriteString("]")
	}
	return b.String()
}

func short(id uuid.UUID) string {
	return id.String()[:8]
}
