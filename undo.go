package main

// undo reverts the newest edit of the current frame. An unfinished stroke
// or shape drag is dropped first.
func (m *model) undo() {
	m.endGestures()
	if !m.store.Undo() {
		m.setError("nothing to undo")
		return
	}
	m.clearMessages()
}

func (m *model) redo() {
	m.endGestures()
	if !m.store.Redo() {
		m.setError("nothing to redo")
		return
	}
	m.clearMessages()
}

// endGestures abandons the pen stroke and shape drag in progress.
func (m *model) endGestures() {
	if m.penDown {
		m.store.CancelStroke()
		m.penDown = false
	}
	if m.mode == ModeMove {
		m.store.CancelPreview()
		m.mode = ModeNormal
	}
}
