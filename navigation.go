package main

import (
	"image"

	"flipbook/internal/geom"
	"flipbook/internal/raster"
)

func (m *model) handleNavigation(key string, speed int) {
	m.handleCursorMove(key, speed)
	m.followCursor()
}

func (m *model) handleCursorMove(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursorX -= speed
	case "l", "right", "L", "shift+right":
		m.cursorX += speed
	case "k", "up", "K", "shift+up":
		m.cursorY -= speed
	case "j", "down", "J", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}

// followCursor feeds the cursor position to whatever gesture is in progress.
func (m *model) followCursor() {
	p := m.canvasPoint()
	switch {
	case m.mode == ModeMove:
		m.store.PreviewDrag(p)
	case m.penDown:
		m.store.ExtendStroke(p)
	}
}

func (m *model) ensureCursorInBounds() {
	cols, rows := m.gridSize()
	m.cursorX = min(max(m.cursorX, 0), max(cols-1, 0))
	m.cursorY = min(max(m.cursorY, 0), max(rows-1, 0))
}

// previewArea is the terminal space left for the canvas preview.
func (m *model) previewArea() (int, int) {
	rows := m.height - 2
	if m.store.FilmStripVisible() {
		rows -= thumbnailPixels/2 + 1
	}
	return max(m.width, 1), max(rows, 1)
}

// gridSize is the preview size in cells. Each cell shows two vertically
// stacked pixels, which keeps the canvas aspect ratio on typical terminals.
func (m *model) gridSize() (int, int) {
	w, h := m.previewArea()
	size := m.canvasSize()
	cw, ch := size.Pixels()
	pw, ph := raster.FitWithin(image.Rect(0, 0, cw, ch), w, h*2)
	return pw, max(ph/2, 1)
}

// canvasPoint maps the cursor cell to the canvas point at its center.
func (m *model) canvasPoint() geom.Point {
	return m.cellPoint(cell{X: m.cursorX, Y: m.cursorY})
}

func (m *model) cellPoint(c cell) geom.Point {
	cols, rows := m.gridSize()
	size := m.canvasSize()
	return geom.Point{
		X: (float64(c.X) + 0.5) * size.Width / float64(cols),
		Y: (float64(c.Y) + 0.5) * size.Height / float64(rows),
	}
}

func (m *model) canvasSize() geom.Size {
	if size, ok := m.store.CanvasSize(); ok {
		return size
	}
	return m.config.CanvasSize()
}
