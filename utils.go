package main

import (
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"flipbook/internal/geom"
	"flipbook/internal/raster"
)

var (
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d0d0d0"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fd75f"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff9919")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a"))
	currentStyle = lipgloss.NewStyle().Reverse(true)
)

func (m *model) setError(msg string) {
	m.errorMessage = msg
	m.successMessage = ""
}

// setSuccess shows msg and clears it again after a while.
func (m *model) setSuccess(msg string) tea.Cmd {
	m.successMessage = msg
	m.errorMessage = ""
	m.messageSeq++
	seq := m.messageSeq
	return tea.Tick(messageTimeout, func(time.Time) tea.Msg {
		return clearMessageMsg{seq: seq}
	})
}

func (m *model) clearMessages() {
	m.errorMessage = ""
	m.successMessage = ""
}

func (m *model) currentColor() geom.Color {
	return palette[m.colorIndex%len(palette)]
}

func colorOf(r, g, b uint8) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

// renderBlocks draws img as cols x rows half-block characters, two pixels
// per cell. The cursor cell, if any, is drawn as a crosshair.
func renderBlocks(img image.Image, cols, rows int, cursor *cell) string {
	small := raster.Thumbnail(img, cols, rows*2)
	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := small.RGBAAt(x, 2*y)
			bottom := small.RGBAAt(x, 2*y+1)
			if cursor != nil && cursor.X == x && cursor.Y == y {
				b.WriteString(cursorStyle.Background(colorOf(bottom.R, bottom.G, bottom.B)).Render("+"))
				continue
			}
			style := lipgloss.NewStyle().
				Foreground(colorOf(top.R, top.G, top.B)).
				Background(colorOf(bottom.R, bottom.G, bottom.B))
			b.WriteString(style.Render("▀"))
		}
		if y < rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// blankBlocks fills a cols x rows area for frames without an image yet.
func blankBlocks(cols, rows int) string {
	line := strings.Repeat("░", cols)
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = line
	}
	return labelStyle.Render(strings.Join(lines, "\n"))
}

// mouseCell maps a terminal position to a preview cell.
func (m *model) mouseCell(x, y int) (cell, bool) {
	cols, rows := m.gridSize()
	if x < 0 || y < 0 || x >= cols || y >= rows {
		return cell{}, false
	}
	return cell{X: x, Y: y}, true
}
