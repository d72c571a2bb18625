package main

import (
	"context"

	"flipbook/internal/document"
)

type model struct {
	width   int
	height  int
	cursorX int
	cursorY int

	store  *document.Store
	config *Config

	mode          Mode
	confirmAction ConfirmAction
	help          bool
	helpScroll    int

	instrument Instrument
	penDown    bool
	colorIndex int
	lineWidth  float64
	onionSkin  bool

	// previewScale and previewAngle accumulate adjustments made while
	// moving a shape; they are committed together with the drag.
	previewScale float64
	previewAngle float64

	// cancelGenerate stops a running batch generation.
	cancelGenerate context.CancelFunc

	errorMessage   string
	successMessage string
	messageSeq     int
}

// changedMsg reports that the document store published new state.
type changedMsg struct{}

type exportDoneMsg struct {
	result document.ExportResult
}

type storyboardDoneMsg struct {
	path string
	err  error
}

type generateDoneMsg struct {
	err error
}

type clearMessageMsg struct {
	seq int
}

// cell is a position in the terminal preview grid.
type cell struct {
	X, Y int
}
