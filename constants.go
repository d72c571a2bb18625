package main

import (
	"time"

	"flipbook/internal/geom"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeMove
	ModeConfirm
)

type Instrument int

const (
	InstrumentPen Instrument = iota
	InstrumentEraser
)

type ConfirmAction int

const (
	ConfirmClearAll ConfirmAction = iota
	ConfirmRemoveFrame
	ConfirmQuit
)

const (
	generateBatch   = 5
	rotateStep      = 15.0 // degrees
	scaleStep       = 1.1
	fpsStep         = 1.0
	maxFPS          = 60.0
	lineWidthStep   = 2.0
	thumbnailPixels = 12
	messageTimeout  = 4 * time.Second
)

// palette is what 'c' cycles through.
var palette = []geom.Color{
	geom.Black,
	geom.RGB(0.86, 0.2, 0.18),
	geom.RGB(0.96, 0.6, 0.1),
	geom.RGB(0.95, 0.85, 0.2),
	geom.RGB(0.25, 0.7, 0.3),
	geom.RGB(0.2, 0.45, 0.9),
	geom.RGB(0.55, 0.3, 0.8),
	geom.White,
}
