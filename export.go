package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"flipbook/internal/logging"
	"flipbook/internal/raster"
)

// exportAnimation starts a GIF export, superseding any export in flight,
// and delivers its result as an exportDoneMsg.
func (m *model) exportAnimation() tea.Cmd {
	done := m.store.ExportAnimation()
	m.successMessage = "exporting..."
	return func() tea.Msg {
		return exportDoneMsg{result: <-done}
	}
}

func (m *model) exportStoryboard() tea.Cmd {
	store := m.store
	m.successMessage = "writing storyboard..."
	return func() tea.Msg {
		path, err := store.ExportStoryboard(context.Background())
		return storyboardDoneMsg{path: path, err: err}
	}
}

// exportFramePNG writes the current frame, flattened onto the background,
// next to the other artifacts.
func (m *model) exportFramePNG() error {
	m.store.RasterizeCurrentFrame()
	m.store.Wait()
	f := m.store.CurrentFrame()
	if f.Image == nil {
		return errors.New("canvas not ready")
	}
	name := strings.ToLower(strings.ReplaceAll(f.Name, " ", "-")) + ".png"
	path := m.config.GetSavePath(name)
	if err := gg.SavePNG(path, raster.Flatten(f.Image, m.config.BackgroundColor())); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	m.successMessage = "saved " + path
	return nil
}

func (m *model) generateFrames(count int) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	done, ok := m.store.GenerateFrames(ctx, count)
	if !ok {
		cancel()
		m.setError("generation already running")
		return nil
	}
	m.cancelGenerate = cancel
	m.successMessage = fmt.Sprintf("generating %d frames...", count)
	return func() tea.Msg {
		return generateDoneMsg{err: <-done}
	}
}

// handleExportDone reports a finished export and puts the artifact path on
// the clipboard.
func (m *model) handleExportDone(res exportDoneMsg) tea.Cmd {
	switch {
	case res.result.Canceled:
		return nil
	case res.result.Err != nil:
		m.setError(res.result.Err.Error())
		return nil
	}
	msg := "exported " + res.result.Path
	if err := clipboard.WriteAll(res.result.Path); err != nil {
		logging.L().Debug("clipboard unavailable", zap.Error(err))
	} else {
		msg += " (path copied)"
	}
	return m.setSuccess(msg)
}
