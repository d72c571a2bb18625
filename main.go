package main

import (
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"flipbook/internal/document"
	"flipbook/internal/export"
	"flipbook/internal/geom"
	"flipbook/internal/history"
	"flipbook/internal/logging"
	"flipbook/internal/raster"
	"flipbook/internal/shape"
)

func main() {
	config := loadConfig()
	if config.LogFile != "" {
		logger, err := logging.NewFile(config.LogFile, config.LogDebug)
		if err != nil {
			log.Fatal(err)
		}
		logging.SetLogger(logger)
		defer logger.Sync()
	}

	store := newStore(config)
	defer store.Close()

	p := tea.NewProgram(
		initialModel(config, store),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

func newStore(config *Config) *document.Store {
	bg := config.BackgroundColor()
	return document.New(document.Options{
		FramesPerSecond: config.FramesPerSecond,
		Encoder:         &export.GIFEncoder{Dir: config.SaveDirectory, Background: bg},
		OutputDir:       config.SaveDirectory,
		Background:      bg,
		GenerateWorkers: config.GenerateWorkers,
		StampFrameNames: config.StampFrameNames,
	})
}

func initialModel(config *Config, store *document.Store) model {
	return model{
		store:     store,
		config:    config,
		mode:      ModeNormal,
		lineWidth: config.LineWidth,
	}
}

// waitForChange turns the store's change signal into a message.
func waitForChange(store *document.Store) tea.Cmd {
	return func() tea.Msg {
		<-store.Changes()
		return changedMsg{}
	}
}

func (m model) Init() tea.Cmd {
	return waitForChange(m.store)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		first := m.width == 0
		m.width = msg.Width
		m.height = msg.Height
		m.store.SetCanvasSize(m.config.CanvasSize())
		if first {
			cols, rows := m.gridSize()
			m.cursorX, m.cursorY = cols/2, rows/2
		}
		m.ensureCursorInBounds()
		return m, nil

	case changedMsg:
		return m, waitForChange(m.store)

	case exportDoneMsg:
		return m, m.handleExportDone(msg)

	case storyboardDoneMsg:
		if msg.err != nil {
			m.setError(msg.err.Error())
			return m, nil
		}
		return m, m.setSuccess("storyboard " + msg.path)

	case generateDoneMsg:
		m.cancelGenerate = nil
		if msg.err != nil {
			m.setError("generation stopped")
			return m, nil
		}
		return m, m.setSuccess(fmt.Sprintf("%d frames", m.store.FrameCount()))

	case clearMessageMsg:
		if msg.seq == m.messageSeq {
			m.clearMessages()
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.help {
			return m.handleHelpKey(msg.String())
		}
		switch m.mode {
		case ModeConfirm:
			return m.handleConfirmKey(msg.String())
		case ModeMove:
			return m.handleMoveKey(msg.String())
		}
		return m.handleNormalKey(msg.String())
	}
	return m, nil
}

func (m model) handleHelpKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		if m.helpScroll < len(helpLines)-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
	return m, nil
}

func (m model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	if key != "y" && key != "Y" {
		return m, nil
	}
	switch m.confirmAction {
	case ConfirmClearAll:
		m.store.RemoveAllFrames()
	case ConfirmRemoveFrame:
		m.store.RemoveCurrentFrame()
	case ConfirmQuit:
		return m.quit()
	}
	return m, nil
}

func (m model) handleMoveKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter":
		m.store.CommitDrag(true)
		m.store.CommitScaleRotation(true)
		m.mode = ModeNormal
	case "esc":
		m.store.CancelPreview()
		m.mode = ModeNormal
	case "[", "]", "-", "=":
		m.previewAdjust(key)
	default:
		m.handleNavigation(key, m.getMoveSpeed(key))
	}
	return m, nil
}

func (m model) handleNormalKey(key string) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	switch key {
	case "ctrl+c":
		return m.quit()
	case "q":
		if m.config.Confirmations {
			return m.confirm(ConfirmQuit)
		}
		return m.quit()
	case "?":
		m.help = true
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		m.handleNavigation(key, m.getMoveSpeed(key))
	case " ":
		m.togglePen()
	case "x":
		m.endGestures()
		if m.instrument == InstrumentEraser {
			m.instrument = InstrumentPen
		} else {
			m.instrument = InstrumentEraser
		}
	case "1", "2", "3":
		m.endGestures()
		kind := shape.Kinds[key[0]-'1']
		m.store.AddShapeWithUndo(shape.NewAt(kind, m.canvasPoint(), m.currentColor()))
	case "m":
		m.endGestures()
		if _, ok := m.store.SelectedShape(); !ok {
			m.setError("no shape selected")
			return m, nil
		}
		m.mode = ModeMove
		m.previewScale, m.previewAngle = 1, 0
		m.store.PreviewDrag(m.canvasPoint())
	case "[", "]", "-", "=":
		m.adjustSelected(key)
	case "tab":
		m.store.CycleSelection()
	case "esc":
		m.endGestures()
		m.store.ClearSelection()
	case "c":
		m.colorIndex = (m.colorIndex + 1) % len(palette)
	case "<", ">":
		if key == "<" {
			m.lineWidth = max(1, m.lineWidth-lineWidthStep)
		} else {
			m.lineWidth += lineWidthStep
		}
	case "n", "N":
		m.endGestures()
		step := 1
		if key == "N" {
			step = -1
		}
		m.store.ChangeCurrentFrame(m.store.CurrentFrameIndex() + step)
	case "a":
		m.endGestures()
		m.store.AddFrame()
	case "d":
		m.endGestures()
		m.store.DuplicateCurrentFrame()
	case "D":
		m.endGestures()
		if m.config.Confirmations {
			return m.confirm(ConfirmRemoveFrame)
		}
		m.store.RemoveCurrentFrame()
	case "C":
		m.endGestures()
		m.store.ClearCurrentFrame()
	case "X":
		m.endGestures()
		if m.config.Confirmations {
			return m.confirm(ConfirmClearAll)
		}
		m.store.RemoveAllFrames()
	case "u":
		m.undo()
	case "r":
		m.redo()
	case "p":
		m.endGestures()
		if m.store.IsPlaying() {
			m.store.StopPlay()
		} else if !m.store.StartPlay() {
			m.setError("need at least two frames")
		}
	case "+", "_":
		fps := m.store.FramesPerSecond()
		if key == "+" {
			fps = min(maxFPS, fps+fpsStep)
		} else {
			fps = max(1, fps-fpsStep)
		}
		m.store.SetFramesPerSecond(fps)
	case "g":
		return m, m.generateFrames(generateBatch)
	case "G":
		if m.cancelGenerate != nil {
			m.cancelGenerate()
		}
	case "e":
		m.endGestures()
		return m, m.exportAnimation()
	case "E":
		m.store.CancelExport()
	case "P":
		m.endGestures()
		return m, m.exportStoryboard()
	case "S":
		if err := m.exportFramePNG(); err != nil {
			m.setError(err.Error())
		}
	case "f":
		m.store.SetFilmStripVisible(!m.store.FilmStripVisible())
		m.ensureCursorInBounds()
	case "o":
		m.onionSkin = !m.onionSkin
	}
	return m, nil
}

func (m model) confirm(action ConfirmAction) (tea.Model, tea.Cmd) {
	m.mode = ModeConfirm
	m.confirmAction = action
	return m, nil
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.endGestures()
	if m.cancelGenerate != nil {
		m.cancelGenerate()
	}
	return m, tea.Quit
}

// togglePen starts a stroke at the cursor or finishes the current one.
func (m *model) togglePen() {
	if m.penDown {
		m.store.EndStroke()
		m.penDown = false
		return
	}
	kind := history.Fill
	if m.instrument == InstrumentEraser {
		kind = history.Erase
	}
	if m.store.BeginStroke(kind, m.currentColor(), m.lineWidth) {
		m.store.ExtendStroke(m.canvasPoint())
		m.penDown = true
	}
}

// adjustSelected rotates or scales the selected shape in one committed step.
func (m *model) adjustSelected(key string) {
	id, ok := m.store.SelectedShape()
	if !ok {
		m.setError("no shape selected")
		return
	}
	factor, angle := adjustment(key)
	m.store.ScaleAndRotateShapeWithUndo(id, factor, angle, true)
}

// previewAdjust accumulates rotation and scaling into the move preview.
func (m *model) previewAdjust(key string) {
	factor, angle := adjustment(key)
	m.previewScale *= factor
	m.previewAngle += angle
	m.store.PreviewScaleRotation(m.previewScale, m.previewAngle)
}

func adjustment(key string) (float64, float64) {
	switch key {
	case "[":
		return 1, -geom.Radians(rotateStep)
	case "]":
		return 1, geom.Radians(rotateStep)
	case "-":
		return 1 / scaleStep, 0
	default:
		return scaleStep, 0
	}
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.help || m.mode != ModeNormal {
		return m, nil
	}
	c, ok := m.mouseCell(msg.X, msg.Y)
	switch msg.Type {
	case tea.MouseLeft:
		if !ok {
			return m, nil
		}
		m.cursorX, m.cursorY = c.X, c.Y
		if !m.penDown {
			m.togglePen()
		} else {
			m.followCursor()
		}
	case tea.MouseMotion:
		if ok && m.penDown {
			m.cursorX, m.cursorY = c.X, c.Y
			m.followCursor()
		}
	case tea.MouseRelease:
		if m.penDown {
			m.togglePen()
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	cols, rows := m.gridSize()
	var result strings.Builder
	result.WriteString(m.canvasView(cols, rows))
	if m.store.FilmStripVisible() {
		result.WriteString("\n")
		result.WriteString(m.filmStripView())
	}
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) canvasView(cols, rows int) string {
	bg := m.config.BackgroundColor()
	if m.store.IsPlaying() {
		img := m.store.AnimationImage()
		if img == nil {
			return blankBlocks(cols, rows)
		}
		return renderBlocks(raster.Flatten(img, bg), cols, rows, nil)
	}
	img := m.store.Preview()
	if img == nil {
		return blankBlocks(cols, rows)
	}
	if m.onionSkin {
		if skin := m.store.OnionSkin(); skin != nil {
			img = raster.Overlay(img, skin)
		}
	}
	return renderBlocks(img, cols, rows, &cell{X: m.cursorX, Y: m.cursorY})
}

func (m model) filmStripView() string {
	frames := m.store.Frames()
	current := m.store.CurrentFrameIndex()
	bg := m.config.BackgroundColor()
	visible := max(1, m.width/(thumbnailPixels+1))
	start := min(max(0, current-visible/2), max(0, len(frames)-visible))
	end := min(len(frames), start+visible)

	box := lipgloss.NewStyle().Width(thumbnailPixels).Height(thumbnailPixels / 2)
	var items []string
	for i := start; i < end; i++ {
		var thumb string
		if img := m.store.Thumbnail(i, thumbnailPixels, thumbnailPixels); img != nil {
			b := img.Bounds()
			thumb = renderBlocks(raster.Flatten(img, bg), b.Dx(), max(b.Dy()/2, 1), nil)
		} else {
			thumb = blankBlocks(thumbnailPixels, thumbnailPixels/2)
		}
		label := fmt.Sprintf("%d", i+1)
		if frames[i].Dirty {
			label += "*"
		}
		if i == current {
			label = currentStyle.Render(label)
		} else {
			label = labelStyle.Render(label)
		}
		items = append(items, lipgloss.JoinVertical(lipgloss.Left, box.Render(thumb), label), " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (m model) statusLine() string {
	if m.mode == ModeConfirm {
		var message string
		switch m.confirmAction {
		case ConfirmClearAll:
			message = "Remove all frames? (y/n)"
		case ConfirmRemoveFrame:
			message = "Remove this frame? (y/n)"
		case ConfirmQuit:
			message = "Quit flipbook? (y/n)"
		}
		return statusStyle.Render("CONFIRM | ") + errorStyle.Render(message)
	}

	f := m.store.CurrentFrame()
	parts := []string{
		m.modeString(),
		fmt.Sprintf("%s (%d/%d)", f.Name, m.store.CurrentFrameIndex()+1, m.store.FrameCount()),
	}
	c := m.currentColor().NRGBA()
	swatch := lipgloss.NewStyle().Foreground(colorOf(c.R, c.G, c.B)).Render("■")
	parts = append(parts, fmt.Sprintf("%s %s w%.0f", m.instrumentString(), swatch, m.lineWidth))
	parts = append(parts, fmt.Sprintf("%.0f fps", m.store.FramesPerSecond()))
	if m.store.IsPlaying() {
		parts = append(parts, fmt.Sprintf("playing %d", m.store.AnimationFrameIndex()+1))
	}
	if m.store.IsGeneratingFrames() {
		parts = append(parts, "generating")
	}
	if m.store.IsExporting() {
		parts = append(parts, "exporting")
	}
	if id, ok := m.store.SelectedShape(); ok {
		for _, s := range m.store.Shapes() {
			if s.ID == id {
				parts = append(parts, fmt.Sprintf("%s x%.2f %.0f°", s.Kind, s.Scale, geom.Degrees(s.Rotation)))
			}
		}
	}
	status := statusStyle.Render(strings.Join(parts, " | "))
	switch {
	case m.errorMessage != "":
		status += statusStyle.Render(" | ") + errorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		status += statusStyle.Render(" | ") + successStyle.Render(m.successMessage)
	default:
		status += statusStyle.Render(" | ? for help | q to quit")
	}
	return status
}

func (m model) modeString() string {
	switch {
	case m.mode == ModeMove:
		return "MOVE"
	case m.penDown:
		return "DRAW"
	default:
		return "NORMAL"
	}
}

func (m model) instrumentString() string {
	if m.instrument == InstrumentEraser {
		return "eraser"
	}
	return "pen"
}

var helpLines = []string{
	"Flipbook Help",
	"=============",
	"",
	"Drawing:",
	"--------",
	"  h/←/j/↓/k/↑/l/→  Move the cursor over the canvas",
	"  Shift+h/j/k/l    Move the cursor faster",
	"  space            Pen down / pen up (the stroke follows the cursor)",
	"  mouse drag       Draw with the current instrument",
	"  x                Toggle pen / eraser",
	"  c                Next color",
	"  < >              Thinner / thicker line",
	"  o                Toggle onion skin",
	"",
	"Shapes:",
	"-------",
	"  1 2 3            Add circle / rectangle / triangle at the cursor",
	"  tab              Select the next shape",
	"  m                Move the selected shape with the cursor",
	"                   (Enter to place, Esc to cancel, [ ] - = adjust)",
	"  [ ]              Rotate the selected shape",
	"  - =              Shrink / grow the selected shape",
	"  Esc              Clear the selection",
	"",
	"Frames:",
	"-------",
	"  n / N            Next / previous frame",
	"  a                Add a frame",
	"  d                Duplicate the frame",
	"  D                Remove the frame",
	"  C                Clear the frame",
	"  X                Remove all frames",
	"  f                Toggle the film strip",
	"  g / G            Generate 5 random frames / stop generating",
	"",
	"Playback and export:",
	"--------------------",
	"  p                Play / stop",
	"  + / _            Faster / slower",
	"  e / E            Export GIF (path copied to clipboard) / cancel export",
	"  P                Export a PDF storyboard",
	"  S                Save the frame as PNG",
	"",
	"General:",
	"  u / r            Undo / redo (per frame)",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m model) helpView() string {
	visibleHeight := max(m.height-1, 1)
	startLine := min(m.helpScroll, max(len(helpLines)-visibleHeight, 0))
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result + "\n" + statusStyle.Render(statusLine)
}
