package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf"
)

const (
	boardColumns = 3
	boardRows    = 2
	boardMargin  = 12.0
	boardGap     = 8.0
	captionH     = 6.0
)

type Panel struct {
	Caption string
	Image   image.Image
}

// WriteStoryboard lays panels out on landscape A4 pages, three by two, each
// with its caption underneath.
func WriteStoryboard(path, title string, panels []Panel) error {
	if len(panels) == 0 {
		return ErrNoFrames
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetFont("Helvetica", "", 10)
	pageW, pageH := pdf.GetPageSize()

	cellW := (pageW - 2*boardMargin - boardGap*(boardColumns-1)) / boardColumns
	cellH := (pageH - 2*boardMargin - boardGap*(boardRows-1)) / boardRows
	opts := gofpdf.ImageOptions{ImageType: "PNG"}

	for i, p := range panels {
		slot := i % (boardColumns * boardRows)
		if slot == 0 {
			pdf.AddPage()
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, p.Image); err != nil {
			return fmt.Errorf("failed to encode panel %d: %w", i, err)
		}
		name := fmt.Sprintf("panel-%d", i)
		pdf.RegisterImageOptionsReader(name, opts, &buf)

		b := p.Image.Bounds()
		w := cellW
		h := w * float64(b.Dy()) / float64(b.Dx())
		if h > cellH-captionH {
			h = cellH - captionH
			w = h * float64(b.Dx()) / float64(b.Dy())
		}
		x := boardMargin + float64(slot%boardColumns)*(cellW+boardGap)
		y := boardMargin + float64(slot/boardColumns)*(cellH+boardGap)
		pdf.ImageOptions(name, x+(cellW-w)/2, y, w, h, false, opts, 0, "")
		pdf.Rect(x+(cellW-w)/2, y, w, h, "D")
		pdf.SetXY(x, y+h+1)
		pdf.CellFormat(cellW, captionH-1, p.Caption, "", 0, "C", false, 0, "")
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write storyboard: %w", err)
	}
	return nil
}
