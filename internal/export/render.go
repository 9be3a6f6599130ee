package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
)

// Page geometry: A4 proportions at 96 dpi.
const (
	pageWidth  = 794
	pageHeight = 1123
	margin     = 48

	// itemsPerDocPage is how many checklist blocks fit one rendered page.
	itemsPerDocPage = 4
)

var (
	colInk     = color.RGBA{30, 41, 59, 255}
	colMuted   = color.RGBA{100, 116, 139, 255}
	colAccent  = color.RGBA{30, 64, 175, 255}
	colApprove = color.RGBA{34, 197, 94, 255}
	colReject  = color.RGBA{239, 68, 68, 255}
	colSkip    = color.RGBA{148, 163, 184, 255}
	colPending = color.RGBA{245, 158, 11, 255}
	colTrack   = color.RGBA{226, 232, 240, 255}
)

func statusColor(status domain.ItemStatus) color.RGBA {
	switch status {
	case domain.StatusApproved:
		return colApprove
	case domain.StatusRejected:
		return colReject
	case domain.StatusNotApplicable:
		return colSkip
	}
	return colPending
}

type canvas struct {
	img *image.RGBA
}

func newCanvas(w, h int) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	return &canvas{img: img}
}

func (c *canvas) fill(x0, y0, x1, y1 int, col color.Color) {
	draw.Draw(c.img, image.Rect(x0, y0, x1, y1), &image.Uniform{col}, image.Point{}, draw.Src)
}

// text draws one line at (x, baseline y) in the fixed 7x13 face.
func (c *canvas) text(x, y int, col color.Color, s string) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func (c *canvas) encode() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, c.img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrap splits s into lines of at most width glyphs of the fixed-width face.
func wrap(s string, width int) []string {
	if s == "" {
		return nil
	}
	var lines []string
	line := ""
	for _, word := range splitWords(s) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func splitWords(s string) []string {
	var words []string
	start := -1
	for i, r := range s {
		if r == ' ' {
			if start >= 0 {
				words = append(words, s[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, s[start:])
	}
	return words
}

const lineHeight = 16
const textCols = (pageWidth - 2*margin) / 7

// RenderDocument rasterizes the snapshot into a paginated PNG sequence:
// header page banner, a block per item with its verdict and evidence, and a
// page footer. Pure function of the snapshot.
func RenderDocument(snap Snapshot) ([][]byte, error) {
	total := (len(snap.Items) + itemsPerDocPage - 1) / itemsPerDocPage
	if total == 0 {
		total = 1
	}

	pages := make([][]byte, 0, total)
	for p := 0; p < total; p++ {
		c := newCanvas(pageWidth, pageHeight)

		// Header
		c.fill(0, 0, pageWidth, 6, colAccent)
		c.text(margin, 60, colAccent, snap.Title)
		c.text(margin, 84, colInk, fmt.Sprintf("Comercio: %s", snap.ClientName))
		c.text(margin, 102, colInk, fmt.Sprintf("NIT: %s", snap.NIT))
		c.text(margin, 120, colMuted, fmt.Sprintf("%s — %s", snap.SchemeName, snap.Date.Format("2006-01-02")))
		c.fill(margin, 134, pageWidth-margin, 136, colTrack)

		y := 170
		start := p * itemsPerDocPage
		end := start + itemsPerDocPage
		if end > len(snap.Items) {
			end = len(snap.Items)
		}
		for _, item := range snap.Items[start:end] {
			y = drawItem(c, item, y)
		}

		// Footer
		c.text(margin, pageHeight-32, colMuted, fmt.Sprintf("Página %d de %d", p+1, total))

		payload, err := c.encode()
		if err != nil {
			return nil, err
		}
		pages = append(pages, payload)
	}
	return pages, nil
}

func drawItem(c *canvas, item ResolvedItem, y int) int {
	top := y
	c.text(margin+16, y, colInk, fmt.Sprintf("%d. %s", item.ID, item.Prompt))
	y += lineHeight
	for _, line := range wrap(item.Expected, textCols-4) {
		c.text(margin+16, y, colMuted, line)
		y += lineHeight
	}

	verdict := item.Approval.String()
	if verdict == "" {
		verdict = "Pendiente"
	}
	c.text(margin+16, y, statusColor(item.Status), verdict)
	y += lineHeight

	evidence := item.Evidence
	if evidence == "" {
		evidence = "Sin evidencias registradas"
	}
	lines := wrap(evidence, textCols-4)
	if len(lines) > 6 {
		lines = append(lines[:6], "…")
	}
	for _, line := range lines {
		c.text(margin+16, y, colInk, line)
		y += lineHeight
	}

	// Status stripe along the block's left edge.
	c.fill(margin, top-12, margin+6, y-6, statusColor(item.Status))
	return y + 20
}

// Summary image geometry, matching the old progress chart canvas.
const (
	summaryWidth  = 800
	summaryHeight = 600
)

// RenderSummary rasterizes the aggregate progress figures into a single
// PNG. Purely a function of the snapshot's already-aggregated counts.
func RenderSummary(snap Snapshot) ([]byte, error) {
	c := newCanvas(summaryWidth, summaryHeight)

	c.text(summaryWidth/2-140, 50, colAccent, "Progreso de Certificación")
	c.text(summaryWidth/2-len(snap.ClientName)*7/2, 85, colInk, snap.ClientName)
	c.text(summaryWidth/2-60, 110, colMuted, fmt.Sprintf("NIT: %s", snap.NIT))
	c.text(summaryWidth/2-len(snap.SchemeName)*7/2, 140, colPending, snap.SchemeName)

	counts := snap.Counts
	pct := 0
	if counts.Total > 0 {
		pct = counts.Completed * 100 / counts.Total
	}

	// Progress bar in place of the old pie chart.
	barX0, barX1 := 100, summaryWidth-100
	c.fill(barX0, 280, barX1, 320, colTrack)
	if pct > 0 {
		c.fill(barX0, 280, barX0+(barX1-barX0)*pct/100, 320, colAccent)
	}
	c.text(summaryWidth/2-21, 305, color.White, fmt.Sprintf("%d%%", pct))

	stats := []struct {
		label string
		value int
		col   color.RGBA
	}{
		{"Completados", counts.Completed, colApprove},
		{"Total", counts.Total, colAccent},
		{"Pendientes", counts.Pending, colPending},
		{"Aprobados", counts.Approved, colApprove},
		{"Rechazados", counts.Rejected, colReject},
	}
	x := 80
	step := (summaryWidth - 160) / len(stats)
	for _, st := range stats {
		c.text(x, 480, st.col, fmt.Sprintf("%d", st.value))
		c.text(x, 505, colMuted, st.label)
		x += step
	}

	c.text(summaryWidth-260, summaryHeight-20, colMuted,
		fmt.Sprintf("Generado el %s", snap.Date.Format("2006-01-02")))

	return c.encode()
}
