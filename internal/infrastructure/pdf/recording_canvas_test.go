package pdf_test

import (
	"io"
	"unicode/utf8"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/pdf"
)

type op struct {
	page       int
	kind       string // cell, rect, line
	x, y, w, h float64
	text       string
	style      string
	fill       [3]int
}

// recordingCanvas registra las operaciones de dibujo en un A4 de 210 × 297 mm.
type recordingCanvas struct {
	ops      []op
	page     int
	fontSize float64
	fill     [3]int
}

func newRecordingCanvas() *recordingCanvas { return &recordingCanvas{fontSize: 10} }

func (c *recordingCanvas) factory() pdf.CanvasFactory {
	return func(string) pdf.Canvas { return c }
}

func (c *recordingCanvas) AddPage()                     { c.page++ }
func (c *recordingCanvas) PageNo() int                  { return c.page }
func (c *recordingCanvas) PageSize() (float64, float64) { return 210, 297 }
func (c *recordingCanvas) SetFont(_, _ string, size float64) {
	c.fontSize = size
}
func (c *recordingCanvas) SetTextColor(int, int, int) {}
func (c *recordingCanvas) SetFillColor(r, g, b int)   { c.fill = [3]int{r, g, b} }
func (c *recordingCanvas) SetDrawColor(int, int, int) {}
func (c *recordingCanvas) SetLineWidth(float64)       {}

func (c *recordingCanvas) Rect(x, y, w, h float64, style string) {
	c.ops = append(c.ops, op{page: c.page, kind: "rect", x: x, y: y, w: w, h: h, style: style, fill: c.fill})
}

func (c *recordingCanvas) Line(x1, y1, x2, y2 float64) {
	c.ops = append(c.ops, op{page: c.page, kind: "line", x: x1, y: y1, w: x2 - x1, h: y2 - y1})
}

func (c *recordingCanvas) Cell(x, y, w, h float64, txt, _ string, fill bool) {
	style := ""
	if fill {
		style = "F"
	}
	c.ops = append(c.ops, op{page: c.page, kind: "cell", x: x, y: y, w: w, h: h, text: txt, style: style, fill: c.fill})
}

// StringWidth aproximación de Helvetica: media eme por carácter.
func (c *recordingCanvas) StringWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * c.fontSize * 0.3528 * 0.5
}

func (c *recordingCanvas) Output(w io.Writer) error {
	_, err := w.Write([]byte("%PDF-recording"))
	return err
}

func (c *recordingCanvas) cells(text string) []op {
	var out []op
	for _, o := range c.ops {
		if o.kind == "cell" && o.text == text {
			out = append(out, o)
		}
	}
	return out
}

func (c *recordingCanvas) index(pred func(op) bool) int {
	for i, o := range c.ops {
		if pred(o) {
			return i
		}
	}
	return -1
}
