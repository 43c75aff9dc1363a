package pdf

import (
	"io"

	"github.com/phpdave11/gofpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Canvas superficie de dibujo con posicionamiento absoluto en milímetros.
// El RIDE solo dibuja a través de esta interfaz; los tests usan un lienzo que
// registra las operaciones.
type Canvas interface {
	AddPage()
	PageNo() int
	PageSize() (width, height float64)
	SetFont(family, style string, size float64)
	SetTextColor(r, g, b int)
	SetFillColor(r, g, b int)
	SetDrawColor(r, g, b int)
	SetLineWidth(width float64)
	Rect(x, y, w, h float64, style string)
	Line(x1, y1, x2, y2 float64)
	// Cell escribe txt dentro de la caja (x, y, w, h); align es L, C o R.
	Cell(x, y, w, h float64, txt, align string, fill bool)
	StringWidth(s string) float64
	Output(w io.Writer) error
}

// CanvasFactory crea un lienzo nuevo por cada documento.
type CanvasFactory func(title string) Canvas

// gofpdfCanvas implementa Canvas sobre gofpdf (A4 vertical, mm). Las fuentes
// base de PDF usan cp1252, así que todo texto se transcodifica antes de dibujar.
type gofpdfCanvas struct {
	f   *gofpdf.Fpdf
	enc *encoding.Encoder
}

// NewGofpdfCanvas lienzo A4 sin salto de página automático: el RIDE decide
// cuándo paginar.
func NewGofpdfCanvas(title string) Canvas {
	f := gofpdf.New("P", "mm", "A4", "")
	f.SetMargins(pageMargin, pageMargin, pageMargin)
	f.SetAutoPageBreak(false, 0)
	f.SetCompression(true)
	f.SetTitle(title, true)
	f.SetCreator("tsh-restaurantes RIDE", true)
	return &gofpdfCanvas{
		f:   f,
		enc: encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()),
	}
}

func (c *gofpdfCanvas) tr(s string) string {
	out, err := c.enc.String(s)
	if err != nil {
		return s
	}
	return out
}

func (c *gofpdfCanvas) AddPage()                     { c.f.AddPage() }
func (c *gofpdfCanvas) PageNo() int                  { return c.f.PageNo() }
func (c *gofpdfCanvas) PageSize() (float64, float64) { return c.f.GetPageSize() }
func (c *gofpdfCanvas) SetFont(family, style string, size float64) {
	c.f.SetFont(family, style, size)
}
func (c *gofpdfCanvas) SetTextColor(r, g, b int)   { c.f.SetTextColor(r, g, b) }
func (c *gofpdfCanvas) SetFillColor(r, g, b int)   { c.f.SetFillColor(r, g, b) }
func (c *gofpdfCanvas) SetDrawColor(r, g, b int)   { c.f.SetDrawColor(r, g, b) }
func (c *gofpdfCanvas) SetLineWidth(width float64) { c.f.SetLineWidth(width) }

func (c *gofpdfCanvas) Rect(x, y, w, h float64, style string) { c.f.Rect(x, y, w, h, style) }
func (c *gofpdfCanvas) Line(x1, y1, x2, y2 float64)           { c.f.Line(x1, y1, x2, y2) }

func (c *gofpdfCanvas) Cell(x, y, w, h float64, txt, align string, fill bool) {
	c.f.SetXY(x, y)
	c.f.CellFormat(w, h, c.tr(txt), "", 0, align+"M", fill, 0, "")
}

func (c *gofpdfCanvas) StringWidth(s string) float64 {
	return c.f.GetStringWidth(c.tr(s))
}

// Output escribe el PDF; devuelve el primer error acumulado por gofpdf.
func (c *gofpdfCanvas) Output(w io.Writer) error {
	if err := c.f.Error(); err != nil {
		return err
	}
	return c.f.Output(w)
}
