package pdf

import (
	"strings"
	"unicode/utf8"
)

// Medidas en milímetros sobre A4 vertical.
const (
	pageMargin    = 10.0
	headerGap     = 6.0
	lineHeight    = 4.2
	rowLineHeight = 3.8
	rowPadding    = 1.2
	bandHeight    = 7.0
	barcodeHeight = 12.0
	maxDescLines  = 3
	ellipsis      = "…"

	// footerReserve espacio que se deja libre bajo la última fila de cada página
	// para totales, pagos y pie.
	footerReserve = 45.0
	footerHeight  = 10.0

	fontSans = "Helvetica"
	fontMono = "Courier"
)

var (
	colorPrimary = [3]int{0, 70, 127}
	colorShade   = [3]int{235, 241, 247}
	colorText    = [3]int{30, 30, 30}
	colorGray    = [3]int{100, 100, 100}
)

type column struct {
	title string
	width float64
	align string
}

// Plan fijo de columnas; suma 190 mm (ancho útil).
var tableColumns = []column{
	{"Cód.", 22, "L"},
	{"Descripción", 78, "L"},
	{"Cant.", 18, "R"},
	{"P. Unitario", 24, "R"},
	{"Descuento", 22, "R"},
	{"Total", 26, "R"},
}

const attribution = "Representación impresa del comprobante electrónico (RIDE). Documento generado electrónicamente."

// rideLayout estado de un único render: lienzo, cursor y datos formateados.
type rideLayout struct {
	c        Canvas
	cur      *cursor
	v        *rideView
	pageW    float64
	contentW float64
}

func drawRide(c Canvas, v *rideView) {
	c.AddPage()
	w, h := c.PageSize()
	l := &rideLayout{
		c:        c,
		cur:      newCursor(pageMargin, h-pageMargin),
		v:        v,
		pageW:    w,
		contentW: w - 2*pageMargin,
	}
	c.SetTextColor(colorText[0], colorText[1], colorText[2])
	c.SetDrawColor(0, 0, 0)
	c.SetLineWidth(0.2)

	l.drawHeader()
	l.drawBuyer()
	l.drawTable()
	l.drawTotals()
	l.drawFooter()
}

// ── Encabezado ────────────────────────────────────────────────────────────────

func (l *rideLayout) drawHeader() {
	top := l.cur.y
	leftW := (l.contentW - headerGap) / 2
	boxX := pageMargin + leftW + headerGap
	boxW := l.pageW - pageMargin - boxX

	// Columna izquierda: texto libre del emisor.
	y := top + 2
	l.c.SetFont(fontSans, "B", 12)
	for _, s := range wrapText(l.c, l.v.legalName, leftW) {
		l.c.Cell(pageMargin, y, leftW, 5.5, s, "L", false)
		y += 5.5
	}
	y += 1
	l.c.SetFont(fontSans, "", 8.5)
	for _, line := range l.v.emitterLines {
		for _, s := range wrapText(l.c, line, leftW) {
			l.c.Cell(pageMargin, y, leftW, lineHeight, s, "L", false)
			y += lineHeight
		}
	}
	leftBottom := y

	// Caja derecha: primero el contenido, el borde cuando ya se conoce el alto.
	inner := boxX + 3
	innerW := boxW - 6
	by := top + 2
	text := func(style string, size float64, s string, align string) {
		l.c.SetFont(fontSans, style, size)
		for _, part := range wrapText(l.c, s, innerW) {
			l.c.Cell(inner, by, innerW, lineHeight, part, align, false)
			by += lineHeight
		}
	}
	text("B", 10, "R.U.C.: "+l.v.ruc, "L")
	by += 1
	l.c.SetFont(fontSans, "B", 13)
	l.c.Cell(inner, by, innerW, 6, l.v.docLabel, "L", false)
	by += 6.5
	text("", 9, "No. "+l.v.number, "L")
	if l.v.authNumber != "" {
		by += 1
		text("B", 8, "NÚMERO DE AUTORIZACIÓN", "L")
		l.c.SetFont(fontMono, "", 7.5)
		l.c.Cell(inner, by, innerW, lineHeight, l.v.authNumber, "L", false)
		by += lineHeight
		text("", 8, "FECHA Y HORA DE AUTORIZACIÓN: "+l.v.authDateTime, "L")
	}
	text("", 8, "AMBIENTE: "+l.v.envLabel, "L")
	text("", 8, "EMISIÓN: "+l.v.emissionLabel, "L")
	by += 1
	text("B", 8, "CLAVE DE ACCESO", "L")
	drawBarcode(l.c, inner, by, innerW, barcodeHeight, l.v.accessKey)
	by += barcodeHeight + 1
	l.c.SetFont(fontMono, "", 7.5)
	l.c.Cell(inner, by, innerW, lineHeight, l.v.accessKey, "C", false)
	by += lineHeight + 2

	l.c.Rect(boxX, top, boxW, by-top, "D")

	l.cur.y = max(leftBottom, by) + 3
}

// drawBarcode franja visual a partir de los dígitos de la clave: cada dígito es
// una barra cuyo ancho crece con su valor, seguida de un espacio alternado. No
// es una simbología decodificable. Las unidades se escalan al ancho disponible.
func drawBarcode(c Canvas, x, y, w, h float64, digits string) {
	var units float64
	for i := 0; i < len(digits); i++ {
		units += barUnits(digits[i]) + gapUnits(i)
	}
	if units == 0 {
		return
	}
	unit := w / units
	c.SetFillColor(0, 0, 0)
	bx := x
	for i := 0; i < len(digits); i++ {
		bw := barUnits(digits[i]) * unit
		c.Rect(bx, y, bw, h, "F")
		bx += bw + gapUnits(i)*unit
	}
}

func barUnits(d byte) float64 { return 1 + float64(d-'0')/3 }

func gapUnits(i int) float64 { return 1 + float64(i%2) }

// ── Comprador ─────────────────────────────────────────────────────────────────

func (l *rideLayout) drawBuyer() {
	l.rule()
	l.cur.advance(2)

	leftW := l.contentW * 0.62
	rightX := pageMargin + leftW + 4
	rightW := l.contentW - leftW - 4

	top := l.cur.y
	leftBottom := l.labeledRows(pageMargin, top, leftW, l.v.buyer)
	rightBottom := l.labeledRows(rightX, top, rightW, l.v.dates)
	l.cur.y = max(leftBottom, rightBottom) + 1

	if len(l.v.additional) > 0 {
		l.c.SetFont(fontSans, "B", 8)
		l.c.Cell(pageMargin, l.cur.y, l.contentW, lineHeight, "INFORMACIÓN ADICIONAL", "L", false)
		l.cur.advance(lineHeight)
		l.cur.y = l.labeledRows(pageMargin, l.cur.y, l.contentW, l.v.additional)
	}
	l.cur.advance(1)
	l.rule()
	l.cur.advance(3)
}

// labeledRows etiqueta en negrita y valor a continuación; devuelve la y final.
func (l *rideLayout) labeledRows(x, y, w float64, rows []labeled) float64 {
	for _, r := range rows {
		l.c.SetFont(fontSans, "B", 8)
		lw := l.c.StringWidth(r.label) + 1.5
		l.c.Cell(x, y, lw, lineHeight, r.label, "L", false)
		l.c.SetFont(fontSans, "", 8)
		lines := wrapText(l.c, r.value, w-lw)
		for i, s := range lines {
			l.c.Cell(x+lw, y, w-lw, lineHeight, s, "L", false)
			if i < len(lines)-1 {
				y += lineHeight
			}
		}
		y += lineHeight
	}
	return y
}

// ── Detalle ───────────────────────────────────────────────────────────────────

func (l *rideLayout) drawTable() {
	l.drawBand()
	l.c.SetFont(fontSans, "", 8)
	for i, row := range l.v.rows {
		descW := tableColumns[1].width - 2
		descLines := wrapText(l.c, row.description, descW)
		if len(descLines) > maxDescLines {
			descLines = descLines[:maxDescLines]
			descLines[maxDescLines-1] = withEllipsis(l.c, descLines[maxDescLines-1], descW)
		}
		if len(descLines) == 0 {
			descLines = []string{""}
		}
		rowH := float64(len(descLines))*rowLineHeight + 2*rowPadding

		// Salto de página: la fila y la reserva del pie deben caber; en la
		// página nueva se repite la banda de encabezado.
		if !l.cur.fits(rowH, footerReserve) {
			l.newPage()
			l.drawBand()
			l.c.SetFont(fontSans, "", 8)
		}

		y := l.cur.y
		if i%2 == 1 {
			l.c.SetFillColor(colorShade[0], colorShade[1], colorShade[2])
			l.c.Rect(pageMargin, y, l.contentW, rowH, "F")
		}
		x := pageMargin
		cells := []string{row.code, "", row.quantity, row.unitPrice, row.discount, row.total}
		for ci, col := range tableColumns {
			if ci == 1 {
				for li, s := range descLines {
					l.c.Cell(x+1, y+rowPadding+float64(li)*rowLineHeight, col.width-2, rowLineHeight, s, col.align, false)
				}
			} else {
				s := fitText(l.c, cells[ci], col.width-2)
				l.c.Cell(x+1, y+rowPadding, col.width-2, rowLineHeight, s, col.align, false)
			}
			x += col.width
		}
		l.cur.advance(rowH)
	}
	l.rule()
	l.cur.advance(3)
}

// drawBand banda de color con los títulos de columna.
func (l *rideLayout) drawBand() {
	l.c.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	l.c.SetTextColor(255, 255, 255)
	l.c.SetFont(fontSans, "B", 8)
	x := pageMargin
	for _, col := range tableColumns {
		l.c.Cell(x, l.cur.y, col.width, bandHeight, col.title, "C", true)
		x += col.width
	}
	l.c.SetTextColor(colorText[0], colorText[1], colorText[2])
	l.cur.advance(bandHeight)
}

// ── Totales y pagos ───────────────────────────────────────────────────────────

func (l *rideLayout) drawTotals() {
	totalsH := 0.0
	for _, t := range l.v.totals {
		totalsH += totalLineHeight(t)
	}
	paymentsH := 0.0
	if len(l.v.payments) > 0 {
		paymentsH = lineHeight * float64(len(l.v.payments)+1)
	}
	blockH := max(totalsH, paymentsH)

	// El bloque de totales nunca se parte entre páginas.
	if !l.cur.fits(blockH, footerHeight) {
		l.newPage()
	}
	top := l.cur.y

	// Pagos a la izquierda.
	if len(l.v.payments) > 0 {
		pw := l.contentW * 0.5
		y := top
		l.c.SetFont(fontSans, "B", 8)
		l.c.Cell(pageMargin, y, pw-28, lineHeight, "FORMA DE PAGO", "L", false)
		l.c.Cell(pageMargin+pw-28, y, 28, lineHeight, "VALOR", "R", false)
		y += lineHeight
		l.c.SetFont(fontSans, "", 8)
		for _, p := range l.v.payments {
			l.c.Cell(pageMargin, y, pw-28, lineHeight, fitText(l.c, p.label, pw-30), "L", false)
			l.c.Cell(pageMargin+pw-28, y, 28, lineHeight, p.value, "R", false)
			y += lineHeight
		}
	}

	// Totales alineados a la derecha.
	labelW, valueW := 58.0, 26.0
	x := l.pageW - pageMargin - labelW - valueW
	y := top
	for _, t := range l.v.totals {
		h := totalLineHeight(t)
		if t.grand {
			l.c.SetFont(fontSans, "B", 10.5)
		} else {
			l.c.SetFont(fontSans, "", 8)
		}
		l.c.Cell(x, y, labelW, h, t.label, "L", false)
		l.c.Cell(x+labelW, y, valueW, h, t.value, "R", false)
		y += h
	}

	l.cur.advance(blockH)
}

func totalLineHeight(t totalLine) float64 {
	if t.grand {
		return 6.0
	}
	return lineHeight
}

// ── Pie ───────────────────────────────────────────────────────────────────────

func (l *rideLayout) drawFooter() {
	l.cur.advance(3)
	l.rule()
	l.cur.advance(1.5)
	l.c.SetFont(fontSans, "I", 7)
	l.c.SetTextColor(colorGray[0], colorGray[1], colorGray[2])
	l.c.Cell(pageMargin, l.cur.y, l.contentW, lineHeight, attribution, "C", false)
	l.c.SetTextColor(colorText[0], colorText[1], colorText[2])
	l.cur.advance(lineHeight)
}

// ── Utilidades ────────────────────────────────────────────────────────────────

func (l *rideLayout) newPage() {
	l.c.AddPage()
	l.cur.reset()
}

func (l *rideLayout) rule() {
	l.c.Line(pageMargin, l.cur.y, l.pageW-pageMargin, l.cur.y)
}

// wrapText parte s en líneas que caben en w con la fuente actual. Palabras más
// anchas que w se cortan por caracteres.
func wrapText(c Canvas, s string, w float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if c.StringWidth(candidate) <= w {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		for c.StringWidth(word) > w {
			cut := fitPrefix(c, word, w)
			lines = append(lines, word[:cut])
			word = word[cut:]
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// withEllipsis agrega "…" al final de s, recortando runes hasta que quepa en w.
func withEllipsis(c Canvas, s string, w float64) string {
	for s != "" && c.StringWidth(s+ellipsis) > w {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return strings.TrimRight(s, " ") + ellipsis
}

// fitText recorta s para que quepa en w.
func fitText(c Canvas, s string, w float64) string {
	if c.StringWidth(s) <= w {
		return s
	}
	return s[:fitPrefix(c, s, w)]
}

// fitPrefix longitud en bytes (en límite de rune) del prefijo más largo que cabe
// en w; como mínimo una rune, para que el corte siempre avance.
func fitPrefix(c Canvas, s string, w float64) int {
	if c.StringWidth(s) <= w {
		return len(s)
	}
	best := 0
	for i := range s {
		if i > 0 && c.StringWidth(s[:i]) > w {
			break
		}
		best = i
	}
	if best == 0 {
		_, size := utf8.DecodeRuneInString(s)
		return size
	}
	return best
}
