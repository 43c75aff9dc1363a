package pdf

// cursor posición vertical de dibujo. Pertenece a un único render y se pasa
// por referencia dentro de él; nunca se comparte entre documentos.
type cursor struct {
	y      float64
	top    float64
	bottom float64
}

func newCursor(top, bottom float64) *cursor {
	return &cursor{y: top, top: top, bottom: bottom}
}

// remaining espacio vertical libre hasta el margen inferior.
func (c *cursor) remaining() float64 { return c.bottom - c.y }

func (c *cursor) advance(h float64) { c.y += h }

// fits indica si cabe un bloque de alto h más la reserva indicada.
func (c *cursor) fits(h, reserve float64) bool { return c.remaining() >= h+reserve }

func (c *cursor) reset() { c.y = c.top }
