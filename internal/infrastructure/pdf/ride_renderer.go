// Package pdf genera el RIDE (Representación Impresa del Documento Electrónico)
// de facturas y notas de crédito del SRI.
//
// Layout de la página A4 (cursor vertical único, de arriba hacia abajo):
//
//	┌──────────────────────────────┬──────────────────────────────┐
//	│  EMISOR: razón social,       │ ┌──────────────────────────┐ │
//	│  nombre comercial, matriz,   │ │ R.U.C. / FACTURA / No.   │ │
//	│  contabilidad, especial,     │ │ autorización, ambiente   │ │
//	│  RIMPE                       │ │ ▌▌▐▌▐▐▌ clave de acceso  │ │
//	│                              │ └──────────────────────────┘ │
//	├──────────────────────────────┴──────────────────────────────┤
//	│  COMPRADOR: razón social, identificación │ fecha de emisión │
//	│  INFORMACIÓN ADICIONAL                                      │
//	├─────────────────────────────────────────────────────────────┤
//	│  Cód. │ Descripción │ Cant. │ P. Unitario │ Desc. │ Total   │
//	│  ...  (filas sombreadas alternadas, salto de página)        │
//	├─────────────────────────────────────────────────────────────┤
//	│  FORMAS DE PAGO              │   SUBTOTALES / IVA / TOTAL   │
//	│  ───────────────────────────────────────────────────────── │
//	│  Leyenda                                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
)

func init() {
	// pdfcpu no debe crear su directorio de configuración en el HOME del servicio.
	api.DisableConfigDir()
}

// RideRenderer dibuja el RIDE. No guarda estado entre documentos: cada llamada
// crea su propio lienzo y su propio cursor.
type RideRenderer struct {
	newCanvas CanvasFactory
	verify    bool
}

// Option configura el RideRenderer.
type Option func(*RideRenderer)

// WithCanvas reemplaza el lienzo gofpdf (tests).
func WithCanvas(factory CanvasFactory) Option {
	return func(r *RideRenderer) { r.newCanvas = factory }
}

// WithoutVerification omite la verificación con pdfcpu del archivo escrito.
func WithoutVerification() Option {
	return func(r *RideRenderer) { r.verify = false }
}

// NewRideRenderer construye el renderizador con gofpdf y verificación de archivos.
func NewRideRenderer(opts ...Option) *RideRenderer {
	r := &RideRenderer{newCanvas: NewGofpdfCanvas, verify: true}
	for _, o := range opts {
		o(r)
	}
	return r
}

// FileName nombre del archivo del RIDE para una clave de acceso.
func FileName(accessKey string) string {
	return "RIDE-" + accessKey + ".pdf"
}

// Render devuelve el RIDE en memoria (descarga directa).
func (r *RideRenderer) Render(issued *fiscal.IssuedDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, issued); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderTo dibuja el RIDE y lo escribe en w. Los errores de formato y de
// validación se devuelven antes de dibujar; los de salida como RenderIOError.
func (r *RideRenderer) RenderTo(w io.Writer, issued *fiscal.IssuedDocument) error {
	view, err := newRideView(issued)
	if err != nil {
		return err
	}
	c := r.newCanvas("RIDE " + issued.AccessKey)
	drawRide(c, view)
	if err := c.Output(w); err != nil {
		return renderIOErr("render", "", err)
	}
	return nil
}

// RenderToFile escribe <dir>/RIDE-<clave>.pdf creando el directorio si no existe.
// El PDF se escribe en un temporal, se verifica y solo entonces se renombra, de
// modo que un fallo nunca deja un archivo final a medias.
func (r *RideRenderer) RenderToFile(dir string, issued *fiscal.IssuedDocument) (string, error) {
	data, err := r.Render(issued)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", renderIOErr("mkdir", dir, err)
	}
	final := filepath.Join(dir, FileName(issued.AccessKey))

	tmp, err := os.CreateTemp(dir, ".ride-*.tmp")
	if err != nil {
		return "", renderIOErr("write", dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return "", renderIOErr("write", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", renderIOErr("write", tmpName, err)
	}
	if r.verify {
		if _, err := PageCountFile(tmpName); err != nil {
			cleanup()
			return "", renderIOErr("verify", tmpName, err)
		}
	}
	if err := os.Rename(tmpName, final); err != nil {
		cleanup()
		return "", renderIOErr("rename", final, err)
	}
	return final, nil
}

// PageCount número de páginas de un PDF en memoria (pdfcpu).
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("pdfcpu: %w", err)
	}
	return n, nil
}

// PageCountFile número de páginas de un PDF en disco (pdfcpu).
func PageCountFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	n, err := api.PageCount(f, model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("pdfcpu: %w", err)
	}
	if n < 1 {
		return 0, fmt.Errorf("pdfcpu: documento sin páginas")
	}
	return n, nil
}
