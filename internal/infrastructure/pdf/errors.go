package pdf

import (
	"errors"
	"fmt"
)

// ErrRenderIO permite errors.Is(err, ErrRenderIO) sobre cualquier RenderIOError.
var ErrRenderIO = errors.New("ride: error de escritura o renderizado")

// RenderIOError fallo del sistema de archivos, del flujo de salida o del motor PDF
// al producir un RIDE. No se reintenta aquí; decide el servicio que llama.
type RenderIOError struct {
	Op   string // render, mkdir, write, verify, rename
	Path string
	Err  error
}

func (e *RenderIOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("ride: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ride: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *RenderIOError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrRenderIO).
func (e *RenderIOError) Is(target error) bool { return target == ErrRenderIO }

func renderIOErr(op, path string, err error) error {
	return &RenderIOError{Op: op, Path: path, Err: err}
}
