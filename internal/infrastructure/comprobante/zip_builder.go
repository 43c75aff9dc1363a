package comprobante

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// BundleFilenames nombres de los archivos dentro del ZIP de descarga.
func BundleFilenames(accessKey string) (xmlName, rideName, zipName string) {
	return accessKey + ".xml", "RIDE-" + accessKey + ".pdf", accessKey + ".zip"
}

// BuildBundle empaqueta el XML y el RIDE del comprobante en un ZIP en memoria.
func BuildBundle(accessKey string, xmlBytes, ridePDF []byte) ([]byte, error) {
	xmlName, rideName, _ := BundleFilenames(accessKey)
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	entries := []struct {
		name string
		data []byte
	}{
		{xmlName, xmlBytes},
		{rideName, ridePDF},
	}
	for _, e := range entries {
		fw, err := zw.Create(e.name)
		if err != nil {
			return nil, fmt.Errorf("zip: crear entrada %s: %w", e.name, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			return nil, fmt.Errorf("zip: escribir %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}
