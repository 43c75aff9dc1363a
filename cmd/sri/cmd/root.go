package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "sri",
	Short: "Comprobantes electrónicos del SRI sin servidor",
	Long: `sri arma claves de acceso, XML y RIDE de facturas electrónicas del SRI
(Ecuador) a partir de un archivo JSON, sin base de datos ni red.

Ejemplos:
  # Clave de acceso a partir de sus segmentos
  sri clave generar --fecha 15/03/2024 --ruc 1790012345001 --estab 001 --pto 002 --secuencial 1

  # Verificar una clave existente
  sri clave validar 1503202401179001234500110010020000000011234567811

  # XML de una factura
  sri xml factura.json --codigo 12345678

  # RIDE en PDF
  sri ride factura.json -o ./ride`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute ejecuta el comando raíz.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mostrar detalle en stderr")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "Formato de salida (text, json)")
}

func printVerbose(cmd *cobra.Command, format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), format, args...)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
