package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/pdf"
)

var (
	rideNumericCode string
	rideOutputDir   string
)

var rideCmd = &cobra.Command{
	Use:   "ride <documento.json>",
	Short: "Generar el RIDE en PDF",
	Long: `Escribe RIDE-<clave>.pdf en el directorio indicado. Si el archivo trae
"authorization", el número y la fecha se imprimen en el encabezado.

Ejemplos:
  sri ride factura.json -o ./ride`,
	Args: cobra.ExactArgs(1),
	RunE: runRide,
}

func init() {
	rootCmd.AddCommand(rideCmd)

	rideCmd.Flags().StringVar(&rideNumericCode, "codigo", "", "Código numérico de 8 dígitos (por defecto el del archivo o aleatorio)")
	rideCmd.Flags().StringVarP(&rideOutputDir, "output", "o", ".", "Directorio de salida")
}

func runRide(cmd *cobra.Command, args []string) error {
	issued, _, err := loadDocument(args[0], rideNumericCode)
	if err != nil {
		return err
	}
	path, err := pdf.NewRideRenderer().RenderToFile(rideOutputDir, issued)
	if err != nil {
		return err
	}
	pages, err := pdf.PageCountFile(path)
	if err != nil {
		return err
	}
	printVerbose(cmd, "clave de acceso: %s, páginas: %d\n", issued.AccessKey, pages)

	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"path": path, "clave_acceso": issued.AccessKey, "paginas": pages})
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
