package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	xmlNumericCode string
	xmlOutput      string
)

var xmlCmd = &cobra.Command{
	Use:   "xml <documento.json>",
	Short: "Imprimir el XML de la factura (versión 2.1.0)",
	Long: `Valida la factura, calcula la clave de acceso y escribe el XML sin firmar.

Ejemplos:
  sri xml factura.json
  sri xml factura.json --codigo 12345678 -o 1503....xml`,
	Args: cobra.ExactArgs(1),
	RunE: runXML,
}

func init() {
	rootCmd.AddCommand(xmlCmd)

	xmlCmd.Flags().StringVar(&xmlNumericCode, "codigo", "", "Código numérico de 8 dígitos (por defecto el del archivo o aleatorio)")
	xmlCmd.Flags().StringVarP(&xmlOutput, "output", "o", "", "Archivo de salida (por defecto stdout)")
}

func runXML(cmd *cobra.Command, args []string) error {
	issued, xml, err := loadDocument(args[0], xmlNumericCode)
	if err != nil {
		return err
	}
	printVerbose(cmd, "clave de acceso: %s\n", issued.AccessKey)

	if xmlOutput == "" {
		_, err = cmd.OutOrStdout().Write(xml)
		return err
	}
	if err := os.WriteFile(xmlOutput, xml, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", xmlOutput, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), xmlOutput)
	return nil
}
