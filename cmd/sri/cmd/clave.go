package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/billing"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

var keyFlags struct {
	date          string
	documentType  string
	ruc           string
	environment   string
	establishment string
	emissionPoint string
	sequential    int64
	numericCode   string
	emissionType  string
}

var claveCmd = &cobra.Command{
	Use:   "clave",
	Short: "Generar o validar claves de acceso (49 dígitos, módulo 11)",
}

var claveGenerarCmd = &cobra.Command{
	Use:     "generar",
	Aliases: []string{"build"},
	Short:   "Calcular la clave de acceso a partir de sus segmentos",
	Long: `Concatena fecha, tipo de comprobante, RUC, ambiente, serie, secuencial,
código numérico y tipo de emisión, y agrega el dígito verificador módulo 11.
Sin --codigo se usa un código numérico aleatorio.`,
	Args: cobra.NoArgs,
	RunE: runClaveGenerar,
}

var claveValidarCmd = &cobra.Command{
	Use:     "validar <clave>",
	Aliases: []string{"validate"},
	Short:   "Verificar longitud y dígito verificador, y mostrar los segmentos",
	Args:    cobra.ExactArgs(1),
	RunE:    runClaveValidar,
}

func init() {
	rootCmd.AddCommand(claveCmd)
	claveCmd.AddCommand(claveGenerarCmd, claveValidarCmd)

	f := claveGenerarCmd.Flags()
	f.StringVar(&keyFlags.date, "fecha", "", "Fecha de emisión dd/mm/aaaa")
	f.StringVar(&keyFlags.documentType, "tipo", string(sri.DocumentTypeFactura), "Código de tipo de comprobante")
	f.StringVar(&keyFlags.ruc, "ruc", "", "RUC del emisor (13 dígitos)")
	f.StringVar(&keyFlags.environment, "ambiente", string(sri.EnvironmentTest), "Ambiente: 1 pruebas, 2 producción")
	f.StringVar(&keyFlags.establishment, "estab", "001", "Código de establecimiento")
	f.StringVar(&keyFlags.emissionPoint, "pto", "001", "Código de punto de emisión")
	f.Int64Var(&keyFlags.sequential, "secuencial", 0, "Secuencial del comprobante")
	f.StringVar(&keyFlags.numericCode, "codigo", "", "Código numérico de 8 dígitos")
	f.StringVar(&keyFlags.emissionType, "emision", string(sri.EmissionNormal), "Tipo de emisión")
	_ = claveGenerarCmd.MarkFlagRequired("fecha")
	_ = claveGenerarCmd.MarkFlagRequired("ruc")
	_ = claveGenerarCmd.MarkFlagRequired("secuencial")
}

func runClaveGenerar(cmd *cobra.Command, _ []string) error {
	date, err := sri.ParseDate(keyFlags.date)
	if err != nil {
		return err
	}
	docType, err := sri.ParseDocumentType(keyFlags.documentType)
	if err != nil {
		return err
	}
	env, err := sri.ParseEnvironment(keyFlags.environment)
	if err != nil {
		return err
	}
	emission, err := sri.ParseEmissionType(keyFlags.emissionType)
	if err != nil {
		return err
	}
	code := keyFlags.numericCode
	if code == "" {
		if code, err = (billing.RandomNumericCode{}).NumericCode(); err != nil {
			return err
		}
		printVerbose(cmd, "código numérico aleatorio: %s\n", code)
	}
	if code, err = sri.PadDigits("codigoNumerico", code, sri.NumericCodeLength); err != nil {
		return err
	}

	key, err := sri.NewAccessKeyCodec().Build(&sri.AccessKeyParams{
		IssueDate:     date,
		DocumentType:  docType,
		RUC:           keyFlags.ruc,
		Environment:   env,
		Establishment: keyFlags.establishment,
		EmissionPoint: keyFlags.emissionPoint,
		Sequential:    keyFlags.sequential,
		NumericCode:   code,
		EmissionType:  emission,
	})
	if err != nil {
		return err
	}
	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), map[string]string{"clave_acceso": key, "codigo_numerico": code})
	}
	fmt.Fprintln(cmd.OutOrStdout(), key)
	return nil
}

type keyReport struct {
	Clave          string `json:"clave_acceso"`
	FechaEmision   string `json:"fecha_emision"`
	TipoDocumento  string `json:"tipo_comprobante"`
	RUC            string `json:"ruc"`
	Ambiente       string `json:"ambiente"`
	Serie          string `json:"serie"`
	Secuencial     string `json:"secuencial"`
	CodigoNumerico string `json:"codigo_numerico"`
	TipoEmision    string `json:"tipo_emision"`
	Verificador    string `json:"digito_verificador"`
}

func runClaveValidar(cmd *cobra.Command, args []string) error {
	parts, err := sri.ParseAccessKey(args[0])
	if err != nil {
		return err
	}
	r := keyReport{
		Clave:          args[0],
		FechaEmision:   sri.FormatDate(parts.IssueDate),
		TipoDocumento:  string(parts.DocumentType) + " " + parts.DocumentType.Label(),
		RUC:            parts.RUC,
		Ambiente:       string(parts.Environment) + " " + parts.Environment.Label(),
		Serie:          parts.Establishment + "-" + parts.EmissionPoint,
		Secuencial:     parts.Sequential,
		CodigoNumerico: parts.NumericCode,
		TipoEmision:    string(parts.EmissionType) + " " + parts.EmissionType.Label(),
		Verificador:    string(parts.CheckDigit),
	}
	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), r)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✓ clave válida\n")
	fmt.Fprintf(w, "  fecha de emisión:   %s\n", r.FechaEmision)
	fmt.Fprintf(w, "  tipo:               %s\n", r.TipoDocumento)
	fmt.Fprintf(w, "  RUC:                %s\n", r.RUC)
	fmt.Fprintf(w, "  ambiente:           %s\n", r.Ambiente)
	fmt.Fprintf(w, "  serie:              %s\n", r.Serie)
	fmt.Fprintf(w, "  secuencial:         %s\n", r.Secuencial)
	fmt.Fprintf(w, "  código numérico:    %s\n", r.CodigoNumerico)
	fmt.Fprintf(w, "  tipo de emisión:    %s\n", r.TipoEmision)
	fmt.Fprintf(w, "  dígito verificador: %s\n", r.Verificador)
	return nil
}
