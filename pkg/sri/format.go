package sri

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fecha de los comprobantes (dd/mm/yyyy).
const DateLayout = "02/01/2006"

// accessKeyDateLayout formato de fecha dentro de la clave de acceso (ddmmyyyy).
const accessKeyDateLayout = "02012006"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML reemplaza los cinco metacaracteres XML. Se aplica a todo texto libre.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// PadDigits rellena con ceros a la izquierda una cadena numérica hasta width.
// Si la cadena ya excede el ancho devuelve FormatError; nunca trunca.
func PadDigits(field, digits string, width int) (string, error) {
	if digits == "" || !IsDigits(digits) {
		return "", formatErr(field, digits, "se esperaban solo dígitos")
	}
	if len(digits) > width {
		return "", formatErr(field, digits, "excede "+strconv.Itoa(width)+" dígitos")
	}
	return strings.Repeat("0", width-len(digits)) + digits, nil
}

// ExactDigits exige exactamente width dígitos, sin relleno.
func ExactDigits(field, digits string, width int) (string, error) {
	if len(digits) != width || !IsDigits(digits) {
		return "", formatErr(field, digits, "se esperaban exactamente "+strconv.Itoa(width)+" dígitos")
	}
	return digits, nil
}

// PadNumber rellena un entero no negativo a width dígitos (p. ej. secuencial → 9).
func PadNumber(field string, n int64, width int) (string, error) {
	if n < 0 {
		return "", formatErr(field, strconv.FormatInt(n, 10), "número negativo")
	}
	return PadDigits(field, strconv.FormatInt(n, 10), width)
}

// Amount2 importe con exactamente 2 decimales (totales, precios del RIDE).
func Amount2(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Amount6 importe con exactamente 6 decimales (cantidad y precioUnitario en el XML).
func Amount6(d decimal.Decimal) string {
	return d.StringFixed(6)
}

// Round2 redondeo monetario a 2 decimales (mitad alejándose de cero).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatDate fecha de emisión en formato dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate interpreta una fecha dd/mm/yyyy.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, formatErr("fechaEmision", s, "se esperaba dd/mm/yyyy")
	}
	return t, nil
}

// DocumentNumber número visible del comprobante: estab-ptoEmi-secuencial.
func DocumentNumber(establishment, emissionPoint string, sequential int64) (string, error) {
	estab, err := PadDigits("estab", establishment, 3)
	if err != nil {
		return "", err
	}
	pto, err := PadDigits("ptoEmi", emissionPoint, 3)
	if err != nil {
		return "", err
	}
	seq, err := PadNumber("secuencial", sequential, 9)
	if err != nil {
		return "", err
	}
	return estab + "-" + pto + "-" + seq, nil
}

// IsDigits indica si s contiene solo dígitos ASCII.
func IsDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
