package sri

import (
	"time"
)

const (
	// AccessKeyBodyLength dígitos de la clave antes del dígito verificador.
	AccessKeyBodyLength = 48
	// AccessKeyLength longitud total de la clave de acceso.
	AccessKeyLength = 49
	// NumericCodeLength longitud del código numérico (relleno) de la clave.
	NumericCodeLength = 8
)

// pesos del módulo 11 aplicados de derecha a izquierda, en ciclo.
var accessKeyWeights = [6]int{2, 3, 4, 5, 6, 7}

// AccessKeyParams segmentos de la clave de acceso en el orden en que se concatenan.
type AccessKeyParams struct {
	IssueDate     time.Time
	DocumentType  DocumentType
	RUC           string
	Environment   Environment
	Establishment string
	EmissionPoint string
	Sequential    int64
	NumericCode   string // 8 dígitos provistos por quien llama; la regeneración idempotente debe reutilizarlo
	EmissionType  EmissionType
}

// AccessKeyCodec construye y verifica claves de acceso de 49 dígitos.
// No guarda estado: es seguro usarlo desde varias goroutines.
type AccessKeyCodec struct{}

// NewAccessKeyCodec crea el codificador de claves de acceso.
func NewAccessKeyCodec() *AccessKeyCodec {
	return &AccessKeyCodec{}
}

// Build concatena los segmentos (48 dígitos) y agrega el dígito verificador módulo 11.
func (c *AccessKeyCodec) Build(p *AccessKeyParams) (string, error) {
	if p == nil {
		return "", formatErr("claveAcceso", "", "parámetros nulos")
	}
	if p.IssueDate.IsZero() {
		return "", formatErr("fechaEmision", "", "fecha vacía")
	}
	codDoc, err := ExactDigits("codDoc", string(p.DocumentType), 2)
	if err != nil {
		return "", err
	}
	ruc, err := ExactDigits("ruc", p.RUC, 13)
	if err != nil {
		return "", err
	}
	env, err := ExactDigits("ambiente", string(p.Environment), 1)
	if err != nil {
		return "", err
	}
	estab, err := PadDigits("estab", p.Establishment, 3)
	if err != nil {
		return "", err
	}
	pto, err := PadDigits("ptoEmi", p.EmissionPoint, 3)
	if err != nil {
		return "", err
	}
	seq, err := PadNumber("secuencial", p.Sequential, 9)
	if err != nil {
		return "", err
	}
	code, err := ExactDigits("codigoNumerico", p.NumericCode, NumericCodeLength)
	if err != nil {
		return "", err
	}
	emission, err := ExactDigits("tipoEmision", string(p.EmissionType), 1)
	if err != nil {
		return "", err
	}

	body := p.IssueDate.Format(accessKeyDateLayout) +
		codDoc + ruc + env +
		estab + pto +
		seq +
		code +
		emission

	dv, err := CheckDigit(body)
	if err != nil {
		return "", err
	}
	return body + string(dv), nil
}

// CheckDigit calcula el dígito verificador módulo 11 de un cuerpo de 48 dígitos.
// Resultado 11 → '0'; resultado 10 → '1'.
func CheckDigit(body string) (byte, error) {
	if len(body) != AccessKeyBodyLength || !IsDigits(body) {
		return 0, formatErr("claveAcceso", body, "el cuerpo debe tener exactamente 48 dígitos")
	}
	var sum int
	for i := 0; i < len(body); i++ {
		d := int(body[len(body)-1-i] - '0')
		sum += d * accessKeyWeights[i%len(accessKeyWeights)]
	}
	dv := 11 - sum%11
	switch dv {
	case 11:
		return '0', nil
	case 10:
		return '1', nil
	}
	return byte('0' + dv), nil
}

// ValidateAccessKey verifica longitud, dígitos y dígito verificador de una clave completa.
func ValidateAccessKey(key string) error {
	if len(key) != AccessKeyLength || !IsDigits(key) {
		return formatErr("claveAcceso", key, "la clave debe tener exactamente 49 dígitos")
	}
	dv, err := CheckDigit(key[:AccessKeyBodyLength])
	if err != nil {
		return err
	}
	if key[AccessKeyBodyLength] != dv {
		return validationErr("claveAcceso", "dígito verificador inválido: esperado %c, recibido %c", dv, key[AccessKeyBodyLength])
	}
	return nil
}

// AccessKeyParts segmentos de una clave de acceso ya validada.
type AccessKeyParts struct {
	IssueDate     time.Time
	DocumentType  DocumentType
	RUC           string
	Environment   Environment
	Establishment string
	EmissionPoint string
	Sequential    string
	NumericCode   string
	EmissionType  EmissionType
	CheckDigit    byte
}

// ParseAccessKey descompone una clave de 49 dígitos en sus segmentos.
func ParseAccessKey(key string) (*AccessKeyParts, error) {
	if err := ValidateAccessKey(key); err != nil {
		return nil, err
	}
	date, err := time.Parse(accessKeyDateLayout, key[0:8])
	if err != nil {
		return nil, formatErr("claveAcceso", key[0:8], "fecha inválida")
	}
	return &AccessKeyParts{
		IssueDate:     date,
		DocumentType:  DocumentType(key[8:10]),
		RUC:           key[10:23],
		Environment:   Environment(key[23:24]),
		Establishment: key[24:27],
		EmissionPoint: key[27:30],
		Sequential:    key[30:39],
		NumericCode:   key[39:47],
		EmissionType:  EmissionType(key[47:48]),
		CheckDigit:    key[48],
	}, nil
}
