package billing

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

var numericCodeLimit = big.NewInt(100_000_000)

// RandomNumericCode código numérico aleatorio con crypto/rand.
type RandomNumericCode struct{}

// NumericCode devuelve 8 dígitos, con ceros a la izquierda.
func (RandomNumericCode) NumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, numericCodeLimit)
	if err != nil {
		return "", fmt.Errorf("código numérico: %w", err)
	}
	return sri.PadNumber("codigoNumerico", n.Int64(), sri.NumericCodeLength)
}
