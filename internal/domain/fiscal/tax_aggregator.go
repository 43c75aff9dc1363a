// Package fiscal contiene las reglas de dominio de los comprobantes electrónicos
// del SRI: agrupación de impuestos, validación del documento y ciclo de vida.
// No depende de infraestructura; los catálogos y formatos vienen de pkg/sri.
package fiscal

import (
	"github.com/shopspring/decimal"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

// TaxBucket totales de un par (impuesto, código de tarifa). Derivado, no se persiste.
type TaxBucket struct {
	TaxType  string
	RateCode string
	Rate     decimal.Decimal // porcentaje
	Base     decimal.Decimal // baseImponible
	Amount   decimal.Decimal // valor
}

type bucketKey struct {
	taxType  string
	rateCode string
}

// AggregateTaxes agrupa las líneas por (impuesto, código de tarifa) conservando
// el orden en que aparece cada clave por primera vez. Dos líneas con la misma
// clave y distinta tarifa son un error del llamador (ValidationError).
func AggregateTaxes(items []entity.LineItem) ([]TaxBucket, error) {
	buckets := make([]TaxBucket, 0, 2)
	index := make(map[bucketKey]int)

	for i, it := range items {
		k := bucketKey{taxType: it.TaxType, rateCode: it.RateCode}
		pos, ok := index[k]
		if !ok {
			index[k] = len(buckets)
			buckets = append(buckets, TaxBucket{
				TaxType:  it.TaxType,
				RateCode: it.RateCode,
				Rate:     it.TaxRate,
				Base:     it.TaxableBase,
				Amount:   it.TaxAmount,
			})
			continue
		}
		b := &buckets[pos]
		if !b.Rate.Equal(it.TaxRate) {
			return nil, sri.NewValidationError("impuestos",
				"línea %d: tarifa %s%% distinta de %s%% para impuesto %s código %s",
				i+1, it.TaxRate.String(), b.Rate.String(), it.TaxType, it.RateCode)
		}
		b.Base = b.Base.Add(it.TaxableBase)
		b.Amount = b.Amount.Add(it.TaxAmount)
	}
	return buckets, nil
}

// TotalTax suma de los valores de todos los grupos.
func TotalTax(buckets []TaxBucket) decimal.Decimal {
	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.Amount)
	}
	return total
}
