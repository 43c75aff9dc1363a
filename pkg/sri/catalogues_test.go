package sri_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

func TestRateCodeForPercent(t *testing.T) {
	cases := map[int64]sri.TaxRateCode{0: sri.RateCode0, 5: sri.RateCode5, 12: sri.RateCode12, 14: sri.RateCode14, 15: sri.RateCode15}
	for pct, want := range cases {
		got, err := sri.RateCodeForPercent(decimal.NewFromInt(pct))
		require.NoError(t, err)
		assert.Equal(t, want, got, "tarifa %d%%", pct)
		assert.True(t, got.Percent().Equal(decimal.NewFromInt(pct)))
	}

	_, err := sri.RateCodeForPercent(decimal.NewFromInt(8))
	assert.True(t, errors.Is(err, sri.ErrValidation), "tarifa fuera de tabla debe rechazarse")
	_, err = sri.RateCodeForPercent(decimal.RequireFromString("12.5"))
	assert.True(t, errors.Is(err, sri.ErrValidation))
}

func TestParse_CodigosDesconocidos(t *testing.T) {
	_, err := sri.ParsePaymentMethod("99")
	assert.True(t, errors.Is(err, sri.ErrValidation))
	_, err = sri.ParseIdentificationType("03")
	assert.True(t, errors.Is(err, sri.ErrValidation))
	_, err = sri.ParseDocumentType("02")
	assert.True(t, errors.Is(err, sri.ErrValidation))
	_, err = sri.ParseTaxRateCode("9")
	assert.True(t, errors.Is(err, sri.ErrValidation))
	_, err = sri.ParseEnvironment("staging")
	assert.True(t, errors.Is(err, sri.ErrValidation))
}

func TestLabels(t *testing.T) {
	m, err := sri.ParsePaymentMethod("19")
	require.NoError(t, err)
	assert.Equal(t, "TARJETA DE CRÉDITO", m.Label())

	assert.Equal(t, "NOTA DE CRÉDITO", sri.DocumentTypeNotaCredito.Label())
	assert.Equal(t, "IVA 15%", sri.RateCode15.Label())
	assert.Equal(t, "NO OBJETO DE IVA", sri.RateCodeNoObjeto.Label())
	assert.Equal(t, "CÉDULA", sri.IdentificationCedula.Label())

	v, ok := sri.DocumentTypeFactura.SchemaVersion()
	assert.True(t, ok)
	assert.Equal(t, "2.1.0", v)
	_, ok = sri.DocumentTypeRetencion.SchemaVersion()
	assert.False(t, ok, "retención no tiene esquema en este motor")

	env, err := sri.ParseEnvironment("production")
	require.NoError(t, err)
	assert.Equal(t, sri.EnvironmentProduction, env)
}
