package fiscal_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

const (
	factura     = "01"
	notaCredito = "04"
)

func TestTransition_CaminoFeliz(t *testing.T) {
	require.NoError(t, fiscal.Transition(factura, entity.InvoiceStatusDraft, entity.InvoiceStatusGenerated))
	require.NoError(t, fiscal.Transition(factura, entity.InvoiceStatusGenerated, entity.InvoiceStatusSent))
	require.NoError(t, fiscal.Transition(factura, entity.InvoiceStatusSent, entity.InvoiceStatusAuthorized))
	require.NoError(t, fiscal.Transition(notaCredito, entity.InvoiceStatusSent, entity.InvoiceStatusRejected))
}

func TestTransition_NoSaltaEnvio(t *testing.T) {
	err := fiscal.Transition(factura, entity.InvoiceStatusGenerated, entity.InvoiceStatusAuthorized)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sri.ErrValidation))

	err = fiscal.Transition(factura, entity.InvoiceStatusGenerated, entity.InvoiceStatusRejected)
	assert.True(t, errors.Is(err, sri.ErrValidation))
}

func TestTransition_NoReenviaAutorizado(t *testing.T) {
	err := fiscal.Transition(factura, entity.InvoiceStatusAuthorized, entity.InvoiceStatusSent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "autorizado")
}

func TestTransition_Anulacion(t *testing.T) {
	assert.NoError(t, fiscal.Transition(factura, entity.InvoiceStatusGenerated, entity.InvoiceStatusVoided),
		"factura generada se puede anular")
	assert.NoError(t, fiscal.Transition(factura, entity.InvoiceStatusAuthorized, entity.InvoiceStatusVoided))

	err := fiscal.Transition(notaCredito, entity.InvoiceStatusSent, entity.InvoiceStatusVoided)
	assert.True(t, errors.Is(err, sri.ErrValidation), "nota de crédito no se anula")

	err = fiscal.Transition(factura, entity.InvoiceStatusVoided, entity.InvoiceStatusVoided)
	assert.True(t, errors.Is(err, sri.ErrValidation), "anulado es terminal")
}

func TestTransition_EstadosDesconocidos(t *testing.T) {
	assert.False(t, fiscal.CanTransition(factura, "pending", entity.InvoiceStatusSent))
	assert.False(t, fiscal.CanTransition(factura, entity.InvoiceStatusSent, "done"))
	assert.False(t, fiscal.CanTransition(factura, entity.InvoiceStatusSent, entity.InvoiceStatusGenerated))
}
