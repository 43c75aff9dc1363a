package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/dto"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/comprobante"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthority_CicloCompletoYArchivo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inv, err := e.docs.IssueInvoice(ctx, testCompanyID, invoiceRequest())
	require.NoError(t, err)

	sent, err := e.authority.Send(ctx, testCompanyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.InvoiceStatusSent), sent.Status)
	assert.Equal(t, comprobante.ReceptionReceived, sent.AuthorityResponse)

	auth, err := e.authority.Authorize(ctx, testCompanyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.InvoiceStatusAuthorized), auth.Status)
	assert.Equal(t, inv.AccessKey, auth.AuthorizationNumber, "el simulador usa la clave como número")
	require.NotNil(t, auth.AuthorizedAt)
	assert.True(t, auth.AuthorizedAt.Equal(testNow))

	rec := e.invoices.get(t, inv.ID)
	assert.Contains(t, rec.AuthorityResponse, "<estado>AUTORIZADO</estado>")
	assert.Contains(t, rec.AuthorityResponse, "<![CDATA[")

	require.Len(t, e.store.objects, 2, "XML y RIDE archivados")
	xmlKey := testCompanyID + "/2024/03/" + inv.AccessKey + ".xml"
	pdfKey := testCompanyID + "/2024/03/RIDE-" + inv.AccessKey + ".pdf"
	require.Contains(t, e.store.objects, xmlKey)
	require.Contains(t, e.store.objects, pdfKey)
	assert.Equal(t, rec.AuthorityResponse, string(e.store.objects[xmlKey]))
	assert.Equal(t, "%PDF", string(e.store.objects[pdfKey][:4]))
}

func TestAuthority_TransicionesInvalidas(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inv, err := e.docs.IssueInvoice(ctx, testCompanyID, invoiceRequest())
	require.NoError(t, err)

	_, err = e.authority.Authorize(ctx, testCompanyID, inv.ID)
	require.Error(t, err, "no se autoriza sin enviar")
	assert.True(t, errors.Is(err, sri.ErrValidation))

	_, err = e.authority.Send(ctx, testCompanyID, inv.ID)
	require.NoError(t, err)
	_, err = e.authority.Send(ctx, testCompanyID, inv.ID)
	require.Error(t, err, "un comprobante enviado no se reenvía")
	assert.True(t, errors.Is(err, sri.ErrValidation))

	_, err = e.authority.Authorize(ctx, testCompanyID, inv.ID)
	require.NoError(t, err)
	_, err = e.authority.Send(ctx, testCompanyID, inv.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ya está autorizado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Respuestas del SRI
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthority_DevueltaMantieneGenerado(t *testing.T) {
	stub := &stubAuthority{reception: &comprobante.ReceptionResult{
		Status:   comprobante.ReceptionReturned,
		Messages: []comprobante.AuthorityMessage{{ID: "43", Message: "CLAVE ACCESO REGISTRADA", Type: "ERROR"}},
	}}
	e := newEnvWithClient(t, stub)
	ctx := context.Background()
	inv, err := e.docs.IssueInvoice(ctx, testCompanyID, invoiceRequest())
	require.NoError(t, err)

	_, err = e.authority.Send(ctx, testCompanyID, inv.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sri.ErrValidation))

	rec := e.invoices.get(t, inv.ID)
	assert.Equal(t, entity.InvoiceStatusGenerated, rec.Status)
	assert.Equal(t, "DEVUELTA: 43 CLAVE ACCESO REGISTRADA", rec.AuthorityResponse)
}

func TestAuthority_NoAutorizadoRechaza(t *testing.T) {
	stub := &stubAuthority{
		reception: &comprobante.ReceptionResult{Status: comprobante.ReceptionReceived},
		auth: &comprobante.AuthorizationResponse{
			Status:   comprobante.AuthorizationNotAuthorized,
			Messages: []comprobante.AuthorityMessage{{ID: "39", Message: "FIRMA INVALIDA", Type: "ERROR"}},
		},
	}
	e := newEnvWithClient(t, stub)
	ctx := context.Background()
	inv, err := e.docs.IssueInvoice(ctx, testCompanyID, invoiceRequest())
	require.NoError(t, err)
	_, err = e.authority.Send(ctx, testCompanyID, inv.ID)
	require.NoError(t, err)

	out, err := e.authority.Authorize(ctx, testCompanyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.InvoiceStatusRejected), out.Status)
	assert.Empty(t, out.AuthorizationNumber)
	assert.Contains(t, out.AuthorityResponse, "FIRMA INVALIDA")
	assert.Empty(t, e.store.objects, "los rechazados no se archivan")
}

func TestAuthority_EnProcesoSigueEnviado(t *testing.T) {
	stub := &stubAuthority{
		reception: &comprobante.ReceptionResult{Status: comprobante.ReceptionReceived},
		auth:      &comprobante.AuthorizationResponse{Status: comprobante.AuthorizationInProcess},
	}
	e := newEnvWithClient(t, stub)
	ctx := context.Background()
	inv, err := e.docs.IssueInvoice(ctx, testCompanyID, invoiceRequest())
	require.NoError(t, err)
	_, err = e.authority.Send(ctx, testCompanyID, inv.ID)
	require.NoError(t, err)

	out, err := e.authority.Authorize(ctx, testCompanyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.InvoiceStatusSent), out.Status)
	assert.Equal(t, entity.InvoiceStatusSent, e.invoices.get(t, inv.ID).Status)
}

func TestAuthority_ErrorDeTransporte(t *testing.T) {
	boom := errors.New("conexión rechazada")
	e := newEnvWithClient(t, &stubAuthority{err: boom})
	ctx := context.Background()
	inv, err := e.docs.IssueInvoice(ctx, testCompanyID, invoiceRequest())
	require.NoError(t, err)

	_, err = e.authority.Send(ctx, testCompanyID, inv.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, entity.InvoiceStatusGenerated, e.invoices.get(t, inv.ID).Status)
}

func TestAuthority_FalloDeArchivoNoRevierteAutorizacion(t *testing.T) {
	e := newEnv(t)
	e.store.failWith = errBucket
	ctx := context.Background()
	inv, err := e.docs.IssueInvoice(ctx, testCompanyID, invoiceRequest())
	require.NoError(t, err)
	_, err = e.authority.Send(ctx, testCompanyID, inv.ID)
	require.NoError(t, err)

	out, err := e.authority.Authorize(ctx, testCompanyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.InvoiceStatusAuthorized), out.Status)
	assert.Empty(t, e.store.objects)
}

// ──────────────────────────────────────────────────────────────────────────────
// Anulación
// ──────────────────────────────────────────────────────────────────────────────

func authorizedInvoice(t *testing.T, e *env) *dto.FiscalDocumentResponse {
	t.Helper()
	ctx := context.Background()
	inv, err := e.docs.IssueInvoice(ctx, testCompanyID, invoiceRequest())
	require.NoError(t, err)
	_, err = e.authority.Send(ctx, testCompanyID, inv.ID)
	require.NoError(t, err)
	_, err = e.authority.Authorize(ctx, testCompanyID, inv.ID)
	require.NoError(t, err)
	return inv
}

func TestVoid_Factura(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inv := authorizedInvoice(t, e)

	out, err := e.authority.Void(ctx, testCompanyID, inv.ID, "Pedido cancelado")
	require.NoError(t, err)
	assert.Equal(t, string(entity.InvoiceStatusVoided), out.Status)
	assert.Equal(t, "ANULADO: Pedido cancelado", out.AuthorityResponse)

	_, err = e.authority.Void(ctx, testCompanyID, inv.ID, "otra vez")
	require.Error(t, err, "un anulado es terminal")
	assert.True(t, errors.Is(err, sri.ErrValidation))

	_, err = e.authority.Send(ctx, testCompanyID, inv.ID)
	assert.Error(t, err)
}

func TestVoid_NotaDeCreditoNoSeAnula(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inv := authorizedInvoice(t, e)
	nc, err := e.docs.IssueCreditNote(ctx, testCompanyID, dto.IssueCreditNoteRequest{InvoiceID: inv.ID, Reason: "Devolución"})
	require.NoError(t, err)

	_, err = e.authority.Void(ctx, testCompanyID, nc.ID, "error")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sri.ErrValidation))
	assert.Equal(t, entity.InvoiceStatusGenerated, e.invoices.get(t, nc.ID).Status)
}

func TestVoid_OtraEmpresa(t *testing.T) {
	e := newEnv(t)
	inv := authorizedInvoice(t, e)
	_, err := e.authority.Void(context.Background(), otherCompanyID, inv.ID, "x")
	require.Error(t, err)
	assert.Equal(t, entity.InvoiceStatusAuthorized, e.invoices.get(t, inv.ID).Status)
}
