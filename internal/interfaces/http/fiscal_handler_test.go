package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/dto"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/pdf"
	apphttp "github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/interfaces/http"
	pkgjwt "github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/jwt"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servicios simulados
// ──────────────────────────────────────────────────────────────────────────────

const testAccessKey = "1503202401179001234500110010020000000011234567811"

type stubFiscal struct {
	err        error
	lastCo     string
	lastID     string
	lastReason string
	lastIssue  dto.IssueInvoiceRequest
	lastPage   dto.PageRequest
}

func (s *stubFiscal) doc(status string) *dto.FiscalDocumentResponse {
	return &dto.FiscalDocumentResponse{
		ID:           "doc-1",
		DocumentType: "01",
		Number:       "001-002-000000001",
		AccessKey:    testAccessKey,
		Status:       status,
		Total:        decimal.RequireFromString("23.00"),
	}
}

func (s *stubFiscal) IssueInvoice(_ context.Context, companyID string, in dto.IssueInvoiceRequest) (*dto.FiscalDocumentResponse, error) {
	s.lastCo, s.lastIssue = companyID, in
	if s.err != nil {
		return nil, s.err
	}
	return s.doc("generated"), nil
}

func (s *stubFiscal) IssueCreditNote(_ context.Context, companyID string, in dto.IssueCreditNoteRequest) (*dto.FiscalDocumentResponse, error) {
	s.lastCo, s.lastID = companyID, in.InvoiceID
	if s.err != nil {
		return nil, s.err
	}
	out := s.doc("generated")
	out.DocumentType = "04"
	return out, nil
}

func (s *stubFiscal) Get(_ context.Context, companyID, id string) (*dto.FiscalDocumentResponse, error) {
	s.lastCo, s.lastID = companyID, id
	if s.err != nil {
		return nil, s.err
	}
	return s.doc("generated"), nil
}

func (s *stubFiscal) List(_ context.Context, _ string, page dto.PageRequest) (*dto.FiscalDocumentListResponse, error) {
	s.lastPage = page
	if s.err != nil {
		return nil, s.err
	}
	return &dto.FiscalDocumentListResponse{Items: []dto.FiscalDocumentResponse{*s.doc("generated")}, Page: dto.PageResponse{Limit: page.Limit}}, nil
}

func (s *stubFiscal) GetXML(_ context.Context, _ string, _ string) ([]byte, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return []byte(`<?xml version="1.0" encoding="UTF-8"?><factura/>`), testAccessKey + ".xml", nil
}

func (s *stubFiscal) Send(_ context.Context, _ string, id string) (*dto.FiscalDocumentResponse, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return s.doc("sent"), nil
}

func (s *stubFiscal) Authorize(_ context.Context, _ string, id string) (*dto.FiscalDocumentResponse, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return s.doc("authorized"), nil
}

func (s *stubFiscal) Void(_ context.Context, _ string, id, reason string) (*dto.FiscalDocumentResponse, error) {
	s.lastID, s.lastReason = id, reason
	if s.err != nil {
		return nil, s.err
	}
	return s.doc("voided"), nil
}

func (s *stubFiscal) Download(context.Context, string, string) ([]byte, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return []byte("%PDF-1.3 stub"), "RIDE-" + testAccessKey + ".pdf", nil
}

func (s *stubFiscal) Export(context.Context, string, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "/tmp/ride/RIDE-" + testAccessKey + ".pdf", nil
}

func (s *stubFiscal) Bundle(context.Context, string, string) ([]byte, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return []byte("PK\x03\x04"), testAccessKey + ".zip", nil
}

type stubEmitters struct{ err error }

func (s *stubEmitters) Get(_ context.Context, companyID string) (*dto.EmitterResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.EmitterResponse{CompanyID: companyID, RUC: "1790012345001"}, nil
}

func (s *stubEmitters) Save(_ context.Context, companyID string, in dto.EmitterRequest) (*dto.EmitterResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.EmitterResponse{CompanyID: companyID, RUC: in.RUC}, nil
}

func buildFiscalApp(svc *stubFiscal) *fiber.App {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Documents: svc,
		Authority: svc,
		Rides:     svc,
		Emitters:  &stubEmitters{},
		Customers: &stubCustomers{},
		Auth:      &stubAuth{},
		JWTSecret: testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Emisión y consulta
// ──────────────────────────────────────────────────────────────────────────────

func TestFiscalHandler_EmitirFactura(t *testing.T) {
	svc := &stubFiscal{}
	app := buildFiscalApp(svc)

	body := `{"items":[{"code":"P001","description":"Almuerzo","quantity":"2","unit_price":"10.00"}],"tip":"1.50"}`
	resp := call(t, app, http.MethodPost, "/api/fiscal/invoices", pkgjwt.RoleCashier, body)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.FiscalDocumentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, testAccessKey, out.AccessKey)
	assert.Equal(t, testCompanyID, svc.lastCo, "la empresa sale del token")
	require.Len(t, svc.lastIssue.Items, 1)
	assert.Equal(t, "1.5", svc.lastIssue.Tip.String())
}

func TestFiscalHandler_CuerpoInvalido(t *testing.T) {
	app := buildFiscalApp(&stubFiscal{})
	resp := call(t, app, http.MethodPost, "/api/fiscal/invoices", pkgjwt.RoleCashier, `{"items":`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", errorCode(t, resp))
}

func TestFiscalHandler_ContadorNoEmite(t *testing.T) {
	app := buildFiscalApp(&stubFiscal{})
	resp := call(t, app, http.MethodPost, "/api/fiscal/invoices", pkgjwt.RoleAuditor, `{}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/fiscal/documents/doc-1", pkgjwt.RoleAuditor, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "el contador puede consultar")
}

func TestFiscalHandler_SinToken(t *testing.T) {
	app := buildFiscalApp(&stubFiscal{})
	resp := call(t, app, http.MethodGet, "/api/fiscal/documents/doc-1", "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFiscalHandler_ListaLimitada(t *testing.T) {
	svc := &stubFiscal{}
	app := buildFiscalApp(svc)
	resp := call(t, app, http.MethodGet, "/api/fiscal/documents?limit=500&offset=20", pkgjwt.RoleAdmin, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 100, svc.lastPage.Limit)
	assert.Equal(t, 20, svc.lastPage.Offset)
}

func TestFiscalHandler_CicloYAnulacion(t *testing.T) {
	svc := &stubFiscal{}
	app := buildFiscalApp(svc)

	for path, want := range map[string]string{
		"/api/fiscal/documents/doc-1/send":      "sent",
		"/api/fiscal/documents/doc-1/authorize": "authorized",
	} {
		resp := call(t, app, http.MethodPost, path, pkgjwt.RoleCashier, "")
		var out dto.FiscalDocumentResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		resp.Body.Close()
		assert.Equal(t, want, out.Status, path)
	}

	resp := call(t, app, http.MethodPost, "/api/fiscal/documents/doc-1/void", pkgjwt.RoleCashier, `{"reason":"x"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "solo admin anula")

	resp = call(t, app, http.MethodPost, "/api/fiscal/documents/doc-1/void", pkgjwt.RoleAdmin, `{"reason":"Pedido cancelado"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Pedido cancelado", svc.lastReason)
}

// ──────────────────────────────────────────────────────────────────────────────
// Descargas
// ──────────────────────────────────────────────────────────────────────────────

func TestFiscalHandler_Descargas(t *testing.T) {
	app := buildFiscalApp(&stubFiscal{})
	cases := []struct {
		path, contentType, file string
	}{
		{"/api/fiscal/documents/doc-1/xml", "application/xml; charset=utf-8", testAccessKey + ".xml"},
		{"/api/fiscal/documents/doc-1/ride", "application/pdf", "RIDE-" + testAccessKey + ".pdf"},
		{"/api/fiscal/documents/doc-1/bundle", "application/zip", testAccessKey + ".zip"},
	}
	for _, tc := range cases {
		resp := call(t, app, http.MethodGet, tc.path, pkgjwt.RoleAuditor, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, tc.path)
		assert.Equal(t, tc.contentType, resp.Header.Get("Content-Type"), tc.path)
		assert.Equal(t, `attachment; filename="`+tc.file+`"`, resp.Header.Get("Content-Disposition"), tc.path)
		resp.Body.Close()
	}

	resp := call(t, app, http.MethodPost, "/api/fiscal/documents/doc-1/ride/export", pkgjwt.RoleCashier, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traducción de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestFiscalHandler_MapeoDeErrores(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", sri.NewValidationError("estado", "transición no permitida"), http.StatusUnprocessableEntity, "VALIDATION"},
		{"documento inválido", errors.Join(fiscal.ErrInvalidDocument, sri.NewFormatError("ruc", "1", "largo")), http.StatusUnprocessableEntity, "VALIDATION"},
		{"formato", sri.NewFormatError("fechaEmision", "2024-03-15", "se espera dd/mm/aaaa"), http.StatusBadRequest, "FORMAT"},
		{"no encontrado", fmt.Errorf("obtener: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"otra empresa", domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"pdf", &pdf.RenderIOError{Op: "write", Path: "/x", Err: errors.New("disco lleno")}, http.StatusInternalServerError, "RENDER_IO"},
		{"interno", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := buildFiscalApp(&stubFiscal{err: tc.err})
			resp := call(t, app, http.MethodGet, "/api/fiscal/documents/doc-1/ride", pkgjwt.RoleAdmin, "")
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, resp))
		})
	}
}

func TestFiscalHandler_Emisor(t *testing.T) {
	app := buildFiscalApp(&stubFiscal{})

	resp := call(t, app, http.MethodPut, "/api/fiscal/emitter", pkgjwt.RoleCashier, `{"ruc":"1790012345001"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPut, "/api/fiscal/emitter", pkgjwt.RoleAdmin, `{"ruc":"1790012345001"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.EmitterResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, testCompanyID, out.CompanyID)
}
