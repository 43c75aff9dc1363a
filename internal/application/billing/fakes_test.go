package billing_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/billing"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/repository"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/comprobante"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/pdf"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID  = "00000000-0000-0000-0000-000000000002"
	otherCompanyID = "00000000-0000-0000-0000-000000000099"
	numericCode    = "12345678"
)

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

type memInvoiceRepo struct {
	mu   sync.Mutex
	recs map[string]*entity.InvoiceRecord
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{recs: make(map[string]*entity.InvoiceRecord)}
}

func (r *memInvoiceRepo) Create(_ context.Context, rec *entity.InvoiceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recs[rec.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *rec
	r.recs[rec.ID] = &cp
	return nil
}

func (r *memInvoiceRepo) GetByID(_ context.Context, id string) (*entity.InvoiceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *memInvoiceRepo) GetByAccessKey(_ context.Context, key string) (*entity.InvoiceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.recs {
		if rec.AccessKey == key {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memInvoiceRepo) UpdateStatus(_ context.Context, rec *entity.InvoiceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.recs[rec.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = rec.Status
	cur.AuthorityResponse = rec.AuthorityResponse
	cur.AuthorizationNumber = rec.AuthorizationNumber
	cur.AuthorizedAt = rec.AuthorizedAt
	cur.UpdatedAt = rec.UpdatedAt
	return nil
}

func (r *memInvoiceRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.InvoiceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.InvoiceRecord
	for _, rec := range r.recs {
		if rec.CompanyID == companyID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// get lectura directa para asserts.
func (r *memInvoiceRepo) get(t *testing.T, id string) *entity.InvoiceRecord {
	t.Helper()
	rec, _ := r.GetByID(context.Background(), id)
	if rec == nil {
		t.Fatalf("comprobante %s no encontrado", id)
	}
	return rec
}

type memSequenceRepo struct {
	mu     sync.Mutex
	values map[string]int64
}

func newMemSequenceRepo() *memSequenceRepo {
	return &memSequenceRepo{values: make(map[string]int64)}
}

func (r *memSequenceRepo) Next(_ context.Context, companyID, docType string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := companyID + "/" + docType
	r.values[k]++
	return r.values[k], nil
}

func (r *memSequenceRepo) snapshot() map[string]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[string]int64, len(r.values))
	for k, v := range r.values {
		cp[k] = v
	}
	return cp
}

func (r *memSequenceRepo) restore(values map[string]int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = values
}

// memTxRunner emula el rollback devolviendo los secuenciales a su valor previo.
type memTxRunner struct {
	seq      *memSequenceRepo
	invoices *memInvoiceRepo
}

func (r *memTxRunner) RunFiscal(_ context.Context, fn func(repository.SequenceRepository, repository.InvoiceRepository) error) error {
	before := r.seq.snapshot()
	if err := fn(r.seq, r.invoices); err != nil {
		r.seq.restore(before)
		return err
	}
	return nil
}

type memEmitterRepo struct {
	emitters map[string]*entity.EmitterConfig
}

func (r *memEmitterRepo) GetByCompanyID(_ context.Context, companyID string) (*entity.EmitterConfig, error) {
	e, ok := r.emitters[companyID]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *memEmitterRepo) Save(_ context.Context, cfg *entity.EmitterConfig) error {
	cp := *cfg
	r.emitters[cfg.CompanyID] = &cp
	return nil
}

type memCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*entity.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{customers: make(map[string]*entity.Customer)}
}

func (r *memCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *memCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCustomerRepo) GetByIdentification(_ context.Context, companyID, identification string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.CompanyID == companyID && c.Identification == identification {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Customer
	for _, c := range r.customers {
		if c.CompanyID == companyID {
			cp := *c
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *memCustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

var _ repository.CustomerRepository = (*memCustomerRepo)(nil)

type fixedNumericCode string

func (c fixedNumericCode) NumericCode() (string, error) { return string(c), nil }

// memStore registra lo archivado; failWith simula un bucket caído.
type memStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	failWith error
}

func (s *memStore) Put(_ context.Context, key, _ string, body []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return "", s.failWith
	}
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[key] = body
	return "mem://" + key, nil
}

// stubAuthority respuestas fijas del SRI.
type stubAuthority struct {
	reception *comprobante.ReceptionResult
	auth      *comprobante.AuthorizationResponse
	err       error
}

func (s *stubAuthority) Submit(context.Context, string, []byte) (*comprobante.ReceptionResult, error) {
	return s.reception, s.err
}

func (s *stubAuthority) Authorize(context.Context, string) (*comprobante.AuthorizationResponse, error) {
	return s.auth, s.err
}

var errBucket = errors.New("bucket no disponible")

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de prueba
// ──────────────────────────────────────────────────────────────────────────────

func sampleEmitter() *entity.EmitterConfig {
	return &entity.EmitterConfig{
		CompanyID:          testCompanyID,
		RUC:                "1790012345001",
		LegalName:          "RESTAURANTE LA CASA S.A.",
		TradeName:          "La Casa",
		MatrixAddress:      "Av. Amazonas N34-12, Quito",
		AccountingRequired: true,
		Environment:        "1",
		EmissionType:       "1",
		Establishment:      "001",
		EmissionPoint:      "002",
		DefaultTaxPercent:  decimal.NewFromInt(15),
	}
}

type env struct {
	invoices  *memInvoiceRepo
	seq       *memSequenceRepo
	store     *memStore
	customers *memCustomerRepo
	docs      *billing.FiscalDocumentUseCase
	authority *billing.AuthorityUseCase
	rides     *billing.RideUseCase
}

func newEnv(t *testing.T) *env {
	return newEnvWithClient(t, comprobante.NewSimulatedAuthorityClient("PRUEBAS").WithClock(func() time.Time { return testNow }))
}

func newEnvWithClient(t *testing.T, client comprobante.AuthorityClient) *env {
	t.Helper()
	invoices := newMemInvoiceRepo()
	seq := newMemSequenceRepo()
	emitters := &memEmitterRepo{emitters: map[string]*entity.EmitterConfig{testCompanyID: sampleEmitter()}}
	store := &memStore{}
	customers := newMemCustomerRepo()
	log := logger.Nop()
	renderer := pdf.NewRideRenderer()

	docs := billing.NewFiscalDocumentUseCase(
		&memTxRunner{seq: seq, invoices: invoices},
		invoices, emitters,
		comprobante.NewXMLBuilderService(),
		fixedNumericCode(numericCode),
		billing.SRIDefaults{Environment: "1", EmissionType: "1"},
		log,
	).WithClock(func() time.Time { return testNow }).WithCustomers(customers)

	authority := billing.NewAuthorityUseCase(invoices, client, renderer, store, time.Second, log).
		WithClock(func() time.Time { return testNow })

	return &env{
		invoices:  invoices,
		seq:       seq,
		store:     store,
		customers: customers,
		docs:      docs,
		authority: authority,
		rides:     billing.NewRideUseCase(invoices, renderer, t.TempDir(), log),
	}
}
