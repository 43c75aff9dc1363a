package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// El documento fiscal se guarda completo en una columna JSONB: es inmutable
// una vez generado y solo se lee entero.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, company_id, document_type, number, document, access_key, numeric_code,
	xml, status, authority_response, authorization_number, authorized_at,
	created_at, updated_at`

// Create persiste el comprobante generado.
func (r *InvoiceRepo) Create(ctx context.Context, rec *entity.InvoiceRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	doc, err := json.Marshal(rec.Document)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	query := `INSERT INTO fiscal_documents (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.q.Exec(ctx, query,
		rec.ID, rec.CompanyID, rec.DocumentType, rec.Number, doc,
		rec.AccessKey, rec.NumericCode, rec.XML, string(rec.Status),
		nullIfEmpty(rec.AuthorityResponse), nullIfEmpty(rec.AuthorizationNumber), rec.AuthorizedAt,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: comprobante %s ya existe", domain.ErrDuplicate, rec.Number)
		}
		return fmt.Errorf("insert fiscal document: %w", err)
	}
	return nil
}

// GetByID obtiene un comprobante por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.InvoiceRecord, error) {
	query := `SELECT ` + invoiceColumns + ` FROM fiscal_documents WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByAccessKey obtiene un comprobante por su clave de acceso.
func (r *InvoiceRepo) GetByAccessKey(ctx context.Context, accessKey string) (*entity.InvoiceRecord, error) {
	query := `SELECT ` + invoiceColumns + ` FROM fiscal_documents WHERE access_key = $1`
	return r.getOne(ctx, query, accessKey)
}

// UpdateStatus actualiza estado y datos del SRI. La clave, el XML y el documento no cambian.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, rec *entity.InvoiceRecord) error {
	query := `
		UPDATE fiscal_documents
		SET status               = $2,
		    authority_response   = COALESCE($3, authority_response),
		    authorization_number = COALESCE($4, authorization_number),
		    authorized_at        = COALESCE($5, authorized_at),
		    updated_at           = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		rec.ID, string(rec.Status),
		nullIfEmpty(rec.AuthorityResponse), nullIfEmpty(rec.AuthorizationNumber), rec.AuthorizedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update fiscal document status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista comprobantes de la empresa, más recientes primero.
func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.InvoiceRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + invoiceColumns + `
		FROM fiscal_documents WHERE company_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list fiscal documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceRecord
	for rows.Next() {
		rec, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) getOne(ctx context.Context, query string, arg string) (*entity.InvoiceRecord, error) {
	rec, err := scanInvoice(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// rowScanner cubre pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*entity.InvoiceRecord, error) {
	var (
		rec          entity.InvoiceRecord
		doc          []byte
		status       string
		response     *string
		authNumber   *string
		authorizedAt *time.Time
	)
	err := row.Scan(
		&rec.ID, &rec.CompanyID, &rec.DocumentType, &rec.Number, &doc,
		&rec.AccessKey, &rec.NumericCode, &rec.XML, &status,
		&response, &authNumber, &authorizedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan fiscal document: %w", err)
	}
	rec.Document = &entity.FiscalDocument{}
	if err := json.Unmarshal(doc, rec.Document); err != nil {
		return nil, fmt.Errorf("unmarshal document %s: %w", rec.ID, err)
	}
	rec.Status = entity.InvoiceStatus(status)
	rec.AuthorityResponse = derefStr(response)
	rec.AuthorizationNumber = derefStr(authNumber)
	rec.AuthorizedAt = authorizedAt
	return &rec, nil
}
