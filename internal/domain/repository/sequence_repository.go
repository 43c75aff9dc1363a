package repository

import "context"

// SequenceRepository asigna secuenciales por empresa y tipo de comprobante.
// Next es atómico: dos llamadas concurrentes nunca obtienen el mismo valor.
type SequenceRepository interface {
	Next(ctx context.Context, companyID, documentType string) (int64, error)
}
