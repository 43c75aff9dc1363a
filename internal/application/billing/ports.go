package billing

import (
	"context"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/repository"
)

// FiscalTxRunner ejecuta una función dentro de una transacción que incluye el
// secuencial y la persistencia del comprobante: si algo falla, el secuencial no se consume.
type FiscalTxRunner interface {
	RunFiscal(ctx context.Context, fn func(
		seqRepo repository.SequenceRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// NumericCodeSource provee el código numérico de 8 dígitos de la clave de acceso.
type NumericCodeSource interface {
	NumericCode() (string, error)
}

// XMLBuilder arma el XML sin firma del comprobante.
type XMLBuilder interface {
	Build(issued *fiscal.IssuedDocument) ([]byte, error)
}

// RideGenerator genera el RIDE (representación impresa) del comprobante.
type RideGenerator interface {
	Render(issued *fiscal.IssuedDocument) ([]byte, error)
	RenderToFile(dir string, issued *fiscal.IssuedDocument) (string, error)
}

// ArtifactStore archiva XML y RIDE autorizados. Put devuelve la ubicación del objeto.
type ArtifactStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}
