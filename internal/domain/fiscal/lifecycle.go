package fiscal

import (
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

// Transition valida el paso from → to para un comprobante del tipo docType.
// El servicio que llama hace la llamada al SRI y la persistencia; aquí solo se decide.
//
//	draft → generated → sent → authorized
//	                       └─→ rejected
//	(factura, cualquier estado salvo voided) → voided
func Transition(docType string, from, to entity.InvoiceStatus) error {
	if !from.IsValid() {
		return sri.NewValidationError("estado", "estado actual desconocido %q", from)
	}
	if !to.IsValid() {
		return sri.NewValidationError("estado", "estado destino desconocido %q", to)
	}
	if from.IsTerminal() {
		return sri.NewValidationError("estado", "el comprobante está anulado; no admite cambios")
	}

	switch to {
	case entity.InvoiceStatusGenerated:
		if from == entity.InvoiceStatusDraft {
			return nil
		}
	case entity.InvoiceStatusSent:
		if from == entity.InvoiceStatusAuthorized {
			return sri.NewValidationError("estado", "el comprobante ya está autorizado; no se reenvía")
		}
		if from == entity.InvoiceStatusGenerated {
			return nil
		}
	case entity.InvoiceStatusAuthorized, entity.InvoiceStatusRejected:
		if from == entity.InvoiceStatusSent {
			return nil
		}
		return sri.NewValidationError("estado", "no se puede pasar de %s a %s sin enviar al SRI", from, to)
	case entity.InvoiceStatusVoided:
		if docType != string(sri.DocumentTypeFactura) {
			return sri.NewValidationError("estado", "solo las facturas se pueden anular (tipo %s)", docType)
		}
		return nil
	}
	return sri.NewValidationError("estado", "transición no permitida: %s → %s", from, to)
}

// CanTransition versión booleana de Transition.
func CanTransition(docType string, from, to entity.InvoiceStatus) bool {
	return Transition(docType, from, to) == nil
}
