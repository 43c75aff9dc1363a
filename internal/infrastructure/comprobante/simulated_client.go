package comprobante

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ReceptionResult resultado de la recepción de un comprobante.
type ReceptionResult struct {
	Status   string // RECIBIDA o DEVUELTA
	Messages []AuthorityMessage
}

// Received indica si el SRI recibió el comprobante.
func (r *ReceptionResult) Received() bool {
	return r != nil && r.Status == ReceptionReceived
}

// AuthorityClient puerto de salida hacia los servicios de recepción y
// autorización del SRI. La implementación simulada se usa mientras no haya
// integración real; para tests se puede inyectar un mock.
type AuthorityClient interface {
	// Submit entrega el XML del comprobante (recepción).
	Submit(ctx context.Context, accessKey string, xml []byte) (*ReceptionResult, error)
	// Authorize consulta la autorización de un comprobante ya recibido.
	Authorize(ctx context.Context, accessKey string) (*AuthorizationResponse, error)
}

// SimulatedAuthorityClient recibe y autoriza siempre. El número de autorización
// es la propia clave de acceso y la fecha es la hora actual.
type SimulatedAuthorityClient struct {
	mu          sync.Mutex
	received    map[string][]byte
	environment string
	now         func() time.Time
}

// NewSimulatedAuthorityClient environment es la etiqueta del ambiente (PRUEBAS / PRODUCCIÓN).
func NewSimulatedAuthorityClient(environment string) *SimulatedAuthorityClient {
	return &SimulatedAuthorityClient{
		received:    make(map[string][]byte),
		environment: environment,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (c *SimulatedAuthorityClient) WithClock(now func() time.Time) *SimulatedAuthorityClient {
	c.now = now
	return c
}

// Submit registra el comprobante como RECIBIDA.
func (c *SimulatedAuthorityClient) Submit(ctx context.Context, accessKey string, xml []byte) (*ReceptionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sri simulado: %w", err)
	}
	if len(xml) == 0 {
		return &ReceptionResult{
			Status:   ReceptionReturned,
			Messages: []AuthorityMessage{{ID: "35", Message: "ARCHIVO NO CUMPLE ESTRUCTURA XML", Type: "ERROR"}},
		}, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received[accessKey] = append([]byte(nil), xml...)
	return &ReceptionResult{Status: ReceptionReceived}, nil
}

// Authorize autoriza un comprobante recibido; si no fue recibido responde EN PROCESO
// sin número, como el WS cuando la clave aún no está registrada.
func (c *SimulatedAuthorityClient) Authorize(ctx context.Context, accessKey string) (*AuthorizationResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sri simulado: %w", err)
	}
	c.mu.Lock()
	xml, ok := c.received[accessKey]
	c.mu.Unlock()
	if !ok {
		return &AuthorizationResponse{Status: AuthorizationInProcess, Environment: c.environment}, nil
	}
	return &AuthorizationResponse{
		Status:       AuthorizationAuthorized,
		Number:       accessKey,
		AuthorizedAt: c.now(),
		Environment:  c.environment,
		Comprobante:  string(xml),
	}, nil
}
