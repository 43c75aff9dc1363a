package comprobante

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// Estados que devuelve el SRI en recepción y autorización.
const (
	ReceptionReceived = "RECIBIDA"
	ReceptionReturned = "DEVUELTA"

	AuthorizationAuthorized    = "AUTORIZADO"
	AuthorizationNotAuthorized = "NO AUTORIZADO"
	AuthorizationInProcess     = "EN PROCESO"
)

// AuthorityMessage mensaje informativo o de error del SRI.
type AuthorityMessage struct {
	ID      string
	Message string
	Info    string
	Type    string // ERROR, ADVERTENCIA, INFORMATIVO
}

// AuthorizationResponse respuesta de autorización de un comprobante.
type AuthorizationResponse struct {
	Status       string
	Number       string
	AuthorizedAt time.Time
	Environment  string
	Comprobante  string // XML del comprobante tal como fue autorizado
	Messages     []AuthorityMessage
}

// Authorized indica si el SRI autorizó el comprobante.
func (r *AuthorizationResponse) Authorized() bool {
	return r != nil && r.Status == AuthorizationAuthorized
}

// MessagesText concatena los mensajes para registrarlos junto al estado.
func (r *AuthorizationResponse) MessagesText() string {
	if r == nil {
		return ""
	}
	parts := make([]string, 0, len(r.Messages))
	for _, m := range r.Messages {
		parts = append(parts, strings.TrimSpace(m.ID+" "+m.Message+" "+m.Info))
	}
	return strings.Join(parts, "; ")
}

// BuildAuthorizationEnvelope arma el sobre <autorizacion> con el comprobante en CDATA.
func BuildAuthorizationEnvelope(r *AuthorizationResponse) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("autorizacion: respuesta nula")
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("autorizacion")
	root.CreateElement("estado").SetText(r.Status)
	if r.Number != "" {
		root.CreateElement("numeroAutorizacion").SetText(r.Number)
	}
	if !r.AuthorizedAt.IsZero() {
		root.CreateElement("fechaAutorizacion").SetText(r.AuthorizedAt.Format(time.RFC3339))
	}
	if r.Environment != "" {
		root.CreateElement("ambiente").SetText(r.Environment)
	}
	if r.Comprobante != "" {
		root.CreateElement("comprobante").CreateCData(r.Comprobante)
	}
	msgs := root.CreateElement("mensajes")
	for _, m := range r.Messages {
		el := msgs.CreateElement("mensaje")
		el.CreateElement("identificador").SetText(m.ID)
		el.CreateElement("mensaje").SetText(m.Message)
		if m.Info != "" {
			el.CreateElement("informacionAdicional").SetText(m.Info)
		}
		el.CreateElement("tipo").SetText(m.Type)
	}
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("autorizacion: serializar: %w", err)
	}
	return out, nil
}

// ParseAuthorizationEnvelope lee un sobre <autorizacion> (propio o del WS del SRI).
func ParseAuthorizationEnvelope(data []byte) (*AuthorizationResponse, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("autorizacion: XML inválido: %w", err)
	}
	root := doc.FindElement("//autorizacion")
	if root == nil {
		return nil, fmt.Errorf("autorizacion: falta el elemento <autorizacion>")
	}
	r := &AuthorizationResponse{
		Status:      childText(root, "estado"),
		Number:      childText(root, "numeroAutorizacion"),
		Environment: childText(root, "ambiente"),
	}
	if ts := childText(root, "fechaAutorizacion"); ts != "" {
		at, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("autorizacion: fechaAutorizacion %q: %w", ts, err)
		}
		r.AuthorizedAt = at
	}
	if el := root.SelectElement("comprobante"); el != nil {
		r.Comprobante = charData(el)
	}
	for _, m := range root.FindElements("./mensajes/mensaje") {
		r.Messages = append(r.Messages, AuthorityMessage{
			ID:      childText(m, "identificador"),
			Message: childText(m, "mensaje"),
			Info:    childText(m, "informacionAdicional"),
			Type:    childText(m, "tipo"),
		})
	}
	return r, nil
}

func childText(el *etree.Element, tag string) string {
	c := el.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}

// charData contenido de texto o CDATA de el, ignorando los espacios de sangría.
func charData(el *etree.Element) string {
	var sb strings.Builder
	for _, tok := range el.Child {
		cd, ok := tok.(*etree.CharData)
		if !ok {
			continue
		}
		if cd.IsCData() || strings.TrimSpace(cd.Data) != "" {
			sb.WriteString(cd.Data)
		}
	}
	return sb.String()
}
