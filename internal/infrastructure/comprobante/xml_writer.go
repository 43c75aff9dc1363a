package comprobante

import (
	"github.com/beevik/etree"
)

const indentSpaces = 2

// newComprobanteDocument crea el documento con declaración UTF-8 y la raíz del
// comprobante. Los cierres se escriben completos (<tag></tag>) incluso vacíos.
func newComprobanteDocument(rootTag, version string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.WriteSettings.CanonicalEndTags = true
	root := doc.CreateElement(rootTag)
	root.CreateAttr("id", rootID)
	root.CreateAttr("version", version)
	return doc, root
}

// leaf agrega <tag>valor</tag>; etree escapa los cinco metacaracteres.
func leaf(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}

// optional agrega el elemento solo si value no está vacío.
func optional(parent *etree.Element, tag, value string) {
	if value != "" {
		leaf(parent, tag, value)
	}
}

// serialize aplica sangría de dos espacios y devuelve los bytes.
func serialize(doc *etree.Document) ([]byte, error) {
	s := etree.NewIndentSettings()
	s.Spaces = indentSpaces
	s.PreserveLeafWhitespace = true
	doc.IndentWithSettings(s)
	return doc.WriteToBytes()
}
