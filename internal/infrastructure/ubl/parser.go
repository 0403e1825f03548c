// Package ubl lee facturas electrónicas UBL 2.1 (incluido el AttachedDocument de la DIAN)
// y las convierte en recibos de compra.
package ubl

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain"
)

var _ ports.ReceiptParser = (*Parser)(nil)

// Parser implementa ports.ReceiptParser.
type Parser struct{}

// NewParser construye el parser.
func NewParser() *Parser { return &Parser{} }

// Parse extrae proveedor, número, fecha, total y líneas. Acepta Invoice y AttachedDocument
// (la factura viaja embebida en cac:Attachment/cac:ExternalReference/cbc:Description).
func (p *Parser) Parse(data []byte) (*dto.ParsedReceipt, error) {
	root, err := readRoot(data)
	if err != nil {
		return nil, err
	}
	if root.Tag == "AttachedDocument" {
		desc := find(root, "Attachment", "ExternalReference", "Description")
		if desc == nil || strings.TrimSpace(desc.Text()) == "" {
			return nil, fmt.Errorf("%w: AttachedDocument sin factura embebida", domain.ErrInvalidInput)
		}
		if root, err = readRoot([]byte(strings.TrimSpace(desc.Text()))); err != nil {
			return nil, err
		}
	}
	if root.Tag != "Invoice" {
		return nil, fmt.Errorf("%w: se esperaba Invoice, llegó %s", domain.ErrInvalidInput, root.Tag)
	}

	out := &dto.ParsedReceipt{
		Number:   text(find(root, "ID")),
		Currency: text(find(root, "DocumentCurrencyCode")),
	}
	party := find(root, "AccountingSupplierParty", "Party")
	if party != nil {
		out.SupplierName = text(find(party, "PartyName", "Name"))
		if out.SupplierName == "" {
			out.SupplierName = text(find(party, "PartyTaxScheme", "RegistrationName"))
		}
		if out.SupplierName == "" {
			out.SupplierName = text(find(party, "PartyLegalEntity", "RegistrationName"))
		}
		out.SupplierID = text(find(party, "PartyTaxScheme", "CompanyID"))
	}
	if d := text(find(root, "IssueDate")); d != "" {
		issued, err := time.Parse(time.DateOnly, d)
		if err != nil {
			return nil, fmt.Errorf("%w: IssueDate %q", domain.ErrInvalidInput, d)
		}
		out.IssuedAt = issued
	}
	if out.Total, err = amount(find(root, "LegalMonetaryTotal", "PayableAmount")); err != nil {
		return nil, err
	}

	for _, ln := range children(root, "InvoiceLine") {
		line, err := parseLine(ln)
		if err != nil {
			return nil, err
		}
		out.Lines = append(out.Lines, line)
	}
	if len(out.Lines) == 0 {
		return nil, fmt.Errorf("%w: factura sin líneas", domain.ErrInvalidInput)
	}
	return out, nil
}

func parseLine(ln *etree.Element) (dto.ParsedReceiptLine, error) {
	var (
		l   dto.ParsedReceiptLine
		err error
	)
	item := find(ln, "Item")
	l.Description = text(find(item, "Description"))
	if l.Description == "" {
		l.Description = text(find(item, "Name"))
	}
	l.Barcode = text(find(item, "StandardItemIdentification", "ID"))
	if l.Quantity, err = amount(find(ln, "InvoicedQuantity")); err != nil {
		return l, err
	}
	if !l.Quantity.IsPositive() {
		l.Quantity = decimal.NewFromInt(1)
	}
	if l.LineTotal, err = amount(find(ln, "LineExtensionAmount")); err != nil {
		return l, err
	}
	if l.UnitPrice, err = amount(find(ln, "Price", "PriceAmount")); err != nil {
		return l, err
	}
	// Algunas facturas solo traen el total de línea.
	if l.UnitPrice.IsZero() && l.LineTotal.IsPositive() {
		l.UnitPrice = l.LineTotal.Div(l.Quantity).Round(2)
	}
	if l.Description == "" {
		return l, fmt.Errorf("%w: línea sin descripción", domain.ErrInvalidInput)
	}
	return l, nil
}

func readRoot(data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: XML inválido: %v", domain.ErrInvalidInput, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: documento sin raíz", domain.ErrInvalidInput)
	}
	return root, nil
}

// charsetReader decodifica los encabezados ISO-8859-1 / windows-1252 que emiten algunos
// proveedores; UTF-8 lo maneja encoding/xml.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("charset no soportado: %s", label)
}

// find desciende por nombre local, sin importar el prefijo de namespace.
func find(e *etree.Element, path ...string) *etree.Element {
	for _, name := range path {
		if e == nil {
			return nil
		}
		var next *etree.Element
		for _, c := range e.ChildElements() {
			if c.Tag == name {
				next = c
				break
			}
		}
		e = next
	}
	return e
}

func children(e *etree.Element, name string) []*etree.Element {
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag == name {
			out = append(out, c)
		}
	}
	return out
}

func text(e *etree.Element) string {
	if e == nil {
		return ""
	}
	return strings.TrimSpace(e.Text())
}

func amount(e *etree.Element) (decimal.Decimal, error) {
	s := text(e)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: monto %q en %s", domain.ErrInvalidInput, s, e.Tag)
	}
	return d, nil
}
