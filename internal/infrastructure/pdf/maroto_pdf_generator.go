// Package pdf genera los documentos imprimibles del hogar: la lista de compras
// para llevar a la tienda y el libro de precios de un producto.
//
// Layout de la lista de compras (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Hogar + nombre de la lista  │  Estado + fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: [ ] | Producto | Cant. | Unidad | P.Est. | Subtotal │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL ESTIMADO                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/ports"
	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

var _ ports.PDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 34, Green: 110, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

func newDocument(title string, household *entity.Household) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(household.Name, true).
		Build()
	return maroto.New(cfg)
}

// ShoppingListPDF genera la lista de compras con casillas para marcar a mano.
func (g *MarotoPDFGenerator) ShoppingListPDF(
	_ context.Context,
	list *entity.ShoppingList,
	household *entity.Household,
) ([]byte, error) {
	m := newDocument("Lista de compras", household)

	m.AddRows(listHeaderRow(list, household))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(listTableHeaderRow())
	if len(list.Items) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("La lista no tiene ítems.", props.Text{Size: 8, Top: 2, Color: colorGray, Align: align.Center}),
		)))
	}
	for _, r := range listItemRows(list.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow("TOTAL ESTIMADO:", money(list.EstimatedTotal(), household.Currency)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar lista de compras: %w", err)
	}
	return doc.GetBytes(), nil
}

// PriceBookPDF genera el resumen de precios de un producto por tienda.
func (g *MarotoPDFGenerator) PriceBookPDF(
	_ context.Context,
	book *dto.PriceBookDTO,
	household *entity.Household,
) ([]byte, error) {
	m := newDocument("Libro de precios", household)
	cur := household.Currency

	m.AddRows(row.New(18).Add(
		col.New(8).Add(
			text.New(book.ProductName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(household.Name, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("LIBRO DE PRECIOS", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%d observaciones", book.Observations), props.Text{Size: 8, Align: align.Right, Top: 7, Color: colorGray}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	summary := fmt.Sprintf("Mínimo: %s   |   Máximo: %s   |   Promedio: %s   |   Último: %s",
		money(book.MinPrice, cur), money(book.MaxPrice, cur),
		money(book.AveragePrice, cur), money(book.LatestPrice, cur))
	m.AddRows(row.New(8).Add(col.New(12).Add(text.New(summary, props.Text{Size: 8, Top: 2}))))
	trend := fmt.Sprintf("Tendencia: %s%%", book.TrendPercent.StringFixed(1))
	if book.BestStoreName != "" {
		trend += "   |   Mejor tienda: " + book.BestStoreName
	}
	m.AddRows(row.New(8).Add(col.New(12).Add(text.New(trend, props.Text{Size: 8, Top: 1, Color: colorGray}))))

	m.AddRows(tableHeader([]headerCol{
		{"Tienda", 4, align.Left},
		{"Obs.", 1, align.Center},
		{"Último", 2, align.Right},
		{"Mínimo", 2, align.Right},
		{"Promedio", 3, align.Right},
	}))
	for _, s := range book.Stores {
		name := nonEmpty(s.StoreName, "Sin tienda")
		if s.StoreID != "" && s.StoreID == book.BestStoreID {
			name += " *"
		}
		m.AddRows(row.New(7).Add(
			cell(name, 4, align.Left),
			cell(fmt.Sprint(s.Observations), 1, align.Center),
			cell(money(s.LatestPrice, cur), 2, align.Right),
			cell(money(s.MinPrice, cur), 2, align.Right),
			cell(money(s.AveragePrice, cur), 3, align.Right),
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar libro de precios: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// listHeaderRow: hogar + nombre de la lista (izq) y estado + fecha (der).
func listHeaderRow(list *entity.ShoppingList, household *entity.Household) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(list.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(household.Name, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("LISTA DE COMPRAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(strings.ToUpper(list.Status), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Creada: "+list.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

type headerCol struct {
	label string
	size  int
	align align.Type
}

func tableHeader(cols []headerCol) core.Row {
	r := row.New(8)
	for _, c := range cols {
		r.Add(col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return r.WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func listTableHeaderRow() core.Row {
	return tableHeader([]headerCol{
		{"", 1, align.Center},
		{"Producto", 5, align.Left},
		{"Cant.", 1, align.Center},
		{"Unidad", 1, align.Center},
		{"P. est.", 2, align.Right},
		{"Subtotal", 2, align.Right},
	})
}

func cell(s string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

// listItemRows: una fila por ítem; los marcados llevan [x].
func listItemRows(items []entity.ShoppingListItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		box := "[  ]"
		if it.Checked {
			box = "[x]"
		}
		result = append(result, row.New(7).Add(
			cell(box, 1, align.Center),
			cell(it.Name, 5, align.Left),
			cell(it.Quantity.String(), 1, align.Center),
			cell(nonEmpty(it.Unit, "-"), 1, align.Center),
			cell(formatMoney(it.EstimatedPrice.StringFixed(0)), 2, align.Right),
			cell(formatMoney(it.Quantity.Mul(it.EstimatedPrice).StringFixed(0)), 2, align.Right),
		))
	}
	return result
}

// totalRow: etiqueta y valor alineados a la derecha.
func totalRow(label, value string) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(value, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea sin decimales con separador de miles y la moneda del hogar.
func money(d decimal.Decimal, currency string) string {
	s := "$" + formatMoney(d.StringFixed(0))
	if currency != "" {
		s += " " + currency
	}
	return s
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
