// Package expiration resuelve la vida útil estimada de un producto según su categoría,
// palabras clave del nombre y el tipo de ubicación donde se guarda.
package expiration

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/despensa-api/internal/domain/entity"
)

// shelfLife días de vida útil por tipo de ubicación. 0 = no aplica / desconocido.
type shelfLife struct {
	Pantry  int
	Fridge  int
	Freezer int
}

func (s shelfLife) forKind(kind string) int {
	switch kind {
	case entity.LocationFridge:
		return s.Fridge
	case entity.LocationFreezer:
		return s.Freezer
	default:
		return s.Pantry
	}
}

type rule struct {
	category string
	keywords []string
	life     shelfLife
}

// rules tabla de patrones. Orden importa: la primera palabra clave que coincide gana.
var rules = []rule{
	{"leftovers", []string{"sobras", "leftover"}, shelfLife{0, 4, 90}},
	{"dairy", []string{"leche", "milk", "yogur", "yogurt", "crema", "cream", "mantequilla", "butter"}, shelfLife{0, 7, 90}},
	{"cheese", []string{"queso", "cheese"}, shelfLife{0, 21, 180}},
	{"eggs", []string{"huevo", "egg"}, shelfLife{14, 35, 0}},
	{"poultry", []string{"pollo", "chicken", "pavo", "turkey"}, shelfLife{0, 2, 270}},
	{"fish", []string{"pescado", "fish", "salmon", "atun fresco", "camaron", "shrimp"}, shelfLife{0, 2, 180}},
	{"meat", []string{"carne", "res", "cerdo", "beef", "pork", "salchicha", "sausage", "jamon", "ham"}, shelfLife{0, 4, 180}},
	{"condiments", []string{"salsa", "sauce", "mayonesa", "mayonnaise", "mostaza", "mustard", "ketchup", "aceite", "oil", "vinagre", "vinegar"}, shelfLife{365, 180, 0}},
	{"bread", []string{"pan", "bread", "tortilla"}, shelfLife{5, 10, 90}},
	{"produce", []string{"lechuga", "lettuce", "espinaca", "spinach", "fresa", "strawberry", "strawberries", "tomate", "tomato", "banano", "banana", "manzana", "apple", "aguacate", "avocado", "zanahoria", "carrot"}, shelfLife{5, 10, 240}},
	{"tubers", []string{"papa", "potato", "cebolla", "onion", "ajo", "garlic"}, shelfLife{30, 60, 240}},
	{"frozen", []string{"congelado", "frozen", "helado", "ice cream"}, shelfLife{0, 2, 240}},
	{"canned", []string{"lata", "enlatado", "canned", "atun", "tuna"}, shelfLife{730, 730, 0}},
	{"dry goods", []string{"arroz", "rice", "pasta", "frijol", "bean", "lenteja", "lentil", "harina", "flour", "azucar", "sugar", "sal", "salt", "avena", "oat", "cafe", "coffee"}, shelfLife{365, 365, 0}},
	{"beverages", []string{"jugo", "juice", "gaseosa", "soda", "agua", "water", "cerveza", "beer"}, shelfLife{180, 180, 0}},
}

// Lookup devuelve los días de vida útil para el producto en el tipo de ubicación indicado.
// Las palabras clave del nombre ganan sobre la categoría; la comparación ignora
// mayúsculas y tildes. ok es false cuando no hay patrón o no aplica a esa ubicación.
func Lookup(category, name, locationKind string) (days int, ok bool) {
	n := normalize(name)
	if n != "" {
		for _, r := range rules {
			for _, kw := range r.keywords {
				if containsWord(n, kw) {
					return positive(r.life.forKind(locationKind))
				}
			}
		}
	}
	c := normalize(category)
	if c == "" {
		return 0, false
	}
	for _, r := range rules {
		if c == r.category || containsWord(c, r.category) {
			return positive(r.life.forKind(locationKind))
		}
	}
	return 0, false
}

// EstimateExpiry calcula la fecha de vencimiento de un lote: primero el override
// ShelfLifeDays del producto, luego la tabla de patrones. nil si no se puede estimar.
func EstimateExpiry(p *entity.Product, locationKind string, from time.Time) *time.Time {
	if p == nil {
		return nil
	}
	days := 0
	if p.ShelfLifeDays != nil && *p.ShelfLifeDays > 0 {
		days = *p.ShelfLifeDays
		// el congelador extiende la vida útil declarada para refrigeración
		if locationKind == entity.LocationFreezer {
			days *= 6
		}
	} else if d, ok := Lookup(p.Category, p.Name, locationKind); ok {
		days = d
	}
	if days <= 0 {
		return nil
	}
	t := from.AddDate(0, 0, days)
	return &t
}

func positive(d int) (int, bool) {
	if d <= 0 {
		return 0, false
	}
	return d, true
}

// containsWord busca kw como palabra completa de s, admitiendo plural simple
// ("pan" coincide con "pan tajado" y "panes", pero no con "empanada").
func containsWord(s, kw string) bool {
	for idx := 0; idx < len(s); {
		i := strings.Index(s[idx:], kw)
		if i < 0 {
			return false
		}
		pos := idx + i
		if (pos == 0 || s[pos-1] == ' ') && wordEnd(s[pos+len(kw):]) {
			return true
		}
		idx = pos + 1
	}
	return false
}

func wordEnd(rest string) bool {
	for _, suffix := range []string{"", "s", "es"} {
		if !strings.HasPrefix(rest, suffix) {
			continue
		}
		if r := rest[len(suffix):]; r == "" || r[0] == ' ' {
			return true
		}
	}
	return false
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}
