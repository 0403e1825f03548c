package pattern

import (
	"sort"
	"time"
)

// Session agrupa compras hechas en la misma salida de compras.
type Session struct {
	Start      time.Time
	End        time.Time
	ProductIDs []string // sin repetidos, en orden de aparición
}

// Contains indica si el producto se compró en la sesión.
func (s Session) Contains(productID string) bool {
	for _, id := range s.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// Sessions agrupa el historial en sesiones: una compra abre sesión nueva cuando está a
// SessionGap o más de la compra anterior.
func Sessions(records []PurchaseRecord, p Params) []Session {
	if len(records) == 0 {
		return []Session{}
	}
	sorted := sortedAsc(records)
	var sessions []Session
	var seen map[string]bool
	var prev time.Time
	for i, r := range sorted {
		if i == 0 || r.PurchasedAt.Sub(prev) >= p.SessionGap {
			sessions = append(sessions, Session{Start: r.PurchasedAt})
			seen = make(map[string]bool)
		}
		cur := &sessions[len(sessions)-1]
		cur.End = r.PurchasedAt
		if r.ProductID != "" && !seen[r.ProductID] {
			seen[r.ProductID] = true
			cur.ProductIDs = append(cur.ProductIDs, r.ProductID)
		}
		prev = r.PurchasedAt
	}
	return sessions
}

// Companion producto que suele comprarse en la misma sesión que otro.
type Companion struct {
	ProductID string
	Count     int     // sesiones compartidas
	Score     float64 // Count / sesiones que contienen el producto consultado
}

// Companions cuenta la co-ocurrencia de otros productos en las sesiones donde aparece
// productID. Nunca incluye a productID. limit <= 0 = sin límite.
func Companions(records []PurchaseRecord, productID string, limit int, p Params) []Companion {
	counts := make(map[string]int)
	withProduct := 0
	for _, s := range Sessions(records, p) {
		if !s.Contains(productID) {
			continue
		}
		withProduct++
		for _, id := range s.ProductIDs {
			if id != productID {
				counts[id]++
			}
		}
	}
	if withProduct == 0 {
		return []Companion{}
	}

	out := make([]Companion, 0, len(counts))
	for id, n := range counts {
		if n < p.MinCoOccurrence {
			continue
		}
		out = append(out, Companion{
			ProductID: id,
			Count:     n,
			Score:     float64(n) / float64(withProduct),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
