package engine

import (
	"strings"

	"github.com/azurecost/retail-price-report/internal/retail/client"
)

// SelectCheapest picks the single representative price from a classified set
// of rows. Rows whose unit of measure equals canonicalUnit (case-insensitive)
// are preferred when any exist; otherwise the whole set is considered. Among
// the surviving rows the minimum non-nil unit price wins. An empty
// canonicalUnit skips the unit restriction.
//
// On equal prices the first row in input order wins. Input order comes from
// the catalog response and is not a guaranteed-stable ordering, so ties are
// an accepted nondeterminism rather than something to paper over.
//
// Returns nil when no row carries a price; the result is a copy, never a
// pointer into the input slice.
func SelectCheapest(rows []client.PriceRow, canonicalUnit string) *client.PriceRow {
	pool := rows
	if canonicalUnit != "" {
		want := strings.ToLower(canonicalUnit)
		var canonical []client.PriceRow
		for _, row := range rows {
			if strings.ToLower(row.UnitOfMeasure) == want {
				canonical = append(canonical, row)
			}
		}
		if len(canonical) > 0 {
			pool = canonical
		}
	}

	var cheapest *client.PriceRow
	for i := range pool {
		row := pool[i]
		if row.UnitPrice == nil {
			continue
		}
		if cheapest == nil || row.UnitPrice.LessThan(*cheapest.UnitPrice) {
			picked := row
			cheapest = &picked
		}
	}
	return cheapest
}
