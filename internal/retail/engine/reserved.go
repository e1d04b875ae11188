package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/azurecost/retail-price-report/internal/retail/client"
)

// packPattern extracts a pack size such as "10 TB" or "1 PB" from a
// reserved-capacity meter label. Label formats drift over time, so a row
// that does not match is skipped rather than failing the whole lookup.
var packPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(TB|PB)`)

// tbPerPB uses the catalog's decimal capacity convention, not a binary one.
var tbPerPB = decimal.NewFromInt(1000)

// TermMonths maps a catalog reservation term to its month count.
func TermMonths(term string) (int64, bool) {
	switch term {
	case "1 Year":
		return 12, true
	case "3 Years":
		return 36, true
	default:
		return 0, false
	}
}

// CapacityToTB converts a capacity value in the given unit to terabytes.
// Units follow the catalog's decimal convention (1 PB = 1000 TB).
func CapacityToTB(value decimal.Decimal, unit string) (decimal.Decimal, error) {
	switch strings.ToUpper(strings.TrimSpace(unit)) {
	case "GB":
		return value.Div(tbPerPB), nil
	case "TB", "":
		return value, nil
	case "PB":
		return value.Mul(tbPerPB), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("unknown capacity unit %q", unit)
	}
}

// ReservedOption is one priced way to cover a requested capacity with
// fixed-size reservation packs.
type ReservedOption struct {
	// Row is the catalog row the option was derived from.
	Row client.PriceRow
	// PackSizeTB is the capacity one pack covers, in terabytes.
	PackSizeTB decimal.Decimal
	// PacksNeeded is the pack count covering the requested capacity.
	PacksNeeded int64
	// TermTotalCost is the full-term cost of all packs.
	TermTotalCost decimal.Decimal
	// MonthlyEquivalent is TermTotalCost spread evenly across the term.
	MonthlyEquivalent decimal.Decimal
}

// parsePackSizeTB extracts the pack size from a meter label, normalized to
// terabytes.
func parsePackSizeTB(meterName string) (decimal.Decimal, error) {
	m := packPattern.FindStringSubmatch(meterName)
	if m == nil {
		return decimal.Decimal{}, &ParseError{MeterName: meterName}
	}

	size, err := decimal.NewFromString(m[1])
	if err != nil || !size.IsPositive() {
		return decimal.Decimal{}, &ParseError{MeterName: meterName}
	}

	if strings.EqualFold(m[2], "PB") {
		size = size.Mul(tbPerPB)
	}
	return size, nil
}

// BestReservedOption prices every parseable reserved-capacity row against the
// requested capacity and returns the one with the lowest monthly-equivalent
// cost. The catalog publishes a total price per pack for the full term, so
// the monthly figure is termTotal / termMonths.
//
// Rows without a price or without a recognizable pack size are skipped. A nil
// option with a nil error means the input was empty; a NoMatchError means
// rows existed but none could be priced. requestedCapacityTB must be
// positive.
func BestReservedOption(rows []client.PriceRow, requestedCapacityTB decimal.Decimal, termMonths int64) (*ReservedOption, error) {
	if !requestedCapacityTB.IsPositive() {
		return nil, fmt.Errorf("requested capacity must be positive, got %s TB", requestedCapacityTB)
	}
	if termMonths <= 0 {
		return nil, fmt.Errorf("term months must be positive, got %d", termMonths)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	months := decimal.NewFromInt(termMonths)

	var best *ReservedOption
	skipped := 0
	for _, row := range rows {
		if row.UnitPrice == nil {
			skipped++
			continue
		}

		packSize, err := parsePackSizeTB(row.MeterName)
		if err != nil {
			skipped++
			continue
		}

		// Ceiling division: a remainder still needs a whole extra pack.
		packs := requestedCapacityTB.Div(packSize).Ceil().IntPart()
		packsDec := decimal.NewFromInt(packs)

		termTotal := row.UnitPrice.Mul(packsDec)
		monthly := termTotal.Div(months)

		if best == nil || monthly.LessThan(best.MonthlyEquivalent) {
			best = &ReservedOption{
				Row:               row,
				PackSizeTB:        packSize,
				PacksNeeded:       packs,
				TermTotalCost:     termTotal,
				MonthlyEquivalent: monthly,
			}
		}
	}

	if best == nil {
		return nil, &NoMatchError{Detail: fmt.Sprintf("none of %d reserved rows carried a priceable pack size", skipped)}
	}
	return best, nil
}
