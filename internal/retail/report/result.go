package report

import (
	"github.com/shopspring/decimal"

	"github.com/azurecost/retail-price-report/internal/retail/client"
)

// priceDecimals is the fixed display precision for prices.
const priceDecimals = 6

// decimalFromFloat converts a configured float value to a decimal.
func decimalFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// Price is a resolved price for one pricing model. It is either available
// with a finite value or explicitly unavailable with a recorded cause; a
// missing price is never rendered as zero.
type Price struct {
	Available bool            `json:"available"`
	Value     decimal.Decimal `json:"value,omitempty"`
	Unit      string          `json:"unit,omitempty"`
	MeterName string          `json:"meter_name,omitempty"`
	SkuName   string          `json:"sku_name,omitempty"`
	Cause     string          `json:"cause,omitempty"`
}

// PriceFromRow builds an available Price from a selected catalog row.
func PriceFromRow(row *client.PriceRow) Price {
	if row == nil || row.UnitPrice == nil {
		return Unavailable("row carries no price")
	}
	return Price{
		Available: true,
		Value:     *row.UnitPrice,
		Unit:      row.UnitOfMeasure,
		MeterName: row.MeterName,
		SkuName:   row.SkuName,
	}
}

// Unavailable builds an unavailable Price with the given cause.
func Unavailable(cause string) Price {
	return Price{Cause: cause}
}

// Format renders the price at fixed precision, or "n/a" when unavailable.
func (p Price) Format() string {
	if !p.Available {
		return "n/a"
	}
	return p.Value.StringFixed(priceDecimals)
}

// FormatValue renders an optional derived amount at fixed precision.
func FormatValue(v *decimal.Decimal) string {
	if v == nil {
		return "n/a"
	}
	return v.StringFixed(priceDecimals)
}

// ReservedQuote is the monthly-equivalent cost of covering the configured
// capacity with reservation packs for one term.
type ReservedQuote struct {
	Available         bool            `json:"available"`
	MonthlyEquivalent decimal.Decimal `json:"monthly_equivalent,omitempty"`
	TermTotalCost     decimal.Decimal `json:"term_total_cost,omitempty"`
	PacksNeeded       int64           `json:"packs_needed,omitempty"`
	PackSizeTB        decimal.Decimal `json:"pack_size_tb,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price,omitempty"`
	Unit              string          `json:"unit,omitempty"`
	MeterName         string          `json:"meter_name,omitempty"`
	SkuName           string          `json:"sku_name,omitempty"`
	Cause             string          `json:"cause,omitempty"`
}

// Format renders the monthly-equivalent at fixed precision, or "n/a".
func (q ReservedQuote) Format() string {
	if !q.Available {
		return "n/a"
	}
	return q.MonthlyEquivalent.StringFixed(priceDecimals)
}

// ComputeResult is the resolved price comparison for one VM SKU.
type ComputeResult struct {
	FriendlyName string `json:"friendly_name"`
	ArmSkuName   string `json:"arm_sku_name"`
	Region       string `json:"region"`
	Currency     string `json:"currency"`

	Spot  Price `json:"spot"`
	Paygo Price `json:"paygo"`

	// SpotVariants holds every spot row found for the SKU (Linux and
	// Windows meters usually both appear), for the detailed listing.
	SpotVariants []Price `json:"spot_variants,omitempty"`
}

// StorageResult is the resolved price comparison for one storage class and
// redundancy level.
type StorageResult struct {
	FriendlyName string `json:"friendly_name"`
	Redundancy   string `json:"redundancy"`
	ProductName  string `json:"product_name"`
	Region       string `json:"region"`
	Currency     string `json:"currency"`

	// CapacityGB is the target capacity the estimates are priced at.
	CapacityGB decimal.Decimal `json:"capacity_gb"`

	Paygo Price `json:"paygo"`
	// PaygoMonthlyAtCapacity is the pay-as-you-go unit price multiplied out
	// to the target capacity, when the unit price is available.
	PaygoMonthlyAtCapacity *decimal.Decimal `json:"paygo_monthly_at_capacity,omitempty"`

	Reserved1Y ReservedQuote `json:"reserved_1y"`
	Reserved3Y ReservedQuote `json:"reserved_3y"`
}

// Sample is one probed catalog row shown when a lookup matches nothing, so
// an operator can correct the filter tokens.
type Sample struct {
	ProductName string `json:"product_name"`
	SkuName     string `json:"sku_name"`
	MeterName   string `json:"meter_name"`
	PriceType   string `json:"price_type"`
}
