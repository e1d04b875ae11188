// Package client provides HTTP client functionality for the Azure Retail Prices API
package client

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Filter describes one catalog query. Equality predicates are sent to the
// server as an OData $filter expression; the meter predicates are applied
// client-side because the retail endpoint does not reliably honor negated or
// contains clauses.
type Filter struct {
	ServiceName     string `json:"service_name,omitempty"`
	ServiceFamily   string `json:"service_family,omitempty"`
	Region          string `json:"region,omitempty"`
	ArmSkuName      string `json:"arm_sku_name,omitempty"`
	ProductName     string `json:"product_name,omitempty"`
	PriceType       string `json:"price_type,omitempty"`
	ReservationTerm string `json:"reservation_term,omitempty"`

	// Client-side meter predicates, never serialized into $filter.
	MeterContainsAll []string `json:"meter_contains_all,omitempty"`
	MeterExcludes    []string `json:"meter_excludes,omitempty"`
}

// ODataFilter renders the equality predicates as an OData filter expression.
// Meter predicates are intentionally omitted.
func (f Filter) ODataFilter() string {
	clauses := make([]string, 0, 7)
	add := func(field, value string) {
		if value != "" {
			clauses = append(clauses, field+" eq '"+value+"'")
		}
	}
	add("serviceName", f.ServiceName)
	add("serviceFamily", f.ServiceFamily)
	add("armRegionName", f.Region)
	add("armSkuName", f.ArmSkuName)
	add("productName", f.ProductName)
	add("priceType", f.PriceType)
	add("reservationTerm", f.ReservationTerm)
	return strings.Join(clauses, " and ")
}

// PriceRow represents a single catalog entry from the retail prices API.
// Rows are immutable once fetched; the engine only ever copies them.
type PriceRow struct {
	CurrencyCode    string           `json:"currencyCode"`
	UnitPrice       *decimal.Decimal `json:"unitPrice"`
	RetailPrice     *decimal.Decimal `json:"retailPrice"`
	ArmRegionName   string           `json:"armRegionName"`
	MeterName       string           `json:"meterName"`
	ProductName     string           `json:"productName"`
	SkuName         string           `json:"skuName"`
	ArmSkuName      string           `json:"armSkuName"`
	ServiceName     string           `json:"serviceName"`
	ServiceFamily   string           `json:"serviceFamily"`
	UnitOfMeasure   string           `json:"unitOfMeasure"`
	PriceType       string           `json:"type"`
	ReservationTerm string           `json:"reservationTerm,omitempty"`
	EffectiveStart  string           `json:"effectiveStartDate,omitempty"`
}

// pricesResponse is the JSON envelope returned by the retail prices endpoint.
type pricesResponse struct {
	BillingCurrency string     `json:"BillingCurrency"`
	Items           []PriceRow `json:"Items"`
	NextPageLink    string     `json:"NextPageLink"`
	Count           int        `json:"Count"`
}

// Page represents one page of catalog rows with pagination info.
type Page struct {
	Items        []PriceRow
	NextPageLink string
	Count        int
}
