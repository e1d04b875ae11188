package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/azurecost/retail-price-report/internal/retail/client"
	"github.com/azurecost/retail-price-report/internal/retail/engine"
)

const (
	vmServiceName = "Virtual Machines"
	// vmCanonicalUnit is the unit of measure preferred when several priced
	// rows exist for one VM SKU.
	vmCanonicalUnit = "1 Hour"
	// priceTypeConsumption is the catalog's price type for on-demand rows.
	priceTypeConsumption = "Consumption"
	// probeMaxResults bounds the diagnostic sample shown on empty lookups.
	probeMaxResults = 5
)

// Assembler coordinates fetch, classification, selection and reserved-pack
// normalization for every configured SKU. A failed lookup for one pricing
// model degrades only that model's column; sibling models and SKUs proceed.
type Assembler struct {
	client client.Client
	logger client.Logger
	cfg    Config
}

// NewAssembler creates an assembler bound to one configuration.
func NewAssembler(c client.Client, cfg Config, logger client.Logger) *Assembler {
	if logger == nil {
		logger = client.NewNoopLogger()
	}
	return &Assembler{
		client: c,
		logger: logger,
		cfg:    cfg,
	}
}

// lookupRows runs one full lookup: paginated fetch on the filter's equality
// predicates, then client-side meter classification and noise exclusion.
func (a *Assembler) lookupRows(ctx context.Context, filter client.Filter) ([]client.PriceRow, error) {
	rows, err := client.FetchAll(ctx, a.client, filter, a.cfg.MaxPages, a.logger)
	if err != nil {
		return nil, err
	}
	classified := engine.Classify(rows, filter.MeterContainsAll)
	return engine.ExcludeNoise(classified, filter.MeterExcludes), nil
}

// resolvePrice resolves one pricing model to a single representative price.
// Every failure mode becomes an unavailable Price with a recorded cause.
func (a *Assembler) resolvePrice(ctx context.Context, name string, filter client.Filter, canonicalUnit string) Price {
	rows, err := a.lookupRows(ctx, filter)
	if err != nil {
		a.logger.Warn(ctx, "Price lookup failed", map[string]interface{}{
			"lookup": name,
			"error":  err,
		})
		return Unavailable(fmt.Sprintf("lookup failed: %v", err))
	}
	if len(rows) == 0 {
		a.reportNoMatch(ctx, name, filter)
		return Unavailable("no matching catalog rows")
	}

	pick := engine.SelectCheapest(rows, canonicalUnit)
	if pick == nil {
		return Unavailable("matching rows carry no price")
	}
	return PriceFromRow(pick)
}

// reportNoMatch logs an empty lookup together with a probe of nearby catalog
// rows, so the operator can see what the filters should have matched.
func (a *Assembler) reportNoMatch(ctx context.Context, name string, filter client.Filter) {
	fields := map[string]interface{}{
		"lookup":         name,
		"product_name":   filter.ProductName,
		"meter_contains": filter.MeterContainsAll,
	}

	hint := ""
	if len(filter.MeterContainsAll) > 0 {
		hint = filter.MeterContainsAll[0]
	}
	samples, err := a.ProbeSamples(ctx, filter.Region, filter.ServiceFamily, hint, probeMaxResults)
	if err == nil && len(samples) > 0 {
		fields["nearby_samples"] = samples
	}

	a.logger.Warn(ctx, "No catalog rows matched the filters", fields)
}

// ProbeSamples returns a small deduplicated sample of catalog rows for the
// given region and service family, optionally narrowed to rows whose meter or
// SKU name contains hint. It makes a single-page call, cheap enough to run as
// a diagnostic.
func (a *Assembler) ProbeSamples(ctx context.Context, region, serviceFamily, hint string, maxResults int) ([]Sample, error) {
	filter := client.Filter{
		Region:        region,
		ServiceFamily: serviceFamily,
	}
	rows, err := client.FetchAll(ctx, a.client, filter, 1, a.logger)
	if err != nil {
		return nil, err
	}

	if hint != "" {
		rows = probeHintFilter(rows, hint)
	}

	type key struct{ product, sku, meter string }
	seen := make(map[key]struct{})
	var samples []Sample
	for _, row := range rows {
		k := key{row.ProductName, row.SkuName, row.MeterName}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		samples = append(samples, Sample{
			ProductName: row.ProductName,
			SkuName:     row.SkuName,
			MeterName:   row.MeterName,
			PriceType:   row.PriceType,
		})
		if len(samples) >= maxResults {
			break
		}
	}
	return samples, nil
}

// probeHintFilter keeps rows whose meter or SKU name contains hint,
// case-insensitively.
func probeHintFilter(rows []client.PriceRow, hint string) []client.PriceRow {
	hint = strings.ToLower(hint)
	var out []client.PriceRow
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.MeterName), hint) ||
			strings.Contains(strings.ToLower(row.SkuName), hint) {
			out = append(out, row)
		}
	}
	return out
}

// ComputeReport resolves spot and pay-as-you-go prices for every configured
// VM SKU.
func (a *Assembler) ComputeReport(ctx context.Context) []ComputeResult {
	results := make([]ComputeResult, 0, len(a.cfg.VMs))
	for _, sku := range a.cfg.VMs {
		results = append(results, a.resolveCompute(ctx, sku))
	}
	a.logUnitsObserved(ctx, results)
	return results
}

// resolveCompute resolves one VM SKU. Spot and pay-as-you-go are separate
// lookups so one model's failure cannot take out the other.
func (a *Assembler) resolveCompute(ctx context.Context, sku VMSKU) ComputeResult {
	result := ComputeResult{
		FriendlyName: sku.FriendlyName,
		ArmSkuName:   sku.ArmSkuName,
		Region:       a.cfg.Region,
		Currency:     a.cfg.Currency,
	}

	spotFilter := client.Filter{
		ServiceName:      vmServiceName,
		Region:           a.cfg.Region,
		ArmSkuName:       sku.ArmSkuName,
		PriceType:        priceTypeConsumption,
		MeterContainsAll: []string{"spot"},
	}
	spotRows, spotErr := a.lookupRows(ctx, spotFilter)
	switch {
	case spotErr != nil:
		a.logger.Warn(ctx, "Spot lookup failed", map[string]interface{}{
			"sku":   sku.ArmSkuName,
			"error": spotErr,
		})
		result.Spot = Unavailable(fmt.Sprintf("lookup failed: %v", spotErr))
	case len(spotRows) == 0:
		a.logger.Warn(ctx, "No spot prices found", map[string]interface{}{
			"sku":    sku.ArmSkuName,
			"region": a.cfg.Region,
		})
		result.Spot = Unavailable("no matching catalog rows")
	default:
		result.Spot = PriceFromRow(engine.SelectCheapest(spotRows, vmCanonicalUnit))
		for i := range spotRows {
			result.SpotVariants = append(result.SpotVariants, PriceFromRow(&spotRows[i]))
		}
	}

	paygoFilter := client.Filter{
		ServiceName:   vmServiceName,
		Region:        a.cfg.Region,
		ArmSkuName:    sku.ArmSkuName,
		PriceType:     priceTypeConsumption,
		MeterExcludes: engine.DefaultNoiseTags,
	}
	result.Paygo = a.resolvePrice(ctx, "vm paygo "+sku.ArmSkuName, paygoFilter, vmCanonicalUnit)

	// A standard price below spot means the noise filtering went wrong.
	if result.Paygo.Available && result.Spot.Available && result.Paygo.Value.LessThan(result.Spot.Value) {
		a.logger.Warn(ctx, "PAYG price is below spot, verify filtering", map[string]interface{}{
			"sku":   sku.ArmSkuName,
			"paygo": result.Paygo.Value,
			"spot":  result.Spot.Value,
		})
	}

	return result
}

// logUnitsObserved records the distinct units of measure seen in a compute
// run, a cheap sanity check that the canonical unit preference held.
func (a *Assembler) logUnitsObserved(ctx context.Context, results []ComputeResult) {
	units := make(map[string]struct{})
	for _, r := range results {
		if r.Spot.Available {
			units[r.Spot.Unit] = struct{}{}
		}
		if r.Paygo.Available {
			units[r.Paygo.Unit] = struct{}{}
		}
	}
	if len(units) == 0 {
		return
	}
	list := make([]string, 0, len(units))
	for u := range units {
		list = append(list, u)
	}
	a.logger.Info(ctx, "Units observed", map[string]interface{}{
		"units": list,
	})
}

// StorageReport resolves pay-as-you-go and reserved-capacity pricing for
// every configured storage class and redundancy level.
func (a *Assembler) StorageReport(ctx context.Context) []StorageResult {
	var results []StorageResult
	for _, sc := range a.cfg.Storage {
		region := sc.Region
		if region == "" {
			region = a.cfg.Region
		}
		for _, redundancy := range sc.Redundancies {
			results = append(results, a.resolveStorage(ctx, sc, region, redundancy))
		}
	}
	return results
}

// resolveStorage resolves one storage class at one redundancy level.
func (a *Assembler) resolveStorage(ctx context.Context, sc StorageClass, region, redundancy string) StorageResult {
	friendly := expandPlaceholders(sc.FriendlyName, redundancy, region)
	capacityTB, _ := engine.CapacityToTB(decimalFromFloat(sc.CapacityValue), sc.CapacityUnit)
	capacityGB := capacityTB.Mul(decimal.NewFromInt(1000))

	result := StorageResult{
		FriendlyName: friendly,
		Redundancy:   redundancy,
		ProductName:  storageProductDisplay(sc),
		Region:       region,
		Currency:     a.cfg.Currency,
		CapacityGB:   capacityGB,
	}

	paygoFilter := client.Filter{
		ServiceFamily:    sc.ServiceFamily,
		Region:           region,
		ProductName:      sc.Paygo.ProductName,
		PriceType:        sc.Paygo.PriceType,
		MeterContainsAll: expandTokens(sc.Paygo.MeterContainsAll, redundancy, region),
	}
	result.Paygo = a.resolvePrice(ctx, "storage paygo "+friendly, paygoFilter, sc.Paygo.CanonicalUnit)
	if result.Paygo.Available {
		est := result.Paygo.Value.Mul(capacityGB)
		result.PaygoMonthlyAtCapacity = &est
	}

	for _, term := range sc.ReservationTerms {
		quote := a.resolveReserved(ctx, sc, region, redundancy, friendly, term, capacityTB)
		switch term {
		case "1 Year":
			result.Reserved1Y = quote
		case "3 Years":
			result.Reserved3Y = quote
		}
	}

	return result
}

// resolveReserved resolves one reservation term to its best
// monthly-equivalent quote at the requested capacity.
func (a *Assembler) resolveReserved(ctx context.Context, sc StorageClass, region, redundancy, friendly, term string, capacityTB decimal.Decimal) ReservedQuote {
	months, ok := engine.TermMonths(term)
	if !ok {
		return ReservedQuote{Cause: fmt.Sprintf("unknown reservation term %q", term)}
	}

	filter := client.Filter{
		ServiceFamily:    sc.ServiceFamily,
		Region:           region,
		ProductName:      sc.Reserved.ProductName,
		PriceType:        sc.Reserved.PriceType,
		ReservationTerm:  term,
		MeterContainsAll: expandTokens(sc.Reserved.MeterContainsAll, redundancy, region),
	}

	rows, err := a.lookupRows(ctx, filter)
	if err != nil {
		a.logger.Warn(ctx, "Reserved lookup failed", map[string]interface{}{
			"storage": friendly,
			"term":    term,
			"error":   err,
		})
		return ReservedQuote{Cause: fmt.Sprintf("lookup failed: %v", err)}
	}
	if len(rows) == 0 {
		a.reportNoMatch(ctx, "storage reserved "+friendly+" "+term, filter)
		return ReservedQuote{Cause: "no matching catalog rows"}
	}

	option, err := engine.BestReservedOption(rows, capacityTB, months)
	if err != nil || option == nil {
		a.logger.Warn(ctx, "No priceable reserved pack found", map[string]interface{}{
			"storage": friendly,
			"term":    term,
			"error":   err,
		})
		cause := "no priceable reserved packs"
		if err != nil {
			cause = err.Error()
		}
		return ReservedQuote{Cause: cause}
	}

	return ReservedQuote{
		Available:         true,
		MonthlyEquivalent: option.MonthlyEquivalent,
		TermTotalCost:     option.TermTotalCost,
		PacksNeeded:       option.PacksNeeded,
		PackSizeTB:        option.PackSizeTB,
		UnitPrice:         *option.Row.UnitPrice,
		Unit:              option.Row.UnitOfMeasure,
		MeterName:         option.Row.MeterName,
		SkuName:           option.Row.SkuName,
	}
}

// storageProductDisplay picks the product name shown in the report row.
func storageProductDisplay(sc StorageClass) string {
	if sc.Paygo.ProductName != "" {
		return sc.Paygo.ProductName
	}
	return sc.Reserved.ProductName
}
