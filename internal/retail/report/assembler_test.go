package report

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azurecost/retail-price-report/internal/retail/client"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// fakeClient routes every request through a single handler so tests can shape
// responses per filter.
type fakeClient struct {
	handler func(filter client.Filter) (client.Page, error)
	calls   []client.Filter
}

func (f *fakeClient) Prices(_ context.Context, filter client.Filter) (client.Page, error) {
	f.calls = append(f.calls, filter)
	return f.handler(filter)
}

func (f *fakeClient) PricesPage(_ context.Context, _ string) (client.Page, error) {
	return client.Page{}, nil
}

func testStorageConfig() Config {
	cfg := DefaultConfig()
	cfg.Storage = []StorageClass{
		{
			FriendlyName:  "Blob Hot {redundancy}",
			ServiceFamily: "Storage",
			Redundancies:  []string{"LRS"},
			CapacityValue: 25,
			CapacityUnit:  "TB",
			Paygo: MeterSpec{
				ProductName:      "General Block Blob v2",
				MeterContainsAll: []string{"Hot {redundancy}", "Data Stored"},
				CanonicalUnit:    "1 GB/Month",
			},
			Reserved: MeterSpec{
				ProductName:      "Storage Reserved Capacity",
				MeterContainsAll: []string{"Hot", "{redundancy}"},
			},
			ReservationTerms: []string{"1 Year", "3 Years"},
		},
	}
	cfg.VMs = nil
	return cfg
}

func paygoStorageRows() []client.PriceRow {
	return []client.PriceRow{
		{MeterName: "Hot LRS Data Stored", UnitOfMeasure: "1 GB/Month", UnitPrice: dec("0.02"), SkuName: "Hot LRS", CurrencyCode: "USD"},
		{MeterName: "Hot LRS Data Stored Free", UnitOfMeasure: "1 GB/Month", UnitPrice: dec("0.05"), SkuName: "Hot LRS"},
		{MeterName: "Cool LRS Data Stored", UnitOfMeasure: "1 GB/Month", UnitPrice: dec("0.01"), SkuName: "Cool LRS"},
	}
}

func reservedStorageRows() []client.PriceRow {
	return []client.PriceRow{
		{MeterName: "Hot LRS 10 TB Data Stored Reserved Capacity", UnitPrice: dec("1200"), SkuName: "Hot LRS"},
	}
}

func TestStorageReport_ResolvesAllModels(t *testing.T) {
	fake := &fakeClient{handler: func(filter client.Filter) (client.Page, error) {
		switch {
		case filter.ReservationTerm != "":
			return client.Page{Items: reservedStorageRows()}, nil
		case filter.ProductName != "":
			return client.Page{Items: paygoStorageRows()}, nil
		default:
			return client.Page{}, nil
		}
	}}

	assembler := NewAssembler(fake, testStorageConfig(), nil)
	results := assembler.StorageReport(context.Background())
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "Blob Hot LRS", r.FriendlyName)
	assert.Equal(t, "LRS", r.Redundancy)
	assert.True(t, r.CapacityGB.Equal(decimal.RequireFromString("25000")))

	require.True(t, r.Paygo.Available)
	assert.True(t, r.Paygo.Value.Equal(decimal.RequireFromString("0.02")))
	assert.Equal(t, "Hot LRS Data Stored", r.Paygo.MeterName)
	require.NotNil(t, r.PaygoMonthlyAtCapacity)
	assert.True(t, r.PaygoMonthlyAtCapacity.Equal(decimal.RequireFromString("500")))

	// 25 TB over 10 TB packs at 1200/term: 3 packs, 3600/term, 300/month.
	require.True(t, r.Reserved1Y.Available)
	assert.EqualValues(t, 3, r.Reserved1Y.PacksNeeded)
	assert.True(t, r.Reserved1Y.MonthlyEquivalent.Equal(decimal.RequireFromString("300")))

	require.True(t, r.Reserved3Y.Available)
	assert.True(t, r.Reserved3Y.MonthlyEquivalent.Equal(decimal.RequireFromString("100")))

	// One paygo lookup plus one per reservation term.
	assert.Len(t, fake.calls, 3)
}

func TestStorageReport_ReservedFailureLeavesPaygoIntact(t *testing.T) {
	fake := &fakeClient{handler: func(filter client.Filter) (client.Page, error) {
		if filter.ReservationTerm != "" {
			return client.Page{}, &client.UpstreamError{StatusCode: http.StatusInternalServerError, Body: "boom"}
		}
		if filter.ProductName != "" {
			return client.Page{Items: paygoStorageRows()}, nil
		}
		return client.Page{}, nil
	}}

	assembler := NewAssembler(fake, testStorageConfig(), nil)
	results := assembler.StorageReport(context.Background())
	require.Len(t, results, 1)

	r := results[0]
	assert.True(t, r.Paygo.Available)
	assert.False(t, r.Reserved1Y.Available)
	assert.Contains(t, r.Reserved1Y.Cause, "lookup failed")
	assert.False(t, r.Reserved3Y.Available)
	assert.Equal(t, "n/a", r.Reserved1Y.Format())
}

func TestStorageReport_FailedSkuDoesNotAbortSiblings(t *testing.T) {
	cfg := testStorageConfig()
	second := cfg.Storage[0]
	second.FriendlyName = "Blob Cool {redundancy}"
	second.Paygo.MeterContainsAll = []string{"Cool {redundancy}", "Data Stored"}
	second.Reserved.MeterContainsAll = []string{"Cool", "{redundancy}"}
	cfg.Storage = append(cfg.Storage, second)

	fake := &fakeClient{handler: func(filter client.Filter) (client.Page, error) {
		// Every lookup for the first class fails; the second class works.
		for _, token := range filter.MeterContainsAll {
			if token == "Hot LRS" || token == "Hot" {
				return client.Page{}, &client.UpstreamError{StatusCode: http.StatusBadGateway, Body: "down"}
			}
		}
		if filter.ReservationTerm != "" {
			return client.Page{Items: []client.PriceRow{
				{MeterName: "Cool LRS 10 TB Data Stored Reserved Capacity", UnitPrice: dec("600")},
			}}, nil
		}
		if filter.ProductName != "" {
			return client.Page{Items: []client.PriceRow{
				{MeterName: "Cool LRS Data Stored", UnitOfMeasure: "1 GB/Month", UnitPrice: dec("0.01")},
			}}, nil
		}
		return client.Page{}, nil
	}}

	assembler := NewAssembler(fake, cfg, nil)
	results := assembler.StorageReport(context.Background())
	require.Len(t, results, 2)

	assert.False(t, results[0].Paygo.Available)
	assert.False(t, results[0].Reserved1Y.Available)

	assert.True(t, results[1].Paygo.Available)
	assert.True(t, results[1].Reserved1Y.Available)
}

func TestStorageReport_NoMatchProbesNearbyRows(t *testing.T) {
	probed := false
	fake := &fakeClient{handler: func(filter client.Filter) (client.Page, error) {
		if filter.ProductName == "" && filter.ReservationTerm == "" {
			// The diagnostic probe queries region and family only.
			probed = true
			return client.Page{Items: paygoStorageRows()}, nil
		}
		return client.Page{}, nil
	}}

	assembler := NewAssembler(fake, testStorageConfig(), nil)
	results := assembler.StorageReport(context.Background())
	require.Len(t, results, 1)

	assert.False(t, results[0].Paygo.Available)
	assert.Equal(t, "no matching catalog rows", results[0].Paygo.Cause)
	assert.True(t, probed)
}

func testComputeConfig() Config {
	cfg := DefaultConfig()
	cfg.Storage = nil
	cfg.VMs = []VMSKU{{FriendlyName: "D32ads v5", ArmSkuName: "Standard_D32ads_v5"}}
	return cfg
}

func vmConsumptionRows() []client.PriceRow {
	return []client.PriceRow{
		{MeterName: "D32ads v5 Spot", UnitOfMeasure: "1 Hour", UnitPrice: dec("0.40"), SkuName: "D32ads v5 Spot"},
		{MeterName: "D32ads v5 Spot", UnitOfMeasure: "1 Hour", UnitPrice: dec("0.55"), SkuName: "D32ads v5 Spot Windows"},
		{MeterName: "D32ads v5", UnitOfMeasure: "1 Hour", UnitPrice: dec("1.70"), SkuName: "D32ads v5"},
		{MeterName: "D32ads v5 Low Priority", UnitOfMeasure: "1 Hour", UnitPrice: dec("0.45"), SkuName: "D32ads v5 Low Priority"},
	}
}

func TestComputeReport_PartitionsSpotAndPaygo(t *testing.T) {
	fake := &fakeClient{handler: func(filter client.Filter) (client.Page, error) {
		require.Equal(t, "Standard_D32ads_v5", filter.ArmSkuName)
		return client.Page{Items: vmConsumptionRows()}, nil
	}}

	assembler := NewAssembler(fake, testComputeConfig(), nil)
	results := assembler.ComputeReport(context.Background())
	require.Len(t, results, 1)

	r := results[0]
	require.True(t, r.Spot.Available)
	assert.True(t, r.Spot.Value.Equal(decimal.RequireFromString("0.40")))
	assert.Len(t, r.SpotVariants, 2)

	// The standard row wins paygo; spot and low-priority rows are noise.
	require.True(t, r.Paygo.Available)
	assert.True(t, r.Paygo.Value.Equal(decimal.RequireFromString("1.70")))
	assert.Equal(t, "D32ads v5", r.Paygo.MeterName)
}

func TestComputeReport_SpotFailureLeavesPaygoIntact(t *testing.T) {
	fake := &fakeClient{handler: func(filter client.Filter) (client.Page, error) {
		if len(filter.MeterContainsAll) > 0 {
			return client.Page{}, &client.UpstreamError{StatusCode: http.StatusInternalServerError, Body: "boom"}
		}
		return client.Page{Items: vmConsumptionRows()}, nil
	}}

	assembler := NewAssembler(fake, testComputeConfig(), nil)
	results := assembler.ComputeReport(context.Background())
	require.Len(t, results, 1)

	assert.False(t, results[0].Spot.Available)
	assert.Contains(t, results[0].Spot.Cause, "lookup failed")
	assert.True(t, results[0].Paygo.Available)
}

func TestProbeSamples_DedupesAndLimits(t *testing.T) {
	rows := []client.PriceRow{
		{ProductName: "P1", SkuName: "S1", MeterName: "Hot LRS Data Stored", PriceType: "Consumption"},
		{ProductName: "P1", SkuName: "S1", MeterName: "Hot LRS Data Stored", PriceType: "Consumption"},
		{ProductName: "P2", SkuName: "S2", MeterName: "Cool LRS Data Stored", PriceType: "Consumption"},
		{ProductName: "P3", SkuName: "S3", MeterName: "Archive GRS Write", PriceType: "Consumption"},
	}
	fake := &fakeClient{handler: func(_ client.Filter) (client.Page, error) {
		return client.Page{Items: rows}, nil
	}}

	assembler := NewAssembler(fake, DefaultConfig(), nil)

	samples, err := assembler.ProbeSamples(context.Background(), "swedencentral", "Storage", "", 2)
	require.NoError(t, err)
	assert.Len(t, samples, 2)

	samples, err = assembler.ProbeSamples(context.Background(), "swedencentral", "Storage", "lrs", 10)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "Hot LRS Data Stored", samples[0].MeterName)
	assert.Equal(t, "Cool LRS Data Stored", samples[1].MeterName)
}
