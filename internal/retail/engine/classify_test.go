package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/azurecost/retail-price-report/internal/retail/client"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sampleRows() []client.PriceRow {
	return []client.PriceRow{
		{MeterName: "D32ads v5 Spot", UnitPrice: dec("0.30")},
		{MeterName: "D32ads v5", UnitPrice: dec("1.50")},
		{MeterName: "D32ads v5 Low Priority", UnitPrice: dec("0.40")},
		{MeterName: "Hot LRS Data Stored", UnitPrice: dec("0.02")},
		{MeterName: "Cool LRS Data Stored", UnitPrice: dec("0.01")},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		tokens     []string
		wantMeters []string
	}{
		{
			name:       "single token is case-insensitive",
			tokens:     []string{"SPOT"},
			wantMeters: []string{"D32ads v5 Spot"},
		},
		{
			name:       "all tokens must match",
			tokens:     []string{"hot", "data stored"},
			wantMeters: []string{"Hot LRS Data Stored"},
		},
		{
			name:   "empty token list passes everything through",
			tokens: nil,
			wantMeters: []string{
				"D32ads v5 Spot", "D32ads v5", "D32ads v5 Low Priority",
				"Hot LRS Data Stored", "Cool LRS Data Stored",
			},
		},
		{
			name:       "no match yields empty set",
			tokens:     []string{"archive"},
			wantMeters: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(sampleRows(), tt.tokens)
			meters := make([]string, 0, len(got))
			for _, row := range got {
				meters = append(meters, row.MeterName)
			}
			if tt.wantMeters == nil {
				assert.Empty(t, meters)
			} else {
				assert.Equal(t, tt.wantMeters, meters)
			}
		})
	}
}

func TestExcludeNoise(t *testing.T) {
	got := ExcludeNoise(sampleRows(), DefaultNoiseTags)
	meters := make([]string, 0, len(got))
	for _, row := range got {
		meters = append(meters, row.MeterName)
	}
	assert.Equal(t, []string{"D32ads v5", "Hot LRS Data Stored", "Cool LRS Data Stored"}, meters)
}

func TestExcludeNoise_EmptyDenylist(t *testing.T) {
	rows := sampleRows()
	got := ExcludeNoise(rows, nil)
	assert.Equal(t, rows, got)
}

func TestClassify_Purity(t *testing.T) {
	rows := sampleRows()
	original := sampleRows()

	first := Classify(rows, []string{"spot"})
	second := Classify(rows, []string{"spot"})

	// Input untouched, repeated calls identical.
	assert.Equal(t, original, rows)
	assert.Equal(t, first, second)

	noise1 := ExcludeNoise(rows, DefaultNoiseTags)
	noise2 := ExcludeNoise(rows, DefaultNoiseTags)
	assert.Equal(t, original, rows)
	assert.Equal(t, noise1, noise2)
}

func TestClassify_ResultIsNotAliased(t *testing.T) {
	rows := sampleRows()
	got := Classify(rows, nil)
	got[0].MeterName = "mutated"
	assert.Equal(t, "D32ads v5 Spot", rows[0].MeterName)
}
