package engine

import (
	"strings"

	"github.com/azurecost/retail-price-report/internal/retail/client"
)

// DefaultNoiseTags are meter substrings that mark spot, dev/test, promo and
// low-priority rows. The catalog query cannot exclude these server-side, so
// they are stripped client-side when isolating standard pay-as-you-go prices.
var DefaultNoiseTags = []string{"spot", "dev/test", "devtest", "promo", "low priority"}

// Classify returns the rows whose meter name contains every token in
// containsAll, matched case-insensitively. An empty token list passes all
// rows through. The input is never mutated and row order is preserved.
func Classify(rows []client.PriceRow, containsAll []string) []client.PriceRow {
	if len(containsAll) == 0 {
		out := make([]client.PriceRow, len(rows))
		copy(out, rows)
		return out
	}

	tokens := make([]string, len(containsAll))
	for i, t := range containsAll {
		tokens[i] = strings.ToLower(t)
	}

	var filtered []client.PriceRow
	for _, row := range rows {
		meter := strings.ToLower(row.MeterName)
		matched := true
		for _, token := range tokens {
			if !strings.Contains(meter, token) {
				matched = false
				break
			}
		}
		if matched {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// ExcludeNoise drops rows whose meter name contains any of the disallowed
// tags, matched case-insensitively. The input is never mutated and row order
// is preserved.
func ExcludeNoise(rows []client.PriceRow, disallowedTags []string) []client.PriceRow {
	if len(disallowedTags) == 0 {
		out := make([]client.PriceRow, len(rows))
		copy(out, rows)
		return out
	}

	tags := make([]string, len(disallowedTags))
	for i, t := range disallowedTags {
		tags[i] = strings.ToLower(t)
	}

	var filtered []client.PriceRow
	for _, row := range rows {
		meter := strings.ToLower(row.MeterName)
		noisy := false
		for _, tag := range tags {
			if strings.Contains(meter, tag) {
				noisy = true
				break
			}
		}
		if !noisy {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
