// Package engine implements the price-resolution core: classifying catalog
// rows into pricing models, selecting a representative price, and normalizing
// reserved-capacity packs to monthly-equivalent costs.
package engine

import "fmt"

// NoMatchError indicates a classification or selection step yielded zero
// usable rows. It is a soft failure: the caller renders the price as
// unavailable and moves on.
type NoMatchError struct {
	Detail string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no matching catalog rows: %s", e.Detail)
}

// ParseError indicates a reserved-capacity meter label did not carry a
// recognizable pack size. Individual rows with parse failures are skipped;
// the error only surfaces when every candidate row fails.
type ParseError struct {
	MeterName string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no pack size in meter label %q", e.MeterName)
}
