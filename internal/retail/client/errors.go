// Package client provides HTTP client functionality for the Azure Retail Prices API
package client

import "fmt"

// UpstreamError indicates the catalog endpoint answered with a non-success
// status or an envelope that could not be decoded.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("malformed catalog response: %s", e.Body)
	}
	return fmt.Sprintf("catalog request failed with status %d: %s", e.StatusCode, e.Body)
}

// TransportError indicates a network failure or timeout before any usable
// response arrived.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("catalog request transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
