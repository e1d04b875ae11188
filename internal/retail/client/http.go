package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// httpClient handles low-level HTTP operations against the catalog endpoint.
// Requests are single-shot: a failed lookup is terminal for that lookup, so
// there is no retry machinery here.
type httpClient struct {
	baseURL    string
	apiVersion string
	currency   string
	timeout    time.Duration
	logger     Logger
	httpClient *http.Client
}

// newHTTPClient creates a new HTTP client.
func newHTTPClient(config Config) *httpClient {
	return &httpClient{
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		apiVersion: config.APIVersion,
		currency:   config.Currency,
		timeout:    config.Timeout,
		logger:     config.Logger,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// doPricesRequest performs a filtered catalog request for the first page.
func (c *httpClient) doPricesRequest(ctx context.Context, filter Filter) (Page, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Page{}, fmt.Errorf("parsing URL: %w", err)
	}

	// Build query parameters. Only equality predicates travel to the server.
	q := url.Values{}
	if c.apiVersion != "" {
		q.Set("api-version", c.apiVersion)
	}
	q.Set("currencyCode", c.currency)
	if expr := filter.ODataFilter(); expr != "" {
		q.Set("$filter", expr)
	}
	u.RawQuery = q.Encode()

	return c.fetchPage(ctx, u.String())
}

// doPageRequest follows a next-page link verbatim. The link already carries
// the api-version, currency and filter of the originating request.
func (c *httpClient) doPageRequest(ctx context.Context, pageLink string) (Page, error) {
	if pageLink == "" {
		return Page{}, fmt.Errorf("empty page link")
	}
	return c.fetchPage(ctx, pageLink)
}

// fetchPage performs a single GET against the given URL and decodes the
// response envelope.
func (c *httpClient) fetchPage(ctx context.Context, rawURL string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "retail-price-report/1.0")

	c.logger.Debug(ctx, "Making catalog request", map[string]interface{}{
		"source":    "retail-prices",
		"operation": "prices_request",
		"url":       rawURL,
		"method":    "GET",
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Page{}, &TransportError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error(ctx, "Catalog request failed", map[string]interface{}{
			"source":      "retail-prices",
			"operation":   "prices_request",
			"status_code": resp.StatusCode,
			"response":    string(body),
		})
		return Page{}, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var envelope pricesResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr != nil {
		return Page{}, &UpstreamError{Body: decodeErr.Error()}
	}

	page := Page{
		Items:        envelope.Items,
		NextPageLink: envelope.NextPageLink,
		Count:        envelope.Count,
	}

	c.logger.Debug(ctx, "Catalog response received", map[string]interface{}{
		"source":    "retail-prices",
		"operation": "prices_request",
		"rows":      len(page.Items),
		"has_more":  page.NextPageLink != "",
	})

	return page, nil
}
