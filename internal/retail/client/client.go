// Package client provides HTTP client functionality for the Azure Retail Prices API
package client

import (
	"context"
	"fmt"
	"time"
)

// Client defines the interface for querying the retail prices catalog
type Client interface {
	// Prices fetches the first page of catalog rows matching the filter
	Prices(ctx context.Context, filter Filter) (Page, error)
	// PricesPage follows a next-page link returned by a previous page
	PricesPage(ctx context.Context, pageLink string) (Page, error)
}

// Config holds client configuration
type Config struct {
	BaseURL    string
	APIVersion string
	Currency   string
	Timeout    time.Duration
	Logger     Logger
}

// defaultLogger is the default no-op logger instance
var defaultLogger = &noopLogger{}

// DefaultConfig returns a default client configuration
func DefaultConfig(currency string) Config {
	return Config{
		BaseURL:    "https://prices.azure.com/api/retail/prices",
		APIVersion: "2023-01-01-preview",
		Currency:   currency,
		Timeout:    15 * time.Second,
		Logger:     defaultLogger,
	}
}

// client implements the Client interface
type client struct {
	httpClient *httpClient
	logger     Logger
}

// New creates a new retail prices API client
func New(config Config) (Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if config.Currency == "" {
		return nil, fmt.Errorf("currency code is required")
	}
	if config.Logger == nil {
		config.Logger = defaultLogger
	}

	return &client{
		httpClient: newHTTPClient(config),
		logger:     config.Logger,
	}, nil
}

// Prices implements Client.Prices
func (c *client) Prices(ctx context.Context, filter Filter) (Page, error) {
	return c.httpClient.doPricesRequest(ctx, filter)
}

// PricesPage implements Client.PricesPage
func (c *client) PricesPage(ctx context.Context, pageLink string) (Page, error) {
	return c.httpClient.doPageRequest(ctx, pageLink)
}
