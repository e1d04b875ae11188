package client

import (
	"context"
	"fmt"
)

// Pager follows next-page links for a filtered catalog query. A page chain is
// inherently sequential: each link comes from the previous response, so pages
// are never fetched concurrently.
type Pager struct {
	client     Client
	filter     Filter
	logger     Logger
	maxPages   int
	nextLink   string
	lastLink   string
	pagesRead  int
	hasStarted bool
}

// NewPager creates a new pager for the given filter. A maxPages of zero or
// less means unbounded.
func NewPager(client Client, filter Filter, maxPages int, logger Logger) *Pager {
	if logger == nil {
		logger = defaultLogger
	}
	return &Pager{
		client:   client,
		filter:   filter,
		maxPages: maxPages,
		logger:   logger,
	}
}

// NextPage fetches the next page of catalog rows.
func (p *Pager) NextPage(ctx context.Context) (Page, error) {
	if p.hasStarted && p.nextLink == "" {
		return Page{}, fmt.Errorf("no more pages available")
	}

	var page Page
	var err error
	if !p.hasStarted {
		page, err = p.client.Prices(ctx, p.filter)
	} else {
		page, err = p.client.PricesPage(ctx, p.nextLink)
	}
	if err != nil {
		p.logger.Error(ctx, "Failed to fetch catalog page", map[string]interface{}{
			"error": err,
			"page":  p.pagesRead,
		})
		return Page{}, fmt.Errorf("fetching catalog page: %w", err)
	}

	p.hasStarted = true
	p.pagesRead++
	p.lastLink = p.nextLink
	p.nextLink = page.NextPageLink

	// A link identical to the one just fetched would loop forever; treat it
	// as terminal. Same for a page budget that has been spent.
	if p.nextLink != "" && p.nextLink == p.lastLink {
		p.logger.Warn(ctx, "Catalog returned a repeated next-page link, stopping", map[string]interface{}{
			"page": p.pagesRead,
		})
		p.nextLink = ""
	}
	if p.maxPages > 0 && p.pagesRead >= p.maxPages {
		p.nextLink = ""
	}

	p.logger.Debug(ctx, "Fetched catalog page", map[string]interface{}{
		"rows":     len(page.Items),
		"page":     p.pagesRead,
		"has_more": p.nextLink != "",
	})

	return page, nil
}

// HasMore returns true if there are more pages to fetch
func (p *Pager) HasMore() bool {
	return !p.hasStarted || p.nextLink != ""
}

// AllRows fetches every remaining page and returns the concatenated rows in
// page order.
func (p *Pager) AllRows(ctx context.Context) ([]PriceRow, error) {
	var allRows []PriceRow

	for p.HasMore() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		allRows = append(allRows, page.Items...)
	}

	p.logger.Info(ctx, "Fetched all catalog pages", map[string]interface{}{
		"pages":      p.pagesRead,
		"total_rows": len(allRows),
	})
	return allRows, nil
}

// FetchAll is a convenience that pages through an entire filtered query.
func FetchAll(ctx context.Context, c Client, filter Filter, maxPages int, logger Logger) ([]PriceRow, error) {
	return NewPager(c, filter, maxPages, logger).AllRows(ctx)
}
