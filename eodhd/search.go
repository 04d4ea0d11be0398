package eodhd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/date"
	"github.com/etnz/heatmap/reference"
)

// SearchResult matches the structure of a single item in the EODHD search API response.
type SearchResult struct {
	Code              string    `json:"Code"`
	Exchange          string    `json:"Exchange"`
	Name              string    `json:"Name"`
	Type              string    `json:"Type"`
	Country           string    `json:"Country"`
	Currency          string    `json:"Currency"`
	ISIN              string    `json:"ISIN"`
	PreviousClose     float64   `json:"previousClose"`
	PreviousCloseDate date.Date `json:"previousCloseDate"`
}

// Symbol returns the EODHD symbol "CODE.EXCHANGE".
func (r SearchResult) Symbol() string { return r.Code + "." + r.Exchange }

// Search searches for securities by name, ticker or ISIN.
func (c *Client) Search(ctx context.Context, searchTerm string) ([]SearchResult, error) {
	var results []SearchResult
	if err := c.jwget(ctx, c.daily, c.addr(nil, "search", searchTerm), &results); err != nil {
		return nil, err
	}
	return results, nil
}

// ResolveIdentifier returns the symbol of query (an ISIN, a ticker or a name) on the preferred
// exchange.
//
// Search results are tried first. For an ISIN, the full symbol list of the exchange is scanned as a
// fallback, including delisted symbols. It fails with reference.ErrNotFound when nothing matches.
func (c *Client) ResolveIdentifier(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	results, err := c.Search(ctx, query)
	if err != nil {
		return "", err
	}
	isISIN := heatmap.ValidateISIN(query) == nil
	for _, r := range results {
		if r.Exchange != c.cfg.Exchange {
			continue
		}
		if isISIN && r.ISIN != "" && r.ISIN != query {
			continue
		}
		return r.Symbol(), nil
	}
	if !isISIN {
		return "", fmt.Errorf("%q on %s: %w", query, c.cfg.Exchange, reference.ErrNotFound)
	}

	for _, delisted := range []bool{false, true} {
		tickers, err := c.fetchTickers(ctx, c.cfg.Exchange, delisted)
		if err != nil {
			c.log.Warn("cannot list exchange symbols", zap.String("exchange", c.cfg.Exchange), zap.Bool("delisted", delisted), zap.Error(err))
			continue
		}
		for _, t := range tickers {
			if t.Isin == query {
				// t.Exchange is the physical exchange, the symbol uses the EODHD exchange code.
				return t.Code + "." + c.cfg.Exchange, nil
			}
		}
	}
	return "", fmt.Errorf("%q on %s: %w", query, c.cfg.Exchange, reference.ErrNotFound)
}
