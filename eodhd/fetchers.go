package eodhd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/etnz/heatmap/date"
	"github.com/etnz/heatmap/reference"
)

// This file contains functions to access the EODHD API.

// Closes returns the daily closing prices of symbol from 'from' to 'to', both included.
// The EODHD symbol format is "CODE.EXCHANGE", e.g. "PKN.WAR" or "WIG.INDX".
func (c *Client) Closes(ctx context.Context, symbol string, from, to date.Date) (*date.History[float64], error) {
	// https://eodhd.com/api/eod/PKN.WAR?api_token=demo&fmt=json&from=2025-01-02&to=2025-01-31
	// [
	//	{
	//		"date": "2025-01-02",
	//		"open": 57.9,
	//		"high": 59.3,
	//		"low": 57.52,
	//		"close": 59.07,
	//		"adjusted_close": 59.07,
	//		"volume": 2170301
	//	},
	params := url.Values{}
	params.Set("from", from.String())
	params.Set("to", to.String())

	type Info struct {
		Date  date.Date       `json:"date"`
		Close decimal.Decimal `json:"close"`
	}
	content := make([]Info, 0)
	if err := c.jwget(ctx, c.daily, c.addr(params, "eod", symbol), &content); err != nil {
		return nil, fmt.Errorf("cannot fetch %s prices: %w", symbol, err)
	}

	var h date.History[float64]
	for _, info := range content {
		if !info.Close.IsPositive() {
			continue // no trade
		}
		h.Append(info.Date, info.Close.InexactFloat64())
	}
	return &h, nil
}

// TickerInfo holds information about a specific ticker on an exchange from the EODHD API.
type TickerInfo struct {
	Code     string `json:"Code"`
	Name     string `json:"Name"`
	Country  string `json:"Country"`
	Exchange string `json:"Exchange"`
	Currency string `json:"Currency"`
	Type     string `json:"Type"`
	Isin     string `json:"Isin"`
}

// fetchTickers retrieves the list of all tickers for a given exchange code.
func (c *Client) fetchTickers(ctx context.Context, exchangeCode string, delisted bool) ([]TickerInfo, error) {
	// API Documentation: https://eodhd.com/api/exchange-symbol-list/{EXCHANGE_CODE}
	// [
	// {
	// "Code": "PKN",
	// "Name": "PKN Orlen SA",
	// "Country": "Poland",
	// "Exchange": "WAR",
	// "Currency": "PLN",
	// "Type": "Common Stock",
	// "Isin": "PLPKN0000018"
	// }
	// ... ]
	params := url.Values{}
	if delisted {
		params.Set("delisted", "1")
	}
	var content []TickerInfo
	if err := c.jwget(ctx, c.monthly, c.addr(params, "exchange-symbol-list", exchangeCode), &content); err != nil {
		return nil, fmt.Errorf("failed to fetch tickers for exchange %s: %w", exchangeCode, err)
	}
	return content, nil
}

// Profile paths in the fundamentals document.
const (
	sectorPath   = "$.General.Sector"
	industryPath = "$.General.Industry"
	sharesPath   = "$.SharesStats.SharesOutstanding"
)

// Profile reads the sector, industry and shares outstanding of symbol from its fundamentals.
// Missing fields are left empty (NaN for shares).
func (c *Client) Profile(ctx context.Context, symbol string) (reference.Profile, error) {
	var doc any
	if err := c.jwget(ctx, c.monthly, c.addr(nil, "fundamentals", symbol), &doc); err != nil {
		return reference.Profile{}, fmt.Errorf("cannot fetch %s fundamentals: %w", symbol, err)
	}
	if _, ok := doc.(map[string]any); !ok {
		// new listings have no fundamentals yet, and the API answers with an empty list.
		return reference.Profile{}, fmt.Errorf("%s fundamentals: %w", symbol, reference.ErrNotFound)
	}

	p := reference.UnknownProfile()
	p.Sector, _ = lookup[string](doc, sectorPath)
	p.Industry, _ = lookup[string](doc, industryPath)
	if shares, err := lookup[float64](doc, sharesPath); err == nil && shares > 0 {
		p.Shares = shares
	}
	p.Sector, p.Industry = strings.TrimSpace(p.Sector), strings.TrimSpace(p.Industry)
	return p, nil
}

var errMissing = errors.New("missing value")

// lookup evaluates a jsonpath in doc and returns its single value.
func lookup[T string | float64](doc any, path string) (T, error) {
	var zero T
	jval, err := jsonpath.Get(path, doc)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return zero, fmt.Errorf("%s: %w", path, errMissing)
		}
		jval = jlist[0]
	}
	val, ok := jval.(T)
	if !ok {
		return zero, fmt.Errorf("%s: %w: got %T", path, errMissing, jval)
	}
	if f, isFloat := any(val).(float64); isFloat && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return zero, fmt.Errorf("%s: %w", path, errMissing)
	}
	return val, nil
}
