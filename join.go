package heatmap

import (
	"fmt"
	"math"
)

// IssueKind classifies a data-quality issue.
type IssueKind string

const (
	MissingMetadata   IssueKind = "missing-metadata"
	MissingPrices     IssueKind = "missing-prices"
	DuplicateMetadata IssueKind = "duplicate-metadata"
	MissingReturn     IssueKind = "missing-return"
	MissingSector     IssueKind = "missing-sector"
	MissingShares     IssueKind = "missing-shares"
	DegenerateSector  IssueKind = "degenerate-sector"
	MissingIndex      IssueKind = "missing-index"
)

// Issue records why an instrument, a sector or a sector index was left out of the report.
type Issue struct {
	Ticker string // empty for sector issues
	Sector string
	Kind   IssueKind
	Detail string
}

func (i Issue) String() string {
	switch {
	case i.Ticker == "":
		return fmt.Sprintf("sector %q: %s: %s", i.Sector, i.Kind, i.Detail)
	default:
		return fmt.Sprintf("%s: %s: %s", i.Ticker, i.Kind, i.Detail)
	}
}

// Record is the joined result of one instrument over a window.
type Record struct {
	Ticker    string
	Company   string
	ISIN      string
	Sector    string
	Industry  string
	Return    float64
	HasReturn bool
	Price     float64 // current price
	Shares    float64 // NaN when unknown
	// MarketCap is Price × Shares, and Contribution is MarketCap × Return. Both are zero when
	// unknown.
	MarketCap    float64
	Contribution float64
	// Eligible is true when the record takes part in the sector aggregation.
	Eligible bool
}

// Name returns the company name, or the ticker when unknown.
func (r Record) Name() string {
	if r.Company == "" {
		return r.Ticker
	}
	return r.Company
}

// Join merges returns with instrument metadata on ticker.
//
// Every price column produces one Record, in column order. Records that cannot be aggregated are
// kept with Eligible false and every exclusion is reported as an Issue. Metadata without a price
// column only produces an Issue.
func Join(returns *Returns, instruments []Instrument) ([]Record, []Issue) {
	byTicker := make(map[string]Instrument, len(instruments))
	count := make(map[string]int, len(instruments))
	for _, ins := range instruments {
		if count[ins.Ticker] == 0 {
			byTicker[ins.Ticker] = ins
		}
		count[ins.Ticker]++
	}

	var issues []Issue
	records := make([]Record, 0, len(returns.Instruments))
	priced := make(map[string]bool, len(returns.Instruments))
	for _, ret := range returns.Instruments {
		priced[ret.Ticker] = true
		rec := Record{
			Ticker:    ret.Ticker,
			Return:    ret.Value,
			HasReturn: ret.OK,
			Price:     ret.Price,
			Shares:    math.NaN(),
		}
		ins, found := byTicker[ret.Ticker]
		if !found {
			issues = append(issues, Issue{Ticker: ret.Ticker, Kind: MissingMetadata, Detail: "no instrument metadata"})
			records = append(records, rec)
			continue
		}
		rec.Company, rec.ISIN, rec.Sector, rec.Industry, rec.Shares = ins.Company, ins.ISIN, ins.Sector, ins.Industry, ins.Shares
		if ins.HasShares() && valid(rec.Price) {
			rec.MarketCap = rec.Price * rec.Shares
			if rec.HasReturn {
				rec.Contribution = rec.MarketCap * rec.Return
			}
		}

		rec.Eligible = true
		exclude := func(kind IssueKind, detail string) {
			rec.Eligible = false
			issues = append(issues, Issue{Ticker: rec.Ticker, Sector: rec.Sector, Kind: kind, Detail: detail})
		}
		if n := count[ret.Ticker]; n > 1 {
			exclude(DuplicateMetadata, fmt.Sprintf("%d instrument rows", n))
		}
		if !rec.HasReturn {
			exclude(MissingReturn, "no valid price at one end of the window")
		}
		if rec.Sector == "" {
			exclude(MissingSector, "no sector")
		}
		if !ins.HasShares() {
			exclude(MissingShares, "unknown shares outstanding")
		}
		records = append(records, rec)
	}

	for _, ins := range instruments {
		if priced[ins.Ticker] {
			continue
		}
		priced[ins.Ticker] = true // report once
		issues = append(issues, Issue{Ticker: ins.Ticker, Sector: ins.Sector, Kind: MissingPrices, Detail: "no price history"})
	}
	return records, issues
}
