package heatmap

import (
	"cmp"
	"fmt"
	"slices"
)

// SectorAggregate is the market-cap weighted performance of a sector.
type SectorAggregate struct {
	Sector    string
	Return    float64 // Σ contribution / Σ market cap
	MarketCap float64
	Count     int // number of aggregated instruments
}

// Movers returns the records with a valid return, sorted by return descending.
// Equal returns keep their original order.
func Movers(records []Record) []Record {
	movers := make([]Record, 0, len(records))
	for _, r := range records {
		if r.HasReturn {
			movers = append(movers, r)
		}
	}
	slices.SortStableFunc(movers, func(a, b Record) int { return cmp.Compare(b.Return, a.Return) })
	return movers
}

// Sectors aggregates eligible records by sector, in the order sectors are first seen.
//
// A sector with a zero total market cap cannot be weighted: it is left out and reported as a
// DegenerateSector issue.
func Sectors(records []Record) ([]SectorAggregate, []Issue) {
	var order []string
	groups := make(map[string]*SectorAggregate)
	contribution := make(map[string]float64)
	for _, r := range records {
		if !r.Eligible {
			continue
		}
		g, ok := groups[r.Sector]
		if !ok {
			g = &SectorAggregate{Sector: r.Sector}
			groups[r.Sector] = g
			order = append(order, r.Sector)
		}
		g.MarketCap += r.MarketCap
		g.Count++
		contribution[r.Sector] += r.Contribution
	}

	var issues []Issue
	sectors := make([]SectorAggregate, 0, len(order))
	for _, name := range order {
		g := groups[name]
		if g.MarketCap == 0 {
			issues = append(issues, Issue{Sector: name, Kind: DegenerateSector, Detail: fmt.Sprintf("zero total market cap over %d instruments", g.Count)})
			continue
		}
		g.Return = contribution[name] / g.MarketCap
		sectors = append(sectors, *g)
	}
	return sectors, issues
}

// RankSectors sorts sectors by weighted return descending. Equal returns keep their original order.
func RankSectors(sectors []SectorAggregate) []SectorAggregate {
	ranked := slices.Clone(sectors)
	slices.SortStableFunc(ranked, func(a, b SectorAggregate) int { return cmp.Compare(b.Return, a.Return) })
	return ranked
}

// RankIndices returns the sector sub-indices with a valid return, sorted by return descending.
// An index without a return is reported as a MissingIndex issue.
func RankIndices(indices []Return) ([]Return, []Issue) {
	var issues []Issue
	ranked := make([]Return, 0, len(indices))
	for _, r := range indices {
		if !r.OK {
			issues = append(issues, Issue{Ticker: r.Ticker, Kind: MissingIndex, Detail: "no valid level over the window"})
			continue
		}
		ranked = append(ranked, r)
	}
	slices.SortStableFunc(ranked, func(a, b Return) int { return cmp.Compare(b.Value, a.Value) })
	return ranked, issues
}

// Top returns the first n elements of s, all of them if n is negative or larger than len(s).
func Top[T any](s []T, n int) []T {
	if n < 0 || n > len(s) {
		n = len(s)
	}
	return s[:n]
}
