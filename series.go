package heatmap

import (
	"fmt"
	"math"
	"slices"

	"github.com/etnz/heatmap/date"
)

// PriceSeries holds aligned closing prices: one column per instrument ticker, plus the benchmark
// index and the sector sub-indices, all sharing the same ascending date axis.
//
// Missing prices are NaN. Filling gaps is the job of whoever builds the series (see Market).
type PriceSeries struct {
	dates     []date.Date
	tickers   []string
	closes    map[string][]float64
	benchmark string
	bench     []float64
	indices   []string
	levels    map[string][]float64
}

// NewPriceSeries returns an empty series over the given date axis.
func NewPriceSeries(dates []date.Date) *PriceSeries {
	return &PriceSeries{
		dates:  slices.Clone(dates),
		closes: make(map[string][]float64),
		levels: make(map[string][]float64),
	}
}

// Add appends the closing prices column of ticker. Columns keep their insertion order.
func (s *PriceSeries) Add(ticker string, closes []float64) error {
	if len(closes) != len(s.dates) {
		return fmt.Errorf("series %q has %d prices for %d dates", ticker, len(closes), len(s.dates))
	}
	if _, exists := s.closes[ticker]; exists || ticker == s.benchmark {
		return fmt.Errorf("series %q already exists", ticker)
	}
	s.tickers = append(s.tickers, ticker)
	s.closes[ticker] = slices.Clone(closes)
	return nil
}

// SetBenchmark sets the benchmark index column.
func (s *PriceSeries) SetBenchmark(name string, closes []float64) error {
	if len(closes) != len(s.dates) {
		return fmt.Errorf("benchmark %q has %d prices for %d dates", name, len(closes), len(s.dates))
	}
	if _, exists := s.closes[name]; exists {
		return fmt.Errorf("benchmark %q is also an instrument", name)
	}
	if _, exists := s.levels[name]; exists {
		return fmt.Errorf("benchmark %q is also a sector index", name)
	}
	s.benchmark, s.bench = name, slices.Clone(closes)
	return nil
}

// Dates returns the date axis.
func (s *PriceSeries) Dates() []date.Date { return s.dates }

// Len returns the number of dates.
func (s *PriceSeries) Len() int { return len(s.dates) }

// Tickers returns the instrument tickers in column order.
func (s *PriceSeries) Tickers() []string { return s.tickers }

// Has reports whether ticker has a column.
func (s *PriceSeries) Has(ticker string) bool {
	_, ok := s.closes[ticker]
	return ok
}

// Close returns the closing price of ticker at position i, NaN if unknown.
func (s *PriceSeries) Close(ticker string, i int) float64 {
	col, ok := s.closes[ticker]
	if !ok || i < 0 || i >= len(col) {
		return math.NaN()
	}
	return col[i]
}

// Benchmark returns the benchmark name, empty if the series has none.
func (s *PriceSeries) Benchmark() string { return s.benchmark }

// BenchmarkClose returns the benchmark level at position i, NaN if unknown.
func (s *PriceSeries) BenchmarkClose(i int) float64 {
	if i < 0 || i >= len(s.bench) {
		return math.NaN()
	}
	return s.bench[i]
}

// AddIndex appends the levels of a sector sub-index, e.g. WIG-BANKI. Indices keep their insertion
// order and live apart from the instrument columns.
func (s *PriceSeries) AddIndex(name string, levels []float64) error {
	if len(levels) != len(s.dates) {
		return fmt.Errorf("index %q has %d levels for %d dates", name, len(levels), len(s.dates))
	}
	if _, exists := s.levels[name]; exists || name == s.benchmark {
		return fmt.Errorf("index %q already exists", name)
	}
	s.indices = append(s.indices, name)
	s.levels[name] = slices.Clone(levels)
	return nil
}

// Indices returns the sector sub-index names in insertion order.
func (s *PriceSeries) Indices() []string { return s.indices }

// IndexClose returns the level of the sector sub-index name at position i, NaN if unknown.
func (s *PriceSeries) IndexClose(name string, i int) float64 {
	col, ok := s.levels[name]
	if !ok || i < 0 || i >= len(col) {
		return math.NaN()
	}
	return col[i]
}

// Calendar builds the Calendar of the series' date axis.
func (s *PriceSeries) Calendar() (*Calendar, error) { return NewCalendar(s.dates) }
