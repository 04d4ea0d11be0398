package heatmap

import (
	"fmt"
	"math"

	"github.com/etnz/heatmap/date"
)

// Security is a listed instrument, the benchmark index or a sector sub-index, with its closing
// price history.
type Security struct {
	ticker string                // The ticker used in reports.
	symbol string                // The symbol used by the market-data provider.
	prices date.History[float64] // the price historical value.
}

// Ticker returns the report ticker.
func (s *Security) Ticker() string { return s.ticker }

// Symbol returns the provider symbol, it can be empty.
func (s *Security) Symbol() string { return s.symbol }

// Prices returns the closing price history.
func (s *Security) Prices() *date.History[float64] { return &s.prices }

// Market holds the raw closing price histories of a basket of securities and its benchmark.
//
// Histories can be irregular. Series aligns them into a dense PriceSeries.
type Market struct {
	securities []*Security
	index      map[string]*Security
	benchmark  *Security
	indices    []*Security
	subIndex   map[string]*Security
}

// NewMarket returns a new empty market data collection.
func NewMarket() *Market {
	return &Market{
		securities: make([]*Security, 0),
		index:      make(map[string]*Security),
		subIndex:   make(map[string]*Security),
	}
}

// Has reports whether ticker is a known security (the benchmark excluded).
func (m *Market) Has(ticker string) bool {
	_, ok := m.index[ticker]
	return ok
}

// Get returns the security of ticker or nil.
func (m *Market) Get(ticker string) *Security { return m.index[ticker] }

// Securities returns all securities in insertion order, the benchmark excluded.
func (m *Market) Securities() []*Security { return m.securities }

// Add declares a security and returns it. Adding an existing ticker returns the existing security.
func (m *Market) Add(ticker, symbol string) *Security {
	if sec, ok := m.index[ticker]; ok {
		return sec
	}
	sec := &Security{ticker: ticker, symbol: symbol}
	m.securities = append(m.securities, sec)
	m.index[ticker] = sec
	return sec
}

// SetBenchmark declares the benchmark index and returns it.
func (m *Market) SetBenchmark(ticker, symbol string) *Security {
	if m.benchmark == nil || m.benchmark.ticker != ticker {
		m.benchmark = &Security{ticker: ticker, symbol: symbol}
	}
	return m.benchmark
}

// Benchmark returns the benchmark security or nil.
func (m *Market) Benchmark() *Security { return m.benchmark }

// AddIndex declares a sector sub-index and returns it. Adding an existing index returns the
// existing one.
func (m *Market) AddIndex(ticker, symbol string) *Security {
	if sec, ok := m.subIndex[ticker]; ok {
		return sec
	}
	sec := &Security{ticker: ticker, symbol: symbol}
	m.indices = append(m.indices, sec)
	m.subIndex[ticker] = sec
	return sec
}

// Index returns the sector sub-index of ticker or nil.
func (m *Market) Index(ticker string) *Security { return m.subIndex[ticker] }

// Indices returns the sector sub-indices in insertion order.
func (m *Market) Indices() []*Security { return m.indices }

// histories returns all price histories, benchmark and sector sub-indices included.
func (m *Market) histories() []*date.History[float64] {
	h := make([]*date.History[float64], 0, len(m.securities)+len(m.indices)+1)
	for _, sec := range m.securities {
		h = append(h, &sec.prices)
	}
	for _, sec := range m.indices {
		h = append(h, &sec.prices)
	}
	if m.benchmark != nil {
		h = append(h, &m.benchmark.prices)
	}
	return h
}

// Series aligns all histories on the union of their dates, up to 'until' included (no limit if
// zero).
//
// A missing price is the last known price (no price change during that session). Before the first
// known price, the first known price is used, so that long windows always have an anchor value.
// A security without any price has a NaN column.
func (m *Market) Series(until date.Date) (*PriceSeries, error) {
	var days []date.Date
	for day := range date.Iterate(m.histories()...) {
		if !until.IsZero() && day.After(until) {
			break
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil, ErrEmptyCalendar
	}

	s := NewPriceSeries(days)
	for _, sec := range m.securities {
		if err := s.Add(sec.ticker, align(&sec.prices, days)); err != nil {
			return nil, fmt.Errorf("cannot align %q: %w", sec.ticker, err)
		}
	}
	if m.benchmark != nil {
		if err := s.SetBenchmark(m.benchmark.ticker, align(&m.benchmark.prices, days)); err != nil {
			return nil, fmt.Errorf("cannot align benchmark: %w", err)
		}
	}
	for _, sec := range m.indices {
		if err := s.AddIndex(sec.ticker, align(&sec.prices, days)); err != nil {
			return nil, fmt.Errorf("cannot align index %q: %w", sec.ticker, err)
		}
	}
	return s, nil
}

// align forward fills then backward fills a history over days.
func align(h *date.History[float64], days []date.Date) []float64 {
	closes := make([]float64, len(days))
	_, first := h.First()
	if h.Len() == 0 {
		first = math.NaN()
	}
	for i, day := range days {
		v, ok := h.ValueAsOf(day)
		if !ok {
			v = first
		}
		closes[i] = v
	}
	return closes
}
