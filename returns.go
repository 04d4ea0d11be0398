package heatmap

import (
	"fmt"
	"math"
)

// Return is the price change of one series over a window.
type Return struct {
	Ticker string
	Value  float64 // fraction, e.g. 0.05 for +5%
	Price  float64 // price at the current position
	OK     bool    // false when a price is missing or not positive at either position
}

// Returns holds the returns of every instrument of a series, of its benchmark and of its sector
// sub-indices.
type Returns struct {
	Window      Window
	Benchmark   Return
	Instruments []Return // in series column order
	Indices     []Return // in series index order
}

// Get returns the return of ticker.
func (r *Returns) Get(ticker string) (Return, bool) {
	for _, ret := range r.Instruments {
		if ret.Ticker == ticker {
			return ret, true
		}
	}
	return Return{}, false
}

// ComputeReturns computes price[current]/price[anchor] - 1 for every column of s.
//
// A bad price only invalidates its own column. A negative anchor fails with an
// *InsufficientHistoryError.
func ComputeReturns(s *PriceSeries, w Window) (*Returns, error) {
	if w.Anchor < 0 {
		return nil, &InsufficientHistoryError{Tag: w.Tag, Rows: s.Len()}
	}
	if w.Current >= s.Len() || w.Anchor > w.Current {
		return nil, fmt.Errorf("window %s [%d, %d] is out of the %d rows series", w.Tag, w.Anchor, w.Current, s.Len())
	}

	r := &Returns{
		Window:      w,
		Instruments: make([]Return, 0, len(s.Tickers())),
	}
	for _, ticker := range s.Tickers() {
		r.Instruments = append(r.Instruments, change(ticker, s.Close(ticker, w.Anchor), s.Close(ticker, w.Current)))
	}
	r.Benchmark = change(s.Benchmark(), s.BenchmarkClose(w.Anchor), s.BenchmarkClose(w.Current))
	for _, name := range s.Indices() {
		r.Indices = append(r.Indices, change(name, s.IndexClose(name, w.Anchor), s.IndexClose(name, w.Current)))
	}
	return r, nil
}

func change(ticker string, from, to float64) Return {
	ret := Return{Ticker: ticker, Price: to}
	if !valid(from) || !valid(to) {
		return ret
	}
	ret.Value, ret.OK = to/from-1, true
	return ret
}

// valid reports whether p is usable as a price.
func valid(p float64) bool { return p > 0 && !math.IsInf(p, 0) }
