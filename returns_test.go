package heatmap

import (
	"errors"
	"math"
	"testing"
)

func TestComputeReturns(t *testing.T) {
	days := positions(10)
	s := newSeries(t, days, ramp(10, 2000, 2100),
		column{"AAA", ramp(10, 100, 105)},
		column{"ZERO", ramp(10, 0, 50)},
		column{"NAN", ramp(10, math.NaN(), 10)},
		column{"DOWN", ramp(10, 40, 30)},
	)
	w := Window{Tag: OneDay, Anchor: 8, Current: 9}
	got, err := ComputeReturns(s, w)
	if err != nil {
		t.Fatalf("ComputeReturns() unexpected error: %v", err)
	}

	tests := []struct {
		ticker string
		want   float64
		ok     bool
	}{
		{"AAA", 0.05, true},
		{"ZERO", 0, false},
		{"NAN", 0, false},
		{"DOWN", -0.25, true},
	}
	for _, tc := range tests {
		r, found := got.Get(tc.ticker)
		if !found {
			t.Errorf("Get(%q) not found", tc.ticker)
			continue
		}
		if r.OK != tc.ok {
			t.Errorf("%s: OK = %v, want %v", tc.ticker, r.OK, tc.ok)
		}
		if tc.ok && !approx(r.Value, tc.want) {
			t.Errorf("%s: Value = %v, want %v", tc.ticker, r.Value, tc.want)
		}
	}
	if len(got.Instruments) != 4 {
		t.Errorf("len(Instruments) = %d, want 4", len(got.Instruments))
	}
	if !got.Benchmark.OK || !approx(got.Benchmark.Value, 0.05) || got.Benchmark.Ticker != "WIG" {
		t.Errorf("Benchmark = %+v, want WIG +0.05", got.Benchmark)
	}
}

func TestComputeReturns_Exact(t *testing.T) {
	closes := []float64{10, 12.5, 9.75, 11, 13.2}
	s := newSeries(t, positions(len(closes)), nil, column{"X", closes})
	for anchor := range closes {
		for current := anchor + 1; current < len(closes); current++ {
			got, err := ComputeReturns(s, Window{Tag: OneDay, Anchor: anchor, Current: current})
			if err != nil {
				t.Fatalf("ComputeReturns(%d, %d) unexpected error: %v", anchor, current, err)
			}
			want := closes[current]/closes[anchor] - 1
			if r := got.Instruments[0]; !r.OK || r.Value != want || r.Price != closes[current] {
				t.Errorf("ComputeReturns(%d, %d) = %+v, want %v", anchor, current, r, want)
			}
		}
	}
}

func TestComputeReturns_MissingBenchmark(t *testing.T) {
	s := newSeries(t, positions(3), nil, column{"X", flat(3, 1)})
	got, err := ComputeReturns(s, Window{Tag: OneDay, Anchor: 1, Current: 2})
	if err != nil {
		t.Fatalf("ComputeReturns() unexpected error: %v", err)
	}
	if got.Benchmark.OK {
		t.Errorf("Benchmark = %+v, want no value", got.Benchmark)
	}
}

func TestComputeReturns_InsufficientHistory(t *testing.T) {
	cal := mustCalendar(t, positions(5))
	w, err := NewResolver(cal, cal.Last().Date).Resolve(OneYear)
	if err != nil {
		t.Fatalf("Resolve(1Y) unexpected error: %v", err)
	}
	s := newSeries(t, positions(5), flat(5, 1), column{"X", flat(5, 1)})

	_, err = ComputeReturns(s, w)
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Fatalf("ComputeReturns() error = %v, want ErrInsufficientHistory", err)
	}
	var herr *InsufficientHistoryError
	if !errors.As(err, &herr) {
		t.Fatalf("ComputeReturns() error = %T, want *InsufficientHistoryError", err)
	}
	if herr.Tag != OneYear || herr.Rows != 5 {
		t.Errorf("InsufficientHistoryError = %+v, want 1Y with 5 rows", herr)
	}
}

func TestComputeReturns_OutOfRange(t *testing.T) {
	s := newSeries(t, positions(3), nil, column{"X", flat(3, 1)})
	if _, err := ComputeReturns(s, Window{Tag: OneDay, Anchor: 1, Current: 3}); err == nil {
		t.Errorf("ComputeReturns() expected an error for a current position past the series")
	}
}

func TestPriceSeries_Add(t *testing.T) {
	s := NewPriceSeries(positions(3))
	if err := s.Add("X", flat(2, 1)); err == nil {
		t.Errorf("Add() expected an error for a short column")
	}
	if err := s.Add("X", flat(3, 1)); err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	if err := s.Add("X", flat(3, 1)); err == nil {
		t.Errorf("Add() expected an error for a duplicate column")
	}
	if err := s.SetBenchmark("X", flat(3, 1)); err == nil {
		t.Errorf("SetBenchmark() expected an error for a benchmark named as an instrument")
	}
	if !math.IsNaN(s.Close("Y", 0)) {
		t.Errorf("Close(Y, 0) = %v, want NaN", s.Close("Y", 0))
	}
}

func TestPriceSeries_AddIndex(t *testing.T) {
	s := newSeries(t, positions(3), flat(3, 1000), column{"PKO", []float64{60, 61, 62}})
	if err := s.AddIndex("WIG-BANKI", flat(2, 1)); err == nil {
		t.Errorf("AddIndex() expected an error for a short column")
	}
	if err := s.AddIndex("WIG", flat(3, 1)); err == nil {
		t.Errorf("AddIndex() expected an error for an index named as the benchmark")
	}
	if err := s.AddIndex("WIG-BANKI", []float64{8000, 8000, 8080}); err != nil {
		t.Fatalf("AddIndex() unexpected error: %v", err)
	}
	if err := s.AddIndex("WIG-BANKI", flat(3, 1)); err == nil {
		t.Errorf("AddIndex() expected an error for a duplicate index")
	}
	if s.Has("WIG-BANKI") || len(s.Tickers()) != 1 {
		t.Errorf("AddIndex() added an instrument column: %v", s.Tickers())
	}

	r, err := ComputeReturns(s, Window{Tag: OneDay, Anchor: 1, Current: 2})
	if err != nil {
		t.Fatalf("ComputeReturns() unexpected error: %v", err)
	}
	if len(r.Indices) != 1 || r.Indices[0].Ticker != "WIG-BANKI" || !r.Indices[0].OK || !approx(r.Indices[0].Value, 0.01) {
		t.Errorf("ComputeReturns() indices = %+v, want WIG-BANKI +1%%", r.Indices)
	}
}
