package heatmap

import (
	"math"
	"testing"
	"time"

	"github.com/etnz/heatmap/date"
)

// sessions returns every weekday from 'from' to 'to' included, skipping holidays.
func sessions(from, to string, holidays ...string) []date.Date {
	skip := make(map[date.Date]bool)
	for _, h := range holidays {
		skip[date.MustParse(h)] = true
	}
	var days []date.Date
	for d := date.MustParse(from); !d.After(date.MustParse(to)); d = d.Add(1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday || skip[d] {
			continue
		}
		days = append(days, d)
	}
	return days
}

// positions returns n consecutive weekday sessions starting on 2025-01-06.
func positions(n int) []date.Date {
	var days []date.Date
	for d := date.New(2025, 1, 6); len(days) < n; d = d.Add(1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days = append(days, d)
		}
	}
	return days
}

func mustCalendar(t *testing.T, days []date.Date) *Calendar {
	t.Helper()
	cal, err := NewCalendar(days)
	if err != nil {
		t.Fatalf("NewCalendar() unexpected error: %v", err)
	}
	return cal
}

// flat returns n prices equal to v.
func flat(n int, v float64) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = v
	}
	return p
}

// ramp returns n prices equal to v, except the last one which is last.
func ramp(n int, v, last float64) []float64 {
	p := flat(n, v)
	p[n-1] = last
	return p
}

type column struct {
	ticker string
	closes []float64
}

// newSeries builds a series with a "WIG" benchmark at the given levels (none if nil).
func newSeries(t *testing.T, days []date.Date, bench []float64, cols ...column) *PriceSeries {
	t.Helper()
	s := NewPriceSeries(days)
	for _, c := range cols {
		if err := s.Add(c.ticker, c.closes); err != nil {
			t.Fatalf("Add(%q) unexpected error: %v", c.ticker, err)
		}
	}
	if bench != nil {
		if err := s.SetBenchmark("WIG", bench); err != nil {
			t.Fatalf("SetBenchmark() unexpected error: %v", err)
		}
	}
	return s
}

// approx reports whether a and b are equal up to rounding errors.
func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
