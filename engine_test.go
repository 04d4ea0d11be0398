package heatmap

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/etnz/heatmap/date"
)

func wigSeries(t *testing.T) *PriceSeries {
	t.Helper()
	return newSeries(t, positions(10), ramp(10, 2000, 2020),
		column{"PKN", ramp(10, 100, 105)},
		column{"PZU", ramp(10, 50, 49)},
		column{"PEO", ramp(10, 200, 210)},
		column{"XYZ", ramp(10, 10, 12)},
	)
}

var wigInstruments = []Instrument{
	{Ticker: "PKN", Company: "Orlen", ISIN: "PLPKN0000018", Sector: "Energy", Shares: 10},
	{Ticker: "PZU", Company: "PZU", ISIN: "PLPZU0000011", Sector: "Financial Services", Shares: 20},
	{Ticker: "PEO", Company: "Pekao", ISIN: "PLPEKAO00016", Sector: "Financial Services", Shares: 5},
}

func TestEngine_Compute(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := NewEngine(Config{}, zap.New(core))

	rep, err := e.Compute(wigSeries(t), wigInstruments, OneDay, date.Date{})
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}

	days := positions(10)
	if rep.From != days[8] || rep.To != days[9] || rep.AsOf != days[9] {
		t.Errorf("Compute() window = %v..%v as of %v, want %v..%v", rep.From, rep.To, rep.AsOf, days[8], days[9])
	}
	if !rep.Benchmark.OK || !approx(rep.Benchmark.Value, 0.01) {
		t.Errorf("Benchmark = %+v, want +1%%", rep.Benchmark)
	}

	best, _ := rep.Best()
	worst, _ := rep.Worst()
	if best.Ticker != "XYZ" || worst.Ticker != "PZU" {
		t.Errorf("Best, Worst = %s, %s, want XYZ, PZU", best.Ticker, worst.Ticker)
	}
	if len(rep.Movers) != 4 || rep.Movers[1].Ticker != "PKN" || rep.Movers[2].Ticker != "PEO" {
		t.Errorf("Movers = %v, want XYZ, PKN, PEO, PZU", rep.Movers)
	}

	if len(rep.Sectors) != 2 || len(rep.TopSectors) != 2 {
		t.Fatalf("Sectors = %+v, want 2 sectors", rep.Sectors)
	}
	if s := rep.Sectors[0]; s.Sector != "Energy" || !approx(s.Return, 0.05) {
		t.Errorf("Sectors[0] = %+v, want Energy +5%%", s)
	}
	finance := (980*-0.02 + 1050*0.05) / 2030
	if s := rep.Sectors[1]; s.Sector != "Financial Services" || !approx(s.Return, finance) {
		t.Errorf("Sectors[1] = %+v, want Financial Services %v", s, finance)
	}

	warnings := logs.FilterMessage("data quality").All()
	if len(warnings) != 1 {
		t.Fatalf("logged %d data quality warnings, want 1", len(warnings))
	}
	fields := warnings[0].ContextMap()
	if fields["ticker"] != "XYZ" || fields["kind"] != string(MissingMetadata) || fields["period"] != "1D" {
		t.Errorf("warning fields = %v, want XYZ missing metadata over 1D", fields)
	}
	if warnings[0].Level != zapcore.WarnLevel {
		t.Errorf("warning level = %v, want warn", warnings[0].Level)
	}
}

func TestEngine_TopSectors(t *testing.T) {
	e := NewEngine(Config{TopSectors: 1}, nil)
	rep, err := e.Compute(wigSeries(t), wigInstruments, OneDay, date.Date{})
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}
	if len(rep.TopSectors) != 1 || rep.TopSectors[0].Sector != "Energy" {
		t.Errorf("TopSectors = %+v, want Energy only", rep.TopSectors)
	}
	if len(rep.Sectors) != 2 {
		t.Errorf("Sectors = %+v, want every ranked sector", rep.Sectors)
	}
}

func TestEngine_MissingBenchmark(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := newSeries(t, positions(3), nil, column{"PKN", []float64{1, 2, 3}})
	rep, err := NewEngine(Config{}, zap.New(core)).Compute(s, wigInstruments[:1], OneDay, date.Date{})
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}
	if rep.Benchmark.OK {
		t.Errorf("Benchmark = %+v, want no value", rep.Benchmark)
	}
	if n := logs.FilterMessage("benchmark return unavailable").Len(); n != 0 {
		t.Errorf("logged %d benchmark warnings for a series without benchmark, want 0", n)
	}
}

func TestEngine_ComputeAll(t *testing.T) {
	e := NewEngine(Config{}, nil)
	tags := []Tag{OneDay, OneYear, "3M", OneWeek}
	reports, err := e.ComputeAll(context.Background(), wigSeries(t), wigInstruments, tags, date.Date{})

	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("ComputeAll() error = %v, want it to contain ErrInsufficientHistory", err)
	}
	if !errors.Is(err, ErrUnsupportedPeriod) {
		t.Errorf("ComputeAll() error = %v, want it to contain ErrUnsupportedPeriod", err)
	}
	if len(reports) != len(tags) {
		t.Fatalf("ComputeAll() returned %d reports, want %d", len(reports), len(tags))
	}
	for i, wantOK := range []bool{true, false, false, true} {
		if (reports[i] != nil) != wantOK {
			t.Errorf("reports[%d] (%s) = %v, want present: %v", i, tags[i], reports[i], wantOK)
		}
	}
	if reports[0].Tag != OneDay || reports[3].Tag != OneWeek {
		t.Errorf("reports are not in tag order")
	}

	// Reports of independent tags are the same as single computations.
	single, err := e.Compute(wigSeries(t), wigInstruments, OneDay, date.Date{})
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}
	if single.Sectors[0] != reports[0].Sectors[0] {
		t.Errorf("ComputeAll() 1D sectors = %+v, want %+v", reports[0].Sectors, single.Sectors)
	}
}

func TestEngine_Deterministic(t *testing.T) {
	e := NewEngine(Config{}, nil)
	s := wigSeries(t)
	first, err := e.Compute(s, wigInstruments, OneDay, date.Date{})
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}
	second, _ := e.Compute(s, wigInstruments, OneDay, date.Date{})
	for i := range first.Movers {
		if first.Movers[i].Ticker != second.Movers[i].Ticker || first.Movers[i].Return != second.Movers[i].Return {
			t.Errorf("Movers[%d] differ between runs: %+v vs %+v", i, first.Movers[i], second.Movers[i])
		}
	}
}

func TestEngine_SectorIndices(t *testing.T) {
	s := wigSeries(t)
	for name, levels := range map[string][]float64{
		"WIG-BANKI":  ramp(10, 8000, 7920),
		"WIG-PALIWA": ramp(10, 9000, 9270),
		"WIG-GRY":    flat(10, math.NaN()),
	} {
		if err := s.AddIndex(name, levels); err != nil {
			t.Fatalf("AddIndex(%q) unexpected error: %v", name, err)
		}
	}
	rep, err := NewEngine(Config{}, nil).Compute(s, wigInstruments, OneDay, date.Date{})
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}
	if len(rep.Indices) != 2 {
		t.Fatalf("Indices = %+v, want 2 ranked indices", rep.Indices)
	}
	if rep.Indices[0].Ticker != "WIG-PALIWA" || !approx(rep.Indices[0].Value, 0.03) {
		t.Errorf("Indices[0] = %+v, want WIG-PALIWA +3%%", rep.Indices[0])
	}
	if rep.Indices[1].Ticker != "WIG-BANKI" || !approx(rep.Indices[1].Value, -0.01) {
		t.Errorf("Indices[1] = %+v, want WIG-BANKI -1%%", rep.Indices[1])
	}
	var missing []string
	for _, is := range rep.Issues {
		if is.Kind == MissingIndex {
			missing = append(missing, is.Ticker)
		}
	}
	if len(missing) != 1 || missing[0] != "WIG-GRY" {
		t.Errorf("MissingIndex issues = %v, want WIG-GRY", missing)
	}
	if len(rep.Sectors) != 2 {
		t.Errorf("Sectors = %+v, want sector indices to leave the cap-weighted sectors alone", rep.Sectors)
	}
}

func TestEngine_ComputeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reports, err := NewEngine(Config{}, nil).ComputeAll(ctx, wigSeries(t), wigInstruments, []Tag{OneDay, OneWeek}, date.Date{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ComputeAll() error = %v, want context.Canceled", err)
	}
	for i, rep := range reports {
		if rep != nil {
			t.Errorf("reports[%d] = %+v, want none after cancellation", i, rep)
		}
	}
}
