package heatmap

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/etnz/heatmap/date"
)

// DefaultTopSectors is the number of sectors in the headline when not configured.
const DefaultTopSectors = 3

// Config holds the engine settings.
type Config struct {
	TopSectors int // number of top sectors to expose, DefaultTopSectors when zero
}

// Engine computes period reports. It is stateless and safe for concurrent use.
type Engine struct {
	cfg Config
	log *zap.Logger
}

// NewEngine returns an Engine. A nil logger discards all logs.
func NewEngine(cfg Config, log *zap.Logger) *Engine {
	if cfg.TopSectors == 0 {
		cfg.TopSectors = DefaultTopSectors
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cfg: cfg, log: log}
}

// Report is the outcome of one period computation.
type Report struct {
	Tag       Tag
	AsOf      date.Date
	From, To  date.Date // dates of the anchor and current sessions
	Benchmark Return
	// Movers holds every record with a valid return, best first.
	Movers []Record
	// Sectors holds every ranked sector, best first. TopSectors is its headline prefix.
	Sectors    []SectorAggregate
	TopSectors []SectorAggregate
	// Indices holds the official sector sub-indices with a valid return, best first.
	Indices []Return
	Records []Record // in price column order
	Issues  []Issue
}

// Best returns the best mover.
func (r *Report) Best() (Record, bool) {
	if len(r.Movers) == 0 {
		return Record{}, false
	}
	return r.Movers[0], true
}

// Worst returns the worst mover.
func (r *Report) Worst() (Record, bool) {
	if len(r.Movers) == 0 {
		return Record{}, false
	}
	return r.Movers[len(r.Movers)-1], true
}

// MarketCap returns the total market cap of the ranked sectors.
func (r *Report) MarketCap() float64 {
	total := 0.0
	for _, s := range r.Sectors {
		total += s.MarketCap
	}
	return total
}

// Compute resolves tag over the series and builds its Report.
//
// asOf selects the current bucket of to-date tags; the zero value stands for the last session.
// Faults about the whole computation (unsupported tag, not enough history) are returned. Faults
// local to an instrument, a sector or a sector index are recorded in Report.Issues.
func (e *Engine) Compute(series *PriceSeries, instruments []Instrument, tag Tag, asOf date.Date) (*Report, error) {
	cal, err := series.Calendar()
	if err != nil {
		return nil, err
	}
	resolver := NewResolver(cal, asOf)
	w, err := resolver.Resolve(tag)
	if err != nil {
		return nil, err
	}
	returns, err := ComputeReturns(series, w)
	if err != nil {
		return nil, err
	}

	records, issues := Join(returns, instruments)
	sectors, degenerate := Sectors(records)
	issues = append(issues, degenerate...)
	ranked := RankSectors(sectors)
	indices, missing := RankIndices(returns.Indices)
	issues = append(issues, missing...)

	rep := &Report{
		Tag:        tag,
		AsOf:       resolver.AsOf(),
		From:       cal.At(w.Anchor).Date,
		To:         cal.At(w.Current).Date,
		Benchmark:  returns.Benchmark,
		Movers:     Movers(records),
		Sectors:    ranked,
		TopSectors: Top(ranked, e.cfg.TopSectors),
		Indices:    indices,
		Records:    records,
		Issues:     issues,
	}

	log := e.log.With(zap.String("period", string(tag)), zap.Stringer("from", rep.From), zap.Stringer("to", rep.To))
	for _, is := range issues {
		log.Warn("data quality", zap.String("ticker", is.Ticker), zap.String("sector", is.Sector), zap.String("kind", string(is.Kind)), zap.String("detail", is.Detail))
	}
	if !rep.Benchmark.OK && series.Benchmark() != "" {
		log.Warn("benchmark return unavailable", zap.String("benchmark", series.Benchmark()))
	}
	log.Debug("period computed",
		zap.Int("movers", len(rep.Movers)),
		zap.Int("sectors", len(rep.Sectors)),
		zap.Int("indices", len(rep.Indices)),
		zap.Float64("benchmark", orNaN(rep.Benchmark)),
	)
	return rep, nil
}

// ComputeAll computes the reports of several tags concurrently.
//
// Reports are returned in the order of tags. A failing tag leaves a nil report and does not stop
// the others: all failures are joined in the returned error. Tags not started when ctx is done
// fail with the context error.
func (e *Engine) ComputeAll(ctx context.Context, series *PriceSeries, instruments []Instrument, tags []Tag, asOf date.Date) ([]*Report, error) {
	reports := make([]*Report, len(tags))
	errs := make([]error, len(tags))
	var g errgroup.Group
	for i, tag := range tags {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = fmt.Errorf("%s: %w", tag, err)
				return nil
			}
			rep, err := e.Compute(series, instruments, tag, asOf)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", tag, err)
				return nil
			}
			reports[i] = rep
			return nil
		})
	}
	_ = g.Wait() // goroutines never fail, errors are collected per tag.
	return reports, errors.Join(errs...)
}

func orNaN(r Return) float64 {
	if !r.OK {
		return math.NaN()
	}
	return r.Value
}
