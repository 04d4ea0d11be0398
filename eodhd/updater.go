package eodhd

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/date"
)

// maxParallelFetches bounds the number of concurrent price requests; the limiter bounds their rate.
const maxParallelFetches = 4

// Update fetches the missing closing prices of every security of the market, benchmark and sector
// sub-indices included, up to 'to'.
//
// A security resumes from the day after its latest known price, or from 'inception' if it has
// none. Securities without a provider symbol are skipped. A failing security does not stop the
// others: failures are joined in the returned error. It returns the number of prices added.
func (c *Client) Update(ctx context.Context, m *heatmap.Market, inception, to date.Date) (int, error) {
	securities := slices.Concat(m.Securities(), m.Indices())
	if b := m.Benchmark(); b != nil {
		securities = append(securities, b)
	}

	added := make([]int, len(securities))
	errs := make([]error, len(securities))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for i, sec := range securities {
		if sec.Symbol() == "" {
			c.log.Debug("no symbol, skipped", zap.String("ticker", sec.Ticker()))
			continue
		}
		from := resume(sec, inception)
		if from.After(to) {
			continue
		}
		g.Go(func() error {
			h, err := c.Closes(ctx, sec.Symbol(), from, to)
			if err != nil {
				c.log.Warn("cannot update prices", zap.String("ticker", sec.Ticker()), zap.String("symbol", sec.Symbol()), zap.Error(err))
				errs[i] = fmt.Errorf("%s: %w", sec.Ticker(), err)
				return nil
			}
			// each goroutine only writes its own security.
			for day, price := range h.Values() {
				sec.Prices().Append(day, price)
				added[i]++
			}
			c.log.Debug("prices updated", zap.String("ticker", sec.Ticker()), zap.Stringer("from", from), zap.Stringer("to", to), zap.Int("count", added[i]))
			return nil
		})
	}
	_ = g.Wait() // goroutines never fail, errors are collected per security.

	total := 0
	for _, n := range added {
		total += n
	}
	return total, errors.Join(errs...)
}

// resume returns the first day to fetch for sec, inception when it has no price yet.
func resume(sec *heatmap.Security, inception date.Date) date.Date {
	if sec.Prices().Len() == 0 {
		return inception
	}
	latest, _ := sec.Prices().Latest()
	return latest.Add(1)
}
