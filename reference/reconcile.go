package reference

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/etnz/heatmap"
)

// Reconciler completes the reference table with the live constituents, and produces the
// instruments of the index.
type Reconciler struct {
	Resolver IdentifierResolver // looks up missing symbols, optional
	Profiles ProfileProvider    // looks up missing sectors and industries, optional
	Suffix   string             // removed from symbols to make tickers, e.g. ".WAR"
	MaxTries int                // attempts per symbol lookup, default 5
	Wait     time.Duration      // between attempts
	Log      *zap.Logger
}

// Ticker returns the report ticker of a provider symbol.
func (rc *Reconciler) Ticker(symbol string) string { return strings.TrimSuffix(symbol, rc.Suffix) }

// Reconcile joins constituents with the table on ISIN, keeping exactly the constituents.
//
// Missing symbols and classifications are looked up and written back in the table, which is then
// Dirty. A constituent whose symbol cannot be found is kept with its ISIN as ticker, so that it
// shows up as an instrument without prices. Only a cancelled context is an error.
func (rc *Reconciler) Reconcile(ctx context.Context, table *Table, constituents []Constituent) ([]heatmap.Instrument, error) {
	log := rc.Log
	if log == nil {
		log = zap.NewNop()
	}
	maxTries := rc.MaxTries
	if maxTries == 0 {
		maxTries = 5
	}

	instruments := make([]heatmap.Instrument, 0, len(constituents))
	for _, c := range constituents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, found := table.Get(c.ISIN)
		if !found {
			row = Row{Company: c.Company, ISIN: c.ISIN}
		}
		if !row.complete() {
			log.Warn("incomplete reference data", zap.String("company", c.Company), zap.String("isin", c.ISIN))
		}

		if row.Symbol == "" && rc.Resolver != nil {
			symbol, err := ResolveWithRetry(ctx, rc.Resolver, c.ISIN, maxTries, rc.Wait, log)
			switch {
			case err == nil:
				row.Symbol = symbol
			case ctx.Err() != nil:
				return nil, ctx.Err()
			default:
				log.Warn("symbol not found", zap.String("isin", c.ISIN), zap.Error(err))
			}
		}

		shares := c.Shares
		needProfile := row.Sector == "" || row.Industry == "" || math.IsNaN(shares)
		if needProfile && row.Symbol != "" && rc.Profiles != nil {
			p, err := rc.Profiles.Profile(ctx, row.Symbol)
			switch {
			case err == nil:
				// new companies may have no classification yet.
				if row.Sector == "" {
					row.Sector = p.Sector
				}
				if row.Industry == "" {
					row.Industry = p.Industry
				}
				if math.IsNaN(shares) {
					shares = p.Shares
				}
			case ctx.Err() != nil:
				return nil, ctx.Err()
			case errors.Is(err, ErrNotFound):
				log.Warn("no profile", zap.String("symbol", row.Symbol))
			default:
				log.Warn("cannot fetch profile", zap.String("symbol", row.Symbol), zap.Error(err))
			}
		}
		table.Set(row)

		ticker := rc.Ticker(row.Symbol)
		if ticker == "" {
			ticker = c.ISIN
		}
		instruments = append(instruments, heatmap.Instrument{
			Ticker:   ticker,
			Company:  row.Company,
			ISIN:     c.ISIN,
			Sector:   row.Sector,
			Industry: row.Industry,
			Shares:   shares,
		})
	}
	return instruments, nil
}
