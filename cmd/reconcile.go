package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/reference"
	"github.com/etnz/heatmap/store"
)

// defaultConstituentsURL is the WIG portfolio page published by GPW Benchmark.
const defaultConstituentsURL = "https://gpwbenchmark.pl/ajaxindex.php?action=GPWIndexes&start=ajaxPortfolio&format=html&lang=EN&isin=PL9999999995&cmng_id=1011"

type reconcileCmd struct {
	url             string
	tries           int
	wait            time.Duration
	benchmarkSymbol string
	indices         string
	declare         bool
}

func (*reconcileCmd) Name() string { return "reconcile" }
func (*reconcileCmd) Synopsis() string {
	return "update the instruments from the live index constituents"
}
func (*reconcileCmd) Usage() string {
	return `hm reconcile [-url <url>] [-tries <n>] [-declare=false]

  Downloads the live constituents of the index (an HTML table or an XLSX sheet with the company,
  ISIN and number of shares), joins them with the reference table on ISIN, and writes the
  instruments snapshot used by reports.

  Missing symbols are looked up on eodhd.com by ISIN, missing sectors and industries in the
  company fundamentals. The reference table is saved when it changed. With -declare, the
  instruments are declared in the price store so that 'hm fetch' gets their prices.

  -indices declares the official sector sub-indices ranked next to the cap-weighted sectors,
  as a comma separated list of <ticker>=<symbol>, e.g.

    hm reconcile -indices WIG-BANKI=WIG_BANKI.WAR,WIG-PALIWA=WIG_PALIWA.WAR
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.url, "url", defaultConstituentsURL, "Address of the constituents document.")
	f.IntVar(&c.tries, "tries", 5, "Number of attempts for each download or lookup.")
	f.DurationVar(&c.wait, "wait", 10*time.Second, "Delay between attempts.")
	f.StringVar(&c.benchmarkSymbol, "benchmark-symbol", "", "EODHD symbol of the benchmark, declared in the price store when set.")
	f.StringVar(&c.indices, "indices", "", "Sector sub-indices to declare in the price store, as <ticker>=<symbol>,...")
	f.BoolVar(&c.declare, "declare", true, "Declare the instruments in the price store.")
}

func (c *reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := newLogger()
	defer log.Sync()

	indices, err := parseIndices(c.indices)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	table, err := reference.LoadTable(*referenceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load reference table: %v\n", err)
		return subcommands.ExitFailure
	}
	httpClient := &http.Client{Timeout: time.Minute}
	constituents, err := reference.FetchConstituents(ctx, httpClient, c.url, c.tries, c.wait, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	rc := &reference.Reconciler{Suffix: *exchangeSuffix, MaxTries: c.tries, Wait: c.wait, Log: log}
	if client, err := newEODHD(log); err != nil {
		log.Warn("symbols and profiles cannot be looked up", zap.Error(err))
	} else {
		rc.Resolver, rc.Profiles = client, client
	}
	instruments, err := rc.Reconcile(ctx, table, constituents)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if table.Dirty() {
		if err := table.Save(*referenceFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: could not save reference table: %v\n", err)
			return subcommands.ExitFailure
		}
		log.Info("reference table updated", zap.String("file", *referenceFile), zap.Int("rows", table.Len()))
	}
	if err := reference.SaveInstruments(*instrumentsFile, instruments); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.declare {
		if err := c.declareInstruments(table, instruments, indices, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	unresolved := 0
	for _, ins := range instruments {
		if ins.Ticker == ins.ISIN {
			unresolved++
		}
	}
	fmt.Fprintf(os.Stderr, "✅ %d instruments written to %s, %d without symbol.\n", len(instruments), *instrumentsFile, unresolved)
	return subcommands.ExitSuccess
}

// declareInstruments adds the resolved instruments, the benchmark and the sector indices to the
// price store.
func (c *reconcileCmd) declareInstruments(table *reference.Table, instruments []heatmap.Instrument, indices []indexFlag, log *zap.Logger) error {
	m, err := store.Load(*dataFolder)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("creating price store", zap.String("folder", *dataFolder))
		m, err = heatmap.NewMarket(), nil
	}
	if err != nil {
		return err
	}
	for _, ins := range instruments {
		row, ok := table.Get(ins.ISIN)
		if !ok || row.Symbol == "" || m.Has(ins.Ticker) {
			continue
		}
		m.Add(ins.Ticker, row.Symbol)
		log.Info("security declared", zap.String("ticker", ins.Ticker), zap.String("symbol", row.Symbol))
	}
	if c.benchmarkSymbol != "" && m.Benchmark() == nil {
		m.SetBenchmark(*benchmarkName, c.benchmarkSymbol)
	}
	for _, idx := range indices {
		if m.Index(idx.ticker) != nil {
			continue
		}
		m.AddIndex(idx.ticker, idx.symbol)
		log.Info("sector index declared", zap.String("ticker", idx.ticker), zap.String("symbol", idx.symbol))
	}
	if err := os.MkdirAll(*dataFolder, 0755); err != nil {
		return err
	}
	return store.Persist(m, *dataFolder, log)
}

type indexFlag struct{ ticker, symbol string }

// parseIndices parses a comma separated list of <ticker>=<symbol>.
func parseIndices(s string) ([]indexFlag, error) {
	var indices []indexFlag
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		ticker, symbol, ok := strings.Cut(item, "=")
		if !ok || ticker == "" || symbol == "" {
			return nil, fmt.Errorf("invalid sector index %q, want <ticker>=<symbol>", item)
		}
		indices = append(indices, indexFlag{ticker, symbol})
	}
	return indices, nil
}
