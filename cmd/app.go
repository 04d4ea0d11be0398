// Package cmd implements the hm command line application: it fetches prices, reconciles the
// index constituents, and publishes period performance reports.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/date"
	"github.com/etnz/heatmap/eodhd"
	"github.com/etnz/heatmap/reference"
	"github.com/etnz/heatmap/store"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reports")
	c.Register(&treemapCmd{}, "reports")
	c.Register(&dueCmd{}, "reports")
	c.Register(&runCmd{}, "reports")
	c.Register(&assistCmd{}, "reports")

	c.Register(&fetchCmd{}, "data")
	c.Register(&reconcileCmd{}, "data")
	c.Register(&searchCmd{}, "data")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	dataFolder      = flag.String("data", ".prices", "Path to the price store folder")
	referenceFile   = flag.String("reference", "reference.csv", "Path to the reference table of the index (company, ISIN, symbol, sector, industry)")
	instrumentsFile = flag.String("instruments", "instruments.csv", "Path to the instruments snapshot produced by 'reconcile'")
	indexName       = flag.String("index", "WIG", "Name of the index, used in titles")
	benchmarkName   = flag.String("benchmark", "WIG", "Ticker of the benchmark index in the price store")
	exchangeSuffix  = flag.String("suffix", ".WAR", "Exchange suffix removed from provider symbols to make tickers")
	timezone        = flag.String("tz", "Europe/Warsaw", "Timezone of the exchange, defines 'today'")
	currency        = flag.String("currency", "PLN", "Currency of the market caps")
	topSectors      = flag.Int("top", heatmap.DefaultTopSectors, "Number of top sectors in summaries")
	hashtags        = flag.String("hashtags", "#WIG #GPW #giełda #inwestycje #akcje", "Hashtags closing the summary posts")
	verbose         = flag.Bool("v", false, "Verbose logs")
	eodhdAPIFlag    = flag.String("eodhd-api-key", "", "EODHD API key to use for consuming EODHD.com API. This flag takes precedence over the "+eodhdAPIKeyEnv+" environment variable. You can get one at https://eodhd.com/")
)

const eodhdAPIKeyEnv = "EODHD_API_KEY"

// newLogger returns the application logger: development with -v, production otherwise.
func newLogger() *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if *verbose {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return zap.NewNop()
	}
	return log
}

// location returns the exchange timezone.
func location() (*time.Location, error) {
	loc, err := time.LoadLocation(*timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", *timezone, err)
	}
	return loc, nil
}

// asOf parses the as-of date flag value, today in the exchange timezone when empty.
func asOf(value string) (date.Date, error) {
	if value != "" {
		return date.Parse(value)
	}
	loc, err := location()
	if err != nil {
		return date.Date{}, err
	}
	return date.Today(loc), nil
}

// eodhdAPIKey retrieves the EODHD API key from the command-line flag or the environment variable.
func eodhdAPIKey() string {
	if *eodhdAPIFlag != "" {
		return *eodhdAPIFlag
	}
	return os.Getenv(eodhdAPIKeyEnv)
}

// newEODHD returns an EODHD client caching its responses in the user cache directory.
func newEODHD(log *zap.Logger) (*eodhd.Client, error) {
	key := eodhdAPIKey()
	if key == "" {
		return nil, fmt.Errorf("EODHD API key is not set. Use -eodhd-api-key flag or %s environment variable", eodhdAPIKeyEnv)
	}
	loc, err := location()
	if err != nil {
		return nil, err
	}
	cfg := eodhd.Config{APIKey: key, Exchange: strings.TrimPrefix(*exchangeSuffix, "."), Location: loc}
	if dir, err := os.UserCacheDir(); err == nil {
		cfg.CacheDir = filepath.Join(dir, "hm", "eodhd")
	}
	return eodhd.New(cfg, log), nil
}

// loadSeries loads the price store and aligns it up to 'until' included.
func loadSeries(until date.Date) (*heatmap.PriceSeries, error) {
	m, err := store.Load(*dataFolder)
	if err != nil {
		return nil, err
	}
	return m.Series(until)
}

// loadInstruments loads the instruments snapshot.
func loadInstruments() ([]heatmap.Instrument, error) {
	instruments, err := reference.LoadInstruments(*instrumentsFile)
	if err != nil {
		return nil, fmt.Errorf("cannot load instruments %q (run 'hm reconcile' first): %w", *instrumentsFile, err)
	}
	return instruments, nil
}

// splitHashtags returns the configured hashtags.
func splitHashtags() []string { return strings.Fields(*hashtags) }

// printMarkdown renders markdown for the terminal, or prints it raw when it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
