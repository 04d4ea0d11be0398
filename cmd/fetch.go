package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/heatmap/date"
	"github.com/etnz/heatmap/store"
)

type fetchCmd struct {
	inception string
	date      string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetches closing prices from EODHD into the price store" }
func (*fetchCmd) Usage() string {
	return `hm fetch [-inception <date>] [-d <date>]

  Fetches the closing prices of every security declared in the price store, and of the
  benchmark, from eodhd.com. Each security resumes after its latest known price; securities
  without any price are fetched from the inception date.

  Requires the EODHD_API_KEY environment variable to be set or passed as a flag.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inception, "inception", "", "First date to fetch for new securities, two years before the end date by default.")
	f.StringVar(&c.date, "d", "", "Last date to fetch, today in the exchange timezone by default.")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	to, err := asOf(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	inception := date.New(to.Year()-2, to.Month(), to.Day())
	if c.inception != "" {
		if inception, err = date.Parse(c.inception); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing inception date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	log := newLogger()
	defer log.Sync()

	client, err := newEODHD(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	m, err := store.Load(*dataFolder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load price store: %v\n", err)
		return subcommands.ExitFailure
	}

	added, fetchErr := client.Update(ctx, m, inception, to)
	// what was fetched is saved even when some securities failed.
	if err := store.Persist(m, *dataFolder, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not save price store: %v\n", err)
		return subcommands.ExitFailure
	}
	if fetchErr != nil {
		fmt.Fprintf(os.Stderr, "Error: could not fetch from eodhd.com: %v\n", fetchErr)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "✅ Successfully fetched %d prices from eodhd.com.\n", added)
	return subcommands.ExitSuccess
}
