package cmd

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/heatmap"
)

type dueCmd struct {
	date  string
	extra bool
}

func (*dueCmd) Name() string     { return "due" }
func (*dueCmd) Synopsis() string { return "list the periods to publish on a date" }
func (*dueCmd) Usage() string {
	return `hm due [-d <date>] [-extra=false]

  Lists the period tags to publish on a date, one per line:
    1D  on trading sessions,
    1W  on Saturdays,
    MTD, QTD and YTD on the last day of the month, quarter and year.

  An extra YTD is drawn at random about twice a month, unless -extra=false.
`
}

func (c *dueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "As-of date (YYYY-MM-DD), today in the exchange timezone by default.")
	f.BoolVar(&c.extra, "extra", true, "Draw the extra YTD.")
}

// draw returns the random draw of the extra YTD, or nil when disabled.
func draw(extra bool) func() float64 {
	if !extra {
		return nil
	}
	return rand.Float64
}

func (c *dueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := asOf(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	series, err := loadSeries(on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	cal, err := series.Calendar()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, tag := range heatmap.Due(cal, on, draw(c.extra)) {
		fmt.Println(tag)
	}
	return subcommands.ExitSuccess
}
