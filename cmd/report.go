package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/renderer"
)

type reportCmd struct {
	period string
	date   string
	full   bool
	raw    bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the performance of the index over a period" }
func (*reportCmd) Usage() string {
	return `hm report [-p <period>] [-d <date>] [-full] [-raw]

  Computes the performance of the index over a period: 1D, 1W, MTD, QTD, YTD or 1Y.

  By default it displays the summary post: benchmark, best and worst movers, and top sectors.
  With -full it displays the complete report with all sectors, movers and data quality issues.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", string(heatmap.OneDay), "Period tag: 1D, 1W, MTD, QTD, YTD or 1Y.")
	f.StringVar(&c.date, "d", "", "As-of date (YYYY-MM-DD), today in the exchange timezone by default.")
	f.BoolVar(&c.full, "full", false, "Display the full report.")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown.")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tag, err := heatmap.ParseTag(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	on, err := asOf(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	log := newLogger()
	defer log.Sync()

	rep, err := compute(tag, on, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var md string
	if c.full {
		md = renderer.RenderReport(renderer.NewReport(*indexName, *benchmarkName, *currency, rep))
	} else {
		md = renderer.RenderSummary(renderer.NewSummary(*indexName, *benchmarkName, rep, splitHashtags()))
	}
	if c.raw || !c.full {
		// summaries are posts: they are printed as is.
		fmt.Print(md)
		return subcommands.ExitSuccess
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
