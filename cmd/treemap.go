package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/heatmap"
)

type treemapCmd struct {
	period string
	date   string
	output string
}

func (*treemapCmd) Name() string     { return "treemap" }
func (*treemapCmd) Synopsis() string { return "describe the heatmap chart of a period in JSON" }
func (*treemapCmd) Usage() string {
	return `hm treemap [-p <period>] [-d <date>] [-o <file>]

  Writes the treemap description of a period: tiles sized by market cap and colored by return,
  nested as index, sector and ticker. The JSON document is meant for an external chart renderer.
`
}

func (c *treemapCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", string(heatmap.OneDay), "Period tag: 1D, 1W, MTD, QTD, YTD or 1Y.")
	f.StringVar(&c.date, "d", "", "As-of date (YYYY-MM-DD), today in the exchange timezone by default.")
	f.StringVar(&c.output, "o", "-", "Output file, '-' for the standard output.")
}

func (c *treemapCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	var w io.Writer = os.Stdout
	if c.output != "-" {
		file, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}
	if err := heatmap.NewTreemap(*indexName, rep).Encode(w); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing treemap: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
