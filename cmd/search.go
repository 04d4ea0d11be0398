package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search EODHD for a security" }
func (*searchCmd) Usage() string {
	return `hm search <term>

  Searches eodhd.com for securities by name, ticker or ISIN, and displays their symbols.
  Useful to fill the yf_ticker column of the reference table by hand.
`
}

func (*searchCmd) SetFlags(f *flag.FlagSet) {}

func (*searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	term := strings.Join(f.Args(), " ")
	if term == "" {
		fmt.Fprintln(os.Stderr, "Error: a search term is required")
		return subcommands.ExitUsageError
	}
	log := newLogger()
	defer log.Sync()

	client, err := newEODHD(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	results, err := client.Search(ctx, term)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(results) == 0 {
		fmt.Printf("No results for %q.\n", term)
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	b.WriteString("| Symbol | Name | ISIN | Type | Previous Close |\n")
	b.WriteString("|:---|:---|:---|:---|---:|\n")
	for _, r := range results {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %.2f %s (%s) |\n", r.Symbol(), r.Name, r.ISIN, r.Type, r.PreviousClose, r.Currency, r.PreviousCloseDate)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
