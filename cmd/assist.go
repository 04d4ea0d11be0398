package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/agent"
	"github.com/etnz/heatmap/renderer"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	date  string
	model string
}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "start an interactive session with the AI assistant about the index"
}
func (*assistCmd) Usage() string {
	return `hm assist [-d <date>] [<question>]

  Computes every period on the date, and starts an interactive session with an assistant that
  reads the reports and searches the news to explain them. Requires GEMINI_API_KEY.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "As-of date (YYYY-MM-DD), today in the exchange timezone by default.")
	f.StringVar(&c.model, "model", agent.DefaultModel, "Gemini model.")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := asOf(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	log := newLogger()
	defer log.Sync()

	series, err := loadSeries(on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	instruments, err := loadInstruments()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	reps, err := newEngine(log).ComputeAll(ctx, series, instruments, heatmap.Tags, on)
	if err != nil {
		log.Warn("some periods are not available", zap.Error(err))
	}
	reports := agent.NewReports(*indexName)
	for _, rep := range reps {
		if rep != nil {
			reports.Add(string(rep.Tag), renderer.RenderReport(renderer.NewReport(*indexName, *benchmarkName, *currency, rep)))
		}
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}
	analyst := agent.NewAnalyst(c.model, reports, log)
	journalist := agent.NewJournalist(c.model, log)
	a := agent.New(os.Stdout, os.Stdin, c.model, reports, log, analyst, journalist)

	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}
	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
