// Command hm publishes the performance of a stock index: heatmaps, summary posts and reports.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/cmd"
	"github.com/etnz/heatmap/docs"
)

func main() {
	// secrets (EODHD_API_KEY, GEMINI_API_KEY) can live in a .env file.
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	completion(commander.Name()).Complete(commander.Name())

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion.
func completion(name string) *complete.Command {
	var tags []string
	for _, t := range heatmap.Tags {
		tags = append(tags, string(t))
	}
	topics, _ := docs.GetAllTopics()
	period := predict.Set(tags)
	date := predict.Something

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"data":          predict.Dirs("*"),
			"reference":     predict.Files("*.csv"),
			"instruments":   predict.Files("*.csv"),
			"index":         predict.Something,
			"benchmark":     predict.Something,
			"suffix":        predict.Something,
			"tz":            predict.Something,
			"currency":      predict.Something,
			"top":           predict.Something,
			"hashtags":      predict.Something,
			"v":             predict.Nothing,
			"eodhd-api-key": predict.Something,
		},
		Sub: map[string]*complete.Command{
			"report":  {Flags: map[string]complete.Predictor{"p": period, "d": date, "full": predict.Nothing, "raw": predict.Nothing}},
			"treemap": {Flags: map[string]complete.Predictor{"p": period, "d": date, "o": predict.Files("*.json")}},
			"due":     {Flags: map[string]complete.Predictor{"d": date, "extra": predict.Nothing}},
			"run": {Flags: map[string]complete.Predictor{
				"d": date, "o": predict.Dirs("*"), "extra": predict.Nothing, "comment": predict.Nothing,
				"model": predict.Something, "words": predict.Something,
			}},
			"assist":    {Flags: map[string]complete.Predictor{"d": date, "model": predict.Something}},
			"fetch":     {Flags: map[string]complete.Predictor{"inception": date, "d": date}},
			"reconcile": {Flags: map[string]complete.Predictor{"url": predict.Something, "tries": predict.Something, "wait": predict.Something, "benchmark-symbol": predict.Something, "declare": predict.Nothing}},
			"search":    {Args: predict.Something},
			"topic":     {Args: predict.Set(append(topics, "*"))},
			"help":      {},
			"flags":     {},
			"commands":  {},
		},
	}
}
