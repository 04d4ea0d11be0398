package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/agent"
	"github.com/etnz/heatmap/date"
	"github.com/etnz/heatmap/renderer"
)

type runCmd struct {
	date      string
	outputDir string
	extra     bool
	comment   bool
	model     string
	words     int
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "publish the reports due on a date" }
func (*runCmd) Usage() string {
	return `hm run [-d <date>] [-o <dir>] [-extra=false] [-comment]

  Computes every period due on the date (see 'hm due') and writes into <dir>/<date>/:
    <tag>.md            the summary post,
    <tag>_report.md     the full report,
    <tag>_report.html   the full report in HTML,
    <tag>_treemap.json  the treemap description,
    <tag>_comment.txt   an AI commentary, with -comment (requires GEMINI_API_KEY),
  and a manifest.json listing them under a unique run id.

  A period that cannot be computed is reported and does not stop the others.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "As-of date (YYYY-MM-DD), today in the exchange timezone by default.")
	f.StringVar(&c.outputDir, "o", "reports", "Root directory of the published files.")
	f.BoolVar(&c.extra, "extra", true, "Draw the extra YTD.")
	f.BoolVar(&c.comment, "comment", false, "Ask Gemini for a commentary of each report.")
	f.StringVar(&c.model, "model", agent.DefaultModel, "Gemini model used for commentaries.")
	f.IntVar(&c.words, "words", 80, "Maximum number of words of a commentary.")
}

// manifest lists the files published by a run.
type manifest struct {
	Run    string    `json:"run"`
	AsOf   date.Date `json:"as_of"`
	Tags   []string  `json:"tags"`
	Files  []string  `json:"files"`
	Errors []string  `json:"errors,omitempty"`
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := asOf(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	run := manifest{Run: uuid.NewString(), AsOf: on}
	log := newLogger().With(zap.String("run", run.Run), zap.Stringer("as_of", on))
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
	cal, err := series.Calendar()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	tags := heatmap.Due(cal, on, draw(c.extra))
	if len(tags) == 0 {
		log.Info("nothing due")
		return subcommands.ExitSuccess
	}
	reports, err := newEngine(log).ComputeAll(ctx, series, instruments, tags, on)
	if err != nil {
		// failed tags have a nil report, the others are published.
		log.Error("some periods failed", zap.Error(err))
		run.Errors = append(run.Errors, err.Error())
	}

	var client *genai.Client
	if c.comment {
		if client, err = genai.NewClient(ctx, nil); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing Gemini's client: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	dir := filepath.Join(c.outputDir, on.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, rep := range reports {
		if rep == nil {
			continue
		}
		files, err := c.publish(ctx, dir, rep, client, log)
		run.Files = append(run.Files, files...)
		if err != nil {
			log.Error("cannot publish", zap.String("period", string(rep.Tag)), zap.Error(err))
			run.Errors = append(run.Errors, fmt.Sprintf("%s: %v", rep.Tag, err))
			continue
		}
		run.Tags = append(run.Tags, string(rep.Tag))
		log.Info("published", zap.String("period", string(rep.Tag)), zap.Int("files", len(files)))
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding manifest: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), append(data, '\n'), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing manifest: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(run.Errors) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// publish writes the files of one report into dir, and returns their names.
func (c *runCmd) publish(ctx context.Context, dir string, rep *heatmap.Report, client *genai.Client, log *zap.Logger) ([]string, error) {
	var files []string
	write := func(name string, data []byte) error {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return err
		}
		files = append(files, name)
		return nil
	}
	tag := string(rep.Tag)

	summary := renderer.RenderSummary(renderer.NewSummary(*indexName, *benchmarkName, rep, splitHashtags()))
	if err := write(tag+".md", []byte(summary)); err != nil {
		return files, err
	}
	report := renderer.RenderReport(renderer.NewReport(*indexName, *benchmarkName, *currency, rep))
	if err := write(tag+"_report.md", []byte(report)); err != nil {
		return files, err
	}
	html, err := renderer.HTML(report)
	if err != nil {
		return files, err
	}
	if err := write(tag+"_report.html", []byte(html)); err != nil {
		return files, err
	}
	var tm bytes.Buffer
	if err := heatmap.NewTreemap(*indexName, rep).Encode(&tm); err != nil {
		return files, err
	}
	if err := write(tag+"_treemap.json", tm.Bytes()); err != nil {
		return files, err
	}

	if client == nil {
		return files, nil
	}
	comment, err := agent.Comment(ctx, client, c.model, report, c.words)
	if err != nil {
		// the commentary is optional.
		log.Warn("no commentary", zap.String("period", tag), zap.Error(err))
		return files, nil
	}
	return files, write(tag+"_comment.txt", []byte(comment+"\n"))
}
