package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Agent is an interactive session about the period reports of an index.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	reports     *Reports
	Facilitator *Expert
	Experts     []*Expert
}

// New creates an Agent discussing reports, reading user questions from r and writing answers to w.
func New(w io.Writer, r io.Reader, model string, reports *Reports, log *zap.Logger, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		reports:     reports,
		Experts:     experts,
		Facilitator: newFacilitator(model, log, experts...),
	}
}

// Start opens the chat sessions of all experts.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

const prompt = "assist> "

// greeting lists the periods that can be discussed.
func (a *Agent) greeting() string {
	tags := a.reports.Tags()
	if len(tags) == 0 {
		return fmt.Sprintf("No %s period report is available, only general market questions can be answered.\nType 'bye' to exit.", a.reports.Index)
	}
	return fmt.Sprintf("%s index reports: %s.\nAsk about movers, sectors or sector indices. Type 'bye' to exit.", a.reports.Index, strings.Join(tags, ", "))
}

// question returns the next question: the first of prompts if any, echoed as if typed, or a line
// read from the user. ok is false at the end of the session.
func (a *Agent) question(prompts []string) (q string, rest []string, ok bool, err error) {
	fmt.Fprint(a.w, prompt)
	if len(prompts) > 0 {
		q = strings.TrimSpace(prompts[0])
		fmt.Fprintln(a.w, q)
		return q, prompts[1:], q != "bye", nil
	}
	line, err := a.r.ReadString('\n')
	if err == io.EOF {
		return "", nil, false, nil // Ctrl+D
	}
	if err != nil {
		return "", nil, false, err
	}
	q = strings.TrimSpace(line)
	return q, nil, q != "bye", nil
}

// Run starts the interactive session. Prompts are asked first.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, a.greeting())
	for {
		q, rest, ok, err := a.question(prompts)
		if err != nil || !ok {
			return err
		}
		prompts = rest
		if q == "" {
			continue
		}
		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: q})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, content.Parts[0].Text)
	}
}
