package agent

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// commentaryInstruction frames the one-shot commentary of a report.
const commentaryInstruction = `You are a financial columnist writing for retail investors.
You comment the performance of a stock index over a period, from the report you are given.
Only use the figures of the report. Never give investment advice. Write plain text, no markdown.`

// CommentaryPrompt builds the prompt asking for a commentary of a markdown report, in at most
// maxWords words.
func CommentaryPrompt(report string, maxWords int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a commentary of at most %d words about the following report.\n", maxWords)
	b.WriteString("Start with the benchmark, then the best and worst sectors, then the notable companies.\n\n")
	b.WriteString(strings.TrimSpace(report))
	b.WriteString("\n")
	return b.String()
}

// Comment asks model for a short commentary of a markdown report.
func Comment(ctx context.Context, client *genai.Client, model, report string, maxWords int) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(0.4)),
		SystemInstruction: instruction(commentaryInstruction),
	}
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(CommentaryPrompt(report, maxWords)), cfg)
	if err != nil {
		return "", fmt.Errorf("cannot generate commentary: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty commentary from %s", model)
	}
	return text, nil
}
