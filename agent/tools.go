package agent

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"google.golang.org/genai"
)

// Reports serves the markdown reports of the computed periods to an expert.
type Reports struct {
	Index   string
	reports map[string]string // by period tag
	tags    []string
}

// NewReports returns an empty set of reports about index.
func NewReports(index string) *Reports {
	return &Reports{Index: index, reports: make(map[string]string)}
}

// Add registers the markdown report of a period tag.
func (r *Reports) Add(tag, markdown string) {
	if _, exists := r.reports[tag]; !exists {
		r.tags = append(r.tags, tag)
	}
	r.reports[tag] = markdown
}

// Tags returns the period tags with a report, in the order they were added.
func (r *Reports) Tags() []string { return slices.Clone(r.tags) }

func (r *Reports) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name: "period_report",
		Description: fmt.Sprintf(`Returns the performance report of the %s index over a period: benchmark return,
		sectors ranked by market-cap weighted return, official sector indices ranked by return, every instrument
		ranked by return, and data quality issues.`, r.Index),
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"period": {
					Type:        genai.TypeString,
					Description: "The period tag: 1D, 1W, MTD, QTD, YTD or 1Y.",
					Enum:        r.Tags(),
				},
			},
			Required: []string{"period"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown report with tables of sectors and movers.",
		},
	}
}

func (r *Reports) Call(_ context.Context, id string, args map[string]any) *genai.FunctionResponse {
	const name = "period_report"
	period, ok := args["period"].(string)
	if !ok {
		return errorResponse(id, name, fmt.Errorf("argument 'period' is not a string as expected but %T", args["period"]))
	}
	report, ok := r.reports[strings.ToUpper(strings.TrimSpace(period))]
	if !ok {
		return errorResponse(id, name, fmt.Errorf("no report for period %q, available periods are %s", period, strings.Join(r.tags, ", ")))
	}
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": report}}
}
