package heatmap

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/etnz/heatmap/date"
)

func TestNewTreemap(t *testing.T) {
	e := NewEngine(Config{}, nil)
	rep, err := e.Compute(wigSeries(t), wigInstruments, OneWeek, date.Date{})
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}
	tm := NewTreemap("WIG", rep)

	if tm.Title != "INDEX WIG" {
		t.Errorf("Title = %q, want %q", tm.Title, "INDEX WIG")
	}
	// positions(10) ends on Friday 2025-01-17, ISO week 3.
	if want := "1W performance ⁕ 3W2025 ⁕ 2025/01/17"; tm.Subtitle != want {
		t.Errorf("Subtitle = %q, want %q", tm.Subtitle, want)
	}
	if tm.ColorMin != -0.1 || tm.ColorMax != 0.1 {
		t.Errorf("color bounds = [%v, %v], want [-0.1, 0.1]", tm.ColorMin, tm.ColorMax)
	}

	// root, 2 sectors, 3 instruments: XYZ has no metadata.
	if len(tm.Nodes) != 6 {
		t.Fatalf("treemap has %d nodes, want 6: %+v", len(tm.Nodes), tm.Nodes)
	}
	root := tm.Nodes[0]
	if root.Parent != "" || root.Value != 1050+980+1050 || !approx(root.Return, 0.01) {
		t.Errorf("root = %+v", root)
	}
	sum := map[string]float64{}
	for _, n := range tm.Nodes[1:] {
		if n.Parent != "WIG" {
			sum[n.Parent] += n.Value
		}
	}
	for _, n := range tm.Nodes {
		if v, ok := sum[n.ID]; ok && !approx(v, n.Value) {
			t.Errorf("node %s value = %v, want the sum of its children %v", n.ID, n.Value, v)
		}
	}
	if n := tm.Nodes[2]; n.ID != "WIG/Energy/PKN" || n.Company != "Orlen" {
		t.Errorf("Nodes[2] = %+v, want PKN under Energy", n)
	}

	var buf bytes.Buffer
	if err := tm.Encode(&buf); err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}
	var decoded Treemap
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Encode() produced invalid JSON: %v", err)
	}
	if len(decoded.Nodes) != len(tm.Nodes) {
		t.Errorf("decoded %d nodes, want %d", len(decoded.Nodes), len(tm.Nodes))
	}
}

func TestIndustryLabel(t *testing.T) {
	if got := IndustryLabel("Software - Application"); got != "Application" {
		t.Errorf("IndustryLabel(Software - Application) = %q", got)
	}
	if got := IndustryLabel("Banks - Regional"); got != "Banks - Regional" {
		t.Errorf("IndustryLabel(Banks - Regional) = %q", got)
	}
}
