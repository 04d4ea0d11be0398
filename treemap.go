package heatmap

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Colors of the diverging treemap scale: losses, flat, gains.
var TreemapColors = []string{"#CC0000", "#292929", "#00CC00"}

// Treemap describes a heatmap chart of a Report: tiles sized by market cap and colored by return,
// nested as index → sector → ticker.
//
// It is a plain description meant to be drawn by an external chart renderer. Nodes follow the
// id/parent convention, parents carry the sum of their children values.
type Treemap struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Path     []string `json:"path"`
	Value    string   `json:"value"`
	Color    string   `json:"color"`
	Scale    []string `json:"scale"`
	// ColorMin and ColorMax bound the color scale symmetrically around zero.
	ColorMin float64       `json:"color_min"`
	ColorMax float64       `json:"color_max"`
	Nodes    []TreemapNode `json:"nodes"`
}

// TreemapNode is one tile of a Treemap.
type TreemapNode struct {
	ID       string  `json:"id"`
	Parent   string  `json:"parent"`
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Return   float64 `json:"return"`
	Company  string  `json:"company,omitempty"`
	Industry string  `json:"industry,omitempty"`
	Price    float64 `json:"price,omitempty"`
}

// NewTreemap describes the treemap of rep for an index name.
//
// Only aggregated instruments are drawn, grouped under their ranked sectors. The root tile has the
// benchmark return when known, the cap-weighted return of all sectors otherwise.
func NewTreemap(index string, rep *Report) *Treemap {
	bound := rep.Tag.Bound()
	subtitle := fmt.Sprintf("%s performance", rep.Tag)
	if bucket := rep.Tag.Bucket(rep.AsOf); bucket != "" {
		subtitle += " ⁕ " + bucket
	}
	subtitle += " ⁕ " + rep.To.Format("2006/01/02")

	tm := &Treemap{
		Title:    "INDEX " + strings.ToUpper(index),
		Subtitle: subtitle,
		Path:     []string{"index", "sector", "ticker"},
		Value:    "market_cap",
		Color:    "return",
		Scale:    TreemapColors,
		ColorMin: -bound,
		ColorMax: bound,
	}

	root := TreemapNode{ID: index, Label: index, Value: rep.MarketCap()}
	if rep.Benchmark.OK {
		root.Return = rep.Benchmark.Value
	} else if root.Value != 0 {
		contribution := 0.0
		for _, s := range rep.Sectors {
			contribution += s.Return * s.MarketCap
		}
		root.Return = contribution / root.Value
	}
	tm.Nodes = append(tm.Nodes, root)

	for _, s := range rep.Sectors {
		sectorID := index + "/" + s.Sector
		tm.Nodes = append(tm.Nodes, TreemapNode{ID: sectorID, Parent: index, Label: s.Sector, Value: s.MarketCap, Return: s.Return})
		for _, r := range rep.Records {
			if !r.Eligible || r.Sector != s.Sector {
				continue
			}
			tm.Nodes = append(tm.Nodes, TreemapNode{
				ID:       sectorID + "/" + r.Ticker,
				Parent:   sectorID,
				Label:    r.Ticker,
				Value:    r.MarketCap,
				Return:   r.Return,
				Company:  r.Company,
				Industry: IndustryLabel(r.Industry),
				Price:    r.Price,
			})
		}
	}
	return tm
}

// Encode writes the treemap as indented JSON.
func (tm *Treemap) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(tm)
}
