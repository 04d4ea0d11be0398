package renderer

import (
	"github.com/etnz/heatmap"
)

// medals decorate the first sectors of a summary.
var medals = []string{"🥇", "🥈", "🥉"}

// Move is a named return.
type Move struct {
	Ticker string          `json:"ticker,omitempty"`
	Name   string          `json:"name"`
	Return heatmap.Percent `json:"return"`
}

// Summary is the data of the short publication post.
type Summary struct {
	Index     string   `json:"index"`
	Tag       string   `json:"tag"`
	Benchmark *Move    `json:"benchmark,omitempty"`
	Best      *Move    `json:"best,omitempty"`
	Worst     *Move    `json:"worst,omitempty"`
	Sectors   []Medal  `json:"sectors"`
	Hashtags  []string `json:"hashtags"`
}

// Medal is a ranked sector line of a Summary.
type Medal struct {
	Medal  string          `json:"medal"`
	Name   string          `json:"name"`
	Return heatmap.Percent `json:"return"`
}

// NewSummary builds the summary of rep for an index.
func NewSummary(index, benchmark string, rep *heatmap.Report, hashtags []string) *Summary {
	s := &Summary{Index: index, Tag: string(rep.Tag), Hashtags: hashtags}
	if rep.Benchmark.OK {
		s.Benchmark = &Move{Name: benchmark, Return: heatmap.Pct(rep.Benchmark.Value)}
	}
	if r, ok := rep.Best(); ok {
		s.Best = &Move{Ticker: r.Ticker, Name: r.Name(), Return: heatmap.Pct(r.Return)}
	}
	if r, ok := rep.Worst(); ok {
		s.Worst = &Move{Ticker: r.Ticker, Name: r.Name(), Return: heatmap.Pct(r.Return)}
	}
	for i, sec := range rep.TopSectors {
		medal := "▫️"
		if i < len(medals) {
			medal = medals[i]
		}
		s.Sectors = append(s.Sectors, Medal{Medal: medal, Name: sec.Sector, Return: heatmap.Pct(sec.Return)})
	}
	return s
}

// Report is the data of the full markdown report.
type Report struct {
	Index     string      `json:"index"`
	Tag       string      `json:"tag"`
	Period    string      `json:"period"`
	Bucket    string      `json:"bucket,omitempty"`
	From      string      `json:"from"`
	To        string      `json:"to"`
	Benchmark *Move       `json:"benchmark,omitempty"`
	MarketCap string      `json:"marketCap"`
	Sectors   []SectorRow `json:"sectors"`
	Indices   []IndexRow  `json:"indices"`
	Movers    []MoverRow  `json:"movers"`
	Issues    []string    `json:"issues"`
}

// IndexRow is a line of the sector indices table.
type IndexRow struct {
	Rank   int             `json:"rank"`
	Name   string          `json:"name"`
	Return heatmap.Percent `json:"return"`
}

// SectorRow is a line of the sector table.
type SectorRow struct {
	Rank      int             `json:"rank"`
	Name      string          `json:"name"`
	Return    heatmap.Percent `json:"return"`
	MarketCap string          `json:"marketCap"`
	Count     int             `json:"count"`
}

// MoverRow is a line of the movers table.
type MoverRow struct {
	Rank      int             `json:"rank"`
	Ticker    string          `json:"ticker"`
	Company   string          `json:"company"`
	Sector    string          `json:"sector"`
	Return    heatmap.Percent `json:"return"`
	MarketCap string          `json:"marketCap"`
}

// NewReport builds the full report of rep for an index. Market caps are displayed in currency.
func NewReport(index, benchmark, currency string, rep *heatmap.Report) *Report {
	r := &Report{
		Index:     index,
		Tag:       string(rep.Tag),
		Period:    rep.Tag.ToDateName(),
		Bucket:    rep.Tag.Bucket(rep.AsOf),
		From:      rep.From.String(),
		To:        rep.To.String(),
		MarketCap: heatmap.M(rep.MarketCap(), currency).Compact(),
	}
	if rep.Benchmark.OK {
		r.Benchmark = &Move{Name: benchmark, Return: heatmap.Pct(rep.Benchmark.Value)}
	}
	for i, s := range rep.Sectors {
		r.Sectors = append(r.Sectors, SectorRow{
			Rank:      i + 1,
			Name:      s.Sector,
			Return:    heatmap.Pct(s.Return),
			MarketCap: heatmap.M(s.MarketCap, currency).Compact(),
			Count:     s.Count,
		})
	}
	for i, idx := range rep.Indices {
		r.Indices = append(r.Indices, IndexRow{Rank: i + 1, Name: idx.Ticker, Return: heatmap.Pct(idx.Value)})
	}
	for i, m := range rep.Movers {
		row := MoverRow{Rank: i + 1, Ticker: m.Ticker, Company: m.Company, Sector: m.Sector, Return: heatmap.Pct(m.Return)}
		if m.Eligible {
			row.MarketCap = heatmap.M(m.MarketCap, currency).Compact()
		}
		r.Movers = append(r.Movers, row)
	}
	for _, is := range rep.Issues {
		r.Issues = append(r.Issues, is.String())
	}
	return r
}
