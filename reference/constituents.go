package reference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Constituent is a member of the index as published by the exchange.
type Constituent struct {
	Company string
	ISIN    string
	Shares  float64 // shares in the index portfolio, NaN when unknown
}

// ErrNoConstituents is returned when a document holds no constituent.
var ErrNoConstituents = errors.New("no constituents found")

// ParseHTML reads the constituents from the first table of an HTML document. The first three
// columns are the company, the ISIN and the number of shares.
func ParseHTML(r io.Reader) ([]Constituent, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot parse constituents page: %w", err)
	}

	var rows [][]string
	doc.Find("table").First().Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) > 0 { // header rows only have th cells.
			rows = append(rows, cells)
		}
	})
	return constituents(rows)
}

// ParseXLSX reads the constituents from the first sheet of an XLSX workbook. The first three
// columns are the company, the ISIN and the number of shares. Rows without a valid ISIN, like
// headers, are skipped.
func ParseXLSX(r io.Reader) ([]Constituent, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot open constituents workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoConstituents
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheets[0], err)
	}
	return constituents(rows)
}

// constituents converts raw rows, skipping those whose second cell is not an ISIN.
func constituents(rows [][]string) ([]Constituent, error) {
	var list []Constituent
	for _, cells := range rows {
		if len(cells) < 2 {
			continue
		}
		isin := strings.ToUpper(strings.TrimSpace(cells[1]))
		if !looksLikeISIN(isin) {
			continue
		}
		c := Constituent{Company: strings.TrimSpace(cells[0]), ISIN: isin, Shares: math.NaN()}
		if len(cells) > 2 {
			shares, err := ParseShares(cells[2])
			if err != nil {
				return nil, fmt.Errorf("constituent %s: %w", isin, err)
			}
			c.Shares = shares
		}
		list = append(list, c)
	}
	if len(list) == 0 {
		return nil, ErrNoConstituents
	}
	return list, nil
}

func looksLikeISIN(s string) bool {
	if len(s) != 12 {
		return false
	}
	return s[0] >= 'A' && s[0] <= 'Z' && s[1] >= 'A' && s[1] <= 'Z'
}

// ParseShares parses a number of shares written with thousands separators ("1 160 942 378",
// "1,160,942,378"). An empty string is NaN.
func ParseShares(s string) (float64, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', ',', '\'':
			return -1
		}
		return r
	}, s)
	if s == "" || s == "-" {
		return math.NaN(), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return math.NaN(), fmt.Errorf("invalid number of shares %q: %w", s, err)
	}
	if d.IsNegative() {
		return math.NaN(), fmt.Errorf("invalid number of shares %q: negative", s)
	}
	return d.InexactFloat64(), nil
}

// FetchConstituents downloads and parses the constituents published at addr, trying up to
// 'tries' times. The document is parsed as XLSX when the address or the content type says so, as
// HTML otherwise.
func FetchConstituents(ctx context.Context, client *http.Client, addr string, tries int, wait time.Duration, log *zap.Logger) ([]Constituent, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tries = max(tries, 1)
	var err error
	for try := 1; try <= tries; try++ {
		var list []Constituent
		list, err = fetchConstituents(ctx, client, addr)
		if err == nil {
			return list, nil
		}
		log.Warn("cannot download constituents", zap.String("url", addr), zap.Int("try", try), zap.Error(err))
		if try == tries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("downloading constituents failed %d times: %w", tries, err)
}

func fetchConstituents(ctx context.Context, client *http.Client, addr string) ([]Constituent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v: %v", addr, resp.Status)
	}
	// read it all: an incomplete read is a failed attempt.
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(req.URL.Path), ".xlsx") || strings.Contains(resp.Header.Get("Content-Type"), "spreadsheetml") {
		return ParseXLSX(&buf)
	}
	return ParseHTML(&buf)
}
