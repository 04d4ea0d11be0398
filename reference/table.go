// Package reference maintains the static data of the index constituents: company names, market
// symbols, sectors, industries and shares outstanding.
//
// The reference table is a CSV file edited by hand or completed by a Reconciler. The live list of
// constituents, with their shares outstanding, is published by the exchange as an HTML table or
// an XLSX sheet.
package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// tableHeader is the header of the reference table CSV file.
var tableHeader = []string{"company", "ISIN", "yf_ticker", "sector", "industry"}

// Row is one instrument of the reference table.
type Row struct {
	Company  string
	ISIN     string
	Symbol   string // market-data provider symbol, e.g. "PKN.WAR"
	Sector   string
	Industry string
}

func (r Row) complete() bool { return r.Symbol != "" && r.Sector != "" && r.Industry != "" }

// Table is the reference table, indexed by ISIN.
type Table struct {
	rows  []Row
	index map[string]int
	dirty bool
}

// NewTable returns an empty table.
func NewTable() *Table { return &Table{index: make(map[string]int)} }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns all rows in file order.
func (t *Table) Rows() []Row { return t.rows }

// Get returns the row of isin.
func (t *Table) Get(isin string) (Row, bool) {
	i, ok := t.index[isin]
	if !ok {
		return Row{}, false
	}
	return t.rows[i], true
}

// Set adds or replaces the row with the same ISIN. It marks the table as dirty if it changed.
func (t *Table) Set(r Row) {
	if i, ok := t.index[r.ISIN]; ok {
		if t.rows[i] != r {
			t.rows[i], t.dirty = r, true
		}
		return
	}
	t.index[r.ISIN] = len(t.rows)
	t.rows = append(t.rows, r)
	t.dirty = true
}

// Dirty reports whether the table changed since it was read.
func (t *Table) Dirty() bool { return t.dirty }

// ReadTable reads a reference table in CSV format.
func ReadTable(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read reference table: %w", err)
	}
	t := NewTable()
	if len(records) == 0 {
		return t, nil
	}
	if !slices.Equal(records[0], tableHeader) {
		return nil, fmt.Errorf("invalid reference table header %v, want %v", records[0], tableHeader)
	}
	for i, rec := range records[1:] {
		row := Row{
			Company:  strings.TrimSpace(rec[0]),
			ISIN:     strings.TrimSpace(rec[1]),
			Symbol:   strings.TrimSpace(rec[2]),
			Sector:   strings.TrimSpace(rec[3]),
			Industry: strings.TrimSpace(rec[4]),
		}
		if row.ISIN == "" {
			return nil, fmt.Errorf("reference table line %d: missing ISIN", i+2)
		}
		if _, dup := t.index[row.ISIN]; dup {
			return nil, fmt.Errorf("reference table line %d: duplicate ISIN %q", i+2, row.ISIN)
		}
		t.Set(row)
	}
	t.dirty = false
	return t, nil
}

// Write writes the table in CSV format, in row order.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tableHeader); err != nil {
		return err
	}
	for _, r := range t.rows {
		if err := cw.Write([]string{r.Company, r.ISIN, r.Symbol, r.Sector, r.Industry}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadTable reads the table stored in file. A missing file is an empty table.
func LoadTable(file string) (*Table, error) {
	f, err := os.Open(file)
	if errors.Is(err, os.ErrNotExist) {
		return NewTable(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f)
}

// Save writes the table into file, and marks it as clean.
func (t *Table) Save(file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("cannot write reference table %q: %w", file, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	t.dirty = false
	return nil
}
