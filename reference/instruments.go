package reference

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/etnz/heatmap"
)

// instrumentsHeader is the header of the instruments snapshot CSV file.
var instrumentsHeader = []string{"ticker", "company", "isin", "sector", "industry", "shares"}

// WriteInstruments writes an instruments snapshot in CSV format. Unknown shares are empty.
func WriteInstruments(w io.Writer, instruments []heatmap.Instrument) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(instrumentsHeader); err != nil {
		return err
	}
	for _, ins := range instruments {
		shares := ""
		if ins.HasShares() {
			shares = decimal.NewFromFloat(ins.Shares).String()
		}
		if err := cw.Write([]string{ins.Ticker, ins.Company, ins.ISIN, ins.Sector, ins.Industry, shares}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadInstruments reads an instruments snapshot in CSV format.
func ReadInstruments(r io.Reader) ([]heatmap.Instrument, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot read instruments: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if !slices.Equal(records[0], instrumentsHeader) {
		return nil, fmt.Errorf("invalid instruments header %v, want %v", records[0], instrumentsHeader)
	}
	instruments := make([]heatmap.Instrument, 0, len(records)-1)
	for i, rec := range records[1:] {
		shares := math.NaN()
		if s := strings.TrimSpace(rec[5]); s != "" {
			d, err := decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("instruments line %d: invalid shares %q: %w", i+2, s, err)
			}
			shares = d.InexactFloat64()
		}
		instruments = append(instruments, heatmap.Instrument{
			Ticker:   strings.TrimSpace(rec[0]),
			Company:  strings.TrimSpace(rec[1]),
			ISIN:     strings.TrimSpace(rec[2]),
			Sector:   strings.TrimSpace(rec[3]),
			Industry: strings.TrimSpace(rec[4]),
			Shares:   shares,
		})
	}
	return instruments, nil
}

// LoadInstruments reads the instruments snapshot stored in file.
func LoadInstruments(file string) ([]heatmap.Instrument, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadInstruments(f)
}

// SaveInstruments writes the instruments snapshot into file.
func SaveInstruments(file string, instruments []heatmap.Instrument) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := WriteInstruments(f, instruments); err != nil {
		f.Close()
		return fmt.Errorf("cannot write instruments %q: %w", file, err)
	}
	return f.Close()
}
