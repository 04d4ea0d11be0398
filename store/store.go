// Package store persists a heatmap.Market in a folder, in a way that is still human readable, and
// yet git friendly.
//
// The folder contains a definition file, "definition.json", mapping each ticker to its provider
// symbol and flagging the benchmark and the sector sub-indices, and one "<year>.jsonl" file per year with one line per date:
//
//	{ "on":"2025-01-02", "PKN":59.07, "PZU":57.5, "WIG":84012.2}
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/date"
)

const attrOn = "on"
const priceFilesGlob = "[0-9][0-9][0-9][0-9].jsonl"
const definitionFilename = "definition.json"

// The overall strategy to Load and Persist a market is as follow:
//   Load: read all files with a glob into a list of lines (with metadata like filename and line number)
//         Then parse each json line and add append it to the market.
//
//   Persist: create a list of tickers in alphabetical order
//            Then scan all days for ticker's value, and append them to the list of structured lines, including the filename.
//            Then generate each file
//            Then using the same glob create the list of all existing files on the disk, and compute which one is to be deleted.

// jsecurity is a security definition as persisted in the definition file.
type jsecurity struct {
	Symbol    string `json:"symbol,omitempty"`
	Benchmark bool   `json:"benchmark,omitempty"`
	Index     bool   `json:"index,omitempty"`
}

// loadDefinition parses a single file containing the securities definition.
// filename is for error message only.
func loadDefinition(m *heatmap.Market, filename string, r io.Reader) error {
	// The top struct of the file format is a map of ticker to jsecurity objects.
	jsecurities := make(map[string]*jsecurity)
	if err := json.NewDecoder(r).Decode(&jsecurities); err != nil {
		return fmt.Errorf("format error %q: %w", filename, err)
	}

	// map iteration order is random, securities are declared in ticker order.
	tickers := make([]string, 0, len(jsecurities))
	for ticker := range jsecurities {
		tickers = append(tickers, ticker)
	}
	slices.Sort(tickers)

	for _, ticker := range tickers {
		js := jsecurities[ticker]
		if js.Benchmark && js.Index {
			return fmt.Errorf("format error %q: %q cannot be both the benchmark and a sector index", filename, ticker)
		}
		if js.Index {
			m.AddIndex(ticker, js.Symbol)
			continue
		}
		if js.Benchmark {
			if m.Benchmark() != nil {
				return fmt.Errorf("format error %q: %q and %q are both benchmarks", filename, m.Benchmark().Ticker(), ticker)
			}
			m.SetBenchmark(ticker, js.Symbol)
			continue
		}
		m.Add(ticker, js.Symbol)
	}
	return nil
}

// line structures a line from a collection of files as the persistence layer represent them.
type line struct {
	filename string
	i        int
	txt      string
}

// readLines read all lines from a set of files and return them in list of structured lines.
func readLines(filenames ...string) (list []line, err error) {
	list = make([]line, 0, 1000)
	for _, filename := range filenames {
		r, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
		}
		i := 0
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // a line holds a whole index.
		for scanner.Scan() {
			i++
			list = append(list, line{filename, i, scanner.Text()})
		}
		err = scanner.Err()
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("cannot read %q: %w", filename, err)
		}
	}
	return list, nil
}

// security returns the security of ticker, benchmark and sector sub-indices included.
func security(m *heatmap.Market, ticker string) *heatmap.Security {
	if b := m.Benchmark(); b != nil && b.Ticker() == ticker {
		return b
	}
	if idx := m.Index(ticker); idx != nil {
		return idx
	}
	return m.Get(ticker)
}

// loadLine loads a single line from the persisted files.
func loadLine(m *heatmap.Market, l line) error {
	// Start simply ignoring empty lines.
	if strings.TrimSpace(l.txt) == "" {
		return nil
	}

	jobj := make(map[string]any)
	if err := json.Unmarshal([]byte(l.txt), &jobj); err != nil {
		return fmt.Errorf("parse error %s:%v: not a correct json: %w", l.filename, l.i, err)
	}

	// Read the timestamp
	jvalue, ok := jobj[attrOn]
	if !ok {
		return fmt.Errorf("parse error %s:%v: missing the property %q with a date", l.filename, l.i, attrOn)
	}
	jstring, ok := jvalue.(string)
	if !ok {
		return fmt.Errorf("parse error %s:%v: property %q must be of type 'string'", l.filename, l.i, attrOn)
	}
	on, err := date.Parse(jstring)
	if err != nil {
		return fmt.Errorf("parse error %s:%v: property %q must be a valid date: %w", l.filename, l.i, attrOn, err)
	}

	// Read all other attributes as (ticker,price) pairs.
	for ticker, price := range jobj {
		if ticker == attrOn { // reserved word for timestamp
			continue
		}
		sec := security(m, ticker)
		if sec == nil {
			return fmt.Errorf("parse error %s:%v: property %q must be an existing ticker", l.filename, l.i, ticker)
		}
		p, ok := price.(float64)
		if !ok {
			return fmt.Errorf("parse error %s:%v: property %q must be of type 'number'", l.filename, l.i, ticker)
		}
		sec.Prices().Append(on, p)
	}
	return nil
}

// Load a market from its folder.
func Load(folder string) (*heatmap.Market, error) {
	m := heatmap.NewMarket()

	definitionFile := filepath.Join(folder, definitionFilename)
	f, err := os.Open(definitionFile)
	if err != nil {
		return nil, fmt.Errorf("load error: cannot open definition file %q: %w", definitionFile, err)
	}
	defer f.Close()

	if err := loadDefinition(m, definitionFile, f); err != nil {
		return nil, fmt.Errorf("load error: cannot read definition file: %w", err)
	}

	// Use glob to find all the files that are part of the store.
	filenames, err := filepath.Glob(filepath.Join(folder, priceFilesGlob))
	if err != nil {
		return nil, fmt.Errorf("load error: cannot scan folder %q for price files: %w", folder, err)
	}

	lines, err := readLines(filenames...)
	if err != nil {
		return nil, fmt.Errorf("load error: %w", err)
	}
	for _, line := range lines {
		if err := loadLine(m, line); err != nil {
			return nil, fmt.Errorf("load error: %w", err)
		}
	}
	return m, nil
}

// Persist section.

// all returns all securities, benchmark and sector sub-indices included, in ticker order.
func all(m *heatmap.Market) []*heatmap.Security {
	secs := slices.Clone(m.Securities())
	secs = append(secs, m.Indices()...)
	if b := m.Benchmark(); b != nil {
		secs = append(secs, b)
	}
	slices.SortFunc(secs, func(a, b *heatmap.Security) int { return strings.Compare(a.Ticker(), b.Ticker()) })
	return secs
}

func persistDefinition(w io.Writer, m *heatmap.Market, secs []*heatmap.Security) error {
	// We cannot use Go standard serialisation as the definition file wouldn't be stable. (it contains a map)
	if _, err := fmt.Fprint(w, "{\n    "); err != nil {
		return fmt.Errorf("persist error: cannot write to file: %w", err)
	}

	for i, sec := range secs {
		js := jsecurity{Symbol: sec.Symbol(), Benchmark: sec == m.Benchmark(), Index: m.Index(sec.Ticker()) == sec}
		ticker, err := json.Marshal(sec.Ticker())
		if err != nil {
			return fmt.Errorf("persist error: invalid ticker %q: %w", sec.Ticker(), err)
		}
		data, err := json.Marshal(js)
		if err != nil {
			return fmt.Errorf("persist error: cannot persist %q definition %w", sec.Ticker(), err)
		}
		if _, err := fmt.Fprintf(w, "%s:%s", ticker, data); err != nil {
			return fmt.Errorf("persist error: cannot write to file: %w", err)
		}
		if i != len(secs)-1 { // not last
			if _, err := fmt.Fprint(w, ",\n    "); err != nil {
				return fmt.Errorf("persist error: cannot write to file: %w", err)
			}
		}
	}

	if _, err := fmt.Fprintln(w, "\n}"); err != nil {
		return fmt.Errorf("persist error: cannot write to file: %w", err)
	}
	return nil
}

// persistLine persist a single line in a price jsonl file.
// Returns bare io errors.
func persistLine(w io.Writer, day date.Date, tickers []string, values []float64) error {
	// json encoder cannot be used as it would require a map, and map order is not guaranteed.
	// Instead fine grained formatting is done.
	if _, err := fmt.Fprintf(w, "{ %q:%q", attrOn, day.String()); err != nil {
		return err
	}
	for i, ticker := range tickers {
		price := values[i]
		// json does not support NaN.
		if math.IsNaN(price) || math.IsInf(price, 0) {
			continue
		}
		if _, err := fmt.Fprintf(w, ", %q:%v", ticker, price); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// Persist writes the market into folder, and deletes the yearly files that are no longer needed.
// A nil logger discards all logs.
func Persist(m *heatmap.Market, folder string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	secs := all(m)

	definitionFile := filepath.Join(folder, definitionFilename)
	f, err := os.Create(definitionFile)
	if err != nil {
		return fmt.Errorf("persist error: cannot create file %q: %w", definitionFile, err)
	}
	defer f.Close()
	log.Debug("create-definition-file", zap.String("name", definitionFile))
	if err := persistDefinition(f, m, secs); err != nil {
		return err
	}

	histories := make([]*date.History[float64], 0, len(secs))
	for _, sec := range secs {
		histories = append(histories, sec.Prices())
	}

	// Persist all days into their yearly files.
	var currentFile *os.File
	var currentFilename string
	createdFiles := make(map[string]struct{})
	for day := range date.Iterate(histories...) {
		filename := filepath.Join(folder, fmt.Sprintf("%v.jsonl", day.Year()))
		if currentFilename != filename {
			currentFilename = filename
			currentFile, err = os.Create(currentFilename)
			if err != nil {
				return fmt.Errorf("persist error: cannot create file %q: %w", currentFilename, err)
			}
			createdFiles[currentFilename] = struct{}{}
			defer currentFile.Close()
			log.Debug("create-price-file", zap.String("name", currentFilename))
		}

		var tickers []string
		var prices []float64
		for _, sec := range secs {
			if val, ok := sec.Prices().Get(day); ok {
				tickers = append(tickers, sec.Ticker())
				prices = append(prices, val)
			}
		}
		if err := persistLine(currentFile, day, tickers, prices); err != nil {
			return fmt.Errorf("persist error: write error on file %q: %w", currentFilename, err)
		}
	}

	// Delete extraneous files.
	filenames, err := filepath.Glob(filepath.Join(folder, priceFilesGlob))
	if err != nil {
		return fmt.Errorf("persist error: cannot scan folder %q for price files to be deleted: %w", folder, err)
	}
	for _, filename := range filenames {
		if _, ok := createdFiles[filename]; ok {
			continue
		}
		if err := os.Remove(filename); err != nil {
			return fmt.Errorf("persist error: cannot delete %q file: %w", filename, err)
		}
		log.Debug("delete-price-file", zap.String("name", filename))
	}
	return nil
}
