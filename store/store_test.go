package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/heatmap"
	"github.com/etnz/heatmap/date"
)

func TestPersistLoad(t *testing.T) {
	folder := t.TempDir()

	m := heatmap.NewMarket()
	m.Add("PZU", "PZU.WAR").Prices().Append(date.New(2024, 12, 31), 44.5).Append(date.New(2025, 1, 2), 45)
	m.Add("PKN", "PKN.WAR").Prices().Append(date.New(2025, 1, 2), 59.07)
	m.SetBenchmark("WIG", "WIG.INDX").Prices().Append(date.New(2025, 1, 2), 84012.2)

	// a stale file must be removed.
	stale := filepath.Join(folder, "2019.jsonl")
	if err := os.WriteFile(stale, []byte(`{ "on":"2019-01-02", "PKN":1}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Persist(m, folder, nil); err != nil {
		t.Fatalf("Persist() unexpected error: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("Persist() kept the stale file %s", stale)
	}

	content, err := os.ReadFile(filepath.Join(folder, "2025.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	want := `{ "on":"2025-01-02", "PKN":59.07, "PZU":45, "WIG":84012.2}` + "\n"
	if string(content) != want {
		t.Errorf("2025.jsonl = %q, want %q", content, want)
	}
	def, err := os.ReadFile(filepath.Join(folder, definitionFilename))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(def), `"WIG":{"symbol":"WIG.INDX","benchmark":true}`) {
		t.Errorf("definition.json = %s, want a WIG benchmark", def)
	}

	loaded, err := Load(folder)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got := loaded.Benchmark(); got == nil || got.Ticker() != "WIG" || got.Symbol() != "WIG.INDX" {
		t.Fatalf("Load() benchmark = %v, want WIG", got)
	}
	if len(loaded.Securities()) != 2 || loaded.Securities()[0].Ticker() != "PKN" {
		t.Errorf("Load() securities = %v, want PKN then PZU", loaded.Securities())
	}
	pzu := loaded.Get("PZU")
	if pzu == nil || pzu.Prices().Len() != 2 {
		t.Fatalf("Load() PZU = %v, want 2 prices", pzu)
	}
	if v, ok := pzu.Prices().Get(date.New(2024, 12, 31)); !ok || v != 44.5 {
		t.Errorf("PZU on 2024-12-31 = %v, %v, want 44.5", v, ok)
	}
}

func TestPersistLoad_Indices(t *testing.T) {
	folder := t.TempDir()

	m := heatmap.NewMarket()
	m.Add("PKO", "PKO.WAR").Prices().Append(date.New(2025, 1, 2), 60.5)
	m.SetBenchmark("WIG", "WIG.INDX").Prices().Append(date.New(2025, 1, 2), 84012.2)
	m.AddIndex("WIG-BANKI", "WIG-BANKI.WAR").Prices().Append(date.New(2025, 1, 2), 8012.5)

	if err := Persist(m, folder, nil); err != nil {
		t.Fatalf("Persist() unexpected error: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(folder, "2025.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	want := `{ "on":"2025-01-02", "PKO":60.5, "WIG":84012.2, "WIG-BANKI":8012.5}` + "\n"
	if string(content) != want {
		t.Errorf("2025.jsonl = %q, want %q", content, want)
	}
	def, err := os.ReadFile(filepath.Join(folder, definitionFilename))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(def), `"WIG-BANKI":{"symbol":"WIG-BANKI.WAR","index":true}`) {
		t.Errorf("definition.json = %s, want a WIG-BANKI sector index", def)
	}

	loaded, err := Load(folder)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(loaded.Securities()) != 1 || len(loaded.Indices()) != 1 {
		t.Fatalf("Load() = %d securities and %d indices, want 1 and 1", len(loaded.Securities()), len(loaded.Indices()))
	}
	idx := loaded.Index("WIG-BANKI")
	if idx == nil || idx.Symbol() != "WIG-BANKI.WAR" {
		t.Fatalf("Load() WIG-BANKI = %v, want the sector index", idx)
	}
	if v, ok := idx.Prices().Get(date.New(2025, 1, 2)); !ok || v != 8012.5 {
		t.Errorf("WIG-BANKI on 2025-01-02 = %v, %v, want 8012.5", v, ok)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		def   string
		lines string
	}{
		{"unknown ticker", `{"PKN":{}}`, `{ "on":"2025-01-02", "XXX":1}`},
		{"missing date", `{"PKN":{}}`, `{ "PKN":1}`},
		{"bad price", `{"PKN":{}}`, `{ "on":"2025-01-02", "PKN":"1"}`},
		{"bad json", `{"PKN":{}}`, `{ "on":`},
		{"two benchmarks", `{"WIG":{"benchmark":true},"WIG20":{"benchmark":true}}`, ``},
		{"benchmark and index", `{"WIG":{"benchmark":true,"index":true}}`, ``},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			folder := t.TempDir()
			if err := os.WriteFile(filepath.Join(folder, definitionFilename), []byte(tc.def), 0o644); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(folder, "2025.jsonl"), []byte(tc.lines+"\n"), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(folder); err == nil {
				t.Errorf("Load() expected an error")
			}
		})
	}
	if _, err := Load(t.TempDir()); err == nil {
		t.Errorf("Load() expected an error for a folder without definition")
	}
}
