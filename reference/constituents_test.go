package reference

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/xuri/excelize/v2"
)

const constituentsPage = `<html><body>
<table>
  <thead><tr><th>Company</th><th>ISIN</th><th>Shares</th><th>Weight</th></tr></thead>
  <tbody>
    <tr><td> ORLEN </td><td>PLPKN0000018</td><td>1 160 942 378</td><td>14.2</td></tr>
    <tr><td>PZU</td><td>plpzu0000011</td><td>863,523,000</td><td>10.1</td></tr>
    <tr><td>NEWCO</td><td>PLNEW0000019</td><td>-</td><td>0.1</td></tr>
    <tr><td colspan="4">Total</td></tr>
  </tbody>
</table>
<table><tr><td>Other</td><td>PLOTH0000010</td><td>1</td></tr></table>
</body></html>`

var wantConstituents = []Constituent{
	{Company: "ORLEN", ISIN: "PLPKN0000018", Shares: 1160942378},
	{Company: "PZU", ISIN: "PLPZU0000011", Shares: 863523000},
	{Company: "NEWCO", ISIN: "PLNEW0000019", Shares: math.NaN()},
}

func TestParseHTML(t *testing.T) {
	got, err := ParseHTML(strings.NewReader(constituentsPage))
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	if diff := cmp.Diff(wantConstituents, got, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("ParseHTML() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHTML_Empty(t *testing.T) {
	_, err := ParseHTML(strings.NewReader(`<html><body><p>maintenance</p></body></html>`))
	if err != ErrNoConstituents {
		t.Errorf("ParseHTML() error = %v, want %v", err, ErrNoConstituents)
	}
}

// workbook builds an XLSX document with rows in its first sheet.
func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

var constituentsRows = [][]any{
	{"WIG20 portfolio"},
	{"Company", "ISIN", "Shares"},
	{"ORLEN", "PLPKN0000018", "1 160 942 378"},
	{"PZU", "PLPZU0000011", "863523000"},
	{"NEWCO", "PLNEW0000019", ""},
}

func TestParseXLSX(t *testing.T) {
	got, err := ParseXLSX(bytes.NewReader(workbook(t, constituentsRows)))
	if err != nil {
		t.Fatalf("ParseXLSX() error = %v", err)
	}
	if diff := cmp.Diff(wantConstituents, got, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("ParseXLSX() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseShares(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "1 160 942 378", want: 1160942378},
		{in: "1\u00a0160\u00a0942\u00a0378", want: 1160942378},
		{in: "1\u202f000", want: 1000},
		{in: "1,000,000", want: 1000000},
		{in: "1'000", want: 1000},
		{in: "0", want: 0},
		{in: "", want: math.NaN()},
		{in: " - ", want: math.NaN()},
		{in: "12a", wantErr: true},
		{in: "-5", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseShares(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseShares(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if !cmp.Equal(got, tt.want, cmpopts.EquateNaNs()) {
			t.Errorf("ParseShares(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFetchConstituents(t *testing.T) {
	xlsx := workbook(t, constituentsRows)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		switch r.URL.Path {
		case "/portfolio.html":
			if n == 1 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(constituentsPage))
		case "/export":
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			w.Write(xlsx)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	ctx := context.Background()

	got, err := FetchConstituents(ctx, srv.Client(), srv.URL+"/portfolio.html", 2, 0, nil)
	if err != nil {
		t.Fatalf("FetchConstituents(html) error = %v", err)
	}
	if diff := cmp.Diff(wantConstituents, got, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("FetchConstituents(html) mismatch (-want +got):\n%s", diff)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("FetchConstituents(html) sent %d requests, want 2", n)
	}

	got, err = FetchConstituents(ctx, srv.Client(), srv.URL+"/export", 1, 0, nil)
	if err != nil {
		t.Fatalf("FetchConstituents(xlsx) error = %v", err)
	}
	if diff := cmp.Diff(wantConstituents, got, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("FetchConstituents(xlsx) mismatch (-want +got):\n%s", diff)
	}

	if _, err := FetchConstituents(ctx, srv.Client(), srv.URL+"/missing", 2, 0, nil); err == nil {
		t.Error("FetchConstituents(missing) succeeded, want error")
	}
}
