package viewer

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"quotescraper/internal/output"
	"quotescraper/internal/utils"
	"quotescraper/models"
)

var tencent = models.StockRecord{
	Code: 700, Name: "Tencent Holdings", Currency: "HKD",
	PrevClose: 300, Ask: 301.5, High: 305, SharesTraded: 1200000,
	Closing: 302, Bid: 301, Low: 298.5, Turnover: 5000000,
}

func writeCSV(t *testing.T, records ...models.StockRecord) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "output.csv")
	w, err := output.CreateCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestListQuotes(t *testing.T) {
	path := writeCSV(t, tencent, models.Suspended(9988, "Alibaba", "HKD"))
	h := NewRouter(CSVLoader(path), path, utils.NewLoggerTo(io.Discard, false))

	rec := get(t, h, "/api/quotes")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var got []models.StockRecord
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != tencent || !got[1].IsSuspended() {
		t.Fatalf("records = %+v", got)
	}
}

func TestGetQuote(t *testing.T) {
	path := writeCSV(t, tencent)
	h := NewRouter(CSVLoader(path), "", utils.NewLoggerTo(io.Discard, false))

	rec := get(t, h, "/api/quotes/700")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got models.StockRecord
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got != tencent {
		t.Fatalf("record = %+v", got)
	}

	if rec := get(t, h, "/api/quotes/5"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing code status = %d", rec.Code)
	}
	if rec := get(t, h, "/api/quotes/abc"); rec.Code != http.StatusNotFound {
		t.Fatalf("non-numeric code status = %d", rec.Code)
	}
}

func TestRawFile(t *testing.T) {
	path := writeCSV(t, tencent)
	h := NewRouter(CSVLoader(path), path, utils.NewLoggerTo(io.Discard, false))

	rec := get(t, h, "/data/output.csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	want, _ := os.ReadFile(path)
	if rec.Body.String() != string(want) {
		t.Fatalf("body = %q, want %q", rec.Body, want)
	}
}

func TestNoResultsYet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	h := NewRouter(CSVLoader(path), "", utils.NewLoggerTo(io.Discard, false))
	if rec := get(t, h, "/api/quotes"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSQLiteLoader(t *testing.T) {
	w, err := output.OpenSQLite(filepath.Join(t.TempDir(), "quotes.db"), "run-1")
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	h := NewRouter(SQLiteLoader(w), "", utils.NewLoggerTo(io.Discard, false))
	if rec := get(t, h, "/api/quotes"); rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Fatalf("empty db: status = %d, body = %q", rec.Code, rec.Body)
	}

	if err := w.Write(tencent); err != nil {
		t.Fatal(err)
	}
	rec := get(t, h, "/api/quotes/700")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
}
