// Package viewer serves the results of the last scrape over HTTP.
package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"quotescraper/internal/output"
	"quotescraper/internal/utils"
	"quotescraper/models"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Loader returns the records to serve.
type Loader func(ctx context.Context) ([]models.StockRecord, error)

// CSVLoader reads the CSV file at path on every call.
func CSVLoader(path string) Loader {
	return func(context.Context) ([]models.StockRecord, error) {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return output.ReadCSV(file)
	}
}

// SQLiteLoader serves the most recent run stored by w.
func SQLiteLoader(w *output.SQLiteWriter) Loader {
	return func(ctx context.Context) ([]models.StockRecord, error) {
		runID, err := w.LatestRun(ctx)
		if err != nil || runID == "" {
			return nil, err
		}
		return w.Records(ctx, runID)
	}
}

type server struct {
	load   Loader
	logger *utils.Logger
}

// NewRouter exposes:
//
//	GET /api/quotes         all records
//	GET /api/quotes/{code}  one record
//	GET /data/              the raw output file, when dataPath is set
func NewRouter(load Loader, dataPath string, logger *utils.Logger) http.Handler {
	s := &server{load: load, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/api/quotes", s.listQuotes).Methods(http.MethodGet)
	r.HandleFunc("/api/quotes/{code:[0-9]+}", s.getQuote).Methods(http.MethodGet)
	if dataPath != "" {
		name := filepath.Base(dataPath)
		r.HandleFunc("/data/"+name, func(w http.ResponseWriter, req *http.Request) {
			http.ServeFile(w, req, dataPath)
		}).Methods(http.MethodGet)
	}
	r.Handle("/", http.RedirectHandler("/api/quotes", http.StatusFound))

	var h http.Handler = r
	h = handlers.CompressHandler(h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLog{logger}))(h)
	return handlers.LoggingHandler(logger.Writer(), h)
}

func (s *server) listQuotes(w http.ResponseWriter, r *http.Request) {
	records, err := s.load(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if records == nil {
		records = []models.StockRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *server) getQuote(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(mux.Vars(r)["code"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid stock code"})
		return
	}

	records, err := s.load(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	for _, rec := range records {
		if rec.Code == code {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "stock " + strconv.Itoa(code) + " not found"})
}

func (s *server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("Failed to load quotes: %v", err)
	if os.IsNotExist(err) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no results yet"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load quotes"})
}

type recoveryLog struct {
	logger *utils.Logger
}

func (l recoveryLog) Println(args ...interface{}) {
	l.logger.Error("%s", fmt.Sprint(args...))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
