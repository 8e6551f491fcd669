package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"quotescraper/models"
)

// CSVWriter appends one row per stock and flushes after every row so
// partial results survive an aborted run.
type CSVWriter struct {
	closer io.Closer
	writer *csv.Writer
}

// CreateCSV truncates path and writes the header row.
func CreateCSV(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}

	w, err := NewCSVWriter(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	w.closer = file
	return w, nil
}

// NewCSVWriter writes the header row to w.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := &CSVWriter{writer: csv.NewWriter(w)}
	if err := cw.writeRow(models.Header); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}
	return cw, nil
}

func (w *CSVWriter) Write(rec models.StockRecord) error {
	if err := w.writeRow(rec.Row()); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func (w *CSVWriter) writeRow(row []string) error {
	if err := w.writer.Write(row); err != nil {
		return err
	}
	w.writer.Flush()
	return w.writer.Error()
}

func (w *CSVWriter) Close() error {
	w.writer.Flush()
	err := w.writer.Error()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// ReadCSV loads every record from a file produced by CSVWriter.
func ReadCSV(r io.Reader) ([]models.StockRecord, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]models.StockRecord, 0, len(rows)-1)
	for i, row := range rows[1:] { // skip header
		rec, err := models.ParseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
