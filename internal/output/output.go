// Package output persists extracted stock records.
package output

import (
	"fmt"

	"quotescraper/models"
)

// Writer is a quotes.Sink that must be closed when the run ends.
type Writer interface {
	Write(rec models.StockRecord) error
	Close() error
}

// Open creates the writer for format ("csv" or "sqlite") at path.
func Open(format, path, runID string) (Writer, error) {
	switch format {
	case "csv", "":
		return CreateCSV(path)
	case "sqlite":
		return OpenSQLite(path, runID)
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
