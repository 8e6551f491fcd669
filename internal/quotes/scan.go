package quotes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"quotescraper/models"
)

// DefaultMarker is the section title repeated before the quotation table.
const DefaultMarker = "QUOTATIONS"

// ErrNoSink is returned by Scan when the scanner has nowhere to write.
var ErrNoSink = errors.New("scanner has no sink")

// Logger receives scan diagnostics. utils.Logger satisfies it.
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Sink persists extracted records in scan order.
type Sink interface {
	Write(rec models.StockRecord) error
}

// Report summarises one scan. Suspended lists the written codes whose
// numeric fields are all unavailable.
type Report struct {
	Written    []int
	Suspended  []int
	Failed     []int
	Unresolved []int
}

// Scanner walks the lines of a quotation page and extracts wanted stocks.
type Scanner struct {
	Marker string
	Sink   Sink
	Log    Logger
}

// SplitLines splits rendered page text on every line boundary: \n, \r,
// \r\n, \v, \f, the file, group and record separators, NEL, U+2028 and
// U+2029. A break at the very end does not add an empty last line.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// ScanStart returns the index of the first line after the second marker line.
// When the marker occurs fewer than twice it returns len(lines), so nothing
// is scanned.
func ScanStart(lines []string, marker string) int {
	seen := 0
	for i, line := range lines {
		if strings.TrimSpace(line) != marker {
			continue
		}
		seen++
		if seen == 2 {
			return i + 1
		}
	}
	return len(lines)
}

// Scan extracts every wanted stock found after the header and removes each
// resolved code from wanted, successful or not. It stops as soon as wanted is
// empty. Codes still in wanted at the end are reported as unresolved.
// Only a sink failure aborts the scan.
func (s *Scanner) Scan(lines []string, wanted *WantedSet) (Report, error) {
	if s.Sink == nil {
		return Report{}, ErrNoSink
	}
	log := s.Log
	if log == nil {
		log = nopLogger{}
	}
	marker := s.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	var report Report
	lines = lines[ScanStart(lines, marker):]
	for i, line := range lines {
		if wanted.Len() == 0 {
			break
		}
		if !IsWantedLine(line, wanted) {
			continue
		}

		var next string
		if i+1 < len(lines) {
			next = lines[i+1]
		}

		rec, err := Extract(line, next, log)
		var invalid *InvalidStockError
		switch {
		case errors.As(err, &invalid):
			wanted.Remove(invalid.Code)
			report.Failed = append(report.Failed, invalid.Code)
			log.Error("Stock code %d could not be retrieved. Exception: Invalid stock.", invalid.Code)
		case err != nil:
			return report, err
		default:
			if err := s.Sink.Write(rec); err != nil {
				return report, fmt.Errorf("failed to write stock %d: %w", rec.Code, err)
			}
			wanted.Remove(rec.Code)
			report.Written = append(report.Written, rec.Code)
			if rec.IsSuspended() {
				report.Suspended = append(report.Suspended, rec.Code)
			}
			log.Info("Stock code %d has been successfully written.", rec.Code)
		}
	}

	if wanted.Len() > 0 {
		report.Unresolved = wanted.Codes()
		log.Error("These stocks were not read: %s", joinCodes(report.Unresolved))
	}
	return report, nil
}

func joinCodes(codes []int) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ", ")
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
