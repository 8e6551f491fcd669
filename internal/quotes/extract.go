package quotes

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"quotescraper/models"
)

// currencies delimit the stock name from the numeric columns.
var currencies = map[string]bool{
	"HKD": true,
	"USD": true,
	"CNY": true,
	"GBP": true,
	"JPY": true,
}

// InvalidStockError reports a record that could not be rebuilt at all.
// Code identifies the stock so the scanner can resolve it as failed.
type InvalidStockError struct {
	Code   int
	Reason string
}

func (e *InvalidStockError) Error() string {
	return fmt.Sprintf("invalid stock %d: %s", e.Code, e.Reason)
}

// Extract rebuilds the record opened by line, reading the second half of the
// quote from next. Missing or unparsable numeric tokens become
// models.Unavailable; a line without a known currency yields an
// *InvalidStockError.
func Extract(line, next string, log Logger) (rec models.StockRecord, err error) {
	if log == nil {
		log = nopLogger{}
	}

	words := strings.Fields(line)
	code, ok := leadingCode(words)
	if !ok {
		return models.StockRecord{}, &InvalidStockError{Reason: fmt.Sprintf("line %q has no stock code", line)}
	}

	defer func() {
		if r := recover(); r != nil {
			rec = models.StockRecord{}
			err = &InvalidStockError{Code: code, Reason: fmt.Sprint(r)}
		}
	}()

	delim := slices.IndexFunc(words, func(w string) bool { return currencies[w] })
	if delim < 0 {
		return models.StockRecord{}, &InvalidStockError{Code: code, Reason: "no currency found"}
	}
	name := strings.Join(words[1:delim], " ")
	currency := words[delim]

	if isSuspended(words) {
		log.Info("Stock number %d is suspended.", code)
		return models.Suspended(code, name, currency), nil
	}

	f := fields{code: code, log: log}
	prices := strings.Fields(next)
	return models.StockRecord{
		Code:         code,
		Name:         name,
		Currency:     currency,
		PrevClose:    f.price(words, delim+1, "prev clos"),
		Ask:          f.price(words, delim+2, "ask"),
		High:         f.price(words, delim+3, "high"),
		SharesTraded: f.count(words, delim+4, "shares traded"),
		Closing:      f.price(prices, 0, "closing"),
		Bid:          f.price(prices, 1, "bid"),
		Low:          f.price(prices, 2, "low"),
		Turnover:     f.count(prices, 3, "turnover"),
	}, nil
}

func isSuspended(words []string) bool {
	n := len(words)
	return n >= 2 && words[n-2] == "TRADING" && words[n-1] == "SUSPENDED"
}

// fields resolves numeric tokens of one stock, logging every fallback.
type fields struct {
	code int
	log  Logger
}

func (f fields) price(words []string, i int, column string) float64 {
	if i < len(words) {
		if v, err := strconv.ParseFloat(words[i], 64); err == nil {
			return v
		}
	}
	f.missing(column)
	return models.Unavailable
}

// count strips thousands separators before parsing.
func (f fields) count(words []string, i int, column string) int64 {
	if i < len(words) {
		if v, err := strconv.ParseInt(strings.ReplaceAll(words[i], ",", ""), 10, 64); err == nil {
			return v
		}
	}
	f.missing(column)
	return models.Unavailable
}

func (f fields) missing(column string) {
	f.log.Info("Stock number %d has missing data (%s).", f.code, column)
}
