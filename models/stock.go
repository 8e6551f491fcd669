// Package models defines the data structures used in the application.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Unavailable marks a numeric field whose value could not be read from the page.
// A genuine zero reading stays 0.
const Unavailable = -1

// Header holds the column labels written once before any data row.
var Header = []string{"code", "name", "cur", "prev clos", "closing", "ask", "bid", "high", "low", "shares traded", "turnover"}

// StockRecord represents one quoted stock as extracted from the quotation page.
type StockRecord struct {
	Code         int     `json:"code"`
	Name         string  `json:"name"`
	Currency     string  `json:"currency"`
	PrevClose    float64 `json:"prevClose"`
	Ask          float64 `json:"ask"`
	High         float64 `json:"high"`
	SharesTraded int64   `json:"sharesTraded"`
	Closing      float64 `json:"closing"`
	Bid          float64 `json:"bid"`
	Low          float64 `json:"low"`
	Turnover     int64   `json:"turnover"`
}

// Suspended returns the record of a halted stock: every numeric field is Unavailable.
func Suspended(code int, name, currency string) StockRecord {
	return StockRecord{
		Code:         code,
		Name:         name,
		Currency:     currency,
		PrevClose:    Unavailable,
		Ask:          Unavailable,
		High:         Unavailable,
		SharesTraded: Unavailable,
		Closing:      Unavailable,
		Bid:          Unavailable,
		Low:          Unavailable,
		Turnover:     Unavailable,
	}
}

// IsSuspended reports whether all numeric fields are Unavailable.
func (r StockRecord) IsSuspended() bool {
	return r.PrevClose == Unavailable && r.Ask == Unavailable && r.High == Unavailable &&
		r.SharesTraded == Unavailable && r.Closing == Unavailable && r.Bid == Unavailable &&
		r.Low == Unavailable && r.Turnover == Unavailable
}

// Row renders the record in Header order.
func (r StockRecord) Row() []string {
	return []string{
		strconv.Itoa(r.Code),
		r.Name,
		r.Currency,
		formatPrice(r.PrevClose),
		formatPrice(r.Closing),
		formatPrice(r.Ask),
		formatPrice(r.Bid),
		formatPrice(r.High),
		formatPrice(r.Low),
		strconv.FormatInt(r.SharesTraded, 10),
		strconv.FormatInt(r.Turnover, 10),
	}
}

// ParseRow is the inverse of Row.
func ParseRow(row []string) (StockRecord, error) {
	if len(row) != len(Header) {
		return StockRecord{}, fmt.Errorf("expected %d columns, got %d", len(Header), len(row))
	}

	var r StockRecord
	var err error
	if r.Code, err = strconv.Atoi(row[0]); err != nil {
		return StockRecord{}, fmt.Errorf("invalid code %q: %w", row[0], err)
	}
	r.Name = row[1]
	r.Currency = row[2]

	prices := []struct {
		dst *float64
		col int
	}{
		{&r.PrevClose, 3}, {&r.Closing, 4}, {&r.Ask, 5}, {&r.Bid, 6}, {&r.High, 7}, {&r.Low, 8},
	}
	for _, p := range prices {
		if *p.dst, err = strconv.ParseFloat(row[p.col], 64); err != nil {
			return StockRecord{}, fmt.Errorf("invalid %s %q: %w", Header[p.col], row[p.col], err)
		}
	}
	if r.SharesTraded, err = strconv.ParseInt(row[9], 10, 64); err != nil {
		return StockRecord{}, fmt.Errorf("invalid %s %q: %w", Header[9], row[9], err)
	}
	if r.Turnover, err = strconv.ParseInt(row[10], 10, 64); err != nil {
		return StockRecord{}, fmt.Errorf("invalid %s %q: %w", Header[10], row[10], err)
	}
	return r, nil
}

// formatPrice keeps existing consumers happy: prices always carry a decimal
// point, the sentinel is written bare.
func formatPrice(v float64) string {
	if v == Unavailable {
		return "-1"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
