// Package quotes turns the rendered text of a quotation page into stock records.
//
// The page is read as plain lines. Stock data starts after the second
// occurrence of the header marker; each wanted stock spans two lines:
//
//	700 Tencent Holdings HKD 300.00 301.50 305.00 1,200,000
//	302.00 301.00 298.50 5,000,000
//
// The first line carries code, name, currency, previous close, ask, high and
// shares traded. The second carries closing, bid, low and turnover.
package quotes

import (
	"slices"
)

// WantedSet holds the stock codes still outstanding during a scan.
type WantedSet struct {
	codes map[int]struct{}
}

// NewWantedSet returns a set holding the given codes. Duplicates collapse.
func NewWantedSet(codes ...int) *WantedSet {
	w := &WantedSet{codes: make(map[int]struct{}, len(codes))}
	for _, c := range codes {
		w.codes[c] = struct{}{}
	}
	return w
}

func (w *WantedSet) Contains(code int) bool {
	_, ok := w.codes[code]
	return ok
}

// Remove deletes code and reports whether it was present.
func (w *WantedSet) Remove(code int) bool {
	if _, ok := w.codes[code]; !ok {
		return false
	}
	delete(w.codes, code)
	return true
}

func (w *WantedSet) Len() int {
	return len(w.codes)
}

// Codes returns the outstanding codes in ascending order.
func (w *WantedSet) Codes() []int {
	out := make([]int, 0, len(w.codes))
	for c := range w.codes {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
