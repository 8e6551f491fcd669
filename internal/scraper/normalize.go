package scraper

import (
	"golang.org/x/text/width"
)

// NormalizeText folds full-width digits, letters and spaces to their ASCII
// forms so "７００　騰訊控股　ＨＫＤ" tokenizes like "700 騰訊控股 HKD".
func NormalizeText(text string) string {
	return width.Fold.String(text)
}
