package scraper

import (
	"fmt"
	"time"

	"quotescraper/internal/utils"
)

// PageSource returns the visible text of a rendered page.
type PageSource interface {
	Name() string
	ReadPage(url string, timeout time.Duration) (string, error)
}

// checker is implemented by sources that can verify their setup up front.
type checker interface {
	Check() error
}

// NewSource builds the page source selected by config.Scraper.Source.
func NewSource(logger *utils.Logger, config *utils.Config) (PageSource, error) {
	switch config.Scraper.Source {
	case utils.SourceBrowser, "":
		b, err := NewBrowserSource(logger, config)
		if err != nil {
			return nil, err
		}
		return b, nil
	case utils.SourceHTTP:
		return NewHTTPSource(config.Scraper.HTTP.UserAgent), nil
	case utils.SourceFile:
		return FileSource{}, nil
	default:
		return nil, fmt.Errorf("unknown page source %q", config.Scraper.Source)
	}
}
