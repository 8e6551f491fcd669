package scraper

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"quotescraper/internal/quotes"
	"quotescraper/internal/utils"
)

type Scraper struct {
	logger      *utils.Logger
	source      PageSource
	cache       *PageCache
	config      *utils.Config
	perfTracker *utils.PerformanceTracker
}

func NewScraper(logger *utils.Logger, source PageSource, cache *PageCache, config *utils.Config) *Scraper {
	return &Scraper{
		logger:      logger,
		source:      source,
		cache:       cache,
		config:      config,
		perfTracker: utils.NewPerformanceTracker(),
	}
}

// Run reads the page at url and writes every wanted stock found on it to sink.
// wanted is consumed: resolved codes are removed from it.
func (s *Scraper) Run(url string, wanted *quotes.WantedSet, sink quotes.Sink) (quotes.Report, error) {
	s.logger.Info("Reading website...")
	stop := s.perfTracker.StartStep("Reading website")
	text, err := s.readPage(url)
	stop()
	if err != nil {
		return quotes.Report{}, err
	}

	if s.config.Scraper.NormalizeWidth {
		text = NormalizeText(text)
	}

	s.logger.Info("Reading stocks...")
	stop = s.perfTracker.StartStep("Reading stocks")
	defer stop()

	scanner := &quotes.Scanner{
		Marker: s.config.Scraper.HeaderMarker,
		Sink:   sink,
		Log:    s.logger,
	}
	return scanner.Scan(quotes.SplitLines(text), wanted)
}

func (s *Scraper) readPage(url string) (string, error) {
	timeout := time.Duration(s.config.Scraper.Timeout) * time.Second
	key := s.cache.Key(s.source.Name(), url)

	text, hit, err := Memoize(context.Background(), s.cache, key, func() (string, error) {
		return s.source.ReadPage(url, timeout)
	})
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", url, err)
	}
	if hit {
		s.logger.Info("Using cached page for %s", url)
	}
	return text, nil
}

func (s *Scraper) Close() {
	if c, ok := s.source.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.logger.Error("Error closing %s source: %v", s.source.Name(), err)
		}
	}
	if err := s.cache.Close(); err != nil {
		s.logger.Error("Error closing cache: %v", err)
	}
}

func (s *Scraper) GetPerformanceTracker() *utils.PerformanceTracker {
	return s.perfTracker
}

// PreflightCheck verifies all dependencies and configurations
func (s *Scraper) PreflightCheck() error {
	checks := []struct {
		name  string
		check func() error
	}{
		{"Config Validation", s.validateConfig},
		{"Directory Structure", s.checkDirectories},
		{"Page Source", s.checkSource},
		{"Page Cache", s.checkCache},
	}

	for _, c := range checks {
		s.logger.Debug("Running preflight check: %s", c.name)
		if err := c.check(); err != nil {
			return fmt.Errorf("%s check failed: %w", c.name, err)
		}
		s.logger.Debug("%s check passed", c.name)
	}

	return nil
}

func (s *Scraper) validateConfig() error {
	if s.config == nil {
		return fmt.Errorf("configuration is nil")
	}
	return s.config.Validate()
}

func (s *Scraper) checkDirectories() error {
	dirs := []string{
		filepath.Dir(s.config.Output.Path),
		s.config.Logging.Dir,
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", dir, err)
		}
	}
	return nil
}

func (s *Scraper) checkSource() error {
	if c, ok := s.source.(checker); ok {
		return c.Check()
	}
	return nil
}

func (s *Scraper) checkCache() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.cache.Ping(ctx)
}
