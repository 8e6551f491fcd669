// Package main provides the entry point for the quotation scraper.
// It renders a market-data page, extracts the quotes of the stock codes listed
// in a text file and writes them to a CSV file or SQLite database.
//
// Usage:
//
//	quotescraper [-config path] [-o output.csv] [-s stocks.txt] URL
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"quotescraper/internal/output"
	"quotescraper/internal/quotes"
	"quotescraper/internal/scraper"
	"quotescraper/internal/utils"

	"github.com/google/uuid"
)

// options holds the command-line overrides of the config file.
type options struct {
	configPath string
	output     string
	stocks     string
	url        string
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to YAML config (default $CONFIG_PATH or "+utils.DefaultConfigPath+")")
	flag.StringVar(&opts.output, "o", "", "Output file (.csv, or .db for SQLite)")
	flag.StringVar(&opts.output, "output", "", "Output file (.csv, or .db for SQLite)")
	flag.StringVar(&opts.stocks, "s", "", "File listing one stock code per line")
	flag.StringVar(&opts.stocks, "stocks", "", "File listing one stock code per line")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] URL\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	opts.url = flag.Arg(0)

	if opts.configPath == "" {
		opts.configPath = os.Getenv("CONFIG_PATH")
	}
	if opts.configPath == "" {
		opts.configPath = utils.DefaultConfigPath
	}
	return opts
}

// applyOptions lets flags win over the config file.
func applyOptions(config *utils.Config, opts options) {
	if opts.output != "" {
		config.Output.Path = opts.output
		config.Output.Format = ""
	}
	if opts.stocks != "" {
		config.Stocks.Path = opts.stocks
	}
	if opts.url != "" {
		config.Scraper.URL = opts.url
	}
}

// initializeScraper builds the page source and cache selected by config.
func initializeScraper(logger *utils.Logger, config *utils.Config) (*scraper.Scraper, error) {
	source, err := scraper.NewSource(logger, config)
	if err != nil {
		return nil, err
	}
	cache := scraper.NewPageCache(
		config.Cache.RedisAddr,
		config.Cache.Password,
		config.Cache.DB,
		time.Duration(config.Cache.TTL)*time.Second,
	)
	return scraper.NewScraper(logger, source, cache, config), nil
}

func main() {
	startTime := time.Now()
	opts := parseFlags()

	config, err := utils.LoadConfig(opts.configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	applyOptions(config, opts)

	logger, err := utils.NewLogger(config.Logging.Dir, config.Logging.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	runID := uuid.NewString()
	logger.SetRunID(runID[:8])
	logger.Info("Starting quotation scraper (run %s)", runID)

	if config.Scraper.URL == "" {
		flag.Usage()
		logger.Fatal("No URL specified")
	}

	codes, err := utils.ReadStockCodes(config.Stocks.Path)
	if err != nil {
		logger.Fatal("Error reading stock list %s: %v", config.Stocks.Path, err)
	}
	logger.Info("Found %d stock codes to read", len(codes))

	s, err := initializeScraper(logger, config)
	if err != nil {
		logger.Fatal("Failed to initialize scraper: %v", err)
	}
	defer s.Close()

	if err := s.PreflightCheck(); err != nil {
		s.Close()
		logger.Fatal("Preflight check failed: %v", err)
	}

	sink, err := output.Open(config.OutputFormat(), config.Output.Path, runID)
	if err != nil {
		s.Close()
		logger.Fatal("Failed to open output %s: %v", config.Output.Path, err)
	}

	report, err := s.Run(config.Scraper.URL, quotes.NewWantedSet(codes...), sink)
	if cerr := sink.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		s.Close()
		logger.Fatal("Scrape failed: %v", err)
	}

	logger.Info("Wrote %d stocks to %s (%d suspended, %d invalid, %d not found)",
		len(report.Written), config.Output.Path, len(report.Suspended), len(report.Failed), len(report.Unresolved))
	logger.Info("%s", s.GetPerformanceTracker().GenerateAggregateReport())
	logger.Info("Total execution time: %v", time.Since(startTime).Round(time.Millisecond))
}
