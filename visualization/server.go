// Command server serves the scraped quotes as JSON next to the raw output file.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"quotescraper/internal/output"
	"quotescraper/internal/utils"
	"quotescraper/internal/viewer"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config")
	addr := flag.String("addr", "", "Listen address (overrides viewer.addr)")
	flag.Parse()

	if *configPath == "" {
		*configPath = os.Getenv("CONFIG_PATH")
	}
	if *configPath == "" {
		*configPath = utils.DefaultConfigPath
	}

	config, err := utils.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *addr != "" {
		config.Viewer.Addr = *addr
	}

	logger, err := utils.NewLogger(config.Logging.Dir, config.Logging.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	var loader viewer.Loader
	dataPath := config.Output.Path
	switch config.OutputFormat() {
	case utils.FormatSQLite:
		db, err := output.OpenSQLite(config.Output.Path, "")
		if err != nil {
			logger.Fatal("Failed to open %s: %v", config.Output.Path, err)
		}
		defer db.Close()
		loader = viewer.SQLiteLoader(db)
		dataPath = ""
	default:
		loader = viewer.CSVLoader(config.Output.Path)
	}

	logger.Info("Starting server on %s", config.Viewer.Addr)
	if err := http.ListenAndServe(config.Viewer.Addr, viewer.NewRouter(loader, dataPath, logger)); err != nil {
		logger.Fatal("Server stopped: %v", err)
	}
}
