package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// DefaultConfigPath is used when neither -config nor CONFIG_PATH is set.
const DefaultConfigPath = "configs/config.yaml"

// Page sources understood by the scraper.
const (
	SourceBrowser = "browser"
	SourceHTTP    = "http"
	SourceFile    = "file"
)

// Output formats.
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

type Config struct {
	Scraper struct {
		URL            string `yaml:"url"`
		Timeout        int    `yaml:"timeout"`
		HeaderMarker   string `yaml:"headerMarker"`
		Source         string `yaml:"source"`
		NormalizeWidth bool   `yaml:"normalizeWidth"`
		Browser        struct {
			Headless     bool   `yaml:"headless"`
			Debug        bool   `yaml:"debug"`
			UserAgent    string `yaml:"userAgent"`
			WaitSelector string `yaml:"waitSelector"`
		} `yaml:"browser"`
		HTTP struct {
			UserAgent string `yaml:"userAgent"`
		} `yaml:"http"`
	} `yaml:"scraper"`
	Output struct {
		Path   string `yaml:"path"`
		Format string `yaml:"format"`
	} `yaml:"output"`
	Stocks struct {
		Path string `yaml:"path"`
	} `yaml:"stocks"`
	Cache struct {
		RedisAddr string `yaml:"redisAddr"`
		Password  string `yaml:"password"`
		DB        int    `yaml:"db"`
		TTL       int    `yaml:"ttl"`
	} `yaml:"cache"`
	Logging struct {
		Dir   string `yaml:"dir"`
		Debug bool   `yaml:"debug"`
	} `yaml:"logging"`
	Viewer struct {
		Addr string `yaml:"addr"`
	} `yaml:"viewer"`
}

// DefaultConfig mirrors the behaviour of the command without a config file.
func DefaultConfig() *Config {
	config := &Config{}
	config.Scraper.Timeout = 60
	config.Scraper.HeaderMarker = "QUOTATIONS"
	config.Scraper.Source = SourceBrowser
	config.Scraper.NormalizeWidth = true
	config.Scraper.Browser.Headless = true
	config.Scraper.Browser.WaitSelector = "body"
	config.Scraper.HTTP.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"
	config.Output.Path = "output.csv"
	config.Stocks.Path = "stocks.txt"
	config.Cache.TTL = 600
	config.Logging.Dir = "logs"
	config.Viewer.Addr = ":8080"
	return config
}

// LoadConfig reads path over the defaults. A missing file at
// DefaultConfigPath is not an error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && path == DefaultConfigPath {
		return config, nil
	}
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return config, nil
}

// OutputFormat returns the configured format, falling back to the extension
// of the output path.
func (c *Config) OutputFormat() string {
	if c.Output.Format != "" {
		return strings.ToLower(c.Output.Format)
	}
	switch {
	case strings.HasSuffix(c.Output.Path, ".db"), strings.HasSuffix(c.Output.Path, ".sqlite"):
		return FormatSQLite
	default:
		return FormatCSV
	}
}

func (c *Config) Validate() error {
	if c.Scraper.Timeout <= 0 {
		return fmt.Errorf("invalid timeout value")
	}
	if strings.TrimSpace(c.Scraper.HeaderMarker) == "" {
		return fmt.Errorf("header marker is empty")
	}
	switch c.Scraper.Source {
	case SourceBrowser, SourceHTTP, SourceFile:
	default:
		return fmt.Errorf("unknown page source %q", c.Scraper.Source)
	}
	switch c.OutputFormat() {
	case FormatCSV, FormatSQLite:
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output path is empty")
	}
	if c.Cache.RedisAddr != "" && c.Cache.TTL <= 0 {
		return fmt.Errorf("invalid cache ttl")
	}
	return nil
}
