package scraper

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"quotescraper/internal/utils"
)

// FileSource reads a page saved to disk. HTML files are reduced to their
// visible text; anything else is taken as already-rendered text.
type FileSource struct{}

func (FileSource) Name() string { return utils.SourceFile }

func (FileSource) ReadPage(url string, _ time.Duration) (string, error) {
	path := strings.TrimPrefix(url, "file://")

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return VisibleText(bytes.NewReader(data))
	default:
		return string(data), nil
	}
}
