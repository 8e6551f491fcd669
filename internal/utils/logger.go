package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Logger struct {
	file    io.WriteCloser
	console io.Writer
	debug   bool
	runID   string
}

// NewLogger creates dir if needed and opens a timestamped log file in it.
// Every line is mirrored to stdout.
func NewLogger(dir string, debug bool) (*Logger, error) {
	if dir == "" {
		dir = "logs"
	}
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(dir, fmt.Sprintf("scraper_%s.log", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	return &Logger{file: file, console: os.Stdout, debug: debug}, nil
}

// NewLoggerTo writes to w only.
func NewLoggerTo(w io.Writer, debug bool) *Logger {
	return &Logger{console: w, debug: debug}
}

// SetRunID prefixes every following line with id.
func (l *Logger) SetRunID(id string) {
	l.runID = id
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log("INFO", format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	// chromedp reports cookie events it cannot decode; they are noise
	if strings.Contains(format, "could not unmarshal event") &&
		strings.Contains(format, "cookiePart") {
		return
	}
	l.log("DEBUG", format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log("ERROR", format, args...)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log("FATAL", format, args...)
	l.Close()
	os.Exit(1)
}

func (l *Logger) log(level string, format string, args ...interface{}) {
	timestamp := time.Now().Format("2006/01/02 15:04:05")
	message := fmt.Sprintf(format, args...)
	if l.runID != "" {
		message = "[" + l.runID + "] " + message
	}
	logLine := fmt.Sprintf("%s: %s %s\n", level, timestamp, message)

	if l.file != nil {
		fmt.Fprint(l.file, logLine)
	}
	if l.console != nil {
		fmt.Fprint(l.console, logLine)
	}
}

func (l *Logger) Close() error {
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Writer adapts the logger for libraries that log to an io.Writer.
// Each write becomes one INFO line.
func (l *Logger) Writer() io.Writer {
	return logWriter{l}
}

type logWriter struct {
	l *Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.l.Info("%s", strings.TrimRight(string(p), "\r\n"))
	return len(p), nil
}
