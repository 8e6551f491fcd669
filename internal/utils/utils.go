package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadStockCodes reads one stock code per line from filePath.
func ReadStockCodes(filePath string) ([]int, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseStockCodes(file)
}

// ParseStockCodes parses newline separated stock codes. Blank lines are
// skipped; anything else that is not a positive integer is an error.
func ParseStockCodes(r io.Reader) ([]int, error) {
	var codes []int
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		code, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid stock code %q", lineNo, line)
		}
		if code <= 0 {
			return nil, fmt.Errorf("line %d: stock code %d is not positive", lineNo, code)
		}
		codes = append(codes, code)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return codes, nil
}
