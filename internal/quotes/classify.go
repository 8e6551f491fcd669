package quotes

import (
	"strconv"
	"strings"
)

// IsWantedLine reports whether line opens the record of a code in wanted.
// A line that does not start with an integer is simply not a match.
func IsWantedLine(line string, wanted *WantedSet) bool {
	code, ok := leadingCode(strings.Fields(line))
	if !ok {
		return false
	}
	return wanted.Contains(code)
}

func leadingCode(words []string) (int, bool) {
	if len(words) == 0 {
		return 0, false
	}
	code, err := strconv.Atoi(words[0])
	if err != nil {
		return 0, false
	}
	return code, true
}
