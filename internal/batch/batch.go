package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadWordFile reads a word list from a file, one word per line.
// Supported line formats:
//   - "ябълка" (bare word)
//   - "ябълка = apple" (word with a native-language hint; the hint is
//     informational and only the word is used)
//   - "ябълка # any note" (trailing comment ignored)
//   - "# comment" and blank lines are skipped
func ReadWordFile(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read word file: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := parseLine(scanner.Text())
		if word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word file: %w", err)
	}

	return words, nil
}

// ParseWords splits a free-form word argument, accepting commas or
// newlines as separators.
func ParseWords(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	var words []string
	for _, f := range fields {
		if w := strings.TrimSpace(f); w != "" {
			words = append(words, w)
		}
	}
	return words
}

func parseLine(line string) string {
	if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, "="); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
