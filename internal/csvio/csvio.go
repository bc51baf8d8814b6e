// Package csvio reads the raw CSV extracts from disk and hands the
// pipeline clean tabular rows.
//
// It handles the messy reality of exported CSV files:
//   - Invalid UTF-8 sequences (replaced with U+FFFD)
//   - Header rows preceded by banner/title rows
//   - Excel formula prefixes (="value") and stray quotes
//   - Ragged rows and lazy quoting
package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// MaxFileSize is the maximum allowed CSV file size (100MB).
var MaxFileSize int64 = 100 * 1024 * 1024

// MaxHeaderSearchRows is the maximum number of rows to scan for the header.
var MaxHeaderSearchRows = 20

// HeaderIndex maps column names (lowercase) to their position in a row.
type HeaderIndex map[string]int

// ReadFile reads a CSV file from disk and returns its rows.
// The file content is UTF-8 sanitized before parsing.
func ReadFile(path string) ([][]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("file %s exceeds %dMB limit", path, MaxFileSize/(1024*1024))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	rows, err := Parse(sanitizeUTF8(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

// Parse parses raw CSV bytes. Ragged rows are tolerated; the caller
// validates column counts per row.
func Parse(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// FindHeader scans the first MaxHeaderSearchRows rows for a row that
// contains every required column name (case-insensitive, any order).
// Returns the row position and its header index, or -1 and nil when no
// row qualifies.
func FindHeader(rows [][]string, required []string) (int, HeaderIndex) {
	maxRows := MaxHeaderSearchRows
	if len(rows) < maxRows {
		maxRows = len(rows)
	}

	for i := 0; i < maxRows; i++ {
		idx := MakeHeaderIndex(rows[i])
		if containsAll(idx, required) {
			return i, idx
		}
	}
	return -1, nil
}

func containsAll(idx HeaderIndex, required []string) bool {
	for _, name := range required {
		if _, ok := idx[strings.ToLower(name)]; !ok {
			return false
		}
	}
	return true
}

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(CleanCell(h))] = i
	}
	return idx
}

// CleanCell removes common CSV artifacts from a cell value:
// trims whitespace, strips Excel formula prefixes (="..."), and
// removes surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

// IsEmptyRow reports whether every cell in the row is blank.
func IsEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
