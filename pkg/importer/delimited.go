package importer

import (
	"strings"
)

// Row is one imported record keyed by normalized column name.
type Row map[string]string

// SplitLine splits a delimited line on commas and semicolons. A double quote
// toggles quoting and is dropped from the value; separators inside quotes are kept.
func SplitLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case (r == ',' || r == ';') && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}

// Lines splits text into its non-blank lines.
func Lines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ParseDelimited reads a CSV-like document whose first non-blank line is the header.
// The whole document is rejected when a column of expectedColumns is missing.
func ParseDelimited(text string, expectedColumns []string) ([]Row, error) {
	lines := Lines(text)
	if len(lines) < 2 {
		return nil, ErrTooFewLines
	}

	header := SplitLine(lines[0])
	present := make(map[string]bool, len(header))
	for i, column := range header {
		header[i] = strings.ToLower(strings.TrimSpace(column))
		present[header[i]] = true
	}

	var missing []string
	for _, column := range expectedColumns {
		if !present[strings.ToLower(strings.TrimSpace(column))] {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := SplitLine(line)
		row := make(Row, len(header))
		for i, column := range header {
			if i < len(values) {
				row[column] = values[i]
			} else {
				row[column] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// First returns the first non-blank value found under any of keys.
func First(row Row, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(row[key]); value != "" {
			return value
		}
	}
	return ""
}
