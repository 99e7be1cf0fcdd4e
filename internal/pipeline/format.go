package pipeline

// format.go provides the low-level text handling for the CSV format:
// a quote-aware row tokenizer and the comment/blank-line filter applied
// to raw file content before any parsing.

import "strings"

// ParseRow tokenizes one CSV line, honoring double-quote-escaped fields.
// A comma inside quotes does not split the field, and a doubled quote
// inside a quoted field yields a literal quote. Malformed quoting never
// fails: tokenization is best effort.
func ParseRow(row string) []string {
	var (
		fields       []string
		current      strings.Builder
		insideQuotes bool
	)

	for i := 0; i < len(row); i++ {
		switch c := row[i]; {
		case c == '"':
			if insideQuotes && i+1 < len(row) && row[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				insideQuotes = !insideQuotes
			}
		case c == ',' && !insideQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	fields = append(fields, current.String())

	return fields
}

// FilterContent splits raw file content on line breaks and discards blank
// lines and comment lines (trimmed form starting with '#'). Exported files
// carry a human-readable metadata block as leading comments, which this
// strips before parsing.
func FilterContent(raw string) []string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	filtered := lines[:0:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		filtered = append(filtered, line)
	}
	return filtered
}

// splitHeader splits the header row on commas and trims each name.
// Header rows are written unquoted by the exporter, so a plain split is
// sufficient and mirrors what hand-edited files contain.
func splitHeader(row string) []string {
	parts := strings.Split(row, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// contains reports whether list holds s.
func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
