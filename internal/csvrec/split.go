package csvrec

import "strings"

// SplitFields splits one logical record into fields in a single left to
// right pass. Inside quotes, commas and newlines are literal and "" decodes
// to one quote. Surrounding whitespace is kept; callers trim where it
// matters.
func SplitFields(record string) []string {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(record); i++ {
		c := record[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(record) && record[i+1] == '"' {
				field.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}
	return append(fields, field.String())
}
