package csvrec

import "strings"

// Quote wraps s in double quotes, doubling any quote inside it. Every field
// written back to a recipe file goes through here so embedded commas and
// newlines survive the round trip.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// FormatRecord joins fields into one quoted record without a trailing
// newline. Empty fields stay bare so untouched columns look like the
// rest of the file.
func FormatRecord(fields []string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		if f == "" {
			continue
		}
		b.WriteString(Quote(f))
	}
	return b.String()
}
