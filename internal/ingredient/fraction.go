package ingredient

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type vulgar struct {
	glyph string
	ascii string
	value float64
}

// vulgarFractions is the fixed set of convertible fractions. Anything else
// (2/9, ⅕) stays literal text in both directions.
var vulgarFractions = []vulgar{
	{"¼", "1/4", 0.25},
	{"½", "1/2", 0.5},
	{"¾", "3/4", 0.75},
	{"⅓", "1/3", 1.0 / 3},
	{"⅔", "2/3", 2.0 / 3},
	{"⅛", "1/8", 0.125},
	{"⅜", "3/8", 0.375},
	{"⅝", "5/8", 0.625},
	{"⅞", "7/8", 0.875},
}

var (
	asciiToGlyph = map[string]string{}
	glyphToASCII = map[rune]string{}
	glyphValue   = map[rune]float64{}
)

func init() {
	for _, f := range vulgarFractions {
		r, _ := utf8.DecodeRuneInString(f.glyph)
		asciiToGlyph[f.ascii] = f.glyph
		glyphToASCII[r] = f.ascii
		glyphValue[r] = f.value
	}
}

// IsGlyph reports whether r is one of the supported vulgar fraction glyphs.
func IsGlyph(r rune) bool {
	_, ok := glyphValue[r]
	return ok
}

var fractionRe = regexp.MustCompile(`\d+/\d+`)

// fractionSlash is U+2044, which scraped text uses in place of "/".
const fractionSlash = "⁄"

// ToUnicode converts "1 1/2" to "1½" and a standalone "1/2" to "½" for the
// supported fractions. A fraction glued to a letter, digit, "." or "/" is
// not standalone and is left alone, as is any unsupported fraction.
func ToUnicode(s string) string {
	s = strings.ReplaceAll(s, fractionSlash, "/")

	locs := fractionRe.FindAllStringIndex(s, -1)
	if locs == nil {
		return s
	}

	var b strings.Builder
	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		glyph, ok := asciiToGlyph[s[start:end]]
		if !ok || !standalone(s, start, end) {
			continue
		}

		// Fold a preceding whole number: "<int><spaces><frac>".
		cut := start
		if ws := trailingSpace(s[last:start]); ws > 0 {
			digitsEnd := start - ws
			digitsStart := digitsEnd
			for digitsStart > last && isDigit(s[digitsStart-1]) {
				digitsStart--
			}
			if digitsStart < digitsEnd && boundaryBefore(s, digitsStart) {
				cut = digitsEnd
			}
		}

		b.WriteString(s[last:cut])
		b.WriteString(glyph)
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

// ToASCII is the inverse of ToUnicode: "1½" becomes "1 1/2" and "½"
// becomes "1/2".
func ToASCII(s string) string {
	if !strings.ContainsFunc(s, IsGlyph) {
		return s
	}

	var b strings.Builder
	var prev rune
	for _, r := range s {
		if ascii, ok := glyphToASCII[r]; ok {
			if unicode.IsDigit(prev) {
				b.WriteByte(' ')
			}
			b.WriteString(ascii)
		} else {
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

func standalone(s string, start, end int) bool {
	if !boundaryBefore(s, start) {
		return false
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) || r == '/' {
			return false
		}
	}
	return true
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r) && r != '/' && r != '.'
}

func trailingSpace(s string) int {
	n := 0
	for n < len(s) && (s[len(s)-1-n] == ' ' || s[len(s)-1-n] == '\t') {
		n++
	}
	return n
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
