// Package directions turns scraped free-text directions into numbered
// steps.
package directions

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// footerMaxLen is the longest trailing line that can still be dropped as a
// signature or footer when it carries no sentence punctuation.
const footerMaxLen = 30

// Clean trims footer lines off the end of text, joins what remains into one
// paragraph and emits it as numbered sentences, one "<n>. <sentence>\n"
// per line. Empty or footer-only input yields "".
//
// Sentences are cut by Sentences, not at every terminator. A decimal point
// as in "2.5" does not end a sentence and a run like "!!" stays with it.
// Unterminated trailing text becomes the last step.
func Clean(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	for len(lines) > 0 && isFooter(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}

	var b strings.Builder
	for i, s := range Sentences(strings.Join(lines, " ")) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return b.String()
}

func isFooter(line string) bool {
	if line == "" {
		return true
	}
	return utf8.RuneCountInString(line) <= footerMaxLen && !strings.ContainsAny(line, ".!?")
}

// Sentences splits text after each run of ".", "!" or "?". A "." between
// two digits ("2.5 cups") is a decimal point, not a terminator. Trailing
// text with no terminator is kept as a last sentence.
func Sentences(text string) []string {
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" && strings.Trim(s, ".!?") != "" {
			out = append(out, s)
		}
		cur.Reset()
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		cur.WriteByte(c)
		if !isTerminator(c) || isDecimalPoint(text, i) {
			continue
		}
		for i+1 < len(text) && isTerminator(text[i+1]) {
			i++
			cur.WriteByte(text[i])
		}
		flush()
	}
	flush()
	return out
}

func isTerminator(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

func isDecimalPoint(text string, i int) bool {
	return text[i] == '.' && i > 0 && i+1 < len(text) && isDigit(text[i-1]) && isDigit(text[i+1])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
