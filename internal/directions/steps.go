package directions

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var stepMarker = regexp.MustCompile(`\d+\. `)

// SplitSteps breaks numbered text back into steps. Each "<digits>. " marker
// that starts the text or follows whitespace opens a step running up to the
// next marker. Text before the first marker becomes its own step, and text
// with no markers at all is a single step.
func SplitSteps(numbered string) []string {
	var starts []int
	for _, loc := range stepMarker.FindAllStringIndex(numbered, -1) {
		if markerStart(numbered, loc[0]) {
			starts = append(starts, loc[0])
		}
	}

	var steps []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}

	if len(starts) == 0 {
		add(numbered)
		return steps
	}

	add(numbered[:starts[0]])
	for i, start := range starts {
		end := len(numbered)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		add(numbered[start:end])
	}
	return steps
}

// markerStart reports whether a marker at i opens a step: it must begin
// the text or follow whitespace.
func markerStart(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsSpace(r)
}

// Steps is Clean followed by SplitSteps.
func Steps(raw string) []string {
	return SplitSteps(Clean(raw))
}
