// Package query turns one line of search text into a recipe filter.
//
//	pancake ing:flour unit:cup qty:<=2 time:30
//
// Keyword terms set the ingredient fields of the filter; every other word
// goes into the name filter.
package query

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/hammamikhairi/recipebook/internal/catalog"
	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Parser matches query terms against keyword rules.
type Parser struct {
	log   *logger.Logger
	rules []rule
}

type rule struct {
	regex *regexp.Regexp
	apply func(f *domain.Filter, value string)
}

// NewParser creates a query parser.
func NewParser(log *logger.Logger) *Parser {
	if log == nil {
		log = logger.New(logger.LevelOff, nil)
	}
	p := &Parser{log: log}
	p.rules = []rule{
		{regexp.MustCompile(`(?i)^(?:ing|ingredient):(.*)$`), func(f *domain.Filter, v string) { f.Ingredient = v }},
		{regexp.MustCompile(`(?i)^(?:qty|quantity):(.*)$`), setQuantity},
		{regexp.MustCompile(`(?i)^unit:(.*)$`), func(f *domain.Filter, v string) { f.Unit = v }},
		{regexp.MustCompile(`(?i)^(?:time|minutes):(.*)$`), func(f *domain.Filter, v string) {
			if m := catalog.Minutes(v); m > 0 {
				f.MaxMinutes = m
			}
		}},
		{regexp.MustCompile(`(?i)^(?:<=|atmost|at-most)$`), func(f *domain.Filter, _ string) { f.AtMost = true }},
		{regexp.MustCompile(`^<=(.+)$`), func(f *domain.Filter, v string) { setQuantity(f, "<="+v) }},
	}
	return p
}

// setQuantity handles "2" and "<=2".
func setQuantity(f *domain.Filter, v string) {
	if rest, ok := strings.CutPrefix(v, "<="); ok {
		f.AtMost = true
		v = rest
	}
	f.Quantity = strings.TrimSpace(v)
}

// Parse converts a query line into a filter. It never fails: terms that do
// not match a rule are treated as words of the recipe name.
func (p *Parser) Parse(line string) domain.Filter {
	var (
		f    domain.Filter
		name []string
	)

	for _, term := range Terms(line) {
		matched := false
		for _, r := range p.rules {
			m := r.regex.FindStringSubmatch(term)
			if m == nil {
				continue
			}
			value := ""
			if len(m) > 1 {
				value = strings.TrimSpace(m[1])
			}
			r.apply(&f, value)
			matched = true
			break
		}
		if !matched {
			name = append(name, term)
		}
	}

	f.Name = strings.Join(name, " ")
	p.log.Debug("query %q -> %+v", line, f)
	return f
}

// Terms splits line on whitespace outside double quotes. Quote characters
// are removed; an unclosed quote runs to the end of the line.
func Terms(line string) []string {
	var (
		terms    []string
		cur      strings.Builder
		inQuotes bool
		quoted   bool // cur holds a quoted, possibly empty, value
	)
	flush := func() {
		if cur.Len() > 0 || quoted {
			terms = append(terms, cur.String())
		}
		cur.Reset()
		quoted = false
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			quoted = true
		case unicode.IsSpace(r) && !inQuotes:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return terms
}

// Format renders f back into query syntax.
func Format(f domain.Filter) string {
	var parts []string
	add := func(key, v string) {
		if v = strings.TrimSpace(v); v == "" {
			return
		}
		if strings.ContainsAny(v, " \t") {
			v = `"` + v + `"`
		}
		parts = append(parts, key+v)
	}

	if f.Name != "" {
		parts = append(parts, f.Name)
	}
	add("ing:", f.Ingredient)
	add("unit:", f.Unit)
	if f.AtMost {
		add("qty:<=", f.Quantity)
		if strings.TrimSpace(f.Quantity) == "" {
			parts = append(parts, "<=")
		}
	} else {
		add("qty:", f.Quantity)
	}
	if f.MaxMinutes > 0 {
		add("time:", strconv.Itoa(f.MaxMinutes))
	}
	return strings.Join(parts, " ")
}
