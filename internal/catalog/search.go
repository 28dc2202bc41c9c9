package catalog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/ingredient"
)

// Search returns the recipes matching f. The name filter always applies.
// Without ingredient terms every name match is returned in catalog order.
// Otherwise a recipe matches when one of its ingredients satisfies every
// ingredient term. AtMost results are ordered by the largest matching
// quantity, descending.
func (c *Catalog) Search(f domain.Filter) []domain.Match {
	name := strings.ToLower(strings.TrimSpace(f.Name))
	ing := strings.ToLower(strings.TrimSpace(f.Ingredient))
	unit := strings.ToLower(strings.TrimSpace(f.Unit))
	qty := ingredient.ToUnicode(strings.ToLower(strings.TrimSpace(f.Quantity)))

	target := ingredient.Unparseable
	if f.AtMost && qty != "" {
		target = ingredient.Evaluate(qty)
	}
	terms := f.HasIngredientTerms()

	var out []domain.Match
	for _, r := range c.recipes {
		if name != "" && !strings.Contains(strings.ToLower(r.Name), name) {
			continue
		}
		if f.MaxMinutes > 0 {
			if m := Minutes(r.Time); m > f.MaxMinutes {
				continue
			}
		}
		if !terms {
			out = append(out, domain.Match{Recipe: r, Quantity: ingredient.Unparseable})
			continue
		}

		best, ok := ingredient.Unparseable, false
		for _, in := range r.Ingredients {
			if ing != "" && !strings.Contains(strings.ToLower(in.Name), ing) {
				continue
			}
			if unit != "" && !strings.Contains(strings.ToLower(in.Unit), unit) {
				continue
			}
			if !f.AtMost {
				if qty != "" && !strings.Contains(strings.ToLower(in.Quantity), qty) {
					continue
				}
				ok = true
				break
			}
			v := ingredient.Evaluate(in.Quantity)
			if target >= 0 && v <= target {
				ok = true
				best = max(best, v)
			}
		}
		if ok {
			out = append(out, domain.Match{Recipe: r, Quantity: best})
		}
	}

	if f.AtMost {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	}
	return out
}

var durationPart = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(d|days?|h|hrs?|hours?|m|mins?|minutes?)?\b`)

// Minutes sums a free-text duration such as "1 hrs 30 mins" into minutes.
// A bare number counts as minutes. Text with no numbers yields -1.
func Minutes(s string) int {
	parts := durationPart.FindAllStringSubmatch(s, -1)
	if len(parts) == 0 {
		return -1
	}
	total := 0.0
	for _, p := range parts {
		n, err := strconv.ParseFloat(p[1], 64)
		if err != nil {
			return -1
		}
		switch u := strings.ToLower(p[2]); {
		case u == "":
			total += n
		case u[0] == 'd':
			total += n * 24 * 60
		case u[0] == 'h':
			total += n * 60
		default:
			total += n
		}
	}
	return int(total + 0.5)
}
