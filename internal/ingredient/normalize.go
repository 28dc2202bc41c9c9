package ingredient

import (
	"strings"

	"github.com/hammamikhairi/recipebook/internal/domain"
)

// Normalize trims all three fields, converts ASCII fractions in the
// quantity and name to glyphs, and canonicalizes the unit. It is
// idempotent.
func Normalize(ing domain.Ingredient) domain.Ingredient {
	return domain.Ingredient{
		Quantity: ToUnicode(strings.TrimSpace(ing.Quantity)),
		Unit:     Canonical(strings.TrimSpace(ing.Unit)),
		Name:     ToUnicode(strings.TrimSpace(ing.Name)),
	}
}

// NormalizeAll rewrites every ingredient in place.
func NormalizeAll(ings []domain.Ingredient) {
	for i := range ings {
		ings[i] = Normalize(ings[i])
	}
}

// Format renders an ingredient as "<quantity> <unit> <name>", skipping
// empty parts.
func Format(ing domain.Ingredient) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{ing.Quantity, ing.Unit, ing.Name} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
