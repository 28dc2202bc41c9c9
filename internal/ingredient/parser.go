// Package ingredient turns free-text ingredient phrases into structured
// quantity/unit/name triples, canonicalizes unit spelling and fraction
// notation, and evaluates quantity strings numerically.
//
// Everything here is total: malformed input degrades to empty fields, the
// original text echoed into Name, or a -1 sentinel. Nothing panics and
// nothing returns an error.
package ingredient

import (
	"strings"

	"github.com/hammamikhairi/recipebook/internal/domain"
)

// UnitPolicy decides what happens to the token following the quantity.
type UnitPolicy int

const (
	// Strict accepts the token as the unit only when it is a known unit
	// spelling; otherwise it stays at the front of the name.
	Strict UnitPolicy = iota
	// Lenient accepts whatever token follows the quantity as the unit.
	Lenient
)

// String returns the config spelling of the policy.
func (p UnitPolicy) String() string {
	if p == Lenient {
		return "lenient"
	}
	return "strict"
}

// Parser splits ingredient phrases.
type Parser struct {
	policy UnitPolicy
}

// NewParser creates a parser with the given unit policy.
func NewParser(policy UnitPolicy) *Parser {
	return &Parser{policy: policy}
}

// Policy returns the parser's unit policy.
func (p *Parser) Policy() UnitPolicy { return p.policy }

// ParseList splits the raw ingredients column on commas and parses each
// phrase. Blank phrases are dropped. A comma inside an ingredient name
// ("tomatoes, diced") splits it in two; the file format has no escape for
// that case.
func (p *Parser) ParseList(raw string) []domain.Ingredient {
	var out []domain.Ingredient
	for _, phrase := range strings.Split(raw, ",") {
		if strings.TrimSpace(phrase) == "" {
			continue
		}
		out = append(out, p.Parse(phrase))
	}
	return out
}

// Parse converts one phrase like "1 1/2 cups flour" into its parts.
func (p *Parser) Parse(phrase string) domain.Ingredient {
	tokens := strings.Fields(phrase)
	if len(tokens) == 0 {
		return domain.Ingredient{Name: strings.TrimSpace(phrase)}
	}

	i := 0
	for i < len(tokens) && isQuantityToken(tokens[i]) {
		i++
	}
	ing := domain.Ingredient{Quantity: strings.Join(tokens[:i], " ")}

	if i < len(tokens) {
		if unit, ok := p.unit(tokens[i]); ok {
			ing.Unit = unit
			i++
		}
	}

	ing.Name = strings.TrimSpace(strings.Join(tokens[i:], " "))
	return ing
}

// unit applies the policy to a unit candidate. Known spellings come back
// canonical so the catalog's unit set has one entry per unit.
func (p *Parser) unit(tok string) (string, bool) {
	key := strings.TrimSuffix(tok, ".")
	if key != capitalT {
		key = strings.ToLower(key)
	}
	if key == "" {
		return "", false
	}
	if c, ok := lookupUnit(key); ok {
		return c, true
	}
	if p.policy == Lenient {
		return key, true
	}
	return "", false
}

// isQuantityToken reports whether tok is made only of digits, ".", "/" and
// vulgar fraction glyphs.
func isQuantityToken(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r == '.' || r == '/' || (r >= '0' && r <= '9') || IsGlyph(r) {
			continue
		}
		return false
	}
	return true
}
