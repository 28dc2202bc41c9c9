package ingredient

import (
	"regexp"
	"strings"
)

// unitSynonyms maps a lower-cased spelling to its canonical unit. Every
// canonical value is also a key (lower-cased) mapping to itself, which is
// what makes Canonical idempotent.
var unitSynonyms = map[string]string{
	// volume, spoons
	"tbsp": "tbsp", "tbs": "tbsp", "tbl": "tbsp", "tbsps": "tbsp", "tblsp": "tbsp",
	"tablespoon": "tbsp", "tablespoons": "tbsp",
	"t": "tsp", "tsp": "tsp", "tsps": "tsp", "teaspoon": "tsp", "teaspoons": "tsp",

	// volume
	"c": "cup", "cup": "cup", "cups": "cup",
	"ml": "mL", "milliliter": "mL", "milliliters": "mL", "millilitre": "mL", "millilitres": "mL",
	"l": "L", "liter": "L", "liters": "L", "litre": "L", "litres": "L",
	"pt": "pint", "pint": "pint", "pints": "pint",
	"qt": "quart", "quart": "quart", "quarts": "quart",
	"gal": "gallon", "gallon": "gallon", "gallons": "gallon",

	// weight
	"oz": "oz", "ounce": "oz", "ounces": "oz",
	"lb": "lb", "lbs": "lb", "pound": "lb", "pounds": "lb",
	"g": "g", "gram": "g", "grams": "g", "gr": "g",
	"kg": "kg", "kilogram": "kg", "kilograms": "kg",

	// counts and pinches
	"pinch": "pinch", "pinches": "pinch",
	"dash": "dash", "dashes": "dash",
	"clove": "clove", "cloves": "clove",
	"can": "can", "cans": "can",
	"package": "package", "packages": "package", "pkg": "package",
	"stick": "stick", "sticks": "stick",
	"slice": "slice", "slices": "slice",
	"piece": "piece", "pieces": "piece",
	"bunch": "bunch", "bunches": "bunch",
	"sprig": "sprig", "sprigs": "sprig",
	"head": "head", "heads": "head",
	"jar": "jar", "jars": "jar",
	"bottle": "bottle", "bottles": "bottle",
}

// capitalT is the one case-sensitive spelling: recipe shorthand writes a
// tablespoon as "T" and a teaspoon as "t".
const capitalT = "T"

var wordRe = regexp.MustCompile(`[A-Za-z]+`)

// Canonical rewrites every known unit word in s to its canonical spelling.
// Matching is per whole word and case-insensitive apart from "T"; unknown
// words and everything between words are left alone.
func Canonical(s string) string {
	return wordRe.ReplaceAllStringFunc(s, func(w string) string {
		if c, ok := lookupUnit(w); ok {
			return c
		}
		return w
	})
}

// IsKnownUnit reports whether tok (optionally ending in ".") is a unit
// spelling from the synonym table.
func IsKnownUnit(tok string) bool {
	_, ok := lookupUnit(strings.TrimSuffix(tok, "."))
	return ok
}

func lookupUnit(w string) (string, bool) {
	if w == capitalT {
		return "tbsp", true
	}
	c, ok := unitSynonyms[strings.ToLower(w)]
	return c, ok
}
