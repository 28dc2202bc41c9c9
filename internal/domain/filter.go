package domain

import "strings"

// Filter narrows a recipe search. The zero value matches every recipe.
type Filter struct {
	Name       string // substring of the recipe name
	Ingredient string // substring of any ingredient name
	Quantity   string // "1/2", "1 1/2", "2"
	Unit       string // substring of the unit; "" or NoUnit means any
	AtMost     bool   // match ingredients whose quantity is <= Quantity
	MaxMinutes int    // 0 disables the time filter
}

// HasIngredientTerms reports whether any per-ingredient criterion is set.
// Blank fields, NoUnit included, do not count.
func (f Filter) HasIngredientTerms() bool {
	for _, s := range []string{f.Ingredient, f.Quantity, f.Unit} {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// Match is one search hit.
type Match struct {
	Recipe *Recipe
	// Quantity is the best matching ingredient quantity in AtMost mode,
	// -1 otherwise.
	Quantity float64
}
