// Package domain defines the core types and interfaces for the recipe book.
// All other packages depend on domain; domain depends on nothing.
package domain

// Recipe is one row of the recipe file.
type Recipe struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Ingredients []Ingredient `json:"ingredients" yaml:"ingredients"`
	Directions  string       `json:"directions" yaml:"directions"`
	Time        string       `json:"time,omitempty" yaml:"time,omitempty"` // free text, e.g. "45 mins"
	Source      string       `json:"source,omitempty" yaml:"source,omitempty"`
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Time string `json:"time,omitempty"`
}

// Summary returns the listing view of r.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{ID: r.ID, Name: r.Name, Time: r.Time}
}

// Ingredient is one parsed ingredient phrase. All three fields are raw text;
// only Name is needed for the entry to mean anything.
type Ingredient struct {
	Quantity string `json:"quantity" yaml:"quantity"` // "1½", "2", ""
	Unit     string `json:"unit" yaml:"unit"`         // "cup", "tbsp", ""
	Name     string `json:"name" yaml:"name"`
}

// NoUnit is the placeholder the unit picker uses for "any unit".
const NoUnit = " "
