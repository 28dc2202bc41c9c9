package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasIngredientTerms(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"zero", Filter{}, false},
		{"name only", Filter{Name: "soup", AtMost: true, MaxMinutes: 10}, false},
		{"blank ingredient", Filter{Ingredient: "  "}, false},
		{"blank quantity", Filter{Quantity: "\t"}, false},
		{"no-unit placeholder", Filter{Unit: NoUnit}, false},
		{"ingredient", Filter{Ingredient: "salt"}, true},
		{"quantity", Filter{Quantity: "1/2"}, true},
		{"unit", Filter{Unit: " cup "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.HasIngredientTerms())
		})
	}
}
