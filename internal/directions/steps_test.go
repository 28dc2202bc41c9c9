package directions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSteps(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "inline markers",
			in:   "1. Mix well. 2. Bake 20 min.",
			want: []string{"1. Mix well.", "2. Bake 20 min."},
		},
		{
			name: "clean output",
			in:   "1. Boil water.\n2. Add pasta!\n",
			want: []string{"1. Boil water.", "2. Add pasta!"},
		},
		{
			name: "multi digit numbers",
			in:   "9. Nine. 10. Ten. 11. Eleven.",
			want: []string{"9. Nine.", "10. Ten.", "11. Eleven."},
		},
		{
			name: "decimal is not a marker",
			in:   "1. Add 2.5 cups. 2. Stir.",
			want: []string{"1. Add 2.5 cups.", "2. Stir."},
		},
		{
			name: "adjacent markers",
			in:   "1. 2. 3. x",
			want: []string{"1.", "2.", "3. x"},
		},
		{
			name: "marker glued to a word",
			in:   "1. Use pan no3. Stir.",
			want: []string{"1. Use pan no3. Stir."},
		},
		{
			name: "leading text kept",
			in:   "Intro text 1. First.",
			want: []string{"Intro text", "1. First."},
		},
		{
			name: "no markers",
			in:   "  just text  ",
			want: []string{"just text"},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSteps(tt.in))
		})
	}
}

func TestSplitStepsIsPure(t *testing.T) {
	text := "1. A. 2. B. 3. C."
	assert.Equal(t, SplitSteps(text), SplitSteps(text))
}

func TestSteps(t *testing.T) {
	got := Steps("Whisk the eggs. Fold in flour.\nBake until golden!\nEnjoy")
	assert.Equal(t, []string{"1. Whisk the eggs.", "2. Fold in flour.", "3. Bake until golden!"}, got)
}
