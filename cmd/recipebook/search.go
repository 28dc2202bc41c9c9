package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebook/internal/display"
	"github.com/hammamikhairi/recipebook/internal/query"
)

var (
	searchJSON   bool
	searchAtMost bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search recipes by name, ingredient, quantity, unit or time",
	Long: `Search recipes. Bare words match the recipe name; prefixed terms filter
ingredients:

  ing:flour     ingredient name contains "flour"
  unit:cup      unit contains "cup"
  qty:1/2       quantity contains "½"
  qty:<=2       quantity evaluates to at most 2 (results sorted by it)
  time:30       total time of at most 30 minutes

Quote terms containing spaces: qty:"1 1/2".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		f := query.NewParser(log).Parse(strings.Join(args, " "))
		if searchAtMost {
			f.AtMost = true
		}
		matches, err := store.Search(cmd.Context(), f)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if searchJSON {
			type hit struct {
				ID       string   `json:"id"`
				Name     string   `json:"name"`
				Quantity *float64 `json:"quantity,omitempty"`
			}
			hits := make([]hit, 0, len(matches))
			for _, m := range matches {
				h := hit{ID: m.Recipe.ID, Name: m.Recipe.Name}
				if f.AtMost && m.Quantity >= 0 {
					q := m.Quantity
					h.Quantity = &q
				}
				hits = append(hits, h)
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(hits)
		}

		fmt.Fprint(out, display.RenderMatches(matches, -1, f.AtMost))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output JSON")
	searchCmd.Flags().BoolVar(&searchAtMost, "at-most", false, "treat qty as an upper bound")
}
