package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/ingredient"
)

var (
	addName        string
	addIngredients []string
	addDirections  string
	addTime        string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a recipe to the data file",
	Example: `  recipebook add --name Omelette -i "2 eggs" -i "1 tbsp butter" \
    --directions "Whisk the eggs. Cook in butter." --time "10 mins"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(addName)
		if name == "" {
			return errors.New("--name is required")
		}

		parser := ingredient.NewParser(cfg.UnitPolicy())
		r := domain.Recipe{
			Name:       name,
			Directions: addDirections,
			Time:       strings.TrimSpace(addTime),
		}
		for _, phrase := range addIngredients {
			ing := parser.Parse(phrase)
			if ingredient.Format(ing) != "" {
				r.Ingredients = append(r.Ingredients, ing)
			}
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		target, err := store.AppendTarget()
		if err != nil {
			return err
		}
		added, err := store.Add(cmd.Context(), r)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) to %s\n", added.Name, added.ID, target)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addName, "name", "", "recipe name")
	addCmd.Flags().StringArrayVarP(&addIngredients, "ingredient", "i", nil, "ingredient phrase, repeatable")
	addCmd.Flags().StringVar(&addDirections, "directions", "", "directions text")
	addCmd.Flags().StringVar(&addTime, "time", "", "total time, e.g. \"45 mins\"")
}
