package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebook/internal/display"
)

var showCmd = &cobra.Command{
	Use:   "show <name|id>",
	Short: "Print one recipe with its numbered steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		r, err := store.Lookup(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("recipe %q: %w", args[0], err)
		}
		fmt.Fprint(cmd.OutOrStdout(), display.RenderRecipe(r, nil, -1, 0))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
