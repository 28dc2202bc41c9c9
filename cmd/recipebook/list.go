package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listJSON    bool
	listSkipped bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every recipe in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if listSkipped {
			for _, row := range store.Catalog().Skipped() {
				fmt.Fprintf(out, "%s:%d: %s\n", row.Source, row.Line, row.Reason)
			}
			return nil
		}

		recipes, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if listJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(recipes)
		}
		for _, r := range recipes {
			if r.Time != "" {
				fmt.Fprintf(out, "%s  (%s)\n", r.Name, r.Time)
			} else {
				fmt.Fprintln(out, r.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output JSON with recipe IDs")
	listCmd.Flags().BoolVar(&listSkipped, "skipped", false, "list the rows dropped while loading instead")
}
