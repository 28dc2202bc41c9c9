package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List the distinct units used by the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		units, err := store.Units(cmd.Context())
		if err != nil {
			return err
		}
		for _, u := range units {
			fmt.Fprintln(cmd.OutOrStdout(), u)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unitsCmd)
}
