package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebook/internal/export"
)

var (
	exportOut    string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <name|id>",
	Short: "Write a recipe as text, YAML or JSON",
	Long: `Write a recipe as text, YAML or JSON. Without -o the recipe goes to
stdout. With -o the format follows --format, else the file extension.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var format export.Format
		if exportFormat != "" {
			f, err := export.ParseFormat(exportFormat)
			if err != nil {
				return err
			}
			format = f
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		r, err := store.Lookup(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("recipe %q: %w", args[0], err)
		}
		doc := export.Prepare(*r)

		if exportOut == "" || exportOut == "-" {
			if format == "" {
				if format, err = export.ParseFormat(cfg.Export.Format); err != nil {
					return err
				}
			}
			return export.Write(cmd.OutOrStdout(), doc, format)
		}

		if err := export.WriteFile(exportOut, doc, format); err != nil {
			return err
		}
		log.Info("exported %q to %s", r.Name, exportOut)
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %s to %s\n", r.Name, exportOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "text, yaml or json")
}
