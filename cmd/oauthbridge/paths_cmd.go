package main

import (
	"github.com/spf13/cobra"

	"github.com/pipedock/oauthbridge/internal/connector"
	"github.com/pipedock/oauthbridge/internal/reconcile"
)

// newPathsCmd extracts the declared OAuth input fields from an advanced-auth
// schema fragment and prints the field-name to path-expression map.
func newPathsCmd() *cobra.Command {
	var schemaFile string

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Extract OAuth input field paths from an advanced-auth schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			logger, err := setupLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			schema, err := readJSONObject(schemaFile)
			if err != nil {
				return err
			}

			declared, err := connector.ExtractConfigPaths(schema)
			if err != nil {
				return err
			}
			return printJSON(reconcile.BuildFieldPaths(declared))
		},
	}

	cmd.Flags().StringVar(&schemaFile, "schema", "", "Advanced-auth schema fragment (JSON file)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
