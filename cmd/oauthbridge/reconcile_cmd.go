package main

import (
	"github.com/spf13/cobra"

	"github.com/pipedock/oauthbridge/internal/connector"
	"github.com/pipedock/oauthbridge/internal/oauth"
	"github.com/pipedock/oauthbridge/internal/reconcile"
)

// newReconcileCmd runs the full reconciliation pipeline over JSON files: it
// resolves the declared field paths against a stored hydrated configuration
// and substitutes stored values for masked fields in the caller input.
func newReconcileCmd() *cobra.Command {
	var (
		schemaFile string
		storedFile string
		inputFile  string
		redact     bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile a masked input configuration against a stored one",
		Long:  "Reconcile substitutes stored values for masked fields in an input\nconfiguration. Without --schema the stored file is treated as an already\nresolved field-name to value map. The output contains live secrets unless\n--redact is set.",
		RunE: func(_ *cobra.Command, _ []string) error {
			logger, err := setupLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			input, err := readJSONObject(inputFile)
			if err != nil {
				return err
			}
			stored, err := readJSONObject(storedFile)
			if err != nil {
				return err
			}

			if schemaFile != "" {
				schema, err := readJSONObject(schemaFile)
				if err != nil {
					return err
				}
				declared, err := connector.ExtractConfigPaths(schema)
				if err != nil {
					return err
				}
				paths := reconcile.BuildFieldPaths(declared)
				stored = reconcile.ResolveStoredValues(stored, paths, logger)
			}

			merged := reconcile.MergeWithStored(input, stored, logger)
			if redact {
				merged = oauth.RedactConfig(merged)
			}
			return printJSON(merged)
		},
	}

	cmd.Flags().StringVar(&schemaFile, "schema", "", "Advanced-auth schema fragment (JSON file)")
	cmd.Flags().StringVar(&storedFile, "stored", "", "Stored hydrated configuration (JSON file)")
	cmd.Flags().StringVar(&inputFile, "input", "", "Caller-supplied configuration with masked secrets (JSON file)")
	cmd.Flags().BoolVar(&redact, "redact", false, "Mask secret values in the output")
	_ = cmd.MarkFlagRequired("stored")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
