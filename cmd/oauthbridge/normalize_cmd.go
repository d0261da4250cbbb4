package main

import (
	"github.com/spf13/cobra"

	"github.com/pipedock/oauthbridge/internal/oauth"
)

// newNormalizeCmd normalizes a raw provider exchange result into the uniform
// response shape.
func newNormalizeCmd() *cobra.Command {
	var resultFile string

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a raw provider OAuth result",
		RunE: func(_ *cobra.Command, _ []string) error {
			logger, err := setupLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			result, err := readJSONObject(resultFile)
			if err != nil {
				return err
			}
			return printJSON(oauth.NormalizeResult(result))
		},
	}

	cmd.Flags().StringVar(&resultFile, "result", "", "Raw provider result (JSON file)")
	_ = cmd.MarkFlagRequired("result")
	return cmd
}
