package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iota-uz/iota-staffing/modules/staffing/infrastructure/spreadsheet"
	"github.com/iota-uz/iota-staffing/modules/staffing/presentation/mappers"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var (
		output     string
		layoutPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current/proposed comparison into the active template",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(output) == "" {
				return withCode(exitUsage, fmt.Errorf("--output is required"))
			}

			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.close()

			if !cmd.Flags().Changed("layout") {
				layoutPath = rt.conf.Staffing.LayoutPath
			}
			layout, err := spreadsheet.LoadLayout(layoutPath)
			if err != nil {
				return withCode(exitUsage, err)
			}

			result, err := rt.svc.Comparison(rt.ctx, spreadsheet.NewWriter(layout))
			if err != nil {
				return classify(err)
			}

			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return withCode(exitStorage, fmt.Errorf("mkdir %s: %w", filepath.Dir(output), err))
			}
			if err := os.WriteFile(output, result.Content, 0o644); err != nil {
				return withCode(exitStorage, fmt.Errorf("write %s: %w", output, err))
			}
			return writeJSON(cmd.OutOrStdout(), mappers.ComparisonToReport(rt.runID, output, result))
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Path of the generated workbook (required)")
	cmd.Flags().StringVar(&layoutPath, "layout", "", "YAML layout file (default STAFFING_EXPORT_LAYOUT or the built-in layout)")
	return cmd
}
