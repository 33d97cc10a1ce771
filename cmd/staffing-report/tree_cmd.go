package main

import (
	"github.com/spf13/cobra"

	"github.com/iota-uz/iota-staffing/modules/staffing/presentation/mappers"
	"github.com/iota-uz/iota-staffing/modules/staffing/services"
)

func newTreeCmd(opts *globalOptions) *cobra.Command {
	var (
		structure string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the hierarchy with own and cumulative totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, opts, structure, format, services.Criteria{})
		},
	}
	cmd.Flags().StringVar(&structure, "structure", string(services.StructureCurrent), "Snapshot: current|proposed")
	cmd.Flags().StringVar(&format, "format", formatJSON, "Output format: json|text")
	return cmd
}

func runTree(cmd *cobra.Command, opts *globalOptions, structure, format string, criteria services.Criteria) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	st, err := services.ParseStructure(structure)
	if err != nil {
		return withCode(exitUsage, err)
	}

	rt, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer rt.close()

	forest, err := rt.svc.FilteredHierarchy(rt.ctx, st, criteria)
	if err != nil {
		return classify(err)
	}
	tree := mappers.ForestToTree(st, forest, rt.conf.Staffing.Currency)
	if format == formatText {
		return writeTreeText(cmd.OutOrStdout(), tree)
	}
	return writeJSON(cmd.OutOrStdout(), tree)
}
