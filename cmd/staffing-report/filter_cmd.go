package main

import (
	"github.com/spf13/cobra"

	"github.com/iota-uz/iota-staffing/modules/staffing/services"
)

func newFilterCmd(opts *globalOptions) *cobra.Command {
	var (
		structure string
		format    string
		criteria  services.Criteria
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the units matching the criteria with their ancestors and descendants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, opts, structure, format, criteria)
		},
	}
	cmd.Flags().StringVar(&structure, "structure", string(services.StructureCurrent), "Snapshot: current|proposed")
	cmd.Flags().StringVar(&format, "format", formatJSON, "Output format: json|text")
	cmd.Flags().StringSliceVar(&criteria.Acronyms, "acronym", nil, "Unit acronym (repeatable, case-insensitive)")
	cmd.Flags().StringSliceVar(&criteria.PositionTypes, "type", nil, "Position type code (repeatable)")
	cmd.Flags().IntSliceVar(&criteria.Levels, "level", nil, "Position level (repeatable)")
	cmd.Flags().StringVar(&criteria.Denomination, "denomination", "", "Fuzzy match on the unit denomination")
	return cmd
}
