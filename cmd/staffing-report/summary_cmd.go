package main

import (
	"github.com/spf13/cobra"

	"github.com/iota-uz/iota-staffing/modules/staffing/presentation/mappers"
	"github.com/iota-uz/iota-staffing/modules/staffing/presentation/viewmodels"
	"github.com/iota-uz/iota-staffing/modules/staffing/services"
)

func newSummaryCmd(opts *globalOptions) *cobra.Command {
	var structures []string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print node counts, rejected rows, tariff misses and grand totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := make([]services.Structure, 0, len(structures))
			for _, s := range structures {
				st, err := services.ParseStructure(s)
				if err != nil {
					return withCode(exitUsage, err)
				}
				parsed = append(parsed, st)
			}

			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.close()

			out := make([]viewmodels.StaffingSummary, 0, len(parsed))
			for _, st := range parsed {
				s, err := rt.svc.Summary(rt.ctx, st)
				if err != nil {
					return classify(err)
				}
				out = append(out, mappers.SummaryToViewModel(rt.runID, s, rt.conf.Staffing.Currency))
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringSliceVar(&structures, "structure",
		[]string{string(services.StructureCurrent), string(services.StructureProposed)}, "Snapshots to summarize")
	return cmd
}
