package mappers

import (
	"fmt"

	"github.com/iota-uz/iota-staffing/modules/staffing/presentation/viewmodels"
	"github.com/iota-uz/iota-staffing/modules/staffing/services"
	"github.com/iota-uz/iota-staffing/pkg/money"
)

func SummaryToViewModel(runID string, s *services.Summary, currency string) viewmodels.StaffingSummary {
	return viewmodels.StaffingSummary{
		RunID:        runID,
		Structure:    string(s.Structure),
		Nodes:        s.Nodes,
		Roots:        s.Roots,
		Positions:    s.Positions,
		Rejected:     s.Rejected,
		TariffMisses: s.TariffMisses,
		MissedKeys:   s.MissedKeys,
		TotalValue:   money.Format(s.Total.Value, currency),
		TotalPoints:  formatPoints(s.Total.Points),
	}
}

func ComparisonToReport(runID, output string, r *services.ComparisonResult) viewmodels.ComparisonReport {
	out := viewmodels.ComparisonReport{
		RunID:        runID,
		Output:       output,
		CurrentRows:  r.CurrentRows,
		ProposedRows: r.ProposedRows,
		Skipped:      make([]viewmodels.SkippedRow, 0, len(r.Skipped)),
	}
	for _, s := range r.Skipped {
		out.Skipped = append(out.Skipped, viewmodels.SkippedRow{
			Structure: string(s.Structure),
			Line:      s.Line,
			Field:     s.Field,
			Value:     s.Value,
			Error:     fmt.Sprint(s.Err),
		})
	}
	return out
}
