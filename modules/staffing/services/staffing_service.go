package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/position"
	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/tariff"
)

// Structure names one snapshot of the staffing table.
type Structure string

const (
	StructureCurrent  Structure = "current"
	StructureProposed Structure = "proposed"
)

func ParseStructure(s string) (Structure, error) {
	switch Structure(s) {
	case StructureCurrent, StructureProposed:
		return Structure(s), nil
	default:
		return "", newServiceError("STAFFING_INVALID_STRUCTURE", fmt.Sprintf("unknown structure %q (want current or proposed)", s), nil)
	}
}

// Template is a comparison workbook stored by the repository.
type Template struct {
	ID      string
	Name    string
	Content []byte
}

type Repository interface {
	ListPositions(ctx context.Context, structure Structure) ([]position.Raw, error)
	ListTariffs(ctx context.Context) ([]tariff.Raw, error)
	ListActiveTemplates(ctx context.Context) ([]Template, error)
}

// SelectActiveTemplate requires exactly one candidate.
func SelectActiveTemplate(candidates []Template) (Template, error) {
	switch len(candidates) {
	case 0:
		return Template{}, &TemplateNotFoundError{}
	case 1:
		return candidates[0], nil
	default:
		ids := make([]string, 0, len(candidates))
		for _, t := range candidates {
			ids = append(ids, t.ID)
		}
		sort.Strings(ids)
		return Template{}, &AmbiguousTemplateError{IDs: ids}
	}
}

// StaffingService rebuilds everything from a fresh repository snapshot on every call.
type StaffingService struct {
	repo        Repository
	primaryUnit string
}

func NewStaffingService(repo Repository, primaryUnit string) *StaffingService {
	return &StaffingService{repo: repo, primaryUnit: primaryUnit}
}

// Summary is the headline of one structure.
type Summary struct {
	Structure    Structure `json:"structure"`
	Nodes        int       `json:"nodes"`
	Roots        int       `json:"roots"`
	Positions    int       `json:"positions"`
	Rejected     int       `json:"rejected"`
	TariffMisses int64     `json:"tariff_misses"`
	MissedKeys   []string  `json:"missed_keys,omitempty"`
	Total        Amount    `json:"total"`
}

func (s *StaffingService) costTable(ctx context.Context) (*CostTable, error) {
	rows, err := s.repo.ListTariffs(ctx)
	if err != nil {
		return nil, err
	}
	table, err := BuildCostTable(rows)
	if err != nil {
		return nil, err
	}
	logWithFields(ctx, logrus.DebugLevel, "staffing.tariffs.loaded", logrus.Fields{"entries": table.Len()})
	return table, nil
}

// records converts a snapshot for the hierarchy. Rows without a path are passed through
// unconverted. Unlike an export, an unconvertible row fails the whole build.
func (s *StaffingService) records(ctx context.Context, structure Structure) ([]position.Record, error) {
	raws, err := s.repo.ListPositions(ctx, structure)
	if err != nil {
		return nil, err
	}
	out := make([]position.Record, 0, len(raws))
	for i, raw := range raws {
		if !raw.InOrganization() {
			// kept unparsed so BuildHierarchy counts it as rejected
			out = append(out, position.Record{UnitCode: strings.TrimSpace(raw.UnitCode)})
			continue
		}
		rec, err := raw.Record()
		if err != nil {
			line := raw.Line
			if line == 0 {
				line = i + 1
			}
			return nil, conversionError(structure, line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *StaffingService) build(ctx context.Context, structure Structure) (_ *AggregatedForest, _ *CostTable, err error) {
	started := time.Now()
	defer func() { recordBuild(structure, started, err) }()

	if _, err := ParseStructure(string(structure)); err != nil {
		return nil, nil, err
	}
	table, err := s.costTable(ctx)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.records(ctx, structure)
	if err != nil {
		return nil, nil, err
	}
	forest, err := BuildHierarchy(records, table)
	if err != nil {
		return nil, nil, err
	}
	recordRejected(structure, forest.Rejected)
	if forest.TariffMisses > 0 {
		logWithFields(ctx, logrus.DebugLevel, "staffing.tariffs.missing", logrus.Fields{
			"structure": structure,
			"misses":    forest.TariffMisses,
			"keys":      table.MissedKeys(),
		})
	}

	aggregated, err := AggregateForest(forest)
	if err != nil {
		logWithFields(ctx, logrus.ErrorLevel, "staffing.hierarchy.invalid", logrus.Fields{
			"structure": structure,
			"error":     err.Error(),
		})
		return nil, nil, err
	}
	logWithFields(ctx, logrus.InfoLevel, "staffing.hierarchy.built", logrus.Fields{
		"structure": structure,
		"records":   len(records),
		"rejected":  forest.Rejected,
		"nodes":     forest.Len(),
		"roots":     len(forest.Roots),
	})
	return aggregated, table, nil
}

func (s *StaffingService) Hierarchy(ctx context.Context, structure Structure) (*AggregatedForest, error) {
	aggregated, _, err := s.build(ctx, structure)
	return aggregated, err
}

// FilteredHierarchy returns the whole hierarchy for empty criteria.
func (s *StaffingService) FilteredHierarchy(ctx context.Context, structure Structure, criteria Criteria) (*AggregatedForest, error) {
	aggregated, _, err := s.build(ctx, structure)
	if err != nil || criteria.IsEmpty() {
		return aggregated, err
	}
	filtered, err := FilterHierarchy(aggregated.Forest, criteria.Predicate())
	if err != nil {
		return nil, err
	}
	totals := make(Totals, filtered.Len())
	for code := range filtered.Nodes {
		totals[code] = aggregated.Totals[code]
	}
	logWithFields(ctx, logrus.DebugLevel, "staffing.hierarchy.filtered", logrus.Fields{
		"structure": structure,
		"nodes":     filtered.Len(),
		"of":        aggregated.Len(),
	})
	return &AggregatedForest{Forest: filtered, Totals: totals}, nil
}

func (s *StaffingService) Summary(ctx context.Context, structure Structure) (*Summary, error) {
	aggregated, table, err := s.build(ctx, structure)
	if err != nil {
		return nil, err
	}
	out := &Summary{
		Structure:    structure,
		Nodes:        aggregated.Len(),
		Roots:        len(aggregated.Roots),
		Rejected:     aggregated.Rejected,
		TariffMisses: aggregated.TariffMisses,
		MissedKeys:   table.MissedKeys(),
		Total:        aggregated.GrandTotal(),
	}
	for _, n := range aggregated.Nodes {
		for _, e := range n.Entries {
			out.Positions += e.Quantity
		}
	}
	return out, nil
}

// Comparison exports both structures into the single active template.
func (s *StaffingService) Comparison(ctx context.Context, writer ComparisonWriter) (_ *ComparisonResult, err error) {
	defer func() { recordExport(err) }()

	templates, err := s.repo.ListActiveTemplates(ctx)
	if err != nil {
		return nil, err
	}
	template, err := SelectActiveTemplate(templates)
	if err != nil {
		return nil, err
	}
	current, err := s.repo.ListPositions(ctx, StructureCurrent)
	if err != nil {
		return nil, err
	}
	proposed, err := s.repo.ListPositions(ctx, StructureProposed)
	if err != nil {
		return nil, err
	}

	result, err := ExportComparison(template, writer, current, proposed, s.primaryUnit)
	if err != nil {
		return nil, err
	}
	for _, skipped := range result.Skipped {
		recordSkippedRows(skipped.Structure, 1)
		logWithFields(ctx, logrus.WarnLevel, "staffing.export.row_skipped", logrus.Fields{
			"structure": skipped.Structure,
			"line":      skipped.Line,
			"field":     skipped.Field,
			"value":     skipped.Value,
			"error":     skipped.Err,
		})
	}
	logWithFields(ctx, logrus.InfoLevel, "staffing.export.done", logrus.Fields{
		"template":      template.ID,
		"current_rows":  result.CurrentRows,
		"proposed_rows": result.ProposedRows,
		"skipped":       len(result.Skipped),
	})
	return result, nil
}
