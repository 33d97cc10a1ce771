package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/position"
	"github.com/iota-uz/iota-staffing/modules/staffing/domain/grafo"
)

// ExportRow is one merged line of the comparison sheet: all positions of one
// (unit, type, category, level) with their quantities summed. UnitCode is the last segment of the
// path, the same code the hierarchy uses for the node.
type ExportRow struct {
	UnitCode     string `json:"unit_code"`
	UnitName     string `json:"unit_name"`
	UnitAcronym  string `json:"unit_acronym"`
	Path         string `json:"path"`
	TypeCode     string `json:"type_code"`
	Denomination string `json:"denomination"`
	Category     int    `json:"category"`
	Level        int    `json:"level"`
	Quantity     int    `json:"quantity"`
}

type PrepareOptions struct {
	Structure Structure
	// PrimaryUnit is the top-level unit listed before every other branch.
	PrimaryUnit string
}

type ComparisonResult struct {
	Content      []byte
	Skipped      []*RowConversionError
	CurrentRows  int
	ProposedRows int
}

// ComparisonWriter places prepared rows into a template workbook.
type ComparisonWriter interface {
	WriteComparison(template []byte, current, proposed []ExportRow) ([]byte, error)
}

type exportKey struct {
	unit     string
	typeCode string
	category int
	level    int
}

// PrepareRows converts, groups and orders one snapshot. Rows that cannot be converted are
// skipped and returned as errors; rows without an ancestor path are skipped silently.
func PrepareRows(raws []position.Raw, opts PrepareOptions) ([]ExportRow, []*RowConversionError) {
	var skipped []*RowConversionError
	groups := map[exportKey]*ExportRow{}
	order := make([]exportKey, 0)

	for i, raw := range raws {
		if !raw.InOrganization() {
			continue
		}
		line := raw.Line
		if line == 0 {
			line = i + 1
		}
		rec, err := raw.Record()
		if err != nil {
			skipped = append(skipped, conversionError(opts.Structure, line, err))
			continue
		}
		p, err := grafo.Decode(rec.Path)
		if err != nil {
			skipped = append(skipped, &RowConversionError{
				Structure: opts.Structure, Line: line, Field: "path", Value: rec.Path, Err: err,
			})
			continue
		}

		unit := p.Own
		key := exportKey{unit: unit, typeCode: rec.TypeCode, category: rec.Category, level: rec.Level}
		if row, ok := groups[key]; ok {
			row.Quantity += rec.Quantity
			continue
		}
		groups[key] = &ExportRow{
			UnitCode:     unit,
			UnitName:     rec.UnitName,
			UnitAcronym:  rec.UnitAcronym,
			Path:         grafo.Encode(p.Ancestors...),
			TypeCode:     rec.TypeCode,
			Denomination: rec.Denomination,
			Category:     rec.Category,
			Level:        rec.Level,
			Quantity:     rec.Quantity,
		}
		order = append(order, key)
	}

	rows := make([]ExportRow, 0, len(order))
	for _, key := range order {
		rows = append(rows, *groups[key])
	}
	SortExportRows(rows, opts.PrimaryUnit)
	return rows, skipped
}

func conversionError(structure Structure, line int, err error) *RowConversionError {
	out := &RowConversionError{Structure: structure, Line: line, Err: err}
	var fe *position.FieldError
	if errors.As(err, &fe) {
		out.Field = fe.Field
		out.Value = fe.Value
	}
	return out
}

// SortExportRows orders rows unit by unit (primary branch first, then by path) and, inside a
// unit, senior first: level descending, then category, type and denomination ascending.
func SortExportRows(rows []ExportRow, primaryUnit string) {
	unitPaths := map[string][]string{}
	for _, r := range rows {
		segments := grafo.Segments(r.Path)
		if current, ok := unitPaths[r.UnitCode]; !ok || compareSegments(segments, current) < 0 {
			unitPaths[r.UnitCode] = segments
		}
	}
	primaryUnit = strings.TrimSpace(primaryUnit)

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.UnitCode != b.UnitCode {
			pa, pb := unitPaths[a.UnitCode], unitPaths[b.UnitCode]
			ap, bp := isPrimary(pa, primaryUnit), isPrimary(pb, primaryUnit)
			if ap != bp {
				return ap
			}
			if pa[0] != pb[0] {
				return pa[0] < pb[0]
			}
			if c := compareSegments(pa, pb); c != 0 {
				return c < 0
			}
			return a.UnitCode < b.UnitCode
		}
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.TypeCode != b.TypeCode {
			return a.TypeCode < b.TypeCode
		}
		return a.Denomination < b.Denomination
	})
}

func isPrimary(segments []string, primaryUnit string) bool {
	return primaryUnit != "" && len(segments) > 0 && segments[0] == primaryUnit
}

// compareSegments orders element-wise; a path sorts before its extensions.
func compareSegments(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// ExportComparison prepares both snapshots and writes them side by side into the template.
func ExportComparison(template Template, writer ComparisonWriter, current, proposed []position.Raw, primaryUnit string) (*ComparisonResult, error) {
	currentRows, currentSkipped := PrepareRows(current, PrepareOptions{Structure: StructureCurrent, PrimaryUnit: primaryUnit})
	proposedRows, proposedSkipped := PrepareRows(proposed, PrepareOptions{Structure: StructureProposed, PrimaryUnit: primaryUnit})

	content, err := writer.WriteComparison(template.Content, currentRows, proposedRows)
	if err != nil {
		return nil, err
	}
	return &ComparisonResult{
		Content:      content,
		Skipped:      append(currentSkipped, proposedSkipped...),
		CurrentRows:  len(currentRows),
		ProposedRows: len(proposedRows),
	}, nil
}
