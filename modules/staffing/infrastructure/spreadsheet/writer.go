package spreadsheet

import (
	"bytes"
	"strings"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/iota-staffing/modules/staffing/services"
)

var (
	ErrSheetNotFound       = errors.New("sheet not found in template")
	ErrDefinedNameNotFound = errors.New("defined name not found in template")
	ErrRegionTooSmall      = errors.New("rows do not fit in the template region")
)

// region is the rectangle below the header that is cleared before writing. A region taken from a
// defined name is bounded; otherwise it grows to the last used row of the sheet.
type region struct {
	sheet     string
	headerRow int
	firstCol  int
	lastCol   int
	lastRow   int
	bounded   bool
}

func (r region) overlaps(startCol, startRow, endCol, endRow int) bool {
	return startRow <= r.lastRow && endRow > r.headerRow && startCol <= r.lastCol && endCol >= r.firstCol
}

// Writer implements services.ComparisonWriter for one layout.
type Writer struct {
	Layout Layout
}

func NewWriter(layout Layout) *Writer {
	return &Writer{Layout: layout}
}

func (w *Writer) WriteComparison(template []byte, current, proposed []services.ExportRow) ([]byte, error) {
	return WriteComparison(template, w.Layout, current, proposed)
}

// WriteComparison fills a copy of template: current rows in the current block, proposed rows in
// the proposed block, both starting right below the header. The header row is left as is.
func WriteComparison(template []byte, layout Layout, current, proposed []services.ExportRow) ([]byte, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(template))
	if err != nil {
		return nil, errors.Wrap(err, "open template")
	}
	defer func() { _ = f.Close() }()

	reg, err := resolveRegion(f, layout)
	if err != nil {
		return nil, err
	}
	if n := max(len(current), len(proposed)); reg.bounded && reg.headerRow+n > reg.lastRow {
		return nil, errors.Wrapf(ErrRegionTooSmall, "%d rows, %d available in %q",
			n, reg.lastRow-reg.headerRow, layout.DefinedName)
	}
	if err := clearRegion(f, reg); err != nil {
		return nil, err
	}
	if err := writeBlock(f, reg, layout.Current, current); err != nil {
		return nil, errors.Wrap(err, "write current block")
	}
	if err := writeBlock(f, reg, layout.Proposed, proposed); err != nil {
		return nil, errors.Wrap(err, "write proposed block")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "serialize workbook")
	}
	return buf.Bytes(), nil
}

func resolveRegion(f *excelize.File, layout Layout) (region, error) {
	reg := region{sheet: layout.Sheet, headerRow: layout.HeaderRow}
	reg.firstCol, reg.lastCol = layout.columnSpan()

	if layout.DefinedName != "" {
		sheet, startCol, startRow, endCol, endRow, err := lookupDefinedName(f, layout.DefinedName)
		if err != nil {
			return region{}, err
		}
		reg.sheet = sheet
		reg.headerRow = startRow
		reg.firstCol, reg.lastCol = startCol, endCol
		reg.lastRow = endRow
		reg.bounded = true
	}

	if reg.sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return region{}, ErrSheetNotFound
		}
		reg.sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(reg.sheet); err != nil || idx < 0 {
		return region{}, errors.Wrapf(ErrSheetNotFound, "%q", reg.sheet)
	}

	if reg.bounded {
		return reg, nil
	}
	rows, err := f.GetRows(reg.sheet)
	if err != nil {
		return region{}, errors.Wrapf(err, "read sheet %q", reg.sheet)
	}
	if len(rows) > reg.lastRow {
		reg.lastRow = len(rows)
	}
	return reg, nil
}

// lookupDefinedName resolves a workbook name such as "'Quadro'!$A$3:$M$200".
func lookupDefinedName(f *excelize.File, name string) (sheet string, startCol, startRow, endCol, endRow int, err error) {
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, name) {
			continue
		}
		ref := strings.TrimPrefix(dn.RefersTo, "=")
		bang := strings.LastIndex(ref, "!")
		if bang < 0 {
			return "", 0, 0, 0, 0, errors.Errorf("defined name %q: no sheet in %q", name, dn.RefersTo)
		}
		sheet = strings.Trim(ref[:bang], "'")
		cells := strings.Split(strings.ReplaceAll(ref[bang+1:], "$", ""), ":")
		if len(cells) == 1 {
			cells = append(cells, cells[0])
		}
		if startCol, startRow, err = excelize.CellNameToCoordinates(cells[0]); err != nil {
			return "", 0, 0, 0, 0, errors.Wrapf(err, "defined name %q", name)
		}
		if endCol, endRow, err = excelize.CellNameToCoordinates(cells[1]); err != nil {
			return "", 0, 0, 0, 0, errors.Wrapf(err, "defined name %q", name)
		}
		return sheet, startCol, startRow, endCol, endRow, nil
	}
	return "", 0, 0, 0, 0, errors.Wrapf(ErrDefinedNameNotFound, "%q", name)
}

func clearRegion(f *excelize.File, reg region) error {
	merges, err := f.GetMergeCells(reg.sheet)
	if err != nil {
		return errors.Wrap(err, "list merged cells")
	}
	for _, m := range merges {
		startCol, startRow, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			return errors.Wrap(err, "merged cell start")
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err != nil {
			return errors.Wrap(err, "merged cell end")
		}
		if !reg.overlaps(startCol, startRow, endCol, endRow) {
			continue
		}
		if err := f.UnmergeCell(reg.sheet, m.GetStartAxis(), m.GetEndAxis()); err != nil {
			return errors.Wrapf(err, "unmerge %s:%s", m.GetStartAxis(), m.GetEndAxis())
		}
		// the part of the merge at or above the header row is restored
		if startRow <= reg.headerRow {
			headEnd, err := excelize.CoordinatesToCellName(endCol, reg.headerRow)
			if err != nil {
				return errors.Wrap(err, "cell name")
			}
			if headEnd != m.GetStartAxis() {
				if err := f.MergeCell(reg.sheet, m.GetStartAxis(), headEnd); err != nil {
					return errors.Wrapf(err, "merge %s:%s", m.GetStartAxis(), headEnd)
				}
			}
		}
	}

	for row := reg.headerRow + 1; row <= reg.lastRow; row++ {
		for col := reg.firstCol; col <= reg.lastCol; col++ {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return errors.Wrap(err, "cell name")
			}
			if formula, _ := f.GetCellFormula(reg.sheet, cell); formula != "" {
				if err := f.SetCellFormula(reg.sheet, cell, ""); err != nil {
					return errors.Wrapf(err, "clear formula %s", cell)
				}
			}
			if err := f.SetCellValue(reg.sheet, cell, nil); err != nil {
				return errors.Wrapf(err, "clear %s", cell)
			}
		}
	}
	return nil
}

func writeBlock(f *excelize.File, reg region, block Block, rows []services.ExportRow) error {
	for i, row := range rows {
		r := reg.headerRow + 1 + i
		for field, col := range block.Columns {
			n, err := excelize.ColumnNameToNumber(col)
			if err != nil {
				return err
			}
			cell, err := excelize.CoordinatesToCellName(n, r)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(reg.sheet, cell, fieldValue(row, field)); err != nil {
				return errors.Wrapf(err, "set %s", cell)
			}
		}
	}
	return nil
}

func fieldValue(row services.ExportRow, field string) any {
	switch field {
	case FieldUnitCode:
		return row.UnitCode
	case FieldUnitName:
		return row.UnitName
	case FieldUnitAcronym:
		return row.UnitAcronym
	case FieldPath:
		return row.Path
	case FieldTypeCode:
		return row.TypeCode
	case FieldDenomination:
		return row.Denomination
	case FieldCategory:
		return row.Category
	case FieldLevel:
		return row.Level
	case FieldQuantity:
		return row.Quantity
	default:
		return nil
	}
}
