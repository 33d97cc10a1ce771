package spreadsheet

import (
	"os"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Fields that a block can place in a column.
const (
	FieldUnitCode     = "unit_code"
	FieldUnitName     = "unit_name"
	FieldUnitAcronym  = "unit_acronym"
	FieldPath         = "path"
	FieldTypeCode     = "type_code"
	FieldDenomination = "denomination"
	FieldCategory     = "category"
	FieldLevel        = "level"
	FieldQuantity     = "quantity"
)

var knownFields = map[string]struct{}{
	FieldUnitCode: {}, FieldUnitName: {}, FieldUnitAcronym: {}, FieldPath: {}, FieldTypeCode: {},
	FieldDenomination: {}, FieldCategory: {}, FieldLevel: {}, FieldQuantity: {},
}

// Block maps row fields to column letters.
type Block struct {
	Columns map[string]string `yaml:"columns"`
}

// Layout describes where the comparison goes in the template.
//
// The cleared region spans from the row below HeaderRow to the last used row, across the
// columns of both blocks. When DefinedName is set, the workbook name resolves sheet, header
// row (the first row of the range) and columns instead.
type Layout struct {
	Sheet       string `yaml:"sheet"`
	HeaderRow   int    `yaml:"header_row"`
	DefinedName string `yaml:"defined_name"`
	Current     Block  `yaml:"current"`
	Proposed    Block  `yaml:"proposed"`
}

func DefaultLayout() Layout {
	return Layout{
		HeaderRow: 1,
		Current: Block{Columns: map[string]string{
			FieldUnitAcronym:  "A",
			FieldDenomination: "B",
			FieldTypeCode:     "C",
			FieldCategory:     "D",
			FieldLevel:        "E",
			FieldQuantity:     "F",
		}},
		Proposed: Block{Columns: map[string]string{
			FieldUnitAcronym:  "H",
			FieldDenomination: "I",
			FieldTypeCode:     "J",
			FieldCategory:     "K",
			FieldLevel:        "L",
			FieldQuantity:     "M",
		}},
	}
}

func ParseLayout(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(err, "decode layout")
	}
	if l.HeaderRow == 0 && l.DefinedName == "" {
		l.HeaderRow = 1
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// LoadLayout reads a YAML layout file. An empty path yields DefaultLayout.
func LoadLayout(path string) (Layout, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultLayout(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, errors.Wrapf(err, "read layout %s", path)
	}
	return ParseLayout(data)
}

func (l Layout) Validate() error {
	if l.HeaderRow < 0 {
		return errors.Errorf("layout: header_row must be positive, got %d", l.HeaderRow)
	}
	if l.DefinedName == "" && l.HeaderRow == 0 {
		return errors.New("layout: header_row or defined_name is required")
	}
	for name, b := range map[string]Block{"current": l.Current, "proposed": l.Proposed} {
		if len(b.Columns) == 0 {
			return errors.Errorf("layout: %s block has no columns", name)
		}
		for field, col := range b.Columns {
			if _, ok := knownFields[field]; !ok {
				return errors.Errorf("layout: %s block: unknown field %q", name, field)
			}
			if _, err := excelize.ColumnNameToNumber(col); err != nil {
				return errors.Wrapf(err, "layout: %s block: column of %s", name, field)
			}
		}
	}
	return nil
}

// columnSpan returns the lowest and highest column numbers used by both blocks.
func (l Layout) columnSpan() (int, int) {
	nums := make([]int, 0, len(l.Current.Columns)+len(l.Proposed.Columns))
	for _, b := range []Block{l.Current, l.Proposed} {
		for _, col := range b.Columns {
			n, err := excelize.ColumnNameToNumber(col)
			if err == nil {
				nums = append(nums, n)
			}
		}
	}
	if len(nums) == 0 {
		return 0, 0
	}
	sort.Ints(nums)
	return nums[0], nums[len(nums)-1]
}
