package spreadsheet

import (
	"bytes"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// ReadRows returns the cell text of sheet, or of the first sheet when sheet is empty.
func ReadRows(content []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.Wrapf(ErrSheetNotFound, "%q", sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheet)
	}
	return rows, nil
}
