// Package files serves the staffing repository from a directory of CSV and XLSX files.
//
//	positions_current.csv | positions_current.xlsx
//	positions_proposed.csv | positions_proposed.xlsx
//	tariffs.csv
//	templates/<id>.active.xlsx   active comparison templates
//	templates/<id>.xlsx          inactive templates
package files

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-faster/errors"

	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/position"
	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/tariff"
	"github.com/iota-uz/iota-staffing/modules/staffing/infrastructure/spreadsheet"
	"github.com/iota-uz/iota-staffing/modules/staffing/services"
)

const (
	TariffsFile  = "tariffs.csv"
	TemplatesDir = "templates"
	ActiveSuffix = ".active.xlsx"
)

var ErrSnapshotNotFound = errors.New("snapshot file not found")

var positionColumns = map[string]string{
	"unit_code": "unit_code", "unidade": "unit_code", "codigo_unidade": "unit_code",
	"unit_name": "unit_name", "nome_unidade": "unit_name",
	"unit_acronym": "unit_acronym", "sigla": "unit_acronym",
	"type_code": "type_code", "tipo": "type_code", "tipo_cargo": "type_code",
	"denomination": "denomination", "denominacao": "denomination",
	"category": "category", "categoria": "category",
	"level": "level", "nivel": "level",
	"quantity": "quantity", "quantidade": "quantity",
	"path": "path", "grafo": "path",
}

var tariffColumns = map[string]string{
	"type_code": "type_code", "tipo": "type_code", "tipo_cargo": "type_code",
	"category": "category", "categoria": "category",
	"level": "level", "nivel": "level",
	"value": "value", "valor": "value",
	"points": "points", "pontos": "points",
}

type Repository struct {
	dir string
}

func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

func (r *Repository) ListPositions(ctx context.Context, structure services.Structure) ([]position.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.readSnapshot("positions_" + string(structure))
	if err != nil {
		return nil, err
	}
	t, err := newTable(rows, positionColumns, []string{"type_code", "category", "level", "quantity", "path"})
	if err != nil {
		return nil, errors.Wrapf(err, "positions %s", structure)
	}

	out := make([]position.Raw, 0, len(t.rows))
	for i, row := range t.rows {
		if isBlankRow(row) {
			continue
		}
		out = append(out, position.Raw{
			Line:         i + 2,
			UnitCode:     t.get(row, "unit_code"),
			UnitName:     t.get(row, "unit_name"),
			UnitAcronym:  t.get(row, "unit_acronym"),
			TypeCode:     t.get(row, "type_code"),
			Denomination: t.get(row, "denomination"),
			Category:     t.get(row, "category"),
			Level:        t.get(row, "level"),
			Quantity:     t.get(row, "quantity"),
			Path:         t.get(row, "path"),
		})
	}
	return out, nil
}

func (r *Repository) ListTariffs(ctx context.Context) ([]tariff.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(filepath.Join(r.dir, TariffsFile))
	if err != nil {
		return nil, errors.Wrap(err, "read tariffs")
	}
	rows, err := readCSV(bytes.NewReader(content))
	if err != nil {
		return nil, errors.Wrap(err, "tariffs")
	}
	t, err := newTable(rows, tariffColumns, []string{"type_code", "category", "level"})
	if err != nil {
		return nil, errors.Wrap(err, "tariffs")
	}

	out := make([]tariff.Raw, 0, len(t.rows))
	for i, row := range t.rows {
		if isBlankRow(row) {
			continue
		}
		out = append(out, tariff.Raw{
			Line:     i + 2,
			TypeCode: t.get(row, "type_code"),
			Category: t.get(row, "category"),
			Level:    t.get(row, "level"),
			Value:    t.get(row, "value"),
			Points:   t.get(row, "points"),
		})
	}
	return out, nil
}

// ListActiveTemplates returns every templates/*.active.xlsx, ordered by id.
func (r *Repository) ListActiveTemplates(ctx context.Context) ([]services.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(r.dir, TemplatesDir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "list templates")
	}

	out := make([]services.Template, 0)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(name), ActiveSuffix) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(r.dir, TemplatesDir, name))
		if err != nil {
			return nil, errors.Wrapf(err, "read template %s", name)
		}
		out = append(out, services.Template{
			ID:      name[:len(name)-len(ActiveSuffix)],
			Name:    name,
			Content: content,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) readSnapshot(base string) ([][]string, error) {
	csvPath := filepath.Join(r.dir, base+".csv")
	if content, err := os.ReadFile(csvPath); err == nil {
		return readCSV(bytes.NewReader(content))
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(err, "read %s", csvPath)
	}

	xlsxPath := filepath.Join(r.dir, base+".xlsx")
	content, err := os.ReadFile(xlsxPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(ErrSnapshotNotFound, "%s.csv or %s.xlsx in %s", base, base, r.dir)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", xlsxPath)
	}
	return spreadsheet.ReadRows(content, "")
}
