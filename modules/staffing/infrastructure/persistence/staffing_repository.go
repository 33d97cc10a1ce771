package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/position"
	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/tariff"
	"github.com/iota-uz/iota-staffing/modules/staffing/services"
	"github.com/iota-uz/iota-staffing/pkg/composables"
)

// Numeric columns are read as text so that the conversion rules stay in the domain.
const (
	listPositionsSQL = `
SELECT
	line_no,
	COALESCE(unit_code, ''),
	COALESCE(unit_name, ''),
	COALESCE(unit_acronym, ''),
	COALESCE(type_code, ''),
	COALESCE(denomination, ''),
	COALESCE(category::text, ''),
	COALESCE(level::text, ''),
	COALESCE(quantity::text, ''),
	COALESCE(path, '')
FROM staffing_positions
WHERE structure = $1
ORDER BY line_no`

	listTariffsSQL = `
SELECT
	line_no,
	COALESCE(type_code, ''),
	COALESCE(category::text, ''),
	COALESCE(level::text, ''),
	COALESCE(value, ''),
	COALESCE(points, '')
FROM staffing_tariffs
ORDER BY line_no`

	listActiveTemplatesSQL = `
SELECT id::text, name, content
FROM staffing_templates
WHERE is_active
ORDER BY id`
)

type StaffingRepository struct{}

func NewStaffingRepository() services.Repository {
	return &StaffingRepository{}
}

func (r *StaffingRepository) ListPositions(ctx context.Context, structure services.Structure) ([]position.Raw, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, listPositionsSQL, string(structure))
	if err != nil {
		return nil, errors.Wrap(err, "query positions")
	}
	return collect(rows, func(row pgx.Rows) (position.Raw, error) {
		var p position.Raw
		err := row.Scan(
			&p.Line,
			&p.UnitCode,
			&p.UnitName,
			&p.UnitAcronym,
			&p.TypeCode,
			&p.Denomination,
			&p.Category,
			&p.Level,
			&p.Quantity,
			&p.Path,
		)
		return p, errors.Wrap(err, "scan position")
	})
}

func (r *StaffingRepository) ListTariffs(ctx context.Context) ([]tariff.Raw, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, listTariffsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "query tariffs")
	}
	return collect(rows, func(row pgx.Rows) (tariff.Raw, error) {
		var t tariff.Raw
		err := row.Scan(&t.Line, &t.TypeCode, &t.Category, &t.Level, &t.Value, &t.Points)
		return t, errors.Wrap(err, "scan tariff")
	})
}

func (r *StaffingRepository) ListActiveTemplates(ctx context.Context) ([]services.Template, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, listActiveTemplatesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "query templates")
	}
	return collect(rows, func(row pgx.Rows) (services.Template, error) {
		var t services.Template
		err := row.Scan(&t.ID, &t.Name, &t.Content)
		return t, errors.Wrap(err, "scan template")
	})
}

func collect[T any](rows pgx.Rows, scan func(pgx.Rows) (T, error)) ([]T, error) {
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate rows")
	}
	return out, nil
}
