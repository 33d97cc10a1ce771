package tariff

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/iota-staffing/pkg/money"
)

var ErrInvalidTariff = errors.New("invalid tariff row")

// Key formats the lookup key of a tariff: type, category and zero-padded level ("X 1 05").
func Key(typeCode string, category, level int) string {
	return fmt.Sprintf("%s %d %02d", strings.TrimSpace(typeCode), category, level)
}

// Entry is the unit cost of one position of the given type, category and level.
type Entry struct {
	TypeCode string          `json:"type_code"`
	Category int             `json:"category"`
	Level    int             `json:"level"`
	Value    decimal.Decimal `json:"value"`
	Points   decimal.Decimal `json:"points"`
}

func (e Entry) Key() string {
	return Key(e.TypeCode, e.Category, e.Level)
}

// Raw is a tariff row as stored, amounts in locale notation ("R$ 1.234,56").
type Raw struct {
	Line     int
	TypeCode string
	Category string
	Level    string
	Value    string
	Points   string
}

// Entry parses r. Blank amounts are zero; anything else unparsable is an error naming the row.
func (r Raw) Entry() (Entry, error) {
	typeCode := strings.TrimSpace(r.TypeCode)
	if typeCode == "" {
		return Entry{}, fmt.Errorf("%w: line %d: type code is empty", ErrInvalidTariff, r.Line)
	}
	category, err := strconv.Atoi(strings.TrimSpace(r.Category))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: line %d: category %q", ErrInvalidTariff, r.Line, r.Category)
	}
	level, err := strconv.Atoi(strings.TrimSpace(r.Level))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: line %d: level %q", ErrInvalidTariff, r.Line, r.Level)
	}
	e := Entry{TypeCode: typeCode, Category: category, Level: level}

	if e.Value, err = parseAmount(r.Value); err != nil {
		return Entry{}, fmt.Errorf("%w: %s value: %w", ErrInvalidTariff, e.Key(), err)
	}
	if e.Points, err = parseAmount(r.Points); err != nil {
		return Entry{}, fmt.Errorf("%w: %s points: %w", ErrInvalidTariff, e.Key(), err)
	}
	return e, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := money.ParseLocale(raw)
	if errors.Is(err, money.ErrEmptyAmount) {
		return decimal.Zero, nil
	}
	return d, err
}
