package position

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/iota-staffing/modules/staffing/domain/grafo"
	"github.com/iota-uz/iota-staffing/pkg/constants"
)

var (
	ErrNotInteger = errors.New("not an integer")
	ErrInvalid    = errors.New("invalid position record")
)

// Record is one staffing row: Quantity positions of one type/category/level inside a unit.
type Record struct {
	UnitCode     string `json:"unit_code"`
	UnitName     string `json:"unit_name"`
	UnitAcronym  string `json:"unit_acronym"`
	TypeCode     string `json:"type_code" validate:"required"`
	Denomination string `json:"denomination"`
	Category     int    `json:"category" validate:"gte=0"`
	Level        int    `json:"level" validate:"gte=0"`
	Quantity     int    `json:"quantity" validate:"gte=0"`
	Path         string `json:"path"`
}

// InOrganization is false for rejected rows (no ancestor path).
func (r Record) InOrganization() bool {
	return !grafo.IsBlank(r.Path)
}

// FieldError describes the first field that prevented a record from being built.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// New normalizes and validates r.
func New(r Record) (Record, error) {
	r.UnitCode = strings.TrimSpace(r.UnitCode)
	r.UnitName = strings.TrimSpace(r.UnitName)
	r.UnitAcronym = strings.TrimSpace(r.UnitAcronym)
	r.TypeCode = strings.TrimSpace(r.TypeCode)
	r.Denomination = strings.TrimSpace(r.Denomination)
	r.Path = strings.TrimSpace(r.Path)

	if err := constants.Validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return Record{}, &FieldError{
				Field: fe.Field(),
				Value: fmt.Sprint(fe.Value()),
				Err:   fmt.Errorf("%w: failed %s", ErrInvalid, fe.Tag()),
			}
		}
		return Record{}, err
	}
	return r, nil
}

// Raw is a record as read from storage or a file, numeric columns still unparsed.
type Raw struct {
	Line         int
	UnitCode     string
	UnitName     string
	UnitAcronym  string
	TypeCode     string
	Denomination string
	Category     string
	Level        string
	Quantity     string
	Path         string
}

// InOrganization mirrors Record.InOrganization before any field is parsed, so rejected rows can
// be set aside without validating them.
func (r Raw) InOrganization() bool {
	return !grafo.IsBlank(r.Path)
}

func (r Raw) Record() (Record, error) {
	category, err := parseInt("category", r.Category)
	if err != nil {
		return Record{}, err
	}
	level, err := parseInt("level", r.Level)
	if err != nil {
		return Record{}, err
	}
	quantity, err := parseInt("quantity", r.Quantity)
	if err != nil {
		return Record{}, err
	}
	return New(Record{
		UnitCode:     r.UnitCode,
		UnitName:     r.UnitName,
		UnitAcronym:  r.UnitAcronym,
		TypeCode:     r.TypeCode,
		Denomination: r.Denomination,
		Category:     category,
		Level:        level,
		Quantity:     quantity,
		Path:         r.Path,
	})
}

// parseInt accepts plain integers and integral spreadsheet renderings such as "5,0" or "5.00".
func parseInt(field, raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &FieldError{Field: field, Value: raw, Err: ErrNotInteger}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil || !d.IsInteger() {
		return 0, &FieldError{Field: field, Value: raw, Err: ErrNotInteger}
	}
	return int(d.IntPart()), nil
}
