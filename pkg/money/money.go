package money

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency tariff tables are expressed in.
const DefaultCurrency = gomoney.BRL

var (
	ErrEmptyAmount   = errors.New("amount is empty")
	ErrInvalidAmount = errors.New("amount is invalid")
)

var plainAmount = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// ParseLocale parses amounts written with "." as thousands separator and "," as decimal
// separator, optionally prefixed by a currency symbol ("R$ 1.234,56", "-1.000", "0,5").
func ParseLocale(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "\u00a0", " "))
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimSpace(s[1:])
	}
	s = stripCurrency(s)
	if strings.HasPrefix(s, "-") {
		if negative {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
		}
		negative = true
		s = strings.TrimSpace(s[1:])
	}

	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	if strings.Count(s, ",") > 1 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	s = strings.Replace(s, ",", ".", 1)
	if negative {
		s = "-" + s
	}
	if !plainAmount.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return decimal.NewFromString(s)
}

func stripCurrency(s string) string {
	for _, prefix := range []string{"R$", "BRL", "$"} {
		if strings.HasPrefix(strings.ToUpper(s), prefix) {
			return strings.TrimSpace(s[len(prefix):])
		}
	}
	return s
}

// Format renders d in the given currency, rounding half-up to the currency's minor unit.
func Format(d decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	c := gomoney.GetCurrency(currency)
	if c == nil {
		return d.StringFixed(2)
	}
	minor := d.Shift(int32(c.Fraction)).Round(0).IntPart()
	return gomoney.New(minor, c.Code).Display()
}
