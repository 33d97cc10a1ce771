package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/position"
	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/tariff"
)

func rec(path, acronym, typeCode string, category, level, quantity int) position.Record {
	return position.Record{
		UnitAcronym:  acronym,
		TypeCode:     typeCode,
		Denomination: typeCode + " position",
		Category:     category,
		Level:        level,
		Quantity:     quantity,
		Path:         path,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func pointsTable(t *testing.T) *CostTable {
	t.Helper()
	table, err := NewCostTable([]tariff.Entry{
		{TypeCode: "X", Category: 1, Level: 1, Value: dec("1000"), Points: dec("1.0")},
		{TypeCode: "Y", Category: 1, Level: 1, Value: dec("250.50"), Points: dec("0.5")},
	})
	require.NoError(t, err)
	return table
}
