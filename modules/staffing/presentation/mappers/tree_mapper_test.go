package mappers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/position"
	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/tariff"
	"github.com/iota-uz/iota-staffing/modules/staffing/services"
	"github.com/iota-uz/iota-staffing/pkg/money"
)

func aggregated(t *testing.T, records []position.Record) *services.AggregatedForest {
	t.Helper()
	table, err := services.BuildCostTable([]tariff.Raw{
		{TypeCode: "X", Category: "1", Level: "1", Value: "1.000,00", Points: "1"},
		{TypeCode: "Y", Category: "1", Level: "1", Value: "250,50", Points: "0,5"},
	})
	require.NoError(t, err)
	forest, err := services.BuildHierarchy(records, table)
	require.NoError(t, err)
	out, err := services.AggregateForest(forest)
	require.NoError(t, err)
	return out
}

func record(path, typeCode string, quantity int) position.Record {
	return position.Record{TypeCode: typeCode, Category: 1, Level: 1, Quantity: quantity, Path: path}
}

func TestForestToTree_PreOrderByCode(t *testing.T) {
	forest := aggregated(t, []position.Record{
		record("R-B", "Y", 1),
		record("R-A-A1", "X", 1),
		record("R", "X", 2),
		record("R-A", "Y", 2),
		record("Q", "X", 1),
	})

	tree := ForestToTree(services.StructureCurrent, forest, money.DefaultCurrency)
	require.Len(t, tree.Nodes, 5)

	codes := make([]string, 0, len(tree.Nodes))
	indents := make([]int, 0, len(tree.Nodes))
	for _, n := range tree.Nodes {
		codes = append(codes, n.Code)
		indents = append(indents, n.Indent)
	}
	require.Equal(t, []string{"Q", "R", "A", "A1", "B"}, codes)
	require.Equal(t, []int{0, 0, 1, 2, 1}, indents)

	r := tree.Nodes[1]
	require.Equal(t, 2, r.Positions)
	require.Equal(t, "R$2.000,00", r.OwnValue)
	require.Equal(t, "R$3.751,50", r.CumulativeValue)
	require.Equal(t, "4.50", r.CumulativePts)
	require.Equal(t, "R$4.751,50", tree.TotalValue)
	require.Equal(t, "current", tree.Structure)
}

func TestForestToTree_RootBelowTopKeepsPathDepth(t *testing.T) {
	forest := aggregated(t, []position.Record{
		record("R-A", "Y", 1),
		record("R-A-A1", "X", 1),
	})

	tree := ForestToTree(services.StructureProposed, forest, "")
	require.Len(t, tree.Nodes, 2)
	require.Equal(t, "A", tree.Nodes[0].Code)
	require.Equal(t, 1, tree.Nodes[0].Depth)
	require.Zero(t, tree.Nodes[0].Indent)
	require.Equal(t, "R$1.250,50", tree.Nodes[0].CumulativeValue)
	require.Equal(t, 1, tree.Nodes[1].Indent)
}

func TestForestToTree_Nil(t *testing.T) {
	tree := ForestToTree(services.StructureCurrent, nil, "")
	require.Empty(t, tree.Nodes)
	require.Equal(t, "R$0,00", tree.TotalValue)
}
