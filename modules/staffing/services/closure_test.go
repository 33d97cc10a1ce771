package services

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/position"
	"github.com/iota-uz/iota-staffing/modules/staffing/domain/grafo"
)

func closureForest(t *testing.T) *Forest {
	t.Helper()
	forest, err := BuildHierarchy([]position.Record{
		rec("A", "A", "X", 1, 1, 1),
		rec("A-B", "B", "Y", 1, 1, 1),
		rec("A-B-C", "C", "X", 1, 2, 1),
		rec("A-D", "D", "Y", 1, 1, 1),
		rec("E", "E", "X", 1, 1, 1),
		rec("E-BB", "BB", "X", 1, 1, 1),
	}, pointsTable(t))
	require.NoError(t, err)
	return forest
}

func codes(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestClosure_AcronymLeafPullsAncestors(t *testing.T) {
	forest, err := BuildHierarchy([]position.Record{
		rec("A", "A", "X", 1, 1, 2),
		rec("A-B", "B", "Y", 1, 1, 1),
	}, pointsTable(t))
	require.NoError(t, err)

	got, err := Closure(forest.Nodes, Criteria{Acronyms: []string{"b"}}.Predicate())
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, codes(got))
}

func TestClosure_AncestorsAndDescendants(t *testing.T) {
	forest := closureForest(t)
	got, err := Closure(forest.Nodes, func(n *Node) bool { return n.Code == "B" })
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, codes(got))
}

func TestClosure_SegmentMatchIsExact(t *testing.T) {
	forest := closureForest(t)
	got, err := Closure(forest.Nodes, func(n *Node) bool { return n.Code == "B" })
	require.NoError(t, err)
	require.NotContains(t, got, "BB")
	require.NotContains(t, got, "E")
}

func TestClosure_EmptySeeds(t *testing.T) {
	forest := closureForest(t)
	got, err := Closure(forest.Nodes, func(*Node) bool { return false })
	require.NoError(t, err)
	require.Empty(t, got)

	filtered, err := FilterHierarchy(forest, func(*Node) bool { return false })
	require.NoError(t, err)
	require.Zero(t, filtered.Len())
	require.Empty(t, filtered.Roots)
}

func TestClosure_IdempotentAndMinimal(t *testing.T) {
	forest := closureForest(t)
	predicates := []Predicate{
		func(n *Node) bool { return n.Code == "C" },
		func(n *Node) bool { return n.Code == "D" || n.Code == "BB" },
		Criteria{Levels: []int{2}}.Predicate(),
		Criteria{PositionTypes: []string{"Y"}}.Predicate(),
	}
	for _, pred := range predicates {
		first, err := Closure(forest.Nodes, pred)
		require.NoError(t, err)

		projected := map[string]*Node{}
		for code := range first {
			projected[code] = forest.Nodes[code]
		}
		second, err := Closure(projected, pred)
		require.NoError(t, err)
		require.Equal(t, codes(first), codes(second))

		seeds := map[string]struct{}{}
		for code, n := range forest.Nodes {
			if pred(n) {
				seeds[code] = struct{}{}
			}
		}
		for code := range first {
			n := forest.Nodes[code]
			related := false
			for seed := range seeds {
				if seed == code || grafo.HasSegment(forest.Nodes[seed].Path, code) || grafo.HasSegment(n.Path, seed) {
					related = true
					break
				}
			}
			require.True(t, related, code)
		}
	}
}

func TestFilterHierarchy_Projection(t *testing.T) {
	forest := closureForest(t)
	filtered, err := FilterHierarchy(forest, func(n *Node) bool { return n.Code == "C" })
	require.NoError(t, err)

	require.Equal(t, []string{"A"}, filtered.Roots)
	require.Equal(t, []string{"B"}, filtered.Nodes["A"].Children)
	require.Equal(t, []string{"C"}, filtered.Nodes["B"].Children)
	require.Equal(t, []string{"B", "D"}, forest.Nodes["A"].Children)

	totals, err := Aggregate(filtered)
	require.NoError(t, err)
	requireDecimal(t, "1.5", totals["A"].Cumulative.Points)
}

func TestFilterHierarchy_DescendantOnlyBranchBecomesRoot(t *testing.T) {
	forest := closureForest(t)
	filtered, err := FilterHierarchy(forest, func(n *Node) bool { return n.Code == "E" })
	require.NoError(t, err)
	require.Equal(t, []string{"E"}, filtered.Roots)
	require.Equal(t, []string{"BB"}, filtered.Nodes["E"].Children)
	require.Equal(t, 2, filtered.Len())
}

func TestCriteria(t *testing.T) {
	require.True(t, Criteria{}.IsEmpty())
	require.True(t, Criteria{Denomination: "  "}.IsEmpty())
	require.False(t, Criteria{Levels: []int{0}}.IsEmpty())

	node := &Node{
		Code:         "CTB",
		Acronym:      "ctb",
		Denomination: "Coordenação de Contabilidade",
		Entries:      []Entry{{TypeCode: "FG", Level: 3}},
	}
	require.True(t, Criteria{Acronyms: []string{"CTB"}}.Predicate()(node))
	require.True(t, Criteria{PositionTypes: []string{"FG"}, Levels: []int{3}}.Predicate()(node))
	require.False(t, Criteria{PositionTypes: []string{"FG"}, Levels: []int{4}}.Predicate()(node))
	require.True(t, Criteria{Denomination: "contabilidade"}.Predicate()(node))
	require.True(t, Criteria{Denomination: "coordenacao"}.Predicate()(node))
	require.False(t, Criteria{Denomination: "financeiro"}.Predicate()(node))
}
