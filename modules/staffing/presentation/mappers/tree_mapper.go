package mappers

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/iota-staffing/modules/staffing/presentation/viewmodels"
	"github.com/iota-uz/iota-staffing/modules/staffing/services"
	"github.com/iota-uz/iota-staffing/pkg/money"
)

// ForestToTree flattens an aggregated forest in pre-order, roots and siblings by code.
// Nodes not reachable from a root are appended at the end, each as its own subtree.
func ForestToTree(structure services.Structure, forest *services.AggregatedForest, currency string) *viewmodels.StaffingTree {
	tree := &viewmodels.StaffingTree{Structure: string(structure), Nodes: []viewmodels.StaffingTreeNode{}}
	if forest == nil || forest.Forest == nil {
		tree.TotalValue = money.Format(decimal.Zero, currency)
		tree.TotalPoints = formatPoints(decimal.Zero)
		return tree
	}

	visited := make(map[string]struct{}, forest.Len())
	var walk func(code string, indent int)
	walk = func(code string, indent int) {
		if _, ok := visited[code]; ok {
			return
		}
		n, ok := forest.Nodes[code]
		if !ok {
			return
		}
		visited[code] = struct{}{}

		totals := forest.Totals[code]
		positions := 0
		for _, e := range n.Entries {
			positions += e.Quantity
		}
		tree.Nodes = append(tree.Nodes, viewmodels.StaffingTreeNode{
			Code:            n.Code,
			ParentCode:      n.ParentCode,
			Acronym:         n.Acronym,
			Denomination:    n.Denomination,
			Path:            n.Path,
			Depth:           n.Depth,
			Indent:          indent,
			Positions:       positions,
			OwnValue:        money.Format(n.Own.Value, currency),
			OwnPoints:       formatPoints(n.Own.Points),
			CumulativeValue: money.Format(totals.Cumulative.Value, currency),
			CumulativePts:   formatPoints(totals.Cumulative.Points),
		})

		children := append([]string(nil), n.Children...)
		sort.Strings(children)
		for _, child := range children {
			walk(child, indent+1)
		}
	}

	roots := append([]string(nil), forest.Roots...)
	sort.Strings(roots)
	for _, r := range roots {
		walk(r, 0)
	}

	if len(visited) != forest.Len() {
		remaining := make([]string, 0, forest.Len()-len(visited))
		for code := range forest.Nodes {
			if _, ok := visited[code]; !ok {
				remaining = append(remaining, code)
			}
		}
		sort.Strings(remaining)
		for _, code := range remaining {
			walk(code, 0)
		}
	}

	total := forest.GrandTotal()
	tree.TotalValue = money.Format(total.Value, currency)
	tree.TotalPoints = formatPoints(total.Points)
	tree.Rejected = forest.Rejected
	return tree
}

func formatPoints(d decimal.Decimal) string {
	return d.StringFixed(2)
}
