package services

import (
	"sort"

	"github.com/shopspring/decimal"
)

type NodeTotals struct {
	Own        Amount `json:"own"`
	Cumulative Amount `json:"cumulative"`
}

// Totals maps a node code to its own and cumulative amounts.
type Totals map[string]NodeTotals

// AggregatedForest pairs a forest with the totals computed for it.
type AggregatedForest struct {
	*Forest
	Totals Totals
}

// GrandTotal sums the cumulative totals of the roots.
func (a *AggregatedForest) GrandTotal() Amount {
	out := Amount{Value: decimal.Zero, Points: decimal.Zero}
	if a == nil || a.Forest == nil {
		return out
	}
	for _, root := range a.Roots {
		out = out.Add(a.Totals[root].Cumulative)
	}
	return out
}

func AggregateForest(forest *Forest) (*AggregatedForest, error) {
	totals, err := Aggregate(forest)
	if err != nil {
		return nil, err
	}
	return &AggregatedForest{Forest: forest, Totals: totals}, nil
}

type aggregationFrame struct {
	code string
	next int
}

// Aggregate computes cumulative totals bottom-up without touching the forest. Every node must be
// reachable from a root; anything else sits on a parent cycle and is reported as such.
func Aggregate(forest *Forest) (Totals, error) {
	if forest == nil {
		return Totals{}, nil
	}
	totals := make(Totals, len(forest.Nodes))

	for _, root := range forest.Roots {
		if _, ok := forest.Nodes[root]; !ok {
			continue
		}
		if _, ok := totals[root]; ok {
			continue
		}
		if err := aggregateFrom(forest, root, totals); err != nil {
			return nil, err
		}
	}

	if len(totals) != len(forest.Nodes) {
		unreached := make([]string, 0, len(forest.Nodes)-len(totals))
		for code := range forest.Nodes {
			if _, ok := totals[code]; !ok {
				unreached = append(unreached, code)
			}
		}
		sort.Strings(unreached)
		return nil, &CyclicHierarchyError{Code: cycleMember(forest, unreached[0])}
	}
	return totals, nil
}

func aggregateFrom(forest *Forest, root string, totals Totals) error {
	visiting := map[string]struct{}{root: {}}
	stack := []aggregationFrame{{code: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		node := forest.Nodes[top.code]

		if top.next < len(node.Children) {
			child := node.Children[top.next]
			top.next++
			if _, ok := forest.Nodes[child]; !ok {
				continue
			}
			if _, ok := visiting[child]; ok {
				return &CyclicHierarchyError{Code: child}
			}
			if _, ok := totals[child]; ok {
				return &CyclicHierarchyError{Code: child}
			}
			visiting[child] = struct{}{}
			stack = append(stack, aggregationFrame{code: child})
			continue
		}

		cumulative := node.Own
		for _, child := range node.Children {
			if t, ok := totals[child]; ok {
				cumulative = cumulative.Add(t.Cumulative)
			}
		}
		totals[top.code] = NodeTotals{Own: node.Own, Cumulative: cumulative}
		stack = stack[:len(stack)-1]
	}
	return nil
}

// cycleMember follows parent links from start until a code repeats.
func cycleMember(forest *Forest, start string) string {
	seen := map[string]struct{}{}
	code := start
	for {
		if _, ok := seen[code]; ok {
			return code
		}
		seen[code] = struct{}{}
		node, ok := forest.Nodes[code]
		if !ok || node.ParentCode == "" {
			return start
		}
		code = node.ParentCode
	}
}
