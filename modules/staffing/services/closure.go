package services

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/iota-uz/iota-staffing/modules/staffing/domain/grafo"
)

type Predicate func(*Node) bool

// Criteria is a filter request. A node matches when every non-empty criterion matches.
type Criteria struct {
	Acronyms      []string `json:"acronyms,omitempty"`
	PositionTypes []string `json:"position_types,omitempty"`
	Levels        []int    `json:"levels,omitempty"`
	Denomination  string   `json:"denomination,omitempty"`
}

func (c Criteria) IsEmpty() bool {
	return len(c.Acronyms) == 0 && len(c.PositionTypes) == 0 && len(c.Levels) == 0 &&
		strings.TrimSpace(c.Denomination) == ""
}

func (c Criteria) Predicate() Predicate {
	acronyms := map[string]struct{}{}
	for _, a := range c.Acronyms {
		if a = strings.TrimSpace(a); a != "" {
			acronyms[strings.ToUpper(a)] = struct{}{}
		}
	}
	types := map[string]struct{}{}
	for _, t := range c.PositionTypes {
		if t = strings.TrimSpace(t); t != "" {
			types[t] = struct{}{}
		}
	}
	levels := map[int]struct{}{}
	for _, l := range c.Levels {
		levels[l] = struct{}{}
	}
	denomination := strings.TrimSpace(c.Denomination)

	return func(n *Node) bool {
		if len(acronyms) > 0 {
			if _, ok := acronyms[strings.ToUpper(strings.TrimSpace(n.Acronym))]; !ok {
				return false
			}
		}
		if len(types) > 0 && !anyEntry(n, func(e Entry) bool { _, ok := types[e.TypeCode]; return ok }) {
			return false
		}
		if len(levels) > 0 && !anyEntry(n, func(e Entry) bool { _, ok := levels[e.Level]; return ok }) {
			return false
		}
		if denomination != "" &&
			!fuzzy.MatchNormalizedFold(denomination, n.Denomination) &&
			!fuzzy.MatchNormalizedFold(denomination, n.UnitName) {
			return false
		}
		return true
	}
}

func anyEntry(n *Node, fn func(Entry) bool) bool {
	for _, e := range n.Entries {
		if fn(e) {
			return true
		}
	}
	return false
}

// Closure returns the codes of the matching nodes, every unit named on their paths and every
// unit whose path passes through one of them. Only codes present in nodes are returned.
func Closure(nodes map[string]*Node, pred Predicate) (map[string]struct{}, error) {
	result := closure(nodes, pred)

	projected := make(map[string]*Node, len(result))
	for code := range result {
		projected[code] = nodes[code]
	}
	again := closure(projected, pred)
	if len(again) != len(result) {
		return nil, ErrClosureNotIdempotent
	}
	for code := range again {
		if _, ok := result[code]; !ok {
			return nil, ErrClosureNotIdempotent
		}
	}
	return result, nil
}

func closure(nodes map[string]*Node, pred Predicate) map[string]struct{} {
	result := map[string]struct{}{}
	if pred == nil {
		return result
	}

	seeds := make([]string, 0)
	for code, n := range nodes {
		if pred(n) {
			seeds = append(seeds, code)
		}
	}
	if len(seeds) == 0 {
		return result
	}

	for _, code := range seeds {
		for _, segment := range grafo.Segments(nodes[code].Path) {
			if _, ok := nodes[segment]; ok {
				result[segment] = struct{}{}
			}
		}
		result[code] = struct{}{}
	}

	for code, n := range nodes {
		if _, ok := result[code]; ok {
			continue
		}
		for _, seed := range seeds {
			if grafo.HasSegment(n.Path, seed) {
				result[code] = struct{}{}
				break
			}
		}
	}
	return result
}

// FilterHierarchy projects forest onto the closure of pred. Children are pruned to included
// units; an included unit whose parent is excluded becomes a root.
func FilterHierarchy(forest *Forest, pred Predicate) (*Forest, error) {
	out := &Forest{Nodes: map[string]*Node{}}
	if forest == nil {
		return out, nil
	}
	out.Rejected = forest.Rejected
	out.TariffMisses = forest.TariffMisses

	included, err := Closure(forest.Nodes, pred)
	if err != nil {
		return nil, err
	}

	for code := range included {
		src := forest.Nodes[code]
		n := *src
		n.Children = make([]string, 0, len(src.Children))
		for _, child := range src.Children {
			if _, ok := included[child]; ok {
				n.Children = append(n.Children, child)
			}
		}
		if _, ok := included[n.ParentCode]; !ok {
			n.ParentCode = ""
			out.Roots = append(out.Roots, code)
		}
		out.Nodes[code] = &n
	}
	sort.Strings(out.Roots)
	return out, nil
}
