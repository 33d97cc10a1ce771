package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/position"
	"github.com/iota-uz/iota-staffing/modules/staffing/domain/grafo"
)

// Amount is a (monetary value, points) pair. Both are summed independently.
type Amount struct {
	Value  decimal.Decimal `json:"value"`
	Points decimal.Decimal `json:"points"`
}

func (a Amount) Add(b Amount) Amount {
	return Amount{Value: a.Value.Add(b.Value), Points: a.Points.Add(b.Points)}
}

func (a Amount) Equal(b Amount) bool {
	return a.Value.Equal(b.Value) && a.Points.Equal(b.Points)
}

// Entry is one position line of a node, priced with the tariff in force at build time.
type Entry struct {
	TypeCode     string          `json:"type_code"`
	Denomination string          `json:"denomination"`
	Category     int             `json:"category"`
	Level        int             `json:"level"`
	Quantity     int             `json:"quantity"`
	UnitValue    decimal.Decimal `json:"unit_value"`
	UnitPoints   decimal.Decimal `json:"unit_points"`
	Total        Amount          `json:"total"`
}

// Node is one organizational unit. ParentCode is a key into Forest.Nodes, empty for roots.
type Node struct {
	Code         string   `json:"code"`
	ParentCode   string   `json:"parent_code,omitempty"`
	Path         string   `json:"path"`
	Denomination string   `json:"denomination"`
	UnitName     string   `json:"unit_name"`
	Acronym      string   `json:"acronym"`
	Depth        int      `json:"depth"`
	Entries      []Entry  `json:"entries"`
	Children     []string `json:"children"`
	Own          Amount   `json:"own"`
}

// Forest is the result of one build. Nodes are not mutated after BuildHierarchy returns.
type Forest struct {
	Nodes        map[string]*Node
	Roots        []string
	Rejected     int
	TariffMisses int64
}

func (f *Forest) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Nodes)
}

type unitGroup struct {
	code    string
	path    grafo.Path
	rep     position.Record
	records []position.Record
}

// BuildHierarchy groups records by the last segment of their path and links every unit to the
// parent named by its representative's path. A parent code with no records of its own leaves the
// unit as a root.
func BuildHierarchy(records []position.Record, table *CostTable) (*Forest, error) {
	forest := &Forest{Nodes: map[string]*Node{}}

	groups := map[string]*unitGroup{}
	order := make([]string, 0)
	for _, r := range records {
		if !r.InOrganization() {
			forest.Rejected++
			continue
		}
		p, err := grafo.Decode(r.Path)
		if err != nil {
			return nil, err
		}
		g, ok := groups[p.Own]
		if !ok {
			g = &unitGroup{code: p.Own, path: p, rep: r}
			groups[p.Own] = g
			order = append(order, p.Own)
		} else if r.Level > g.rep.Level {
			g.rep = r
			g.path = p
		}
		g.records = append(g.records, r)
	}

	for _, code := range order {
		g := groups[code]
		node := &Node{
			Code:         code,
			ParentCode:   g.path.Parent,
			Path:         grafo.Encode(g.path.Ancestors...),
			Denomination: g.rep.Denomination,
			UnitName:     g.rep.UnitName,
			Acronym:      g.rep.UnitAcronym,
			Depth:        g.path.Depth(),
			Entries:      make([]Entry, 0, len(g.records)),
			Own:          Amount{Value: decimal.Zero, Points: decimal.Zero},
		}
		for _, r := range g.records {
			unitValue, unitPoints, found := table.Resolve(r.TypeCode, r.Category, r.Level)
			if !found {
				forest.TariffMisses++
			}
			qty := decimal.NewFromInt(int64(r.Quantity))
			line := Amount{Value: unitValue.Mul(qty), Points: unitPoints.Mul(qty)}
			node.Entries = append(node.Entries, Entry{
				TypeCode:     r.TypeCode,
				Denomination: r.Denomination,
				Category:     r.Category,
				Level:        r.Level,
				Quantity:     r.Quantity,
				UnitValue:    unitValue,
				UnitPoints:   unitPoints,
				Total:        line,
			})
			node.Own = node.Own.Add(line)
		}
		forest.Nodes[code] = node
	}

	for _, code := range order {
		node := forest.Nodes[code]
		parent, ok := forest.Nodes[node.ParentCode]
		if node.ParentCode == "" || !ok {
			node.ParentCode = ""
			forest.Roots = append(forest.Roots, code)
			continue
		}
		parent.Children = append(parent.Children, code)
	}
	sort.Strings(forest.Roots)
	for _, node := range forest.Nodes {
		sort.Strings(node.Children)
	}
	return forest, nil
}
