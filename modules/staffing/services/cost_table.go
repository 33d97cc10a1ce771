package services

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/iota-uz/iota-staffing/modules/staffing/domain/entities/tariff"
)

// CostTable resolves the unit value and unit points of a position. It is immutable after
// construction except for its miss bookkeeping, which is safe for concurrent use.
type CostTable struct {
	entries map[string]tariff.Entry

	misses   atomic.Int64
	mu       sync.Mutex
	missKeys map[string]struct{}
}

func NewCostTable(entries []tariff.Entry) (*CostTable, error) {
	t := &CostTable{
		entries:  make(map[string]tariff.Entry, len(entries)),
		missKeys: map[string]struct{}{},
	}
	for _, e := range entries {
		key := e.Key()
		if _, ok := t.entries[key]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTariff, key)
		}
		t.entries[key] = e
	}
	return t, nil
}

// BuildCostTable parses raw tariff rows. Any unparsable amount aborts the build.
func BuildCostTable(rows []tariff.Raw) (*CostTable, error) {
	entries := make([]tariff.Entry, 0, len(rows))
	for _, r := range rows {
		e, err := r.Entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return NewCostTable(entries)
}

// Lookup returns (0, 0) for an unknown key.
func (t *CostTable) Lookup(typeCode string, category, level int) (value, points decimal.Decimal) {
	value, points, _ = t.Resolve(typeCode, category, level)
	return value, points
}

// Resolve is Lookup that also reports whether the key was found. Misses are counted either way.
func (t *CostTable) Resolve(typeCode string, category, level int) (value, points decimal.Decimal, found bool) {
	if t == nil {
		return decimal.Zero, decimal.Zero, false
	}
	key := tariff.Key(typeCode, category, level)
	e, ok := t.entries[key]
	if !ok {
		t.misses.Add(1)
		t.mu.Lock()
		t.missKeys[key] = struct{}{}
		t.mu.Unlock()
		recordTariffMiss()
		return decimal.Zero, decimal.Zero, false
	}
	return e.Value, e.Points, true
}

func (t *CostTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

func (t *CostTable) Misses() int64 {
	if t == nil {
		return 0
	}
	return t.misses.Load()
}

// MissedKeys lists the distinct keys that were looked up without a match, sorted.
func (t *CostTable) MissedKeys() []string {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.missKeys))
	for k := range t.missKeys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
