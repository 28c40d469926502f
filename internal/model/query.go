package model

import "github.com/shopspring/decimal"

// DefaultSearchLimit is the number of items returned by a search without explicit limit.
const DefaultSearchLimit = 100

// MaxSearchLimit is the maximum number of items returned by a search.
const MaxSearchLimit = 1000

type (
	// SearchParams filters items.
	SearchParams struct {
		// Name is a case-insensitive substring of the item name.
		Name string
		// MinValue is the inclusive lower bound of the value.
		MinValue *decimal.Decimal
		// MaxValue is the inclusive upper bound of the value.
		MaxValue *decimal.Decimal
		Limit    int
	}

	// Stats aggregates the value column.
	// Min, Max and Avg are nil when there is no item.
	Stats struct {
		Count int64
		Sum   decimal.Decimal
		Min   *decimal.Decimal
		Max   *decimal.Decimal
		Avg   *decimal.Decimal
	}

	// A Schema describes the items table.
	Schema struct {
		Table   string
		Columns []Column
	}

	// A Column describes a table column.
	Column struct {
		Name       string
		Type       string
		Nullable   bool
		PrimaryKey bool
		Unique     bool
	}
)

// MatchValue returns true if m satisfies the value bounds of p.
func (p SearchParams) MatchValue(m *Item) bool {
	if p.MinValue != nil && m.Value.LessThan(*p.MinValue) {
		return false
	}
	if p.MaxValue != nil && m.Value.GreaterThan(*p.MaxValue) {
		return false
	}
	return true
}

// NewStats computes the stats of the given items.
func NewStats(items []*Item) *Stats {
	stats := &Stats{Count: int64(len(items))}
	if len(items) == 0 {
		return stats
	}

	min, max := items[0].Value, items[0].Value
	for _, m := range items {
		stats.Sum = stats.Sum.Add(m.Value)
		min = decimal.Min(min, m.Value)
		max = decimal.Max(max, m.Value)
	}
	avg := stats.Sum.Div(decimal.NewFromInt(stats.Count)).Round(ValuePrecision)

	stats.Min = &min
	stats.Max = &max
	stats.Avg = &avg
	return stats
}
