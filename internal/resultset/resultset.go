// Package resultset accumulates one query's output rows, grouping and
// reducing through internal/aggregate when the RETURN clause contains an
// aggregation function, the way a single pass over ReturnClause_ContainsAggregation
// decides whether a result set streams rows or accumulates groups.
package resultset

import (
	"strings"

	"github.com/ritamzico/trigraph/internal/aggregate"
	"github.com/ritamzico/trigraph/internal/value"
)

// Column describes one projected RETURN item.
type Column struct {
	Name      string
	Aggregate bool
	Kind      aggregate.Kind
}

// ResultSet holds either plain rows (no aggregation in the RETURN
// clause) or one row per distinct combination of the non-aggregate
// column values (grouped aggregation), never both.
type ResultSet struct {
	Columns    []Column
	grouped    bool
	rows       [][]value.Value
	groups     map[string]*group
	groupOrder []string
	limit      int
}

type group struct {
	keyValues []value.Value // the non-aggregate columns' values for this group
	ctxs      []aggregate.Context
}

// New builds a ResultSet for the given projected columns. limit caps the
// number of distinct rows/groups it will hold; 0 means unbounded.
func New(columns []Column, limit int) *ResultSet {
	rs := &ResultSet{Columns: columns, limit: limit}
	for _, c := range columns {
		if c.Aggregate {
			rs.grouped = true
		}
	}
	if rs.grouped {
		rs.groups = make(map[string]*group)
	}
	return rs
}

// Full reports whether the result set has already reached its capacity
// and cannot accept a new distinct row or group.
func (rs *ResultSet) Full() bool {
	if rs.limit <= 0 {
		return false
	}
	if rs.grouped {
		return len(rs.groups) >= rs.limit
	}
	return len(rs.rows) >= rs.limit
}

// groupKey joins the non-aggregate column values with ',' — the empty
// vector (a RETURN clause with only aggregate columns) joins to the
// empty string, so every row collapses into the single overall group.
func groupKey(keyValues []value.Value) string {
	parts := make([]string, len(keyValues))
	for i, v := range keyValues {
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}

// AddRow feeds one matched row's per-column values into the result set.
// values must align 1:1 with rs.Columns. Returns false (and adds
// nothing) if the set is already Full and this row would start a new
// group or row.
func (rs *ResultSet) AddRow(values []value.Value) bool {
	if !rs.grouped {
		if rs.Full() {
			return false
		}
		rs.rows = append(rs.rows, values)
		return true
	}

	keyValues := make([]value.Value, 0, len(values))
	for i, c := range rs.Columns {
		if !c.Aggregate {
			keyValues = append(keyValues, values[i])
		}
	}
	key := groupKey(keyValues)

	g, ok := rs.groups[key]
	if !ok {
		if rs.Full() {
			return false
		}
		g = &group{keyValues: keyValues, ctxs: make([]aggregate.Context, len(rs.Columns))}
		for i, c := range rs.Columns {
			if c.Aggregate {
				g.ctxs[i] = aggregate.New(c.Kind)
			}
		}
		rs.groups[key] = g
		rs.groupOrder = append(rs.groupOrder, key)
	}

	for i, c := range rs.Columns {
		if c.Aggregate {
			g.ctxs[i].Step(values[i])
		}
	}
	return true
}

// Rows materialises the final output: one []value.Value per row, in
// insertion order for plain result sets or first-seen group order for
// grouped ones.
func (rs *ResultSet) Rows() [][]value.Value {
	if !rs.grouped {
		return rs.rows
	}
	out := make([][]value.Value, 0, len(rs.groupOrder))
	for _, key := range rs.groupOrder {
		g := rs.groups[key]
		row := make([]value.Value, len(rs.Columns))
		keyIdx := 0
		for i, c := range rs.Columns {
			if c.Aggregate {
				row[i] = g.ctxs[i].Result()
			} else {
				row[i] = g.keyValues[keyIdx]
				keyIdx++
			}
		}
		out = append(out, row)
	}
	return out
}
