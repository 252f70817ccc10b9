// Package store holds persistence helpers shared by the domain repositories.
package store

import (
	"fmt"
	"strings"
)

// Query builds filtered SELECT statements with positional arguments. Domain
// repositories use it to translate optional list filters into AND-combined
// WHERE clauses without concatenating values into SQL.
type Query struct {
	table   string
	cols    string
	where   string
	args    []interface{}
	idx     int
	orderBy string
}

// NewQuery creates a Query for the given table and column list.
func NewQuery(table, cols string) *Query {
	return &Query{table: table, cols: cols, idx: 1}
}

// Where appends a raw clause fragment with its bound arguments. The fragment
// must reference parameters starting at Idx().
func (q *Query) Where(clause string, args ...interface{}) {
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx += len(args)
}

// Idx returns the next positional parameter index.
func (q *Query) Idx() int { return q.idx }

// Equal adds an equality filter on a column.
func (q *Query) Equal(column string, value interface{}) {
	q.Where(fmt.Sprintf("%s = $%d", column, q.idx), value)
}

// GTE adds a >= filter. Date columns hold zero-padded ISO strings, so
// lexicographic comparison equals chronological comparison.
func (q *Query) GTE(column string, value interface{}) {
	q.Where(fmt.Sprintf("%s >= $%d", column, q.idx), value)
}

// LTE adds a <= filter.
func (q *Query) LTE(column string, value interface{}) {
	q.Where(fmt.Sprintf("%s <= $%d", column, q.idx), value)
}

// SearchAny adds one case-insensitive substring match ORed across the given
// columns (free-text search over several fields with a single term).
func (q *Query) SearchAny(columns []string, term string) {
	if len(columns) == 0 {
		return
	}
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", col, q.idx)
	}
	q.Where("("+strings.Join(parts, " OR ")+")", "%"+escapeLike(term)+"%")
}

// OrderBy sets the ORDER BY clause (without the keyword).
func (q *Query) OrderBy(orderBy string) { q.orderBy = orderBy }

// CountSQL returns the count statement for the accumulated filters.
func (q *Query) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE 1=1%s", q.table, q.where)
}

// CountArgs returns the bound arguments for CountSQL.
func (q *Query) CountArgs() []interface{} { return q.args }

// DataSQL returns the data statement with ORDER BY and LIMIT/OFFSET appended.
func (q *Query) DataSQL() string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", q.cols, q.table, q.where)
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", q.idx, q.idx+1)
	return sql
}

// AllSQL returns the data statement without LIMIT/OFFSET, for callers that
// aggregate over the full filtered set.
func (q *Query) AllSQL() string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", q.cols, q.table, q.where)
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	return sql
}

// AllArgs returns the bound arguments for AllSQL.
func (q *Query) AllArgs() []interface{} { return q.args }

// DataArgs returns the bound arguments for DataSQL.
func (q *Query) DataArgs(limit, offset int) []interface{} {
	result := make([]interface{}, len(q.args)+2)
	copy(result, q.args)
	result[len(q.args)] = limit
	result[len(q.args)+1] = offset
	return result
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search terms.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
