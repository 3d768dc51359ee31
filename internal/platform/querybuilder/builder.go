// Package querybuilder renders postgres statements with numbered placeholders.
package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"
)

// stmt accumulates SQL text and its bound arguments. Placeholders are
// numbered from the argument count, so fragments can be rendered in any
// order as long as they are written left to right.
type stmt struct {
	buf  *bytebufferpool.ByteBuffer
	args []any
}

func newStmt(argsHint int) *stmt {
	return &stmt{buf: bytebufferpool.Get(), args: make([]any, 0, argsHint)}
}

// finish releases the pooled buffer; s must not be used afterwards.
func (s *stmt) finish() (string, []any, error) {
	query := s.buf.String()
	bytebufferpool.Put(s.buf)
	s.buf = nil
	return query, s.args, nil
}

func (s *stmt) sql(parts ...string) {
	for _, p := range parts {
		_, _ = s.buf.WriteString(p)
	}
}

func (s *stmt) list(items []string) {
	s.sql(strings.Join(items, ", "))
}

// bind writes the next placeholder for v, or inlines v when it is an Expr.
func (s *stmt) bind(v any) {
	if e, ok := v.(exprCondition); ok {
		e.render(s)
		return
	}
	s.args = append(s.args, v)
	s.sql("$", strconv.Itoa(len(s.args)))
}

func (s *stmt) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			s.sql(" WHERE ")
		} else {
			s.sql(" AND ")
		}
		c.render(s)
	}
}

func (s *stmt) returning(cols []string) {
	if len(cols) > 0 {
		s.sql(" RETURNING ")
		s.list(cols)
	}
}

// Condition is one predicate of a WHERE clause.
type Condition interface {
	render(s *stmt)
}

type compareCondition struct {
	column, op string
	value      any
}

func (c compareCondition) render(s *stmt) {
	s.sql(c.column, " ", c.op, " ")
	s.bind(c.value)
}

func Eq(column string, value any) Condition  { return compareCondition{column, "=", value} }
func Gte(column string, value any) Condition { return compareCondition{column, ">=", value} }
func Lt(column string, value any) Condition  { return compareCondition{column, "<", value} }

type anyCondition struct {
	column string
	array  any
}

// Any renders column = ANY($n). array must be a driver value for a postgres
// array, e.g. pq.Array(ids).
func Any(column string, array any) Condition {
	return anyCondition{column: column, array: array}
}

func (c anyCondition) render(s *stmt) {
	s.sql(c.column, " = ANY(")
	s.bind(c.array)
	s.sql(")")
}

type orCondition []Condition

// Or groups conditions in parentheses joined by OR. An empty Or matches nothing.
func Or(conditions ...Condition) Condition {
	return orCondition(conditions)
}

func (c orCondition) render(s *stmt) {
	if len(c) == 0 {
		s.sql("1=0")
		return
	}
	s.sql("(")
	for i, cond := range c {
		if i > 0 {
			s.sql(" OR ")
		}
		cond.render(s)
	}
	s.sql(")")
}

type exprCondition struct {
	expr string
	args []any
}

// Expr embeds raw SQL; each ? is replaced by the next numbered placeholder.
// Surplus ? marks are kept verbatim.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) render(s *stmt) {
	rest := c.expr
	for _, arg := range c.args {
		i := strings.IndexByte(rest, '?')
		if i < 0 {
			break
		}
		s.sql(rest[:i])
		s.args = append(s.args, arg)
		s.sql("$", strconv.Itoa(len(s.args)))
		rest = rest[i+1:]
	}
	s.sql(rest)
}

// LockMode is the row locking clause appended to a SELECT.
type LockMode uint8

const (
	NoLock LockMode = iota
	LockForUpdate
	LockForShare
)

var lockClauses = [...]string{
	NoLock:        "",
	LockForUpdate: " FOR UPDATE",
	LockForShare:  " FOR SHARE",
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
	lock    LockMode
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder { b.table = table; return b }

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder { b.limit = limit; return b }

// Lock sets the row locking clause. Rows are locked in ORDER BY order.
func (b *SelectBuilder) Lock(mode LockMode) *SelectBuilder { b.lock = mode; return b }

// ForUpdate locks the selected rows until the surrounding transaction ends.
func (b *SelectBuilder) ForUpdate() *SelectBuilder { return b.Lock(LockForUpdate) }

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, errors.New("select columns are required")
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("select table is required")
	case int(b.lock) >= len(lockClauses):
		return "", nil, fmt.Errorf("unknown lock mode %d", b.lock)
	}

	s := newStmt(len(b.where))
	s.sql("SELECT ")
	s.list(b.columns)
	s.sql(" FROM ", b.table)
	s.where(b.where)
	if len(b.orderBy) > 0 {
		s.sql(" ORDER BY ")
		s.list(b.orderBy)
	}
	if b.limit > 0 {
		s.sql(" LIMIT ", strconv.Itoa(b.limit))
	}
	s.sql(lockClauses[b.lock])
	return s.finish()
}

type InsertBuilder struct {
	table     string
	columns   []string
	rows      [][]any
	returning []string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

// Values appends one row; call it once per row for a multi-row insert.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.returning = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("insert table is required")
	case len(b.columns) == 0:
		return "", nil, errors.New("insert columns are required")
	case len(b.rows) == 0:
		return "", nil, errors.New("insert values are required")
	}
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
	}

	s := newStmt(len(b.rows) * len(b.columns))
	s.sql("INSERT INTO ", b.table, " (")
	s.list(b.columns)
	s.sql(") VALUES ")
	for i, row := range b.rows {
		if i > 0 {
			s.sql(", ")
		}
		s.sql("(")
		for j, v := range row {
			if j > 0 {
				s.sql(", ")
			}
			s.bind(v)
		}
		s.sql(")")
	}
	s.returning(b.returning)
	return s.finish()
}

type assignment struct {
	column string
	value  any
}

type UpdateBuilder struct {
	table     string
	sets      []assignment
	where     []Condition
	returning []string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

// SetExpr assigns a raw expression, e.g. SetExpr("updated_at", "now()").
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	return b.Set(column, exprCondition{expr: expr, args: args})
}

// HasSets reports whether any column would be written.
func (b *UpdateBuilder) HasSets() bool {
	return len(b.sets) > 0
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	b.returning = append([]string(nil), columns...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("update table is required")
	case len(b.sets) == 0:
		return "", nil, errors.New("update sets are required")
	}

	s := newStmt(len(b.sets) + len(b.where))
	s.sql("UPDATE ", b.table, " SET ")
	for i, a := range b.sets {
		if i > 0 {
			s.sql(", ")
		}
		s.sql(a.column, " = ")
		s.bind(a.value)
	}
	s.where(b.where)
	s.returning(b.returning)
	return s.finish()
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses to render an unconditional delete.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("delete table is required")
	case len(b.where) == 0:
		return "", nil, errors.New("delete requires at least one condition")
	}

	s := newStmt(len(b.where))
	s.sql("DELETE FROM ", b.table)
	s.where(b.where)
	return s.finish()
}
