// Package querybuilder renders the handful of Postgres statement shapes the
// repositories need, numbering $n placeholders as it goes.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// stmt accumulates SQL text and its bound arguments.
type stmt struct {
	sql  strings.Builder
	args []any
}

func (s *stmt) write(parts ...string) {
	for _, p := range parts {
		s.sql.WriteString(p)
	}
}

func (s *stmt) bind(value any) {
	s.args = append(s.args, value)
	s.sql.WriteString("$" + strconv.Itoa(len(s.args)))
}

// expr writes expr, binding each '?' to the next value in values. Extra '?'
// characters are kept as-is.
func (s *stmt) expr(expr string, values []any) {
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(values) {
			s.bind(values[next])
			next++
			continue
		}
		s.sql.WriteByte(expr[i])
	}
}

func (s *stmt) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			s.write(" WHERE ")
		} else {
			s.write(" AND ")
		}
		c.render(s)
	}
}

func (s *stmt) done() (string, []any, error) {
	return s.sql.String(), s.args, nil
}

type Condition interface {
	render(s *stmt)
}

type condFunc func(s *stmt)

func (f condFunc) render(s *stmt) { f(s) }

func Eq(column string, value any) Condition {
	return condFunc(func(s *stmt) {
		s.write(column, " = ")
		s.bind(value)
	})
}

// In renders "column IN (...)"; an empty list matches nothing.
func In(column string, values []any) Condition {
	return condFunc(func(s *stmt) {
		if len(values) == 0 {
			s.write("1=0")
			return
		}
		s.write(column, " IN (")
		for i, v := range values {
			if i > 0 {
				s.write(", ")
			}
			s.bind(v)
		}
		s.write(")")
	})
}

func IsNull(column string) Condition {
	return condFunc(func(s *stmt) { s.write(column, " IS NULL") })
}

// Expr is a raw predicate with '?' placeholders.
func Expr(expr string, args ...any) Condition {
	return condFunc(func(s *stmt) { s.expr(expr, args) })
}

// ILikeAny matches when any of columns contains term, case-insensitively.
func ILikeAny(term string, columns ...string) Condition {
	pattern := "%" + likeEscaper.Replace(term) + "%"
	cols := append([]string(nil), columns...)
	return condFunc(func(s *stmt) {
		if len(cols) == 0 {
			s.write("1=1")
			return
		}
		s.write("(")
		for i, column := range cols {
			if i > 0 {
				s.write(" OR ")
			}
			s.write(column, " ILIKE ")
			s.bind(pattern)
		}
		s.write(")")
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
	offset  int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) Offset(offset int) *SelectBuilder {
	b.offset = offset
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 || strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select needs columns and a table")
	}

	var s stmt
	s.write("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	s.where(b.where)
	if len(b.orderBy) > 0 {
		s.write(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		s.write(" LIMIT ", strconv.Itoa(b.limit))
	}
	if b.offset > 0 {
		s.write(" OFFSET ", strconv.Itoa(b.offset))
	}
	return s.done()
}

type assignment struct {
	column string
	expr   string
	args   []any
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	return b.SetExpr(column, "?", value)
}

// SetExpr assigns a raw expression with '?' placeholders, e.g. "?::jsonb" or "NULL".
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, expr: expr, args: args})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" || len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update needs a table and at least one column")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("update of %s requires a condition", b.table)
	}

	var s stmt
	s.write("UPDATE ", b.table, " SET ")
	for i, a := range b.sets {
		if i > 0 {
			s.write(", ")
		}
		s.write(a.column, " = ")
		s.expr(a.expr, a.args)
	}
	s.where(b.where)
	return s.done()
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

func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete requires at least one condition")
	}

	var s stmt
	s.write("DELETE FROM ", b.table)
	s.where(b.where)
	return s.done()
}
