// Package querybuilder renders PostgreSQL statements with numbered
// placeholders. It covers the handful of shapes the repositories need and
// nothing more; anything unusual goes through Expr or Suffix.
package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// sqlWriter accumulates statement text and numbers placeholders as values
// are bound.
type sqlWriter struct {
	strings.Builder
	args []any
}

func (w *sqlWriter) bind(v any) {
	w.args = append(w.args, v)
	w.WriteByte('$')
	w.WriteString(strconv.Itoa(len(w.args)))
}

// expr copies text, binding one value for each '?'. Extra '?' are kept.
func (w *sqlWriter) expr(text string, vals []any) {
	next := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '?' && next < len(vals) {
			w.bind(vals[next])
			next++
			continue
		}
		w.WriteByte(text[i])
	}
}

func (w *sqlWriter) list(items []string) {
	w.WriteString(strings.Join(items, ", "))
}

func (w *sqlWriter) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			w.WriteString(" WHERE ")
		} else {
			w.WriteString(" AND ")
		}
		c.render(w)
	}
}

func (w *sqlWriter) suffix(s string) {
	if s != "" {
		w.WriteByte(' ')
		w.WriteString(s)
	}
}

func (w *sqlWriter) done() (string, []any, error) {
	return w.String(), w.args, nil
}

// Condition is one predicate; Where joins several with AND.
type Condition interface {
	render(w *sqlWriter)
}

type compare struct {
	column string
	op     string
	value  any
}

func (c compare) render(w *sqlWriter) {
	w.WriteString(c.column)
	w.WriteString(c.op)
	w.bind(c.value)
}

func Eq(column string, value any) Condition  { return compare{column, " = ", value} }
func Lt(column string, value any) Condition  { return compare{column, " < ", value} }
func Gte(column string, value any) Condition { return compare{column, " >= ", value} }

type in struct {
	column string
	values []any
}

// In renders "column IN (...)". An empty list matches nothing.
func In(column string, values []any) Condition { return in{column, values} }

func (c in) render(w *sqlWriter) {
	if len(c.values) == 0 {
		w.WriteString("1=0")
		return
	}
	w.WriteString(c.column)
	w.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			w.WriteString(", ")
		}
		w.bind(v)
	}
	w.WriteByte(')')
}

type raw struct {
	text string
	args []any
}

// Expr embeds text as is, binding args to its '?' markers in order.
func Expr(text string, args ...any) Condition { return raw{text, args} }

func (c raw) render(w *sqlWriter) { w.expr(c.text, c.args) }

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
	suffix  string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.where = append(b.where, conds...)
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

// Suffix is appended after LIMIT, e.g. FOR UPDATE.
func (b *SelectBuilder) Suffix(sql string) *SelectBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, errors.New("select columns are required")
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("select table is required")
	}

	var w sqlWriter
	w.WriteString("SELECT ")
	w.list(b.columns)
	w.WriteString(" FROM ")
	w.WriteString(b.table)
	w.where(b.where)
	if len(b.orderBy) > 0 {
		w.WriteString(" ORDER BY ")
		w.list(b.orderBy)
	}
	if b.limit > 0 {
		w.WriteString(" LIMIT ")
		w.WriteString(strconv.Itoa(b.limit))
	}
	w.suffix(b.suffix)
	return w.done()
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

// Values appends one row; call it repeatedly for a multi-row insert.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix is appended verbatim, e.g. an ON CONFLICT or RETURNING clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
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

	var w sqlWriter
	w.args = make([]any, 0, len(b.rows)*len(b.columns))
	w.WriteString("INSERT INTO ")
	w.WriteString(b.table)
	w.WriteString(" (")
	w.list(b.columns)
	w.WriteString(") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteByte('(')
		for j, v := range row {
			if j > 0 {
				w.WriteString(", ")
			}
			w.bind(v)
		}
		w.WriteByte(')')
	}
	w.suffix(b.suffix)
	return w.done()
}

// assignment is "column = text" with text's '?' markers bound to args.
type assignment struct {
	column string
	text   string
	args   []any
}

type UpdateBuilder struct {
	table  string
	sets   []assignment
	where  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, text: "?", args: []any{value}})
	return b
}

// SetExpr assigns an SQL expression whose '?' markers take args.
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, text: expr, args: args})
	return b
}

func (b *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("update table is required")
	case len(b.sets) == 0:
		return "", nil, errors.New("update sets are required")
	}

	var w sqlWriter
	w.WriteString("UPDATE ")
	w.WriteString(b.table)
	w.WriteString(" SET ")
	for i, s := range b.sets {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(s.column)
		w.WriteString(" = ")
		w.expr(s.text, s.args)
	}
	w.where(b.where)
	w.suffix(b.suffix)
	return w.done()
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conds ...Condition) *DeleteBuilder {
	b.where = append(b.where, conds...)
	return b
}

// ToSQL refuses to build an unfiltered delete.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, errors.New("delete table is required")
	case len(b.where) == 0:
		return "", nil, errors.New("delete requires at least one condition")
	}

	var w sqlWriter
	w.WriteString("DELETE FROM ")
	w.WriteString(b.table)
	w.where(b.where)
	return w.done()
}
