package store

import (
	"fmt"
	"strings"
	"time"
)

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

func newWhereBuilder() *whereBuilder {
	return &whereBuilder{}
}

// Add appends "column = $n". Empty values are ignored.
func (w *whereBuilder) Add(column, value string) {
	if value == "" {
		return
	}
	w.args = append(w.args, value)
	w.conds = append(w.conds, fmt.Sprintf("%s = $%d", column, len(w.args)))
}

// AddSearch matches term case-insensitively against any of columns.
func (w *whereBuilder) AddSearch(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return
	}
	w.args = append(w.args, "%"+escapeLike(term)+"%")
	n := len(w.args)
	ors := make([]string, len(columns))
	for i, c := range columns {
		ors[i] = fmt.Sprintf("COALESCE(%s, '') ILIKE $%d", c, n)
	}
	w.conds = append(w.conds, "("+strings.Join(ors, " OR ")+")")
}

// AddTimestampRange bounds column to [start, end]. Zero times are ignored.
func (w *whereBuilder) AddTimestampRange(column string, start, end time.Time) {
	if !start.IsZero() {
		w.args = append(w.args, start)
		w.conds = append(w.conds, fmt.Sprintf("%s >= $%d", column, len(w.args)))
	}
	if !end.IsZero() {
		w.args = append(w.args, end)
		w.conds = append(w.conds, fmt.Sprintf("%s <= $%d", column, len(w.args)))
	}
}

// NextArgIndex returns the placeholder number for the next argument.
func (w *whereBuilder) NextArgIndex() int {
	return len(w.args) + 1
}

// Build returns " WHERE ..." (or "") and the arguments.
func (w *whereBuilder) Build() (string, []any) {
	if len(w.conds) == 0 {
		return "", w.args
	}
	return " WHERE " + strings.Join(w.conds, " AND "), w.args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
