// Package query builds the filtered, ordered and windowed SQL used by the
// listing endpoints. Predicates are accumulated into a Filter and rendered in
// one pass, so the page query and its count query always share the same
// WHERE clause.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

type Op string

const (
	OpEqual    Op = "="
	OpILike    Op = "ILIKE"
	OpContains Op = "@>"
	OpIn       Op = "IN"
	OpGte      Op = ">="
)

// Predicate is a single column constraint.
type Predicate struct {
	Column string
	Op     Op
	Value  interface{}
}

// Eq matches rows whose column equals value.
func Eq(column string, value interface{}) Predicate {
	return Predicate{Column: column, Op: OpEqual, Value: value}
}

// Contains matches rows whose column contains term, ignoring case. LIKE
// metacharacters in term are escaped so it is matched literally.
func Contains(column, term string) Predicate {
	return Predicate{Column: column, Op: OpILike, Value: "%" + escapeLike(term) + "%"}
}

// HasTag matches rows whose array column includes tag.
func HasTag(column, tag string) Predicate {
	return Predicate{Column: column, Op: OpContains, Value: pq.StringArray{tag}}
}

// In matches rows whose column is one of values.
func In(column string, values ...string) Predicate {
	items := make([]interface{}, 0, len(values))
	for _, value := range values {
		items = append(items, value)
	}
	return Predicate{Column: column, Op: OpIn, Value: items}
}

// Since matches rows whose timestamp column is at or after t.
func Since(column string, t time.Time) Predicate {
	return Predicate{Column: column, Op: OpGte, Value: t}
}

// Filter is an AND-combination of predicates with at most one predicate per
// column. Adding a second predicate on a column replaces the first.
type Filter struct {
	predicates []Predicate
}

func NewFilter(predicates ...Predicate) Filter {
	var f Filter
	for _, p := range predicates {
		f.Add(p)
	}
	return f
}

func (f *Filter) Add(p Predicate) {
	for i, existing := range f.predicates {
		if existing.Column == p.Column {
			f.predicates[i] = p
			return
		}
	}
	f.predicates = append(f.predicates, p)
}

// AddIf adds p only when cond holds. Used for optional request parameters.
func (f *Filter) AddIf(cond bool, p Predicate) {
	if cond {
		f.Add(p)
	}
}

func (f Filter) Len() int {
	return len(f.predicates)
}

func (f Filter) Predicates() []Predicate {
	out := make([]Predicate, len(f.predicates))
	copy(out, f.predicates)
	return out
}

// Where renders the filter as a WHERE clause with placeholders numbered from
// start. An empty filter renders as "".
func (f Filter) Where(start int) (string, []interface{}) {
	if len(f.predicates) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(f.predicates))
	args := make([]interface{}, 0, len(f.predicates))
	param := start
	for _, p := range f.predicates {
		if p.Op == OpIn {
			values, _ := p.Value.([]interface{})
			if len(values) == 0 {
				parts = append(parts, "FALSE")
				continue
			}
			placeholders := make([]string, len(values))
			for i := range values {
				placeholders[i] = fmt.Sprintf("$%d", param)
				param++
			}
			parts = append(parts, fmt.Sprintf("%s IN (%s)", p.Column, strings.Join(placeholders, ", ")))
			args = append(args, values...)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s $%d", p.Column, p.Op, param))
		args = append(args, p.Value)
		param++
	}
	return "WHERE " + strings.Join(parts, " AND "), args
}

func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}
