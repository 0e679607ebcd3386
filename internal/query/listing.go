package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var ErrInvalidPage = errors.New("invalid page")

// Page is a contiguous offset/limit window. A zero Limit means unbounded.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewPage validates a client supplied window. Out of range values are
// rejected rather than clamped.
func NewPage(limit, offset int) (Page, error) {
	if limit < 1 || limit > MaxLimit {
		return Page{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidPage, MaxLimit)
	}
	if offset < 0 {
		return Page{}, fmt.Errorf("%w: offset must be greater than or equal to 0", ErrInvalidPage)
	}
	return Page{Limit: limit, Offset: offset}, nil
}

// Order sorts descending by Column. TieBreak, when set, is appended as a
// second descending key so rows sharing a Column value keep a fixed order
// between page requests.
type Order struct {
	Column   string
	TieBreak string
}

func (o Order) Clause() string {
	if o.Column == "" {
		return ""
	}
	clause := "ORDER BY " + o.Column + " DESC"
	if o.TieBreak != "" && o.TieBreak != o.Column {
		clause += ", " + o.TieBreak + " DESC"
	}
	return clause
}

type Listing struct {
	Table   string
	Columns string
	Filter  Filter
	Order   Order
	Page    Page
}

func (l Listing) PageQuery() (string, []interface{}) {
	where, args := l.Filter.Where(1)
	sql := fmt.Sprintf("SELECT %s FROM %s", l.Columns, l.Table)
	if where != "" {
		sql += " " + where
	}
	if clause := l.Order.Clause(); clause != "" {
		sql += " " + clause
	}
	if l.Page.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, l.Page.Limit, l.Page.Offset)
	}
	return sql, args
}

// CountQuery counts every row matching the filter, ignoring order and window.
func (l Listing) CountQuery() (string, []interface{}) {
	where, args := l.Filter.Where(1)
	sql := "SELECT count(*) FROM " + l.Table
	if where != "" {
		sql += " " + where
	}
	return sql, args
}

type Result[T any] struct {
	Items []T
	Total int
}

// List runs the page query followed by the count query.
func List[T any](ctx context.Context, db sqlx.QueryerContext, l Listing) (Result[T], error) {
	items, err := Fetch[T](ctx, db, l)
	if err != nil {
		return Result[T]{}, err
	}
	countSQL, countArgs := l.CountQuery()
	var total int
	if err := sqlx.GetContext(ctx, db, &total, countSQL, countArgs...); err != nil {
		return Result[T]{}, fmt.Errorf("count %s: %w", l.Table, err)
	}
	return Result[T]{Items: items, Total: total}, nil
}

// Fetch runs only the page query.
func Fetch[T any](ctx context.Context, db sqlx.QueryerContext, l Listing) ([]T, error) {
	sql, args := l.PageQuery()
	items := []T{}
	if err := sqlx.SelectContext(ctx, db, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", l.Table, err)
	}
	return items, nil
}
