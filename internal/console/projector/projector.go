// Package projector computes the visible page of a collection: filter, then
// stable sort, then paginate. It never mutates its input.
package projector

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

var (
	ErrInvalidPageSize = errors.New("page size must be positive")
	ErrInvalidPage     = errors.New("page must not be negative")
	ErrUnknownSortKey  = errors.New("unknown sort key")
	ErrInvalidOrder    = errors.New("sort direction must be asc or desc")
)

// Query describes the requested view. Page is 0-based.
type Query struct {
	SortKey   string
	Direction Direction
	Filter    string
	Page      int
	PageSize  int
}

// Field extracts a sortable value from an item. ok=false marks the value as
// absent; absent values sort before everything else.
type Field[T any] func(item T) (v any, ok bool)

// Schema names the sortable fields of T and which of them the text filter searches.
type Schema[T any] struct {
	Fields     map[string]Field[T]
	Searchable []string
}

// Page is the projected view.
type Page[T any] struct {
	Items         []T
	FilteredCount int
	TotalCount    int
	// EmptyRows is the number of filler rows needed to keep a non-first page at
	// full height.
	EmptyRows int
	// NotFound is set when a non-empty filter matched nothing.
	NotFound bool
}

// Project applies q to items.
func Project[T any](items []T, q Query, schema Schema[T]) (Page[T], error) {
	if q.PageSize <= 0 {
		return Page[T]{}, ErrInvalidPageSize
	}
	if q.Page < 0 {
		return Page[T]{}, ErrInvalidPage
	}
	if q.Direction != "" && q.Direction != Asc && q.Direction != Desc {
		return Page[T]{}, fmt.Errorf("%w: %q", ErrInvalidOrder, q.Direction)
	}
	var sortField Field[T]
	if q.SortKey != "" {
		f, ok := schema.Fields[q.SortKey]
		if !ok {
			return Page[T]{}, fmt.Errorf("%w: %q", ErrUnknownSortKey, q.SortKey)
		}
		sortField = f
	}

	filtered := Filter(items, q.Filter, schema)
	if sortField != nil {
		slices.SortStableFunc(filtered, comparator(sortField, q.Direction))
	}

	start := len(filtered)
	if q.Page <= len(filtered)/q.PageSize {
		start = q.Page * q.PageSize
	}
	end := start + min(q.PageSize, len(filtered)-start)
	visible := make([]T, end-start)
	copy(visible, filtered[start:end])

	page := Page[T]{
		Items:         visible,
		FilteredCount: len(filtered),
		TotalCount:    len(items),
		NotFound:      len(filtered) == 0 && strings.TrimSpace(q.Filter) != "",
	}
	if q.Page > 0 {
		page.EmptyRows = q.PageSize - len(visible)
	}
	return page, nil
}

// Filter returns a new slice with the items whose searchable fields contain text,
// ignoring case. Blank text keeps everything.
func Filter[T any](items []T, text string, schema Schema[T]) []T {
	needle := strings.ToLower(strings.TrimSpace(text))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle == "" || matches(item, needle, schema) {
			out = append(out, item)
		}
	}
	return out
}

func matches[T any](item T, needle string, schema Schema[T]) bool {
	for _, name := range schema.Searchable {
		f, ok := schema.Fields[name]
		if !ok {
			continue
		}
		v, ok := f(item)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), needle) {
			return true
		}
	}
	return false
}

func comparator[T any](f Field[T], dir Direction) func(a, b T) int {
	sign := 1
	if dir == Desc {
		sign = -1
	}
	return func(a, b T) int {
		av, aok := f(a)
		bv, bok := f(b)
		return sign * compareValues(av, aok, bv, bok)
	}
}

// compareValues orders two field values. Absent sorts first, numbers compare
// numerically, times chronologically, everything else as strings.
func compareValues(a any, aok bool, b any, bok bool) int {
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}

	if an, ok := number(a); ok {
		if bn, ok := number(b); ok {
			return cmp.Compare(an, bn)
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
