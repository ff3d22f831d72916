package projector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID      int64
	Name    string
	Credits int
	Note    *string
}

func note(s string) *string { return &s }

var schema = Schema[row]{
	Fields: map[string]Field[row]{
		"id":      func(r row) (any, bool) { return r.ID, true },
		"name":    func(r row) (any, bool) { return r.Name, true },
		"credits": func(r row) (any, bool) { return r.Credits, true },
		"note": func(r row) (any, bool) {
			if r.Note == nil {
				return nil, false
			}
			return *r.Note, true
		},
	},
	Searchable: []string{"name", "note"},
}

func sample() []row {
	return []row{
		{ID: 1, Name: "Databases", Credits: 6},
		{ID: 2, Name: "Algorithms", Credits: 3, Note: note("core")},
		{ID: 3, Name: "Compilers", Credits: 6},
		{ID: 4, Name: "Networks", Credits: 3},
		{ID: 5, Name: "Graphics", Credits: 6, Note: note("elective")},
	}
}

func idsOf(rows []row) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestProject_IsPure(t *testing.T) {
	items := sample()
	before := sample()
	q := Query{SortKey: "name", Direction: Desc, Filter: "s", Page: 0, PageSize: 3}

	first, err := Project(items, q, schema)
	require.NoError(t, err)
	second, err := Project(items, q, schema)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, items, "input must not be reordered")
}

func TestProject_StableSortBothDirections(t *testing.T) {
	asc, err := Project(sample(), Query{SortKey: "credits", Direction: Asc, PageSize: 10}, schema)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4, 1, 3, 5}, idsOf(asc.Items))

	desc, err := Project(sample(), Query{SortKey: "credits", Direction: Desc, PageSize: 10}, schema)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 5, 2, 4}, idsOf(desc.Items), "ties keep their original order when descending")
}

func TestProject_FilterAndSortCompose(t *testing.T) {
	page, err := Project(sample(), Query{SortKey: "name", Direction: Asc, Filter: "CS", PageSize: 10}, schema)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, idsOf(page.Items))

	page, err = Project(sample(), Query{SortKey: "name", Direction: Desc, Filter: "o", PageSize: 10}, schema)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3, 2}, idsOf(page.Items), "Networks, Compilers, Algorithms (core)")
	assert.Equal(t, 3, page.FilteredCount)
	assert.Equal(t, 5, page.TotalCount)
}

func TestProject_AbsentValuesSortFirst(t *testing.T) {
	page, err := Project(sample(), Query{SortKey: "note", Direction: Asc, PageSize: 10}, schema)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 4, 2, 5}, idsOf(page.Items))
}

func TestProject_Pagination(t *testing.T) {
	q := Query{SortKey: "id", Direction: Asc, PageSize: 2}

	q.Page = 2
	page, err := Project(sample(), q, schema)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, idsOf(page.Items))
	assert.Equal(t, 1, page.EmptyRows)

	q.Page = 9
	page, err = Project(sample(), q, schema)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 2, page.EmptyRows)
	assert.False(t, page.NotFound)

	// page offsets that would overflow int stay beyond the last page
	for _, huge := range []Query{
		{PageSize: 8, Page: math.MaxInt/4 + 1},
		{PageSize: math.MaxInt, Page: 2},
		{PageSize: 2, Page: math.MaxInt},
	} {
		page, err = Project(sample(), huge, schema)
		require.NoError(t, err)
		assert.Empty(t, page.Items, "page %d size %d", huge.Page, huge.PageSize)
	}

	page, err = Project(sample(), Query{SortKey: "id", Direction: Asc, PageSize: math.MaxInt}, schema)
	require.NoError(t, err)
	assert.Len(t, page.Items, len(sample()))
}

func TestProject_RejectsBadQueries(t *testing.T) {
	_, err := Project(sample(), Query{PageSize: 0}, schema)
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	_, err = Project(sample(), Query{PageSize: 5, Page: -1}, schema)
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = Project(sample(), Query{PageSize: 5, SortKey: "missing"}, schema)
	assert.ErrorIs(t, err, ErrUnknownSortKey)

	_, err = Project(sample(), Query{PageSize: 5, SortKey: "name", Direction: "up"}, schema)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestProject_NotFoundIndicator(t *testing.T) {
	page, err := Project(sample(), Query{Filter: "exist", PageSize: 5}, schema)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.FilteredCount)
	assert.True(t, page.NotFound)
}
