// file: internal/repositories/base_repository_test.go
package repositories

import (
	"testing"

	"campushire/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConditionBuilderNumbersPlaceholdersFromOffset(t *testing.T) {
	b := NewConditionBuilder(2)
	b.Equal("j.status", "ACTIVE")
	b.Equal("j.company_id", int64(7))

	clause, args := b.Where()

	assert.Equal(t, "j.status = $3 AND j.company_id = $4", clause)
	require.Len(t, args, 2)
	assert.Equal(t, "ACTIVE", args[0])
	assert.Equal(t, int64(7), args[1])
	assert.Equal(t, 4, b.ArgCount())
}

func TestConditionBuilderEmptyWhere(t *testing.T) {
	b := NewConditionBuilder(0)

	clause, args := b.Where()

	assert.Empty(t, clause)
	assert.Nil(t, args)
	assert.Equal(t, 0, b.ArgCount())
}

func TestEqualUnlessAllSkipsSentinel(t *testing.T) {
	b := NewConditionBuilder(0)
	b.EqualUnlessAll("j.status", "ALL")
	b.EqualUnlessAll("j.job_type", "all")
	b.EqualUnlessAll("j.location", "")

	clause, args := b.Where()

	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestEqualUnlessAllBindsRealValues(t *testing.T) {
	b := NewConditionBuilder(0)
	b.EqualUnlessAll("j.status", "ACTIVE")

	clause, args := b.Where()

	assert.Equal(t, "j.status = $1", clause)
	assert.Equal(t, []interface{}{"ACTIVE"}, args)
}

func TestContainsAnySharesOneArgumentAcrossColumns(t *testing.T) {
	b := NewConditionBuilder(0)
	b.ContainsAny("engineer", "j.title", "j.description")

	clause, args := b.Where()

	assert.Equal(t, "(j.title ILIKE $1 OR j.description ILIKE $1)", clause)
	assert.Equal(t, []interface{}{"%engineer%"}, args)
}

func TestContainsAnySkipsEmptyTerm(t *testing.T) {
	b := NewConditionBuilder(0)
	b.ContainsAny("", "j.title")

	clause, _ := b.Where()
	assert.Empty(t, clause)
}

func TestRangeConditionsSkipNilPointers(t *testing.T) {
	min := 50000
	b := NewConditionBuilder(0)
	b.GTE("j.salary_max", &min)
	b.LTE("j.salary_min", (*int)(nil))

	clause, args := b.Where()

	assert.Equal(t, "j.salary_max >= $1", clause)
	assert.Equal(t, []interface{}{&min}, args)
}

func TestCondInterpolatesPlaceholderNumber(t *testing.T) {
	b := NewConditionBuilder(3)
	b.Cond("t.name = ANY($%d)", []string{"go", "sql"})

	clause, args := b.Where()

	assert.Equal(t, "t.name = ANY($4)", clause)
	require.Len(t, args, 1)
}

func TestInBindsEachValue(t *testing.T) {
	b := NewConditionBuilder(0)
	b.In("a.status", []string{"PENDING", "ACCEPTED"})

	clause, args := b.Where()

	assert.Equal(t, "a.status IN ($1, $2)", clause)
	assert.Equal(t, []interface{}{"PENDING", "ACCEPTED"}, args)
}

func TestResolveOrderAppendsTieBreak(t *testing.T) {
	spec := SortSpec{
		Allowed:  map[string]string{"created_at": "j.created_at"},
		Default:  "created_at",
		TieBreak: "j.id",
	}

	order, err := spec.ResolveOrder(models.PaginationParams{Sort: "created_at", Order: "asc"})

	require.NoError(t, err)
	assert.Equal(t, "j.created_at ASC, j.id DESC", order)
}

func TestResolveOrderDefaultsToDescending(t *testing.T) {
	spec := SortSpec{
		Allowed:  map[string]string{"created_at": "j.created_at"},
		Default:  "created_at",
		TieBreak: "j.id",
	}

	order, err := spec.ResolveOrder(models.PaginationParams{})

	require.NoError(t, err)
	assert.Equal(t, "j.created_at DESC, j.id DESC", order)
}

func TestResolveOrderRejectsUnknownField(t *testing.T) {
	spec := SortSpec{
		Allowed:  map[string]string{"created_at": "j.created_at"},
		Default:  "created_at",
		TieBreak: "j.id",
	}

	_, err := spec.ResolveOrder(models.PaginationParams{Sort: "password_hash"})

	var sortErr *InvalidSortError
	require.ErrorAs(t, err, &sortErr)
	assert.Equal(t, "password_hash", sortErr.Field)
}

func TestResolveOrderRejectsUnknownDirection(t *testing.T) {
	spec := SortSpec{
		Allowed:  map[string]string{"created_at": "j.created_at"},
		Default:  "created_at",
		TieBreak: "j.id",
	}

	_, err := spec.ResolveOrder(models.PaginationParams{Sort: "created_at", Order: "sideways"})

	var sortErr *InvalidSortError
	require.ErrorAs(t, err, &sortErr)
}

func TestClampPagination(t *testing.T) {
	tests := []struct {
		name      string
		params    models.PaginationParams
		wantPage  int
		wantLimit int
	}{
		{"defaults applied", models.PaginationParams{}, 1, 20},
		{"zero page becomes one", models.PaginationParams{Page: 0, Limit: 10}, 1, 10},
		{"negative page becomes one", models.PaginationParams{Page: -3, Limit: 10}, 1, 10},
		{"limit capped at maximum", models.PaginationParams{Page: 2, Limit: 5000}, 2, MaxPageSize},
		{"valid params untouched", models.PaginationParams{Page: 4, Limit: 50}, 4, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampPagination(tt.params, 20)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestBuildCountQueryReplacesSelectList(t *testing.T) {
	logger := zap.NewNop()
	repo := NewBaseRepository(nil, logger)

	query := repo.BuildCountQuery("SELECT 1 FROM jobs j JOIN companies c ON c.id = j.company_id", "j.status = $1", "")

	assert.Equal(t, "SELECT COUNT(*) FROM jobs j JOIN companies c ON c.id = j.company_id WHERE j.status = $1", query)
}

func TestBuildCountQueryDistinctGuardsJoinFanout(t *testing.T) {
	logger := zap.NewNop()
	repo := NewBaseRepository(nil, logger)

	query := repo.BuildCountQuery("SELECT 1 FROM students st JOIN skills sk ON sk.user_id = st.user_id", "", "st.id")

	assert.Equal(t, "SELECT COUNT(DISTINCT st.id) FROM students st JOIN skills sk ON sk.user_id = st.user_id", query)
}

func TestBuildPaginatedQueryContinuesArgNumbering(t *testing.T) {
	logger := zap.NewNop()
	repo := NewBaseRepository(nil, logger)
	spec := SortSpec{
		Allowed:  map[string]string{"created_at": "j.created_at"},
		Default:  "created_at",
		TieBreak: "j.id",
	}
	params := models.PaginationParams{Page: 3, Limit: 25}

	query, args, err := repo.BuildPaginatedQuery("SELECT j.id FROM jobs j", "j.status = $1", 1, spec, params)

	require.NoError(t, err)
	assert.Contains(t, query, "WHERE j.status = $1")
	assert.Contains(t, query, "ORDER BY j.created_at DESC, j.id DESC")
	assert.Contains(t, query, "LIMIT $2 OFFSET $3")
	assert.Equal(t, []interface{}{25, 50}, args)
}

func TestBuildPaginatedQueryPropagatesSortError(t *testing.T) {
	logger := zap.NewNop()
	repo := NewBaseRepository(nil, logger)
	spec := SortSpec{
		Allowed:  map[string]string{"created_at": "j.created_at"},
		Default:  "created_at",
		TieBreak: "j.id",
	}

	_, _, err := repo.BuildPaginatedQuery("SELECT j.id FROM jobs j", "", 0, spec, models.PaginationParams{Sort: "bogus"})

	var sortErr *InvalidSortError
	require.ErrorAs(t, err, &sortErr)
}
