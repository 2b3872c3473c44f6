// file: internal/response/query_test.go
package response

import (
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"campushire/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryInt64(t *testing.T) {
	q := url.Values{"job_id": {"42"}}

	v, err := QueryInt64(q, "job_id")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(42), *v)

	v, err = QueryInt64(q, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestQueryInt64RejectsGarbage(t *testing.T) {
	q := url.Values{"job_id": {"abc"}}

	_, err := QueryInt64(q, "job_id")

	svcErr := services.GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Contains(t, svcErr.Message, "job_id", "the error names the offending parameter")
}

func TestQueryFloat(t *testing.T) {
	q := url.Values{"min_gpa": {"3.5"}, "max_gpa": {"four"}}

	v, err := QueryFloat(q, "min_gpa")
	require.NoError(t, err)
	assert.Equal(t, 3.5, *v)

	_, err = QueryFloat(q, "max_gpa")
	svcErr := services.GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Contains(t, svcErr.Message, "max_gpa")
}

func TestQueryBool(t *testing.T) {
	q := url.Values{"available": {"true"}, "unresolved": {"yes-ish"}}

	v, err := QueryBool(q, "available")
	require.NoError(t, err)
	assert.True(t, *v)

	_, err = QueryBool(q, "unresolved")
	svcErr := services.GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestQueryDate(t *testing.T) {
	q := url.Values{
		"date_from": {"2026-03-01"},
		"date_to":   {"2026-03-07T12:30:00Z"},
		"bad":       {"last tuesday"},
	}

	from, err := QueryDate(q, "date_from")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *from)

	to, err := QueryDate(q, "date_to")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 7, 12, 30, 0, 0, time.UTC), *to)

	_, err = QueryDate(q, "bad")
	svcErr := services.GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Contains(t, svcErr.Message, "bad")
}

func TestParsePaginationDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/jobs", nil)

	params, err := ParsePagination(r)

	require.NoError(t, err)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, DefaultPageSize, params.Limit)
}

func TestParsePaginationReadsValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/jobs?page=3&limit=50&sort=created_at&order=asc", nil)

	params, err := ParsePagination(r)

	require.NoError(t, err)
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 50, params.Limit)
	assert.Equal(t, "created_at", params.Sort)
	assert.Equal(t, "asc", params.Order)
}

func TestParsePaginationRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric page", "page=first"},
		{"zero page", "page=0"},
		{"negative page", "page=-2"},
		{"non-numeric limit", "limit=lots"},
		{"zero limit", "limit=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/jobs?"+tt.query, nil)

			_, err := ParsePagination(r)

			svcErr := services.GetServiceError(err)
			require.NotNil(t, svcErr)
			assert.Equal(t, 400, svcErr.StatusCode)
		})
	}
}
