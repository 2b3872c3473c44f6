// file: internal/handlers/api/v1/applications/applications_controller_test.go
package applications

import (
	"net/http/httptest"
	"testing"
	"time"

	"campushire/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseApplicationFilterReadsTypedParams(t *testing.T) {
	c := &ApplicationController{}
	r := httptest.NewRequest("GET", "/company/applications?job_id=42&category_id=7&status=PENDING&date_from=2026-03-01", nil)

	filter, err := c.parseApplicationFilter(r)

	require.NoError(t, err)
	require.NotNil(t, filter.JobID)
	assert.Equal(t, int64(42), *filter.JobID)
	require.NotNil(t, filter.CategoryID)
	assert.Equal(t, int64(7), *filter.CategoryID)
	assert.Equal(t, "PENDING", filter.Status)
	require.NotNil(t, filter.DateFrom)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *filter.DateFrom)
}

// A non-numeric ID filter must fail the request instead of being dropped,
// which would silently return the unfiltered list.
func TestParseApplicationFilterRejectsNonNumericJobID(t *testing.T) {
	c := &ApplicationController{}
	r := httptest.NewRequest("GET", "/company/applications?job_id=abc", nil)

	filter, err := c.parseApplicationFilter(r)

	svcErr := services.GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Contains(t, svcErr.Message, "job_id")
	assert.Nil(t, filter.JobID)
}

func TestParseApplicationFilterRejectsBadDate(t *testing.T) {
	c := &ApplicationController{}
	r := httptest.NewRequest("GET", "/company/applications?date_from=yesterday", nil)

	_, err := c.parseApplicationFilter(r)

	svcErr := services.GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Contains(t, svcErr.Message, "date_from")
}

func TestParseApplicationFilterRejectsBadPagination(t *testing.T) {
	c := &ApplicationController{}
	r := httptest.NewRequest("GET", "/company/applications?page=zero", nil)

	_, err := c.parseApplicationFilter(r)

	svcErr := services.GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}
