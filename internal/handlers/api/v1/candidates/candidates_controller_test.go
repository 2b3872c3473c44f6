// file: internal/handlers/api/v1/candidates/candidates_controller_test.go
package candidates

import (
	"net/http/httptest"
	"testing"

	"campushire/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandidateFilterReadsTypedParams(t *testing.T) {
	c := &CandidateController{}
	r := httptest.NewRequest("GET", "/candidates?min_gpa=3.2&year=2027&available=true&skills=go,python", nil)

	filter, err := c.parseCandidateFilter(r)

	require.NoError(t, err)
	require.NotNil(t, filter.MinGPA)
	assert.Equal(t, 3.2, *filter.MinGPA)
	require.NotNil(t, filter.Year)
	assert.Equal(t, 2027, *filter.Year)
	require.NotNil(t, filter.Availability)
	assert.True(t, *filter.Availability)
	assert.Equal(t, []string{"go", "python"}, filter.Skills)
}

func TestParseCandidateFilterRejectsBadParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		param string
	}{
		{"non-numeric gpa", "min_gpa=high", "min_gpa"},
		{"non-numeric year", "year=senior", "year"},
		{"non-boolean availability", "available=maybe", "available"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CandidateController{}
			r := httptest.NewRequest("GET", "/candidates?"+tt.query, nil)

			_, err := c.parseCandidateFilter(r)

			svcErr := services.GetServiceError(err)
			require.NotNil(t, svcErr)
			assert.Equal(t, 400, svcErr.StatusCode)
			assert.Contains(t, svcErr.Message, tt.param)
		})
	}
}
