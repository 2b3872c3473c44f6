// file: internal/models/models_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"pending to interview", ApplicationStatusPending, ApplicationStatusInterviewScheduled, true},
		{"pending to accepted", ApplicationStatusPending, ApplicationStatusAccepted, true},
		{"pending to rejected", ApplicationStatusPending, ApplicationStatusRejected, true},
		{"pending to withdrawn", ApplicationStatusPending, ApplicationStatusWithdrawn, true},
		{"interview to accepted", ApplicationStatusInterviewScheduled, ApplicationStatusAccepted, true},
		{"interview to rejected", ApplicationStatusInterviewScheduled, ApplicationStatusRejected, true},
		{"interview to withdrawn", ApplicationStatusInterviewScheduled, ApplicationStatusWithdrawn, true},
		{"interview back to pending", ApplicationStatusInterviewScheduled, ApplicationStatusPending, false},
		{"accepted is terminal", ApplicationStatusAccepted, ApplicationStatusRejected, false},
		{"rejected is terminal", ApplicationStatusRejected, ApplicationStatusPending, false},
		{"withdrawn is terminal", ApplicationStatusWithdrawn, ApplicationStatusAccepted, false},
		{"no self transition", ApplicationStatusPending, ApplicationStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &Application{Status: tt.from}
			assert.Equal(t, tt.allowed, app.CanTransitionTo(tt.to))
		})
	}
}

func TestApplicationIsTerminal(t *testing.T) {
	assert.False(t, (&Application{Status: ApplicationStatusPending}).IsTerminal())
	assert.False(t, (&Application{Status: ApplicationStatusInterviewScheduled}).IsTerminal())
	assert.True(t, (&Application{Status: ApplicationStatusAccepted}).IsTerminal())
	assert.True(t, (&Application{Status: ApplicationStatusRejected}).IsTerminal())
	assert.True(t, (&Application{Status: ApplicationStatusWithdrawn}).IsTerminal())
}

func TestIsValidJobType(t *testing.T) {
	assert.True(t, IsValidJobType("FULL_TIME"))
	assert.True(t, IsValidJobType("INTERNSHIP"))
	assert.False(t, IsValidJobType("full_time"))
	assert.False(t, IsValidJobType("FREELANCE"))
}

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(PaginationParams{Page: 2, Limit: 10}, 35)

	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 4, meta.TotalPages)
	assert.Equal(t, int64(35), meta.TotalItems)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestNewPaginationMetaEmptyResult(t *testing.T) {
	meta := NewPaginationMeta(PaginationParams{Page: 1, Limit: 10}, 0)

	assert.Equal(t, 0, meta.TotalPages)
	assert.Equal(t, int64(0), meta.TotalItems)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrev)
}

func TestNewPaginationMetaPageBeyondRange(t *testing.T) {
	meta := NewPaginationMeta(PaginationParams{Page: 9, Limit: 10}, 35)

	assert.Equal(t, 9, meta.CurrentPage)
	assert.Equal(t, 4, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestStringArrayScan(t *testing.T) {
	var arr StringArray
	err := arr.Scan([]byte("{go,sql,docker}"))

	assert.NoError(t, err)
	assert.Equal(t, StringArray{"go", "sql", "docker"}, arr)
}

func TestStringArrayScanEmpty(t *testing.T) {
	var arr StringArray
	err := arr.Scan([]byte("{}"))

	assert.NoError(t, err)
	assert.Empty(t, arr)
}
