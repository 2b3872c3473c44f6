// file: internal/services/candidate_service_test.go
package services

import (
	"context"
	"testing"

	"campushire/internal/models"
	"campushire/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// capturingStudentRepo records the filter the service hands to the search
type capturingStudentRepo struct {
	mockStudentRepo
	lastFilter repositories.CandidateFilter
}

func (m *capturingStudentRepo) SearchCandidates(ctx context.Context, filter repositories.CandidateFilter) (*models.PaginatedResponse[*models.Student], error) {
	m.lastFilter = filter
	return &models.PaginatedResponse[*models.Student]{
		Items:      []*models.Student{},
		Pagination: models.NewPaginationMeta(filter.Pagination, 0),
	}, nil
}

// poolApplicationRepo reports whether a student is in the company's
// applicant pool
type poolApplicationRepo struct {
	mockApplicationRepo
	inPool bool
}

func (m *poolApplicationRepo) List(ctx context.Context, filter repositories.ApplicationFilter) (*models.PaginatedResponse[*models.Application], error) {
	total := int64(0)
	if m.inPool {
		total = 1
	}
	return &models.PaginatedResponse[*models.Application]{
		Items:      []*models.Application{},
		Pagination: models.NewPaginationMeta(filter.Pagination, total),
	}, nil
}

func newTestCandidateService(students repositories.StudentRepository, apps repositories.ApplicationRepository) CandidateService {
	companies := &mockCompanyRepo{companies: map[int64]*models.Company{
		20: {ID: 3, UserID: 20, Name: "Acme"},
	}}
	return NewCandidateService(students, companies, newMockUserRepo(), apps, zap.NewNop())
}

func TestSearchCandidatesScopesToCallerCompany(t *testing.T) {
	students := &capturingStudentRepo{}
	service := newTestCandidateService(students, &mockApplicationRepo{})

	minGPA := 3.0
	_, err := service.SearchCandidates(context.Background(), 20, repositories.CandidateFilter{
		Major:  "Computer Science",
		MinGPA: &minGPA,
	})

	require.NoError(t, err)
	require.NotNil(t, students.lastFilter.CompanyID)
	assert.Equal(t, int64(3), *students.lastFilter.CompanyID, "scope is the caller's company id")
	assert.Equal(t, "Computer Science", students.lastFilter.Major)
	assert.Equal(t, 3.0, *students.lastFilter.MinGPA)
}

func TestSearchCandidatesIgnoresCallerSuppliedScope(t *testing.T) {
	students := &capturingStudentRepo{}
	service := newTestCandidateService(students, &mockApplicationRepo{})

	foreign := int64(999)
	_, err := service.SearchCandidates(context.Background(), 20, repositories.CandidateFilter{
		CompanyID: &foreign,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), *students.lastFilter.CompanyID, "caller cannot widen the scope")
}

func TestSearchCandidatesGPABounds(t *testing.T) {
	service := newTestCandidateService(&capturingStudentRepo{}, &mockApplicationRepo{})

	bad := 4.5
	_, err := service.SearchCandidates(context.Background(), 20, repositories.CandidateFilter{MinGPA: &bad})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestSearchCandidatesGPARangeInverted(t *testing.T) {
	service := newTestCandidateService(&capturingStudentRepo{}, &mockApplicationRepo{})

	min, max := 3.5, 2.0
	_, err := service.SearchCandidates(context.Background(), 20, repositories.CandidateFilter{
		MinGPA: &min, MaxGPA: &max,
	})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestSearchCandidatesRequiresCompanyProfile(t *testing.T) {
	service := newTestCandidateService(&capturingStudentRepo{}, &mockApplicationRepo{})

	_, err := service.SearchCandidates(context.Background(), 77, repositories.CandidateFilter{})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 403, svcErr.StatusCode)
}

func TestGetCandidateOutsidePool(t *testing.T) {
	students := &capturingStudentRepo{mockStudentRepo: mockStudentRepo{students: map[int64]*models.Student{
		10: {ID: 5, UserID: 10},
	}}}
	service := newTestCandidateService(students, &poolApplicationRepo{inPool: false})

	_, err := service.GetCandidate(context.Background(), 20, 5)

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode, "students who never applied are invisible")
}

func TestGetCandidateInPool(t *testing.T) {
	students := &capturingStudentRepo{mockStudentRepo: mockStudentRepo{students: map[int64]*models.Student{
		10: {ID: 5, UserID: 10},
	}}}
	service := newTestCandidateService(students, &poolApplicationRepo{inPool: true})

	candidate, err := service.GetCandidate(context.Background(), 20, 5)

	require.NoError(t, err)
	assert.Equal(t, int64(5), candidate.ID)
}
