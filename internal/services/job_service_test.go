// file: internal/services/job_service_test.go
package services

import (
	"context"
	"testing"

	"campushire/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestJobService(jobs *mockJobRepo, companies *mockCompanyRepo) JobService {
	if companies == nil {
		companies = &mockCompanyRepo{companies: map[int64]*models.Company{}}
	}
	students := &mockStudentRepo{students: map[int64]*models.Student{}}
	return NewJobService(jobs, companies, students, newMockCategoryRepo(), nil, zap.NewNop())
}

func ownedJobFixture(status string) (*mockJobRepo, *mockCompanyRepo) {
	jobs := &mockJobRepo{
		jobs: map[int64]*models.Job{
			42: {ID: 42, CompanyID: 3, Status: status},
		},
		hasApplications: map[int64]bool{},
	}
	companies := &mockCompanyRepo{companies: map[int64]*models.Company{
		20: {ID: 3, UserID: 20},
	}}
	return jobs, companies
}

// ===============================
// DELETE
// ===============================

func TestDeleteJobWithoutApplicationsRemovesIt(t *testing.T) {
	jobs, companies := ownedJobFixture(models.JobStatusActive)
	service := newTestJobService(jobs, companies)

	err := service.DeleteJob(context.Background(), 20, 42)

	require.NoError(t, err)
	assert.Equal(t, int64(42), jobs.deletedID)
	assert.NotContains(t, jobs.jobs, int64(42))
}

func TestDeleteJobWithApplicationsClosesInstead(t *testing.T) {
	jobs, companies := ownedJobFixture(models.JobStatusActive)
	jobs.hasApplications[42] = true
	service := newTestJobService(jobs, companies)

	err := service.DeleteJob(context.Background(), 20, 42)

	require.NoError(t, err)
	assert.Equal(t, int64(0), jobs.deletedID, "a job with application history is never hard-deleted")
	assert.Equal(t, int64(42), jobs.closedID)
	require.Contains(t, jobs.jobs, int64(42))
	assert.Equal(t, models.JobStatusClosed, jobs.jobs[42].Status)
}

func TestDeleteJobOtherCompanysJobIsNotFound(t *testing.T) {
	jobs, companies := ownedJobFixture(models.JobStatusActive)
	jobs.jobs[42].CompanyID = 777
	service := newTestJobService(jobs, companies)

	err := service.DeleteJob(context.Background(), 20, 42)

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
	assert.Contains(t, jobs.jobs, int64(42))
}
