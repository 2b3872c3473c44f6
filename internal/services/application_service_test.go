// file: internal/services/application_service_test.go
package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"campushire/internal/models"
	"campushire/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ===============================
// MOCKS
// ===============================

type mockApplicationRepo struct {
	createErr       error
	created         *models.Application
	applications    map[int64]*models.Application
	withdrawErr     error
	withdrawnID     int64
	updateStatusErr error
	viewedID        int64
	streamRows      []*models.Application
}

func (m *mockApplicationRepo) Create(ctx context.Context, application *models.Application) error {
	if m.createErr != nil {
		return m.createErr
	}
	application.ID = 101
	application.Status = models.ApplicationStatusPending
	application.AppliedAt = time.Now()
	m.created = application
	return nil
}

func (m *mockApplicationRepo) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	app, ok := m.applications[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return app, nil
}

func (m *mockApplicationRepo) GetByJobAndStudent(ctx context.Context, jobID, studentID int64) (*models.Application, error) {
	return nil, sql.ErrNoRows
}

func (m *mockApplicationRepo) List(ctx context.Context, filter repositories.ApplicationFilter) (*models.PaginatedResponse[*models.Application], error) {
	return &models.PaginatedResponse[*models.Application]{
		Items:      []*models.Application{},
		Pagination: models.NewPaginationMeta(filter.Pagination, 0),
	}, nil
}

func (m *mockApplicationRepo) UpdateStatus(ctx context.Context, application *models.Application) error {
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	m.applications[application.ID] = application
	return nil
}

func (m *mockApplicationRepo) Withdraw(ctx context.Context, applicationID int64) error {
	if m.withdrawErr != nil {
		return m.withdrawErr
	}
	m.withdrawnID = applicationID
	return nil
}

func (m *mockApplicationRepo) MarkViewed(ctx context.Context, applicationID int64) error {
	m.viewedID = applicationID
	return nil
}

func (m *mockApplicationRepo) StreamAll(ctx context.Context, filter repositories.ApplicationFilter, fn func(*models.Application) error) error {
	for _, app := range m.streamRows {
		if err := fn(app); err != nil {
			return err
		}
	}
	return nil
}

type mockStudentRepo struct {
	students map[int64]*models.Student // keyed by user ID
}

func (m *mockStudentRepo) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	student, ok := m.students[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return student, nil
}

func (m *mockStudentRepo) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	for _, s := range m.students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error { return nil }

func (m *mockStudentRepo) SetResume(ctx context.Context, studentID int64, url, publicID string) error {
	return nil
}

func (m *mockStudentRepo) SearchCandidates(ctx context.Context, filter repositories.CandidateFilter) (*models.PaginatedResponse[*models.Student], error) {
	return nil, nil
}

type mockCompanyRepo struct {
	companies map[int64]*models.Company // keyed by user ID
}

func (m *mockCompanyRepo) GetByUserID(ctx context.Context, userID int64) (*models.Company, error) {
	company, ok := m.companies[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return company, nil
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	for _, c := range m.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockCompanyRepo) Update(ctx context.Context, company *models.Company) error { return nil }

func (m *mockCompanyRepo) SetVerified(ctx context.Context, companyID int64, verified bool) error {
	return nil
}

func (m *mockCompanyRepo) List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.Company], error) {
	return nil, nil
}

type mockJobRepo struct {
	jobs map[int64]*models.Job
	// hasApplications drives DeleteOrClose: jobs with applications are
	// closed instead of removed
	hasApplications map[int64]bool
	deletedID       int64
	closedID        int64
	statusUpdates   map[int64]string
}

func (m *mockJobRepo) Create(ctx context.Context, job *models.Job, tags []string) error { return nil }

func (m *mockJobRepo) GetByID(ctx context.Context, jobID int64, viewerStudentID *int64) (*models.Job, error) {
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return job, nil
}

func (m *mockJobRepo) Update(ctx context.Context, job *models.Job, tags []string) error { return nil }

func (m *mockJobRepo) DeleteOrClose(ctx context.Context, jobID int64) (bool, error) {
	if _, ok := m.jobs[jobID]; !ok {
		return false, sql.ErrNoRows
	}
	if m.hasApplications[jobID] {
		m.closedID = jobID
		m.jobs[jobID].Status = models.JobStatusClosed
		return true, nil
	}
	m.deletedID = jobID
	delete(m.jobs, jobID)
	return false, nil
}

func (m *mockJobRepo) UpdateStatus(ctx context.Context, jobID int64, status string) error {
	if m.statusUpdates == nil {
		m.statusUpdates = map[int64]string{}
	}
	m.statusUpdates[jobID] = status
	return nil
}

func (m *mockJobRepo) List(ctx context.Context, filter repositories.JobFilter) (*models.PaginatedResponse[*models.Job], error) {
	return nil, nil
}

func (m *mockJobRepo) SaveJob(ctx context.Context, studentID, jobID int64) error   { return nil }
func (m *mockJobRepo) UnsaveJob(ctx context.Context, studentID, jobID int64) error { return nil }

func (m *mockJobRepo) GetSavedJobs(ctx context.Context, studentID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Job], error) {
	return nil, nil
}

func (m *mockJobRepo) RecordView(ctx context.Context, jobID, studentID int64) error { return nil }

// ===============================
// FIXTURES
// ===============================

func newTestApplicationService(apps *mockApplicationRepo, students *mockStudentRepo, companies *mockCompanyRepo, jobs *mockJobRepo) ApplicationService {
	logger := zap.NewNop()
	if apps.applications == nil {
		apps.applications = map[int64]*models.Application{}
	}
	if students == nil {
		students = &mockStudentRepo{students: map[int64]*models.Student{}}
	}
	if companies == nil {
		companies = &mockCompanyRepo{companies: map[int64]*models.Company{}}
	}
	if jobs == nil {
		jobs = &mockJobRepo{jobs: map[int64]*models.Job{}}
	}
	return NewApplicationService(apps, jobs, students, companies, nil, logger)
}

func studentFixture(userID, studentID int64) *mockStudentRepo {
	return &mockStudentRepo{students: map[int64]*models.Student{
		userID: {ID: studentID, UserID: userID},
	}}
}

// ===============================
// APPLY
// ===============================

func TestApplySubmitsApplication(t *testing.T) {
	apps := &mockApplicationRepo{}
	service := newTestApplicationService(apps, studentFixture(10, 5), nil, nil)

	application, err := service.Apply(context.Background(), &ApplyRequest{
		JobID:         42,
		StudentUserID: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), application.JobID)
	assert.Equal(t, int64(5), application.StudentID, "job is applied to with the student profile ID, not the user ID")
	assert.Equal(t, models.ApplicationStatusPending, application.Status)
}

func TestApplyDuplicateIsConflict(t *testing.T) {
	apps := &mockApplicationRepo{createErr: repositories.ErrDuplicateApplication}
	service := newTestApplicationService(apps, studentFixture(10, 5), nil, nil)

	_, err := service.Apply(context.Background(), &ApplyRequest{JobID: 42, StudentUserID: 10})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Equal(t, "ALREADY_APPLIED", svcErr.Code)
}

func TestApplyClosedJobIsBusinessError(t *testing.T) {
	apps := &mockApplicationRepo{createErr: repositories.ErrJobNotOpen}
	service := newTestApplicationService(apps, studentFixture(10, 5), nil, nil)

	_, err := service.Apply(context.Background(), &ApplyRequest{JobID: 42, StudentUserID: 10})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 422, svcErr.StatusCode)
	assert.Equal(t, "JOB_NOT_OPEN", svcErr.Code)
}

func TestApplyFullJobIsBusinessError(t *testing.T) {
	apps := &mockApplicationRepo{createErr: repositories.ErrJobFull}
	service := newTestApplicationService(apps, studentFixture(10, 5), nil, nil)

	_, err := service.Apply(context.Background(), &ApplyRequest{JobID: 42, StudentUserID: 10})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, "JOB_FULL", svcErr.Code)
}

func TestApplyWithoutStudentProfileIsForbidden(t *testing.T) {
	apps := &mockApplicationRepo{}
	service := newTestApplicationService(apps, nil, nil, nil)

	_, err := service.Apply(context.Background(), &ApplyRequest{JobID: 42, StudentUserID: 99})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 403, svcErr.StatusCode)
}

// ===============================
// WITHDRAW
// ===============================

func TestWithdrawPendingApplication(t *testing.T) {
	apps := &mockApplicationRepo{applications: map[int64]*models.Application{
		7: {ID: 7, StudentID: 5, Status: models.ApplicationStatusPending},
	}}
	service := newTestApplicationService(apps, studentFixture(10, 5), nil, nil)

	application, err := service.Withdraw(context.Background(), 10, 7)

	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusWithdrawn, application.Status)
	assert.Equal(t, int64(7), apps.withdrawnID)
}

func TestWithdrawSomeoneElsesApplicationIsNotFound(t *testing.T) {
	apps := &mockApplicationRepo{applications: map[int64]*models.Application{
		7: {ID: 7, StudentID: 999, Status: models.ApplicationStatusPending},
	}}
	service := newTestApplicationService(apps, studentFixture(10, 5), nil, nil)

	_, err := service.Withdraw(context.Background(), 10, 7)

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode, "ownership mismatch reads as not found, never forbidden")
	assert.Equal(t, int64(0), apps.withdrawnID)
}

func TestWithdrawTerminalApplicationIsRejected(t *testing.T) {
	apps := &mockApplicationRepo{applications: map[int64]*models.Application{
		7: {ID: 7, StudentID: 5, Status: models.ApplicationStatusAccepted},
	}}
	service := newTestApplicationService(apps, studentFixture(10, 5), nil, nil)

	_, err := service.Withdraw(context.Background(), 10, 7)

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, "INVALID_TRANSITION", svcErr.Code)
}

// A second withdrawal can race past the service-level status check; the
// repository's guarded update reports the row as finalized and the caller
// gets an invalid-transition error, not a silent second decrement.
func TestWithdrawAlreadyFinalizedIsRejected(t *testing.T) {
	apps := &mockApplicationRepo{
		applications: map[int64]*models.Application{
			7: {ID: 7, StudentID: 5, Status: models.ApplicationStatusPending},
		},
		withdrawErr: repositories.ErrApplicationFinalized,
	}
	service := newTestApplicationService(apps, studentFixture(10, 5), nil, nil)

	_, err := service.Withdraw(context.Background(), 10, 7)

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 422, svcErr.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", svcErr.Code)
	assert.Equal(t, int64(0), apps.withdrawnID)
}

// ===============================
// STATUS DECISIONS
// ===============================

func companyFixtureWithApplication(status string) (*mockApplicationRepo, *mockCompanyRepo, *mockJobRepo) {
	apps := &mockApplicationRepo{applications: map[int64]*models.Application{
		7: {ID: 7, JobID: 42, StudentID: 5, Status: status},
	}}
	companies := &mockCompanyRepo{companies: map[int64]*models.Company{
		20: {ID: 3, UserID: 20},
	}}
	jobs := &mockJobRepo{jobs: map[int64]*models.Job{
		42: {ID: 42, CompanyID: 3},
	}}
	return apps, companies, jobs
}

func TestUpdateStatusScheduleInterview(t *testing.T) {
	apps, companies, jobs := companyFixtureWithApplication(models.ApplicationStatusPending)
	service := newTestApplicationService(apps, nil, companies, jobs)
	interviewAt := time.Now().Add(72 * time.Hour)

	application, err := service.UpdateStatus(context.Background(), 20, &UpdateApplicationStatusRequest{
		ApplicationID: 7,
		Status:        models.ApplicationStatusInterviewScheduled,
		InterviewDate: &interviewAt,
	})

	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusInterviewScheduled, application.Status)
	require.NotNil(t, application.InterviewDate)
}

func TestUpdateStatusInterviewRequiresDate(t *testing.T) {
	apps, companies, jobs := companyFixtureWithApplication(models.ApplicationStatusPending)
	service := newTestApplicationService(apps, nil, companies, jobs)

	_, err := service.UpdateStatus(context.Background(), 20, &UpdateApplicationStatusRequest{
		ApplicationID: 7,
		Status:        models.ApplicationStatusInterviewScheduled,
	})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	apps, companies, jobs := companyFixtureWithApplication(models.ApplicationStatusRejected)
	service := newTestApplicationService(apps, nil, companies, jobs)

	_, err := service.UpdateStatus(context.Background(), 20, &UpdateApplicationStatusRequest{
		ApplicationID: 7,
		Status:        models.ApplicationStatusAccepted,
	})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, "INVALID_TRANSITION", svcErr.Code)
}

func TestUpdateStatusConcurrentlyFinalizedIsRejected(t *testing.T) {
	apps, companies, jobs := companyFixtureWithApplication(models.ApplicationStatusPending)
	apps.updateStatusErr = repositories.ErrApplicationFinalized
	service := newTestApplicationService(apps, nil, companies, jobs)

	_, err := service.UpdateStatus(context.Background(), 20, &UpdateApplicationStatusRequest{
		ApplicationID: 7,
		Status:        models.ApplicationStatusRejected,
	})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 422, svcErr.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", svcErr.Code)
}

func TestUpdateStatusOtherCompanysApplicationIsNotFound(t *testing.T) {
	apps, companies, jobs := companyFixtureWithApplication(models.ApplicationStatusPending)
	jobs.jobs[42].CompanyID = 777
	service := newTestApplicationService(apps, nil, companies, jobs)

	_, err := service.UpdateStatus(context.Background(), 20, &UpdateApplicationStatusRequest{
		ApplicationID: 7,
		Status:        models.ApplicationStatusRejected,
	})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

// ===============================
// LIST & EXPORT
// ===============================

func TestListStudentApplicationsRejectsUnknownStatus(t *testing.T) {
	apps := &mockApplicationRepo{}
	service := newTestApplicationService(apps, studentFixture(10, 5), nil, nil)

	_, err := service.ListStudentApplications(context.Background(), 10, repositories.ApplicationFilter{
		Status: "MAYBE",
	})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

type recordingCSVWriter struct {
	records [][]string
}

func (w *recordingCSVWriter) Write(record []string) error {
	w.records = append(w.records, record)
	return nil
}

func (w *recordingCSVWriter) Flush()       {}
func (w *recordingCSVWriter) Error() error { return nil }

func TestExportCompanyApplicationsCSV(t *testing.T) {
	gpa := 3.75
	respondedAt := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	apps := &mockApplicationRepo{streamRows: []*models.Application{
		{
			ID:           7,
			JobTitle:     "Backend Intern",
			CompanyName:  "Acme",
			StudentName:  "Jane Doe",
			StudentEmail: "jane@example.edu",
			GPA:          &gpa,
			Status:       models.ApplicationStatusAccepted,
			AppliedAt:    time.Date(2026, 3, 28, 12, 0, 0, 0, time.UTC),
			RespondedAt:  &respondedAt,
		},
	}}
	companies := &mockCompanyRepo{companies: map[int64]*models.Company{
		20: {ID: 3, UserID: 20},
	}}
	service := newTestApplicationService(apps, nil, companies, nil)
	writer := &recordingCSVWriter{}

	err := service.ExportCompanyApplicationsCSV(context.Background(), 20, repositories.ApplicationFilter{}, writer)

	require.NoError(t, err)
	require.Len(t, writer.records, 2, "header plus one data row")
	assert.Equal(t, applicationCSVHeader, writer.records[0])
	assert.Equal(t, "7", writer.records[1][0])
	assert.Equal(t, "3.75", writer.records[1][7])
	assert.Equal(t, "2026-03-28T12:00:00Z", writer.records[1][9])
}
