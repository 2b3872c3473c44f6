// file: internal/repositories/application_repository.go
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campushire/internal/database"
	"campushire/internal/models"

	"go.uber.org/zap"
)

// Sentinel errors surfaced by application writes; the service layer maps
// them to response codes.
var (
	ErrDuplicateApplication = errors.New("student already applied to this job")
	ErrJobNotOpen           = errors.New("job is not accepting applications")
	ErrJobFull              = errors.New("job reached its application cap")
	ErrDeadlinePassed       = errors.New("job application deadline has passed")
	ErrApplicationFinalized = errors.New("application already reached a final status")
)

// openStatusGuard restricts status writes to applications that are still in
// flight. Terminal rows match zero rows, so two concurrent withdrawals can
// never both succeed and double-release the job's application slot.
const openStatusGuard = " AND status IN ('PENDING', 'INTERVIEW_SCHEDULED')"

var applicationSortSpec = SortSpec{
	Allowed: map[string]string{
		"applied_at":   "a.applied_at",
		"updated_at":   "a.updated_at",
		"status":       "a.status",
		"student_name": "u.full_name",
		"gpa":          "st.gpa",
	},
	Default:  "applied_at",
	TieBreak: "a.id",
}

type applicationRepository struct {
	*BaseRepository
}

// NewApplicationRepository creates an application repository.
func NewApplicationRepository(db *database.Manager, logger *zap.Logger) ApplicationRepository {
	return &applicationRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const applicationBaseQuery = `
	SELECT
		a.id, a.job_id, a.student_id, a.status, a.cover_letter,
		a.applied_at, a.viewed_at, a.responded_at, a.updated_at,
		a.interview_date, a.interview_location, a.interview_notes,
		j.title AS job_title,
		c.name AS company_name,
		u.full_name AS student_name,
		u.email AS student_email,
		st.university, st.major, st.gpa, st.resume_url
	FROM applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN companies c ON c.id = j.company_id
	JOIN students st ON st.id = a.student_id
	JOIN users u ON u.id = st.user_id`

// ===============================
// WRITES
// ===============================

// Create inserts the application and bumps the job's cached application
// count in one transaction. The job row is locked first so the cap check and
// the counter cannot race with a concurrent apply.
func (r *applicationRepository) Create(ctx context.Context, application *models.Application) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		var (
			status          string
			maxApplications *int
			currentCount    int
			deadline        *time.Time
		)
		err := tx.QueryRowContext(ctx, `
			SELECT status, max_applications, application_count, deadline
			FROM jobs WHERE id = $1 FOR UPDATE`,
			application.JobID,
		).Scan(&status, &maxApplications, &currentCount, &deadline)
		if err != nil {
			if err == sql.ErrNoRows {
				return err
			}
			return fmt.Errorf("failed to lock job for apply: %w", err)
		}

		if status != models.JobStatusActive {
			return ErrJobNotOpen
		}
		if deadline != nil && deadline.Before(time.Now()) {
			return ErrDeadlinePassed
		}
		if maxApplications != nil && currentCount >= *maxApplications {
			return ErrJobFull
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO applications (job_id, student_id, status, cover_letter)
			VALUES ($1, $2, $3, $4)
			RETURNING id, applied_at, updated_at`,
			application.JobID, application.StudentID,
			models.ApplicationStatusPending, application.CoverLetter,
		).Scan(&application.ID, &application.AppliedAt, &application.UpdatedAt)
		if err != nil {
			if IsUniqueViolation(err) {
				return ErrDuplicateApplication
			}
			if IsForeignKeyViolation(err) {
				return sql.ErrNoRows
			}
			return fmt.Errorf("failed to create application: %w", err)
		}
		application.Status = models.ApplicationStatusPending

		if _, err := tx.ExecContext(ctx,
			"UPDATE jobs SET application_count = application_count + 1 WHERE id = $1",
			application.JobID,
		); err != nil {
			return fmt.Errorf("failed to increment application count: %w", err)
		}
		return nil
	})
}

// UpdateStatus persists a status transition together with its interview
// metadata. Responded timestamps are set the first time a terminal decision
// lands. The service layer validates the transition up front; the status
// guard re-checks it inside the write so a concurrent decision that already
// finalized the row cannot be overwritten.
func (r *applicationRepository) UpdateStatus(ctx context.Context, application *models.Application) error {
	query := `
		UPDATE applications SET
			status = $1,
			interview_date = $2,
			interview_location = $3,
			interview_notes = $4,
			responded_at = CASE
				WHEN $1 IN ('ACCEPTED', 'REJECTED') AND responded_at IS NULL THEN NOW()
				ELSE responded_at
			END,
			updated_at = NOW()
		WHERE id = $5` + openStatusGuard + `
		RETURNING responded_at, updated_at`

	err := r.QueryRowContext(ctx, query,
		application.Status, application.InterviewDate,
		application.InterviewLocation, application.InterviewNotes,
		application.ID,
	).Scan(&application.RespondedAt, &application.UpdatedAt)
	if err != nil {
		if r.IsNotFound(err) {
			return ErrApplicationFinalized
		}
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return nil
}

// Withdraw marks the application withdrawn and releases its slot on the job
// counter in one transaction. The counter only moves when the guarded update
// actually flips the row.
func (r *applicationRepository) Withdraw(ctx context.Context, applicationID int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		var jobID int64
		err := tx.QueryRowContext(ctx, `
			UPDATE applications
			SET status = $1, updated_at = NOW()
			WHERE id = $2`+openStatusGuard+`
			RETURNING job_id`,
			models.ApplicationStatusWithdrawn, applicationID,
		).Scan(&jobID)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrApplicationFinalized
			}
			return fmt.Errorf("failed to withdraw application: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE jobs SET application_count = GREATEST(application_count - 1, 0) WHERE id = $1",
			jobID,
		); err != nil {
			return fmt.Errorf("failed to decrement application count: %w", err)
		}
		return nil
	})
}

func (r *applicationRepository) MarkViewed(ctx context.Context, applicationID int64) error {
	_, err := r.ExecContext(ctx,
		"UPDATE applications SET viewed_at = NOW() WHERE id = $1 AND viewed_at IS NULL",
		applicationID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark application viewed: %w", err)
	}
	return nil
}

// ===============================
// READS
// ===============================

func (r *applicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	query := applicationBaseQuery + " WHERE a.id = $1"
	app, err := r.scanApplication(r.QueryRowContext(ctx, query, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

func (r *applicationRepository) GetByJobAndStudent(ctx context.Context, jobID, studentID int64) (*models.Application, error) {
	query := applicationBaseQuery + " WHERE a.job_id = $1 AND a.student_id = $2"
	app, err := r.scanApplication(r.QueryRowContext(ctx, query, jobID, studentID))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

func buildApplicationConditions(filter ApplicationFilter) *ConditionBuilder {
	b := NewConditionBuilder(0)
	if filter.JobID != nil {
		b.Equal("a.job_id", *filter.JobID)
	}
	if filter.StudentID != nil {
		b.Equal("a.student_id", *filter.StudentID)
	}
	if filter.CompanyID != nil {
		b.Equal("j.company_id", *filter.CompanyID)
	}
	if filter.CategoryID != nil {
		b.Equal("j.category_id", *filter.CategoryID)
	}
	b.EqualUnlessAll("a.status", filter.Status)
	b.ContainsAny(filter.Search, "u.full_name", "u.email", "j.title")
	b.GTE("a.applied_at", filter.DateFrom)
	b.LTE("a.applied_at", filter.DateTo)
	return b
}

func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) (*models.PaginatedResponse[*models.Application], error) {
	filter.Pagination = ClampPagination(filter.Pagination, 20)

	b := buildApplicationConditions(filter)
	whereClause, args := b.Where()

	countQuery := r.BuildCountQuery(applicationBaseQuery, whereClause, "")
	total, err := r.GetTotalCount(ctx, countQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	query, limitArgs, err := r.BuildPaginatedQuery(applicationBaseQuery, whereClause, b.ArgCount(), applicationSortSpec, filter.Pagination)
	if err != nil {
		return nil, err
	}
	args = append(args, limitArgs...)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := make([]*models.Application, 0)
	for rows.Next() {
		app, err := r.scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate application rows: %w", err)
	}

	return &models.PaginatedResponse[*models.Application]{
		Items:      apps,
		Pagination: models.NewPaginationMeta(filter.Pagination, total),
	}, nil
}

// StreamAll walks every application matching the filter in applied_at order
// without pagination, feeding each row to fn. Used by the CSV export.
func (r *applicationRepository) StreamAll(ctx context.Context, filter ApplicationFilter, fn func(*models.Application) error) error {
	b := buildApplicationConditions(filter)
	whereClause, args := b.Where()

	query := applicationBaseQuery
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY a.applied_at DESC, a.id DESC"

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to stream applications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		app, err := r.scanApplication(rows)
		if err != nil {
			return fmt.Errorf("failed to scan application row: %w", err)
		}
		if err := fn(app); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *applicationRepository) scanApplication(row rowScanner) (*models.Application, error) {
	var app models.Application
	err := row.Scan(
		&app.ID, &app.JobID, &app.StudentID, &app.Status, &app.CoverLetter,
		&app.AppliedAt, &app.ViewedAt, &app.RespondedAt, &app.UpdatedAt,
		&app.InterviewDate, &app.InterviewLocation, &app.InterviewNotes,
		&app.JobTitle, &app.CompanyName,
		&app.StudentName, &app.StudentEmail,
		&app.University, &app.Major, &app.GPA, &app.ResumeURL,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}
