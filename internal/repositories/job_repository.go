// file: internal/repositories/job_repository.go
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campushire/internal/database"
	"campushire/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Sentinel errors surfaced by job writes; the service layer maps them to
// response codes.
var (
	ErrDuplicateSave = errors.New("job already saved")
	ErrNotSaved      = errors.New("job not saved")
)

// jobSortSpec whitelists the sort fields the job list accepts.
var jobSortSpec = SortSpec{
	Allowed: map[string]string{
		"created_at":        "j.created_at",
		"deadline":          "j.deadline",
		"salary_min":        "j.salary_min",
		"salary_max":        "j.salary_max",
		"application_count": "j.application_count",
		"view_count":        "j.view_count",
		"title":             "j.title",
	},
	Default:  "created_at",
	TieBreak: "j.id",
}

type jobRepository struct {
	*BaseRepository
}

// NewJobRepository creates a job repository.
func NewJobRepository(db *database.Manager, logger *zap.Logger) JobRepository {
	return &jobRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// jobSelectColumns selects a full job row with company, category, tags and
// the viewer's saved/applied marks. It binds exactly two arguments: the
// viewer student id, twice, which may be NULL. Count queries reuse
// jobFromClause alone so they never bind the viewer.
const jobSelectColumns = `
	SELECT
		j.id, j.company_id, j.category_id, j.title, j.description,
		j.requirements, j.job_type, j.location, j.salary_min, j.salary_max,
		j.status, j.max_applications, j.application_count, j.view_count,
		j.deadline, j.created_at, j.updated_at,
		c.name AS company_name,
		cat.name AS category_name,
		COALESCE((
			SELECT array_agg(t.name ORDER BY t.name)
			FROM job_tags jt
			JOIN tags t ON t.id = jt.tag_id
			WHERE jt.job_id = j.id
		), '{}') AS tags,
		EXISTS(SELECT 1 FROM saved_jobs sj WHERE sj.job_id = j.id AND sj.student_id = $1) AS is_saved,
		EXISTS(SELECT 1 FROM applications a WHERE a.job_id = j.id AND a.student_id = $2) AS has_applied`

const jobFromClause = `
	FROM jobs j
	JOIN companies c ON c.id = j.company_id
	JOIN categories cat ON cat.id = j.category_id`

const jobBaseQuery = jobSelectColumns + jobFromClause

// jobViewerArgCount is the number of arguments jobBaseQuery binds before any
// filter conditions.
const jobViewerArgCount = 2

func viewerArgs(viewerStudentID *int64) []interface{} {
	var viewer sql.NullInt64
	if viewerStudentID != nil {
		viewer = sql.NullInt64{Int64: *viewerStudentID, Valid: true}
	}
	return []interface{}{viewer, viewer}
}

// ===============================
// CRUD OPERATIONS
// ===============================

func (r *jobRepository) Create(ctx context.Context, job *models.Job, tags []string) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO jobs (
				company_id, category_id, title, description, requirements,
				job_type, location, salary_min, salary_max, status,
				max_applications, deadline
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id, application_count, view_count, created_at, updated_at`

		err := tx.QueryRowContext(ctx, query,
			job.CompanyID, job.CategoryID, job.Title, job.Description,
			job.Requirements, job.JobType, job.Location, job.SalaryMin,
			job.SalaryMax, job.Status, job.MaxApplications, job.Deadline,
		).Scan(&job.ID, &job.ApplicationCount, &job.ViewCount, &job.CreatedAt, &job.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}

		if err := r.replaceTags(ctx, tx, job.ID, tags); err != nil {
			return err
		}
		job.Tags = models.StringArray(tags)
		return nil
	})
}

func (r *jobRepository) GetByID(ctx context.Context, jobID int64, viewerStudentID *int64) (*models.Job, error) {
	args := append(viewerArgs(viewerStudentID), jobID)
	query := jobBaseQuery + fmt.Sprintf(" WHERE j.id = $%d", jobViewerArgCount+1)

	job, err := r.scanJob(r.QueryRowContext(ctx, query, args...))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

func (r *jobRepository) Update(ctx context.Context, job *models.Job, tags []string) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE jobs SET
				category_id = $1, title = $2, description = $3,
				requirements = $4, job_type = $5, location = $6,
				salary_min = $7, salary_max = $8, status = $9,
				max_applications = $10, deadline = $11, updated_at = NOW()
			WHERE id = $12
			RETURNING updated_at`

		err := tx.QueryRowContext(ctx, query,
			job.CategoryID, job.Title, job.Description, job.Requirements,
			job.JobType, job.Location, job.SalaryMin, job.SalaryMax,
			job.Status, job.MaxApplications, job.Deadline, job.ID,
		).Scan(&job.UpdatedAt)
		if err != nil {
			if r.IsNotFound(err) {
				return err
			}
			return fmt.Errorf("failed to update job: %w", err)
		}

		if tags != nil {
			if err := r.replaceTags(ctx, tx, job.ID, tags); err != nil {
				return err
			}
			job.Tags = models.StringArray(tags)
		}
		return nil
	})
}

// DeleteOrClose hard-deletes a job that never received an application;
// otherwise it closes the posting so the application history survives. The
// check and the write share a transaction, and the job row is locked the
// same way Create locks it, so a concurrent apply cannot slip between them.
func (r *jobRepository) DeleteOrClose(ctx context.Context, jobID int64) (closed bool, err error) {
	err = r.WithTransaction(ctx, func(tx *sql.Tx) error {
		var locked bool
		err := tx.QueryRowContext(ctx,
			"SELECT TRUE FROM jobs WHERE id = $1 FOR UPDATE", jobID,
		).Scan(&locked)
		if err != nil {
			if err == sql.ErrNoRows {
				return err
			}
			return fmt.Errorf("failed to lock job for delete: %w", err)
		}

		var hasApplications bool
		err = tx.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1)", jobID,
		).Scan(&hasApplications)
		if err != nil {
			return fmt.Errorf("failed to check job applications: %w", err)
		}

		if !hasApplications {
			if _, err := tx.ExecContext(ctx, "DELETE FROM jobs WHERE id = $1", jobID); err != nil {
				return fmt.Errorf("failed to delete job: %w", err)
			}
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE jobs SET status = $1, updated_at = NOW() WHERE id = $2",
			models.JobStatusClosed, jobID,
		); err != nil {
			return fmt.Errorf("failed to close job: %w", err)
		}
		closed = true
		return nil
	})
	return closed, err
}

func (r *jobRepository) UpdateStatus(ctx context.Context, jobID int64, status string) error {
	result, err := r.ExecContext(ctx,
		"UPDATE jobs SET status = $1, updated_at = NOW() WHERE id = $2",
		status, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check status update result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===============================
// FILTERED LISTING
// ===============================

// buildJobConditions compiles the recognized job filters starting at the
// given argument offset. Called twice per list: once for the count query
// (offset 0, no viewer args) and once for the data query (after the viewer
// args).
func buildJobConditions(filter JobFilter, argOffset int) *ConditionBuilder {
	b := NewConditionBuilder(argOffset)
	b.ContainsAny(filter.Search, "j.title", "j.description", "c.name")
	b.EqualUnlessAll("j.status", filter.Status)
	b.EqualUnlessAll("j.job_type", filter.JobType)
	b.ContainsAny(filter.Location, "j.location")
	if filter.CategoryID != nil {
		b.Equal("j.category_id", *filter.CategoryID)
	}
	if filter.CompanyID != nil {
		b.Equal("j.company_id", *filter.CompanyID)
	}
	// Salary filters match overlapping ranges: a job qualifies when its
	// advertised band intersects the requested one.
	b.GTE("j.salary_max", filter.SalaryMin)
	b.LTE("j.salary_min", filter.SalaryMax)
	b.GTE("j.created_at", filter.DateFrom)
	b.LTE("j.created_at", filter.DateTo)
	if len(filter.Tags) > 0 {
		b.Cond(`j.id IN (
			SELECT jt.job_id FROM job_tags jt
			JOIN tags t ON t.id = jt.tag_id
			WHERE t.name = ANY($%d))`, pq.Array(filter.Tags))
	}
	return b
}

func (r *jobRepository) List(ctx context.Context, filter JobFilter) (*models.PaginatedResponse[*models.Job], error) {
	filter.Pagination = ClampPagination(filter.Pagination, 20)

	countBuilder := buildJobConditions(filter, 0)
	countWhere, countArgs := countBuilder.Where()
	countQuery := r.BuildCountQuery("SELECT 1"+jobFromClause, countWhere, "")
	total, err := r.GetTotalCount(ctx, countQuery, countArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	b := buildJobConditions(filter, jobViewerArgCount)
	whereClause, filterArgs := b.Where()
	args := append(viewerArgs(filter.ViewerStudentID), filterArgs...)

	query, limitArgs, err := r.BuildPaginatedQuery(jobBaseQuery, whereClause, b.ArgCount(), jobSortSpec, filter.Pagination)
	if err != nil {
		return nil, err
	}
	args = append(args, limitArgs...)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs, err := r.scanJobRows(rows)
	if err != nil {
		return nil, err
	}

	return &models.PaginatedResponse[*models.Job]{
		Items:      jobs,
		Pagination: models.NewPaginationMeta(filter.Pagination, total),
	}, nil
}

// ===============================
// SAVED JOBS
// ===============================

func (r *jobRepository) SaveJob(ctx context.Context, studentID, jobID int64) error {
	_, err := r.ExecContext(ctx,
		"INSERT INTO saved_jobs (student_id, job_id) VALUES ($1, $2)",
		studentID, jobID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateSave
		}
		if IsForeignKeyViolation(err) {
			return sql.ErrNoRows
		}
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

func (r *jobRepository) UnsaveJob(ctx context.Context, studentID, jobID int64) error {
	result, err := r.ExecContext(ctx,
		"DELETE FROM saved_jobs WHERE student_id = $1 AND job_id = $2",
		studentID, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to unsave job: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check unsave result: %w", err)
	}
	if rows == 0 {
		return ErrNotSaved
	}
	return nil
}

func (r *jobRepository) GetSavedJobs(ctx context.Context, studentID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Job], error) {
	params = ClampPagination(params, 20)

	savedJoin := " JOIN saved_jobs saved ON saved.job_id = j.id"
	baseQuery := jobBaseQuery + savedJoin

	total, err := r.GetTotalCount(ctx,
		"SELECT COUNT(*)"+jobFromClause+savedJoin+" WHERE saved.student_id = $1",
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count saved jobs: %w", err)
	}

	b := NewConditionBuilder(jobViewerArgCount)
	b.Equal("saved.student_id", studentID)
	whereClause, filterArgs := b.Where()
	args := append(viewerArgs(&studentID), filterArgs...)

	spec := SortSpec{
		Allowed:  map[string]string{"saved_at": "saved.created_at"},
		Default:  "saved_at",
		TieBreak: "j.id",
	}
	query, limitArgs, err := r.BuildPaginatedQuery(baseQuery, whereClause, b.ArgCount(), spec, params)
	if err != nil {
		return nil, err
	}
	args = append(args, limitArgs...)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved jobs: %w", err)
	}
	defer rows.Close()

	jobs, err := r.scanJobRows(rows)
	if err != nil {
		return nil, err
	}

	return &models.PaginatedResponse[*models.Job]{
		Items:      jobs,
		Pagination: models.NewPaginationMeta(params, total),
	}, nil
}

// ===============================
// VIEW TRACKING
// ===============================

// RecordView stores the view event and bumps the cached counter in one
// transaction.
func (r *jobRepository) RecordView(ctx context.Context, jobID, studentID int64) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO job_views (job_id, student_id) VALUES ($1, $2)",
			jobID, studentID,
		); err != nil {
			if IsForeignKeyViolation(err) {
				return sql.ErrNoRows
			}
			return fmt.Errorf("failed to record job view: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE jobs SET view_count = view_count + 1 WHERE id = $1",
			jobID,
		); err != nil {
			return fmt.Errorf("failed to increment view count: %w", err)
		}
		return nil
	})
}

// ===============================
// SCANNING & TAG HELPERS
// ===============================

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *jobRepository) scanJob(row rowScanner) (*models.Job, error) {
	var job models.Job
	var tags models.StringArray

	err := row.Scan(
		&job.ID, &job.CompanyID, &job.CategoryID, &job.Title, &job.Description,
		&job.Requirements, &job.JobType, &job.Location, &job.SalaryMin, &job.SalaryMax,
		&job.Status, &job.MaxApplications, &job.ApplicationCount, &job.ViewCount,
		&job.Deadline, &job.CreatedAt, &job.UpdatedAt,
		&job.CompanyName, &job.CategoryName, &tags,
		&job.IsSaved, &job.HasApplied,
	)
	if err != nil {
		return nil, err
	}
	job.Tags = tags
	return &job, nil
}

func (r *jobRepository) scanJobRows(rows *sql.Rows) ([]*models.Job, error) {
	jobs := make([]*models.Job, 0)
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job rows: %w", err)
	}
	return jobs, nil
}

// replaceTags swaps the job's tag set wholesale inside the caller's
// transaction, upserting tag names as needed.
func (r *jobRepository) replaceTags(ctx context.Context, tx *sql.Tx, jobID int64, tags []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM job_tags WHERE job_id = $1", jobID); err != nil {
		return fmt.Errorf("failed to clear job tags: %w", err)
	}

	for _, name := range tags {
		var tagID int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO tags (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, name,
		).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("failed to upsert tag %q: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO job_tags (job_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			jobID, tagID,
		); err != nil {
			return fmt.Errorf("failed to link tag %q: %w", name, err)
		}
	}
	return nil
}
