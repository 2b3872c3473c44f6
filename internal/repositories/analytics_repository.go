// file: internal/repositories/analytics_repository.go
package repositories

import (
	"context"
	"fmt"
	"time"

	"campushire/internal/database"

	"go.uber.org/zap"
)

// InvalidGranularityError reports a trend granularity outside day/week/month.
type InvalidGranularityError struct {
	Granularity string
}

func (e *InvalidGranularityError) Error() string {
	return fmt.Sprintf("unsupported trend granularity %q", e.Granularity)
}

type analyticsRepository struct {
	*BaseRepository
}

// NewAnalyticsRepository creates an analytics repository.
func NewAnalyticsRepository(db *database.Manager, logger *zap.Logger) AnalyticsRepository {
	return &analyticsRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// applicationScopeConditions compiles an AnalyticsScope against the
// applications table aliased a, joined to jobs j.
func applicationScopeConditions(scope AnalyticsScope) *ConditionBuilder {
	b := NewConditionBuilder(0)
	if scope.JobID != nil {
		b.Equal("a.job_id", *scope.JobID)
	}
	if scope.CompanyID != nil {
		b.Equal("j.company_id", *scope.CompanyID)
	}
	if scope.CategoryID != nil {
		b.Equal("j.category_id", *scope.CategoryID)
	}
	b.GTE("a.applied_at", scope.From)
	b.LTE("a.applied_at", scope.To)
	return b
}

// validGranularity gates the date_trunc unit; it is interpolated into SQL so
// it must never come from user input unvalidated.
func validGranularity(g string) bool {
	return g == GranularityDay || g == GranularityWeek || g == GranularityMonth
}

// ===============================
// DISTRIBUTIONS & TRENDS
// ===============================

// CountApplicationsByStatus returns one bucket per status actually present;
// the service layer zero-fills the rest.
func (r *analyticsRepository) CountApplicationsByStatus(ctx context.Context, scope AnalyticsScope) ([]StatusCount, error) {
	b := applicationScopeConditions(scope)
	whereClause, args := b.Where()

	query := `
		SELECT a.status, COUNT(*)
		FROM applications a
		JOIN jobs j ON j.id = a.job_id`
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " GROUP BY a.status ORDER BY a.status"

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications by status: %w", err)
	}
	defer rows.Close()

	counts := make([]StatusCount, 0)
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

// ApplicationTrend buckets applications into day/week/month periods. Only
// periods with activity come back; the service layer zero-fills gaps across
// the requested window.
func (r *analyticsRepository) ApplicationTrend(ctx context.Context, granularity string, from, to time.Time, scope AnalyticsScope) ([]TrendPoint, error) {
	if !validGranularity(granularity) {
		return nil, &InvalidGranularityError{Granularity: granularity}
	}

	scope.From = &from
	scope.To = &to
	b := applicationScopeConditions(scope)
	whereClause, args := b.Where()

	query := fmt.Sprintf(`
		SELECT date_trunc('%s', a.applied_at) AS period, COUNT(*)
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE %s
		GROUP BY period
		ORDER BY period`, granularity, whereClause)

	return r.queryTrend(ctx, query, args...)
}

// JobViewTrend buckets job views the same way.
func (r *analyticsRepository) JobViewTrend(ctx context.Context, granularity string, from, to time.Time, scope AnalyticsScope) ([]TrendPoint, error) {
	if !validGranularity(granularity) {
		return nil, &InvalidGranularityError{Granularity: granularity}
	}

	b := NewConditionBuilder(0)
	if scope.JobID != nil {
		b.Equal("v.job_id", *scope.JobID)
	}
	if scope.CompanyID != nil {
		b.Equal("j.company_id", *scope.CompanyID)
	}
	if scope.CategoryID != nil {
		b.Equal("j.category_id", *scope.CategoryID)
	}
	b.GTE("v.viewed_at", &from)
	b.LTE("v.viewed_at", &to)
	whereClause, args := b.Where()

	query := fmt.Sprintf(`
		SELECT date_trunc('%s', v.viewed_at) AS period, COUNT(*)
		FROM job_views v
		JOIN jobs j ON j.id = v.job_id
		WHERE %s
		GROUP BY period
		ORDER BY period`, granularity, whereClause)

	return r.queryTrend(ctx, query, args...)
}

// UserRegistrationTrend buckets account signups across all roles.
func (r *analyticsRepository) UserRegistrationTrend(ctx context.Context, granularity string, from, to time.Time) ([]TrendPoint, error) {
	if !validGranularity(granularity) {
		return nil, &InvalidGranularityError{Granularity: granularity}
	}

	b := NewConditionBuilder(0)
	b.GTE("u.created_at", &from)
	b.LTE("u.created_at", &to)
	whereClause, args := b.Where()

	query := fmt.Sprintf(`
		SELECT date_trunc('%s', u.created_at) AS period, COUNT(*)
		FROM users u
		WHERE %s
		GROUP BY period
		ORDER BY period`, granularity, whereClause)

	return r.queryTrend(ctx, query, args...)
}

func (r *analyticsRepository) queryTrend(ctx context.Context, query string, args ...interface{}) ([]TrendPoint, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trend: %w", err)
	}
	defer rows.Close()

	points := make([]TrendPoint, 0)
	for rows.Next() {
		var tp TrendPoint
		if err := rows.Scan(&tp.Period, &tp.Count); err != nil {
			return nil, fmt.Errorf("failed to scan trend point: %w", err)
		}
		points = append(points, tp)
	}
	return points, rows.Err()
}

// ===============================
// SCALAR COUNTS
// ===============================

func (r *analyticsRepository) CountApplications(ctx context.Context, scope AnalyticsScope) (int64, error) {
	b := applicationScopeConditions(scope)
	whereClause, args := b.Where()

	query := "SELECT COUNT(*) FROM applications a JOIN jobs j ON j.id = a.job_id"
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	total, err := r.GetTotalCount(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return total, nil
}

func (r *analyticsRepository) CountViews(ctx context.Context, scope AnalyticsScope) (int64, error) {
	b := NewConditionBuilder(0)
	if scope.JobID != nil {
		b.Equal("v.job_id", *scope.JobID)
	}
	if scope.CompanyID != nil {
		b.Equal("j.company_id", *scope.CompanyID)
	}
	if scope.CategoryID != nil {
		b.Equal("j.category_id", *scope.CategoryID)
	}
	b.GTE("v.viewed_at", scope.From)
	b.LTE("v.viewed_at", scope.To)
	whereClause, args := b.Where()

	query := "SELECT COUNT(*) FROM job_views v JOIN jobs j ON j.id = v.job_id"
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	total, err := r.GetTotalCount(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count job views: %w", err)
	}
	return total, nil
}

// ===============================
// DASHBOARDS
// ===============================

func (r *analyticsRepository) Overview(ctx context.Context) (*OverviewStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM companies),
			(SELECT COUNT(*) FROM jobs),
			(SELECT COUNT(*) FROM jobs WHERE status = 'ACTIVE'),
			(SELECT COUNT(*) FROM applications),
			(SELECT COUNT(*) FROM job_views),
			(SELECT COUNT(*) FROM categories WHERE is_active = TRUE)`

	var stats OverviewStats
	err := r.QueryRowContext(ctx, query).Scan(
		&stats.TotalUsers, &stats.TotalStudents, &stats.TotalCompanies,
		&stats.TotalJobs, &stats.ActiveJobs, &stats.TotalApplications,
		&stats.TotalJobViews, &stats.TotalCategories,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get overview stats: %w", err)
	}
	return &stats, nil
}

func (r *analyticsRepository) CompanyStats(ctx context.Context, companyID int64) (*CompanyStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM jobs WHERE company_id = $1),
			(SELECT COUNT(*) FROM jobs WHERE company_id = $1 AND status = 'ACTIVE'),
			(SELECT COUNT(*) FROM jobs WHERE company_id = $1 AND status = 'CLOSED'),
			(SELECT COUNT(*) FROM applications a JOIN jobs j ON j.id = a.job_id WHERE j.company_id = $1),
			(SELECT COUNT(*) FROM applications a JOIN jobs j ON j.id = a.job_id WHERE j.company_id = $1 AND a.status = 'PENDING'),
			(SELECT COUNT(*) FROM applications a JOIN jobs j ON j.id = a.job_id WHERE j.company_id = $1 AND a.status = 'ACCEPTED'),
			(SELECT COUNT(*) FROM job_views v JOIN jobs j ON j.id = v.job_id WHERE j.company_id = $1)`

	stats := CompanyStats{CompanyID: companyID}
	err := r.QueryRowContext(ctx, query, companyID).Scan(
		&stats.TotalJobs, &stats.ActiveJobs, &stats.ClosedJobs,
		&stats.TotalApplications, &stats.PendingApplications,
		&stats.AcceptedApplications, &stats.TotalViews,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get company stats: %w", err)
	}
	return &stats, nil
}

func (r *analyticsRepository) StudentStats(ctx context.Context, studentID int64) (*StudentStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM applications WHERE student_id = $1),
			(SELECT COUNT(*) FROM applications WHERE student_id = $1 AND status = 'PENDING'),
			(SELECT COUNT(*) FROM applications WHERE student_id = $1 AND status = 'INTERVIEW_SCHEDULED'),
			(SELECT COUNT(*) FROM applications WHERE student_id = $1 AND status = 'ACCEPTED'),
			(SELECT COUNT(*) FROM saved_jobs WHERE student_id = $1),
			(SELECT COUNT(DISTINCT job_id) FROM job_views WHERE student_id = $1)`

	stats := StudentStats{StudentID: studentID}
	err := r.QueryRowContext(ctx, query, studentID).Scan(
		&stats.TotalApplications, &stats.PendingApplications,
		&stats.InterviewApplications, &stats.AcceptedApplications,
		&stats.SavedJobs, &stats.JobsViewed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get student stats: %w", err)
	}
	return &stats, nil
}

// ===============================
// RANKINGS
// ===============================
// Top-N queries break count ties on id descending so the ordering is stable
// across requests.

func (r *analyticsRepository) TopJobs(ctx context.Context, limit int, scope AnalyticsScope) ([]TopJob, error) {
	b := NewConditionBuilder(0)
	if scope.CompanyID != nil {
		b.Equal("j.company_id", *scope.CompanyID)
	}
	if scope.CategoryID != nil {
		b.Equal("j.category_id", *scope.CategoryID)
	}
	whereClause, args := b.Where()

	query := `
		SELECT j.id, j.title, c.name, j.application_count
		FROM jobs j
		JOIN companies c ON c.id = j.company_id`
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += fmt.Sprintf(" ORDER BY j.application_count DESC, j.id DESC LIMIT $%d", b.ArgCount()+1)
	args = append(args, limit)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to rank jobs: %w", err)
	}
	defer rows.Close()

	top := make([]TopJob, 0)
	for rows.Next() {
		var t TopJob
		if err := rows.Scan(&t.JobID, &t.Title, &t.CompanyName, &t.ApplicationCount); err != nil {
			return nil, fmt.Errorf("failed to scan top job: %w", err)
		}
		top = append(top, t)
	}
	return top, rows.Err()
}

func (r *analyticsRepository) TopCompanies(ctx context.Context, limit int) ([]TopCompany, error) {
	query := `
		SELECT c.id, c.name, COUNT(DISTINCT a.student_id) AS applicants
		FROM companies c
		JOIN jobs j ON j.company_id = c.id
		JOIN applications a ON a.job_id = j.id
		GROUP BY c.id, c.name
		ORDER BY applicants DESC, c.id DESC
		LIMIT $1`

	rows, err := r.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank companies: %w", err)
	}
	defer rows.Close()

	top := make([]TopCompany, 0)
	for rows.Next() {
		var t TopCompany
		if err := rows.Scan(&t.CompanyID, &t.Name, &t.ApplicantCount); err != nil {
			return nil, fmt.Errorf("failed to scan top company: %w", err)
		}
		top = append(top, t)
	}
	return top, rows.Err()
}

func (r *analyticsRepository) TopUniversities(ctx context.Context, limit int) ([]TopUniversity, error) {
	query := `
		SELECT st.university, COUNT(DISTINCT a.id) AS applicants
		FROM applications a
		JOIN students st ON st.id = a.student_id
		WHERE st.university IS NOT NULL AND st.university <> ''
		GROUP BY st.university
		ORDER BY applicants DESC, st.university ASC
		LIMIT $1`

	rows, err := r.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank universities: %w", err)
	}
	defer rows.Close()

	top := make([]TopUniversity, 0)
	for rows.Next() {
		var t TopUniversity
		if err := rows.Scan(&t.University, &t.ApplicantCount); err != nil {
			return nil, fmt.Errorf("failed to scan top university: %w", err)
		}
		top = append(top, t)
	}
	return top, rows.Err()
}
