// file: internal/services/analytics_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"campushire/internal/cache"
	"campushire/internal/models"
	"campushire/internal/repositories"

	"go.uber.org/zap"
)

type analyticsService struct {
	analytics repositories.AnalyticsRepository
	companies repositories.CompanyRepository
	students  repositories.StudentRepository
	cache     cache.Cache
	statsTTL  time.Duration
	logger    *zap.Logger
}

// NewAnalyticsService creates a new analytics service. Dashboard payloads
// are cached for statsTTL; a zero TTL disables caching.
func NewAnalyticsService(
	analytics repositories.AnalyticsRepository,
	companies repositories.CompanyRepository,
	students repositories.StudentRepository,
	c cache.Cache,
	statsTTL time.Duration,
	logger *zap.Logger,
) AnalyticsService {
	return &analyticsService{
		analytics: analytics,
		companies: companies,
		students:  students,
		cache:     c,
		statsTTL:  statsTTL,
		logger:    logger,
	}
}

// ===============================
// RATE ARITHMETIC
// ===============================

// roundRate rounds a percentage to one decimal place. Every rate the API
// exposes goes through here so precision is consistent across endpoints.
func roundRate(v float64) float64 {
	return math.Round(v*10) / 10
}

// percentOf computes part/whole as a percentage in [0, 100]; a zero whole
// yields 0, never NaN.
func percentOf(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	pct := float64(part) / float64(whole) * 100
	if pct > 100 {
		pct = 100
	}
	return roundRate(pct)
}

// growthRate compares the latest period against the previous one. A zero
// previous period reads as +100% growth when the current period has
// activity, and 0% when both are empty.
func growthRate(previous, current int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return roundRate(float64(current-previous) / float64(previous) * 100)
}

// ===============================
// DISTRIBUTIONS
// ===============================

// StatusDistribution returns one bucket per recognized application status.
// Statuses absent from the data come back with a zero count rather than
// being omitted.
func (s *analyticsService) StatusDistribution(ctx context.Context, scope repositories.AnalyticsScope) (*StatusDistribution, error) {
	raw, err := s.analytics.CountApplicationsByStatus(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to get status distribution: %w", err)
	}

	counts := make(map[string]int64, len(raw))
	for _, sc := range raw {
		counts[sc.Status] = sc.Count
	}

	var total, accepted int64
	statuses := make([]repositories.StatusCount, 0, len(models.ApplicationStatuses))
	for _, status := range models.ApplicationStatuses {
		count := counts[status]
		statuses = append(statuses, repositories.StatusCount{Status: status, Count: count})
		total += count
		if status == models.ApplicationStatusAccepted {
			accepted = count
		}
	}

	views, err := s.analytics.CountViews(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to count views for conversion rate: %w", err)
	}

	return &StatusDistribution{
		Total:          total,
		Statuses:       statuses,
		ConversionRate: percentOf(total, views),
		AcceptanceRate: percentOf(accepted, total),
	}, nil
}

// ===============================
// TRENDS
// ===============================

func (s *analyticsService) ApplicationTrend(ctx context.Context, granularity string, from, to time.Time, scope repositories.AnalyticsScope) (*TrendReport, error) {
	points, err := s.analytics.ApplicationTrend(ctx, granularity, from, to, scope)
	if err != nil {
		return nil, s.mapTrendError(err)
	}
	return buildTrendReport(granularity, from, to, points), nil
}

func (s *analyticsService) JobViewTrend(ctx context.Context, granularity string, from, to time.Time, scope repositories.AnalyticsScope) (*TrendReport, error) {
	points, err := s.analytics.JobViewTrend(ctx, granularity, from, to, scope)
	if err != nil {
		return nil, s.mapTrendError(err)
	}
	return buildTrendReport(granularity, from, to, points), nil
}

func (s *analyticsService) mapTrendError(err error) error {
	var granErr *repositories.InvalidGranularityError
	if errors.As(err, &granErr) {
		return NewValidationError(granErr.Error(), nil)
	}
	return fmt.Errorf("failed to get trend: %w", err)
}

// buildTrendReport zero-fills the bucket sequence across the requested
// window. Every period between from and to appears exactly once, including
// periods with no events.
func buildTrendReport(granularity string, from, to time.Time, points []repositories.TrendPoint) *TrendReport {
	observed := make(map[time.Time]int64, len(points))
	for _, p := range points {
		observed[p.Period.UTC()] = p.Count
	}

	filled := make([]repositories.TrendPoint, 0)
	var total int64
	for period := truncatePeriod(from.UTC(), granularity); !period.After(to.UTC()); period = nextPeriod(period, granularity) {
		count := observed[period]
		filled = append(filled, repositories.TrendPoint{Period: period, Count: count})
		total += count
	}

	var growth float64
	if n := len(filled); n >= 2 {
		growth = growthRate(filled[n-2].Count, filled[n-1].Count)
	} else if n == 1 && filled[0].Count > 0 {
		growth = 100
	}

	return &TrendReport{
		Granularity: granularity,
		From:        from,
		To:          to,
		Points:      filled,
		Total:       total,
		GrowthRate:  growth,
	}
}

// truncatePeriod floors t to its bucket start, mirroring how the database
// truncates timestamps: midnight for days, Monday for weeks, the first of
// the month for months.
func truncatePeriod(t time.Time, granularity string) time.Time {
	switch granularity {
	case repositories.GranularityWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case repositories.GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

func nextPeriod(t time.Time, granularity string) time.Time {
	switch granularity {
	case repositories.GranularityWeek:
		return t.AddDate(0, 0, 7)
	case repositories.GranularityMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// ===============================
// DASHBOARDS
// ===============================

func (s *analyticsService) CompanyDashboard(ctx context.Context, companyUserID int64) (*CompanyDashboard, error) {
	company, err := s.companies.GetByUserID(ctx, companyUserID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewForbiddenError("company profile required")
		}
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}

	cacheKey := fmt.Sprintf("stats:company:%d", company.ID)
	var cached CompanyDashboard
	if s.fromCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	stats, err := s.analytics.CompanyStats(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company stats: %w", err)
	}

	scope := repositories.AnalyticsScope{CompanyID: &company.ID}
	distribution, err := s.StatusDistribution(ctx, scope)
	if err != nil {
		return nil, err
	}

	topJobs, err := s.analytics.TopJobs(ctx, 5, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to get top jobs: %w", err)
	}

	now := time.Now().UTC()
	trend, err := s.ApplicationTrend(ctx, repositories.GranularityWeek, now.AddDate(0, 0, -28), now, scope)
	if err != nil {
		return nil, err
	}

	dashboard := &CompanyDashboard{
		Stats:              stats,
		StatusDistribution: distribution,
		TopJobs:            topJobs,
		RecentTrend:        trend,
	}
	s.toCache(ctx, cacheKey, dashboard)
	return dashboard, nil
}

func (s *analyticsService) StudentDashboard(ctx context.Context, studentUserID int64) (*StudentDashboard, error) {
	student, err := s.students.GetByUserID(ctx, studentUserID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewForbiddenError("student profile required")
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	cacheKey := fmt.Sprintf("stats:student:%d", student.ID)
	var cached StudentDashboard
	if s.fromCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	stats, err := s.analytics.StudentStats(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student stats: %w", err)
	}

	// Distribution derived from the student's own totals; trivial counts,
	// but zero-filled the same way as everywhere else.
	statuses := []repositories.StatusCount{
		{Status: models.ApplicationStatusPending, Count: stats.PendingApplications},
		{Status: models.ApplicationStatusInterviewScheduled, Count: stats.InterviewApplications},
		{Status: models.ApplicationStatusAccepted, Count: stats.AcceptedApplications},
		{Status: models.ApplicationStatusRejected, Count: 0},
		{Status: models.ApplicationStatusWithdrawn, Count: 0},
	}
	var tracked int64
	for _, sc := range statuses {
		tracked += sc.Count
	}
	remainder := stats.TotalApplications - tracked
	if remainder > 0 {
		statuses[3].Count = remainder
	}

	dashboard := &StudentDashboard{
		Stats: stats,
		StatusDistribution: &StatusDistribution{
			Total:          stats.TotalApplications,
			Statuses:       statuses,
			AcceptanceRate: percentOf(stats.AcceptedApplications, stats.TotalApplications),
		},
	}
	s.toCache(ctx, cacheKey, dashboard)
	return dashboard, nil
}

func (s *analyticsService) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	const cacheKey = "stats:admin:overview"
	var cached AdminDashboard
	if s.fromCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	overview, err := s.analytics.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get overview: %w", err)
	}

	topJobs, err := s.analytics.TopJobs(ctx, 10, repositories.AnalyticsScope{})
	if err != nil {
		return nil, fmt.Errorf("failed to get top jobs: %w", err)
	}
	topCompanies, err := s.analytics.TopCompanies(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to get top companies: %w", err)
	}
	topUniversities, err := s.analytics.TopUniversities(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to get top universities: %w", err)
	}

	// Signups over the trailing twelve weeks, bucketed weekly.
	now := time.Now().UTC()
	growthFrom := now.AddDate(0, 0, -84)
	signups, err := s.analytics.UserRegistrationTrend(ctx, repositories.GranularityWeek, growthFrom, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get user growth: %w", err)
	}

	dashboard := &AdminDashboard{
		Overview:        overview,
		TopJobs:         topJobs,
		TopCompanies:    topCompanies,
		TopUniversities: topUniversities,
		UserGrowth:      buildTrendReport(repositories.GranularityWeek, growthFrom, now, signups),
	}
	s.toCache(ctx, cacheKey, dashboard)
	return dashboard, nil
}

// ===============================
// CACHE HELPERS
// ===============================

// statsKeyPrefix namespaces cached dashboard aggregates.
const statsKeyPrefix = "stats:"

// invalidateStats drops every cached dashboard so the next read recomputes
// from the database. Called by the application and job write paths.
func invalidateStats(ctx context.Context, c cache.Cache, logger *zap.Logger) {
	if c == nil {
		return
	}
	if err := c.DeletePattern(ctx, statsKeyPrefix+"*"); err != nil {
		logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}

func (s *analyticsService) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil || s.statsTTL <= 0 {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *analyticsService) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil || s.statsTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.statsTTL); err != nil {
		s.logger.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
}
