// file: internal/repositories/student_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"campushire/internal/database"
	"campushire/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var candidateSortSpec = SortSpec{
	Allowed: map[string]string{
		"created_at": "st.created_at",
		"gpa":        "st.gpa",
		"year":       "st.year",
		"university": "st.university",
		"full_name":  "u.full_name",
	},
	Default:  "created_at",
	TieBreak: "st.id",
}

type studentRepository struct {
	*BaseRepository
}

// NewStudentRepository creates a student repository.
func NewStudentRepository(db *database.Manager, logger *zap.Logger) StudentRepository {
	return &studentRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const studentSelectColumns = `
	SELECT DISTINCT
		st.id, st.user_id, st.university, st.major, st.year, st.gpa,
		st.availability, st.preferred_job_types, st.preferred_locations,
		st.expected_salary_min, st.expected_salary_max,
		st.resume_url, st.resume_public_id,
		st.created_at, st.updated_at,
		u.email, u.full_name`

const studentFromClause = `
	FROM students st
	JOIN users u ON u.id = st.user_id`

const studentBaseQuery = studentSelectColumns + studentFromClause

// ===============================
// PROFILE ACCESS
// ===============================

func (r *studentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	student, err := r.scanStudent(r.QueryRowContext(ctx, studentBaseQuery+" WHERE st.user_id = $1", userID))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}
	return student, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	student, err := r.scanStudent(r.QueryRowContext(ctx, studentBaseQuery+" WHERE st.id = $1", id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students SET
			university = $1, major = $2, year = $3, gpa = $4,
			availability = $5, preferred_job_types = $6,
			preferred_locations = $7, expected_salary_min = $8,
			expected_salary_max = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at`

	err := r.QueryRowContext(ctx, query,
		student.University, student.Major, student.Year, student.GPA,
		student.Availability,
		pq.Array([]string(student.PreferredJobTypes)),
		pq.Array([]string(student.PreferredLocations)),
		student.ExpectedSalaryMin, student.ExpectedSalaryMax,
		student.ID,
	).Scan(&student.UpdatedAt)
	if err != nil {
		if r.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to update student profile: %w", err)
	}
	return nil
}

func (r *studentRepository) SetResume(ctx context.Context, studentID int64, url, publicID string) error {
	result, err := r.ExecContext(ctx,
		"UPDATE students SET resume_url = $1, resume_public_id = $2, updated_at = NOW() WHERE id = $3",
		url, publicID, studentID,
	)
	if err != nil {
		return fmt.Errorf("failed to set resume: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check resume update result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===============================
// CANDIDATE SEARCH
// ===============================

// buildCandidateConditions compiles the candidate filters. The skills filter
// joins the skills table one-to-many, which is why the count query uses
// COUNT(DISTINCT st.id) and the select is DISTINCT.
func buildCandidateConditions(filter CandidateFilter) (*ConditionBuilder, string) {
	joins := ""
	b := NewConditionBuilder(0)

	if filter.CompanyID != nil {
		b.Cond(`st.id IN (
			SELECT a.student_id FROM applications a
			JOIN jobs j ON j.id = a.job_id
			WHERE j.company_id = $%d)`, *filter.CompanyID)
	}
	b.ContainsAny(filter.Search, "u.full_name", "u.email", "st.university", "st.major")
	b.ContainsAny(filter.University, "st.university")
	b.ContainsAny(filter.Major, "st.major")
	b.GTE("st.gpa", filter.MinGPA)
	b.LTE("st.gpa", filter.MaxGPA)
	if filter.Year != nil {
		b.Equal("st.year", *filter.Year)
	}
	if filter.Availability != nil {
		b.Equal("st.availability", *filter.Availability)
	}
	if filter.Location != "" {
		b.Cond(`EXISTS (
			SELECT 1 FROM unnest(st.preferred_locations) AS loc
			WHERE loc ILIKE $%d)`, "%"+filter.Location+"%")
	}
	if len(filter.Skills) > 0 {
		joins += " JOIN skills sk ON sk.user_id = u.id"
		b.Cond("LOWER(sk.name) = ANY($%d)", pq.Array(lowerAll(filter.Skills)))
	}
	b.Raw("u.is_active = TRUE")

	return b, joins
}

func (r *studentRepository) SearchCandidates(ctx context.Context, filter CandidateFilter) (*models.PaginatedResponse[*models.Student], error) {
	filter.Pagination = ClampPagination(filter.Pagination, 20)

	b, joins := buildCandidateConditions(filter)
	whereClause, args := b.Where()

	countQuery := r.BuildCountQuery("SELECT 1"+studentFromClause+joins, whereClause, "st.id")
	total, err := r.GetTotalCount(ctx, countQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}

	baseQuery := studentSelectColumns + studentFromClause + joins
	query, limitArgs, err := r.BuildPaginatedQuery(baseQuery, whereClause, b.ArgCount(), candidateSortSpec, filter.Pagination)
	if err != nil {
		return nil, err
	}
	args = append(args, limitArgs...)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student, err := r.scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidate rows: %w", err)
	}

	return &models.PaginatedResponse[*models.Student]{
		Items:      students,
		Pagination: models.NewPaginationMeta(filter.Pagination, total),
	}, nil
}

func (r *studentRepository) scanStudent(row rowScanner) (*models.Student, error) {
	var student models.Student
	err := row.Scan(
		&student.ID, &student.UserID, &student.University, &student.Major,
		&student.Year, &student.GPA, &student.Availability,
		&student.PreferredJobTypes, &student.PreferredLocations,
		&student.ExpectedSalaryMin, &student.ExpectedSalaryMax,
		&student.ResumeURL, &student.ResumePublicID,
		&student.CreatedAt, &student.UpdatedAt,
		&student.Email, &student.FullName,
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
