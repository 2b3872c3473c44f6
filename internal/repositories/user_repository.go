// file: internal/repositories/user_repository.go
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

// ErrDuplicateEmail reports a registration against an existing address.
var ErrDuplicateEmail = errors.New("email already registered")

var userSortSpec = SortSpec{
	Allowed: map[string]string{
		"created_at": "u.created_at",
		"email":      "u.email",
		"full_name":  "u.full_name",
		"role":       "u.role",
	},
	Default:  "created_at",
	TieBreak: "u.id",
}

type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const userBaseQuery = `
	SELECT
		u.id, u.email, u.password_hash, u.full_name, u.role,
		u.is_active, u.is_verified, u.created_at, u.updated_at
	FROM users u`

// ===============================
// ACCOUNT CREATION
// ===============================
// Registration writes the account row and its role profile in one
// transaction so a user can never exist without a profile.

func (r *userRepository) CreateStudentAccount(ctx context.Context, user *models.User, student *models.Student) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := r.insertUser(ctx, tx, user); err != nil {
			return err
		}

		student.UserID = user.ID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO students (
				user_id, university, major, year, gpa, availability,
				preferred_job_types, preferred_locations,
				expected_salary_min, expected_salary_max
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, created_at, updated_at`,
			student.UserID, student.University, student.Major, student.Year,
			student.GPA, student.Availability,
			pq.Array([]string(student.PreferredJobTypes)),
			pq.Array([]string(student.PreferredLocations)),
			student.ExpectedSalaryMin, student.ExpectedSalaryMax,
		).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create student profile: %w", err)
		}

		user.Student = student
		return nil
	})
}

func (r *userRepository) CreateCompanyAccount(ctx context.Context, user *models.User, company *models.Company) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := r.insertUser(ctx, tx, user); err != nil {
			return err
		}

		company.UserID = user.ID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO companies (user_id, name, industry, description, website)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`,
			company.UserID, company.Name, company.Industry,
			company.Description, company.Website,
		).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create company profile: %w", err)
		}

		user.Company = company
		return nil
	})
}

func (r *userRepository) insertUser(ctx context.Context, tx *sql.Tx, user *models.User) error {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, full_name, role)
		VALUES (LOWER($1), $2, $3, $4)
		RETURNING id, is_active, is_verified, created_at, updated_at`,
		user.Email, user.PasswordHash, user.FullName, user.Role,
	).Scan(&user.ID, &user.IsActive, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// ===============================
// LOOKUPS
// ===============================

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := r.scanUser(r.QueryRowContext(ctx, userBaseQuery+" WHERE u.id = $1", id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.scanUser(r.QueryRowContext(ctx, userBaseQuery+" WHERE u.email = LOWER($1)", email))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) (*models.PaginatedResponse[*models.User], error) {
	filter.Pagination = ClampPagination(filter.Pagination, 20)

	b := NewConditionBuilder(0)
	b.ContainsAny(filter.Search, "u.email", "u.full_name")
	b.EqualUnlessAll("u.role", filter.Role)
	if filter.IsActive != nil {
		b.Equal("u.is_active", *filter.IsActive)
	}

	whereClause, args := b.Where()

	countQuery := r.BuildCountQuery(userBaseQuery, whereClause, "")
	total, err := r.GetTotalCount(ctx, countQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	query, limitArgs, err := r.BuildPaginatedQuery(userBaseQuery, whereClause, b.ArgCount(), userSortSpec, filter.Pagination)
	if err != nil {
		return nil, err
	}
	args = append(args, limitArgs...)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return &models.PaginatedResponse[*models.User]{
		Items:      users,
		Pagination: models.NewPaginationMeta(filter.Pagination, total),
	}, nil
}

func (r *userRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	result, err := r.ExecContext(ctx,
		"UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2",
		active, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user active flag: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check active update result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===============================
// PROFILE SUB-RECORDS
// ===============================
// Skills, experiences and links are replaced wholesale: the edit form
// submits the complete set, so each write clears and reinserts inside one
// transaction.

func (r *userRepository) ReplaceSkills(ctx context.Context, userID int64, skills []models.Skill) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM skills WHERE user_id = $1", userID); err != nil {
			return fmt.Errorf("failed to clear skills: %w", err)
		}
		for i := range skills {
			skills[i].UserID = userID
			err := tx.QueryRowContext(ctx,
				"INSERT INTO skills (user_id, name, level) VALUES ($1, $2, $3) RETURNING id",
				userID, skills[i].Name, skills[i].Level,
			).Scan(&skills[i].ID)
			if err != nil {
				return fmt.Errorf("failed to insert skill: %w", err)
			}
		}
		return nil
	})
}

func (r *userRepository) ReplaceExperiences(ctx context.Context, userID int64, experiences []models.Experience) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM experiences WHERE user_id = $1", userID); err != nil {
			return fmt.Errorf("failed to clear experiences: %w", err)
		}
		for i := range experiences {
			experiences[i].UserID = userID
			err := tx.QueryRowContext(ctx, `
				INSERT INTO experiences (user_id, title, company, description, start_date, end_date)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
				userID, experiences[i].Title, experiences[i].Company,
				experiences[i].Description, experiences[i].StartDate, experiences[i].EndDate,
			).Scan(&experiences[i].ID)
			if err != nil {
				return fmt.Errorf("failed to insert experience: %w", err)
			}
		}
		return nil
	})
}

func (r *userRepository) ReplaceLinks(ctx context.Context, userID int64, links []models.Link) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM links WHERE user_id = $1", userID); err != nil {
			return fmt.Errorf("failed to clear links: %w", err)
		}
		for i := range links {
			links[i].UserID = userID
			err := tx.QueryRowContext(ctx,
				"INSERT INTO links (user_id, label, url) VALUES ($1, $2, $3) RETURNING id",
				userID, links[i].Label, links[i].URL,
			).Scan(&links[i].ID)
			if err != nil {
				return fmt.Errorf("failed to insert link: %w", err)
			}
		}
		return nil
	})
}

func (r *userRepository) GetSkills(ctx context.Context, userID int64) ([]models.Skill, error) {
	rows, err := r.QueryContext(ctx,
		"SELECT id, user_id, name, level FROM skills WHERE user_id = $1 ORDER BY name, id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get skills: %w", err)
	}
	defer rows.Close()

	skills := make([]models.Skill, 0)
	for rows.Next() {
		var s models.Skill
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Level); err != nil {
			return nil, fmt.Errorf("failed to scan skill row: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *userRepository) GetExperiences(ctx context.Context, userID int64) ([]models.Experience, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT id, user_id, title, company, description, start_date, end_date
		FROM experiences WHERE user_id = $1
		ORDER BY start_date DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get experiences: %w", err)
	}
	defer rows.Close()

	experiences := make([]models.Experience, 0)
	for rows.Next() {
		var e models.Experience
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Company, &e.Description, &e.StartDate, &e.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan experience row: %w", err)
		}
		experiences = append(experiences, e)
	}
	return experiences, rows.Err()
}

func (r *userRepository) GetLinks(ctx context.Context, userID int64) ([]models.Link, error) {
	rows, err := r.QueryContext(ctx,
		"SELECT id, user_id, label, url FROM links WHERE user_id = $1 ORDER BY label, id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get links: %w", err)
	}
	defer rows.Close()

	links := make([]models.Link, 0)
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(&l.ID, &l.UserID, &l.Label, &l.URL); err != nil {
			return nil, fmt.Errorf("failed to scan link row: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *userRepository) scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role,
		&user.IsActive, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
