// file: internal/repositories/category_repository.go
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campushire/internal/database"
	"campushire/internal/models"

	"go.uber.org/zap"
)

// ErrDuplicateCategory reports a category name collision.
var ErrDuplicateCategory = errors.New("category name already exists")

type categoryRepository struct {
	*BaseRepository
}

// NewCategoryRepository creates a category repository.
func NewCategoryRepository(db *database.Manager, logger *zap.Logger) CategoryRepository {
	return &categoryRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const categoryBaseQuery = `
	SELECT
		c.id, c.name, c.description, c.is_active, c.created_at,
		(SELECT COUNT(*) FROM jobs j WHERE j.category_id = c.id) AS jobs_count
	FROM categories c`

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, is_active, created_at`,
		category.Name, category.Description,
	).Scan(&category.ID, &category.IsActive, &category.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateCategory
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	category, err := r.scanCategory(r.QueryRowContext(ctx, categoryBaseQuery+" WHERE c.id = $1", id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	category, err := r.scanCategory(r.QueryRowContext(ctx, categoryBaseQuery+" WHERE LOWER(c.name) = LOWER($1)", name))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}
	return category, nil
}

func (r *categoryRepository) List(ctx context.Context, includeInactive bool) ([]*models.Category, error) {
	query := categoryBaseQuery
	if !includeInactive {
		query += " WHERE c.is_active = TRUE"
	}
	query += " ORDER BY c.name, c.id"

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		category, err := r.scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	result, err := r.ExecContext(ctx,
		"UPDATE categories SET name = $1, description = $2, is_active = $3 WHERE id = $4",
		category.Name, category.Description, category.IsActive, category.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateCategory
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check category update result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteOrDeactivate removes a category only when no job references it.
// Referenced categories are deactivated instead so existing jobs keep their
// classification; the caller reports jobsAffected to the admin.
func (r *categoryRepository) DeleteOrDeactivate(ctx context.Context, id int64) (bool, int64, error) {
	var (
		deactivated  bool
		jobsAffected int64
	)

	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM jobs WHERE category_id = $1",
			id,
		).Scan(&jobsAffected)
		if err != nil {
			return fmt.Errorf("failed to count category jobs: %w", err)
		}

		if jobsAffected == 0 {
			result, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
			if err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}
			rows, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to check category delete result: %w", err)
			}
			if rows == 0 {
				return sql.ErrNoRows
			}
			return nil
		}

		deactivated = true
		result, err := tx.ExecContext(ctx,
			"UPDATE categories SET is_active = FALSE WHERE id = $1",
			id,
		)
		if err != nil {
			return fmt.Errorf("failed to deactivate category: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check category deactivate result: %w", err)
		}
		if rows == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return deactivated, jobsAffected, nil
}

func (r *categoryRepository) scanCategory(row rowScanner) (*models.Category, error) {
	var category models.Category
	err := row.Scan(
		&category.ID, &category.Name, &category.Description,
		&category.IsActive, &category.CreatedAt, &category.JobsCount,
	)
	if err != nil {
		return nil, err
	}
	return &category, nil
}
