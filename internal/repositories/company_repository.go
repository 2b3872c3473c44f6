// file: internal/repositories/company_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"campushire/internal/database"
	"campushire/internal/models"

	"go.uber.org/zap"
)

type companyRepository struct {
	*BaseRepository
}

// NewCompanyRepository creates a company repository.
func NewCompanyRepository(db *database.Manager, logger *zap.Logger) CompanyRepository {
	return &companyRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const companyBaseQuery = `
	SELECT
		c.id, c.user_id, c.name, c.industry, c.description, c.website,
		c.logo_url, c.logo_public_id, c.is_verified,
		c.created_at, c.updated_at,
		(SELECT COUNT(*) FROM jobs j WHERE j.company_id = c.id AND j.status = 'ACTIVE') AS jobs_count
	FROM companies c`

func (r *companyRepository) GetByUserID(ctx context.Context, userID int64) (*models.Company, error) {
	company, err := r.scanCompany(r.QueryRowContext(ctx, companyBaseQuery+" WHERE c.user_id = $1", userID))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}
	return company, nil
}

func (r *companyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	company, err := r.scanCompany(r.QueryRowContext(ctx, companyBaseQuery+" WHERE c.id = $1", id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

func (r *companyRepository) Update(ctx context.Context, company *models.Company) error {
	query := `
		UPDATE companies SET
			name = $1, industry = $2, description = $3, website = $4,
			logo_url = $5, logo_public_id = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	err := r.QueryRowContext(ctx, query,
		company.Name, company.Industry, company.Description, company.Website,
		company.LogoURL, company.LogoPublicID, company.ID,
	).Scan(&company.UpdatedAt)
	if err != nil {
		if r.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to update company: %w", err)
	}
	return nil
}

func (r *companyRepository) SetVerified(ctx context.Context, companyID int64, verified bool) error {
	result, err := r.ExecContext(ctx,
		"UPDATE companies SET is_verified = $1, updated_at = NOW() WHERE id = $2",
		verified, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update company verification: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check verification update result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *companyRepository) List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.Company], error) {
	params = ClampPagination(params, 20)

	total, err := r.GetTotalCount(ctx, "SELECT COUNT(*) FROM companies")
	if err != nil {
		return nil, fmt.Errorf("failed to count companies: %w", err)
	}

	spec := SortSpec{
		Allowed: map[string]string{
			"created_at": "c.created_at",
			"name":       "c.name",
		},
		Default:  "name",
		TieBreak: "c.id",
	}
	query, args, err := r.BuildPaginatedQuery(companyBaseQuery, "", 0, spec, params)
	if err != nil {
		return nil, err
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]*models.Company, 0)
	for rows.Next() {
		company, err := r.scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company row: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate company rows: %w", err)
	}

	return &models.PaginatedResponse[*models.Company]{
		Items:      companies,
		Pagination: models.NewPaginationMeta(params, total),
	}, nil
}

func (r *companyRepository) scanCompany(row rowScanner) (*models.Company, error) {
	var company models.Company
	err := row.Scan(
		&company.ID, &company.UserID, &company.Name, &company.Industry,
		&company.Description, &company.Website, &company.LogoURL,
		&company.LogoPublicID, &company.IsVerified,
		&company.CreatedAt, &company.UpdatedAt,
		&company.JobsCount,
	)
	if err != nil {
		return nil, err
	}
	return &company, nil
}
