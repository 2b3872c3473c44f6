// file: internal/repositories/contact_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"campushire/internal/database"
	"campushire/internal/models"

	"go.uber.org/zap"
)

type contactRepository struct {
	*BaseRepository
}

// NewContactRepository creates a contact-message repository.
func NewContactRepository(db *database.Manager, logger *zap.Logger) ContactRepository {
	return &contactRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

func (r *contactRepository) Create(ctx context.Context, message *models.ContactMessage) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO contact_messages (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_resolved, created_at`,
		message.Name, message.Email, message.Subject, message.Message,
	).Scan(&message.ID, &message.IsResolved, &message.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

func (r *contactRepository) List(ctx context.Context, params models.PaginationParams, unresolvedOnly bool) (*models.PaginatedResponse[*models.ContactMessage], error) {
	params = ClampPagination(params, 20)

	baseQuery := `
		SELECT id, name, email, subject, message, is_resolved, created_at
		FROM contact_messages`

	b := NewConditionBuilder(0)
	if unresolvedOnly {
		b.Raw("is_resolved = FALSE")
	}
	whereClause, args := b.Where()

	countQuery := r.BuildCountQuery(baseQuery, whereClause, "")
	total, err := r.GetTotalCount(ctx, countQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count contact messages: %w", err)
	}

	spec := SortSpec{
		Allowed:  map[string]string{"created_at": "created_at"},
		Default:  "created_at",
		TieBreak: "id",
	}
	query, limitArgs, err := r.BuildPaginatedQuery(baseQuery, whereClause, b.ArgCount(), spec, params)
	if err != nil {
		return nil, err
	}
	args = append(args, limitArgs...)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.ContactMessage, 0)
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.IsResolved, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message row: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contact message rows: %w", err)
	}

	return &models.PaginatedResponse[*models.ContactMessage]{
		Items:      messages,
		Pagination: models.NewPaginationMeta(params, total),
	}, nil
}

func (r *contactRepository) Resolve(ctx context.Context, id int64) error {
	result, err := r.ExecContext(ctx,
		"UPDATE contact_messages SET is_resolved = TRUE WHERE id = $1",
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve contact message: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check resolve result: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
