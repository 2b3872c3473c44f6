package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"campushire/internal/database"
	"campushire/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// SentinelAll is the query-parameter value meaning "no filter on this field".
const SentinelAll = "ALL"

// MaxPageSize is the hard cap on items per page for every list endpoint.
const MaxPageSize = 100

// InvalidSortError reports a sort field outside a query's whitelist. The
// service layer maps it to a 400 response naming the field.
type InvalidSortError struct {
	Field string
}

func (e *InvalidSortError) Error() string {
	return fmt.Sprintf("unsupported sort field %q", e.Field)
}

// BaseRepository provides the shared filter-compilation and pagination
// helpers every repository builds on.
type BaseRepository struct {
	db     *database.Manager
	logger *zap.Logger
}

// NewBaseRepository creates a base repository.
func NewBaseRepository(db *database.Manager, logger *zap.Logger) *BaseRepository {
	return &BaseRepository{db: db, logger: logger}
}

// ===============================
// CORE DATABASE OPERATIONS
// ===============================

// ExecContext executes a statement through the instrumented manager.
func (r *BaseRepository) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return r.db.ExecContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (r *BaseRepository) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, query, args...)
}

// QueryRowContext executes a query that returns a single row.
func (r *BaseRepository) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return r.db.QueryRowContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (r *BaseRepository) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, opts)
}

// WithTransaction executes fn inside a transaction, rolling back on error or
// panic. Every multi-table write goes through here so partial writes are
// never observable.
func (r *BaseRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("Failed to rollback transaction",
				zap.Error(rbErr),
				zap.NamedError("cause", err),
			)
		}
		return err
	}

	return tx.Commit()
}

// ===============================
// FILTER COMPILATION
// ===============================

// ConditionBuilder accumulates WHERE fragments with correctly numbered
// positional arguments. The zero value starts numbering at $1; use
// NewConditionBuilder to start after pre-bound arguments.
type ConditionBuilder struct {
	conds []string
	args  []interface{}
	base  int
}

// NewConditionBuilder creates a builder whose first placeholder is
// $(argOffset+1).
func NewConditionBuilder(argOffset int) *ConditionBuilder {
	return &ConditionBuilder{base: argOffset}
}

func (b *ConditionBuilder) next() int {
	return b.base + len(b.args) + 1
}

// Raw appends a fragment with no arguments.
func (b *ConditionBuilder) Raw(cond string) *ConditionBuilder {
	b.conds = append(b.conds, cond)
	return b
}

// Cond appends a fragment with one bound argument. The fragment must carry
// exactly one %d verb marking where the placeholder number goes.
func (b *ConditionBuilder) Cond(format string, value interface{}) *ConditionBuilder {
	b.conds = append(b.conds, fmt.Sprintf(format, b.next()))
	b.args = append(b.args, value)
	return b
}

// Equal appends an equality predicate.
func (b *ConditionBuilder) Equal(column string, value interface{}) *ConditionBuilder {
	b.conds = append(b.conds, fmt.Sprintf("%s = $%d", column, b.next()))
	b.args = append(b.args, value)
	return b
}

// EqualUnlessAll appends an equality predicate unless the value is empty or
// the ALL sentinel.
func (b *ConditionBuilder) EqualUnlessAll(column, value string) *ConditionBuilder {
	if value == "" || strings.EqualFold(value, SentinelAll) {
		return b
	}
	return b.Equal(column, value)
}

// ContainsAny appends an OR-combined case-insensitive substring match across
// the given columns; all columns share one bound search term.
func (b *ConditionBuilder) ContainsAny(term string, columns ...string) *ConditionBuilder {
	if term == "" || len(columns) == 0 {
		return b
	}
	idx := b.next()
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", col, idx)
	}
	b.conds = append(b.conds, "("+strings.Join(parts, " OR ")+")")
	b.args = append(b.args, "%"+term+"%")
	return b
}

// GTE appends an inclusive lower bound when value is non-nil.
func (b *ConditionBuilder) GTE(column string, value interface{}) *ConditionBuilder {
	if isNil(value) {
		return b
	}
	b.conds = append(b.conds, fmt.Sprintf("%s >= $%d", column, b.next()))
	b.args = append(b.args, value)
	return b
}

// LTE appends an inclusive upper bound when value is non-nil.
func (b *ConditionBuilder) LTE(column string, value interface{}) *ConditionBuilder {
	if isNil(value) {
		return b
	}
	b.conds = append(b.conds, fmt.Sprintf("%s <= $%d", column, b.next()))
	b.args = append(b.args, value)
	return b
}

// In appends a set-membership predicate.
func (b *ConditionBuilder) In(column string, values []string) *ConditionBuilder {
	if len(values) == 0 {
		return b
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = fmt.Sprintf("$%d", b.next())
		b.args = append(b.args, v)
	}
	b.conds = append(b.conds, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	return b
}

// Where returns the combined clause and its arguments. An empty builder
// yields an empty clause.
func (b *ConditionBuilder) Where() (string, []interface{}) {
	if len(b.conds) == 0 {
		return "", nil
	}
	return strings.Join(b.conds, " AND "), b.args
}

// ArgCount returns how many arguments the builder has bound, including the
// offset it was created with.
func (b *ConditionBuilder) ArgCount() int {
	return b.base + len(b.args)
}

func isNil(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case *int:
		return x == nil
	case *int64:
		return x == nil
	case *float64:
		return x == nil
	case *string:
		return x == nil
	}
	return false
}

// ===============================
// PAGINATION HELPERS
// ===============================

// SortSpec whitelists the sort fields a query accepts, mapping the exposed
// name to the underlying column expression. TieBreak is appended to every
// ORDER BY so pagination is deterministic even on non-unique sort keys.
type SortSpec struct {
	Allowed  map[string]string
	Default  string
	TieBreak string
}

// ResolveOrder validates the requested sort against the whitelist and
// returns the full ORDER BY expression. Unknown fields are an error, never
// silently replaced.
func (s SortSpec) ResolveOrder(params models.PaginationParams) (string, error) {
	sortField := params.Sort
	if sortField == "" {
		sortField = s.Default
	}

	column, ok := s.Allowed[sortField]
	if !ok {
		return "", &InvalidSortError{Field: sortField}
	}

	order := strings.ToLower(params.Order)
	switch order {
	case "":
		order = "desc"
	case "asc", "desc":
	default:
		return "", &InvalidSortError{Field: params.Order}
	}

	tieBreak := s.TieBreak
	if tieBreak == "" {
		tieBreak = "id"
	}

	return fmt.Sprintf("%s %s, %s DESC", column, strings.ToUpper(order), tieBreak), nil
}

// ClampPagination normalizes page and limit to sane bounds.
func ClampPagination(params models.PaginationParams, defaultLimit int) models.PaginationParams {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = defaultLimit
	}
	if params.Limit > MaxPageSize {
		params.Limit = MaxPageSize
	}
	return params
}

// BuildPaginatedQuery assembles base + WHERE + ORDER BY + LIMIT/OFFSET.
// argOffset is the number of arguments already bound by the caller (base
// query and WHERE clause) so LIMIT/OFFSET placeholders continue the
// numbering.
func (r *BaseRepository) BuildPaginatedQuery(baseQuery, whereClause string, argOffset int, spec SortSpec, params models.PaginationParams) (string, []interface{}, error) {
	query := baseQuery
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	orderBy, err := spec.ResolveOrder(params)
	if err != nil {
		return "", nil, err
	}
	query += " ORDER BY " + orderBy

	var args []interface{}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argOffset+1, argOffset+2)
	args = append(args, params.Limit, params.Offset())

	return query, args, nil
}

// BuildCountQuery derives the count query from the same FROM/JOIN/WHERE as
// the data query. distinctExpr (e.g. "j.id") forces COUNT(DISTINCT ...) so
// one-to-many joins cannot inflate the total.
func (r *BaseRepository) BuildCountQuery(baseQuery, whereClause, distinctExpr string) string {
	fromIndex := strings.Index(strings.ToUpper(baseQuery), "FROM")
	if fromIndex == -1 {
		return ""
	}

	countExpr := "COUNT(*)"
	if distinctExpr != "" {
		countExpr = fmt.Sprintf("COUNT(DISTINCT %s)", distinctExpr)
	}

	countQuery := "SELECT " + countExpr + " " + baseQuery[fromIndex:]
	if whereClause != "" {
		countQuery += " WHERE " + whereClause
	}
	return countQuery
}

// GetTotalCount executes a count query.
func (r *BaseRepository) GetTotalCount(ctx context.Context, countQuery string, args ...interface{}) (int64, error) {
	var total int64
	err := r.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	return total, err
}

// ===============================
// UTILITY METHODS
// ===============================

// IsNotFound checks whether err is a no-rows result.
func (r *BaseRepository) IsNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// IsNoRows checks whether err is a no-rows result.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// IsUniqueViolation checks whether err is a unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// IsForeignKeyViolation checks whether err is a foreign-key violation.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

// GetDB returns the underlying database manager.
func (r *BaseRepository) GetDB() *database.Manager {
	return r.db
}

// GetLogger returns the logger instance.
func (r *BaseRepository) GetLogger() *zap.Logger {
	return r.logger
}
