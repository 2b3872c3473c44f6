// file: internal/services/admin_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"campushire/internal/models"
	"campushire/internal/repositories"

	"go.uber.org/zap"
)

type adminService struct {
	users        repositories.UserRepository
	companies    repositories.CompanyRepository
	applications repositories.ApplicationRepository
	contact      repositories.ContactRepository
	logger       *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	users repositories.UserRepository,
	companies repositories.CompanyRepository,
	applications repositories.ApplicationRepository,
	contact repositories.ContactRepository,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		users:        users,
		companies:    companies,
		applications: applications,
		contact:      contact,
		logger:       logger,
	}
}

func (s *adminService) ListUsers(ctx context.Context, filter repositories.UserFilter) (*models.PaginatedResponse[*models.User], error) {
	if filter.Role != "" && filter.Role != repositories.SentinelAll &&
		filter.Role != models.RoleStudent && filter.Role != models.RoleCompany && filter.Role != models.RoleAdmin {
		return nil, NewValidationError("unknown role filter", nil)
	}

	result, err := s.users.List(ctx, filter)
	if err != nil {
		var sortErr *repositories.InvalidSortError
		if errors.As(err, &sortErr) {
			return nil, NewValidationError(sortErr.Error(), nil)
		}
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	for _, user := range result.Items {
		user.PasswordHash = ""
	}
	return result, nil
}

func (s *adminService) SetUserActive(ctx context.Context, userID int64, active bool) error {
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		if repositories.IsNoRows(err) {
			return NewNotFoundError("user not found")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("user active flag changed",
		zap.Int64("user_id", userID),
		zap.Bool("active", active),
	)
	return nil
}

func (s *adminService) VerifyCompany(ctx context.Context, companyID int64) error {
	if err := s.companies.SetVerified(ctx, companyID, true); err != nil {
		if repositories.IsNoRows(err) {
			return NewNotFoundError("company not found")
		}
		return fmt.Errorf("failed to verify company: %w", err)
	}

	s.logger.Info("company verified", zap.Int64("company_id", companyID))
	return nil
}

// ListApplications lists applications across all companies, unlike the
// company-scoped listing on ApplicationService.
func (s *adminService) ListApplications(ctx context.Context, filter repositories.ApplicationFilter) (*models.PaginatedResponse[*models.Application], error) {
	if filter.Status != "" && filter.Status != repositories.SentinelAll && !models.IsValidApplicationStatus(filter.Status) {
		return nil, NewValidationError("unknown application status filter", nil)
	}

	result, err := s.applications.List(ctx, filter)
	if err != nil {
		var sortErr *repositories.InvalidSortError
		if errors.As(err, &sortErr) {
			return nil, NewValidationError(sortErr.Error(), nil)
		}
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return result, nil
}

// ExportApplicationsCSV streams every matching application, platform-wide.
func (s *adminService) ExportApplicationsCSV(ctx context.Context, filter repositories.ApplicationFilter, w CSVWriter) error {
	if err := w.Write(applicationCSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	err := s.applications.StreamAll(ctx, filter, func(app *models.Application) error {
		return w.Write(applicationCSVRow(app))
	})
	if err != nil {
		return fmt.Errorf("failed to export applications: %w", err)
	}

	w.Flush()
	return w.Error()
}

func (s *adminService) ListContactMessages(ctx context.Context, params models.PaginationParams, unresolvedOnly bool) (*models.PaginatedResponse[*models.ContactMessage], error) {
	result, err := s.contact.List(ctx, params, unresolvedOnly)
	if err != nil {
		var sortErr *repositories.InvalidSortError
		if errors.As(err, &sortErr) {
			return nil, NewValidationError(sortErr.Error(), nil)
		}
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return result, nil
}

func (s *adminService) ResolveContactMessage(ctx context.Context, id int64) error {
	if err := s.contact.Resolve(ctx, id); err != nil {
		if repositories.IsNoRows(err) {
			return NewNotFoundError("contact message not found")
		}
		return fmt.Errorf("failed to resolve contact message: %w", err)
	}
	return nil
}
