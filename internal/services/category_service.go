// file: internal/services/category_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"campushire/internal/models"
	"campushire/internal/repositories"
	"campushire/internal/validation"

	"go.uber.org/zap"
)

type categoryService struct {
	categories repositories.CategoryRepository
	logger     *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categories repositories.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryService{categories: categories, logger: logger}
}

func (s *categoryService) ListCategories(ctx context.Context, includeInactive bool) ([]*models.Category, error) {
	categories, err := s.categories.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid category payload", err)
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateCategory) {
			return nil, NewConflictError("category name already exists", "CATEGORY_EXISTS")
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("category created", zap.Int64("category_id", category.ID), zap.String("name", category.Name))
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, req *UpdateCategoryRequest) (*models.Category, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid category payload", err)
	}

	category, err := s.categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("category not found")
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateCategory) {
			return nil, NewConflictError("category name already exists", "CATEGORY_EXISTS")
		}
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("category not found")
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes an unreferenced category outright and deactivates
// a referenced one, reporting how many jobs still point at it.
func (s *categoryService) DeleteCategory(ctx context.Context, categoryID int64) (*CategoryDeleteResult, error) {
	deactivated, jobsAffected, err := s.categories.DeleteOrDeactivate(ctx, categoryID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("category not found")
		}
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}

	s.logger.Info("category deleted",
		zap.Int64("category_id", categoryID),
		zap.Bool("deactivated", deactivated),
		zap.Int64("jobs_affected", jobsAffected),
	)
	return &CategoryDeleteResult{Deactivated: deactivated, JobsAffected: jobsAffected}, nil
}
