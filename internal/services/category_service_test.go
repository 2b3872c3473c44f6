// file: internal/services/category_service_test.go
package services

import (
	"context"
	"database/sql"
	"testing"

	"campushire/internal/models"
	"campushire/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockCategoryRepo struct {
	categories map[int64]*models.Category
	nextID     int64
	// jobCounts drives DeleteOrDeactivate: categories with jobs are
	// deactivated instead of removed
	jobCounts map[int64]int64
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{
		categories: map[int64]*models.Category{},
		nextID:     1,
		jobCounts:  map[int64]int64{},
	}
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	for _, existing := range m.categories {
		if existing.Name == category.Name {
			return repositories.ErrDuplicateCategory
		}
	}
	category.ID = m.nextID
	category.IsActive = true
	m.nextID++
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return category, nil
}

func (m *mockCategoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockCategoryRepo) List(ctx context.Context, includeInactive bool) ([]*models.Category, error) {
	var out []*models.Category
	for _, c := range m.categories {
		if includeInactive || c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return sql.ErrNoRows
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepo) DeleteOrDeactivate(ctx context.Context, id int64) (bool, int64, error) {
	category, ok := m.categories[id]
	if !ok {
		return false, 0, sql.ErrNoRows
	}
	if jobs := m.jobCounts[id]; jobs > 0 {
		category.IsActive = false
		return true, jobs, nil
	}
	delete(m.categories, id)
	return false, 0, nil
}

func TestCreateCategory(t *testing.T) {
	repo := newMockCategoryRepo()
	service := NewCategoryService(repo, zap.NewNop())

	category, err := service.CreateCategory(context.Background(), &CreateCategoryRequest{Name: "Engineering"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), category.ID)
	assert.True(t, category.IsActive)
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	repo := newMockCategoryRepo()
	service := NewCategoryService(repo, zap.NewNop())

	_, err := service.CreateCategory(context.Background(), &CreateCategoryRequest{Name: "Engineering"})
	require.NoError(t, err)

	_, err = service.CreateCategory(context.Background(), &CreateCategoryRequest{Name: "Engineering"})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Equal(t, "CATEGORY_EXISTS", svcErr.Code)
}

func TestCreateCategoryRejectsShortName(t *testing.T) {
	service := NewCategoryService(newMockCategoryRepo(), zap.NewNop())

	_, err := service.CreateCategory(context.Background(), &CreateCategoryRequest{Name: "X"})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestUpdateCategoryNotFound(t *testing.T) {
	service := NewCategoryService(newMockCategoryRepo(), zap.NewNop())

	name := "Renamed"
	_, err := service.UpdateCategory(context.Background(), &UpdateCategoryRequest{CategoryID: 99, Name: &name})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestDeleteCategoryWithoutJobsRemovesIt(t *testing.T) {
	repo := newMockCategoryRepo()
	service := NewCategoryService(repo, zap.NewNop())

	category, err := service.CreateCategory(context.Background(), &CreateCategoryRequest{Name: "Engineering"})
	require.NoError(t, err)

	result, err := service.DeleteCategory(context.Background(), category.ID)

	require.NoError(t, err)
	assert.False(t, result.Deactivated)
	assert.Zero(t, result.JobsAffected)
	_, ok := repo.categories[category.ID]
	assert.False(t, ok)
}

func TestDeleteCategoryWithJobsDeactivates(t *testing.T) {
	repo := newMockCategoryRepo()
	service := NewCategoryService(repo, zap.NewNop())

	category, err := service.CreateCategory(context.Background(), &CreateCategoryRequest{Name: "Engineering"})
	require.NoError(t, err)
	repo.jobCounts[category.ID] = 7

	result, err := service.DeleteCategory(context.Background(), category.ID)

	require.NoError(t, err)
	assert.True(t, result.Deactivated)
	assert.Equal(t, int64(7), result.JobsAffected)
	assert.False(t, repo.categories[category.ID].IsActive, "category stays, inactive")
}

func TestDeleteCategoryNotFound(t *testing.T) {
	service := NewCategoryService(newMockCategoryRepo(), zap.NewNop())

	_, err := service.DeleteCategory(context.Background(), 42)

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}
