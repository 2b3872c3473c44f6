// file: internal/handlers/api/v1/categories/categories_controller.go
package categories

import (
	"encoding/json"
	"net/http"
	"strconv"

	"campushire/internal/response"
	"campushire/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CategoryController struct {
	services        *services.Collection
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewCategoryController creates a new category controller
func NewCategoryController(sc *services.Collection, logger *zap.Logger, rb *response.Builder) *CategoryController {
	return &CategoryController{
		services:        sc,
		logger:          logger,
		responseBuilder: rb,
	}
}

// ListCategories returns categories; inactive ones only when asked for
// (the admin UI passes include_inactive=true)
func (c *CategoryController) ListCategories(w http.ResponseWriter, r *http.Request) {
	include, err := response.QueryBool(r.URL.Query(), "include_inactive")
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}
	includeInactive := include != nil && *include

	categories, err := c.services.Categories.ListCategories(r.Context(), includeInactive)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "categories retrieved", categories)
}

// CreateCategory adds a new job category
func (c *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	category, err := c.services.Categories.CreateCategory(r.Context(), &req)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Created(w, r, "category created", category)
}

// UpdateCategory edits an existing category
func (c *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := c.pathID(w, r)
	if !ok {
		return
	}

	var req services.UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.CategoryID = categoryID

	category, err := c.services.Categories.UpdateCategory(r.Context(), &req)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "category updated", category)
}

// DeleteCategory removes a category, or deactivates it when jobs still
// reference it
func (c *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := c.pathID(w, r)
	if !ok {
		return
	}

	result, err := c.services.Categories.DeleteCategory(r.Context(), categoryID)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	if result.Deactivated {
		c.responseBuilder.Success(w, r, "category deactivated", result)
		return
	}
	c.responseBuilder.Success(w, r, "category deleted", result)
}

func (c *CategoryController) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
	if err != nil || id <= 0 {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid categoryID", err))
		return 0, false
	}
	return id, true
}
