// file: internal/handlers/api/v1/contact/contact_controller.go
package contact

import (
	"encoding/json"
	"net/http"

	"campushire/internal/response"
	"campushire/internal/services"

	"go.uber.org/zap"
)

type ContactController struct {
	services        *services.Collection
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewContactController creates a new contact controller
func NewContactController(sc *services.Collection, logger *zap.Logger, rb *response.Builder) *ContactController {
	return &ContactController{
		services:        sc,
		logger:          logger,
		responseBuilder: rb,
	}
}

// Submit accepts a public contact-form message
func (c *ContactController) Submit(w http.ResponseWriter, r *http.Request) {
	var req services.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	message, err := c.services.Contact.Submit(r.Context(), &req)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Created(w, r, "message received", message)
}
