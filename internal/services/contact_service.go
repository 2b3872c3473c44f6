// file: internal/services/contact_service.go
package services

import (
	"context"
	"fmt"

	"campushire/internal/models"
	"campushire/internal/repositories"
	"campushire/internal/validation"

	"go.uber.org/zap"
)

type contactService struct {
	contact repositories.ContactRepository
	logger  *zap.Logger
}

// NewContactService creates a new contact service
func NewContactService(contact repositories.ContactRepository, logger *zap.Logger) ContactService {
	return &contactService{contact: contact, logger: logger}
}

func (s *contactService) Submit(ctx context.Context, req *ContactRequest) (*models.ContactMessage, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid contact payload", err)
	}

	message := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.contact.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to submit contact message: %w", err)
	}

	s.logger.Info("contact message received",
		zap.Int64("message_id", message.ID),
		zap.String("subject", message.Subject),
	)
	return message, nil
}
