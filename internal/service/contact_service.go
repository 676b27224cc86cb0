package service

import (
	"context"
	"strings"

	"chai-duka/internal/mailer"
	"chai-duka/internal/model"

	"github.com/rs/zerolog"
)

// contactService implements ContactService.
type contactService struct {
	mailer mailer.Mailer
	logger zerolog.Logger
}

// NewContactService creates a new contact service.
func NewContactService(m mailer.Mailer, logger zerolog.Logger) ContactService {
	return &contactService{
		mailer: m,
		logger: logger.With().Str("service", "contact").Logger(),
	}
}

// Submit validates and forwards a contact form submission.
func (s *contactService) Submit(ctx context.Context, req *model.ContactRequest) error {
	if req == nil || req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Name, email, subject and message are required")
	}
	if !strings.Contains(req.Email, "@") {
		return model.NewDomainError(model.ErrCodeMissingField, "Email address is not valid")
	}

	if err := s.mailer.SendContact(ctx, req); err != nil {
		s.logger.Error().Err(err).Str("email", req.Email).Msg("failed to deliver contact message")
		return err
	}

	return nil
}
