package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sidegames-golf/sidegames/mailer"
	"github.com/sidegames-golf/sidegames/utils"
)

const maxContactMessageLength = 5000

type ContactService interface {
	Send(ctx context.Context, input ContactInput) error
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type contactService struct {
	mail mailer.Mailer
}

func NewContactService(mail mailer.Mailer) ContactService {
	return &contactService{mail: mail}
}

func (s *contactService) Send(ctx context.Context, input ContactInput) error {
	msg := mailer.ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   normalizeEmail(input.Email),
		Message: strings.TrimSpace(input.Message),
	}

	v := utils.NewValidator()
	v.Check(utils.IsRequired(msg.Name), "name", "must be provided")
	v.Check(utils.IsValidEmail(msg.Email), "email", "must be a valid email address")
	v.Check(utils.IsRequired(msg.Message), "message", "must be provided")
	v.Check(utf8.RuneCountInString(msg.Message) <= maxContactMessageLength, "message", "must not be more than 5000 characters")
	if !v.Valid() {
		return newValidationError(v.Errors)
	}

	if err := s.mail.SendContactMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to send contact message: %w", err)
	}
	return nil
}
