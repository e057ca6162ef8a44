package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/onproapp/website-backend/internal/domain"
	"github.com/onproapp/website-backend/internal/mail"
)

// LeadRepository is the storage contract required by the lead service.
type LeadRepository interface {
	CreateLead(ctx context.Context, lead domain.Lead) (string, error)
}

// LeadService persists lead-capture form submissions and notifies the team
// inbox about each one.
type LeadService struct {
	repo   LeadRepository
	sender mail.Sender
	logger *slog.Logger
	inbox  string
}

// NewLeadService constructs a LeadService. The inbox address receives a
// notification for every stored lead.
func NewLeadService(repo LeadRepository, sender mail.Sender, logger *slog.Logger, inbox string) *LeadService {
	return &LeadService{
		repo:   repo,
		sender: sender,
		logger: logger,
		inbox:  inbox,
	}
}

// Submit validates and persists a lead from one of the marketing-site forms.
// A notification failure is logged but never surfaced: the lead is already
// stored at that point.
func (s *LeadService) Submit(ctx context.Context, kind domain.LeadKind, req domain.LeadRequest, sourceAddr string) (string, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	message := strings.TrimSpace(req.Message)

	if !domain.ValidLeadKind(string(kind)) {
		return "", domain.NewValidationError("Invalid form type")
	}
	if name == "" || email == "" || message == "" {
		return "", domain.NewValidationError("Missing required fields")
	}
	if !emailPattern.MatchString(email) {
		return "", domain.NewValidationError("Invalid email")
	}

	id, err := s.repo.CreateLead(ctx, domain.Lead{
		Kind:      kind,
		Name:      name,
		Email:     email,
		Subject:   strings.TrimSpace(req.Subject),
		Message:   message,
		IPAddress: sourceAddr,
	})
	if err != nil {
		return "", err
	}

	if s.sender != nil && s.inbox != "" {
		notification := mail.Message{
			To:      s.inbox,
			Subject: fmt.Sprintf("New %s form submission from %s", kind, name),
			Body:    fmt.Sprintf("From: %s <%s>\n\n%s", name, email, message),
		}
		if err := s.sender.Send(ctx, notification); err != nil {
			s.logger.Warn("lead notification failed", "error", err, "leadId", id)
		}
	}

	return id, nil
}
