package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onproapp/website-backend/internal/domain"
	"github.com/onproapp/website-backend/internal/mail"
)

type stubLeadRepo struct {
	createErr error
	created   []domain.Lead
}

func (s *stubLeadRepo) CreateLead(_ context.Context, lead domain.Lead) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	s.created = append(s.created, lead)
	return "LEAD-1", nil
}

type recordingSender struct {
	sendErr  error
	messages []mail.Message
}

func (s *recordingSender) Send(_ context.Context, msg mail.Message) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.messages = append(s.messages, msg)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validLead() domain.LeadRequest {
	return domain.LeadRequest{
		Name:    "Sam",
		Email:   "sam@example.com",
		Message: "Interested in partnering with you.",
	}
}

func TestLeadSubmit_MissingFields(t *testing.T) {
	cases := map[string]domain.LeadRequest{
		"no name":    {Email: "sam@example.com", Message: "hi"},
		"no email":   {Name: "Sam", Message: "hi"},
		"no message": {Name: "Sam", Email: "sam@example.com"},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &stubLeadRepo{}
			svc := NewLeadService(repo, &recordingSender{}, discardLogger(), "team@onpro.app")

			_, err := svc.Submit(context.Background(), domain.LeadKindContact, req, "203.0.113.7")

			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err))
			assert.EqualError(t, err, "Missing required fields")
			assert.Empty(t, repo.created)
		})
	}
}

func TestLeadSubmit_InvalidKind(t *testing.T) {
	repo := &stubLeadRepo{}
	svc := NewLeadService(repo, &recordingSender{}, discardLogger(), "team@onpro.app")

	_, err := svc.Submit(context.Background(), domain.LeadKind("careers"), validLead(), "203.0.113.7")

	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	assert.Empty(t, repo.created)
}

func TestLeadSubmit_InvalidEmail(t *testing.T) {
	repo := &stubLeadRepo{}
	svc := NewLeadService(repo, &recordingSender{}, discardLogger(), "team@onpro.app")

	req := validLead()
	req.Email = "not-an-email"
	_, err := svc.Submit(context.Background(), domain.LeadKindSupport, req, "203.0.113.7")

	require.Error(t, err)
	assert.EqualError(t, err, "Invalid email")
	assert.Empty(t, repo.created)
}

func TestLeadSubmit_PersistsAndNotifies(t *testing.T) {
	repo := &stubLeadRepo{}
	sender := &recordingSender{}
	svc := NewLeadService(repo, sender, discardLogger(), "team@onpro.app")

	req := validLead()
	req.Subject = " Partnership "
	id, err := svc.Submit(context.Background(), domain.LeadKindPartner, req, "203.0.113.7")

	require.NoError(t, err)
	assert.Equal(t, "LEAD-1", id)

	require.Len(t, repo.created, 1)
	lead := repo.created[0]
	assert.Equal(t, domain.LeadKindPartner, lead.Kind)
	assert.Equal(t, "sam@example.com", lead.Email)
	assert.Equal(t, "Partnership", lead.Subject)
	assert.Equal(t, "203.0.113.7", lead.IPAddress)

	require.Len(t, sender.messages, 1)
	assert.Equal(t, "team@onpro.app", sender.messages[0].To)
	assert.Contains(t, sender.messages[0].Subject, "partner")
}

func TestLeadSubmit_NotificationFailureIsSwallowed(t *testing.T) {
	repo := &stubLeadRepo{}
	sender := &recordingSender{sendErr: errors.New("smtp down")}
	svc := NewLeadService(repo, sender, discardLogger(), "team@onpro.app")

	id, err := svc.Submit(context.Background(), domain.LeadKindContact, validLead(), "203.0.113.7")

	require.NoError(t, err, "lead is stored even when the notification fails")
	assert.NotEmpty(t, id)
	require.Len(t, repo.created, 1)
}
