package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onproapp/website-backend/internal/domain"
)

type stubSignupRepo struct {
	count     int64
	countErr  error
	exists    bool
	existsErr error
	createErr error

	// registered tracks canonical emails across calls when non-nil, so
	// sequences of submissions behave like a real store.
	registered map[string]bool

	countCalls  int
	existsCalls int
	createCalls int
	lastAddr    string
	lastSince   time.Time
	lastEmail   string
	created     []domain.WaitlistSignup
}

func (s *stubSignupRepo) CountSignupsFromAddress(_ context.Context, ipAddress string, since time.Time) (int64, error) {
	s.countCalls++
	s.lastAddr = ipAddress
	s.lastSince = since
	return s.count, s.countErr
}

func (s *stubSignupRepo) SignupEmailExists(_ context.Context, email string) (bool, error) {
	s.existsCalls++
	s.lastEmail = email
	if s.existsErr != nil {
		return false, s.existsErr
	}
	if s.registered != nil {
		return s.registered[email], nil
	}
	return s.exists, nil
}

func (s *stubSignupRepo) CreateSignup(_ context.Context, signup domain.WaitlistSignup) (string, error) {
	s.createCalls++
	if s.createErr != nil {
		return "", s.createErr
	}
	s.created = append(s.created, signup)
	if s.registered != nil {
		s.registered[signup.Email] = true
	}
	return fmt.Sprintf("WL-%d", s.createCalls), nil
}

func validRequest() domain.SignupRequest {
	return domain.SignupRequest{
		Name:     "Alex",
		Email:    "alex@example.com",
		UserType: "patron",
		City:     "Tampa",
	}
}

func TestSubmit_MissingRequiredFields(t *testing.T) {
	cases := map[string]domain.SignupRequest{
		"no name":      {Email: "a@b.com", UserType: "patron"},
		"no email":     {Name: "Alex", UserType: "patron"},
		"no user type": {Name: "Alex", Email: "a@b.com"},
		"blank name":   {Name: "   ", Email: "a@b.com", UserType: "patron"},
		"empty":        {},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &stubSignupRepo{}
			svc := NewWaitlistService(repo)

			_, err := svc.Submit(context.Background(), req, "203.0.113.7")

			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err))
			assert.EqualError(t, err, "Missing required fields")
			assert.Zero(t, repo.countCalls, "no store reads on invalid input")
			assert.Zero(t, repo.existsCalls)
			assert.Zero(t, repo.createCalls)
		})
	}
}

func TestSubmit_InvalidEmailShape(t *testing.T) {
	for _, email := range []string{"foo", "foo@bar", "@bar.com", "foo@.", "a b@c.com", "a@b@c.com"} {
		t.Run(email, func(t *testing.T) {
			repo := &stubSignupRepo{}
			svc := NewWaitlistService(repo)

			req := validRequest()
			req.Email = email
			_, err := svc.Submit(context.Background(), req, "203.0.113.7")

			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err))
			assert.EqualError(t, err, "Invalid email")
			assert.Zero(t, repo.countCalls)
		})
	}
}

func TestSubmit_InvalidUserType(t *testing.T) {
	for _, userType := range []string{"admin", "vip", "ONPRO "} {
		t.Run(userType, func(t *testing.T) {
			repo := &stubSignupRepo{}
			svc := NewWaitlistService(repo)

			req := validRequest()
			req.UserType = userType
			_, err := svc.Submit(context.Background(), req, "203.0.113.7")

			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err))
			assert.EqualError(t, err, "Invalid user type")
			assert.Zero(t, repo.countCalls)
			assert.Zero(t, repo.createCalls)
		})
	}
}

func TestSubmit_RateLimited(t *testing.T) {
	repo := &stubSignupRepo{count: 5}
	svc := NewWaitlistService(repo)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	_, err := svc.Submit(context.Background(), validRequest(), "203.0.113.7")

	require.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, "203.0.113.7", repo.lastAddr)
	assert.Equal(t, now.Add(-time.Hour), repo.lastSince, "sliding window lower bound")
	assert.Zero(t, repo.existsCalls, "no duplicate check once rate limited")
	assert.Zero(t, repo.createCalls)
}

func TestSubmit_UnderRateLimitProceeds(t *testing.T) {
	repo := &stubSignupRepo{count: 4}
	svc := NewWaitlistService(repo)

	id, err := svc.Submit(context.Background(), validRequest(), "203.0.113.8")

	require.NoError(t, err)
	assert.Equal(t, "WL-1", id)
}

func TestSubmit_DuplicateEmailCanonicalized(t *testing.T) {
	repo := &stubSignupRepo{exists: true}
	svc := NewWaitlistService(repo)

	req := validRequest()
	req.Email = " A@Example.COM "
	_, err := svc.Submit(context.Background(), req, "203.0.113.7")

	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.Equal(t, "a@example.com", repo.lastEmail, "lower-cased and trimmed before comparison")
	assert.Zero(t, repo.createCalls)
}

func TestSubmit_Accepted(t *testing.T) {
	repo := &stubSignupRepo{}
	svc := NewWaitlistService(repo)

	req := domain.SignupRequest{
		Name:     "  Alex  ",
		Email:    "Alex@Example.com",
		UserType: "patron",
		City:     " Tampa ",
	}
	id, err := svc.Submit(context.Background(), req, "203.0.113.7")

	require.NoError(t, err)
	assert.Equal(t, "WL-1", id)
	assert.Equal(t, 1, repo.countCalls)
	assert.Equal(t, 1, repo.existsCalls)
	require.Len(t, repo.created, 1)

	signup := repo.created[0]
	assert.Equal(t, "Alex", signup.Name)
	assert.Equal(t, "alex@example.com", signup.Email)
	assert.Equal(t, domain.UserTypePatron, signup.UserType)
	assert.Equal(t, "Tampa", signup.City)
	assert.Empty(t, signup.Role)
	assert.Equal(t, "203.0.113.7", signup.IPAddress)
	assert.Equal(t, domain.SignupSourceWebsite, signup.SignupSource)
	assert.False(t, signup.EmailSent)
	assert.False(t, signup.ConvertedToUser)
}

func TestSubmit_SameRequestTwice(t *testing.T) {
	repo := &stubSignupRepo{registered: map[string]bool{}}
	svc := NewWaitlistService(repo)

	id, err := svc.Submit(context.Background(), validRequest(), "203.0.113.7")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = svc.Submit(context.Background(), validRequest(), "203.0.113.7")
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.Equal(t, 1, repo.createCalls, "second submission never reaches the insert")
}

func TestSubmit_StoreFailuresAreNotValidationErrors(t *testing.T) {
	storeErr := errors.New("connection reset")

	t.Run("rate check", func(t *testing.T) {
		repo := &stubSignupRepo{countErr: storeErr}
		svc := NewWaitlistService(repo)

		_, err := svc.Submit(context.Background(), validRequest(), "203.0.113.7")

		require.ErrorIs(t, err, storeErr)
		assert.False(t, domain.IsValidationError(err))
	})

	t.Run("duplicate check", func(t *testing.T) {
		repo := &stubSignupRepo{existsErr: storeErr}
		svc := NewWaitlistService(repo)

		_, err := svc.Submit(context.Background(), validRequest(), "203.0.113.7")

		require.ErrorIs(t, err, storeErr)
	})

	t.Run("constraint backstop on insert", func(t *testing.T) {
		repo := &stubSignupRepo{createErr: domain.ErrDuplicateEmail}
		svc := NewWaitlistService(repo)

		_, err := svc.Submit(context.Background(), validRequest(), "203.0.113.7")

		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}
