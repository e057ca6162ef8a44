package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/onproapp/website-backend/internal/domain"
)

// emailPattern is deliberately conservative: exactly one @, at least one
// character before it, and a dot-separated domain after it.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	// signupRateLimit is the maximum number of signups a single source
	// address may produce within signupRateWindow.
	signupRateLimit  = 5
	signupRateWindow = time.Hour
)

// SignupRepository is the storage contract required by the waitlist service.
type SignupRepository interface {
	CountSignupsFromAddress(ctx context.Context, ipAddress string, since time.Time) (int64, error)
	SignupEmailExists(ctx context.Context, email string) (bool, error)
	CreateSignup(ctx context.Context, signup domain.WaitlistSignup) (string, error)
}

// WaitlistService decides whether a signup request is admitted to the
// waitlist and persists accepted requests.
type WaitlistService struct {
	repo  SignupRepository
	nowFn func() time.Time
}

// NewWaitlistService constructs a WaitlistService.
func NewWaitlistService(repo SignupRepository) *WaitlistService {
	return &WaitlistService{
		repo:  repo,
		nowFn: time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *WaitlistService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// Submit validates a signup request, applies the per-address rate limit and
// the email de-duplication check, and persists the signup if all pass.
// Validation failures return a domain.ValidationError before any store call;
// quota and duplicate rejections return domain.ErrRateLimited and
// domain.ErrDuplicateEmail respectively.
func (s *WaitlistService) Submit(ctx context.Context, req domain.SignupRequest, sourceAddr string) (string, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	userType := strings.TrimSpace(req.UserType)

	if name == "" || email == "" || userType == "" {
		return "", domain.NewValidationError("Missing required fields")
	}
	if !emailPattern.MatchString(email) {
		return "", domain.NewValidationError("Invalid email")
	}
	if !domain.ValidUserType(userType) {
		return "", domain.NewValidationError("Invalid user type")
	}

	since := s.nowFn().Add(-signupRateWindow)
	count, err := s.repo.CountSignupsFromAddress(ctx, sourceAddr, since)
	if err != nil {
		return "", fmt.Errorf("signup rate check: %w", err)
	}
	if count >= signupRateLimit {
		return "", domain.ErrRateLimited
	}

	exists, err := s.repo.SignupEmailExists(ctx, email)
	if err != nil {
		return "", fmt.Errorf("signup duplicate check: %w", err)
	}
	if exists {
		return "", domain.ErrDuplicateEmail
	}

	id, err := s.repo.CreateSignup(ctx, domain.WaitlistSignup{
		Name:         name,
		Email:        email,
		UserType:     domain.UserType(userType),
		City:         strings.TrimSpace(req.City),
		Role:         req.Role,
		IPAddress:    sourceAddr,
		SignupSource: domain.SignupSourceWebsite,
	})
	if err != nil {
		// The store-level unique constraint backstops the pre-check above
		// when two requests with the same email race past it.
		return "", err
	}
	return id, nil
}
