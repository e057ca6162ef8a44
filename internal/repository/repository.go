package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/onproapp/website-backend/internal/domain"
	"github.com/onproapp/website-backend/internal/store"
)

// Repository encapsulates signup and lead persistence operations.
type Repository struct {
	client store.Client
}

// New instantiates a Repository backed by the supplied store client.
func New(client store.Client) *Repository {
	return &Repository{client: client}
}

// EnsureSchema installs the uniqueness constraint on the canonical signup
// email. The admission service still pre-checks for duplicates to produce a
// friendly error, but the constraint is what actually holds the invariant
// under concurrent submissions.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.client.ExecuteWrite(ctx, ensureSchemaCypher, nil); err != nil {
		return fmt.Errorf("ensure signup schema: %w", err)
	}
	return nil
}

// CreateSignup inserts a new waitlist entry and returns the store-assigned id.
// The store assigns both the id and the creation timestamp; caller-supplied
// values for either are ignored. A uniqueness-constraint violation on the
// email surfaces as domain.ErrDuplicateEmail.
func (r *Repository) CreateSignup(ctx context.Context, signup domain.WaitlistSignup) (string, error) {
	if signup.Email == "" {
		return "", errors.New("signup email is required")
	}

	params := map[string]any{
		"name":         signup.Name,
		"email":        signup.Email,
		"userType":     string(signup.UserType),
		"city":         nullableString(signup.City),
		"role":         nullableString(signup.Role),
		"ipAddress":    signup.IPAddress,
		"signupSource": signup.SignupSource,
	}

	res, err := r.client.ExecuteWrite(ctx, createSignupCypher, params)
	if err != nil {
		if isConstraintViolation(err) {
			return "", domain.ErrDuplicateEmail
		}
		return "", fmt.Errorf("create signup: %w", err)
	}
	if len(res.Records) == 0 {
		return "", errors.New("create signup: store returned no record")
	}
	return toString(res.Records[0]["id"]), nil
}

// CountSignupsFromAddress returns how many signups the given address produced
// at or after the provided instant.
func (r *Repository) CountSignupsFromAddress(ctx context.Context, ipAddress string, since time.Time) (int64, error) {
	params := map[string]any{
		"ipAddress": ipAddress,
		"since":     since.UTC().Format(time.RFC3339),
	}

	res, err := r.client.ExecuteRead(ctx, countSignupsFromAddressCypher, params)
	if err != nil {
		return 0, fmt.Errorf("count signups from address: %w", err)
	}
	return totalFromResult(res), nil
}

// SignupEmailExists reports whether a signup with the given canonical email
// is already stored.
func (r *Repository) SignupEmailExists(ctx context.Context, email string) (bool, error) {
	res, err := r.client.ExecuteRead(ctx, signupEmailExistsCypher, map[string]any{
		"email": email,
	})
	if err != nil {
		return false, fmt.Errorf("check signup email: %w", err)
	}
	return totalFromResult(res) > 0, nil
}

// CreateLead persists a lead-capture submission and returns its id.
func (r *Repository) CreateLead(ctx context.Context, lead domain.Lead) (string, error) {
	id := lead.ID
	if id == "" {
		id = uuid.NewString()
	}

	params := map[string]any{
		"id":        id,
		"kind":      string(lead.Kind),
		"name":      lead.Name,
		"email":     lead.Email,
		"subject":   nullableString(lead.Subject),
		"message":   lead.Message,
		"ipAddress": lead.IPAddress,
	}

	if _, err := r.client.ExecuteWrite(ctx, createLeadCypher, params); err != nil {
		return "", fmt.Errorf("create lead: %w", err)
	}
	return id, nil
}

// ListUnconfirmedSignups returns up to limit signups whose confirmation email
// has not been dispatched yet, oldest first.
func (r *Repository) ListUnconfirmedSignups(ctx context.Context, limit int) ([]domain.WaitlistSignup, error) {
	if limit <= 0 {
		limit = 50
	}

	res, err := r.client.ExecuteRead(ctx, listUnconfirmedSignupsCypher, map[string]any{
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list unconfirmed signups: %w", err)
	}

	var signups []domain.WaitlistSignup
	for _, record := range res.Records {
		signups = append(signups, domain.WaitlistSignup{
			ID:       toString(record["id"]),
			Name:     toString(record["name"]),
			Email:    toString(record["email"]),
			UserType: domain.UserType(toString(record["userType"])),
		})
	}
	return signups, nil
}

// MarkConfirmationSent flags a signup's confirmation email as dispatched.
func (r *Repository) MarkConfirmationSent(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("signup id is required")
	}
	res, err := r.client.ExecuteWrite(ctx, markConfirmationSentCypher, map[string]any{
		"id": id,
	})
	if err != nil {
		return fmt.Errorf("mark confirmation sent for %s: %w", id, err)
	}
	if len(res.Records) == 0 {
		return fmt.Errorf("mark confirmation sent: signup %s not found", id)
	}
	return nil
}

func isConstraintViolation(err error) bool {
	// Neo.ClientError.Schema.ConstraintValidationFailed
	return err != nil && strings.Contains(err.Error(), "ConstraintValidationFailed")
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func totalFromResult(res store.Result) int64 {
	if len(res.Records) == 0 {
		return 0
	}
	switch v := res.Records[0]["total"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
