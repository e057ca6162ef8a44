package domain

import "time"

// UserType is the waitlist audience category a signup belongs to.
type UserType string

const (
	// UserTypeOnPro is a hospitality-industry worker (bartender/server).
	UserTypeOnPro UserType = "onpro"
	// UserTypePatron is a venue customer.
	UserTypePatron UserType = "patron"
	// UserTypeVenue is a bar/restaurant business.
	UserTypeVenue UserType = "venue"
)

// ValidUserType reports whether the given value is one of the closed
// set of waitlist categories.
func ValidUserType(v string) bool {
	switch UserType(v) {
	case UserTypeOnPro, UserTypePatron, UserTypeVenue:
		return true
	}
	return false
}

// SignupSourceWebsite tags signups originating from the marketing site.
const SignupSourceWebsite = "website"

// SignupRequest carries the untrusted fields of a waitlist form submission.
type SignupRequest struct {
	Name     string
	Email    string
	UserType string
	City     string
	Role     string
}

// WaitlistSignup is the persisted waitlist entry. Name and City are stored
// trimmed; Email is stored lower-cased and trimmed and is the canonical
// value used for de-duplication. ID and CreatedAt are assigned by the store.
type WaitlistSignup struct {
	ID              string
	Name            string
	Email           string
	UserType        UserType
	City            string
	Role            string
	IPAddress       string
	SignupSource    string
	CreatedAt       time.Time
	EmailSent       bool
	ConvertedToUser bool
}
