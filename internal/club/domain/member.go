package domain

import (
	"strings"
	"time"
)

// Account is the login identity of a club member.
type Account struct {
	ID           string
	Username     string
	Email        string // stored lower-cased, unique
	FirstName    string
	MiddleName   string
	LastName     string
	PasswordHash string // argon2 encoded, empty until an invitation is accepted
	Active       bool
	Superuser    bool // only set by bootstrap
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first, middle (when present) and last names.
func (a Account) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.FirstName, a.MiddleName, a.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Profile holds the club specific attributes of an Account. Exactly one
// exists per Account and both are created together.
type Profile struct {
	ID               string
	AccountID        string
	Role             Role
	Status           Status
	Phone            string
	Address          string
	City             string
	Country          string
	InvitationHash   string     // fingerprint of the outstanding invitation token
	InvitationSentAt *time.Time // nil when no invitation is outstanding
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasInvitation reports whether an invitation is outstanding, expired or not.
func (p Profile) HasInvitation() bool {
	return p.InvitationHash != "" && p.InvitationSentAt != nil
}

// InvitationExpired reports whether the outstanding invitation is older
// than ttl at now.
func (p Profile) InvitationExpired(now time.Time, ttl time.Duration) bool {
	if !p.HasInvitation() {
		return true
	}
	return now.Sub(*p.InvitationSentAt) > ttl
}

// Member is an Account joined with its Profile.
type Member struct {
	Account Account
	Profile Profile
}

// ContactDetails are the optional profile fields a member may edit.
type ContactDetails struct {
	Phone   string
	Address string
	City    string
	Country string
}
