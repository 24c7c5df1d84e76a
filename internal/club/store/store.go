package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/pkg/money"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. Sub-repositories are exposed as methods so a
// transaction can hand out the same repositories bound to itself, and code
// inside WithTx never reaches back to the outer store by accident.
type Store interface {
	Accounts() Accounts
	Profiles() Profiles
	Dues() Dues
	Payments() Payments
	Ledger() Ledger
	Events() Events
	Photos() Photos
	Announcements() Announcements

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Inside fn only
	// the tx repositories may be used.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// CreateAccount inserts a new account. Duplicate username or email
	// returns ErrAlreadyExists.
	CreateAccount(ctx context.Context, a domain.Account) error

	GetAccountByID(ctx context.Context, id string) (domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (domain.Account, error)

	// UpdateIdentity sets username, email and names and bumps updated_at.
	UpdateIdentity(ctx context.Context, a domain.Account) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, accountID, hash string) error

	SetActive(ctx context.Context, accountID string, active bool) error

	// DeleteAccount cascades to the profile and its ledger entries.
	DeleteAccount(ctx context.Context, accountID string) error

	// IsEmpty returns true if there are no accounts.
	IsEmpty(ctx context.Context) (bool, error)
}

// MemberFilter narrows member listings. Zero value lists everyone.
type MemberFilter struct {
	Status            domain.Status // empty means any status
	ExcludeAdmins     bool
	ExcludeSuperusers bool
}

type Profiles interface {
	CreateProfile(ctx context.Context, p domain.Profile) error

	GetProfileByID(ctx context.Context, id string) (domain.Profile, error)
	GetProfileByAccountID(ctx context.Context, accountID string) (domain.Profile, error)

	// GetMember returns the account and profile for an account id.
	GetMember(ctx context.Context, accountID string) (domain.Member, error)

	// GetMemberByProfileID returns the account and profile for a profile id.
	GetMemberByProfileID(ctx context.Context, profileID string) (domain.Member, error)

	// GetMemberByInvitationHash looks a member up by invitation fingerprint
	// regardless of its age; expiry is the caller's decision.
	GetMemberByInvitationHash(ctx context.Context, hash string) (domain.Member, error)

	// ListMembers returns members ordered by last name, first name, id.
	ListMembers(ctx context.Context, f MemberFilter) ([]domain.Member, error)

	UpdateContact(ctx context.Context, profileID string, c domain.ContactDetails) error
	UpdateRole(ctx context.Context, profileID string, role domain.Role) error
	UpdateStatus(ctx context.Context, profileID string, status domain.Status) error

	// SetInvitation records a new outstanding invitation.
	SetInvitation(ctx context.Context, profileID, hash string, sentAt time.Time) error

	// ConsumeInvitation clears the invitation only if hash is still the
	// outstanding one, returning ErrNotFound otherwise. It is the guard
	// against two concurrent acceptances of the same token.
	ConsumeInvitation(ctx context.Context, profileID, hash string) error

	// ClearInvitation removes the outstanding invitation.
	ClearInvitation(ctx context.Context, profileID string) error

	// ClearInvitationsSentBefore clears every invitation issued before cutoff
	// and returns how many were cleared.
	ClearInvitationsSentBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Dues interface {
	CreateDue(ctx context.Context, d domain.Due) error

	// CreateDues inserts all dues; callers run it inside a transaction.
	CreateDues(ctx context.Context, dues []domain.Due) error

	// ListDuesByProfile is ordered by due date then creation, newest first.
	ListDuesByProfile(ctx context.Context, profileID string) ([]domain.Due, error)

	// ListRecentDues returns the most recently created dues of members that
	// are not superusers.
	ListRecentDues(ctx context.Context, limit int) ([]domain.Due, error)
}

type Payments interface {
	CreatePayment(ctx context.Context, p domain.Payment) error

	// ListPaymentsByProfile is ordered by payment date then recording, newest first.
	ListPaymentsByProfile(ctx context.Context, profileID string) ([]domain.Payment, error)
}

// Ledger computes aggregate positions. Missing rows sum to zero.
type Ledger interface {
	// SumsForProfile returns the total dues and payments of one profile.
	SumsForProfile(ctx context.Context, profileID string) (dues, payments money.Amount, err error)

	// ListMemberTotals returns every member matching f with their totals,
	// ordered by last name, first name, id.
	ListMemberTotals(ctx context.Context, f MemberFilter) ([]domain.MemberTotals, error)
}

type Events interface {
	CreateEvent(ctx context.Context, e domain.Event) error
	GetEventByID(ctx context.Context, id string) (domain.Event, error)

	// ListEvents is ordered by event date, newest first.
	ListEvents(ctx context.Context, publishedOnly bool) ([]domain.Event, error)

	UpdateEvent(ctx context.Context, e domain.Event) error

	// DeleteEvent cascades to the event's photos.
	DeleteEvent(ctx context.Context, id string) error
}

type Photos interface {
	CreatePhoto(ctx context.Context, p domain.Photo) error
	GetPhotoByID(ctx context.Context, id string) (domain.Photo, error)

	// ListPhotosByEvent is ordered featured first, then newest upload.
	ListPhotosByEvent(ctx context.Context, eventID string) ([]domain.Photo, error)

	DeletePhoto(ctx context.Context, id string) error
}

type Announcements interface {
	CreateAnnouncement(ctx context.Context, a domain.Announcement) error
	GetAnnouncementByID(ctx context.Context, id string) (domain.Announcement, error)

	// ListAnnouncements is ordered by publish date, newest first. When
	// visibleAt is non-nil only published announcements whose publish date
	// is not after it are returned.
	ListAnnouncements(ctx context.Context, visibleAt *time.Time) ([]domain.Announcement, error)

	UpdateAnnouncement(ctx context.Context, a domain.Announcement) error
	SetPublished(ctx context.Context, id string, published bool) error
	DeleteAnnouncement(ctx context.Context, id string) error
}
