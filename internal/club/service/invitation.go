package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/notify"
	"github.com/aussiebroadwan/clubhouse/internal/club/policy"
	"github.com/aussiebroadwan/clubhouse/internal/club/store"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// DefaultInvitationTTL is how long an invitation token stays valid.
const DefaultInvitationTTL = 7 * 24 * time.Hour

// Invitation is an issued invitation. Token is the raw secret; only its
// fingerprint is stored, so this is the one place it can be read.
type Invitation struct {
	ProfileID string
	Email     string
	Token     string
	Link      string
	SentAt    time.Time
	ExpiresAt time.Time

	// Warning is set when the invitation was stored but could not be
	// delivered. It wraps ErrDependencyFailure.
	Warning error
}

// Registration is what an invitee supplies to activate their account.
type Registration struct {
	Username   string
	Email      string
	Password   string
	FirstName  string
	MiddleName string
	LastName   string
	Contact    domain.ContactDetails
}

type InvitationService struct {
	Store    store.Store
	Notifier notify.Sender
	Hasher   *cryptox.Hasher
	TTL      time.Duration

	// SiteURL is the public base URL invitation links point at.
	SiteURL string
	Now     Clock
}

func (s *InvitationService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultInvitationTTL
	}
	return s.TTL
}

// stamp issues a fresh token for m through profiles, replacing any previous
// invitation. m.Profile is updated to match what was stored.
func (s *InvitationService) stamp(ctx context.Context, profiles store.Profiles, m *domain.Member) (Invitation, error) {
	raw, fingerprint, err := cryptox.NewOpaqueToken()
	if err != nil {
		return Invitation{}, err
	}

	sentAt := s.Now.now()
	if err := profiles.SetInvitation(ctx, m.Profile.ID, fingerprint, sentAt); err != nil {
		return Invitation{}, err
	}
	m.Profile.InvitationHash = fingerprint
	m.Profile.InvitationSentAt = &sentAt

	return Invitation{
		ProfileID: m.Profile.ID,
		Email:     m.Account.Email,
		Token:     raw,
		Link:      s.link(raw),
		SentAt:    sentAt,
		ExpiresAt: sentAt.Add(s.ttl()),
	}, nil
}

func (s *InvitationService) link(token string) string {
	base := strings.TrimRight(s.SiteURL, "/")
	return base + "/invitations/accept?token=" + url.QueryEscape(token)
}

// deliver hands a committed invitation to the notifier. Failure is recorded
// on inv as a warning.
func (s *InvitationService) deliver(ctx context.Context, m domain.Member, inv *Invitation) {
	if s.Notifier == nil {
		return
	}

	name := m.Account.FullName()
	if name == "" {
		name = m.Account.Email
	}
	err := s.Notifier.Send(ctx, notify.Message{
		Recipient:   m.Account.Email,
		TemplateKey: notify.TemplateInvitation,
		Context: map[string]string{
			"name":       name,
			"token":      inv.Token,
			"link":       inv.Link,
			"expires_at": inv.ExpiresAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		slogx.FromContext(ctx).Warn("failed to send invitation",
			slog.String("profile_id", m.Profile.ID),
			slog.Any("error", err),
		)
		inv.Warning = warning(err)
	}
}

// IssueInvitation sends a new invitation to an inactive member. Any earlier
// invitation for the same profile stops working.
func (s *InvitationService) IssueInvitation(ctx context.Context, p domain.Principal, profileID string) (Invitation, error) {
	log := slogx.FromContext(ctx)

	// 1. Resolve and authorize
	m, err := authorizeMember(p, policy.ManageRoster, func() (domain.Member, error) {
		return s.Store.Profiles().GetMemberByProfileID(ctx, profileID)
	})
	if err != nil {
		log.Warn("invitation refused", slog.String("profile_id", profileID), slog.Any("error", err))
		return Invitation{}, err
	}

	// 2. Active accounts have nothing to accept
	if m.Account.Active {
		return Invitation{}, ErrAlreadyActive
	}

	// 3. Store the fingerprint
	inv, err := s.stamp(ctx, s.Store.Profiles(), &m)
	if err != nil {
		log.Error("failed to store invitation", slog.String("profile_id", profileID), slog.Any("error", err))
		return Invitation{}, storeErr(err)
	}

	// 4. Notify after the write is durable
	s.deliver(ctx, m, &inv)

	log.Info("invitation issued",
		slog.String("profile_id", profileID),
		slog.String("issued_by", p.AccountID),
		slog.Time("expires_at", inv.ExpiresAt),
	)
	return inv, nil
}

func (s *InvitationService) validateRegistration(r Registration) (Registration, error) {
	var err error
	if r.Username, err = validateUsername(r.Username); err != nil {
		return r, err
	}
	if r.Email, err = normalizeEmail(r.Email); err != nil {
		return r, err
	}
	if err = validatePassword(r.Password); err != nil {
		return r, err
	}
	if r.FirstName, err = requireText("first name", r.FirstName, maxNameLen); err != nil {
		return r, err
	}
	if r.MiddleName, err = optionalText("middle name", r.MiddleName, maxNameLen); err != nil {
		return r, err
	}
	if r.LastName, err = requireText("last name", r.LastName, maxNameLen); err != nil {
		return r, err
	}
	if r.Contact, err = validateContact(r.Contact); err != nil {
		return r, err
	}
	return r, nil
}

// AcceptInvitation activates the account behind token with the supplied
// registration. Unknown, consumed and expired tokens all fail with
// ErrInvalidToken.
func (s *InvitationService) AcceptInvitation(ctx context.Context, token string, reg Registration) (domain.Account, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Account{}, ErrInvalidToken
	}
	reg, err := s.validateRegistration(reg)
	if err != nil {
		return domain.Account{}, err
	}

	// 2. Hash outside the transaction; argon2 is deliberately slow
	hash, err := s.Hasher.Hash(reg.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Account{}, err
	}

	fingerprint := cryptox.FingerprintToken(token)
	now := s.Now.now()

	// 3. Consume the token and activate atomically
	var account domain.Account
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		m, err := tx.Profiles().GetMemberByInvitationHash(ctx, fingerprint)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}
		if m.Profile.InvitationExpired(now, s.ttl()) {
			return ErrInvalidToken
		}
		if m.Account.Active {
			return ErrAlreadyActive
		}

		if err := tx.Profiles().ConsumeInvitation(ctx, m.Profile.ID, fingerprint); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		account = m.Account
		account.Username = reg.Username
		account.Email = reg.Email
		account.FirstName = reg.FirstName
		account.MiddleName = reg.MiddleName
		account.LastName = reg.LastName
		if err := tx.Accounts().UpdateIdentity(ctx, account); err != nil {
			return err
		}
		if err := tx.Accounts().UpdatePasswordHash(ctx, account.ID, hash); err != nil {
			return err
		}
		if err := tx.Profiles().UpdateContact(ctx, m.Profile.ID, reg.Contact); err != nil {
			return err
		}
		if err := tx.Accounts().SetActive(ctx, account.ID, true); err != nil {
			return err
		}

		account, err = tx.Accounts().GetAccountByID(ctx, account.ID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrAlreadyActive):
			log.Warn("invitation acceptance refused", slog.Any("error", err))
			return domain.Account{}, err
		case errors.Is(err, store.ErrAlreadyExists):
			log.Warn("invitation acceptance conflicts with an existing account",
				slog.String("username", reg.Username),
			)
			return domain.Account{}, storeErr(err)
		}
		log.Error("failed to accept invitation", slog.Any("error", err))
		return domain.Account{}, err
	}

	log.Info("invitation accepted",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
	)
	return account, nil
}

// BulkInvite creates an inactive member for every address and invites
// them. Each address succeeds or fails on its own; only a refused caller
// fails the whole call.
func (s *InvitationService) BulkInvite(ctx context.Context, p domain.Principal, emails []string) (BatchResult, error) {
	log := slogx.FromContext(ctx)

	if err := policy.Authorize(p, policy.ManageRoster, policy.Target{}); err != nil {
		log.Warn("bulk invite refused", slog.String("account_id", p.AccountID), slog.Any("error", err))
		return BatchResult{}, err
	}

	var (
		result BatchResult
		seen   = make(map[string]bool, len(emails))
	)
	for i, raw := range emails {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		item := BatchItem{Index: i, Input: raw}

		email, err := normalizeEmail(raw)
		switch {
		case err != nil:
			item.Err = err
		case seen[email]:
			item.Err = fmt.Errorf("%w: %s appears more than once", ErrConflict, email)
		default:
			seen[email] = true
			var res MemberResult
			res, item.Err = createMember(ctx, s.Store, s, NewMember{Email: email, Role: domain.RoleMember}, true)
			item.AccountID = res.Member.Account.ID
			if res.Invitation != nil {
				item.Warning = res.Invitation.Warning
			}
		}
		result.add(item)
	}

	log.Info("bulk invite processed",
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed),
		slog.String("invited_by", p.AccountID),
	)
	return result, nil
}
