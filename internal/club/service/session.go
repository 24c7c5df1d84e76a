package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/store"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

var ErrInvalidCredentials = errors.New("invalid_credentials")

// Session is a signed bearer token for one account.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   domain.Account
}

type SessionService struct {
	Store    store.Store
	Hasher   *cryptox.Hasher
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string
	Audience []string
	TTL      time.Duration
	Now      Clock
}

// Login checks a username and password and issues a session. Unknown
// users, wrong passwords and disabled accounts all look the same.
func (s *SessionService) Login(ctx context.Context, username, password string) (Session, error) {
	l := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	a, err := s.Store.Accounts().GetAccountByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		l.Info("login for unknown username", slog.String("username", username))
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		l.Error("failed to load account", slog.Any("error", err))
		return Session{}, err
	}

	if err := s.Hasher.Verify(password, a.PasswordHash); err != nil {
		l.Info("login with wrong password", slog.String("account_id", a.ID))
		return Session{}, ErrInvalidCredentials
	}
	if !a.Active {
		l.Info("login to disabled account", slog.String("account_id", a.ID))
		return Session{}, ErrInvalidCredentials
	}

	return s.Issue(ctx, a)
}

// Issue signs a session token for an account without checking a password,
// e.g. straight after an invitation is accepted.
func (s *SessionService) Issue(ctx context.Context, a domain.Account) (Session, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	claims := jwtx.NewSessionClaims(a.ID, a.Username, ttl, s.Issuer, s.Audience, s.Now.now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to sign session", slog.Any("error", err))
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, Account: a}, nil
}

// Resolve turns a bearer token into the acting principal. Anything that is
// not a valid token for an active account resolves to Anonymous; only store
// failures are returned as errors.
func (s *SessionService) Resolve(ctx context.Context, token string) (domain.Principal, error) {
	if token == "" {
		return domain.Anonymous(), nil
	}

	claims, err := s.Verifier.Verify(token)
	if err != nil {
		slogx.FromContext(ctx).Debug("rejected bearer token", slog.Any("error", err))
		return domain.Anonymous(), nil
	}

	return s.PrincipalForAccount(ctx, claims.Subject)
}

// PrincipalForAccount loads the current role and access of an already
// authenticated account.
func (s *SessionService) PrincipalForAccount(ctx context.Context, accountID string) (domain.Principal, error) {
	if accountID == "" {
		return domain.Anonymous(), nil
	}

	m, err := s.Store.Profiles().GetMember(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Anonymous(), nil
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load principal", slog.Any("error", err))
		return domain.Anonymous(), err
	}
	return domain.PrincipalFor(m), nil
}
