package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/store"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

type BootstrapService struct {
	Store  store.Store
	Hasher *cryptox.Hasher
	Token  string // pre-configured bootstrap token; empty disables bootstrap
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Accounts().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the first superuser on an empty store. The account is
// active straight away and holds the Admin role.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req domain.BootstrapData) (domain.Member, error) {
	l := slogx.FromContext(ctx)

	// 1. Check if already bootstrapped
	bootstrapped, err := s.IsBootstrapped(ctx)
	if err != nil {
		l.Error("failed to check bootstrap state", slog.Any("error", err))
		return domain.Member{}, err
	}
	if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.Member{}, ErrBootstrapAlready
	}

	// 2. Validate provided token
	if s.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return domain.Member{}, ErrBootstrapUnauthorized
	}

	// 3. Validate the superuser
	if req.Username, err = validateUsername(req.Username); err != nil {
		return domain.Member{}, err
	}
	if req.Email, err = normalizeEmail(req.Email); err != nil {
		return domain.Member{}, err
	}
	if err = validatePassword(req.Password); err != nil {
		return domain.Member{}, err
	}
	if req.FirstName, err = optionalText("first name", req.FirstName, maxNameLen); err != nil {
		return domain.Member{}, err
	}
	if req.LastName, err = optionalText("last name", req.LastName, maxNameLen); err != nil {
		return domain.Member{}, err
	}

	// 4. Hash password
	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		l.Error("failed to hash superuser password", slog.Any("error", err))
		return domain.Member{}, err
	}

	// 5. Create account and profile together
	var m domain.Member
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Accounts().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}

		m, err = newMember(ctx, tx, domain.Account{
			Username:     req.Username,
			Email:        req.Email,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			PasswordHash: hash,
			Active:       true,
			Superuser:    true,
		}, domain.RoleAdmin, domain.StatusActive)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			return domain.Member{}, err
		}
		l.Error("failed to create superuser", slog.Any("error", err))
		return domain.Member{}, storeErr(err)
	}

	l.Info("successfully bootstrapped system",
		slog.String("account_id", m.Account.ID),
		slog.String("username", m.Account.Username),
	)
	return m, nil
}
