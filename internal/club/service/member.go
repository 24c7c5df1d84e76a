package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/notify"
	"github.com/aussiebroadwan/clubhouse/internal/club/policy"
	"github.com/aussiebroadwan/clubhouse/internal/club/store"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// NewMember describes a member added by the roster managers. The email
// doubles as the initial username.
type NewMember struct {
	FirstName string
	LastName  string
	Email     string
	Role      domain.Role // RoleAnonymous means Member
}

type MemberResult struct {
	Member     domain.Member
	Invitation *Invitation // nil unless an invitation was requested
}

// ProfileUpdate is a partial edit; nil fields are left alone.
type ProfileUpdate struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	Email      *string
	Phone      *string
	Address    *string
	City       *string
	Country    *string
}

type MemberService struct {
	Store       store.Store
	Hasher      *cryptox.Hasher
	Notifier    notify.Sender
	Invitations *InvitationService
	Now         Clock
}

// newMember creates an account and its profile together inside tx. It is
// the only way either record is created.
func newMember(ctx context.Context, tx store.Tx, a domain.Account, role domain.Role, status domain.Status) (domain.Member, error) {
	a.ID = idx.New().String()
	m := domain.Member{
		Account: a,
		Profile: domain.Profile{
			ID:        idx.New().String(),
			AccountID: a.ID,
			Role:      role,
			Status:    status,
		},
	}
	if err := tx.Accounts().CreateAccount(ctx, m.Account); err != nil {
		return domain.Member{}, err
	}
	if err := tx.Profiles().CreateProfile(ctx, m.Profile); err != nil {
		return domain.Member{}, err
	}
	return tx.Profiles().GetMember(ctx, a.ID)
}

// createMember adds an inactive member and optionally invites them. The
// caller has already authorized and validated in.
func createMember(ctx context.Context, st store.Store, inv *InvitationService, in NewMember, sendInvite bool) (MemberResult, error) {
	// Friendlier error than the constraint; the constraint stays authoritative.
	if _, err := st.Accounts().GetAccountByEmail(ctx, in.Email); err == nil {
		return MemberResult{}, fmt.Errorf("%w: %s is already registered", ErrConflict, in.Email)
	} else if !errors.Is(err, store.ErrNotFound) {
		return MemberResult{}, err
	}

	role := in.Role
	if role == domain.RoleAnonymous {
		role = domain.RoleMember
	}

	var res MemberResult
	err := st.WithTx(ctx, func(tx store.Tx) error {
		m, err := newMember(ctx, tx, domain.Account{
			Username:  in.Email,
			Email:     in.Email,
			FirstName: in.FirstName,
			LastName:  in.LastName,
		}, role, domain.StatusActive)
		if err != nil {
			return err
		}
		if sendInvite && inv != nil {
			invitation, err := inv.stamp(ctx, tx.Profiles(), &m)
			if err != nil {
				return err
			}
			res.Invitation = &invitation
		}
		res.Member = m
		return nil
	})
	if err != nil {
		return MemberResult{}, storeErr(err)
	}

	if res.Invitation != nil {
		inv.deliver(ctx, res.Member, res.Invitation)
	}
	return res, nil
}

func (s *MemberService) validateNewMember(in NewMember) (NewMember, error) {
	var err error
	if in.FirstName, err = requireText("first name", in.FirstName, maxNameLen); err != nil {
		return in, err
	}
	if in.LastName, err = requireText("last name", in.LastName, maxNameLen); err != nil {
		return in, err
	}
	if in.Email, err = normalizeEmail(in.Email); err != nil {
		return in, err
	}
	return in, nil
}

// CreateMember adds a member to the roster. Financial Secretaries may only
// add plain members.
func (s *MemberService) CreateMember(ctx context.Context, p domain.Principal, in NewMember, sendInvite bool) (MemberResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Authorize, including the requested role
	if err := policy.Authorize(p, policy.ManageRoster, policy.Target{}); err != nil {
		log.Warn("member creation refused", slog.String("account_id", p.AccountID), slog.Any("error", err))
		return MemberResult{}, err
	}
	if in.Role == domain.RoleAnonymous {
		in.Role = domain.RoleMember
	}
	if !policy.CanAssignRole(p, in.Role) {
		log.Warn("member creation with elevated role refused",
			slog.String("account_id", p.AccountID),
			slog.String("role", in.Role.Code()),
		)
		return MemberResult{}, fmt.Errorf("%w: cannot assign role %s", policy.ErrPermissionDenied, in.Role)
	}

	// 2. Validate
	in, err := s.validateNewMember(in)
	if err != nil {
		return MemberResult{}, err
	}

	// 3. Create, then invite
	res, err := createMember(ctx, s.Store, s.Invitations, in, sendInvite)
	if err != nil {
		log.Warn("failed to create member", slog.String("email", in.Email), slog.Any("error", err))
		return MemberResult{}, err
	}

	log.Info("member created",
		slog.String("account_id", res.Member.Account.ID),
		slog.String("role", res.Member.Profile.Role.Code()),
		slog.Bool("invited", res.Invitation != nil),
		slog.String("created_by", p.AccountID),
	)
	return res, nil
}

// ListMembers returns the roster with each member's totals.
func (s *MemberService) ListMembers(ctx context.Context, p domain.Principal) ([]domain.MemberTotals, error) {
	if err := policy.Authorize(p, policy.ManageRoster, policy.Target{}); err != nil {
		return nil, err
	}
	return s.Store.Ledger().ListMemberTotals(ctx, store.MemberFilter{ExcludeSuperusers: true})
}

func (s *MemberService) GetMember(ctx context.Context, p domain.Principal, accountID string) (domain.Member, error) {
	return authorizeMember(p, policy.ViewProfile, func() (domain.Member, error) {
		return s.Store.Profiles().GetMember(ctx, accountID)
	})
}

// ProfileID resolves the profile of an account for a caller allowed action a
// on it. The HTTP API addresses members by account id throughout.
func (s *MemberService) ProfileID(ctx context.Context, p domain.Principal, accountID string, a policy.Action) (string, error) {
	m, err := authorizeMember(p, a, func() (domain.Member, error) {
		return s.Store.Profiles().GetMember(ctx, accountID)
	})
	if err != nil {
		return "", err
	}
	return m.Profile.ID, nil
}

// UpdateProfile applies a partial edit to a member's identity and contact
// details.
func (s *MemberService) UpdateProfile(ctx context.Context, p domain.Principal, accountID string, u ProfileUpdate) (domain.Member, error) {
	log := slogx.FromContext(ctx)

	m, err := authorizeMember(p, policy.EditProfile, func() (domain.Member, error) {
		return s.Store.Profiles().GetMember(ctx, accountID)
	})
	if err != nil {
		log.Warn("profile edit refused", slog.String("account_id", accountID), slog.Any("error", err))
		return domain.Member{}, err
	}

	a, c := m.Account, domain.ContactDetails{
		Phone:   m.Profile.Phone,
		Address: m.Profile.Address,
		City:    m.Profile.City,
		Country: m.Profile.Country,
	}
	apply := func(dst *string, src *string, field string, required bool, maxLen int) error {
		if src == nil {
			return nil
		}
		var (
			v   string
			err error
		)
		if required {
			v, err = requireText(field, *src, maxLen)
		} else {
			v, err = optionalText(field, *src, maxLen)
		}
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
	if err := errors.Join(
		apply(&a.FirstName, u.FirstName, "first name", true, maxNameLen),
		apply(&a.MiddleName, u.MiddleName, "middle name", false, maxNameLen),
		apply(&a.LastName, u.LastName, "last name", true, maxNameLen),
		apply(&c.Phone, u.Phone, "phone", false, 20),
		apply(&c.Address, u.Address, "address", false, maxDescriptionLen),
		apply(&c.City, u.City, "city", false, 100),
		apply(&c.Country, u.Country, "country", false, 100),
	); err != nil {
		return domain.Member{}, err
	}
	if u.Email != nil {
		if a.Email, err = normalizeEmail(*u.Email); err != nil {
			return domain.Member{}, err
		}
	}

	var updated domain.Member
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().UpdateIdentity(ctx, a); err != nil {
			return err
		}
		if err := tx.Profiles().UpdateContact(ctx, m.Profile.ID, c); err != nil {
			return err
		}
		updated, err = tx.Profiles().GetMember(ctx, accountID)
		return err
	})
	if err != nil {
		log.Warn("failed to update profile", slog.String("account_id", accountID), slog.Any("error", err))
		return domain.Member{}, storeErr(err)
	}

	log.Info("profile updated", slog.String("account_id", accountID), slog.String("updated_by", p.AccountID))
	return updated, nil
}

// UpdateStatus sets the membership standing of a profile.
func (s *MemberService) UpdateStatus(ctx context.Context, p domain.Principal, profileID string, status domain.Status) error {
	log := slogx.FromContext(ctx)

	if _, err := authorizeMember(p, policy.ManageRoster, func() (domain.Member, error) {
		return s.Store.Profiles().GetMemberByProfileID(ctx, profileID)
	}); err != nil {
		return err
	}
	if !status.Valid() {
		return invalidf("unknown status %q", status)
	}

	if err := s.Store.Profiles().UpdateStatus(ctx, profileID, status); err != nil {
		return storeErr(err)
	}
	log.Info("member status changed",
		slog.String("profile_id", profileID),
		slog.String("status", string(status)),
		slog.String("changed_by", p.AccountID),
	)
	return nil
}

// ChangeRole sets a member's role.
func (s *MemberService) ChangeRole(ctx context.Context, p domain.Principal, accountID string, role domain.Role) error {
	log := slogx.FromContext(ctx)

	m, err := authorizeMember(p, policy.ChangeRole, func() (domain.Member, error) {
		return s.Store.Profiles().GetMember(ctx, accountID)
	})
	if err != nil {
		log.Warn("role change refused", slog.String("account_id", accountID), slog.Any("error", err))
		return err
	}
	if !role.Valid() {
		return invalidf("unknown role")
	}

	if err := s.Store.Profiles().UpdateRole(ctx, m.Profile.ID, role); err != nil {
		return storeErr(err)
	}
	log.Info("member role changed",
		slog.String("account_id", accountID),
		slog.String("from", m.Profile.Role.Code()),
		slog.String("to", role.Code()),
		slog.String("changed_by", p.AccountID),
	)
	return nil
}

// guardTarget refuses destructive actions on superusers and on oneself.
func guardTarget(p domain.Principal, m domain.Member) error {
	if m.Account.Superuser {
		return invalidf("superuser accounts cannot be changed here")
	}
	if p.Is(m.Account.ID) {
		return invalidf("you cannot do this to your own account")
	}
	return nil
}

// ToggleAccess flips whether an account may sign in and returns the new
// state. Nothing is deleted.
func (s *MemberService) ToggleAccess(ctx context.Context, p domain.Principal, accountID string) (bool, error) {
	log := slogx.FromContext(ctx)

	m, err := authorizeMember(p, policy.ToggleAccess, func() (domain.Member, error) {
		return s.Store.Profiles().GetMember(ctx, accountID)
	})
	if err != nil {
		log.Warn("access toggle refused", slog.String("account_id", accountID), slog.Any("error", err))
		return false, err
	}
	if err := guardTarget(p, m); err != nil {
		return false, err
	}

	active := !m.Account.Active
	if err := s.Store.Accounts().SetActive(ctx, accountID, active); err != nil {
		return false, storeErr(err)
	}
	log.Info("member access toggled",
		slog.String("account_id", accountID),
		slog.Bool("active", active),
		slog.String("changed_by", p.AccountID),
	)
	return active, nil
}

// DeleteMember removes an account with its profile and ledger. Payments the
// member recorded for others are kept without a recorder.
func (s *MemberService) DeleteMember(ctx context.Context, p domain.Principal, accountID string) error {
	log := slogx.FromContext(ctx)

	m, err := authorizeMember(p, policy.DeleteMember, func() (domain.Member, error) {
		return s.Store.Profiles().GetMember(ctx, accountID)
	})
	if err != nil {
		log.Warn("member deletion refused", slog.String("account_id", accountID), slog.Any("error", err))
		return err
	}
	if err := guardTarget(p, m); err != nil {
		return err
	}

	if err := s.Store.Accounts().DeleteAccount(ctx, accountID); err != nil {
		return storeErr(err)
	}
	log.Info("member deleted", slog.String("account_id", accountID), slog.String("deleted_by", p.AccountID))
	return nil
}

// ResetPassword replaces a member's password with a random one and sends
// it to them. The returned warning is set when delivery failed; the new
// password is in place either way.
func (s *MemberService) ResetPassword(ctx context.Context, p domain.Principal, accountID string) (warn error, err error) {
	log := slogx.FromContext(ctx)

	m, err := authorizeMember(p, policy.ResetPassword, func() (domain.Member, error) {
		return s.Store.Profiles().GetMember(ctx, accountID)
	})
	if err != nil {
		log.Warn("password reset refused", slog.String("account_id", accountID), slog.Any("error", err))
		return nil, err
	}

	password, err := cryptox.GeneratePassword()
	if err != nil {
		return nil, err
	}
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return nil, err
	}
	if err := s.Store.Accounts().UpdatePasswordHash(ctx, accountID, hash); err != nil {
		return nil, storeErr(err)
	}

	log.Info("password reset", slog.String("account_id", accountID), slog.String("reset_by", p.AccountID))

	if s.Notifier == nil {
		return nil, nil
	}
	err = s.Notifier.Send(ctx, notify.Message{
		Recipient:   m.Account.Email,
		TemplateKey: notify.TemplatePasswordReset,
		Context: map[string]string{
			"name":     m.Account.FullName(),
			"username": m.Account.Username,
			"password": password,
		},
	})
	if err != nil {
		log.Warn("failed to send password reset", slog.String("account_id", accountID), slog.Any("error", err))
		return warning(err), nil
	}
	return nil, nil
}
