package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/policy"
	"github.com/aussiebroadwan/clubhouse/internal/club/store"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/aussiebroadwan/clubhouse/pkg/money"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

const defaultRecentDues = 10

// FinancialStatus is one member's ledger: totals plus every entry.
type FinancialStatus struct {
	Member   domain.Member
	Totals   domain.Totals
	Dues     []domain.Due
	Payments []domain.Payment
}

type PaymentInput struct {
	ProfileID string
	Amount    money.Amount
	Date      time.Time // zero means today
	Notes     string
}

type DueInput struct {
	ProfileID   string
	Amount      money.Amount
	Description string
	Date        time.Time
}

type BulkDueInput struct {
	Amount      money.Amount
	Description string
	Date        time.Time
}

// LedgerService records dues and payments and reports balances. Entries are
// append-only: corrections are made with new offsetting entries.
type LedgerService struct {
	Store store.Store
	Now   Clock
}

// LedgerTotals returns the financial status of a profile.
func (s *LedgerService) LedgerTotals(ctx context.Context, p domain.Principal, profileID string) (FinancialStatus, error) {
	log := slogx.FromContext(ctx)

	m, err := authorizeMember(p, policy.ViewFinancialStatus, func() (domain.Member, error) {
		return s.Store.Profiles().GetMemberByProfileID(ctx, profileID)
	})
	if err != nil {
		log.Warn("financial status refused",
			slog.String("profile_id", profileID),
			slog.Any("error", err),
		)
		return FinancialStatus{}, err
	}

	dues, payments, err := s.Store.Ledger().SumsForProfile(ctx, profileID)
	if err != nil {
		log.Error("failed to sum ledger", slog.String("profile_id", profileID), slog.Any("error", err))
		return FinancialStatus{}, storeErr(err)
	}

	dueRows, err := s.Store.Dues().ListDuesByProfile(ctx, profileID)
	if err != nil {
		log.Error("failed to list dues", slog.String("profile_id", profileID), slog.Any("error", err))
		return FinancialStatus{}, storeErr(err)
	}
	paymentRows, err := s.Store.Payments().ListPaymentsByProfile(ctx, profileID)
	if err != nil {
		log.Error("failed to list payments", slog.String("profile_id", profileID), slog.Any("error", err))
		return FinancialStatus{}, storeErr(err)
	}

	return FinancialStatus{
		Member:   m,
		Totals:   domain.NewTotals(dues, payments),
		Dues:     dueRows,
		Payments: paymentRows,
	}, nil
}

// RecordPayment appends a payment for a profile. Payments may exceed what is
// owed; the resulting negative balance is credit.
func (s *LedgerService) RecordPayment(ctx context.Context, recorder domain.Principal, in PaymentInput) (domain.Payment, error) {
	log := slogx.FromContext(ctx)

	// 1. Check permissions before looking at the input
	if err := policy.Authorize(recorder, policy.RecordPayment, policy.Target{}); err != nil {
		log.Warn("payment refused", slog.String("account_id", recorder.AccountID), slog.Any("error", err))
		return domain.Payment{}, err
	}

	// 2. Validate
	if !in.Amount.IsPositive() {
		return domain.Payment{}, invalidf("payment amount must be positive")
	}
	notes, err := optionalText("notes", in.Notes, maxNotesLen)
	if err != nil {
		return domain.Payment{}, err
	}

	now := s.Now.now()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	// 3. Target profile must exist
	if _, err := s.Store.Profiles().GetProfileByID(ctx, in.ProfileID); err != nil {
		return domain.Payment{}, storeErr(err)
	}

	payment := domain.Payment{
		ID:          idx.New().String(),
		ProfileID:   in.ProfileID,
		Amount:      in.Amount,
		PaymentDate: today(date),
		Notes:       notes,
		RecordedBy:  recorder.AccountID,
		RecordedAt:  now,
	}
	if err := s.Store.Payments().CreatePayment(ctx, payment); err != nil {
		log.Error("failed to record payment",
			slog.String("profile_id", in.ProfileID),
			slog.Any("error", err),
		)
		return domain.Payment{}, storeErr(err)
	}

	log.Info("payment recorded",
		slog.String("payment_id", payment.ID),
		slog.String("profile_id", payment.ProfileID),
		slog.String("amount", payment.Amount.String()),
		slog.String("recorded_by", payment.RecordedBy),
	)
	return payment, nil
}

func (s *LedgerService) validateDue(amount money.Amount, description string, date time.Time) (string, error) {
	if !amount.IsPositive() {
		return "", invalidf("due amount must be positive")
	}
	if date.IsZero() {
		return "", invalidf("due date is required")
	}
	return requireText("description", description, maxDescriptionLen)
}

// CreateDue charges a single profile.
func (s *LedgerService) CreateDue(ctx context.Context, p domain.Principal, in DueInput) (domain.Due, error) {
	log := slogx.FromContext(ctx)

	if err := policy.Authorize(p, policy.CreateDue, policy.Target{}); err != nil {
		log.Warn("due creation refused", slog.String("account_id", p.AccountID), slog.Any("error", err))
		return domain.Due{}, err
	}

	description, err := s.validateDue(in.Amount, in.Description, in.Date)
	if err != nil {
		return domain.Due{}, err
	}

	if _, err := s.Store.Profiles().GetProfileByID(ctx, in.ProfileID); err != nil {
		return domain.Due{}, storeErr(err)
	}

	due := domain.Due{
		ID:          idx.New().String(),
		ProfileID:   in.ProfileID,
		Amount:      in.Amount,
		Description: description,
		DueDate:     today(in.Date),
		CreatedAt:   s.Now.now(),
	}
	if err := s.Store.Dues().CreateDue(ctx, due); err != nil {
		log.Error("failed to create due", slog.String("profile_id", in.ProfileID), slog.Any("error", err))
		return domain.Due{}, storeErr(err)
	}

	log.Info("due created",
		slog.String("due_id", due.ID),
		slog.String("profile_id", due.ProfileID),
		slog.String("amount", due.Amount.String()),
	)
	return due, nil
}

// BulkCreateDue charges every active member who is neither an admin nor a
// superuser, atomically. It returns how many dues were created; an empty
// selection creates nothing and reports zero.
func (s *LedgerService) BulkCreateDue(ctx context.Context, p domain.Principal, in BulkDueInput) (int, error) {
	log := slogx.FromContext(ctx)

	if err := policy.Authorize(p, policy.CreateDue, policy.Target{}); err != nil {
		log.Warn("bulk due refused", slog.String("account_id", p.AccountID), slog.Any("error", err))
		return 0, err
	}

	description, err := s.validateDue(in.Amount, in.Description, in.Date)
	if err != nil {
		return 0, err
	}

	now := s.Now.now()
	var created int
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		members, err := tx.Profiles().ListMembers(ctx, store.MemberFilter{
			Status:            domain.StatusActive,
			ExcludeAdmins:     true,
			ExcludeSuperusers: true,
		})
		if err != nil {
			return err
		}

		dues := make([]domain.Due, 0, len(members))
		for _, m := range members {
			dues = append(dues, domain.Due{
				ID:          idx.New().String(),
				ProfileID:   m.Profile.ID,
				Amount:      in.Amount,
				Description: description,
				DueDate:     today(in.Date),
				CreatedAt:   now,
			})
		}
		if err := tx.Dues().CreateDues(ctx, dues); err != nil {
			return err
		}
		created = len(dues)
		return nil
	})
	if err != nil {
		log.Error("failed to create bulk dues", slog.Any("error", err))
		return 0, storeErr(err)
	}

	log.Info("bulk dues created",
		slog.Int("count", created),
		slog.String("amount", in.Amount.String()),
		slog.String("created_by", p.AccountID),
	)
	return created, nil
}

// RecentDues lists the most recently created dues of non-superuser members.
func (s *LedgerService) RecentDues(ctx context.Context, p domain.Principal, limit int) ([]domain.Due, error) {
	if err := policy.Authorize(p, policy.CreateDue, policy.Target{}); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRecentDues
	}
	return s.Store.Dues().ListRecentDues(ctx, limit)
}
