package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/policy"
	"github.com/aussiebroadwan/clubhouse/internal/club/store"
	"github.com/aussiebroadwan/clubhouse/pkg/money"
	"github.com/stretchr/testify/require"
)

func TestLedgerTotals_NoEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m, p := f.member(t, "alice", "Alice", "Smith", domain.RoleMember)

	status, err := f.ledger.LedgerTotals(ctx, p, m.Profile.ID)
	require.NoError(t, err)
	require.Equal(t, "0.00", status.Totals.TotalDues.String())
	require.Equal(t, "0.00", status.Totals.TotalPayments.String())
	require.Equal(t, "0.00", status.Totals.Balance.String())
	require.True(t, status.Totals.UpToDate())
	require.Empty(t, status.Dues)
	require.Empty(t, status.Payments)
}

func TestLedger_SettleThenOwe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m, p := f.member(t, "alice", "Alice", "Smith", domain.RoleMember)

	f.due(t, m.Profile.ID, "50.00")
	f.pay(t, m.Profile.ID, "50.00")

	status, err := f.ledger.LedgerTotals(ctx, p, m.Profile.ID)
	require.NoError(t, err)
	require.Equal(t, "0.00", status.Totals.Balance.String())
	require.Equal(t, "Up to Date", status.Totals.FinancialLabel())

	f.due(t, m.Profile.ID, "20.00")

	status, err = f.ledger.LedgerTotals(ctx, p, m.Profile.ID)
	require.NoError(t, err)
	require.Equal(t, "70.00", status.Totals.TotalDues.String())
	require.Equal(t, "20.00", status.Totals.Balance.String())
	require.Equal(t, "Overdue", status.Totals.FinancialLabel())
	require.Len(t, status.Dues, 2)
	require.Len(t, status.Payments, 1)
	require.Equal(t, f.root.AccountID, status.Payments[0].RecordedBy)
}

func TestLedger_BalanceAgreesAcrossViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m, p := f.member(t, "alice", "Alice", "Smith", domain.RoleMember)

	f.due(t, m.Profile.ID, "45.50")
	f.due(t, m.Profile.ID, "10.25")
	f.pay(t, m.Profile.ID, "30.00")
	f.pay(t, m.Profile.ID, "5.75")

	self, err := f.ledger.LedgerTotals(ctx, p, m.Profile.ID)
	require.NoError(t, err)

	roster, err := f.members.ListMembers(ctx, f.root)
	require.NoError(t, err)
	require.Len(t, roster, 1)

	report, err := f.reports.BuildReport(ctx, f.root, FilterAll)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	require.Equal(t, "20.00", self.Totals.Balance.String())
	require.Equal(t, self.Totals, roster[0].Totals)
	require.Equal(t, self.Totals, report.Rows[0].Totals)
}

func TestLedger_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	target, _ := f.member(t, "alice", "Alice", "Smith", domain.RoleMember)
	_, member := f.member(t, "bob", "Bob", "Jones", domain.RoleMember)
	_, secretary := f.member(t, "fiona", "Fiona", "Fs", domain.RoleFinancialSecretary)
	_, admin := f.member(t, "adam", "Adam", "Admin", domain.RoleAdmin)

	payment := PaymentInput{ProfileID: target.Profile.ID, Amount: money.MustParse("10")}
	due := DueInput{ProfileID: target.Profile.ID, Amount: money.MustParse("10"), Description: "Fee", Date: f.now}

	t.Run("member is refused", func(t *testing.T) {
		_, err := f.ledger.RecordPayment(ctx, member, payment)
		require.ErrorIs(t, err, policy.ErrPermissionDenied)
		_, err = f.ledger.CreateDue(ctx, member, due)
		require.ErrorIs(t, err, policy.ErrPermissionDenied)
		_, err = f.ledger.BulkCreateDue(ctx, member, BulkDueInput{Amount: due.Amount, Description: "Fee", Date: f.now})
		require.ErrorIs(t, err, policy.ErrPermissionDenied)
		_, err = f.ledger.LedgerTotals(ctx, member, target.Profile.ID)
		require.ErrorIs(t, err, policy.ErrPermissionDenied)
	})

	t.Run("anonymous is refused", func(t *testing.T) {
		_, err := f.ledger.RecordPayment(ctx, domain.Anonymous(), payment)
		require.ErrorIs(t, err, policy.ErrPermissionDenied)
	})

	t.Run("officers succeed", func(t *testing.T) {
		for _, p := range []domain.Principal{secretary, admin} {
			_, err := f.ledger.RecordPayment(ctx, p, payment)
			require.NoError(t, err)
			_, err = f.ledger.CreateDue(ctx, p, due)
			require.NoError(t, err)
		}

		status, err := f.ledger.LedgerTotals(ctx, secretary, target.Profile.ID)
		require.NoError(t, err)
		require.Equal(t, "0.00", status.Totals.Balance.String())
	})

	t.Run("unknown profile does not leak to members", func(t *testing.T) {
		_, err := f.ledger.LedgerTotals(ctx, member, "missing")
		require.ErrorIs(t, err, policy.ErrPermissionDenied)

		_, err = f.ledger.LedgerTotals(ctx, admin, "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLedger_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m, _ := f.member(t, "alice", "Alice", "Smith", domain.RoleMember)

	_, err := f.ledger.RecordPayment(ctx, f.root, PaymentInput{ProfileID: m.Profile.ID, Amount: money.Zero})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.ledger.RecordPayment(ctx, f.root, PaymentInput{ProfileID: "missing", Amount: money.MustParse("1")})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.ledger.CreateDue(ctx, f.root, DueInput{ProfileID: m.Profile.ID, Amount: money.MustParse("-5"), Description: "x", Date: f.now})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.ledger.CreateDue(ctx, f.root, DueInput{ProfileID: m.Profile.ID, Amount: money.MustParse("5"), Description: "  ", Date: f.now})
	require.ErrorIs(t, err, ErrValidation)
}

func TestLedger_Overpayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m, p := f.member(t, "alice", "Alice", "Smith", domain.RoleMember)

	f.due(t, m.Profile.ID, "10")
	f.pay(t, m.Profile.ID, "25")

	status, err := f.ledger.LedgerTotals(ctx, p, m.Profile.ID)
	require.NoError(t, err)
	require.Equal(t, "-15.00", status.Totals.Balance.String())
	require.True(t, status.Totals.UpToDate())
}

func TestBulkCreateDue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := BulkDueInput{Amount: money.MustParse("25.00"), Description: "Annual subscription", Date: f.now}

	t.Run("no eligible members", func(t *testing.T) {
		n, err := f.ledger.BulkCreateDue(ctx, f.root, in)
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("charges active non-admins only", func(t *testing.T) {
		alice, _ := f.member(t, "alice", "Alice", "Smith", domain.RoleMember)
		bob, _ := f.member(t, "bob", "Bob", "Jones", domain.RoleMember)
		fiona, _ := f.member(t, "fiona", "Fiona", "Fs", domain.RoleFinancialSecretary)
		admin, _ := f.member(t, "adam", "Adam", "Admin", domain.RoleAdmin)
		gone, _ := f.member(t, "gone", "Gina", "Gone", domain.RoleMember)
		require.NoError(t, f.members.UpdateStatus(ctx, f.root, gone.Profile.ID, domain.StatusSuspended))

		n, err := f.ledger.BulkCreateDue(ctx, f.root, in)
		require.NoError(t, err)
		require.Equal(t, 3, n)

		for _, m := range []domain.Member{alice, bob, fiona} {
			status, err := f.ledger.LedgerTotals(ctx, f.root, m.Profile.ID)
			require.NoError(t, err)
			require.Len(t, status.Dues, 1, m.Account.Username)
			require.Equal(t, in.Amount, status.Dues[0].Amount)
			require.Equal(t, "Annual subscription", status.Dues[0].Description)
		}
		for _, m := range []domain.Member{admin, gone} {
			status, err := f.ledger.LedgerTotals(ctx, f.root, m.Profile.ID)
			require.NoError(t, err)
			require.Empty(t, status.Dues, m.Account.Username)
		}

		rootStatus, err := f.ledger.LedgerTotals(ctx, f.root, f.root.ProfileID)
		require.NoError(t, err)
		require.Empty(t, rootStatus.Dues)

		recent, err := f.ledger.RecentDues(ctx, f.root, 0)
		require.NoError(t, err)
		require.Len(t, recent, 3)
	})
}

// vanishingStore reports every dues listing as missing, as if the profile
// was deleted between the sum and the listing.
type vanishingStore struct{ store.Store }

func (s vanishingStore) Dues() store.Dues { return vanishingDues{s.Store.Dues()} }

type vanishingDues struct{ store.Dues }

func (vanishingDues) ListDuesByProfile(context.Context, string) ([]domain.Due, error) {
	return nil, store.ErrNotFound
}

func TestLedgerTotals_ListingErrorsAreMapped(t *testing.T) {
	f := newFixture(t)
	m, _ := f.member(t, "alice", "Alice", "Smith", domain.RoleMember)

	svc := &LedgerService{Store: vanishingStore{f.store}}
	_, err := svc.LedgerTotals(context.Background(), f.root, m.Profile.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
