// Package storetest is a behavioural suite every store driver must pass.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/store"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/aussiebroadwan/clubhouse/pkg/money"
	"github.com/stretchr/testify/require"
)

// Opener returns a migrated, empty store. The suite closes it.
type Opener func(t *testing.T) store.Store

// Run executes the suite against stores produced by open.
func Run(t *testing.T, open Opener) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"AccountUniqueness", testAccountUniqueness},
		{"MemberLookup", testMemberLookup},
		{"MemberListingOrderAndFilter", testMemberListing},
		{"Invitations", testInvitations},
		{"LedgerTotals", testLedgerTotals},
		{"RecentDues", testRecentDues},
		{"DeleteCascades", testDeleteCascades},
		{"TxRollback", testTxRollback},
		{"Gallery", testGallery},
		{"Announcements", testAnnouncements},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

// NewMember creates an active account and profile and returns them.
func NewMember(t *testing.T, s store.Store, username, first, last string, role domain.Role) domain.Member {
	t.Helper()
	ctx := context.Background()

	m := domain.Member{
		Account: domain.Account{
			ID:        idx.New().String(),
			Username:  username,
			Email:     username + "@example.org",
			FirstName: first,
			LastName:  last,
			Active:    true,
		},
	}
	m.Profile = domain.Profile{
		ID:        idx.New().String(),
		AccountID: m.Account.ID,
		Role:      role,
		Status:    domain.StatusActive,
	}

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, m.Account); err != nil {
			return err
		}
		return tx.Profiles().CreateProfile(ctx, m.Profile)
	}))

	got, err := s.Profiles().GetMember(ctx, m.Account.ID)
	require.NoError(t, err)
	return got
}

func addDue(t *testing.T, s store.Store, profileID, amount string, due time.Time) domain.Due {
	t.Helper()
	d := domain.Due{
		ID:          idx.New().String(),
		ProfileID:   profileID,
		Amount:      money.MustParse(amount),
		Description: "Annual dues",
		DueDate:     due,
	}
	require.NoError(t, s.Dues().CreateDue(context.Background(), d))
	return d
}

func addPayment(t *testing.T, s store.Store, profileID, amount, recordedBy string) {
	t.Helper()
	require.NoError(t, s.Payments().CreatePayment(context.Background(), domain.Payment{
		ID:          idx.New().String(),
		ProfileID:   profileID,
		Amount:      money.MustParse(amount),
		PaymentDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		RecordedBy:  recordedBy,
	}))
}

func testAccountUniqueness(t *testing.T, s store.Store) {
	ctx := context.Background()
	m := NewMember(t, s, "alice", "Alice", "Smith", domain.RoleMember)
	require.Equal(t, "alice@example.org", m.Account.Email)

	dup := m.Account
	dup.ID = idx.New().String()
	dup.Username = "alice2"
	dup.Email = "ALICE@example.org"
	err := s.Accounts().CreateAccount(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := s.Accounts().GetAccountByEmail(ctx, " Alice@Example.org ")
	require.NoError(t, err)
	require.Equal(t, m.Account.ID, got.ID)

	_, err = s.Accounts().GetAccountByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)

	empty, err := s.Accounts().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func testMemberLookup(t *testing.T, s store.Store) {
	ctx := context.Background()
	m := NewMember(t, s, "bob", "Bob", "Jones", domain.RoleFinancialSecretary)

	require.Equal(t, domain.RoleFinancialSecretary, m.Profile.Role)
	require.Equal(t, domain.StatusActive, m.Profile.Status)
	require.Nil(t, m.Profile.InvitationSentAt)

	byProfile, err := s.Profiles().GetMemberByProfileID(ctx, m.Profile.ID)
	require.NoError(t, err)
	require.Equal(t, m.Account.ID, byProfile.Account.ID)

	require.NoError(t, s.Profiles().UpdateContact(ctx, m.Profile.ID, domain.ContactDetails{
		Phone: "0400 000 000", City: "Sydney", Country: "AU",
	}))
	require.NoError(t, s.Profiles().UpdateRole(ctx, m.Profile.ID, domain.RoleAdmin))
	require.NoError(t, s.Profiles().UpdateStatus(ctx, m.Profile.ID, domain.StatusSuspended))

	p, err := s.Profiles().GetProfileByAccountID(ctx, m.Account.ID)
	require.NoError(t, err)
	require.Equal(t, "Sydney", p.City)
	require.Equal(t, domain.RoleAdmin, p.Role)
	require.Equal(t, domain.StatusSuspended, p.Status)

	err = s.Profiles().UpdateContact(ctx, idx.New().String(), domain.ContactDetails{})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testMemberListing(t *testing.T, s store.Store) {
	ctx := context.Background()
	NewMember(t, s, "zed", "Zed", "adams", domain.RoleMember)
	NewMember(t, s, "amy", "Amy", "Brown", domain.RoleMember)
	NewMember(t, s, "adam", "Adam", "Adams", domain.RoleAdmin)
	gone := NewMember(t, s, "carl", "Carl", "Cole", domain.RoleMember)
	require.NoError(t, s.Profiles().UpdateStatus(ctx, gone.Profile.ID, domain.StatusRemoved))

	all, err := s.Profiles().ListMembers(ctx, store.MemberFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, []string{"adam", "zed", "amy", "carl"}, usernames(all))

	active, err := s.Profiles().ListMembers(ctx, store.MemberFilter{
		Status:        domain.StatusActive,
		ExcludeAdmins: true,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"zed", "amy"}, usernames(active))
}

func usernames(ms []domain.Member) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Account.Username)
	}
	return out
}

func testInvitations(t *testing.T, s store.Store) {
	ctx := context.Background()
	m := NewMember(t, s, "ivy", "Ivy", "Lee", domain.RoleMember)
	old := NewMember(t, s, "oli", "Oli", "Ng", domain.RoleMember)

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Profiles().SetInvitation(ctx, m.Profile.ID, "hash-new", now))
	require.NoError(t, s.Profiles().SetInvitation(ctx, old.Profile.ID, "hash-old", now.Add(-10*24*time.Hour)))

	got, err := s.Profiles().GetMemberByInvitationHash(ctx, "hash-new")
	require.NoError(t, err)
	require.Equal(t, m.Profile.ID, got.Profile.ID)
	require.NotNil(t, got.Profile.InvitationSentAt)
	require.True(t, now.Equal(*got.Profile.InvitationSentAt))

	_, err = s.Profiles().GetMemberByInvitationHash(ctx, "")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Fingerprints are unique across profiles.
	err = s.Profiles().SetInvitation(ctx, old.Profile.ID, "hash-new", now)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	n, err := s.Profiles().ClearInvitationsSentBefore(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.Profiles().GetMemberByInvitationHash(ctx, "hash-old")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.Profiles().ConsumeInvitation(ctx, m.Profile.ID, "hash-other"), store.ErrNotFound)
	require.NoError(t, s.Profiles().ConsumeInvitation(ctx, m.Profile.ID, "hash-new"))
	require.ErrorIs(t, s.Profiles().ConsumeInvitation(ctx, m.Profile.ID, "hash-new"), store.ErrNotFound)
	require.NoError(t, s.Profiles().ClearInvitation(ctx, m.Profile.ID))
	p, err := s.Profiles().GetProfileByID(ctx, m.Profile.ID)
	require.NoError(t, err)
	require.False(t, p.HasInvitation())
}

func testLedgerTotals(t *testing.T, s store.Store) {
	ctx := context.Background()
	fs := NewMember(t, s, "fin", "Fin", "Sec", domain.RoleFinancialSecretary)
	m := NewMember(t, s, "dan", "Dan", "Doe", domain.RoleMember)
	idle := NewMember(t, s, "eve", "Eve", "Ek", domain.RoleMember)

	due := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	addDue(t, s, m.Profile.ID, "50.00", due)
	addDue(t, s, m.Profile.ID, "50.00", due)
	addDue(t, s, m.Profile.ID, "25.50", due)
	addPayment(t, s, m.Profile.ID, "40.00", fs.Account.ID)
	addPayment(t, s, m.Profile.ID, "40.00", fs.Account.ID)

	d, p, err := s.Ledger().SumsForProfile(ctx, m.Profile.ID)
	require.NoError(t, err)
	require.Equal(t, money.MustParse("125.50"), d)
	require.Equal(t, money.MustParse("80.00"), p)

	d, p, err = s.Ledger().SumsForProfile(ctx, idle.Profile.ID)
	require.NoError(t, err)
	require.True(t, d.IsZero())
	require.True(t, p.IsZero())

	_, _, err = s.Ledger().SumsForProfile(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)

	rows, err := s.Ledger().ListMemberTotals(ctx, store.MemberFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	byUser := map[string]domain.Totals{}
	for _, r := range rows {
		byUser[r.Account.Username] = r.Totals
	}
	require.Equal(t, money.MustParse("45.50"), byUser["dan"].Balance)
	require.True(t, byUser["eve"].UpToDate())

	dues, err := s.Dues().ListDuesByProfile(ctx, m.Profile.ID)
	require.NoError(t, err)
	require.Len(t, dues, 3)
	require.True(t, due.Equal(dues[0].DueDate))

	payments, err := s.Payments().ListPaymentsByProfile(ctx, m.Profile.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	require.Equal(t, fs.Account.ID, payments[0].RecordedBy)

	// Deleting the recorder keeps the payment but forgets who recorded it.
	require.NoError(t, s.Accounts().DeleteAccount(ctx, fs.Account.ID))
	payments, err = s.Payments().ListPaymentsByProfile(ctx, m.Profile.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	require.Empty(t, payments[0].RecordedBy)
}

func testRecentDues(t *testing.T, s store.Store) {
	ctx := context.Background()
	m := NewMember(t, s, "gus", "Gus", "Hall", domain.RoleMember)

	batch := make([]domain.Due, 0, 12)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 12 {
		batch = append(batch, domain.Due{
			ID:          idx.New().String(),
			ProfileID:   m.Profile.ID,
			Amount:      money.FromMinor(int64(100 * (i + 1))),
			Description: "Monthly",
			DueDate:     base,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		})
	}
	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Dues().CreateDues(ctx, batch)
	}))

	recent, err := s.Dues().ListRecentDues(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	require.Equal(t, batch[11].ID, recent[0].ID)

	err = s.Dues().CreateDue(ctx, domain.Due{
		ID:        idx.New().String(),
		ProfileID: idx.New().String(),
		Amount:    money.FromMinor(100),
		DueDate:   base,
	})
	require.Error(t, err, "unknown profile must violate the foreign key")
}

func testDeleteCascades(t *testing.T, s store.Store) {
	ctx := context.Background()
	m := NewMember(t, s, "hal", "Hal", "Ito", domain.RoleMember)
	addDue(t, s, m.Profile.ID, "10.00", time.Now())

	require.NoError(t, s.Accounts().DeleteAccount(ctx, m.Account.ID))

	_, err := s.Profiles().GetProfileByID(ctx, m.Profile.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	dues, err := s.Dues().ListDuesByProfile(ctx, m.Profile.ID)
	require.NoError(t, err)
	require.Empty(t, dues)

	require.ErrorIs(t, s.Accounts().DeleteAccount(ctx, m.Account.ID), store.ErrNotFound)
}

func testTxRollback(t *testing.T, s store.Store) {
	ctx := context.Background()
	sentinel := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, domain.Account{
			ID: idx.New().String(), Username: "tmp", Email: "tmp@example.org",
		}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	empty, err := s.Accounts().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)
}

func testGallery(t *testing.T, s store.Store) {
	ctx := context.Background()
	admin := NewMember(t, s, "root", "Ro", "Ot", domain.RoleAdmin)

	older := domain.Event{
		ID: idx.New().String(), Title: "AGM", Date: time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC),
		CreatedBy: admin.Account.ID, Published: true,
	}
	newer := domain.Event{
		ID: idx.New().String(), Title: "Picnic", Date: time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC),
		CreatedBy: admin.Account.ID,
	}
	require.NoError(t, s.Events().CreateEvent(ctx, older))
	require.NoError(t, s.Events().CreateEvent(ctx, newer))

	all, err := s.Events().ListEvents(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, newer.ID, all[0].ID)

	published, err := s.Events().ListEvents(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 1)
	require.Equal(t, older.ID, published[0].ID)

	plain := domain.Photo{ID: idx.New().String(), EventID: older.ID, ImagePath: "a.jpg", UploadedBy: admin.Account.ID}
	star := domain.Photo{ID: idx.New().String(), EventID: older.ID, ImagePath: "b.jpg", Featured: true}
	require.NoError(t, s.Photos().CreatePhoto(ctx, plain))
	require.NoError(t, s.Photos().CreatePhoto(ctx, star))

	photos, err := s.Photos().ListPhotosByEvent(ctx, older.ID)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	require.Equal(t, star.ID, photos[0].ID)

	newer.Published = true
	newer.Location = "Centennial Park"
	require.NoError(t, s.Events().UpdateEvent(ctx, newer))
	got, err := s.Events().GetEventByID(ctx, newer.ID)
	require.NoError(t, err)
	require.True(t, got.Published)
	require.Equal(t, "Centennial Park", got.Location)

	require.NoError(t, s.Events().DeleteEvent(ctx, older.ID))
	_, err = s.Photos().GetPhotoByID(ctx, plain.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testAnnouncements(t *testing.T, s store.Store) {
	ctx := context.Background()
	admin := NewMember(t, s, "ann", "Ann", "Ounce", domain.RoleAdmin)
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	live := domain.Announcement{
		ID: idx.New().String(), Title: "Welcome", Content: "Hello",
		PublishDate: now.Add(-time.Hour), AuthorID: admin.Account.ID, Published: true,
	}
	future := domain.Announcement{
		ID: idx.New().String(), Title: "Soon", Content: "Later",
		PublishDate: now.Add(time.Hour), AuthorID: admin.Account.ID, Published: true,
	}
	draft := domain.Announcement{
		ID: idx.New().String(), Title: "Draft", Content: "WIP",
		PublishDate: now.Add(-2 * time.Hour), AuthorID: admin.Account.ID,
	}
	for _, a := range []domain.Announcement{live, future, draft} {
		require.NoError(t, s.Announcements().CreateAnnouncement(ctx, a))
	}

	all, err := s.Announcements().ListAnnouncements(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, future.ID, all[0].ID)

	visible, err := s.Announcements().ListAnnouncements(ctx, &now)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, live.ID, visible[0].ID)

	require.NoError(t, s.Announcements().SetPublished(ctx, draft.ID, true))
	visible, err = s.Announcements().ListAnnouncements(ctx, &now)
	require.NoError(t, err)
	require.Len(t, visible, 2)

	require.NoError(t, s.Accounts().DeleteAccount(ctx, admin.Account.ID))
	got, err := s.Announcements().GetAnnouncementByID(ctx, live.ID)
	require.NoError(t, err)
	require.Empty(t, got.AuthorID)

	require.NoError(t, s.Announcements().DeleteAnnouncement(ctx, live.ID))
	require.ErrorIs(t, s.Announcements().DeleteAnnouncement(ctx, live.ID), store.ErrNotFound)
}
