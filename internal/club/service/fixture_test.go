package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/notify"
	"github.com/aussiebroadwan/clubhouse/internal/club/store"
	"github.com/aussiebroadwan/clubhouse/internal/club/store/drivers/sqlite"
	"github.com/aussiebroadwan/clubhouse/internal/club/store/storetest"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
	"github.com/aussiebroadwan/clubhouse/pkg/money"
	"github.com/stretchr/testify/require"
)

const testBootstrapToken = "bootstrap-secret"

// fixture wires every service to one in-memory store, a recording notifier
// and a clock the test can move.
type fixture struct {
	store    store.Store
	notifier *notify.Recorder
	now      time.Time

	ledger        *LedgerService
	members       *MemberService
	invitations   *InvitationService
	reports       *ReportService
	gallery       *GalleryService
	announcements *AnnouncementService
	bootstrap     *BootstrapService
	sessions      *SessionService

	root domain.Principal // superuser created through bootstrap
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	f := &fixture{
		store:    s,
		notifier: &notify.Recorder{},
		now:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	clock := Clock(func() time.Time { return f.now })
	hasher := cryptox.NewHasher("test-pepper")

	f.invitations = &InvitationService{
		Store:    s,
		Notifier: f.notifier,
		Hasher:   hasher,
		SiteURL:  "https://club.example.org/",
		Now:      clock,
	}
	f.ledger = &LedgerService{Store: s, Now: clock}
	f.members = &MemberService{
		Store:       s,
		Hasher:      hasher,
		Notifier:    f.notifier,
		Invitations: f.invitations,
		Now:         clock,
	}
	f.reports = &ReportService{Store: s, Now: clock}
	f.gallery = &GalleryService{Store: s, Now: clock}
	f.announcements = &AnnouncementService{Store: s, Now: clock}
	f.bootstrap = &BootstrapService{Store: s, Hasher: hasher, Token: testBootstrapToken}

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test", pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	f.sessions = &SessionService{
		Store:    s,
		Hasher:   hasher,
		Signer:   signer,
		Verifier: jwtx.NewVerifierEdDSA(keys, "clubhouse-test", []string{"club"}),
		Issuer:   "clubhouse-test",
		Audience: []string{"club"},
	}

	root, err := f.bootstrap.Bootstrap(context.Background(), testBootstrapToken, domain.BootstrapData{
		Username: "root",
		Email:    "root@example.org",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	f.root = domain.PrincipalFor(root)

	return f
}

// member adds an active member and returns it with its principal.
func (f *fixture) member(t *testing.T, username, first, last string, role domain.Role) (domain.Member, domain.Principal) {
	t.Helper()
	m := storetest.NewMember(t, f.store, username, first, last, role)
	return m, domain.PrincipalFor(m)
}

func (f *fixture) due(t *testing.T, profileID, amount string) {
	t.Helper()
	_, err := f.ledger.CreateDue(context.Background(), f.root, DueInput{
		ProfileID:   profileID,
		Amount:      money.MustParse(amount),
		Description: "Subscription",
		Date:        f.now,
	})
	require.NoError(t, err)
}

func (f *fixture) pay(t *testing.T, profileID, amount string) {
	t.Helper()
	_, err := f.ledger.RecordPayment(context.Background(), f.root, PaymentInput{
		ProfileID: profileID,
		Amount:    money.MustParse(amount),
	})
	require.NoError(t, err)
}

// invitationToken returns the raw token from the last invitation sent to
// email.
func (f *fixture) invitationToken(t *testing.T, email string) string {
	t.Helper()
	msg, ok := f.notifier.Last(email)
	require.True(t, ok, "no message for %s", email)
	require.Equal(t, notify.TemplateInvitation, msg.TemplateKey)
	require.NotEmpty(t, msg.Context["token"])
	return msg.Context["token"]
}
