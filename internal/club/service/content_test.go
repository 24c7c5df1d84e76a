package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/policy"
	"github.com/aussiebroadwan/clubhouse/internal/club/store/drivers/sqlite"
	"github.com/aussiebroadwan/clubhouse/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGallery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, member := f.member(t, "bob", "Bob", "Jones", domain.RoleMember)

	_, err := f.gallery.CreateEvent(ctx, member, EventInput{Title: "Picnic", Location: "Park", Date: f.now})
	require.ErrorIs(t, err, policy.ErrPermissionDenied)

	draft, err := f.gallery.CreateEvent(ctx, f.root, EventInput{Title: "Gala", Location: "Hall", Date: f.now})
	require.NoError(t, err)
	picnic, err := f.gallery.CreateEvent(ctx, f.root, EventInput{
		Title:     "Picnic",
		Location:  "Park",
		Date:      f.now.AddDate(0, 0, -7),
		Published: true,
	})
	require.NoError(t, err)

	_, err = f.gallery.AddPhoto(ctx, f.root, picnic.ID, PhotoInput{ImagePath: "gallery/1.jpg", Caption: "Lunch"})
	require.NoError(t, err)
	featured, err := f.gallery.AddPhoto(ctx, f.root, picnic.ID, PhotoInput{ImagePath: "gallery/2.jpg", Featured: true})
	require.NoError(t, err)
	_, err = f.gallery.AddPhoto(ctx, f.root, "missing", PhotoInput{ImagePath: "gallery/3.jpg"})
	require.ErrorIs(t, err, ErrNotFound)

	events, err := f.gallery.ListEvents(ctx, member)
	require.NoError(t, err)
	require.Len(t, events, 1)

	events, err = f.gallery.ListEvents(ctx, f.root)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, draft.ID, events[0].ID)

	_, err = f.gallery.GetEvent(ctx, member, draft.ID)
	require.ErrorIs(t, err, ErrNotFound)

	detail, err := f.gallery.GetEvent(ctx, domain.Anonymous(), picnic.ID)
	require.NoError(t, err)
	require.Len(t, detail.Photos, 2)
	require.Equal(t, featured.ID, detail.Photos[0].ID)

	_, err = f.gallery.UpdateEvent(ctx, f.root, draft.ID, EventInput{Title: "Gala night", Location: "Hall", Date: f.now, Published: true})
	require.NoError(t, err)
	_, err = f.gallery.GetEvent(ctx, member, draft.ID)
	require.NoError(t, err)

	require.NoError(t, f.gallery.DeletePhoto(ctx, f.root, featured.ID))
	require.NoError(t, f.gallery.DeleteEvent(ctx, f.root, picnic.ID))
	require.ErrorIs(t, f.gallery.DeleteEvent(ctx, f.root, picnic.ID), ErrNotFound)
}

func TestAnnouncements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, member := f.member(t, "bob", "Bob", "Jones", domain.RoleMember)

	_, err := f.announcements.CreateAnnouncement(ctx, member, AnnouncementInput{Title: "Hi"})
	require.ErrorIs(t, err, policy.ErrPermissionDenied)

	now, err := f.announcements.CreateAnnouncement(ctx, f.root, AnnouncementInput{Title: "AGM", Content: "Tuesday"})
	require.NoError(t, err)
	require.True(t, now.Published)
	require.Equal(t, f.now, now.PublishDate)

	_, err = f.announcements.CreateAnnouncement(ctx, f.root, AnnouncementInput{Title: "Later", PublishDate: f.now.Add(time.Hour)})
	require.NoError(t, err)

	hidden := false
	draft, err := f.announcements.CreateAnnouncement(ctx, f.root, AnnouncementInput{Title: "Draft", Published: &hidden})
	require.NoError(t, err)

	visible, err := f.announcements.ListAnnouncements(ctx, member)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, now.ID, visible[0].ID)

	all, err := f.announcements.ListAnnouncements(ctx, f.root)
	require.NoError(t, err)
	require.Len(t, all, 3)

	require.NoError(t, f.announcements.SetAnnouncementPublished(ctx, f.root, draft.ID, true))
	f.now = f.now.Add(2 * time.Hour)

	visible, err = f.announcements.ListAnnouncements(ctx, member)
	require.NoError(t, err)
	require.Len(t, visible, 3)

	_, err = f.announcements.UpdateAnnouncement(ctx, f.root, now.ID, AnnouncementInput{Title: " "})
	require.ErrorIs(t, err, ErrValidation)
	require.NoError(t, f.announcements.DeleteAnnouncement(ctx, f.root, now.ID))
	require.ErrorIs(t, f.announcements.DeleteAnnouncement(ctx, f.root, now.ID), ErrNotFound)
}

func TestBootstrap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ok, err := f.bootstrap.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, f.root.Superuser)
	require.True(t, f.root.IsAdmin())

	_, err = f.bootstrap.Bootstrap(ctx, testBootstrapToken, domain.BootstrapData{
		Username: "again",
		Email:    "again@example.org",
		Password: "long enough password",
	})
	require.ErrorIs(t, err, ErrBootstrapAlready)
}

func TestBootstrap_Refused(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	defer s.Close()

	data := domain.BootstrapData{Username: "root", Email: "root@example.org", Password: "long enough password"}
	hasher := cryptox.NewHasher("")

	svc := &BootstrapService{Store: s, Hasher: hasher, Token: "expected"}
	_, err = svc.Bootstrap(ctx, "guess", data)
	require.ErrorIs(t, err, ErrBootstrapUnauthorized)

	disabled := &BootstrapService{Store: s, Hasher: hasher}
	_, err = disabled.Bootstrap(ctx, "", data)
	require.ErrorIs(t, err, ErrBootstrapUnauthorized)

	data.Password = "short"
	_, err = svc.Bootstrap(ctx, "expected", data)
	require.ErrorIs(t, err, ErrValidation)

	ok, err := svc.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}
