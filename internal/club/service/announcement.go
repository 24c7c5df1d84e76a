package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/policy"
	"github.com/aussiebroadwan/clubhouse/internal/club/store"
	"github.com/aussiebroadwan/clubhouse/pkg/idx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

type AnnouncementInput struct {
	Title       string
	Content     string
	PublishDate time.Time // zero means now
	Published   *bool     // nil means published
}

type AnnouncementService struct {
	Store store.Store
	Now   Clock
}

// ListAnnouncements returns everything to admins. Everyone else sees
// published announcements whose publish date has passed.
func (s *AnnouncementService) ListAnnouncements(ctx context.Context, p domain.Principal) ([]domain.Announcement, error) {
	if policy.Allowed(p, policy.PublishAnnouncement, policy.Target{}) {
		return s.Store.Announcements().ListAnnouncements(ctx, nil)
	}
	now := s.Now.now()
	return s.Store.Announcements().ListAnnouncements(ctx, &now)
}

func (s *AnnouncementService) validate(in AnnouncementInput) (AnnouncementInput, error) {
	var err error
	if in.Title, err = requireText("title", in.Title, maxTitleLen); err != nil {
		return in, err
	}
	if in.PublishDate.IsZero() {
		in.PublishDate = s.Now.now()
	}
	return in, nil
}

func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, p domain.Principal, in AnnouncementInput) (domain.Announcement, error) {
	log := slogx.FromContext(ctx)

	if err := policy.Authorize(p, policy.PublishAnnouncement, policy.Target{}); err != nil {
		log.Warn("announcement refused", slog.String("account_id", p.AccountID), slog.Any("error", err))
		return domain.Announcement{}, err
	}
	in, err := s.validate(in)
	if err != nil {
		return domain.Announcement{}, err
	}

	now := s.Now.now()
	a := domain.Announcement{
		ID:          idx.New().String(),
		Title:       in.Title,
		Content:     in.Content,
		PublishDate: in.PublishDate.UTC(),
		AuthorID:    p.AccountID,
		Published:   in.Published == nil || *in.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Announcements().CreateAnnouncement(ctx, a); err != nil {
		log.Error("failed to create announcement", slog.Any("error", err))
		return domain.Announcement{}, storeErr(err)
	}

	log.Info("announcement created", slog.String("announcement_id", a.ID), slog.String("author_id", p.AccountID))
	return a, nil
}

func (s *AnnouncementService) UpdateAnnouncement(ctx context.Context, p domain.Principal, id string, in AnnouncementInput) (domain.Announcement, error) {
	if err := policy.Authorize(p, policy.PublishAnnouncement, policy.Target{}); err != nil {
		return domain.Announcement{}, err
	}
	in, err := s.validate(in)
	if err != nil {
		return domain.Announcement{}, err
	}

	a, err := s.Store.Announcements().GetAnnouncementByID(ctx, id)
	if err != nil {
		return domain.Announcement{}, storeErr(err)
	}
	a.Title = in.Title
	a.Content = in.Content
	a.PublishDate = in.PublishDate.UTC()
	if in.Published != nil {
		a.Published = *in.Published
	}
	a.UpdatedAt = s.Now.now()

	if err := s.Store.Announcements().UpdateAnnouncement(ctx, a); err != nil {
		return domain.Announcement{}, storeErr(err)
	}
	return a, nil
}

func (s *AnnouncementService) SetAnnouncementPublished(ctx context.Context, p domain.Principal, id string, published bool) error {
	if err := policy.Authorize(p, policy.PublishAnnouncement, policy.Target{}); err != nil {
		return err
	}
	if err := s.Store.Announcements().SetPublished(ctx, id, published); err != nil {
		return storeErr(err)
	}
	slogx.FromContext(ctx).Info("announcement visibility changed",
		slog.String("announcement_id", id),
		slog.Bool("published", published),
	)
	return nil
}

func (s *AnnouncementService) DeleteAnnouncement(ctx context.Context, p domain.Principal, id string) error {
	if err := policy.Authorize(p, policy.PublishAnnouncement, policy.Target{}); err != nil {
		return err
	}
	return storeErr(s.Store.Announcements().DeleteAnnouncement(ctx, id))
}
