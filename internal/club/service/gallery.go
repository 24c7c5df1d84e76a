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

type EventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	Published   bool
}

type PhotoInput struct {
	ImagePath string
	Caption   string
	Featured  bool
}

// EventDetail is an event with its photos, featured first.
type EventDetail struct {
	Event  domain.Event
	Photos []domain.Photo
}

type GalleryService struct {
	Store store.Store
	Now   Clock
}

// ListEvents returns every event to admins and published events to
// everyone else, newest first.
func (s *GalleryService) ListEvents(ctx context.Context, p domain.Principal) ([]domain.Event, error) {
	publishedOnly := !policy.Allowed(p, policy.ManageGallery, policy.Target{})
	return s.Store.Events().ListEvents(ctx, publishedOnly)
}

// GetEvent returns an event and its photos. Unpublished events do not exist
// for non-admins.
func (s *GalleryService) GetEvent(ctx context.Context, p domain.Principal, id string) (EventDetail, error) {
	e, err := s.Store.Events().GetEventByID(ctx, id)
	if err != nil {
		return EventDetail{}, storeErr(err)
	}
	if !e.Published && !policy.Allowed(p, policy.ManageGallery, policy.Target{}) {
		return EventDetail{}, ErrNotFound
	}

	photos, err := s.Store.Photos().ListPhotosByEvent(ctx, id)
	if err != nil {
		return EventDetail{}, err
	}
	return EventDetail{Event: e, Photos: photos}, nil
}

func validateEvent(in EventInput) (EventInput, error) {
	var err error
	if in.Title, err = requireText("title", in.Title, maxTitleLen); err != nil {
		return in, err
	}
	if in.Location, err = requireText("location", in.Location, maxTitleLen); err != nil {
		return in, err
	}
	if in.Date.IsZero() {
		return in, invalidf("event date is required")
	}
	in.Date = today(in.Date)
	return in, nil
}

func (s *GalleryService) CreateEvent(ctx context.Context, p domain.Principal, in EventInput) (domain.Event, error) {
	log := slogx.FromContext(ctx)

	if err := policy.Authorize(p, policy.ManageGallery, policy.Target{}); err != nil {
		log.Warn("event creation refused", slog.String("account_id", p.AccountID), slog.Any("error", err))
		return domain.Event{}, err
	}
	in, err := validateEvent(in)
	if err != nil {
		return domain.Event{}, err
	}

	now := s.Now.now()
	e := domain.Event{
		ID:          idx.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Location:    in.Location,
		CreatedBy:   p.AccountID,
		Published:   in.Published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Events().CreateEvent(ctx, e); err != nil {
		log.Error("failed to create event", slog.Any("error", err))
		return domain.Event{}, storeErr(err)
	}

	log.Info("event created", slog.String("event_id", e.ID), slog.String("created_by", p.AccountID))
	return e, nil
}

func (s *GalleryService) UpdateEvent(ctx context.Context, p domain.Principal, id string, in EventInput) (domain.Event, error) {
	if err := policy.Authorize(p, policy.ManageGallery, policy.Target{}); err != nil {
		return domain.Event{}, err
	}
	in, err := validateEvent(in)
	if err != nil {
		return domain.Event{}, err
	}

	e, err := s.Store.Events().GetEventByID(ctx, id)
	if err != nil {
		return domain.Event{}, storeErr(err)
	}
	e.Title = in.Title
	e.Description = in.Description
	e.Date = in.Date
	e.Location = in.Location
	e.Published = in.Published
	e.UpdatedAt = s.Now.now()

	if err := s.Store.Events().UpdateEvent(ctx, e); err != nil {
		return domain.Event{}, storeErr(err)
	}
	slogx.FromContext(ctx).Info("event updated", slog.String("event_id", id), slog.String("updated_by", p.AccountID))
	return e, nil
}

// DeleteEvent removes an event and its photos.
func (s *GalleryService) DeleteEvent(ctx context.Context, p domain.Principal, id string) error {
	if err := policy.Authorize(p, policy.ManageGallery, policy.Target{}); err != nil {
		return err
	}
	if err := s.Store.Events().DeleteEvent(ctx, id); err != nil {
		return storeErr(err)
	}
	slogx.FromContext(ctx).Info("event deleted", slog.String("event_id", id), slog.String("deleted_by", p.AccountID))
	return nil
}

// AddPhoto attaches an already stored image to an event.
func (s *GalleryService) AddPhoto(ctx context.Context, p domain.Principal, eventID string, in PhotoInput) (domain.Photo, error) {
	log := slogx.FromContext(ctx)

	if err := policy.Authorize(p, policy.ManageGallery, policy.Target{}); err != nil {
		log.Warn("photo upload refused", slog.String("account_id", p.AccountID), slog.Any("error", err))
		return domain.Photo{}, err
	}

	path, err := requireText("image path", in.ImagePath, maxDescriptionLen)
	if err != nil {
		return domain.Photo{}, err
	}
	caption, err := optionalText("caption", in.Caption, maxTitleLen)
	if err != nil {
		return domain.Photo{}, err
	}

	if _, err := s.Store.Events().GetEventByID(ctx, eventID); err != nil {
		return domain.Photo{}, storeErr(err)
	}

	photo := domain.Photo{
		ID:         idx.New().String(),
		EventID:    eventID,
		ImagePath:  path,
		Caption:    caption,
		UploadedBy: p.AccountID,
		Featured:   in.Featured,
		UploadedAt: s.Now.now(),
	}
	if err := s.Store.Photos().CreatePhoto(ctx, photo); err != nil {
		log.Error("failed to store photo", slog.String("event_id", eventID), slog.Any("error", err))
		return domain.Photo{}, storeErr(err)
	}

	log.Info("photo added", slog.String("photo_id", photo.ID), slog.String("event_id", eventID))
	return photo, nil
}

func (s *GalleryService) DeletePhoto(ctx context.Context, p domain.Principal, id string) error {
	if err := policy.Authorize(p, policy.ManageGallery, policy.Target{}); err != nil {
		return err
	}
	if err := s.Store.Photos().DeletePhoto(ctx, id); err != nil {
		return storeErr(err)
	}
	slogx.FromContext(ctx).Info("photo deleted", slog.String("photo_id", id), slog.String("deleted_by", p.AccountID))
	return nil
}
