package sqlbase

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
)

const eventColumns = `e.id, e.title, e.description, e.event_date, e.location, e.created_by,
	e.published, e.created_at, e.updated_at`

const photoColumns = `ph.id, ph.event_id, ph.image_path, ph.caption, ph.uploaded_by, ph.featured, ph.uploaded_at`

type eventsRepo struct{ conn }

func scanEvent(s scanner) (domain.Event, error) {
	var (
		e         domain.Event
		createdBy sql.NullString
	)
	err := s.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &createdBy,
		&e.Published, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return domain.Event{}, err
	}
	e.CreatedBy = createdBy.String
	e.Date = dateOnly(e.Date)
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return e, nil
}

func (r *eventsRepo) CreateEvent(ctx context.Context, e domain.Event) error {
	now := time.Now().UTC()
	_, err := r.exec(ctx, `
		INSERT INTO events (id, title, description, event_date, location, created_by,
			published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Description, dateOnly(e.Date), e.Location, nullString(e.CreatedBy),
		e.Published, now, now,
	)
	return err
}

func (r *eventsRepo) GetEventByID(ctx context.Context, id string) (domain.Event, error) {
	e, err := scanEvent(r.queryRow(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = ?`, id))
	return e, r.d.mapErr(err)
}

func (r *eventsRepo) ListEvents(ctx context.Context, publishedOnly bool) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e`
	var args []any
	if publishedOnly {
		query += ` WHERE e.published = ?`
		args = append(args, true)
	}
	query += ` ORDER BY e.event_date DESC, e.id DESC`

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventsRepo) UpdateEvent(ctx context.Context, e domain.Event) error {
	return r.execOne(ctx, `
		UPDATE events
		SET title = ?, description = ?, event_date = ?, location = ?, published = ?, updated_at = ?
		WHERE id = ?`,
		e.Title, e.Description, dateOnly(e.Date), e.Location, e.Published, time.Now().UTC(), e.ID,
	)
}

func (r *eventsRepo) DeleteEvent(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM events WHERE id = ?`, id)
}

type photosRepo struct{ conn }

func scanPhoto(s scanner) (domain.Photo, error) {
	var (
		p          domain.Photo
		uploadedBy sql.NullString
	)
	if err := s.Scan(&p.ID, &p.EventID, &p.ImagePath, &p.Caption, &uploadedBy, &p.Featured, &p.UploadedAt); err != nil {
		return domain.Photo{}, err
	}
	p.UploadedBy = uploadedBy.String
	p.UploadedAt = p.UploadedAt.UTC()
	return p, nil
}

func (r *photosRepo) CreatePhoto(ctx context.Context, p domain.Photo) error {
	uploaded := p.UploadedAt
	if uploaded.IsZero() {
		uploaded = time.Now()
	}
	_, err := r.exec(ctx, `
		INSERT INTO photos (id, event_id, image_path, caption, uploaded_by, featured, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.EventID, p.ImagePath, p.Caption, nullString(p.UploadedBy), p.Featured, uploaded.UTC(),
	)
	return err
}

func (r *photosRepo) GetPhotoByID(ctx context.Context, id string) (domain.Photo, error) {
	p, err := scanPhoto(r.queryRow(ctx, `SELECT `+photoColumns+` FROM photos ph WHERE ph.id = ?`, id))
	return p, r.d.mapErr(err)
}

func (r *photosRepo) ListPhotosByEvent(ctx context.Context, eventID string) ([]domain.Photo, error) {
	rows, err := r.query(ctx, `
		SELECT `+photoColumns+` FROM photos ph
		WHERE ph.event_id = ?
		ORDER BY ph.featured DESC, ph.uploaded_at DESC, ph.id DESC`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *photosRepo) DeletePhoto(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM photos WHERE id = ?`, id)
}
