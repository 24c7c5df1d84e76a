package sqlbase

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
)

const announcementColumns = `n.id, n.title, n.content, n.publish_date, n.author_id, n.published,
	n.created_at, n.updated_at`

type announcementsRepo struct{ conn }

func scanAnnouncement(s scanner) (domain.Announcement, error) {
	var (
		a      domain.Announcement
		author sql.NullString
	)
	err := s.Scan(&a.ID, &a.Title, &a.Content, &a.PublishDate, &author, &a.Published,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Announcement{}, err
	}
	a.AuthorID = author.String
	a.PublishDate = a.PublishDate.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func (r *announcementsRepo) CreateAnnouncement(ctx context.Context, a domain.Announcement) error {
	now := time.Now().UTC()
	_, err := r.exec(ctx, `
		INSERT INTO announcements (id, title, content, publish_date, author_id, published,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Content, a.PublishDate.UTC(), nullString(a.AuthorID), a.Published, now, now,
	)
	return err
}

func (r *announcementsRepo) GetAnnouncementByID(ctx context.Context, id string) (domain.Announcement, error) {
	a, err := scanAnnouncement(r.queryRow(ctx,
		`SELECT `+announcementColumns+` FROM announcements n WHERE n.id = ?`, id))
	return a, r.d.mapErr(err)
}

func (r *announcementsRepo) ListAnnouncements(ctx context.Context, visibleAt *time.Time) ([]domain.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements n`
	var args []any
	if visibleAt != nil {
		query += ` WHERE n.published = ? AND n.publish_date <= ?`
		args = append(args, true, visibleAt.UTC())
	}
	query += ` ORDER BY n.publish_date DESC, n.id DESC`

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *announcementsRepo) UpdateAnnouncement(ctx context.Context, a domain.Announcement) error {
	return r.execOne(ctx, `
		UPDATE announcements
		SET title = ?, content = ?, publish_date = ?, published = ?, updated_at = ?
		WHERE id = ?`,
		a.Title, a.Content, a.PublishDate.UTC(), a.Published, time.Now().UTC(), a.ID,
	)
}

func (r *announcementsRepo) SetPublished(ctx context.Context, id string, published bool) error {
	return r.execOne(ctx,
		`UPDATE announcements SET published = ?, updated_at = ? WHERE id = ?`,
		published, time.Now().UTC(), id,
	)
}

func (r *announcementsRepo) DeleteAnnouncement(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM announcements WHERE id = ?`, id)
}
