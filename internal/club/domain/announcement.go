package domain

import "time"

type Announcement struct {
	ID          string
	Title       string
	Content     string
	PublishDate time.Time
	AuthorID    string // empty once the author is deleted
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Visible reports whether non-admins may see the announcement at now.
func (a Announcement) Visible(now time.Time) bool {
	return a.Published && !a.PublishDate.After(now)
}
