package domain

import "time"

type Event struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	Location    string
	CreatedBy   string // account id, empty once the creator is deleted
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Photo struct {
	ID         string
	EventID    string
	ImagePath  string // location of the stored image, upload handled elsewhere
	Caption    string
	UploadedBy string
	Featured   bool
	UploadedAt time.Time
}
