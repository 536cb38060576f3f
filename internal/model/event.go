package model

import "time"

type Event struct {
	ID          int        `db:"id"          json:"id"`
	Title       string     `db:"title"       json:"title"`
	Description *string    `db:"description" json:"description"`
	DateStart   time.Time  `db:"date_start"  json:"date_start"`
	DateEnd     *time.Time `db:"date_end"    json:"date_end"`
	Location    *string    `db:"location"    json:"location"`
	ImageURL    *string    `db:"image_url"   json:"image_url"`
	Category    *string    `db:"category"    json:"category"`
	CreatedAt   time.Time  `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"  json:"updated_at"`
}
