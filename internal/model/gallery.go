package model

import "time"

// GalleryItem is one photo. EventID is set for photos in an event's album.
type GalleryItem struct {
	ID        int       `db:"id"         json:"id"`
	Caption   *string   `db:"caption"    json:"caption"`
	ImageURL  string    `db:"image_url"  json:"image_url"`
	EventID   *int      `db:"event_id"   json:"event_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
