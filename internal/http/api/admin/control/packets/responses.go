package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/masjid/internal/model"
)

// EventResponse mirrors model.Event but flattens times to RFC3339.
type EventResponse struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DateStart   string  `json:"date_start"`
	DateEnd     *string `json:"date_end"`
	Location    *string `json:"location"`
	ImageURL    *string `json:"image_url"`
	Category    *string `json:"category"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type GalleryItemResponse struct {
	ID        int     `json:"id"`
	Caption   *string `json:"caption"`
	ImageURL  string  `json:"image_url"`
	EventID   *int    `json:"event_id"`
	CreatedAt string  `json:"created_at"`
}

// EventWithAlbumResponse is an event together with its photos.
type EventWithAlbumResponse struct {
	EventResponse
	Album []GalleryItemResponse `json:"album"`
}

func NewEventResponse(e model.Event) EventResponse {
	resp := EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		DateStart:   e.DateStart.Format(time.RFC3339),
		Location:    e.Location,
		ImageURL:    e.ImageURL,
		Category:    e.Category,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
	if e.DateEnd != nil {
		end := e.DateEnd.Format(time.RFC3339)
		resp.DateEnd = &end
	}
	return resp
}

func NewEventResponses(events []model.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventResponse(e))
	}
	return out
}

func NewGalleryItemResponse(g model.GalleryItem) GalleryItemResponse {
	return GalleryItemResponse{
		ID:        g.ID,
		Caption:   g.Caption,
		ImageURL:  g.ImageURL,
		EventID:   g.EventID,
		CreatedAt: g.CreatedAt.Format(time.RFC3339),
	}
}

func NewGalleryItemResponses(items []model.GalleryItem) []GalleryItemResponse {
	out := make([]GalleryItemResponse, 0, len(items))
	for _, g := range items {
		out = append(out, NewGalleryItemResponse(g))
	}
	return out
}
