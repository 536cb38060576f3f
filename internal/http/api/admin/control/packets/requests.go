package packets

// Event forms are multipart so a poster can be uploaded alongside the fields.
// Times are RFC 3339 or "2006-01-02T15:04" in the mosque's time zone.
type EventForm struct {
	Title       *string `form:"title"`
	Description *string `form:"description"`
	DateStart   *string `form:"date_start"`
	DateEnd     *string `form:"date_end"`
	Location    *string `form:"location"`
	Category    *string `form:"category"`
}

// Gallery uploads carry one or more files in the "images" field.
type GalleryForm struct {
	Caption *string `form:"caption"`
	EventID *int    `form:"event_id"`
}
