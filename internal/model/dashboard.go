package model

type DashboardStats struct {
	Events         int `db:"events"          json:"events"`
	UpcomingEvents int `db:"upcoming_events" json:"upcoming_events"`
	GalleryItems   int `db:"gallery_items"   json:"gallery_items"`
	Admins         int `db:"admins"          json:"admins"`
}
