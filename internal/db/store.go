// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/masjid/internal/model"
)

// EventFields carries the optional columns of an event. On update a nil
// field leaves the column unchanged.
type EventFields struct {
	Title       *string
	Description *string
	DateStart   *time.Time
	DateEnd     *time.Time
	Location    *string
	ImageURL    *string
	Category    *string
}

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error
	CountUsers() (int, error)

	// event functions
	CreateEvent(title string, dateStart time.Time, fields EventFields) (model.Event, error)
	GetEventByID(id int) (model.Event, error)
	ListEvents() ([]model.Event, error)
	ListUpcomingEvents(from time.Time, limit int) ([]model.Event, error)
	UpdateEvent(id int, fields EventFields) error
	DeleteEvent(id int) error

	// gallery functions
	CreateGalleryItems(items []model.GalleryItem) ([]model.GalleryItem, error)
	GetGalleryItemByID(id int) (model.GalleryItem, error)
	ListGallery() ([]model.GalleryItem, error)
	ListGalleryByEvent(eventID int) ([]model.GalleryItem, error)
	DeleteGalleryItem(id int) error

	Stats(now time.Time) (model.DashboardStats, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
// required so linter doesn't complain
var _ Store = (*pgStore)(nil)

func NewStore(db *sqlx.DB) Store {
	return &pgStore{db: db}
}
