package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjid/internal/model"
)

const eventColumns = `
	id, title, description, date_start, date_end, location, image_url, category, created_at, updated_at`

func (s *pgStore) CreateEvent(title string, dateStart time.Time, f EventFields) (model.Event, error) {
	var e model.Event
	query := `
	INSERT INTO events
	(title, description, date_start, date_end, location, image_url, category, created_at, updated_at)
	VALUES
	($1,    $2,          $3,         $4,       $5,       $6,        $7,       now(),      now())
	RETURNING` + eventColumns + `;`

	if err := s.db.Get(&e, query,
		title,
		f.Description,
		dateStart,
		f.DateEnd,
		f.Location,
		f.ImageURL,
		f.Category,
	); err != nil {
		log.Error().Err(err).Str("title", title).Msg("failed to create event")
		return model.Event{}, err
	}
	return e, nil
}

func (s *pgStore) GetEventByID(id int) (model.Event, error) {
	var e model.Event
	query := `SELECT` + eventColumns + ` FROM events WHERE id = $1;`

	err := s.db.Get(&e, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("failed to get event by id")
	}
	return e, err
}

// ListEvents returns every event, newest first, as the admin list shows them.
func (s *pgStore) ListEvents() ([]model.Event, error) {
	all := []model.Event{}
	query := `SELECT` + eventColumns + ` FROM events ORDER BY date_start DESC, id DESC;`

	if err := s.db.Select(&all, query); err != nil {
		log.Error().Err(err).Msg("failed to list events")
		return nil, err
	}
	return all, nil
}

// ListUpcomingEvents returns events starting at or after from, soonest first.
func (s *pgStore) ListUpcomingEvents(from time.Time, limit int) ([]model.Event, error) {
	all := []model.Event{}
	query := `
	SELECT` + eventColumns + `
	FROM events
	WHERE date_start >= $1
	ORDER BY date_start ASC, id ASC
	LIMIT $2;`

	if err := s.db.Select(&all, query, from, limit); err != nil {
		log.Error().Err(err).Msg("failed to list upcoming events")
		return nil, err
	}
	return all, nil
}

func (s *pgStore) UpdateEvent(id int, f EventFields) error {
	res, err := s.db.Exec(`
		UPDATE events
		SET
		title       = COALESCE($2, title),
		description = COALESCE($3, description),
		date_start  = COALESCE($4, date_start),
		date_end    = COALESCE($5, date_end),
		location    = COALESCE($6, location),
		image_url   = COALESCE($7, image_url),
		category    = COALESCE($8, category),
		updated_at  = now()
		WHERE id = $1;`,
		id, f.Title, f.Description, f.DateStart, f.DateEnd, f.Location, f.ImageURL, f.Category,
	)
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("failed to update event")
		return err
	}
	return expectRow(res, "event")
}

func (s *pgStore) DeleteEvent(id int) error {
	res, err := s.db.Exec(`DELETE FROM events WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("failed to delete event")
		return err
	}
	return expectRow(res, "event")
}

func (s *pgStore) Stats(now time.Time) (model.DashboardStats, error) {
	var stats model.DashboardStats
	query := `
	SELECT
	(SELECT count(*) FROM events)                      AS events,
	(SELECT count(*) FROM events WHERE date_start >= $1) AS upcoming_events,
	(SELECT count(*) FROM gallery)                     AS gallery_items,
	(SELECT count(*) FROM users)                       AS admins;`

	if err := s.db.Get(&stats, query, now); err != nil {
		log.Error().Err(err).Msg("failed to compute dashboard stats")
		return model.DashboardStats{}, err
	}
	return stats, nil
}
