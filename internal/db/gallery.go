package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjid/internal/model"
)

// CreateGalleryItems inserts all items in one transaction and returns them
// with their ids and timestamps.
func (s *pgStore) CreateGalleryItems(items []model.GalleryItem) ([]model.GalleryItem, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		log.Error().Err(err).Msg("failed to begin gallery insert")
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
	INSERT INTO gallery (caption, image_url, event_id, created_at)
	VALUES ($1, $2, $3, now())
	RETURNING id, caption, image_url, event_id, created_at;`

	out := make([]model.GalleryItem, 0, len(items))
	for _, item := range items {
		var created model.GalleryItem
		if err = tx.Get(&created, query, item.Caption, item.ImageURL, item.EventID); err != nil {
			log.Error().Err(err).Str("url", item.ImageURL).Msg("failed to insert gallery item")
			return nil, fmt.Errorf("insert gallery item: %w", err)
		}
		out = append(out, created)
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Msg("failed to commit gallery insert")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) GetGalleryItemByID(id int) (model.GalleryItem, error) {
	var g model.GalleryItem
	err := s.db.Get(&g, `
	SELECT id, caption, image_url, event_id, created_at
	FROM gallery
	WHERE id = $1;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.GalleryItem{}, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("failed to get gallery item")
	}
	return g, err
}

func (s *pgStore) ListGallery() ([]model.GalleryItem, error) {
	all := []model.GalleryItem{}
	if err := s.db.Select(&all, `
	SELECT id, caption, image_url, event_id, created_at
	FROM gallery
	ORDER BY created_at DESC, id DESC;`); err != nil {
		log.Error().Err(err).Msg("failed to list gallery")
		return nil, err
	}
	return all, nil
}

func (s *pgStore) ListGalleryByEvent(eventID int) ([]model.GalleryItem, error) {
	all := []model.GalleryItem{}
	if err := s.db.Select(&all, `
	SELECT id, caption, image_url, event_id, created_at
	FROM gallery
	WHERE event_id = $1
	ORDER BY created_at ASC, id ASC;`, eventID); err != nil {
		log.Error().Err(err).Int("event_id", eventID).Msg("failed to list event album")
		return nil, err
	}
	return all, nil
}

func (s *pgStore) DeleteGalleryItem(id int) error {
	res, err := s.db.Exec(`DELETE FROM gallery WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("failed to delete gallery item")
		return err
	}
	return expectRow(res, "gallery item")
}
