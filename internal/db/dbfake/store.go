// Package dbfake is an in-memory db.Store for handler tests.
package dbfake

import (
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/Nixie-Tech-LLC/masjid/internal/db"
	"github.com/Nixie-Tech-LLC/masjid/internal/model"
)

type Store struct {
	mu      sync.Mutex
	nextID  int
	users   map[int]*model.User
	events  map[int]model.Event
	gallery map[int]model.GalleryItem
}

var _ db.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:   map[int]*model.User{},
		events:  map[int]model.Event{},
		gallery: map[int]model.GalleryItem{},
	}
}

func (s *Store) id() int {
	s.nextID++
	return s.nextID
}

func (s *Store) CreateUser(email, hashedPassword string, name *string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	id := s.id()
	s.users[id] = &model.User{ID: id, Email: email, HashedPassword: hashedPassword, Name: name, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (s *Store) GetUserByEmail(email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *Store) GetUserByID(id int) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (s *Store) UpdateUserProfile(id int, email string, name *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Email, u.Name, u.UpdatedAt = email, name, time.Now()
	return nil
}

func (s *Store) CountUsers() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

func (s *Store) CreateEvent(title string, dateStart time.Time, f db.EventFields) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	e := model.Event{
		ID:          s.id(),
		Title:       title,
		Description: f.Description,
		DateStart:   dateStart,
		DateEnd:     f.DateEnd,
		Location:    f.Location,
		ImageURL:    f.ImageURL,
		Category:    f.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.events[e.ID] = e
	return e, nil
}

func (s *Store) GetEventByID(id int) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return model.Event{}, sql.ErrNoRows
	}
	return e, nil
}

func (s *Store) ListEvents() ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateStart.After(out[j].DateStart) })
	return out, nil
}

func (s *Store) ListUpcomingEvents(from time.Time, limit int) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Event{}
	for _, e := range s.events {
		if !e.DateStart.Before(from) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateStart.Before(out[j].DateStart) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) UpdateEvent(id int, f db.EventFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return sql.ErrNoRows
	}
	if f.Title != nil {
		e.Title = *f.Title
	}
	if f.DateStart != nil {
		e.DateStart = *f.DateStart
	}
	if f.Description != nil {
		e.Description = f.Description
	}
	if f.DateEnd != nil {
		e.DateEnd = f.DateEnd
	}
	if f.Location != nil {
		e.Location = f.Location
	}
	if f.ImageURL != nil {
		e.ImageURL = f.ImageURL
	}
	if f.Category != nil {
		e.Category = f.Category
	}
	e.UpdatedAt = time.Now()
	s.events[id] = e
	return nil
}

func (s *Store) DeleteEvent(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.events, id)
	for gid, g := range s.gallery {
		if g.EventID != nil && *g.EventID == id {
			g.EventID = nil
			s.gallery[gid] = g
		}
	}
	return nil
}

func (s *Store) CreateGalleryItems(items []model.GalleryItem) ([]model.GalleryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.GalleryItem, 0, len(items))
	for _, it := range items {
		it.ID = s.id()
		it.CreatedAt = time.Now()
		s.gallery[it.ID] = it
		out = append(out, it)
	}
	return out, nil
}

func (s *Store) GetGalleryItemByID(id int) (model.GalleryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gallery[id]
	if !ok {
		return model.GalleryItem{}, sql.ErrNoRows
	}
	return g, nil
}

func (s *Store) ListGallery() ([]model.GalleryItem, error) {
	return s.listGallery(func(model.GalleryItem) bool { return true })
}

func (s *Store) ListGalleryByEvent(eventID int) ([]model.GalleryItem, error) {
	return s.listGallery(func(g model.GalleryItem) bool { return g.EventID != nil && *g.EventID == eventID })
}

func (s *Store) listGallery(keep func(model.GalleryItem) bool) ([]model.GalleryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.GalleryItem{}
	for _, g := range s.gallery {
		if keep(g) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) DeleteGalleryItem(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.gallery[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.gallery, id)
	return nil
}

func (s *Store) Stats(now time.Time) (model.DashboardStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := model.DashboardStats{Events: len(s.events), GalleryItems: len(s.gallery), Admins: len(s.users)}
	for _, e := range s.events {
		if !e.DateStart.Before(now) {
			stats.UpcomingEvents++
		}
	}
	return stats, nil
}
