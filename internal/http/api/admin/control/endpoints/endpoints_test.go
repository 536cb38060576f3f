package endpoints

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/masjid/internal/db"
	"github.com/Nixie-Tech-LLC/masjid/internal/db/dbfake"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/masjid/internal/model"
	"github.com/Nixie-Tech-LLC/masjid/internal/storage"
)

const secret = "test-secret"

var wib = time.FixedZone("WIB", 7*3600)

type harness struct {
	router    *gin.Engine
	store     *dbfake.Store
	uploadDir string
	token     string
}

func setup(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := dbfake.New()
	dir := t.TempDir()
	files := storage.NewLocalStorage(dir)

	userID, err := store.CreateUser("takmir@example.com", "x", nil)
	require.NoError(t, err)
	token, err := middleware.GenerateJWT(userID, secret)
	require.NoError(t, err)

	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin", Auth: true, SecretKey: secret, Users: store},
		EventModule(store, files, wib),
		GalleryModule(store, files),
		DashboardModule(store),
	)
	return &harness{router: r, store: store, uploadDir: dir, token: token}
}

type upload struct {
	field, name, content string
}

func (h *harness) send(t *testing.T, method, path string, fields map[string]string, uploads ...upload) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, u := range uploads {
		part, err := w.CreateFormFile(u.field, u.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(u.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+h.token)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+h.token)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) delete(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, path, nil)
	req.Header.Set("Authorization", "Bearer "+h.token)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) stored(url string) bool {
	_, err := os.Stat(filepath.Join(h.uploadDir, filepath.FromSlash(strings.TrimPrefix(url, "/uploads/"))))
	return err == nil
}

func itoa(i int) string { return strconv.Itoa(i) }

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestEventLifecycle(t *testing.T) {
	h := setup(t)

	created := decode[packets.EventResponse](t, h.send(t, http.MethodPost, "/api/admin/events", map[string]string{
		"title":      "Kajian Ahad Pagi",
		"date_start": "2024-04-14T06:00",
		"location":   "Aula Utama",
		"category":   " ",
	}, upload{"poster", "poster.png", "png"}))

	assert.Equal(t, "Kajian Ahad Pagi", created.Title)
	assert.Nil(t, created.Category)
	require.NotNil(t, created.ImageURL)
	assert.True(t, strings.HasPrefix(*created.ImageURL, "/uploads/events/"))
	assert.True(t, h.stored(*created.ImageURL))

	start, err := time.Parse(time.RFC3339, created.DateStart)
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2024, time.April, 14, 6, 0, 0, 0, wib)))

	path := "/api/admin/events/" + itoa(created.ID)
	got := decode[packets.EventResponse](t, h.get(path))
	assert.Equal(t, "Aula Utama", *got.Location)

	oldPoster := *created.ImageURL
	updated := decode[packets.EventResponse](t, h.send(t, http.MethodPut, path, map[string]string{
		"title": "Kajian Subuh",
	}, upload{"poster", "new.jpg", "jpg"}))
	assert.Equal(t, "Kajian Subuh", updated.Title)
	assert.Equal(t, "Aula Utama", *updated.Location)
	assert.NotEqual(t, oldPoster, *updated.ImageURL)
	assert.False(t, h.stored(oldPoster))

	list := decode[[]packets.EventResponse](t, h.get("/api/admin/events"))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusNoContent, h.delete(path).Code)
	assert.Equal(t, http.StatusNotFound, h.get(path).Code)
	assert.False(t, h.stored(*updated.ImageURL))
	assert.Equal(t, http.StatusNotFound, h.delete(path).Code)
}

func TestEventValidation(t *testing.T) {
	h := setup(t)

	cases := []struct {
		name    string
		fields  map[string]string
		uploads []upload
	}{
		{"missing title", map[string]string{"date_start": "2024-04-14T06:00"}, nil},
		{"missing start", map[string]string{"title": "Kajian"}, nil},
		{"bad start", map[string]string{"title": "Kajian", "date_start": "next sunday"}, nil},
		{"end before start", map[string]string{"title": "Kajian", "date_start": "2024-04-14T06:00", "date_end": "2024-04-14T05:00"}, nil},
		{"poster not an image", map[string]string{"title": "Kajian", "date_start": "2024-04-14T06:00"}, []upload{{"poster", "notes.txt", "x"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.send(t, http.MethodPost, "/api/admin/events", tc.fields, tc.uploads...)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	assert.Equal(t, http.StatusBadRequest, h.get("/api/admin/events/abc").Code)
	assert.Equal(t, http.StatusNotFound, h.get("/api/admin/events/999").Code)
}

func TestGalleryUpload(t *testing.T) {
	h := setup(t)
	event, err := h.store.CreateEvent("Idul Adha", time.Now().Add(time.Hour), db.EventFields{})
	require.NoError(t, err)

	items := decode[[]packets.GalleryItemResponse](t, h.send(t, http.MethodPost, "/api/admin/gallery",
		map[string]string{"event_id": itoa(event.ID)},
		upload{"images", "qurban 1.jpg", "a"},
		upload{"images", "qurban 2.jpg", "b"},
	))
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, "Album: Idul Adha", *it.Caption)
		assert.Equal(t, event.ID, *it.EventID)
		assert.True(t, h.stored(it.ImageURL))
	}

	single := decode[[]packets.GalleryItemResponse](t, h.send(t, http.MethodPost, "/api/admin/gallery",
		map[string]string{"caption": "Renovasi mihrab"},
		upload{"images", "mihrab.webp", "c"},
	))
	require.Len(t, single, 1)
	assert.Nil(t, single[0].EventID)

	all := decode[[]packets.GalleryItemResponse](t, h.get("/api/admin/gallery"))
	assert.Len(t, all, 3)

	assert.Equal(t, http.StatusNoContent, h.delete("/api/admin/gallery/"+itoa(items[0].ID)).Code)
	assert.False(t, h.stored(items[0].ImageURL))
	assert.Equal(t, http.StatusNotFound, h.delete("/api/admin/gallery/"+itoa(items[0].ID)).Code)
}

func TestGalleryUploadValidation(t *testing.T) {
	h := setup(t)

	rec := h.send(t, http.MethodPost, "/api/admin/gallery", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.send(t, http.MethodPost, "/api/admin/gallery", nil, upload{"images", "virus.exe", "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.send(t, http.MethodPost, "/api/admin/gallery", map[string]string{"event_id": "404"}, upload{"images", "a.png", "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	entries, err := os.ReadDir(h.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDashboard(t *testing.T) {
	h := setup(t)
	_, err := h.store.CreateEvent("Past", time.Now().Add(-time.Hour), db.EventFields{})
	require.NoError(t, err)
	_, err = h.store.CreateEvent("Soon", time.Now().Add(time.Hour), db.EventFields{})
	require.NoError(t, err)

	stats := decode[model.DashboardStats](t, h.get("/api/admin/dashboard"))
	assert.Equal(t, 2, stats.Events)
	assert.Equal(t, 1, stats.UpcomingEvents)
	assert.Equal(t, 1, stats.Admins)
	assert.Zero(t, stats.GalleryItems)
}
