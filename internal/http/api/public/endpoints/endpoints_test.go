package endpoints

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/masjid/internal/athan"
	"github.com/Nixie-Tech-LLC/masjid/internal/db"
	"github.com/Nixie-Tech-LLC/masjid/internal/db/dbfake"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api"
	controlpackets "github.com/Nixie-Tech-LLC/masjid/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api/public/packets"
	"github.com/Nixie-Tech-LLC/masjid/internal/model"
	"github.com/Nixie-Tech-LLC/masjid/internal/prayer"
)

var (
	wib     = time.FixedZone("WIB", 7*3600)
	jakarta = prayer.Coordinates{Latitude: -6.1702, Longitude: 106.8314}
	site    = Site{
		Name:        "Masjid Al-Ikhlas",
		City:        "Jakarta Pusat",
		Coordinates: jakarta,
		Method:      "Singapore",
		Location:    wib,
		Locale:      "id",
	}
)

// fixedSchedule answers as the broadcaster would at a fixed instant.
type fixedSchedule struct {
	snap athan.Snapshot
	err  error
}

func (f fixedSchedule) Snapshot() (athan.Snapshot, error) { return f.snap, f.err }

func scheduleAt(t *testing.T, now time.Time) fixedSchedule {
	t.Helper()
	set, err := prayer.ComputePrayerTimes(jakarta, prayer.DateOf(now.In(wib)), site.Method)
	require.NoError(t, err)
	next, err := prayer.ResolveNextPrayer(now, set, func() (prayer.PrayerTimeSet, error) {
		return prayer.ComputePrayerTimes(jakarta, set.Date.AddDays(1), site.Method)
	})
	require.NoError(t, err)
	return fixedSchedule{snap: athan.Snapshot{Date: set.Date, Times: set, Next: next, Now: now}}
}

func router(schedule Schedule, s Site, store db.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New(athanTemplate).Parse(
		`{{.Masjid}} {{.Date}}{{range .Prayers}}|{{.Name}} {{.Time}} {{.Period}}{{if .Next}}*{{end}}{{end}}|next {{.NextName}} {{.Remaining}}`)))
	api.MountGroup(r, api.GroupConfig{Prefix: "/api"}, PrayerModule(schedule, s), EventsModule(store, s))
	RegisterAthanPage(r, schedule, s)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestPrayerToday(t *testing.T) {
	r := router(scheduleAt(t, time.Date(2024, time.March, 20, 10, 0, 0, 0, wib)), site, dbfake.New())

	today := decode[packets.TodayResponse](t, get(r, "/api/prayer/today"))
	assert.Equal(t, "2024-03-20", today.Date)
	assert.Equal(t, "Singapore", today.Method)
	require.Len(t, today.Prayers, 5)

	labels := []string{}
	for _, p := range today.Prayers {
		labels = append(labels, p.Label)
		assert.False(t, p.Current, p.Key)
		assert.Equal(t, p.Time.In(wib).Format("15:04"), p.Clock)
	}
	assert.Equal(t, []string{"Subuh", "Dzuhur", "Ashar", "Maghrib", "Isya"}, labels)
	assert.True(t, today.Prayers[1].Next)
	assert.True(t, strings.HasPrefix(today.Prayers[0].Clock, "04:"))
	assert.Equal(t, "Terbit", today.Sunrise.Label)

	assert.Equal(t, "dhuhr", today.Next.Prayer)
	assert.Equal(t, "Dzuhur", today.Next.Label)
	assert.InDelta(t, 2*3600, today.Next.SecondsRemaining, 5*60)
	assert.True(t, strings.HasPrefix(today.Next.Remaining, "2h "), today.Next.Remaining)
}

func TestPrayerTodayMarksCurrent(t *testing.T) {
	r := router(scheduleAt(t, time.Date(2024, time.March, 20, 16, 0, 0, 0, wib)), site, dbfake.New())

	today := decode[packets.TodayResponse](t, get(r, "/api/prayer/today"))
	assert.True(t, today.Prayers[2].Current)
	assert.True(t, today.Prayers[3].Next)
}

func TestPrayerNextAfterIsha(t *testing.T) {
	r := router(scheduleAt(t, time.Date(2024, time.March, 20, 23, 0, 0, 0, wib)), site, dbfake.New())

	next := decode[packets.NextResponse](t, get(r, "/api/prayer/next"))
	assert.Equal(t, "fajr", next.Prayer)
	assert.Equal(t, 21, next.Time.In(wib).Day())
	assert.Greater(t, next.SecondsRemaining, int64(0))
}

func TestPrayerScheduleErrors(t *testing.T) {
	r := router(fixedSchedule{err: fmt.Errorf("rebuild: %w", prayer.ErrNoSolarSolution)}, site, dbfake.New())
	assert.Equal(t, http.StatusUnprocessableEntity, get(r, "/api/prayer/today").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, get(r, "/api/prayer/next").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(r, "/athan").Code)
}

func TestPrayerByDate(t *testing.T) {
	r := router(scheduleAt(t, time.Now()), site, dbfake.New())

	day := decode[packets.DayResponse](t, get(r, "/api/prayer/date/2024-03-20?method=Kemenag"))
	assert.Equal(t, "Kemenag", day.Method)
	assert.Equal(t, "2024-03-20", day.Date)

	day = decode[packets.DayResponse](t, get(r, "/api/prayer/date/2024-03-20"))
	assert.Equal(t, "Singapore", day.Method)

	assert.Equal(t, http.StatusBadRequest, get(r, "/api/prayer/date/20-03-2024").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/prayer/date/2024-03-20?method=Atlantis").Code)

	polar := site
	polar.Coordinates = prayer.Coordinates{Latitude: 69.6492, Longitude: 18.9553}
	polar.Method = "MuslimWorldLeague"
	r = router(scheduleAt(t, time.Now()), polar, dbfake.New())
	assert.Equal(t, http.StatusUnprocessableEntity, get(r, "/api/prayer/date/2024-06-21").Code)
}

func TestPrayerMonthAndCalendar(t *testing.T) {
	r := router(scheduleAt(t, time.Now()), site, dbfake.New())

	month := decode[[]packets.DayResponse](t, get(r, "/api/prayer/month?month=2024-02"))
	require.Len(t, month, 29)
	assert.Equal(t, "2024-02-29", month[28].Date)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/prayer/month?month=february").Code)

	w := get(r, "/api/prayer/calendar.ics?month=2024-03&method=Kemenag")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
	assert.Equal(t, 31*5, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "SUMMARY:Subuh")
}

func TestPrayerMethods(t *testing.T) {
	r := router(scheduleAt(t, time.Now()), site, dbfake.New())

	resp := decode[packets.MethodsResponse](t, get(r, "/api/prayer/methods"))
	assert.Equal(t, "Singapore", resp.Default)

	names := map[string]prayer.Method{}
	for _, m := range resp.Methods {
		names[m.Name] = m
	}
	for _, want := range []string{"MuslimWorldLeague", "UmmAlQura", "Kemenag", "Singapore", "Turkey"} {
		assert.Contains(t, names, want)
	}
	assert.Equal(t, 90, names["UmmAlQura"].IshaInterval)
}

func TestPublicEvents(t *testing.T) {
	store := dbfake.New()
	now := time.Now()
	_, err := store.CreateEvent("Kemarin", now.Add(-24*time.Hour), db.EventFields{})
	require.NoError(t, err)
	var ids []int
	for i := 1; i <= 5; i++ {
		e, err := store.CreateEvent(fmt.Sprintf("Kajian %d", i), now.Add(time.Duration(i)*time.Hour), db.EventFields{})
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	_, err = store.CreateGalleryItems([]model.GalleryItem{
		{ImageURL: "/uploads/gallery/a.jpg", EventID: &ids[0]},
		{ImageURL: "/uploads/gallery/b.jpg"},
	})
	require.NoError(t, err)

	r := router(scheduleAt(t, now), site, store)

	upcoming := decode[[]controlpackets.EventResponse](t, get(r, "/api/events/upcoming"))
	require.Len(t, upcoming, 3)
	assert.Equal(t, "Kajian 1", upcoming[0].Title)
	assert.Len(t, decode[[]controlpackets.EventResponse](t, get(r, "/api/events/upcoming?limit=10")), 5)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/events/upcoming?limit=0").Code)

	withAlbum := decode[controlpackets.EventWithAlbumResponse](t, get(r, fmt.Sprintf("/api/events/%d", ids[0])))
	assert.Equal(t, "Kajian 1", withAlbum.Title)
	require.Len(t, withAlbum.Album, 1)
	assert.Equal(t, "/uploads/gallery/a.jpg", withAlbum.Album[0].ImageURL)

	album := decode[[]controlpackets.GalleryItemResponse](t, get(r, fmt.Sprintf("/api/events/%d/gallery", ids[1])))
	assert.Empty(t, album)

	assert.Equal(t, http.StatusNotFound, get(r, "/api/events/999").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/events/999/gallery").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/api/events/abc").Code)

	assert.Len(t, decode[[]controlpackets.GalleryItemResponse](t, get(r, "/api/gallery")), 2)

	w := get(r, "/api/events/calendar.ics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, strings.Count(w.Body.String(), "BEGIN:VEVENT"))
	assert.Contains(t, w.Body.String(), "SUMMARY:Kajian 1")
}

func TestAthanPage(t *testing.T) {
	r := router(scheduleAt(t, time.Date(2024, time.March, 20, 16, 0, 0, 0, wib)), site, dbfake.New())

	w := get(r, "/athan")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "Masjid Al-Ikhlas Rabu, 20 Maret 2024"), body)
	assert.Contains(t, body, "|Subuh 4:")
	assert.Contains(t, body, " PM*|Isya")
	assert.Contains(t, body, "|next Maghrib 2h ")
}
