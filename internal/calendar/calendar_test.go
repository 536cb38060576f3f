package calendar

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/masjid/internal/model"
	"github.com/Nixie-Tech-LLC/masjid/internal/prayer"
)

var jakarta = prayer.Coordinates{Latitude: -6.1702, Longitude: 106.8314}

func parse(t *testing.T, cal *ics.Calendar) *ics.Calendar {
	t.Helper()
	parsed, err := ics.ParseCalendar(strings.NewReader(cal.Serialize()))
	require.NoError(t, err)
	return parsed
}

func TestMonthSchedule(t *testing.T) {
	sets, err := MonthSchedule(jakarta, "Kemenag", 2024, time.February)
	require.NoError(t, err)
	require.Len(t, sets, 29)
	assert.Equal(t, 1, sets[0].Date.Day)
	assert.Equal(t, 29, sets[28].Date.Day)
}

func TestMonthScheduleSkipsPolarDays(t *testing.T) {
	tromso := prayer.Coordinates{Latitude: 69.6492, Longitude: 18.9553}

	_, err := MonthSchedule(tromso, "MuslimWorldLeague", 2024, time.June)
	assert.ErrorIs(t, err, prayer.ErrNoSolarSolution)

	_, err = MonthSchedule(jakarta, "Atlantis", 2024, time.June)
	assert.ErrorIs(t, err, prayer.ErrUnknownMethod)
}

func TestPrayersFeed(t *testing.T) {
	sets, err := MonthSchedule(jakarta, "Singapore", 2024, time.March)
	require.NoError(t, err)

	wib := time.FixedZone("WIB", 7*3600)
	cal := parse(t, Prayers("Masjid Istiqlal", sets[:2], wib, "id", time.Now()))

	events := cal.Events()
	require.Len(t, events, 10)
	assert.Equal(t, "Subuh", events[0].GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "2024-03-01-fajr@masjid", events[0].Id())

	start, err := events[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(sets[0].Fajr))
	end, err := events[0].GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, PrayerLength, end.Sub(start))
}

func TestEventsFeed(t *testing.T) {
	start := time.Date(2024, time.April, 10, 1, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)
	desc := "Sholat Idul Fitri berjamaah"
	place := "Lapangan"

	cal := parse(t, Events("Masjid", []model.Event{
		{ID: 1, Title: "Idul Fitri", DateStart: start, DateEnd: &end, Description: &desc, Location: &place},
		{ID: 2, Title: "Kajian", DateStart: start.Add(24 * time.Hour)},
	}, time.UTC, time.Now()))

	events := cal.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "Idul Fitri", events[0].GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, place, events[0].GetProperty(ics.ComponentPropertyLocation).Value)

	gotEnd, err := events[0].GetEndAt()
	require.NoError(t, err)
	assert.True(t, gotEnd.Equal(end))

	gotStart, err := events[1].GetStartAt()
	require.NoError(t, err)
	gotEnd, err = events[1].GetEndAt()
	require.NoError(t, err)
	assert.Equal(t, EventLength, gotEnd.Sub(gotStart))
	assert.Equal(t, "Masjid", events[1].GetProperty(ics.ComponentPropertyLocation).Value)
}
