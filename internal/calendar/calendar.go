// Package calendar exports prayer times and events as iCalendar feeds.
package calendar

import (
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/Nixie-Tech-LLC/masjid/internal/model"
	"github.com/Nixie-Tech-LLC/masjid/internal/prayer"
)

const (
	productID = "-//masjid//prayer-times//EN"

	// PrayerLength is the block each prayer occupies in a calendar client.
	PrayerLength = 15 * time.Minute
	// EventLength is used for events without an end time.
	EventLength = 2 * time.Hour
)

// MonthSchedule computes every day of the month. Days without a solution
// (polar day or night) are left out; if none can be solved the error is
// prayer.ErrNoSolarSolution.
func MonthSchedule(coords prayer.Coordinates, method string, year int, month time.Month) ([]prayer.PrayerTimeSet, error) {
	first := prayer.Date{Year: year, Month: month, Day: 1}
	out := make([]prayer.PrayerTimeSet, 0, 31)
	var lastErr error

	for d := first; d.Month == month; d = d.AddDays(1) {
		set, err := prayer.ComputePrayerTimes(coords, d, method)
		if errors.Is(err, prayer.ErrNoSolarSolution) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, set)
	}

	if len(out) == 0 {
		return nil, lastErr
	}
	return out, nil
}

// Prayers builds a feed with one event per prayer per day.
func Prayers(name string, sets []prayer.PrayerTimeSet, loc *time.Location, locale string, stamp time.Time) *ics.Calendar {
	cal := newCalendar(name, loc)
	for _, set := range sets {
		for _, p := range prayer.Prayers {
			at := set.Time(p)
			ev := cal.AddEvent(fmt.Sprintf("%s-%s@masjid", set.Date, p))
			ev.SetDtStampTime(stamp)
			ev.SetStartAt(at)
			ev.SetEndAt(at.Add(PrayerLength))
			ev.SetSummary(p.Label(locale))
			ev.SetLocation(name)
			ev.SetDescription(fmt.Sprintf("%s %s (%s)", p.Label(locale), at.In(loc).Format("15:04"), set.Method))
		}
	}
	return cal
}

// Events builds a feed of mosque events.
func Events(name string, events []model.Event, loc *time.Location, stamp time.Time) *ics.Calendar {
	cal := newCalendar(name, loc)
	for _, e := range events {
		ev := cal.AddEvent(fmt.Sprintf("event-%d@masjid", e.ID))
		ev.SetDtStampTime(stamp)
		ev.SetCreatedTime(e.CreatedAt)
		ev.SetModifiedAt(e.UpdatedAt)
		ev.SetStartAt(e.DateStart)
		if e.DateEnd != nil && e.DateEnd.After(e.DateStart) {
			ev.SetEndAt(*e.DateEnd)
		} else {
			ev.SetEndAt(e.DateStart.Add(EventLength))
		}
		ev.SetSummary(e.Title)
		if e.Description != nil {
			ev.SetDescription(*e.Description)
		}
		if e.Location != nil {
			ev.SetLocation(*e.Location)
		} else {
			ev.SetLocation(name)
		}
		if e.ImageURL != nil {
			ev.SetURL(*e.ImageURL)
		}
	}
	return cal
}

func newCalendar(name string, loc *time.Location) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(name)
	if loc != nil {
		cal.SetXWRTimezone(loc.String())
	}
	return cal
}
