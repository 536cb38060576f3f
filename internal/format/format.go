// Package format renders prayer times for people: clock strings, remaining
// time and localized dates.
package format

import (
	"fmt"
	"time"
)

var (
	indonesianDays   = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}
	indonesianMonths = [...]string{"Januari", "Februari", "Maret", "April", "Mei", "Juni", "Juli", "Agustus", "September", "Oktober", "November", "Desember"}
)

// Remaining renders a duration as "2h 15m", "15m" or "<1m".
func Remaining(d time.Duration) string {
	if d < time.Minute {
		return "<1m"
	}
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// Clock renders the 24-hour wall time in loc, e.g. "04:40".
func Clock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04")
}

// Clock12 splits the 12-hour wall time in loc into "4:40" and "AM".
func Clock12(t time.Time, loc *time.Location) (string, string) {
	local := t.In(loc)
	return local.Format("3:04"), local.Format("PM")
}

// LongDate renders a calendar date for the given locale, e.g.
// "Rabu, 20 Maret 2024" or "Wednesday, 20 March 2024".
func LongDate(t time.Time, locale string) string {
	if locale == "id" {
		return fmt.Sprintf("%s, %d %s %d", indonesianDays[t.Weekday()], t.Day(), indonesianMonths[t.Month()-1], t.Year())
	}
	return t.Format("Monday, 2 January 2006")
}
