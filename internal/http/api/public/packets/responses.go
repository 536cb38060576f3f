package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/masjid/internal/prayer"
)

// PrayerTime is one row of a day's schedule.
type PrayerTime struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Time    time.Time `json:"time"`
	Clock   string    `json:"clock"`
	Next    bool      `json:"next,omitempty"`
	Current bool      `json:"current,omitempty"`
}

type DayResponse struct {
	Date     string       `json:"date"`
	Method   string       `json:"method"`
	Timezone string       `json:"timezone"`
	Prayers  []PrayerTime `json:"prayers"`
	Sunrise  PrayerTime   `json:"sunrise"`
	Sunset   PrayerTime   `json:"sunset"`
}

type NextResponse struct {
	Prayer           string    `json:"prayer"`
	Label            string    `json:"label"`
	Time             time.Time `json:"time"`
	Clock            string    `json:"clock"`
	SecondsRemaining int64     `json:"seconds_remaining"`
	Remaining        string    `json:"remaining"`
}

type TodayResponse struct {
	DayResponse
	Next NextResponse `json:"next"`
}

type MethodsResponse struct {
	Default string          `json:"default"`
	Methods []prayer.Method `json:"methods"`
}
