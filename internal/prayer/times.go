package prayer

import (
	"fmt"
	"strings"
	"time"
)

// Prayer is one of the five daily prayers.
type Prayer uint8

const (
	Fajr Prayer = iota
	Dhuhr
	Asr
	Maghrib
	Isha
)

// Prayers lists the five prayers in their daily order.
var Prayers = [...]Prayer{Fajr, Dhuhr, Asr, Maghrib, Isha}

var prayerKeys = [...]string{"fajr", "dhuhr", "asr", "maghrib", "isha"}

var prayerLabels = map[string][5]string{
	"en": {"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"},
	"id": {"Subuh", "Dzuhur", "Ashar", "Maghrib", "Isya"},
}

func (p Prayer) String() string {
	if int(p) < len(prayerKeys) {
		return prayerKeys[p]
	}
	return fmt.Sprintf("prayer(%d)", uint8(p))
}

// Label returns the display name for a locale, falling back to English.
func (p Prayer) Label(locale string) string {
	labels, ok := prayerLabels[locale]
	if !ok {
		labels = prayerLabels["en"]
	}
	if int(p) < len(labels) {
		return labels[p]
	}
	return p.String()
}

func ParsePrayer(s string) (Prayer, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, k := range prayerKeys {
		if k == key {
			return Prayer(i), nil
		}
	}
	return 0, fmt.Errorf("unknown prayer %q", s)
}

func (p Prayer) MarshalText() ([]byte, error) {
	if int(p) >= len(prayerKeys) {
		return nil, fmt.Errorf("unknown prayer %d", uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Prayer) UnmarshalText(b []byte) error {
	parsed, err := ParsePrayer(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// PrayerTimeSet is one day's schedule. All instants are in UTC.
type PrayerTimeSet struct {
	Date   Date   `json:"date"`
	Method string `json:"method"`

	Fajr    time.Time `json:"fajr"`
	Sunrise time.Time `json:"sunrise"`
	Dhuhr   time.Time `json:"dhuhr"`
	Asr     time.Time `json:"asr"`
	Sunset  time.Time `json:"sunset"`
	Maghrib time.Time `json:"maghrib"`
	Isha    time.Time `json:"isha"`
}

// Time returns the instant of prayer p.
func (s PrayerTimeSet) Time(p Prayer) time.Time {
	switch p {
	case Fajr:
		return s.Fajr
	case Dhuhr:
		return s.Dhuhr
	case Asr:
		return s.Asr
	case Maghrib:
		return s.Maghrib
	case Isha:
		return s.Isha
	}
	return time.Time{}
}

// In returns a copy with every instant expressed in loc.
func (s PrayerTimeSet) In(loc *time.Location) PrayerTimeSet {
	s.Fajr = s.Fajr.In(loc)
	s.Sunrise = s.Sunrise.In(loc)
	s.Dhuhr = s.Dhuhr.In(loc)
	s.Asr = s.Asr.In(loc)
	s.Sunset = s.Sunset.In(loc)
	s.Maghrib = s.Maghrib.In(loc)
	s.Isha = s.Isha.In(loc)
	return s
}

// Validate checks fajr < sunrise < dhuhr < asr < sunset <= maghrib < isha.
func (s PrayerTimeSet) Validate() error {
	seq := []struct {
		name string
		t    time.Time
	}{
		{"fajr", s.Fajr},
		{"sunrise", s.Sunrise},
		{"dhuhr", s.Dhuhr},
		{"asr", s.Asr},
		{"sunset", s.Sunset},
		{"maghrib", s.Maghrib},
		{"isha", s.Isha},
	}
	for i := 1; i < len(seq); i++ {
		prev, cur := seq[i-1], seq[i]
		if cur.name == "maghrib" {
			if cur.t.Before(prev.t) {
				return fmt.Errorf("%s %s precedes %s %s", cur.name, cur.t.Format(time.RFC3339), prev.name, prev.t.Format(time.RFC3339))
			}
			continue
		}
		if !cur.t.After(prev.t) {
			return fmt.Errorf("%s %s is not after %s %s", cur.name, cur.t.Format(time.RFC3339), prev.name, prev.t.Format(time.RFC3339))
		}
	}
	return nil
}
