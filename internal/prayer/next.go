package prayer

import (
	"fmt"
	"time"
)

// TomorrowProvider supplies the next day's schedule. It is only called once
// today's Isha has passed.
type TomorrowProvider func() (PrayerTimeSet, error)

type NextPrayer struct {
	Prayer    Prayer        `json:"prayer"`
	Time      time.Time     `json:"time"`
	Remaining time.Duration `json:"-"`
}

func (n NextPrayer) SecondsRemaining() int64 {
	return int64(n.Remaining / time.Second)
}

// ResolveNextPrayer returns the first prayer of today strictly after now, or
// tomorrow's Fajr once today's Isha has passed.
func ResolveNextPrayer(now time.Time, today PrayerTimeSet, tomorrow TomorrowProvider) (NextPrayer, error) {
	for _, p := range Prayers {
		if t := today.Time(p); t.After(now) {
			return NextPrayer{Prayer: p, Time: t, Remaining: t.Sub(now)}, nil
		}
	}

	if tomorrow == nil {
		return NextPrayer{}, ErrNoTomorrow
	}
	next, err := tomorrow()
	if err != nil {
		return NextPrayer{}, fmt.Errorf("tomorrow's prayer times: %w", err)
	}

	remaining := next.Fajr.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return NextPrayer{Prayer: Fajr, Time: next.Fajr, Remaining: remaining}, nil
}

// CurrentPrayer returns the prayer whose time has begun and not yet been
// superseded. Between sunrise and Dhuhr, and before Fajr, there is none.
func CurrentPrayer(now time.Time, set PrayerTimeSet) (Prayer, bool) {
	switch {
	case !now.Before(set.Isha):
		return Isha, true
	case !now.Before(set.Maghrib):
		return Maghrib, true
	case !now.Before(set.Asr):
		return Asr, true
	case !now.Before(set.Dhuhr):
		return Dhuhr, true
	case !now.Before(set.Sunrise):
		return 0, false
	case !now.Before(set.Fajr):
		return Fajr, true
	}
	return 0, false
}
