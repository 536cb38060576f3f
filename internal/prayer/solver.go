package prayer

import (
	"fmt"
	"math"
	"time"
)

// ComputePrayerTimes solves one day's schedule for a registered method name.
func ComputePrayerTimes(coords Coordinates, date Date, methodName string) (PrayerTimeSet, error) {
	if err := coords.Validate(); err != nil {
		return PrayerTimeSet{}, err
	}
	method, err := LookupMethod(methodName)
	if err != nil {
		return PrayerTimeSet{}, err
	}
	return Solve(coords, date, method)
}

// Solve computes the schedule for date at coords under method. It has no side
// effects and may be called concurrently.
func Solve(coords Coordinates, date Date, method Method) (PrayerTimeSet, error) {
	if err := coords.Validate(); err != nil {
		return PrayerTimeSet{}, err
	}
	if err := method.Validate(); err != nil {
		return PrayerTimeSet{}, err
	}

	day, err := ComputeSolarDay(date, coords.Longitude)
	if err != nil {
		return PrayerTimeSet{}, err
	}
	next, err := ComputeSolarDay(date.AddDays(1), coords.Longitude)
	if err != nil {
		return PrayerTimeSet{}, err
	}

	lat := coords.Latitude
	transit := day.Transit

	riseH, ok := day.hourAngle(lat, sunAltitude)
	if !ok {
		return PrayerTimeSet{}, fmt.Errorf("%w: sun does not rise or set on %s at latitude %v", ErrNoSolarSolution, date, lat)
	}
	sunrise := transit.Add(-minutes(riseH))
	sunset := transit.Add(minutes(riseH))

	nextRiseH, ok := next.hourAngle(lat, sunAltitude)
	if !ok {
		return PrayerTimeSet{}, fmt.Errorf("%w: sun does not rise on %s at latitude %v", ErrNoSolarSolution, next.Date, lat)
	}
	night := next.Transit.Add(-minutes(nextRiseH)).Sub(sunset)

	asrH, ok := day.hourAngle(lat, asrAltitude(method.AsrShadowFactor, lat, day.Declination))
	if !ok {
		return PrayerTimeSet{}, fmt.Errorf("%w: no asr on %s at latitude %v", ErrNoSolarSolution, date, lat)
	}
	asr := transit.Add(minutes(asrH))

	fajr := sunrise.Add(-portionOf(night, method.HighLatitudeRule.nightPortion(method.FajrAngle)))
	if h, ok := day.hourAngle(lat, -method.FajrAngle); ok {
		if t := transit.Add(-minutes(h)); t.After(fajr) {
			fajr = t
		}
	}

	var isha time.Time
	if method.usesIshaInterval() {
		isha = sunset.Add(time.Duration(method.IshaInterval) * time.Minute)
	} else {
		isha = sunset.Add(portionOf(night, method.HighLatitudeRule.nightPortion(method.IshaAngle)))
		if h, ok := day.hourAngle(lat, -method.IshaAngle); ok {
			if t := transit.Add(minutes(h)); t.Before(isha) {
				isha = t
			}
		}
	}

	adj := method.Adjustments
	finish := func(t time.Time, offset int) time.Time {
		return method.Rounding.apply(t.Add(time.Duration(offset) * time.Minute)).UTC()
	}

	set := PrayerTimeSet{
		Date:    date,
		Method:  method.Name,
		Fajr:    finish(fajr, adj.Fajr),
		Sunrise: finish(sunrise, adj.Sunrise),
		Dhuhr:   finish(transit, adj.Dhuhr),
		Asr:     finish(asr, adj.Asr),
		Sunset:  finish(sunset, 0),
		Maghrib: finish(sunset, adj.Maghrib),
		Isha:    finish(isha, adj.Isha),
	}
	if err := set.Validate(); err != nil {
		return PrayerTimeSet{}, fmt.Errorf("%w: %s at latitude %v: %v", ErrNoSolarSolution, date, lat, err)
	}
	return set, nil
}

// asrAltitude is the solar altitude at which a vertical object's shadow equals
// factor times its height plus its noon shadow.
func asrAltitude(factor, latitude, declination float64) float64 {
	noon := math.Abs(latitude-declination) * degToRad
	return math.Atan(1/(factor+math.Tan(noon))) * radToDeg
}

func portionOf(d time.Duration, portion float64) time.Duration {
	return time.Duration(math.Round(float64(d) * portion))
}
