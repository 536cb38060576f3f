package prayer

import (
	"math"
	"time"
)

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi

	// julian day of 2000-01-01 12:00 TT
	j2000 = 2451545.0

	// apparent altitude of the sun's upper limb at rise and set
	sunAltitude = -0.833
)

// SolarDay is the sun's geometry for one calendar date at one longitude.
type SolarDay struct {
	Date Date

	// EquationOfTime is apparent minus mean solar time, in minutes.
	EquationOfTime float64

	// Declination is the sun's declination at transit, in degrees.
	Declination float64

	// Transit is local apparent noon expressed in UTC.
	Transit time.Time
}

// ComputeSolarDay derives the declination, equation of time and transit for
// date at the given longitude. Accuracy is around a minute of time, which is
// sufficient for civil prayer schedules.
func ComputeSolarDay(date Date, longitude float64) (SolarDay, error) {
	if err := validateLongitude(longitude); err != nil {
		return SolarDay{}, err
	}

	jd0 := julianDay(date)

	// first pass at mean noon, second at the corrected transit
	transit := 720 - 4*longitude
	var declination, eot float64
	for i := 0; i < 2; i++ {
		declination, eot = solarPosition(jd0 + transit/1440)
		transit = 720 - 4*longitude - eot
	}

	return SolarDay{
		Date:           date,
		EquationOfTime: eot,
		Declination:    declination,
		Transit:        date.Midnight(time.UTC).Add(minutes(transit)),
	}, nil
}

// hourAngle returns the time in minutes between transit and the moment the sun
// stands at altitude degrees, or false when it never gets there.
func (s SolarDay) hourAngle(latitude, altitude float64) (float64, bool) {
	phi := latitude * degToRad
	dec := s.Declination * degToRad

	cosH := (math.Sin(altitude*degToRad) - math.Sin(phi)*math.Sin(dec)) / (math.Cos(phi) * math.Cos(dec))
	if math.IsNaN(cosH) || cosH < -1 || cosH > 1 {
		return 0, false
	}
	return 4 * math.Acos(cosH) * radToDeg, true
}

// julianDay returns the Julian Day at 00:00 UTC of date (Gregorian calendar).
func julianDay(date Date) float64 {
	y, m := date.Year, int(date.Month)
	if m <= 2 {
		y--
		m += 12
	}
	a := math.Floor(float64(y) / 100)
	b := 2 - a + math.Floor(a/4)
	return math.Floor(365.25*float64(y+4716)) + math.Floor(30.6001*float64(m+1)) + float64(date.Day) + b - 1524.5
}

// solarPosition returns the apparent declination (degrees) and the equation of
// time (minutes) at Julian Day jd.
func solarPosition(jd float64) (declination, equationOfTime float64) {
	t := (jd - j2000) / 36525

	l0 := normalizeDegrees(280.46646 + t*(36000.76983+0.0003032*t))
	m := (357.52911 + t*(35999.05029-0.0001537*t)) * degToRad
	e := 0.016708634 - t*(0.000042037+0.0000001267*t)

	center := math.Sin(m)*(1.914602-t*(0.004817+0.000014*t)) +
		math.Sin(2*m)*(0.019993-0.000101*t) +
		math.Sin(3*m)*0.000289

	omega := (125.04 - 1934.136*t) * degToRad
	lambda := (l0 + center - 0.00569 - 0.00478*math.Sin(omega)) * degToRad

	meanObliquity := 23 + (26+(21.448-t*(46.815+t*(0.00059-t*0.001813)))/60)/60
	obliquity := (meanObliquity + 0.00256*math.Cos(omega)) * degToRad

	declination = math.Asin(math.Sin(obliquity)*math.Sin(lambda)) * radToDeg

	y := math.Tan(obliquity / 2)
	y *= y
	l0r := l0 * degToRad
	eq := y*math.Sin(2*l0r) -
		2*e*math.Sin(m) +
		4*e*y*math.Sin(m)*math.Cos(2*l0r) -
		0.5*y*y*math.Sin(4*l0r) -
		1.25*e*e*math.Sin(2*m)
	equationOfTime = 4 * eq * radToDeg

	return declination, equationOfTime
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func minutes(m float64) time.Duration {
	return time.Duration(math.Round(m * float64(time.Minute)))
}
