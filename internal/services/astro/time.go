package astro

import (
	"fmt"
	"math"
	"strings"
	"time"

	"Kundali/internal/domain/models"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	julianUnixEpoch = 2440587.5
	J2000           = 2451545.0
	secondsPerDay   = 86400.0
)

// TimeResolver converts local birth data into a JulianMoment.
type TimeResolver struct {
	MinYear int
	MaxYear int
}

// NewTimeResolver returns a resolver supporting years 1800..2400.
func NewTimeResolver() *TimeResolver {
	return &TimeResolver{MinYear: 1800, MaxYear: 2400}
}

// Resolve validates b and computes Julian day (UT) and local sidereal time.
// An unknown birth time resolves to local noon and marks the moment approximate.
func (r *TimeResolver) Resolve(b models.BirthDetails) (models.JulianMoment, error) {
	if err := ValidateCoordinates(b.Latitude, b.Longitude); err != nil {
		return models.JulianMoment{}, err
	}

	loc, err := LoadLocation(b.Timezone)
	if err != nil {
		return models.JulianMoment{}, err
	}

	day, err := time.Parse(DateLayout, strings.TrimSpace(b.Date))
	if err != nil {
		return models.JulianMoment{}, models.NewChartError(models.CodeInvalidDateTime, "date",
			"date must be YYYY-MM-DD").WithError(err)
	}
	if day.Year() < r.MinYear || day.Year() > r.MaxYear {
		return models.JulianMoment{}, models.NewChartError(models.CodeInvalidDateTime, "date",
			fmt.Sprintf("year %d outside supported range %d-%d", day.Year(), r.MinYear, r.MaxYear))
	}

	hour, minute := 12, 0
	if !b.TimeUnknown {
		clock, err := time.Parse(TimeLayout, strings.TrimSpace(b.Time))
		if err != nil {
			return models.JulianMoment{}, models.NewChartError(models.CodeInvalidDateTime, "time",
				"time must be HH:MM (24h)").WithError(err)
		}
		hour, minute = clock.Hour(), clock.Minute()
	}

	local := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
	utc := local.UTC()
	jd := JulianDay(utc)

	return models.JulianMoment{
		JulianDay:         jd,
		LocalSiderealTime: LocalSiderealTime(jd, b.Longitude),
		UTC:               utc,
		Local:             local,
		Approximate:       b.TimeUnknown,
	}, nil
}

// LoadLocation resolves an IANA timezone name.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return nil, models.NewChartError(models.CodeInvalidTimezone, "timezone",
			"timezone must be an IANA zone name")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, models.NewChartError(models.CodeInvalidTimezone, "timezone",
			fmt.Sprintf("unknown timezone %q", name)).WithError(err)
	}
	return loc, nil
}

// ValidateCoordinates checks latitude in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return models.NewChartError(models.CodeInvalidCoordinates, "latitude",
			fmt.Sprintf("latitude %v outside [-90,90]", lat))
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return models.NewChartError(models.CodeInvalidCoordinates, "longitude",
			fmt.Sprintf("longitude %v outside [-180,180]", lon))
	}
	return nil
}

// JulianDay returns the fractional Julian day of t (UT).
func JulianDay(t time.Time) float64 {
	u := t.UTC()
	secs := float64(u.Unix()) + float64(u.Nanosecond())/1e9
	return secs/secondsPerDay + julianUnixEpoch
}

// TimeFromJulianDay is the inverse of JulianDay.
func TimeFromJulianDay(jd float64) time.Time {
	secs := (jd - julianUnixEpoch) * secondsPerDay
	whole := math.Floor(secs)
	return time.Unix(int64(whole), int64((secs-whole)*1e9)).UTC()
}

// JulianCenturies counts centuries from J2000.
func JulianCenturies(jd float64) float64 {
	return (jd - J2000) / 36525
}

// GreenwichSiderealTime returns GMST in degrees (IAU 1982 expression).
func GreenwichSiderealTime(jd float64) float64 {
	t := JulianCenturies(jd)
	return Normalize(280.46061837 + 360.98564736629*(jd-J2000) +
		0.000387933*t*t - t*t*t/38710000)
}

// LocalSiderealTime returns LST in degrees for an east-positive longitude.
func LocalSiderealTime(jd, longitude float64) float64 {
	return Normalize(GreenwichSiderealTime(jd) + longitude)
}
