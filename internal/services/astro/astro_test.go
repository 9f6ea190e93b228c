package astro

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kundali/internal/domain/models"
)

func delhiBirth() models.BirthDetails {
	return models.BirthDetails{
		Date:      "1990-05-15",
		Time:      "14:30",
		Latitude:  28.6139,
		Longitude: 77.2090,
		Timezone:  "Asia/Kolkata",
	}
}

func TestResolveDelhi(t *testing.T) {
	m, err := NewTimeResolver().Resolve(delhiBirth())
	require.NoError(t, err)

	assert.InDelta(t, 2448026.875, m.JulianDay, 1e-6)
	assert.InDelta(t, 85.039, m.LocalSiderealTime, 0.01)
	assert.True(t, time.Date(1990, 5, 15, 9, 0, 0, 0, time.UTC).Equal(m.UTC))
	assert.False(t, m.Approximate)
}

func TestResolveUnknownTimeUsesNoon(t *testing.T) {
	b := delhiBirth()
	b.Time = ""
	b.TimeUnknown = true

	m, err := NewTimeResolver().Resolve(b)
	require.NoError(t, err)
	assert.True(t, m.Approximate)
	assert.Equal(t, 12, m.Local.Hour())
	assert.Equal(t, 0, m.Local.Minute())
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.BirthDetails)
		want   error
	}{
		{"bad date", func(b *models.BirthDetails) { b.Date = "1990-13-40" }, models.ErrInvalidDateTime},
		{"bad time", func(b *models.BirthDetails) { b.Time = "25:61" }, models.ErrInvalidDateTime},
		{"year too early", func(b *models.BirthDetails) { b.Date = "1700-01-01" }, models.ErrInvalidDateTime},
		{"year too late", func(b *models.BirthDetails) { b.Date = "2401-01-01" }, models.ErrInvalidDateTime},
		{"unknown zone", func(b *models.BirthDetails) { b.Timezone = "Mars/Olympus" }, models.ErrInvalidTimezone},
		{"empty zone", func(b *models.BirthDetails) { b.Timezone = "" }, models.ErrInvalidTimezone},
		{"latitude", func(b *models.BirthDetails) { b.Latitude = 90.0001 }, models.ErrInvalidCoordinates},
		{"longitude", func(b *models.BirthDetails) { b.Longitude = -180.5 }, models.ErrInvalidCoordinates},
		{"nan latitude", func(b *models.BirthDetails) { b.Latitude = math.NaN() }, models.ErrInvalidCoordinates},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := delhiBirth()
			tt.mutate(&b)
			_, err := NewTimeResolver().Resolve(b)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestJulianDayRoundTrip(t *testing.T) {
	ts := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, J2000, JulianDay(ts), 1e-9)
	assert.True(t, ts.Equal(TimeFromJulianDay(JulianDay(ts))))
}

func TestAyanamsa(t *testing.T) {
	a, err := NewAyanamsa("")
	require.NoError(t, err)
	assert.Equal(t, Lahiri, a.Model())
	assert.InDelta(t, 23.85306, a.Value(J2000), 1e-9)
	assert.InDelta(t, 23.7185, a.Value(2448026.875), 1e-3)

	for _, name := range []string{"raman", "KRISHNAMURTI", "fagan_bradley"} {
		_, err := NewAyanamsa(name)
		assert.NoError(t, err, name)
	}
	_, err = NewAyanamsa("tropical")
	assert.Error(t, err)

	assert.InDelta(t, 350.0, a.ToSidereal(13.85306, J2000), 1e-9)
}

func TestAscendantDelhi(t *testing.T) {
	m, err := NewTimeResolver().Resolve(delhiBirth())
	require.NoError(t, err)
	a, _ := NewAyanamsa(string(Lahiri))

	trop, err := TropicalAscendant(m.LocalSiderealTime, 28.6139, m.JulianDay)
	require.NoError(t, err)
	sid := a.ToSidereal(trop, m.JulianDay)
	assert.InDelta(t, 151.909, sid, 0.05)

	asc, err := NewAscendant(sid)
	require.NoError(t, err)
	assert.Equal(t, 5, asc.Sign)
	assert.Equal(t, "Virgo", asc.SignName)
}

func TestAscendantEquatorRAMCZero(t *testing.T) {
	asc, err := TropicalAscendant(0, 0, J2000)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, asc, 1e-9)
}

func TestAscendantPolar(t *testing.T) {
	_, err := TropicalAscendant(100, 90, J2000)
	assert.ErrorIs(t, err, models.ErrAscendantComputation)
	_, err = TropicalAscendant(100, -90, J2000)
	assert.ErrorIs(t, err, models.ErrAscendantComputation)
	_, err = TropicalAscendant(100, 90.0001, J2000)
	assert.ErrorIs(t, err, models.ErrInvalidCoordinates)
}

func TestClassifyInvariants(t *testing.T) {
	for lon := -720.0; lon < 720; lon += 0.37 {
		p, err := Classify(lon)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.Longitude, 0.0)
		assert.Less(t, p.Longitude, 360.0)
		assert.Equal(t, int(p.Longitude/30), p.Sign)
		assert.Equal(t, int(p.Longitude/NakshatraSpan), p.Nakshatra)
		assert.GreaterOrEqual(t, p.Pada, 1)
		assert.LessOrEqual(t, p.Pada, 4)

		again, err := Classify(p.Longitude)
		require.NoError(t, err)
		assert.Equal(t, p, again)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	p, _ := Classify(360)
	assert.Equal(t, 0, p.Sign)
	assert.Equal(t, 1, p.Pada)

	p, _ = Classify(359.9999999)
	assert.Equal(t, 11, p.Sign)
	assert.Equal(t, 26, p.Nakshatra)
	assert.Equal(t, 4, p.Pada)

	p, _ = Classify(30.561)
	assert.Equal(t, 1, p.Sign)
	assert.Equal(t, 2, p.Nakshatra)
	assert.Equal(t, 2, p.Pada)

	_, err := Classify(math.Inf(1))
	assert.Error(t, err)
}

func TestSeparation(t *testing.T) {
	assert.InDelta(t, 20.0, Separation(350, 10), 1e-9)
	assert.InDelta(t, -20.0, SignedDelta(10, 350), 1e-9)
	assert.InDelta(t, 180.0, Separation(0, 180), 1e-9)
}

func TestAssignHouses(t *testing.T) {
	planets := make([]models.PlanetPosition, models.PlanetCount)
	for i, p := range models.AllPlanets {
		pos, err := NewPlanetPosition(p, float64(i)*41, 1)
		require.NoError(t, err)
		planets[i] = pos
	}
	table := AssignHouses(5, planets)

	assert.Equal(t, 5, table[0].Sign)
	assert.Equal(t, models.Mercury, table[0].Lord)
	total := 0
	for n, h := range table {
		assert.Equal(t, n+1, h.Number)
		assert.Equal(t, (5+n)%12, h.Sign)
		total += len(h.Planets)
	}
	assert.Equal(t, models.PlanetCount, total)
	for _, p := range planets {
		assert.Equal(t, HouseOf(p.Sign, 5), p.House)
		assert.Contains(t, table[p.House-1].Planets, p.Planet)
	}
}

func TestDignityOf(t *testing.T) {
	tests := []struct {
		planet models.Planet
		sign   int
		want   Dignity
	}{
		{models.Sun, 0, Exalted},
		{models.Sun, 6, Debilitated},
		{models.Sun, 4, Moolatrikona},
		{models.Moon, 1, Exalted},
		{models.Moon, 3, OwnSign},
		{models.Mercury, 5, Exalted},
		{models.Mercury, 2, OwnSign},
		{models.Mars, 7, OwnSign},
		{models.Jupiter, 3, Exalted},
		{models.Jupiter, 9, Debilitated},
		{models.Saturn, 10, Moolatrikona},
		{models.Sun, 9, EnemySign},
		{models.Sun, 8, FriendSign},
		{models.Venus, 8, NeutralSign},
		{models.Rahu, 1, Exalted},
		{models.Ketu, 1, Debilitated},
		{models.Rahu, 5, NeutralSign},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DignityOf(tt.planet, tt.sign), "%s in %s", tt.planet, models.SignName(tt.sign))
	}
}

func TestAspects(t *testing.T) {
	assert.True(t, Aspects(models.Sun, 1, 7))
	assert.False(t, Aspects(models.Sun, 1, 5))
	assert.True(t, Aspects(models.Mars, 3, 6))
	assert.True(t, Aspects(models.Jupiter, 11, 3))
	assert.True(t, Aspects(models.Saturn, 10, 7))
}

func TestMotionOf(t *testing.T) {
	assert.Equal(t, models.MotionDirect, MotionOf(models.Mars, 0.6))
	assert.Equal(t, models.MotionRetrograde, MotionOf(models.Mars, -0.2))
	assert.Equal(t, models.MotionStationary, MotionOf(models.Mars, 0.01))
	assert.Equal(t, models.MotionRetrograde, MotionOf(models.Rahu, -0.05))
}
