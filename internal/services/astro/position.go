package astro

import (
	"errors"
	"math"

	"Kundali/internal/domain/models"
)

const (
	SignSpan      = 30.0
	NakshatraSpan = 360.0 / 27
	PadaSpan      = NakshatraSpan / 4
)

var errNonFiniteLongitude = errors.New("longitude is not a finite number")

// Placement is the zodiacal classification of a sidereal longitude.
type Placement struct {
	Longitude  float64
	SignDegree float64
	Sign       int
	Nakshatra  int
	Pada       int
}

// Normalize wraps deg into [0,360).
func Normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

// SignedDelta returns b-a wrapped into (-180,180].
func SignedDelta(a, b float64) float64 {
	d := Normalize(b - a)
	if d > 180 {
		d -= 360
	}
	return d
}

// Separation is the shortest arc between two longitudes, [0,180].
func Separation(a, b float64) float64 {
	return math.Abs(SignedDelta(a, b))
}

// Classify maps a longitude to sign, nakshatra and pada.
func Classify(lon float64) (Placement, error) {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Placement{}, errNonFiniteLongitude
	}
	l := Normalize(lon)
	inNak := math.Mod(l, NakshatraSpan)
	return Placement{
		Longitude:  l,
		SignDegree: math.Mod(l, SignSpan),
		Sign:       clampIndex(int(math.Floor(l/SignSpan)), 11),
		Nakshatra:  clampIndex(int(math.Floor(l/NakshatraSpan)), 26),
		Pada:       clampIndex(int(math.Floor(inNak/PadaSpan)), 3) + 1,
	}, nil
}

// NakshatraFraction is the elapsed fraction [0,1) of the nakshatra containing lon.
func NakshatraFraction(lon float64) float64 {
	f := math.Mod(Normalize(lon), NakshatraSpan) / NakshatraSpan
	if f >= 1 {
		f = 0
	}
	return f
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

// NewPlanetPosition classifies a sidereal longitude for p. House is assigned later.
func NewPlanetPosition(p models.Planet, lon, speed float64) (models.PlanetPosition, error) {
	pl, err := Classify(lon)
	if err != nil {
		return models.PlanetPosition{}, err
	}
	return models.PlanetPosition{
		Planet:        p,
		Longitude:     pl.Longitude,
		Sign:          pl.Sign,
		SignName:      models.SignName(pl.Sign),
		SignDegree:    pl.SignDegree,
		Nakshatra:     pl.Nakshatra,
		NakshatraName: models.NakshatraNames[pl.Nakshatra],
		Pada:          pl.Pada,
		Speed:         speed,
		Motion:        MotionOf(p, speed),
	}, nil
}

// NewAscendant classifies the sidereal ascendant longitude.
func NewAscendant(lon float64) (models.Ascendant, error) {
	pl, err := Classify(lon)
	if err != nil {
		return models.Ascendant{}, err
	}
	return models.Ascendant{
		Longitude:     pl.Longitude,
		Sign:          pl.Sign,
		SignName:      models.SignName(pl.Sign),
		SignDegree:    pl.SignDegree,
		Nakshatra:     pl.Nakshatra,
		NakshatraName: models.NakshatraNames[pl.Nakshatra],
		Pada:          pl.Pada,
	}, nil
}
