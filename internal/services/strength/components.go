package strength

import (
	"math"
	"time"

	"Kundali/internal/domain/models"
	"Kundali/internal/services/astro"
)

// MaxComponent is the cap of every Shad Bala component.
const MaxComponent = 15.0

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > MaxComponent {
		return MaxComponent
	}
	return v
}

var dignityPoints = map[astro.Dignity]float64{
	astro.Exalted:      15,
	astro.Moolatrikona: 12.5,
	astro.OwnSign:      11.25,
	astro.FriendSign:   7.5,
	astro.NeutralSign:  5,
	astro.EnemySign:    2.5,
	astro.Debilitated:  0,
}

// Sthana is half sign dignity, half proximity to deep exaltation.
func Sthana(p models.Planet, pos models.PlanetPosition) float64 {
	dignity := dignityPoints[astro.DignityOf(p, pos.Sign)] * 0.5
	uccha := 7.5 * (1 - astro.Separation(pos.Longitude, astro.DeepExaltation(p))/180)
	return clamp(dignity + uccha)
}

// strongHouse is the house of directional strength.
var strongHouse = map[models.Planet]int{
	models.Sun: 10, models.Mars: 10,
	models.Moon: 4, models.Venus: 4,
	models.Mercury: 1, models.Jupiter: 1,
	models.Saturn: 7,
}

// Dig scales linearly with the arc between the planet and its strong point.
func Dig(p models.Planet, pos models.PlanetPosition, ascendant float64) float64 {
	point := astro.Normalize(ascendant + float64(strongHouse[p]-1)*astro.SignSpan)
	return clamp(MaxComponent * (1 - astro.Separation(pos.Longitude, point)/180))
}

const (
	dayNightPoints = 7.5
	pakshaPoints   = 3.75
	horaPoints     = 2.25
	varaPoints     = 1.5
	sunriseHour    = 6
	sunsetHour     = 18
)

var chaldean = [7]models.Planet{
	models.Saturn, models.Jupiter, models.Mars, models.Sun, models.Venus, models.Mercury, models.Moon,
}

var weekdayLords = [7]models.Planet{
	time.Sunday: models.Sun, time.Monday: models.Moon, time.Tuesday: models.Mars,
	time.Wednesday: models.Mercury, time.Thursday: models.Jupiter,
	time.Friday: models.Venus, time.Saturday: models.Saturn,
}

// Temporal carries the time-dependent inputs of Kala Bala.
type Temporal struct {
	Day      bool
	Paksha   float64 // 0 at new moon, 1 at full moon
	VaraLord models.Planet
	HoraLord models.Planet
}

// NewTemporal derives day/night, lunar phase and the day and hour lords.
// The Vedic day is taken to start at 06:00 local time.
func NewTemporal(local time.Time, sunLon, moonLon float64) Temporal {
	frac := float64(local.Hour()) + float64(local.Minute())/60 + float64(local.Second())/3600
	sinceSunrise := math.Mod(frac-sunriseHour+24, 24)

	weekday := local.Weekday()
	if frac < sunriseHour {
		weekday = (weekday + 6) % 7
	}
	vara := weekdayLords[weekday]

	start := 0
	for i, p := range chaldean {
		if p == vara {
			start = i
		}
	}

	elong := astro.Normalize(moonLon - sunLon)
	paksha := elong / 180
	if elong > 180 {
		paksha = (360 - elong) / 180
	}

	return Temporal{
		Day:      frac >= sunriseHour && frac < sunsetHour,
		Paksha:   paksha,
		VaraLord: vara,
		HoraLord: chaldean[(start+int(sinceSunrise))%7],
	}
}

// Kala sums day/night, paksha, hora and vara strength.
func Kala(p models.Planet, t Temporal) float64 {
	var v float64
	switch p {
	case models.Mercury:
		v += dayNightPoints
	case models.Sun, models.Jupiter, models.Venus:
		if t.Day {
			v += dayNightPoints
		}
	default:
		if !t.Day {
			v += dayNightPoints
		}
	}
	if astro.IsNaturalBenefic(p) {
		v += t.Paksha * pakshaPoints
	} else {
		v += (1 - t.Paksha) * pakshaPoints
	}
	if t.HoraLord == p {
		v += horaPoints
	}
	if t.VaraLord == p {
		v += varaPoints
	}
	return clamp(v)
}

// Chesta grades apparent motion against mean motion.
func Chesta(p models.Planet, pos models.PlanetPosition) float64 {
	switch pos.Motion {
	case models.MotionStationary:
		return 3.75
	case models.MotionRetrograde:
		return 15
	}
	if pos.Speed < astro.MeanMotion(p) {
		return 7.5
	}
	return 11.25
}

var naisargika = map[models.Planet]float64{
	models.Sun:     15,
	models.Moon:    12.857,
	models.Venus:   10.714,
	models.Jupiter: 8.571,
	models.Mercury: 6.429,
	models.Mars:    4.286,
	models.Saturn:  2.143,
}

// Naisargika is the fixed natural strength.
func Naisargika(p models.Planet) float64 { return naisargika[p] }

// Drishti saturates the net of benefic minus malefic aspects received by sign.
func Drishti(p models.Planet, planets []models.PlanetPosition) float64 {
	target := planets[p].Sign
	net := 0.0
	for _, q := range models.ClassicalPlanets {
		if q == p {
			continue
		}
		if !astro.Aspects(q, planets[q].Sign, target) {
			continue
		}
		if astro.IsNaturalBenefic(q) {
			net++
		} else {
			net--
		}
	}
	return clamp(7.5 + 7.5*math.Tanh(net/2))
}
