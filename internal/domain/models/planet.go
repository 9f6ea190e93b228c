package models

import (
	"fmt"
	"strings"
)

// Planet identifies one of the nine grahas used by the chart.
type Planet int

const (
	Sun Planet = iota
	Moon
	Mars
	Mercury
	Jupiter
	Venus
	Saturn
	Rahu
	Ketu
)

// PlanetCount is the number of grahas in a chart.
const PlanetCount = 9

var planetNames = [PlanetCount]string{
	"Sun", "Moon", "Mars", "Mercury", "Jupiter", "Venus", "Saturn", "Rahu", "Ketu",
}

// AllPlanets lists every graha in canonical order.
var AllPlanets = [PlanetCount]Planet{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu, Ketu}

// ClassicalPlanets are the seven planets that carry Shad Bala (nodes excluded).
var ClassicalPlanets = [7]Planet{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn}

func (p Planet) String() string {
	if p < 0 || int(p) >= PlanetCount {
		return fmt.Sprintf("Planet(%d)", int(p))
	}
	return planetNames[p]
}

// Valid reports whether p is one of the nine grahas.
func (p Planet) Valid() bool { return p >= Sun && p <= Ketu }

// IsNode reports whether p is Rahu or Ketu.
func (p Planet) IsNode() bool { return p == Rahu || p == Ketu }

func (p Planet) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid planet %d", int(p))
	}
	return []byte(planetNames[p]), nil
}

func (p *Planet) UnmarshalText(b []byte) error {
	v, err := ParsePlanet(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePlanet resolves a case-insensitive planet name.
func ParsePlanet(s string) (Planet, error) {
	for i, n := range planetNames {
		if strings.EqualFold(n, s) {
			return Planet(i), nil
		}
	}
	return 0, fmt.Errorf("unknown planet %q", s)
}

// SignNames are the twelve rasis starting from Aries.
var SignNames = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// NakshatraNames are the 27 lunar mansions starting from Ashwini.
var NakshatraNames = [27]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni",
	"Hasta", "Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha",
	"Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha",
	"Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
}

// SignName returns the rasi name for a 0-based sign index.
func SignName(sign int) string {
	return SignNames[((sign%12)+12)%12]
}
