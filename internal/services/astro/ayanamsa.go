package astro

import (
	"fmt"
	"strings"
)

// AyanamsaModel names a sidereal zodiac convention.
type AyanamsaModel string

const (
	Lahiri       AyanamsaModel = "lahiri"
	Raman        AyanamsaModel = "raman"
	Krishnamurti AyanamsaModel = "krishnamurti"
	FaganBradley AyanamsaModel = "fagan_bradley"
)

// precessionPerYear is the general precession in longitude, degrees per Julian year.
const precessionPerYear = 50.2888 / 3600

var ayanamsaAtJ2000 = map[AyanamsaModel]float64{
	Lahiri:       23.85306,
	Raman:        22.41000,
	Krishnamurti: 23.76000,
	FaganBradley: 24.74000,
}

// Ayanamsa is a constant-rate precession model.
type Ayanamsa struct {
	model AyanamsaModel
	base  float64
}

// NewAyanamsa returns the model by name; empty selects Lahiri.
func NewAyanamsa(name string) (*Ayanamsa, error) {
	m := AyanamsaModel(strings.ToLower(strings.TrimSpace(name)))
	if m == "" {
		m = Lahiri
	}
	base, ok := ayanamsaAtJ2000[m]
	if !ok {
		return nil, fmt.Errorf("unsupported ayanamsa model %q", name)
	}
	return &Ayanamsa{model: m, base: base}, nil
}

// Model returns the convention in use.
func (a *Ayanamsa) Model() AyanamsaModel { return a.model }

// Value returns the ayanamsa in degrees at jd.
func (a *Ayanamsa) Value(jd float64) float64 {
	return a.base + (jd-J2000)/365.25*precessionPerYear
}

// ToSidereal converts a tropical longitude to sidereal, normalized to [0,360).
func (a *Ayanamsa) ToSidereal(tropical, jd float64) float64 {
	return Normalize(tropical - a.Value(jd))
}
