package varga

import (
	"fmt"
	"math"

	"Kundali/internal/domain/models"
	"Kundali/internal/services/astro"
)

// Division describes one divisional chart.
type Division struct {
	ID   string
	Name string
	N    int
	// part maps natal sign and the index of the 30/N-degree part to a divisional sign.
	part func(sign, p int) int
}

func isOddSign(sign int) bool { return sign%2 == 0 } // Aries counts as the first, odd sign

func modality(sign int) int { return sign % 3 } // 0 movable, 1 fixed, 2 dual

func element(sign int) int { return sign % 4 } // 0 fire, 1 earth, 2 air, 3 water

func wrap(s int) int { return ((s % 12) + 12) % 12 }

var divisions = []Division{
	{ID: "D1", Name: "Rashi", N: 1, part: func(s, _ int) int { return s }},
	{ID: "D2", Name: "Hora", N: 2, part: func(s, p int) int {
		if isOddSign(s) == (p == 0) {
			return 4 // Leo, solar hora
		}
		return 3 // Cancer, lunar hora
	}},
	{ID: "D3", Name: "Drekkana", N: 3, part: func(s, p int) int { return s + 4*p }},
	{ID: "D4", Name: "Chaturthamsha", N: 4, part: func(s, p int) int { return s + 3*p }},
	{ID: "D7", Name: "Saptamsha", N: 7, part: func(s, p int) int {
		if isOddSign(s) {
			return s + p
		}
		return s + 6 + p
	}},
	{ID: "D9", Name: "Navamsha", N: 9, part: func(s, p int) int {
		return [4]int{0, 9, 6, 3}[element(s)] + p
	}},
	{ID: "D10", Name: "Dashamsha", N: 10, part: func(s, p int) int {
		if isOddSign(s) {
			return s + p
		}
		return s + 8 + p
	}},
	{ID: "D12", Name: "Dwadashamsha", N: 12, part: func(s, p int) int { return s + p }},
	{ID: "D16", Name: "Shodashamsha", N: 16, part: func(s, p int) int {
		return [3]int{0, 4, 8}[modality(s)] + p
	}},
	{ID: "D20", Name: "Vimshamsha", N: 20, part: func(s, p int) int {
		return [3]int{0, 8, 4}[modality(s)] + p
	}},
	{ID: "D24", Name: "Chaturvimshamsha", N: 24, part: func(s, p int) int {
		if isOddSign(s) {
			return 4 + p
		}
		return 3 + p
	}},
	{ID: "D27", Name: "Saptavimshamsha", N: 27, part: func(s, p int) int {
		return [4]int{0, 3, 6, 9}[element(s)] + p
	}},
	{ID: "D30", Name: "Trimshamsha", N: 30, part: nil},
	{ID: "D40", Name: "Khavedamsha", N: 40, part: func(s, p int) int {
		if isOddSign(s) {
			return p
		}
		return 6 + p
	}},
	{ID: "D45", Name: "Akshavedamsha", N: 45, part: func(s, p int) int {
		return [3]int{0, 4, 8}[modality(s)] + p
	}},
	{ID: "D60", Name: "Shashtiamsha", N: 60, part: func(s, p int) int { return s + p }},
}

// trimshamsha bounds (upper degree limits) and signs for odd and even signs.
var (
	trimshaOddBounds  = [5]float64{5, 10, 18, 25, 30}
	trimshaOddSigns   = [5]int{0, 10, 8, 2, 6}
	trimshaEvenBounds = [5]float64{5, 12, 20, 25, 30}
	trimshaEvenSigns  = [5]int{1, 5, 11, 9, 7}
)

func trimshamsha(sign int, deg float64) int {
	bounds, signs := trimshaOddBounds, trimshaOddSigns
	if !isOddSign(sign) {
		bounds, signs = trimshaEvenBounds, trimshaEvenSigns
	}
	for i, b := range bounds {
		if deg < b {
			return signs[i]
		}
	}
	return signs[4]
}

// Divisions lists every supported varga in ascending order of N.
func Divisions() []Division {
	out := make([]Division, len(divisions))
	copy(out, divisions)
	return out
}

// Lookup finds a division by id such as "D9".
func Lookup(id string) (Division, bool) {
	for _, d := range divisions {
		if d.ID == id {
			return d, true
		}
	}
	return Division{}, false
}

// Sign returns the divisional sign of a sidereal longitude.
func (d Division) Sign(lon float64) int {
	l := astro.Normalize(lon)
	sign := int(l / astro.SignSpan)
	deg := math.Mod(l, astro.SignSpan)
	if d.part == nil {
		return trimshamsha(sign, deg)
	}
	p := int(deg / (astro.SignSpan / float64(d.N)))
	if p >= d.N {
		p = d.N - 1
	}
	return wrap(d.part(sign, p))
}

// Chart projects a natal chart into the division.
func (d Division) Chart(c *models.Chart) models.DivisionalChart {
	out := models.DivisionalChart{
		ID:            d.ID,
		Name:          d.Name,
		Division:      d.N,
		AscendantSign: d.Sign(c.Ascendant.Longitude),
		Positions:     make([]models.VargaPosition, len(c.Planets)),
	}
	for i, p := range c.Planets {
		s := d.Sign(p.Longitude)
		out.Positions[i] = models.VargaPosition{Planet: p.Planet, Sign: s, SignName: models.SignName(s)}
	}
	return out
}

// Generate builds the requested divisional charts, or all of them when ids is empty.
func Generate(c *models.Chart, ids ...string) ([]models.DivisionalChart, error) {
	if len(ids) == 0 {
		out := make([]models.DivisionalChart, 0, len(divisions))
		for _, d := range divisions {
			out = append(out, d.Chart(c))
		}
		return out, nil
	}
	out := make([]models.DivisionalChart, 0, len(ids))
	for _, id := range ids {
		d, ok := Lookup(id)
		if !ok {
			return nil, fmt.Errorf("unknown divisional chart %q", id)
		}
		out = append(out, d.Chart(c))
	}
	return out, nil
}

// Vargottama lists planets occupying the same sign in D1 and D9.
func Vargottama(c *models.Chart) []models.Planet {
	d9, _ := Lookup("D9")
	out := []models.Planet{}
	for _, p := range c.Planets {
		if d9.Sign(p.Longitude) == p.Sign {
			out = append(out, p.Planet)
		}
	}
	return out
}
