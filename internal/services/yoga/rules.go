package yoga

import (
	"math"

	"Kundali/internal/domain/models"
	"Kundali/internal/services/astro"
)

var (
	starPlanets = []models.Planet{models.Mars, models.Mercury, models.Jupiter, models.Venus, models.Saturn}
	benefics    = []models.Planet{models.Mercury, models.Jupiter, models.Venus}
	nodes       = []models.Planet{models.Rahu, models.Ketu}
	dusthanas   = []int{6, 8, 12}
)

var mahapurushas = map[models.Planet][2]string{
	models.Mars:    {"ruchaka", "Ruchaka"},
	models.Mercury: {"bhadra", "Bhadra"},
	models.Jupiter: {"hamsa", "Hamsa"},
	models.Venus:   {"malavya", "Malavya"},
	models.Saturn:  {"sasa", "Sasa"},
}

// Rules returns the built-in rule table in evaluation order.
func Rules() []Rule {
	rules := []Rule{
		{
			ID: "gaja_kesari", Name: "Gaja Kesari Yoga", Nature: models.NatureBenefic,
			Description: "Jupiter in a kendra from the Moon",
			Eval:        gajaKesari,
		},
		{
			ID: "budha_aditya", Name: "Budha-Aditya Yoga", Nature: models.NatureBenefic,
			Description: "Sun and Mercury in the same sign",
			Eval:        conjunction(models.Sun, models.Mercury, false),
		},
		{
			ID: "chandra_mangala", Name: "Chandra-Mangala Yoga", Nature: models.NatureBenefic,
			Description: "Moon and Mars conjoined or in mutual opposition",
			Eval:        conjunction(models.Moon, models.Mars, true),
		},
		{
			ID: "guru_mangala", Name: "Guru-Mangala Yoga", Nature: models.NatureBenefic,
			Description: "Jupiter and Mars conjoined or in mutual opposition",
			Eval:        conjunction(models.Jupiter, models.Mars, true),
		},
	}
	for _, p := range starPlanets {
		meta := mahapurushas[p]
		rules = append(rules, Rule{
			ID: meta[0], Name: meta[1] + " Yoga", Nature: models.NatureBenefic, LagnaDependent: true,
			Description: p.String() + " in own or exaltation sign in a kendra from the ascendant",
			Eval:        func(c *Context) []Match { return mahapurusha(c, p) },
		})
	}
	rules = append(rules,
		Rule{
			ID: "sunapha", Name: "Sunapha Yoga", Nature: models.NatureBenefic,
			Description: "planets other than the Sun in the 2nd from the Moon",
			Eval:        moonFlank(2),
		},
		Rule{
			ID: "anapha", Name: "Anapha Yoga", Nature: models.NatureBenefic,
			Description: "planets other than the Sun in the 12th from the Moon",
			Eval:        moonFlank(12),
		},
		Rule{
			ID: "durudhara", Name: "Durudhara Yoga", Nature: models.NatureBenefic,
			Description: "planets on both sides of the Moon",
			Eval:        moonFlank(2, 12),
		},
		Rule{
			ID: "kemadruma", Name: "Kemadruma Yoga", Nature: models.NatureMalefic,
			Description: "Moon unsupported: nothing in the 2nd, 12th or kendras from it",
			Eval:        kemadruma,
		},
		Rule{
			ID: "vesi", Name: "Vesi Yoga", Nature: models.NatureBenefic,
			Description: "planets other than the Moon in the 2nd from the Sun",
			Eval:        sunFlank(2),
		},
		Rule{
			ID: "vasi", Name: "Vasi Yoga", Nature: models.NatureBenefic,
			Description: "planets other than the Moon in the 12th from the Sun",
			Eval:        sunFlank(12),
		},
		Rule{
			ID: "ubhayachari", Name: "Ubhayachari Yoga", Nature: models.NatureBenefic,
			Description: "planets on both sides of the Sun",
			Eval:        sunFlank(2, 12),
		},
		Rule{
			ID: "adhi", Name: "Adhi Yoga", Nature: models.NatureBenefic,
			Description: "natural benefics in the 6th, 7th and 8th from the Moon",
			Eval:        adhi,
		},
		Rule{
			ID: "amala", Name: "Amala Yoga", Nature: models.NatureBenefic, LagnaDependent: true,
			Description: "a natural benefic in the 10th house",
			Eval:        amala,
		},
		Rule{
			ID: "lakshmi", Name: "Lakshmi Yoga", Nature: models.NatureBenefic, LagnaDependent: true,
			Description: "dignified 9th lord in a kendra or trikona with a strong lagna lord",
			Eval:        lakshmi,
		},
		Rule{
			ID: "raja", Name: "Raja Yoga", Nature: models.NatureBenefic, LagnaDependent: true,
			Description: "lords of a kendra and a trikona conjoined",
			Eval:        raja,
		},
		Rule{
			ID: "dhana", Name: "Dhana Yoga", Nature: models.NatureBenefic, LagnaDependent: true,
			Description: "lords of the 2nd and 11th conjoined or exchanging signs",
			Eval:        dhana,
		},
		Rule{
			ID: "viparita_raja", Name: "Viparita Raja Yoga", Nature: models.NatureBenefic, LagnaDependent: true,
			Description: "lord of a dusthana placed in another dusthana",
			Eval:        viparitaRaja,
		},
		Rule{
			ID: "parivartana", Name: "Parivartana Yoga", Nature: models.NatureNeutral,
			Description: "two planets occupying each other's signs",
			Eval:        parivartana,
		},
		Rule{
			ID: "neecha_bhanga", Name: "Neecha Bhanga Raja Yoga", Nature: models.NatureBenefic, LagnaDependent: true,
			Description: "debilitation cancelled by a dispositor in a kendra",
			Eval:        neechaBhanga,
		},
		Rule{
			ID: "kala_sarpa", Name: "Kala Sarpa Yoga", Nature: models.NatureMalefic,
			Description: "all planets hemmed on one side of the Rahu-Ketu axis",
			Eval:        kalaSarpa,
		},
		Rule{
			ID: "shakata", Name: "Shakata Yoga", Nature: models.NatureMalefic,
			Description: "Jupiter in the 6th, 8th or 12th from the Moon",
			Eval:        shakata,
		},
		Rule{
			ID: "grahan", Name: "Grahan Yoga", Nature: models.NatureMalefic,
			Description: "a luminary conjoined with a lunar node",
			Eval:        withNode(models.Sun, models.Moon),
		},
		Rule{
			ID: "angarak", Name: "Angarak Yoga", Nature: models.NatureMalefic,
			Description: "Mars conjoined with a lunar node",
			Eval:        withNode(models.Mars),
		},
		Rule{
			ID: "guru_chandal", Name: "Guru Chandal Yoga", Nature: models.NatureMalefic,
			Description: "Jupiter conjoined with a lunar node",
			Eval:        withNode(models.Jupiter),
		},
		Rule{
			ID: "vish", Name: "Vish Yoga", Nature: models.NatureMalefic,
			Description: "Saturn and the Moon in the same sign",
			Eval:        conjunction(models.Saturn, models.Moon, false),
		},
	)
	return rules
}

func gajaKesari(c *Context) []Match {
	if !isKendra(c.fromMoon(models.Jupiter)) {
		return nil
	}
	if c.debilitated(models.Jupiter) || c.debilitated(models.Moon) ||
		c.combust(models.Jupiter) || c.combust(models.Moon) {
		return nil
	}
	sep := astro.Separation(c.pos(models.Moon).Longitude, c.pos(models.Jupiter).Longitude)
	dev := math.Min(math.Abs(sep), math.Min(math.Abs(sep-90), math.Abs(sep-180)))
	return []Match{{
		House:     c.house(models.Jupiter),
		Planets:   []models.Planet{models.Moon, models.Jupiter},
		Tightness: 1 - dev/45,
	}}
}

func conjunction(a, b models.Planet, allowOpposition bool) func(*Context) []Match {
	return func(c *Context) []Match {
		switch {
		case c.conjunct(a, b):
			return []Match{{House: c.house(a), Planets: []models.Planet{a, b}, Tightness: c.conjunctionTightness(a, b)}}
		case allowOpposition && c.opposed(a, b):
			return []Match{{House: c.house(a), Planets: []models.Planet{a, b}, Tightness: c.orbTightness(a, b, 180, 30)}}
		}
		return nil
	}
}

func mahapurusha(c *Context, p models.Planet) []Match {
	if !isKendra(c.house(p)) {
		return nil
	}
	switch c.dignity(p) {
	case astro.Exalted:
		return []Match{{House: c.house(p), Planets: []models.Planet{p},
			Tightness: 1 - astro.Separation(c.pos(p).Longitude, astro.DeepExaltation(p))/30}}
	case astro.Moolatrikona, astro.OwnSign:
		return []Match{{House: c.house(p), Planets: []models.Planet{p}, Tightness: 0.7}}
	}
	return nil
}

// moonFlank matches when planets occupy exactly the given houses from the Moon.
// Sunapha (2), Anapha (12) and Durudhara (2 and 12) are mutually exclusive.
func moonFlank(houses ...int) func(*Context) []Match {
	return func(c *Context) []Match {
		second := occupants(starPlanets, c.fromMoon, 2)
		twelfth := occupants(starPlanets, c.fromMoon, 12)
		has2, has12 := len(second) > 0, len(twelfth) > 0
		want2, want12 := contains(houses, 2), contains(houses, 12)
		if has2 != want2 || has12 != want12 {
			return nil
		}
		planets := append(append([]models.Planet{models.Moon}, second...), twelfth...)
		return []Match{{
			House:     c.house(models.Moon),
			Planets:   planets,
			Tightness: float64(len(planets)-1) / float64(len(starPlanets)),
		}}
	}
}

func sunFlank(houses ...int) func(*Context) []Match {
	candidates := starPlanets
	return func(c *Context) []Match {
		second := occupants(candidates, c.fromSun, 2)
		twelfth := occupants(candidates, c.fromSun, 12)
		has2, has12 := len(second) > 0, len(twelfth) > 0
		want2, want12 := contains(houses, 2), contains(houses, 12)
		if has2 != want2 || has12 != want12 {
			return nil
		}
		planets := append(append([]models.Planet{models.Sun}, second...), twelfth...)
		return []Match{{
			House:     c.house(models.Sun),
			Planets:   planets,
			Tightness: float64(len(planets)-1) / float64(len(candidates)),
		}}
	}
}

func kemadruma(c *Context) []Match {
	if len(occupants(starPlanets, c.fromMoon, 1, 2, 4, 7, 10, 12)) > 0 {
		return nil
	}
	return []Match{{House: c.house(models.Moon), Planets: []models.Planet{models.Moon}, Tightness: 1}}
}

func adhi(c *Context) []Match {
	found := occupants(benefics, c.fromMoon, 6, 7, 8)
	if len(found) < 2 {
		return nil
	}
	return []Match{{
		House:     c.house(models.Moon),
		Planets:   append([]models.Planet{models.Moon}, found...),
		Tightness: float64(len(found)) / float64(len(benefics)),
	}}
}

func amala(c *Context) []Match {
	found := occupants(benefics, c.house, 10)
	if len(found) == 0 {
		return nil
	}
	return []Match{{House: 10, Planets: found, Tightness: 0.5 + 0.5*float64(len(found)-1)/2}}
}

func lakshmi(c *Context) []Match {
	ninth := c.lord(9)
	lagnaLord := c.lord(1)
	h := c.house(ninth)
	if !c.strongSign(ninth) || !(astro.IsKendra(h) || astro.IsTrikona(h)) {
		return nil
	}
	if c.Strength[lagnaLord] < 50 {
		return nil
	}
	planets := []models.Planet{ninth}
	if lagnaLord != ninth {
		planets = append(planets, lagnaLord)
	}
	return []Match{{House: h, Planets: planets, Tightness: 1 - astro.Separation(c.pos(ninth).Longitude, astro.DeepExaltation(ninth))/180}}
}

func raja(c *Context) []Match {
	var out []Match
	seen := map[[2]models.Planet]bool{}
	for _, k := range []int{1, 4, 7, 10} {
		for _, t := range []int{1, 5, 9} {
			if k == t {
				continue
			}
			a, b := c.lord(k), c.lord(t)
			if a == b || !c.conjunct(a, b) {
				continue
			}
			key := [2]models.Planet{min(a, b), max(a, b)}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Match{House: c.house(a), Planets: []models.Planet{key[0], key[1]}, Tightness: c.conjunctionTightness(a, b)})
		}
	}
	return out
}

func dhana(c *Context) []Match {
	a, b := c.lord(2), c.lord(11)
	if a == b {
		return nil
	}
	switch {
	case c.conjunct(a, b):
		return []Match{{House: c.house(a), Planets: []models.Planet{a, b}, Tightness: c.conjunctionTightness(a, b)}}
	case c.house(a) == 11 && c.house(b) == 2:
		return []Match{{House: 11, Planets: []models.Planet{a, b}, Tightness: 1}}
	}
	return nil
}

func viparitaRaja(c *Context) []Match {
	var out []Match
	for _, h := range dusthanas {
		l := c.lord(h)
		placed := c.house(l)
		if placed == h || !contains(dusthanas, placed) {
			continue
		}
		out = append(out, Match{House: placed, Planets: []models.Planet{l}, Tightness: 0.6})
	}
	return out
}

func parivartana(c *Context) []Match {
	var out []Match
	for i, a := range models.ClassicalPlanets {
		for _, b := range models.ClassicalPlanets[i+1:] {
			if astro.SignLord(c.sign(a)) == b && astro.SignLord(c.sign(b)) == a {
				out = append(out, Match{House: c.house(a), Planets: []models.Planet{a, b}, Tightness: 0.8})
			}
		}
	}
	return out
}

func neechaBhanga(c *Context) []Match {
	var out []Match
	for _, p := range models.ClassicalPlanets {
		if !c.debilitated(p) {
			continue
		}
		dispositor := astro.SignLord(c.sign(p))
		exaltLord := astro.SignLord(astro.ExaltationSign(p))
		var cancel []models.Planet
		for _, q := range []models.Planet{dispositor, exaltLord} {
			if q == p || containsPlanet(cancel, q) {
				continue
			}
			if isKendra(c.house(q)) || isKendra(c.fromMoon(q)) {
				cancel = append(cancel, q)
			}
		}
		if len(cancel) == 0 {
			continue
		}
		out = append(out, Match{
			House:     c.house(p),
			Planets:   append([]models.Planet{p}, cancel...),
			Tightness: 0.5 * float64(len(cancel)),
		})
	}
	return out
}

func kalaSarpa(c *Context) []Match {
	rahu := c.pos(models.Rahu).Longitude
	var ahead, behind int
	for _, p := range models.ClassicalPlanets {
		d := astro.Normalize(c.pos(p).Longitude - rahu)
		if d > 0 && d < 180 {
			ahead++
		} else if d > 180 {
			behind++
		}
	}
	n := len(models.ClassicalPlanets)
	if ahead != n && behind != n {
		return nil
	}
	return []Match{{
		House:     c.house(models.Rahu),
		Planets:   append([]models.Planet{}, nodes...),
		Tightness: 1,
	}}
}

func shakata(c *Context) []Match {
	h := c.fromMoon(models.Jupiter)
	if !contains(dusthanas, h) {
		return nil
	}
	return []Match{{House: c.house(models.Jupiter), Planets: []models.Planet{models.Moon, models.Jupiter}, Tightness: 0.5}}
}

func withNode(planets ...models.Planet) func(*Context) []Match {
	return func(c *Context) []Match {
		var out []Match
		for _, p := range planets {
			for _, n := range nodes {
				if c.conjunct(p, n) {
					out = append(out, Match{House: c.house(p), Planets: []models.Planet{p, n}, Tightness: c.conjunctionTightness(p, n)})
				}
			}
		}
		return out
	}
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func containsPlanet(xs []models.Planet, v models.Planet) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
