package yoga

import (
	"math"

	"Kundali/internal/domain/models"
	"Kundali/internal/services/astro"
)

// nodeStrength stands in for Rahu and Ketu, which carry no Shad Bala.
const nodeStrength = 50.0

// Match is one firing of a rule.
type Match struct {
	House     int
	Planets   []models.Planet
	Tightness float64 // 0..1, how exact the configuration is
}

// Rule is a named predicate over a chart.
type Rule struct {
	ID             string
	Name           string
	Nature         models.YogaNature
	LagnaDependent bool
	Description    string
	Eval           func(*Context) []Match
}

// Context is the read-only view rules evaluate against.
type Context struct {
	Chart    *models.Chart
	Strength map[models.Planet]float64
}

// Detector evaluates a fixed rule table.
type Detector struct {
	rules []Rule
}

// NewDetector uses the built-in rule table.
func NewDetector() *Detector {
	return &Detector{rules: Rules()}
}

// NewDetectorWithRules evaluates only rules.
func NewDetectorWithRules(rules []Rule) *Detector {
	return &Detector{rules: rules}
}

// Detect runs every rule. strength maps planets to Shad Bala percentages.
// Output order follows the rule table, so identical charts give identical slices.
// On an approximate chart a record is approximate when its rule depends on the
// ascendant or it reports a house, since houses are counted from the ascendant.
func (d *Detector) Detect(chart *models.Chart, strength map[models.Planet]float64) []models.YogaRecord {
	ctx := &Context{Chart: chart, Strength: strength}
	out := []models.YogaRecord{}
	for _, r := range d.rules {
		for _, m := range r.Eval(ctx) {
			out = append(out, models.YogaRecord{
				ID:          r.ID,
				Name:        r.Name,
				House:       m.House,
				Planets:     m.Planets,
				Strength:    ctx.score(m),
				Nature:      r.Nature,
				Description: r.Description,
				Approximate: chart.Approximate && (r.LagnaDependent || m.House != 0),
			})
		}
	}
	return out
}

func (c *Context) score(m Match) float64 {
	var sum float64
	for _, p := range m.Planets {
		if p.IsNode() {
			sum += nodeStrength
			continue
		}
		sum += c.Strength[p]
	}
	mean := 0.0
	if len(m.Planets) > 0 {
		mean = sum / float64(len(m.Planets))
	}
	v := 0.6*mean + 40*clamp01(m.Tightness)
	return math.Max(0, math.Min(100, v))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (c *Context) pos(p models.Planet) models.PlanetPosition { return c.Chart.Planets[p] }

func (c *Context) sign(p models.Planet) int { return c.Chart.Planets[p].Sign }

func (c *Context) house(p models.Planet) int { return c.Chart.Planets[p].House }

// fromMoon counts the house of p from the Moon's sign.
func (c *Context) fromMoon(p models.Planet) int {
	return models.HouseFrom(c.sign(models.Moon), c.sign(p))
}

func (c *Context) fromSun(p models.Planet) int {
	return models.HouseFrom(c.sign(models.Sun), c.sign(p))
}

// lord returns the ruler of lagna house n.
func (c *Context) lord(n int) models.Planet {
	return astro.SignLord(c.Chart.Houses.House(n).Sign)
}

func (c *Context) conjunct(a, b models.Planet) bool { return c.sign(a) == c.sign(b) }

func (c *Context) opposed(a, b models.Planet) bool {
	return models.HouseFrom(c.sign(a), c.sign(b)) == 7
}

func (c *Context) dignity(p models.Planet) astro.Dignity { return astro.DignityOf(p, c.sign(p)) }

func (c *Context) debilitated(p models.Planet) bool { return c.dignity(p) == astro.Debilitated }

func (c *Context) strongSign(p models.Planet) bool {
	d := c.dignity(p)
	return d == astro.Exalted || d == astro.Moolatrikona || d == astro.OwnSign
}

var combustOrb = map[models.Planet]float64{
	models.Moon: 12, models.Mars: 17, models.Mercury: 14,
	models.Jupiter: 11, models.Venus: 10, models.Saturn: 15,
}

func (c *Context) combust(p models.Planet) bool {
	orb, ok := combustOrb[p]
	if !ok {
		return false
	}
	return astro.Separation(c.pos(p).Longitude, c.pos(models.Sun).Longitude) < orb
}

// orbTightness is 1 at exact angle and falls to 0 at width degrees away.
func (c *Context) orbTightness(a, b models.Planet, angle, width float64) float64 {
	dev := math.Abs(astro.Separation(c.pos(a).Longitude, c.pos(b).Longitude) - angle)
	return clamp01(1 - dev/width)
}

func (c *Context) conjunctionTightness(a, b models.Planet) float64 {
	return c.orbTightness(a, b, 0, 30)
}

// occupants lists planets from candidates whose house from ref matches one of houses.
func occupants(candidates []models.Planet, from func(models.Planet) int, houses ...int) []models.Planet {
	var out []models.Planet
	for _, p := range candidates {
		h := from(p)
		for _, want := range houses {
			if h == want {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func isKendra(h int) bool { return astro.IsKendra(h) }
