package ephemeris

import (
	"context"
	"math"

	"Kundali/internal/domain/models"
	"Kundali/internal/domain/service"
	"Kundali/internal/services/astro"
)

const deg = math.Pi / 180

// Analytic computes apparent tropical longitudes from closed-form series:
// a low-precision solar theory, the principal lunar terms, the mean lunar
// node and Keplerian elements for the planets. Accuracy is well under a
// degree across 1800..2050 and degrades gracefully outside it.
type Analytic struct{}

// NewAnalytic returns the built-in ephemeris.
func NewAnalytic() *Analytic { return &Analytic{} }

var _ service.Ephemeris = (*Analytic)(nil)

// Name identifies the ephemeris in logs and metrics.
func (a *Analytic) Name() string { return "analytic" }

// Positions returns tropical longitudes for Sun..Rahu at jd. Ketu is left to the caller.
func (a *Analytic) Positions(ctx context.Context, jd float64) (service.TropicalPositions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t := astro.JulianCenturies(jd)
	earth := heliocentric(elements[earthIdx], t)

	out := service.TropicalPositions{
		models.Sun:  sunLongitude(t),
		models.Moon: moonLongitude(t),
		models.Rahu: meanNode(t),
	}
	for p, idx := range planetElements {
		out[p] = geocentric(heliocentric(elements[idx], t), earth, t)
	}
	return out, nil
}

func sunLongitude(t float64) float64 {
	l0 := 280.46646 + 36000.76983*t + 0.0003032*t*t
	m := (357.52911 + 35999.05029*t - 0.0001537*t*t) * deg
	c := (1.914602-0.004817*t-0.000014*t*t)*math.Sin(m) +
		(0.019993-0.000101*t)*math.Sin(2*m) +
		0.000289*math.Sin(3*m)
	omega := (125.04 - 1934.136*t) * deg
	return astro.Normalize(l0 + c - 0.00569 - 0.00478*math.Sin(omega))
}

// lunarTerm is one periodic term of the Moon's longitude; coefficients in 1e-6 degree.
type lunarTerm struct {
	d, m, mp, f float64
	coeff       float64
}

var lunarTerms = []lunarTerm{
	{0, 0, 1, 0, 6288774}, {2, 0, -1, 0, 1274027}, {2, 0, 0, 0, 658314},
	{0, 0, 2, 0, 213618}, {0, 1, 0, 0, -185116}, {0, 0, 0, 2, -114332},
	{2, 0, -2, 0, 58793}, {2, -1, -1, 0, 57066}, {2, 0, 1, 0, 53322},
	{2, -1, 0, 0, 45758}, {0, 1, -1, 0, -40923}, {1, 0, 0, 0, -34720},
	{0, 1, 1, 0, -30383}, {2, 0, 0, -2, 15327}, {0, 0, 1, 2, -12528},
	{0, 0, 1, -2, 10980}, {4, 0, -1, 0, 10675}, {0, 0, 3, 0, 10034},
	{4, 0, -2, 0, 8548}, {2, 1, -1, 0, -7888}, {2, 1, 0, 0, -6766},
	{1, 0, -1, 0, -5163}, {1, 1, 0, 0, 4987}, {2, -1, 1, 0, 4036},
	{2, 0, 2, 0, 3994}, {4, 0, 0, 0, 3861}, {2, 0, -3, 0, 3665},
	{0, 1, -2, 0, -2689}, {2, 0, -1, 2, -2602}, {2, -1, -2, 0, 2390},
	{1, 0, 1, 0, -2348}, {2, -2, 0, 0, 2236},
}

func moonLongitude(t float64) float64 {
	t2, t3, t4 := t*t, t*t*t, t*t*t*t
	lp := 218.3164477 + 481267.88123421*t - 0.0015786*t2 + t3/538841 - t4/65194000
	d := 297.8501921 + 445267.1114034*t - 0.0018819*t2 + t3/545868 - t4/113065000
	m := 357.5291092 + 35999.0502909*t - 0.0001536*t2 + t3/24490000
	mp := 134.9633964 + 477198.8675055*t + 0.0087414*t2 + t3/69699 - t4/14712000
	f := 93.2720950 + 483202.0175233*t - 0.0036539*t2 - t3/3526000 + t4/863310000
	e := 1 - 0.002516*t - 0.0000074*t2
	a1 := 119.75 + 131.849*t
	a2 := 53.09 + 479264.290*t

	var sum float64
	for _, term := range lunarTerms {
		arg := (term.d*d + term.m*m + term.mp*mp + term.f*f) * deg
		sum += term.coeff * math.Pow(e, math.Abs(term.m)) * math.Sin(arg)
	}
	sum += 3958*math.Sin(a1*deg) + 1962*math.Sin((lp-f)*deg) + 318*math.Sin(a2*deg)
	return astro.Normalize(lp + sum/1e6)
}

func meanNode(t float64) float64 {
	t2 := t * t
	return astro.Normalize(125.0445479 - 1934.1362891*t + 0.0020754*t2 +
		t2*t/467441 - t2*t2/60616000)
}

// orbit holds J2000 Keplerian elements and their rates per century:
// semi-major axis, eccentricity, inclination, mean longitude,
// longitude of perihelion, longitude of ascending node.
type orbit struct {
	base [6]float64
	rate [6]float64
}

const (
	mercuryIdx = iota
	venusIdx
	earthIdx
	marsIdx
	jupiterIdx
	saturnIdx
)

var elements = [...]orbit{
	mercuryIdx: {
		[6]float64{0.38709927, 0.20563593, 7.00497902, 252.25032350, 77.45779628, 48.33076593},
		[6]float64{0.00000037, 0.00001906, -0.00594749, 149472.67411175, 0.16047689, -0.12534081},
	},
	venusIdx: {
		[6]float64{0.72333566, 0.00677672, 3.39467605, 181.97909950, 131.60246718, 76.67984255},
		[6]float64{0.00000390, -0.00004107, -0.00078890, 58517.81538729, 0.00268329, -0.27769418},
	},
	earthIdx: {
		[6]float64{1.00000261, 0.01671123, -0.00001531, 100.46457166, 102.93768193, 0},
		[6]float64{0.00000562, -0.00004392, -0.01294668, 35999.37244981, 0.32327364, 0},
	},
	marsIdx: {
		[6]float64{1.52371034, 0.09339410, 1.84969142, -4.55343205, -23.94362959, 49.55953891},
		[6]float64{0.00001847, 0.00007882, -0.00813131, 19140.30268499, 0.44441088, -0.29257343},
	},
	jupiterIdx: {
		[6]float64{5.20288700, 0.04838624, 1.30439695, 34.39644051, 14.72847983, 100.47390909},
		[6]float64{-0.00011607, -0.00013253, -0.00183714, 3034.74612775, 0.21252668, 0.20469106},
	},
	saturnIdx: {
		[6]float64{9.53667594, 0.05386179, 2.48599187, 49.95424423, 92.59887831, 113.66242448},
		[6]float64{-0.00125060, -0.00050991, 0.00193609, 1222.49362201, -0.54179478, -0.28867794},
	},
}

var planetElements = map[models.Planet]int{
	models.Mercury: mercuryIdx,
	models.Venus:   venusIdx,
	models.Mars:    marsIdx,
	models.Jupiter: jupiterIdx,
	models.Saturn:  saturnIdx,
}

type vec3 struct{ x, y, z float64 }

func heliocentric(o orbit, t float64) vec3 {
	var el [6]float64
	for i := range el {
		el[i] = o.base[i] + o.rate[i]*t
	}
	a, e, inc, l, peri, node := el[0], el[1], el[2]*deg, el[3], el[4], el[5]

	m := astro.Normalize(l - peri)
	if m > 180 {
		m -= 360
	}
	mr := m * deg
	ea := mr + e*math.Sin(mr)
	for i := 0; i < 30; i++ {
		d := (mr - (ea - e*math.Sin(ea))) / (1 - e*math.Cos(ea))
		ea += d
		if math.Abs(d) < 1e-12 {
			break
		}
	}

	xp := a * (math.Cos(ea) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ea)

	w := (peri - node) * deg
	om := node * deg
	cw, sw := math.Cos(w), math.Sin(w)
	co, so := math.Cos(om), math.Sin(om)
	ci, si := math.Cos(inc), math.Sin(inc)

	return vec3{
		x: (cw*co-sw*so*ci)*xp + (-sw*co-cw*so*ci)*yp,
		y: (cw*so+sw*co*ci)*xp + (-sw*so+cw*co*ci)*yp,
		z: sw*si*xp + cw*si*yp,
	}
}

// geocentric converts a J2000 heliocentric vector to an ecliptic-of-date longitude.
func geocentric(p, earth vec3, t float64) float64 {
	lon := math.Atan2(p.y-earth.y, p.x-earth.x) / deg
	return astro.Normalize(lon + 1.3969713*t)
}
