package models

// Motion describes apparent planetary motion relative to its mean daily motion.
type Motion string

const (
	MotionDirect     Motion = "direct"
	MotionRetrograde Motion = "retrograde"
	MotionStationary Motion = "stationary"
)

// PlanetPosition is one graha's sidereal placement.
type PlanetPosition struct {
	Planet        Planet  `json:"planet"`
	Longitude     float64 `json:"longitude"`
	Sign          int     `json:"sign"`
	SignName      string  `json:"sign_name"`
	SignDegree    float64 `json:"sign_degree"`
	Nakshatra     int     `json:"nakshatra"`
	NakshatraName string  `json:"nakshatra_name"`
	Pada          int     `json:"pada"`
	House         int     `json:"house"`
	Speed         float64 `json:"speed"` // degrees per day
	Motion        Motion  `json:"motion"`
}

// Ascendant is the rising point (always house 1 under whole-sign houses).
type Ascendant struct {
	Longitude     float64 `json:"longitude"`
	Sign          int     `json:"sign"`
	SignName      string  `json:"sign_name"`
	SignDegree    float64 `json:"sign_degree"`
	Nakshatra     int     `json:"nakshatra"`
	NakshatraName string  `json:"nakshatra_name"`
	Pada          int     `json:"pada"`
}

// House is one whole-sign bhava.
type House struct {
	Number   int      `json:"number"`
	Sign     int      `json:"sign"`
	SignName string   `json:"sign_name"`
	Lord     Planet   `json:"lord"`
	Planets  []Planet `json:"planets"`
}

// HouseTable holds houses 1..12 at indices 0..11.
type HouseTable [12]House

// House returns house n (1-based).
func (t *HouseTable) House(n int) *House {
	return &t[((n-1)%12+12)%12]
}

// Chart is the natal chart core: moment, ascendant, planets and houses.
type Chart struct {
	ID            string           `json:"id"`
	Birth         BirthDetails     `json:"birth"`
	Moment        JulianMoment     `json:"moment"`
	Approximate   bool             `json:"approximate"`
	AyanamsaModel string           `json:"ayanamsa_model"`
	Ayanamsa      float64          `json:"ayanamsa"`
	Ascendant     Ascendant        `json:"ascendant"`
	Planets       []PlanetPosition `json:"planets"` // indexed by Planet
	Houses        HouseTable       `json:"houses"`
}

// Position returns the placement of p.
func (c *Chart) Position(p Planet) PlanetPosition {
	return c.Planets[p]
}

// HouseFrom counts houses from `from` to `to` inclusively (same house = 1).
func HouseFrom(from, to int) int {
	return ((to-from)%12+12)%12 + 1
}
