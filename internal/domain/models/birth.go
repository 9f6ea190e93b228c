package models

import "time"

// BirthDetails is the raw input for one chart generation.
type BirthDetails struct {
	Date        string  `json:"date"`           // YYYY-MM-DD
	Time        string  `json:"time,omitempty"` // HH:MM (24h); ignored when TimeUnknown
	TimeUnknown bool    `json:"time_unknown"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone"` // IANA name, e.g. Asia/Kolkata
}

// JulianMoment is the resolved astronomical instant of birth.
type JulianMoment struct {
	JulianDay         float64   `json:"julian_day"`          // UT based
	LocalSiderealTime float64   `json:"local_sidereal_time"` // degrees, [0,360)
	UTC               time.Time `json:"utc"`
	Local             time.Time `json:"local"`
	Approximate       bool      `json:"approximate"`
}

// LSTHours returns the local sidereal time in hours, [0,24).
func (m JulianMoment) LSTHours() float64 {
	return m.LocalSiderealTime / 15
}
