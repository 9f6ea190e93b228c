package models

// Requests for chart HTTP endpoints. Defined in domain for consistency and reuse.

type ChartRequest struct {
	Date          string   `query:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Time          string   `query:"time" json:"time" validate:"omitempty,datetime=15:04"`
	TimeUnknown   bool     `query:"time_unknown" json:"time_unknown"`
	Latitude      *float64 `query:"latitude" json:"latitude" validate:"required"`
	Longitude     *float64 `query:"longitude" json:"longitude" validate:"required"`
	Timezone      string   `query:"timezone" json:"timezone" default:"UTC" validate:"required"`
	ReferenceDate string   `query:"reference_date" json:"reference_date" validate:"omitempty,datetime=2006-01-02"`
	Ayanamsa      string   `query:"ayanamsa" json:"ayanamsa" validate:"omitempty,oneof=lahiri raman krishnamurti fagan_bradley"`
	Vargas        []string `query:"vargas" json:"vargas" validate:"omitempty,max=16,dive,required"`
	NoCache       bool     `query:"no_cache" json:"no_cache"`
}

type PredictionRequest struct {
	ChartRequest
	IncludeChart bool `json:"include_chart"`
}

// DashaQuery is the GET form of a chart request. Coordinates are plain values
// so the equator and the prime meridian stay expressible.
type DashaQuery struct {
	Date          string  `query:"date" validate:"required,datetime=2006-01-02"`
	Time          string  `query:"time" validate:"omitempty,datetime=15:04"`
	Latitude      float64 `query:"latitude"`
	Longitude     float64 `query:"longitude"`
	Timezone      string  `query:"timezone" default:"UTC" validate:"required"`
	ReferenceDate string  `query:"reference_date" validate:"omitempty,datetime=2006-01-02"`
}

// Birth converts the request into core input. Missing time means unknown time.
func (r *ChartRequest) Birth() BirthDetails {
	b := BirthDetails{
		Date:        r.Date,
		Time:        r.Time,
		TimeUnknown: r.TimeUnknown || r.Time == "",
		Timezone:    r.Timezone,
	}
	if r.Latitude != nil {
		b.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		b.Longitude = *r.Longitude
	}
	return b
}

// Birth converts the query into core input.
func (q *DashaQuery) Birth() BirthDetails {
	return BirthDetails{
		Date:        q.Date,
		Time:        q.Time,
		TimeUnknown: q.Time == "",
		Latitude:    q.Latitude,
		Longitude:   q.Longitude,
		Timezone:    q.Timezone,
	}
}
