package models

import "time"

// DashaLevel is the nesting level of a Vimshottari period.
type DashaLevel string

const (
	DashaMaha  DashaLevel = "maha"
	DashaAntar DashaLevel = "antar"
)

// DashaPeriod is one Maha or Antar dasha.
type DashaPeriod struct {
	Planet Planet        `json:"planet"`
	Level  DashaLevel    `json:"level"`
	Start  time.Time     `json:"start"`
	End    time.Time     `json:"end"`
	Years  float64       `json:"years"`
	Days   float64       `json:"days"`
	Antar  []DashaPeriod `json:"antar,omitempty"`
}

// Contains reports whether t falls in [Start, End).
func (p DashaPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// DashaTimeline is the generated Vimshottari schedule.
type DashaTimeline struct {
	MoonNakshatra     int           `json:"moon_nakshatra"`
	NakshatraFraction float64       `json:"nakshatra_fraction"` // elapsed part of the birth nakshatra
	StartPlanet       Planet        `json:"start_planet"`
	BalanceYears      float64       `json:"balance_years"`
	ReferenceDate     time.Time     `json:"reference_date"`
	CurrentMaha       *DashaPeriod  `json:"current_maha,omitempty"`
	CurrentAntar      *DashaPeriod  `json:"current_antar,omitempty"`
	Periods           []DashaPeriod `json:"periods"`
}
