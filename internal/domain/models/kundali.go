package models

import "time"

// Kundali is the complete output of one chart generation.
type Kundali struct {
	Chart
	Dasha       DashaTimeline       `json:"dasha"`
	Yogas       []YogaRecord        `json:"yogas"`
	YogaSummary YogaSummary         `json:"yoga_summary"`
	Strengths   []StrengthBreakdown `json:"strengths"` // ClassicalPlanets order
	HouseLords  []HouseLordStrength `json:"house_lords"`
	Vargas      []DivisionalChart   `json:"vargas"`
	Vargottama  []Planet            `json:"vargottama"` // same sign in D1 and D9
	Features    FeatureVector       `json:"features"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// StrengthOf returns the breakdown for a classical planet.
func (k *Kundali) StrengthOf(p Planet) (StrengthBreakdown, bool) {
	for _, s := range k.Strengths {
		if s.Planet == p {
			return s, true
		}
	}
	return StrengthBreakdown{}, false
}

// Varga returns the divisional chart with the given id.
func (k *Kundali) Varga(id string) (DivisionalChart, bool) {
	for _, v := range k.Vargas {
		if v.ID == id {
			return v, true
		}
	}
	return DivisionalChart{}, false
}
