package models

import "time"

// ChartRecord is what a generated chart leaves behind for downstream sinks.
type ChartRecord struct {
	ChartID        string            `json:"chart_id"`
	RequestID      string            `json:"request_id,omitempty"`
	GeneratedAt    time.Time         `json:"generated_at"`
	Birth          BirthDetails      `json:"birth"`
	Approximate    bool              `json:"approximate"`
	AyanamsaModel  string            `json:"ayanamsa_model"`
	AscendantSign  int               `json:"ascendant_sign"`
	MoonNakshatra  int               `json:"moon_nakshatra"`
	MahaDasha      Planet            `json:"maha_dasha"`
	AntarDasha     Planet            `json:"antar_dasha"`
	Yogas          YogaSummary       `json:"yogas"`
	FeatureVersion string            `json:"feature_version"`
	Features       []float64         `json:"features"`
	Prediction     *PredictionResult `json:"prediction,omitempty"`
}

// NewChartRecord flattens k into a record. p may be nil.
func NewChartRecord(k *Kundali, p *PredictionResult) *ChartRecord {
	r := &ChartRecord{
		ChartID:        k.ID,
		GeneratedAt:    k.GeneratedAt,
		Birth:          k.Birth,
		Approximate:    k.Approximate,
		AyanamsaModel:  k.AyanamsaModel,
		AscendantSign:  k.Ascendant.Sign,
		Yogas:          k.YogaSummary,
		FeatureVersion: k.Features.Version,
		Features:       k.Features.Values,
		Prediction:     p,
	}
	if len(k.Planets) > int(Moon) {
		r.MoonNakshatra = k.Planets[Moon].Nakshatra
	}
	if k.Dasha.CurrentMaha != nil {
		r.MahaDasha = k.Dasha.CurrentMaha.Planet
	}
	if k.Dasha.CurrentAntar != nil {
		r.AntarDasha = k.Dasha.CurrentAntar.Planet
	}
	return r
}
