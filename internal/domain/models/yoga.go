package models

// YogaNature is the static benefic/malefic classification of a yoga.
type YogaNature string

const (
	NatureBenefic YogaNature = "benefic"
	NatureMalefic YogaNature = "malefic"
	NatureNeutral YogaNature = "neutral"
)

// YogaRecord is one detected planetary combination.
type YogaRecord struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	House       int        `json:"house"`
	Planets     []Planet   `json:"planets"`
	Strength    float64    `json:"strength"` // 0-100
	Nature      YogaNature `json:"nature"`
	Description string     `json:"description"`
	Approximate bool       `json:"approximate"` // existence or house depends on an unreliable ascendant
}

// YogaSummary aggregates detected yogas.
type YogaSummary struct {
	Total        int     `json:"total"`
	Benefic      int     `json:"benefic"`
	Malefic      int     `json:"malefic"`
	Neutral      int     `json:"neutral"`
	MeanStrength float64 `json:"mean_strength"`
}

// Summarize counts yogas by nature.
func Summarize(yogas []YogaRecord) YogaSummary {
	var s YogaSummary
	var sum float64
	for _, y := range yogas {
		s.Total++
		sum += y.Strength
		switch y.Nature {
		case NatureBenefic:
			s.Benefic++
		case NatureMalefic:
			s.Malefic++
		default:
			s.Neutral++
		}
	}
	if s.Total > 0 {
		s.MeanStrength = sum / float64(s.Total)
	}
	return s
}
