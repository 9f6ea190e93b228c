package models

// FeatureCount is the fixed length of the model input vector.
const FeatureCount = 53

// FeatureVector is the ordered model input. Index order is a versioned contract.
type FeatureVector struct {
	Version string    `json:"version"`
	Names   []string  `json:"names,omitempty"`
	Values  []float64 `json:"values"`
}

// Scores are the eight model outputs, each in [0,100].
type Scores struct {
	CareerPotential      float64 `json:"career_potential"`
	WealthPotential      float64 `json:"wealth_potential"`
	MarriageHappiness    float64 `json:"marriage_happiness"`
	ChildrenProspects    float64 `json:"children_prospects"`
	HealthStatus         float64 `json:"health_status"`
	SpiritualInclination float64 `json:"spiritual_inclination"`
	ChartStrength        float64 `json:"chart_strength"`
	LifeEaseScore        float64 `json:"life_ease_score"`
}

// ScoreNames lists the model outputs in contract order.
var ScoreNames = [8]string{
	"career_potential", "wealth_potential", "marriage_happiness", "children_prospects",
	"health_status", "spiritual_inclination", "chart_strength", "life_ease_score",
}

// Values returns the scores in contract order.
func (s Scores) Values() [8]float64 {
	return [8]float64{
		s.CareerPotential, s.WealthPotential, s.MarriageHappiness, s.ChildrenProspects,
		s.HealthStatus, s.SpiritualInclination, s.ChartStrength, s.LifeEaseScore,
	}
}

// ScoresFromValues builds Scores from a contract-ordered array.
func ScoresFromValues(v [8]float64) Scores {
	return Scores{
		CareerPotential:      v[0],
		WealthPotential:      v[1],
		MarriageHappiness:    v[2],
		ChildrenProspects:    v[3],
		HealthStatus:         v[4],
		SpiritualInclination: v[5],
		ChartStrength:        v[6],
		LifeEaseScore:        v[7],
	}
}

// PredictionResult is the model output plus the mean of its eight scores.
type PredictionResult struct {
	Scores
	AverageScore float64 `json:"average_score"`
	Model        string  `json:"model,omitempty"`
}

// NewPredictionResult computes the average of s.
func NewPredictionResult(s Scores, model string) PredictionResult {
	var sum float64
	for _, v := range s.Values() {
		sum += v
	}
	return PredictionResult{Scores: s, AverageScore: sum / 8, Model: model}
}
