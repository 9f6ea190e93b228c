package prediction

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"Kundali/internal/domain/models"
	"Kundali/internal/domain/service"
	"Kundali/internal/services/features"
)

// Output is one linear head: logistic(intercept + sum coef*feature) scaled to 0-100.
type Output struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// LinearWeights is the on-disk model format.
type LinearWeights struct {
	Version string            `json:"version"`
	Outputs map[string]Output `json:"outputs"`
}

type head struct {
	intercept float64
	coef      [models.FeatureCount]float64
}

// LinearModel scores feature vectors with eight logistic-linear heads.
type LinearModel struct {
	version string
	heads   [8]head
}

var _ service.Predictor = (*LinearModel)(nil)

// LoadLinearModel reads and validates a weight file. Every score must have a
// head and every coefficient must name a known feature.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	var w LinearWeights
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model: %w", err)
	}
	return NewLinearModel(w)
}

// NewLinearModel compiles weights against the current feature order.
func NewLinearModel(w LinearWeights) (*LinearModel, error) {
	if w.Version != "" && w.Version != features.Version {
		return nil, fmt.Errorf("model built for features %s, have %s", w.Version, features.Version)
	}
	index := make(map[string]int, models.FeatureCount)
	for i, n := range features.Names {
		index[n] = i
	}

	m := &LinearModel{version: features.Version}
	for i, name := range models.ScoreNames {
		out, ok := w.Outputs[name]
		if !ok {
			return nil, fmt.Errorf("model has no output %q", name)
		}
		m.heads[i].intercept = out.Intercept
		for feat, c := range out.Coefficients {
			j, ok := index[feat]
			if !ok {
				return nil, fmt.Errorf("output %q references unknown feature %q", name, feat)
			}
			m.heads[i].coef[j] = c
		}
	}
	return m, nil
}

func (m *LinearModel) Name() string { return "linear-" + m.version }

func (m *LinearModel) Predict(ctx context.Context, values []float64) (models.PredictionResult, error) {
	if err := features.CheckLength(values); err != nil {
		return models.PredictionResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.PredictionResult{}, err
	}
	var out [8]float64
	for i, h := range m.heads {
		z := h.intercept
		for j, x := range values {
			z += h.coef[j] * x
		}
		out[i] = 100 / (1 + math.Exp(-z))
	}
	return models.NewPredictionResult(ClampScores(models.ScoresFromValues(out)), m.Name()), nil
}

// SampleWeights is a small hand-tuned model usable when no trained weights exist.
func SampleWeights() LinearWeights {
	strength := func(extra map[string]float64) map[string]float64 {
		c := map[string]float64{"yoga_mean_strength": 0.01, "benefic_yoga_count": 0.08, "malefic_yoga_count": -0.08}
		for k, v := range extra {
			c[k] = v
		}
		return c
	}
	return LinearWeights{
		Version: features.Version,
		Outputs: map[string]Output{
			"career_potential":      {Intercept: -2.5, Coefficients: strength(map[string]float64{"sun_strength": 0.02, "saturn_strength": 0.015, "kendra_lord_strength": 0.015})},
			"wealth_potential":      {Intercept: -2.5, Coefficients: strength(map[string]float64{"jupiter_strength": 0.02, "venus_strength": 0.015, "trikona_lord_strength": 0.015})},
			"marriage_happiness":    {Intercept: -2.0, Coefficients: strength(map[string]float64{"venus_strength": 0.025, "moon_strength": 0.01})},
			"children_prospects":    {Intercept: -2.0, Coefficients: strength(map[string]float64{"jupiter_strength": 0.03})},
			"health_status":         {Intercept: -2.5, Coefficients: strength(map[string]float64{"sun_strength": 0.015, "moon_strength": 0.015, "mars_strength": 0.01})},
			"spiritual_inclination": {Intercept: -2.0, Coefficients: strength(map[string]float64{"jupiter_strength": 0.015, "ketu_house": 0.05, "saturn_strength": 0.01})},
			"chart_strength":        {Intercept: -3.0, Coefficients: strength(map[string]float64{"kendra_lord_strength": 0.02, "trikona_lord_strength": 0.02, "retrograde_count": -0.05})},
			"life_ease_score":       {Intercept: -2.0, Coefficients: strength(map[string]float64{"moon_strength": 0.02, "malefic_yoga_count": -0.15})},
		},
	}
}

// WriteSampleModel writes SampleWeights to path.
func WriteSampleModel(path string) error {
	data, err := json.MarshalIndent(SampleWeights(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}
	return nil
}

// Unavailable always reports ModelsNotLoaded; it stands in when no model could be configured.
type Unavailable struct {
	Reason string
}

var _ service.Predictor = Unavailable{}

func (u Unavailable) Name() string { return "unavailable" }

func (u Unavailable) Predict(context.Context, []float64) (models.PredictionResult, error) {
	msg := "no prediction model loaded"
	if u.Reason != "" {
		msg += ": " + u.Reason
	}
	return models.PredictionResult{}, models.NewChartError(models.CodeModelsNotLoaded, "", msg)
}
