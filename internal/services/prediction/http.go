package prediction

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"Kundali/internal/domain/models"
	"Kundali/internal/domain/service"
	"Kundali/internal/services/features"
	xhttp "Kundali/pkg/http"
)

type predictRequest struct {
	Features []float64 `json:"features"`
}

// HTTPPredictor calls a model server: POST {base}/predict {"features": [...53]}
// and expects the eight scores as a flat JSON object.
type HTTPPredictor struct {
	base     *xhttp.ServiceBase
	attempts int
}

var _ service.Predictor = (*HTTPPredictor)(nil)

// NewHTTPPredictor builds a model-server client. retries is the number of extra
// attempts on transient failures.
func NewHTTPPredictor(baseURL string, timeout time.Duration, retries int, opts ...xhttp.ClientOption) *HTTPPredictor {
	if retries < 0 {
		retries = 0
	}
	return &HTTPPredictor{
		base:     xhttp.NewServiceBase(baseURL, timeout, opts...),
		attempts: retries + 1,
	}
}

func (h *HTTPPredictor) Name() string { return "http" }

func (h *HTTPPredictor) Predict(ctx context.Context, values []float64) (models.PredictionResult, error) {
	if err := features.CheckLength(values); err != nil {
		return models.PredictionResult{}, err
	}
	if !h.base.Configured() {
		return models.PredictionResult{}, models.NewChartError(models.CodeModelsNotLoaded, "",
			"model service url is not configured")
	}

	var scores models.Scores
	err := h.base.PostJSONWithRetry(ctx, "/predict", predictRequest{Features: values}, &scores, h.attempts)
	if err != nil {
		if xhttp.StatusCodeOf(err) == http.StatusServiceUnavailable || errors.Is(err, xhttp.ErrServiceNotConfigured) {
			return models.PredictionResult{}, models.NewChartError(models.CodeModelsNotLoaded, "",
				"model service reports models not loaded").WithError(err)
		}
		return models.PredictionResult{}, fmt.Errorf("predict: %w", err)
	}
	return models.NewPredictionResult(ClampScores(scores), h.Name()), nil
}

// ClampScores bounds every score to [0,100]; non-finite values become 0.
func ClampScores(s models.Scores) models.Scores {
	v := s.Values()
	for i, x := range v {
		switch {
		case math.IsNaN(x) || math.IsInf(x, 0) || x < 0:
			v[i] = 0
		case x > 100:
			v[i] = 100
		}
	}
	return models.ScoresFromValues(v)
}
