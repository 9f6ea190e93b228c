package prediction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kundali/internal/domain/models"
)

func vector(v float64) []float64 {
	out := make([]float64, models.FeatureCount)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestHTTPPredictor_Predict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		var req predictRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Features, models.FeatureCount)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"career_potential":80,"wealth_potential":60,"marriage_happiness":70,
			"children_prospects":50,"health_status":90,"spiritual_inclination":40,
			"chart_strength":130,"life_ease_score":-5}`))
	}))
	defer srv.Close()

	p := NewHTTPPredictor(srv.URL, 2*time.Second, 0)
	res, err := p.Predict(context.Background(), vector(1))
	require.NoError(t, err)
	assert.Equal(t, 80.0, res.CareerPotential)
	assert.Equal(t, 100.0, res.ChartStrength)
	assert.Equal(t, 0.0, res.LifeEaseScore)
	assert.InDelta(t, (80+60+70+50+90+40+100+0)/8.0, res.AverageScore, 1e-9)
	assert.Equal(t, "http", res.Model)
}

func TestHTTPPredictor_LengthCheckedBeforeCall(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	p := NewHTTPPredictor(srv.URL, time.Second, 0)
	_, err := p.Predict(context.Background(), make([]float64, 52))
	require.Error(t, err)
	assert.Equal(t, models.CodeFeatureCountMismatch, models.CodeOf(err))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestHTTPPredictor_ModelsNotLoaded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "models not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPPredictor(srv.URL, time.Second, 2).Predict(context.Background(), vector(0))
	assert.Equal(t, models.CodeModelsNotLoaded, models.CodeOf(err))

	_, err = NewHTTPPredictor("", time.Second, 0).Predict(context.Background(), vector(0))
	assert.Equal(t, models.CodeModelsNotLoaded, models.CodeOf(err))
}

func TestHTTPPredictor_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"career_potential":10}`))
	}))
	defer srv.Close()

	res, err := NewHTTPPredictor(srv.URL, time.Second, 1).Predict(context.Background(), vector(0))
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.CareerPotential)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestLinearModel_ZeroWeightsGiveFifty(t *testing.T) {
	w := LinearWeights{Outputs: map[string]Output{}}
	for _, n := range models.ScoreNames {
		w.Outputs[n] = Output{}
	}
	m, err := NewLinearModel(w)
	require.NoError(t, err)

	res, err := m.Predict(context.Background(), vector(3))
	require.NoError(t, err)
	for _, v := range res.Values() {
		assert.InDelta(t, 50, v, 1e-9)
	}
	assert.InDelta(t, 50, res.AverageScore, 1e-9)
}

func TestLinearModel_Coefficients(t *testing.T) {
	w := SampleWeights()
	w.Outputs["career_potential"] = Output{Intercept: 0, Coefficients: map[string]float64{"sun_strength": 1}}
	m, err := NewLinearModel(w)
	require.NoError(t, err)

	v := vector(0)
	v[27] = 100
	res, err := m.Predict(context.Background(), v)
	require.NoError(t, err)
	assert.Greater(t, res.CareerPotential, 99.9)

	v[27] = -100
	res, err = m.Predict(context.Background(), v)
	require.NoError(t, err)
	assert.Less(t, res.CareerPotential, 0.1)
}

func TestLinearModel_Validation(t *testing.T) {
	w := SampleWeights()
	delete(w.Outputs, "life_ease_score")
	_, err := NewLinearModel(w)
	assert.ErrorContains(t, err, "life_ease_score")

	w = SampleWeights()
	w.Outputs["health_status"] = Output{Coefficients: map[string]float64{"lucky_number": 1}}
	_, err = NewLinearModel(w)
	assert.ErrorContains(t, err, "lucky_number")

	w = SampleWeights()
	w.Version = "v0"
	_, err = NewLinearModel(w)
	assert.Error(t, err)
}

func TestLinearModel_RoundTripFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, WriteSampleModel(path))

	m, err := LoadLinearModel(path)
	require.NoError(t, err)
	assert.Equal(t, "linear-v1", m.Name())

	res, err := m.Predict(context.Background(), vector(1))
	require.NoError(t, err)
	for _, v := range res.Values() {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}

	_, err = m.Predict(context.Background(), vector(1)[:40])
	assert.Equal(t, models.CodeFeatureCountMismatch, models.CodeOf(err))

	_, err = LoadLinearModel(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{Reason: "no weights"}.Predict(context.Background(), vector(0))
	assert.ErrorIs(t, err, models.ErrModelsNotLoaded)
	assert.ErrorContains(t, err, "no weights")
}

func TestClampScores(t *testing.T) {
	s := ClampScores(models.Scores{CareerPotential: 120, WealthPotential: -1, HealthStatus: 42})
	assert.Equal(t, 100.0, s.CareerPotential)
	assert.Equal(t, 0.0, s.WealthPotential)
	assert.Equal(t, 42.0, s.HealthStatus)
}
