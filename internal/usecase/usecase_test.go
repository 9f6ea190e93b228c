package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kundali/internal/domain/models"
	domsvc "Kundali/internal/domain/service"
	"Kundali/internal/services/ephemeris"
	"Kundali/pkg/cache"
	pkgkafka "Kundali/pkg/kafka"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func delhi() models.BirthDetails {
	return models.BirthDetails{
		Date:      "1990-05-15",
		Time:      "14:30",
		Latitude:  28.6139,
		Longitude: 77.2090,
		Timezone:  "Asia/Kolkata",
	}
}

type recordingSink struct {
	mu      sync.Mutex
	records []*models.ChartRecord
	err     error
}

func (s *recordingSink) Submit(r *models.ChartRecord) error {
	return s.Process(context.Background(), r)
}

func (s *recordingSink) Process(_ context.Context, r *models.ChartRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, r)
	return nil
}

func (s *recordingSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type stubPredictor struct {
	calls int
	err   error
}

func (p *stubPredictor) Name() string { return "stub" }

func (p *stubPredictor) Predict(_ context.Context, values []float64) (models.PredictionResult, error) {
	p.calls++
	if p.err != nil {
		return models.PredictionResult{}, p.err
	}
	return models.NewPredictionResult(models.ScoresFromValues([8]float64{50, 50, 50, 50, 50, 50, 50, 50}), "stub"), nil
}

type brokenEphemeris struct{}

func (brokenEphemeris) Name() string { return "broken" }
func (brokenEphemeris) Positions(context.Context, float64) (domsvc.TropicalPositions, error) {
	return nil, errors.New("connection refused")
}

func newGenerator(t *testing.T, parallel bool, opts ...GeneratorOption) *ChartGenerator {
	t.Helper()
	opts = append([]GeneratorOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	g, err := NewChartGenerator(ephemeris.NewAnalytic(), GeneratorConfig{
		Ayanamsa:          "lahiri",
		DashaHorizonYears: 120,
		Parallel:          parallel,
	}, opts...)
	require.NoError(t, err)
	return g
}

func TestGenerate_DelhiScenario(t *testing.T) {
	k, err := newGenerator(t, true).Generate(context.Background(), delhi(), Options{})
	require.NoError(t, err)

	assert.Equal(t, "Virgo", k.Ascendant.SignName)
	sun := k.Position(models.Sun)
	assert.Equal(t, "Taurus", sun.SignName)
	assert.Equal(t, "Krittika", sun.NakshatraName)
	assert.Equal(t, 2, sun.Pada)
	assert.Equal(t, 9, sun.House)
	assert.False(t, k.Approximate)

	assert.Equal(t, models.Sun, k.Dasha.StartPlanet)
	require.NotNil(t, k.Dasha.CurrentMaha)
	require.NotNil(t, k.Dasha.CurrentAntar)
	assert.Len(t, k.Strengths, 7)
	assert.Len(t, k.HouseLords, 12)
	assert.Len(t, k.Vargas, 16)
	assert.Equal(t, len(k.Yogas), k.YogaSummary.Total)

	assert.Len(t, k.Features.Values, models.FeatureCount)
	assert.Equal(t, "v1", k.Features.Version)
	assert.NotEmpty(t, k.ID)
	assert.Equal(t, fixedNow, k.GeneratedAt)
}

func TestGenerate_EveryPlanetInOneHouse(t *testing.T) {
	k, err := newGenerator(t, false).Generate(context.Background(), delhi(), Options{})
	require.NoError(t, err)

	seen := map[models.Planet]int{}
	for n := 1; n <= 12; n++ {
		h := k.Houses.House(n)
		assert.Equal(t, (k.Ascendant.Sign+n-1)%12, h.Sign)
		for _, p := range h.Planets {
			seen[p]++
		}
	}
	assert.Len(t, seen, models.PlanetCount)
	for p, n := range seen {
		assert.Equal(t, 1, n, p.String())
	}
}

func TestGenerate_UnknownTimeIsApproximate(t *testing.T) {
	b := delhi()
	b.Time = ""
	b.TimeUnknown = true

	k, err := newGenerator(t, true).Generate(context.Background(), b, Options{})
	require.NoError(t, err)
	assert.True(t, k.Approximate)
	assert.NotEmpty(t, k.Ascendant.SignName)
	assert.Equal(t, 1.0, k.Features.Values[52])
	assert.Equal(t, 12, k.Moment.Local.Hour())
}

func TestGenerate_PolarBoundary(t *testing.T) {
	g := newGenerator(t, true)
	b := delhi()

	b.Latitude = 90
	_, err := g.Generate(context.Background(), b, Options{})
	assert.ErrorIs(t, err, models.ErrAscendantComputation)

	b.Latitude = 90.0001
	_, err = g.Generate(context.Background(), b, Options{})
	assert.ErrorIs(t, err, models.ErrInvalidCoordinates)
}

func TestGenerate_SequentialAndParallelIdentical(t *testing.T) {
	opts := Options{ReferenceDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	seq, err := newGenerator(t, false).Generate(context.Background(), delhi(), opts)
	require.NoError(t, err)
	par, err := newGenerator(t, true).Generate(context.Background(), delhi(), opts)
	require.NoError(t, err)

	a, err := json.Marshal(seq)
	require.NoError(t, err)
	b, err := json.Marshal(par)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestGenerate_InvalidOptions(t *testing.T) {
	g := newGenerator(t, true)
	_, err := g.Generate(context.Background(), delhi(), Options{Ayanamsa: "tropical"})
	assert.ErrorIs(t, err, ErrInvalidOption)

	_, err = g.Generate(context.Background(), delhi(), Options{Vargas: []string{"D99"}})
	assert.ErrorIs(t, err, ErrInvalidOption)

	k, err := g.Generate(context.Background(), delhi(), Options{Vargas: []string{"D9"}, Ayanamsa: "raman"})
	require.NoError(t, err)
	require.Len(t, k.Vargas, 1)
	assert.Equal(t, "raman", k.AyanamsaModel)
}

func TestGenerate_EphemerisFailure(t *testing.T) {
	g, err := NewChartGenerator(brokenEphemeris{}, GeneratorConfig{})
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), delhi(), Options{})
	assert.ErrorIs(t, err, models.ErrEphemerisUnavailable)
}

func TestGenerate_CacheAndSink(t *testing.T) {
	mem := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	defer mem.Close()
	sink := &recordingSink{}
	g := newGenerator(t, true, WithCache(mem, time.Hour), WithSink(sink))

	first, err := g.Generate(context.Background(), delhi(), Options{})
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), delhi(), Options{})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Features.Values, second.Features.Values)
	assert.Equal(t, 1, mem.Len())
	assert.Equal(t, 1, sink.len(), "cached charts are not re-emitted")

	_, err = g.Generate(context.Background(), delhi(), Options{SkipCache: true})
	require.NoError(t, err)
	assert.Equal(t, 2, sink.len())
}

func TestGenerate_SinkFailureDoesNotFailRequest(t *testing.T) {
	g := newGenerator(t, true, WithSink(&recordingSink{err: errors.New("kafka down")}))
	_, err := g.Generate(context.Background(), delhi(), Options{})
	require.NoError(t, err)
}

func TestChartKey_IgnoresClockWhenTimeUnknown(t *testing.T) {
	ref := referenceDay(time.Time{}, fixedNow)
	a := delhi()
	a.TimeUnknown = true
	b := a
	b.Time = "03:00"
	assert.Equal(t, chartKey(a, ref, "lahiri", nil), chartKey(b, ref, "lahiri", nil))
	assert.NotEqual(t, chartKey(a, ref, "lahiri", nil), chartKey(a, ref, "raman", nil))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ref)
}

func TestPredictionService_Predict(t *testing.T) {
	sink := &recordingSink{}
	pred := &stubPredictor{}
	svc := NewPredictionService(newGenerator(t, true, WithSink(sink)), pred, nil, nil)

	out, err := svc.Predict(context.Background(), delhi(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 50.0, out.Result.AverageScore)
	assert.Equal(t, 1, pred.calls)
	require.Equal(t, 1, sink.len())
	require.NotNil(t, sink.records[0].Prediction)
	assert.Equal(t, "stub", svc.Model())
}

func TestPredictionService_ModelsNotLoaded(t *testing.T) {
	sink := &recordingSink{}
	pred := &stubPredictor{err: models.ErrModelsNotLoaded}
	svc := NewPredictionService(newGenerator(t, true, WithSink(sink)), pred, nil, nil)

	_, err := svc.Predict(context.Background(), delhi(), Options{})
	assert.ErrorIs(t, err, models.ErrModelsNotLoaded)
	require.Equal(t, 1, sink.len())
	assert.Nil(t, sink.records[0].Prediction)
}

func TestPredictionService_ScoreChecksLengthFirst(t *testing.T) {
	pred := &stubPredictor{}
	svc := NewPredictionService(newGenerator(t, true), pred, nil, nil)

	_, err := svc.Score(context.Background(), make([]float64, 52))
	assert.ErrorIs(t, err, models.ErrFeatureCountMismatch)
	assert.Zero(t, pred.calls)
}

func TestChartSink_JoinsBackendErrors(t *testing.T) {
	s := NewChartSink(nil, nil, nil)
	assert.False(t, s.Enabled())
	assert.NoError(t, s.ProcessBatch(context.Background(), nil))
	assert.Error(t, s.Process(context.Background(), nil))
}

func TestChartRequestsHandler(t *testing.T) {
	sink := &recordingSink{}
	g := newGenerator(t, true)
	h := NewChartRequestsHandler("chart.requests", g, NewPredictionService(g, &stubPredictor{}, nil, nil), sink, nil, nil)
	assert.Equal(t, "chart.requests", h.Topic())

	msg := `{"request_id":"r-1","predict":true,"birth":{"date":"1990-05-15","time":"14:30",` +
		`"latitude":28.6139,"longitude":77.209,"timezone":"Asia/Kolkata"}}`
	require.NoError(t, h.Handle(context.Background(), []byte(msg)))
	require.Equal(t, 1, sink.len())
	assert.Equal(t, "r-1", sink.records[0].RequestID)
	assert.NotNil(t, sink.records[0].Prediction)
}

func TestChartRequestsHandler_PermanentFailures(t *testing.T) {
	h := NewChartRequestsHandler("t", newGenerator(t, true), nil, &recordingSink{}, nil, nil)

	cases := map[string]string{
		"not json":        `{`,
		"no request id":   `{"birth":{"date":"1990-05-15","latitude":1,"longitude":1}}`,
		"missing date":    `{"request_id":"r","birth":{"latitude":1,"longitude":1}}`,
		"bad coordinates": `{"request_id":"r","birth":{"date":"1990-05-15","latitude":91,"longitude":1}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			err := h.Handle(context.Background(), []byte(body))
			require.Error(t, err)
			assert.True(t, pkgkafka.IsPermanent(err))
		})
	}
}

func TestChartRequestsHandler_SinkErrorIsRetryable(t *testing.T) {
	h := NewChartRequestsHandler("t", newGenerator(t, true), nil, &recordingSink{err: errors.New("clickhouse down")}, nil, nil)
	err := h.Handle(context.Background(), []byte(`{"request_id":"r","birth":{"date":"1990-05-15","latitude":1,"longitude":1}}`))
	require.Error(t, err)
	assert.False(t, pkgkafka.IsPermanent(err))
}
