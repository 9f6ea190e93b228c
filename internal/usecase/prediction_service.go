package usecase

import (
	"context"
	"time"

	"Kundali/internal/domain/models"
	drepo "Kundali/internal/domain/repository"
	domsvc "Kundali/internal/domain/service"
	"Kundali/internal/services/features"
	applogger "Kundali/pkg/logger"
)

// Prediction is a generated chart plus its model scores.
type Prediction struct {
	Kundali *models.Kundali
	Result  models.PredictionResult
}

// PredictionService chains chart generation, feature extraction and scoring.
type PredictionService struct {
	gen       *ChartGenerator
	predictor domsvc.Predictor
	metrics   drepo.Metrics
	log       *applogger.Logger
}

// NewPredictionService creates the service.
func NewPredictionService(gen *ChartGenerator, predictor domsvc.Predictor, metrics drepo.Metrics, log *applogger.Logger) *PredictionService {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	if log == nil {
		log = applogger.NewNop()
	}
	return &PredictionService{gen: gen, predictor: predictor, metrics: metrics, log: log}
}

// Model returns the name of the backing predictor.
func (s *PredictionService) Model() string {
	return s.predictor.Name()
}

// Predict generates the chart for b and scores its feature vector. The record
// sent to the sink carries the prediction when scoring succeeds.
func (s *PredictionService) Predict(ctx context.Context, b models.BirthDetails, opts Options) (*Prediction, error) {
	k, fresh, err := s.gen.generate(ctx, b, opts)
	if err != nil {
		return nil, err
	}

	res, err := s.Score(ctx, k.Features.Values)
	if err != nil {
		s.log.Warn("prediction failed",
			applogger.String("chart_id", k.ID),
			applogger.String("model", s.predictor.Name()),
			applogger.Error(err),
		)
		if fresh {
			s.gen.emit(models.NewChartRecord(k, nil))
		}
		return nil, err
	}

	s.gen.emit(models.NewChartRecord(k, &res))
	return &Prediction{Kundali: k, Result: res}, nil
}

// Score runs the predictor on a raw vector. The length contract is checked
// before the predictor is called.
func (s *PredictionService) Score(ctx context.Context, values []float64) (models.PredictionResult, error) {
	if err := features.CheckLength(values); err != nil {
		s.metrics.RecordError(string(models.CodeFeatureCountMismatch))
		return models.PredictionResult{}, err
	}
	start := time.Now()
	res, err := s.predictor.Predict(ctx, values)
	s.metrics.RecordPrediction(s.predictor.Name(), err)
	s.metrics.RecordLatency("predict", time.Since(start))
	if err != nil {
		if code := models.CodeOf(err); code != "" {
			s.metrics.RecordError(string(code))
		}
		return models.PredictionResult{}, err
	}
	return res, nil
}
