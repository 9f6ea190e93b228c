package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Kundali/internal/domain/models"
	drepo "Kundali/internal/domain/repository"
)

const (
	sinkKafka      = "kafka"
	sinkClickHouse = "clickhouse"
)

// ChartSink routes generated chart records to the event bus and the feature store.
// Either backend may be nil when disabled.
type ChartSink struct {
	pub     drepo.EventPublisher
	store   drepo.FeatureStore
	metrics drepo.Metrics
}

// NewChartSink creates a sink over the enabled backends.
func NewChartSink(pub drepo.EventPublisher, store drepo.FeatureStore, metrics drepo.Metrics) *ChartSink {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	return &ChartSink{pub: pub, store: store, metrics: metrics}
}

// Enabled reports whether any backend is configured.
func (s *ChartSink) Enabled() bool {
	return s.pub != nil || s.store != nil
}

// Process writes one record to every enabled backend.
func (s *ChartSink) Process(ctx context.Context, r *models.ChartRecord) error {
	if r == nil {
		return fmt.Errorf("chart record is nil")
	}
	return s.ProcessBatch(ctx, []*models.ChartRecord{r})
}

// ProcessBatch writes records to every enabled backend; failures are joined.
func (s *ChartSink) ProcessBatch(ctx context.Context, rs []*models.ChartRecord) error {
	if len(rs) == 0 {
		return nil
	}
	start := time.Now()
	var errs []error

	if s.pub != nil {
		err := s.pub.PublishBatch(ctx, rs)
		s.metrics.RecordSink(sinkKafka, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("publish charts: %w", err))
		}
	}
	if s.store != nil {
		err := s.store.SaveBatch(ctx, rs)
		s.metrics.RecordSink(sinkClickHouse, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("store features: %w", err))
		}
	}

	s.metrics.RecordLatency("sink", time.Since(start))
	return errors.Join(errs...)
}

// Close closes underlying resources if available.
func (s *ChartSink) Close() {
	if s.pub != nil {
		_ = s.pub.Close()
	}
	if s.store != nil {
		_ = s.store.Close()
	}
}
