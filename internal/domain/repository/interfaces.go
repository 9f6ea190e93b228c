package repository

import (
	"context"
	"time"

	"Kundali/internal/domain/models"
)

// EventPublisher emits chart.generated events.
type EventPublisher interface {
	PublishChart(ctx context.Context, r *models.ChartRecord) error
	PublishBatch(ctx context.Context, rs []*models.ChartRecord) error
	Close() error
}

// Metrics is the subset of the metrics recorder used by the use cases.
type Metrics interface {
	RecordChart(approximate bool)
	RecordError(code string)
	RecordPrediction(model string, err error)
	RecordSink(sink string, err error)
	RecordCache(hit bool)
	RecordLatency(stage string, d time.Duration)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) RecordChart(bool)                    {}
func (NopMetrics) RecordError(string)                  {}
func (NopMetrics) RecordPrediction(string, error)      {}
func (NopMetrics) RecordSink(string, error)            {}
func (NopMetrics) RecordCache(bool)                    {}
func (NopMetrics) RecordLatency(string, time.Duration) {}
