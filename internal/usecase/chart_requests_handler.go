package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"Kundali/internal/domain/models"
	drepo "Kundali/internal/domain/repository"
	xhttp "Kundali/pkg/http"
	pkgkafka "Kundali/pkg/kafka"
	applogger "Kundali/pkg/logger"
)

// ChartRequestMessage is the payload of the chart.requests topic.
type ChartRequestMessage struct {
	RequestID string              `json:"request_id"`
	Birth     models.ChartRequest `json:"birth"`
	Predict   bool                `json:"predict"`
}

// RecordProcessor writes a record synchronously.
type RecordProcessor interface {
	Process(ctx context.Context, r *models.ChartRecord) error
}

// ChartRequestsHandler generates charts for queued requests and writes the
// results through the sink. Sink failures are returned so the consumer retries.
type ChartRequestsHandler struct {
	topic       string
	gen         *ChartGenerator
	predictions *PredictionService
	sink        RecordProcessor
	metrics     drepo.Metrics
	log         *applogger.Logger
}

// NewChartRequestsHandler creates the handler. predictions may be nil.
func NewChartRequestsHandler(topic string, gen *ChartGenerator, predictions *PredictionService, sink RecordProcessor, metrics drepo.Metrics, log *applogger.Logger) *ChartRequestsHandler {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	if log == nil {
		log = applogger.NewNop()
	}
	return &ChartRequestsHandler{topic: topic, gen: gen, predictions: predictions, sink: sink, metrics: metrics, log: log}
}

func (h *ChartRequestsHandler) Topic() string { return h.topic }

func (h *ChartRequestsHandler) Handle(ctx context.Context, b []byte) error {
	start := time.Now()
	var m ChartRequestMessage
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return pkgkafka.Permanent(fmt.Errorf("decode chart request: %w", err))
	}
	if m.RequestID == "" {
		h.metrics.RecordError("consumer_validate")
		return pkgkafka.Permanent(errors.New("chart request: request_id is required"))
	}
	if verrs := xhttp.ValidateStruct(ctx, &m.Birth); len(verrs) > 0 {
		h.metrics.RecordError("consumer_validate")
		return pkgkafka.Permanent(fmt.Errorf("chart request %s: %s: %s", m.RequestID, verrs[0].Field, verrs[0].Message))
	}

	k, _, err := h.gen.generate(ctx, m.Birth.Birth(), OptionsFrom(&m.Birth))
	if err != nil {
		if models.IsValidationError(err) || errors.Is(err, ErrInvalidOption) {
			return pkgkafka.Permanent(fmt.Errorf("chart request %s: %w", m.RequestID, err))
		}
		return fmt.Errorf("chart request %s: %w", m.RequestID, err)
	}

	var pred *models.PredictionResult
	if m.Predict && h.predictions != nil {
		res, err := h.predictions.Score(ctx, k.Features.Values)
		if err != nil {
			h.log.Warn("queued prediction skipped",
				applogger.String("request_id", m.RequestID),
				applogger.String("chart_id", k.ID),
				applogger.Error(err),
			)
		} else {
			pred = &res
		}
	}

	r := models.NewChartRecord(k, pred)
	r.RequestID = m.RequestID
	if err := h.sink.Process(ctx, r); err != nil {
		h.metrics.RecordError("consumer_sink")
		return fmt.Errorf("chart request %s: %w", m.RequestID, err)
	}
	h.metrics.RecordLatency("consume", time.Since(start))
	return nil
}

var _ pkgkafka.MessageHandler = (*ChartRequestsHandler)(nil)
