package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder records chart pipeline metrics in Prometheus.
type Recorder struct {
	charts      *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	predictions *prometheus.CounterVec
	sideEffects *prometheus.CounterVec
	cacheHits   *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the recorder's collectors on reg.
func NewWith(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		charts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kundali_charts_generated_total",
				Help: "Charts generated, by approximation flag",
			},
			[]string{"approximate"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kundali_errors_total",
				Help: "Errors by code",
			},
			[]string{"code"},
		),
		predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kundali_predictions_total",
				Help: "Prediction calls by model and result",
			},
			[]string{"model", "result"},
		),
		sideEffects: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kundali_sink_writes_total",
				Help: "Event and feature-store writes by sink and result",
			},
			[]string{"sink", "result"},
		),
		cacheHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kundali_cache_lookups_total",
				Help: "Chart cache lookups by result",
			},
			[]string{"result"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kundali_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"stage"},
		),
	}
}

// RecordChart counts a generated chart.
func (r *Recorder) RecordChart(approximate bool) {
	r.charts.WithLabelValues(strconv.FormatBool(approximate)).Inc()
}

// RecordError records an error occurrence by code.
func (r *Recorder) RecordError(code string) {
	if code == "" {
		code = "unknown"
	}
	r.errorsTotal.WithLabelValues(code).Inc()
}

// RecordPrediction counts a prediction call.
func (r *Recorder) RecordPrediction(model string, err error) {
	r.predictions.WithLabelValues(model, result(err)).Inc()
}

// RecordSink counts a write to an event bus or store.
func (r *Recorder) RecordSink(sink string, err error) {
	r.sideEffects.WithLabelValues(sink, result(err)).Inc()
}

// RecordCache counts a cache lookup.
func (r *Recorder) RecordCache(hit bool) {
	if hit {
		r.cacheHits.WithLabelValues("hit").Inc()
		return
	}
	r.cacheHits.WithLabelValues("miss").Inc()
}

// RecordLatency records stage latency.
func (r *Recorder) RecordLatency(stage string, d time.Duration) {
	r.latency.WithLabelValues(stage).Observe(d.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
