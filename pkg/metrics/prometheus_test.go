package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWith(reg)

	r.RecordChart(true)
	r.RecordChart(false)
	r.RecordChart(false)
	r.RecordError("ERR_INVALID_TIMEZONE")
	r.RecordError("")
	r.RecordPrediction("linear-v1", nil)
	r.RecordPrediction("http", errors.New("down"))
	r.RecordSink("clickhouse", nil)
	r.RecordCache(true)
	r.RecordLatency("dasha", 3*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.charts.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.charts.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.predictions.WithLabelValues("http", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheHits.WithLabelValues("hit")))

	n, err := testutil.GatherAndCount(reg, "kundali_stage_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
