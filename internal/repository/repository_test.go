package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kundali/internal/domain/models"
	pkgkafka "Kundali/pkg/kafka"
)

func sampleRecord() *models.ChartRecord {
	p := models.NewPredictionResult(models.ScoresFromValues([8]float64{10, 20, 30, 40, 50, 60, 70, 80}), "linear-v1")
	return &models.ChartRecord{
		ChartID:     "c-1",
		RequestID:   "req-9",
		GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Birth: models.BirthDetails{
			Date: "1990-05-15", Time: "14:30", Latitude: 28.6139, Longitude: 77.209, Timezone: "Asia/Kolkata",
		},
		AyanamsaModel:  "lahiri",
		AscendantSign:  5,
		MoonNakshatra:  12,
		MahaDasha:      models.Jupiter,
		AntarDasha:     models.Saturn,
		Yogas:          models.YogaSummary{Total: 4},
		FeatureVersion: "v1",
		Features:       make([]float64, models.FeatureCount),
		Prediction:     &p,
	}
}

func TestInsertQuery_ListsEveryColumn(t *testing.T) {
	q := insertQuery("kundali.chart_features")
	assert.True(t, strings.HasPrefix(q, "INSERT INTO kundali.chart_features (chart_id, request_id"))
	assert.Equal(t, len(featureColumns)-1, strings.Count(q, ","))
}

func TestRecordArgs_MatchesColumns(t *testing.T) {
	r := sampleRecord()
	args := recordArgs(r)
	require.Len(t, args, len(featureColumns))

	assert.Equal(t, "c-1", args[0])
	assert.Equal(t, uint8(models.Jupiter), args[13])
	assert.Equal(t, uint8(1), args[18])
	assert.Equal(t, "linear-v1", args[19])
	assert.Equal(t, 80.0, args[len(args)-1])
}

func TestRecordArgs_NoPrediction(t *testing.T) {
	r := sampleRecord()
	r.Prediction = nil
	args := recordArgs(r)
	assert.Equal(t, uint8(0), args[18])
	assert.Equal(t, "", args[19])
	assert.Equal(t, 0.0, args[20])
}

func TestValidateRecord(t *testing.T) {
	require.NoError(t, validateRecord(sampleRecord()))
	require.Error(t, validateRecord(nil))

	r := sampleRecord()
	r.ChartID = ""
	require.Error(t, validateRecord(r))

	r = sampleRecord()
	r.Features = r.Features[:52]
	err := validateRecord(r)
	assert.Equal(t, models.CodeFeatureCountMismatch, models.CodeOf(err))
}

func TestSchemaStatements(t *testing.T) {
	stmts := SchemaStatements("kundali", "chart_features")
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[1], "CREATE TABLE IF NOT EXISTS kundali.chart_features")
	for _, col := range featureColumns {
		assert.Contains(t, stmts[1], "\n    "+col+" ", col)
	}
}

type fakeProducer struct {
	topic string
	msgs  []pkgkafka.Message
	err   error
}

func (f *fakeProducer) PublishBatch(_ context.Context, topic string, msgs []pkgkafka.Message) error {
	f.topic = topic
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeProducer) Close() error { return nil }

func TestKafkaPublisher_PublishChart(t *testing.T) {
	fp := &fakeProducer{}
	p := &KafkaPublisher{producer: fp, topic: "chart.generated"}

	require.NoError(t, p.PublishChart(context.Background(), sampleRecord()))
	require.Len(t, fp.msgs, 1)
	assert.Equal(t, "chart.generated", fp.topic)
	assert.Equal(t, []byte("c-1"), fp.msgs[0].Key)
	assert.Equal(t, "event", fp.msgs[0].Headers[0].Key)
	assert.Equal(t, []byte("req-9"), fp.msgs[0].Headers[1].Value)
}

func TestKafkaPublisher_PropagatesError(t *testing.T) {
	fp := &fakeProducer{err: errors.New("broker down")}
	p := &KafkaPublisher{producer: fp, topic: "t"}
	require.Error(t, p.PublishBatch(context.Background(), []*models.ChartRecord{sampleRecord(), nil}))
	assert.Len(t, fp.msgs, 1)
}
