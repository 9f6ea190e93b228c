package repository

import (
	"context"

	"github.com/segmentio/kafka-go"

	"Kundali/internal/domain/models"
	domrepo "Kundali/internal/domain/repository"
	pkgkafka "Kundali/pkg/kafka"
)

// EventChartGenerated is the event type header of published charts.
const EventChartGenerated = "chart.generated"

type producer interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaPublisher emits chart records keyed by chart id.
type KafkaPublisher struct {
	producer producer
	topic    string
}

var _ domrepo.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a publisher writing to topic.
func NewKafkaPublisher(p *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: p, topic: topic}
}

func (p *KafkaPublisher) PublishChart(ctx context.Context, r *models.ChartRecord) error {
	return p.PublishBatch(ctx, []*models.ChartRecord{r})
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, rs []*models.ChartRecord) error {
	if len(rs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(rs))
	for _, r := range rs {
		if r == nil {
			continue
		}
		msgs = append(msgs, chartMessage(r))
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func chartMessage(r *models.ChartRecord) pkgkafka.Message {
	headers := []kafka.Header{{Key: "event", Value: []byte(EventChartGenerated)}}
	if r.RequestID != "" {
		headers = append(headers, kafka.Header{Key: "request_id", Value: []byte(r.RequestID)})
	}
	return pkgkafka.Message{
		Key:     []byte(r.ChartID),
		Value:   r,
		Headers: headers,
	}
}
