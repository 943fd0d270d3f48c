package kafka

import (
	"Wellspring/internal/api/config"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// ActivityProducer 发布活动事件，按接收者分区保证同一用户的通知有序
type ActivityProducer interface {
	Publish(ctx context.Context, event *ActivityEvent) error
	Close() error
}

type activityProducerImpl struct {
	producer sarama.SyncProducer
	topic    string
}

func NewActivityProducer(cfg *config.Config) (ActivityProducer, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, saramaCfg)
	if err != nil {
		return nil, errors.Wrap(err, "create activity producer")
	}

	return &activityProducerImpl{
		producer: producer,
		topic:    cfg.KafkaActivityConsumer.Topic,
	}, nil
}

func (p *activityProducerImpl) Publish(ctx context.Context, event *ActivityEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal activity event")
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(event.ReceiverID, 10)),
		Value: sarama.ByteEncoder(value),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return errors.Wrap(err, "send activity event")
	}

	log.DebugContext(ctx, "activity event published",
		"kind", event.Kind, "receiverID", event.ReceiverID,
		"partition", partition, "offset", offset)
	return nil
}

func (p *activityProducerImpl) Close() error {
	return p.producer.Close()
}
