package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/internal/domain/notice"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

const (
	TopicAssetEvents = "asset.events"
)

type AssetEventType string

const (
	AssetSynced  AssetEventType = "asset.synced"
	AssetSkipped AssetEventType = "asset.skipped"
	AssetFailed  AssetEventType = "asset.failed"
)

// AssetEventPayload is the message written to asset.events for every
// finished background sync.
type AssetEventPayload struct {
	EventType AssetEventType `json:"event_type"`
	Notice    notice.Notice  `json:"notice"`
}

func EventTypeFor(kind notice.Kind) AssetEventType {
	switch kind {
	case notice.KindSuccess:
		return AssetSynced
	case notice.KindError:
		return AssetFailed
	}
	return AssetSkipped
}

type KafkaProducerClient struct {
	AssetEventsWriter *kafka.Writer
	logger            logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'asset.events'
	assetWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        TopicAssetEvents,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
	}

	log.Info("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{
		AssetEventsWriter: assetWriter,
		logger:            log,
	}, nil
}

// Publish implements notice.Publisher. Messages are keyed by object path so
// events for the same asset stay ordered within a partition.
func (c *KafkaProducerClient) Publish(ctx context.Context, n notice.Notice) error {
	payload := AssetEventPayload{EventType: EventTypeFor(n.Kind), Notice: n}
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal asset event: %w", err)
	}
	key := n.Bucket + "/" + n.Path
	if err := c.AssetEventsWriter.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("write asset event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.AssetEventsWriter != nil {
		c.AssetEventsWriter.Close()
	}
	c.logger.Info("Closed Kafka Producers")
}

// DecodeAssetEvent parses a message value from asset.events.
func DecodeAssetEvent(value []byte) (AssetEventPayload, error) {
	var p AssetEventPayload
	if err := json.Unmarshal(value, &p); err != nil {
		return p, fmt.Errorf("unmarshal asset event: %w", err)
	}
	return p, nil
}
