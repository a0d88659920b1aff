// Package event publishes scrape lifecycle events to Kafka. Publishing is
// best-effort: the ingestion pipeline never fails because an event could not
// be delivered.
package event

import (
	"context"
	"log/slog"

	"github.com/Zinedinarnaut/torqueindex/internal/domain"
	"github.com/Zinedinarnaut/torqueindex/pkg/kafka"
	applogger "github.com/Zinedinarnaut/torqueindex/pkg/logger"
)

const (
	source = "torqueindex"

	// TopicScrapeEvents carries scrape.completed and store.synced events.
	TopicScrapeEvents = "torqueindex.scrape.events"
)

// StoreSyncedData is the payload of a store.synced event.
type StoreSyncedData struct {
	StoreID  string `json:"store_id"`
	ModCount int    `json:"mod_count"`
}

// Producer emits scrape events through the shared Kafka producer.
type Producer struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewProducer wraps a Kafka producer for scrape event publishing.
func NewProducer(producer *kafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{producer: producer, logger: logger}
}

// PublishStoreSynced announces that one store's catalog was reconciled.
func (p *Producer) PublishStoreSynced(ctx context.Context, storeID string, modCount int) error {
	event, err := kafka.NewEvent("store.synced", storeID, "store", source, StoreSyncedData{
		StoreID:  storeID,
		ModCount: modCount,
	})
	if err != nil {
		return err
	}
	return p.publish(ctx, event)
}

// PublishScrapeCompleted announces that a full scrape job finished.
func (p *Producer) PublishScrapeCompleted(ctx context.Context, stats domain.ScrapeStats) error {
	event, err := kafka.NewEvent("scrape.completed", "scrape", "scrape_job", source, stats)
	if err != nil {
		return err
	}
	return p.publish(ctx, event)
}

func (p *Producer) publish(ctx context.Context, event *kafka.Event) error {
	if id := applogger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}
	return p.producer.Publish(ctx, TopicScrapeEvents, event)
}
