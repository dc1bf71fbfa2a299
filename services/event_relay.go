package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/tablesession-api/events"
	"github.com/yeremiapane/tablesession-api/models"
	"github.com/yeremiapane/tablesession-api/utils"
	"gorm.io/gorm"
)

// EventRelay polls the outbox and forwards unprocessed events to a publisher.
// Delivery is at least once: an event is marked processed only after the
// publisher accepted it.
type EventRelay struct {
	DB        *gorm.DB
	Publisher events.Publisher
	Interval  time.Duration
	BatchSize int
	StopChan  chan struct{}

	started  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
}

const (
	defaultRelayInterval = time.Second
	defaultRelayBatch    = 100
)

func NewEventRelay(db *gorm.DB, publisher events.Publisher) *EventRelay {
	return &EventRelay{
		DB:        db,
		Publisher: publisher,
		Interval:  defaultRelayInterval,
		BatchSize: defaultRelayBatch,
		StopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (r *EventRelay) Start() {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	interval := r.Interval
	if interval <= 0 {
		interval = defaultRelayInterval
	}
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := r.ProcessBatch(context.Background()); err != nil {
					utils.ErrorLogger.WithError(err).Error("event relay batch failed")
				}
			case <-r.StopChan:
				return
			}
		}
	}()
}

// Stop ends the polling loop and waits for the current batch to finish.
func (r *EventRelay) Stop() {
	r.stopOnce.Do(func() {
		close(r.StopChan)
		if r.started.Load() {
			<-r.done
		}
	})
}

// ProcessBatch publishes up to BatchSize events in creation order and
// returns how many were published. It stops at the first publish failure so
// later events do not overtake it.
func (r *EventRelay) ProcessBatch(ctx context.Context) (int, error) {
	limit := r.BatchSize
	if limit <= 0 {
		limit = defaultRelayBatch
	}

	var pending []models.OutboxEvent
	if err := r.DB.WithContext(ctx).
		Where("processed = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&pending).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch outbox events: %w", err)
	}

	published := 0
	for _, e := range pending {
		envelope := events.Envelope{
			ID:          e.ID,
			Type:        e.EventType,
			CompanyID:   e.CompanyID,
			AggregateID: e.AggregateID,
			OccurredAt:  e.CreatedAt,
			Payload:     json.RawMessage(e.Payload),
		}
		if err := r.Publisher.Publish(ctx, e.AggregateID, envelope); err != nil {
			return published, fmt.Errorf("failed to publish event %s: %w", e.ID, err)
		}

		now := time.Now()
		if err := r.DB.WithContext(ctx).Model(&models.OutboxEvent{}).
			Where("id = ?", e.ID).
			Updates(map[string]interface{}{"processed": true, "processed_at": now}).Error; err != nil {
			return published, fmt.Errorf("failed to mark event %s processed: %w", e.ID, err)
		}
		published++
	}

	if published > 0 {
		utils.InfoLogger.WithFields(logrus.Fields{"count": published}).Debug("outbox events relayed")
	}
	return published, nil
}
