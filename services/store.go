package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yeremiapane/tablesession-api/models"
	"gorm.io/gorm"
)

const defaultTimeout = 5 * time.Second

// store bounds every persistence call by timeout.
type store struct {
	db      *gorm.DB
	timeout time.Duration
}

func newStore(db *gorm.DB, timeout time.Duration) store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return store{db: db, timeout: timeout}
}

// conn returns a session bound to a context that expires after the store
// timeout. The caller must invoke cancel.
func (s store) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// recordEvent appends an outbox row inside tx.
func recordEvent(tx *gorm.DB, companyID, eventType, aggregateID string, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	event := models.OutboxEvent{
		CompanyID:   companyID,
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     string(b),
	}
	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to record %s event: %w", eventType, err)
	}
	return nil
}
