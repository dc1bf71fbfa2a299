package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	EventSessionOpened      = "session.opened"
	EventSessionClosed      = "session.closed"
	EventOrderAdded         = "order.added"
	EventOrderStatusChanged = "order.status_changed"
)

// OutboxEvent is written in the same transaction as the change it describes
// and picked up later by the relay.
type OutboxEvent struct {
	ID          string     `gorm:"type:char(36);primaryKey" json:"id"`
	CompanyID   string     `gorm:"type:char(36);not null;index" json:"company_id"`
	EventType   string     `gorm:"type:varchar(64);not null" json:"event_type"`
	AggregateID string     `gorm:"type:char(36);not null" json:"aggregate_id"`
	Payload     string     `gorm:"type:text;not null" json:"payload"`
	Processed   bool       `gorm:"not null;index:idx_outbox_processed" json:"processed"`
	CreatedAt   time.Time  `gorm:"not null;index:idx_outbox_processed" json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at"`
}

func (e *OutboxEvent) BeforeCreate(tx *gorm.DB) error {
	e.ID = newID(e.ID)
	return nil
}
