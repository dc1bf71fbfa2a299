package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
)

// OrderStatuses lists every status in pipeline order.
var OrderStatuses = []OrderStatus{OrderPending, OrderPreparing, OrderReady, OrderServed}

func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Order is one line of a session. UnitPrice is copied from the menu item
// when the order is placed and never follows later price changes.
type Order struct {
	ID             string          `gorm:"type:char(36);primaryKey" json:"id"`
	TableSessionID string          `gorm:"type:char(36);not null;index" json:"table_session_id"`
	TableSession   *TableSession   `gorm:"foreignKey:TableSessionID" json:"table_session,omitempty"`
	MenuItemID     string          `gorm:"type:char(36);not null;index" json:"menu_item_id"`
	MenuItem       *MenuItem       `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	Notes          string          `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	o.ID = newID(o.ID)
	return nil
}
