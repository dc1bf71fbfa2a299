package models

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatusHistory struct {
	ID         string      `gorm:"type:char(36);primaryKey" json:"id"`
	OrderID    string      `gorm:"type:char(36);not null;index" json:"order_id"`
	FromStatus OrderStatus `gorm:"type:varchar(20);not null" json:"from_status"`
	ToStatus   OrderStatus `gorm:"type:varchar(20);not null" json:"to_status"`
	ChangedBy  string      `gorm:"type:char(36)" json:"changed_by"`
	CreatedAt  time.Time   `gorm:"not null" json:"created_at"`
}

func (h *OrderStatusHistory) BeforeCreate(tx *gorm.DB) error {
	h.ID = newID(h.ID)
	return nil
}
