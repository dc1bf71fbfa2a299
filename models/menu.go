package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuItem struct {
	ID          string          `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string          `gorm:"type:varchar(100);not null" json:"category"`
	IsAvailable bool            `gorm:"not null;index" json:"is_available"`
	CompanyID   string          `gorm:"type:char(36);not null;index" json:"company_id"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	m.ID = newID(m.ID)
	return nil
}
