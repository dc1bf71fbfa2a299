package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionOpen   SessionStatus = "open"
	SessionClosed SessionStatus = "closed"
)

// TableSession is one occupancy of a table, from opening to billing.
//
// OpenTableNumber mirrors TableNumber while the session is open and is NULL
// once it is closed. The unique index over (company_id, open_table_number)
// keeps a single open session per table at the storage level.
type TableSession struct {
	ID              string          `gorm:"type:char(36);primaryKey" json:"id"`
	TableNumber     int             `gorm:"not null;index" json:"table_number"`
	Status          SessionStatus   `gorm:"type:varchar(10);not null;index" json:"status"`
	StartTime       time.Time       `gorm:"not null" json:"start_time"`
	EndTime         *time.Time      `json:"end_time"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	CompanyID       string          `gorm:"type:char(36);not null;index;uniqueIndex:idx_open_table_per_company" json:"company_id"`
	OpenTableNumber *int            `gorm:"uniqueIndex:idx_open_table_per_company" json:"-"`
	CreatedBy       string          `gorm:"type:char(36)" json:"created_by"`
	Orders          []Order         `gorm:"foreignKey:TableSessionID" json:"orders,omitempty"`
	CreatedAt       time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updated_at"`
}

func (s *TableSession) BeforeCreate(tx *gorm.DB) error {
	s.ID = newID(s.ID)
	return nil
}

func (s *TableSession) IsOpen() bool {
	return s.Status == SessionOpen
}
