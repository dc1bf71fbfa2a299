package models

import (
	"time"

	"gorm.io/gorm"
)

// Table is a physical table. TableNumber is unique within a company.
type Table struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	TableNumber int       `gorm:"not null;uniqueIndex:idx_company_table_number" json:"table_number"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	Location    string    `gorm:"type:varchar(255)" json:"location"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CompanyID   string    `gorm:"type:char(36);not null;uniqueIndex:idx_company_table_number" json:"company_id"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (t *Table) BeforeCreate(tx *gorm.DB) error {
	t.ID = newID(t.ID)
	return nil
}
