package models

import (
	"time"

	"gorm.io/gorm"
)

// Company is the tenant. Every other record is scoped to one.
type Company struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	CompanyName string    `gorm:"type:varchar(255);not null" json:"company_name"`
	Ruc         string    `gorm:"type:varchar(32);not null;uniqueIndex" json:"ruc"`
	Email       string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	c.ID = newID(c.ID)
	return nil
}
