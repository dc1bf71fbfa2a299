package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleFrontdesk  Role = "frontdesk"
	RoleBackoffice Role = "backoffice"
)

// Valid reports whether r is one of the known staff roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFrontdesk, RoleBackoffice:
		return true
	}
	return false
}

type User struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      Role      `gorm:"type:varchar(20);not null" json:"role"`
	CompanyID string    `gorm:"type:char(36);not null;index" json:"company_id"`
	Company   *Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.ID = newID(u.ID)
	return nil
}
