// internal/models/driver.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Driver is the single actor of the system. Accounts are soft-deleted via
// IsDeleted and rows are never removed, so usernames and emails stay
// reserved forever.
type Driver struct {
	UniqueID      uuid.UUID `json:"uniqueId" gorm:"type:uuid;primaryKey"`
	FullName      string    `json:"fullName"`
	Username      string    `json:"username" gorm:"uniqueIndex;not null"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null"`
	Password      string    `json:"-" gorm:"not null"` // bcrypt hash, set once at registration
	Phone         string    `json:"phone"`
	IsActive      bool      `json:"isActive" gorm:"default:true"`
	IsDeleted     bool      `json:"isDeleted" gorm:"default:false"`
	CreatedDate   time.Time `json:"createdDate" gorm:"autoCreateTime"`
	AccountNumber uint      `json:"accountNumber" gorm:"uniqueIndex"`

	Trips []Trip `json:"trips,omitempty" gorm:"foreignKey:DriverID;references:UniqueID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (d *Driver) BeforeCreate(tx *gorm.DB) error {
	if d.UniqueID == uuid.Nil {
		d.UniqueID = uuid.New()
	}
	return nil
}
