// internal/models/trip.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trip is a journey recorded by a driver. TripNumber is a human-facing
// sequence assigned at creation over the whole trips table, never reused.
type Trip struct {
	UniqueID     uuid.UUID `json:"uniqueId" gorm:"type:uuid;primaryKey"`
	DriverID     uuid.UUID `json:"driverId" gorm:"type:uuid;index;not null"`
	TripTitle    string    `json:"tripTitle" gorm:"not null"`
	Pickup       string    `json:"pickup"`
	Dropoff      *string   `json:"dropoff"`
	CycleUsed    *string   `json:"cycleUsed"`
	Instructions *string   `json:"instructions" gorm:"type:text"`
	CreatedDate  time.Time `json:"createdDate" gorm:"autoCreateTime"`
	TripNumber   uint      `json:"tripNumber" gorm:"uniqueIndex"`

	LogSheets []LogSheet `json:"logSheets,omitempty" gorm:"foreignKey:TripID;references:UniqueID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (t *Trip) BeforeCreate(tx *gorm.DB) error {
	if t.UniqueID == uuid.Nil {
		t.UniqueID = uuid.New()
	}
	return nil
}
