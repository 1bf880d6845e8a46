// internal/models/log_sheet.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LogSheet records location and cycle usage at a point during a trip.
// The owning trip never changes after creation; LogNumber is a global
// sequence over the whole table, not per trip.
type LogSheet struct {
	UniqueID         uuid.UUID `json:"uniqueId" gorm:"type:uuid;primaryKey"`
	TripID           uuid.UUID `json:"tripId" gorm:"type:uuid;index;not null"`
	CurrentLocation  string    `json:"currentLocation" gorm:"not null"`
	Pickup           *string   `json:"pickup"`
	Dropoff          *string   `json:"dropoff"`
	CurrentCycleUsed *string   `json:"currentCycleUsed"`
	CreatedDate      time.Time `json:"createdDate" gorm:"autoCreateTime"`
	LogNumber        uint      `json:"logNumber" gorm:"uniqueIndex"`
}

func (l *LogSheet) BeforeCreate(tx *gorm.DB) error {
	if l.UniqueID == uuid.Nil {
		l.UniqueID = uuid.New()
	}
	return nil
}
