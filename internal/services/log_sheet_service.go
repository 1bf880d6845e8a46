package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eld_tracker/internal/apperrors"
	"eld_tracker/internal/models"
	"eld_tracker/internal/sequence"
)

// LogSheetInput carries one sheet to create, either nested in a trip or
// added to an existing one.
type LogSheetInput struct {
	CurrentLocation  string  `json:"currentLocation"`
	Pickup           *string `json:"pickup"`
	Dropoff          *string `json:"dropoff"`
	CurrentCycleUsed *string `json:"currentCycleUsed"`
}

// UpdateLogSheetInput patches one existing sheet. Nil fields are left
// unchanged; the owning trip, logNumber and createdDate never change.
type UpdateLogSheetInput struct {
	UniqueID         uuid.UUID `json:"uniqueId"`
	CurrentLocation  *string   `json:"currentLocation"`
	Pickup           *string   `json:"pickup"`
	Dropoff          *string   `json:"dropoff"`
	CurrentCycleUsed *string   `json:"currentCycleUsed"`
}

// LogSheetService is the log-sheet ledger: batch create and patch scoped
// to a trip, with global logNumber assignment.
type LogSheetService struct {
	db  *gorm.DB
	seq *sequence.Allocator
}

func NewLogSheetService(db *gorm.DB) *LogSheetService {
	return &LogSheetService{db: db, seq: sequence.New("log_sheets", "log_number")}
}

// createInTx validates and inserts one batch, recomputing logNumber as
// each sheet lands so a batch of N gets N consecutive numbers. Callers
// hold the allocator and the transaction.
func (s *LogSheetService) createInTx(tx *gorm.DB, tripID uuid.UUID, entries []LogSheetInput) ([]models.LogSheet, error) {
	created := make([]models.LogSheet, 0, len(entries))
	for _, entry := range entries {
		if entry.CurrentLocation == "" {
			return nil, fmt.Errorf("%w: currentLocation is required", apperrors.ErrValidation)
		}
		sheet := models.LogSheet{
			TripID:           tripID,
			CurrentLocation:  entry.CurrentLocation,
			Pickup:           entry.Pickup,
			Dropoff:          entry.Dropoff,
			CurrentCycleUsed: entry.CurrentCycleUsed,
		}
		next, err := s.seq.Next(tx)
		if err != nil {
			return nil, err
		}
		sheet.LogNumber = next
		if err := tx.Create(&sheet).Error; err != nil {
			return nil, err
		}
		created = append(created, sheet)
	}
	return created, nil
}

// AddLogSheets appends a batch of sheets to an existing trip. All-or-
// nothing: one invalid entry rolls the whole batch back.
func (s *LogSheetService) AddLogSheets(tripID uuid.UUID, entries []LogSheetInput) ([]models.LogSheet, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: log sheets data is required", apperrors.ErrValidation)
	}
	var trip models.Trip
	if err := s.db.First(&trip, "unique_id = ?", tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, err
	}

	release := s.seq.Acquire()
	defer release()
	var created []models.LogSheet
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = s.createInTx(tx, trip.UniqueID, entries)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateLogSheets patches a batch of sheets belonging to the given trip.
// Each sheet is looked up by both its id and the trip id: an id that
// exists under a different trip is a cross-trip mismatch, not a not-found.
// All-or-nothing: any failure rolls back every patch in the batch.
func (s *LogSheetService) UpdateLogSheets(tripID uuid.UUID, entries []UpdateLogSheetInput) ([]models.LogSheet, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: log sheets data is required", apperrors.ErrValidation)
	}
	var trip models.Trip
	if err := s.db.First(&trip, "unique_id = ?", tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, err
	}

	updated := make([]models.LogSheet, 0, len(entries))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if entry.UniqueID == uuid.Nil {
				return fmt.Errorf("%w: log sheet uniqueId is required", apperrors.ErrValidation)
			}
			var sheet models.LogSheet
			if err := tx.First(&sheet, "unique_id = ?", entry.UniqueID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.ErrLogSheetNotFound
				}
				return err
			}
			if sheet.TripID != trip.UniqueID {
				return apperrors.ErrCrossTripMismatch
			}
			if entry.CurrentLocation != nil {
				if *entry.CurrentLocation == "" {
					return fmt.Errorf("%w: currentLocation cannot be empty", apperrors.ErrValidation)
				}
				sheet.CurrentLocation = *entry.CurrentLocation
			}
			if entry.Pickup != nil {
				sheet.Pickup = entry.Pickup
			}
			if entry.Dropoff != nil {
				sheet.Dropoff = entry.Dropoff
			}
			if entry.CurrentCycleUsed != nil {
				sheet.CurrentCycleUsed = entry.CurrentCycleUsed
			}
			if err := tx.Save(&sheet).Error; err != nil {
				return err
			}
			updated = append(updated, sheet)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
