package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"eld_tracker/internal/apperrors"
	"eld_tracker/internal/models"
	"eld_tracker/internal/notify"
	"eld_tracker/internal/sequence"
)

// CreateTripInput carries a new trip, optionally with nested log sheets.
type CreateTripInput struct {
	TripTitle    string          `json:"tripTitle"`
	Pickup       string          `json:"pickup"`
	Dropoff      *string         `json:"dropoff"`
	CycleUsed    *string         `json:"cycleUsed"`
	Instructions *string         `json:"instructions"`
	LogSheets    []LogSheetInput `json:"logSheets"`
}

// TripService is the trip ledger. Ownership is resolved from the
// authenticated caller's email, never from the payload.
type TripService struct {
	db        *gorm.DB
	drivers   *DriverService
	sheets    *LogSheetService
	publisher notify.Publisher
	seq       *sequence.Allocator
}

func NewTripService(db *gorm.DB, drivers *DriverService, sheets *LogSheetService, publisher notify.Publisher) *TripService {
	return &TripService{
		db:        db,
		drivers:   drivers,
		sheets:    sheets,
		publisher: publisher,
		seq:       sequence.New("trips", "trip_number"),
	}
}

// CreateTrip persists a trip and its nested sheets in one transaction:
// either all of them land or none do. tripNumber is max+1 over all trips;
// each nested sheet gets logNumber recomputed at its own insert. Both
// allocators are held for the whole transaction so concurrent batches
// cannot interleave numbers.
func (s *TripService) CreateTrip(ownerEmail string, input CreateTripInput) (*models.Trip, error) {
	if input.TripTitle == "" || input.Pickup == "" {
		return nil, fmt.Errorf("%w: tripTitle and pickup are required", apperrors.ErrValidation)
	}
	owner, err := s.drivers.FindByEmail(ownerEmail)
	if err != nil {
		return nil, err
	}

	trip := &models.Trip{
		DriverID:     owner.UniqueID,
		TripTitle:    input.TripTitle,
		Pickup:       input.Pickup,
		Dropoff:      input.Dropoff,
		CycleUsed:    input.CycleUsed,
		Instructions: input.Instructions,
	}

	releaseTrips := s.seq.Acquire()
	defer releaseTrips()
	releaseLogs := s.sheets.seq.Acquire()
	defer releaseLogs()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		next, err := s.seq.Next(tx)
		if err != nil {
			return err
		}
		trip.TripNumber = next
		if err := tx.Create(trip).Error; err != nil {
			return err
		}
		sheets, err := s.sheets.createInTx(tx, trip.UniqueID, input.LogSheets)
		if err != nil {
			return err
		}
		trip.LogSheets = sheets
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishCreated(ownerEmail, trip)
	return trip, nil
}

// publishCreated emits trip_created to the owner's channel. Fire-and-
// forget: the trip is already committed, so nothing here can fail it.
func (s *TripService) publishCreated(email string, trip *models.Trip) {
	if s.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"uniqueId":     trip.UniqueID.String(),
		"tripTitle":    trip.TripTitle,
		"pickup":       trip.Pickup,
		"dropoff":      trip.Dropoff,
		"cycleUsed":    trip.CycleUsed,
		"instructions": trip.Instructions,
		"createdDate":  trip.CreatedDate.Format(time.RFC3339),
		"tripNumber":   trip.TripNumber,
	}
	s.publisher.Publish(notify.DriverChannel(email), "trip_created", payload)
	logrus.WithFields(logrus.Fields{
		"channel":     notify.DriverChannel(email),
		"trip_id":     trip.UniqueID,
		"trip_number": trip.TripNumber,
	}).Info("Emitted trip_created event.")
}

// ListTripsForDriver returns the driver's trip summaries without nested
// sheets, in insertion order.
func (s *TripService) ListTripsForDriver(email string) ([]models.Trip, error) {
	driver, err := s.drivers.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	var trips []models.Trip
	if err := s.db.Where("driver_id = ?", driver.UniqueID).
		Order("created_date, trip_number").
		Find(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

// GetTripByID returns a trip with its sheets, ordered by logNumber.
func (s *TripService) GetTripByID(id uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	err := s.db.Preload("LogSheets", func(db *gorm.DB) *gorm.DB {
		return db.Order("log_number")
	}).First(&trip, "unique_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTripNotFound
		}
		return nil, err
	}
	return &trip, nil
}

// DeleteTrip removes a trip and cascades to all its sheets in one
// transaction.
func (s *TripService) DeleteTrip(id uuid.UUID) error {
	var trip models.Trip
	if err := s.db.First(&trip, "unique_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTripNotFound
		}
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", trip.UniqueID).Delete(&models.LogSheet{}).Error; err != nil {
			return err
		}
		return tx.Delete(&trip).Error
	})
}
