package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"eld_tracker/internal/apperrors"
	"eld_tracker/internal/services"
)

type logSheetBatchInput struct {
	TripID    string                   `json:"tripId" binding:"required"`
	LogSheets []services.LogSheetInput `json:"logSheets"`
}

type logSheetPatchInput struct {
	TripID    string                         `json:"tripId" binding:"required"`
	LogSheets []services.UpdateLogSheetInput `json:"logSheets"`
}

// TripController exposes the trip and log-sheet ledgers over HTTP. The
// owning driver always comes from the authenticated context set by the
// auth middleware, never from the request body.
type TripController struct {
	trips  *services.TripService
	sheets *services.LogSheetService
}

func NewTripController(trips *services.TripService, sheets *services.LogSheetService) *TripController {
	return &TripController{trips: trips, sheets: sheets}
}

func (t *TripController) CreateTrip(c *gin.Context) {
	email := c.GetString("email")

	var input services.CreateTripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := t.trips.CreateTrip(email, input)
	if err != nil {
		logrus.WithError(err).WithField("email", email).Warn("Trip creation failed.")
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Trip created successfully",
		"tripId":    trip.UniqueID.String(),
		"tripTitle": trip.TripTitle,
	})
}

func (t *TripController) ListTrips(c *gin.Context) {
	email := c.GetString("email")

	trips, err := t.trips.ListTripsForDriver(email)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

func (t *TripController) GetTripByID(c *gin.Context) {
	id, ok := tripIDFromQuery(c)
	if !ok {
		return
	}
	trip, err := t.trips.GetTripByID(id)
	if err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

func (t *TripController) DeleteTrip(c *gin.Context) {
	id, ok := tripIDFromQuery(c)
	if !ok {
		return
	}
	if err := t.trips.DeleteTrip(id); err != nil {
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, gin.H{"message": "Trip deleted successfully"})
}

func (t *TripController) AddLogSheets(c *gin.Context) {
	var input logSheetBatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tripID, err := uuid.Parse(input.TripID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}

	created, err := t.sheets.AddLogSheets(tripID, input.LogSheets)
	if err != nil {
		logrus.WithError(err).WithField("trip_id", tripID).Warn("Adding log sheets failed.")
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Log sheets added successfully",
		"logSheets": created,
	})
}

func (t *TripController) UpdateLogSheets(c *gin.Context) {
	var input logSheetPatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tripID, err := uuid.Parse(input.TripID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}

	updated, err := t.sheets.UpdateLogSheets(tripID, input.LogSheets)
	if err != nil {
		logrus.WithError(err).WithField("trip_id", tripID).Warn("Updating log sheets failed.")
		c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Log sheets updated successfully",
		"logSheets": updated,
	})
}

// tripIDFromQuery parses the tripId query parameter, answering 400 itself
// when the parameter is missing or malformed.
func tripIDFromQuery(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Query("tripId")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Trip ID is required"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return uuid.Nil, false
	}
	return id, true
}
