package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/rtconnect/booking-gateway/internal/models"
	"github.com/rtconnect/booking-gateway/internal/services"
)

type PassengerHandler struct {
	sessions *services.FormSessionService
	logger   *logrus.Logger
}

func NewPassengerHandler(sessions *services.FormSessionService, logger *logrus.Logger) *PassengerHandler {
	return &PassengerHandler{sessions: sessions, logger: logger}
}

// GetSession returns the current passenger-form state.
// GET /api/v1/passengers/:sessionId
func (h *PassengerHandler) GetSession(c *gin.Context) {
	snapshot, err := h.sessions.Snapshot(c.Param("sessionId"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// UpdateField applies one edit to one passenger row. Invalid characters are
// rejected without mutating the row; employee-field edits kick off a
// debounced verification whose result arrives on a later poll.
// PATCH /api/v1/passengers/:sessionId/:index
func (h *PassengerHandler) UpdateField(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passenger index must be a number"})
		return
	}

	var change models.FieldChangeRequest
	if err := c.ShouldBindJSON(&change); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field and value are required"})
		return
	}

	snapshot, err := h.sessions.ApplyFieldChange(c.Param("sessionId"), index, change)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// VerifyAll runs the final verification pass over every passenger. A failed
// pass returns the snapshot alongside the error so the form can highlight
// the offending row.
// POST /api/v1/passengers/:sessionId/verify
func (h *PassengerHandler) VerifyAll(c *gin.Context) {
	snapshot, err := h.sessions.VerifyAll(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			h.respondSessionError(c, err)
			return
		}
		status := http.StatusUnprocessableEntity
		if errors.Is(err, services.ErrDuplicateEmployeeID) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"error":    err.Error(),
			"snapshot": snapshot,
		})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// Proceed hands a verified form off to the payment screen.
// POST /api/v1/passengers/:sessionId/proceed
func (h *PassengerHandler) Proceed(c *gin.Context) {
	handoff, err := h.sessions.Finalize(c.Param("sessionId"))
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, handoff)
}

// respondSessionError maps form-session errors onto HTTP statuses. An
// unknown session redirects to the start of the flow, the same as a missing
// hand-off.
func (h *PassengerHandler) respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":    err.Error(),
			"redirect": "/search",
		})
	case errors.Is(err, services.ErrNotVerified):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrMissingSessionData):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    err.Error(),
			"redirect": "/seats",
		})
	default:
		h.logger.WithError(err).Error("Passenger form operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}
