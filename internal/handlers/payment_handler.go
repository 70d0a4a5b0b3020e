package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/rtconnect/booking-gateway/internal/middleware"
	"github.com/rtconnect/booking-gateway/internal/models"
	"github.com/rtconnect/booking-gateway/internal/services"
)

type PaymentHandler struct {
	bookings *services.BookingService
	sessions *services.FormSessionService
	logger   *logrus.Logger
}

func NewPaymentHandler(bookings *services.BookingService, sessions *services.FormSessionService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{bookings: bookings, sessions: sessions, logger: logger}
}

// paymentConfirmRequest is the confirmation-click payload: the rider plus
// the hand-off produced by the passenger form.
type paymentConfirmRequest struct {
	UserID int `json:"user_id" binding:"required"`
	models.PaymentHandoff
}

// Confirm submits the reservation. One click, one submission: a repeat
// while the first is in flight is told to wait rather than queued.
// POST /api/v1/payments/confirm
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req paymentConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and booking details are required"})
		return
	}

	tok, _ := middleware.GetUpstreamToken(c)
	confirmation, err := h.bookings.Submit(c.Request.Context(), tok, req.UserID, &req.PaymentHandoff)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}

	// The form session has served its purpose; drop it so a back-navigation
	// cannot resubmit the same booking.
	if req.SessionID != "" {
		h.sessions.Remove(req.SessionID)
	}

	c.JSON(http.StatusCreated, confirmation)
}

// respondBookingError maps submission failures onto HTTP statuses. Booking
// rejections are blocking: the screen shows the message and the rider
// starts over with a fresh seat map.
func (h *PaymentHandler) respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingSessionData):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    err.Error(),
			"redirect": "/seats",
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrBookingFailed):
		h.logger.WithError(err).Warn("Reservation rejected")
		c.JSON(http.StatusConflict, gin.H{
			"error":    err.Error(),
			"redirect": "/seats",
		})
	default:
		h.logger.WithError(err).Error("Reservation submission failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not reach the booking service. Please try again."})
	}
}
