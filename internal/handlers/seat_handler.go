package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/rtconnect/booking-gateway/internal/middleware"
	"github.com/rtconnect/booking-gateway/internal/models"
	"github.com/rtconnect/booking-gateway/internal/services"
	"github.com/rtconnect/booking-gateway/pkg/rtcapi"
)

type SeatHandler struct {
	client   *rtcapi.Client
	layout   *services.SeatLayoutService
	sessions *services.FormSessionService
	logger   *logrus.Logger
}

func NewSeatHandler(client *rtcapi.Client, layout *services.SeatLayoutService, sessions *services.FormSessionService, logger *logrus.Logger) *SeatHandler {
	return &SeatHandler{
		client:   client,
		layout:   layout,
		sessions: sessions,
		logger:   logger,
	}
}

// seatMapRequest renders the seat map for a bus with the rider's current
// selection applied.
type seatMapRequest struct {
	BusID         string `json:"bus_id" binding:"required"`
	SelectedSeats []int  `json:"selected_seats"`
}

// toggleRequest applies one seat tap.
type toggleRequest struct {
	BusID         string `json:"bus_id" binding:"required"`
	SelectedSeats []int  `json:"selected_seats"`
	SeatNumber    int    `json:"seat_number" binding:"required"`
}

// seatMapResponse is the render payload for the seat-selection screen.
type seatMapResponse struct {
	Bus           models.Bus         `json:"bus"`
	Layout        *models.SeatLayout `json:"layout"`
	SelectedSeats []int              `json:"selected_seats"`
	TotalPrice    float64            `json:"total_price"`
}

// buildSeatMap fetches the bus, regenerates the layout against the current
// booked set and applies the selection. Booked seats always win over a stale
// selection.
func (h *SeatHandler) buildSeatMap(c *gin.Context, busID string, selection []int) (*seatMapResponse, error) {
	tok, _ := middleware.GetUpstreamToken(c)

	detail, err := h.client.GetBus(c.Request.Context(), tok, busID)
	if err != nil {
		return nil, err
	}
	if len(detail.Bus) == 0 {
		return nil, &rtcapi.APIError{StatusCode: http.StatusNotFound, Message: "Bus not found"}
	}
	bus := models.Bus(detail.Bus[0])

	layout := h.layout.Generate(bus.TotalSeats, detail.BookedSeats, bus.TicketPrice)

	// Drop any selected seat that got booked since the last render.
	live := make([]int, 0, len(selection))
	for _, n := range selection {
		if seat, ok := layout.SeatByDisplayNumber(n); ok && seat.Status != models.SeatStatusBooked {
			live = append(live, n)
		}
	}
	layout.MarkSelected(live)

	return &seatMapResponse{
		Bus:           bus,
		Layout:        layout,
		SelectedSeats: live,
		TotalPrice:    float64(len(live)) * bus.TicketPrice,
	}, nil
}

// SeatMap renders the seat map for a bus.
// POST /api/v1/seats/map
func (h *SeatHandler) SeatMap(c *gin.Context) {
	var req seatMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bus_id is required"})
		return
	}

	resp, err := h.buildSeatMap(c, req.BusID, req.SelectedSeats)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ToggleSeat applies one seat tap and re-renders the map.
// POST /api/v1/seats/toggle
func (h *SeatHandler) ToggleSeat(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bus_id and seat_number are required"})
		return
	}

	resp, err := h.buildSeatMap(c, req.BusID, req.SelectedSeats)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	seat, ok := resp.Layout.SeatByDisplayNumber(req.SeatNumber)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seat number does not exist on this bus"})
		return
	}

	updated, toggleErr := services.ToggleSeat(resp.SelectedSeats, req.SeatNumber, seat.Status)
	resp, err = h.buildSeatMap(c, req.BusID, updated)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	if toggleErr != nil {
		// The selection is unchanged; the message rides along with the
		// re-rendered map so the screen can show it inline.
		status := http.StatusConflict
		if errors.Is(toggleErr, services.ErrSelectionLimitExceeded) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{
			"error":          toggleErr.Error(),
			"layout":         resp.Layout,
			"selected_seats": resp.SelectedSeats,
			"total_price":    resp.TotalPrice,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmSelection freezes the seat selection and opens the passenger form.
// POST /api/v1/seats/confirm
func (h *SeatHandler) ConfirmSelection(c *gin.Context) {
	var handoff models.SeatSelectionHandoff
	if err := c.ShouldBindJSON(&handoff); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seat selection payload"})
		return
	}

	if missing := handoff.MissingFields(); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "please select your seats before continuing",
			"missing":  missing,
			"redirect": "/seats",
		})
		return
	}

	if len(handoff.SelectedSeats) > services.MaxSelectableSeats {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": services.ErrSelectionLimitExceeded.Error()})
		return
	}

	// Re-check the selection against the live bus before opening the form.
	// A seat that got booked since the last render, or a seat number outside
	// the layout, must bounce the rider back to the seat map.
	resp, err := h.buildSeatMap(c, handoff.Bus.BusID, handoff.SelectedSeats)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	if len(resp.SelectedSeats) != len(handoff.SelectedSeats) {
		c.JSON(http.StatusConflict, gin.H{
			"error":          services.ErrSeatUnavailable.Error(),
			"layout":         resp.Layout,
			"selected_seats": resp.SelectedSeats,
			"total_price":    resp.TotalPrice,
			"redirect":       "/seats",
		})
		return
	}
	handoff.Bus = resp.Bus

	tok, _ := middleware.GetUpstreamToken(c)
	snapshot, err := h.sessions.CreateSession(&handoff, tok)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}
