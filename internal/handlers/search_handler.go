package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/rtconnect/booking-gateway/internal/middleware"
	"github.com/rtconnect/booking-gateway/internal/models"
	"github.com/rtconnect/booking-gateway/pkg/rtcapi"
)

type SearchHandler struct {
	client *rtcapi.Client
	logger *logrus.Logger
}

func NewSearchHandler(client *rtcapi.Client, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{client: client, logger: logger}
}

// Profile returns the logged-in rider's profile for the home screen and for
// prefilling the first passenger row.
// GET /api/v1/home/profile
func (h *SearchHandler) Profile(c *gin.Context) {
	tok, _ := middleware.GetUpstreamToken(c)

	user, err := h.client.HomeProfile(c.Request.Context(), tok)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Constituencies lists the areas offered by the search form dropdowns.
// GET /api/v1/constituencies
func (h *SearchHandler) Constituencies(c *gin.Context) {
	tok, _ := middleware.GetUpstreamToken(c)

	areas, err := h.client.Constituencies(c.Request.Context(), tok)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"constituencies": areas})
}

// SearchBuses lists buses running a route on a date. An empty result is a
// normal answer, not an error.
// POST /api/v1/buses/search
func (h *SearchHandler) SearchBuses(c *gin.Context) {
	var req models.SearchBusesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please fill out all search fields"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tok, _ := middleware.GetUpstreamToken(c)
	buses, err := h.client.SearchBuses(c.Request.Context(), tok, req.From, req.To, req.Date)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"from": req.From,
			"to":   req.To,
			"date": req.Date,
		}).Warn("Bus search failed")
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"buses": buses})
}
