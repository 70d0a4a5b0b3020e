// Package handlers exposes the booking flow over HTTP: login and
// registration, bus search, seat selection, the passenger-details form and
// the final payment confirmation.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rtconnect/booking-gateway/pkg/rtcapi"
)

// respondUpstreamError forwards a remote API failure to the caller. Remote
// rejections keep their status code and message; transport failures become
// a 502 so the client can distinguish "the server said no" from "the server
// was unreachable".
func respondUpstreamError(c *gin.Context, err error) {
	var apiErr *rtcapi.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "Could not reach the booking service. Please try again."})
}
