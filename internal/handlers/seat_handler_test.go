package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/rtconnect/booking-gateway/internal/middleware"
	"github.com/rtconnect/booking-gateway/internal/models"
	"github.com/rtconnect/booking-gateway/internal/services"
	"github.com/rtconnect/booking-gateway/pkg/rtcapi"
)

// fakeUpstream serves a single 36-seat bus with seats 2 and 4 booked.
func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/buses/bus-1" {
			json.NewEncoder(w).Encode(rtcapi.BusDetail{
				Bus: []rtcapi.Bus{{
					BusID:       "bus-1",
					BusNumber:   "KA-01-1234",
					TotalSeats:  36,
					TicketPrice: 500,
				}},
				BookedSeats: []int{2, 4},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Bus not found"})
	}))
}

func setupSeatRouter(t *testing.T, upstreamURL string) (*gin.Engine, *services.FormSessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	client := rtcapi.NewClient(upstreamURL, time.Second)
	layout := services.NewSeatLayoutService()
	fare := services.NewFareService()
	coordinator := services.NewVerificationCoordinator(client, fare, time.Millisecond, logger)
	sessions := services.NewFormSessionService(coordinator, fare, logger)
	handler := NewSeatHandler(client, layout, sessions, logger)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UpstreamTokenKey, "tok")
		c.Next()
	})
	router.POST("/seats/map", handler.SeatMap)
	router.POST("/seats/toggle", handler.ToggleSeat)
	router.POST("/seats/confirm", handler.ConfirmSelection)
	return router, sessions
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSeatMap(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	router, _ := setupSeatRouter(t, upstream.URL)

	w := postJSON(t, router, "/seats/map", gin.H{
		"bus_id":         "bus-1",
		"selected_seats": []int{1, 3},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Layout        *models.SeatLayout `json:"layout"`
		SelectedSeats []int              `json:"selected_seats"`
		TotalPrice    float64            `json:"total_price"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 36, resp.Layout.TotalSeats())
	assert.Equal(t, []int{1, 3}, resp.SelectedSeats)
	assert.Equal(t, 1000.0, resp.TotalPrice)

	booked, _ := resp.Layout.SeatByDisplayNumber(2)
	assert.Equal(t, models.SeatStatusBooked, booked.Status)
	selected, _ := resp.Layout.SeatByDisplayNumber(1)
	assert.Equal(t, models.SeatStatusSelected, selected.Status)
}

func TestSeatMap_StaleSelectionDropped(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	router, _ := setupSeatRouter(t, upstream.URL)

	// Seat 2 got booked by someone else; the rider's stale selection of it
	// is silently dropped on re-render.
	w := postJSON(t, router, "/seats/map", gin.H{
		"bus_id":         "bus-1",
		"selected_seats": []int{1, 2},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SelectedSeats []int   `json:"selected_seats"`
		TotalPrice    float64 `json:"total_price"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []int{1}, resp.SelectedSeats)
	assert.Equal(t, 500.0, resp.TotalPrice)
}

func TestToggleSeat_AddAndRemove(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	router, _ := setupSeatRouter(t, upstream.URL)

	w := postJSON(t, router, "/seats/toggle", gin.H{
		"bus_id":         "bus-1",
		"selected_seats": []int{1},
		"seat_number":    3,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SelectedSeats []int `json:"selected_seats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []int{1, 3}, resp.SelectedSeats)

	w = postJSON(t, router, "/seats/toggle", gin.H{
		"bus_id":         "bus-1",
		"selected_seats": []int{1, 3},
		"seat_number":    1,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []int{3}, resp.SelectedSeats)
}

func TestToggleSeat_BookedSeatConflict(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	router, _ := setupSeatRouter(t, upstream.URL)

	w := postJSON(t, router, "/seats/toggle", gin.H{
		"bus_id":         "bus-1",
		"selected_seats": []int{1},
		"seat_number":    2,
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already booked")

	var resp struct {
		SelectedSeats []int `json:"selected_seats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []int{1}, resp.SelectedSeats)
}

func TestToggleSeat_LimitExceeded(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	router, _ := setupSeatRouter(t, upstream.URL)

	w := postJSON(t, router, "/seats/toggle", gin.H{
		"bus_id":         "bus-1",
		"selected_seats": []int{1, 3, 5, 7, 9, 11, 13, 15, 17, 19},
		"seat_number":    21,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "more than 10")
}

func TestConfirmSelection(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	router, sessions := setupSeatRouter(t, upstream.URL)

	w := postJSON(t, router, "/seats/confirm", gin.H{
		"bus": gin.H{
			"bus_id":          "bus-1",
			"number_of_seats": 36,
			"ticket_price":    500,
		},
		"selected_seats": []int{1, 3},
		"user_data": gin.H{
			"id":       42,
			"fullname": "Ravi Kumar",
			"gender":   "male",
		},
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var snapshot struct {
		SessionID  string             `json:"session_id"`
		Passengers []models.Passenger `json:"passengers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	require.NotEmpty(t, snapshot.SessionID)
	require.Len(t, snapshot.Passengers, 2)
	assert.Equal(t, "Ravi Kumar", snapshot.Passengers[0].Name)

	_, err := sessions.Snapshot(snapshot.SessionID)
	assert.NoError(t, err)
}

func TestConfirmSelection_UnavailableSeatRejected(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	router, sessions := setupSeatRouter(t, upstream.URL)

	// Seat 2 is booked upstream and seat 99 does not exist on the bus.
	// Neither selection may open a passenger form.
	for _, seats := range [][]int{{1, 2}, {99}} {
		w := postJSON(t, router, "/seats/confirm", gin.H{
			"bus": gin.H{
				"bus_id":          "bus-1",
				"number_of_seats": 36,
				"ticket_price":    500,
			},
			"selected_seats": seats,
			"user_data": gin.H{
				"id":       42,
				"fullname": "Ravi Kumar",
				"gender":   "male",
			},
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already booked")
		assert.Contains(t, w.Body.String(), "/seats")
	}

	assert.Equal(t, 0, sessions.ExpireStale(0))
}

func TestConfirmSelection_MissingHandoffRedirects(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	router, _ := setupSeatRouter(t, upstream.URL)

	w := postJSON(t, router, "/seats/confirm", gin.H{
		"bus": gin.H{"bus_id": "bus-1"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "/seats")
}
