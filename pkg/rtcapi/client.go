// Package rtcapi is the REST client for the remote RTC booking API. Every
// business decision (credentials, seat availability, employee-discount
// validity, reservation persistence) is made by that server; this client
// only shapes requests, attaches the rider's bearer token and decodes
// responses.
package rtcapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the RTC booking API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a booking API client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError is a non-2xx answer from the booking API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("booking api: %s (status %d)", e.Message, e.StatusCode)
}

// User is the rider record embedded in auth responses.
type User struct {
	ID          int    `json:"id"`
	Fullname    string `json:"fullname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"dateofbirth"`
}

// AuthResult is the login response.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterUserRequest creates a rider account.
type RegisterUserRequest struct {
	Fullname    string `json:"fullname"`
	DateOfBirth string `json:"dateofbirth"`
	Gender      string `json:"gender"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
	Password    string `json:"password"`
}

// Bus is a bus record on the wire.
type Bus struct {
	BusID                string  `json:"bus_id"`
	BusNumber            string  `json:"bus_number"`
	BusType              string  `json:"bus_type"`
	StartingArea         string  `json:"starting_area"`
	DestinationArea      string  `json:"destination_area"`
	StartingTime         string  `json:"starting_time"`
	EndingTime           string  `json:"ending_time"`
	JourneyDurationHours int     `json:"journey_duration_hours"`
	TotalSeats           int     `json:"number_of_seats"`
	TicketPrice          float64 `json:"ticket_price"`
}

// BusDetail is the per-bus response: the bus record plus the display numbers
// of every seat already booked on it.
type BusDetail struct {
	Bus         []Bus `json:"bus"`
	BookedSeats []int `json:"booked_seats"`
}

// EmployeeValidationResult is the employee-ID validator's answer.
type EmployeeValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// ReservationRequest books seats for a trip. SeatNumbers, PassengerNames and
// EmployeeIDs are parallel; EmployeeIDs holds "" for passengers without a
// verified employee concession.
type ReservationRequest struct {
	UserID         int      `json:"userId"`
	BusID          string   `json:"busId"`
	SeatNumbers    []int    `json:"seatNumbers"`
	PassengerNames []string `json:"passengerName"`
	EmployeeIDs    []string `json:"EmployeeID"`
}

// ReservationResult confirms a successful reservation.
type ReservationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Authenticate exchanges credentials for a bearer token.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/authenticate", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RegisterUser creates a new rider account.
func (c *Client) RegisterUser(ctx context.Context, req *RegisterUserRequest) error {
	return c.do(ctx, http.MethodPost, "/register/new-user", "", req, nil)
}

// HomeProfile fetches the logged-in rider's profile.
func (c *Client) HomeProfile(ctx context.Context, bearerToken string) (*User, error) {
	var result struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/home/profile", bearerToken, nil, &result); err != nil {
		return nil, err
	}
	return &result.User, nil
}

// Constituencies lists the areas offered by the search form dropdowns.
func (c *Client) Constituencies(ctx context.Context, bearerToken string) ([]string, error) {
	var result struct {
		Constituencies []string `json:"constituencies"`
	}
	if err := c.do(ctx, http.MethodGet, "/constituencies/list", bearerToken, nil, &result); err != nil {
		return nil, err
	}
	return result.Constituencies, nil
}

// SearchBuses lists buses running a route on a date.
func (c *Client) SearchBuses(ctx context.Context, bearerToken, from, to, date string) ([]Bus, error) {
	body := map[string]string{"from": from, "to": to, "date": date}
	var result struct {
		Buses []Bus `json:"buses"`
	}
	if err := c.do(ctx, http.MethodPost, "/buses/list", bearerToken, body, &result); err != nil {
		return nil, err
	}
	return result.Buses, nil
}

// GetBus fetches one bus and its booked seat numbers.
func (c *Client) GetBus(ctx context.Context, bearerToken, busID string) (*BusDetail, error) {
	var result BusDetail
	if err := c.do(ctx, http.MethodGet, "/buses/"+busID, bearerToken, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchBookedSeats fetches only the booked display numbers for a bus.
func (c *Client) FetchBookedSeats(ctx context.Context, bearerToken, busID string) ([]int, error) {
	detail, err := c.GetBus(ctx, bearerToken, busID)
	if err != nil {
		return nil, err
	}
	return detail.BookedSeats, nil
}

// ValidateEmployeeID asks the server whether a card number belongs to the
// named person. The name travels under a relation-specific parameter: the
// employee's own name for "self", the spouse's name for "wife".
func (c *Client) ValidateEmployeeID(ctx context.Context, bearerToken, cardNumber, name, relation string) (*EmployeeValidationResult, error) {
	body := map[string]string{"cardNumber": cardNumber}
	if relation == "self" {
		body["EmployeeName"] = name
	} else {
		body["EmployeeWifeName"] = name
	}

	var result EmployeeValidationResult
	if err := c.do(ctx, http.MethodPost, "/validation/emp-id", bearerToken, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ReserveSeats submits a reservation. Fire-once: callers must guard against
// re-submission while a call is in flight.
func (c *Client) ReserveSeats(ctx context.Context, bearerToken string, req *ReservationRequest) (*ReservationResult, error) {
	var result ReservationResult
	if err := c.do(ctx, http.MethodPost, "/bookings/reservation", bearerToken, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do performs one JSON request/response round trip.
func (c *Client) do(ctx context.Context, method, path, bearerToken string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", bearerToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach booking api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(raw),
		}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// extractErrorMessage pulls a human-readable message out of an error body.
func extractErrorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	if len(raw) == 0 {
		return "empty error response"
	}
	return string(raw)
}
