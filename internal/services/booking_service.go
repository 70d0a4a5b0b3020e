package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/rtconnect/booking-gateway/internal/models"
	"github.com/rtconnect/booking-gateway/pkg/rtcapi"
)

// ReservationClient is the slice of the remote API the booking service
// needs. Implemented by *rtcapi.Client.
type ReservationClient interface {
	ReserveSeats(ctx context.Context, bearerToken string, req *rtcapi.ReservationRequest) (*rtcapi.ReservationResult, error)
	GetBus(ctx context.Context, bearerToken, busID string) (*rtcapi.BusDetail, error)
}

// BookingService submits reservations to the remote server. Submission is
// fire-once per session: a second confirm while the first call is in flight
// is rejected instead of queued, so one tap can never book twice.
type BookingService struct {
	client ReservationClient
	logger *logrus.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewBookingService creates a booking service.
func NewBookingService(client ReservationClient, logger *logrus.Logger) *BookingService {
	return &BookingService{
		client:   client,
		logger:   logger,
		inFlight: make(map[string]bool),
	}
}

// Submit reserves the selected seats and returns the boarding summary. The
// employee-ID list in the payload carries a card number only at positions
// where the passenger is a verified employee.
func (s *BookingService) Submit(ctx context.Context, bearerToken string, userID int, handoff *models.PaymentHandoff) (*models.BookingConfirmation, error) {
	if missing := handoff.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingSessionData, missing)
	}
	if len(handoff.Passengers) != len(handoff.SelectedSeats) {
		return nil, fmt.Errorf("%w: passenger count does not match seat count", ErrValidationFailed)
	}

	s.mu.Lock()
	if s.inFlight[handoff.SessionID] {
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	s.inFlight[handoff.SessionID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, handoff.SessionID)
		s.mu.Unlock()
	}()

	req := models.NewBookingRequest(userID, handoff.BusID, handoff.SelectedSeats, handoff.Passengers)

	s.logger.WithFields(logrus.Fields{
		"bus_id":  handoff.BusID,
		"seats":   handoff.SelectedSeats,
		"user_id": userID,
	}).Info("Submitting seat reservation")

	result, err := s.client.ReserveSeats(ctx, bearerToken, &rtcapi.ReservationRequest{
		UserID:         req.UserID,
		BusID:          req.BusID,
		SeatNumbers:    req.SeatNumbers,
		PassengerNames: req.PassengerNames,
		EmployeeIDs:    req.EmployeeIDs,
	})
	if err != nil {
		return nil, s.mapReservationError(err)
	}

	confirmation := &models.BookingConfirmation{
		BusID:           handoff.BusID,
		Passengers:      handoff.Passengers,
		NumberOfTickets: len(handoff.SelectedSeats),
		OriginalTotal:   float64(len(handoff.SelectedSeats)) * handoff.Bus.TicketPrice,
		TotalPaid:       handoff.TotalPrice,
	}

	// The bus record is re-fetched so the summary shows the schedule as the
	// server currently holds it, not as it was cached at search time.
	detail, err := s.client.GetBus(ctx, bearerToken, handoff.BusID)
	if err != nil || len(detail.Bus) == 0 {
		s.logger.WithError(err).WithField("bus_id", handoff.BusID).Warn("Could not refresh bus details after booking")
		confirmation.FillFromBus(&handoff.Bus)
	} else {
		bus := models.Bus(detail.Bus[0])
		confirmation.FillFromBus(&bus)
	}

	s.logger.WithFields(logrus.Fields{
		"bus_id":  handoff.BusID,
		"tickets": confirmation.NumberOfTickets,
		"message": result.Message,
	}).Info("Reservation confirmed")

	return confirmation, nil
}

// mapReservationError translates the remote server's rejection messages
// into the flow's sentinel errors so handlers can pick a status code.
func (s *BookingService) mapReservationError(err error) error {
	var apiErr *rtcapi.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		switch {
		case strings.Contains(msg, "Invalid request"):
			return fmt.Errorf("%w: the reservation request was malformed", ErrBookingFailed)
		case strings.Contains(msg, "Booking limit"):
			return fmt.Errorf("%w: daily booking limit reached", ErrBookingFailed)
		case strings.Contains(msg, "already booked"):
			return fmt.Errorf("%w: one or more selected seats were just taken", ErrBookingFailed)
		default:
			return fmt.Errorf("%w: %s", ErrBookingFailed, msg)
		}
	}
	return fmt.Errorf("%w: %v", ErrBookingFailed, err)
}
