package services

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/rtconnect/booking-gateway/internal/models"
	"github.com/rtconnect/booking-gateway/pkg/rtcapi"
)

type mockReservationClient struct {
	mock.Mock
}

func (m *mockReservationClient) ReserveSeats(ctx context.Context, bearerToken string, req *rtcapi.ReservationRequest) (*rtcapi.ReservationResult, error) {
	args := m.Called(ctx, bearerToken, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rtcapi.ReservationResult), args.Error(1)
}

func (m *mockReservationClient) GetBus(ctx context.Context, bearerToken, busID string) (*rtcapi.BusDetail, error) {
	args := m.Called(ctx, bearerToken, busID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rtcapi.BusDetail), args.Error(1)
}

func testHandoff() *models.PaymentHandoff {
	return &models.PaymentHandoff{
		SessionID: "sess-1",
		Passengers: []models.Passenger{
			{SeatNo: 1, Name: "Ravi Kumar", ConcessionType: models.ConcessionGeneral, TicketPrice: 500},
			{SeatNo: 3, Name: "Anita Rao", ConcessionType: models.ConcessionGeneral, TicketPrice: 500},
		},
		TotalPrice:    1000,
		BusID:         "bus-1",
		SelectedSeats: []int{1, 3},
		Bus: models.Bus{
			BusID:                "bus-1",
			BusNumber:            "KA-01-1234",
			StartingArea:         "Majestic",
			DestinationArea:      "Mysore",
			StartingTime:         "08:00",
			EndingTime:           "11:00",
			JourneyDurationHours: 3,
			TotalSeats:           36,
			TicketPrice:          500,
		},
	}
}

func testBusDetail() *rtcapi.BusDetail {
	return &rtcapi.BusDetail{
		Bus: []rtcapi.Bus{{
			BusID:                "bus-1",
			BusNumber:            "KA-01-1234",
			StartingArea:         "Majestic",
			DestinationArea:      "Mysore",
			StartingTime:         "08:00",
			EndingTime:           "11:00",
			JourneyDurationHours: 3,
			TotalSeats:           36,
			TicketPrice:          500,
		}},
		BookedSeats: []int{1, 2, 3, 4},
	}
}

func TestSubmit_TwoGeneralPassengers(t *testing.T) {
	client := new(mockReservationClient)
	client.On("ReserveSeats", mock.Anything, "tok", mock.Anything).
		Return(&rtcapi.ReservationResult{Success: true, Message: "Booking successful"}, nil)
	client.On("GetBus", mock.Anything, "tok", "bus-1").Return(testBusDetail(), nil)

	svc := NewBookingService(client, testLogger())
	confirmation, err := svc.Submit(context.Background(), "tok", 42, testHandoff())

	require.NoError(t, err)
	assert.Equal(t, "KA-01-1234", confirmation.BusNumber)
	assert.Equal(t, "Majestic", confirmation.StartingPoint)
	assert.Equal(t, "Mysore", confirmation.EndingPoint)
	assert.Equal(t, "3 hours", confirmation.JourneyDuration)
	assert.Equal(t, 2, confirmation.NumberOfTickets)
	assert.Equal(t, 1000.0, confirmation.OriginalTotal)
	assert.Equal(t, 1000.0, confirmation.TotalPaid)

	sent := client.Calls[0].Arguments.Get(2).(*rtcapi.ReservationRequest)
	assert.Equal(t, 42, sent.UserID)
	assert.Equal(t, []int{1, 3}, sent.SeatNumbers)
	assert.Equal(t, []string{"Ravi Kumar", "Anita Rao"}, sent.PassengerNames)
	assert.Equal(t, []string{"", ""}, sent.EmployeeIDs)
}

func TestSubmit_VerifiedEmployeeCarriesCardNumber(t *testing.T) {
	client := new(mockReservationClient)
	client.On("ReserveSeats", mock.Anything, mock.Anything, mock.Anything).
		Return(&rtcapi.ReservationResult{Success: true}, nil)
	client.On("GetBus", mock.Anything, mock.Anything, mock.Anything).Return(testBusDetail(), nil)

	handoff := testHandoff()
	handoff.Passengers[0].ConcessionType = models.ConcessionRTCEmployee
	handoff.Passengers[0].CardNumber = "E1"
	handoff.Passengers[0].IsEmployeeVerified = true
	handoff.Passengers[0].TicketPrice = 350
	handoff.TotalPrice = 850

	svc := NewBookingService(client, testLogger())
	confirmation, err := svc.Submit(context.Background(), "tok", 42, handoff)

	require.NoError(t, err)
	assert.Equal(t, 850.0, confirmation.TotalPaid)
	assert.Equal(t, 1000.0, confirmation.OriginalTotal)

	sent := client.Calls[0].Arguments.Get(2).(*rtcapi.ReservationRequest)
	assert.Equal(t, []string{"E1", ""}, sent.EmployeeIDs)
}

func TestSubmit_UnverifiedEmployeeSendsNoCard(t *testing.T) {
	client := new(mockReservationClient)
	client.On("ReserveSeats", mock.Anything, mock.Anything, mock.Anything).
		Return(&rtcapi.ReservationResult{Success: true}, nil)
	client.On("GetBus", mock.Anything, mock.Anything, mock.Anything).Return(testBusDetail(), nil)

	handoff := testHandoff()
	handoff.Passengers[0].ConcessionType = models.ConcessionRTCEmployee
	handoff.Passengers[0].CardNumber = "E1"
	handoff.Passengers[0].IsEmployeeVerified = false

	svc := NewBookingService(client, testLogger())
	_, err := svc.Submit(context.Background(), "tok", 42, handoff)
	require.NoError(t, err)

	sent := client.Calls[0].Arguments.Get(2).(*rtcapi.ReservationRequest)
	assert.Equal(t, []string{"", ""}, sent.EmployeeIDs)
}

func TestSubmit_MissingHandoff(t *testing.T) {
	svc := NewBookingService(new(mockReservationClient), testLogger())

	_, err := svc.Submit(context.Background(), "tok", 42, &models.PaymentHandoff{})

	assert.ErrorIs(t, err, ErrMissingSessionData)
}

func TestSubmit_SeatPassengerMismatch(t *testing.T) {
	svc := NewBookingService(new(mockReservationClient), testLogger())

	handoff := testHandoff()
	handoff.SelectedSeats = []int{1}

	_, err := svc.Submit(context.Background(), "tok", 42, handoff)

	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestSubmit_MapsUpstreamRejections(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{"malformed", "Invalid request data", "malformed"},
		{"limit", "Booking limit reached for today", "limit"},
		{"taken", "Seats 1,3 already booked", "taken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mockReservationClient)
			client.On("ReserveSeats", mock.Anything, mock.Anything, mock.Anything).
				Return(nil, &rtcapi.APIError{StatusCode: http.StatusConflict, Message: tt.message})

			svc := NewBookingService(client, testLogger())
			_, err := svc.Submit(context.Background(), "tok", 42, testHandoff())

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrBookingFailed)
			assert.Contains(t, err.Error(), tt.expected)
			client.AssertNotCalled(t, "GetBus")
		})
	}
}

func TestSubmit_FireOncePerSession(t *testing.T) {
	client := new(mockReservationClient)
	started := make(chan struct{})
	release := make(chan struct{})
	client.On("ReserveSeats", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&rtcapi.ReservationResult{Success: true}, nil).Once()
	client.On("GetBus", mock.Anything, mock.Anything, mock.Anything).Return(testBusDetail(), nil)

	svc := NewBookingService(client, testLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Submit(context.Background(), "tok", 42, testHandoff())
		assert.NoError(t, err)
	}()

	<-started
	_, err := svc.Submit(context.Background(), "tok", 42, testHandoff())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	wg.Wait()

	// After the first attempt settles, the guard is released.
	client.On("ReserveSeats", mock.Anything, mock.Anything, mock.Anything).
		Return(&rtcapi.ReservationResult{Success: true}, nil)
	_, err = svc.Submit(context.Background(), "tok", 42, testHandoff())
	assert.NoError(t, err)
}

func TestSubmit_FallsBackToHandoffBusOnRefreshFailure(t *testing.T) {
	client := new(mockReservationClient)
	client.On("ReserveSeats", mock.Anything, mock.Anything, mock.Anything).
		Return(&rtcapi.ReservationResult{Success: true}, nil)
	client.On("GetBus", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &rtcapi.APIError{StatusCode: http.StatusInternalServerError, Message: "oops"})

	svc := NewBookingService(client, testLogger())
	confirmation, err := svc.Submit(context.Background(), "tok", 42, testHandoff())

	require.NoError(t, err)
	assert.Equal(t, "KA-01-1234", confirmation.BusNumber)
	assert.Equal(t, "3 hours", confirmation.JourneyDuration)
}
