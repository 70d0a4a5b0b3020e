package models

import "fmt"

// BookingRequest is the reservation payload sent once to the remote booking
// API. Seat numbers, passenger names and employee IDs are parallel sequences;
// EmployeeIDs carries an empty string for every passenger travelling without
// a verified employee concession.
type BookingRequest struct {
	UserID         int      `json:"userId"`
	BusID          string   `json:"busId"`
	SeatNumbers    []int    `json:"seatNumbers"`
	PassengerNames []string `json:"passengerName"`
	EmployeeIDs    []string `json:"EmployeeID"`
}

// NewBookingRequest freezes the passenger list into a reservation payload.
func NewBookingRequest(userID int, busID string, seatNumbers []int, passengers []Passenger) *BookingRequest {
	req := &BookingRequest{
		UserID:         userID,
		BusID:          busID,
		SeatNumbers:    append([]int(nil), seatNumbers...),
		PassengerNames: make([]string, len(passengers)),
		EmployeeIDs:    make([]string, len(passengers)),
	}
	for i, p := range passengers {
		req.PassengerNames[i] = p.Name
		if p.ConcessionType == ConcessionRTCEmployee && p.IsEmployeeVerified {
			req.EmployeeIDs[i] = p.CardNumber
		}
	}
	return req
}

// FillFromBus copies the journey summary fields from a bus record.
func (c *BookingConfirmation) FillFromBus(bus *Bus) {
	c.BusNumber = bus.BusNumber
	c.StartingPoint = bus.StartingArea
	c.EndingPoint = bus.DestinationArea
	c.StartTime = bus.StartingTime
	c.EndTime = bus.EndingTime
	c.JourneyDuration = fmt.Sprintf("%d hours", bus.JourneyDurationHours)
}

// BookingConfirmation is shown on the confirmation screen after a successful
// reservation and payment simulation.
type BookingConfirmation struct {
	BusID           string      `json:"bus_id"`
	BusNumber       string      `json:"bus_number"`
	StartingPoint   string      `json:"starting_point"`
	EndingPoint     string      `json:"ending_point"`
	StartTime       string      `json:"start_time"`
	EndTime         string      `json:"end_time"`
	JourneyDuration string      `json:"journey_duration"`
	Passengers      []Passenger `json:"passengers"`
	NumberOfTickets int         `json:"number_of_tickets"`
	OriginalTotal   float64     `json:"original_total"`
	TotalPaid       float64     `json:"total_paid"`
}
