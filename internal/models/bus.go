package models

import "errors"

// Bus represents a bus record as served by the remote booking API. It is
// immutable for the duration of one seat-selection session.
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

// SearchBusesRequest is the home-screen search form payload.
type SearchBusesRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
	Date string `json:"date" binding:"required"`
}

// Validate checks that every search field was filled.
func (r *SearchBusesRequest) Validate() error {
	if r.From == "" || r.To == "" || r.Date == "" {
		return errors.New("please fill out all search fields")
	}
	return nil
}
