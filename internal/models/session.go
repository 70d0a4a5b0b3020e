package models

// Screens hand state to one another only through these explicit payloads;
// no entity is shared by reference across stages. A stage entered without a
// complete payload fails with ErrMissingSessionData and the caller is
// redirected to the stage that should have produced it.

// SeatSelectionHandoff carries the seat screen's output into the passenger
// form: the bus record, the seats the rider picked (in click order) and the
// logged-in rider's profile used to prefill shared fields.
type SeatSelectionHandoff struct {
	Bus           Bus         `json:"bus"`
	SelectedSeats []int       `json:"selected_seats"`
	UserData      UserProfile `json:"user_data"`
}

// MissingFields reports which required parts of the hand-off are absent.
func (h *SeatSelectionHandoff) MissingFields() []string {
	var missing []string
	if h.Bus.BusID == "" {
		missing = append(missing, "bus")
	}
	if len(h.SelectedSeats) == 0 {
		missing = append(missing, "selected_seats")
	}
	return missing
}

// PaymentHandoff carries the finalized passenger form into the payment
// screen. Passengers are frozen at this point.
type PaymentHandoff struct {
	SessionID     string      `json:"session_id"`
	Passengers    []Passenger `json:"passengers"`
	TotalPrice    float64     `json:"total_price"`
	BusID         string      `json:"bus_id"`
	SelectedSeats []int       `json:"selected_seats"`
	Bus           Bus         `json:"bus"`
}

// MissingFields reports which required parts of the hand-off are absent.
func (h *PaymentHandoff) MissingFields() []string {
	var missing []string
	if len(h.Passengers) == 0 {
		missing = append(missing, "passengers")
	}
	if h.TotalPrice <= 0 {
		missing = append(missing, "total_price")
	}
	if h.BusID == "" {
		missing = append(missing, "bus_id")
	}
	if len(h.SelectedSeats) == 0 {
		missing = append(missing, "selected_seats")
	}
	return missing
}
