package services

import (
	"github.com/rtconnect/booking-gateway/internal/models"
)

// MaxSelectableSeats caps how many seats one booking may hold.
const MaxSelectableSeats = 10

// ToggleSeat applies one seat tap to the current selection and returns the
// new selection. The selection preserves click order, not seat order.
//
// Tapping a booked seat is a no-op and signals ErrSeatUnavailable. Tapping a
// seat already in the selection removes it, keeping the order of the rest.
// Tapping a new seat when the selection is full signals
// ErrSelectionLimitExceeded and leaves the selection unchanged; otherwise
// the seat is appended.
func ToggleSeat(selection []int, seatDisplayNumber int, status models.SeatStatus) ([]int, error) {
	if status == models.SeatStatusBooked {
		return selection, ErrSeatUnavailable
	}

	for i, n := range selection {
		if n == seatDisplayNumber {
			updated := make([]int, 0, len(selection)-1)
			updated = append(updated, selection[:i]...)
			updated = append(updated, selection[i+1:]...)
			return updated, nil
		}
	}

	if len(selection) >= MaxSelectableSeats {
		return selection, ErrSelectionLimitExceeded
	}

	updated := make([]int, 0, len(selection)+1)
	updated = append(updated, selection...)
	updated = append(updated, seatDisplayNumber)
	return updated, nil
}
