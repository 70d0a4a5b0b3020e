package services

import (
	"github.com/rtconnect/booking-gateway/internal/models"
)

// SeatLayoutService generates the 5-row visual seat map for a bus. The map
// emulates a two-by-two-plus-aisle coach: two front rows with interleaved
// odd/even display numbers, a single back-row seat, a shortened rear-door
// row, and a remainder row that absorbs whatever is left.
//
// Generation is a pure function of the bus's seat count and the set of
// already-booked display numbers.
type SeatLayoutService struct{}

// NewSeatLayoutService creates a new seat layout service.
func NewSeatLayoutService() *SeatLayoutService {
	return &SeatLayoutService{}
}

// rowLengths partitions totalSeats into the five row lengths.
//
// Display numbers split into odd and even sequences: rows 1, 3 and 4 consume
// the odd numbers of 1..totalSeats in order, rows 2 and 5 the even numbers.
// Row 1 takes half the odd numbers (rounded up), row 3 the next single odd
// number, row 4 the rest, one seat short of row 1, modelling the rear-door
// cutout. Row 2 mirrors row 1 on the even sequence and row 5 absorbs the
// remaining evens. Every length bottoms out at zero for small buses, and the
// lengths always sum to totalSeats, so the assigned display numbers are
// exactly the permutation 1..totalSeats.
func rowLengths(totalSeats int) [5]int {
	if totalSeats <= 0 {
		return [5]int{}
	}

	oddCount := (totalSeats + 1) / 2
	evenCount := totalSeats / 2

	row1 := (oddCount + 1) / 2
	row3 := 0
	if oddCount > row1 {
		row3 = 1
	}
	row4 := oddCount - row1 - row3

	row2 := row1
	if row2 > evenCount {
		row2 = evenCount
	}
	row5 := evenCount - row2

	return [5]int{row1, row2, row3, row4, row5}
}

// Generate builds the seat layout for a bus. Seats whose display number is
// in bookedSeatNumbers come out booked, all others available; the caller may
// mark a subset selected afterwards via SeatLayout.MarkSelected.
func (s *SeatLayoutService) Generate(totalSeats int, bookedSeatNumbers []int, seatPrice float64) *models.SeatLayout {
	booked := make(map[int]bool, len(bookedSeatNumbers))
	for _, n := range bookedSeatNumbers {
		booked[n] = true
	}

	lengths := rowLengths(totalSeats)

	// Rows 1, 3 and 4 number on the odd sequence, rows 2 and 5 on the even.
	oddRows := map[int]bool{0: true, 2: true, 3: true}

	layout := &models.SeatLayout{Rows: make([][]models.Seat, 5)}
	index := 0
	oddDisplay, evenDisplay := 1, 2

	for rowIdx, length := range lengths {
		row := make([]models.Seat, 0, length)
		for i := 0; i < length; i++ {
			var display int
			if oddRows[rowIdx] {
				display = oddDisplay
				oddDisplay += 2
			} else {
				display = evenDisplay
				evenDisplay += 2
			}

			index++
			status := models.SeatStatusAvailable
			if booked[display] {
				status = models.SeatStatusBooked
			}
			row = append(row, models.Seat{
				Index:         index,
				DisplayNumber: display,
				Status:        status,
				Price:         seatPrice,
			})
		}
		layout.Rows[rowIdx] = row
	}

	return layout
}
