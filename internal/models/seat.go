package models

// SeatStatus is the render state of one seat on the seat map.
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusBooked    SeatStatus = "booked"
	SeatStatusSelected  SeatStatus = "selected"
)

// Seat is one cell of the seat map. Index is the sequential position in the
// layout; DisplayNumber is the label painted on the seat and the number used
// everywhere else in the booking flow.
type Seat struct {
	Index         int        `json:"index"`
	DisplayNumber int        `json:"display_number"`
	Status        SeatStatus `json:"status"`
	Price         float64    `json:"price"`
}

// SeatLayout is the five-row seat map rendered on the selection screen.
type SeatLayout struct {
	Rows [][]Seat `json:"rows"`
}

// TotalSeats counts the seats across all rows.
func (l *SeatLayout) TotalSeats() int {
	total := 0
	for _, row := range l.Rows {
		total += len(row)
	}
	return total
}

// DisplayNumbers returns every display number in layout order.
func (l *SeatLayout) DisplayNumbers() []int {
	numbers := make([]int, 0, l.TotalSeats())
	for _, row := range l.Rows {
		for _, seat := range row {
			numbers = append(numbers, seat.DisplayNumber)
		}
	}
	return numbers
}

// SeatByDisplayNumber finds a seat by its painted number.
func (l *SeatLayout) SeatByDisplayNumber(displayNumber int) (*Seat, bool) {
	for i := range l.Rows {
		for j := range l.Rows[i] {
			if l.Rows[i][j].DisplayNumber == displayNumber {
				return &l.Rows[i][j], true
			}
		}
	}
	return nil, false
}

// MarkSelected flips the listed seats from available to selected. Booked
// seats are never overwritten, so a selection that went stale against a
// fresh booked set simply stops rendering as selected.
func (l *SeatLayout) MarkSelected(selection []int) {
	selected := make(map[int]bool, len(selection))
	for _, n := range selection {
		selected[n] = true
	}
	for i := range l.Rows {
		for j := range l.Rows[i] {
			seat := &l.Rows[i][j]
			if selected[seat.DisplayNumber] && seat.Status == SeatStatusAvailable {
				seat.Status = SeatStatusSelected
			}
		}
	}
}
