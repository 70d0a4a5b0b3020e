package services

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/rtconnect/booking-gateway/internal/models"
)

func TestGenerate_StandardCoach(t *testing.T) {
	svc := NewSeatLayoutService()

	layout := svc.Generate(36, nil, 500)

	require.Len(t, layout.Rows, 5)
	assert.Equal(t, 9, len(layout.Rows[0]))
	assert.Equal(t, 9, len(layout.Rows[1]))
	assert.Equal(t, 1, len(layout.Rows[2]))
	assert.Equal(t, 8, len(layout.Rows[3]))
	assert.Equal(t, 9, len(layout.Rows[4]))
	assert.Equal(t, 36, layout.TotalSeats())

	// Front rows interleave: odds on top, evens below.
	assert.Equal(t, 1, layout.Rows[0][0].DisplayNumber)
	assert.Equal(t, 3, layout.Rows[0][1].DisplayNumber)
	assert.Equal(t, 2, layout.Rows[1][0].DisplayNumber)
	assert.Equal(t, 4, layout.Rows[1][1].DisplayNumber)
}

func TestGenerate_DisplayNumbersArePermutation(t *testing.T) {
	svc := NewSeatLayoutService()

	for n := 1; n <= 60; n++ {
		layout := svc.Generate(n, nil, 100)

		require.Equal(t, n, layout.TotalSeats(), "total seats for n=%d", n)

		numbers := layout.DisplayNumbers()
		sort.Ints(numbers)
		for i, got := range numbers {
			require.Equal(t, i+1, got, "display numbers for n=%d must be 1..n", n)
		}
	}
}

func TestGenerate_SequentialIndexes(t *testing.T) {
	svc := NewSeatLayoutService()

	layout := svc.Generate(36, nil, 100)

	expected := 1
	for _, row := range layout.Rows {
		for _, seat := range row {
			assert.Equal(t, expected, seat.Index)
			expected++
		}
	}
}

func TestGenerate_BookedSeats(t *testing.T) {
	svc := NewSeatLayoutService()

	layout := svc.Generate(36, []int{2, 4, 17}, 500)

	for _, n := range []int{2, 4, 17} {
		seat, ok := layout.SeatByDisplayNumber(n)
		require.True(t, ok)
		assert.Equal(t, models.SeatStatusBooked, seat.Status)
	}

	available := 0
	for _, row := range layout.Rows {
		for _, seat := range row {
			assert.Equal(t, 500.0, seat.Price)
			if seat.Status == models.SeatStatusAvailable {
				available++
			}
		}
	}
	assert.Equal(t, 33, available)
}

func TestGenerate_ZeroAndTinyBuses(t *testing.T) {
	svc := NewSeatLayoutService()

	layout := svc.Generate(0, nil, 100)
	assert.Equal(t, 0, layout.TotalSeats())

	tests := []struct {
		seats int
	}{
		{1}, {2}, {3}, {5}, {10},
	}
	for _, tt := range tests {
		layout := svc.Generate(tt.seats, nil, 100)
		assert.Equal(t, tt.seats, layout.TotalSeats(), "n=%d", tt.seats)
		for _, row := range layout.Rows {
			assert.GreaterOrEqual(t, len(row), 0)
		}
	}
}

func TestMarkSelected(t *testing.T) {
	svc := NewSeatLayoutService()

	layout := svc.Generate(36, []int{3}, 500)
	layout.MarkSelected([]int{1, 3, 5})

	one, _ := layout.SeatByDisplayNumber(1)
	assert.Equal(t, models.SeatStatusSelected, one.Status)

	five, _ := layout.SeatByDisplayNumber(5)
	assert.Equal(t, models.SeatStatusSelected, five.Status)

	// A booked seat never renders as selected.
	three, _ := layout.SeatByDisplayNumber(3)
	assert.Equal(t, models.SeatStatusBooked, three.Status)
}
