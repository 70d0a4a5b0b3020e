package services

import (
	"github.com/rtconnect/booking-gateway/internal/models"
)

// EmployeeDiscountMultiplier is the fare fraction a verified retired-employee
// concession pays.
const EmployeeDiscountMultiplier = 0.7

// FareService computes per-passenger ticket prices and booking totals.
type FareService struct{}

// NewFareService creates a new fare service.
func NewFareService() *FareService {
	return &FareService{}
}

// Price returns the ticket price for one passenger. General and senior
// concessions pay the base fare unchanged; the retired-employee concession
// pays the discounted fare only while the passenger's employee ID is
// verified.
func (s *FareService) Price(p *models.Passenger, baseFare float64) float64 {
	if p.ConcessionType == models.ConcessionRTCEmployee && p.IsEmployeeVerified {
		return baseFare * EmployeeDiscountMultiplier
	}
	return baseFare
}

// Total sums the ticket prices across all passengers.
func (s *FareService) Total(passengers []models.Passenger) float64 {
	var total float64
	for i := range passengers {
		total += passengers[i].TicketPrice
	}
	return total
}
