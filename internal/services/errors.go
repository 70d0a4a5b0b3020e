// Package services implements the client-side booking flow logic: seat-map
// generation, seat selection, fare computation, employee-ID verification
// coordination and the explicit session hand-off between screen stages.
package services

import "errors"

var (
	// ErrSeatUnavailable is returned when the rider taps a booked seat.
	// Toggling a booked seat never changes the selection.
	ErrSeatUnavailable = errors.New("seat is already booked")

	// ErrSelectionLimitExceeded is returned when the rider tries to select
	// more than MaxSelectableSeats seats. The selection is left unchanged.
	ErrSelectionLimitExceeded = errors.New("cannot select more than 10 seats")

	// ErrValidationFailed is returned when a form field fails its shape
	// constraints. Recovered locally and shown inline.
	ErrValidationFailed = errors.New("validation failed")

	// ErrDuplicateEmployeeID is returned when a card number is presented
	// for a second passenger under the same relation while the first is
	// still verified.
	ErrDuplicateEmployeeID = errors.New("employee ID already used for this relation")

	// ErrVerificationFailed is returned when the server rejected the
	// employee ID or the verification call could not be completed. The two
	// are indistinguishable to the caller.
	ErrVerificationFailed = errors.New("employee ID could not be verified")

	// ErrBookingFailed is returned when the remote server rejected the
	// reservation (seats taken, daily limit, malformed request).
	ErrBookingFailed = errors.New("failed to book seats")

	// ErrMissingSessionData is returned when a screen stage is entered
	// without the hand-off data the previous stage should have supplied.
	ErrMissingSessionData = errors.New("missing required session data")

	// ErrSessionNotFound is returned when a passenger-form session ID is
	// unknown or has expired.
	ErrSessionNotFound = errors.New("passenger form session not found")

	// ErrSubmissionInFlight is returned when a reservation is re-submitted
	// while the first attempt is still running. Bookings are fire-once per
	// confirmation click.
	ErrSubmissionInFlight = errors.New("booking submission already in progress")

	// ErrNotVerified is returned when the rider proceeds to payment before
	// the final verification pass has succeeded.
	ErrNotVerified = errors.New("please verify passenger details before proceeding")
)
