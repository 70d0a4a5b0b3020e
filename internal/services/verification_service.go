package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/rtconnect/booking-gateway/internal/models"
	"github.com/rtconnect/booking-gateway/pkg/rtcapi"
	"github.com/rtconnect/booking-gateway/pkg/validator"
)

// EmployeeVerifier asks the remote server whether a card number belongs to
// the named person. Implemented by *rtcapi.Client.
type EmployeeVerifier interface {
	ValidateEmployeeID(ctx context.Context, bearerToken, cardNumber, name, relation string) (*rtcapi.EmployeeValidationResult, error)
}

// VerificationCoordinator runs employee-ID checks for passenger-form
// sessions. Field edits schedule a debounced check per passenger; the final
// pass before payment re-checks every employee passenger synchronously with
// a fresh uniqueness set so stale reservations from earlier edits cannot
// leak through.
//
// The uniqueness rule is layered on top of the server's answer: one card
// number may be verified for at most one passenger per relation at a time.
type VerificationCoordinator struct {
	verifier    EmployeeVerifier
	fare        *FareService
	debounce    time.Duration
	callTimeout time.Duration
	logger      *logrus.Logger
}

// NewVerificationCoordinator creates a verification coordinator.
func NewVerificationCoordinator(verifier EmployeeVerifier, fare *FareService, debounce time.Duration, logger *logrus.Logger) *VerificationCoordinator {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &VerificationCoordinator{
		verifier:    verifier,
		fare:        fare,
		debounce:    debounce,
		callTimeout: 15 * time.Second,
		logger:      logger,
	}
}

// reservationKey identifies one cardNumber+relation pair in the uniqueness
// set.
func reservationKey(cardNumber string, relation models.EmployeeRelation) string {
	return cardNumber + "|" + string(relation)
}

// Schedule queues a debounced verification for one passenger. A newer edit
// for the same passenger cancels any unfired prior task and supersedes any
// in-flight result (last edit wins).
func (c *VerificationCoordinator) Schedule(sess *FormSession, index int) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if index < 0 || index >= len(sess.Passengers) {
		return
	}
	p := &sess.Passengers[index]
	if p.ConcessionType != models.ConcessionRTCEmployee || p.CardNumber == "" || p.EmployeeRelation == "" {
		return
	}

	gen := sess.bumpGeneration(index)
	p.VerificationStatus = models.VerificationPending

	if timer, ok := sess.timers[index]; ok {
		timer.Stop()
	}
	sess.timers[index] = time.AfterFunc(c.debounce, func() {
		c.runScheduled(sess, index, gen)
	})
}

// runScheduled performs one debounced check after the quiet period.
func (c *VerificationCoordinator) runScheduled(sess *FormSession, index int, gen uint64) {
	sess.mu.Lock()
	if sess.generation(index) != gen || index >= len(sess.Passengers) {
		sess.mu.Unlock()
		return
	}
	p := sess.Passengers[index]
	bearerToken := sess.BearerToken
	sess.mu.Unlock()

	if p.ConcessionType != models.ConcessionRTCEmployee || p.CardNumber == "" || p.EmployeeRelation == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.callTimeout)
	defer cancel()
	result, err := c.verifier.ValidateEmployeeID(ctx, bearerToken, p.CardNumber, p.Name, string(p.EmployeeRelation))

	sess.mu.Lock()
	defer sess.mu.Unlock()

	// A newer edit superseded this call while it was in flight.
	if sess.generation(index) != gen || index >= len(sess.Passengers) {
		return
	}

	c.applyResultLocked(sess, index, result, err, sess.usedIDs)
	sess.TotalPrice = c.fare.Total(sess.Passengers)
	sess.touchLocked()
}

// applyResultLocked records one verification outcome on a passenger and
// maintains the uniqueness set. Callers hold the session lock.
func (c *VerificationCoordinator) applyResultLocked(sess *FormSession, index int, result *rtcapi.EmployeeValidationResult, err error, used map[string]int) {
	p := &sess.Passengers[index]
	baseFare := sess.Bus.TicketPrice

	if err != nil {
		// Network failure is never fatal: the passenger is rejected with a
		// generic message and the rider retries by re-editing the field.
		c.logger.WithError(err).WithField("passenger", index).Warn("Employee ID verification call failed")
		p.IsEmployeeVerified = false
		p.VerificationStatus = models.VerificationRejected
		p.StatusMessage = "Error validating Employee ID"
		p.TicketPrice = baseFare
		return
	}

	if !result.Valid {
		p.IsEmployeeVerified = false
		p.VerificationStatus = models.VerificationRejected
		p.StatusMessage = result.Message
		if p.StatusMessage == "" {
			p.StatusMessage = "Employee ID not verified"
		}
		p.TicketPrice = baseFare
		return
	}

	key := reservationKey(p.CardNumber, p.EmployeeRelation)
	if holder, taken := used[key]; taken && holder != index {
		p.IsEmployeeVerified = false
		p.VerificationStatus = models.VerificationRejected
		p.StatusMessage = ErrDuplicateEmployeeID.Error()
		p.TicketPrice = baseFare
		return
	}

	used[key] = index
	p.IsEmployeeVerified = true
	p.VerificationStatus = models.VerificationVerified
	p.StatusMessage = "Employee found"
	p.TicketPrice = baseFare * EmployeeDiscountMultiplier
}

// VerifyAll is the final pass before payment: full field validation for
// every passenger, then a synchronous, exhaustive employee-ID check with a
// uniqueness set rebuilt from scratch. It short-circuits at the first
// failure with a passenger-indexed error. The session's uniqueness set is
// refreshed from the resulting passenger states whether the pass succeeds
// or fails partway.
func (c *VerificationCoordinator) VerifyAll(ctx context.Context, sess *FormSession) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	// Cancel pending debounced checks; this pass supersedes them all.
	sess.stopTimersLocked()
	for i := range sess.Passengers {
		sess.bumpGeneration(i)
	}

	// The uniqueness set must describe whatever passenger states this pass
	// leaves behind, including after an early return on a failed row.
	defer func() {
		sess.usedIDs = rebuildUsedLocked(sess)
	}()

	freshUsed := make(map[string]int, len(sess.Passengers))
	baseFare := sess.Bus.TicketPrice
	sess.Validated = false
	sess.touchLocked()

	for i := range sess.Passengers {
		p := &sess.Passengers[i]

		if err := validatePassengerLocked(p, i); err != nil {
			sess.Message = err.Error()
			return err
		}

		if p.ConcessionType != models.ConcessionRTCEmployee {
			p.IsEmployeeVerified = false
			p.VerificationStatus = models.VerificationUnverified
			p.TicketPrice = baseFare
			continue
		}

		result, err := c.verifier.ValidateEmployeeID(ctx, sess.BearerToken, p.CardNumber, p.Name, string(p.EmployeeRelation))
		c.applyResultLocked(sess, i, result, err, freshUsed)

		if !p.IsEmployeeVerified {
			sess.TotalPrice = c.fare.Total(sess.Passengers)
			if strings.Contains(p.StatusMessage, ErrDuplicateEmployeeID.Error()) {
				sess.Message = fmt.Sprintf("%s for passenger %d", ErrDuplicateEmployeeID.Error(), i+1)
				return fmt.Errorf("%w for passenger %d", ErrDuplicateEmployeeID, i+1)
			}
			sess.Message = fmt.Sprintf("employee ID not verified for passenger %d: %s", i+1, p.StatusMessage)
			return fmt.Errorf("%w for passenger %d: %s", ErrVerificationFailed, i+1, p.StatusMessage)
		}
	}

	sess.TotalPrice = c.fare.Total(sess.Passengers)
	sess.Validated = true
	sess.Message = "All details verified successfully"
	return nil
}

// rebuildUsedLocked derives the uniqueness set from the passengers that are
// currently verified. Callers hold the session lock.
func rebuildUsedLocked(sess *FormSession) map[string]int {
	used := make(map[string]int, len(sess.Passengers))
	for i := range sess.Passengers {
		p := &sess.Passengers[i]
		if p.IsEmployeeVerified {
			used[reservationKey(p.CardNumber, p.EmployeeRelation)] = i
		}
	}
	return used
}

// validatePassengerLocked runs the full field checks for one passenger row.
func validatePassengerLocked(p *models.Passenger, index int) error {
	n := index + 1
	if p.Gender == "" {
		return fmt.Errorf("%w: please select a gender for passenger %d", ErrValidationFailed, n)
	}
	if err := validator.ValidateName(p.Name); err != nil {
		return fmt.Errorf("%w: %s for passenger %d", ErrValidationFailed, err.Error(), n)
	}
	if err := validator.ValidateAge(p.Age); err != nil {
		return fmt.Errorf("%w: %s for passenger %d", ErrValidationFailed, err.Error(), n)
	}
	if p.SeatNo == 0 {
		return fmt.Errorf("%w: seat number is missing for passenger %d", ErrValidationFailed, n)
	}
	if p.ConcessionType == "" {
		return fmt.Errorf("%w: please select a concession type for passenger %d", ErrValidationFailed, n)
	}
	if p.ConcessionType == models.ConcessionRTCEmployee {
		if p.CardNumber == "" {
			return fmt.Errorf("%w: please provide an employee ID for passenger %d", ErrValidationFailed, n)
		}
		if p.EmployeeRelation == "" {
			return fmt.Errorf("%w: please select a relation (self or wife) for passenger %d", ErrValidationFailed, n)
		}
	}
	return nil
}
