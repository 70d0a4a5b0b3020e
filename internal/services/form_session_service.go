package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/rtconnect/booking-gateway/internal/models"
	"github.com/rtconnect/booking-gateway/pkg/validator"
)

// FormSession carries the passenger-details form state for one booking
// attempt between seat selection and payment. Debounce timers and
// verification generation counters cannot survive serialization, so
// sessions live in memory and expire on inactivity.
type FormSession struct {
	ID            string
	Bus           models.Bus
	SelectedSeats []int
	BearerToken   string
	Passengers    []models.Passenger
	TotalPrice    float64
	Validated     bool
	Message       string
	UpdatedAt     time.Time

	mu          sync.Mutex
	generations map[int]uint64
	timers      map[int]*time.Timer
	usedIDs     map[string]int
}

// bumpGeneration advances the edit counter for one passenger. Callers hold
// the session lock.
func (s *FormSession) bumpGeneration(index int) uint64 {
	s.generations[index]++
	return s.generations[index]
}

// generation reads the current edit counter for one passenger. Callers hold
// the session lock.
func (s *FormSession) generation(index int) uint64 {
	return s.generations[index]
}

// touchLocked refreshes the inactivity clock. Callers hold the session lock.
func (s *FormSession) touchLocked() {
	s.UpdatedAt = time.Now()
}

// stopTimersLocked cancels any pending debounce timers. Callers hold the
// session lock.
func (s *FormSession) stopTimersLocked() {
	for index, timer := range s.timers {
		timer.Stop()
		delete(s.timers, index)
	}
}

// FormSessionSnapshot is the read view handed to callers. Passengers are
// copied so the caller never observes a row mid-edit.
type FormSessionSnapshot struct {
	SessionID     string             `json:"session_id"`
	Bus           models.Bus         `json:"bus"`
	SelectedSeats []int              `json:"selected_seats"`
	Passengers    []models.Passenger `json:"passengers"`
	TotalPrice    float64            `json:"total_price"`
	Validated     bool               `json:"validated"`
	Message       string             `json:"message,omitempty"`
}

// FormSessionService is the in-memory registry of passenger-form sessions.
type FormSessionService struct {
	mu          sync.RWMutex
	sessions    map[string]*FormSession
	coordinator *VerificationCoordinator
	fare        *FareService
	logger      *logrus.Logger
}

// NewFormSessionService creates an empty session registry.
func NewFormSessionService(coordinator *VerificationCoordinator, fare *FareService, logger *logrus.Logger) *FormSessionService {
	return &FormSessionService{
		sessions:    make(map[string]*FormSession),
		coordinator: coordinator,
		fare:        fare,
		logger:      logger,
	}
}

// CreateSession opens a passenger form for a confirmed seat selection. One
// row per selected seat is prefilled from the rider's profile; the first
// passenger is usually the rider themselves so their name, gender and
// contact details carry over. Every row starts at the base fare.
func (s *FormSessionService) CreateSession(handoff *models.SeatSelectionHandoff, bearerToken string) (*FormSessionSnapshot, error) {
	if missing := handoff.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingSessionData, missing)
	}

	passengers := make([]models.Passenger, len(handoff.SelectedSeats))
	for i, seatNo := range handoff.SelectedSeats {
		passengers[i] = models.Passenger{
			SeatNo:             seatNo,
			Name:               handoff.UserData.Fullname,
			Gender:             models.Gender(handoff.UserData.Gender),
			MobileNo:           handoff.UserData.PhoneNumber,
			Email:              handoff.UserData.Email,
			ConcessionType:     models.ConcessionGeneral,
			VerificationStatus: models.VerificationUnverified,
			TicketPrice:        handoff.Bus.TicketPrice,
		}
	}

	sess := &FormSession{
		ID:            uuid.NewString(),
		Bus:           handoff.Bus,
		SelectedSeats: append([]int(nil), handoff.SelectedSeats...),
		BearerToken:   bearerToken,
		Passengers:    passengers,
		TotalPrice:    s.fare.Total(passengers),
		UpdatedAt:     time.Now(),
		generations:   make(map[int]uint64),
		timers:        make(map[int]*time.Timer),
		usedIDs:       make(map[string]int),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"bus_id":     sess.Bus.BusID,
		"seats":      len(sess.SelectedSeats),
	}).Info("Passenger form session created")

	return snapshotLocked(sess), nil
}

// lookup finds a live session by ID.
func (s *FormSessionService) lookup(sessionID string) (*FormSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Snapshot returns the current state of one session.
func (s *FormSessionService) Snapshot(sessionID string) (*FormSessionSnapshot, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return snapshotLocked(sess), nil
}

// ApplyFieldChange records one keystroke-level edit to a passenger row.
// Name and age edits are rejected character-by-character so an invalid
// character never enters the field. Edits to employee-related fields
// schedule a debounced verification; any edit invalidates the previous
// final-pass result.
func (s *FormSessionService) ApplyFieldChange(sessionID string, index int, change models.FieldChangeRequest) (*FormSessionSnapshot, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if index < 0 || index >= len(sess.Passengers) {
		sess.mu.Unlock()
		return nil, fmt.Errorf("%w: passenger index %d out of range", ErrValidationFailed, index)
	}
	p := &sess.Passengers[index]
	baseFare := sess.Bus.TicketPrice
	scheduleVerify := false

	switch change.Field {
	case models.FieldName:
		if !validator.IsPartialName(change.Value) {
			sess.mu.Unlock()
			return nil, fmt.Errorf("%w: name must contain only alphabetic characters", ErrValidationFailed)
		}
		p.Name = change.Value
		scheduleVerify = s.employeeFieldsReadyLocked(p)
	case models.FieldAge:
		if !validator.IsPartialAge(change.Value) {
			sess.mu.Unlock()
			return nil, fmt.Errorf("%w: age must be a number", ErrValidationFailed)
		}
		// Partial input is stored as typed; range checks run in the final
		// verification pass. An empty value clears the field.
		age := 0
		if change.Value != "" {
			age, err = strconv.Atoi(change.Value)
			if err != nil {
				sess.mu.Unlock()
				return nil, fmt.Errorf("%w: age must be a number", ErrValidationFailed)
			}
		}
		p.Age = age
	case models.FieldGender:
		p.Gender = models.Gender(change.Value)
	case models.FieldMobileNo:
		p.MobileNo = change.Value
	case models.FieldEmail:
		p.Email = change.Value
	case models.FieldConcessionType:
		s.applyConcessionChangeLocked(sess, p, models.ConcessionType(change.Value), baseFare)
	case models.FieldCardNumber:
		s.applyCardChangeLocked(sess, index, p, change.Value, baseFare)
		scheduleVerify = s.employeeFieldsReadyLocked(p)
	case models.FieldEmployeeRelation:
		s.releaseVerificationLocked(sess, index, p, baseFare)
		p.EmployeeRelation = models.EmployeeRelation(change.Value)
		scheduleVerify = s.employeeFieldsReadyLocked(p)
	default:
		sess.mu.Unlock()
		return nil, fmt.Errorf("%w: unknown field %q", ErrValidationFailed, change.Field)
	}

	sess.Validated = false
	sess.Message = ""
	sess.TotalPrice = s.fare.Total(sess.Passengers)
	sess.touchLocked()
	sess.mu.Unlock()

	if scheduleVerify {
		s.coordinator.Schedule(sess, index)
	}

	sess.mu.Lock()
	snapshot := snapshotLocked(sess)
	sess.mu.Unlock()
	return snapshot, nil
}

// employeeFieldsReadyLocked reports whether a row has everything needed for
// an employee-ID check.
func (s *FormSessionService) employeeFieldsReadyLocked(p *models.Passenger) bool {
	return p.ConcessionType == models.ConcessionRTCEmployee && p.CardNumber != "" && p.EmployeeRelation != ""
}

// applyConcessionChangeLocked switches a row's concession type. Leaving the
// employee type drops any verified discount and frees the card number for
// other passengers.
func (s *FormSessionService) applyConcessionChangeLocked(sess *FormSession, p *models.Passenger, next models.ConcessionType, baseFare float64) {
	if p.ConcessionType == models.ConcessionRTCEmployee && next != models.ConcessionRTCEmployee {
		s.releaseVerificationByRowLocked(sess, p, baseFare)
		p.CardNumber = ""
		p.EmployeeRelation = ""
	}
	p.ConcessionType = next
	p.TicketPrice = baseFare
}

// applyCardChangeLocked replaces the card number on a row, releasing any
// reservation held under the old value.
func (s *FormSessionService) applyCardChangeLocked(sess *FormSession, index int, p *models.Passenger, value string, baseFare float64) {
	s.releaseVerificationLocked(sess, index, p, baseFare)
	p.CardNumber = value
}

// releaseVerificationLocked drops a row's verified state and uniqueness
// reservation ahead of an edit that changes the card or relation.
func (s *FormSessionService) releaseVerificationLocked(sess *FormSession, index int, p *models.Passenger, baseFare float64) {
	key := reservationKey(p.CardNumber, p.EmployeeRelation)
	if holder, ok := sess.usedIDs[key]; ok && holder == index {
		delete(sess.usedIDs, key)
	}
	p.IsEmployeeVerified = false
	p.VerificationStatus = models.VerificationUnverified
	p.StatusMessage = ""
	p.TicketPrice = baseFare
}

// releaseVerificationByRowLocked is releaseVerificationLocked for callers
// that hold the row pointer but not its index.
func (s *FormSessionService) releaseVerificationByRowLocked(sess *FormSession, p *models.Passenger, baseFare float64) {
	for i := range sess.Passengers {
		if &sess.Passengers[i] == p {
			s.releaseVerificationLocked(sess, i, p, baseFare)
			return
		}
	}
}

// VerifyAll runs the final synchronous verification pass for a session.
// The returned snapshot reflects the pass outcome even when err is non-nil.
func (s *FormSessionService) VerifyAll(ctx context.Context, sessionID string) (*FormSessionSnapshot, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	verifyErr := s.coordinator.VerifyAll(ctx, sess)
	sess.mu.Lock()
	snapshot := snapshotLocked(sess)
	sess.mu.Unlock()
	return snapshot, verifyErr
}

// Finalize hands a verified session off to payment. The session stays
// registered so the rider can navigate back and re-edit, which clears the
// verified flag and forces a fresh pass.
func (s *FormSessionService) Finalize(sessionID string) (*models.PaymentHandoff, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.Validated {
		return nil, fmt.Errorf("%w: complete verification before payment", ErrNotVerified)
	}
	return &models.PaymentHandoff{
		SessionID:     sess.ID,
		Passengers:    append([]models.Passenger(nil), sess.Passengers...),
		TotalPrice:    sess.TotalPrice,
		BusID:         sess.Bus.BusID,
		SelectedSeats: append([]int(nil), sess.SelectedSeats...),
		Bus:           sess.Bus,
	}, nil
}

// Remove deletes a session, cancelling any pending debounce timers.
func (s *FormSessionService) Remove(sessionID string) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	if ok {
		sess.mu.Lock()
		sess.stopTimersLocked()
		sess.mu.Unlock()
	}
}

// ExpireStale removes sessions idle for longer than maxAge and returns how
// many were dropped. Wired to the periodic cleanup job.
func (s *FormSessionService) ExpireStale(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	var stale []*FormSession
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.UpdatedAt.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			stale = append(stale, sess)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.mu.Lock()
		sess.stopTimersLocked()
		sess.mu.Unlock()
	}
	if len(stale) > 0 {
		s.logger.WithField("count", len(stale)).Info("Expired stale passenger form sessions")
	}
	return len(stale)
}

// snapshotLocked builds a read view of a session. Callers hold the session
// lock (or hold the only reference, as in CreateSession).
func snapshotLocked(sess *FormSession) *FormSessionSnapshot {
	return &FormSessionSnapshot{
		SessionID:     sess.ID,
		Bus:           sess.Bus,
		SelectedSeats: append([]int(nil), sess.SelectedSeats...),
		Passengers:    append([]models.Passenger(nil), sess.Passengers...),
		TotalPrice:    sess.TotalPrice,
		Validated:     sess.Validated,
		Message:       sess.Message,
	}
}
