package models

// Gender of a passenger.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ConcessionType is the fare category a passenger travels under.
type ConcessionType string

const (
	ConcessionGeneral     ConcessionType = "general"
	ConcessionSenior      ConcessionType = "senior"
	ConcessionRTCEmployee ConcessionType = "rtc_employee"
)

// EmployeeRelation describes whose employee card a passenger presents.
type EmployeeRelation string

const (
	RelationSelf EmployeeRelation = "self"
	RelationWife EmployeeRelation = "wife"
)

// VerificationStatus tracks a single passenger's employee-ID check.
//
// Transitions: Unverified -> Pending (call scheduled) -> Verified or Rejected.
// Changing concession type away from rtc_employee forces Unverified; changing
// the card number while Verified forces Unverified pending a re-check.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
	VerificationRejected   VerificationStatus = "rejected"
)

// Passenger is one row of the passenger-detail form. Created when seats are
// confirmed, mutated while the rider fills the form and as verification
// results arrive, then frozen into the payment hand-off.
type Passenger struct {
	SeatNo             int                `json:"seat_no"`
	Name               string             `json:"name"`
	Age                int                `json:"age"`
	Gender             Gender             `json:"gender"`
	MobileNo           string             `json:"mobile_no"`
	Email              string             `json:"email"`
	ConcessionType     ConcessionType     `json:"concession_type"`
	CardNumber         string             `json:"card_number"`
	EmployeeRelation   EmployeeRelation   `json:"employee_relation"`
	IsEmployeeVerified bool               `json:"is_employee_verified"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	StatusMessage      string             `json:"status_message"`
	TicketPrice        float64            `json:"ticket_price"`
}

// EmployeeValidation is the remote validator's answer for one card number.
type EmployeeValidation struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// PassengerField names a mutable passenger-form field.
type PassengerField string

const (
	FieldName             PassengerField = "name"
	FieldAge              PassengerField = "age"
	FieldGender           PassengerField = "gender"
	FieldMobileNo         PassengerField = "mobile_no"
	FieldEmail            PassengerField = "email"
	FieldConcessionType   PassengerField = "concession_type"
	FieldCardNumber       PassengerField = "card_number"
	FieldEmployeeRelation PassengerField = "employee_relation"
)

// FieldChangeRequest applies one edit to one passenger row.
type FieldChangeRequest struct {
	Field PassengerField `json:"field" binding:"required"`
	Value string         `json:"value"`
}
