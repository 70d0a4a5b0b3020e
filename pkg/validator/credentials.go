package validator

import (
	"errors"
	"regexp"
	"unicode"
)

var (
	// ErrInvalidEmail indicates the email does not look like an address
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword indicates the password fails the strength policy
	ErrWeakPassword = errors.New("password must be at least 6 characters, include 1 uppercase letter and 1 number")

	// ErrPasswordMismatch indicates password and confirmation differ
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidPhone indicates the phone number is not 10 digits
	ErrInvalidPhone = errors.New("invalid phone number (10 digits required)")
)

// emailRegex matches the address shape the registration form accepts
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// mobileRegex matches exactly 10 digits
var mobileRegex = regexp.MustCompile(`^[0-9]{10}$`)

// ValidateEmail validates an email address.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the password policy: minimum 6 characters with
// at least one uppercase letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}
	hasUpper, hasDigit := false, false
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	if !hasUpper || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}

// ValidatePasswordConfirmation checks the confirm-password field.
func ValidatePasswordConfirmation(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// ValidateMobile validates a 10-digit mobile number.
func ValidateMobile(phone string) error {
	if !mobileRegex.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}
