package validator

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrEmptyName indicates the passenger name is blank
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrInvalidName indicates the name contains non-alphabetic characters
	ErrInvalidName = errors.New("name must contain only alphabetic characters and spaces")

	// ErrInvalidAge indicates the age is outside the bookable range
	ErrInvalidAge = errors.New("age must be greater than 5 and less than 110")

	// ErrNotANumber indicates the age field holds non-digit characters
	ErrNotANumber = errors.New("age can only contain digits")
)

// nameRegex matches alphabetic characters and spaces only
var nameRegex = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// digitsRegex matches digits only
var digitsRegex = regexp.MustCompile(`^\d+$`)

// ValidateName validates a passenger name: non-blank, alphabetic plus spaces.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if !nameRegex.MatchString(strings.TrimSpace(name)) {
		return ErrInvalidName
	}
	return nil
}

// IsPartialName reports whether a name being typed is still acceptable.
// Unlike ValidateName it accepts the empty string so field edits can clear
// the input.
func IsPartialName(name string) bool {
	return name == "" || nameRegex.MatchString(name)
}

// IsPartialAge reports whether an age being typed is still acceptable:
// empty or digits only.
func IsPartialAge(age string) bool {
	return age == "" || digitsRegex.MatchString(age)
}

// ValidateAge validates a passenger age. The bookable range is exclusive on
// both ends: a 5-year-old travels free, ages of 110 and above are rejected
// as form mistakes.
func ValidateAge(age int) error {
	if age <= 5 || age >= 110 {
		return ErrInvalidAge
	}
	return nil
}

// ParseAge converts an age field to an integer and validates it.
func ParseAge(raw string) (int, error) {
	if !digitsRegex.MatchString(raw) {
		return 0, ErrNotANumber
	}
	age, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrNotANumber
	}
	if err := ValidateAge(age); err != nil {
		return 0, err
	}
	return age, nil
}
