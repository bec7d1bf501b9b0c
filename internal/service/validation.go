package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/park-booking/internal/domain"
)

var (
	// Prefix match: anything after the first "x@y.z" shape is accepted.
	emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)
	phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)
	datePattern  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
)

// RegistrationInput carries the raw registration form.
type RegistrationInput struct {
	Username    string
	Password    string
	Email       string
	PhoneNumber string
	DateOfBirth string
}

// Normalize trims surrounding whitespace from every field.
func (in RegistrationInput) Normalize() RegistrationInput {
	return RegistrationInput{
		Username:    strings.TrimSpace(in.Username),
		Password:    strings.TrimSpace(in.Password),
		Email:       strings.TrimSpace(in.Email),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		DateOfBirth: strings.TrimSpace(in.DateOfBirth),
	}
}

// ValidateRegistration checks presence of every field first, then the formats of email,
// phone number and date of birth, in that order.
func ValidateRegistration(in RegistrationInput) error {
	required := []struct {
		field string
		value string
	}{
		{"username", in.Username},
		{"password", in.Password},
		{"email", in.Email},
		{"phone_number", in.PhoneNumber},
		{"date_of_birth", in.DateOfBirth},
	}
	for _, r := range required {
		if err := ValidateRequired(r.field, r.value); err != nil {
			return err
		}
	}

	if err := ValidateEmail(in.Email); err != nil {
		return err
	}
	if err := ValidatePhone(in.PhoneNumber); err != nil {
		return err
	}
	return ValidateDateOfBirth(in.DateOfBirth)
}

// ValidateRequired rejects values that are blank after trimming.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(field, domain.ErrFieldRequired)
	}
	return nil
}

// ValidateEmail accepts the simple local@domain.tld shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return domain.NewValidationError("email", domain.ErrInvalidEmail)
	}
	return nil
}

// ValidatePhone accepts an optional "+", an optional leading "1", then 9 to 15 digits.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return domain.NewValidationError("phone_number", domain.ErrInvalidPhone)
	}
	return nil
}

// ValidateDateOfBirth accepts a calendar date written YYYY-MM-DD. Month and day may
// omit their leading zero.
func ValidateDateOfBirth(dob string) error {
	if _, ok := parseDate(dob); !ok {
		return domain.NewValidationError("date_of_birth", domain.ErrInvalidDateOfBirth)
	}
	return nil
}

func parseDate(s string) (time.Time, bool) {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}
