package address

import (
	"errors"
	"fmt"
)

var (
	ErrAddressNotFound = errors.New("address not found")
	ErrAddressExists   = errors.New("address already exists")
	ErrInvalidKind     = errors.New("invalid kind")

	// ErrInvalidAddress is matched by every validation error below.
	ErrInvalidAddress = errors.New("invalid address")
)

// EmptyFieldError reports a required line that is absent or blank.
type EmptyFieldError struct {
	Field string
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *EmptyFieldError) Is(target error) bool { return target == ErrInvalidAddress }

type TooLongError struct {
	Field  string
	Max    int
	Actual int
}

func (e *TooLongError) Error() string {
	return fmt.Sprintf("%s is too long: %d characters, max %d", e.Field, e.Actual, e.Max)
}

func (e *TooLongError) Is(target error) bool { return target == ErrInvalidAddress }

// InvalidPostalCodeError reports a line 6 outside the "NNNNN [TOWN]" grammar.
type InvalidPostalCodeError struct {
	Value string
}

func (e *InvalidPostalCodeError) Error() string {
	return fmt.Sprintf("invalid postal code line: %q", e.Value)
}

func (e *InvalidPostalCodeError) Is(target error) bool { return target == ErrInvalidAddress }

type InvalidCountryCodeError struct {
	Value string
}

func (e *InvalidCountryCodeError) Error() string {
	return fmt.Sprintf("invalid country code: %q, expected 2 characters", e.Value)
}

func (e *InvalidCountryCodeError) Is(target error) bool { return target == ErrInvalidAddress }

// FieldOf names the field a validation error refers to, or "" for any other error.
func FieldOf(err error) string {
	var (
		empty   *EmptyFieldError
		tooLong *TooLongError
		postal  *InvalidPostalCodeError
		country *InvalidCountryCodeError
	)
	switch {
	case errors.As(err, &empty):
		return empty.Field
	case errors.As(err, &tooLong):
		return tooLong.Field
	case errors.As(err, &postal):
		return "line6"
	case errors.As(err, &country):
		return "country"
	default:
		return ""
	}
}
