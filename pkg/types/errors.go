package types

import "errors"

// Contact validation errors. Each one names a single form field so callers
// can render a message next to it.
var (
	ErrInvalidName    = errors.New("contact needs a first or last name")
	ErrInvalidPhone   = errors.New("invalid phone number")
	ErrInvalidEmail   = errors.New("invalid e-mail address")
	ErrInvalidAddress = errors.New("invalid home address")
)

// Account errors.
var (
	ErrInvalidUsername   = errors.New("invalid username")
	ErrInvalidPassword   = errors.New("password must not be empty")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
)

// Store lifecycle errors.
var (
	ErrNotConnected     = errors.New("store is not connected")
	ErrAlreadyConnected = errors.New("store is already connected")
)

// Form field names reported by FieldOf.
const (
	FieldName  = "name"
	FieldPhone = "phone"
	FieldEmail = "email"
	FieldHome  = "home"
)

var fieldErrors = []struct {
	err   error
	field string
}{
	{ErrInvalidName, FieldName},
	{ErrInvalidPhone, FieldPhone},
	{ErrInvalidEmail, FieldEmail},
	{ErrInvalidAddress, FieldHome},
}

// FieldOf returns the form fields that err refers to, in form order.
// It returns nil when err carries no contact validation error.
func FieldOf(err error) []string {
	if err == nil {
		return nil
	}
	var fields []string
	for _, fe := range fieldErrors {
		if errors.Is(err, fe.err) {
			fields = append(fields, fe.field)
		}
	}
	return fields
}

// IsValidation reports whether err is a contact or account input error that
// the user can fix by re-entering a value.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidName, ErrInvalidPhone, ErrInvalidEmail, ErrInvalidAddress,
		ErrInvalidUsername, ErrInvalidPassword,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
