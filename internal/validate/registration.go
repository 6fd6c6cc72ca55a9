package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/todo-client/internal/model"
)

// Registration is the raw content of the registration form.
type Registration struct {
	FirstName       string
	LastName        string
	Email           string
	Country         string
	Phone           string
	Password        string
	ConfirmPassword string
}

// FieldError ties a validation failure to a form field.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// Validate checks every field and returns all failures joined, or nil.
func (r Registration) Validate() error {
	checks := []struct {
		field string
		err   error
	}{
		{"firstName", FirstName(r.FirstName)},
		{"lastName", LastName(r.LastName)},
		{"email", Email(r.Email)},
		{"country", Country(r.Country)},
		{"phoneNumber", Phone(r.Phone)},
		{"password", Password(r.Password)},
		{"confirmPassword", Confirmation(func() string { return r.Password })(r.ConfirmPassword)},
	}

	var errs []error
	for _, c := range checks {
		if c.err != nil {
			errs = append(errs, FieldError{Field: c.field, Err: c.err})
		}
	}
	return errors.Join(errs...)
}

// FullName joins first and last name the way the API expects.
func (r Registration) FullName() string {
	return strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName)
}

// PhoneNumber prefixes the number with the selected country's dial code.
func (r Registration) PhoneNumber() string {
	return model.DialCode(r.Country) + r.Phone
}

// Login is the raw content of the login form.
type Login struct {
	Email    string
	Password string
}

// Validate checks that both credentials are present and the email is well
// formed.
func (l Login) Validate() error {
	var errs []error
	if err := Email(l.Email); err != nil {
		errs = append(errs, FieldError{Field: "email", Err: err})
	}
	if err := Required("Password")(l.Password); err != nil {
		errs = append(errs, FieldError{Field: "password", Err: err})
	}
	return errors.Join(errs...)
}
