package registration

import (
	"github.com/go-playground/validator/v10"
)

// AccountForm is the raw account-creation submission. The password is used
// for the backend call only and never written to flow state.
type AccountForm struct {
	Username  string `validate:"required,min=3,max=150"`
	Password  string `validate:"required,min=6"`
	Email     string `validate:"required,email,max=200"`
	FirstName string `validate:"required,max=100"`
	LastName  string `validate:"required,max=100"`
}

var fieldMessages = map[string]string{
	"Username":  "Username must be at least 3 characters",
	"Password":  "Password must be at least 6 characters",
	"Email":     "A valid email address is required",
	"FirstName": "First name is required",
	"LastName":  "Last name is required",
}

// Validate checks the form locally. A non-nil result blocks submission
// before any network call is made.
func (f AccountForm) Validate() *ValidationError {
	v := validator.New()
	err := v.Struct(f)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			msg, known := fieldMessages[fe.Field()]
			if !known {
				msg = "Invalid value"
			}
			fields[fe.Field()] = msg
		}
	} else {
		fields["form"] = "Invalid submission"
	}
	return &ValidationError{Fields: fields}
}
