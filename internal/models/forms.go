package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ContactForm carries the editable contact fields from the HTML form or the JSON API.
// Id and owner are deliberately absent: clients cannot set them.
type ContactForm struct {
	Name  string `schema:"name" json:"name" validate:"required"`
	Email string `schema:"email" json:"email" validate:"required,email"`
	Phone string `schema:"phone" json:"phone" validate:"required"`
}

// Normalize trims surrounding whitespace so blank values fail "required".
func (f ContactForm) Normalize() ContactForm {
	return ContactForm{
		Name:  strings.TrimSpace(f.Name),
		Email: strings.TrimSpace(f.Email),
		Phone: strings.TrimSpace(f.Phone),
	}
}

func (f ContactForm) Validate() ValidationErrors {
	return validateStruct(f.Normalize())
}

type RegistrationForm struct {
	Username string `schema:"username" validate:"required"`
	Password string `schema:"password" validate:"required"`
	Email    string `schema:"email" validate:"required,email"`
}

func (f RegistrationForm) Validate() ValidationErrors {
	return validateStruct(RegistrationForm{
		Username: strings.TrimSpace(f.Username),
		Password: strings.TrimSpace(f.Password),
		Email:    strings.TrimSpace(f.Email),
	})
}

// FieldError is a single rejected form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists rejected fields in form order.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether field was rejected.
func (v ValidationErrors) Has(field string) bool {
	return v.For(field) != ""
}

// For returns the first message recorded for field, or "".
func (v ValidationErrors) For(field string) string {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Add records a message for field, e.g. a duplicate username found after validation passed.
func (v ValidationErrors) Add(field, message string) ValidationErrors {
	return append(v, FieldError{Field: field, Message: message})
}

// Map returns field -> message, keeping the first message per field.
func (v ValidationErrors) Map() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("schema"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}

func validateStruct(s any) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "form", Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	label := fe.Field()
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return label + " must be a valid email address"
	default:
		return label + " is invalid"
	}
}
