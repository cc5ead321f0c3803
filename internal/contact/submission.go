// Package contact validates contact form submissions, screens out abuse and
// relays accepted messages to the site owner by mail.
package contact

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
)

const (
	MaxNameLength    = 120
	MaxEmailLength   = 254
	MaxMessageLength = 3000
)

// Submission is one contact form post. Website is a honeypot field that real
// visitors never fill in.
type Submission struct {
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Message   string     `json:"message"`
	Website   string     `json:"website,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

// Normalize trims surrounding whitespace from every text field.
func (s Submission) Normalize() Submission {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Message = strings.TrimSpace(s.Message)
	s.Website = strings.TrimSpace(s.Website)
	return s
}

// Validate checks field presence and limits. Failures are reported as a
// go-errors validation error carrying one entry per field.
func (s Submission) Validate() error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Name,
			validation.Required.Error("Enter your name."),
			validation.RuneLength(1, MaxNameLength),
		),
		validation.Field(&s.Email,
			validation.Required.Error("Enter your email address."),
			validation.RuneLength(1, MaxEmailLength),
			is.EmailFormat.Error("Enter a valid email address (for example: name@example.com)."),
		),
		validation.Field(&s.Message,
			validation.Required.Error("Enter a message."),
			validation.RuneLength(1, MaxMessageLength),
		),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "contact: invalid submission").
			WithTextCode(textCodeInvalid)
	}
	return nil
}
