package provisioning

import (
	"github.com/go-playground/validator/v10"
)

// Validation messages shown back to the registrant.
const (
	MsgNoFirstName      = "No Avatar First Name entered"
	MsgInvalidFirstName = "Invalid Avatar First Name entered"
	MsgNoLastName       = "No Avatar Last Name entered"
	MsgInvalidLastName  = "Invalid Avatar Last Name entered"
	MsgInvalidEmail     = "Invalid email entered"
	MsgNoPassword       = "No password entered"
	MsgPasswordMismatch = "Passwords do not match"
	MsgNoRealFirstName  = "No Real First Name entered"
	MsgNoRealLastName   = "No Real Last Name entered"
	MsgNoInstitution    = "No Institution entered"
)

// validateRegistration checks raw against every rule and returns the
// trimmed registration. All failures are collected.
func validateRegistration(v *validator.Validate, raw Registration) (Registration, *ValidationError) {
	reg := raw.trimmed()
	var msgs []string

	if reg.FirstName == "" {
		if raw.FirstName == "" {
			msgs = append(msgs, MsgNoFirstName)
		} else {
			msgs = append(msgs, MsgInvalidFirstName)
		}
	}
	if reg.LastName == "" {
		if raw.LastName == "" {
			msgs = append(msgs, MsgNoLastName)
		} else {
			msgs = append(msgs, MsgInvalidLastName)
		}
	}
	if reg.Email == "" || v.Var(reg.Email, "email") != nil {
		msgs = append(msgs, MsgInvalidEmail)
	}
	if reg.Password == "" {
		msgs = append(msgs, MsgNoPassword)
	} else if reg.Password != reg.Password2 {
		msgs = append(msgs, MsgPasswordMismatch)
	}
	if reg.RealFirstName == "" {
		msgs = append(msgs, MsgNoRealFirstName)
	}
	if reg.RealLastName == "" {
		msgs = append(msgs, MsgNoRealLastName)
	}
	if reg.Institution == "" {
		msgs = append(msgs, MsgNoInstitution)
	}

	if len(msgs) > 0 {
		return reg, &ValidationError{Messages: msgs}
	}
	return reg, nil
}
