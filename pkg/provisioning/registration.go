package provisioning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/marmos91/gridaccounts/pkg/models"
)

// State is the outcome state of a registration attempt.
type State int

const (
	StateFormDisplay State = iota
	StateValidating
	StateFormDisplayWithErrors
	StateAccountExists
	StateProvisioned
)

func (s State) String() string {
	switch s {
	case StateFormDisplay:
		return "form_display"
	case StateValidating:
		return "validating"
	case StateFormDisplayWithErrors:
		return "form_display_with_errors"
	case StateAccountExists:
		return "account_exists"
	case StateProvisioned:
		return "provisioned"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Registration is a submitted account request.
type Registration struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Password2  string `json:"password2"`
	AvatarType string `json:"avatar_type"`

	Institution   string `json:"institution"`
	RealFirstName string `json:"real_first_name"`
	RealLastName  string `json:"real_last_name"`
	ConnectID     string `json:"connect_id"`

	// Language is the requester's BCP 47 tag.
	Language string `json:"language"`
}

// trimmed returns a copy with the name and identity fields trimmed.
// Email and passwords are kept verbatim.
func (r Registration) trimmed() Registration {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Institution = strings.TrimSpace(r.Institution)
	r.RealFirstName = strings.TrimSpace(r.RealFirstName)
	r.RealLastName = strings.TrimSpace(r.RealLastName)
	return r
}

// Result describes what Register or Activate did.
type Result struct {
	State State

	// Account is the stored account, or nil when none was created.
	Account *models.Account

	// Form echoes the trimmed input, without passwords, so a caller can
	// re-render it.
	Form Registration

	Pending bool
	Notice  string

	// Warnings collects non-fatal collaborator failures.
	Warnings []error
}

// ValidationError lists every problem with a registration.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid registration: " + strings.Join(e.Messages, "; ")
}

var (
	// ErrAccountExists is returned when the requested name is taken, either
	// by an active or a pending account.
	ErrAccountExists = fmt.Errorf("provisioning: %w", models.ErrDuplicateAccount)

	// ErrNotPending is returned when activating an account that does not
	// await approval.
	ErrNotPending = errors.New("account is not pending approval")
)
