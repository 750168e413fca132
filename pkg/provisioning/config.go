package provisioning

import (
	"strings"

	"github.com/google/uuid"

	"github.com/marmos91/gridaccounts/pkg/models"
)

// DefaultPendingIdentifier is prepended to the first name of accounts
// awaiting approval.
const DefaultPendingIdentifier = "*pending* "

// DefaultAvatar names a template account whose appearance new users clone.
type DefaultAvatar struct {
	// Type is the selection key sent with a registration, e.g. "female".
	Type string `mapstructure:"type" yaml:"type" json:"type" validate:"required"`

	// Name is the template account's "First Last" name.
	Name string `mapstructure:"name" yaml:"name" json:"name" validate:"required"`

	// PrettyType is the localizable label used in the outfit folder name.
	PrettyType string `mapstructure:"pretty_type" yaml:"pretty_type" json:"pretty_type"`
}

// Policy configures registration behaviour.
type Policy struct {
	// ConfirmationRequired defers provisioning until an administrator
	// activates the account.
	ConfirmationRequired bool `mapstructure:"confirmation_required" yaml:"confirmation_required" json:"confirmation_required"`

	PendingIdentifier string `mapstructure:"pending_identifier" yaml:"pending_identifier" json:"pending_identifier"`

	// AdminEmail receives approval requests. Empty disables them.
	AdminEmail    string `mapstructure:"admin_email" yaml:"admin_email" json:"admin_email" validate:"omitempty,email"`
	AdminLanguage string `mapstructure:"admin_language" yaml:"admin_language" json:"admin_language"`

	GridName   string `mapstructure:"grid_name" yaml:"grid_name" json:"grid_name"`
	WebAddress string `mapstructure:"web_address" yaml:"web_address" json:"web_address"`

	// HomeRegion, when a non-zero UUID, overrides the template's home.
	HomeRegion   string         `mapstructure:"home_region" yaml:"home_region" json:"home_region" validate:"omitempty,uuid"`
	HomePosition models.Vector3 `mapstructure:"home_position" yaml:"home_position" json:"home_position"`

	DefaultAvatars []DefaultAvatar `mapstructure:"default_avatars" yaml:"default_avatars" json:"default_avatars" validate:"dive"`
}

// ApplyDefaults fills unset fields.
func (p *Policy) ApplyDefaults() {
	if p.PendingIdentifier == "" {
		p.PendingIdentifier = DefaultPendingIdentifier
	}
	if p.AdminLanguage == "" {
		p.AdminLanguage = "en-US"
	}
	if p.GridName == "" {
		p.GridName = "My Grid"
	}
	p.WebAddress = strings.TrimRight(p.WebAddress, "/")
}

// avatar returns the template configured for avatarType.
func (p *Policy) avatar(avatarType string) (DefaultAvatar, bool) {
	for _, a := range p.DefaultAvatars {
		if a.Type == avatarType {
			return a, true
		}
	}
	return DefaultAvatar{}, false
}

// homeRegion returns the configured home region, or "" when unset or zero.
func (p *Policy) homeRegion() string {
	return nonZeroUUID(p.HomeRegion)
}

// nonZeroUUID returns the canonical form of s, or "" if s is not a UUID or
// is the zero UUID.
func nonZeroUUID(s string) string {
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return ""
	}
	return id.String()
}

// splitTemplateName splits "First Last" on its single space.
func splitTemplateName(name string) (first, last string, ok bool) {
	parts := strings.Split(name, " ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
