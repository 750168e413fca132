package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ZeroID is the nil UUID in string form. As a scope it means "grid wide".
var ZeroID = uuid.Nil.String()

// Service URL keys used to carry pending registration data until approval.
const (
	ServiceURLPassword = "Password"
	ServiceURLAvatar   = "Avatar"
	ServiceURLLanguage = "Language"
)

// LocalUserTitle is the title given to accounts created by self-registration.
const LocalUserTitle = "Local User"

// ServiceURLs is the free-form string attribute bag attached to an account.
// It is persisted as a JSON document.
type ServiceURLs map[string]string

// Value implements driver.Valuer.
func (s ServiceURLs) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *ServiceURLs) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*s = ServiceURLs{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported service urls type %T", value)
	}
	out := ServiceURLs{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return err
		}
	}
	*s = out
	return nil
}

// Clone returns a copy of the bag. A nil bag clones to an empty one.
func (s ServiceURLs) Clone() ServiceURLs {
	out := make(ServiceURLs, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Account is a grid user account as seen through the account directory.
//
// (ScopeID, FirstName, LastName) is unique; the directory enforces it so two
// concurrent registrations of the same name cannot both succeed.
type Account struct {
	PrincipalID string      `gorm:"column:principal_id;primaryKey;size:36" json:"principal_id"`
	ScopeID     string      `gorm:"column:scope_id;size:36;not null;uniqueIndex:idx_accounts_scope_name" json:"scope_id"`
	FirstName   string      `gorm:"column:first_name;size:255;not null;uniqueIndex:idx_accounts_scope_name" json:"first_name"`
	LastName    string      `gorm:"column:last_name;size:255;not null;uniqueIndex:idx_accounts_scope_name" json:"last_name"`
	Email       string      `gorm:"column:email;size:255" json:"email,omitempty"`
	UserLevel   int         `gorm:"column:user_level;default:0" json:"user_level"`
	UserFlags   int         `gorm:"column:user_flags;default:0" json:"user_flags"`
	UserTitle   string      `gorm:"column:user_title;size:64" json:"user_title,omitempty"`
	ServiceURLs ServiceURLs `gorm:"column:service_urls;type:text" json:"service_urls,omitempty"`
	Created     time.Time   `gorm:"column:created" json:"created"`
}

// TableName returns the table name for Account.
func (Account) TableName() string {
	return "accounts"
}

// Name returns "First Last".
func (a *Account) Name() string {
	return a.FirstName + " " + a.LastName
}

// IsPending reports whether the account carries the pending identifier.
func (a *Account) IsPending(pendingIdentifier string) bool {
	return pendingIdentifier != "" && strings.HasPrefix(a.FirstName, pendingIdentifier)
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	c.ServiceURLs = a.ServiceURLs.Clone()
	return &c
}

// AccountWithMapping joins an account with its optional mapping record.
// Mapping fields are empty strings when no mapping exists. It is assembled
// on read and never stored.
type AccountWithMapping struct {
	Account
	ConnectID     string `json:"connect_id"`
	RealFirstName string `json:"real_first_name"`
	RealLastName  string `json:"real_last_name"`
	Institution   string `json:"institution"`
}

// NewAccountWithMapping assembles the composite. mapping may be nil.
func NewAccountWithMapping(account *Account, mapping *MappingRecord) *AccountWithMapping {
	out := &AccountWithMapping{Account: *account.Clone()}
	if mapping != nil {
		out.ConnectID = mapping.ConnectID
		out.RealFirstName = mapping.RealFirstName
		out.RealLastName = mapping.RealLastName
		out.Institution = mapping.Institution
	}
	return out
}

// AllModels returns every model the account directory migrates.
func AllModels() []any {
	return []any{
		&Account{},
	}
}
