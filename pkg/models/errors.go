package models

import (
	"errors"
	"fmt"
)

// Common errors for account and mapping operations.
var (
	// Mapping errors
	ErrMappingNotFound  = errors.New("identity mapping not found")
	ErrMissingPrincipal = errors.New("mapping record has no principal id")

	// Account errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account already exists")

	// Inventory errors
	ErrFolderNotFound = errors.New("inventory folder not found")
	ErrItemNotFound   = errors.New("inventory item not found")

	// Avatar errors
	ErrAvatarNotFound   = errors.New("avatar appearance not found")
	ErrGridUserNotFound = errors.New("grid user info not found")
)

// StoreFault reports a failed call against a backing store. Workflows
// record these and carry on where the operation permits.
type StoreFault struct {
	Store string // accounts, mapping, inventory, auth, avatar, griduser, notify
	Op    string
	Err   error
}

// NewStoreFault wraps err as a StoreFault. A nil err yields nil.
func NewStoreFault(store, op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreFault{Store: store, Op: op, Err: err}
}

func (e *StoreFault) Error() string {
	return fmt.Sprintf("%s store: %s: %v", e.Store, e.Op, e.Err)
}

func (e *StoreFault) Unwrap() error {
	return e.Err
}

// IsStoreFault reports whether err is or wraps a StoreFault.
func IsStoreFault(err error) bool {
	var sf *StoreFault
	return errors.As(err, &sf)
}
