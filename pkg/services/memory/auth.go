package memory

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the bcrypt cost used by NewAuth.
const DefaultBcryptCost = 10

// ErrInvalidCredentials is returned by Authenticate on a wrong password or
// unknown principal.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Auth stores bcrypt password hashes.
type Auth struct {
	mu     sync.RWMutex
	cost   int
	hashes map[string][]byte
}

// NewAuth creates an authentication service with DefaultBcryptCost.
func NewAuth() *Auth {
	return NewAuthWithCost(DefaultBcryptCost)
}

// NewAuthWithCost creates an authentication service with a custom bcrypt
// cost; tests use bcrypt.MinCost.
func NewAuthWithCost(cost int) *Auth {
	return &Auth{cost: cost, hashes: make(map[string][]byte)}
}

// SetPassword hashes and stores password. bcrypt rejects passwords longer
// than 72 bytes.
func (a *Auth) SetPassword(_ context.Context, principalID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.hashes[principalID] = hash
	a.mu.Unlock()
	return nil
}

// Authenticate checks password against the stored hash.
func (a *Auth) Authenticate(_ context.Context, principalID, password string) error {
	a.mu.RLock()
	hash, ok := a.hashes[principalID]
	a.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HasPassword reports whether a password is stored for principalID.
func (a *Auth) HasPassword(principalID string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.hashes[principalID]
	return ok
}
