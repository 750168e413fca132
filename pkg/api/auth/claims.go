// Package auth issues and validates the bearer tokens that guard the
// administrative API.
package auth

import "github.com/golang-jwt/jwt/v5"

// RoleAdmin is the role required by administrative routes.
const RoleAdmin = "admin"

// Claims are the JWT claims of an API token.
type Claims struct {
	jwt.RegisteredClaims

	// Role is the caller's role, e.g. "admin".
	Role string `json:"role"`
}

// IsAdmin returns true if the token carries the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
