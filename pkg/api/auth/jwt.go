package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Common errors for JWT operations.
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrTokenSigningFailed  = errors.New("failed to sign token")
	ErrInvalidSecretLength = errors.New("JWT secret must be at least 32 characters")
)

// MinSecretLength is the shortest accepted HMAC secret.
const MinSecretLength = 32

// JWTConfig holds configuration for token signing.
type JWTConfig struct {
	// Secret is the HMAC signing key. Must be at least 32 characters.
	Secret string `mapstructure:"secret" yaml:"secret" json:"secret"`

	// Issuer is the token issuer claim. Default: "gridacct"
	Issuer string `mapstructure:"issuer" yaml:"issuer" json:"issuer"`

	// TokenDuration is the lifetime of minted tokens. Default: 24h.
	TokenDuration time.Duration `mapstructure:"token_duration" yaml:"token_duration" json:"token_duration"`
}

// ApplyDefaults fills unset fields.
func (c *JWTConfig) ApplyDefaults() {
	if c.Issuer == "" {
		c.Issuer = "gridacct"
	}
	if c.TokenDuration == 0 {
		c.TokenDuration = 24 * time.Hour
	}
}

// JWTService signs and validates HS256 tokens.
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service with the given configuration.
func NewJWTService(config JWTConfig) (*JWTService, error) {
	if len(config.Secret) < MinSecretLength {
		return nil, ErrInvalidSecretLength
	}
	config.ApplyDefaults()
	return &JWTService{config: config}, nil
}

// GenerateToken mints a token for subject with role. A zero ttl uses the
// configured TokenDuration.
func (s *JWTService) GenerateToken(subject, role string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = s.config.TokenDuration
	}
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, ErrTokenSigningFailed
	}
	return signed, expiresAt, nil
}

// ValidateToken validates a token and returns its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
