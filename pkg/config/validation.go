package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/marmos91/gridaccounts/pkg/api/auth"
)

// ErrMissingStorageProvider is returned by Validate when mapping.storage_provider
// is empty. Unknown provider names are caught by mapping.Open at startup.
var ErrMissingStorageProvider = errors.New("mapping.storage_provider is required")

var validate = validator.New()

// Validate checks struct tags and the cross-field rules the tags cannot
// express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return err
	}

	if err := cfg.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if cfg.Mapping.StorageProvider == "" {
		return ErrMissingStorageProvider
	}

	if secret := cfg.API.JWT.Secret; secret != "" && len(secret) < auth.MinSecretLength {
		return fmt.Errorf("api.jwt.secret: %w", auth.ErrInvalidSecretLength)
	}

	return nil
}

func formatValidationErrors(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q validation (value: %v)",
			fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
