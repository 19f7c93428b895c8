package commands

import (
	"fmt"

	jellyvalidation "github.com/jellydator/validation"

	"github.com/NotDonCitron/BlueBirdHub-sub005/internal/config"
	cryptoService "github.com/NotDonCitron/BlueBirdHub-sub005/internal/crypto/service"
	"github.com/NotDonCitron/BlueBirdHub-sub005/internal/validation"
)

// RunHashPassword hashes a password with PBKDF2-SHA256 at the configured
// iteration count and prints the encoded hash. The password must pass the
// strength check before hashing.
func RunHashPassword(io IOTuple, password string, minLength int) error {
	err := jellyvalidation.Validate(password,
		validation.NotBlank,
		validation.PasswordStrength{MinLength: minLength},
	)
	if err := validation.WrapValidationError(err); err != nil {
		return err
	}

	cfg := config.Load()
	hasher := cryptoService.NewPasswordHasher(cfg.KeyDerivationIterations)

	encoded, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	fmt.Fprintln(io.Writer, "# PBKDF2-SHA256 password hash")
	fmt.Fprintln(io.Writer)
	fmt.Fprintf(io.Writer, "PASSWORD_HASH=\"%s\"\n", encoded)

	return nil
}
