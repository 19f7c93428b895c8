package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/crypto/domain"
	apperrors "github.com/NotDonCitron/BlueBirdHub-sub005/internal/errors"
)

const (
	passwordHashScheme = "pbkdf2-sha256"
	passwordSaltSize   = 16
	passwordHashSize   = 32
)

// PasswordHasher provides a one-way PBKDF2 credential hashing path.
//
// This path is independent from AEAD key derivation: a password hash exists
// to verify a credential, never to produce key material, and the two must not
// share outputs. Hashes are encoded as
//
//	pbkdf2-sha256$<iterations>$<salt-base64>$<hash-base64>
//
// so both iteration count and salt travel with the hash, and verify keeps
// working after the configured iteration count changes.
type PasswordHasher struct {
	iterations int
}

// NewPasswordHasher creates a PasswordHasher. Iteration counts below the
// domain minimum are raised to it.
func NewPasswordHasher(iterations int) *PasswordHasher {
	if iterations < cryptoDomain.MinKeyDerivationIterations {
		iterations = cryptoDomain.MinKeyDerivationIterations
	}
	return &PasswordHasher{iterations: iterations}
}

// Hash hashes a password with a fresh random salt.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, passwordSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", apperrors.Wrap(err, "failed to generate password salt")
	}
	return h.hashWithSalt(password, salt), nil
}

// HashWithSalt hashes a password with a caller-provided salt. Intended for
// deterministic verification flows; new hashes should use Hash.
func (h *PasswordHasher) HashWithSalt(password string, salt []byte) (string, error) {
	if len(salt) == 0 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "password salt must not be empty")
	}
	return h.hashWithSalt(password, salt), nil
}

// Verify performs a constant-time comparison of a password against an
// encoded hash. It returns false (never an error) on mismatch; an error
// indicates the encoded hash itself is malformed.
func (h *PasswordHasher) Verify(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 || parts[0] != passwordHashScheme {
		return false, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed password hash")
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed password hash iterations")
	}

	salt, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed password hash salt")
	}

	expected, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed password hash digest")
	}

	actual := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)
	defer cryptoDomain.Zero(actual)

	return hmac.Equal(actual, expected), nil
}

func (h *PasswordHasher) hashWithSalt(password string, salt []byte) string {
	digest := pbkdf2.Key([]byte(password), salt, h.iterations, passwordHashSize, sha256.New)
	defer cryptoDomain.Zero(digest)

	return fmt.Sprintf(
		"%s$%d$%s$%s",
		passwordHashScheme,
		h.iterations,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(digest),
	)
}
