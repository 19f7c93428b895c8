package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NotDonCitron/BlueBirdHub-sub005/internal/errors"
)

func TestRunHashPassword(t *testing.T) {
	t.Run("Success_PrintsEncodedHash", func(t *testing.T) {
		var out bytes.Buffer
		err := RunHashPassword(IOTuple{Writer: &out}, "long-enough-password", 8)

		require.NoError(t, err)
		assert.Regexp(t, `PASSWORD_HASH="pbkdf2-sha256\$`, out.String())
		assert.NotContains(t, out.String(), "long-enough-password")
	})

	t.Run("Error_PasswordTooShort", func(t *testing.T) {
		var out bytes.Buffer
		err := RunHashPassword(IOTuple{Writer: &out}, "short", 8)

		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		assert.Empty(t, out.String())
	})

	t.Run("Error_BlankPassword", func(t *testing.T) {
		var out bytes.Buffer
		err := RunHashPassword(IOTuple{Writer: &out}, "        ", 8)

		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}
