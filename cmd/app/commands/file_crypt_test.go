package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEncryptFileAndDecryptFile(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RoundTrip", func(t *testing.T) {
		dir := t.TempDir()
		inputPath := filepath.Join(dir, "plain.txt")
		encryptedPath := filepath.Join(dir, "plain.txt.enc")
		decryptedPath := filepath.Join(dir, "plain.txt.dec")

		content := []byte("locally cached report: wifi password is hunter2")
		require.NoError(t, os.WriteFile(inputPath, content, 0o600))

		var out bytes.Buffer
		err := RunEncryptFile(ctx, IOTuple{Writer: &out}, inputPath, encryptedPath, "file-test-password", "")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Encrypted")

		encrypted, err := os.ReadFile(encryptedPath)
		require.NoError(t, err)
		assert.Contains(t, string(encrypted), `"encrypted": true`)
		assert.NotContains(t, string(encrypted), "hunter2")

		out.Reset()
		err = RunDecryptFile(ctx, IOTuple{Writer: &out}, encryptedPath, decryptedPath, "file-test-password", "")
		require.NoError(t, err)

		decrypted, err := os.ReadFile(decryptedPath)
		require.NoError(t, err)
		assert.Equal(t, content, decrypted)
	})

	t.Run("Error_WrongPasswordFailsAuthentication", func(t *testing.T) {
		dir := t.TempDir()
		inputPath := filepath.Join(dir, "plain.txt")
		encryptedPath := filepath.Join(dir, "plain.txt.enc")
		decryptedPath := filepath.Join(dir, "plain.txt.dec")

		require.NoError(t, os.WriteFile(inputPath, []byte("secret"), 0o600))

		var out bytes.Buffer
		require.NoError(t, RunEncryptFile(
			ctx, IOTuple{Writer: &out}, inputPath, encryptedPath, "right-password", ""))

		err := RunDecryptFile(ctx, IOTuple{Writer: &out}, encryptedPath, decryptedPath, "wrong-password", "")
		assert.Error(t, err)
		assert.NoFileExists(t, decryptedPath)
	})

	t.Run("Error_MalformedPayloadRejected", func(t *testing.T) {
		dir := t.TempDir()
		encryptedPath := filepath.Join(dir, "bad.enc")
		require.NoError(t, os.WriteFile(encryptedPath,
			[]byte(`{"data":"not base64!!!","iv":"","encrypted":true}`), 0o600))

		var out bytes.Buffer
		err := RunDecryptFile(ctx, IOTuple{Writer: &out},
			encryptedPath, filepath.Join(dir, "out.txt"), "password-123", "")
		assert.Error(t, err)
	})

	t.Run("Error_MissingInputFile", func(t *testing.T) {
		dir := t.TempDir()
		var out bytes.Buffer

		err := RunEncryptFile(ctx, IOTuple{Writer: &out},
			filepath.Join(dir, "missing.txt"), filepath.Join(dir, "out.enc"), "password-123", "")
		assert.Error(t, err)
	})
}
