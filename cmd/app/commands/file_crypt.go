package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	jellyvalidation "github.com/jellydator/validation"

	"github.com/NotDonCitron/BlueBirdHub-sub005/internal/app"
	"github.com/NotDonCitron/BlueBirdHub-sub005/internal/config"
	cryptoDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/crypto/domain"
	"github.com/NotDonCitron/BlueBirdHub-sub005/internal/validation"
)

// RunEncryptFile encrypts a file under a password-derived master key and
// writes the encrypted payload as JSON. Pass keyID to encrypt under a
// different key; an empty keyID selects the master key.
func RunEncryptFile(ctx context.Context, io IOTuple, inputPath, outputPath, password, keyID string) error {
	container := app.NewContainer(config.Load())
	logger := container.Logger()
	defer closeContainer(container, logger)

	manager, err := container.EncryptionManager()
	if err != nil {
		return fmt.Errorf("failed to build encryption manager: %w", err)
	}
	if err := manager.Initialize(ctx, password); err != nil {
		return fmt.Errorf("failed to initialize encryption: %w", err)
	}

	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	payload, err := manager.EncryptFileContent(ctx, content, keyID)
	if err != nil {
		return fmt.Errorf("failed to encrypt file content: %w", err)
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := os.WriteFile(outputPath, encoded, 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Fprintf(io.Writer, "Encrypted %d bytes from %s to %s\n", len(content), inputPath, outputPath)
	return nil
}

// RunDecryptFile decrypts a JSON payload produced by RunEncryptFile and
// writes the plaintext. The same password (and keyID, if one was used) must
// be supplied; a wrong password fails authentication rather than producing
// garbage output.
func RunDecryptFile(ctx context.Context, io IOTuple, inputPath, outputPath, password, keyID string) error {
	container := app.NewContainer(config.Load())
	logger := container.Logger()
	defer closeContainer(container, logger)

	manager, err := container.EncryptionManager()
	if err != nil {
		return fmt.Errorf("failed to build encryption manager: %w", err)
	}
	if err := manager.Initialize(ctx, password); err != nil {
		return fmt.Errorf("failed to initialize encryption: %w", err)
	}

	encoded, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var payload cryptoDomain.EncryptedPayload
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	err = jellyvalidation.ValidateStruct(&payload,
		jellyvalidation.Field(&payload.Data, jellyvalidation.Required, validation.Base64),
		jellyvalidation.Field(&payload.IV, jellyvalidation.Required, validation.Base64),
	)
	if err := validation.WrapValidationError(err); err != nil {
		return err
	}

	content, err := manager.DecryptFileContent(ctx, payload, keyID)
	if err != nil {
		return fmt.Errorf("failed to decrypt file content: %w", err)
	}

	if err := os.WriteFile(outputPath, content, 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Fprintf(io.Writer, "Decrypted %d bytes from %s to %s\n", len(content), inputPath, outputPath)
	return nil
}
