package commands

import (
	"fmt"

	cryptoService "github.com/NotDonCitron/BlueBirdHub-sub005/internal/crypto/service"
)

// RunGenerateKeyMaterial generates fresh 256-bit key material and prints it
// hex-encoded. The material can seed an explicit key for the encrypt-file
// command or be stored by a caller that manages its own keys.
func RunGenerateKeyMaterial(io IOTuple) error {
	material, err := cryptoService.GenerateKeyMaterial()
	if err != nil {
		return fmt.Errorf("failed to generate key material: %w", err)
	}

	fmt.Fprintln(io.Writer, "# 256-bit key material (hex)")
	fmt.Fprintln(io.Writer, "# Store it in a secure location; it is not recoverable")
	fmt.Fprintln(io.Writer)
	fmt.Fprintf(io.Writer, "KEY_MATERIAL=\"%s\"\n", material)

	return nil
}
