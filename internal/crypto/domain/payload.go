package domain

import (
	"encoding/base64"
	"fmt"
)

// EncryptedPayload is the wire representation of one encrypted value.
//
// The payload is produced per value per encryption call and is immutable once
// created. Its JSON shape is stable and shared with the persisted cache:
//
//	{ "data": "<base64 ciphertext>", "iv": "<base64 96-bit nonce>", "encrypted": true }
//
// The GCM authentication tag is carried appended to the ciphertext inside
// Data, so no separate tag field is needed. The Encrypted marker
// distinguishes payloads from plaintext values when both can occur in the
// same field position (legacy data written before encryption was enabled).
type EncryptedPayload struct {
	// Data is the base64-encoded ciphertext with the authentication tag appended.
	Data string `json:"data"`
	// IV is the base64-encoded 12-byte nonce used for this encryption.
	IV string `json:"iv"`
	// Encrypted is always true for real payloads; it is the discriminator used
	// for plaintext pass-through.
	Encrypted bool `json:"encrypted"`
}

// NewEncryptedPayload builds a payload from raw ciphertext and nonce bytes.
func NewEncryptedPayload(ciphertext, nonce []byte) EncryptedPayload {
	return EncryptedPayload{
		Data:      base64.StdEncoding.EncodeToString(ciphertext),
		IV:        base64.StdEncoding.EncodeToString(nonce),
		Encrypted: true,
	}
}

// DataBytes decodes the base64 ciphertext.
func (p EncryptedPayload) DataBytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: bad ciphertext base64: %v", ErrInvalidPayload, err)
	}
	return data, nil
}

// IVBytes decodes the base64 nonce.
func (p EncryptedPayload) IVBytes() ([]byte, error) {
	iv, err := base64.StdEncoding.DecodeString(p.IV)
	if err != nil {
		return nil, fmt.Errorf("%w: bad nonce base64: %v", ErrInvalidPayload, err)
	}
	return iv, nil
}

// Validate checks the payload structure without decrypting it.
// Returns ErrInvalidPayload if a field is missing, not valid base64, or the
// nonce is not 96 bits.
func (p EncryptedPayload) Validate() error {
	if !p.Encrypted {
		return fmt.Errorf("%w: encrypted marker not set", ErrInvalidPayload)
	}
	if p.Data == "" {
		return fmt.Errorf("%w: empty ciphertext", ErrInvalidPayload)
	}
	if _, err := p.DataBytes(); err != nil {
		return err
	}
	iv, err := p.IVBytes()
	if err != nil {
		return err
	}
	if len(iv) != NonceSize {
		return fmt.Errorf("%w: nonce must be %d bytes, got %d", ErrInvalidPayload, NonceSize, len(iv))
	}
	return nil
}

// PayloadFromValue interprets a decoded JSON value as an EncryptedPayload.
//
// Entities read back from the offline cache arrive as map[string]any after
// JSON decoding, so encrypted fields must be recognized structurally. The
// second return is false when the value does not look like a payload at all
// (plaintext field); a malformed payload with the encrypted marker set is
// returned as-is so validation can reject it explicitly.
func PayloadFromValue(v any) (EncryptedPayload, bool) {
	switch value := v.(type) {
	case EncryptedPayload:
		return value, true
	case *EncryptedPayload:
		if value == nil {
			return EncryptedPayload{}, false
		}
		return *value, true
	case map[string]any:
		encrypted, ok := value["encrypted"].(bool)
		if !ok || !encrypted {
			return EncryptedPayload{}, false
		}
		data, _ := value["data"].(string)
		iv, _ := value["iv"].(string)
		return EncryptedPayload{Data: data, IV: iv, Encrypted: true}, true
	default:
		return EncryptedPayload{}, false
	}
}
