package domain

// Algorithm represents the cryptographic algorithm used for encryption.
//
// The subsystem standardizes on AES-256-GCM: a single-pass authenticated
// encryption mode that bundles confidentiality and integrity without a
// separate MAC construction. The algorithm name is recorded in entity
// metadata so stored payloads remain self-describing.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// Key features:
	//   - 256-bit key size for maximum security
	//   - 12-byte nonce (96 bits, randomly generated per encryption)
	//   - 16-byte authentication tag appended to the ciphertext
	//   - Hardware acceleration on modern CPUs
	AESGCM Algorithm = "AES-GCM"
)

// KeyProvenance records how a key's material was obtained.
//
// Provenance determines recoverability: password-derived keys are
// reproducible from the same password, device-derived keys are intentionally
// non-portable across reinstalls, and random keys exist only for the session
// unless exported by the caller.
type KeyProvenance string

const (
	// ProvenancePassword marks keys derived deterministically from a user password.
	ProvenancePassword KeyProvenance = "password"

	// ProvenanceBiometric marks keys unlocked through a biometric factor.
	ProvenanceBiometric KeyProvenance = "biometric"

	// ProvenanceDevice marks keys derived from device-fingerprint entropy.
	ProvenanceDevice KeyProvenance = "device"

	// ProvenanceRandom marks keys generated from fresh randomness.
	ProvenanceRandom KeyProvenance = "random"
)

// KeyUsage restricts the operations a key may perform.
type KeyUsage string

const (
	// UsageEncrypt allows the key to be used for encryption.
	UsageEncrypt KeyUsage = "encrypt"

	// UsageDecrypt allows the key to be used for decryption.
	UsageDecrypt KeyUsage = "decrypt"
)

const (
	// KeySize is the required key length in bytes for AES-256-GCM.
	KeySize = 32

	// NonceSize is the GCM nonce length in bytes (96 bits).
	NonceSize = 12

	// MinKeyDerivationIterations is the lowest accepted PBKDF2 iteration count.
	MinKeyDerivationIterations = 100000
)

// Well-known key identifiers registered by the encryption manager.
const (
	// MasterKeyID identifies the master key derived from the user password
	// (or from fresh randomness when no password is supplied).
	MasterKeyID = "master"

	// DeviceKeyID identifies the key derived from device-fingerprint entropy.
	DeviceKeyID = "device"
)
