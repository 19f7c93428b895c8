// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the offline encryption subsystem.
type Config struct {
	// EncryptionEnabled indicates whether entity encryption is active. When disabled,
	// encrypt operations become no-ops unless the caller forces encryption.
	EncryptionEnabled bool
	// AutoEncryptSensitive enables name-based sensitive field detection in addition
	// to the per-entity-type rules.
	AutoEncryptSensitive bool
	// ExtraSensitiveKeywords is a comma-separated list of keywords appended to the
	// built-in sensitive keyword set.
	ExtraSensitiveKeywords string

	// KeyDerivationIterations is the PBKDF2 iteration count used for master key
	// derivation and password hashing. Must be at least 100000.
	KeyDerivationIterations int
	// KeyDerivationSalt overrides the built-in application salt for master key
	// derivation. Changing it invalidates previously derived master keys.
	KeyDerivationSalt string

	// AuditLogCapacity is the maximum number of security audit entries retained
	// in memory. Oldest entries are evicted first.
	AuditLogCapacity int

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string

	// LockoutMaxAttempts is the maximum number of failed password attempts before a lockout.
	LockoutMaxAttempts int
	// LockoutDuration is the window over which failed password attempts are throttled.
	LockoutDuration time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Encryption policy
		EncryptionEnabled:      env.GetBool("ENCRYPTION_ENABLED", true),
		AutoEncryptSensitive:   env.GetBool("ENCRYPTION_AUTO_ENCRYPT_SENSITIVE", true),
		ExtraSensitiveKeywords: env.GetString("ENCRYPTION_EXTRA_SENSITIVE_KEYWORDS", ""),

		// Key derivation
		KeyDerivationIterations: env.GetInt("ENCRYPTION_KEY_DERIVATION_ITERATIONS", 100000),
		KeyDerivationSalt:       env.GetString("ENCRYPTION_KEY_DERIVATION_SALT", ""),

		// Audit log
		AuditLogCapacity: env.GetInt("ENCRYPTION_AUDIT_LOG_CAPACITY", 1000),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "bluebirdhub"),

		// Password attempt lockout
		LockoutMaxAttempts: env.GetInt("LOCKOUT_MAX_ATTEMPTS", 10),
		LockoutDuration:    env.GetDuration("LOCKOUT_DURATION_MINUTES", 30, time.Minute),
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached the root directory
			return
		}
		dir = parent
	}
}
