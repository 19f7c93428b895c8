package usecase

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/audit/domain"
	auditRepository "github.com/NotDonCitron/BlueBirdHub-sub005/internal/audit/repository"
	"github.com/NotDonCitron/BlueBirdHub-sub005/internal/config"
	cryptoDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/crypto/domain"
	cryptoService "github.com/NotDonCitron/BlueBirdHub-sub005/internal/crypto/service"
	encryptionDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/encryption/domain"
	apperrors "github.com/NotDonCitron/BlueBirdHub-sub005/internal/errors"
)

const testPassword = "correct-horse-battery-staple"

func testConfig() *config.Config {
	return &config.Config{
		EncryptionEnabled:       true,
		AutoEncryptSensitive:    true,
		KeyDerivationIterations: 100000,
		AuditLogCapacity:        1000,
		LogLevel:                "error",
		LockoutMaxAttempts:      10,
		LockoutDuration:         time.Minute,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(
	t *testing.T,
	cfg *config.Config,
) (EncryptionUseCase, *auditRepository.MemoryAuditLogRepository) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	auditLog := auditRepository.NewMemoryAuditLogRepository(cfg.AuditLogCapacity)
	manager := NewEncryptionManager(cfg, testLogger(), cryptoService.NewMemoryKeyStore(), auditLog)
	return manager, auditLog
}

func newReadyManager(
	t *testing.T,
	cfg *config.Config,
) (EncryptionUseCase, *auditRepository.MemoryAuditLogRepository) {
	t.Helper()
	manager, auditLog := newTestManager(t, cfg)
	require.NoError(t, manager.Initialize(context.Background(), testPassword))
	return manager, auditLog
}

func testWorkspace() encryptionDomain.Entity {
	return encryptionDomain.Entity{
		"id":                   "ws-1",
		"name":                 "Focus Room",
		"color":                "#2266ee",
		"layout_config":        map[string]any{"panels": []any{"tasks", "files"}},
		"ambient_sound_config": map[string]any{"track": "rain"},
		"description":          "shared desk, wifi password is hunter2",
		"wifi_password":        "hunter2",
		"created_at":           "2026-08-29T10:00:00Z",
	}
}

func TestEncryptionManager_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_DerivesSessionKeys", func(t *testing.T) {
		manager, auditLog := newTestManager(t, nil)
		assert.Equal(t, StateUninitialized, manager.State())

		require.NoError(t, manager.Initialize(ctx, testPassword))

		assert.Equal(t, StateReady, manager.State())

		stats := manager.Stats()
		// master + device + one subkey per default entity type
		assert.Equal(t, 7, stats.TotalKeys)
		assert.Equal(t, 1, stats.KeysByProvenance[cryptoDomain.ProvenancePassword])
		assert.Equal(t, 6, stats.KeysByProvenance[cryptoDomain.ProvenanceDevice])

		entries := auditLog.List(auditDomain.Filter{Action: auditDomain.ActionKeyDerive})
		require.Len(t, entries, 1)
		assert.True(t, entries[0].Success)
		assert.Equal(t, cryptoDomain.MasterKeyID, entries[0].KeyID)
	})

	t.Run("Success_RandomMasterWithoutPassword", func(t *testing.T) {
		manager, _ := newTestManager(t, nil)

		require.NoError(t, manager.Initialize(ctx, ""))

		stats := manager.Stats()
		assert.Equal(t, StateReady, stats.State)
		assert.Equal(t, 1, stats.KeysByProvenance[cryptoDomain.ProvenanceRandom])
		assert.Zero(t, stats.KeysByProvenance[cryptoDomain.ProvenancePassword])
	})

	t.Run("Success_SamePasswordRecoversMasterKeyData", func(t *testing.T) {
		manager, _ := newTestManager(t, nil)
		require.NoError(t, manager.Initialize(ctx, testPassword))

		payload, err := manager.EncryptFileContent(ctx, []byte("cached report"), cryptoDomain.MasterKeyID)
		require.NoError(t, err)

		require.NoError(t, manager.Initialize(ctx, testPassword))

		content, err := manager.DecryptFileContent(ctx, payload, cryptoDomain.MasterKeyID)
		require.NoError(t, err)
		assert.Equal(t, []byte("cached report"), content)
	})

	t.Run("Error_DifferentPasswordCannotDecrypt", func(t *testing.T) {
		manager, _ := newTestManager(t, nil)
		require.NoError(t, manager.Initialize(ctx, testPassword))

		payload, err := manager.EncryptFileContent(ctx, []byte("cached report"), cryptoDomain.MasterKeyID)
		require.NoError(t, err)

		require.NoError(t, manager.Initialize(ctx, "a-different-password"))

		_, err = manager.DecryptFileContent(ctx, payload, cryptoDomain.MasterKeyID)
		assert.True(t, apperrors.Is(err, cryptoDomain.ErrDecryptionFailed))
	})

	t.Run("Error_LockoutAfterTooManyPasswordAttempts", func(t *testing.T) {
		cfg := testConfig()
		cfg.LockoutMaxAttempts = 2
		manager, auditLog := newTestManager(t, cfg)

		require.NoError(t, manager.Initialize(ctx, testPassword))
		require.NoError(t, manager.Initialize(ctx, testPassword))

		err := manager.Initialize(ctx, testPassword)
		assert.True(t, apperrors.Is(err, apperrors.ErrLocked))

		denied := auditLog.List(auditDomain.Filter{Action: auditDomain.ActionAccessDenied})
		require.Len(t, denied, 1)
		assert.False(t, denied[0].Success)
	})
}

func TestEncryptionManager_EncryptEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_NotInitialized", func(t *testing.T) {
		manager, auditLog := newTestManager(t, nil)

		_, err := manager.EncryptEntity(ctx, encryptionDomain.EntityWorkspace, testWorkspace(), EncryptOptions{})

		assert.True(t, apperrors.Is(err, apperrors.ErrNotInitialized))
		denied := auditLog.List(auditDomain.Filter{Action: auditDomain.ActionAccessDenied})
		require.Len(t, denied, 1)
		assert.Equal(t, "workspace", denied[0].EntityType)
		assert.Equal(t, "ws-1", denied[0].EntityID)
	})

	t.Run("Success_RuleAndNameDrivenSelection", func(t *testing.T) {
		manager, auditLog := newReadyManager(t, nil)
		before := auditLog.Len()

		encrypted, err := manager.EncryptEntity(ctx, encryptionDomain.EntityWorkspace, testWorkspace(), EncryptOptions{})
		require.NoError(t, err)

		// plaintext fields stay readable
		assert.Equal(t, "ws-1", encrypted["id"])
		assert.Equal(t, "Focus Room", encrypted["name"])
		assert.Equal(t, "#2266ee", encrypted["color"])

		// selected fields are replaced by payloads
		for _, field := range []string{"layout_config", "ambient_sound_config", "description", "wifi_password"} {
			payload, ok := encrypted[field].(cryptoDomain.EncryptedPayload)
			require.True(t, ok, "field %q should be encrypted", field)
			assert.True(t, payload.Encrypted)
		}

		metadata, ok := encryptionDomain.MetadataFromEntity(encrypted)
		require.True(t, ok)
		assert.True(t, metadata.Encrypted)
		assert.Equal(t, "AES-GCM", metadata.Algorithm)
		assert.Equal(t, "entity:workspace", metadata.KeyID)
		assert.ElementsMatch(t,
			[]string{"layout_config", "ambient_sound_config", "description", "wifi_password"},
			metadata.EncryptedFields)
		assert.Positive(t, metadata.EncryptedAt)

		entries := auditLog.List(auditDomain.Filter{Action: auditDomain.ActionEncrypt})
		require.Len(t, entries, 1)
		assert.Equal(t, auditLog.Len(), before+1)
		assert.True(t, entries[0].Success)
		assert.Equal(t, "workspace", entries[0].EntityType)
		assert.Equal(t, "ws-1", entries[0].EntityID)
		assert.Equal(t, "entity:workspace", entries[0].KeyID)
	})

	t.Run("Success_InputEntityNotMutated", func(t *testing.T) {
		manager, _ := newReadyManager(t, nil)
		original := testWorkspace()

		_, err := manager.EncryptEntity(ctx, encryptionDomain.EntityWorkspace, original, EncryptOptions{})
		require.NoError(t, err)

		assert.Equal(t, "hunter2", original["wifi_password"])
		_, hasMetadata := original[encryptionDomain.MetadataKey]
		assert.False(t, hasMetadata)
	})

	t.Run("Success_RoundTrip", func(t *testing.T) {
		manager, auditLog := newReadyManager(t, nil)

		encrypted, err := manager.EncryptEntity(ctx, encryptionDomain.EntityWorkspace, testWorkspace(), EncryptOptions{})
		require.NoError(t, err)

		decrypted, err := manager.DecryptEntity(ctx, encryptionDomain.EntityWorkspace, encrypted)
		require.NoError(t, err)

		assert.Equal(t, "hunter2", decrypted["wifi_password"])
		assert.Equal(t, "shared desk, wifi password is hunter2", decrypted["description"])
		assert.Equal(t, map[string]any{"track": "rain"}, decrypted["ambient_sound_config"])
		_, hasMetadata := decrypted[encryptionDomain.MetadataKey]
		assert.False(t, hasMetadata)

		decryptEntries := auditLog.List(auditDomain.Filter{Action: auditDomain.ActionDecrypt})
		require.Len(t, decryptEntries, 1)
		assert.True(t, decryptEntries[0].Success)
	})

	t.Run("Success_NoRulePassThrough", func(t *testing.T) {
		manager, auditLog := newReadyManager(t, nil)
		before := auditLog.Len()
		entity := encryptionDomain.Entity{"id": "x-1", "body": "text"}

		result, err := manager.EncryptEntity(ctx, "unknown_type", entity, EncryptOptions{})
		require.NoError(t, err)

		assert.Equal(t, entity, result)
		assert.Equal(t, before, auditLog.Len())
	})

	t.Run("Success_DisabledPassThrough", func(t *testing.T) {
		cfg := testConfig()
		cfg.EncryptionEnabled = false
		manager, _ := newTestManager(t, cfg)
		require.NoError(t, manager.Initialize(ctx, testPassword))

		entity := testWorkspace()
		result, err := manager.EncryptEntity(ctx, encryptionDomain.EntityWorkspace, entity, EncryptOptions{})
		require.NoError(t, err)
		assert.Equal(t, entity, result)
	})

	t.Run("Success_ForceEncryptOverridesDisabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.EncryptionEnabled = false
		manager, _ := newTestManager(t, cfg)
		require.NoError(t, manager.Initialize(ctx, testPassword))

		entity := encryptionDomain.Entity{
			"id":         "n-1",
			"body":       "plain note",
			"created_at": "2026-08-29T10:00:00Z",
		}
		result, err := manager.EncryptEntity(ctx, "unknown_type", entity, EncryptOptions{ForceEncrypt: true})
		require.NoError(t, err)

		assert.Equal(t, "n-1", result["id"])
		assert.Equal(t, "2026-08-29T10:00:00Z", result["created_at"])
		_, ok := result["body"].(cryptoDomain.EncryptedPayload)
		assert.True(t, ok)

		metadata, ok := encryptionDomain.MetadataFromEntity(result)
		require.True(t, ok)
		assert.Equal(t, cryptoDomain.MasterKeyID, metadata.KeyID)
		assert.Equal(t, []string{"body"}, metadata.EncryptedFields)
	})

	t.Run("Success_AlreadyEncryptedPassThrough", func(t *testing.T) {
		manager, auditLog := newReadyManager(t, nil)

		encrypted, err := manager.EncryptEntity(ctx, encryptionDomain.EntityWorkspace, testWorkspace(), EncryptOptions{})
		require.NoError(t, err)
		before := auditLog.Len()

		again, err := manager.EncryptEntity(ctx, encryptionDomain.EntityWorkspace, encrypted, EncryptOptions{})
		require.NoError(t, err)
		assert.Equal(t, encrypted, again)
		assert.Equal(t, before, auditLog.Len())
	})

	t.Run("Error_MissingKeyIsFatal", func(t *testing.T) {
		manager, auditLog := newReadyManager(t, nil)

		_, err := manager.EncryptEntity(ctx, encryptionDomain.EntityWorkspace, testWorkspace(),
			EncryptOptions{KeyID: "no-such-key"})

		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

		entries := auditLog.List(auditDomain.Filter{Action: auditDomain.ActionEncrypt})
		require.Len(t, entries, 1)
		assert.False(t, entries[0].Success)
		assert.Equal(t, "no-such-key", entries[0].KeyID)
		assert.NotEmpty(t, entries[0].Error)
	})

	t.Run("Success_SelectionIsDeterministic", func(t *testing.T) {
		manager, _ := newReadyManager(t, nil)

		first, err := manager.EncryptEntity(ctx, encryptionDomain.EntityWorkspace, testWorkspace(), EncryptOptions{})
		require.NoError(t, err)
		second, err := manager.EncryptEntity(ctx, encryptionDomain.EntityWorkspace, testWorkspace(), EncryptOptions{})
		require.NoError(t, err)

		firstMeta, _ := encryptionDomain.MetadataFromEntity(first)
		secondMeta, _ := encryptionDomain.MetadataFromEntity(second)
		assert.Equal(t, firstMeta.EncryptedFields, secondMeta.EncryptedFields)
	})

	t.Run("Error_NilEntity", func(t *testing.T) {
		manager, _ := newReadyManager(t, nil)

		_, err := manager.EncryptEntity(ctx, encryptionDomain.EntityWorkspace, nil, EncryptOptions{})
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestEncryptionManager_DecryptEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_PassThroughWithoutMetadata", func(t *testing.T) {
		manager, auditLog := newReadyManager(t, nil)
		before := auditLog.Len()
		entity := encryptionDomain.Entity{"id": "t-1", "title": "plain"}

		result, err := manager.DecryptEntity(ctx, encryptionDomain.EntityTask, entity)
		require.NoError(t, err)
		assert.Equal(t, entity, result)
		assert.Equal(t, before, auditLog.Len())
	})

	t.Run("Error_MetadataReferencesMissingKey", func(t *testing.T) {
		manager, auditLog := newReadyManager(t, nil)
		entity := encryptionDomain.Entity{
			"id": "t-1",
			encryptionDomain.MetadataKey: encryptionDomain.Metadata{
				Encrypted:       true,
				Algorithm:       "AES-GCM",
				KeyID:           "gone",
				EncryptedFields: []string{"title"},
			},
		}

		_, err := manager.DecryptEntity(ctx, encryptionDomain.EntityTask, entity)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

		entries := auditLog.List(auditDomain.Filter{Action: auditDomain.ActionDecrypt})
		require.Len(t, entries, 1)
		assert.False(t, entries[0].Success)
		assert.Equal(t, "gone", entries[0].KeyID)
	})
}

func TestEncryptionManager_FileContent(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RoundTrip", func(t *testing.T) {
		manager, auditLog := newReadyManager(t, nil)

		content := make([]byte, 1024)
		_, err := rand.Read(content)
		require.NoError(t, err)

		payload, err := manager.EncryptFileContent(ctx, content, "")
		require.NoError(t, err)
		assert.True(t, payload.Encrypted)
		assert.NotEmpty(t, payload.Data)
		assert.NotEmpty(t, payload.IV)

		decrypted, err := manager.DecryptFileContent(ctx, payload, "")
		require.NoError(t, err)
		assert.Equal(t, content, decrypted)

		encryptEntries := auditLog.List(auditDomain.Filter{
			Action:     auditDomain.ActionEncrypt,
			EntityType: "file_content",
		})
		assert.Len(t, encryptEntries, 1)
	})

	t.Run("Success_ExplicitGeneratedKey", func(t *testing.T) {
		manager, _ := newReadyManager(t, nil)

		keyID, err := manager.GenerateKey(ctx, nil)
		require.NoError(t, err)

		payload, err := manager.EncryptFileContent(ctx, []byte("attachment"), keyID)
		require.NoError(t, err)

		decrypted, err := manager.DecryptFileContent(ctx, payload, keyID)
		require.NoError(t, err)
		assert.Equal(t, []byte("attachment"), decrypted)

		// the master key cannot open it
		_, err = manager.DecryptFileContent(ctx, payload, "")
		assert.True(t, apperrors.Is(err, cryptoDomain.ErrDecryptionFailed))
	})

	t.Run("Error_NotInitialized", func(t *testing.T) {
		manager, _ := newTestManager(t, nil)

		_, err := manager.EncryptFileContent(ctx, []byte("data"), "")
		assert.True(t, apperrors.Is(err, apperrors.ErrNotInitialized))
	})
}

func TestEncryptionManager_GenerateKey(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_MintsRandomKey", func(t *testing.T) {
		manager, auditLog := newReadyManager(t, nil)
		before := manager.Stats().TotalKeys

		keyID, err := manager.GenerateKey(ctx, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, keyID)

		stats := manager.Stats()
		assert.Equal(t, before+1, stats.TotalKeys)
		assert.Equal(t, 1, stats.KeysByProvenance[cryptoDomain.ProvenanceRandom])

		entries := auditLog.List(auditDomain.Filter{Action: auditDomain.ActionKeyGenerate})
		require.Len(t, entries, 1)
		assert.Equal(t, keyID, entries[0].KeyID)
		assert.True(t, entries[0].Success)
	})

	t.Run("Error_UsageRestrictionEnforced", func(t *testing.T) {
		manager, _ := newReadyManager(t, nil)

		keyID, err := manager.GenerateKey(ctx, []cryptoDomain.KeyUsage{cryptoDomain.UsageEncrypt})
		require.NoError(t, err)

		payload, err := manager.EncryptFileContent(ctx, []byte("data"), keyID)
		require.NoError(t, err)

		_, err = manager.DecryptFileContent(ctx, payload, keyID)
		assert.True(t, apperrors.Is(err, cryptoDomain.ErrKeyUsageNotAllowed))
	})
}

func TestEncryptionManager_Batch(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_OrderPreservedRoundTrip", func(t *testing.T) {
		manager, _ := newReadyManager(t, nil)

		entities := make([]encryptionDomain.Entity, 8)
		for i := range entities {
			entity := testWorkspace()
			entity["id"] = string(rune('a' + i))
			entities[i] = entity
		}

		encrypted, err := manager.EncryptEntities(ctx, encryptionDomain.EntityWorkspace, entities, EncryptOptions{})
		require.NoError(t, err)
		require.Len(t, encrypted, len(entities))

		decrypted, err := manager.DecryptEntities(ctx, encryptionDomain.EntityWorkspace, encrypted)
		require.NoError(t, err)
		require.Len(t, decrypted, len(entities))

		for i := range decrypted {
			assert.Equal(t, entities[i]["id"], decrypted[i]["id"])
			assert.Equal(t, "hunter2", decrypted[i]["wifi_password"])
		}
	})

	t.Run("Error_FailsAsAWhole", func(t *testing.T) {
		manager, _ := newReadyManager(t, nil)

		entities := []encryptionDomain.Entity{testWorkspace(), nil, testWorkspace()}
		results, err := manager.EncryptEntities(ctx, encryptionDomain.EntityWorkspace, entities, EncryptOptions{})

		assert.Error(t, err)
		assert.Nil(t, results)
	})
}

func TestEncryptionManager_Passwords(t *testing.T) {
	t.Run("Success_HashAndVerify", func(t *testing.T) {
		manager, _ := newTestManager(t, nil)

		encoded, err := manager.HashPassword("s3cret!")
		require.NoError(t, err)
		assert.NotContains(t, encoded, "s3cret!")

		ok, err := manager.VerifyPassword("s3cret!", encoded)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Success_WrongPasswordIsFalse", func(t *testing.T) {
		manager, _ := newTestManager(t, nil)

		encoded, err := manager.HashPassword("s3cret!")
		require.NoError(t, err)

		ok, err := manager.VerifyPassword("not-it", encoded)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Error_BlankPasswordRejected", func(t *testing.T) {
		manager, _ := newTestManager(t, nil)

		_, err := manager.HashPassword("   ")
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("Error_LockoutAfterTooManyAttempts", func(t *testing.T) {
		cfg := testConfig()
		cfg.LockoutMaxAttempts = 3
		manager, auditLog := newTestManager(t, cfg)

		encoded, err := manager.HashPassword("s3cret!")
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err := manager.VerifyPassword("not-it", encoded)
			require.NoError(t, err)
		}

		_, err = manager.VerifyPassword("s3cret!", encoded)
		assert.True(t, apperrors.Is(err, apperrors.ErrLocked))

		denied := auditLog.List(auditDomain.Filter{Action: auditDomain.ActionAccessDenied})
		assert.NotEmpty(t, denied)
	})
}

func TestEncryptionManager_SecurityLogsAndStats(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_NewestFirstAndFiltered", func(t *testing.T) {
		manager, _ := newReadyManager(t, nil)

		for i := 0; i < 3; i++ {
			_, err := manager.EncryptEntity(ctx, encryptionDomain.EntityWorkspace, testWorkspace(), EncryptOptions{})
			require.NoError(t, err)
		}

		entries := manager.SecurityLogs(auditDomain.Filter{})
		require.NotEmpty(t, entries)
		for i := 1; i < len(entries); i++ {
			assert.False(t, entries[i].Timestamp.After(entries[i-1].Timestamp))
		}

		encryptOnly := manager.SecurityLogs(auditDomain.Filter{Action: auditDomain.ActionEncrypt})
		assert.Len(t, encryptOnly, 3)

		limited := manager.SecurityLogs(auditDomain.Filter{Limit: 2})
		assert.Len(t, limited, 2)
	})

	t.Run("Success_AuditLogIsBounded", func(t *testing.T) {
		cfg := testConfig()
		cfg.AuditLogCapacity = 10
		manager, auditLog := newTestManager(t, cfg)
		require.NoError(t, manager.Initialize(ctx, testPassword))

		for i := 0; i < 15; i++ {
			_, err := manager.EncryptFileContent(ctx, []byte("x"), "")
			require.NoError(t, err)
		}

		assert.Equal(t, 10, auditLog.Len())
		assert.Equal(t, 10, auditLog.Capacity())
	})

	t.Run("Success_StatsSnapshot", func(t *testing.T) {
		manager, _ := newReadyManager(t, nil)

		_, err := manager.EncryptEntity(ctx, encryptionDomain.EntityWorkspace, testWorkspace(), EncryptOptions{})
		require.NoError(t, err)

		stats := manager.Stats()
		assert.Equal(t, StateReady, stats.State)
		assert.True(t, stats.Enabled)
		assert.Equal(t, 1000, stats.AuditCapacity)
		assert.Equal(t, 1, stats.Operations.ByAction[auditDomain.ActionEncrypt])
		assert.Positive(t, stats.Operations.Total)
	})
}

func TestEncryptionManager_RegisterRule(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_NewTypeGetsSubkeyOnNextInitialize", func(t *testing.T) {
		manager, _ := newTestManager(t, nil)

		err := manager.RegisterRule("note", encryptionDomain.Rule{
			AlwaysEncrypt: []string{"body"},
			NeverEncrypt:  []string{"id"},
			Level:         encryptionDomain.LevelHigh,
		})
		require.NoError(t, err)

		require.NoError(t, manager.Initialize(ctx, testPassword))

		encrypted, err := manager.EncryptEntity(ctx, "note",
			encryptionDomain.Entity{"id": "n-1", "body": "private"}, EncryptOptions{})
		require.NoError(t, err)

		metadata, ok := encryptionDomain.MetadataFromEntity(encrypted)
		require.True(t, ok)
		assert.Equal(t, "entity:note", metadata.KeyID)
		assert.Equal(t, []string{"body"}, metadata.EncryptedFields)
	})

	t.Run("Error_InvalidRuleRejected", func(t *testing.T) {
		manager, _ := newTestManager(t, nil)

		err := manager.RegisterRule("note", encryptionDomain.Rule{
			AlwaysEncrypt: []string{"body"},
			NeverEncrypt:  []string{"body"},
			Level:         encryptionDomain.LevelHigh,
		})
		assert.Error(t, err)
	})
}
