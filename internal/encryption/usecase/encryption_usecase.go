package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	auditDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/audit/domain"
	"github.com/NotDonCitron/BlueBirdHub-sub005/internal/config"
	cryptoDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/crypto/domain"
	cryptoService "github.com/NotDonCitron/BlueBirdHub-sub005/internal/crypto/service"
	encryptionDomain "github.com/NotDonCitron/BlueBirdHub-sub005/internal/encryption/domain"
	encryptionService "github.com/NotDonCitron/BlueBirdHub-sub005/internal/encryption/service"
	apperrors "github.com/NotDonCitron/BlueBirdHub-sub005/internal/errors"
	appvalidation "github.com/NotDonCitron/BlueBirdHub-sub005/internal/validation"
)

// batchConcurrency bounds the number of entities encrypted or decrypted in
// parallel by the batch helpers.
const batchConcurrency = 4

// encryptionManager implements the EncryptionUseCase interface.
//
// It owns the key lifecycle (derivation on Initialize, random minting via
// GenerateKey), the per-entity-type rule table, field selection, the password
// hashing path, and the security audit log. Ciphers are cached per key id so
// the expensive PBKDF2 key stretching runs at most once per key.
//
// All state transitions and cipher cache access are guarded by mu; the manager
// is safe for concurrent use once READY.
type encryptionManager struct {
	cfg         *config.Config
	logger      *slog.Logger
	keys        cryptoService.KeyStore
	audit       AuditLogRepository
	deriver     *cryptoService.KeyDeriver
	hasher      *cryptoService.PasswordHasher
	matcher     *encryptionService.SensitiveMatcher
	rules       *encryptionDomain.RuleSet
	fingerprint cryptoService.DeviceFingerprint
	limiter     *rate.Limiter

	mu      sync.RWMutex
	state   State
	ciphers map[string]*cryptoService.FieldCipher
}

// ManagerOption customizes manager construction.
type ManagerOption func(*encryptionManager)

// WithFingerprint overrides the device fingerprint used for device key
// derivation and audit entry attribution.
func WithFingerprint(fingerprint cryptoService.DeviceFingerprint) ManagerOption {
	return func(m *encryptionManager) {
		m.fingerprint = fingerprint
	}
}

// WithRules replaces the default per-entity-type rule table.
func WithRules(rules *encryptionDomain.RuleSet) ManagerOption {
	return func(m *encryptionManager) {
		m.rules = rules
	}
}

// NewEncryptionManager creates the encryption manager in the UNINITIALIZED
// state. No keys exist until Initialize is called.
//
// The key deriver, password hasher, and sensitive matcher are built from the
// configuration; the key store and audit log are injected so tests and the
// composition root can choose implementations.
func NewEncryptionManager(
	cfg *config.Config,
	logger *slog.Logger,
	keyStore cryptoService.KeyStore,
	auditLog AuditLogRepository,
	opts ...ManagerOption,
) EncryptionUseCase {
	deriverOpts := []cryptoService.KeyDeriverOption{
		cryptoService.WithIterations(cfg.KeyDerivationIterations),
	}
	if cfg.KeyDerivationSalt != "" {
		deriverOpts = append(deriverOpts, cryptoService.WithSalt(cfg.KeyDerivationSalt))
	}

	manager := &encryptionManager{
		cfg:     cfg,
		logger:  logger,
		keys:    keyStore,
		audit:   auditLog,
		deriver: cryptoService.NewKeyDeriver(deriverOpts...),
		hasher:  cryptoService.NewPasswordHasher(cfg.KeyDerivationIterations),
		matcher: encryptionService.NewSensitiveMatcher(splitKeywords(cfg.ExtraSensitiveKeywords)...),
		rules:   encryptionDomain.MustRuleSet(encryptionDomain.DefaultRules()),
		fingerprint: cryptoService.DeviceFingerprint{
			UserAgent: "bluebirdhub-offline",
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		},
		state:   StateUninitialized,
		ciphers: make(map[string]*cryptoService.FieldCipher),
	}
	if cfg.LockoutMaxAttempts > 0 && cfg.LockoutDuration > 0 {
		limit := rate.Limit(float64(cfg.LockoutMaxAttempts) / cfg.LockoutDuration.Seconds())
		manager.limiter = rate.NewLimiter(limit, cfg.LockoutMaxAttempts)
	}
	for _, opt := range opts {
		opt(manager)
	}
	return manager
}

// Initialize derives the session keys and transitions the manager to READY.
//
// The bootstrap derives three classes of keys:
//   - the master key: from the password via PBKDF2 when one is given
//     (deterministic, recoverable with the same password), otherwise random
//   - the device key: from the device fingerprint mixed with fresh entropy,
//     intentionally non-recoverable across reinstalls
//   - one default subkey per registered entity type, expanded from the device
//     key with HKDF
//
// Password attempts count against the lockout budget. Re-initialization clears
// all previously derived keys and cached ciphers first; entities encrypted
// under random or device-derived keys from the prior session become
// unreadable, which is the accepted trade-off of local-only key custody.
func (m *encryptionManager) Initialize(ctx context.Context, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateInitializing {
		return apperrors.Wrap(apperrors.ErrConflict, "initialization already in progress")
	}

	if password != "" && m.limiter != nil && !m.limiter.Allow() {
		m.appendLocked(m.newEntry(auditDomain.ActionAccessDenied, "", "", cryptoDomain.MasterKeyID,
			false, encryptionDomain.ErrTooManyAttempts.Error()))
		return encryptionDomain.ErrTooManyAttempts
	}

	m.state = StateInitializing
	m.keys.Clear()
	m.ciphers = make(map[string]*cryptoService.FieldCipher)

	if err := m.bootstrapKeys(password); err != nil {
		m.state = StateUninitialized
		m.appendLocked(m.newEntry(auditDomain.ActionKeyDerive, "", "", cryptoDomain.MasterKeyID,
			false, err.Error()))
		return err
	}

	m.state = StateReady
	m.logger.InfoContext(ctx, "encryption manager initialized",
		slog.Int("keys", m.keys.Count()),
		slog.Bool("password_derived", password != ""),
	)
	m.appendLocked(m.newEntry(auditDomain.ActionKeyDerive, "", "", cryptoDomain.MasterKeyID, true, ""))
	return nil
}

// bootstrapKeys derives and stores the master key, the device key, and one
// subkey per registered entity type. Caller holds the write lock.
func (m *encryptionManager) bootstrapKeys(password string) error {
	var masterMaterial []byte
	masterProvenance := cryptoDomain.ProvenanceRandom
	if password != "" {
		masterMaterial = m.deriver.DeriveMasterKey(password)
		masterProvenance = cryptoDomain.ProvenancePassword
	} else {
		masterMaterial = make([]byte, cryptoDomain.KeySize)
		if _, err := rand.Read(masterMaterial); err != nil {
			return fmt.Errorf("failed to generate master key material: %w", err)
		}
	}
	defer cryptoDomain.Zero(masterMaterial)

	deviceMaterial, err := m.deriver.DeriveDeviceKey(m.fingerprint)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(deviceMaterial)

	usage := []cryptoDomain.KeyUsage{cryptoDomain.UsageEncrypt, cryptoDomain.UsageDecrypt}

	masterKey, err := cryptoDomain.NewEncryptionKey(
		cryptoDomain.MasterKeyID, masterMaterial, masterProvenance, usage)
	if err != nil {
		return err
	}
	m.keys.Put(masterKey)

	deviceKey, err := cryptoDomain.NewEncryptionKey(
		cryptoDomain.DeviceKeyID, deviceMaterial, cryptoDomain.ProvenanceDevice, usage)
	if err != nil {
		return err
	}
	m.keys.Put(deviceKey)

	for _, entityType := range m.rules.Types() {
		keyID := entityKeyID(entityType)
		subMaterial, err := m.deriver.DeriveSubKey(deviceMaterial, keyID)
		if err != nil {
			return err
		}
		subKey, err := cryptoDomain.NewEncryptionKey(
			keyID, subMaterial, cryptoDomain.ProvenanceDevice, usage)
		cryptoDomain.Zero(subMaterial)
		if err != nil {
			return err
		}
		m.keys.Put(subKey)
	}
	return nil
}

// State returns the current lifecycle state.
func (m *encryptionManager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// EncryptEntity encrypts the selected fields of one entity.
//
// Field selection follows the rule table unless ForceEncrypt is set:
// alwaysEncrypt fields first, then conditionalEncrypt fields whose current
// value looks sensitive, then (when auto-detection is on) any remaining field
// whose name matches a sensitive keyword and is not ruled out by
// neverEncrypt. ForceEncrypt takes every field except the fixed ignore list.
//
// The input entity is never mutated. On success a metadata block is attached
// under the reserved key and exactly one audit entry is recorded; on failure
// one failed audit entry is recorded and the error is returned with no
// partially encrypted result. Entities that already carry a metadata block,
// types without a rule, and the globally disabled case pass through unchanged
// without an audit entry.
func (m *encryptionManager) EncryptEntity(
	ctx context.Context,
	entityType encryptionDomain.EntityType,
	entity encryptionDomain.Entity,
	opts EncryptOptions,
) (encryptionDomain.Entity, error) {
	if err := m.requireReady(auditDomain.ActionEncrypt, entityType, entity); err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, encryptionDomain.ErrUnsupportedEntity
	}
	if !m.cfg.EncryptionEnabled && !opts.ForceEncrypt {
		return entity, nil
	}
	if _, already := encryptionDomain.MetadataFromEntity(entity); already {
		return entity, nil
	}

	rule, hasRule := m.rules.Get(entityType)
	if !hasRule && !opts.ForceEncrypt {
		return entity, nil
	}

	fields := m.selectFields(rule, hasRule, entity, opts.ForceEncrypt)
	if len(fields) == 0 {
		return entity, nil
	}

	keyID := opts.KeyID
	if keyID == "" {
		keyID = cryptoDomain.MasterKeyID
		if hasRule {
			keyID = entityKeyID(entityType)
		}
	}

	cipher, err := m.cipherFor(keyID, cryptoDomain.UsageEncrypt)
	if err != nil {
		m.auditEntityOp(ctx, auditDomain.ActionEncrypt, entityType, entity, keyID, err)
		return nil, err
	}

	result, err := cipher.EncryptFields(entity, fields)
	if err != nil {
		m.auditEntityOp(ctx, auditDomain.ActionEncrypt, entityType, entity, keyID, err)
		return nil, err
	}
	result[encryptionDomain.MetadataKey] = encryptionDomain.NewMetadata(
		string(cryptoDomain.AESGCM), keyID, fields)

	m.auditEntityOp(ctx, auditDomain.ActionEncrypt, entityType, entity, keyID, nil)
	return result, nil
}

// DecryptEntity restores the plaintext fields of an entity encrypted by
// EncryptEntity and strips the metadata block. Entities without a metadata
// block pass through unchanged. The key named by the metadata must exist;
// there is no fallback key.
func (m *encryptionManager) DecryptEntity(
	ctx context.Context,
	entityType encryptionDomain.EntityType,
	entity encryptionDomain.Entity,
) (encryptionDomain.Entity, error) {
	if err := m.requireReady(auditDomain.ActionDecrypt, entityType, entity); err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, encryptionDomain.ErrUnsupportedEntity
	}

	metadata, ok := encryptionDomain.MetadataFromEntity(entity)
	if !ok || !metadata.Encrypted {
		return entity, nil
	}

	cipher, err := m.cipherFor(metadata.KeyID, cryptoDomain.UsageDecrypt)
	if err != nil {
		m.auditEntityOp(ctx, auditDomain.ActionDecrypt, entityType, entity, metadata.KeyID, err)
		return nil, err
	}

	result, err := cipher.DecryptFields(entity, metadata.EncryptedFields)
	if err != nil {
		m.auditEntityOp(ctx, auditDomain.ActionDecrypt, entityType, entity, metadata.KeyID, err)
		return nil, err
	}
	delete(result, encryptionDomain.MetadataKey)

	m.auditEntityOp(ctx, auditDomain.ActionDecrypt, entityType, entity, metadata.KeyID, nil)
	return result, nil
}

// EncryptEntities encrypts a batch of entities of one type with bounded
// concurrency. Result order matches input order. The first error cancels the
// remaining work and fails the whole batch; individual per-entity audit
// entries are still recorded for the operations that ran.
func (m *encryptionManager) EncryptEntities(
	ctx context.Context,
	entityType encryptionDomain.EntityType,
	entities []encryptionDomain.Entity,
	opts EncryptOptions,
) ([]encryptionDomain.Entity, error) {
	results := make([]encryptionDomain.Entity, len(entities))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(batchConcurrency)
	for i, entity := range entities {
		i, entity := i, entity
		group.Go(func() error {
			encrypted, err := m.EncryptEntity(groupCtx, entityType, entity, opts)
			if err != nil {
				return err
			}
			results[i] = encrypted
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// DecryptEntities decrypts a batch of entities of one type with bounded
// concurrency. Result order matches input order.
func (m *encryptionManager) DecryptEntities(
	ctx context.Context,
	entityType encryptionDomain.EntityType,
	entities []encryptionDomain.Entity,
) ([]encryptionDomain.Entity, error) {
	results := make([]encryptionDomain.Entity, len(entities))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(batchConcurrency)
	for i, entity := range entities {
		i, entity := i, entity
		group.Go(func() error {
			decrypted, err := m.DecryptEntity(groupCtx, entityType, entity)
			if err != nil {
				return err
			}
			results[i] = decrypted
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// EncryptFileContent encrypts raw binary content independently of the
// per-field pipeline. An empty keyID selects the master key.
func (m *encryptionManager) EncryptFileContent(
	ctx context.Context,
	content []byte,
	keyID string,
) (cryptoDomain.EncryptedPayload, error) {
	if err := m.requireReady(auditDomain.ActionEncrypt, fileContentTag, nil); err != nil {
		return cryptoDomain.EncryptedPayload{}, err
	}
	if keyID == "" {
		keyID = cryptoDomain.MasterKeyID
	}

	cipher, err := m.cipherFor(keyID, cryptoDomain.UsageEncrypt)
	if err != nil {
		m.auditEntityOp(ctx, auditDomain.ActionEncrypt, fileContentTag, nil, keyID, err)
		return cryptoDomain.EncryptedPayload{}, err
	}

	payload, err := cipher.EncryptBytes(content)
	m.auditEntityOp(ctx, auditDomain.ActionEncrypt, fileContentTag, nil, keyID, err)
	if err != nil {
		return cryptoDomain.EncryptedPayload{}, err
	}
	return payload, nil
}

// DecryptFileContent decrypts a payload produced by EncryptFileContent back
// into a byte-identical buffer.
func (m *encryptionManager) DecryptFileContent(
	ctx context.Context,
	payload cryptoDomain.EncryptedPayload,
	keyID string,
) ([]byte, error) {
	if err := m.requireReady(auditDomain.ActionDecrypt, fileContentTag, nil); err != nil {
		return nil, err
	}
	if keyID == "" {
		keyID = cryptoDomain.MasterKeyID
	}

	cipher, err := m.cipherFor(keyID, cryptoDomain.UsageDecrypt)
	if err != nil {
		m.auditEntityOp(ctx, auditDomain.ActionDecrypt, fileContentTag, nil, keyID, err)
		return nil, err
	}

	content, err := cipher.DecryptBytes(payload)
	m.auditEntityOp(ctx, auditDomain.ActionDecrypt, fileContentTag, nil, keyID, err)
	if err != nil {
		return nil, err
	}
	return content, nil
}

// GenerateKey mints a random key with a fresh UUIDv7 id and stores it.
// Empty usage defaults to encrypt+decrypt.
func (m *encryptionManager) GenerateKey(
	ctx context.Context,
	usage []cryptoDomain.KeyUsage,
) (string, error) {
	if err := m.requireReady(auditDomain.ActionKeyGenerate, "", nil); err != nil {
		return "", err
	}
	if len(usage) == 0 {
		usage = []cryptoDomain.KeyUsage{cryptoDomain.UsageEncrypt, cryptoDomain.UsageDecrypt}
	}

	materialHex, err := cryptoService.GenerateKeyMaterial()
	if err != nil {
		return "", err
	}
	material, err := hex.DecodeString(materialHex)
	if err != nil {
		return "", fmt.Errorf("failed to decode key material: %w", err)
	}
	defer cryptoDomain.Zero(material)

	keyID := uuid.Must(uuid.NewV7()).String()
	key, err := cryptoDomain.NewEncryptionKey(keyID, material, cryptoDomain.ProvenanceRandom, usage)
	if err != nil {
		return "", err
	}
	m.keys.Put(key)

	entry := m.newEntry(auditDomain.ActionKeyGenerate, "", "", keyID, true, "")
	m.audit.Append(entry)
	m.logger.InfoContext(ctx, "encryption key generated", slog.String("key_id", keyID))
	return keyID, nil
}

// HashPassword hashes a credential with PBKDF2-SHA256. This path is
// independent of the entity encryption pipeline and does not require READY.
func (m *encryptionManager) HashPassword(password string) (string, error) {
	if err := appvalidation.WrapValidationError(
		validation.Validate(password, appvalidation.NotBlank)); err != nil {
		return "", err
	}
	return m.hasher.Hash(password)
}

// VerifyPassword verifies a credential against its encoded hash. Attempts
// draw from the same lockout budget as password-based initialization;
// exhaustion returns ErrTooManyAttempts and records an access_denied entry.
func (m *encryptionManager) VerifyPassword(password, encoded string) (bool, error) {
	if m.limiter != nil && !m.limiter.Allow() {
		m.audit.Append(m.newEntry(auditDomain.ActionAccessDenied, "", "", "",
			false, encryptionDomain.ErrTooManyAttempts.Error()))
		return false, encryptionDomain.ErrTooManyAttempts
	}
	return m.hasher.Verify(password, encoded)
}

// RegisterRule adds or replaces the encryption rule for an entity type. The
// entity type's default subkey is derived on the next Initialize; until then
// encryption for a newly registered type needs an explicit KeyID.
func (m *encryptionManager) RegisterRule(
	entityType encryptionDomain.EntityType,
	rule encryptionDomain.Rule,
) error {
	return m.rules.Register(entityType, rule)
}

// SecurityLogs returns audit entries matching the filter, newest first.
func (m *encryptionManager) SecurityLogs(filter auditDomain.Filter) []auditDomain.Entry {
	return m.audit.List(filter)
}

// Stats returns the diagnostics snapshot for the security dashboard.
func (m *encryptionManager) Stats() Stats {
	return Stats{
		State:            m.State(),
		Enabled:          m.cfg.EncryptionEnabled,
		TotalKeys:        m.keys.Count(),
		KeysByProvenance: m.keys.CountByProvenance(),
		Operations:       m.audit.Stats(),
		AuditCapacity:    m.audit.Capacity(),
	}
}

// fileContentTag is the entity type tag used on audit entries for the raw
// file content path, which has no entity.
const fileContentTag encryptionDomain.EntityType = "file_content"

// requireReady fails fast when the manager is not READY, recording one
// access_denied audit entry for the refused operation.
func (m *encryptionManager) requireReady(
	action auditDomain.Action,
	entityType encryptionDomain.EntityType,
	entity encryptionDomain.Entity,
) error {
	m.mu.RLock()
	ready := m.state == StateReady
	m.mu.RUnlock()
	if ready {
		return nil
	}

	entry := m.newEntry(auditDomain.ActionAccessDenied, string(entityType), entityID(entity), "",
		false, encryptionDomain.ErrManagerNotInitialized.Error())
	m.audit.Append(entry)
	return encryptionDomain.ErrManagerNotInitialized
}

// selectFields computes the ordered, deduplicated list of field names to
// encrypt. The result is deterministic for a given entity and rule: rule
// tiers contribute in declaration order, name-driven matches in sorted order.
func (m *encryptionManager) selectFields(
	rule encryptionDomain.Rule,
	hasRule bool,
	entity encryptionDomain.Entity,
	force bool,
) []string {
	seen := make(map[string]struct{})
	var fields []string
	add := func(name string) {
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		fields = append(fields, name)
	}
	present := func(name string) bool {
		value, ok := entity[name]
		return ok && value != nil
	}

	if force {
		for _, name := range sortedFieldNames(entity) {
			if name == encryptionDomain.MetadataKey || slices.Contains(encryptionDomain.IgnoredFields, name) {
				continue
			}
			if present(name) {
				add(name)
			}
		}
		return fields
	}
	if !hasRule {
		return nil
	}

	for _, name := range rule.AlwaysEncrypt {
		if present(name) {
			add(name)
		}
	}
	for _, name := range rule.ConditionalEncrypt {
		if present(name) && m.matcher.MatchValue(entity[name]) {
			add(name)
		}
	}
	if m.cfg.AutoEncryptSensitive {
		for _, name := range sortedFieldNames(entity) {
			if name == encryptionDomain.MetadataKey || slices.Contains(encryptionDomain.IgnoredFields, name) {
				continue
			}
			if slices.Contains(rule.NeverEncrypt, name) {
				continue
			}
			if present(name) && m.matcher.MatchField(name) {
				add(name)
			}
		}
	}
	return fields
}

// cipherFor returns the cached cipher for a key id, building it on first use.
// The key must exist, be unexpired, and allow the requested usage.
func (m *encryptionManager) cipherFor(
	keyID string,
	usage cryptoDomain.KeyUsage,
) (*cryptoService.FieldCipher, error) {
	key, err := m.keys.Get(keyID)
	if err != nil {
		return nil, err
	}
	if !key.AllowsUsage(usage) {
		return nil, apperrors.Wrapf(cryptoDomain.ErrKeyUsageNotAllowed, "key %q does not allow %s", keyID, usage)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cipher, ok := m.ciphers[keyID]; ok {
		return cipher, nil
	}

	cipherOpts := []cryptoService.FieldCipherOption{
		cryptoService.WithCipherIterations(m.cfg.KeyDerivationIterations),
	}
	if m.cfg.KeyDerivationSalt != "" {
		cipherOpts = append(cipherOpts, cryptoService.WithCipherSalt(m.cfg.KeyDerivationSalt))
	}
	cipher := cryptoService.NewFieldCipher(hex.EncodeToString(key.Material()), cipherOpts...)
	m.ciphers[keyID] = cipher
	return cipher, nil
}

// auditEntityOp records exactly one audit entry for an entity-level
// operation, logging failures at warn level.
func (m *encryptionManager) auditEntityOp(
	ctx context.Context,
	action auditDomain.Action,
	entityType encryptionDomain.EntityType,
	entity encryptionDomain.Entity,
	keyID string,
	opErr error,
) {
	errMsg := ""
	if opErr != nil {
		errMsg = opErr.Error()
	}
	entry := m.newEntry(action, string(entityType), entityID(entity), keyID, opErr == nil, errMsg)
	m.audit.Append(entry)

	if opErr != nil {
		m.logger.WarnContext(ctx, "encryption operation failed",
			slog.String("action", string(action)),
			slog.String("entity_type", string(entityType)),
			slog.String("key_id", keyID),
			slog.String("error", errMsg),
		)
	}
}

// newEntry builds an audit entry attributed to this device.
func (m *encryptionManager) newEntry(
	action auditDomain.Action,
	entityType, entityIDValue, keyID string,
	success bool,
	errMsg string,
) auditDomain.Entry {
	entry := auditDomain.NewEntry(action)
	entry.EntityType = entityType
	entry.EntityID = entityIDValue
	entry.KeyID = keyID
	entry.Success = success
	entry.Error = errMsg
	entry.UserAgent = m.fingerprint.UserAgent
	return entry
}

// appendLocked appends an audit entry while the caller holds the write lock.
// The audit repository has its own lock, so this is just a naming aid for
// call sites inside Initialize.
func (m *encryptionManager) appendLocked(entry auditDomain.Entry) {
	m.audit.Append(entry)
}

// entityKeyID returns the default key id for an entity type.
func entityKeyID(entityType encryptionDomain.EntityType) string {
	return "entity:" + string(entityType)
}

// entityID extracts the entity's id field as a string, empty when absent.
func entityID(entity encryptionDomain.Entity) string {
	if entity == nil {
		return ""
	}
	if id, ok := entity["id"]; ok && id != nil {
		return fmt.Sprint(id)
	}
	return ""
}

// sortedFieldNames returns the entity's field names in sorted order so
// name-driven selection is deterministic across calls.
func sortedFieldNames(entity encryptionDomain.Entity) []string {
	names := make([]string, 0, len(entity))
	for name := range entity {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// splitKeywords splits a comma-separated keyword list, dropping empties.
func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	var keywords []string
	for _, keyword := range strings.Split(raw, ",") {
		keyword = strings.TrimSpace(keyword)
		if keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	return keywords
}
