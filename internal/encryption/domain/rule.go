package domain

import (
	"fmt"
	"sync"

	validation "github.com/jellydator/validation"

	apperrors "github.com/NotDonCitron/BlueBirdHub-sub005/internal/errors"
)

// EncryptionLevel expresses how aggressively an entity type is protected.
// The level is advisory policy metadata for diagnostics; field selection is
// driven by the rule's field sets.
type EncryptionLevel string

const (
	// LevelLow protects only explicitly listed fields.
	LevelLow EncryptionLevel = "low"

	// LevelMedium protects listed fields plus detected sensitive content.
	LevelMedium EncryptionLevel = "medium"

	// LevelHigh protects everything that is not explicitly exempt.
	LevelHigh EncryptionLevel = "high"
)

// Rule is the declarative per-entity-type encryption policy.
//
// The three field sets trade recall and precision differently:
//   - AlwaysEncrypt names fields that are sensitive by schema
//   - NeverEncrypt names fields that must stay queryable in plaintext
//   - ConditionalEncrypt names fields encrypted only when their current
//     value looks sensitive
type Rule struct {
	AlwaysEncrypt      []string
	NeverEncrypt       []string
	ConditionalEncrypt []string
	Level              EncryptionLevel
}

// Validate checks the rule for internal consistency.
func (r Rule) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Level,
			validation.Required,
			validation.In(LevelLow, LevelMedium, LevelHigh),
		),
		validation.Field(&r.AlwaysEncrypt, validation.By(disjointFrom(r.NeverEncrypt, "neverEncrypt"))),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}
	return nil
}

// disjointFrom rejects field lists that overlap with the given set; a field
// cannot be both always and never encrypted.
func disjointFrom(other []string, name string) validation.RuleFunc {
	return func(value any) error {
		fields, ok := value.([]string)
		if !ok {
			return nil
		}
		for _, field := range fields {
			for _, excluded := range other {
				if field == excluded {
					return validation.NewError(
						"validation_fields_disjoint",
						fmt.Sprintf("field %q also present in %s", field, name),
					)
				}
			}
		}
		return nil
	}
}

// RuleSet is the rule table keyed by entity type tag. Rules are registered at
// composition time and read on every encrypt call; the set is safe for
// concurrent use.
type RuleSet struct {
	mu    sync.RWMutex
	rules map[EntityType]Rule
}

// NewRuleSet creates a rule set from the given table, validating every rule.
func NewRuleSet(rules map[EntityType]Rule) (*RuleSet, error) {
	set := &RuleSet{rules: make(map[EntityType]Rule, len(rules))}
	for entityType, rule := range rules {
		if err := set.Register(entityType, rule); err != nil {
			return nil, fmt.Errorf("rule for %q: %w", entityType, err)
		}
	}
	return set, nil
}

// MustRuleSet creates a rule set from a table known to be valid, panicking
// otherwise. Intended for the built-in DefaultRules table.
func MustRuleSet(rules map[EntityType]Rule) *RuleSet {
	set, err := NewRuleSet(rules)
	if err != nil {
		panic(err)
	}
	return set
}

// Register adds or replaces the rule for an entity type.
func (s *RuleSet) Register(entityType EntityType, rule Rule) error {
	if entityType == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "entity type must not be empty")
	}
	if err := rule.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[entityType] = rule
	return nil
}

// Get returns the rule for an entity type; the second return is false when
// no rule is registered for the tag.
func (s *RuleSet) Get(entityType EntityType) (Rule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rule, ok := s.rules[entityType]
	return rule, ok
}

// Types returns the registered entity type tags.
func (s *RuleSet) Types() []EntityType {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]EntityType, 0, len(s.rules))
	for entityType := range s.rules {
		types = append(types, entityType)
	}
	return types
}

// DefaultRules returns the built-in policy for the cached application data.
func DefaultRules() map[EntityType]Rule {
	return map[EntityType]Rule{
		EntityWorkspace: {
			AlwaysEncrypt:      []string{"layout_config", "ambient_sound_config"},
			NeverEncrypt:       []string{"id", "name", "color", "icon", "created_at", "updated_at"},
			ConditionalEncrypt: []string{"description"},
			Level:              LevelMedium,
		},
		EntityTask: {
			AlwaysEncrypt:      []string{},
			NeverEncrypt:       []string{"id", "workspace_id", "status", "priority", "created_at", "updated_at"},
			ConditionalEncrypt: []string{"title", "description"},
			Level:              LevelMedium,
		},
		EntityFile: {
			AlwaysEncrypt:      []string{"user_notes", "extracted_text"},
			NeverEncrypt:       []string{"id", "file_type", "size", "created_at", "updated_at"},
			ConditionalEncrypt: []string{"file_name", "file_path"},
			Level:              LevelHigh,
		},
		EntityAnalyticsEvent: {
			AlwaysEncrypt:      []string{"payload"},
			NeverEncrypt:       []string{"id", "event_type", "created_at", "updated_at"},
			ConditionalEncrypt: []string{"context"},
			Level:              LevelLow,
		},
		EntityUserPreference: {
			AlwaysEncrypt:      []string{"value"},
			NeverEncrypt:       []string{"id", "name", "created_at", "updated_at"},
			ConditionalEncrypt: []string{},
			Level:              LevelHigh,
		},
	}
}
