// Package service provides the content-inspection services used by the
// encryption manager to decide which fields need protection.
package service

import (
	"encoding/json"
	"strings"
)

// DefaultSensitiveKeywords is the built-in keyword set used for both
// name-driven and content-driven sensitive field detection.
var DefaultSensitiveKeywords = []string{
	"password",
	"token",
	"secret",
	"key",
	"credential",
	"auth",
	"session",
	"cookie",
	"bearer",
	"api_key",
	"personal_info",
	"email",
	"phone",
	"address",
	"payment",
	"credit_card",
	"bank_account",
}

// SensitiveMatcher detects sensitive fields by keyword, either on the field
// name or on the serialized field value.
//
// Matching is deliberately lenient: a case-insensitive substring hit on the
// serialized value counts, so ordinary text like a task titled "update
// password page" is flagged too. That over-encryption is the accepted
// trade-off; tightening the heuristic would silently leave real secrets in
// plaintext for values the stricter match misses.
//
// The matcher is a pure function holder: no state beyond the keyword set,
// safe for concurrent use.
type SensitiveMatcher struct {
	keywords []string
}

// NewSensitiveMatcher creates a matcher over the default keyword set plus
// any extra keywords. Extra keywords are lowercased; empty entries are
// dropped.
func NewSensitiveMatcher(extraKeywords ...string) *SensitiveMatcher {
	keywords := make([]string, 0, len(DefaultSensitiveKeywords)+len(extraKeywords))
	keywords = append(keywords, DefaultSensitiveKeywords...)
	for _, keyword := range extraKeywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	return &SensitiveMatcher{keywords: keywords}
}

// Keywords returns a copy of the active keyword set.
func (m *SensitiveMatcher) Keywords() []string {
	return append([]string(nil), m.keywords...)
}

// MatchField reports whether a field name contains a sensitive keyword.
func (m *SensitiveMatcher) MatchField(name string) bool {
	return m.matchText(name)
}

// MatchValue reports whether a field value looks sensitive. The value is
// serialized as JSON and scanned for keyword substrings, so nested structures
// are inspected as a whole. Unserializable values are treated as not
// matching.
func (m *SensitiveMatcher) MatchValue(value any) bool {
	if value == nil {
		return false
	}

	text, ok := value.(string)
	if !ok {
		raw, err := json.Marshal(value)
		if err != nil {
			return false
		}
		text = string(raw)
	}

	return m.matchText(text)
}

func (m *SensitiveMatcher) matchText(text string) bool {
	if text == "" {
		return false
	}
	lowered := strings.ToLower(text)
	for _, keyword := range m.keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
