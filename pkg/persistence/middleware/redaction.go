package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/aretw0/tendero/pkg/domain"
	"github.com/aretw0/tendero/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

// DefaultRedactedFields matches the JSON fields that carry personal data.
var DefaultRedactedFields = []string{`^client_name$`, `^business_name$`, `^email$`}

type redactionMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks string fields whose
// JSON name matches one of the patterns before they reach the store.
// Masking is one-way, so it suits debug mirrors, not the primary store.
func NewRedactionMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactionMiddleware) Save(ctx context.Context, identity string, session *domain.Session) error {
	masked, err := m.redact(session)
	if err != nil {
		return err
	}
	return m.next.Save(ctx, identity, masked)
}

// redact works on a JSON copy, so the caller's session is never touched.
func (m *redactionMiddleware) redact(session *domain.Session) (*domain.Session, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	maskValue(tree, m.patterns)

	data, err = json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal redacted session: %w", err)
	}
	var out domain.Session
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode redacted session: %w", err)
	}
	return &out, nil
}

func (m *redactionMiddleware) Load(ctx context.Context, identity string) (*domain.Session, error) {
	return m.next.Load(ctx, identity)
}

func (m *redactionMiddleware) Delete(ctx context.Context, identity string) error {
	return m.next.Delete(ctx, identity)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// maskValue masks non-empty strings under matching keys, recursing through
// objects and arrays.
func maskValue(v any, patterns []*regexp.Regexp) {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			if s, ok := child.(string); ok && s != "" && matchesAny(k, patterns) {
				node[k] = Mask
				continue
			}
			maskValue(child, patterns)
		}
	case []any:
		for _, child := range node {
			maskValue(child, patterns)
		}
	}
}

func matchesAny(key string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
