package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Mask replaces the values of masked inputs in stored snapshots.
const Mask = "***"

type piiMiddleware struct {
	next     ports.InputStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks, on save, the values of
// inputs whose names match any of the patterns. Nested maps are masked too.
// The live application keeps the real values.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid mask pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.InputStore) ports.InputStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, runID string, snap *domain.Snapshot) error {
	masked := &domain.Snapshot{App: snap.App, Inputs: deepCopyMap(snap.Inputs)}
	maskMap(masked.Inputs, m.patterns)
	return m.next.Save(ctx, runID, masked)
}

func (m *piiMiddleware) Load(ctx context.Context, runID string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, runID)
}

func (m *piiMiddleware) Delete(ctx context.Context, runID string) error {
	return m.next.Delete(ctx, runID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(sub)
		} else {
			out[k] = v
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			maskMap(sub, patterns)
			continue
		}
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				break
			}
		}
	}
}
