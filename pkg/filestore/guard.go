package filestore

import (
	"context"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🛡️ Guarded refuses writes to paths matching any of its glob patterns
type Guarded struct {
	Store
	patterns []string
}

// NewGuarded wraps store so that writes to protected paths fail. Patterns use
// doublestar syntax and are matched against both the path as given and its
// absolute form.
func NewGuarded(store Store, patterns []string) (*Guarded, error) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid protected pattern %q", pattern)
		}
	}
	return &Guarded{
		Store:    store,
		patterns: patterns,
	}, nil
}

// Protected returns the first pattern matching path, if any
func (g *Guarded) Protected(path string) (string, bool) {
	candidates := []string{filepath.ToSlash(filepath.Clean(path))}
	if abs, err := filepath.Abs(path); err == nil {
		candidates = append(candidates, filepath.ToSlash(abs))
	}

	for _, pattern := range g.patterns {
		for _, candidate := range candidates {
			matched, err := doublestar.Match(pattern, candidate)
			if err != nil {
				continue
			}
			if matched {
				return pattern, true
			}
		}
	}
	return "", false
}

// Write implements Store.Write
func (g *Guarded) Write(ctx context.Context, path string, content string) error {
	if pattern, ok := g.Protected(path); ok {
		zerolog.Ctx(ctx).Debug().Str("path", path).Str("pattern", pattern).Msg("write refused by protected pattern")
		return &PermissionError{
			Path:  path,
			Phase: PhaseWrite,
			Err:   errors.Errorf("%w by %q", ErrProtected, pattern),
		}
	}
	return g.Store.Write(ctx, path, content)
}
