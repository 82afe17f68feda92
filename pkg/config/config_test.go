// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/ensurefile/pkg/status"
	"github.com/walteh/ensurefile/pkg/text"
)

func ptr[T any](v T) *T { return &v }

func writeRecipe(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	t.Run("yaml", func(t *testing.T) {
		path := writeRecipe(t, "recipe.yaml", "path: ./etc//app.conf\nline: a=1\n")
		cfg, err := Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "etc/app.conf", cfg.Path, "path should be cleaned")
		require.NotNil(t, cfg.Line)
		assert.Equal(t, "a=1", *cfg.Line)
	})

	t.Run("uppercase_extension", func(t *testing.T) {
		path := writeRecipe(t, "RECIPE.JSON", `{"line": "a"}`)
		_, err := Load(ctx, path)
		require.NoError(t, err)
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading recipe file")
	})

	t.Run("unknown_extension", func(t *testing.T) {
		path := writeRecipe(t, "recipe.toml", "line = 'a'\n")
		_, err := Load(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no parser found")
	})

	t.Run("two_operations", func(t *testing.T) {
		path := writeRecipe(t, "recipe.yaml", "line: a\nreplace: {from: b, to: c}\n")
		_, err := Load(ctx, path)
		require.ErrorIs(t, err, ErrMultipleOperations)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty", cfg: Config{}},
		{name: "line", cfg: Config{Line: ptr("a")}},
		{
			name:    "line_and_block",
			cfg:     Config{Line: ptr("a"), Block: &BlockArgs{Lines: []string{"x"}, Start: "s", End: "e"}},
			wantErr: "only one operation",
		},
		{
			name:    "block_without_end",
			cfg:     Config{Block: &BlockArgs{Lines: []string{"x"}, Start: "s"}},
			wantErr: "start and end",
		},
		{
			name:    "block_without_lines",
			cfg:     Config{Block: &BlockArgs{Start: "s", End: "e"}},
			wantErr: "at least one line",
		},
		{
			name:    "replace_re_without_pattern",
			cfg:     Config{ReplaceRe: &ReplaceReArgs{Replacement: "x"}},
			wantErr: "requires a pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMerge(t *testing.T) {
	recipe := &Config{
		Path:      "from-recipe.conf",
		Force:     true,
		Protected: []string{"/etc/**"},
		Replace:   &ReplaceArgs{From: "a", To: "b"},
	}

	t.Run("flags_override", func(t *testing.T) {
		flags := &Config{
			Path:      "from-flags.conf",
			Quiet:     true,
			Protected: []string{"/boot/**"},
			Line:      ptr("x"),
		}
		got := Merge(recipe, flags)

		assert.Equal(t, "from-flags.conf", got.Path)
		assert.True(t, got.Force, "recipe boolean should survive")
		assert.True(t, got.Quiet, "flag boolean should be set")
		assert.Equal(t, []string{"/etc/**", "/boot/**"}, got.Protected)
		require.NotNil(t, got.Line)
		assert.Nil(t, got.Replace, "flag operation replaces recipe operation")
		assert.Equal(t, []string{"/etc/**"}, recipe.Protected, "recipe must not be modified")
	})

	t.Run("recipe_operation_kept", func(t *testing.T) {
		got := Merge(recipe, &Config{IdempotentFail: true})

		assert.Equal(t, "from-recipe.conf", got.Path)
		assert.True(t, got.IdempotentFail)
		require.NotNil(t, got.Replace)
		assert.Equal(t, "a", got.Replace.From)
	})

	t.Run("no_recipe", func(t *testing.T) {
		got := Merge(nil, &Config{Path: "a", NoColor: true})
		assert.Equal(t, "a", got.Path)
		assert.True(t, got.NoColor)
	})
}

func TestOperation(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantKind status.OperationKind
		wantErr  error
	}{
		{name: "line", cfg: Config{Line: ptr("a")}, wantKind: status.KindEnsureLine},
		{
			name:     "block",
			cfg:      Config{Block: &BlockArgs{Lines: []string{"x"}, Start: "s", End: "e"}},
			wantKind: status.KindEnsureBlock,
		},
		{name: "replace", cfg: Config{Replace: &ReplaceArgs{From: "a", To: "b"}}, wantKind: status.KindReplaceExact},
		{
			name:     "replace_re",
			cfg:      Config{ReplaceRe: &ReplaceReArgs{Pattern: `a(\d)`, Replacement: `b\1`}},
			wantKind: status.KindReplacePattern,
		},
		{name: "none", cfg: Config{}, wantErr: ErrNoOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := tt.cfg.Operation()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, op.Kind())
		})
	}

	t.Run("invalid_pattern", func(t *testing.T) {
		cfg := Config{ReplaceRe: &ReplaceReArgs{Pattern: "(", Replacement: "x"}}
		_, err := cfg.Operation()
		require.Error(t, err)
	})

	t.Run("empty_line", func(t *testing.T) {
		cfg := Config{Line: ptr("")}
		_, err := cfg.Operation()
		require.Error(t, err)
	})

	t.Run("replace_re_uses_backrefs", func(t *testing.T) {
		cfg := Config{ReplaceRe: &ReplaceReArgs{Pattern: `^v=(\d+)$`, Replacement: `v=\1\1`}}
		op, err := cfg.Operation()
		require.NoError(t, err)

		result, err := op.Apply(context.Background(), "v=4\n")
		require.NoError(t, err)
		assert.Equal(t, "v=44\n", result.ModifiedContent)
		assert.IsType(t, &text.ReplacePattern{}, op)
	})
}

func TestString(t *testing.T) {
	cfg := &Config{Path: "a.conf", Line: ptr("x"), Force: true}
	assert.Equal(t, "a.conf <- line (force=true quiet=false idempotent_fail=false)", cfg.String())
}
