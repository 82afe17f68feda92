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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/ensurefile/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNoOperation is returned when neither the recipe nor the flags select an operation
	ErrNoOperation = errors.Base("no operation selected: use one of --line, --block, --replace, --replace-re")

	// ErrMultipleOperations is returned when more than one operation is selected
	ErrMultipleOperations = errors.Base("only one operation may be selected")
)

// 🔌 Parser is the interface for recipe parsers
type Parser interface {
	// 📝 Parse parses the recipe from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🧱 BlockArgs are the operands of an ensure-block operation
type BlockArgs struct {
	Lines []string `json:"lines" yaml:"lines"`
	Start string   `json:"start" yaml:"start"`
	End   string   `json:"end" yaml:"end"`
}

// 🔄 ReplaceArgs are the operands of an exact replacement
type ReplaceArgs struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// 🔎 ReplaceReArgs are the operands of a pattern replacement
type ReplaceReArgs struct {
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// 📚 Config is one edit recipe: a target, its flags and at most one operation
type Config struct {
	Path           string   `json:"path,omitempty" yaml:"path,omitempty"`
	Force          bool     `json:"force,omitempty" yaml:"force,omitempty"`
	Quiet          bool     `json:"quiet,omitempty" yaml:"quiet,omitempty"`
	IdempotentFail bool     `json:"idempotent_fail,omitempty" yaml:"idempotent_fail,omitempty"`
	NoColor        bool     `json:"no_color,omitempty" yaml:"no_color,omitempty"`
	Protected      []string `json:"protected,omitempty" yaml:"protected,omitempty"`

	Line      *string        `json:"line,omitempty" yaml:"line,omitempty"`
	Block     *BlockArgs     `json:"block,omitempty" yaml:"block,omitempty"`
	Replace   *ReplaceArgs   `json:"replace,omitempty" yaml:"replace,omitempty"`
	ReplaceRe *ReplaceReArgs `json:"replace_re,omitempty" yaml:"replace_re,omitempty"`
}

// 🎯 Load loads a recipe from a file. The parser is chosen by extension.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading recipe")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading recipe file: %w", err)
	}

	p := GetParser(strings.ToLower(filepath.Base(path)))
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing recipe %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating recipe %s: %w", path, err)
	}

	logger.Debug().Str("recipe", cfg.String()).Msg("recipe loaded")
	return cfg, nil
}

// selected lists the operations set on cfg, by flag name
func (cfg *Config) selected() []string {
	var names []string
	if cfg.Line != nil {
		names = append(names, "line")
	}
	if cfg.Block != nil {
		names = append(names, "block")
	}
	if cfg.Replace != nil {
		names = append(names, "replace")
	}
	if cfg.ReplaceRe != nil {
		names = append(names, "replace-re")
	}
	return names
}

// 🔍 Validate checks that at most one operation is set and that its
// operands are complete
func (cfg *Config) Validate() error {
	if names := cfg.selected(); len(names) > 1 {
		return errors.Errorf("%w, got %s", ErrMultipleOperations, strings.Join(names, ", "))
	}

	if cfg.Block != nil {
		if cfg.Block.Start == "" || cfg.Block.End == "" {
			return errors.New("block requires both start and end markers")
		}
		if len(cfg.Block.Lines) == 0 {
			return errors.New("block requires at least one line")
		}
	}
	if cfg.ReplaceRe != nil && cfg.ReplaceRe.Pattern == "" {
		return errors.New("replace_re requires a pattern")
	}

	if cfg.Path != "" {
		cfg.Path = filepath.Clean(cfg.Path)
	}
	return nil
}

// 🔀 Merge overlays the command line onto a recipe: booleans are OR-ed, a
// non-empty path and a selected operation replace the recipe's, protected
// patterns accumulate
func Merge(recipe, flags *Config) *Config {
	if recipe == nil {
		recipe = &Config{}
	}
	if flags == nil {
		flags = &Config{}
	}

	out := *recipe
	out.Protected = append(append([]string{}, recipe.Protected...), flags.Protected...)
	out.Force = recipe.Force || flags.Force
	out.Quiet = recipe.Quiet || flags.Quiet
	out.IdempotentFail = recipe.IdempotentFail || flags.IdempotentFail
	out.NoColor = recipe.NoColor || flags.NoColor

	if flags.Path != "" {
		out.Path = flags.Path
	}
	if len(flags.selected()) > 0 {
		out.Line = flags.Line
		out.Block = flags.Block
		out.Replace = flags.Replace
		out.ReplaceRe = flags.ReplaceRe
	}
	return &out
}

// 🛠️ Operation builds the text operation the config selects
func (cfg *Config) Operation() (text.Operation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch {
	case cfg.Line != nil:
		return text.NewEnsureLine(*cfg.Line)
	case cfg.Block != nil:
		return text.NewEnsureBlock(cfg.Block.Lines, cfg.Block.Start, cfg.Block.End)
	case cfg.Replace != nil:
		return text.NewReplaceExact(cfg.Replace.From, cfg.Replace.To), nil
	case cfg.ReplaceRe != nil:
		return text.NewReplacePattern(cfg.ReplaceRe.Pattern, cfg.ReplaceRe.Replacement)
	default:
		return nil, ErrNoOperation
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	op := "none"
	if names := cfg.selected(); len(names) > 0 {
		op = strings.Join(names, "+")
	}
	return fmt.Sprintf("%s <- %s (force=%t quiet=%t idempotent_fail=%t)", cfg.Path, op, cfg.Force, cfg.Quiet, cfg.IdempotentFail)
}
