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

package text

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/ensurefile/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ReplacePattern substitutes every match of Pattern, line by line
type ReplacePattern struct {
	Pattern *regexp.Regexp

	// Replacement is a regexp.Expand template built by ExpandBackrefs
	Replacement string
}

// NewReplacePattern compiles pattern and converts replacement to a Go
// expansion template. \1 and \g<name> are back-references, \\ stands for a
// literal backslash and $ is always literal.
func NewReplacePattern(pattern, replacement string) (*ReplacePattern, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Errorf("compiling pattern %q: %w", pattern, err)
	}
	return &ReplacePattern{
		Pattern:     re,
		Replacement: ExpandBackrefs(replacement),
	}, nil
}

func (o *ReplacePattern) Kind() status.OperationKind { return status.KindReplacePattern }

func (o *ReplacePattern) RequiresExisting() bool { return true }

// Apply implements Operation.Apply. Matching and changing are tracked
// separately: a pattern may match and still substitute to the same text.
func (o *ReplacePattern) Apply(ctx context.Context, old string) (*Result, error) {
	result := newResult(old)
	lines := SplitLines(old)

	for i, line := range lines {
		if !o.Pattern.MatchString(line) {
			continue
		}
		result.MatchCount++
		replaced := o.Pattern.ReplaceAllString(line, o.Replacement)
		if replaced != line {
			lines[i] = replaced
			result.ChangeCount++
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("pattern", o.Pattern.String()).
		Int("matches", result.MatchCount).
		Int("changes", result.ChangeCount).
		Msg("replaced pattern lines")

	return finish(result, lines), nil
}

// ExpandBackrefs rewrites \N and \g<name> back-references into ${N} and
// ${name} and escapes every $ as $$, so "$HOME" stays "$HOME" after
// expansion.
func ExpandBackrefs(s string) string {
	if !strings.ContainsAny(s, `\$`) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '$' {
			b.WriteString("$$")
			continue
		}
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}

		next := s[i+1]
		switch {
		case next == '\\':
			b.WriteByte('\\')
			i++
		case next >= '0' && next <= '9':
			j := i + 1
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			b.WriteString("${" + s[i+1:j] + "}")
			i = j - 1
		case next == 'g' && i+2 < len(s) && s[i+2] == '<':
			closing := strings.IndexByte(s[i+3:], '>')
			if closing < 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteString("${" + s[i+3:i+3+closing] + "}")
			i = i + 3 + closing
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
