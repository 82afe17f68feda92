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
	"slices"

	"github.com/rs/zerolog"
	"github.com/walteh/ensurefile/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// EnsureLine makes sure a literal line is present somewhere in the file
type EnsureLine struct {
	Line string
}

// NewEnsureLine creates a new EnsureLine
func NewEnsureLine(line string) (*EnsureLine, error) {
	if line == "" {
		return nil, errors.New("line is required")
	}
	if containsLineBreak(line) {
		return nil, errors.Errorf("line %q must not contain a line break", line)
	}
	return &EnsureLine{Line: line}, nil
}

func (o *EnsureLine) Kind() status.OperationKind { return status.KindEnsureLine }

func (o *EnsureLine) RequiresExisting() bool { return false }

// Apply appends the line unless a line with exactly the same text exists
func (o *EnsureLine) Apply(ctx context.Context, old string) (*Result, error) {
	result := newResult(old)
	lines := SplitLines(old)

	if slices.Contains(lines, o.Line) {
		result.Outcome = status.OutcomeAlreadyCorrect
		result.MatchCount = 1
		zerolog.Ctx(ctx).Debug().Str("line", o.Line).Msg("line already present")
		return result, nil
	}

	result.Outcome = status.OutcomeChanged
	result.ModifiedContent = JoinLines(append(lines, o.Line))
	result.ChangeCount = 1
	zerolog.Ctx(ctx).Debug().Str("line", o.Line).Int("existing_lines", len(lines)).Msg("appending line")
	return result, nil
}
