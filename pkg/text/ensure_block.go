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
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/walteh/ensurefile/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ErrMarkerOrder is returned when the end marker is found before the start marker
var ErrMarkerOrder = errors.Base("end marker appears before start marker")

// EnsureBlock makes sure a marker-delimited block holds exactly Lines
type EnsureBlock struct {
	Lines []string
	Start string
	End   string
}

// NewEnsureBlock creates a new EnsureBlock
func NewEnsureBlock(lines []string, start, end string) (*EnsureBlock, error) {
	if start == "" {
		return nil, errors.New("start marker is required")
	}
	if end == "" {
		return nil, errors.New("end marker is required")
	}
	if start == end {
		return nil, errors.Errorf("start and end markers must differ, both are %q", start)
	}
	return &EnsureBlock{
		Lines: slices.Clone(lines),
		Start: start,
		End:   end,
	}, nil
}

func (o *EnsureBlock) Kind() status.OperationKind { return status.KindEnsureBlock }

func (o *EnsureBlock) RequiresExisting() bool { return false }

// Canonical returns the exact text the delimited region should contain
func (o *EnsureBlock) Canonical() string {
	parts := make([]string, 0, len(o.Lines)+2)
	parts = append(parts, o.Start)
	parts = append(parts, o.Lines...)
	parts = append(parts, o.End)
	return strings.Join(parts, "\n")
}

// span returns the byte range [start, end) covering the first start marker
// through the end of the first end marker. ok is false when either marker
// is missing.
func (o *EnsureBlock) span(content string) (start, end int, ok bool, err error) {
	start = strings.Index(content, o.Start)
	end = strings.Index(content, o.End)
	if start < 0 || end < 0 {
		return 0, 0, false, nil
	}
	if end < start+len(o.Start) {
		return 0, 0, false, errors.Errorf("%w: start %q, end %q", ErrMarkerOrder, o.Start, o.End)
	}
	return start, end + len(o.End), true, nil
}

// Apply replaces the marker span with the canonical block, or appends the
// block when the markers are not both present
func (o *EnsureBlock) Apply(ctx context.Context, old string) (*Result, error) {
	result := newResult(old)
	block := o.Canonical()

	start, end, found, err := o.span(old)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	if found {
		before := strings.TrimRightFunc(old[:start], unicode.IsSpace)
		after := strings.TrimLeftFunc(old[end:], unicode.IsSpace)
		if before != "" {
			b.WriteString(before)
			b.WriteString("\n")
		}
		b.WriteString(block)
		b.WriteString("\n")
		b.WriteString(after)
		result.MatchCount = 1
	} else {
		prefix := strings.TrimRightFunc(old, unicode.IsSpace)
		if prefix != "" {
			b.WriteString(prefix)
			b.WriteString("\n")
		}
		b.WriteString(block)
		b.WriteString("\n")
	}

	modified := strings.TrimRight(b.String(), "\n") + "\n"

	zerolog.Ctx(ctx).Debug().
		Bool("markers_found", found).
		Int("block_lines", len(o.Lines)).
		Msg("computed block")

	if modified == old {
		result.Outcome = status.OutcomeAlreadyCorrect
		return result, nil
	}

	result.Outcome = status.OutcomeChanged
	result.ModifiedContent = modified
	result.ChangeCount = 1
	return result, nil
}
