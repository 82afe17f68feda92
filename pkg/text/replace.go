package text

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/ensurefile/pkg/status"
)

// ReplaceExact replaces every line equal to From with To
type ReplaceExact struct {
	From string
	To   string
}

// NewReplaceExact creates a new ReplaceExact
func NewReplaceExact(from, to string) *ReplaceExact {
	return &ReplaceExact{From: from, To: to}
}

func (o *ReplaceExact) Kind() status.OperationKind { return status.KindReplaceExact }

func (o *ReplaceExact) RequiresExisting() bool { return true }

// Apply implements Operation.Apply
func (o *ReplaceExact) Apply(ctx context.Context, old string) (*Result, error) {
	result := newResult(old)
	lines := SplitLines(old)

	for i, line := range lines {
		if line != o.From {
			continue
		}
		result.MatchCount++
		if line != o.To {
			lines[i] = o.To
			result.ChangeCount++
		}
	}

	zerolog.Ctx(ctx).Debug().
		Int("matches", result.MatchCount).
		Int("changes", result.ChangeCount).
		Msg("replaced exact lines")

	return finish(result, lines), nil
}

// finish classifies a line-oriented result from its match and change counts
func finish(result *Result, lines []string) *Result {
	switch {
	case result.MatchCount == 0:
		result.Outcome = status.OutcomeNoMatch
	case result.ChangeCount == 0:
		result.Outcome = status.OutcomeAlreadyCorrect
	default:
		result.Outcome = status.OutcomeChanged
		result.ModifiedContent = JoinLines(lines)
	}
	return result
}
