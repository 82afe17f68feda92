// Package text computes the new content of a file for each edit operation.
// Every transform is pure: it takes the current content and reports what it
// found and what the content should become.
package text

import (
	"context"
	"strings"

	"github.com/walteh/ensurefile/pkg/status"
)

// Operation is one of the four edit operations
type Operation interface {
	// Kind names the operation for messages and logs
	Kind() status.OperationKind

	// RequiresExisting reports whether an absent file is a hard stop
	// rather than empty content
	RequiresExisting() bool

	// Apply computes the result of the operation against old content
	Apply(ctx context.Context, old string) (*Result, error)
}

// Result contains the results of applying an operation
type Result struct {
	// Outcome is one of NoMatch, AlreadyCorrect or Changed
	Outcome status.Outcome

	// OriginalContent is the content before the edit
	OriginalContent string

	// ModifiedContent is the content after the edit; equal to
	// OriginalContent unless Outcome is Changed
	ModifiedContent string

	// MatchCount is the number of lines (or blocks) the operation matched
	MatchCount int

	// ChangeCount is the number of lines whose text actually changed
	ChangeCount int
}

// SplitLines splits content into lines without their terminators. "\n",
// "\r\n" and "\r" all end a line; a terminator at the very end does not
// start an extra empty line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines joins lines with "\n" and terminates the result with exactly one "\n"
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}

func containsLineBreak(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}

func newResult(old string) *Result {
	return &Result{
		OriginalContent: old,
		ModifiedContent: old,
	}
}
