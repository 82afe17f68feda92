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

package status

import (
	"fmt"
)

// Formatter defines the one-line messages printed for each terminal outcome
type Formatter interface {
	// FormatNoMatch is printed when a replace operation found nothing to act on
	FormatNoMatch(kind OperationKind, path string) string

	// FormatAlreadyCorrect is printed when the target already holds the wanted content
	FormatAlreadyCorrect(kind OperationKind, path string) string

	// FormatNoChange is printed by the gate when old and new content are equal
	FormatNoChange(path string) string

	// FormatUpdated is printed after a successful write
	FormatUpdated(path string) string

	// FormatDeclined is printed when the user refused an offered change
	FormatDeclined(path string) string

	// FormatNotFound is printed when a required file is absent
	FormatNotFound(path string) string

	// FormatPermissionDenied is printed when the store refused access
	FormatPermissionDenied(path string) string

	// FormatError formats an unexpected failure
	FormatError(err error) string
}

// DefaultFormatter provides the default message wording
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

func (f *DefaultFormatter) FormatNoMatch(kind OperationKind, path string) string {
	if kind == KindReplacePattern {
		return fmt.Sprintf("No regex matches found in %s", path)
	}
	return fmt.Sprintf("No exact match found for replacement in %s", path)
}

func (f *DefaultFormatter) FormatAlreadyCorrect(kind OperationKind, path string) string {
	switch kind {
	case KindEnsureLine:
		return fmt.Sprintf("Line already present in %s", path)
	case KindEnsureBlock:
		return fmt.Sprintf("Block already correct in %s", path)
	case KindReplaceExact:
		return fmt.Sprintf("Line matched but already correct in %s", path)
	case KindReplacePattern:
		return fmt.Sprintf("Regex match found, but no changes needed in %s", path)
	default:
		return f.FormatNoChange(path)
	}
}

func (f *DefaultFormatter) FormatNoChange(path string) string {
	return fmt.Sprintf("No changes needed for %s", path)
}

func (f *DefaultFormatter) FormatUpdated(path string) string {
	return fmt.Sprintf("Updated %s", path)
}

func (f *DefaultFormatter) FormatDeclined(path string) string {
	return fmt.Sprintf("Changes not applied to %s", path)
}

func (f *DefaultFormatter) FormatNotFound(path string) string {
	return fmt.Sprintf("File not found: %s", path)
}

func (f *DefaultFormatter) FormatPermissionDenied(path string) string {
	return fmt.Sprintf("Permission denied: %s", path)
}

// FormatError formats an error message
func (f *DefaultFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Unhandled error: %v", err)
}
